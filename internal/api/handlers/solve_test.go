package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"blockload-solver/internal/api/models"
	"blockload-solver/internal/commitment"
	"blockload-solver/internal/milp"
	"blockload-solver/internal/model"
)

type scriptedSolver struct {
	outcome func(m *milp.Model, opts milp.Options) (*milp.Solution, error)
}

func (s *scriptedSolver) Solve(_ context.Context, m *milp.Model, opts milp.Options) (*milp.Solution, error) {
	return s.outcome(m, opts)
}

func newRouter(solver milp.Solver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/solve", NewSolveHandler(solver).RunSolve)
	return router
}

func solveRequest() models.SolveRequest {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	points := func(mw float64) []models.PointInput {
		out := make([]models.PointInput, 4)
		for i := range out {
			out[i] = models.PointInput{
				TimestampUTC: start.Add(time.Duration(i) * model.SettlementPeriod),
				MW:           mw,
			}
		}
		return out
	}
	return models.SolveRequest{
		Series: models.SeriesInput{
			Demand: points(50),
			Wind:   points(0),
			Solar:  points(0),
		},
		Fleet: []models.UnitInput{
			{Name: "g1", PmaxMW: 100, FuelCost: 10, MinOnPeriods: 1, MinOffPeriods: 1},
		},
		RestartTargets: []models.TargetInput{{Days: 1.5 / 24, Proportion: 1.0}},
		BlockLimitMW:   25,
	}
}

func postSolve(t *testing.T, router *gin.Engine, req models.SolveRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, httpReq)
	return w
}

func TestRunSolve_Optimal(t *testing.T) {
	solver := &scriptedSolver{outcome: func(m *milp.Model, opts milp.Options) (*milp.Solution, error) {
		return &milp.Solution{
			Status: milp.StatusOptimal,
			Values: make([]float64, m.VarCount()),
		}, nil
	}}

	req := solveRequest()
	req.Options.IncludeSchedule = true
	w := postSolve(t, newRouter(solver), req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.SolveResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	assert.Equal(t, "optimal", resp.Status)
	assert.NotEmpty(t, resp.RunID)
	assert.NotNil(t, resp.Objective)
	assert.NotNil(t, resp.Cost)
	assert.Len(t, resp.Schedule, 4)
	assert.Len(t, resp.Schedule[0].Units, 1)
	assert.Nil(t, resp.Diagnosis)
}

func TestRunSolve_ScheduleOmittedByDefault(t *testing.T) {
	solver := &scriptedSolver{outcome: func(m *milp.Model, opts milp.Options) (*milp.Solution, error) {
		return &milp.Solution{Status: milp.StatusOptimal, Values: make([]float64, m.VarCount())}, nil
	}}

	w := postSolve(t, newRouter(solver), solveRequest())

	var resp models.SolveResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	assert.Empty(t, resp.Schedule)
}

func TestRunSolve_InfeasibleReturnsDiagnosis(t *testing.T) {
	solver := &scriptedSolver{outcome: func(m *milp.Model, opts milp.Options) (*milp.Solution, error) {
		if opts.Omit == commitment.GroupCoolDown {
			return &milp.Solution{Status: milp.StatusOptimal, Values: make([]float64, m.VarCount())}, nil
		}
		return &milp.Solution{Status: milp.StatusInfeasible}, nil
	}}

	w := postSolve(t, newRouter(solver), solveRequest())

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.SolveResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	assert.Equal(t, "infeasible", resp.Status)
	assert.Nil(t, resp.Objective)
	if assert.NotNil(t, resp.Diagnosis) {
		assert.Equal(t, commitment.ConditionCoolDown, resp.Diagnosis.Condition)
		assert.True(t, resp.Diagnosis.PerGroupFeasibility[commitment.GroupCoolDown])
		assert.False(t, resp.Diagnosis.PerGroupFeasibility[commitment.GroupDemand])
	}
}

func TestRunSolve_InvalidInput(t *testing.T) {
	solver := &scriptedSolver{outcome: func(m *milp.Model, opts milp.Options) (*milp.Solution, error) {
		t.Fatal("solver must not be reached for invalid input")
		return nil, nil
	}}

	req := solveRequest()
	req.BlockLimitMW = -5
	w := postSolve(t, newRouter(solver), req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRunSolve_MalformedBody(t *testing.T) {
	router := newRouter(&scriptedSolver{outcome: func(m *milp.Model, opts milp.Options) (*milp.Solution, error) {
		return nil, nil
	}})

	w := httptest.NewRecorder()
	httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/solve", bytes.NewReader([]byte("{")))
	httpReq.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, httpReq)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
