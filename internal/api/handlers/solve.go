package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blockload-solver/internal/adapter"
	"blockload-solver/internal/analysis"
	"blockload-solver/internal/api/models"
	"blockload-solver/internal/commitment"
	"blockload-solver/internal/milp"
	"blockload-solver/internal/model"
)

// SolveHandler runs block-loading solves against a shared MILP back-end.
type SolveHandler struct {
	solver milp.Solver
}

// NewSolveHandler creates the handler; a nil solver selects the lp_solve
// back-end.
func NewSolveHandler(solver milp.Solver) *SolveHandler {
	if solver == nil {
		solver = milp.NewLPSolve()
	}
	return &SolveHandler{solver: solver}
}

// RunSolve handles POST /api/v1/solve.
func (h *SolveHandler) RunSolve(c *gin.Context) {
	var req models.SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	in, err := adapter.BuildInputs(toRawInputs(req))
	if err != nil {
		badRequest(c, "INVALID_INPUT", err.Error())
		return
	}

	opts := commitment.Options{
		TightenBigM:           req.Options.TightenBigM,
		LinkStartupIndicators: req.Options.LinkStartupIndicators,
		SolveBudget:           time.Duration(req.Options.BudgetSeconds * float64(time.Second)),
		DiagnosisWorkers:      req.Options.DiagnosisWorkers,
	}

	result, err := commitment.Solve(c.Request.Context(), h.solver, in, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "SOLVE_FAILED",
				"message": err.Error(),
				"status":  string(result.Status),
			},
		})
		return
	}

	c.JSON(http.StatusOK, buildResponse(req, in, result))
}

func toRawInputs(req models.SolveRequest) adapter.RawInputs {
	raw := adapter.RawInputs{
		Demand:       toSeries(req.Series.Demand),
		Wind:         toSeries(req.Series.Wind),
		Solar:        toSeries(req.Series.Solar),
		BlockLimitMW: req.BlockLimitMW,
	}
	for _, u := range req.Fleet {
		raw.Fleet = append(raw.Fleet, model.Unit{
			Name:      u.Name,
			PminMW:    u.PminMW,
			PmaxMW:    u.PmaxMW,
			StartCost: u.StartCost,
			FuelCost:  u.FuelCost,
			MinOn:     u.MinOnPeriods,
			MinOff:    u.MinOffPeriods,
		})
	}
	for _, t := range req.RestartTargets {
		raw.Targets = append(raw.Targets, model.RestartTarget{Days: t.Days, Proportion: t.Proportion})
	}
	return raw
}

func toSeries(points []models.PointInput) model.Series {
	series := make(model.Series, len(points))
	for i, p := range points {
		series[i] = model.SeriesPoint{Timestamp: p.TimestampUTC, MW: p.MW}
	}
	return series
}

func buildResponse(req models.SolveRequest, in *model.Inputs, result *commitment.Result) models.SolveResponse {
	resp := models.SolveResponse{
		RunID:  uuid.NewString(),
		Status: string(result.Status),
	}

	if result.Primal != nil {
		obj := result.Primal.Objective
		resp.Objective = &obj
		resp.Cost = toCostSummary(analysis.Compute(in, result.Primal))
		if req.Options.IncludeSchedule {
			resp.Schedule = toScheduleRows(in, result.Primal)
		}
	}

	if result.Diagnosis != nil {
		resp.Diagnosis = &models.DiagnosisResult{
			PerGroupFeasibility: result.Diagnosis.Feasible,
			Condition:           result.Diagnosis.Condition,
		}
	}
	return resp
}

func toCostSummary(b analysis.CostBreakdown) *models.CostSummary {
	out := &models.CostSummary{
		PenaltyCost: b.PenaltyCost,
		FuelCost:    b.FuelCost,
		StartupCost: b.StartupCost,
		Total:       b.Total,
	}
	for _, u := range b.Units {
		out.Units = append(out.Units, models.UnitCostSummary{
			Name:             u.Name,
			CommittedPeriods: u.CommittedPeriods,
			Startups:         u.Startups,
			EnergyMWh:        u.EnergyMWh,
			PeakMW:           u.PeakMW,
			FuelCost:         u.FuelCost,
			StartupCost:      u.StartupCost,
			Utilisation:      u.Utilisation,
		})
	}
	return out
}

func toScheduleRows(in *model.Inputs, primal *model.Primal) []models.ScheduleRow {
	rows := make([]models.ScheduleRow, in.T())
	for t := 0; t < in.T(); t++ {
		row := models.ScheduleRow{
			Index:        t,
			TimestampUTC: in.Timestamps[t],
			DemandMW:     in.DemandMW[t],
			RenewablesMW: in.RenewablesMW[t],
			TargetMW:     in.TargetMW[t],
			ServedMW:     primal.ServedMW[t],
		}
		for i, unit := range in.Fleet {
			row.Units = append(row.Units, models.UnitDispatch{
				Name:       unit.Name,
				On:         primal.On[i][t],
				Started:    primal.Started[i][t],
				DispatchMW: primal.Dispatch[i][t],
			})
		}
		rows[t] = row
	}
	return rows
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
