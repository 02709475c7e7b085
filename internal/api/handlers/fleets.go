package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"blockload-solver/internal/api/models"
	"blockload-solver/internal/config"
)

// FleetHandler serves the fleet definitions available on disk.
type FleetHandler struct {
	fleetDir string
}

func NewFleetHandler() *FleetHandler {
	dir := os.Getenv("FLEET_DIR")
	if dir == "" {
		dir = "./examples/fleets"
	}
	return &FleetHandler{fleetDir: dir}
}

func (h *FleetHandler) GetFleetDir() string { return h.fleetDir }

// ListFleets handles GET /api/v1/fleets.
func (h *FleetHandler) ListFleets(c *gin.Context) {
	entries, err := os.ReadDir(h.fleetDir)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"fleets": []models.FleetInfo{}})
		return
	}

	fleets := make([]models.FleetInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		cfg, err := config.LoadUnchecked(filepath.Join(h.fleetDir, e.Name()))
		if err != nil || len(cfg.Fleet) == 0 {
			continue
		}
		info := models.FleetInfo{ID: strings.TrimSuffix(e.Name(), ".yaml")}
		for _, u := range cfg.Fleet {
			info.Units = append(info.Units, models.UnitInput{
				Name:          u.Name,
				PminMW:        u.PminMW,
				PmaxMW:        u.PmaxMW,
				StartCost:     u.StartCost,
				FuelCost:      u.FuelCost,
				MinOnPeriods:  u.MinOnPeriods,
				MinOffPeriods: u.MinOffPeriods,
			})
		}
		fleets = append(fleets, info)
	}

	c.JSON(http.StatusOK, gin.H{"fleets": fleets})
}
