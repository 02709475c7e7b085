package commitment

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"blockload-solver/internal/model"
)

// WriteScheduleCSV dumps the solved schedule, one row per timestep, with
// per-unit dispatch and commitment columns appended after the aggregates.
func WriteScheduleCSV(path string, in *model.Inputs, primal *model.Primal) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"index",
		"timestamp_utc",
		"demand_mw",
		"renewables_mw",
		"target_mw",
		"served_mw",
		"units_on",
		"dispatch_total_mw",
	}
	for _, unit := range in.Fleet {
		header = append(header,
			fmt.Sprintf("p_%s_mw", unit.Name),
			fmt.Sprintf("status_%s", unit.Name),
		)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for t := 0; t < in.T(); t++ {
		row := []string{
			strconv.Itoa(t),
			fmtTime(in.Timestamps[t]),
			fmtFloat(in.DemandMW[t]),
			fmtFloat(in.RenewablesMW[t]),
			fmtFloat(in.TargetMW[t]),
			fmtFloat(primal.ServedMW[t]),
			strconv.Itoa(primal.UnitsOn(t)),
			fmtFloat(primal.TotalDispatchMW(t)),
		}
		for i := range in.Fleet {
			status := "OFF"
			if primal.On[i][t] {
				status = "ON"
			}
			row = append(row, fmtFloat(primal.Dispatch[i][t]), status)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
