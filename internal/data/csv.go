package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"blockload-solver/internal/model"
)

// LoadSeriesCSV reads a half-hourly MW series from a CSV file with the
// header "timestamp_utc,mw". Timestamps are RFC3339.
func LoadSeriesCSV(path string) (model.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	if len(rows[0]) < 2 || rows[0][0] != "timestamp_utc" || rows[0][1] != "mw" {
		return nil, fmt.Errorf("%s: expected header timestamp_utc,mw", path)
	}

	series := make(model.Series, 0, len(rows)-1)
	for i, row := range rows[1:] {
		ts, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad timestamp: %w", path, i+2, err)
		}
		mw, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad mw: %w", path, i+2, err)
		}
		series = append(series, model.SeriesPoint{Timestamp: ts.UTC(), MW: mw})
	}
	return series, nil
}
