package data

import (
	"encoding/json"
	"fmt"
	"os"

	"blockload-solver/internal/model"
)

// SeriesResponse matches the JSON shape of exported half-hourly series
// files.
//
// Example:
// {
//   "status_code": 200,
//   "data": [ {"timestamp_utc": "...", "mw": 123.4}, ... ]
// }
type SeriesResponse struct {
	StatusCode int          `json:"status_code"`
	Data       model.Series `json:"data"`
}

func LoadSeriesJSON(path string) (model.Series, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var resp SeriesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return resp.Data, nil
}
