package commitment

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteScheduleCSV(t *testing.T) {
	in := singleUnitInputs()
	primal := validPrimal()

	path := filepath.Join(t.TempDir(), "schedule.csv")
	if err := WriteScheduleCSV(path, in, primal); err != nil {
		t.Fatalf("WriteScheduleCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	if !assert.Len(t, rows, 5) {
		return
	}
	assert.Equal(t, []string{
		"index", "timestamp_utc", "demand_mw", "renewables_mw", "target_mw",
		"served_mw", "units_on", "dispatch_total_mw", "p_g1_mw", "status_g1",
	}, rows[0])

	// t=1: served 25, one unit on, dispatching 25.
	row := rows[2]
	assert.Equal(t, "1", row[0])
	assert.Equal(t, "2024-01-15T00:30:00Z", row[1])
	assert.Equal(t, "25.000000", row[5])
	assert.Equal(t, "1", row[6])
	assert.Equal(t, "25.000000", row[7])
	assert.Equal(t, "25.000000", row[8])
	assert.Equal(t, "ON", row[9])

	// t=0: cold start, unit off.
	assert.Equal(t, "OFF", rows[1][9])
}
