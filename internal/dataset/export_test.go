package dataset

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"tarediiran-industries.com/citibike-services/internal/stations"
)

func TestWriteStationsXLSX(t *testing.T) {
	table, err := stations.NewTable([]stations.Record{
		{StationName: "A", VehicleType: stations.Classic, Season: stations.Summer, TotalTrips: 4, StationGrandTotal: 4},
		{StationName: "B", VehicleType: stations.Electric, Season: stations.Summer, TotalTrips: 6, StationGrandTotal: 9},
		{StationName: "B", VehicleType: stations.Classic, Season: stations.Winter, TotalTrips: 3, StationGrandTotal: 9},
	})
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	summary := stations.Summarize(stations.Tables{Starts: table, Ends: table}, stations.ViewEnds, []stations.Season{stations.Summer})

	var buf bytes.Buffer
	if err := WriteStationsXLSX(&buf, summary); err != nil {
		t.Fatalf("WriteStationsXLSX() error = %v", err)
	}

	file, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows("Stations")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}

	if len(rows) != 5 {
		t.Fatalf("len(rows) = %d, want 5: %v", len(rows), rows)
	}
	if rows[0][0] != "End Station" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "B" || rows[1][3] != "6" || rows[1][4] != "9" {
		t.Errorf("first ranked row = %v", rows[1])
	}
	if rows[2][0] != "A" {
		t.Errorf("second ranked row = %v", rows[2])
	}
	if len(rows[3]) != 0 {
		t.Errorf("spacer row = %v, want empty", rows[3])
	}
	if rows[4][0] != "Total Bike Rides" || rows[4][2] != "summer" || rows[4][3] != "10" {
		t.Errorf("footer = %v", rows[4])
	}
}
