// Package testutil writes small prepared-data fixtures for package tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// StartStationsCSV totals 84 trips; ranking is W 21 St, West St, Broadway.
const StartStationsCSV = `,start_station_name,rideable_type,season,Total,Grand Total
0,W 21 St & 6 Ave,classic_bike,summer,25,45
1,W 21 St & 6 Ave,electric_bike,summer,15,45
2,W 21 St & 6 Ave,electric_bike,winter,5,45
3,West St & Chambers St,classic_bike,spring,12,32
4,West St & Chambers St,electric_bike,fall,20,32
5,Broadway & W 58 St,classic_bike,winter,7,7
`

// EndStationsCSV totals 62 trips, 52 of them in summer.
const EndStationsCSV = `,end_station_name,rideable_type,season,Total,Grand Total
0,W 21 St & 6 Ave,classic_bike,summer,30,40
1,W 21 St & 6 Ave,electric_bike,fall,10,40
2,1 Ave & E 68 St,electric_bike,summer,22.0,22.0
`

const DailyRidesCSV = `,Date,Daily Rides,Daily Classic Rides,Average Temperature
0,2022-01-01,20428,9000,11.6
1,2022-01-02,43009,20000,11.4
2,2022-01-03,33189,15000,1.4
`

const PaymentsCSV = `member_casual,value
Member,779
Casual,221
`

// DurationsCSV gives a Member median of 550 and a Casual median of 1043.5.
const DurationsCSV = `,trip_duration,member_casual
0,300,Member
1,550,Member
2,800,Member
3,600,Casual
4,887,Casual
5,1200,Casual
6,2000,Casual
`

const MapHTML = `<html><body><div id="kepler-map">Aggregated Bike Trips</div></body></html>`

const MapFile = "Citi_Bike_Trips.html"

// WritePreparedData writes every prepared file into a fresh temp directory
// and returns it with the map path.
func WritePreparedData(tb testing.TB) (dir, mapPath string) {
	tb.Helper()
	dir = tb.TempDir()

	files := map[string]string{
		"DB_bar_chart_start.csv": StartStationsCSV,
		"DB_bar_chart_end.csv":   EndStationsCSV,
		"DB_line_chart_data.csv": DailyRidesCSV,
		"DB_pie_payment.csv":     PaymentsCSV,
		"DB_hist_duration.csv":   DurationsCSV,
		MapFile:                  MapHTML,
	}
	for name, content := range files {
		WriteFile(tb, dir, name, content)
	}
	return dir, filepath.Join(dir, MapFile)
}

func WriteFile(tb testing.TB, dir, name, content string) {
	tb.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		tb.Fatalf("write %s: %v", name, err)
	}
}
