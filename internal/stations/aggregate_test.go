package stations

import (
	"errors"
	"slices"
	"testing"
)

func mustTable(t *testing.T, records []Record) Table {
	t.Helper()
	table, err := NewTable(records)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return table
}

func exampleTable(t *testing.T) Table {
	return mustTable(t, []Record{
		{StationName: "A", VehicleType: Classic, Season: Summer, TotalTrips: 10, StationGrandTotal: 50},
		{StationName: "A", VehicleType: Electric, Season: Summer, TotalTrips: 40, StationGrandTotal: 50},
		{StationName: "B", VehicleType: Classic, Season: Summer, TotalTrips: 30, StationGrandTotal: 30},
	})
}

func seasonalTable(t *testing.T) Table {
	return mustTable(t, []Record{
		{StationName: "W 21 St & 6 Ave", VehicleType: Electric, Season: Winter, TotalTrips: 5, StationGrandTotal: 45},
		{StationName: "W 21 St & 6 Ave", VehicleType: Classic, Season: Summer, TotalTrips: 25, StationGrandTotal: 45},
		{StationName: "W 21 St & 6 Ave", VehicleType: Electric, Season: Summer, TotalTrips: 15, StationGrandTotal: 45},
		{StationName: "West St & Chambers St", VehicleType: Electric, Season: Fall, TotalTrips: 20, StationGrandTotal: 32},
		{StationName: "West St & Chambers St", VehicleType: Classic, Season: Spring, TotalTrips: 12, StationGrandTotal: 32},
		{StationName: "Broadway & W 58 St", VehicleType: Classic, Season: Winter, TotalTrips: 7, StationGrandTotal: 7},
	})
}

func TestSummarize_Example(t *testing.T) {
	tables := Tables{Starts: exampleTable(t)}
	summary := Summarize(tables, ViewStarts, []Season{Summer})

	if summary.Filtered.Len() != 3 {
		t.Errorf("Filtered.Len() = %d, want 3", summary.Filtered.Len())
	}
	if summary.GrandTotal != 80 {
		t.Errorf("GrandTotal = %d, want 80", summary.GrandTotal)
	}
	if want := []string{"A", "B"}; !slices.Equal(summary.Ranking, want) {
		t.Errorf("Ranking = %v, want %v", summary.Ranking, want)
	}
}

func TestSummarize_NoMatchingSeason(t *testing.T) {
	tables := Tables{Starts: exampleTable(t)}
	summary := Summarize(tables, ViewStarts, []Season{Winter})

	if summary.Filtered.Len() != 0 {
		t.Errorf("Filtered.Len() = %d, want 0", summary.Filtered.Len())
	}
	if summary.GrandTotal != 0 {
		t.Errorf("GrandTotal = %d, want 0", summary.GrandTotal)
	}
	if len(summary.Ranking) != 0 {
		t.Errorf("Ranking = %v, want empty", summary.Ranking)
	}
}

func TestSummarize_UsesSelectedView(t *testing.T) {
	tables := Tables{Starts: exampleTable(t), Ends: seasonalTable(t)}

	if got := Summarize(tables, ViewEnds, AllSeasons).GrandTotal; got != 84 {
		t.Errorf("ends GrandTotal = %d, want 84", got)
	}
	if got := Summarize(tables, ViewEnds.Toggle(), AllSeasons).GrandTotal; got != 80 {
		t.Errorf("starts GrandTotal = %d, want 80", got)
	}
}

func TestGrandTotal_MatchesFilteredSum(t *testing.T) {
	table := seasonalTable(t)
	selections := [][]Season{
		nil,
		{Winter},
		{Summer, Fall},
		{Spring, Summer, Fall, Winter},
		{Summer, Summer},
	}

	for _, seasons := range selections {
		var want int64
		for _, record := range table.Records() {
			if slices.Contains(seasons, record.Season) {
				want += record.TotalTrips
			}
		}
		if got := GrandTotal(FilterBySeasons(table, seasons)); got != want {
			t.Errorf("GrandTotal(FilterBySeasons(%v)) = %d, want %d", seasons, got, want)
		}
	}
}

func TestFilterBySeasons_PreservesOrderAndIsIdempotent(t *testing.T) {
	table := seasonalTable(t)
	seasons := []Season{Winter, Summer}

	once := FilterBySeasons(table, seasons)
	twice := FilterBySeasons(once, seasons)

	if !slices.Equal(once.Records(), twice.Records()) {
		t.Errorf("second filter changed rows: %v -> %v", once.Records(), twice.Records())
	}

	var want []Record
	for _, record := range table.Records() {
		if record.Season == Winter || record.Season == Summer {
			want = append(want, record)
		}
	}
	if !slices.Equal(once.Records(), want) {
		t.Errorf("FilterBySeasons() = %v, want %v", once.Records(), want)
	}
}

func TestFilterBySeasons_DoesNotMutateInput(t *testing.T) {
	table := seasonalTable(t)
	before := table.Records()

	_ = FilterBySeasons(table, []Season{Fall})
	_ = RankRows(table, TieBreakVehicleType)

	if !slices.Equal(before, table.Records()) {
		t.Error("input table changed")
	}
}

func TestRankStations_EachStationOnceInDescendingOrder(t *testing.T) {
	table := seasonalTable(t)
	ranking := RankStations(table, TieBreakVehicleType)

	want := []string{"W 21 St & 6 Ave", "West St & Chambers St", "Broadway & W 58 St"}
	if !slices.Equal(ranking, want) {
		t.Errorf("RankStations() = %v, want %v", ranking, want)
	}
}

func TestRankRows_Ordering(t *testing.T) {
	rows := RankRows(seasonalTable(t), TieBreakVehicleType)

	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1], rows[i]
		if prev.StationGrandTotal < cur.StationGrandTotal {
			t.Fatalf("rows %d,%d not descending by grand total: %v", i-1, i, rows)
		}
		if prev.StationGrandTotal == cur.StationGrandTotal && prev.VehicleType > cur.VehicleType {
			t.Fatalf("rows %d,%d not ascending by vehicle type: %v", i-1, i, rows)
		}
	}

	// Equal (grand total, vehicle type) keys keep table order: the two
	// electric rows of the first station are winter then summer.
	first := rows[1:3]
	if first[0].Season != Winter || first[1].Season != Summer {
		t.Errorf("stable order lost: %v", first)
	}
}

func TestRankRows_TieBreakNoneKeepsTableOrder(t *testing.T) {
	table := mustTable(t, []Record{
		{StationName: "X", VehicleType: Electric, Season: Fall, TotalTrips: 3, StationGrandTotal: 10},
		{StationName: "Y", VehicleType: Classic, Season: Fall, TotalTrips: 10, StationGrandTotal: 10},
		{StationName: "X", VehicleType: Classic, Season: Fall, TotalTrips: 7, StationGrandTotal: 10},
	})

	none := RankStations(table, TieBreakNone)
	if want := []string{"X", "Y"}; !slices.Equal(none, want) {
		t.Errorf("TieBreakNone = %v, want %v", none, want)
	}

	byVehicle := RankStations(table, TieBreakVehicleType)
	if want := []string{"Y", "X"}; !slices.Equal(byVehicle, want) {
		t.Errorf("TieBreakVehicleType = %v, want %v", byVehicle, want)
	}
}

func TestNewTable_RejectsMalformedRows(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		column string
	}{
		{
			name:   "negative total",
			record: Record{StationName: "A", VehicleType: Classic, Season: Summer, TotalTrips: -5, StationGrandTotal: -5},
			column: ColumnTotal,
		},
		{
			name:   "unknown season",
			record: Record{StationName: "A", VehicleType: Classic, Season: "monsoon", TotalTrips: 1, StationGrandTotal: 1},
			column: ColumnSeason,
		},
		{
			name:   "unknown vehicle",
			record: Record{StationName: "A", VehicleType: "docked", Season: Summer, TotalTrips: 1, StationGrandTotal: 1},
			column: ColumnVehicleType,
		},
		{
			name:   "empty station",
			record: Record{StationName: " ", VehicleType: Classic, Season: Summer, TotalTrips: 1, StationGrandTotal: 1},
			column: ColumnStation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			good := Record{StationName: "B", VehicleType: Classic, Season: Summer, TotalTrips: 2, StationGrandTotal: 2}
			table, err := NewTable([]Record{good, tt.record})

			var integrityErr *DataIntegrityError
			if !errors.As(err, &integrityErr) {
				t.Fatalf("error = %v, want *DataIntegrityError", err)
			}
			if integrityErr.Row != 2 {
				t.Errorf("Row = %d, want 2", integrityErr.Row)
			}
			if integrityErr.Column != tt.column {
				t.Errorf("Column = %q, want %q", integrityErr.Column, tt.column)
			}
			if table.Len() != 0 || GrandTotal(table) != 0 {
				t.Error("malformed table must not be aggregated")
			}
		})
	}
}

func TestNewTable_GrandTotalInvariant(t *testing.T) {
	_, err := NewTable([]Record{
		{StationName: "A", VehicleType: Classic, Season: Summer, TotalTrips: 10, StationGrandTotal: 60},
		{StationName: "A", VehicleType: Electric, Season: Summer, TotalTrips: 40, StationGrandTotal: 60},
	})

	var integrityErr *DataIntegrityError
	if !errors.As(err, &integrityErr) {
		t.Fatalf("error = %v, want *DataIntegrityError", err)
	}
	if integrityErr.Column != ColumnGrandTotal {
		t.Errorf("Column = %q, want %q", integrityErr.Column, ColumnGrandTotal)
	}
}

func TestParseRecord(t *testing.T) {
	record, err := ParseRecord(1, " 8 Ave & W 31 St ", "electric_bike", "Summer", 12, 12)
	if err != nil {
		t.Fatalf("ParseRecord() error = %v", err)
	}
	want := Record{StationName: "8 Ave & W 31 St", VehicleType: Electric, Season: Summer, TotalTrips: 12, StationGrandTotal: 12}
	if record != want {
		t.Errorf("ParseRecord() = %+v, want %+v", record, want)
	}

	_, err = ParseRecord(7, "A", "classic_bike", "summer", -5, 10)
	var integrityErr *DataIntegrityError
	if !errors.As(err, &integrityErr) || integrityErr.Row != 7 {
		t.Errorf("ParseRecord(negative) error = %v, want row 7 DataIntegrityError", err)
	}
}

func TestTableSeasons(t *testing.T) {
	got := seasonalTable(t).Seasons()
	want := []Season{Winter, Summer, Fall, Spring}
	if !slices.Equal(got, want) {
		t.Errorf("Seasons() = %v, want %v", got, want)
	}
}
