// Package stations filters, sums and ranks the per-station trip totals behind
// the "Most Popular Stations" view. Every function is pure: tables are never
// mutated and nothing is remembered between calls.
package stations

import (
	"cmp"
	"slices"
)

// FilterBySeasons keeps the rows whose season is selected, in table order.
// Seasons that match nothing simply contribute no rows.
func FilterBySeasons(table Table, seasons []Season) Table {
	if len(seasons) == 0 || len(table.records) == 0 {
		return Table{}
	}

	selected := make(map[Season]bool, len(seasons))
	for _, season := range seasons {
		selected[season] = true
	}

	out := make([]Record, 0, len(table.records))
	for _, record := range table.records {
		if selected[record.Season] {
			out = append(out, record)
		}
	}
	return Table{records: out}
}

// GrandTotal sums TotalTrips; an empty table totals 0.
func GrandTotal(table Table) int64 {
	var total int64
	for _, record := range table.records {
		total += record.TotalTrips
	}
	return total
}

type TieBreak int

const (
	// TieBreakVehicleType orders equal grand totals by ascending vehicle type.
	TieBreakVehicleType TieBreak = iota
	// TieBreakNone keeps table order for equal grand totals.
	TieBreakNone
)

// RankRows orders rows by descending StationGrandTotal, then by the tie-break.
// The sort is stable so fully equal keys keep table order.
func RankRows(table Table, tieBreak TieBreak) []Record {
	rows := slices.Clone(table.records)
	slices.SortStableFunc(rows, func(a, b Record) int {
		if c := cmp.Compare(b.StationGrandTotal, a.StationGrandTotal); c != 0 {
			return c
		}
		if tieBreak == TieBreakVehicleType {
			return cmp.Compare(a.VehicleType, b.VehicleType)
		}
		return 0
	})
	return rows
}

// RankStations returns each station once, in the order its first row appears
// in RankRows.
func RankStations(table Table, tieBreak TieBreak) []string {
	rows := RankRows(table, tieBreak)
	seen := make(map[string]bool, len(rows))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if seen[row.StationName] {
			continue
		}
		seen[row.StationName] = true
		out = append(out, row.StationName)
	}
	return out
}
