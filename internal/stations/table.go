package stations

import (
	"fmt"
	"slices"
)

// Table is an immutable, ordered set of validated records. The zero value is
// an empty table.
type Table struct {
	records []Record
}

// NewTable validates every record and the grand total invariant: each row's
// StationGrandTotal must equal the sum of TotalTrips over all rows of that
// station. The records slice is copied.
func NewTable(records []Record) (Table, error) {
	sums := make(map[string]int64, len(records))
	for i, record := range records {
		if err := record.validate(i + 1); err != nil {
			return Table{}, err
		}
		sums[record.StationName] += record.TotalTrips
	}

	for i, record := range records {
		if sum := sums[record.StationName]; sum != record.StationGrandTotal {
			return Table{}, &DataIntegrityError{
				Row:    i + 1,
				Column: ColumnGrandTotal,
				Value:  fmt.Sprint(record.StationGrandTotal),
				Reason: fmt.Sprintf("station %q trips sum to %d", record.StationName, sum),
			}
		}
	}

	return Table{records: slices.Clone(records)}, nil
}

func (table Table) Len() int {
	return len(table.records)
}

// Records returns a copy of the rows in table order.
func (table Table) Records() []Record {
	return slices.Clone(table.records)
}

func (table Table) At(i int) Record {
	return table.records[i]
}

// Seasons lists the distinct seasons in order of first appearance, which is
// the order the season filter offers them.
func (table Table) Seasons() []Season {
	seen := make(map[Season]bool, len(AllSeasons))
	out := make([]Season, 0, len(AllSeasons))
	for _, record := range table.records {
		if seen[record.Season] {
			continue
		}
		seen[record.Season] = true
		out = append(out, record.Season)
	}
	return out
}
