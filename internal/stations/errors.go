package stations

import "fmt"

// Column names of the prepared station totals files.
const (
	ColumnStation     = "station_name"
	ColumnVehicleType = "rideable_type"
	ColumnSeason      = "season"
	ColumnTotal       = "Total"
	ColumnGrandTotal  = "Grand Total"
)

// DataIntegrityError reports a row that breaks the table's data contract.
// Rows are 1-based and count data rows only (the header is not row 1).
type DataIntegrityError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (err *DataIntegrityError) Error() string {
	if err.Value == "" {
		return fmt.Sprintf("row %d: %s: %s", err.Row, err.Column, err.Reason)
	}
	return fmt.Sprintf("row %d: %s %q: %s", err.Row, err.Column, err.Value, err.Reason)
}
