package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"tarediiran-industries.com/citibike-services/internal/stations"
)

const exportSheet = "Stations"

// WriteStationsXLSX writes the filtered rows in ranked order followed by the
// grand total row.
func WriteStationsXLSX(writer io.Writer, summary stations.Summary) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	header := []any{summary.View.Noun() + " Station", "Vehicle Type", "Season", "Total", "Grand Total"}
	if err := file.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := file.SetCellStyle(exportSheet, "A1", "E1", bold); err != nil {
		return err
	}

	for i, row := range summary.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{row.StationName, string(row.VehicleType), string(row.Season), row.TotalTrips, row.StationGrandTotal}
		if err := file.SetSheetRow(exportSheet, cell, &values); err != nil {
			return err
		}
	}

	totalRow := len(summary.Rows) + 3
	totalCell, err := excelize.CoordinatesToCellName(1, totalRow)
	if err != nil {
		return err
	}
	seasons := make([]string, len(summary.Seasons))
	for i, season := range summary.Seasons {
		seasons[i] = string(season)
	}
	footer := []any{"Total Bike Rides", "", strings.Join(seasons, ", "), summary.GrandTotal}
	if err := file.SetSheetRow(exportSheet, totalCell, &footer); err != nil {
		return err
	}
	if err := file.SetCellStyle(exportSheet, totalCell, fmt.Sprintf("D%d", totalRow), bold); err != nil {
		return err
	}

	if err := file.SetColWidth(exportSheet, "A", "A", 36); err != nil {
		return err
	}

	return file.Write(writer)
}
