package dataset

import (
	"context"
	"fmt"

	"tarediiran-industries.com/citibike-services/internal/stations"
)

// TableSource supplies the start and end station totals.
type TableSource interface {
	StationTables(ctx context.Context) (stations.Tables, error)
}

// CSVTables reads the station totals from the prepared data directory.
type CSVTables struct {
	Dir string
}

func (source CSVTables) StationTables(ctx context.Context) (stations.Tables, error) {
	starts, err := LoadStationTable(filePath(source.Dir, StartStationsFile), stations.ViewStarts)
	if err != nil {
		return stations.Tables{}, &FileError{File: StartStationsFile, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return stations.Tables{}, err
	}
	ends, err := LoadStationTable(filePath(source.Dir, EndStationsFile), stations.ViewEnds)
	if err != nil {
		return stations.Tables{}, &FileError{File: EndStationsFile, Err: err}
	}
	return stations.Tables{Starts: starts, Ends: ends}, nil
}

func StationColumn(view stations.View) string {
	if view == stations.ViewEnds {
		return "end_station_name"
	}
	return "start_station_name"
}

// LoadStationTable reads one bar chart file into a validated table. The
// station column is named after the view; a plain station_name also works.
func LoadStationTable(path string, view stations.View) (stations.Table, error) {
	frame, err := readFrame(path, nil,
		stations.ColumnVehicleType, stations.ColumnSeason, stations.ColumnTotal, stations.ColumnGrandTotal)
	if err != nil {
		return stations.Table{}, err
	}

	stationColumn, err := firstColumn(frame, StationColumn(view), stations.ColumnStation)
	if err != nil {
		return stations.Table{}, err
	}

	names := frame.Col(stationColumn).Records()
	vehicles := frame.Col(stations.ColumnVehicleType).Records()
	seasons := frame.Col(stations.ColumnSeason).Records()
	totals := frame.Col(stations.ColumnTotal).Records()
	grandTotals := frame.Col(stations.ColumnGrandTotal).Records()

	records := make([]stations.Record, 0, frame.Nrow())
	for i := 0; i < frame.Nrow(); i++ {
		row := i + 1

		total, err := parseCount(totals[i])
		if err != nil {
			return stations.Table{}, &stations.DataIntegrityError{Row: row, Column: stations.ColumnTotal, Value: totals[i], Reason: err.Error()}
		}
		grandTotal, err := parseCount(grandTotals[i])
		if err != nil {
			return stations.Table{}, &stations.DataIntegrityError{Row: row, Column: stations.ColumnGrandTotal, Value: grandTotals[i], Reason: err.Error()}
		}

		record, err := stations.ParseRecord(row, names[i], vehicles[i], seasons[i], total, grandTotal)
		if err != nil {
			return stations.Table{}, err
		}
		records = append(records, record)
	}

	table, err := stations.NewTable(records)
	if err != nil {
		return stations.Table{}, fmt.Errorf("%s table: %w", view, err)
	}
	return table, nil
}
