package db

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"

	"tarediiran-industries.com/citibike-services/internal/stations"
)

//go:embed schema.sql
var schemaSQL string

const (
	StationTotalsTable = "station_trip_totals"

	columnView     = "view"
	columnPosition = "position"
)

// StationTotalsColumns is the COPY column order; stationCopyRows builds rows
// to match.
var StationTotalsColumns = []string{
	columnView,
	columnPosition,
	"station_name",
	"vehicle_type",
	"season",
	"total_trips",
	"grand_total",
}

var stationSelectColumns = StationTotalsColumns[2:]

func (db *Database) EnsureSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create %s: %w", StationTotalsTable, err)
	}
	return nil
}

// stationCopyRows keeps table order in the position column; ranking ties are
// resolved by that order.
func stationCopyRows(view stations.View, table stations.Table) [][]any {
	rows := make([][]any, table.Len())
	for i := range rows {
		record := table.At(i)
		rows[i] = []any{
			view.String(),
			int32(i),
			record.StationName,
			string(record.VehicleType),
			string(record.Season),
			record.TotalTrips,
			record.StationGrandTotal,
		}
	}
	return rows
}

// ReplaceStationTotals swaps the stored totals for both views in a single
// transaction, so readers see either the old tables or the new ones.
func (db *Database) ReplaceStationTotals(ctx context.Context, tables stations.Tables) (int64, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM "+quoteProtect(StationTotalsTable)); err != nil {
		return 0, fmt.Errorf("clear %s: %w", StationTotalsTable, err)
	}

	var copied int64
	for _, view := range []stations.View{stations.ViewStarts, stations.ViewEnds} {
		n, err := tx.CopyFrom(ctx,
			pgx.Identifier{StationTotalsTable},
			StationTotalsColumns,
			pgx.CopyFromRows(stationCopyRows(view, tables.For(view))),
		)
		if err != nil {
			return 0, fmt.Errorf("copy %s rows: %w", view, err)
		}
		copied += n
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return copied, nil
}

// StationTables reads both views back and revalidates them, so a table
// edited by hand still has to satisfy the grand total invariant.
func (db *Database) StationTables(ctx context.Context) (stations.Tables, error) {
	return queryStationTables(ctx, db)
}

func queryStationTables(ctx context.Context, q DBTX) (stations.Tables, error) {
	starts, err := queryStationTable(ctx, q, stations.ViewStarts)
	if err != nil {
		return stations.Tables{}, err
	}
	ends, err := queryStationTable(ctx, q, stations.ViewEnds)
	if err != nil {
		return stations.Tables{}, err
	}
	return stations.Tables{Starts: starts, Ends: ends}, nil
}

func queryStationTable(ctx context.Context, q DBTX, view stations.View) (stations.Table, error) {
	rows, err := q.QueryContext(ctx, buildSelectQuery(StationTotalsTable, stationSelectColumns), view.String())
	if err != nil {
		return stations.Table{}, fmt.Errorf("query %s totals: %w", view, err)
	}
	defer rows.Close()

	return scanStationTable(rows, view)
}

// rowScanner is the part of *sql.Rows the scan loop needs.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanStationTable(rows rowScanner, view stations.View) (stations.Table, error) {
	var records []stations.Record
	for rows.Next() {
		var (
			name, vehicle, season string
			total, grandTotal     int64
		)
		if err := rows.Scan(&name, &vehicle, &season, &total, &grandTotal); err != nil {
			return stations.Table{}, fmt.Errorf("scan %s totals: %w", view, err)
		}
		record, err := stations.ParseRecord(len(records)+1, name, vehicle, season, total, grandTotal)
		if err != nil {
			return stations.Table{}, fmt.Errorf("%s totals: %w", view, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return stations.Table{}, fmt.Errorf("read %s totals: %w", view, err)
	}

	table, err := stations.NewTable(records)
	if err != nil {
		return stations.Table{}, fmt.Errorf("%s totals: %w", view, err)
	}
	return table, nil
}
