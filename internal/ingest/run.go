package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"tarediiran-industries.com/citibike-services/internal/common"
	"tarediiran-industries.com/citibike-services/internal/dataset"
	"tarediiran-industries.com/citibike-services/internal/db"
	"tarediiran-industries.com/citibike-services/internal/stations"
)

// StationTotalsWriter is the part of *db.Database the ingest needs.
type StationTotalsWriter interface {
	EnsureSchema(ctx context.Context) error
	ReplaceStationTotals(ctx context.Context, tables stations.Tables) (int64, error)
}

func Run(cfg Config, stdOut, errOut io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := common.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		return -1
	}
	defer logger.Sync()

	tables, err := dataset.CSVTables{Dir: cfg.DataDir}.StationTables(ctx)
	if err != nil {
		logger.Error("station totals rejected", zap.String("data_dir", cfg.DataDir), zap.Error(err))
		return -1
	}
	report(stdOut, tables)

	if cfg.DryRun {
		logger.Info("dry run, nothing written")
		return 0
	}

	database, err := db.NewDatabaseConnection(ctx, cfg.DatabaseConnection)
	if err != nil {
		logger.Error("database connection failed", zap.Error(err))
		return -1
	}
	defer database.Close()

	copied, err := Ingest(ctx, database, tables, logger)
	if err != nil {
		logger.Error("ingest failed", zap.Error(err))
		return -1
	}
	fmt.Fprintf(stdOut, "Copied %d rows into %s\n", copied, db.StationTotalsTable)
	return 0
}

// Ingest creates the schema if needed and replaces the stored totals.
func Ingest(ctx context.Context, writer StationTotalsWriter, tables stations.Tables, logger *zap.Logger) (int64, error) {
	benchmarker := common.NewBenchmarker(logger, "station-totals-ingest")
	defer benchmarker.Close()

	if err := writer.EnsureSchema(ctx); err != nil {
		return 0, err
	}
	return writer.ReplaceStationTotals(ctx, tables)
}

func report(out io.Writer, tables stations.Tables) {
	for _, view := range []stations.View{stations.ViewStarts, stations.ViewEnds} {
		table := tables.For(view)
		fmt.Fprintf(out, "%-6s %4d rows, %3d stations, %d trips\n",
			view, table.Len(), len(stations.RankStations(table, stations.TieBreakVehicleType)), stations.GrandTotal(table))
	}
}
