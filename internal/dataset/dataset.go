// Package dataset loads the prepared CitiBike files behind the dashboard and
// keeps the current copy available for request handlers.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"

	"tarediiran-industries.com/citibike-services/internal/common"
	"tarediiran-industries.com/citibike-services/internal/stations"
)

// Dataset is one immutable snapshot of the prepared data.
type Dataset struct {
	Stations  stations.Tables
	Daily     []DailyRides
	Payments  []PaymentShare
	Durations Durations

	// MapHTML is the externally generated trip map; nil when the file is absent.
	MapHTML []byte

	LoadedAt time.Time
}

type Loader struct {
	Dir          string
	MapPath      string
	DurationBins int

	// Tables defaults to CSVTables over Dir.
	Tables TableSource
	Logger *zap.Logger
}

func (loader *Loader) tables() TableSource {
	if loader.Tables != nil {
		return loader.Tables
	}
	return CSVTables{Dir: loader.Dir}
}

func (loader *Loader) logger() *zap.Logger {
	if loader.Logger != nil {
		return loader.Logger
	}
	return zap.NewNop()
}

// Load reads every prepared file. Any malformed file fails the whole load so
// a snapshot is never half old, half new.
func (loader *Loader) Load(ctx context.Context) (*Dataset, error) {
	benchmarker := common.NewBenchmarker(loader.logger(), "dataset-load")
	defer benchmarker.Close()

	tables, err := loader.tables().StationTables(ctx)
	if err != nil {
		return nil, err
	}

	daily, err := LoadDailyRides(filePath(loader.Dir, DailyRidesFile))
	if err != nil {
		return nil, &FileError{File: DailyRidesFile, Err: err}
	}

	payments, err := LoadPayments(filePath(loader.Dir, PaymentsFile))
	if err != nil {
		return nil, &FileError{File: PaymentsFile, Err: err}
	}

	durations, err := LoadDurations(filePath(loader.Dir, DurationsFile), loader.DurationBins)
	if err != nil {
		return nil, &FileError{File: DurationsFile, Err: err}
	}

	mapHTML, err := loader.readMap()
	if err != nil {
		return nil, err
	}

	return &Dataset{
		Stations:  tables,
		Daily:     daily,
		Payments:  payments,
		Durations: durations,
		MapHTML:   mapHTML,
		LoadedAt:  time.Now(),
	}, nil
}

func (loader *Loader) readMap() ([]byte, error) {
	if loader.MapPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(loader.MapPath)
	if errors.Is(err, fs.ErrNotExist) {
		loader.logger().Warn("trip map not found, map page disabled", zap.String("path", loader.MapPath))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read trip map: %w", err)
	}
	return data, nil
}
