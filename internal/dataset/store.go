package dataset

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"tarediiran-industries.com/citibike-services/internal/common"
	"tarediiran-industries.com/citibike-services/internal/stations"
)

var ErrNotLoaded = errors.New("dataset not loaded")

// Loadable is satisfied by *Loader; tests swap in fixed snapshots.
type Loadable interface {
	Load(ctx context.Context) (*Dataset, error)
}

// Store hands the latest good snapshot to readers. A failed reload keeps the
// previous snapshot in place.
type Store struct {
	loader  Loadable
	metrics *common.Metrics
	logger  *zap.Logger

	reloadMu sync.Mutex
	current  atomic.Pointer[Dataset]
}

func NewStore(loader Loadable, metrics *common.Metrics, logger *zap.Logger) *Store {
	return &Store{loader: loader, metrics: metrics, logger: logger}
}

// NewStaticStore serves a fixed snapshot and never reloads.
func NewStaticStore(snapshot *Dataset) *Store {
	store := &Store{metrics: common.NewNopMetrics(), logger: zap.NewNop()}
	store.current.Store(snapshot)
	return store
}

func (store *Store) Current() (*Dataset, error) {
	snapshot := store.current.Load()
	if snapshot == nil {
		return nil, ErrNotLoaded
	}
	return snapshot, nil
}

func (store *Store) Reload(ctx context.Context) error {
	if store.loader == nil {
		return nil
	}

	store.reloadMu.Lock()
	defer store.reloadMu.Unlock()

	snapshot, err := store.loader.Load(ctx)
	if err != nil {
		store.metrics.DatasetReloadsTotal.WithLabelValues("failure").Inc()
		fields := []zap.Field{zap.Error(err)}

		var integrityErr *stations.DataIntegrityError
		if errors.As(err, &integrityErr) {
			file := "unknown"
			var fileErr *FileError
			if errors.As(err, &fileErr) {
				file = fileErr.File
			}
			store.metrics.DataIntegrityErrorsTotal.WithLabelValues(file).Inc()
			fields = append(fields, zap.String("file", file), zap.Int("row", integrityErr.Row))
		}

		store.logger.Error("dataset reload failed", fields...)
		return err
	}

	store.current.Store(snapshot)
	store.metrics.DatasetReloadsTotal.WithLabelValues("success").Inc()
	store.metrics.DatasetLoadedTimestamp.Set(float64(snapshot.LoadedAt.Unix()))
	store.logger.Info("dataset loaded",
		zap.Int("start_rows", snapshot.Stations.Starts.Len()),
		zap.Int("end_rows", snapshot.Stations.Ends.Len()),
		zap.Int("days", len(snapshot.Daily)),
		zap.Bool("map", snapshot.MapHTML != nil),
	)
	return nil
}
