package citibike_web

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"tarediiran-industries.com/citibike-services/internal/common"
	"tarediiran-industries.com/citibike-services/internal/dataset"
	"tarediiran-industries.com/citibike-services/internal/db"
)

func Run(cfg Config, errOut io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := common.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(errOut, "Error:", err)
		return -1
	}
	defer logger.Sync()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("dashboard stopped", zap.Error(err))
		return -1
	}
	return 0
}

func run(ctx context.Context, cfg Config, logger *zap.Logger) error {
	metrics := common.NewNopMetrics()
	if cfg.TelemetryAddress != "" {
		telemetry := common.NewTelemetryServer(cfg.TelemetryAddress, logger)
		metrics = common.NewMetrics(telemetry.GetRegistry())
		if err := telemetry.Start(); err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = telemetry.Stop(shutdownCtx)
		}()
	}

	loader := &dataset.Loader{
		Dir:          cfg.DataDir,
		MapPath:      cfg.MapPath,
		DurationBins: cfg.DurationBins,
		Logger:       logger,
	}
	if cfg.Source == SourcePostgres {
		database, err := db.NewDatabaseConnection(ctx, cfg.DatabaseConnection)
		if err != nil {
			return err
		}
		defer database.Close()
		loader.Tables = database
	}

	store := dataset.NewStore(loader, metrics, logger)
	if err := store.Reload(ctx); err != nil {
		return fmt.Errorf("initial load: %w", err)
	}

	content, err := LoadContent(cfg.ContentPath)
	if err != nil {
		return err
	}

	server, err := NewCitibikeWebServer(cfg.ListenAddress, store, content, metrics, logger)
	if err != nil {
		return err
	}

	// Failed reloads are logged and counted by the store; the last good
	// snapshot keeps serving.
	reload := func() error {
		return store.Reload(ctx)
	}

	if cfg.Watch {
		watcher, err := dataset.NewWatcher(cfg.WatchDebounce, logger, cfg.DataDir, filepath.Dir(cfg.MapPath))
		if err != nil {
			return fmt.Errorf("watch %s: %w", cfg.DataDir, err)
		}
		defer watcher.Close()

		go func() {
			err := watcher.Watch(ctx, func() { _ = reload() })
			if err != nil {
				logger.Warn("file watcher stopped", zap.Error(err))
			}
		}()
	}

	if cfg.ReloadSchedule != "" {
		scheduler, err := dataset.NewScheduler(cfg.ReloadSchedule, reload, logger)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	return server.Serve(ctx)
}
