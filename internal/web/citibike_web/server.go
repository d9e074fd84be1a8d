package citibike_web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"tarediiran-industries.com/citibike-services/internal/common"
	"tarediiran-industries.com/citibike-services/internal/dataset"
)

// DatasetSource hands out the current snapshot; *dataset.Store satisfies it.
type DatasetSource interface {
	Current() (*dataset.Dataset, error)
}

type CitibikeWebServer struct {
	store    DatasetSource
	content  *Content
	renderer *Renderer
	metrics  *common.Metrics
	logger   *zap.Logger

	router chi.Router
	server *http.Server
}

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func NewCitibikeWebServer(listenAddr string, store DatasetSource, content *Content, metrics *common.Metrics, logger *zap.Logger) (*CitibikeWebServer, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(requestMetrics(metrics))
	router.Use(middleware.Recoverer)

	server := &CitibikeWebServer{
		store:    store,
		content:  content,
		renderer: renderer,
		metrics:  metrics,
		logger:   logger,
		router:   router,
		server: &http.Server{
			Addr:              listenAddr,
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}

	router.Get("/", server.handleIntroPage)
	router.Get("/seasonality", server.handleSeasonalityPage)
	router.Get("/stations", server.handleStationsPage)
	router.Get("/stations/export.xlsx", server.handleStationsExport)
	router.Get("/map", server.handleMapPage)
	router.Get("/map/embed", server.handleMapEmbed)
	router.Get("/behavior", server.handleBehaviorPage)
	router.Get("/recommendations", server.handleRecommendationsPage)
	router.Get("/api/stations", server.handleStationsAPI)
	router.Get("/healthz", server.handleHealth)
	router.NotFound(server.handleNotFound)

	return server, nil
}

func (server *CitibikeWebServer) Handler() http.Handler {
	return server.router
}

func (server *CitibikeWebServer) startHosting(errs chan<- error) {
	err := server.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs <- err
	}
	close(errs)
}

// Serve blocks until ctx ends or the listener fails.
func (server *CitibikeWebServer) Serve(ctx context.Context) error {
	server.logger.Info("dashboard listening", zap.String("addr", server.server.Addr))

	errs := make(chan error, 1)
	go server.startHosting(errs)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	server.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.server.Shutdown(shutdownCtx)
}
