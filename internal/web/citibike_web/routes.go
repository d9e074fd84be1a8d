package citibike_web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"tarediiran-industries.com/citibike-services/internal/common"
	"tarediiran-industries.com/citibike-services/internal/dataset"
	"tarediiran-industries.com/citibike-services/internal/stations"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (server *CitibikeWebServer) render(writer http.ResponseWriter, status int, page, name string, viewmodel any) {
	body, err := server.renderer.Render(name, viewmodel)
	if err != nil {
		server.logger.Error("render failed", zap.String("template", name), zap.Error(err))
		http.Error(writer, "internal server error", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(status)
	_, _ = writer.Write(body)
	if status == http.StatusOK {
		server.metrics.PageRendersTotal.WithLabelValues(page).Inc()
	}
}

func (server *CitibikeWebServer) renderError(writer http.ResponseWriter, status int, message string) {
	viewmodel := ErrorPageVM{
		PageVM:  BuildPageVM(server.content, "", "", nil),
		Status:  status,
		Message: message,
	}
	viewmodel.Title = http.StatusText(status)
	server.render(writer, status, "error", "error.html", viewmodel)
}

func writeJSON(writer http.ResponseWriter, status int, value any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(value)
}

// snapshot fetches the current dataset or answers 503 itself.
func (server *CitibikeWebServer) snapshot(writer http.ResponseWriter) (*dataset.Dataset, bool) {
	snapshot, err := server.store.Current()
	if err != nil {
		server.logger.Warn("dataset unavailable", zap.Error(err))
		server.renderError(writer, http.StatusServiceUnavailable, "The prepared data is not available yet.")
		return nil, false
	}
	return snapshot, true
}

func (server *CitibikeWebServer) handleIntroPage(writer http.ResponseWriter, request *http.Request) {
	viewmodel := BuildPageVM(server.content, PageIntro, "/", nil)
	server.render(writer, http.StatusOK, PageIntro, "intro.html", viewmodel)
}

func (server *CitibikeWebServer) handleRecommendationsPage(writer http.ResponseWriter, request *http.Request) {
	viewmodel := BuildPageVM(server.content, PageRecommendations, "/recommendations", nil)
	server.render(writer, http.StatusOK, PageRecommendations, "recommendations.html", viewmodel)
}

func (server *CitibikeWebServer) handleSeasonalityPage(writer http.ResponseWriter, request *http.Request) {
	snapshot, ok := server.snapshot(writer)
	if !ok {
		return
	}

	page := BuildPageVM(server.content, PageSeasonality, "/seasonality", snapshot)
	viewmodel, err := BuildSeasonalityVM(page, snapshot.Daily)
	if err != nil {
		server.logger.Error("seasonality page", zap.Error(err))
		server.renderError(writer, http.StatusInternalServerError, "The chart could not be built.")
		return
	}
	server.render(writer, http.StatusOK, PageSeasonality, "seasonality.html", viewmodel)
}

func (server *CitibikeWebServer) handleStationsPage(writer http.ResponseWriter, request *http.Request) {
	query, err := ParseStationsQuery(request.URL.Query())
	if err != nil {
		server.renderError(writer, http.StatusBadRequest, err.Error())
		return
	}

	snapshot, ok := server.snapshot(writer)
	if !ok {
		return
	}

	page := BuildPageVM(server.content, PageStations, "/stations", snapshot)
	viewmodel, err := BuildStationsVM(page, snapshot.Stations, query)
	if err != nil {
		server.logger.Error("stations page", zap.Error(err))
		server.renderError(writer, http.StatusInternalServerError, "The chart could not be built.")
		return
	}
	server.render(writer, http.StatusOK, PageStations, "stations.html", viewmodel)
}

func (server *CitibikeWebServer) handleStationsAPI(writer http.ResponseWriter, request *http.Request) {
	query, err := ParseStationsQuery(request.URL.Query())
	if err != nil {
		writeJSON(writer, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	snapshot, err := server.store.Current()
	if err != nil {
		writeJSON(writer, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}

	seasons := query.SeasonsFor(snapshot.Stations.For(query.View))
	summary := stations.Summarize(snapshot.Stations, query.View, seasons)
	writeJSON(writer, http.StatusOK, BuildStationsResponse(summary))
}

func (server *CitibikeWebServer) handleStationsExport(writer http.ResponseWriter, request *http.Request) {
	query, err := ParseStationsQuery(request.URL.Query())
	if err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	snapshot, err := server.store.Current()
	if err != nil {
		http.Error(writer, err.Error(), http.StatusServiceUnavailable)
		return
	}

	seasons := query.SeasonsFor(snapshot.Stations.For(query.View))
	summary := stations.Summarize(snapshot.Stations, query.View, seasons)

	workbook, err := common.RuntimeBenchmark(server.logger, "stations-export", func() ([]byte, error) {
		var buf bytes.Buffer
		err := dataset.WriteStationsXLSX(&buf, summary)
		return buf.Bytes(), err
	})
	if err != nil {
		server.logger.Error("stations export", zap.Error(err))
		http.Error(writer, "export failed", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", xlsxContentType)
	writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(query, seasons)))
	_, _ = writer.Write(workbook)
}

func (server *CitibikeWebServer) handleMapPage(writer http.ResponseWriter, request *http.Request) {
	snapshot, ok := server.snapshot(writer)
	if !ok {
		return
	}

	viewmodel := BuildMapVM(BuildPageVM(server.content, PageMap, "/map", snapshot), snapshot)
	server.render(writer, http.StatusOK, PageMap, "map.html", viewmodel)
}

// handleMapEmbed serves the generated map document for the map page iframe.
func (server *CitibikeWebServer) handleMapEmbed(writer http.ResponseWriter, request *http.Request) {
	snapshot, err := server.store.Current()
	if err != nil {
		http.Error(writer, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if snapshot.MapHTML == nil {
		http.NotFound(writer, request)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.Header().Set("Content-Security-Policy", "frame-ancestors 'self'")
	_, _ = writer.Write(snapshot.MapHTML)
}

func (server *CitibikeWebServer) handleBehaviorPage(writer http.ResponseWriter, request *http.Request) {
	snapshot, ok := server.snapshot(writer)
	if !ok {
		return
	}

	page := BuildPageVM(server.content, PageBehavior, "/behavior", snapshot)
	viewmodel, err := BuildBehaviorVM(page, snapshot.Durations, snapshot.Payments)
	if err != nil {
		server.logger.Error("behavior page", zap.Error(err))
		server.renderError(writer, http.StatusInternalServerError, "The charts could not be built.")
		return
	}
	server.render(writer, http.StatusOK, PageBehavior, "behavior.html", viewmodel)
}

func (server *CitibikeWebServer) handleHealth(writer http.ResponseWriter, request *http.Request) {
	snapshot, err := server.store.Current()
	if err != nil {
		writeJSON(writer, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Error: err.Error()})
		return
	}

	writeJSON(writer, http.StatusOK, HealthResponse{
		Status:       "ok",
		LoadedAt:     snapshot.LoadedAt.UTC().Format(time.RFC3339),
		StartRows:    snapshot.Stations.Starts.Len(),
		EndRows:      snapshot.Stations.Ends.Len(),
		MapAvailable: snapshot.MapHTML != nil,
	})
}

func (server *CitibikeWebServer) handleNotFound(writer http.ResponseWriter, request *http.Request) {
	server.renderError(writer, http.StatusNotFound, "There is no page at "+request.URL.Path+".")
}
