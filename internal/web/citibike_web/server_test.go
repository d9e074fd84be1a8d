package citibike_web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"tarediiran-industries.com/citibike-services/internal/common"
	"tarediiran-industries.com/citibike-services/internal/dataset"
	"tarediiran-industries.com/citibike-services/internal/testutil"
)

func newTestServer(t *testing.T) (*CitibikeWebServer, *common.Metrics) {
	t.Helper()

	dir, mapPath := testutil.WritePreparedData(t)
	loader := &dataset.Loader{Dir: dir, MapPath: mapPath, DurationBins: 10}
	snapshot, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	content, err := LoadContent("")
	if err != nil {
		t.Fatalf("LoadContent() error = %v", err)
	}

	metrics := common.NewMetrics(prometheus.NewRegistry())
	server, err := NewCitibikeWebServer(":0", dataset.NewStaticStore(snapshot), content, metrics, zap.NewNop())
	if err != nil {
		t.Fatalf("NewCitibikeWebServer() error = %v", err)
	}
	return server, metrics
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

func TestPagesRender(t *testing.T) {
	server, metrics := newTestServer(t)

	tests := []struct {
		path string
		page string
		want []string
	}{
		{"/", PageIntro, []string{"Citi Bike in New York City 2022", "Seasonal demand trends", `class="active"`}},
		{"/seasonality", PageSeasonality, []string{"seasonality-chart", "Electric Bikes", "Busiest day: <strong>January 2</strong>"}},
		{"/stations", PageStations, []string{"Click to see Ending Stations", "W 21 St &amp; 6 Ave", "Total Bike Rides"}},
		{"/map", PageMap, []string{`src="/map/embed"`, "Busy Zones"}},
		{"/behavior", PageBehavior, []string{"durations-chart", "77.9%", "Member"}},
		{"/recommendations", PageRecommendations, []string{"Key Takeaways"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			response := get(t, server.Handler(), tt.path)
			if response.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", response.Code, response.Body.String())
			}
			if got := response.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
				t.Errorf("Content-Type = %q", got)
			}
			body := response.Body.String()
			for _, want := range tt.want {
				if !strings.Contains(body, want) {
					t.Errorf("body missing %q", want)
				}
			}
			if got := promtestutil.ToFloat64(metrics.PageRendersTotal.WithLabelValues(tt.page)); got != 1 {
				t.Errorf("page renders for %s = %v, want 1", tt.page, got)
			}
		})
	}
}

func TestStationsPage_Views(t *testing.T) {
	server, _ := newTestServer(t)

	starts := get(t, server.Handler(), "/stations").Body.String()
	if !strings.Contains(starts, `<div class="metric" title="84">84</div>`) {
		t.Error("starts page should total 84 rides")
	}
	if !strings.Contains(starts, `href="/stations?view=ends"`) {
		t.Error("toggle link should point at the ends view")
	}

	ends := get(t, server.Handler(), "/stations?view=ends&filtered=1&season=summer").Body.String()
	if !strings.Contains(ends, `<div class="metric" title="52">52</div>`) {
		t.Error("summer ends should total 52 rides")
	}
	if !strings.Contains(ends, "Click to see Starting Stations") {
		t.Error("ends page should offer the starts view")
	}
	if !strings.Contains(ends, `href="/stations?filtered=1&amp;season=summer&amp;view=starts"`) {
		t.Error("toggle link should keep the season selection")
	}
	if strings.Contains(ends, `value="fall" checked`) {
		t.Error("fall should not be selected")
	}

	empty := get(t, server.Handler(), "/stations?filtered=1").Body.String()
	if !strings.Contains(empty, "No trips match the selected seasons.") || !strings.Contains(empty, `title="0">0<`) {
		t.Error("an explicit empty selection should render an empty view")
	}
}

func TestStationsPage_BadQuery(t *testing.T) {
	server, _ := newTestServer(t)

	for _, target := range []string{"/stations?view=sideways", "/stations?season=monsoon"} {
		if response := get(t, server.Handler(), target); response.Code != http.StatusBadRequest {
			t.Errorf("GET %s status = %d, want 400", target, response.Code)
		}
	}
}

func TestStationsAPI(t *testing.T) {
	server, _ := newTestServer(t)

	response := get(t, server.Handler(), "/api/stations?view=ends&season=summer")
	if response.Code != http.StatusOK {
		t.Fatalf("status = %d", response.Code)
	}

	var body StationsResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.View != "ends" || body.GrandTotal != 52 {
		t.Errorf("view = %s, total = %d", body.View, body.GrandTotal)
	}
	if want := []string{"W 21 St & 6 Ave", "1 Ave & E 68 St"}; !slices.Equal(body.Ranking, want) {
		t.Errorf("ranking = %v, want %v", body.Ranking, want)
	}

	response = get(t, server.Handler(), "/api/stations?filtered=1")
	if !strings.Contains(response.Body.String(), `"ranking":[]`) || !strings.Contains(response.Body.String(), `"rows":[]`) {
		t.Errorf("empty selection body = %s", response.Body.String())
	}
}

func TestStationsExport(t *testing.T) {
	server, _ := newTestServer(t)

	response := get(t, server.Handler(), "/stations/export.xlsx?season=winter&season=summer")
	if response.Code != http.StatusOK {
		t.Fatalf("status = %d", response.Code)
	}
	if got := response.Header().Get("Content-Type"); got != xlsxContentType {
		t.Errorf("Content-Type = %q", got)
	}
	if got := response.Header().Get("Content-Disposition"); got != `attachment; filename="citibike-starts-winter-summer.xlsx"` {
		t.Errorf("Content-Disposition = %q", got)
	}

	file, err := excelize.OpenReader(response.Body)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows("Stations")
	if err != nil {
		t.Fatal(err)
	}
	// header, four ranked rows, spacer, total
	if len(rows) != 7 {
		t.Fatalf("len(rows) = %d: %v", len(rows), rows)
	}
	if rows[1][0] != "W 21 St & 6 Ave" || rows[6][3] != "52" {
		t.Errorf("rows = %v", rows)
	}
}

func TestMapEmbed(t *testing.T) {
	server, _ := newTestServer(t)

	response := get(t, server.Handler(), "/map/embed")
	if response.Code != http.StatusOK || response.Body.String() != testutil.MapHTML {
		t.Errorf("status = %d, body = %q", response.Code, response.Body.String())
	}
}

func TestHealth(t *testing.T) {
	server, _ := newTestServer(t)

	response := get(t, server.Handler(), "/healthz")
	var body HealthResponse
	if err := json.NewDecoder(response.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if response.Code != http.StatusOK || body.Status != "ok" || body.StartRows != 6 || body.EndRows != 3 || !body.MapAvailable {
		t.Errorf("status = %d, body = %+v", response.Code, body)
	}
}

func TestDatasetNotLoaded(t *testing.T) {
	content, err := LoadContent("")
	if err != nil {
		t.Fatal(err)
	}
	store := dataset.NewStore(&dataset.Loader{Dir: t.TempDir()}, common.NewNopMetrics(), zap.NewNop())
	server, err := NewCitibikeWebServer(":0", store, content, common.NewNopMetrics(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	for _, target := range []string{"/stations", "/api/stations", "/healthz", "/map/embed"} {
		if response := get(t, server.Handler(), target); response.Code != http.StatusServiceUnavailable {
			t.Errorf("GET %s status = %d, want 503", target, response.Code)
		}
	}
	// Narrative pages need no data.
	if response := get(t, server.Handler(), "/"); response.Code != http.StatusOK {
		t.Errorf("GET / status = %d", response.Code)
	}
}

func TestNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	response := get(t, server.Handler(), "/nowhere")
	if response.Code != http.StatusNotFound || !strings.Contains(response.Body.String(), "/nowhere") {
		t.Errorf("status = %d", response.Code)
	}
}

func TestRequestMetricsUseRoutePattern(t *testing.T) {
	server, metrics := newTestServer(t)

	get(t, server.Handler(), "/stations?view=ends")
	get(t, server.Handler(), "/stations")

	if got := promtestutil.CollectAndCount(metrics.HttpRequestSeconds); got != 1 {
		t.Errorf("request series = %d, want 1", got)
	}
}
