package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alphikemal/web-GIS-tryon/internal/config"
	"github.com/alphikemal/web-GIS-tryon/internal/model"
	"github.com/alphikemal/web-GIS-tryon/internal/store"
)

type fakeSource struct {
	pingErr  error
	queryErr error
	doc      []byte

	lastLayer  string
	lastParams model.QueryParams
}

func (f *fakeSource) Ping(context.Context) error { return f.pingErr }

func (f *fakeSource) WhoAmI(context.Context) (store.ConnInfo, error) {
	return store.ConnInfo{User: "gis_reader", ServerAddr: "10.0.0.5", ServerPort: 5432}, nil
}

func (f *fakeSource) QueryFeatures(_ context.Context, layer string, p model.QueryParams) ([]byte, error) {
	f.lastLayer = layer
	f.lastParams = p
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if f.doc != nil {
		return f.doc, nil
	}
	return []byte(`{"type":"FeatureCollection","features":[]}`), nil
}

func (f *fakeSource) Stats(_ context.Context, layer string) (store.LayerStats, error) {
	return store.LayerStats{Layer: layer, Rows: 12, SRID: 4326, Extent: "BOX(0 0,10 10)"}, nil
}

func newTestRouter(src FeatureSource) http.Handler {
	cfg := config.Config{CORSOrigins: []string{"*"}}
	return NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg, src)
}

func TestLayerEndpoint_EmptyTable(t *testing.T) {
	src := &fakeSource{}
	rec := httptest.NewRecorder()
	newTestRouter(src).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/buildings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("Cache-Control = %q, want no-store", got)
	}
	var fc struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &fc); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if fc.Type != "FeatureCollection" || fc.Features == nil || len(fc.Features) != 0 {
		t.Fatalf("body = %s", rec.Body.String())
	}
	if src.lastLayer != "buildings" {
		t.Fatalf("queried layer %q", src.lastLayer)
	}
}

func TestLayerEndpoint_ParamNormalization(t *testing.T) {
	src := &fakeSource{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/blocks?limit=999999&q=park&bbox=0,0,10,10", nil)
	newTestRouter(src).ServeHTTP(rec, req)

	if src.lastLayer != "blocks" {
		t.Fatalf("layer = %q", src.lastLayer)
	}
	if src.lastParams.Limit != model.MaxLimit {
		t.Fatalf("limit = %d, want clamped to %d", src.lastParams.Limit, model.MaxLimit)
	}
	if src.lastParams.Text != "park" {
		t.Fatalf("text = %q", src.lastParams.Text)
	}
	if src.lastParams.BBox == nil || src.lastParams.BBox.MaxX != 10 {
		t.Fatalf("bbox = %+v", src.lastParams.BBox)
	}
}

func TestLayerEndpoint_MalformedBBoxIgnored(t *testing.T) {
	for _, raw := range []string{"0,0,10", "a,b,c,d", "0,0,Inf,10", "1,2,3,4,5"} {
		src := &fakeSource{}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/buildings?bbox="+raw, nil)
		newTestRouter(src).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("bbox %q: status = %d, want 200", raw, rec.Code)
		}
		if src.lastParams.BBox != nil {
			t.Fatalf("bbox %q must be dropped, got %+v", raw, src.lastParams.BBox)
		}
	}
}

func TestLayerEndpoint_NonNumericLimitDefaults(t *testing.T) {
	src := &fakeSource{}
	rec := httptest.NewRecorder()
	newTestRouter(src).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/buildings?limit=lots", nil))
	if src.lastParams.Limit != model.DefaultLimit {
		t.Fatalf("limit = %d, want default %d", src.lastParams.Limit, model.DefaultLimit)
	}
}

func TestLayerEndpoint_QueryError(t *testing.T) {
	src := &fakeSource{queryErr: errors.New("relation does not exist")}
	rec := httptest.NewRecorder()
	newTestRouter(src).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blocks", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body not JSON: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("missing error message: %s", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&fakeSource{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	newTestRouter(&fakeSource{pingErr: errors.New("down")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), `"ok":false`) {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestWhoAmI(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&fakeSource{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var info store.ConnInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("body: %v", err)
	}
	if info.User != "gis_reader" {
		t.Fatalf("user = %q", info.User)
	}
}

func TestStatsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&fakeSource{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/blocks-stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var st store.LayerStats
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("body: %v", err)
	}
	if st.Layer != "blocks" || st.Rows != 12 || st.SRID != 4326 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestCORS_DisallowedOriginRejected(t *testing.T) {
	cfg := config.Config{CORSOrigins: []string{"https://maps.example.com"}}
	r := NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg, &fakeSource{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/buildings", nil)
	req.Header.Set("Origin", "https://evil.example.org")
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/buildings", nil)
	req.Header.Set("Origin", "https://maps.example.com")
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("allowed origin got status %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://maps.example.com" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}
}
