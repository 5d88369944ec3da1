package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestFetch_Success(t *testing.T) {
	var gotCacheControl string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCacheControl = r.Header.Get("Cache-Control")
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer srv.Close()

	params := url.Values{}
	params.Set("limit", "5")
	body, err := Fetch(context.Background(), srv.Client(), srv.URL, params)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(body) == 0 {
		t.Fatalf("empty body")
	}
	if gotCacheControl != "no-cache" {
		t.Fatalf("Cache-Control = %q, want no-cache", gotCacheControl)
	}
	if gotQuery.Get("limit") != "5" {
		t.Fatalf("limit param not forwarded: %v", gotQuery)
	}
}

func TestFetch_Non2xxCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream broke"))
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), srv.Client(), srv.URL, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected *NetworkError, got %T: %v", err, err)
	}
	if ne.Status != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", ne.Status)
	}
	if ne.Body != "upstream broke" {
		t.Fatalf("body = %q", ne.Body)
	}
}

func TestFetch_BadURL(t *testing.T) {
	_, err := Fetch(context.Background(), nil, "http://\x00bad", nil)
	if err == nil {
		t.Fatalf("expected error for invalid url")
	}
}
