package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func handleHealth(src FeatureSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := src.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func handleWhoAmI(logger *slog.Logger, src FeatureSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, err := src.WhoAmI(r.Context())
		if err != nil {
			logger.Error("whoami failed", "err", err)
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, info)
	}
}

// handleLayer serves a filtered GeoJSON FeatureCollection over one source
// table. Responses are marked no-store so store updates are always visible
// to the next fetch.
func handleLayer(logger *slog.Logger, src FeatureSource, layer string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := ParseQueryParams(r)

		doc, err := src.QueryFeatures(r.Context(), layer, p)
		if err != nil {
			logger.Error("layer query failed", "layer", layer, "err", err)
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/geo+json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(doc)
	}
}

func handleStats(logger *slog.Logger, src FeatureSource, layer string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := src.Stats(r.Context(), layer)
		if err != nil {
			logger.Error("stats failed", "layer", layer, "err", err)
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}
