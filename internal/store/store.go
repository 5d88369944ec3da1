// Package store provides read-only access to the spatial tables.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	_ "github.com/lib/pq"

	"github.com/alphikemal/web-GIS-tryon/internal/model"
	"github.com/alphikemal/web-GIS-tryon/internal/observability"
)

// LayerStats summarizes one source table for the debug endpoints.
type LayerStats struct {
	Layer  string `json:"layer"`
	Rows   int64  `json:"rows"`
	SRID   int    `json:"srid"`
	Extent string `json:"extent"`
}

// ConnInfo reports the current database identity and endpoints.
type ConnInfo struct {
	User       string `json:"user"`
	ServerAddr string `json:"server_addr"`
	ServerPort int    `json:"server_port"`
	ClientAddr string `json:"client_addr"`
	Version    string `json:"version"`
}

type Store struct {
	db     *sql.DB
	logger *slog.Logger
	layers map[string]model.Layer

	// stats answers come from full-table aggregates; a short-lived cache
	// keeps the debug endpoints from hammering them. Feature queries are
	// never cached.
	stats *expirable.LRU[string, LayerStats]
}

// Open connects to Postgres and configures the pool.
func Open(dsn string, logger *slog.Logger, layers []model.Layer, statsTTL time.Duration) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)
	return Attach(db, logger, layers, statsTTL), nil
}

// Attach wraps an existing pool.
func Attach(db *sql.DB, logger *slog.Logger, layers []model.Layer, statsTTL time.Duration) *Store {
	ls := make(map[string]model.Layer, len(layers))
	for _, l := range layers {
		ls[l.Name] = l
	}
	return &Store{
		db:     db,
		logger: logger,
		layers: ls,
		stats:  expirable.NewLRU[string, LayerStats](16, nil, statsTTL),
	}
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Layer resolves a layer name against the registry.
func (s *Store) Layer(name string) (model.Layer, bool) {
	l, ok := s.layers[name]
	return l, ok
}

// QueryFeatures runs the filtered layer query and returns the aggregated
// FeatureCollection document as produced by the database.
func (s *Store) QueryFeatures(ctx context.Context, layerName string, p model.QueryParams) ([]byte, error) {
	layer, ok := s.layers[layerName]
	if !ok {
		return nil, fmt.Errorf("unknown layer %q", layerName)
	}

	sqlText, args := QueryBuilder{Layer: layer}.Build(p)

	start := time.Now()
	var doc []byte
	if err := s.db.QueryRowContext(ctx, sqlText, args...).Scan(&doc); err != nil {
		return nil, fmt.Errorf("query layer %s: %w", layerName, err)
	}
	dur := time.Since(start)

	n := countFeatures(doc)
	observability.ObserveLayerQuery(layerName, dur.Seconds(), n)
	s.logger.Debug("layer query",
		"layer", layerName,
		"features", n,
		"duration", dur.String())
	return doc, nil
}

// Stats returns row count, spatial reference id, and overall extent for a
// layer. Results are cached briefly.
func (s *Store) Stats(ctx context.Context, layerName string) (LayerStats, error) {
	if st, ok := s.stats.Get(layerName); ok {
		return st, nil
	}
	layer, ok := s.layers[layerName]
	if !ok {
		return LayerStats{}, fmt.Errorf("unknown layer %q", layerName)
	}

	st := LayerStats{Layer: layerName}

	countSQL := fmt.Sprintf(
		"SELECT count(*), coalesce(ST_Extent(%s)::text, '') FROM %s",
		layer.GeomColumn, layer.Table)
	if err := s.db.QueryRowContext(ctx, countSQL).Scan(&st.Rows, &st.Extent); err != nil {
		return LayerStats{}, fmt.Errorf("stats for %s: %w", layerName, err)
	}

	sridSQL := fmt.Sprintf(
		"SELECT coalesce((SELECT ST_SRID(%s) FROM %s WHERE %s IS NOT NULL LIMIT 1), 0)",
		layer.GeomColumn, layer.Table, layer.GeomColumn)
	if err := s.db.QueryRowContext(ctx, sridSQL).Scan(&st.SRID); err != nil {
		return LayerStats{}, fmt.Errorf("srid for %s: %w", layerName, err)
	}

	s.stats.Add(layerName, st)
	return st, nil
}

// WhoAmI reports the connected user and endpoints.
func (s *Store) WhoAmI(ctx context.Context) (ConnInfo, error) {
	const q = `SELECT current_user,
       coalesce(inet_server_addr()::text, ''),
       coalesce(inet_server_port(), 0),
       coalesce(inet_client_addr()::text, ''),
       version()`
	var info ConnInfo
	err := s.db.QueryRowContext(ctx, q).Scan(
		&info.User, &info.ServerAddr, &info.ServerPort, &info.ClientAddr, &info.Version)
	if err != nil {
		return ConnInfo{}, fmt.Errorf("whoami: %w", err)
	}
	return info, nil
}

func countFeatures(doc []byte) int {
	var fc struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(doc, &fc); err != nil {
		return 0
	}
	return len(fc.Features)
}
