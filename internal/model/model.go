// Package model defines core domain types shared across the service.
package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// BBox is an axis-aligned envelope in the deployment's spatial reference.
type BBox struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func (b BBox) String() string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// ParseBBox parses "minx,miny,maxx,maxy". Wrong arity or non-finite numbers
// yield (nil, false); callers treat that as "no bbox filter", not an error.
func ParseBBox(s string) (*BBox, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, false
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		vals[i] = f
	}
	return &BBox{MinX: vals[0], MinY: vals[1], MaxX: vals[2], MaxY: vals[3]}, true
}

// Layer describes one queryable source table. Identifiers here come from the
// static registry, never from request input.
type Layer struct {
	Name        string
	Table       string
	GeomColumn  string
	LabelColumn string
	SRID        int
}

const (
	DefaultLimit = 1000
	MaxLimit     = 10000
)

// QueryParams are normalized request parameters for a layer query.
type QueryParams struct {
	Text  string
	BBox  *BBox
	Limit int
}

// ClampLimit coerces a raw limit string into [1, MaxLimit], defaulting when
// absent or non-numeric.
func ClampLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultLimit
	}
	if n < 1 {
		return 1
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}
