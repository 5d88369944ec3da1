package session

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/alphikemal/web-GIS-tryon/internal/model"
)

// Command is one user action applied to a session through Dispatch. The
// command set replaces per-widget event wiring: input plumbing constructs
// commands, the session executes them.
type Command interface {
	apply(ctx context.Context, s *Session) error
}

// LoadCommand replaces the active collection with a raw GeoJSON document.
type LoadCommand struct {
	Raw []byte
}

func (c LoadCommand) apply(_ context.Context, s *Session) error {
	return s.load(c.Raw)
}

// LoadFromSourceCommand fetches a collection from a remote endpoint.
type LoadFromSourceCommand struct {
	URL    string
	Params url.Values
}

func (c LoadFromSourceCommand) apply(ctx context.Context, s *Session) error {
	return s.loadFromSource(ctx, c.URL, c.Params)
}

// ToggleCommand flips selection membership for one feature.
type ToggleCommand struct {
	ID int
}

func (c ToggleCommand) apply(_ context.Context, s *Session) error {
	s.toggle(c.ID)
	return nil
}

type SelectAllCommand struct{}

func (SelectAllCommand) apply(_ context.Context, s *Session) error {
	s.selectAll()
	return nil
}

type DeselectAllCommand struct{}

func (DeselectAllCommand) apply(_ context.Context, s *Session) error {
	s.deselectAll()
	return nil
}

// RectangleSelectCommand unions every feature intersecting the rectangle
// into the selection.
type RectangleSelectCommand struct {
	Rect model.BBox
}

func (c RectangleSelectCommand) apply(_ context.Context, s *Session) error {
	s.rectangleSelect(c.Rect)
	return nil
}

// ExportGeoJSONCommand writes the selected features as a FeatureCollection.
type ExportGeoJSONCommand struct {
	Out io.Writer
}

func (c ExportGeoJSONCommand) apply(_ context.Context, s *Session) error {
	b, err := s.ExportGeoJSON()
	if err != nil {
		return err
	}
	if _, err := c.Out.Write(b); err != nil {
		return fmt.Errorf("write geojson export: %w", err)
	}
	return nil
}

// ExportCSVCommand writes the selected features as CSV.
type ExportCSVCommand struct {
	Out io.Writer
}

func (c ExportCSVCommand) apply(_ context.Context, s *Session) error {
	b, err := s.ExportCSV()
	if err != nil {
		return err
	}
	if _, err := c.Out.Write(b); err != nil {
		return fmt.Errorf("write csv export: %w", err)
	}
	return nil
}
