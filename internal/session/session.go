// Package session owns one view's feature collection and selection state.
//
// A Session is single-owner: all mutation goes through Dispatch on the
// goroutine that owns the view, so there is no internal locking. Overlapping
// loads from a remote source are last-writer-wins.
package session

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/paulmach/orb"

	"github.com/alphikemal/web-GIS-tryon/internal/geo"
	"github.com/alphikemal/web-GIS-tryon/internal/model"
)

// StyleState is the visual state of a feature's rendered handle.
type StyleState int

const (
	StyleDefault StyleState = iota
	StyleSelected
)

// Styler applies a visual state to a feature's rendered handle. The map
// rendering layer supplies the implementation.
type Styler interface {
	Apply(f *geo.Feature, state StyleState)
}

// ViewportFitter is the map-view collaborator asked to fit freshly loaded
// data into view.
type ViewportFitter interface {
	FitBounds(b orb.Bound)
}

type Session struct {
	logger *slog.Logger
	client *http.Client
	styler Styler
	fitter ViewportFitter

	collection *geo.Collection
	selection  *SelectionStore
	evaluator  *rectEvaluator
}

type Option func(*Session)

func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) { s.client = c }
}

func WithStyler(st Styler) Option {
	return func(s *Session) { s.styler = st }
}

func WithViewportFitter(f ViewportFitter) Option {
	return func(s *Session) { s.fitter = f }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func New(opts ...Option) *Session {
	s := &Session{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		collection: &geo.Collection{},
		selection:  NewSelectionStore(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch applies one command to the session.
func (s *Session) Dispatch(ctx context.Context, cmd Command) error {
	return cmd.apply(ctx, s)
}

func (s *Session) Collection() *geo.Collection { return s.collection }
func (s *Session) Selection() *SelectionStore  { return s.selection }

// load replaces the active collection wholesale. On parse failure the
// previous collection and selection are left untouched.
func (s *Session) load(raw []byte) error {
	col, err := geo.Parse(raw)
	if err != nil {
		return err
	}

	for _, e := range s.selection.Clear() {
		s.applyStyle(e.Feature, StyleDefault)
	}
	s.collection = col
	s.selection = NewSelectionStore()
	s.evaluator = newRectEvaluator(col)

	s.logger.Info("collection loaded",
		"features", len(col.Features),
		"keys", len(col.KeyUnion))

	if b, ok := col.Bound(); ok && s.fitter != nil {
		s.fitter.FitBounds(b)
	}
	return nil
}

func (s *Session) loadFromSource(ctx context.Context, rawURL string, params url.Values) error {
	raw, err := geo.Fetch(ctx, s.client, rawURL, params)
	if err != nil {
		return err
	}
	return s.load(raw)
}

func (s *Session) toggle(id int) {
	f := s.collection.ByID(id)
	if f == nil {
		return
	}
	if s.selection.Toggle(f) {
		s.applyStyle(f, StyleSelected)
	} else {
		s.applyStyle(f, StyleDefault)
	}
}

func (s *Session) selectAll() {
	for _, e := range s.selection.SelectAll(s.collection.Features) {
		s.applyStyle(e.Feature, StyleSelected)
	}
}

func (s *Session) deselectAll() {
	for _, e := range s.selection.Clear() {
		s.applyStyle(e.Feature, StyleDefault)
	}
}

func (s *Session) rectangleSelect(rect model.BBox) {
	hits := s.evaluator.Intersecting(rect)
	for _, e := range s.selection.Union(hits) {
		s.applyStyle(e.Feature, StyleSelected)
	}
}

// applyStyle checks the geometry kind before touching the rendered handle
// instead of attempting the change and swallowing failures.
func (s *Session) applyStyle(f *geo.Feature, state StyleState) {
	if s.styler == nil || f == nil {
		return
	}
	if !SupportsHighlight(f.Feature.Geometry) {
		return
	}
	s.styler.Apply(f, state)
}

// SupportsHighlight reports whether the geometry kind has a restylable
// rendering. Point markers are icon-based and take no style override.
func SupportsHighlight(g orb.Geometry) bool {
	switch g.(type) {
	case nil:
		return false
	case orb.Point, orb.MultiPoint:
		return false
	default:
		return true
	}
}
