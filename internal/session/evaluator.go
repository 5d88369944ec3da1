package session

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"

	"github.com/alphikemal/web-GIS-tryon/internal/geo"
	"github.com/alphikemal/web-GIS-tryon/internal/model"
)

// rectEvaluator answers which features intersect a query rectangle. The
// index is rebuilt wholesale on each load, matching collection lifetime.
type rectEvaluator struct {
	tree *rtree.RTreeG[*geo.Feature]
}

func newRectEvaluator(c *geo.Collection) *rectEvaluator {
	var tr rtree.RTreeG[*geo.Feature]
	for _, f := range c.Features {
		if f.Feature.Geometry == nil {
			continue
		}
		b := f.Feature.Geometry.Bound()
		tr.Insert([2]float64{b.Min[0], b.Min[1]}, [2]float64{b.Max[0], b.Max[1]}, f)
	}
	return &rectEvaluator{tree: &tr}
}

// Intersecting returns matching features in load order. Points match on
// inclusive containment; any other geometry matches when its own bounding
// box overlaps the rectangle on both axes. Non-point shapes are therefore
// an approximation that can over-select relative to true intersection.
func (e *rectEvaluator) Intersecting(rect model.BBox) []*geo.Feature {
	if e == nil || e.tree == nil {
		return nil
	}
	var out []*geo.Feature
	e.tree.Search(
		[2]float64{rect.MinX, rect.MinY},
		[2]float64{rect.MaxX, rect.MaxY},
		func(_, _ [2]float64, f *geo.Feature) bool {
			if matchesRect(f.Feature.Geometry, rect) {
				out = append(out, f)
			}
			return true
		},
	)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func matchesRect(g orb.Geometry, rect model.BBox) bool {
	if g == nil {
		return false
	}
	if p, ok := g.(orb.Point); ok {
		return p.X() >= rect.MinX && p.X() <= rect.MaxX &&
			p.Y() >= rect.MinY && p.Y() <= rect.MaxY
	}
	b := g.Bound()
	return b.Min[0] <= rect.MaxX && b.Max[0] >= rect.MinX &&
		b.Min[1] <= rect.MaxY && b.Max[1] >= rect.MinY
}
