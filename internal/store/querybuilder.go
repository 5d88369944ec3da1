package store

import (
	"fmt"
	"strings"

	"github.com/alphikemal/web-GIS-tryon/internal/model"
)

// QueryBuilder assembles the aggregation SQL for one layer. Identifiers
// come from the static layer registry only; every request-supplied value,
// including the row limit, is a bound parameter.
type QueryBuilder struct {
	Layer model.Layer
}

// Build returns the SQL text and bound arguments. The query shapes its
// result as one GeoJSON FeatureCollection: each row becomes a Feature whose
// properties are every non-geometry column, and with no matching rows the
// coalesce yields an empty features array rather than NULL.
func (qb QueryBuilder) Build(p model.QueryParams) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if strings.TrimSpace(p.Text) != "" {
		args = append(args, strings.TrimSpace(p.Text))
		conds = append(conds, fmt.Sprintf(
			"t.%s ILIKE '%%' || $%d || '%%'",
			qb.Layer.LabelColumn, len(args)))
	}

	if p.BBox != nil {
		args = append(args, p.BBox.MinX, p.BBox.MinY, p.BBox.MaxX, p.BBox.MaxY)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"ST_Intersects(t.%s, ST_MakeEnvelope($%d, $%d, $%d, $%d, %d))",
			qb.Layer.GeomColumn, n-3, n-2, n-1, n, qb.Layer.SRID))
	}

	where := ""
	if len(conds) > 0 {
		where = "\n  WHERE " + strings.Join(conds, " AND ")
	}

	limit := p.Limit
	if limit < 1 {
		limit = model.DefaultLimit
	}
	if limit > model.MaxLimit {
		limit = model.MaxLimit
	}
	args = append(args, limit)

	sqlText := fmt.Sprintf(`SELECT jsonb_build_object(
  'type', 'FeatureCollection',
  'features', coalesce(jsonb_agg(f.feature), '[]'::jsonb)
)
FROM (
  SELECT jsonb_build_object(
    'type', 'Feature',
    'geometry', ST_AsGeoJSON(t.%s)::jsonb,
    'properties', to_jsonb(t) - '%s'
  ) AS feature
  FROM %s t%s
  LIMIT $%d
) f`,
		qb.Layer.GeomColumn, qb.Layer.GeomColumn, qb.Layer.Table, where, len(args))

	return sqlText, args
}
