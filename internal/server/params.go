package server

import (
	"net/http"
	"strings"

	"github.com/alphikemal/web-GIS-tryon/internal/model"
)

// ParseQueryParams normalizes the filter parameters of a layer request.
// limit clamps to [1, 10000] and defaults to 1000 when absent or
// non-numeric. A malformed bbox (wrong arity or non-finite numbers) is
// dropped rather than rejected, so the request still succeeds unfiltered.
func ParseQueryParams(r *http.Request) model.QueryParams {
	q := r.URL.Query()

	p := model.QueryParams{
		Text:  strings.TrimSpace(q.Get("q")),
		Limit: model.ClampLimit(q.Get("limit")),
	}
	if bb, ok := model.ParseBBox(q.Get("bbox")); ok {
		p.BBox = bb
	}
	return p
}
