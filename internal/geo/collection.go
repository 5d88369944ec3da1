// Package geo holds the in-memory feature collection and its loader.
//
// Features keep their source property order: the key union shown in the
// attribute table is ordered by first appearance across the document, which
// a Go map would not preserve, so property keys are scanned off the raw JSON.
package geo

import (
	"bytes"
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature is one loaded feature plus its stable per-session identity.
type Feature struct {
	// ID is assigned sequentially at load time and is only meaningful within
	// the collection that produced it.
	ID      int
	Feature *geojson.Feature

	propertyKeys []string
}

// PropertyKeys returns the feature's property names in source order.
func (f *Feature) PropertyKeys() []string { return f.propertyKeys }

// Collection is an immutable, ordered set of features plus the property key
// union derived at load time.
type Collection struct {
	Features []*Feature
	KeyUnion []string
}

// ByID returns the feature with the given session id, or nil.
func (c *Collection) ByID(id int) *Feature {
	if c == nil || id < 0 || id >= len(c.Features) {
		return nil
	}
	return c.Features[id]
}

// Bound returns the overall bounding box of all geometries. ok is false when
// the collection holds no geometry.
func (c *Collection) Bound() (orb.Bound, bool) {
	var out orb.Bound
	found := false
	for _, f := range c.Features {
		if f.Feature.Geometry == nil {
			continue
		}
		b := f.Feature.Geometry.Bound()
		if !found {
			out = b
			found = true
		} else {
			out = out.Union(b)
		}
	}
	return out, found
}

type rawCollection struct {
	Type     string            `json:"type"`
	Features []json.RawMessage `json:"features"`
}

type rawFeature struct {
	Geometry   json.RawMessage `json:"geometry"`
	Properties json.RawMessage `json:"properties"`
}

func isJSONNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Parse decodes a GeoJSON FeatureCollection document into canonical form,
// assigning session ids and computing the key union. Any malformed input
// yields a *ParseError.
func Parse(raw []byte) (*Collection, error) {
	var rc rawCollection
	if err := json.Unmarshal(raw, &rc); err != nil {
		return nil, &ParseError{Reason: "invalid JSON", Err: err}
	}
	if rc.Type != "FeatureCollection" {
		return nil, &ParseError{Reason: "not a FeatureCollection"}
	}

	col := &Collection{Features: make([]*Feature, 0, len(rc.Features))}
	seen := make(map[string]struct{})

	for i, rf := range rc.Features {
		var meta rawFeature
		if err := json.Unmarshal(rf, &meta); err != nil {
			return nil, &ParseError{Reason: "invalid feature", Err: err}
		}

		var gf *geojson.Feature
		if isJSONNull(meta.Geometry) {
			// geometry-less features are legal; only the properties carry data
			gf = &geojson.Feature{Type: "Feature", Properties: geojson.Properties{}}
			if !isJSONNull(meta.Properties) {
				if err := json.Unmarshal(meta.Properties, &gf.Properties); err != nil {
					return nil, &ParseError{Reason: "invalid properties", Err: err}
				}
			}
		} else {
			var err error
			gf, err = geojson.UnmarshalFeature(rf)
			if err != nil {
				return nil, &ParseError{Reason: "invalid feature", Err: err}
			}
		}
		keys, err := propertyKeys(meta.Properties)
		if err != nil {
			return nil, &ParseError{Reason: "invalid properties", Err: err}
		}

		f := &Feature{ID: i, Feature: gf, propertyKeys: keys}
		col.Features = append(col.Features, f)

		for _, k := range keys {
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				col.KeyUnion = append(col.KeyUnion, k)
			}
		}
	}
	return col, nil
}

// propertyKeys extracts object keys in document order. A null or absent
// properties member contributes no keys.
func propertyKeys(props json.RawMessage) ([]string, error) {
	if len(props) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(props))
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	d, ok := t.(json.Delim)
	if !ok || d != '{' {
		// properties: null
		return nil, nil
	}
	var keys []string
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		k, ok := kt.(string)
		if !ok {
			continue
		}
		keys = append(keys, k)
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func skipValue(dec *json.Decoder) error {
	t, err := dec.Token()
	if err != nil {
		return err
	}
	d, ok := t.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		t, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := t.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
