package geo

import (
	"errors"
	"testing"
)

const sampleDoc = `{"type":"FeatureCollection","features":[
 {"type":"Feature","geometry":{"type":"Point","coordinates":[1,1]},"properties":{"id":1,"city":"X"}},
 {"type":"Feature","geometry":{"type":"Point","coordinates":[5,5]},"properties":{"id":2,"city":"Y"}},
 {"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2],[0,0]]]},"properties":{"id":3,"kind":"area"}}
]}`

func TestParse_KeyUnionFirstSeenOrder(t *testing.T) {
	col, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []string{"id", "city", "kind"}
	if len(col.KeyUnion) != len(want) {
		t.Fatalf("key union %v, want %v", col.KeyUnion, want)
	}
	for i, k := range want {
		if col.KeyUnion[i] != k {
			t.Fatalf("key union[%d] = %q, want %q (full: %v)", i, col.KeyUnion[i], k, col.KeyUnion)
		}
	}
}

func TestParse_KeyUnionDeduplicates(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
	 {"type":"Feature","geometry":null,"properties":{"a":1,"b":2}},
	 {"type":"Feature","geometry":null,"properties":{"b":3,"c":4,"a":5}}
	]}`
	col, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := col.KeyUnion
	want := []string{"a", "b", "c"}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("key union = %v, want %v", got, want)
	}
}

func TestParse_SessionIDsFollowLoadOrder(t *testing.T) {
	col, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for i, f := range col.Features {
		if f.ID != i {
			t.Fatalf("feature %d has id %d", i, f.ID)
		}
	}
	if f := col.ByID(1); f == nil || f.ID != 1 {
		t.Fatalf("ByID(1) = %v", f)
	}
	if f := col.ByID(99); f != nil {
		t.Fatalf("ByID(99) should be nil, got %v", f)
	}
}

func TestParse_NullPropertiesContributeNoKeys(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
	 {"type":"Feature","geometry":{"type":"Point","coordinates":[0,0]},"properties":null}
	]}`
	col, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(col.KeyUnion) != 0 {
		t.Fatalf("key union = %v, want empty", col.KeyUnion)
	}
}

func TestParse_Malformed(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"invalid json", `{"type": "FeatureCollection", "features":`},
		{"wrong type", `{"type":"Feature","features":[]}`},
		{"bad feature", `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":"nope"}}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			if err == nil {
				t.Fatalf("expected error")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
		})
	}
}

func TestBound_UnionOfAllGeometries(t *testing.T) {
	col, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b, ok := col.Bound()
	if !ok {
		t.Fatalf("expected a bound")
	}
	if b.Min[0] != 0 || b.Min[1] != 0 || b.Max[0] != 5 || b.Max[1] != 5 {
		t.Fatalf("bound = %v", b)
	}
}

func TestBound_NoGeometry(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
	 {"type":"Feature","geometry":null,"properties":{"a":1}}
	]}`
	col, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, ok := col.Bound(); ok {
		t.Fatalf("expected no bound for geometry-less collection")
	}
}

func TestParse_EmptyCollection(t *testing.T) {
	col, err := Parse([]byte(`{"type":"FeatureCollection","features":[]}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(col.Features) != 0 || len(col.KeyUnion) != 0 {
		t.Fatalf("expected empty collection, got %d features, keys %v", len(col.Features), col.KeyUnion)
	}
}
