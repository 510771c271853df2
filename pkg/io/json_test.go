package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
	"github.com/matzehuels/hyperkey/pkg/hypergraph"
)

func TestWriteJSONFormat(t *testing.T) {
	h, _ := hypergraph.FromEdges(4, 2, hypergraph.Edge{3, 2}, hypergraph.Edge{0, 1})

	var buf bytes.Buffer
	if err := WriteJSON(h, &buf); err != nil {
		t.Fatal(err)
	}
	compact := strings.Join(strings.Fields(buf.String()), "")
	want := `{"vertices":4,"dimension":2,"edges":[[0,1],[2,3]]}`
	if compact != want {
		t.Errorf("WriteJSON = %s, want %s", compact, want)
	}
}

func TestReadJSON(t *testing.T) {
	h, err := ReadJSON(strings.NewReader(`{"vertices":5,"dimension":3,"edges":[[4,0,2],[1,2,3]]}`))
	if err != nil {
		t.Fatal(err)
	}
	if h.N() != 5 || h.K() != 3 || h.Len() != 2 {
		t.Errorf("shape = %d/%d/%d", h.N(), h.K(), h.Len())
	}
	if !h.Contains(hypergraph.Edge{0, 2, 4}) {
		t.Error("unsorted edge not imported")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errs.Code
	}{
		{"malformed", `{"vertices":`, errs.ErrCodeInvalidFormat},
		{"bad shape", `{"vertices":2,"dimension":3,"edges":[]}`, errs.ErrCodeInvalidDimension},
		{"wrong edge size", `{"vertices":4,"dimension":2,"edges":[[0,1,2]]}`, errs.ErrCodeInvalidEdge},
		{"vertex out of range", `{"vertices":4,"dimension":2,"edges":[[0,4]]}`, errs.ErrCodeInvalidEdge},
		{"duplicate edge", `{"vertices":4,"dimension":2,"edges":[[0,1],[1,0]]}`, errs.ErrCodeInvalidEdge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(tt.in)); !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestListingRoundTrip(t *testing.T) {
	a, _ := hypergraph.FromEdges(4, 2, hypergraph.Edge{0, 1}, hypergraph.Edge{2, 3})
	b, _ := hypergraph.New(3, 3)

	var buf bytes.Buffer
	if err := WriteAll([]*hypergraph.Hypergraph{a, b}, &buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || !got[0].Equal(a) || !got[1].Equal(b) {
		t.Errorf("ReadAll = %v", got)
	}
}

func TestFileRoundTrip(t *testing.T) {
	h, _ := hypergraph.FromRanks(7, 3, 0, 5, 34)
	path := filepath.Join(t.TempDir(), "key.json")

	if err := ExportJSON(h, path); err != nil {
		t.Fatal(err)
	}
	back, err := ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(h) {
		t.Errorf("ImportJSON = %v, want %v", back, h)
	}

	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportJSON(missing) should fail")
	}
}
