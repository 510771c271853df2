package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
	"github.com/matzehuels/hyperkey/pkg/hypergraph"
)

// Document is the JSON form of a hypergraph.
type Document struct {
	Vertices  int     `json:"vertices"`
	Dimension int     `json:"dimension"`
	Edges     [][]int `json:"edges"`
}

// NewDocument converts h. Edges appear in rank order.
func NewDocument(h *hypergraph.Hypergraph) Document {
	doc := Document{Vertices: h.N(), Dimension: h.K(), Edges: make([][]int, 0, h.Len())}
	for e := range h.Edges() {
		doc.Edges = append(doc.Edges, e)
	}
	return doc
}

// Hypergraph builds the hypergraph described by the document.
func (d Document) Hypergraph() (*hypergraph.Hypergraph, error) {
	h, err := hypergraph.New(d.Vertices, d.Dimension)
	if err != nil {
		return nil, err
	}
	for i, vs := range d.Edges {
		e := hypergraph.Edge(vs)
		if h.Contains(e) {
			return nil, errs.New(errs.ErrCodeInvalidEdge, "edge %d {%s} is listed twice", i, e)
		}
		if err := h.Set(e, true); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	return h, nil
}

// WriteJSON encodes h as indented JSON.
func WriteJSON(h *hypergraph.Hypergraph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(h)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes one hypergraph from r. It does not close r.
func ReadJSON(r io.Reader) (*hypergraph.Hypergraph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode hypergraph")
	}
	return doc.Hypergraph()
}

// WriteAll encodes a listing of hypergraphs as a JSON array.
func WriteAll(hs []*hypergraph.Hypergraph, w io.Writer) error {
	docs := make([]Document, len(hs))
	for i, h := range hs {
		docs[i] = NewDocument(h)
	}
	if err := json.NewEncoder(w).Encode(docs); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadAll decodes a JSON array written by WriteAll.
func ReadAll(r io.Reader) ([]*hypergraph.Hypergraph, error) {
	var docs []Document
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode listing")
	}
	hs := make([]*hypergraph.Hypergraph, len(docs))
	for i, d := range docs {
		h, err := d.Hypergraph()
		if err != nil {
			return nil, fmt.Errorf("hypergraph %d: %w", i, err)
		}
		hs[i] = h
	}
	return hs, nil
}

// ExportJSON writes h to a file at path.
func ExportJSON(h *hypergraph.Hypergraph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(h, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportJSON reads a hypergraph from the file at path.
func ImportJSON(path string) (*hypergraph.Hypergraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
