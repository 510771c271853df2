// Package io provides JSON import and export for hypergraphs.
//
// # JSON Format
//
// A hypergraph is an object with its shape and its edge list:
//
//	{
//	  "vertices": 4,
//	  "dimension": 2,
//	  "edges": [[0, 1], [2, 3]]
//	}
//
// Edges are written sorted, in rank order, so equal hypergraphs always
// serialize to identical bytes. On import each edge may list its vertices
// in any order; duplicate edges are rejected.
//
// A listing of realizations is a JSON array of such objects; see
// [WriteAll] and [ReadAll]. The HTTP API streams the same objects as
// newline-delimited JSON.
//
// # Import
//
// Use [ImportJSON] to read a hypergraph from a file path, or [ReadJSON] to
// read from any io.Reader:
//
//	h, err := io.ImportJSON("key.json")
//
// Decoding failures are INVALID_FORMAT errors; shape and edge problems
// keep the INVALID_DIMENSION and INVALID_EDGE codes of package hypergraph.
//
// # Export
//
// Use [ExportJSON] to write to a file, or [WriteJSON] to write to any
// io.Writer.
package io
