package hypergraph

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz DOT representation of the incidence graph.
//
// Vertices are drawn as circles and every present edge as a small box
// labeled with its rank, joined to each of its members. The result is an
// undirected graph suitable for the neato or dot layouts.
//
// If labels[i] exists, vertex i is shown as labels[i], otherwise by its
// index. Pass nil for numeric labels. The labels slice is not modified.
func (h *Hypergraph) ToDOT(labels []string) string {
	var buf bytes.Buffer
	buf.WriteString("graph Hypergraph {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=14, style=filled, fillcolor=white];\n\n")

	for v := 0; v < h.N(); v++ {
		label := fmt.Sprint(v)
		if v < len(labels) && labels[v] != "" {
			label = labels[v]
		}
		fmt.Fprintf(&buf, "  v%d [label=%q, shape=circle];\n", v, label)
	}

	for r := range h.Ranks() {
		e := Edge(h.idx.Unrank(make(Edge, h.K()), r))
		fmt.Fprintf(&buf, "  e%d [label=\"e%d\", shape=box, fontsize=10, fillcolor=\"#eeeeee\", tooltip=%q];\n", r, r, "{"+e.String()+"}")
		for _, v := range e {
			fmt.Fprintf(&buf, "  e%d -- v%d;\n", r, v)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders the incidence graph as an SVG document.
//
// It builds the DOT source with ToDOT and lays it out with Graphviz through
// github.com/goccy/go-graphviz. Errors from initialization, parsing or
// rendering are wrapped with %w.
func (h *Hypergraph) RenderSVG(ctx context.Context, labels []string) ([]byte, error) {
	dot := h.ToDOT(labels)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
