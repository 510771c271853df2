package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
	"github.com/matzehuels/hyperkey/pkg/hypergraph"
	hio "github.com/matzehuels/hyperkey/pkg/io"
	"github.com/matzehuels/hyperkey/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // file path; derived from the input when empty
	format  string // svg, dot or json; from the output extension when empty
	index   int    // which hypergraph of a listing to draw
	labels  string // comma-separated vertex labels
	noCache bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <file.json>",
		Short: "Draw a stored hypergraph as SVG or DOT",
		Long: `Draw a hypergraph stored as JSON. The file may hold a single hypergraph,
as written by keygen, or a listing, as written by realize --format json; use
--index to pick one from a listing.

Vertices are drawn as circles and each edge as a small box, labelled with
its rank, joined to each of its members.`,
		Example: `  hyperkey render key.json
  hyperkey render listing.json --index 2 -o third.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <input>.<format>, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), dot, json")
	cmd.Flags().IntVar(&opts.index, "index", 0, "hypergraph to draw from a listing")
	cmd.Flags().StringVar(&opts.labels, "labels", "", "vertex labels (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	h, err := readHypergraph(input, opts.index)
	if err != nil {
		return err
	}

	format := opts.format
	if format == "" {
		if format, err = formatFromPath(opts.output, pipeline.FormatSVG); err != nil {
			return err
		}
	}
	output := opts.output
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
		if output == input {
			return errs.New(errs.ErrCodeInvalidInput, "rendering %s as %s would overwrite it; pass --output", input, format)
		}
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	data, err := runner.Render(ctx, h, pipeline.RenderOptions{
		Format: format,
		Labels: parseList(opts.labels),
	})
	if err != nil {
		return err
	}
	if err := c.writeOutput(output, data); err != nil {
		return err
	}
	prog.done("rendered", "format", format, "vertices", h.N(), "edges", h.Len())
	if output != "-" {
		printSuccess("Rendered %s", format)
		printFile(output)
	}
	return nil
}

// readHypergraph loads the hypergraph at index from a file holding either
// one document or a JSON array of them.
func readHypergraph(path string, index int) (*hypergraph.Hypergraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if !isListing(data) {
		if index != 0 {
			return nil, errs.New(errs.ErrCodeOutOfRange, "%s holds one hypergraph; --index must be 0", path)
		}
		return hio.ReadJSON(bytes.NewReader(data))
	}
	hs, err := hio.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := errs.RequireIndex("index", index, len(hs)); err != nil {
		return nil, err
	}
	return hs[index], nil
}

// isListing reports whether data holds a JSON array.
func isListing(data []byte) bool {
	t := bytes.TrimLeft(data, " \t\r\n")
	return len(t) > 0 && t[0] == '['
}
