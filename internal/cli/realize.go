package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
	hio "github.com/matzehuels/hyperkey/pkg/io"
	"github.com/matzehuels/hyperkey/pkg/pipeline"
	"github.com/matzehuels/hyperkey/pkg/realize"
)

// Listing formats for the realize command.
const (
	listText = "text" // one hypergraph per line
	listJSON = "json" // JSON array of hypergraph documents
)

// realizeOpts holds the command-line flags for the realize command.
type realizeOpts struct {
	k        int
	strategy string        // recursive or iterative; config default when empty
	limit    int           // config default when zero
	format   string        // text or json
	output   string        // file path; stdout when empty
	timeout  time.Duration // config default when zero
	noCache  bool
	refresh  bool
}

// realizeCommand creates the realize command.
func (c *CLI) realizeCommand() *cobra.Command {
	opts := realizeOpts{format: listText}

	cmd := &cobra.Command{
		Use:   "realize <degrees>",
		Short: "List the k-uniform hypergraphs with a given degree sequence",
		Long: `List the k-uniform hypergraphs on n labelled vertices whose vertex degrees
equal the given sequence. Hypergraphs are listed in lexicographic order of
their edge ranks.`,
		Example: `  hyperkey realize 1,1,1,1 -k 2
  hyperkey realize 2,2,2,2,2,2 -k 3 --limit 10 --format json -o out.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			degrees, err := parseDegrees(args[0])
			if err != nil {
				return err
			}
			if opts.format != listText && opts.format != listJSON {
				return errs.New(errs.ErrCodeInvalidInput, "invalid format: %q (must be text or json)", opts.format)
			}
			return c.runRealize(cmd.Context(), degrees, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.k, "k", "k", 0, "edge size")
	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "search strategy: recursive, iterative (default from config)")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "maximum number of realizations (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "give up after this long (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute and overwrite cached results")
	_ = cmd.MarkFlagRequired("k")

	return cmd
}

func (c *CLI) runRealize(ctx context.Context, degrees []int, opts realizeOpts) error {
	if opts.strategy == "" {
		opts.strategy = c.Config.Realize.Strategy
	}
	if opts.limit == 0 {
		opts.limit = c.Config.Realize.Limit
	}
	if opts.timeout == 0 {
		opts.timeout = c.Config.Realize.Timeout
	}
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Searching...")
	spinner.Start()
	res, err := runner.Realize(ctx, pipeline.RealizeOptions{
		Degrees:  degrees,
		K:        opts.k,
		Strategy: opts.strategy,
		Limit:    opts.limit,
		Refresh:  opts.refresh,
		Progress: func(s realize.Stats) {
			spinner.SetMessage(fmt.Sprintf("Searching... %d found, %d explored", s.Yielded, s.Explored))
		},
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	if err := c.writeListing(res, opts); err != nil {
		return err
	}

	switch n := len(res.Hypergraphs); n {
	case 0:
		printWarning("No hypergraph has degree sequence %v with k=%d", degrees, opts.k)
	case 1:
		printSuccess("Found 1 realization")
	default:
		printSuccess("Found %d realizations", n)
	}
	printStats(len(res.Hypergraphs), res.Stats.Explored, res.CacheHit)
	if res.Truncated {
		printWarning("Stopped at the limit of %d; more realizations exist", opts.limit)
	}
	if opts.output != "" {
		printFile(opts.output)
		if opts.format == listJSON && len(res.Hypergraphs) > 0 {
			printNextStep("Render one", fmt.Sprintf("%s render %s", appName, opts.output))
		}
	}
	return nil
}

// writeListing writes the realizations to the output file or stdout.
func (c *CLI) writeListing(res *pipeline.RealizeResult, opts realizeOpts) (err error) {
	w := c.out
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		w = f
	}
	return writeRealizations(w, res, opts.format)
}

func writeRealizations(w io.Writer, res *pipeline.RealizeResult, format string) error {
	if format == listJSON {
		return hio.WriteAll(res.Hypergraphs, w)
	}
	for _, h := range res.Hypergraphs {
		if _, err := fmt.Fprintln(w, h); err != nil {
			return err
		}
	}
	return nil
}
