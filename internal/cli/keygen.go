package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
	"github.com/matzehuels/hyperkey/pkg/keygen"
	"github.com/matzehuels/hyperkey/pkg/pipeline"
)

// keygenOpts holds the command-line flags for the keygen command.
type keygenOpts struct {
	n, k   int
	secret string // hex
	g, p   string // Diffie-Hellman group, used when secret is empty
	stream string // config default when empty
	output string // .json, .dot or .svg; JSON on stdout when empty
}

// keygenCommand creates the keygen command.
func (c *CLI) keygenCommand() *cobra.Command {
	var opts keygenOpts

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Derive a connected key hypergraph from a shared secret",
		Long: `Derive a connected k-uniform hypergraph on n vertices from a shared secret.
Equal secrets always give equal keys.

The secret is given in hex with --secret. Alternatively --g and --p run a
local Diffie-Hellman exchange in that group and use the agreed value, which
is useful for trying the scheme end to end.`,
		Example: `  hyperkey keygen -n 8 -k 3 --secret 0badc0de
  hyperkey keygen -n 8 -k 3 --g 5 --p 23 -o key.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runKeygen(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.n, "n", "n", 0, "number of vertices")
	cmd.Flags().IntVarP(&opts.k, "k", "k", 0, "edge size")
	cmd.Flags().StringVar(&opts.secret, "secret", "", "shared secret in hex")
	cmd.Flags().StringVar(&opts.g, "g", "", "Diffie-Hellman generator")
	cmd.Flags().StringVar(&opts.p, "p", "", "Diffie-Hellman prime modulus")
	cmd.Flags().StringVar(&opts.stream, "stream", "", "keystream: lcg, jsf, chacha8 (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file: .json, .dot or .svg (default JSON on stdout)")
	_ = cmd.MarkFlagRequired("n")
	_ = cmd.MarkFlagRequired("k")
	cmd.MarkFlagsMutuallyExclusive("secret", "g")
	cmd.MarkFlagsMutuallyExclusive("secret", "p")
	cmd.MarkFlagsRequiredTogether("g", "p")

	return cmd
}

func (c *CLI) runKeygen(ctx context.Context, opts keygenOpts) error {
	secret, err := resolveSecret(opts)
	if err != nil {
		return err
	}
	format, err := formatFromPath(opts.output, pipeline.FormatJSON)
	if err != nil {
		return err
	}
	if opts.stream == "" {
		opts.stream = c.Config.Keygen.Stream
	}

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	res, err := runner.GenerateKey(ctx, pipeline.KeyOptions{
		N:      opts.n,
		K:      opts.k,
		Stream: opts.stream,
		Secret: secret,
	})
	if err != nil {
		return err
	}
	data, err := runner.Render(ctx, res.Key, pipeline.RenderOptions{Format: format})
	if err != nil {
		return err
	}
	if err := c.writeOutput(opts.output, data); err != nil {
		return err
	}

	prog.done("key generated", "stream", opts.stream, "edges", res.Key.Len(), "repaired", len(res.Added))

	printSuccess("Generated key with %d edges", res.Key.Len())
	printKeyValue("seed", res.Seed.String())
	printKeyValue("sampled", fmt.Sprintf("%d edges, %d components", res.Sampled, res.InitialComponents))
	if len(res.Added) > 0 {
		added := make([]string, len(res.Added))
		for i, e := range res.Added {
			added[i] = e.String()
		}
		printKeyValue("repaired", strings.Join(added, " "))
	}
	if opts.output != "" {
		printFile(opts.output)
	}
	return nil
}

// resolveSecret returns the hex secret, or runs a Diffie-Hellman exchange
// when a group is given instead.
func resolveSecret(opts keygenOpts) ([]byte, error) {
	if opts.secret != "" {
		s := strings.TrimPrefix(strings.TrimPrefix(opts.secret, "0x"), "0X")
		secret, err := hex.DecodeString(s)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "secret is not valid hex")
		}
		return secret, nil
	}
	if opts.g == "" || opts.p == "" {
		return nil, errs.New(errs.ErrCodeInvalidInput, "either --secret or both --g and --p are required")
	}
	g, ok := new(big.Int).SetString(opts.g, 0)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidInput, "generator %q is not an integer", opts.g)
	}
	p, ok := new(big.Int).SetString(opts.p, 0)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidInput, "modulus %q is not an integer", opts.p)
	}
	dh, err := keygen.NewDH(g, p)
	if err != nil {
		return nil, err
	}
	shared, err := dh.Exchange(nil)
	if err != nil {
		return nil, err
	}
	printInfo("Agreed on a secret by Diffie-Hellman in the group mod %s", p)
	return shared.Bytes(), nil
}

// formatFromPath picks the render format from a file extension, or def
// when path is empty.
func formatFromPath(path, def string) (string, error) {
	if path == "" || path == "-" {
		return def, nil
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if err := pipeline.ValidateFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

// writeOutput writes data to path, or to the command output when path is
// empty or "-".
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := c.out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
