// Package cli implements the hyperkey command-line interface.
//
// # Commands
//
//   - realize: list the hypergraphs with a given degree sequence
//   - browse: page through realizations interactively
//   - keygen: derive a connected key hypergraph from a shared secret
//   - render: draw a stored hypergraph as SVG or DOT
//   - serve: run the HTTP API
//   - cache: inspect or clear the result cache
//
// # Logging
//
// All commands log through a charmbracelet/log logger on stderr, at info
// level by default and debug level with --verbose. Results go to stdout;
// status lines go to stderr so output can be piped.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hyperkey/pkg/buildinfo"
	"github.com/matzehuels/hyperkey/pkg/cache"
	"github.com/matzehuels/hyperkey/pkg/config"
	errs "github.com/matzehuels/hyperkey/pkg/errors"
	"github.com/matzehuels/hyperkey/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "hyperkey"

// LogInfo is the level main.go starts the logger at, before the config
// and --verbose are read.
const LogInfo = log.InfoLevel

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
	verbose    bool
	out        io.Writer // command results; status lines go to stderr
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

// SetOutput redirects command results, which go to stdout by default.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Hyperkey enumerates uniform hypergraphs and derives hypergraph keys",
		Long: `Hyperkey lists every k-uniform hypergraph with a prescribed degree sequence
and derives connected hypergraph keys from shared secrets.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/hyperkey/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging (overrides log.level)")

	root.AddCommand(c.realizeCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.keygenCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file, sets the log level from it and
// --verbose, and attaches a command-scoped logger to the command context.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	level, err := logLevel(c.verbose, cfg.Log.Level)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.SetLevel(level)
	c.Logger.Debug("config loaded", "path", c.configPath, "cache", cfg.Cache.Backend, "level", level)
	cmd.SetContext(withLogger(cmd.Context(), commandLogger(c.Logger, cmd)))
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, c.Config.Cache, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if ns := c.Config.Cache.Namespace; ns != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), ns)
	}
	return pipeline.NewRunner(cc, keyer, loggerFromContext(ctx)), nil
}

func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		c, err := cache.NewRedisCache(ctx, cfg.URL, appName+":")
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return c, nil
	case "mongo":
		c, err := cache.NewMongoCache(ctx, cfg.URL, cfg.Database, cfg.Collection)
		if err != nil {
			return nil, fmt.Errorf("open mongo cache: %w", err)
		}
		return c, nil
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open file cache: %w", err)
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/hyperkey/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Argument Helpers
// =============================================================================

// parseDegrees parses a degree sequence such as "2,2,2,2" or "2 2 2 2".
func parseDegrees(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "empty degree sequence")
	}
	degrees := make([]int, len(fields))
	for i, f := range fields {
		d, err := strconv.Atoi(f)
		if err != nil {
			return nil, errs.New(errs.ErrCodeInvalidInput, "degree %q is not an integer", f)
		}
		degrees[i] = d
	}
	return degrees, nil
}

// parseList splits a comma-separated flag value, dropping empty items.
func parseList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
