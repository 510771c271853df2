package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hyperkey/internal/server"
	"github.com/matzehuels/hyperkey/pkg/metrics"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve realizations and key generation over HTTP until interrupted.

  POST /v1/realizations  stream realizations as NDJSON
  POST /v1/keys          derive a key hypergraph
  GET  /healthz          liveness and build information
  GET  /metrics          Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	metrics.Register()
	printInfo("Serving on %s", StyleLink.Render("http://"+c.Config.Server.Addr))
	printDetail("cache: %s · max limit: %d", c.Config.Cache.Backend, c.Config.Server.MaxLimit)

	srv := server.New(runner, c.Config, loggerFromContext(ctx))
	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	printSuccess("Server stopped")
	return nil
}
