package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/railroute/internal/metrics"
	"github.com/matzehuels/railroute/internal/server"
	"github.com/matzehuels/railroute/pkg/observability"
)

// serveOpts holds the flags of the serve command.
type serveOpts struct {
	listen      string
	metricsAddr string
}

// serveCommand runs the HTTP query API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve itinerary queries over HTTP",
		Long: `Load the timetable once and answer queries over HTTP.

Prometheus metrics are served on --metrics-addr, or under /metrics on the
main listener when no separate address is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.listen == "" {
				opts.listen = c.Config.Server.Listen
			}
			if opts.metricsAddr == "" {
				opts.metricsAddr = c.Config.Server.MetricsAddr
			}
			return userError(c.runServe(cmd.Context(), opts))
		},
	}

	cmd.Flags().StringVar(&opts.listen, "listen", "", "API listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "separate listen address for /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	collector := metrics.NewCollector()
	collector.Register()
	defer observability.Reset()

	plan, err := c.loadPlan(ctx)
	if err != nil {
		return err
	}
	printSuccess("Timetable ready")
	printStats(plan)

	api := server.New(plan, logger)
	servers := []*http.Server{api.HTTPServer(opts.listen)}
	if opts.metricsAddr != "" {
		servers = append(servers, collector.Server(opts.metricsAddr))
	} else {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		mux.Handle("/", servers[0].Handler)
		servers[0].Handler = mux
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(servers, c.Config.Server.ShutdownTimeout)
	})

	err = g.Wait()
	if ctx.Err() != nil {
		logger.Info("stopped")
		return nil
	}
	return err
}

// shutdown stops every server, waiting at most timeout for open requests.
func shutdown(servers []*http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var errs []error
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
