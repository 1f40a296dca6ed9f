// Package cli implements the railroute command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railroute/internal/config"
	"github.com/matzehuels/railroute/pkg/buildinfo"
	"github.com/matzehuels/railroute/pkg/cache"
	"github.com/matzehuels/railroute/pkg/errors"
	"github.com/matzehuels/railroute/pkg/planner"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "railroute"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded by the root command before any subcommand runs.
	Config *config.Config

	configPath string
	source     sourceFlags
}

// sourceFlags override the timetable and cache settings from the config.
type sourceFlags struct {
	stations string
	trips    string
	dsn      string
	noCache  bool
	refresh  bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	cfg := config.Default()
	return &CLI{
		Logger: newLogger(w, level),
		Config: &cfg,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Railroute plans train itineraries over a fixed timetable",
		Long: `Railroute answers itinerary questions over a static train timetable:
which trains connect two stations, the fastest way to get there counting or
ignoring layovers, and the best itinerary leaving at a given time.

Connection tables are precomputed once per timetable and cached.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/railroute/config.toml)")
	pf.StringVar(&c.source.stations, "stations", "", "stations table (overrides config)")
	pf.StringVar(&c.source.trips, "trips", "", "trips table (overrides config)")
	pf.StringVar(&c.source.dsn, "dsn", "", "load the timetable from Postgres instead of files")
	pf.BoolVar(&c.source.noCache, "no-cache", false, "disable the precompute cache")
	pf.BoolVar(&c.source.refresh, "refresh", false, "recompute connection tables even when cached")

	root.AddCommand(c.scheduleCommand())
	root.AddCommand(c.stationCommand())
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.menuCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and environment, then applies the
// persistent flag overrides.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.SetLogLevel(cfg.LogLevel())

	if c.source.stations != "" {
		cfg.Timetable.Stations = c.source.stations
	}
	if c.source.trips != "" {
		cfg.Timetable.Trips = c.source.trips
	}
	if c.source.dsn != "" {
		cfg.Timetable.DSN = c.source.dsn
	}
	if c.source.noCache {
		cfg.Cache.Backend = config.CacheNone
	}

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	c.Logger.Debug("configuration", "config", cfg.String())
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a planner runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*planner.Runner, error) {
	store, err := newCache(ctx, c.Config.Cache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Config.Cache.Prefix)
	return planner.NewRunner(store, keyer, c.Logger), nil
}

// newCache opens the cache backend. An unreachable Redis degrades to no
// caching rather than failing the command.
func newCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.Prefix,
		})
		if err != nil {
			loggerFromContext(ctx).Warn("redis cache unavailable, continuing without cache", "addr", cfg.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		dir, err := cacheDir(cfg)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// plannerOptions translates the merged configuration into planner options.
func (c *CLI) plannerOptions() planner.Options {
	return planner.Options{
		StationsPath: c.Config.Timetable.Stations,
		TripsPath:    c.Config.Timetable.Trips,
		DSN:          c.Config.Timetable.DSN,
		Refresh:      c.source.refresh,
		TTL:          c.Config.Cache.TTL,
		Logger:       c.Logger,
	}
}

// loadPlan loads the timetable and prepares the itinerary graph behind a
// spinner.
func (c *CLI) loadPlan(ctx context.Context) (*planner.Plan, error) {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Preparing connection tables...")
	spinner.Start()

	plan, err := runner.Execute(ctx, c.plannerOptions())
	if err != nil {
		spinner.StopWithError("Could not load timetable")
		return nil, err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return plan, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the XDG
// default (~/.cache/railroute/).
func cacheDir(cfg config.Cache) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return config.DefaultCacheDir()
}

// =============================================================================
// Argument Helpers
// =============================================================================

// resolveStation accepts a station ID or a station name.
func resolveStation(plan *planner.Plan, arg string) (int, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		if _, err := plan.StationName(id); err != nil {
			return 0, err
		}
		return id, nil
	}
	return plan.StationID(arg)
}

// resolvePair resolves an origin and destination argument.
func resolvePair(plan *planner.Plan, from, to string) (int, int, error) {
	origin, err := resolveStation(plan, from)
	if err != nil {
		return 0, 0, err
	}
	dest, err := resolveStation(plan, to)
	if err != nil {
		return 0, 0, err
	}
	return origin, dest, nil
}

// userError converts coded errors into their user message.
func userError(err error) error {
	if err == nil {
		return nil
	}
	if errors.GetCode(err) == "" || stderrors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%s", errors.UserMessage(err))
}
