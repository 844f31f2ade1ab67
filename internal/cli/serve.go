package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rankplay/pkg/cache"
	"github.com/matzehuels/rankplay/pkg/playback"
	"github.com/matzehuels/rankplay/pkg/server"
)

// redisKeyPrefix scopes rankplay keys in a shared Redis.
const redisKeyPrefix = "rankplay:"

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string        // listen address
	redisAddr string        // Redis address; empty uses the file cache
	cacheTTL  time.Duration // expiry of cached frames
	noCache   bool          // disable frame caching
	detailed  bool          // degree counters in rendered labels
	speed     time.Duration // initial base delay of every player
}

// serveCommand creates the serve command that publishes players over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [file]...",
		Short: "Serve players over HTTP with a websocket event stream",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyServeConfig(cmd, &opts)
			return c.runServe(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address for the frame cache (default: file cache)")
	cmd.Flags().DurationVar(&opts.cacheTTL, "cache-ttl", 24*time.Hour, "expiry of cached frames")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable frame caching")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show degree counters in rendered frames")
	cmd.Flags().DurationVarP(&opts.speed, "speed", "s", playback.DefaultSpeed, "initial base delay per frame")

	return cmd
}

func (c *CLI) applyServeConfig(cmd *cobra.Command, opts *serveOpts) {
	cfg := c.Config
	if !cmd.Flags().Changed("addr") {
		opts.addr = cfg.Server.Addr
	}
	if !cmd.Flags().Changed("redis") {
		opts.redisAddr = cfg.Server.RedisAddr
	}
	if !cmd.Flags().Changed("cache-ttl") {
		opts.cacheTTL = cfg.Server.CacheTTL
	}
	if !cmd.Flags().Changed("detailed") {
		opts.detailed = cfg.Render.Detailed
	}
	if !cmd.Flags().Changed("speed") {
		opts.speed = cfg.Player.Speed
	}
}

func (c *CLI) runServe(ctx context.Context, paths []string, opts serveOpts) error {
	seqs, err := c.readSequences(paths)
	if err != nil {
		return err
	}

	ctrls := make([]*playback.Controller, len(seqs))
	for i, seq := range seqs {
		ctrls[i], err = playback.New(seq,
			playback.WithSpeed(opts.speed),
			playback.WithLogger(c.Logger),
			playback.WithName(filepath.Base(paths[i])),
		)
		if err != nil {
			return err
		}
		defer ctrls[i].Close()
	}

	fc, keyer, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	defer fc.Close()

	srv, err := server.New(ctrls, server.Config{
		Cache:    fc,
		Keyer:    keyer,
		CacheTTL: opts.cacheTTL,
		Detailed: opts.detailed,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	printInfo("Listening on %s", StyleHighlight.Render(opts.addr))
	for _, p := range srv.Players() {
		printDetail("%s  /api/players/%s", p.Ctrl.Name(), p.ID)
	}
	return srv.ListenAndServe(ctx, opts.addr)
}

// serveCache picks the frame cache: Redis when an address is configured,
// the file cache otherwise.
func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, cache.Keyer, error) {
	keyer := cache.NewDefaultKeyer()
	if opts.noCache || opts.redisAddr == "" {
		fc, err := newCache(opts.noCache)
		return fc, keyer, err
	}

	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.redisAddr})
	if err != nil {
		return nil, nil, fmt.Errorf("frame cache: %w", err)
	}
	c.Logger.Info("using redis frame cache", "addr", opts.redisAddr)
	return rc, cache.NewScopedKeyer(keyer, redisKeyPrefix), nil
}
