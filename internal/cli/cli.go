// Package cli implements the rankplay command-line interface.
//
// rankplay replays recorded frames of tournament-ranking algorithms. The
// commands are:
//   - play: interactive terminal player for one frame file
//   - sync: several frame files under one shared transport
//   - inspect: summary of a frame file
//   - frame: export one frame as DOT, SVG, PDF or PNG
//   - serve: HTTP API and websocket stream for one or more players
//   - cache: manage the rendered-frame cache
//
// All commands support --verbose (-v) for debug-level logging and --config
// for an alternative TOML configuration file.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rankplay/pkg/buildinfo"
	"github.com/matzehuels/rankplay/pkg/cache"
	"github.com/matzehuels/rankplay/pkg/frames"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "rankplay"
)

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

	// Config is loaded before any subcommand runs.
	Config     Config
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "rankplay replays tournament-ranking visualizations",
		Long:         `rankplay plays back recorded frames of tournament-ranking algorithms, in the terminal, as rendered diagrams, or over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/rankplay/config.toml)")

	root.AddCommand(c.playCommand())
	root.AddCommand(c.syncCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.frameCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerFrameFileCompletion(root)

	return root
}

// =============================================================================
// Shared Helpers
// =============================================================================

// newCache opens the frame cache. Without a usable cache directory frames
// are rendered every time.
func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NullCache{}, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NullCache{}, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// readSequences loads every frame file in paths, in order.
func (c *CLI) readSequences(paths []string) ([]*frames.Sequence, error) {
	seqs := make([]*frames.Sequence, 0, len(paths))
	for _, p := range paths {
		seq, err := frames.ReadFile(p)
		if err != nil {
			return nil, err
		}
		for _, ph := range seq.UnknownPhases() {
			c.Logger.Warn("phase not in vocabulary", "file", p, "kind", seq.Kind(), "phase", ph)
		}
		c.Logger.Debug("loaded frames", "file", p, "frames", seq.Len(), "kind", seq.Kind())
		seqs = append(seqs, seq)
	}
	return seqs, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/rankplay/).
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

// configDir returns the config directory using XDG standard (~/.config/rankplay/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
