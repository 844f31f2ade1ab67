package cli

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rankplay/pkg/playback"
)

// playOpts holds the flags shared by the play and sync commands.
type playOpts struct {
	speed       time.Duration // base delay per frame
	detailed    bool          // list derivation paths of inferred edges
	noAltScreen bool          // draw inline instead of on the alternate screen
}

// playCommand creates the play command for interactive playback of one file.
func (c *CLI) playCommand() *cobra.Command {
	var opts playOpts

	cmd := &cobra.Command{
		Use:   "play [file]",
		Short: "Play a frame file in the terminal",
		Long: `Play a frame file in the terminal.

Keys: space play/pause, ←/→ step, home reset, end last frame,
+/- change speed, 0-9 seek to tenths of the run, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyPlayConfig(cmd, &opts)
			return c.runPlayers(cmd.Context(), args, opts)
		},
	}
	addPlayFlags(cmd, &opts)
	return cmd
}

// syncCommand creates the sync command for side-by-side playback.
func (c *CLI) syncCommand() *cobra.Command {
	var opts playOpts

	cmd := &cobra.Command{
		Use:   "sync [file] [file]...",
		Short: "Play several frame files side by side under one transport",
		Long: `Play several frame files side by side under one transport.

Every key acts on all players. Shorter runs stop on their last frame while
longer ones continue; seeks are clamped per player.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyPlayConfig(cmd, &opts)
			return c.runPlayers(cmd.Context(), args, opts)
		},
	}
	addPlayFlags(cmd, &opts)
	return cmd
}

func addPlayFlags(cmd *cobra.Command, opts *playOpts) {
	cmd.Flags().DurationVarP(&opts.speed, "speed", "s", playback.DefaultSpeed, "base delay per frame")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "list derivation paths of inferred edges")
	cmd.Flags().BoolVar(&opts.noAltScreen, "no-alt-screen", false, "draw inline instead of on the alternate screen")
}

// applyPlayConfig fills flags the user did not set from the config file.
func (c *CLI) applyPlayConfig(cmd *cobra.Command, opts *playOpts) {
	if !cmd.Flags().Changed("speed") {
		opts.speed = c.Config.Player.Speed
	}
	if !cmd.Flags().Changed("detailed") {
		opts.detailed = c.Config.Render.Detailed
	}
	if !cmd.Flags().Changed("no-alt-screen") {
		opts.noAltScreen = !c.Config.Player.AltScreen
	}
}

// runPlayers builds one controller per file and runs the player UI until
// the user quits or ctx is cancelled.
func (c *CLI) runPlayers(ctx context.Context, paths []string, opts playOpts) error {
	model, err := c.buildPlayerModel(paths, opts)
	if err != nil {
		return err
	}
	defer model.close()

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !opts.noAltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(model, progOpts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func (c *CLI) buildPlayerModel(paths []string, opts playOpts) (*PlayerModel, error) {
	seqs, err := c.readSequences(paths)
	if err != nil {
		return nil, err
	}

	panes := make([]playerPane, len(seqs))
	for i, seq := range seqs {
		name := filepath.Base(paths[i])
		view := newTermView(seq.Kind(), opts.detailed)
		ctrl, err := playback.New(seq,
			playback.WithSpeed(opts.speed),
			playback.WithRenderer(view),
			playback.WithLogger(c.Logger),
			playback.WithName(name),
		)
		if err != nil {
			return nil, err
		}
		panes[i] = playerPane{title: name, ctrl: ctrl, view: view}
	}
	return newPlayerModel(panes, opts.speed)
}
