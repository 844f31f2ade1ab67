package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rankplay/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered-frame cache",
	}

	cmd.AddCommand(c.cachePurgeCommand("clear", "Delete every cached frame render", true))
	cmd.AddCommand(c.cachePurgeCommand("prune", "Delete expired and unreadable frame renders", false))
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cachePurgeCommand creates "cache clear" (all) and "cache prune".
func (c *CLI) cachePurgeCommand(use, short string, all bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			spinner := newSpinner(cmd.Context(), os.Stderr, "Scanning frame cache...")
			spinner.Start()
			st, err := fc.Purge(cmd.Context(), all)
			spinner.Stop()
			if err != nil {
				return err
			}

			loggerFromContext(cmd.Context()).Debug("cache purged", "removed", st.Removed, "kept", st.Kept, "bytes", st.Bytes)
			printSuccess("Removed %d cached frames (%s)", st.Removed, formatBytes(st.Bytes))
			if st.Kept > 0 {
				printDetail("%d still valid", st.Kept)
			}
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
