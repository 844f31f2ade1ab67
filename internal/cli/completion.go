package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// frameFileCommands take frame recordings as positional arguments.
var frameFileCommands = []string{"play", "sync", "inspect", "frame", "serve"}

// completionCommand prints a shell completion script.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for rankplay. File arguments complete to
*.json frame recordings and --format to the supported export formats.

  bash        source <(rankplay completion bash)
  zsh         rankplay completion zsh > "${fpath[1]}/_rankplay"
  fish        rankplay completion fish | source
  powershell  rankplay completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// completeFrameFiles restricts file completion to JSON recordings.
func completeFrameFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// registerFrameFileCompletion wires completeFrameFiles into every
// subcommand of root that reads frame files.
func registerFrameFileCompletion(root *cobra.Command) {
	for _, name := range frameFileCommands {
		if cmd, _, err := root.Find([]string{name}); err == nil && cmd != root {
			cmd.ValidArgsFunction = completeFrameFiles
		}
	}
}
