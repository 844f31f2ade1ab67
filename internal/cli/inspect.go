package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rankplay/pkg/frames"
	"github.com/matzehuels/rankplay/pkg/playback"
)

// inspectCommand creates the inspect command that summarizes a frame file.
func (c *CLI) inspectCommand() *cobra.Command {
	var speed time.Duration

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Summarize a frame file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("speed") {
				speed = c.Config.Player.Speed
			}
			seqs, err := c.readSequences(args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatInspect(args[0], seqs[0], speed))
			return nil
		},
	}

	cmd.Flags().DurationVarP(&speed, "speed", "s", playback.DefaultSpeed, "base delay used for the run time")
	return cmd
}

// formatInspect renders the summary: key facts, a per-phase table in
// narrative order and warnings for phases outside the vocabulary.
func formatInspect(path string, seq *frames.Sequence, speed time.Duration) string {
	var b strings.Builder

	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	kv := func(k, v string) {
		b.WriteString(keyStyle.Render(k) + " " + StyleValue.Render(v) + "\n")
	}
	kv("File", path)
	kv("Algorithm", string(seq.Kind()))
	kv("Nodes", strconv.Itoa(seq.Config().NodeCount))
	kv("Frames", strconv.Itoa(seq.Len()))
	kv("Run time", fmt.Sprintf("%s at %s", playback.PlayDuration(seq, speed), speed))
	b.WriteString("\n")

	counts := seq.PhaseCounts()
	unknown := seq.UnknownPhases()
	phases := append(seq.Kind().Phases(), unknown...)

	var rows [][]string
	for _, p := range phases {
		n := counts[p]
		if n == 0 {
			continue
		}
		rows = append(rows, []string{
			string(p),
			strconv.Itoa(n),
			playback.DelayFor(speed, p).String(),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Phase", "Frames", "Delay").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= 0 && row < len(rows) && slices.Contains(unknown, frames.Phase(rows[row][0])) {
				return StyleWarning
			}
			return lipgloss.NewStyle()
		})
	b.WriteString(t.Render())

	for _, p := range unknown {
		b.WriteString("\n" + styleIconWarning.Render("!") + " " +
			StyleWarning.Render(fmt.Sprintf("phase %q is not part of the %s vocabulary", p, seq.Kind())))
	}
	return b.String()
}
