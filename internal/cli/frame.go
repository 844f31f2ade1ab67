package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rankplay/pkg/cache"
	"github.com/matzehuels/rankplay/pkg/errors"
	"github.com/matzehuels/rankplay/pkg/frames"
	"github.com/matzehuels/rankplay/pkg/render"
	"github.com/matzehuels/rankplay/pkg/render/nodelink"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

// frameOpts holds the command-line flags for the frame command.
type frameOpts struct {
	index    int     // frame index, clamped to the sequence
	format   string  // dot, svg, pdf or png
	output   string  // output path, "-" for stdout
	detailed bool    // add degree counters to node labels
	noCache  bool    // bypass the rendered-frame cache
	scale    float64 // PNG scale factor
}

// frameCommand creates the frame command that exports a single frame.
func (c *CLI) frameCommand() *cobra.Command {
	opts := frameOpts{format: formatSVG, scale: 2}

	cmd := &cobra.Command{
		Use:   "frame [file]",
		Short: "Export one frame as DOT, SVG, PDF or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			if !cmd.Flags().Changed("detailed") {
				opts.detailed = c.Config.Render.Detailed
			}
			return c.runFrame(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.index, "index", "i", 0, "frame index (clamped to the sequence)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot, pdf, png")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{formatSVG, formatDOT, formatPDF, formatPNG}, cobra.ShellCompDirectiveNoFileComp))
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default <file>-<index>.<format>)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show degree counters in node labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the rendered-frame cache")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

func validateFormat(f string) error {
	switch f {
	case formatDOT, formatSVG, formatPDF, formatPNG:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'dot', 'svg', 'pdf', or 'png')", f)
}

func (c *CLI) runFrame(ctx context.Context, path string, opts frameOpts) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	seq, err := frames.Read(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	i := seq.Clamp(opts.index)
	if i != opts.index {
		c.Logger.Warn("frame index clamped", "requested", opts.index, "index", i)
	}
	dot := nodelink.ToDOT(seq.At(i), seq.Kind(), nodelink.Options{
		Detailed: opts.detailed,
		Previous: seq.DegreesBefore(i),
	})

	data := []byte(dot)
	if opts.format != formatDOT {
		fc, err := newCache(opts.noCache)
		if err != nil {
			return err
		}
		defer fc.Close()

		data, err = c.renderFrame(ctx, fc, cache.Hash(raw), i, dot, opts)
		if err != nil {
			return err
		}
	}

	out := opts.output
	if out == "" {
		base := strings.TrimSuffix(path, filepath.Ext(path))
		out = fmt.Sprintf("%s-%d.%s", base, i, opts.format)
	}
	if out == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	printSuccess("Frame %d of %d", i, seq.Last())
	printFile(out)
	return nil
}

// renderFrame produces SVG through the cache and converts it when a
// different format is requested.
func (c *CLI) renderFrame(ctx context.Context, fc cache.Cache, seqHash string, i int, dot string, opts frameOpts) ([]byte, error) {
	logger := loggerFromContext(ctx)
	timer := startStopwatch(logger)
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering frame %d...", i))
	spinner.Start()
	defer spinner.Stop()

	key := cache.NewDefaultKeyer().FrameKey(seqHash, i, cache.FrameKeyOpts{Format: formatSVG, Detailed: opts.detailed})
	svg, hit, err := cache.Fetch(ctx, fc, key, "frame", 0, func() ([]byte, error) {
		return nodelink.RenderSVG(ctx, dot)
	})
	if err != nil {
		return nil, fmt.Errorf("render frame %d: %w", i, err)
	}

	var data []byte
	if opts.format == formatPDF || opts.format == formatPNG {
		spinner.SetMessage(fmt.Sprintf("Converting frame %d to %s...", i, opts.format))
	}
	switch opts.format {
	case formatPDF:
		data, err = render.ToPDF(ctx, svg)
	case formatPNG:
		data, err = render.ToPNG(ctx, svg, opts.scale)
	default:
		data = svg
	}
	if err != nil {
		return nil, err
	}
	spinner.Stop()
	timer.done("frame rendered", "index", i, "format", opts.format, "cached", hit)
	return data, nil
}
