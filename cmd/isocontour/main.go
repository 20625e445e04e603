// Command isocontour extracts contour lines and filled contour bands of a
// coordinate field over a triangle mesh and writes them as STL, PNG and SVG.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath     string
		verbose, quiet bool
		flagJob        = DefaultJob()
	)
	cmd := &cobra.Command{
		Use:   "isocontour",
		Short: "Contour a scalar field over a triangle mesh",
		Long: `isocontour contours one coordinate of a mesh, used as scalar field.
The mesh is a built in shape or a binary STL file. Filled bands are written to
bands.stl, preview.png and topo.png, contour lines to lines.svg.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: levelFromFlags(verbose, quiet),
			}))
			job := DefaultJob()
			if configPath != "" {
				var err error
				job, err = LoadJob(configPath)
				if err != nil {
					return err
				}
				log.Debug("loaded job", slog.String("path", configPath))
			}
			overrideJob(&job, &flagJob, cmd)
			if err := job.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), log, job)
		},
	}
	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "TOML job file, flags override its values")
	f.StringVar(&flagJob.Shape, "shape", flagJob.Shape, "built in shape: uvsphere, box, cylinder, pill or sphere")
	f.Float64Var(&flagJob.Size, "size", flagJob.Size, "shape size")
	f.IntVar(&flagJob.Cells, "cells", flagJob.Cells, "marching cubes cells of distance field shapes")
	f.StringVar(&flagJob.STL, "stl", "", "binary STL mesh to contour instead of a shape")
	f.StringVar(&flagJob.Axis, "axis", flagJob.Axis, "coordinate used as scalar field: x, y or z")
	f.IntVar(&flagJob.Levels, "levels", flagJob.Levels, "number of contour levels")
	f.Float64SliceVar(&flagJob.Thresholds, "thresholds", nil, "explicit contour values, replaces --levels")
	f.StringVar(&flagJob.LUT, "lut", flagJob.LUT, "color table name")
	f.StringVar(&flagJob.LineColor, "line-color", "", "fixed contour line color, hex or name")
	f.StringVar(&flagJob.Mode, "mode", flagJob.Mode, "output: filled, lines or both")
	f.StringVar(&flagJob.Out, "out", flagJob.Out, "output directory")
	f.IntVar(&flagJob.Workers, "workers", 0, "band extraction workers, 0 runs serially")
	f.StringVar(&flagJob.Projection, "projection", flagJob.Projection, "plane of 2d outputs: xy, xz or yz")
	f.BoolVarP(&verbose, "verbose", "v", false, "log progress")
	f.BoolVarP(&quiet, "quiet", "q", false, "log errors only")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	return cmd
}

// overrideJob copies the flags set on the command line into job.
func overrideJob(job, flags *Job, cmd *cobra.Command) {
	set := cmd.Flags().Changed
	if set("shape") {
		job.Shape = flags.Shape
	}
	if set("size") {
		job.Size = flags.Size
	}
	if set("cells") {
		job.Cells = flags.Cells
	}
	if set("stl") {
		job.STL = flags.STL
	}
	if set("axis") {
		job.Axis = flags.Axis
	}
	if set("levels") {
		job.Levels = flags.Levels
		job.Thresholds = nil
	}
	if set("thresholds") {
		job.Thresholds = flags.Thresholds
	}
	if set("lut") {
		job.LUT = flags.LUT
	}
	if set("line-color") {
		job.LineColor = flags.LineColor
	}
	if set("mode") {
		job.Mode = flags.Mode
	}
	if set("out") {
		job.Out = flags.Out
	}
	if set("workers") {
		job.Workers = flags.Workers
	}
	if set("projection") {
		job.Projection = flags.Projection
	}
}

// levelFromFlags returns the log level for the verbosity flags. Warnings
// and errors are logged by default.
func levelFromFlags(verbose, quiet bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case quiet:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
