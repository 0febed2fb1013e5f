package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bighogz/gainplot/internal/config"
	"github.com/bighogz/gainplot/internal/dashboard"
	"github.com/bighogz/gainplot/internal/models"
	"github.com/bighogz/gainplot/internal/render"
	"github.com/bighogz/gainplot/internal/telemetry"
)

func init() {
	godotenv.Load(".env")
}

type options struct {
	x       string
	y       string
	pngPath string
	svgPath string
	csvPath string
	width   int
	height  int
	trace   bool
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compare the average gain with the least-squares slope of two number lists",
		Long: `analyze parses comma-separated X and Y values, prints the regression slope,
the average gain (mean of y/x) and the fitted equation, and optionally writes
the comparison chart and per-point values to files.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.x, "x", config.DefaultX, "X values, comma-separated")
	f.StringVar(&opts.y, "y", config.DefaultY, "Y values, comma-separated")
	f.StringVar(&opts.pngPath, "png", "", "Write the chart as PNG")
	f.StringVar(&opts.svgPath, "svg", "", "Write the chart as SVG")
	f.StringVar(&opts.csvPath, "csv", "", "Write per-point values to CSV")
	f.IntVar(&opts.width, "width", config.ChartWidth, "Chart width in pixels")
	f.IntVar(&opts.height, "height", config.ChartHeight, "Chart height in pixels")
	f.BoolVar(&opts.trace, "trace", config.Trace, "Print trace spans to stderr")
	return cmd
}

func run(ctx context.Context, out io.Writer, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := telemetry.Setup(opts.trace, os.Stderr)
	if err != nil {
		return err
	}
	defer shutdown(ctx)

	v := dashboard.Build(ctx, dashboard.BuildOpts{X: opts.x, Y: opts.y})
	if !v.OK() {
		return fmt.Errorf("%s (%s)", v.Message, v.Detail)
	}
	res := *v.Result

	fmt.Fprintf(out, "Regression slope: %s\n", v.Slope)
	fmt.Fprintf(out, "Average gain:     %s\n", v.AvgGain)
	fmt.Fprintf(out, "Intercept:        %.2f\n", res.Intercept)
	fmt.Fprintf(out, "R squared:        %.4f\n", res.RSquared)
	if res.DroppedZeroX > 0 {
		fmt.Fprintf(out, "Points with x = 0 left out of the average gain: %d\n", res.DroppedZeroX)
	}
	if v.Caption != "" {
		fmt.Fprintf(out, "Regression: %s\n", v.Caption)
	}

	ropts := render.Options{Width: opts.width, Height: opts.height}
	for _, target := range []struct {
		path   string
		format render.Format
	}{{opts.pngPath, render.PNG}, {opts.svgPath, render.SVG}} {
		if target.path == "" {
			continue
		}
		if err := writeChart(ctx, target.path, target.format, v.Input, res, ropts); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s.\n", target.path)
	}

	if opts.csvPath != "" {
		if err := writeCSV(opts.csvPath, v.Input, res); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s.\n", opts.csvPath)
	}
	return nil
}

func writeChart(ctx context.Context, path string, format render.Format, in models.InputSeries, res models.AnalysisResult, opts render.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer f.Close()
	if err := render.Chart(ctx, f, format, in, res, opts); err != nil {
		return err
	}
	return f.Close()
}

func writeCSV(path string, in models.InputSeries, res models.AnalysisResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create CSV: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write([]string{"x", "y", "gain", "y_avg_gain", "y_regression"})
	for i, x := range in.X {
		gain := ""
		if x != 0 {
			gain = fmt.Sprintf("%.4f", in.Y[i]/x)
		}
		w.Write([]string{
			strconv.FormatFloat(x, 'g', -1, 64),
			strconv.FormatFloat(in.Y[i], 'g', -1, 64),
			gain,
			fmt.Sprintf("%.4f", res.YAvgGainLine[i]),
			fmt.Sprintf("%.4f", res.YRegressionLine[i]),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
