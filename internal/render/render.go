// Package render draws the analysis chart and formats the scalar displays.
package render

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bighogz/gainplot/internal/models"
)

// Format selects the image encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Options controls chart size. Zero values fall back to 1000x600.
type Options struct {
	Width  int
	Height int
}

const (
	Title = "Data Analysis: Average Gain vs Linear Regression"

	// InterceptEpsilon is the relative tolerance below which the intercept counts as zero.
	InterceptEpsilon = 1e-9
)

var (
	dataColor       = drawing.ColorFromHex("1f77b4")
	avgGainColor    = drawing.ColorFromHex("ff7f0e")
	regressionColor = drawing.ColorFromHex("2ca02c")
	gridColor       = drawing.ColorFromHex("b0b0b0")
)

var tracer = otel.Tracer("github.com/bighogz/gainplot/internal/render")

// Chart writes the three-trace chart for in and res to w.
func Chart(ctx context.Context, w io.Writer, format Format, in models.InputSeries, res models.AnalysisResult, opts Options) error {
	_, span := tracer.Start(ctx, "render.Chart")
	defer span.End()
	span.SetAttributes(attribute.String("format", string(format)), attribute.Int("points", in.Len()))

	provider := chart.PNG
	switch format {
	case PNG:
	case SVG:
		provider = chart.SVG
	default:
		return fmt.Errorf("render: unsupported format %q", format)
	}

	ch := build(in, res, opts)
	if err := ch.Render(provider, w); err != nil {
		span.RecordError(err)
		return fmt.Errorf("render %s chart: %w", format, err)
	}
	return nil
}

func build(in models.InputSeries, res models.AnalysisResult, opts Options) *chart.Chart {
	if opts.Width <= 0 {
		opts.Width = 1000
	}
	if opts.Height <= 0 {
		opts.Height = 600
	}
	grid := chart.Style{
		StrokeColor:     gridColor,
		StrokeWidth:     0.8,
		StrokeDashArray: []float64{2, 3},
	}

	ch := &chart.Chart{
		Title:      Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           "X axis",
			GridMajorStyle: grid,
		},
		YAxis: chart.YAxis{
			Name:           "Y axis",
			GridMajorStyle: grid,
			Range:          yRange(in.Y, res.YAvgGainLine, res.YRegressionLine),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Original Data",
				XValues: in.X,
				YValues: in.Y,
				Style: chart.Style{
					StrokeColor: dataColor,
					StrokeWidth: 1.5,
					DotColor:    dataColor,
					DotWidth:    5,
				},
			},
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("Avg Gain Line (Gain: %.2f)", res.AvgGain),
				XValues: in.X,
				YValues: res.YAvgGainLine,
				Style: chart.Style{
					StrokeColor:     avgGainColor,
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{6, 4},
				},
			},
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("Regression Line (Slope: %.2f)", res.Slope),
				XValues: in.X,
				YValues: res.YRegressionLine,
				Style: chart.Style{
					StrokeColor: regressionColor,
					StrokeWidth: 2.5,
				},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(ch)}
	return ch
}

// yRange pads a flat y extent, which go-chart refuses to draw. Otherwise it
// leaves the range to the library.
func yRange(values ...[]float64) chart.Range {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, vs := range values {
		for _, v := range vs {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 0) || lo != hi {
		return nil
	}
	pad := math.Max(1, math.Abs(lo)*0.1)
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// Metrics returns the slope and the average gain rounded to two decimals.
func Metrics(res models.AnalysisResult) (slope, avgGain string) {
	return fmt.Sprintf("%.2f", res.Slope), fmt.Sprintf("%.2f", res.AvgGain)
}

// HasIntercept reports whether the intercept is distinguishable from zero
// relative to the size of the fitted values.
func HasIntercept(res models.AnalysisResult) bool {
	scale := 1.0
	for _, v := range res.YRegressionLine {
		scale = math.Max(scale, math.Abs(v))
	}
	return math.Abs(res.Intercept) > InterceptEpsilon*scale
}

// Equation returns the fitted line as text, or "" when the intercept is zero.
func Equation(res models.AnalysisResult) string {
	if !HasIntercept(res) {
		return ""
	}
	sign := "+"
	b := res.Intercept
	if b < 0 {
		sign = "-"
		b = -b
	}
	return fmt.Sprintf("y = %.2fx %s %.2f", res.Slope, sign, b)
}
