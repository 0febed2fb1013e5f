package dashboard

import (
	"context"
	"errors"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/bighogz/gainplot/internal/metrics"
	"github.com/bighogz/gainplot/internal/models"
	"github.com/bighogz/gainplot/internal/render"
	"github.com/bighogz/gainplot/internal/series"
	"github.com/bighogz/gainplot/internal/trend"
)

// Severity controls how a status message is presented.
type Severity string

const (
	SeverityOK      Severity = "ok"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

const (
	msgParseError     = "Numbers are not formatted correctly. Enter comma-separated numbers only."
	msgLengthMismatch = "The X and Y axes have a different number of values."
	msgEmptyInput     = "Please enter data."
)

// View is everything the page, the JSON API and the CLI need for one request.
type View struct {
	XText    string                 `json:"x_text"`
	YText    string                 `json:"y_text"`
	Status   models.Status          `json:"status"`
	Severity Severity               `json:"severity"`
	Message  string                 `json:"message,omitempty"`
	Detail   string                 `json:"detail,omitempty"`
	Input    models.InputSeries     `json:"input"`
	Result   *models.AnalysisResult `json:"result,omitempty"`
	Slope    string                 `json:"slope,omitempty"`
	AvgGain  string                 `json:"avg_gain,omitempty"`
	Caption  string                 `json:"caption,omitempty"`
}

// OK reports whether the view carries a result to chart.
func (v View) OK() bool {
	return v.Status == models.StatusOK && v.Result != nil
}

// ChartURL is the image path for this view's inputs.
func (v View) ChartURL(format render.Format) string {
	q := url.Values{}
	q.Set("x", v.XText)
	q.Set("y", v.YText)
	return "/chart." + string(format) + "?" + q.Encode()
}

type BuildOpts struct {
	X       string
	Y       string
	Metrics *metrics.Registry
}

var tracer = otel.Tracer("github.com/bighogz/gainplot/internal/dashboard")

// Build parses, validates and analyzes the inputs. It never fails; problems
// are reported through Status, Severity and Message.
func Build(ctx context.Context, opts BuildOpts) View {
	_, span := tracer.Start(ctx, "dashboard.Build")
	defer span.End()

	v := View{XText: opts.X, YText: opts.Y}
	in, err := series.Parse(opts.X, opts.Y)
	v.Input = in
	if err == nil {
		var res models.AnalysisResult
		res, err = trend.Analyze(in)
		if err == nil {
			v.Result = &res
			v.Slope, v.AvgGain = render.Metrics(res)
			v.Caption = render.Equation(res)
		}
	}
	v.Status = StatusOf(err)
	v.Severity, v.Message = describe(v.Status, err)
	if err != nil {
		v.Detail = err.Error()
		span.RecordError(err)
	}
	span.SetAttributes(attribute.String("status", string(v.Status)), attribute.Int("points", len(in.X)))
	opts.Metrics.ObserveAnalysis(string(v.Status))
	return v
}

// StatusOf classifies an error returned by series.Parse or trend.Analyze.
func StatusOf(err error) models.Status {
	var pe *series.ParseError
	switch {
	case err == nil:
		return models.StatusOK
	case errors.As(err, &pe):
		return models.StatusParseError
	case errors.Is(err, series.ErrLengthMismatch):
		return models.StatusLengthMismatch
	case errors.Is(err, series.ErrEmptyInput):
		return models.StatusEmptyInput
	default:
		return models.StatusDegenerateInput
	}
}

func describe(status models.Status, err error) (Severity, string) {
	switch status {
	case models.StatusOK:
		return SeverityOK, ""
	case models.StatusParseError:
		return SeverityError, msgParseError
	case models.StatusLengthMismatch:
		return SeverityWarning, msgLengthMismatch
	case models.StatusEmptyInput:
		return SeverityInfo, msgEmptyInput
	default:
		var de *trend.DegenerateError
		if errors.As(err, &de) {
			return SeverityWarning, "The data cannot be analyzed: " + de.Reason + "."
		}
		return SeverityError, "The data cannot be analyzed."
	}
}
