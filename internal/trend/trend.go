package trend

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/bighogz/gainplot/internal/models"
	"github.com/bighogz/gainplot/internal/series"
)

// ErrDegenerateInput is returned when the data cannot produce a finite gain or fit.
var ErrDegenerateInput = errors.New("degenerate input")

// DegenerateError names why the input is degenerate. It matches ErrDegenerateInput.
type DegenerateError struct {
	Reason string
}

func (e *DegenerateError) Error() string {
	return "degenerate input: " + e.Reason
}

func (e *DegenerateError) Is(target error) bool {
	return target == ErrDegenerateInput
}

var (
	errAllXZero      = &DegenerateError{Reason: "every x value is zero"}
	errXNoVariance   = &DegenerateError{Reason: "every x value is identical"}
	errOverflow      = &DegenerateError{Reason: "values overflow"}
	errLengthInvalid = &DegenerateError{Reason: fmt.Sprintf("need equal-length series with at least %d points", series.MinPoints)}
)

// Analyze computes the average gain and the least-squares line for in.
// It is pure: the same input always yields the same result.
func Analyze(in models.InputSeries) (models.AnalysisResult, error) {
	if len(in.X) != len(in.Y) || len(in.X) < series.MinPoints {
		return models.AnalysisResult{}, errLengthInvalid
	}
	avgGain, dropped, err := averageGain(in.X, in.Y)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	slope, intercept, err := linearFit(in.X, in.Y)
	if err != nil {
		return models.AnalysisResult{}, err
	}

	res := models.AnalysisResult{
		AvgGain:         avgGain,
		Slope:           slope,
		Intercept:       intercept,
		RSquared:        rSquared(in.X, in.Y, slope, intercept),
		DroppedZeroX:    dropped,
		YAvgGainLine:    make([]float64, len(in.X)),
		YRegressionLine: make([]float64, len(in.X)),
	}
	for i, x := range in.X {
		res.YAvgGainLine[i] = avgGain * x
		res.YRegressionLine[i] = slope*x + intercept
	}
	if !finite(res.AvgGain, res.Slope, res.Intercept, res.RSquared) ||
		!finite(res.YAvgGainLine...) || !finite(res.YRegressionLine...) {
		return models.AnalysisResult{}, errOverflow
	}
	return res, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// averageGain is the mean of y/x over the pairs with x != 0.
func averageGain(x, y []float64) (float64, int, error) {
	gains := make([]float64, 0, len(x))
	for i, xi := range x {
		if xi == 0 {
			continue
		}
		gains = append(gains, y[i]/xi)
	}
	if len(gains) == 0 {
		return 0, len(x), errAllXZero
	}
	return stat.Mean(gains, nil), len(x) - len(gains), nil
}

// linearFit returns the ordinary least-squares slope and intercept.
func linearFit(x, y []float64) (slope, intercept float64, err error) {
	if stat.Variance(x, nil) == 0 {
		return 0, 0, errXNoVariance
	}
	intercept, slope = stat.LinearRegression(x, y, nil, false)
	return slope, intercept, nil
}

func rSquared(x, y []float64, slope, intercept float64) float64 {
	if stat.Variance(y, nil) == 0 {
		// A constant y is fitted exactly by the flat line.
		return 1
	}
	return stat.RSquared(x, y, nil, intercept, slope)
}
