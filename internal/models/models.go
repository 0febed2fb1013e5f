package models

// InputSeries is the parsed user input. X and Y are index-aligned.
type InputSeries struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// Len returns the number of points. Callers validate len(X) == len(Y) first.
func (s InputSeries) Len() int {
	return len(s.X)
}

// AnalysisResult is derived from one InputSeries and never stored.
type AnalysisResult struct {
	AvgGain         float64   `json:"avg_gain"`
	Slope           float64   `json:"slope"`
	Intercept       float64   `json:"intercept"`
	RSquared        float64   `json:"r_squared"`
	DroppedZeroX    int       `json:"dropped_zero_x"`
	YAvgGainLine    []float64 `json:"y_avg_gain_line"`
	YRegressionLine []float64 `json:"y_regression_line"`
}

// Status classifies the outcome of one analysis request.
type Status string

const (
	StatusOK              Status = "ok"
	StatusParseError      Status = "parse_error"
	StatusLengthMismatch  Status = "length_mismatch"
	StatusEmptyInput      Status = "empty_input"
	StatusDegenerateInput Status = "degenerate_input"
)
