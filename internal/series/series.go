// Package series parses and validates the comma-separated X and Y inputs.
package series

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bighogz/gainplot/internal/models"
)

// MinPoints is the smallest series length that can be analyzed.
const MinPoints = 2

var (
	ErrLengthMismatch = errors.New("x and y have a different number of values")
	ErrEmptyInput     = errors.New("not enough data points")
)

// ParseError reports a token that is not a finite number.
type ParseError struct {
	Axis  string
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Axis == "" {
		return fmt.Sprintf("invalid number %q", e.Token)
	}
	return fmt.Sprintf("%s: invalid number %q", e.Axis, e.Token)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var errNotFinite = errors.New("value is not finite")

// ParseList splits text on commas, trims each token and skips empty ones.
func ParseList(text string) ([]float64, error) {
	parts := strings.Split(text, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		tok := strings.TrimSpace(p)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, &ParseError{Token: tok, Err: err}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ParseError{Token: tok, Err: errNotFinite}
		}
		out = append(out, v)
	}
	return out, nil
}

// Parse converts both inputs and validates them for analysis.
// A parse error wins over a length mismatch, which wins over too few points.
func Parse(xText, yText string) (models.InputSeries, error) {
	x, err := ParseList(xText)
	if err != nil {
		return models.InputSeries{}, withAxis(err, "x")
	}
	y, err := ParseList(yText)
	if err != nil {
		return models.InputSeries{}, withAxis(err, "y")
	}
	in := models.InputSeries{X: x, Y: y}
	if len(x) != len(y) {
		return in, fmt.Errorf("%w (x=%d, y=%d)", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) < MinPoints {
		return in, fmt.Errorf("%w: got %d, need at least %d", ErrEmptyInput, len(x), MinPoints)
	}
	return in, nil
}

func withAxis(err error, axis string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Axis = axis
	}
	return err
}
