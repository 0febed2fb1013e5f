package trend

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/bighogz/gainplot/internal/models"
)

var defaults = models.InputSeries{
	X: []float64{10, 20, 30, 40, 50, 60},
	Y: []float64{12, 23, 36, 41, 58, 61},
}

func TestAnalyzeDefaults(t *testing.T) {
	res, err := Analyze(defaults)
	require.NoError(t, err)

	assert.InDelta(t, 1775.0/1750.0, res.Slope, 1e-12)
	assert.InDelta(t, 3.0, res.Intercept, 1e-9)
	assert.InDelta(t, 6.7516666666666666/6, res.AvgGain, 1e-12)
	assert.Zero(t, res.DroppedZeroX)
	assert.Greater(t, res.RSquared, 0.97)
	assert.LessOrEqual(t, res.RSquared, 1.0)

	require.Len(t, res.YAvgGainLine, 6)
	require.Len(t, res.YRegressionLine, 6)
	for i, x := range defaults.X {
		assert.InDelta(t, res.AvgGain*x, res.YAvgGainLine[i], 1e-12)
		assert.InDelta(t, res.Slope*x+res.Intercept, res.YRegressionLine[i], 1e-12)
	}
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	first, err := Analyze(defaults)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Analyze(defaults)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestAverageGainSkipsZeroX(t *testing.T) {
	in := models.InputSeries{
		X: []float64{0, 2, 4, 0, 5},
		Y: []float64{7, 4, 2, 1, 10},
	}
	res, err := Analyze(in)
	require.NoError(t, err)
	assert.InDelta(t, (2.0+0.5+2.0)/3, res.AvgGain, 1e-12)
	assert.Equal(t, 2, res.DroppedZeroX)
}

func TestAverageGainMatchesMeanOfRatios(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.IntN(30)
		in := randomSeries(rng, n)
		res, err := Analyze(in)
		require.NoError(t, err)

		var sum float64
		var count int
		for i, x := range in.X {
			if x != 0 {
				sum += in.Y[i] / x
				count++
			}
		}
		assert.InDelta(t, sum/float64(count), res.AvgGain, 1e-9)
	}
}

func TestLinearFitMatchesLeastSquaresSolver(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.IntN(40)
		in := randomSeries(rng, n)
		res, err := Analyze(in)
		require.NoError(t, err)

		slope, intercept := solveLeastSquares(t, in)
		assert.InDelta(t, slope, res.Slope, 1e-8)
		assert.InDelta(t, intercept, res.Intercept, 1e-6)
	}
}

func TestLinearFitMinimizesResiduals(t *testing.T) {
	res, err := Analyze(defaults)
	require.NoError(t, err)

	best := sumSquaredResiduals(defaults, res.Slope, res.Intercept)
	for _, d := range []float64{-0.1, -0.001, 0.001, 0.1} {
		assert.Greater(t, sumSquaredResiduals(defaults, res.Slope+d, res.Intercept), best)
		assert.Greater(t, sumSquaredResiduals(defaults, res.Slope, res.Intercept+d), best)
	}
}

func TestAnalyzeExactLine(t *testing.T) {
	in := models.InputSeries{X: []float64{1, 2, 3}, Y: []float64{-1, -3, -5}}
	res, err := Analyze(in)
	require.NoError(t, err)
	assert.InDelta(t, -2.0, res.Slope, 1e-12)
	assert.InDelta(t, 1.0, res.Intercept, 1e-12)
	assert.InDelta(t, 1.0, res.RSquared, 1e-12)
}

func TestAnalyzeConstantY(t *testing.T) {
	in := models.InputSeries{X: []float64{1, 2, 3}, Y: []float64{4, 4, 4}}
	res, err := Analyze(in)
	require.NoError(t, err)
	assert.Zero(t, res.Slope)
	assert.InDelta(t, 4.0, res.Intercept, 1e-12)
	assert.Equal(t, 1.0, res.RSquared)
}

func TestAnalyzeAllXZero(t *testing.T) {
	_, err := Analyze(models.InputSeries{X: []float64{0, 0, 0}, Y: []float64{1, 2, 3}})
	require.ErrorIs(t, err, ErrDegenerateInput)
	assert.ErrorIs(t, err, errAllXZero)
}

func TestAnalyzeIdenticalX(t *testing.T) {
	_, err := Analyze(models.InputSeries{X: []float64{5, 5, 5}, Y: []float64{1, 2, 3}})
	require.ErrorIs(t, err, ErrDegenerateInput)
	assert.ErrorIs(t, err, errXNoVariance)
}

func TestAnalyzeExtremeMagnitudes(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
	}{
		{"tiny x huge y", []float64{1e-300, 1}, []float64{1e300, 1}},
		{"huge x spread", []float64{1e200, -1e200}, []float64{1, 2}},
		{"huge y", []float64{1, 2, 3}, []float64{1e308, -1e308, 1e308}},
		{"tiny values", []float64{1e-150, 2e-150, 3e-150}, []float64{1e-150, 3e-150, 2e-150}},
		{"large but safe", []float64{1e100, 2e100, 3e100}, []float64{2e100, 4e100, 6.5e100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Analyze(models.InputSeries{X: tt.x, Y: tt.y})
			if err != nil {
				assert.ErrorIs(t, err, ErrDegenerateInput)
				return
			}
			assert.True(t, finite(res.AvgGain, res.Slope, res.Intercept, res.RSquared))
			assert.True(t, finite(res.YAvgGainLine...))
			assert.True(t, finite(res.YRegressionLine...))
		})
	}
}

func TestAnalyzeOverflowIsDegenerate(t *testing.T) {
	_, err := Analyze(models.InputSeries{X: []float64{1e-300, 1}, Y: []float64{1e300, 1}})
	require.ErrorIs(t, err, ErrDegenerateInput)
	assert.ErrorIs(t, err, errOverflow)

	var de *DegenerateError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "values overflow", de.Reason)
}

func TestAnalyzeRejectsUnvalidatedInput(t *testing.T) {
	_, err := Analyze(models.InputSeries{X: []float64{1}, Y: []float64{2}})
	assert.ErrorIs(t, err, ErrDegenerateInput)

	_, err = Analyze(models.InputSeries{X: []float64{1, 2}, Y: []float64{2}})
	assert.ErrorIs(t, err, ErrDegenerateInput)
}

func TestAnalyzeNeverReturnsNonFinite(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 100; trial++ {
		res, err := Analyze(randomSeries(rng, 2+rng.IntN(10)))
		require.NoError(t, err)
		for _, v := range []float64{res.AvgGain, res.Slope, res.Intercept, res.RSquared} {
			assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
		}
	}
}

// randomSeries returns n points with at least two distinct, nonzero x values.
func randomSeries(rng *rand.Rand, n int) models.InputSeries {
	in := models.InputSeries{X: make([]float64, n), Y: make([]float64, n)}
	for i := range in.X {
		in.X[i] = math.Round(rng.Float64()*200-100) / 2
		in.Y[i] = rng.Float64()*500 - 250
	}
	in.X[0] = 1
	in.X[1] = 2
	return in
}

// solveLeastSquares fits y = slope*x + intercept with a QR solve of the design matrix.
func solveLeastSquares(t *testing.T, in models.InputSeries) (float64, float64) {
	t.Helper()
	n := in.Len()
	a := mat.NewDense(n, 2, nil)
	for i, x := range in.X {
		a.Set(i, 0, x)
		a.Set(i, 1, 1)
	}
	b := mat.NewVecDense(n, append([]float64(nil), in.Y...))
	var beta mat.VecDense
	require.NoError(t, beta.SolveVec(a, b))
	return beta.AtVec(0), beta.AtVec(1)
}

func sumSquaredResiduals(in models.InputSeries, slope, intercept float64) float64 {
	var ss float64
	for i, x := range in.X {
		r := in.Y[i] - (slope*x + intercept)
		ss += r * r
	}
	return ss
}
