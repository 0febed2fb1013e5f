package series

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListTrimsAndSkipsEmpty(t *testing.T) {
	got, err := ParseList(" 10, 20 ,,30 , ")
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30}, got)
}

func TestParseListAcceptsSignsAndExponents(t *testing.T) {
	got, err := ParseList("-1.5,+2,3e2,.5")
	require.NoError(t, err)
	assert.Equal(t, []float64{-1.5, 2, 300, 0.5}, got)
}

func TestParseListEmpty(t *testing.T) {
	got, err := ParseList("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseListRejectsNonNumeric(t *testing.T) {
	_, err := ParseList("10,abc,30")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "abc", pe.Token)
}

func TestParseListRejectsNonFinite(t *testing.T) {
	for _, in := range []string{"1,NaN", "Inf,2", "1,-inf"} {
		_, err := ParseList(in)
		var pe *ParseError
		require.ErrorAs(t, err, &pe, in)
		assert.ErrorIs(t, err, errNotFinite, in)
	}
}

func TestParseDefaults(t *testing.T) {
	in, err := Parse("10,20,30,40,50,60", "12,23,36,41,58,61")
	require.NoError(t, err)
	assert.Equal(t, 6, in.Len())
	assert.Equal(t, []float64{12, 23, 36, 41, 58, 61}, in.Y)
}

func TestParseErrorNamesAxis(t *testing.T) {
	_, err := Parse("1,2,3", "4,x,6")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "y", pe.Axis)
	assert.Contains(t, err.Error(), `y: invalid number "x"`)
}

func TestParseLengthMismatch(t *testing.T) {
	in, err := Parse("1,2,3", "1,2,3,4")
	require.ErrorIs(t, err, ErrLengthMismatch)
	assert.Len(t, in.X, 3)
	assert.Len(t, in.Y, 4)
}

func TestParseEmptyInput(t *testing.T) {
	_, err := Parse("5", "10")
	require.ErrorIs(t, err, ErrEmptyInput)

	_, err = Parse("", " , ")
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestParsePrecedence(t *testing.T) {
	// A bad token is reported even when the lengths also differ.
	_, err := Parse("1,oops", "1,2,3")
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))

	// Mismatch wins over too few points.
	_, err = Parse("1", "1,2")
	assert.ErrorIs(t, err, ErrLengthMismatch)
}
