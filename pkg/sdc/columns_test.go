package sdc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumnsOrderInterpret(t *testing.T) {
	cols := NewColumnsOrder([]string{"run", "gain", "channel"})

	row, err := cols.Interpret([]string{"100", "1.5", "3"})
	require.NoError(t, err)

	v, err := row.Get("gain")
	require.NoError(t, err)
	require.Equal(t, "1.5", v)
}

func TestColumnsOrderInterpretTooFewTokens(t *testing.T) {
	cols := NewColumnsOrder([]string{"run", "gain", "channel"})

	_, err := cols.Interpret([]string{"100", "1.5"})

	var pErr *ParseError
	require.ErrorAs(t, err, &pErr)
	require.Equal(t, "channel", pErr.Token)
	require.Contains(t, pErr.Error(), "#3")
	require.Contains(t, pErr.Error(), "has only 2 columns")
}

func TestColumnsOrderRowGetMissingColumn(t *testing.T) {
	cols := NewColumnsOrder([]string{"run"})
	row, err := cols.Interpret([]string{"100"})
	require.NoError(t, err)

	_, err = row.Get("gain")
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestRowGetReturnsDefaultForAbsentColumn(t *testing.T) {
	cols := NewColumnsOrder([]string{"run"})
	row, err := cols.Interpret([]string{"100"})
	require.NoError(t, err)

	v, err := RowGet(row, "gain", 7.0, func(s string) (float64, error) {
		return LexFloat(s, LexOptions{})
	})
	require.NoError(t, err)
	require.Equal(t, 7.0, v)
}

func TestRowGetParsesPresentColumn(t *testing.T) {
	cols := NewColumnsOrder([]string{"run", "gain"})
	row, err := cols.Interpret([]string{"100", "1.5"})
	require.NoError(t, err)

	v, err := RowGet(row, "gain", 0.0, func(s string) (float64, error) {
		return LexFloat(s, LexOptions{})
	})
	require.NoError(t, err)
	require.Equal(t, 1.5, v)
}
