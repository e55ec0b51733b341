package sdc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMetaInfoGetRawCurrent(t *testing.T) {
	m := NewMetaInfo()
	m.Set("valid_from", 3, "100")
	m.Set("valid_from", 10, "200")

	raw, line, err := m.GetRaw("valid_from", 0)
	require.NoError(t, err)
	require.Equal(t, "200", raw)
	require.Equal(t, 10, line)
}

func TestMetaInfoGetRawAtLine(t *testing.T) {
	m := NewMetaInfo()
	m.Set("valid_from", 3, "100")
	m.Set("valid_from", 10, "200")

	raw, line, err := m.GetRaw("valid_from", 5)
	require.NoError(t, err)
	require.Equal(t, "100", raw)
	require.Equal(t, 3, line)

	_, _, err = m.GetRaw("valid_from", 1)
	require.ErrorIs(t, err, ErrNoCurrentMetadataEntry)
}

func TestMetaInfoAlias(t *testing.T) {
	m := NewMetaInfo()
	require.NoError(t, m.Alias("run_start", "valid_from"))
	m.Set("run_start", 1, "42")

	require.True(t, m.Has("valid_from"), "expected alias to resolve to canonical name")

	raw, _, err := m.GetRaw("valid_from", 0)
	require.NoError(t, err)
	require.Equal(t, "42", raw)
}

func TestMetaInfoAliasIsIdempotent(t *testing.T) {
	m := NewMetaInfo()
	require.NoError(t, m.Alias("run_start", "valid_from"))
	require.NoError(t, m.Alias("run_start", "valid_from"), "re-aliasing to the same canonical name must be a no-op")
}

func TestMetaInfoAliasRejectsConflict(t *testing.T) {
	m := NewMetaInfo()
	require.NoError(t, m.Alias("run_start", "valid_from"))

	err := m.Alias("run_start", "other_name")
	require.ErrorIs(t, err, ErrAliasConflict)
}

func TestMetaGetCaches(t *testing.T) {
	m := NewMetaInfo()
	m.Set("valid_from", 1, "42")

	calls := 0
	parse := func(s string) (int64, error) {
		calls++
		return LexInt(s)
	}

	v1, err := MetaGet(m, "valid_from", 0, parse)
	require.NoError(t, err)
	require.Equal(t, int64(42), v1)

	v2, err := MetaGet(m, "valid_from", 0, parse)
	require.NoError(t, err)
	require.Equal(t, int64(42), v2)

	require.Equal(t, 1, calls, "parse should only run once; the second lookup must hit the cache")
}

func TestMetaInfoMissing(t *testing.T) {
	m := NewMetaInfo()

	_, _, err := m.GetRaw("nope", 0)
	require.ErrorIs(t, err, ErrNoMetadataEntry)
}

func TestMetaInfoDropRemovesEntriesAndCache(t *testing.T) {
	m := NewMetaInfo()
	m.Set("valid_from", 1, "42")

	v, err := MetaGet(m, "valid_from", 0, LexInt)
	require.NoError(t, err)
	require.Equal(t, int64(42), v)

	m.Drop("valid_from")

	require.False(t, m.Has("valid_from"))

	_, _, err = m.GetRaw("valid_from", 0)
	require.ErrorIs(t, err, ErrNoMetadataEntry)

	// A fresh Set under the same (name, line) must not resurrect the old
	// cached parse: MetaGet must re-lex "99" rather than return 42 again.
	// Set also purges the cache row for its own (name, line), so this
	// checks the Drop-then-Set sequence, not Drop's purge on its own.
	m.Set("valid_from", 1, "99")
	v, err = MetaGet(m, "valid_from", 0, LexInt)
	require.NoError(t, err)
	require.Equal(t, int64(99), v)
}

func TestMetaInfoSetInvalidatesCacheAtSameLine(t *testing.T) {
	m := NewMetaInfo()
	m.Set("valid_from", 1, "42")

	v, err := MetaGet(m, "valid_from", 0, LexInt)
	require.NoError(t, err)
	require.Equal(t, int64(42), v)

	// Re-Set the same line with a new raw value; the cached parse of the
	// old raw value must not leak through.
	m.Set("valid_from", 1, "100")

	v, err = MetaGet(m, "valid_from", 0, LexInt)
	require.NoError(t, err)
	require.Equal(t, int64(100), v)
}

func TestMetaGetOrReturnsDefaultWhenAbsent(t *testing.T) {
	m := NewMetaInfo()

	v, err := MetaGetOr(m, "missing", 0, int64(7), LexInt)
	require.NoError(t, err)
	require.Equal(t, int64(7), v)
}

func TestMetaGetOrReturnsParsedValueWhenPresent(t *testing.T) {
	m := NewMetaInfo()
	m.Set("valid_from", 1, "42")

	v, err := MetaGetOr(m, "valid_from", 0, int64(7), LexInt)
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}

func TestMetaGetOrPropagatesParseError(t *testing.T) {
	m := NewMetaInfo()
	m.Set("valid_from", 1, "not-a-number")

	_, err := MetaGetOr(m, "valid_from", 0, int64(7), LexInt)
	require.Error(t, err, "a malformed entry must not be silently swallowed into the default")
}

func TestMetaInfoCloneIsIndependent(t *testing.T) {
	m := NewMetaInfo()
	m.Set("valid_from", 1, "100")

	clone := m.Clone()
	m.Set("valid_from", 2, "200")

	raw, _, err := clone.GetRaw("valid_from", 0)
	require.NoError(t, err)
	require.Equal(t, "100", raw, "clone must not observe mutations made after it was taken")
}
