package dec

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := Parse(s)
	require.NoError(t, err)
	return d
}

func TestParseRejectsNonCanonicalLiterals(t *testing.T) {
	bad := []string{"", "1e5", "1E5", "0x10", "NaN", "Inf", "1.2.3", "1,5", " 1", "1 "}
	for _, s := range bad {
		_, err := Parse(s)
		assert.Error(t, err, "expected rejection of %q", s)
	}

	good := []string{"0", "1", "-1", "+1", "0.00000001", "1000.5", "2000"}
	for _, s := range good {
		_, err := Parse(s)
		assert.NoError(t, err, "expected acceptance of %q", s)
	}
}

func TestRoundingDirections(t *testing.T) {
	d := mustDec(t, "19.801980198019801980")

	assert.Equal(t, "19.80198019", RoundDown(d, 8).String())
	assert.Equal(t, "19.8019802", RoundUp(d, 8).String())

	// Exact values are unchanged in both directions.
	e := mustDec(t, "1.25")
	assert.True(t, RoundDown(e, 8).Equal(e))
	assert.True(t, RoundUp(e, 8).Equal(e))
}

func TestFitsPlaces(t *testing.T) {
	assert.True(t, FitsPlaces(mustDec(t, "12.345"), 3))
	assert.True(t, FitsPlaces(mustDec(t, "12.345"), 5))
	assert.False(t, FitsPlaces(mustDec(t, "12.3456"), 3))
	assert.True(t, FitsPlaces(mustDec(t, "50"), 0))
}

func TestDivPrecTruncates(t *testing.T) {
	// 10 * 2000 / 1010 = 19.80198019...
	q, err := DivPrec(mustDec(t, "20000"), mustDec(t, "1010"))
	require.NoError(t, err)
	assert.True(t, q.Equal(mustDec(t, "19.801980198019801980198019801980")))
	// Truncated, never rounded half-up.
	assert.Equal(t, "19.80198019", RoundDown(q, 8).String())

	_, err = DivPrec(One, Zero)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestDivPrecIsDeterministicAcrossOperandScales(t *testing.T) {
	// The same ratio expressed at different scales must divide identically.
	a, err := DivPrec(mustDec(t, "1"), mustDec(t, "3"))
	require.NoError(t, err)
	b, err := DivPrec(mustDec(t, "10.000"), mustDec(t, "30.000"))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestSqrtFloor(t *testing.T) {
	// sqrt(1000 * 2000) = 1414.21356237...
	s, err := SqrtFloor(mustDec(t, "2000000"), 8)
	require.NoError(t, err)
	assert.Equal(t, "1414.21356237", s.String())

	s, err = SqrtFloor(mustDec(t, "4"), 8)
	require.NoError(t, err)
	assert.True(t, s.Equal(mustDec(t, "2")))

	s, err = SqrtFloor(Zero, 8)
	require.NoError(t, err)
	assert.True(t, s.IsZero())

	_, err = SqrtFloor(mustDec(t, "-1"), 8)
	assert.ErrorIs(t, err, ErrNegativeSqrt)
}

func TestSqrtFloorNeverOvershoots(t *testing.T) {
	for _, in := range []string{"2", "3", "5", "123456.789", "0.00000002", "999999999999"} {
		d := mustDec(t, in)
		s, err := SqrtFloor(d, 8)
		require.NoError(t, err)
		assert.True(t, s.Mul(s).LessThanOrEqual(d), "sqrt(%s)^2 exceeded input", in)
		next := s.Add(decimal.New(1, -8))
		assert.True(t, next.Mul(next).GreaterThan(d), "sqrt(%s) not tight", in)
	}
}

func TestSigFigs(t *testing.T) {
	cases := []struct {
		in   string
		figs int32
		want string
	}{
		{"2000000.0000081", 8, "2000000"},
		{"2000000", 8, "2000000"},
		{"1980.198020", 8, "1980.198"},
		{"0.000123456789", 3, "0.000123"},
		{"987654321", 4, "987700000"},
	}
	for _, tc := range cases {
		got := SigFigs(mustDec(t, tc.in), tc.figs)
		assert.True(t, got.Equal(mustDec(t, tc.want)), "SigFigs(%s, %d) = %s, want %s", tc.in, tc.figs, got, tc.want)
	}
}
