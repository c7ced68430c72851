package celadon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(xs ...int64) []*Token {
	out := make([]*Token, 0, len(xs))
	for _, x := range xs {
		out = append(out, Stable(NewInt(x)))
	}
	return out
}

func TestArith(t *testing.T) {
	testCases := []struct {
		Op   string
		A, B number
		Out  number
	}{
		{"+", number{i: 2}, number{i: 3}, number{i: 5}},
		{"-", number{i: 2}, number{i: 3}, number{i: -1}},
		{"*", number{i: -4}, number{i: 3}, number{i: -12}},
		{"/", number{i: 7}, number{i: 2}, number{i: 3}},
		{"/", number{i: -7}, number{i: 2}, number{i: -3}},
		{"%", number{i: -7}, number{i: 2}, number{i: -1}},
		{"/", number{i: 7}, number{f: 2, float: true}, number{f: 3.5, float: true}},
		{"%", number{f: 7.5, float: true}, number{i: 2}, number{f: 1.5, float: true}},
		{"<<", number{i: 1}, number{i: 65}, number{i: 2}},
		{">>", number{i: -16}, number{i: 2}, number{i: -4}},
		{">>>", number{i: -1}, number{i: 60}, number{i: 15}},
		{"&", number{i: 12}, number{i: 10}, number{i: 8}},
		{"|", number{i: 12}, number{i: 10}, number{i: 14}},
		{"^", number{i: 12}, number{i: 10}, number{i: 6}},
		{"+", number{i: math.MaxInt64}, number{i: 1}, number{i: math.MinInt64}},
	}

	for _, tc := range testCases {
		n, err := arith(tc.Op, tc.A, tc.B)
		require.NoError(t, err, tc.Op)
		assert.Equal(t, tc.Out, n, tc.Op)
	}

	{
		_, err := arith("/", number{i: 1}, number{})
		assert.ErrorIs(t, err, ErrDivisionByZero)

		_, err = arith("%", number{i: 1}, number{})
		assert.ErrorIs(t, err, ErrDivisionByZero)

		n, err := arith("/", number{f: 1, float: true}, number{})
		require.NoError(t, err)
		assert.True(t, math.IsInf(n.f, 1))
	}
}

func TestFold(t *testing.T) {
	ctx := NewContext()

	{
		v, err := ctx.fold("*", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), v.Int())

		v, err = ctx.fold("+", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), v.Int())
	}

	{
		v, err := ctx.fold("-", ints(5))
		require.NoError(t, err)
		assert.Equal(t, int64(-5), v.Int())

		v, err = ctx.fold("/", []*Token{Stable(NewFloat(4))})
		require.NoError(t, err)
		assert.Equal(t, 0.25, v.Float64())
	}

	{
		v, err := ctx.fold("-", ints(10, 1, 2))
		require.NoError(t, err)
		assert.Equal(t, ValueTypeInt, v.Type)
		assert.Equal(t, int64(7), v.Int())

		v, err = ctx.fold("+", append(ints(1), Stable(NewFloat(0.5)), Stable(True)))
		require.NoError(t, err)
		assert.Equal(t, ValueTypeFloat, v.Type)
		assert.Equal(t, 2.5, v.Float64())
	}

	{
		// bitwise operators drop the fraction
		v, err := ctx.fold("|", []*Token{Stable(NewFloat(4.9)), Stable(NewInt(1))})
		require.NoError(t, err)
		assert.Equal(t, ValueTypeInt, v.Type)
		assert.Equal(t, int64(5), v.Int())
	}

	{
		v, err := ctx.fold("+", []*Token{Stable(NewInt(1)), Stable(NewAtom("x"))})
		require.NoError(t, err)
		assert.Equal(t, int64(1), v.Int())

		strict := NewContext(WithStrict(true))
		_, err = strict.fold("+", []*Token{Stable(NewInt(1)), Stable(NewAtom("x"))})
		assert.ErrorIs(t, err, ErrMalformedForm)
	}
}

func TestCompare(t *testing.T) {
	testCases := []struct {
		A, B *Value
		Out  int
		Ok   bool
	}{
		{NewInt(1), NewInt(2), -1, true},
		{NewInt(2), NewFloat(2), 0, true},
		{NewFloat(2.5), NewInt(2), 1, true},
		{NewString("abc"), NewString("abd"), -1, true},
		{NewChar('b'), NewChar('a'), 1, true},
		{NewFloat(math.NaN()), NewInt(1), 0, false},
		{NewString("1"), NewInt(1), 0, false},
		{Nil, NewInt(0), 0, false},
	}

	for i, tc := range testCases {
		c, ok := compare(tc.A, tc.B)
		assert.Equal(t, tc.Ok, ok, i)
		if tc.Ok {
			assert.Equal(t, tc.Out, sign(c), i)
		}
	}

	assert.True(t, chain("<", ints(1, 2, 3)))
	assert.False(t, chain("<", ints(1, 3, 2)))
	assert.True(t, chain("<=", ints(1, 1, 2)))
	assert.True(t, chain(">=", ints(3, 3)))
	assert.True(t, chain(">", ints(1)))

	assert.True(t, allEqual(ints(4, 4, 4)))
	assert.False(t, allEqual(ints(4, 4, 5)))
}

func sign(c int) int {
	switch {
	case c < 0:
		return -1
	case c > 0:
		return 1
	}
	return 0
}
