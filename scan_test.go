package celadon

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func read(t *testing.T, src string) Tokens {
	ts, err := Read([]byte(src))
	require.NoError(t, err, src)
	return ts
}

func TestStep(t *testing.T) {
	ctx := NewContext()
	ts := read(t, "1 (+ 2 3) x")

	testCases := []struct {
		Start int
		Index int
		Out   string
	}{
		{0, 0, "1"},
		{1, 1, "5"},
		{2, 2, "null"},
	}
	for _, tc := range testCases {
		i, err := ctx.Step(&ts, tc.Start)
		require.NoError(t, err)
		assert.Equal(t, tc.Index, i)
		assert.Equal(t, tc.Out, ts[i].String())
	}

	i, err := ctx.Step(&ts, 3)
	require.NoError(t, err)
	assert.Equal(t, -1, i)
	assert.Equal(t, "1 5 null", ts.String())
}

func TestStepQuoting(t *testing.T) {
	ctx := NewContext()
	ts := read(t, "{def x [1 (+ 1 1)]} x")

	i, err := ctx.Step(&ts, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	assert.Equal(t, "[1 2]", ts[0].String())
	assert.Len(t, ts, 1)
}

func TestNextStop(t *testing.T) {
	ctx := NewContext()

	testCases := []struct {
		In    string
		Start int
		Stop  int
	}{
		{"(a b) c", 0, 4},
		{"(a b) c", 4, 5},
		{"a b", 0, 1},
		{":x y", 0, 2},
		{"@:x y", 0, 3},
		{"#map[1 [2]] 3", 0, 6},
		{"{a (b)} c", 0, 6},
		{"", 0, 0},
	}
	for _, tc := range testCases {
		stop, err := ctx.NextStop(read(t, tc.In), tc.Start)
		require.NoError(t, err, tc.In)
		assert.Equal(t, tc.Stop, stop, tc.In)
	}

	for _, in := range []string{"(a]", "(a", ")", "[a (b])"} {
		_, err := ctx.NextStop(read(t, in), 0)
		assert.ErrorIs(t, err, ErrUnmatchedBracket, in)
	}
}

func TestSkip(t *testing.T) {
	var out bytes.Buffer
	ctx := NewContext(WithOutput(&out))

	ts := read(t, "(println 1) :(println 2) 3")
	i, err := ctx.Skip(&ts, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, i)

	_, err = ctx.Skip(&ts, 0)
	require.NoError(t, err)
	assert.Equal(t, "3", ts.String())
	assert.Empty(t, out.String())
}

func TestNext(t *testing.T) {
	ctx := NewContext()
	args := read(t, "(+ 1 2) (print) 4")

	v, ok, err := ctx.next(&args)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "3", v.String())

	// a form that leaves nothing does not reach into the next one
	_, ok, err = ctx.next(&args)
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err = ctx.next(&args)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "4", v.String())

	_, ok, err = ctx.next(&args)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestModes(t *testing.T) {
	ctx := NewContext()

	testCases := []struct {
		In  string
		Out string
	}{
		{`#nohandler[1 2]`, `[1 2]`},
		{`#nohandler(+ 1 2)`, `3`},
		{`#zzz'hi'`, `"hi"`},
		{`#sym'abc'`, `:abc`},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.Out, evalString(t, ctx, tc.In), tc.In)
	}
}
