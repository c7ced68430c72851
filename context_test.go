package celadon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextCreate(t *testing.T) {
	ctx := NewContext(WithName("test"))
	assert.NotNil(t, ctx)
	assert.Equal(t, "test", ctx.Name())
	assert.False(t, ctx.Strict())

	for _, name := range []string{"null", "true", "false", "+", "def", "if", "(", "{", "[", "map", ":", "@", "rng"} {
		_, ok := ctx.Get(name)
		assert.True(t, ok, name)
		assert.True(t, ctx.IsReserved(name), name)
	}
}

func TestContextPushPop(t *testing.T) {
	ctx := NewContext()
	a, b := Stable(NewInt(1)), Stable(NewInt(2))

	ctx.Push("x", a)
	ctx.Push("x", b)

	{
		v, ok := ctx.Get("x")
		assert.True(t, ok)
		assert.Equal(t, b, v)
	}

	{
		err := ctx.Pop("x")
		assert.NoError(t, err)

		v, ok := ctx.Get("x")
		assert.True(t, ok)
		assert.Equal(t, a, v)
	}

	{
		err := ctx.Pop("x")
		assert.NoError(t, err)

		err = ctx.Pop("x")
		assert.ErrorIs(t, err, ErrUnknownBinding)
	}
}

func TestContextReserved(t *testing.T) {
	ctx := NewContext()

	ctx.Push("true", Stable(NewInt(0)))
	v, ok := ctx.Get("true")
	require.True(t, ok)
	assert.Equal(t, True, v.Value)

	assert.NoError(t, ctx.Pop("true"))
	v, ok = ctx.Get("true")
	require.True(t, ok)
	assert.Equal(t, True, v.Value)

	assert.ErrorIs(t, ctx.Assign("true", nilToken), ErrReservedName)
	assert.ErrorIs(t, ctx.Define("if", nilToken), ErrReservedName)

	ctx.Reserve("pi")
	assert.ErrorIs(t, ctx.Define("pi", nilToken), ErrReservedName)
}

func TestContextAssignDefine(t *testing.T) {
	ctx := NewContext()

	assert.ErrorIs(t, ctx.Assign("x", Stable(NewInt(1))), ErrUnknownBinding)

	require.NoError(t, ctx.Define("x", Stable(NewInt(1))))
	require.NoError(t, ctx.Assign("x", Stable(NewInt(2))))

	v, err := ctx.Peek("x")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Value.Int())

	// define reuses the existing binding instead of shadowing it
	require.NoError(t, ctx.Define("x", Stable(NewInt(3))))
	require.NoError(t, ctx.Pop("x"))
	_, ok := ctx.Get("x")
	assert.False(t, ok)
}

func TestContextDerive(t *testing.T) {
	parent := NewContext()
	require.NoError(t, parent.Define("x", Stable(NewInt(1))))

	child := parent.Derive()
	require.NoError(t, child.Assign("x", Stable(NewInt(2))))
	require.NoError(t, child.Define("y", Stable(NewInt(3))))
	child.Reserve("z")

	{
		v, ok := parent.Get("x")
		assert.True(t, ok)
		assert.Equal(t, int64(1), v.Value.Int())

		_, ok = parent.Get("y")
		assert.False(t, ok)
		assert.False(t, parent.IsReserved("z"))
	}

	{
		v, ok := child.Get("x")
		assert.True(t, ok)
		assert.Equal(t, int64(2), v.Value.Int())
	}
}

func TestContextSuggest(t *testing.T) {
	ctx := NewContext()
	require.NoError(t, ctx.Define("counter", Stable(NewInt(0))))

	assert.Equal(t, "counter", ctx.Suggest("countr"))
	assert.Equal(t, "", ctx.Suggest("zzzzzzzz"))

	_, err := ctx.Peek("countr")
	assert.ErrorIs(t, err, ErrUnknownBinding)
	assert.Contains(t, err.Error(), `did you mean "counter"`)
}

func TestContextOperators(t *testing.T) {
	ctx := NewContext()

	op, ok := ctx.Operator("*")
	assert.True(t, ok)
	plus, _ := ctx.Operator("+")
	assert.Greater(t, op.Precedence, plus.Precedence)

	ctx.DefineOperator("max2", func(ctx *Context, args []*Token) (*Token, error) {
		if c, _ := compare(args[0].Value, args[1].Value); c >= 0 {
			return args[0], nil
		}
		return args[1], nil
	}, Operator{Precedence: 8})

	_, ok = NewContext().Operator("max2")
	assert.False(t, ok)

	values, err := ctx.Eval("#infix(1 + 2 max2 5)")
	require.NoError(t, err)
	assert.Equal(t, "6", string(Encode(values)))
}
