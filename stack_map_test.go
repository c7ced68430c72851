package celadon

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackMapShadow(t *testing.T) {
	m := NewStackMap[int](0)

	m.Push("x", 1)
	m.Push("x", 2)

	{
		v, ok := m.Get("x")
		assert.True(t, ok)
		assert.Equal(t, 2, v)
	}

	{
		v, err := m.Pop("x")
		assert.NoError(t, err)
		assert.Equal(t, 2, v)

		v, ok := m.Get("x")
		assert.True(t, ok)
		assert.Equal(t, 1, v)
	}

	{
		v, err := m.Pop("x")
		assert.NoError(t, err)
		assert.Equal(t, 1, v)

		_, err = m.Pop("x")
		assert.ErrorIs(t, err, ErrUnknownBinding)

		_, ok := m.Get("x")
		assert.False(t, ok)
	}

	assert.Equal(t, 0, m.Len())
}

func TestStackMapOrder(t *testing.T) {
	m := NewStackMap[int](0)
	m.Push("a", 1)
	m.Push("b", 2)
	m.Push("c", 3)
	m.Push("b", 4)

	assert.Equal(t, 4, m.Len())
	assert.Equal(t, []string{"a", "b", "c"}, m.Keys())

	testCases := []struct {
		Key   string
		Value int
	}{
		{"a", 1},
		{"b", 2},
		{"c", 3},
		{"b", 4},
	}
	for i, tc := range testCases {
		k, v, ok := m.At(i)
		assert.True(t, ok)
		assert.Equal(t, tc.Key, k)
		assert.Equal(t, tc.Value, v)
	}

	_, _, ok := m.At(4)
	assert.False(t, ok)

	_, err := m.Pop("b")
	require.NoError(t, err)
	_, err = m.Pop("a")
	require.NoError(t, err)

	{
		k, v, ok := m.At(0)
		assert.True(t, ok)
		assert.Equal(t, "b", k)
		assert.Equal(t, 2, v)
	}
	{
		k, v, ok := m.At(1)
		assert.True(t, ok)
		assert.Equal(t, "c", k)
		assert.Equal(t, 3, v)
	}
	assert.Equal(t, 2, m.Len())
}

func TestStackMapSet(t *testing.T) {
	m := NewStackMap[int](0)

	assert.False(t, m.Set("x", 1))
	_, ok := m.Get("x")
	assert.False(t, ok)

	m.Push("x", 1)
	assert.True(t, m.Set("x", 5))
	m.Push("x", 6)
	assert.True(t, m.Set("x", 7))

	v, err := m.Pop("x")
	assert.NoError(t, err)
	assert.Equal(t, 7, v)

	v, ok = m.Get("x")
	assert.True(t, ok)
	assert.Equal(t, 5, v)
}

func TestStackMapMany(t *testing.T) {
	const n = 1000

	m := NewStackMap[int](0)
	for i := 0; i < n; i++ {
		m.Push(fmt.Sprintf("k%d", i), i)
	}
	assert.Equal(t, n, m.Len())

	for i := 0; i < n; i++ {
		v, ok := m.Get(fmt.Sprintf("k%d", i))
		require.True(t, ok, i)
		require.Equal(t, i, v)
	}

	for i := 0; i < n; i += 2 {
		_, err := m.Pop(fmt.Sprintf("k%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, n/2, m.Len())

	for i := 0; i < n; i++ {
		v, ok := m.Get(fmt.Sprintf("k%d", i))
		if i%2 == 0 {
			assert.False(t, ok, i)
			continue
		}
		assert.True(t, ok, i)
		assert.Equal(t, i, v)
	}

	for i := 0; i < n/2; i++ {
		k, v, ok := m.At(i)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("k%d", 2*i+1), k)
		assert.Equal(t, 2*i+1, v)
	}

	// popped slots and sequence numbers are reused
	for i := 0; i < n; i += 2 {
		m.Push(fmt.Sprintf("k%d", i), -i)
	}
	assert.Equal(t, n, m.Len())
	k, v, ok := m.At(n - 1)
	assert.True(t, ok)
	assert.Equal(t, fmt.Sprintf("k%d", n-2), k)
	assert.Equal(t, -(n - 2), v)
}

func TestStackMapClone(t *testing.T) {
	m := NewStackMap[string](0)
	m.Push("x", "a")

	c := m.Clone()
	c.Push("y", "b")
	assert.True(t, c.Set("x", "c"))

	{
		v, ok := m.Get("x")
		assert.True(t, ok)
		assert.Equal(t, "a", v)

		_, ok = m.Get("y")
		assert.False(t, ok)
		assert.Equal(t, 1, m.Len())
	}

	{
		v, ok := c.Get("x")
		assert.True(t, ok)
		assert.Equal(t, "c", v)
		assert.Equal(t, 2, c.Len())
	}
}
