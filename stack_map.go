package celadon

import (
	"fmt"
	"hash/maphash"
	"slices"
)

const (
	minBuckets  = 16
	minSequence = 16
)

type slot[V any] struct {
	key   string
	hash  uint64
	value V

	// below is the slot this one shadows, -1 if none.
	below int
	seq   int
}

// StackMap maps names to stacks of values. Only the top slot of each name
// sits in the probe table; pushing the same name again shadows it until the
// matching pop. Slots are also ordered by insertion so that the i-th live
// binding can be found in logarithmic time.
type StackMap[V any] struct {
	seed maphash.Seed

	buckets []int // slot index + 1, 0 when empty
	slots   []slot[V]
	free    []int

	order []int // sequence number -> slot index, -1 once popped
	live  fenwick

	keys int
	size int
}

func NewStackMap[V any](capacity int) *StackMap[V] {
	n := minBuckets
	for n*5 < capacity*8 {
		n <<= 1
	}
	return &StackMap[V]{
		seed:    maphash.MakeSeed(),
		buckets: make([]int, n),
		live:    newFenwick(minSequence),
	}
}

func (m *StackMap[V]) hash(key string) uint64 {
	return maphash.String(m.seed, key)
}

// find returns the bucket holding key, or the empty bucket where it would go.
func (m *StackMap[V]) find(key string, h uint64) (int, bool) {
	mask := len(m.buckets) - 1
	for b := int(h & uint64(mask)); ; b = (b + 1) & mask {
		s := m.buckets[b]
		if s == 0 {
			return b, false
		}
		if sl := &m.slots[s-1]; sl.hash == h && sl.key == key {
			return b, true
		}
	}
}

// Get returns the value on top of key's stack.
func (m *StackMap[V]) Get(key string) (V, bool) {
	if b, ok := m.find(key, m.hash(key)); ok {
		return m.slots[m.buckets[b]-1].value, true
	}
	var zero V
	return zero, false
}

// Push binds key to value, shadowing any previous binding.
func (m *StackMap[V]) Push(key string, value V) {
	h := m.hash(key)
	b, ok := m.find(key, h)

	below := -1
	if ok {
		below = m.buckets[b] - 1
	}

	idx := m.alloc(slot[V]{key: key, hash: h, value: value, below: below})
	m.slots[idx].seq = m.record(idx)
	m.buckets[b] = idx + 1
	m.size++

	if !ok {
		m.keys++
		if m.keys*8 > len(m.buckets)*5 {
			m.grow()
		}
	}
}

// Pop removes the top binding of key and returns it; the shadowed binding,
// if any, becomes visible again.
func (m *StackMap[V]) Pop(key string) (V, error) {
	h := m.hash(key)
	b, ok := m.find(key, h)
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %q", ErrUnknownBinding, key)
	}

	idx := m.buckets[b] - 1
	s := m.slots[idx]
	if s.below >= 0 {
		m.buckets[b] = s.below + 1
	} else {
		m.unlink(b)
		m.keys--
	}

	m.order[s.seq] = -1
	m.live.add(s.seq, -1)

	m.slots[idx] = slot[V]{}
	m.free = append(m.free, idx)
	m.size--

	return s.value, nil
}

// Set replaces the top binding of key in place. It reports false, changing
// nothing, when key is not bound.
func (m *StackMap[V]) Set(key string, value V) bool {
	b, ok := m.find(key, m.hash(key))
	if ok {
		m.slots[m.buckets[b]-1].value = value
	}
	return ok
}

// At returns the i-th live binding in insertion order, shadowed ones
// included.
func (m *StackMap[V]) At(i int) (string, V, bool) {
	if i < 0 || i >= m.size {
		var zero V
		return "", zero, false
	}
	s := m.slots[m.order[m.live.find(i+1)]]
	return s.key, s.value, true
}

// Len returns the number of live bindings.
func (m *StackMap[V]) Len() int {
	return m.size
}

// Keys returns each bound name once, in order of first appearance.
func (m *StackMap[V]) Keys() []string {
	keys := make([]string, 0, m.keys)
	seen := make(map[string]struct{}, m.keys)
	for _, idx := range m.order {
		if idx < 0 {
			continue
		}
		k := m.slots[idx].key
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}

// Clone returns an independent copy; values themselves are copied shallowly.
func (m *StackMap[V]) Clone() *StackMap[V] {
	c := *m
	c.buckets = slices.Clone(m.buckets)
	c.slots = slices.Clone(m.slots)
	c.free = slices.Clone(m.free)
	c.order = slices.Clone(m.order)
	c.live = slices.Clone(m.live)
	return &c
}

func (m *StackMap[V]) alloc(s slot[V]) int {
	if n := len(m.free); n > 0 {
		idx := m.free[n-1]
		m.free = m.free[:n-1]
		m.slots[idx] = s
		return idx
	}
	m.slots = append(m.slots, s)
	return len(m.slots) - 1
}

// record gives idx the next sequence number.
func (m *StackMap[V]) record(idx int) int {
	if len(m.order) == m.live.len() {
		m.compact()
	}
	seq := len(m.order)
	m.order = append(m.order, idx)
	m.live.add(seq, 1)
	return seq
}

// compact renumbers live slots densely, dropping popped sequence numbers.
func (m *StackMap[V]) compact() {
	n := 0
	for _, idx := range m.order {
		if idx >= 0 {
			m.order[n] = idx
			m.slots[idx].seq = n
			n++
		}
	}
	m.order = m.order[:n]

	capacity := m.live.len()
	for capacity < 2*(n+1) {
		capacity <<= 1
	}
	m.live = newFenwick(capacity)
	for i := 0; i < n; i++ {
		m.live.add(i, 1)
	}
}

// unlink empties bucket b, shifting later entries of the same probe run back.
func (m *StackMap[V]) unlink(b int) {
	mask := len(m.buckets) - 1
	i := b
	for j := (i + 1) & mask; m.buckets[j] != 0; j = (j + 1) & mask {
		home := int(m.slots[m.buckets[j]-1].hash & uint64(mask))
		var movable bool
		if j > i {
			movable = home <= i || home > j
		} else {
			movable = home <= i && home > j
		}
		if movable {
			m.buckets[i] = m.buckets[j]
			i = j
		}
	}
	m.buckets[i] = 0
}

func (m *StackMap[V]) grow() {
	buckets := make([]int, len(m.buckets)*2)
	mask := len(buckets) - 1
	for _, s := range m.buckets {
		if s == 0 {
			continue
		}
		b := int(m.slots[s-1].hash & uint64(mask))
		for buckets[b] != 0 {
			b = (b + 1) & mask
		}
		buckets[b] = s
	}
	m.buckets = buckets
}

// fenwick counts live sequence numbers; its size is a power of two.
type fenwick []int

func newFenwick(size int) fenwick {
	return make(fenwick, size+1)
}

func (f fenwick) len() int {
	return len(f) - 1
}

func (f fenwick) add(i, delta int) {
	for i++; i < len(f); i += i & -i {
		f[i] += delta
	}
}

// find returns the smallest index whose prefix count reaches k.
func (f fenwick) find(k int) int {
	pos := 0
	for step := f.len(); step > 0; step >>= 1 {
		if next := pos + step; next < len(f) && f[next] < k {
			pos = next
			k -= f[next]
		}
	}
	return pos
}
