package ringbuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuffer[T any](t *testing.T, capacity int, opts ...Option[T]) *Buffer[T] {
	t.Helper()
	b, err := New[T](capacity, opts...)
	require.NoError(t, err)
	return b
}

// requireInvariants checks the control scalars against each other.
func requireInvariants[T any](t *testing.T, b *Buffer[T]) {
	t.Helper()
	n := b.Capacity()
	require.GreaterOrEqual(t, b.count, 0)
	require.LessOrEqual(t, b.count, n)
	require.GreaterOrEqual(t, b.oldest, 0)
	require.Less(t, b.oldest, n)
	require.GreaterOrEqual(t, b.newest, 0)
	require.Less(t, b.newest, n)
	if b.count == 0 {
		require.Zero(t, b.oldest)
		require.Zero(t, b.newest)
		return
	}
	require.Equal(t, (b.oldest+b.count-1)%n, b.newest)
}

func TestNew_InvalidCapacity(t *testing.T) {
	t.Parallel()

	for _, capacity := range []int{-1, 0, 1} {
		_, err := New[int](capacity)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
	}

	_, err := From([]int{1})
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = Filled(1, "x")
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestBuffer_FillToCapacity(t *testing.T) {
	t.Parallel()

	for n := 2; n <= 9; n++ {
		b := newBuffer[int](t, n)
		assert.True(t, b.Empty())
		for i := 0; i < n; i++ {
			b.PushBack(i * 10)
			requireInvariants(t, b)
		}
		assert.Equal(t, n, b.Size())
		assert.True(t, b.Full())
		assert.False(t, b.Empty())
		for i := 0; i < n; i++ {
			assert.Equal(t, i*10, b.Index(i))
		}
	}
}

func TestBuffer_FromSlice(t *testing.T) {
	t.Parallel()

	values := []int{1, 2, 3, 4, 5}
	b, err := From(values)
	require.NoError(t, err)
	requireInvariants(t, b)

	assert.Equal(t, 5, b.Size())
	assert.Equal(t, 5, b.Capacity())
	assert.True(t, b.Full())

	front, err := b.Front()
	require.NoError(t, err)
	assert.Equal(t, 1, front)

	back, err := b.Back()
	require.NoError(t, err)
	assert.Equal(t, 5, back)

	var got []int
	for it := b.Begin(); !it.Equal(b.End()); require.NoError(t, it.Next()) {
		v, err := it.Value()
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, values, got)

	// The input slice is copied, not aliased.
	values[0] = 100
	front, _ = b.Front()
	assert.Equal(t, 1, front)
}

func TestBuffer_Filled(t *testing.T) {
	t.Parallel()

	b, err := Filled(4, "x")
	require.NoError(t, err)
	requireInvariants(t, b)

	assert.True(t, b.Full())
	assert.Equal(t, []string{"x", "x", "x", "x"}, b.Slice())

	b.PushBack("y")
	assert.Equal(t, []string{"x", "x", "x", "y"}, b.Slice())
}

func TestBuffer_OverwriteOnFull(t *testing.T) {
	t.Parallel()

	b := newBuffer[int](t, 3)
	for _, v := range []int{1, 2, 3, 4} {
		b.PushBack(v)
		requireInvariants(t, b)
	}

	front, err := b.Front()
	require.NoError(t, err)
	back, err := b.Back()
	require.NoError(t, err)

	assert.Equal(t, 2, front)
	assert.Equal(t, 4, back)
	assert.Equal(t, 3, b.Size())
}

func TestBuffer_OverwriteLaw(t *testing.T) {
	t.Parallel()

	b, err := From([]int{10, 20, 30, 40})
	require.NoError(t, err)

	for x := 50; x < 120; x += 10 {
		second := b.Index(1)
		size := b.Size()

		b.PushBack(x)
		requireInvariants(t, b)

		back, _ := b.Back()
		front, _ := b.Front()
		assert.Equal(t, size, b.Size())
		assert.Equal(t, x, back)
		assert.Equal(t, second, front)
	}
}

func TestBuffer_PopFront(t *testing.T) {
	t.Parallel()

	b := newBuffer[int](t, 3)
	b.PushBack(1)
	b.PushBack(2)
	b.PushBack(3)

	v, err := b.PopFront()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = b.PopFront()
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	assert.Equal(t, 1, b.Size())
	front, _ := b.Front()
	back, _ := b.Back()
	assert.Equal(t, 3, front)
	assert.Equal(t, 3, back)
	requireInvariants(t, b)
}

func TestBuffer_FIFOLaw(t *testing.T) {
	t.Parallel()

	b := newBuffer[int](t, 4)
	var history []int
	for i := 1; i <= 11; i++ {
		b.PushBack(i)
		history = append(history, i)
		if i%3 == 0 {
			front, err := b.Front()
			require.NoError(t, err)
			size := b.Size()

			v, err := b.PopFront()
			require.NoError(t, err)
			assert.Equal(t, front, v)
			assert.Equal(t, size-1, b.Size())
			requireInvariants(t, b)
		}
	}

	var drained []int
	for !b.Empty() {
		v, err := b.PopFront()
		require.NoError(t, err)
		drained = append(drained, v)
		requireInvariants(t, b)
	}
	// The drained values are the newest elements of the history, in order.
	assert.Equal(t, history[len(history)-len(drained):], drained)
}

func TestBuffer_PopToEmptyThenPush(t *testing.T) {
	t.Parallel()

	b := newBuffer[int](t, 3)
	for _, v := range []int{1, 2, 3, 4, 5} {
		b.PushBack(v)
	}
	for !b.Empty() {
		_, err := b.PopFront()
		require.NoError(t, err)
	}
	requireInvariants(t, b)

	b.PushBack(9)
	requireInvariants(t, b)
	front, _ := b.Front()
	back, _ := b.Back()
	assert.Equal(t, 9, front)
	assert.Equal(t, 9, back)
	assert.Equal(t, []int{9}, b.Slice())
}

func TestBuffer_PopFrontReleasesSlot(t *testing.T) {
	t.Parallel()

	b := newBuffer[*int](t, 2)
	v := 7
	b.PushBack(&v)
	b.PushBack(&v)

	_, err := b.PopFront()
	require.NoError(t, err)
	assert.Nil(t, b.storage[0])
}

func TestBuffer_Clear(t *testing.T) {
	t.Parallel()

	b := newBuffer[int](t, 5)
	b.Clear()
	assert.True(t, b.Empty())
	requireInvariants(t, b)

	for i := 0; i < 7; i++ {
		b.PushBack(i)
	}
	b.Clear()
	assert.True(t, b.Empty())
	assert.Equal(t, 5, b.Capacity())
	requireInvariants(t, b)

	b.Clear()
	assert.True(t, b.Empty())

	b.PushBack(42)
	assert.Equal(t, []int{42}, b.Slice())
}

func TestBuffer_EmptyFailures(t *testing.T) {
	t.Parallel()

	b := newBuffer[string](t, 2)

	_, err := b.Front()
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = b.Back()
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = b.PopFront()
	assert.ErrorIs(t, err, ErrEmpty)
	requireInvariants(t, b)
}

func TestBuffer_At(t *testing.T) {
	t.Parallel()

	b := newBuffer[int](t, 4)
	for _, v := range []int{1, 2, 3, 4, 5, 6} {
		b.PushBack(v)
	}
	for range 2 {
		_, err := b.PopFront()
		require.NoError(t, err)
	}
	require.Equal(t, 2, b.Size())

	for pos := 0; pos < b.Size(); pos++ {
		v, err := b.At(pos)
		require.NoError(t, err)
		assert.Equal(t, b.Index(pos), v)
	}

	tests := []struct {
		name string
		pos  int
	}{
		{name: "AtSize", pos: b.Size()},
		{name: "BetweenSizeAndCapacity", pos: b.Capacity() - 1},
		{name: "BeyondCapacity", pos: 100},
		{name: "Negative", pos: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.At(tt.pos)
			assert.ErrorIs(t, err, ErrIndexOutOfRange)
		})
	}
}

func TestBuffer_SetAndRef(t *testing.T) {
	t.Parallel()

	b, err := From([]int{1, 2, 3})
	require.NoError(t, err)
	b.PushBack(4)

	require.NoError(t, b.Set(0, 20))
	assert.Equal(t, []int{20, 3, 4}, b.Slice())

	*b.Ref(2) = 40
	assert.Equal(t, []int{20, 3, 40}, b.Slice())

	assert.ErrorIs(t, b.Set(3, 0), ErrIndexOutOfRange)
}

func TestBuffer_Slot(t *testing.T) {
	t.Parallel()

	b := newBuffer[int](t, 3)
	for _, v := range []int{1, 2, 3, 4} {
		b.PushBack(v)
	}

	// After one eviction the window starts at physical slot 1.
	want := []int{1, 2, 0}
	for pos, slot := range want {
		got, err := b.Slot(pos)
		require.NoError(t, err)
		assert.Equal(t, slot, got)
	}

	_, err := b.Slot(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestBuffer_Sequences(t *testing.T) {
	t.Parallel()

	b := newBuffer[int](t, 3)
	for _, v := range []int{1, 2, 3, 4, 5} {
		b.PushBack(v)
	}

	var positions, values []int
	for i, v := range b.All() {
		positions = append(positions, i)
		values = append(values, v)
	}
	assert.Equal(t, []int{0, 1, 2}, positions)
	assert.Equal(t, []int{3, 4, 5}, values)

	var backward []int
	for _, v := range b.Backward() {
		backward = append(backward, v)
	}
	assert.Equal(t, []int{5, 4, 3}, backward)

	var firstTwo []int
	for v := range b.Values() {
		if len(firstTwo) == 2 {
			break
		}
		firstTwo = append(firstTwo, v)
	}
	assert.Equal(t, []int{3, 4}, firstTwo)
}

func TestBuffer_SequenceStopsOnMutation(t *testing.T) {
	t.Parallel()

	b, err := From([]int{1, 2, 3})
	require.NoError(t, err)

	var seen []int
	for _, v := range b.All() {
		seen = append(seen, v)
		b.PushBack(v * 10)
	}
	assert.Equal(t, []int{1}, seen)
}

func TestBuffer_String(t *testing.T) {
	t.Parallel()

	b := newBuffer[int](t, 3)
	assert.Equal(t, "[]", b.String())

	for _, v := range []int{1, 2, 3, 4} {
		b.PushBack(v)
	}
	assert.Equal(t, "[2 3 4]", b.String())
}

type recordingObserver struct {
	pushes, evictions, pops, clears int
	lastSize                        int
}

func (o *recordingObserver) Pushed(size, _ int) {
	o.pushes++
	o.lastSize = size
}

func (o *recordingObserver) Evicted() { o.evictions++ }

func (o *recordingObserver) Popped(size, _ int) {
	o.pops++
	o.lastSize = size
}

func (o *recordingObserver) Cleared(_ int) {
	o.clears++
	o.lastSize = 0
}

func TestBuffer_Observer(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	var evicted []int
	b := newBuffer(t, 2,
		WithObserver[int](obs),
		WithEvictFunc[int](func(v int) { evicted = append(evicted, v) }),
	)

	for _, v := range []int{1, 2, 3, 4} {
		b.PushBack(v)
	}
	_, err := b.PopFront()
	require.NoError(t, err)
	b.Clear()

	assert.Equal(t, 4, obs.pushes)
	assert.Equal(t, 2, obs.evictions)
	assert.Equal(t, 1, obs.pops)
	assert.Equal(t, 1, obs.clears)
	assert.Equal(t, 0, obs.lastSize)
	assert.Equal(t, []int{1, 2}, evicted)

	// Failed pops are not reported.
	_, err = b.PopFront()
	require.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, 1, obs.pops)
}

func TestBuffer_NilOptionsIgnored(t *testing.T) {
	t.Parallel()

	b := newBuffer(t, 2, nil, WithObserver[int](nil))
	b.PushBack(1)
	b.PushBack(2)
	b.PushBack(3)
	assert.Equal(t, []int{2, 3}, b.Slice())
}

func TestBuffer_ZeroValue(t *testing.T) {
	t.Parallel()

	var b Buffer[int]
	assert.True(t, b.Empty())
	assert.Zero(t, b.Size())
	assert.Zero(t, b.Capacity())
	assert.Empty(t, b.Slice())

	_, err := b.PopFront()
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = b.Front()
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = b.At(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.True(t, b.Begin().Equal(b.End()))

	assert.PanicsWithError(t, errZeroBuffer.Error(), func() { b.PushBack(1) })
}
