package ringbuf

import "iter"

// All yields logical positions and elements from oldest to newest.
// Iteration stops early if the buffer is structurally modified by the loop body.
func (b *Buffer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		gen := b.gen
		for i := 0; i < b.count && gen == b.gen; i++ {
			if !yield(i, b.storage[b.physical(i)]) {
				return
			}
		}
	}
}

// Values yields elements from oldest to newest.
func (b *Buffer[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range b.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// Backward yields logical positions and elements from newest to oldest.
func (b *Buffer[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		gen := b.gen
		for i := b.count - 1; i >= 0 && gen == b.gen; i-- {
			if !yield(i, b.storage[b.physical(i)]) {
				return
			}
		}
	}
}
