package join

import (
	"iter"
	"runtime"
)

// Sequence is a lazy, single-pass, forward-only stream of values.
//
// Values are produced on demand, either pulled one at a time with Next or
// pushed with All. Once exhausted or stopped the sequence stays empty. A
// Sequence must not be consumed from more than one goroutine.
//
// Callers may simply stop consuming. Stop releases the pull cursor early; an
// abandoned cursor is released once the Sequence is garbage collected.
type Sequence[T any] struct {
	seq  iter.Seq[T]
	next func() (T, bool)
	stop func()
	done bool
}

func newSequence[T any](seq iter.Seq[T]) *Sequence[T] {
	return &Sequence[T]{seq: seq}
}

// Next returns the next value, or false once the sequence is exhausted.
func (s *Sequence[T]) Next() (T, bool) {
	var zero T
	if s.done {
		return zero, false
	}
	if s.next == nil {
		s.next, s.stop = iter.Pull(s.seq)
		// The cursor holds seq, never s.
		runtime.AddCleanup(s, func(stop func()) { stop() }, s.stop)
	}
	v, ok := s.next()
	if !ok {
		s.Stop()
		return zero, false
	}
	return v, true
}

// All yields the remaining values. Breaking out of the loop ends the sequence.
func (s *Sequence[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if s.done {
			return
		}
		if s.next == nil {
			// Nothing pulled yet: push directly, no coroutine needed.
			s.done = true
			s.seq(yield)
			return
		}
		for {
			v, ok := s.Next()
			if !ok {
				return
			}
			if !yield(v) {
				s.Stop()
				return
			}
		}
	}
}

// Stop ends the sequence and releases the pull cursor, if any. Stop is
// idempotent.
func (s *Sequence[T]) Stop() {
	s.done = true
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}
