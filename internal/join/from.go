package join

import "iter"

// CollisionPolicy decides what FromIterable does with a repeated key.
type CollisionPolicy string

const (
	// Strict fails with DUPLICATE_KEY on the second occurrence of a key.
	// Unrecognized policies behave as Strict.
	Strict CollisionPolicy = ""

	// Ignore keeps the first value seen for a key.
	Ignore CollisionPolicy = "ignore"

	// Override keeps the last value seen for a key, which also moves the key
	// to the position of that last write.
	Override CollisionPolicy = "override"
)

// FromIterable builds an insertion-ordered mapping from source, keying each
// element (with its zero-based position) through getKey.
func FromIterable[K comparable, T any](source iter.Seq[T], getKey func(item T, index int) K, policy CollisionPolicy) (*Ordered[K, T], error) {
	if source == nil {
		return nil, newTypeMismatch("source is nil")
	}
	if getKey == nil {
		return nil, newTypeMismatch("getKey is nil")
	}

	m := NewOrdered[K, T]()
	i := 0
	var dup *Error
	source(func(item T) bool {
		key := getKey(item, i)
		if _, exists := m.Lookup(key); exists {
			switch policy {
			case Ignore:
			case Override:
				m.Delete(key)
				m.Set(key, item)
			default:
				dup = newDuplicateKey(key, i)
				return false
			}
		} else {
			m.Set(key, item)
		}
		i++
		return true
	})
	if dup != nil {
		return nil, dup
	}
	return m, nil
}
