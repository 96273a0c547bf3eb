package join

import "iter"

// scan is the two-pass iteration engine.
//
// Pass one walks left and looks each key up on the right. Pass two walks right
// and skips keys the left already owns, so every key in the union is
// classified exactly once. Nothing runs until the returned sequence is pulled.
func scan[K comparable, L, R, U any](
	left Mapping[K, L],
	right Mapping[K, R],
	pred Predicate[K, L, R],
	resolve Resolver[K, L, R, U],
) iter.Seq[U] {
	return func(yield func(U) bool) {
		for k, lv := range left.All() {
			var rp *R
			if rv, ok := right.Lookup(k); ok {
				rp = &rv
			}
			if !pred(&lv, rp, k) {
				continue
			}
			if !yield(resolve(&lv, rp, k)) {
				return
			}
		}

		for k, rv := range right.All() {
			if _, ok := left.Lookup(k); ok {
				continue
			}
			if !pred(nil, &rv, k) {
				continue
			}
			if !yield(resolve(nil, &rv, k)) {
				return
			}
		}
	}
}
