package term

import "slices"

// ---------------------------------------------------------------------------
// Flatmaps: header, size, keys tuple, values
// ---------------------------------------------------------------------------

// Keys are held in strictly ascending exact order (see CompareExact), so
// 1 and 1.0 are distinct keys. Every operation returns a new map; the
// words of an existing map are never written.
//
// Lookups assume the keys tuple is sorted. Maps are only built by the
// constructors below, which keep that invariant.

func (a *Arena) makeMap(keys Term, values []Term) Term {
	addr, w := a.Alloc(3 + len(values))
	w[0] = makeHeader(subtagMap, 2+len(values))
	w[1] = Term(len(values))
	w[2] = keys
	copy(w[3:], values)
	return boxedTerm(addr)
}

// mapParts returns the keys tuple elements and the values of a map. Both
// slices alias arena storage.
func (t Term) mapParts() (keys, values []Term, ok bool) {
	if !t.IsBoxed() {
		return nil, nil, false
	}
	w := t.box()
	if w[0].subtag() != subtagMap {
		return nil, nil, false
	}
	keys, _ = w[2].Tuple()
	return keys, w[3:], true
}

// keyIndex binary searches keys for key. On a miss it returns the
// insertion position.
func keyIndex(keys []Term, key Term) (int, bool) {
	return slices.BinarySearchFunc(keys, key, CompareExact)
}

// MakeNewMap returns an empty map.
func (a *Arena) MakeNewMap() Term {
	return a.makeMap(a.MakeTuple(), nil)
}

// MakeMapFromSlices builds a map from parallel key and value slices. When a
// key occurs more than once the last value wins.
func (a *Arena) MakeMapFromSlices(keys, values []Term) (Term, bool) {
	if len(keys) != len(values) {
		return Invalid, false
	}
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int {
		return CompareExact(keys[i], keys[j])
	})

	ks := make([]Term, 0, len(keys))
	vs := make([]Term, 0, len(values))
	for n, i := range order {
		// Equal keys are adjacent and in input order; keep the last one.
		if n+1 < len(order) && CompareExact(keys[i], keys[order[n+1]]) == 0 {
			continue
		}
		ks = append(ks, keys[i])
		vs = append(vs, values[i])
	}
	return a.makeMap(a.MakeTupleFromSlice(ks), vs), true
}

// MapPut returns m with key bound to value, inserting the key if absent.
func (a *Arena) MapPut(m, key, value Term) (Term, bool) {
	keys, values, ok := m.mapParts()
	if !ok {
		return Invalid, false
	}
	i, found := keyIndex(keys, key)
	if found {
		return a.mapReplace(m, values, i, value), true
	}

	kt := a.TupleInsert(m.box()[2], i, key)
	nv := make([]Term, 0, len(values)+1)
	nv = append(nv, values[:i]...)
	nv = append(nv, value)
	nv = append(nv, values[i:]...)
	return a.makeMap(kt, nv), true
}

// MapUpdate returns m with the existing key rebound to value. Fails if key
// is absent.
func (a *Arena) MapUpdate(m, key, value Term) (Term, bool) {
	keys, values, ok := m.mapParts()
	if !ok {
		return Invalid, false
	}
	i, found := keyIndex(keys, key)
	if !found {
		return Invalid, false
	}
	return a.mapReplace(m, values, i, value), true
}

// mapReplace shares the keys tuple and copies the values with slot i
// replaced.
func (a *Arena) mapReplace(m Term, values []Term, i int, value Term) Term {
	kt := m.box()[2]
	nv := slices.Clone(values)
	nv[i] = value
	return a.makeMap(kt, nv)
}

// MapRemove returns m without key. Removing an absent key returns m.
func (a *Arena) MapRemove(m, key Term) (Term, bool) {
	keys, values, ok := m.mapParts()
	if !ok {
		return Invalid, false
	}
	i, found := keyIndex(keys, key)
	if !found {
		return m, true
	}
	kt := a.TupleDelete(m.box()[2], i)
	nv := slices.Concat(values[:i], values[i+1:])
	return a.makeMap(kt, nv), true
}

// MapGet returns the value bound to key.
func (t Term) MapGet(key Term) (Term, bool) {
	keys, values, ok := t.mapParts()
	if !ok {
		return Invalid, false
	}
	i, found := keyIndex(keys, key)
	if !found {
		return Invalid, false
	}
	return values[i], true
}

// MapSize returns the number of entries of a map.
func (t Term) MapSize() (int, bool) {
	_, values, ok := t.mapParts()
	return len(values), ok
}

// MapKeys returns the keys of a map in ascending order. The slice aliases
// arena storage and must not be modified.
func (t Term) MapKeys() ([]Term, bool) {
	keys, _, ok := t.mapParts()
	return keys, ok
}

// MapValues returns the values of a map in key order. The slice aliases
// arena storage and must not be modified.
func (t Term) MapValues() ([]Term, bool) {
	_, values, ok := t.mapParts()
	return values, ok
}

// ---------------------------------------------------------------------------
// MapIterator
// ---------------------------------------------------------------------------

// IteratorStart selects where a MapIterator begins.
type IteratorStart int

const (
	IterFirst IteratorStart = iota
	IterLast
)

// MapIterator walks a map's entries in key order. Positions run from 1 to
// the map size; position 0 is the head sentinel and size+1 the tail
// sentinel. Stepping past a sentinel stays on it.
type MapIterator struct {
	keys   []Term
	values []Term
	pos    int
}

// NewMapIterator positions an iterator on the first or last entry. For an
// empty map that is the tail or head sentinel respectively.
func NewMapIterator(m Term, start IteratorStart) (*MapIterator, bool) {
	keys, values, ok := m.mapParts()
	if !ok {
		return nil, false
	}
	it := &MapIterator{keys: keys, values: values, pos: 1}
	if start == IterLast {
		it.pos = len(values)
	}
	return it, true
}

// Next steps forward and reports whether the iterator is on an entry.
func (it *MapIterator) Next() bool {
	if it.pos <= len(it.values) {
		it.pos++
	}
	return it.Valid()
}

// Prev steps backward and reports whether the iterator is on an entry.
func (it *MapIterator) Prev() bool {
	if it.pos > 0 {
		it.pos--
	}
	return it.Valid()
}

// Valid reports whether the iterator is on an entry.
func (it *MapIterator) Valid() bool {
	return it.pos >= 1 && it.pos <= len(it.values)
}

// AtHead reports whether the iterator is before the first entry.
func (it *MapIterator) AtHead() bool { return it.pos == 0 }

// AtTail reports whether the iterator is after the last entry.
func (it *MapIterator) AtTail() bool { return it.pos == len(it.values)+1 }

// Pair returns the entry at the current position.
func (it *MapIterator) Pair() (key, value Term, ok bool) {
	if !it.Valid() {
		return Invalid, Invalid, false
	}
	return it.keys[it.pos-1], it.values[it.pos-1], true
}
