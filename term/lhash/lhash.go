// Package lhash implements a linear hash table.
//
// The table grows one bucket at a time: when the average chain length
// reaches the threshold, the bucket at the split pointer is divided
// between itself and a new bucket at the end of the table. Erasing items
// runs the mirror operation. No insert ever rehashes the whole table.
//
// Callers supply the hash value and an equality predicate on every call,
// which lets one table serve lookups keyed by something other than the
// stored value (for example a byte slice looking up an interned record).
package lhash

const (
	segmentBits = 8
	segmentSize = 1 << segmentBits
	segmentMask = segmentSize - 1
)

type bucket[V any] struct {
	hash  uint32
	value V
	next  *bucket[V]
}

// Table is a linear hash table of V. The zero value is not usable; call New.
type Table[V any] struct {
	threshold int
	szm       uint32 // size mask for the current round
	p         uint32 // split position
	active    int    // number of active slots
	items     int
	segments  [][]*bucket[V]
}

// New creates a table with one segment of slots. threshold is the average
// chain length that triggers a split; values below 1 are raised to 1.
func New[V any](threshold int) *Table[V] {
	if threshold < 1 {
		threshold = 1
	}
	return &Table[V]{
		threshold: threshold,
		szm:       segmentMask,
		active:    segmentSize,
		segments:  [][]*bucket[V]{make([]*bucket[V], segmentSize)},
	}
}

func (t *Table[V]) index(h uint32) uint32 {
	ix := h & t.szm
	if ix < t.p {
		ix = h & (t.szm<<1 | 1)
	}
	return ix
}

func (t *Table[V]) slot(ix uint32) **bucket[V] {
	return &t.segments[ix>>segmentBits][ix&segmentMask]
}

// Get returns the value with hash h for which match returns true.
func (t *Table[V]) Get(h uint32, match func(V) bool) (V, bool) {
	for b := *t.slot(t.index(h)); b != nil; b = b.next {
		if b.hash == h && match(b.value) {
			return b.value, true
		}
	}
	var zero V
	return zero, false
}

// Put returns the existing value matching h and match, or inserts the
// result of create. The boolean reports whether an insert happened.
func (t *Table[V]) Put(h uint32, match func(V) bool, create func() V) (V, bool) {
	head := t.slot(t.index(h))
	for b := *head; b != nil; b = b.next {
		if b.hash == h && match(b.value) {
			return b.value, false
		}
	}
	v := create()
	*head = &bucket[V]{hash: h, value: v, next: *head}
	t.items++
	if t.items/t.active >= t.threshold {
		t.grow()
	}
	return v, true
}

// Erase removes the value matching h and match.
func (t *Table[V]) Erase(h uint32, match func(V) bool) (V, bool) {
	for bp := t.slot(t.index(h)); *bp != nil; bp = &(*bp).next {
		b := *bp
		if b.hash == h && match(b.value) {
			*bp = b.next
			t.items--
			if t.items/t.active < t.threshold {
				t.shrink()
			}
			return b.value, true
		}
	}
	var zero V
	return zero, false
}

// Each calls fn for every value until fn returns false.
func (t *Table[V]) Each(fn func(V) bool) {
	for ix := 0; ix < t.active; ix++ {
		for b := *t.slot(uint32(ix)); b != nil; b = b.next {
			if !fn(b.value) {
				return
			}
		}
	}
}

// Len returns the number of items.
func (t *Table[V]) Len() int { return t.items }

// Slots returns the number of active slots.
func (t *Table[V]) Slots() int { return t.active }

func (t *Table[V]) grow() {
	if t.active&segmentMask == 0 && t.active>>segmentBits == len(t.segments) {
		t.segments = append(t.segments, make([]*bucket[V], segmentSize))
	}

	nszm := t.szm<<1 | 1
	from := t.slot(t.p)
	to := t.slot(t.p + t.szm + 1)

	bp := from
	for b := *bp; b != nil; b = *bp {
		if b.hash&nszm == t.p {
			bp = &b.next
			continue
		}
		*bp = b.next
		b.next = *to
		*to = b
	}

	t.active++
	if t.p == t.szm {
		t.p = 0
		t.szm = nszm
	} else {
		t.p++
	}
}

func (t *Table[V]) shrink() {
	if t.active == segmentSize {
		return
	}

	t.active--
	if t.p == 0 {
		t.szm >>= 1
		t.p = t.szm
	} else {
		t.p--
	}

	bp := t.slot(t.p)
	for *bp != nil {
		bp = &(*bp).next
	}
	last := t.slot(uint32(t.active))
	*bp = *last
	*last = nil

	if t.active&segmentMask == 0 {
		t.segments = t.segments[:t.active>>segmentBits]
	}
}
