package term

import "fmt"

// ---------------------------------------------------------------------------
// Copying values between arenas
// ---------------------------------------------------------------------------

// Three strategies build an equal value in the destination arena:
//
//   - Copy allocates every node separately.
//   - FlatCopy measures the value first, allocates one block and fills it by
//     scanning the block itself as the work queue.
//   - StructCopy is FlatCopy that copies each shared node once, so sharing
//     and cycles survive. The source is never written.
//
// Refc binaries share their buffer and take a reference on it. Functions,
// external identifiers and match states cannot be copied; the copy fails
// with ErrUnsupportedKind and the destination is rewound.

// childStart returns the index of the first term word in a boxed block.
// Leaves return the block length.
func childStart(hdr Term) (int, error) {
	switch hdr.subtag() {
	case subtagTuple:
		return 1, nil
	case subtagMap:
		return 2, nil
	case subtagSubBinary:
		return 3, nil
	case subtagPosBig, subtagNegBig, subtagFloat, subtagRef,
		subtagHeapBinary, subtagRefcBinary:
		return 1 + hdr.arity(), nil
	}
	return 0, fmt.Errorf("copy of %s: %w", subtagName(hdr.subtag()), ErrUnsupportedKind)
}

func subtagName(subtag uint64) string {
	switch subtag {
	case subtagMatchState:
		return "match state"
	case subtagFun, subtagExport:
		return "function"
	case subtagExternalPid:
		return "external pid"
	case subtagExternalPort:
		return "external port"
	case subtagExternalRef:
		return "external reference"
	}
	return typeOfSubtag(subtag).String()
}

// FlatSize returns the number of words a copy of t needs. Shared nodes are
// counted every time they are reached.
func FlatSize(t Term) (int, error) {
	return measure(t, nil)
}

// StructSize returns the number of words a structure-preserving copy of t
// needs. Shared nodes are counted once.
func StructSize(t Term) (int, error) {
	return measure(t, make(map[uint64]struct{}))
}

func measure(t Term, seen map[uint64]struct{}) (int, error) {
	size := 0
	stack := []Term{t}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !t.IsList() && !t.IsBoxed() {
			continue
		}
		if seen != nil {
			if _, ok := seen[t.address()]; ok {
				continue
			}
			seen[t.address()] = struct{}{}
		}

		if t.IsList() {
			c := t.cell()
			size += 2
			stack = append(stack, c[1], c[0])
			continue
		}
		w := t.box()
		first, err := childStart(w[0])
		if err != nil {
			return 0, err
		}
		size += len(w)
		for i := len(w) - 1; i >= first; i-- {
			stack = append(stack, w[i])
		}
	}
	return size, nil
}

// retainBinary takes a reference on a copied refc binary for the newest
// fragment.
func (a *Arena) retainBinary(w []Term) {
	if w[0].subtag() != subtagRefcBinary {
		return
	}
	id := uint32(w[2])
	buffers.retain(id)
	a.holdBuffer(id)
}

// Copy builds t in a with one allocation per node.
func (a *Arena) Copy(t Term) (Term, error) {
	if t.isHeader() {
		return Invalid, ErrBadArg
	}
	if !t.IsList() && !t.IsBoxed() {
		return t, nil
	}

	type slot struct {
		dst *Term
		src Term
	}
	m := a.Mark()
	var root Term
	stack := []slot{{&root, t}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case s.src.IsList():
			c := s.src.cell()
			addr, w := a.Alloc(2)
			*s.dst = listTerm(addr)
			stack = append(stack, slot{&w[1], c[1]}, slot{&w[0], c[0]})

		case s.src.IsBoxed():
			sw := s.src.box()
			first, err := childStart(sw[0])
			if err != nil {
				a.Rewind(m)
				return Invalid, err
			}
			addr, w := a.Alloc(len(sw))
			copy(w, sw)
			a.retainBinary(w)
			*s.dst = boxedTerm(addr)
			for i := len(w) - 1; i >= first; i-- {
				stack = append(stack, slot{&w[i], sw[i]})
			}

		default:
			*s.dst = s.src
		}
	}
	return root, nil
}

// FlatCopy builds t in a single block of FlatSize(t) words.
func (a *Arena) FlatCopy(t Term) (Term, error) {
	n, err := FlatSize(t)
	if err != nil {
		return Invalid, err
	}
	return a.copyBlock(t, n, nil)
}

// StructCopy builds t in a single block of StructSize(t) words, copying
// each node once no matter how many times it is referenced.
func (a *Arena) StructCopy(t Term) (Term, error) {
	n, err := StructSize(t)
	if err != nil {
		return Invalid, err
	}
	return a.copyBlock(t, n, make(map[uint64]Term))
}

// copyBlock copies the root node into a block of n words, then scans the
// block front to back. Header words are skipped along with their non-term
// payload; every pointer found still points into the source, so its node
// is appended to the block and the pointer rewritten. When forward is not
// nil it maps source addresses to their copies.
func (a *Arena) copyBlock(t Term, n int, forward map[uint64]Term) (Term, error) {
	if t.isHeader() {
		return Invalid, ErrBadArg
	}
	if n == 0 {
		return t, nil
	}

	base, blk := a.Alloc(n)
	hp := 0
	place := func(src Term) Term {
		if forward != nil {
			if dst, ok := forward[src.address()]; ok {
				return dst
			}
		}
		var w []Term
		var dst Term
		if src.IsList() {
			w = src.cell()
			dst = listTerm(base + uint64(hp))
		} else {
			w = src.box()
			dst = boxedTerm(base + uint64(hp))
		}
		copy(blk[hp:], w)
		hp += len(w)
		if forward != nil {
			forward[src.address()] = dst
		}
		return dst
	}

	root := place(t)
	for i := 0; i < hp; {
		w := blk[i]
		if w.isHeader() {
			switch w.subtag() {
			case subtagTuple:
				i++
			case subtagMap:
				i += 2
			case subtagSubBinary:
				i += 3
			default:
				a.retainBinary(blk[i:])
				i += 1 + w.arity()
			}
			continue
		}
		if w.IsList() || w.IsBoxed() {
			blk[i] = place(w)
		}
		i++
	}
	return root, nil
}
