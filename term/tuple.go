package term

// ---------------------------------------------------------------------------
// Tuples: header + elements
// ---------------------------------------------------------------------------

// MakeTuple builds a tuple of elems in one allocation.
func (a *Arena) MakeTuple(elems ...Term) Term {
	return a.MakeTupleFromSlice(elems)
}

// MakeTupleFromSlice builds a tuple holding a copy of elems.
func (a *Arena) MakeTupleFromSlice(elems []Term) Term {
	addr, w := a.Alloc(1 + len(elems))
	w[0] = makeHeader(subtagTuple, len(elems))
	copy(w[1:], elems)
	return boxedTerm(addr)
}

// TupleInsert returns a new tuple with v inserted before position i
// (0-based). i may equal the arity to append.
func (a *Arena) TupleInsert(t Term, i int, v Term) Term {
	elems, ok := t.Tuple()
	if !ok || i < 0 || i > len(elems) {
		return Invalid
	}
	addr, w := a.Alloc(2 + len(elems))
	w[0] = makeHeader(subtagTuple, len(elems)+1)
	copy(w[1:], elems[:i])
	w[1+i] = v
	copy(w[2+i:], elems[i:])
	return boxedTerm(addr)
}

// TupleDelete returns a new tuple without the element at position i
// (0-based).
func (a *Arena) TupleDelete(t Term, i int) Term {
	elems, ok := t.Tuple()
	if !ok || i < 0 || i >= len(elems) {
		return Invalid
	}
	addr, w := a.Alloc(len(elems))
	w[0] = makeHeader(subtagTuple, len(elems)-1)
	copy(w[1:], elems[:i])
	copy(w[1+i:], elems[i+1:])
	return boxedTerm(addr)
}

// Tuple returns the elements of a tuple. The slice aliases arena storage
// and must not be modified.
func (t Term) Tuple() ([]Term, bool) {
	if !t.IsBoxed() {
		return nil, false
	}
	w := t.box()
	if w[0].subtag() != subtagTuple {
		return nil, false
	}
	return w[1:], true
}

// TupleArity returns the number of elements of a tuple.
func (t Term) TupleArity() (int, bool) {
	elems, ok := t.Tuple()
	return len(elems), ok
}

// TupleElement returns element i (0-based) of a tuple.
func (t Term) TupleElement(i int) (Term, bool) {
	elems, ok := t.Tuple()
	if !ok || i < 0 || i >= len(elems) {
		return Invalid, false
	}
	return elems[i], true
}

// EachElement calls fn for every element of a tuple or proper list, in
// order, until fn returns false. Returns false if t is neither or the list
// is improper.
func EachElement(t Term, fn func(Term) bool) bool {
	if elems, ok := t.Tuple(); ok {
		for _, e := range elems {
			if !fn(e) {
				break
			}
		}
		return true
	}
	if _, ok := t.ListLength(); !ok {
		return false
	}
	for t.IsList() {
		c := t.cell()
		if !fn(c[0]) {
			break
		}
		t = c[1]
	}
	return true
}
