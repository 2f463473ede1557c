package term

// ---------------------------------------------------------------------------
// Lists: two-word cons cells, no header
// ---------------------------------------------------------------------------

// MakeListCell returns a single cons cell.
func (a *Arena) MakeListCell(head, tail Term) Term {
	addr, w := a.Alloc(2)
	w[0] = head
	w[1] = tail
	return listTerm(addr)
}

// MakeList builds a proper list of elems.
func (a *Arena) MakeList(elems ...Term) Term {
	return a.MakeListFromSlice(elems, Nil)
}

// MakeListFromSlice builds a list of elems ending in tail. The cells are
// written front to back into one block, each tail pointing at the next
// cell, so no reversal pass is needed.
func (a *Arena) MakeListFromSlice(elems []Term, tail Term) Term {
	if len(elems) == 0 {
		return tail
	}
	addr, w := a.Alloc(2 * len(elems))
	for i, e := range elems {
		w[2*i] = e
		w[2*i+1] = listTerm(addr + uint64(2*i+2))
	}
	w[len(w)-1] = tail
	return listTerm(addr)
}

// MakeReverseListFromSlice builds a list of elems in reverse order ending
// in tail, in one pass over elems.
func (a *Arena) MakeReverseListFromSlice(elems []Term, tail Term) Term {
	if len(elems) == 0 {
		return tail
	}
	n := len(elems)
	addr, w := a.Alloc(2 * n)
	for i, e := range elems {
		j := n - 1 - i
		w[2*j] = e
		w[2*j+1] = listTerm(addr + uint64(2*j+2))
	}
	w[len(w)-1] = tail
	return listTerm(addr)
}

// MakeString builds a list of the bytes of s as small integers.
func (a *Arena) MakeString(s string) Term {
	if len(s) == 0 {
		return Nil
	}
	addr, w := a.Alloc(2 * len(s))
	for i := 0; i < len(s); i++ {
		w[2*i] = MakeSmall(int64(s[i]))
		w[2*i+1] = listTerm(addr + uint64(2*i+2))
	}
	w[len(w)-1] = Nil
	return listTerm(addr)
}

// ReverseList builds the elements of a proper list in reverse order,
// ending in tail. Returns Invalid if list is not a proper list.
func (a *Arena) ReverseList(list, tail Term) Term {
	n, ok := list.ListLength()
	if !ok {
		return Invalid
	}
	if n == 0 {
		return tail
	}
	addr, w := a.Alloc(2 * n)
	for i := n - 1; i >= 0; i-- {
		c := list.cell()
		w[2*i] = c[0]
		w[2*i+1] = listTerm(addr + uint64(2*i+2))
		list = c[1]
	}
	w[len(w)-1] = tail
	return listTerm(addr)
}

// ListCell returns the head and tail of a cons cell.
func (t Term) ListCell() (head, tail Term, ok bool) {
	if !t.IsList() {
		return Invalid, Invalid, false
	}
	c := t.cell()
	return c[0], c[1], true
}

// ListLength returns the length of a proper list. Nil has length 0.
func (t Term) ListLength() (int, bool) {
	n := 0
	for t.IsList() {
		n++
		t = t.cell()[1]
	}
	return n, t == Nil
}

// ListSlice returns the elements of a proper list.
func (t Term) ListSlice() ([]Term, bool) {
	n, ok := t.ListLength()
	if !ok {
		return nil, false
	}
	elems := make([]Term, 0, n)
	for t.IsList() {
		c := t.cell()
		elems = append(elems, c[0])
		t = c[1]
	}
	return elems, true
}

// ListString returns the bytes of a proper list of integers in 0..255.
func (t Term) ListString() (string, bool) {
	n, ok := t.ListLength()
	if !ok {
		return "", false
	}
	buf := make([]byte, 0, n)
	for t.IsList() {
		c := t.cell()
		v, ok := c[0].SmallInt()
		if !ok || v < 0 || v > 255 {
			return "", false
		}
		buf = append(buf, byte(v))
		t = c[1]
	}
	return string(buf), true
}
