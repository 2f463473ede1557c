package term

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// References, functions and external identifiers
// ---------------------------------------------------------------------------

// MakeRef returns a new unique local reference. The payload is a random
// UUID split over two words.
func (a *Arena) MakeRef() Term {
	id := uuid.New()
	addr, w := a.Alloc(3)
	w[0] = makeHeader(subtagRef, 2)
	w[1] = Term(binary.BigEndian.Uint64(id[:8]))
	w[2] = Term(binary.BigEndian.Uint64(id[8:]))
	return boxedTerm(addr)
}

// RefUUID returns the identity of a local reference.
func (t Term) RefUUID() (uuid.UUID, bool) {
	var id uuid.UUID
	if !t.hasSubtag(subtagRef) {
		return id, false
	}
	w := t.box()
	binary.BigEndian.PutUint64(id[:8], uint64(w[1]))
	binary.BigEndian.PutUint64(id[8:], uint64(w[2]))
	return id, true
}

func (a *Arena) makeExternal(subtag uint64, node Term, id uint64) Term {
	if !node.IsAtom() {
		return Invalid
	}
	addr, w := a.Alloc(3)
	w[0] = makeHeader(subtag, 2)
	w[1] = node
	w[2] = Term(id)
	return boxedTerm(addr)
}

// MakeExternalRef returns a reference created on another node.
func (a *Arena) MakeExternalRef(node Term, id uint64) Term {
	return a.makeExternal(subtagExternalRef, node, id)
}

// MakeExternalPid returns a process id on another node.
func (a *Arena) MakeExternalPid(node Term, id uint64) Term {
	return a.makeExternal(subtagExternalPid, node, id)
}

// MakeExternalPort returns a port on another node.
func (a *Arena) MakeExternalPort(node Term, id uint64) Term {
	return a.makeExternal(subtagExternalPort, node, id)
}

// ExternalNode returns the node atom of an external reference, pid or port.
func (t Term) ExternalNode() (Term, bool) {
	s, ok := t.boxedSubtag()
	if !ok || (s != subtagExternalRef && s != subtagExternalPid && s != subtagExternalPort) {
		return Invalid, false
	}
	return t.box()[1], true
}

// ExternalID returns the node-local id of an external reference, pid or
// port.
func (t Term) ExternalID() (uint64, bool) {
	if _, ok := t.ExternalNode(); !ok {
		return 0, false
	}
	return uint64(t.box()[2]), true
}

// MakeFun returns an export: a named function of the given arity.
func (a *Arena) MakeFun(module, function Term, arity int) Term {
	if !module.IsAtom() || !function.IsAtom() || arity < 0 {
		return Invalid
	}
	addr, w := a.Alloc(4)
	w[0] = makeHeader(subtagExport, 3)
	w[1] = module
	w[2] = function
	w[3] = MakeSmall(int64(arity))
	return boxedTerm(addr)
}

// FunInfo returns the module, function and arity of an export.
func (t Term) FunInfo() (module, function Term, arity int, ok bool) {
	if !t.hasSubtag(subtagExport) {
		return Invalid, Invalid, 0, false
	}
	w := t.box()
	return w[1], w[2], int(w[3].MustSmallInt()), true
}
