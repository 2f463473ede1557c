package term

import (
	"slices"
	"unsafe"
)

// ---------------------------------------------------------------------------
// Binaries
// ---------------------------------------------------------------------------

// Three layouts share the binary type:
//   - heap: header, byte size, bytes packed into the following words
//   - refc: header, byte size, id of a reference-counted buffer
//   - sub:  header, byte size, offset, the heap or refc binary it views
//
// Sub binaries always point at a heap or refc binary; a view of a view is
// flattened when it is made.

const wordBytes = 8

func wordsFor(size int) int { return (size + wordBytes - 1) / wordBytes }

// packed returns the bytes stored in words. The slice aliases the words.
func packed(words []Term, size int) []byte {
	if size == 0 {
		return []byte{}
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), size)
}

// binaryBytes resolves any binary to its bytes. The slice aliases the
// backing storage and must not be modified.
func (t Term) binaryBytes() ([]byte, bool) {
	if !t.IsBoxed() {
		return nil, false
	}
	w := t.box()
	switch w[0].subtag() {
	case subtagHeapBinary:
		return packed(w[2:], int(w[1])), true
	case subtagRefcBinary:
		return buffers.lookup(uint32(w[2])).data[:int(w[1])], true
	case subtagSubBinary:
		orig, ok := w[3].binaryBytes()
		if !ok {
			return nil, false
		}
		offset, size := int(w[2]), int(w[1])
		return orig[offset : offset+size], true
	}
	return nil, false
}

// BinaryBytes returns the bytes of a binary, resolving sub binaries. The
// slice aliases the backing storage and must not be modified.
func (t Term) BinaryBytes() ([]byte, bool) { return t.binaryBytes() }

// ByteSize returns the byte length of a binary.
func (t Term) ByteSize() (int, bool) {
	if !t.IsBinary() {
		return 0, false
	}
	return int(t.box()[1]), true
}

// RefcCount returns the reference count of a refc binary's buffer.
func (t Term) RefcCount() (int, bool) {
	if !t.hasSubtag(subtagRefcBinary) {
		return 0, false
	}
	return int(buffers.lookup(uint32(t.box()[2])).refs.Load()), true
}

func (a *Arena) makeHeapBinary(data []byte) Term {
	n := wordsFor(len(data))
	addr, w := a.Alloc(2 + n)
	w[0] = makeHeader(subtagHeapBinary, 1+n)
	w[1] = Term(len(data))
	if n > 0 {
		w[1+n] = 0
		copy(packed(w[2:], len(data)), data)
	}
	return boxedTerm(addr)
}

// makeRefcBinary wraps data in a new buffer without copying it.
func (a *Arena) makeRefcBinary(data []byte) Term {
	b := buffers.register(data)
	addr, w := a.Alloc(3)
	w[0] = makeHeader(subtagRefcBinary, 2)
	w[1] = Term(len(data))
	w[2] = Term(b.id)
	a.holdBuffer(b.id)
	return boxedTerm(addr)
}

// MakeBinaryFromBytes copies data into a new binary.
func (a *Arena) MakeBinaryFromBytes(data []byte) Term {
	if len(data) > a.refcThreshold {
		return a.makeRefcBinary(slices.Clone(data))
	}
	return a.makeHeapBinary(data)
}

// MakeNewBinary allocates a heap binary of size bytes and returns its
// storage for the caller to fill. The contents are unspecified until
// written, and the storage must not be written once the term is shared.
func (a *Arena) MakeNewBinary(size int) (Term, []byte) {
	if size < 0 {
		return Invalid, nil
	}
	n := wordsFor(size)
	addr, w := a.Alloc(2 + n)
	w[0] = makeHeader(subtagHeapBinary, 1+n)
	w[1] = Term(size)
	return boxedTerm(addr), packed(w[2:], size)
}

// MakeSubBinary returns a view of size bytes of bin starting at offset.
func (a *Arena) MakeSubBinary(bin Term, offset, size int) Term {
	total, ok := bin.ByteSize()
	if !ok || offset < 0 || size < 0 || offset+size > total {
		return Invalid
	}
	orig := bin
	if w := bin.box(); w[0].subtag() == subtagSubBinary {
		offset += int(w[2])
		orig = w[3]
	}
	addr, w := a.Alloc(4)
	w[0] = makeHeader(subtagSubBinary, 3)
	w[1] = Term(size)
	w[2] = Term(offset)
	w[3] = orig
	return boxedTerm(addr)
}

// ---------------------------------------------------------------------------
// Binary: a caller-owned byte buffer on its way to becoming a term
// ---------------------------------------------------------------------------

// Binary is either an owned, resizable buffer or a read-only view of a
// finished binary term.
type Binary struct {
	data []byte
	term Term
}

// AllocBinary returns an owned buffer of size bytes.
func AllocBinary(size int) *Binary {
	if size < 0 {
		return nil
	}
	return &Binary{data: make([]byte, size)}
}

// InspectBinary returns a view of the finished binary t.
func InspectBinary(t Term) (*Binary, bool) {
	data, ok := t.binaryBytes()
	if !ok {
		return nil, false
	}
	return &Binary{data: data, term: t}, true
}

// Bytes returns the contents. A view's bytes must not be modified.
func (b *Binary) Bytes() []byte { return b.data }

// Size returns the length in bytes.
func (b *Binary) Size() int { return len(b.data) }

// Owned reports whether b holds its own buffer rather than a view.
func (b *Binary) Owned() bool { return b.term == Invalid && b.data != nil }

// Realloc resizes b to size bytes. An owned buffer is grown or shrunk in
// place; a view is first copied into a new owned buffer. Growth is zero
// filled.
func (b *Binary) Realloc(size int) bool {
	if size < 0 {
		return false
	}
	if b.term != Invalid {
		data := make([]byte, size)
		copy(data, b.data)
		b.data = data
		b.term = Invalid
		return true
	}
	if size <= cap(b.data) {
		old := len(b.data)
		b.data = b.data[:size]
		if size > old {
			clear(b.data[old:])
		}
		return true
	}
	b.data = append(b.data, make([]byte, size-len(b.data))...)
	return true
}

// Release drops an owned buffer. It does nothing for a view.
func (b *Binary) Release() {
	if b.term != Invalid {
		return
	}
	b.data = nil
}

// MakeBinary turns b into a term. A view returns the term it views. An
// owned buffer larger than the arena's refc threshold becomes the storage
// of a refc binary; a smaller one is copied into a heap binary. Either
// way b no longer owns it.
func (a *Arena) MakeBinary(b *Binary) Term {
	if b.term != Invalid {
		return b.term
	}
	var t Term
	if len(b.data) > a.refcThreshold {
		t = a.makeRefcBinary(b.data)
	} else {
		t = a.makeHeapBinary(b.data)
	}
	b.data = nil
	return t
}
