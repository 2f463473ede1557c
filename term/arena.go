package term

import "github.com/tliron/commonlog"

// DefaultFragmentWords is the minimum size of a new fragment.
const DefaultFragmentWords = 1024

// DefaultRefcThreshold is the byte size above which MakeBinary produces a
// reference-counted binary instead of a heap binary.
const DefaultRefcThreshold = 64

// ---------------------------------------------------------------------------
// Arena: bump allocator over a chain of fragments
// ---------------------------------------------------------------------------

// fragment is a fixed-capacity block of words owned by one arena.
type fragment struct {
	id    uint32
	words []Term
	prev  *fragment
	refc  []uint32 // refc buffers referenced from this fragment
}

// Arena owns every composite value built in it. The cursor moves downward
// through the newest fragment; a request that does not fit opens a new
// fragment of max(fragmentWords, 2n) words.
//
// An Arena is not safe for concurrent use.
type Arena struct {
	frag *fragment
	top  int

	symbols       *SymbolTable
	fragmentWords int
	refcThreshold int
	log           commonlog.Logger
}

// Mark is a checkpoint for speculative allocation.
type Mark struct {
	frag *fragment
	top  int
	refc int
}

// Option configures an Arena.
type Option func(*Arena)

// WithSymbolTable makes the arena intern atoms in st.
func WithSymbolTable(st *SymbolTable) Option {
	return func(a *Arena) { a.symbols = st }
}

// WithFragmentWords sets the minimum fragment size.
func WithFragmentWords(n int) Option {
	return func(a *Arena) {
		if n > 0 {
			a.fragmentWords = n
		}
	}
}

// WithRefcThreshold sets the byte size above which binaries are stored in
// reference-counted buffers.
func WithRefcThreshold(n int) Option {
	return func(a *Arena) {
		if n >= 0 {
			a.refcThreshold = n
		}
	}
}

// NewArena creates an empty arena.
func NewArena(opts ...Option) *Arena {
	a := &Arena{
		fragmentWords: DefaultFragmentWords,
		refcThreshold: DefaultRefcThreshold,
		log:           commonlog.GetLogger("termheap.arena"),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.symbols == nil {
		a.symbols = DefaultSymbols()
	}
	return a
}

// Symbols returns the table atoms are interned in.
func (a *Arena) Symbols() *SymbolTable { return a.symbols }

// Alloc reserves n contiguous words and returns their address and storage.
// The storage is zeroed only when the fragment is new.
func (a *Arena) Alloc(n int) (uint64, []Term) {
	if n <= 0 {
		panic("term: Alloc of non-positive size")
	}
	if a.frag == nil || a.top < n {
		a.grow(n)
	}
	a.top -= n
	addr := uint64(a.frag.id)<<32 | uint64(a.top)
	return addr, a.frag.words[a.top : a.top+n : a.top+n]
}

func (a *Arena) grow(n int) {
	size := max(a.fragmentWords, 2*n)
	f := &fragment{words: make([]Term, size), prev: a.frag}
	fragments.register(f)
	a.log.Debugf("new fragment %d: %d words", f.id, size)
	a.frag = f
	a.top = size
}

// holdBuffer records that the newest fragment references a refc buffer.
func (a *Arena) holdBuffer(id uint32) {
	a.frag.refc = append(a.frag.refc, id)
}

func (a *Arena) free(f *fragment) {
	for _, id := range f.refc {
		buffers.release(id)
	}
	f.refc = nil
	fragments.unregister(f)
}

// Mark returns a checkpoint of the current allocation state.
func (a *Arena) Mark() Mark {
	m := Mark{frag: a.frag, top: a.top}
	if a.frag != nil {
		m.refc = len(a.frag.refc)
	}
	return m
}

// Rewind frees everything allocated since m was taken. Values built after
// the mark become invalid.
func (a *Arena) Rewind(m Mark) {
	for a.frag != nil && a.frag != m.frag {
		f := a.frag
		a.frag = f.prev
		a.free(f)
	}
	if a.frag != nil {
		for _, id := range a.frag.refc[m.refc:] {
			buffers.release(id)
		}
		a.frag.refc = a.frag.refc[:m.refc]
	}
	a.top = m.top
}

// Commit makes everything allocated since m permanent. The mark itself
// carries no resources, so there is nothing to release.
func (a *Arena) Commit(m Mark) {}

// Clear releases all fragments. The arena stays usable.
func (a *Arena) Clear() {
	for a.frag != nil {
		f := a.frag
		a.frag = f.prev
		a.free(f)
	}
	a.top = 0
}

// Destroy releases all fragments. The arena must not be used afterwards.
func (a *Arena) Destroy() {
	a.Clear()
	a.symbols = nil
}

// Available returns the number of words left in the current fragment.
func (a *Arena) Available() int { return a.top }

// Top returns the cursor offset inside the current fragment.
func (a *Arena) Top() int { return a.top }

// Fragments returns the number of fragments the arena holds.
func (a *Arena) Fragments() int {
	n := 0
	for f := a.frag; f != nil; f = f.prev {
		n++
	}
	return n
}

// Words returns the total capacity of all fragments.
func (a *Arena) Words() int {
	n := 0
	for f := a.frag; f != nil; f = f.prev {
		n += len(f.words)
	}
	return n
}
