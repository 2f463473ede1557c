package term

import (
	"bytes"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/chazu/termheap/term/lhash"
)

// ---------------------------------------------------------------------------
// SymbolTable: Interned atoms
// ---------------------------------------------------------------------------

// MaxAtomLength is the longest atom name in bytes.
const MaxAtomLength = 255

// DefaultSymbolThreshold is the average chain length that splits a bucket.
const DefaultSymbolThreshold = 3

type atomEntry struct {
	index uint32
	name  []byte
}

// SymbolTable interns atom names. Atoms are immortal: an entry is never
// removed while the table lives, and two atoms from one table are equal
// exactly when their words are equal.
type SymbolTable struct {
	id      uint32
	mu      sync.RWMutex
	entries *lhash.Table[*atomEntry]
	byIndex []*atomEntry
}

// NewSymbolTable creates an empty table. threshold is the average chain
// length that triggers a bucket split; zero selects the default.
func NewSymbolTable(threshold int) *SymbolTable {
	if threshold <= 0 {
		threshold = DefaultSymbolThreshold
	}
	st := &SymbolTable{
		entries: lhash.New[*atomEntry](threshold),
		byIndex: make([]*atomEntry, 0, 256),
	}
	symbols.register(st)
	return st
}

var (
	defaultSymbols     *SymbolTable
	defaultSymbolsOnce sync.Once
)

// DefaultSymbols returns the process-wide table, creating it on first use.
func DefaultSymbols() *SymbolTable {
	defaultSymbolsOnce.Do(func() {
		defaultSymbols = NewSymbolTable(DefaultSymbolThreshold)
	})
	return defaultSymbols
}

func hashName(name []byte) uint32 { return uint32(xxh3.Hash(name)) }

func matchName(name []byte) func(*atomEntry) bool {
	return func(e *atomEntry) bool { return bytes.Equal(e.name, name) }
}

func (st *SymbolTable) atom(e *atomEntry) Term {
	payload := uint64(st.id)<<32 | uint64(e.index)
	return Term(payload<<immed2Size | immed2Atom)
}

// Intern returns the atom named name, creating it if needed. Returns
// Invalid if name is longer than MaxAtomLength.
func (st *SymbolTable) Intern(name []byte) Term {
	if len(name) > MaxAtomLength {
		return Invalid
	}
	h := hashName(name)

	// Fast path: read-only lookup
	st.mu.RLock()
	e, ok := st.entries.Get(h, matchName(name))
	st.mu.RUnlock()
	if ok {
		return st.atom(e)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	e, _ = st.entries.Put(h, matchName(name), func() *atomEntry {
		e := &atomEntry{index: uint32(len(st.byIndex)), name: bytes.Clone(name)}
		st.byIndex = append(st.byIndex, e)
		return e
	})
	return st.atom(e)
}

// InternString is Intern for a string name.
func (st *SymbolTable) InternString(name string) Term {
	return st.Intern([]byte(name))
}

// Lookup returns the atom named name if it has been interned.
func (st *SymbolTable) Lookup(name []byte) (Term, bool) {
	if len(name) > MaxAtomLength {
		return Invalid, false
	}
	st.mu.RLock()
	defer st.mu.RUnlock()
	e, ok := st.entries.Get(hashName(name), matchName(name))
	if !ok {
		return Invalid, false
	}
	return st.atom(e), true
}

// Len returns the number of interned atoms.
func (st *SymbolTable) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.byIndex)
}

// All returns all atoms in creation order.
func (st *SymbolTable) All() []Term {
	st.mu.RLock()
	defer st.mu.RUnlock()

	result := make([]Term, len(st.byIndex))
	for i, e := range st.byIndex {
		result[i] = st.atom(e)
	}
	return result
}

func (st *SymbolTable) entry(index uint32) *atomEntry {
	st.mu.RLock()
	defer st.mu.RUnlock()
	if int(index) >= len(st.byIndex) {
		return nil
	}
	return st.byIndex[index]
}

// atomBytes resolves an atom term to its name. The slice must not be
// modified.
func (t Term) atomBytes() ([]byte, bool) {
	if !t.IsAtom() {
		return nil, false
	}
	payload := uint64(t) >> immed2Size
	st := symbols.lookup(uint32(payload >> 32))
	if st == nil {
		return nil, false
	}
	e := st.entry(uint32(payload))
	if e == nil {
		return nil, false
	}
	return e.name, true
}

// ---------------------------------------------------------------------------
// Atom constructors and observers
// ---------------------------------------------------------------------------

// MakeAtom interns name in the arena's symbol table.
func (a *Arena) MakeAtom(name string) Term {
	return a.symbols.InternString(name)
}

// MakeAtomBytes interns name in the arena's symbol table.
func (a *Arena) MakeAtomBytes(name []byte) Term {
	return a.symbols.Intern(name)
}

// MakeExistingAtom returns the atom named name only if it is already
// interned.
func (a *Arena) MakeExistingAtom(name string) (Term, bool) {
	return a.symbols.Lookup([]byte(name))
}

// AtomName returns the name of an atom.
func (t Term) AtomName() (string, bool) {
	b, ok := t.atomBytes()
	if !ok {
		return "", false
	}
	return string(b), true
}

// AtomLength returns the byte length of an atom's name.
func (t Term) AtomLength() (int, bool) {
	b, ok := t.atomBytes()
	return len(b), ok
}
