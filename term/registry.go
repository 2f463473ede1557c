package term

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tliron/commonlog"
)

// ---------------------------------------------------------------------------
// Registries: process-wide id -> object maps
// ---------------------------------------------------------------------------

// Terms carry ids, not addresses, so every object a term can point at is
// reachable through one of these registries. Ids start at 1 and are never
// reused; a term that outlives its fragment fails loudly instead of
// aliasing newer storage.

type fragmentRegistry struct {
	mu     sync.RWMutex
	frags  map[uint32]*fragment
	nextID atomic.Uint32
}

type bufferRegistry struct {
	mu     sync.RWMutex
	bufs   map[uint32]*refcBuffer
	nextID atomic.Uint32
}

type symbolRegistry struct {
	mu     sync.RWMutex
	tables map[uint32]*SymbolTable
	nextID atomic.Uint32
}

var (
	fragments = &fragmentRegistry{frags: make(map[uint32]*fragment)}
	buffers   = &bufferRegistry{bufs: make(map[uint32]*refcBuffer)}
	symbols   = &symbolRegistry{tables: make(map[uint32]*SymbolTable)}

	registryLog = commonlog.GetLogger("termheap.registry")
)

// ---------------------------------------------------------------------------
// Fragments
// ---------------------------------------------------------------------------

func (r *fragmentRegistry) register(f *fragment) {
	f.id = r.nextID.Add(1)
	r.mu.Lock()
	r.frags[f.id] = f
	r.mu.Unlock()
}

func (r *fragmentRegistry) unregister(f *fragment) {
	r.mu.Lock()
	delete(r.frags, f.id)
	r.mu.Unlock()
}

func (r *fragmentRegistry) lookup(id uint32) *fragment {
	r.mu.RLock()
	f := r.frags[id]
	r.mu.RUnlock()
	return f
}

// Len returns the number of live fragments.
func (r *fragmentRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.frags)
}

// deref returns the words of a fragment starting at the given address.
func deref(addr uint64) []Term {
	f := fragments.lookup(uint32(addr >> 32))
	if f == nil {
		panic(fmt.Sprintf("term: dangling reference into fragment %d", addr>>32))
	}
	return f.words[uint32(addr):]
}

// ---------------------------------------------------------------------------
// Reference-counted binary buffers
// ---------------------------------------------------------------------------

type refcBuffer struct {
	id   uint32
	data []byte
	refs atomic.Int64
}

func (r *bufferRegistry) register(data []byte) *refcBuffer {
	b := &refcBuffer{id: r.nextID.Add(1), data: data}
	b.refs.Store(1)
	r.mu.Lock()
	r.bufs[b.id] = b
	r.mu.Unlock()
	return b
}

func (r *bufferRegistry) lookup(id uint32) *refcBuffer {
	r.mu.RLock()
	b := r.bufs[id]
	r.mu.RUnlock()
	if b == nil {
		panic(fmt.Sprintf("term: dangling reference to binary buffer %d", id))
	}
	return b
}

func (r *bufferRegistry) retain(id uint32) {
	r.lookup(id).refs.Add(1)
}

// release drops one reference and frees the buffer when none remain.
func (r *bufferRegistry) release(id uint32) {
	b := r.lookup(id)
	if b.refs.Add(-1) > 0 {
		return
	}
	r.mu.Lock()
	delete(r.bufs, id)
	r.mu.Unlock()
	registryLog.Debugf("released binary buffer %d (%d bytes)", id, len(b.data))
	b.data = nil
}

// Len returns the number of live refc buffers.
func (r *bufferRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bufs)
}

// ---------------------------------------------------------------------------
// Symbol tables
// ---------------------------------------------------------------------------

func (r *symbolRegistry) register(st *SymbolTable) {
	st.id = r.nextID.Add(1)
	r.mu.Lock()
	r.tables[st.id] = st
	r.mu.Unlock()
}

func (r *symbolRegistry) lookup(id uint32) *SymbolTable {
	r.mu.RLock()
	st := r.tables[id]
	r.mu.RUnlock()
	return st
}

// ---------------------------------------------------------------------------
// Statistics
// ---------------------------------------------------------------------------

// LiveFragments returns the number of fragments held by all arenas.
func LiveFragments() int { return fragments.Len() }

// LiveBuffers returns the number of refc binary buffers still referenced.
func LiveBuffers() int { return buffers.Len() }
