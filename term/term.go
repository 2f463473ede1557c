package term

import "fmt"

// Term is a single tagged machine word.
//
// The two low bits are the primary tag:
//   - 00 header: only valid as the first word of a boxed block
//   - 01 list: pointer to a two-word cons cell
//   - 10 boxed: pointer to a block starting with a header word
//   - 11 immediate: the payload is stored in the word itself
//
// Immediates use two more bits (pid, port, immediate-2, small integer) and
// immediate-2 uses two more again (atom, nil).
//
// Pointers are not machine addresses. A pointer payload is
// fragmentID<<32 | wordOffset, resolved through the fragment registry, so a
// term stays valid exactly as long as the fragment it lives in.
type Term uint64

// Primary tags
const (
	primaryMask   uint64 = 0x3
	primaryHeader uint64 = 0x0
	primaryList   uint64 = 0x1
	primaryBoxed  uint64 = 0x2
	primaryImmed1 uint64 = 0x3
)

// Immediate-1 tags (4 bits)
const (
	immed1Size   = 4
	immed1Mask   uint64 = 0xF
	immed1Pid    uint64 = (0x0 << 2) | primaryImmed1
	immed1Port   uint64 = (0x1 << 2) | primaryImmed1
	immed1Immed2 uint64 = (0x2 << 2) | primaryImmed1
	immed1Small  uint64 = (0x3 << 2) | primaryImmed1
)

// Immediate-2 tags (6 bits)
const (
	immed2Size  = 6
	immed2Mask  uint64 = 0x3F
	immed2Atom  uint64 = (0x0 << immed1Size) | immed1Immed2
	immed2Catch uint64 = (0x1 << immed1Size) | immed1Immed2
	immed2Nil   uint64 = (0x3 << immed1Size) | immed1Immed2
)

// Header subtags. The subtag occupies bits 2..5 of a header word, the
// arity (number of words following the header) occupies the rest.
const (
	headerSubtagMask   uint64 = 0x3F
	headerArityShift          = 6
	subtagTuple        uint64 = 0x0 << 2
	subtagMatchState   uint64 = 0x1 << 2
	subtagPosBig       uint64 = 0x2 << 2
	subtagNegBig       uint64 = 0x3 << 2
	subtagRef          uint64 = 0x4 << 2
	subtagFun          uint64 = 0x5 << 2
	subtagFloat        uint64 = 0x6 << 2
	subtagExport       uint64 = 0x7 << 2
	subtagRefcBinary   uint64 = 0x8 << 2
	subtagHeapBinary   uint64 = 0x9 << 2
	subtagSubBinary    uint64 = 0xA << 2
	subtagUnused       uint64 = 0xB << 2
	subtagExternalPid  uint64 = 0xC << 2
	subtagExternalPort uint64 = 0xD << 2
	subtagExternalRef  uint64 = 0xE << 2
	subtagMap          uint64 = 0xF << 2
)

// Distinguished values
const (
	// Invalid is the failure signal returned by constructors. It has the
	// header tag and can never be a value.
	Invalid Term = 0

	// Nil is the empty list.
	Nil Term = Term(^uint64(0)&^immed2Mask | immed2Nil)
)

// Small integer range (60-bit signed)
const (
	smallBits          = 64 - immed1Size
	MaxSmall     int64 = 1<<(smallBits-1) - 1
	MinSmall     int64 = -(1 << (smallBits - 1))
	maxImmediate       = 1<<smallBits - 1
)

// ---------------------------------------------------------------------------
// Primary classification
// ---------------------------------------------------------------------------

func (t Term) primary() uint64 { return uint64(t) & primaryMask }

// IsImmediate returns true if t needs no storage.
func (t Term) IsImmediate() bool { return t.primary() == primaryImmed1 }

// IsBoxed returns true if t points at a header block.
func (t Term) IsBoxed() bool { return t.primary() == primaryBoxed }

// IsList returns true if t points at a cons cell. Nil is not a cell.
func (t Term) IsList() bool { return t.primary() == primaryList }

// IsNil returns true if t is the empty list.
func (t Term) IsNil() bool { return t == Nil }

// IsSmall returns true if t is an immediate integer.
func (t Term) IsSmall() bool { return uint64(t)&immed1Mask == immed1Small }

// IsAtom returns true if t is an interned atom.
func (t Term) IsAtom() bool { return uint64(t)&immed2Mask == immed2Atom }

// IsPid returns true if t is a local or external process id.
func (t Term) IsPid() bool { return TypeOf(t) == TypePid }

// IsPort returns true if t is a local or external port.
func (t Term) IsPort() bool { return TypeOf(t) == TypePort }

func (t Term) isHeader() bool { return t.primary() == primaryHeader }

// ---------------------------------------------------------------------------
// Pointers and headers
// ---------------------------------------------------------------------------

func (t Term) address() uint64 { return uint64(t) >> 2 }

func boxedTerm(addr uint64) Term { return Term(addr<<2 | primaryBoxed) }

func listTerm(addr uint64) Term { return Term(addr<<2 | primaryList) }

func makeHeader(subtag uint64, arity int) Term {
	return Term(uint64(arity)<<headerArityShift | subtag)
}

func (t Term) subtag() uint64 { return uint64(t) & headerSubtagMask }

func (t Term) arity() int { return int(uint64(t) >> headerArityShift) }

// box returns the words of a boxed value, header first.
func (t Term) box() []Term {
	w := deref(t.address())
	return w[:1+w[0].arity()]
}

// cell returns the head and tail words of a cons cell.
func (t Term) cell() []Term {
	return deref(t.address())[:2]
}

// header returns the header word of t, or Invalid if t is not boxed.
func (t Term) header() Term {
	if !t.IsBoxed() {
		return Invalid
	}
	return deref(t.address())[0]
}

func (t Term) boxedSubtag() (uint64, bool) {
	if !t.IsBoxed() {
		return 0, false
	}
	return t.header().subtag(), true
}

func (t Term) hasSubtag(subtag uint64) bool {
	s, ok := t.boxedSubtag()
	return ok && s == subtag
}

// ---------------------------------------------------------------------------
// Small integers
// ---------------------------------------------------------------------------

// MakeSmall returns the immediate integer n, or Invalid if n is outside
// [MinSmall, MaxSmall].
func MakeSmall(n int64) Term {
	if n < MinSmall || n > MaxSmall {
		return Invalid
	}
	return Term(uint64(n)<<immed1Size | immed1Small)
}

// SmallInt returns the integer payload of an immediate integer.
func (t Term) SmallInt() (int64, bool) {
	if !t.IsSmall() {
		return 0, false
	}
	return int64(t) >> immed1Size, true
}

// MustSmallInt returns the payload of an immediate integer.
// Panics if t is not a small integer.
func (t Term) MustSmallInt() int64 {
	n, ok := t.SmallInt()
	if !ok {
		panic("term: MustSmallInt on non-small term")
	}
	return n
}

// ---------------------------------------------------------------------------
// Pids and ports
// ---------------------------------------------------------------------------

// MakePid returns a local process id carrying n. n must fit in 60 bits.
func MakePid(n uint64) Term {
	if n > maxImmediate {
		return Invalid
	}
	return Term(n<<immed1Size | immed1Pid)
}

// MakePort returns a local port carrying n. n must fit in 60 bits.
func MakePort(n uint64) Term {
	if n > maxImmediate {
		return Invalid
	}
	return Term(n<<immed1Size | immed1Port)
}

// PidNumber returns the payload of a local process id.
func (t Term) PidNumber() (uint64, bool) {
	if uint64(t)&immed1Mask != immed1Pid {
		return 0, false
	}
	return uint64(t) >> immed1Size, true
}

// PortNumber returns the payload of a local port.
func (t Term) PortNumber() (uint64, bool) {
	if uint64(t)&immed1Mask != immed1Port {
		return 0, false
	}
	return uint64(t) >> immed1Size, true
}

// ---------------------------------------------------------------------------
// Debugging
// ---------------------------------------------------------------------------

// GoString renders the raw word and its type. Use an observer-based
// printer for value syntax.
func (t Term) GoString() string {
	return fmt.Sprintf("term.Term(%#016x /* %s */)", uint64(t), TypeOf(t))
}
