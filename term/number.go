package term

import (
	"math"
	"unsafe"
)

// ---------------------------------------------------------------------------
// Integers
// ---------------------------------------------------------------------------

// MakeInt64 returns n as an immediate if it fits, otherwise as a
// one-digit bignum.
func (a *Arena) MakeInt64(n int64) Term {
	if t := MakeSmall(n); t != Invalid {
		return t
	}
	if n < 0 {
		return a.makeBig(true, []uint64{uint64(-n)})
	}
	return a.makeBig(false, []uint64{uint64(n)})
}

// MakeUint64 returns n as an immediate if it fits, otherwise as a
// one-digit bignum.
func (a *Arena) MakeUint64(n uint64) Term {
	if n <= uint64(MaxSmall) {
		return MakeSmall(int64(n))
	}
	return a.makeBig(false, []uint64{n})
}

// MakeInt is MakeInt64 for int.
func (a *Arena) MakeInt(n int) Term { return a.MakeInt64(int64(n)) }

// MakeUint is MakeUint64 for uint.
func (a *Arena) MakeUint(n uint) Term { return a.MakeUint64(uint64(n)) }

// makeBig boxes a normalized magnitude. The caller guarantees the value
// does not fit in an immediate.
func (a *Arena) makeBig(neg bool, digits []uint64) Term {
	subtag := subtagPosBig
	if neg {
		subtag = subtagNegBig
	}
	addr, w := a.Alloc(1 + len(digits))
	w[0] = makeHeader(subtag, len(digits))
	for i, d := range digits {
		w[1+i] = Term(d)
	}
	return boxedTerm(addr)
}

// bigDigits returns the sign and magnitude of a boxed integer. The slice
// aliases arena storage and must not be modified.
func (t Term) bigDigits() (neg bool, digits []uint64, ok bool) {
	if !t.IsBoxed() {
		return false, nil, false
	}
	w := t.box()
	switch w[0].subtag() {
	case subtagPosBig:
	case subtagNegBig:
		neg = true
	default:
		return false, nil, false
	}
	n := w[0].arity()
	return neg, unsafe.Slice((*uint64)(unsafe.Pointer(&w[1])), n), true
}

// Int64 returns the value of an integer that fits in int64.
func (t Term) Int64() (int64, bool) {
	if n, ok := t.SmallInt(); ok {
		return n, true
	}
	neg, d, ok := t.bigDigits()
	if !ok || len(d) != 1 {
		return 0, false
	}
	if neg {
		if d[0] > 1<<63 {
			return 0, false
		}
		return -int64(d[0]), true
	}
	if d[0] > math.MaxInt64 {
		return 0, false
	}
	return int64(d[0]), true
}

// Uint64 returns the value of a non-negative integer that fits in uint64.
func (t Term) Uint64() (uint64, bool) {
	if n, ok := t.SmallInt(); ok {
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	}
	neg, d, ok := t.bigDigits()
	if !ok || neg || len(d) != 1 {
		return 0, false
	}
	return d[0], true
}

// Int returns the value of an integer that fits in int.
func (t Term) Int() (int, bool) {
	n, ok := t.Int64()
	if !ok || n < math.MinInt || n > math.MaxInt {
		return 0, false
	}
	return int(n), true
}

// Uint returns the value of a non-negative integer that fits in uint.
func (t Term) Uint() (uint, bool) {
	n, ok := t.Uint64()
	if !ok || n > math.MaxUint {
		return 0, false
	}
	return uint(n), true
}

// Int32 returns the value of an integer that fits in int32.
func (t Term) Int32() (int32, bool) {
	n, ok := t.Int64()
	if !ok || n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return int32(n), true
}

// Uint32 returns the value of an integer that fits in uint32.
func (t Term) Uint32() (uint32, bool) {
	n, ok := t.Uint64()
	if !ok || n > math.MaxUint32 {
		return 0, false
	}
	return uint32(n), true
}

// ---------------------------------------------------------------------------
// Floats
// ---------------------------------------------------------------------------

// MakeFloat boxes f in two words: header and IEEE 754 bits.
func (a *Arena) MakeFloat(f float64) Term {
	addr, w := a.Alloc(2)
	w[0] = makeHeader(subtagFloat, 1)
	w[1] = Term(math.Float64bits(f))
	return boxedTerm(addr)
}

// Float64 returns the value of a float. Integers are not converted.
func (t Term) Float64() (float64, bool) {
	if !t.IsBoxed() {
		return 0, false
	}
	w := t.box()
	if w[0].subtag() != subtagFloat {
		return 0, false
	}
	return math.Float64frombits(uint64(w[1])), true
}
