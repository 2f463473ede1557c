package term

import (
	"bytes"
	"cmp"
	"math"
	"math/big"
	"slices"
)

// ---------------------------------------------------------------------------
// Ordering
// ---------------------------------------------------------------------------

// Compare returns -1, 0 or 1 ordering a before, with or after b. Integers
// and floats compare by numeric value, so Compare(1, 1.0) == 0. Different
// types order by Type.Rank. Compare never fails.
func Compare(a, b Term) int { return compare(a, b, false) }

// CompareExact is Compare except that an integer never equals a float: of
// two numbers with the same value the integer sorts first. Map keys are
// ordered by CompareExact.
func CompareExact(a, b Term) int { return compare(a, b, true) }

// IsIdentical reports whether a and b are the same value under
// CompareExact.
func IsIdentical(a, b Term) bool { return CompareExact(a, b) == 0 }

// Equal reports whether a and b compare equal.
func Equal(a, b Term) bool { return Compare(a, b) == 0 }

type compareFrame struct {
	a, b  Term
	exact bool
	tail  bool // a and b are list tails
}

// compare walks both values with an explicit stack so nesting depth does
// not grow the goroutine stack.
func compare(a, b Term, exact bool) int {
	stack := []compareFrame{{a: a, b: b, exact: exact}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if f.a == f.b {
			continue
		}
		// A proper list ends before any improper tail.
		if f.tail {
			if f.a == Nil {
				return -1
			}
			if f.b == Nil {
				return 1
			}
		}

		ta, tb := TypeOf(f.a), TypeOf(f.b)
		if ta.IsNumber() && tb.IsNumber() {
			if r := compareNumbers(f.a, f.b, f.exact); r != 0 {
				return r
			}
			continue
		}
		if ra, rb := ta.Rank(), tb.Rank(); ra != rb {
			return cmp.Compare(ra, rb)
		}

		switch ta {
		case TypeAtom:
			na, _ := f.a.atomBytes()
			nb, _ := f.b.atomBytes()
			if r := bytes.Compare(na, nb); r != 0 {
				return r
			}

		case TypeBinary:
			ba, _ := f.a.binaryBytes()
			bb, _ := f.b.binaryBytes()
			if r := bytes.Compare(ba, bb); r != 0 {
				return r
			}

		case TypeTuple:
			ea, _ := f.a.Tuple()
			eb, _ := f.b.Tuple()
			if r := cmp.Compare(len(ea), len(eb)); r != 0 {
				return r
			}
			for i := len(ea) - 1; i >= 0; i-- {
				stack = append(stack, compareFrame{a: ea[i], b: eb[i], exact: f.exact})
			}

		case TypeList:
			ca, cb := f.a.cell(), f.b.cell()
			stack = append(stack,
				compareFrame{a: ca[1], b: cb[1], exact: f.exact, tail: true},
				compareFrame{a: ca[0], b: cb[0], exact: f.exact})

		case TypeMap:
			// Size, then keys in order, then values in key order.
			ka, va, _ := f.a.mapParts()
			kb, vb, _ := f.b.mapParts()
			if r := cmp.Compare(len(va), len(vb)); r != 0 {
				return r
			}
			for i := len(va) - 1; i >= 0; i-- {
				stack = append(stack, compareFrame{a: va[i], b: vb[i], exact: f.exact})
			}
			for i := len(ka) - 1; i >= 0; i-- {
				stack = append(stack, compareFrame{a: ka[i], b: kb[i], exact: true})
			}

		case TypeRef, TypeFun, TypePid, TypePort:
			if r := compareIdentities(f.a, f.b); r != 0 {
				return r
			}

		case TypeNil:
			// Only one nil.

		default:
			if r := cmp.Compare(uint64(f.a), uint64(f.b)); r != 0 {
				return r
			}
		}
	}
	return 0
}

// ---------------------------------------------------------------------------
// Numbers
// ---------------------------------------------------------------------------

func compareNumbers(a, b Term, exact bool) int {
	ia, ib := a.IsInteger(), b.IsInteger()
	switch {
	case ia && ib:
		return compareIntegers(a, b)
	case !ia && !ib:
		fa, _ := a.Float64()
		fb, _ := b.Float64()
		return compareFloats(fa, fb, exact)
	case ia:
		fb, _ := b.Float64()
		r := compareIntFloat(a, fb)
		if r == 0 && exact {
			return -1
		}
		return r
	default:
		fa, _ := a.Float64()
		r := -compareIntFloat(b, fa)
		if r == 0 && exact {
			return 1
		}
		return r
	}
}

// integerParts returns the sign and magnitude of an integer term.
func integerParts(t Term) (neg bool, mag []uint64) {
	if n, ok := t.SmallInt(); ok {
		if n < 0 {
			return true, []uint64{uint64(-n)}
		}
		return false, []uint64{uint64(n)}
	}
	neg, mag, _ = t.bigDigits()
	return neg, mag
}

func compareIntegers(a, b Term) int {
	if x, ok := a.SmallInt(); ok {
		if y, ok := b.SmallInt(); ok {
			return cmp.Compare(x, y)
		}
	}
	na, ma := integerParts(a)
	nb, mb := integerParts(b)
	if na != nb {
		if na {
			return -1
		}
		return 1
	}
	r := compareMagnitudes(trimDigits(ma), trimDigits(mb))
	if na {
		return -r
	}
	return r
}

func compareMagnitudes(x, y []uint64) int {
	if r := cmp.Compare(len(x), len(y)); r != 0 {
		return r
	}
	for i := len(x) - 1; i >= 0; i-- {
		if r := cmp.Compare(x[i], y[i]); r != 0 {
			return r
		}
	}
	return 0
}

// compareFloats orders NaN after every other float. In exact mode -0.0
// sorts before 0.0.
func compareFloats(x, y float64, exact bool) int {
	xn, yn := math.IsNaN(x), math.IsNaN(y)
	switch {
	case xn && yn:
		return cmp.Compare(math.Float64bits(x), math.Float64bits(y))
	case xn:
		return 1
	case yn:
		return -1
	}
	if r := cmp.Compare(x, y); r != 0 || !exact {
		return r
	}
	sx, sy := math.Signbit(x), math.Signbit(y)
	switch {
	case sx == sy:
		return 0
	case sx:
		return -1
	default:
		return 1
	}
}

// compareIntFloat compares an integer term with a float exactly.
func compareIntFloat(i Term, f float64) int {
	if math.IsNaN(f) {
		return -1
	}
	if n, ok := i.SmallInt(); ok && n >= -(1<<53) && n <= 1<<53 {
		return cmp.Compare(float64(n), f)
	}
	x := new(big.Float).SetInt(toBigInt(i))
	return x.Cmp(new(big.Float).SetFloat64(f))
}

// toBigInt converts an integer term to a math/big integer.
func toBigInt(t Term) *big.Int {
	neg, mag := integerParts(t)
	z := digitsToBigInt(mag)
	if neg {
		z.Neg(z)
	}
	return z
}

func digitsToBigInt(mag []uint64) *big.Int {
	z := new(big.Int)
	var d big.Int
	for i := len(mag) - 1; i >= 0; i-- {
		z.Lsh(z, 64)
		z.Or(z, d.SetUint64(mag[i]))
	}
	return z
}

// ---------------------------------------------------------------------------
// Pids, ports, references and functions
// ---------------------------------------------------------------------------

// identity returns the comparable parts of an identifier: local values
// before remote ones, then the atoms it names, then its raw payload.
func identity(t Term) (remote int, atoms []Term, raw []uint64) {
	if n, ok := t.PidNumber(); ok {
		return 0, nil, []uint64{n}
	}
	if n, ok := t.PortNumber(); ok {
		return 0, nil, []uint64{n}
	}
	w := t.box()
	switch w[0].subtag() {
	case subtagRef:
		return 0, nil, []uint64{uint64(w[1]), uint64(w[2])}
	case subtagExport:
		return 0, []Term{w[1], w[2]}, []uint64{uint64(w[3])}
	case subtagExternalPid, subtagExternalPort, subtagExternalRef:
		return 1, []Term{w[1]}, []uint64{uint64(w[2])}
	}
	raw = make([]uint64, len(w))
	for i, x := range w {
		raw[i] = uint64(x)
	}
	return 1, nil, raw
}

func compareIdentities(a, b Term) int {
	ra, aa, wa := identity(a)
	rb, ab, wb := identity(b)
	if r := cmp.Compare(ra, rb); r != 0 {
		return r
	}
	if r := slices.CompareFunc(aa, ab, func(x, y Term) int {
		nx, _ := x.atomBytes()
		ny, _ := y.atomBytes()
		return bytes.Compare(nx, ny)
	}); r != 0 {
		return r
	}
	return slices.Compare(wa, wb)
}

// Sort orders ts by Compare. Equal elements keep their input order.
func Sort(ts []Term) { slices.SortStableFunc(ts, Compare) }
