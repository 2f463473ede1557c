package term

import "math/bits"

// ---------------------------------------------------------------------------
// Bignum arithmetic
// ---------------------------------------------------------------------------

// Every operation writes into a caller-provided destination and fails with
// ErrCapacity when dst's capacity is below the longer operand's digit count
// or the result needs more digits than dst can hold. dst may be one of the
// operands. On failure dst holds an unspecified value.

func digitAt(d []uint64, i int) uint64 {
	if i < len(d) {
		return d[i]
	}
	return 0
}

// BigAdd sets dst = x + y.
func BigAdd(dst, x, y *Bignum) error { return addsub(dst, x, y, false) }

// BigSub sets dst = x - y.
func BigSub(dst, x, y *Bignum) error { return addsub(dst, x, y, true) }

func addsub(dst, x, y *Bignum, subtract bool) error {
	xd, yd := x.digits, y.digits
	xneg, yneg := x.neg, y.neg != subtract
	n := max(len(xd), len(yd))
	if cap(dst.digits) < n {
		return ErrCapacity
	}
	d := dst.digits[:cap(dst.digits)]

	if xneg == yneg {
		var carry uint64
		for i := 0; i < n; i++ {
			d[i], carry = bits.Add64(digitAt(xd, i), digitAt(yd, i), carry)
		}
		if carry != 0 {
			if n == len(d) {
				return ErrCapacity
			}
			d[n] = carry
			n++
		}
		dst.digits, dst.neg = d[:n], xneg
		dst.normalize()
		return nil
	}

	// Signs differ: subtract the smaller magnitude from the larger.
	if compareMagnitudes(trimDigits(xd), trimDigits(yd)) < 0 {
		xd, yd = yd, xd
		xneg = yneg
	}
	var borrow uint64
	for i := 0; i < n; i++ {
		d[i], borrow = bits.Sub64(digitAt(xd, i), digitAt(yd, i), borrow)
	}
	dst.digits, dst.neg = d[:n], xneg
	dst.normalize()
	return nil
}

// BigNeg sets dst = -x.
func BigNeg(dst, x *Bignum) error {
	if cap(dst.digits) < len(x.digits) {
		return ErrCapacity
	}
	neg := !x.neg
	d := dst.digits[:len(x.digits)]
	copy(d, x.digits)
	dst.digits, dst.neg = d, neg
	dst.normalize()
	return nil
}

// BigNot sets dst = ^x, which is -x - 1.
func BigNot(dst, x *Bignum) error {
	xd := x.digits
	n := len(xd)
	if cap(dst.digits) < n {
		return ErrCapacity
	}
	d := dst.digits[:cap(dst.digits)]

	if x.neg {
		// -(-m) - 1 = m - 1
		borrow := uint64(1)
		for i := 0; i < n; i++ {
			d[i], borrow = bits.Sub64(xd[i], 0, borrow)
		}
		dst.digits, dst.neg = d[:n], false
		dst.normalize()
		return nil
	}

	// -m - 1 = -(m + 1)
	carry := uint64(1)
	for i := 0; i < n; i++ {
		d[i], carry = bits.Add64(xd[i], 0, carry)
	}
	if carry != 0 {
		if n == len(d) {
			return ErrCapacity
		}
		d[n] = carry
		n++
	}
	dst.digits, dst.neg = d[:n], true
	dst.normalize()
	return nil
}

// BigAnd sets dst = x & y under two's complement semantics.
func BigAnd(dst, x, y *Bignum) error {
	return bitwise(dst, x, y, func(a, b uint64) uint64 { return a & b })
}

// BigOr sets dst = x | y under two's complement semantics.
func BigOr(dst, x, y *Bignum) error {
	return bitwise(dst, x, y, func(a, b uint64) uint64 { return a | b })
}

// BigXor sets dst = x ^ y under two's complement semantics.
func BigXor(dst, x, y *Bignum) error {
	return bitwise(dst, x, y, func(a, b uint64) uint64 { return a ^ b })
}

// twosDigits yields the two's complement digits of a sign-magnitude
// number. A negative magnitude m reads as ^(m - 1), one digit at a time,
// and extends with all ones.
type twosDigits struct {
	mag    []uint64
	neg    bool
	borrow uint64
}

func newTwosDigits(b *Bignum) *twosDigits {
	return &twosDigits{mag: b.digits, neg: b.neg, borrow: 1}
}

func (t *twosDigits) next(i int) uint64 {
	d := digitAt(t.mag, i)
	if !t.neg {
		return d
	}
	d, t.borrow = bits.Sub64(d, 0, t.borrow)
	return ^d
}

func signWord(neg bool) uint64 {
	if neg {
		return ^uint64(0)
	}
	return 0
}

func bitwise(dst, x, y *Bignum, op func(a, b uint64) uint64) error {
	n := max(len(x.digits), len(y.digits))
	if cap(dst.digits) < n {
		return ErrCapacity
	}
	d := dst.digits[:cap(dst.digits)]
	neg := op(signWord(x.neg), signWord(y.neg)) != 0

	xs, ys := newTwosDigits(x), newTwosDigits(y)
	for i := 0; i < n; i++ {
		d[i] = op(xs.next(i), ys.next(i))
	}

	if neg {
		// Back to a magnitude: ^r + 1. An all-zero r carries into a new digit.
		carry := uint64(1)
		for i := 0; i < n; i++ {
			d[i], carry = bits.Add64(^d[i], 0, carry)
		}
		if carry != 0 {
			if n == len(d) {
				return ErrCapacity
			}
			d[n] = carry
			n++
		}
	}
	dst.digits, dst.neg = d[:n], neg
	dst.normalize()
	return nil
}
