package term

import "math"

// ---------------------------------------------------------------------------
// Bignum: sign-magnitude integer buffer
// ---------------------------------------------------------------------------

// inlineDigits is the capacity of a Bignum that needs no separate buffer.
const inlineDigits = 4

// Bignum is a mutable arbitrary-precision integer used as the operand and
// destination of the arithmetic in this package. Digits are least
// significant first; the length is the digit count and the capacity is the
// most digits a result may use.
//
// A Bignum obtained from GetNumber may alias a term's storage and must only
// be read.
type Bignum struct {
	digits []uint64
	neg    bool
	inline [inlineDigits]uint64
}

// NewBignum returns a zero-valued Bignum with n zeroed digits of capacity.
func NewBignum(n int) *Bignum {
	n = max(n, 1)
	b := &Bignum{}
	if n <= inlineDigits {
		b.digits = b.inline[:n:n]
	} else {
		b.digits = make([]uint64, n)
	}
	return b
}

// Len returns the digit count.
func (b *Bignum) Len() int { return len(b.digits) }

// Cap returns the digit capacity.
func (b *Bignum) Cap() int { return cap(b.digits) }

// Digits returns the digits, least significant first.
func (b *Bignum) Digits() []uint64 { return b.digits }

// Negative reports the sign.
func (b *Bignum) Negative() bool { return b.neg }

// SetDigits stores a sign and magnitude. Fails with ErrCapacity if the
// trimmed magnitude needs more digits than b's capacity.
func (b *Bignum) SetDigits(neg bool, mag []uint64) error {
	mag = trimDigits(mag)
	if len(mag) > cap(b.digits) {
		return ErrCapacity
	}
	b.digits = b.digits[:len(mag)]
	copy(b.digits, mag)
	b.neg = neg && !isZero(b.digits)
	return nil
}

// Release drops a separately owned buffer. The Bignum reads as zero
// afterwards.
func (b *Bignum) Release() {
	b.inline = [inlineDigits]uint64{}
	b.digits = b.inline[:1:1]
	b.neg = false
}

// normalize trims leading zero digits and clears the sign of zero.
func (b *Bignum) normalize() {
	b.digits = trimDigits(b.digits)
	if isZero(b.digits) {
		b.neg = false
	}
}

// trimDigits drops leading zero digits, keeping at least one.
func trimDigits(d []uint64) []uint64 {
	n := len(d)
	for n > 1 && d[n-1] == 0 {
		n--
	}
	if n == 0 {
		return d
	}
	return d[:n]
}

func isZero(d []uint64) bool {
	return len(d) == 0 || (len(d) == 1 && d[0] == 0)
}

// CopyNumber returns an owned copy of src with capacity for at least n
// digits. Digits past src's length are zero.
func CopyNumber(src *Bignum, n int) *Bignum {
	dst := NewBignum(max(n, len(src.digits)))
	copy(dst.digits, src.digits)
	dst.digits = dst.digits[:len(src.digits)]
	dst.neg = src.neg
	return dst
}

// GetNumber returns an integer term as a Bignum. A bignum term is viewed
// without copying; the result must not be used as a destination.
func GetNumber(t Term) (*Bignum, bool) {
	if n, ok := t.SmallInt(); ok {
		b := NewBignum(1)
		if n < 0 {
			b.neg = true
			b.digits[0] = uint64(-n)
		} else {
			b.digits[0] = uint64(n)
		}
		return b, true
	}
	neg, d, ok := t.bigDigits()
	if !ok {
		return nil, false
	}
	return &Bignum{digits: d[:len(d):len(d)], neg: neg}, true
}

// GetCopyNumber returns an owned copy of an integer term with capacity for
// at least n digits.
func GetCopyNumber(t Term, n int) (*Bignum, bool) {
	b, ok := GetNumber(t)
	if !ok {
		return nil, false
	}
	return CopyNumber(b, n), true
}

// MakeNumber builds an integer term from b. Values in the immediate range
// come back as immediates.
func (a *Arena) MakeNumber(b *Bignum) Term {
	mag := trimDigits(b.digits)
	neg := b.neg && !isZero(mag)
	if len(mag) == 1 {
		d := mag[0]
		switch {
		case !neg && d <= uint64(MaxSmall):
			return MakeSmall(int64(d))
		case neg && d <= uint64(-MinSmall):
			return MakeSmall(-int64(d))
		}
	}
	return a.makeBig(neg, mag)
}

// Int64 returns b as an int64 if it fits.
func (b *Bignum) Int64() (int64, bool) {
	mag := trimDigits(b.digits)
	if len(mag) != 1 {
		return 0, false
	}
	if b.neg {
		if mag[0] > 1<<63 {
			return 0, false
		}
		return -int64(mag[0]), true
	}
	if mag[0] > math.MaxInt64 {
		return 0, false
	}
	return int64(mag[0]), true
}
