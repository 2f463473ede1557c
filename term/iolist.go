package term

import "fmt"

// ---------------------------------------------------------------------------
// IO lists: nested lists of bytes and binaries
// ---------------------------------------------------------------------------

// An iolist is a binary, or a list whose elements are integers in 0..255,
// binaries or iolists, and whose tail is nil or a binary.

// walkIolist calls emit for every byte run of t in order.
func walkIolist(t Term, emit func([]byte)) error {
	var one [1]byte
	stack := []Term{t}
	for len(stack) > 0 {
		t = stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch {
		case t == Nil:
		case t.IsList():
			c := t.cell()
			if c[1].IsSmall() {
				return fmt.Errorf("iolist with integer tail: %w", ErrMalformed)
			}
			// Tail after head.
			stack = append(stack, c[1], c[0])
		case t.IsSmall():
			v := t.MustSmallInt()
			if v < 0 || v > 255 {
				return fmt.Errorf("iolist byte %d out of range: %w", v, ErrMalformed)
			}
			one[0] = byte(v)
			emit(one[:])
		default:
			b, ok := t.binaryBytes()
			if !ok {
				return fmt.Errorf("iolist element of type %s: %w", TypeOf(t), ErrMalformed)
			}
			emit(b)
		}
	}
	return nil
}

// IolistSize returns the number of bytes an iolist denotes.
func IolistSize(t Term) (int, error) {
	if !t.IsList() && t != Nil && !t.IsBinary() {
		return 0, fmt.Errorf("iolist of type %s: %w", TypeOf(t), ErrMalformed)
	}
	n := 0
	err := walkIolist(t, func(b []byte) { n += len(b) })
	if err != nil {
		return 0, err
	}
	return n, nil
}

// IolistBytes flattens an iolist into a new byte slice.
func IolistBytes(t Term) ([]byte, error) {
	n, err := IolistSize(t)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, n)
	walkIolist(t, func(b []byte) { buf = append(buf, b...) })
	return buf, nil
}

// InspectIolistAsBinary returns a view of the bytes of an iolist. A binary
// is viewed directly; anything else is flattened into an owned buffer.
func InspectIolistAsBinary(t Term) (*Binary, error) {
	if b, ok := InspectBinary(t); ok {
		return b, nil
	}
	data, err := IolistBytes(t)
	if err != nil {
		return nil, err
	}
	return &Binary{data: data}, nil
}

// MakeBinaryFromIolist flattens an iolist into a new binary term. Nothing
// is allocated if the iolist is malformed.
func (a *Arena) MakeBinaryFromIolist(t Term) (Term, error) {
	if t.IsBinary() {
		return t, nil
	}
	data, err := IolistBytes(t)
	if err != nil {
		return Invalid, err
	}
	return a.MakeBinary(&Binary{data: data}), nil
}
