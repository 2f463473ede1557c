package term

import (
	"errors"
	"math"
	"slices"
	"testing"
)

// ---------------------------------------------------------------------------
// Copy tests
// ---------------------------------------------------------------------------

type copyStrategy struct {
	name string
	fn   func(dst *Arena, t Term) (Term, error)
}

var copyStrategies = []copyStrategy{
	{"Copy", (*Arena).Copy},
	{"FlatCopy", (*Arena).FlatCopy},
	{"StructCopy", (*Arena).StructCopy},
}

// sampleValue builds a value that touches every copyable kind.
func sampleValue(a *Arena) Term {
	bin := a.MakeBinaryFromBytes([]byte("heap"))
	refc := a.MakeBinaryFromBytes(make([]byte, 200))
	m, _ := a.MakeMapFromSlices(
		[]Term{a.MakeAtom("k"), MakeSmall(1), a.MakeFloat(2.5)},
		[]Term{a.MakeString("v"), a.MakeTuple(), Nil},
	)
	return a.MakeTuple(
		MakeSmall(-5),
		a.MakeUint64(math.MaxUint64),
		a.MakeFloat(math.Pi),
		a.MakeAtom("atom"),
		a.MakeRef(),
		MakePid(7),
		MakePort(8),
		a.MakeList(MakeSmall(1), a.MakeList(MakeSmall(2)), bin),
		a.MakeListCell(MakeSmall(3), a.MakeAtom("improper")),
		m,
		bin,
		refc,
		a.MakeSubBinary(refc, 10, 20),
		a.MakeSubBinary(bin, 1, 2),
	)
}

func TestCopyStrategiesProduceEqualValues(t *testing.T) {
	src := NewArena(WithRefcThreshold(64))
	defer src.Destroy()
	v := sampleValue(src)

	for _, s := range copyStrategies {
		dst := NewArena(WithFragmentWords(16))
		c, err := s.fn(dst, v)
		if err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		if c == v {
			t.Errorf("%s returned the source term", s.name)
		}
		if !IsIdentical(c, v) {
			t.Errorf("%s result does not compare equal to the source", s.name)
		}

		// A copy is itself copyable.
		scratch := NewArena()
		again, err := scratch.Copy(c)
		if err != nil || !IsIdentical(again, c) {
			t.Errorf("%s: copying the copy failed: %v", s.name, err)
		}
		scratch.Destroy()
		dst.Destroy()
	}
}

func TestCopyOutlivesSource(t *testing.T) {
	for _, s := range copyStrategies {
		src := NewArena()
		v := src.MakeTuple(src.MakeList(MakeSmall(1), src.MakeFloat(2)), src.MakeBinaryFromBytes([]byte("x")))
		dst := NewArena()
		c, err := s.fn(dst, v)
		if err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		src.Destroy()

		elems, _ := c.Tuple()
		list, _ := elems[0].ListSlice()
		if f, _ := list[1].Float64(); f != 2 {
			t.Errorf("%s: float after source destroyed = %v", s.name, f)
		}
		if b, _ := elems[1].BinaryBytes(); string(b) != "x" {
			t.Errorf("%s: binary after source destroyed = %q", s.name, b)
		}
		dst.Destroy()
	}
}

func TestCopyImmediates(t *testing.T) {
	a := NewArena()
	defer a.Destroy()

	for _, s := range copyStrategies {
		for _, v := range []Term{MakeSmall(3), Nil, a.MakeAtom("x"), MakePid(1)} {
			c, err := s.fn(a, v)
			if err != nil || c != v {
				t.Errorf("%s(%#v) = %#v, %v", s.name, v, c, err)
			}
		}
		if _, err := s.fn(a, Invalid); !errors.Is(err, ErrBadArg) {
			t.Errorf("%s(Invalid) error = %v, want ErrBadArg", s.name, err)
		}
	}
}

func TestCopyUnsupportedKinds(t *testing.T) {
	src := NewArena(WithRefcThreshold(0))
	defer src.Destroy()
	node := src.MakeAtom("remote@host")

	msAddr, ms := src.Alloc(2)
	ms[0] = makeHeader(subtagMatchState, 1)

	bad := []struct {
		name string
		v    Term
	}{
		{"fun", src.MakeFun(src.MakeAtom("m"), src.MakeAtom("f"), 1)},
		{"external ref", src.MakeExternalRef(node, 1)},
		{"external pid", src.MakeExternalPid(node, 1)},
		{"external port", src.MakeExternalPort(node, 1)},
		{"match state", boxedTerm(msAddr)},
	}

	for _, s := range copyStrategies {
		for _, b := range bad {
			dst := NewArena()
			dst.MakeTuple()
			m := dst.Mark()
			buffersBefore := LiveBuffers()

			// Put the bad value after copyable nodes so a partial copy exists.
			v := src.MakeTuple(src.MakeList(MakeSmall(1)), src.MakeBinaryFromBytes([]byte("abc")), b.v)
			c, err := s.fn(dst, v)
			if !errors.Is(err, ErrUnsupportedKind) {
				t.Errorf("%s(%s) error = %v, want ErrUnsupportedKind", s.name, b.name, err)
			}
			if c != Invalid {
				t.Errorf("%s(%s) = %#v, want Invalid", s.name, b.name, c)
			}
			if dst.Top() != m.top || dst.Fragments() != 1 {
				t.Errorf("%s(%s) left allocations behind", s.name, b.name)
			}
			if LiveBuffers() != buffersBefore+1 {
				t.Errorf("%s(%s) leaked a buffer reference", s.name, b.name)
			}
			dst.Destroy()
		}
	}
}

func TestFlatSize(t *testing.T) {
	a := NewArena()
	defer a.Destroy()

	x := a.MakeFloat(1)
	tests := []struct {
		name string
		v    Term
		flat int
		uniq int
	}{
		{"immediate", MakeSmall(1), 0, 0},
		{"float", x, 2, 2},
		{"tuple of shared float", a.MakeTuple(x, x), 3 + 4, 3 + 2},
		{"list", a.MakeList(MakeSmall(1), MakeSmall(2)), 4, 4},
		{"heap binary", a.MakeBinaryFromBytes([]byte("123456789")), 4, 4},
		{"map", a.MakeNewMap(), 3 + 1, 3 + 1},
	}
	for _, tt := range tests {
		if n, err := FlatSize(tt.v); err != nil || n != tt.flat {
			t.Errorf("FlatSize(%s) = %d, %v; want %d", tt.name, n, err, tt.flat)
		}
		if n, err := StructSize(tt.v); err != nil || n != tt.uniq {
			t.Errorf("StructSize(%s) = %d, %v; want %d", tt.name, n, err, tt.uniq)
		}
	}
}

func TestFlatCopyIsOneBlock(t *testing.T) {
	src := NewArena()
	defer src.Destroy()
	v := sampleValue(src)

	n, err := FlatSize(v)
	if err != nil {
		t.Fatal(err)
	}
	dst := NewArena(WithFragmentWords(8))
	defer dst.Destroy()
	if _, err := dst.FlatCopy(v); err != nil {
		t.Fatal(err)
	}
	if dst.Fragments() != 1 || dst.Words()-dst.Available() != n {
		t.Errorf("FlatCopy used %d fragments and %d words, want 1 and %d",
			dst.Fragments(), dst.Words()-dst.Available(), n)
	}
}

func TestCopySharesRefcBuffers(t *testing.T) {
	src := NewArena(WithRefcThreshold(8))
	bin := src.MakeBinaryFromBytes([]byte("shared payload bytes"))

	var dsts []*Arena
	for i, s := range copyStrategies {
		dst := NewArena()
		dsts = append(dsts, dst)
		if _, err := s.fn(dst, bin); err != nil {
			t.Fatal(err)
		}
		if n, _ := bin.RefcCount(); n != i+2 {
			t.Errorf("after %s RefcCount() = %d, want %d", s.name, n, i+2)
		}
	}

	before := LiveBuffers()
	src.Destroy()
	for _, d := range dsts {
		d.Destroy()
	}
	if LiveBuffers() != before-1 {
		t.Errorf("buffer not released after every holder was destroyed")
	}
}

// ---------------------------------------------------------------------------
// Structure-preserving copy tests
// ---------------------------------------------------------------------------

func snapshot(a *Arena) [][]Term {
	var out [][]Term
	for f := a.frag; f != nil; f = f.prev {
		out = append(out, slices.Clone(f.words))
	}
	return out
}

func TestStructCopyDoesNotMutateSource(t *testing.T) {
	src := NewArena()
	defer src.Destroy()
	v := sampleValue(src)
	shared := src.MakeTuple(v, v, src.MakeList(v, v))

	before := snapshot(src)
	dst := NewArena()
	defer dst.Destroy()
	c, err := dst.StructCopy(shared)
	if err != nil {
		t.Fatal(err)
	}
	after := snapshot(src)

	if len(before) != len(after) {
		t.Fatalf("source fragment count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if !slices.Equal(before[i], after[i]) {
			t.Fatalf("source fragment %d changed during StructCopy", i)
		}
	}
	if !IsIdentical(c, shared) {
		t.Error("StructCopy result does not compare equal to the source")
	}
}

func TestStructCopyPreservesSharing(t *testing.T) {
	src := NewArena()
	defer src.Destroy()

	x := src.MakeAtom("v")
	tup := src.MakeTuple(x, x)
	l := src.MakeList(x, tup)

	dst := NewArena()
	defer dst.Destroy()
	c, err := dst.StructCopy(l)
	if err != nil {
		t.Fatal(err)
	}
	elems, _ := c.ListSlice()
	inner, _ := elems[1].Tuple()
	if !IsIdentical(elems[0], inner[0]) || !IsIdentical(inner[0], inner[1]) {
		t.Error("copies of x differ")
	}

	// A boxed node reached twice is copied once.
	f := src.MakeFloat(1.25)
	pair := src.MakeTuple(f, src.MakeList(f, f))
	c, err = dst.StructCopy(pair)
	if err != nil {
		t.Fatal(err)
	}
	outer, _ := c.Tuple()
	list, _ := outer[1].ListSlice()
	if outer[0] != list[0] || list[0] != list[1] {
		t.Error("StructCopy did not share the copied float")
	}

	flat, _ := dst.FlatCopy(pair)
	outer, _ = flat.Tuple()
	list, _ = outer[1].ListSlice()
	if outer[0] == list[0] {
		t.Error("FlatCopy unexpectedly shared the copied float")
	}
}

func TestStructCopyCycle(t *testing.T) {
	src := NewArena()
	defer src.Destroy()

	// Values cannot form cycles through the constructors; build one by hand.
	addr, w := src.Alloc(2)
	cell := listTerm(addr)
	w[0] = MakeSmall(1)
	w[1] = cell

	dst := NewArena()
	defer dst.Destroy()
	c, err := dst.StructCopy(cell)
	if err != nil {
		t.Fatal(err)
	}
	h, tl, ok := c.ListCell()
	if !ok || h != MakeSmall(1) || tl != c {
		t.Errorf("copied cycle = %#v, %#v; want the tail to be the cell itself", h, tl)
	}
}
