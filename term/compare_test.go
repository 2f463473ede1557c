package term

import (
	"math"
	"math/rand/v2"
	"testing"
)

// ---------------------------------------------------------------------------
// Ordering tests
// ---------------------------------------------------------------------------

func TestCompareTable(t *testing.T) {
	a := NewArena()
	defer a.Destroy()

	at := a.MakeAtom
	bin := func(s string) Term { return a.MakeBinaryFromBytes([]byte(s)) }
	big := a.MakeUint64(math.MaxUint64)
	negBig := a.MakeInt64(math.MinInt64)

	tests := []struct {
		name string
		x, y Term
		want int
	}{
		{"small", MakeSmall(1), MakeSmall(2), -1},
		{"small equal", MakeSmall(5), MakeSmall(5), 0},
		{"big vs small", big, MakeSmall(MaxSmall), 1},
		{"neg big vs small", negBig, MakeSmall(MinSmall), -1},
		{"big vs neg big", big, negBig, 1},
		{"int vs float", MakeSmall(1), a.MakeFloat(1.5), -1},
		{"int equals float", MakeSmall(2), a.MakeFloat(2.0), 0},
		{"big vs float", big, a.MakeFloat(1e19), 1},
		{"float vs big", a.MakeFloat(1e20), big, 1},
		{"number vs atom", a.MakeFloat(1e300), at("a"), -1},
		{"atom bytes", at("abc"), at("abd"), -1},
		{"atom prefix", at("ab"), at("abc"), -1},
		{"atom vs ref", at("zzz"), a.MakeRef(), -1},
		{"ref vs fun", a.MakeRef(), a.MakeFun(at("m"), at("f"), 0), -1},
		{"fun vs port", a.MakeFun(at("m"), at("f"), 0), MakePort(1), -1},
		{"port vs pid", MakePort(100), MakePid(1), -1},
		{"pid vs tuple", MakePid(100), a.MakeTuple(), -1},
		{"tuple arity", a.MakeTuple(MakeSmall(9)), a.MakeTuple(MakeSmall(1), MakeSmall(1)), -1},
		{"tuple elements", a.MakeTuple(MakeSmall(1), MakeSmall(2)), a.MakeTuple(MakeSmall(1), MakeSmall(3)), -1},
		{"tuple vs map", a.MakeTuple(), a.MakeNewMap(), -1},
		{"map vs nil", a.MakeNewMap(), Nil, -1},
		{"nil vs list", Nil, a.MakeList(MakeSmall(1)), -1},
		{"list vs binary", a.MakeList(MakeSmall(1)), bin(""), -1},
		{"list prefix", a.MakeList(MakeSmall(1)), a.MakeList(MakeSmall(1), MakeSmall(2)), -1},
		{"list elements", a.MakeList(MakeSmall(1), MakeSmall(3)), a.MakeList(MakeSmall(2)), -1},
		{"improper tail", a.MakeList(MakeSmall(1)), a.MakeListCell(MakeSmall(1), at("x")), -1},
		{"improper tails", a.MakeListCell(MakeSmall(1), at("x")), a.MakeListCell(MakeSmall(1), at("y")), -1},
		{"binary bytes", bin("abc"), bin("abd"), -1},
		{"binary prefix", bin("ab"), bin("abc"), -1},
		{"binary sub vs heap", a.MakeSubBinary(bin("xabcx"), 1, 3), bin("abc"), 0},
		{"pid local vs external", MakePid(5), a.MakeExternalPid(at("n"), 1), -1},
		{"string vs list", a.MakeString("ab"), a.MakeList(MakeSmall('a'), MakeSmall('b')), 0},
	}

	for _, tt := range tests {
		if got := Compare(tt.x, tt.y); got != tt.want {
			t.Errorf("Compare(%s) = %d, want %d", tt.name, got, tt.want)
		}
		if got := Compare(tt.y, tt.x); got != -tt.want {
			t.Errorf("Compare(%s) reversed = %d, want %d", tt.name, got, -tt.want)
		}
	}
}

func TestCompareExactNumbers(t *testing.T) {
	a := NewArena()
	defer a.Destroy()

	one, oneF := MakeSmall(1), a.MakeFloat(1.0)
	if Compare(one, oneF) != 0 {
		t.Error("Compare(1, 1.0) should be 0")
	}
	if CompareExact(one, oneF) != -1 || CompareExact(oneF, one) != 1 {
		t.Error("CompareExact should order 1 before 1.0")
	}
	if IsIdentical(one, oneF) {
		t.Error("IsIdentical(1, 1.0) = true")
	}
	if !IsIdentical(a.MakeFloat(2.5), a.MakeFloat(2.5)) {
		t.Error("IsIdentical of equal floats = false")
	}
	if CompareExact(MakeSmall(0), a.MakeFloat(0.5)) != -1 {
		t.Error("exact mode should still order 0 before 0.5")
	}

	negZero := a.MakeFloat(math.Copysign(0, -1))
	if Compare(negZero, a.MakeFloat(0)) != 0 {
		t.Error("Compare(-0.0, 0.0) should be 0")
	}
	if CompareExact(negZero, a.MakeFloat(0)) != -1 {
		t.Error("CompareExact should order -0.0 before 0.0")
	}

	nan := a.MakeFloat(math.NaN())
	if Compare(nan, a.MakeFloat(math.Inf(1))) != 1 || Compare(MakeSmall(1), nan) != -1 {
		t.Error("NaN should sort after every other number")
	}
	if Compare(nan, nan) != 0 {
		t.Error("Compare(NaN, NaN) should be 0")
	}
}

func TestCompareBigFloatPrecision(t *testing.T) {
	a := NewArena()
	defer a.Destroy()

	// 2^63 is exactly representable; 2^63+1 is not.
	f := a.MakeFloat(math.Ldexp(1, 63))
	exact := a.MakeUint64(1 << 63)
	above := a.MakeUint64(1<<63 + 1)
	if Compare(exact, f) != 0 {
		t.Error("Compare(2^63, 2^63 as float) should be 0")
	}
	if Compare(above, f) != 1 {
		t.Error("Compare(2^63+1, 2^63 as float) should be 1")
	}
}

func TestCompareMaps(t *testing.T) {
	a := NewArena()
	defer a.Destroy()

	m1, _ := a.MakeMapFromSlices(smalls(1, 2), smalls(10, 20))
	m2, _ := a.MakeMapFromSlices(smalls(1, 2), smalls(10, 21))
	m3, _ := a.MakeMapFromSlices(smalls(1, 3), smalls(10, 20))
	m4, _ := a.MakeMapFromSlices(smalls(1), smalls(99))
	same, _ := a.MakeMapFromSlices(smalls(2, 1), smalls(20, 10))

	tests := []struct {
		name string
		x, y Term
		want int
	}{
		{"values", m1, m2, -1},
		{"keys before values", m2, m3, -1},
		{"size first", m4, m1, -1},
		{"equal", m1, same, 0},
	}
	for _, tt := range tests {
		if got := Compare(tt.x, tt.y); got != tt.want {
			t.Errorf("Compare(%s) = %d, want %d", tt.name, got, tt.want)
		}
	}

	// Keys compare exactly even in ordered mode.
	mi, _ := a.MakeMapFromSlices(smalls(1), smalls(0))
	mf, _ := a.MakeMapFromSlices([]Term{a.MakeFloat(1)}, smalls(0))
	if Compare(mi, mf) == 0 {
		t.Error("maps keyed by 1 and 1.0 compared equal")
	}
}

func TestCompareDeepNesting(t *testing.T) {
	a := NewArena()
	defer a.Destroy()

	build := func(leaf int64) Term {
		v := MakeSmall(leaf)
		for i := 0; i < 100000; i++ {
			v = a.MakeTuple(v)
		}
		return v
	}
	if Compare(build(1), build(2)) != -1 {
		t.Error("deeply nested compare gave the wrong order")
	}

	long := func(last int64) Term {
		elems := make([]Term, 100000)
		for i := range elems {
			elems[i] = MakeSmall(0)
		}
		elems[len(elems)-1] = MakeSmall(last)
		return a.MakeList(elems...)
	}
	if Compare(long(5), long(4)) != 1 {
		t.Error("long list compare gave the wrong order")
	}
}

// randomTerm builds a random value of bounded depth from the comparable
// kinds.
func randomTerm(a *Arena, r *rand.Rand, depth int) Term {
	kinds := 7
	if depth <= 0 {
		kinds = 4
	}
	switch r.IntN(kinds) {
	case 0:
		return MakeSmall(int64(r.IntN(7)) - 3)
	case 1:
		return a.MakeFloat(float64(r.IntN(7)-3) / 2)
	case 2:
		return a.MakeAtom(string(rune('a' + r.IntN(3))))
	case 3:
		return a.MakeBinaryFromBytes([]byte{byte('a' + r.IntN(2)), byte('a' + r.IntN(2))}[:r.IntN(3)])
	case 4:
		elems := make([]Term, r.IntN(3))
		for i := range elems {
			elems[i] = randomTerm(a, r, depth-1)
		}
		return a.MakeTuple(elems...)
	case 5:
		elems := make([]Term, r.IntN(3))
		for i := range elems {
			elems[i] = randomTerm(a, r, depth-1)
		}
		return a.MakeList(elems...)
	default:
		return a.MakeInt64(math.MaxInt64 - int64(r.IntN(2)))
	}
}

func TestCompareProperties(t *testing.T) {
	a := NewArena()
	defer a.Destroy()
	r := rand.New(rand.NewPCG(1, 2))

	vals := make([]Term, 120)
	for i := range vals {
		vals[i] = randomTerm(a, r, 3)
	}

	for _, cmpFn := range []struct {
		name string
		fn   func(x, y Term) int
	}{{"Compare", Compare}, {"CompareExact", CompareExact}} {
		for _, x := range vals {
			if cmpFn.fn(x, x) != 0 {
				t.Fatalf("%s(x, x) != 0", cmpFn.name)
			}
			for _, y := range vals {
				if cmpFn.fn(x, y) != -cmpFn.fn(y, x) {
					t.Fatalf("%s is not antisymmetric", cmpFn.name)
				}
			}
		}
		for i := 0; i < 20000; i++ {
			x, y, z := vals[r.IntN(len(vals))], vals[r.IntN(len(vals))], vals[r.IntN(len(vals))]
			if cmpFn.fn(x, y) <= 0 && cmpFn.fn(y, z) <= 0 && cmpFn.fn(x, z) > 0 {
				t.Fatalf("%s is not transitive", cmpFn.name)
			}
		}
	}
}

func TestSort(t *testing.T) {
	a := NewArena()
	defer a.Destroy()

	vals := []Term{a.MakeList(MakeSmall(1)), a.MakeAtom("b"), MakeSmall(3), a.MakeTuple(), a.MakeFloat(0.5), a.MakeAtom("a")}
	Sort(vals)
	for i := 1; i < len(vals); i++ {
		if Compare(vals[i-1], vals[i]) > 0 {
			t.Errorf("Sort left %#v before %#v", vals[i-1], vals[i])
		}
	}
	if !vals[0].IsFloat() {
		t.Errorf("Sort put %s first, want the float", TypeOf(vals[0]))
	}
}
