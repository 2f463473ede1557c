package lhash

import (
	"strconv"
	"testing"

	"github.com/zeebo/xxh3"
)

func hashString(s string) uint32 { return uint32(xxh3.HashString(s)) }

func eq(s string) func(string) bool {
	return func(v string) bool { return v == s }
}

func put(t *Table[string], s string) (string, bool) {
	return t.Put(hashString(s), eq(s), func() string { return s })
}

func TestPutGet(t *testing.T) {
	tbl := New[string](3)

	if _, inserted := put(tbl, "alpha"); !inserted {
		t.Fatal("first Put(alpha) did not insert")
	}
	if _, inserted := put(tbl, "alpha"); inserted {
		t.Error("second Put(alpha) inserted a duplicate")
	}
	if tbl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tbl.Len())
	}

	v, ok := tbl.Get(hashString("alpha"), eq("alpha"))
	if !ok || v != "alpha" {
		t.Errorf("Get(alpha) = %q, %v; want alpha, true", v, ok)
	}
	if _, ok := tbl.Get(hashString("beta"), eq("beta")); ok {
		t.Error("Get(beta) found a value that was never inserted")
	}
}

func TestGrowAndShrink(t *testing.T) {
	tbl := New[string](3)
	const n = 5000

	for i := 0; i < n; i++ {
		put(tbl, strconv.Itoa(i))
	}
	if tbl.Len() != n {
		t.Fatalf("Len() = %d, want %d", tbl.Len(), n)
	}
	if tbl.Slots() <= segmentSize {
		t.Errorf("Slots() = %d after %d inserts, want growth past %d", tbl.Slots(), n, segmentSize)
	}
	if avg := tbl.Len() / tbl.Slots(); avg >= 3 {
		t.Errorf("average chain length %d, want < 3", avg)
	}

	for i := 0; i < n; i++ {
		s := strconv.Itoa(i)
		if v, ok := tbl.Get(hashString(s), eq(s)); !ok || v != s {
			t.Fatalf("Get(%q) after growth = %q, %v", s, v, ok)
		}
	}

	for i := 0; i < n; i += 2 {
		s := strconv.Itoa(i)
		if _, ok := tbl.Erase(hashString(s), eq(s)); !ok {
			t.Fatalf("Erase(%q) failed", s)
		}
	}
	if tbl.Len() != n/2 {
		t.Errorf("Len() after erase = %d, want %d", tbl.Len(), n/2)
	}
	for i := 0; i < n; i++ {
		s := strconv.Itoa(i)
		_, ok := tbl.Get(hashString(s), eq(s))
		if want := i%2 == 1; ok != want {
			t.Fatalf("Get(%q) after erase found=%v, want %v", s, ok, want)
		}
	}

	for i := 1; i < n; i += 2 {
		s := strconv.Itoa(i)
		tbl.Erase(hashString(s), eq(s))
	}
	if tbl.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tbl.Len())
	}
	if tbl.Slots() != segmentSize {
		t.Errorf("Slots() = %d after erasing everything, want %d", tbl.Slots(), segmentSize)
	}
}

func TestEach(t *testing.T) {
	tbl := New[string](2)
	want := map[string]bool{}
	for i := 0; i < 1000; i++ {
		s := "k" + strconv.Itoa(i)
		want[s] = true
		put(tbl, s)
	}

	seen := map[string]bool{}
	tbl.Each(func(s string) bool {
		if seen[s] {
			t.Errorf("Each visited %q twice", s)
		}
		seen[s] = true
		return true
	})
	if len(seen) != len(want) {
		t.Errorf("Each visited %d values, want %d", len(seen), len(want))
	}

	count := 0
	tbl.Each(func(string) bool {
		count++
		return count < 10
	})
	if count != 10 {
		t.Errorf("Each did not stop early: visited %d", count)
	}
}

func TestEraseMissing(t *testing.T) {
	tbl := New[string](3)
	put(tbl, "x")
	if _, ok := tbl.Erase(hashString("y"), eq("y")); ok {
		t.Error("Erase(y) reported success for a missing value")
	}
	if tbl.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tbl.Len())
	}
}
