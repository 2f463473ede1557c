package main

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/chazu/termheap/config"
	"github.com/chazu/termheap/term"
)

// buildSample creates a value with shared subterms, a bignum, a map and
// binaries of both storage kinds.
func buildSample(a *term.Arena, atoms []string) (term.Term, error) {
	shared := a.MakeString("shared")

	names := make([]term.Term, 0, len(atoms))
	for _, name := range atoms {
		atom := a.MakeAtom(name)
		if atom == term.Invalid {
			return term.Invalid, fmt.Errorf("atom %q: %w", name, term.ErrBadArg)
		}
		names = append(names, atom)
	}

	x, _ := term.GetNumber(a.MakeUint64(1<<63 + 1))
	sum := term.NewBignum(2)
	if err := term.BigAdd(sum, x, x); err != nil {
		return term.Invalid, err
	}

	m, ok := a.MakeMapFromSlices(
		[]term.Term{a.MakeAtom("name"), a.MakeAtom("tags"), a.MakeAtom("name")},
		[]term.Term{a.MakeAtom("first"), a.MakeList(names...), a.MakeAtom("termheap")},
	)
	if !ok {
		return term.Invalid, fmt.Errorf("sample map: %w", term.ErrBadArg)
	}

	iolist := a.MakeList(a.MakeBinaryFromBytes([]byte("io")), term.MakeSmall('-'), a.MakeString("list"))
	bin, err := a.MakeBinaryFromIolist(iolist)
	if err != nil {
		return term.Invalid, err
	}
	large := a.MakeBinaryFromBytes(make([]byte, 256))

	return a.MakeTuple(
		a.MakeAtom("sample"),
		a.MakeNumber(sum),
		a.MakeFloat(0.5),
		m,
		bin,
		a.MakeSubBinary(large, 0, 4),
		a.MakeRef(),
		a.MakeList(shared, shared, shared),
	), nil
}

func run(w io.Writer, cfg *config.Config, atoms []string) error {
	st := cfg.SymbolTable()
	src := term.NewArena(cfg.ArenaOptions(st)...)
	defer src.Destroy()

	sample, err := buildSample(src, atoms)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "sample: %s\n", Format(sample))
	fmt.Fprintf(w, "source: %d fragments, %d words, %d atoms\n", src.Fragments(), src.Words(), st.Len())

	for _, s := range strategies {
		dst := term.NewArena(cfg.ArenaOptions(st)...)
		n, err := s.size(sample)
		if err != nil {
			dst.Destroy()
			return err
		}
		c, err := s.copy(dst, sample)
		if err != nil {
			dst.Destroy()
			return fmt.Errorf("%s copy: %w", s.name, err)
		}
		fmt.Fprintf(w, "%-6s %4d words  fragments=%d  equal=%v\n",
			s.name, n, dst.Fragments(), term.IsIdentical(c, sample))
		dst.Destroy()
	}

	// Functions cannot be copied; the destination is left as it was.
	dst := term.NewArena(cfg.ArenaOptions(st)...)
	defer dst.Destroy()
	fun := src.MakeFun(src.MakeAtom("lists"), src.MakeAtom("map"), 2)
	before := dst.Words()
	if _, err := dst.Copy(src.MakeTuple(sample, fun)); errors.Is(err, term.ErrUnsupportedKind) {
		fmt.Fprintf(w, "copy of %s rejected: %v (words %d -> %d)\n", Format(fun), err, before, dst.Words())
	}

	elems, _ := sample.Tuple()
	elems = slices.Clone(elems)
	term.Sort(elems)
	fmt.Fprintf(w, "sorted: %s\n", Format(src.MakeList(elems...)))
	return nil
}
