package main

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/chazu/termheap/term"
)

// ---------------------------------------------------------------------------
// Term printer
// ---------------------------------------------------------------------------

// Format renders t in Erlang term syntax. It only reads t.
func Format(t term.Term) string {
	f := &formatter{buf: &strings.Builder{}}
	f.format(t)
	return f.buf.String()
}

type formatter struct {
	buf *strings.Builder
}

func (f *formatter) write(s string) {
	f.buf.WriteString(s)
}

func (f *formatter) format(t term.Term) {
	switch term.TypeOf(t) {
	case term.TypeInteger:
		f.formatInteger(t)
	case term.TypeFloat:
		v, _ := t.Float64()
		f.write(formatFloat(v))
	case term.TypeAtom:
		name, _ := t.AtomName()
		f.write(quoteAtom(name))
	case term.TypeRef:
		f.formatRef(t)
	case term.TypeFun:
		if m, fn, arity, ok := t.FunInfo(); ok {
			f.write("fun ")
			f.format(m)
			f.write(":")
			f.format(fn)
			f.write("/" + strconv.Itoa(arity))
		} else {
			f.write("#Fun<>")
		}
	case term.TypePort:
		if n, ok := t.PortNumber(); ok {
			f.write(fmt.Sprintf("#Port<0.%d>", n))
		} else {
			f.write("#Port<")
			f.formatExternal(t)
			f.write(">")
		}
	case term.TypePid:
		if n, ok := t.PidNumber(); ok {
			f.write(fmt.Sprintf("<0.%d.0>", n))
		} else {
			f.write("<")
			f.formatExternal(t)
			f.write(">")
		}
	case term.TypeTuple:
		elems, _ := t.Tuple()
		f.write("{")
		f.formatSeq(elems)
		f.write("}")
	case term.TypeMap:
		f.formatMap(t)
	case term.TypeNil:
		f.write("[]")
	case term.TypeList:
		f.formatList(t)
	case term.TypeBinary:
		b, _ := t.BinaryBytes()
		f.formatBinary(b)
	default:
		f.write(fmt.Sprintf("#Invalid<%#x>", uint64(t)))
	}
}

func (f *formatter) formatSeq(elems []term.Term) {
	for i, e := range elems {
		if i > 0 {
			f.write(",")
		}
		f.format(e)
	}
}

func (f *formatter) formatInteger(t term.Term) {
	if n, ok := t.Int64(); ok {
		f.write(strconv.FormatInt(n, 10))
		return
	}
	b, _ := term.GetNumber(t)
	z := new(big.Int)
	d := b.Digits()
	for i := len(d) - 1; i >= 0; i-- {
		z.Lsh(z, 64)
		z.Or(z, new(big.Int).SetUint64(d[i]))
	}
	if b.Negative() {
		z.Neg(z)
	}
	f.write(z.String())
}

// formatFloat always shows a fraction or exponent so floats read back as
// floats.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func (f *formatter) formatRef(t term.Term) {
	if id, ok := t.RefUUID(); ok {
		f.write("#Ref<" + id.String() + ">")
		return
	}
	f.write("#Ref<")
	f.formatExternal(t)
	f.write(">")
}

func (f *formatter) formatExternal(t term.Term) {
	node, _ := t.ExternalNode()
	id, _ := t.ExternalID()
	f.format(node)
	f.write("." + strconv.FormatUint(id, 10))
}

func (f *formatter) formatMap(t term.Term) {
	keys, _ := t.MapKeys()
	values, _ := t.MapValues()
	f.write("#{")
	for i := range keys {
		if i > 0 {
			f.write(",")
		}
		f.format(keys[i])
		f.write(" => ")
		f.format(values[i])
	}
	f.write("}")
}

func (f *formatter) formatList(t term.Term) {
	if s, ok := t.ListString(); ok && isPrintable(s) {
		f.write(strconv.Quote(s))
		return
	}
	f.write("[")
	first := true
	for t.IsList() {
		head, tail, _ := t.ListCell()
		if !first {
			f.write(",")
		}
		f.format(head)
		first = false
		t = tail
	}
	if !t.IsNil() {
		f.write("|")
		f.format(t)
	}
	f.write("]")
}

func (f *formatter) formatBinary(b []byte) {
	f.write("<<")
	if isPrintable(string(b)) {
		f.write(strconv.Quote(string(b)))
	} else {
		for i, c := range b {
			if i > 0 {
				f.write(",")
			}
			f.write(strconv.Itoa(int(c)))
		}
	}
	f.write(">>")
}

// isPrintable reports whether s is non-empty printable ASCII.
func isPrintable(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < ' ' || s[i] > '~' {
			return false
		}
	}
	return s != ""
}

// quoteAtom quotes names that are not a lowercase letter followed by
// letters, digits, underscores or @.
func quoteAtom(name string) string {
	plain := name != "" && name[0] >= 'a' && name[0] <= 'z'
	for i := 0; plain && i < len(name); i++ {
		c := name[i]
		plain = c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
			c >= '0' && c <= '9' || c == '_' || c == '@'
	}
	if plain {
		return name
	}
	return "'" + strings.ReplaceAll(strings.ReplaceAll(name, `\`, `\\`), "'", `\'`) + "'"
}
