package term

// Type classifies a term.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeInteger
	TypeFloat
	TypeAtom
	TypeRef
	TypeFun
	TypePort
	TypePid
	TypeTuple
	TypeMap
	TypeNil
	TypeList
	TypeBinary
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeInteger: "integer",
	TypeFloat:   "float",
	TypeAtom:    "atom",
	TypeRef:     "reference",
	TypeFun:     "function",
	TypePort:    "port",
	TypePid:     "pid",
	TypeTuple:   "tuple",
	TypeMap:     "map",
	TypeNil:     "nil",
	TypeList:    "list",
	TypeBinary:  "binary",
}

func (ty Type) String() string {
	if int(ty) < len(typeNames) {
		return typeNames[ty]
	}
	return "invalid"
}

// Rank returns the position of ty in the cross-type order:
//
//	number < atom < reference < function < port < pid < tuple < map < nil < list < binary
//
// Integers and floats share the number rank. Invalid ranks below everything.
func (ty Type) Rank() int {
	switch ty {
	case TypeInteger, TypeFloat:
		return 1
	case TypeAtom:
		return 2
	case TypeRef:
		return 3
	case TypeFun:
		return 4
	case TypePort:
		return 5
	case TypePid:
		return 6
	case TypeTuple:
		return 7
	case TypeMap:
		return 8
	case TypeNil:
		return 9
	case TypeList:
		return 10
	case TypeBinary:
		return 11
	}
	return 0
}

// IsNumber returns true for integers and floats.
func (ty Type) IsNumber() bool { return ty == TypeInteger || ty == TypeFloat }

// TypeOf classifies any word. Header words, match states and undefined tag
// patterns classify as TypeInvalid.
func TypeOf(t Term) Type {
	switch t.primary() {
	case primaryList:
		return TypeList
	case primaryBoxed:
		return typeOfSubtag(t.header().subtag())
	case primaryImmed1:
		switch uint64(t) & immed1Mask {
		case immed1Pid:
			return TypePid
		case immed1Port:
			return TypePort
		case immed1Small:
			return TypeInteger
		}
		switch uint64(t) & immed2Mask {
		case immed2Atom:
			return TypeAtom
		case immed2Nil:
			if t == Nil {
				return TypeNil
			}
		}
	}
	return TypeInvalid
}

func typeOfSubtag(subtag uint64) Type {
	switch subtag {
	case subtagTuple:
		return TypeTuple
	case subtagPosBig, subtagNegBig:
		return TypeInteger
	case subtagRef, subtagExternalRef:
		return TypeRef
	case subtagFun, subtagExport:
		return TypeFun
	case subtagFloat:
		return TypeFloat
	case subtagRefcBinary, subtagHeapBinary, subtagSubBinary:
		return TypeBinary
	case subtagExternalPid:
		return TypePid
	case subtagExternalPort:
		return TypePort
	case subtagMap:
		return TypeMap
	}
	return TypeInvalid
}

// Type returns TypeOf(t).
func (t Term) Type() Type { return TypeOf(t) }

// IsInteger returns true for small integers and bignums.
func (t Term) IsInteger() bool {
	return t.IsSmall() || t.hasSubtag(subtagPosBig) || t.hasSubtag(subtagNegBig)
}

// IsBignum returns true for boxed integers.
func (t Term) IsBignum() bool {
	return t.hasSubtag(subtagPosBig) || t.hasSubtag(subtagNegBig)
}

// IsFloat returns true for boxed floats.
func (t Term) IsFloat() bool { return t.hasSubtag(subtagFloat) }

// IsNumber returns true for integers and floats.
func (t Term) IsNumber() bool { return TypeOf(t).IsNumber() }

// IsTuple returns true for tuples.
func (t Term) IsTuple() bool { return t.hasSubtag(subtagTuple) }

// IsMap returns true for flatmaps.
func (t Term) IsMap() bool { return t.hasSubtag(subtagMap) }

// IsBinary returns true for heap, refc and sub binaries.
func (t Term) IsBinary() bool { return TypeOf(t) == TypeBinary }

// IsRef returns true for local and external references.
func (t Term) IsRef() bool { return TypeOf(t) == TypeRef }

// IsFun returns true for functions and exports.
func (t Term) IsFun() bool { return TypeOf(t) == TypeFun }
