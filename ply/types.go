package ply

import "strings"

// PropertyType is one of the eight scalar kinds a PLY property can hold.
// The same enum doubles as the destination type passed to the extraction
// methods, since a destination is just another scalar kind to convert into.
type PropertyType uint8

const (
	Char PropertyType = iota
	UChar
	Short
	UShort
	Int
	UInt
	Float
	Double

	numPropertyTypes
)

// Size reports the on-the-wire and in-memory byte width of t.
func (t PropertyType) Size() int {
	switch t {
	case Char, UChar:
		return 1
	case Short, UShort:
		return 2
	case Int, UInt, Float:
		return 4
	case Double:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether t is Float or Double.
func (t PropertyType) IsFloat() bool {
	return t == Float || t == Double
}

// IsSigned reports whether t is a signed integer kind.
func (t PropertyType) IsSigned() bool {
	switch t {
	case Char, Short, Int:
		return true
	default:
		return false
	}
}

func (t PropertyType) String() string {
	switch t {
	case Char:
		return "char"
	case UChar:
		return "uchar"
	case Short:
		return "short"
	case UShort:
		return "ushort"
	case Int:
		return "int"
	case UInt:
		return "uint"
	case Float:
		return "float"
	case Double:
		return "double"
	default:
		return "invalid"
	}
}

// parsePropertyType resolves one of the header's type tokens, including the
// fixed-width aliases (int8, uint32, float32, ...), to a PropertyType.
func parsePropertyType(tok string) (PropertyType, bool) {
	switch strings.ToLower(tok) {
	case "char", "int8":
		return Char, true
	case "uchar", "uint8":
		return UChar, true
	case "short", "int16":
		return Short, true
	case "ushort", "uint16":
		return UShort, true
	case "int", "int32":
		return Int, true
	case "uint", "uint32":
		return UInt, true
	case "float", "float32":
		return Float, true
	case "double", "float64":
		return Double, true
	default:
		return 0, false
	}
}
