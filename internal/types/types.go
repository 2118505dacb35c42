// Package types models the type system consumed by the checker: a closed
// set of primitive kinds plus a pointer composite, structural equality, and
// the integer classification predicates the compatibility relation needs.
package types

// Kind is the closed set of type tags the checker recognizes. Struct,
// array, and function kinds exist in the language but are opaque to this
// package beyond equality: the checker never needs to look inside them.
type Kind int

const (
	KindInvalid Kind = iota

	// Signed integers.
	KindI8
	KindI16
	KindI32
	KindI64
	KindI128
	KindInt
	KindISize

	// Unsigned integers.
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindUint
	KindUSize

	KindFloat
	KindBool
	KindVoid
	KindChar
	KindString

	KindPointer
	KindStruct
	KindArray
	KindFunction
)

var kindNames = map[Kind]string{
	KindInvalid:  "<invalid>",
	KindI8:       "i8",
	KindI16:      "i16",
	KindI32:      "i32",
	KindI64:      "i64",
	KindI128:     "i128",
	KindInt:      "int",
	KindISize:    "isize",
	KindU8:       "u8",
	KindU16:      "u16",
	KindU32:      "u32",
	KindU64:      "u64",
	KindU128:     "u128",
	KindUint:     "uint",
	KindUSize:    "usize",
	KindFloat:    "float",
	KindBool:     "bool",
	KindVoid:     "void",
	KindChar:     "char",
	KindString:   "string",
	KindPointer:  "pointer",
	KindStruct:   "struct",
	KindArray:    "array",
	KindFunction: "function",
}

// Type is a tagged value describing a Zen type. Inner is populated only
// when Kind is KindPointer, and is never nil in that case — the parser is
// responsible for that invariant; this package only reads it.
type Type struct {
	Kind  Kind
	Inner *Type

	// Name carries a human-readable tag for opaque composite kinds
	// (struct/array/function) so diagnostics can render something more
	// useful than the bare kind name. Not consulted by equality beyond
	// the embedded Kind/Inner comparison.
	Name string
}

// New constructs a primitive (non-pointer) type of the given kind.
func New(k Kind) *Type {
	return &Type{Kind: k}
}

// NewPointer constructs a pointer type whose pointee is inner.
func NewPointer(inner *Type) *Type {
	return &Type{Kind: KindPointer, Inner: inner}
}

// Equal reports structural equality: same Kind, and for KindPointer,
// structurally equal Inner. Two nil types are not equal — callers must
// special-case nil themselves, since "both missing" is a different
// situation from "both void" in the compatibility relation.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindPointer {
		return Equal(a.Inner, b.Inner)
	}
	return true
}

// String renders t for diagnostics. Returns "<nil>" for a nil type so
// callers never need to guard before formatting an error message.
func String(t *Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Kind == KindPointer {
		return "*" + String(t.Inner)
	}
	if name, ok := kindNames[t.Kind]; ok {
		if t.Name != "" && (t.Kind == KindStruct || t.Kind == KindArray || t.Kind == KindFunction) {
			return t.Name
		}
		return name
	}
	return "<unknown>"
}

// IsInteger reports whether t is any integer kind, signed or unsigned.
// Returns false for nil.
func IsInteger(t *Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindI8, KindI16, KindI32, KindI64, KindI128, KindInt, KindISize,
		KindU8, KindU16, KindU32, KindU64, KindU128, KindUint, KindUSize:
		return true
	default:
		return false
	}
}

// IsSignedInteger reports whether t is a signed integer kind. Returns
// false for nil and for unsigned kinds.
func IsSignedInteger(t *Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindI8, KindI16, KindI32, KindI64, KindI128, KindInt, KindISize:
		return true
	default:
		return false
	}
}
