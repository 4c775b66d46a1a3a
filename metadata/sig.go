package metadata

// ElementType is a primitive signature element.
type ElementType int

const (
	ElementBool ElementType = iota
	ElementChar
	ElementI8
	ElementU8
	ElementI16
	ElementU16
	ElementI32
	ElementU32
	ElementI64
	ElementU64
	ElementF32
	ElementF64
	ElementString
	ElementObject
)

var elementNames = map[ElementType]string{
	ElementBool:   "bool",
	ElementChar:   "char",
	ElementI8:     "i8",
	ElementU8:     "u8",
	ElementI16:    "i16",
	ElementU16:    "u16",
	ElementI32:    "i32",
	ElementU32:    "u32",
	ElementI64:    "i64",
	ElementU64:    "u64",
	ElementF32:    "f32",
	ElementF64:    "f64",
	ElementString: "string",
	ElementObject: "object",
}

// String returns the element's document name.
func (e ElementType) String() string {
	if s, ok := elementNames[e]; ok {
		return s
	}
	return "unknown"
}

// ElementByName resolves a document name back to its element.
func ElementByName(name string) (ElementType, bool) {
	for e, s := range elementNames {
		if s == name {
			return e, true
		}
	}
	return 0, false
}

// SigKind discriminates the signature forms.
type SigKind int

const (
	// SigElement is a primitive element.
	SigElement SigKind = iota
	// SigType references a type definition directly.
	SigType
	// SigGeneric instantiates a generic definition with argument
	// signatures.
	SigGeneric
	// SigParam references a formal generic parameter of the enclosing
	// definition by index.
	SigParam
)

// Sig is one type signature as it appears in parameter, field and
// required-interface positions. Sigs are immutable once built.
type Sig struct {
	Kind SigKind

	// Element is set for SigElement.
	Element ElementType
	// Def is the referenced definition for SigType and SigGeneric.
	Def TypeID
	// Args are the instantiation arguments for SigGeneric.
	Args []Sig
	// Param is the zero-based generic parameter index for SigParam.
	Param int
}

// ElemSig builds a primitive element signature.
func ElemSig(e ElementType) Sig {
	return Sig{Kind: SigElement, Element: e}
}

// DefSig builds a direct definition reference.
func DefSig(def TypeID) Sig {
	return Sig{Kind: SigType, Def: def}
}

// InstSig builds a generic instantiation of def with the given arguments.
func InstSig(def TypeID, args ...Sig) Sig {
	return Sig{Kind: SigGeneric, Def: def, Args: args}
}

// ParamSig builds a reference to the generic parameter at index.
func ParamSig(index int) Sig {
	return Sig{Kind: SigParam, Param: index}
}
