package ir

import "winrtgen/metadata"

// ParamCategory drives how a value crosses the consumer boundary: which
// parameters become convertible type parameters, how arguments reach the
// ABI, and how results are received.
type ParamCategory int

const (
	// CatPrimitive passes by value.
	CatPrimitive ParamCategory = iota
	// CatEnum passes by value like a primitive.
	CatEnum
	// CatString converts through a string parameter.
	CatString
	// CatObject covers interfaces, classes, delegates and generic
	// instantiations, converted through an object parameter.
	CatObject
	// CatStruct passes by value but converts through a parameter like an
	// object.
	CatStruct
	// CatGeneric is an unsubstituted formal parameter, passed by
	// reference and marshaled through its runtime trait.
	CatGeneric
)

// String returns the category's display name.
func (c ParamCategory) String() string {
	switch c {
	case CatPrimitive:
		return "primitive"
	case CatEnum:
		return "enum"
	case CatString:
		return "string"
	case CatObject:
		return "object"
	case CatStruct:
		return "struct"
	case CatGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// Convertible reports whether consumer call sites take this value through a
// generic into-parameter.
func (c ParamCategory) Convertible() bool {
	return c == CatString || c == CatObject || c == CatStruct
}

// AbiKind discriminates ABI type forms.
type AbiKind int

const (
	// AbiElement is a primitive scalar slot.
	AbiElement AbiKind = iota
	// AbiRawPtr is an opaque pointer slot: strings, objects and generic
	// instantiations.
	AbiRawPtr
	// AbiGuid is a GUID by value.
	AbiGuid
	// AbiNamed is an enum or struct by value.
	AbiNamed
	// AbiOf defers to the ABI of a resolved expression through its
	// runtime trait.
	AbiOf
)

// AbiType is the ABI-side type of one logical parameter before slot
// expansion.
type AbiType struct {
	Kind AbiKind

	// Element is set for AbiElement. Strings and objects never appear
	// here; they lower to AbiRawPtr.
	Element metadata.ElementType

	// Expr is set for AbiNamed and AbiOf.
	Expr TypeExpr
}

// Param is one logical parameter with both of its derived views.
type Param struct {
	Name string

	// Type is the consumer-projected type expression.
	Type TypeExpr

	// Abi is the ABI-side base type. Direction and array flags expand it
	// into concrete slots at render time.
	Abi AbiType

	Category ParamCategory

	// In marks an input. Outputs receive through a pointer slot.
	In bool
	// Array marks a length-and-pointer pair.
	Array bool
	// ByRef marks a callee-allocated result array.
	ByRef bool
}

// Signature carries a method's resolved parameters and result.
type Signature struct {
	Params []Param
	// Return is nil for methods without a result. The result occupies a
	// trailing output slot at the ABI.
	Return *Param
}

// ProjectedMethod is one method of a composed surface after name projection
// and collision resolution.
type ProjectedMethod struct {
	// Name is the final projected name, folded and deduplicated.
	Name string

	// Owner indexes the surface's interface list.
	Owner int

	Category metadata.MethodCategory

	// Sig is nil only for the synthesized parameterless constructor.
	Sig *Signature

	// Dropped marks a method that keeps its slot but is not projected:
	// either its name lost a collision against an earlier entry, or its
	// signature reaches excluded namespaces.
	Dropped bool
}
