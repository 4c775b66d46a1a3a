// Package metadata models the resolved view of a WinRT metadata file: typed
// records for interfaces, classes, structs, enums and delegates, their
// method and field signatures, and their custom attributes. The composition
// engine consumes this view read-only and by random access.
//
// The model is an arena: every type lives in a Store slot addressed by a
// TypeID, and all cross-type references (base classes, required interfaces,
// signature targets) are TypeIDs rather than pointers. TypeIDs are stable
// within a Store and usable as sort and map keys.
package metadata

// TypeID addresses a type record within a Store.
type TypeID int32

// None marks the absence of a type, such as the synthesized default
// activation entry that has no backing definition.
const None TypeID = -1

// Valid reports whether the id addresses a real record.
func (id TypeID) Valid() bool { return id >= 0 }

// TypeCategory classifies a type record.
type TypeCategory int

const (
	CategoryInterface TypeCategory = iota
	CategoryClass
	CategoryStruct
	CategoryEnum
	CategoryDelegate
)

// String returns the lowercase category name used in documents and logs.
func (c TypeCategory) String() string {
	switch c {
	case CategoryInterface:
		return "interface"
	case CategoryClass:
		return "class"
	case CategoryStruct:
		return "struct"
	case CategoryEnum:
		return "enum"
	case CategoryDelegate:
		return "delegate"
	default:
		return "unknown"
	}
}

// MethodCategory is the accessor classification the reader derives from a
// method's semantic flags.
type MethodCategory int

const (
	MethodNormal MethodCategory = iota
	MethodGet
	MethodSet
	MethodAdd
	MethodRemove
)

// String returns the lowercase accessor name.
func (c MethodCategory) String() string {
	switch c {
	case MethodNormal:
		return "normal"
	case MethodGet:
		return "get"
	case MethodSet:
		return "set"
	case MethodAdd:
		return "add"
	case MethodRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// IsAccessor reports whether the method is property- or event-derived.
func (c MethodCategory) IsAccessor() bool { return c != MethodNormal }

// TypeDef is one type record. Records are value types owned by the Store;
// the engine only ever reads them.
type TypeDef struct {
	Namespace string
	Name      string
	Category  TypeCategory

	// Generics lists the formal generic parameter names, in declaration
	// order. Non-empty only for generic interfaces and delegates, whose
	// metadata names carry a backtick arity suffix ("IVector`1").
	Generics []string

	// Bases is the full base class chain, nearest first. Classes only.
	Bases []TypeID

	// Impls lists the declared required-interface edges.
	Impls []InterfaceImpl

	Fields  []Field
	Methods []Method
	Attrs   []Attribute
}

// QualifiedName returns "Namespace.Name".
func (t *TypeDef) QualifiedName() string {
	return t.Namespace + "." + t.Name
}

// FindAttribute returns the first attribute with the given namespace and
// name, or nil.
func (t *TypeDef) FindAttribute(ns, name string) *Attribute {
	return findAttribute(t.Attrs, ns, name)
}

// HasAttribute reports whether an attribute with the given namespace and
// name is present.
func (t *TypeDef) HasAttribute(ns, name string) bool {
	return t.FindAttribute(ns, name) != nil
}

// InterfaceImpl is one required-interface edge. The default and overridable
// markers live on the edge, not on the target interface.
type InterfaceImpl struct {
	// Target is the implemented interface: a definition reference or, for
	// generic instantiations, an instantiation signature.
	Target Sig

	Attrs []Attribute
}

// HasAttribute reports whether the edge carries the given marker attribute.
func (i InterfaceImpl) HasAttribute(ns, name string) bool {
	return findAttribute(i.Attrs, ns, name) != nil
}

// Field is one field record. Enum members carry their constant value;
// the first field of an enum is the unnamed representation marker and has
// none.
type Field struct {
	Name     string
	Sig      Sig
	Constant *int64
}

// Param is one parameter record with its direction and shape flags.
type Param struct {
	Name string
	Sig  Sig

	// In marks an input parameter; outputs receive through a pointer slot.
	In bool
	// Array marks a (length, pointer) array pair at the ABI boundary.
	Array bool
	// ByRef marks a resizable output array whose callee allocates the
	// buffer and reports the final length.
	ByRef bool
}

// Method is one method record.
type Method struct {
	Name     string
	Category MethodCategory
	Params   []Param
	// Return is nil for methods without a return value.
	Return *Param
	Attrs  []Attribute
}

// FindAttribute returns the first matching method attribute, or nil.
func (m *Method) FindAttribute(ns, name string) *Attribute {
	return findAttribute(m.Attrs, ns, name)
}

// AttrArgKind is the value kind of one positional attribute argument.
type AttrArgKind int

const (
	ArgU8 AttrArgKind = iota
	ArgU16
	ArgU32
	ArgString
	ArgType
)

// AttrArg is one positional custom-attribute argument.
type AttrArg struct {
	Kind AttrArgKind

	// Num holds the widened value for ArgU8/ArgU16/ArgU32.
	Num uint32
	// Str holds the value for ArgString.
	Str string
	// Type holds the referenced definition for ArgType.
	Type TypeID
}

// Attribute is one custom attribute with its positional arguments.
type Attribute struct {
	Namespace string
	Name      string
	Args      []AttrArg
}

// FactoryType returns the first type-valued argument, used by the static and
// activatable markers to name their factory interface. ok is false when the
// attribute carries no type argument.
func (a *Attribute) FactoryType() (TypeID, bool) {
	for _, arg := range a.Args {
		if arg.Kind == ArgType {
			return arg.Type, true
		}
	}
	return None, false
}

func findAttribute(attrs []Attribute, ns, name string) *Attribute {
	for i := range attrs {
		if attrs[i].Namespace == ns && attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

// Well-known metadata names the engine keys decisions on.
const (
	// FoundationMetadata is the namespace holding the marker attributes.
	FoundationMetadata = "Windows.Foundation.Metadata"

	AttrDefault     = "DefaultAttribute"
	AttrOverridable = "OverridableAttribute"
	AttrExclusiveTo = "ExclusiveToAttribute"
	AttrStatic      = "StaticAttribute"
	AttrActivatable = "ActivatableAttribute"
	AttrGuid        = "GuidAttribute"
	AttrOverload    = "OverloadAttribute"

	// SystemNamespace holds shared system types such as Guid. It is never
	// subject to namespace exclusion.
	SystemNamespace = "System"
	GuidTypeName    = "Guid"

	// FoundationNamespace holds EventRegistrationToken, which crosses the
	// ABI boundary as a bare i64.
	FoundationNamespace = "Windows.Foundation"
	EventTokenTypeName  = "EventRegistrationToken"
)
