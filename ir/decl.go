package ir

import (
	"fmt"

	"winrtgen/metadata"
)

// Guid is a decomposed interface identifier.
type Guid struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]uint8
}

// String renders the canonical dashed form for logs.
func (g Guid) String() string {
	return fmt.Sprintf("%08x-%04x-%04x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		g.Data1, g.Data2, g.Data3,
		g.Data4[0], g.Data4[1], g.Data4[2], g.Data4[3],
		g.Data4[4], g.Data4[5], g.Data4[6], g.Data4[7])
}

// Decl is one namespace-level declaration. Implementations are *EnumDecl,
// *StructDecl, *DelegateDecl, *InterfaceDecl and *ClassDecl.
type Decl interface {
	// DeclName is the declaration's type name without an arity suffix.
	DeclName() string

	isDecl()
}

// Namespace is all declarations of one dotted namespace, in declaration
// order.
type Namespace struct {
	Name  string
	Decls []Decl
}

// EnumDecl is a projected enum.
type EnumDecl struct {
	Name string
	// Repr is the underlying representation, ElementI32 or ElementU32.
	Repr metadata.ElementType
	// Default is the variant instances default to, the enum's first.
	Default  string
	Variants []Variant
}

// Variant is one enum member.
type Variant struct {
	Name  string
	Value int64
}

func (d *EnumDecl) DeclName() string { return d.Name }
func (*EnumDecl) isDecl()            {}

// StructDecl is a projected blittable struct.
type StructDecl struct {
	Name   string
	Fields []FieldDecl
}

// FieldDecl is one struct field with its original spelling.
type FieldDecl struct {
	Name string
	Type TypeExpr
}

func (d *StructDecl) DeclName() string { return d.Name }
func (*StructDecl) isDecl()            {}

// DelegateDecl is a projected delegate with its single invocation method.
type DelegateDecl struct {
	Name string
	// Generics lists formal parameter names for generic delegates.
	Generics []string
	Guid     Guid
	Invoke   Signature
}

func (d *DelegateDecl) DeclName() string { return d.Name }
func (*DelegateDecl) isDecl()            {}

// InterfaceDecl is a projected interface: its composed surface and the
// methods projected across it. Interfaces[0] is always the primary entry,
// and Methods owned by it form the leading run.
type InterfaceDecl struct {
	Name     string
	Generics []string
	Guid     Guid

	Interfaces []ComposedInterface
	Methods    []ProjectedMethod
}

func (d *InterfaceDecl) DeclName() string { return d.Name }
func (*InterfaceDecl) isDecl()            {}

// ClassDecl is a projected runtime class.
type ClassDecl struct {
	Name string
	// TypeName is the full runtime name, "Namespace.Name".
	TypeName string

	// HasDefault marks an instantiable class. Without a default interface
	// the class projects as an uninstantiable method holder.
	HasDefault bool
	// DefaultGuid identifies the default interface when HasDefault.
	DefaultGuid Guid

	Interfaces []ComposedInterface
	Methods    []ProjectedMethod

	// Bases holds conversions targets: each non-excluded base class,
	// nearest first.
	Bases []TypeExpr
}

func (d *ClassDecl) DeclName() string { return d.Name }
func (*ClassDecl) isDecl()            {}
