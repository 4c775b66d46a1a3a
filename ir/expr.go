// Package ir holds the projection model the composition engine produces and
// the Rust backend renders: resolved type expressions, flattened interface
// surfaces, projected methods with their dual consumer and ABI signatures,
// and per-namespace declaration lists.
//
// Everything in this package is plain resolved data. Generic parameter
// references have been substituted through their instantiation frames, method
// names are final, and collision and exclusion decisions are already baked
// in. Rendering concerns such as relative module paths, keyword escaping and
// snake case folding stay out of the model.
package ir

import (
	"strings"

	"winrtgen/metadata"
)

// ExprKind discriminates TypeExpr implementations.
type ExprKind int

const (
	KindElement ExprKind = iota
	KindNamed
	KindInstance
	KindParam
)

// TypeExpr is a resolved type expression. Implementations are ElementExpr,
// NamedExpr, InstanceExpr and ParamExpr; the interface is sealed.
type TypeExpr interface {
	Kind() ExprKind
	// String renders a display form for logs and error messages, not
	// Rust source.
	String() string

	isTypeExpr()
}

type exprBase struct{}

func (exprBase) isTypeExpr() {}

// ElementExpr is a primitive element.
type ElementExpr struct {
	exprBase
	Element metadata.ElementType
}

func (ElementExpr) Kind() ExprKind { return KindElement }

func (e ElementExpr) String() string { return e.Element.String() }

// NamedExpr references a non-generic declaration. Name carries the metadata
// spelling without an arity suffix.
type NamedExpr struct {
	exprBase
	Namespace string
	Name      string
}

func (NamedExpr) Kind() ExprKind { return KindNamed }

func (e NamedExpr) String() string { return e.Namespace + "." + e.Name }

// InstanceExpr references a generic declaration applied to resolved
// arguments.
type InstanceExpr struct {
	exprBase
	Namespace string
	Name      string
	Args      []TypeExpr
}

func (InstanceExpr) Kind() ExprKind { return KindInstance }

func (e InstanceExpr) String() string {
	var b strings.Builder
	b.WriteString(e.Namespace)
	b.WriteByte('.')
	b.WriteString(e.Name)
	b.WriteByte('<')
	for i, a := range e.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte('>')
	return b.String()
}

// ParamExpr is a formal generic parameter. It survives resolution only
// inside the declaration of the generic type that introduces it.
type ParamExpr struct {
	exprBase
	Name string
}

func (ParamExpr) Kind() ExprKind { return KindParam }

func (e ParamExpr) String() string { return e.Name }

// Frame is one instantiation's resolved arguments, positional by the formal
// parameter index of the instantiated declaration.
type Frame []TypeExpr
