package compose

import (
	"fmt"

	"winrtgen/ir"
	"winrtgen/metadata"
)

// typeExpr resolves a metadata signature into a projected type expression.
// Generic parameter references substitute through the innermost stack frame.
func (e *Engine) typeExpr(s metadata.Sig) ir.TypeExpr {
	switch s.Kind {
	case metadata.SigElement:
		return ir.ElementExpr{Element: s.Element}
	case metadata.SigType:
		t := e.mustType(s.Def)
		return ir.NamedExpr{Namespace: t.Namespace, Name: t.Name}
	case metadata.SigGeneric:
		t := e.mustType(s.Def)
		args := make([]ir.TypeExpr, len(s.Args))
		for i, a := range s.Args {
			args[i] = e.typeExpr(a)
		}
		return ir.InstanceExpr{Namespace: t.Namespace, Name: strippedName(t.Name), Args: args}
	case metadata.SigParam:
		return e.stack.Resolve(s.Param)
	default:
		panic(fmt.Sprintf("compose: unknown signature kind %d", s.Kind))
	}
}

// category classifies how a signature's values cross the consumer boundary.
func (e *Engine) category(s metadata.Sig) ir.ParamCategory {
	switch s.Kind {
	case metadata.SigElement:
		switch s.Element {
		case metadata.ElementString:
			return ir.CatString
		case metadata.ElementObject:
			return ir.CatObject
		default:
			return ir.CatPrimitive
		}
	case metadata.SigType:
		switch e.mustType(s.Def).Category {
		case metadata.CategoryEnum:
			return ir.CatEnum
		case metadata.CategoryStruct:
			return ir.CatStruct
		default:
			return ir.CatObject
		}
	case metadata.SigGeneric:
		return ir.CatObject
	case metadata.SigParam:
		return ir.CatGeneric
	default:
		panic(fmt.Sprintf("compose: unknown signature kind %d", s.Kind))
	}
}

// abiType lowers a signature to its ABI-side base type. Strings, objects and
// instantiations cross as opaque pointers, enums and most structs by value.
// Two structs lower specially: event registration tokens cross as their
// underlying 64-bit value, and GUIDs as the intrinsic GUID slot.
func (e *Engine) abiType(s metadata.Sig) ir.AbiType {
	switch s.Kind {
	case metadata.SigElement:
		switch s.Element {
		case metadata.ElementString, metadata.ElementObject:
			return ir.AbiType{Kind: ir.AbiRawPtr}
		default:
			return ir.AbiType{Kind: ir.AbiElement, Element: s.Element}
		}
	case metadata.SigType:
		t := e.mustType(s.Def)
		switch t.Category {
		case metadata.CategoryEnum:
			return ir.AbiType{Kind: ir.AbiNamed, Expr: e.typeExpr(s)}
		case metadata.CategoryStruct:
			if t.Namespace == metadata.FoundationNamespace && t.Name == metadata.EventTokenTypeName {
				return ir.AbiType{Kind: ir.AbiElement, Element: metadata.ElementI64}
			}
			if t.Namespace == metadata.SystemNamespace && t.Name == metadata.GuidTypeName {
				return ir.AbiType{Kind: ir.AbiGuid}
			}
			return ir.AbiType{Kind: ir.AbiNamed, Expr: e.typeExpr(s)}
		default:
			return ir.AbiType{Kind: ir.AbiRawPtr}
		}
	case metadata.SigGeneric:
		return ir.AbiType{Kind: ir.AbiRawPtr}
	case metadata.SigParam:
		return ir.AbiType{Kind: ir.AbiOf, Expr: e.stack.Resolve(s.Param)}
	default:
		panic(fmt.Sprintf("compose: unknown signature kind %d", s.Kind))
	}
}

// deriveSignature projects a method's full signature. The caller has pushed
// the owning interface's frame chain, so parameter references resolve against
// the right instantiation.
func (e *Engine) deriveSignature(m *metadata.Method) ir.Signature {
	var sig ir.Signature
	for i := range m.Params {
		sig.Params = append(sig.Params, e.deriveParam(&m.Params[i]))
	}
	if m.Return != nil {
		r := e.deriveParam(m.Return)
		sig.Return = &r
	}
	return sig
}

func (e *Engine) deriveParam(p *metadata.Param) ir.Param {
	return ir.Param{
		Name:     p.Name,
		Type:     e.typeExpr(p.Sig),
		Abi:      e.abiType(p.Sig),
		Category: e.category(p.Sig),
		In:       p.In,
		Array:    p.Array,
		ByRef:    p.ByRef,
	}
}

// limitedMethod reports whether any part of a method's signature reaches an
// excluded namespace.
func (e *Engine) limitedMethod(m *metadata.Method) bool {
	if m.Return != nil && e.limitedSig(m.Return.Sig) {
		return true
	}
	for i := range m.Params {
		if e.limitedSig(m.Params[i].Sig) {
			return true
		}
	}
	return false
}

// limitedSig reports whether a signature reaches an excluded namespace. An
// instantiation is limited when its definition or any argument is.
func (e *Engine) limitedSig(s metadata.Sig) bool {
	switch s.Kind {
	case metadata.SigType:
		return e.excludedNamespace(e.mustType(s.Def).Namespace)
	case metadata.SigGeneric:
		if e.excludedNamespace(e.mustType(s.Def).Namespace) {
			return true
		}
		for _, a := range s.Args {
			if e.limitedSig(a) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// mustType returns the record for id. Signatures only carry ids minted by
// the same store, so a miss is a caller bug.
func (e *Engine) mustType(id metadata.TypeID) *metadata.TypeDef {
	t := e.store.Type(id)
	if t == nil {
		panic(fmt.Sprintf("compose: signature references unknown type %d", id))
	}
	return t
}
