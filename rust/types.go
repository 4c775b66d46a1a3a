package rust

import (
	"fmt"
	"strings"

	"winrtgen/ir"
	"winrtgen/metadata"
)

// pos tells the type renderer whether generic arguments need the turbofish
// spelling. Type positions take Name<T>; identifier positions such as
// Name::<T>::from need the qualified form.
type pos int

const (
	typePos pos = iota
	exprPos
)

var elementNames = map[metadata.ElementType]string{
	metadata.ElementBool:   "bool",
	metadata.ElementChar:   "u16",
	metadata.ElementI8:     "i8",
	metadata.ElementU8:     "u8",
	metadata.ElementI16:    "i16",
	metadata.ElementU16:    "u16",
	metadata.ElementI32:    "i32",
	metadata.ElementU32:    "u32",
	metadata.ElementI64:    "i64",
	metadata.ElementU64:    "u64",
	metadata.ElementF32:    "f32",
	metadata.ElementF64:    "f64",
	metadata.ElementString: "winrt::HString",
	metadata.ElementObject: "winrt::Object",
}

func elementName(e metadata.ElementType) string {
	if s, ok := elementNames[e]; ok {
		return s
	}
	panic(fmt.Sprintf("rust: unknown element type %d", e))
}

// typeName renders a resolved type expression relative to the writer's
// position in the module tree.
func (w *writer) typeName(t ir.TypeExpr, p pos) string {
	switch t := t.(type) {
	case ir.ElementExpr:
		return elementName(t.Element)
	case ir.NamedExpr:
		if t.Namespace == metadata.SystemNamespace && t.Name == metadata.GuidTypeName {
			return "winrt::Guid"
		}
		return w.prefix(t.Namespace) + escape(t.Name)
	case ir.InstanceExpr:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = w.typeName(a, typePos)
		}
		open := "<"
		if p == exprPos {
			open = "::<"
		}
		return w.prefix(t.Namespace) + escape(t.Name) + open + strings.Join(args, ", ") + ">"
	case ir.ParamExpr:
		return escape(t.Name)
	default:
		panic(fmt.Sprintf("rust: unknown type expression %T", t))
	}
}

// abiName renders the ABI-side base type of a lowered parameter.
func (w *writer) abiName(a ir.AbiType) string {
	switch a.Kind {
	case ir.AbiElement:
		return elementName(a.Element)
	case ir.AbiRawPtr:
		return "winrt::RawPtr"
	case ir.AbiGuid:
		return "winrt::Guid"
	case ir.AbiNamed:
		return w.typeName(a.Expr, typePos)
	case ir.AbiOf:
		return "<" + w.typeName(a.Expr, typePos) + " as winrt::RuntimeType>::Abi"
	default:
		panic(fmt.Sprintf("rust: unknown abi kind %d", a.Kind))
	}
}

// generics carries a declaration's formal parameters through rendering.
type generics struct {
	names []string
}

func declGenerics(names []string) generics {
	return generics{names: names}
}

// args renders "T, U", or the empty string.
func (g generics) args() string {
	return strings.Join(g.names, ", ")
}

// suffix renders "<T, U>" after a type name, or the empty string.
func (g generics) suffix() string {
	if len(g.names) == 0 {
		return ""
	}
	return "<" + g.args() + ">"
}

// constraints renders the formal parameters with their runtime bounds.
func (g generics) constraints() string {
	parts := make([]string, len(g.names))
	for i, n := range g.names {
		parts[i] = n + ": winrt::RuntimeType + 'static"
	}
	return strings.Join(parts, ", ")
}

// declSuffix renders "<T: winrt::RuntimeType + 'static>" for struct and trait
// headers, or the empty string.
func (g generics) declSuffix() string {
	if len(g.names) == 0 {
		return ""
	}
	return "<" + g.constraints() + ">"
}

// impl renders the impl introducer with any extra leading parameters, such as
// the 'a lifetime of parameter conversions.
func (g generics) impl(extra ...string) string {
	parts := append([]string{}, extra...)
	if c := g.constraints(); c != "" {
		parts = append(parts, c)
	}
	if len(parts) == 0 {
		return "impl"
	}
	return "impl<" + strings.Join(parts, ", ") + ">"
}

// guidValues renders the from_values argument list.
func guidValues(g ir.Guid) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d, %d, %d, &[", g.Data1, g.Data2, g.Data3)
	for i, v := range g.Data4 {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d", v)
	}
	b.WriteString("]")
	return b.String()
}
