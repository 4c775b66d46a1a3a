package rust

import (
	"fmt"
	"strings"

	"winrtgen/ir"
	"winrtgen/metadata"
)

// consumerParams renders the declared parameter list of a projected method.
// Array parameters pass as slices, receive arrays through the runtime array
// wrapper. Convertible inputs take the __N conversion parameter declared by
// intoParams, indexed by full parameter position so the two lists always
// agree.
func (w *writer) consumerParams(sig *ir.Signature) string {
	parts := make([]string, 0, len(sig.Params))
	for i := range sig.Params {
		p := &sig.Params[i]
		name := escape(p.Name)
		t := w.typeName(p.Type, typePos)

		var decl string
		switch {
		case p.Array && p.In:
			decl = "&[" + t + "]"
		case p.Array && p.ByRef:
			decl = "&mut winrt::Array<" + t + ">"
		case p.Array:
			decl = "&mut [" + t + "]"
		case p.In && p.Category.Convertible():
			decl = fmt.Sprintf("__%d", i)
		case p.In && (p.Category == ir.CatPrimitive || p.Category == ir.CatEnum):
			decl = t
		case p.In:
			decl = "&" + t
		default:
			decl = "&mut " + t
		}
		parts = append(parts, name+": "+decl)
	}
	return strings.Join(parts, ", ")
}

// intoParams renders the generic conversion parameters for string, object and
// struct inputs, led by the 'a lifetime they borrow against.
func (w *writer) intoParams(sig *ir.Signature) string {
	var parts []string
	for i := range sig.Params {
		p := &sig.Params[i]
		if !p.In || p.Array {
			continue
		}
		switch p.Category {
		case ir.CatString:
			parts = append(parts, fmt.Sprintf("__%d: Into<winrt::StringParam<'a>>", i))
		case ir.CatObject, ir.CatStruct:
			parts = append(parts, fmt.Sprintf("__%d: Into<winrt::Param<'a, %s>>", i, w.typeName(p.Type, typePos)))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "'a, " + strings.Join(parts, ", ")
}

// consumeArgs forwards parameters by name to a delegating dispatch target.
func consumeArgs(sig *ir.Signature) string {
	parts := make([]string, len(sig.Params))
	for i := range sig.Params {
		parts[i] = escape(sig.Params[i].Name)
	}
	return strings.Join(parts, ", ")
}

// abiArgs lowers the consumer arguments for a vtable call.
func (w *writer) abiArgs(sig *ir.Signature) string {
	parts := make([]string, 0, len(sig.Params))
	for i := range sig.Params {
		p := &sig.Params[i]
		name := escape(p.Name)

		var arg string
		switch {
		case p.Array && p.In:
			arg = name + ".len() as u32, std::mem::transmute(" + name + ".as_ptr())"
		case p.Array && p.ByRef:
			arg = name + ".set_abi_len(), " + name + ".set_abi()"
		case p.Array:
			arg = name + ".len() as u32, std::mem::transmute_copy(&" + name + ")"
		case p.In:
			switch p.Category {
			case ir.CatEnum, ir.CatPrimitive:
				arg = name
			case ir.CatString, ir.CatObject, ir.CatStruct:
				arg = name + ".into().abi()"
			default:
				arg = "winrt::RuntimeType::abi(" + name + ")"
			}
		default:
			switch p.Category {
			case ir.CatEnum, ir.CatPrimitive, ir.CatStruct:
				arg = name
			default:
				arg = "winrt::RuntimeType::set_abi(" + name + ")"
			}
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, ", ")
}

// abiParams renders the vtable slot's parameter types after the this pointer.
// The return value travels as trailing receive slots: a pointer for scalars,
// a length pointer and buffer pointer pair for arrays.
func (w *writer) abiParams(sig *ir.Signature) string {
	var parts []string
	for i := range sig.Params {
		p := &sig.Params[i]
		t := w.abiName(p.Abi)
		switch {
		case p.Array && p.In:
			parts = append(parts, "u32, *const "+t)
		case p.Array && p.ByRef:
			parts = append(parts, "*mut u32, *mut *mut "+t)
		case p.Array:
			parts = append(parts, "u32, *mut "+t)
		case p.In:
			parts = append(parts, t)
		default:
			parts = append(parts, "*mut "+t)
		}
	}
	if r := sig.Return; r != nil {
		t := w.abiName(r.Abi)
		if r.Array {
			parts = append(parts, "*mut u32, *mut *mut "+t)
		} else {
			parts = append(parts, "*mut "+t)
		}
	}
	return strings.Join(parts, ", ")
}

// returnType renders the consumer return type inside winrt::Result.
func (w *writer) returnType(sig *ir.Signature) string {
	if sig.Return == nil {
		return "()"
	}
	t := w.typeName(sig.Return.Type, typePos)
	if sig.Return.Array {
		return "winrt::Array<" + t + ">"
	}
	return t
}

// receiveExpr renders the receive argument filling __ok from the ABI call.
func (w *writer) receiveExpr(r *ir.Param) string {
	t := w.typeName(r.Type, typePos)
	switch {
	case r.Array:
		return fmt.Sprintf("winrt::Array::<%s>::set_abi_len(&mut __ok), winrt::Array::<%s>::set_abi(&mut __ok)", t, t)
	case r.Category == ir.CatGeneric:
		return fmt.Sprintf("<%s as winrt::RuntimeType>::set_abi(&mut __ok)", t)
	default:
		return "&mut __ok"
	}
}

// method renders one projected method, dispatched by the owning surface
// entry's role. Factory roles produce associated functions without a
// receiver.
func (w *writer) method(surface []ir.ComposedInterface, m *ir.ProjectedMethod) {
	owner := &surface[m.Owner]
	if owner.Role == ir.RoleDefaultActivation {
		w.open("pub fn new() -> winrt::Result<Self> {")
		w.line("winrt::factory::<Self, winrt::IActivationFactory>()?.activate_instance::<Self>()")
		w.close("}")
		return
	}

	name := escape(m.Name)
	typeParams := ""
	if into := w.intoParams(m.Sig); into != "" {
		typeParams = "<" + into + ">"
	}
	params := w.consumerParams(m.Sig)
	result := w.returnType(m.Sig)
	target := w.typeName(owner.Ref, typePos)

	receiver := "&self"
	if params != "" {
		receiver += ", " + params
	}

	switch owner.Role {
	case ir.RolePrimary:
		w.open("pub fn %s%s(%s) -> winrt::Result<%s> {", name, typeParams, receiver, result)
		w.open("unsafe {")
		call := "self.ptr.get()"
		if args := w.abiArgs(m.Sig); args != "" {
			call += ", " + args
		}
		if m.Sig.Return != nil {
			call += ", " + w.receiveExpr(m.Sig.Return)
			w.line("let mut __ok = std::mem::zeroed();")
			w.line("((*(*(self.ptr.get() as *const *const abi::%s))).%s)(%s).ok_or(std::mem::transmute_copy(&__ok))", target, name, call)
		} else {
			w.line("((*(*(self.ptr.get() as *const *const abi::%s))).%s)(%s).ok()", target, name, call)
		}
		w.close("}")
		w.close("}")
	case ir.RoleDefaultInstance:
		w.open("pub fn %s%s(%s) -> winrt::Result<%s> {", name, typeParams, receiver, result)
		w.open("unsafe {")
		w.line("let __default: &%s = std::mem::transmute_copy(&self);", target)
		w.line("__default.%s(%s)", name, consumeArgs(m.Sig))
		w.close("}")
		w.close("}")
	case ir.RoleInstance:
		w.open("pub fn %s%s(%s) -> winrt::Result<%s> {", name, typeParams, receiver, result)
		w.line("<%s as From<&Self>>::from(self).%s(%s)", target, name, consumeArgs(m.Sig))
		w.close("}")
	case ir.RoleStatic, ir.RoleActivation:
		w.open("pub fn %s%s(%s) -> winrt::Result<%s> {", name, typeParams, params, result)
		w.line("winrt::factory::<Self, %s>()?.%s(%s)", target, name, consumeArgs(m.Sig))
		w.close("}")
	}
}

// methods renders the consumer surface, skipping dropped projections and
// event removal accessors.
func (w *writer) methods(surface []ir.ComposedInterface, methods []ir.ProjectedMethod) {
	for i := range methods {
		m := &methods[i]
		if m.Dropped || m.Category == metadata.MethodRemove {
			continue
		}
		w.method(surface, m)
	}
}
