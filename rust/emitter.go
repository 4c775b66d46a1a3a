package rust

import (
	"winrtgen/internal/casing"
	"winrtgen/ir"
)

// namespace renders one namespace body: consumer declarations in declaration
// order, then the abi vtable module, then the capability trait module.
func (w *writer) namespace(ns *ir.Namespace) {
	abi := w.child()
	traits := w.child()

	for i, d := range ns.Decls {
		if i > 0 {
			w.blank()
		}
		switch t := d.(type) {
		case *ir.EnumDecl:
			w.enumDecl(t)
		case *ir.StructDecl:
			w.structDecl(t)
		case *ir.DelegateDecl:
			w.delegateDecl(t)
			abi.sep()
			abi.delegateAbi(t)
		case *ir.InterfaceDecl:
			w.interfaceDecl(t)
			abi.sep()
			abi.interfaceAbi(t)
			traits.sep()
			traits.interfaceTrait(t)
		case *ir.ClassDecl:
			w.classDecl(t)
		}
	}

	if len(ns.Decls) > 0 {
		w.blank()
	}
	w.spliceMod("abi", abi)
	w.blank()
	w.spliceMod("traits", traits)
}

func (w *writer) spliceMod(name string, c *writer) {
	if c.buf.Len() == 0 {
		w.line("pub mod %s {}", name)
		return
	}
	w.open("pub mod %s {", name)
	w.buf.Write(c.buf.Bytes())
	w.close("}")
}

func (w *writer) enumDecl(d *ir.EnumDecl) {
	name := escape(d.Name)
	w.line("#[repr(%s)]", d.Repr)
	w.line("#[derive(Copy, Clone, Debug, PartialEq)]")
	w.open("pub enum %s {", name)
	for _, v := range d.Variants {
		w.line("%s = %d,", escape(v.Name), v.Value)
	}
	w.close("}")
	w.line("impl winrt::RuntimeCopy for %s {}", name)
	w.open("impl Default for %s {", name)
	w.open("fn default() -> Self {")
	w.line("Self::%s", escape(d.Default))
	w.close("}")
	w.close("}")
}

func (w *writer) structDecl(d *ir.StructDecl) {
	name := escape(d.Name)
	w.line("#[repr(C)]")
	w.line("#[derive(Copy, Clone, Default, Debug, PartialEq)]")
	w.open("pub struct %s {", name)
	for _, f := range d.Fields {
		w.line("pub %s: %s,", escape(casing.Snake(f.Name)), w.typeName(f.Type, typePos))
	}
	w.close("}")
	w.line("impl winrt::RuntimeCopy for %s {}", name)
	w.paramConversions(declGenerics(nil), name)
}

func (w *writer) delegateDecl(d *ir.DelegateDecl) {
	g := declGenerics(d.Generics)
	name := escape(d.Name)
	self := name + g.suffix()

	w.ptrStruct(name, g)
	w.open("%s %s {", g.impl(), self)
	w.invokeMethod(d, self)
	w.close("}")
	w.queryType(g, self, d.Guid)
	w.runtimeType(g, self)
	w.paramConversions(g, self)
}

// invokeMethod renders the delegate's invoke through its own vtable slot.
func (w *writer) invokeMethod(d *ir.DelegateDecl, self string) {
	sig := &d.Invoke
	typeParams := ""
	if into := w.intoParams(sig); into != "" {
		typeParams = "<" + into + ">"
	}
	receiver := "&self"
	if params := w.consumerParams(sig); params != "" {
		receiver += ", " + params
	}

	w.open("pub fn invoke%s(%s) -> winrt::Result<%s> {", typeParams, receiver, w.returnType(sig))
	w.open("unsafe {")
	call := "self.ptr.get()"
	if args := w.abiArgs(sig); args != "" {
		call += ", " + args
	}
	if sig.Return != nil {
		call += ", " + w.receiveExpr(sig.Return)
		w.line("let mut __ok = std::mem::zeroed();")
		w.line("((*(*(self.ptr.get() as *const *const abi::%s))).invoke)(%s).ok_or(std::mem::transmute_copy(&__ok))", self, call)
	} else {
		w.line("((*(*(self.ptr.get() as *const *const abi::%s))).invoke)(%s).ok()", self, call)
	}
	w.close("}")
	w.close("}")
}

func (w *writer) delegateAbi(d *ir.DelegateDecl) {
	g := declGenerics(d.Generics)
	w.line("#[repr(C)]")
	w.open("pub struct %s%s {", escape(d.Name), g.declSuffix())
	w.line("__base: [usize; 3],")
	slot := "winrt::RawPtr"
	if params := w.abiParams(&d.Invoke); params != "" {
		slot += ", " + params
	}
	w.line("pub invoke: extern \"system\" fn(%s) -> winrt::ErrorCode,", slot)
	w.phantoms(g)
	w.close("}")
}

func (w *writer) interfaceDecl(d *ir.InterfaceDecl) {
	g := declGenerics(d.Generics)
	name := escape(d.Name)
	self := name + g.suffix()

	w.ptrStruct(name, g)
	w.open("%s %s {", g.impl(), self)
	w.methods(d.Interfaces, d.Methods)
	w.close("}")
	w.queryType(g, self, d.Guid)
	w.runtimeType(g, self)
	w.paramConversions(g, self)
	w.interfaceConversions(g, self, d.Interfaces)
}

// interfaceAbi renders the vtable record: six inherited inspection slots,
// then one slot per primary-surface method.
func (w *writer) interfaceAbi(d *ir.InterfaceDecl) {
	g := declGenerics(d.Generics)
	w.line("#[repr(C)]")
	w.open("pub struct %s%s {", escape(d.Name), g.declSuffix())
	w.line("__base: [usize; 6],")
	for i := range d.Methods {
		m := &d.Methods[i]
		if m.Owner != 0 {
			break
		}
		slot := "winrt::RawPtr"
		if params := w.abiParams(m.Sig); params != "" {
			slot += ", " + params
		}
		w.line("pub %s: extern \"system\" fn(%s) -> winrt::ErrorCode,", escape(m.Name), slot)
	}
	w.phantoms(g)
	w.close("}")
}

// interfaceTrait renders the capability trait covering the primary surface.
func (w *writer) interfaceTrait(d *ir.InterfaceDecl) {
	g := declGenerics(d.Generics)
	w.open("pub trait %s%s {", escape(d.Name), g.declSuffix())
	for i := range d.Methods {
		m := &d.Methods[i]
		if m.Owner != 0 {
			break
		}
		typeParams := ""
		if into := w.intoParams(m.Sig); into != "" {
			typeParams = "<" + into + ">"
		}
		receiver := "&self"
		if params := w.consumerParams(m.Sig); params != "" {
			receiver += ", " + params
		}
		w.line("fn %s%s(%s) -> winrt::Result<%s>;", escape(m.Name), typeParams, receiver, w.returnType(m.Sig))
	}
	w.close("}")
}

func (w *writer) classDecl(d *ir.ClassDecl) {
	name := escape(d.Name)
	g := declGenerics(nil)

	if !d.HasDefault {
		w.line("pub struct %s {}", name)
		w.open("impl %s {", name)
		w.methods(d.Interfaces, d.Methods)
		w.close("}")
		w.typeNameImpl(name, d.TypeName)
		return
	}

	w.ptrStruct(name, g)
	w.open("impl %s {", name)
	w.methods(d.Interfaces, d.Methods)
	w.close("}")
	w.queryType(g, name, d.DefaultGuid)
	w.typeNameImpl(name, d.TypeName)
	w.runtimeType(g, name)
	w.paramConversions(g, name)
	w.interfaceConversions(g, name, d.Interfaces)
	w.baseConversions(name, d.Bases)
}

// ptrStruct renders the reference-counted pointer wrapper shared by
// interfaces, delegates and defaulted classes.
func (w *writer) ptrStruct(name string, g generics) {
	w.line("#[repr(C)]")
	w.line("#[derive(Default, Clone)]")
	w.open("pub struct %s%s {", name, g.declSuffix())
	w.line("ptr: winrt::ComPtr,")
	w.phantoms(g)
	w.close("}")
}

// phantoms pins each formal parameter. Field numbering starts past the
// inspection vtable slots so consumer and abi shapes stay aligned.
func (w *writer) phantoms(g generics) {
	for i, n := range g.names {
		w.line("__%d: std::marker::PhantomData<%s>,", i+6, n)
	}
}

func (w *writer) queryType(g generics, self string, guid ir.Guid) {
	w.open("%s winrt::QueryType for %s {", g.impl(), self)
	w.open("fn type_guid() -> &'static winrt::Guid {")
	w.line("static GUID: winrt::Guid = winrt::Guid::from_values(%s);", guidValues(guid))
	w.line("&GUID")
	w.close("}")
	w.close("}")
}

func (w *writer) runtimeType(g generics, self string) {
	w.open("%s winrt::RuntimeType for %s {", g.impl(), self)
	w.line("type Abi = winrt::RawPtr;")
	w.open("fn abi(&self) -> Self::Abi {")
	w.line("self.ptr.get()")
	w.close("}")
	w.open("fn set_abi(&mut self) -> *mut Self::Abi {")
	w.line("self.ptr.set()")
	w.close("}")
	w.close("}")
}

func (w *writer) typeNameImpl(name, qualified string) {
	w.open("impl winrt::TypeName for %s {", name)
	w.open("fn type_name() -> &'static str {")
	w.line("%q", qualified)
	w.close("}")
	w.close("}")
}

// paramConversions lets the type pass as its own parameter by value or by
// reference.
func (w *writer) paramConversions(g generics, self string) {
	w.open("%s Into<winrt::Param<'a, %s>> for %s {", g.impl("'a"), self, self)
	w.open("fn into(self) -> winrt::Param<'a, %s> {", self)
	w.line("winrt::Param::Value(self)")
	w.close("}")
	w.close("}")
	w.open("%s Into<winrt::Param<'a, %s>> for &'a %s {", g.impl("'a"), self, self)
	w.open("fn into(self) -> winrt::Param<'a, %s> {", self)
	w.line("winrt::Param::Ref(self)")
	w.close("}")
	w.close("}")
}

// paramForwards lets the type pass where a converted target is expected, by
// converting first.
func (w *writer) paramForwards(g generics, from, into string) {
	w.open("%s Into<winrt::Param<'a, %s>> for %s {", g.impl("'a"), into, from)
	w.open("fn into(self) -> winrt::Param<'a, %s> {", into)
	w.line("winrt::Param::Value(self.into())")
	w.close("}")
	w.close("}")
	w.open("%s Into<winrt::Param<'a, %s>> for &'a %s {", g.impl("'a"), into, from)
	w.open("fn into(self) -> winrt::Param<'a, %s> {", into)
	w.line("winrt::Param::Value(self.into())")
	w.close("}")
	w.close("}")
}

// interfaceConversions renders the conversions a pointer-backed type
// supports: always to the object root, then to every reachable non-excluded
// surface interface. Default instances convert in place, other instances
// through a runtime query.
func (w *writer) interfaceConversions(g generics, self string, surface []ir.ComposedInterface) {
	w.open("%s From<%s> for winrt::Object {", g.impl(), self)
	w.open("fn from(value: %s) -> winrt::Object {", self)
	w.line("unsafe { std::mem::transmute(value) }")
	w.close("}")
	w.close("}")
	w.open("%s From<&%s> for winrt::Object {", g.impl(), self)
	w.open("fn from(value: &%s) -> winrt::Object {", self)
	w.line("unsafe { std::mem::transmute(value.clone()) }")
	w.close("}")
	w.close("}")
	w.paramForwards(g, self, "winrt::Object")

	for i := range surface {
		iface := &surface[i]
		if iface.Excluded {
			continue
		}
		switch iface.Role {
		case ir.RoleDefaultInstance:
			into := w.typeName(iface.Ref, typePos)
			w.open("%s From<%s> for %s {", g.impl(), self, into)
			w.open("fn from(value: %s) -> %s {", self, into)
			w.line("unsafe { std::mem::transmute(value) }")
			w.close("}")
			w.close("}")
			w.open("%s From<&%s> for %s {", g.impl(), self, into)
			w.open("fn from(value: &%s) -> %s {", self, into)
			w.line("unsafe { std::mem::transmute(value.clone()) }")
			w.close("}")
			w.close("}")
			w.paramForwards(g, self, into)
		case ir.RoleInstance:
			into := w.typeName(iface.Ref, typePos)
			w.open("%s From<%s> for %s {", g.impl(), self, into)
			w.open("fn from(value: %s) -> %s {", self, into)
			w.line("%s::from(&value)", w.typeName(iface.Ref, exprPos))
			w.close("}")
			w.close("}")
			w.open("%s From<&%s> for %s {", g.impl(), self, into)
			w.open("fn from(value: &%s) -> %s {", self, into)
			w.line("winrt::QueryType::query(value)")
			w.close("}")
			w.close("}")
			w.paramForwards(g, self, into)
		}
	}
}

// baseConversions converts a derived class to each of its renderable bases.
func (w *writer) baseConversions(name string, bases []ir.TypeExpr) {
	for _, b := range bases {
		into := w.typeName(b, typePos)
		w.open("impl From<%s> for %s {", name, into)
		w.open("fn from(value: %s) -> %s {", name, into)
		w.line("%s::from(&value)", w.typeName(b, exprPos))
		w.close("}")
		w.close("}")
		w.open("impl From<&%s> for %s {", name, into)
		w.open("fn from(value: &%s) -> %s {", name, into)
		w.line("winrt::QueryType::query(value)")
		w.close("}")
		w.close("}")
		w.paramForwards(declGenerics(nil), name, into)
	}
}
