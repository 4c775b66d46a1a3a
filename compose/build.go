package compose

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"winrtgen/ir"
	"winrtgen/metadata"
)

// Namespace composes every declaration of one namespace, in declaration
// order. The first failing declaration aborts the namespace.
func (e *Engine) Namespace(ns string) (*ir.Namespace, error) {
	out := &ir.Namespace{Name: ns}
	for _, id := range e.store.NamespaceTypes(ns) {
		t := e.mustType(id)

		var (
			decl ir.Decl
			err  error
		)
		switch t.Category {
		case metadata.CategoryEnum:
			decl, err = e.enumDecl(id)
		case metadata.CategoryStruct:
			decl, err = e.structDecl(id)
		case metadata.CategoryDelegate:
			decl, err = e.delegateDecl(id)
		case metadata.CategoryInterface:
			decl, err = e.interfaceDecl(id)
		case metadata.CategoryClass:
			decl, err = e.classDecl(id)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		out.Decls = append(out.Decls, decl)
	}

	e.log.Debug("composed namespace",
		zap.String("namespace", ns),
		zap.Int("declarations", len(out.Decls)))
	return out, nil
}

func (e *Engine) enumDecl(id metadata.TypeID) (*ir.EnumDecl, error) {
	t := e.mustType(id)
	if len(t.Fields) < 2 {
		return nil, errors.Wrapf(ErrUnsupportedShape, "enum %s needs a representation field and a variant", t.QualifiedName())
	}

	// The first field is the unnamed representation marker, the second the
	// default variant.
	repr := metadata.ElementU32
	if first := t.Fields[0].Sig; first.Kind == metadata.SigElement && first.Element == metadata.ElementI32 {
		repr = metadata.ElementI32
	}

	decl := &ir.EnumDecl{
		Name:    t.Name,
		Repr:    repr,
		Default: t.Fields[1].Name,
	}
	for i := range t.Fields {
		f := &t.Fields[i]
		if f.Constant == nil {
			continue
		}
		decl.Variants = append(decl.Variants, ir.Variant{Name: f.Name, Value: *f.Constant})
	}
	return decl, nil
}

func (e *Engine) structDecl(id metadata.TypeID) (*ir.StructDecl, error) {
	t := e.mustType(id)
	decl := &ir.StructDecl{Name: t.Name}
	for i := range t.Fields {
		f := &t.Fields[i]
		if e.limitedSig(f.Sig) {
			return nil, e.leakError("struct "+t.QualifiedName(), f.Sig)
		}
		decl.Fields = append(decl.Fields, ir.FieldDecl{Name: f.Name, Type: e.typeExpr(f.Sig)})
	}
	return decl, nil
}

func (e *Engine) delegateDecl(id metadata.TypeID) (*ir.DelegateDecl, error) {
	t := e.mustType(id)
	defer e.pushFormals(t).Release()

	var invoke *metadata.Method
	for i := range t.Methods {
		if t.Methods[i].Name == "Invoke" {
			invoke = &t.Methods[i]
			break
		}
	}
	if invoke == nil {
		return nil, errors.Wrapf(ErrUnsupportedShape, "delegate %s has no Invoke method", t.QualifiedName())
	}
	if e.limitedMethod(invoke) {
		return nil, e.leakError("delegate "+t.QualifiedName(), methodSigs(invoke)...)
	}

	guid, err := e.guidOf(t)
	if err != nil {
		return nil, err
	}
	return &ir.DelegateDecl{
		Name:     strippedName(t.Name),
		Generics: t.Generics,
		Guid:     guid,
		Invoke:   e.deriveSignature(invoke),
	}, nil
}

func (e *Engine) interfaceDecl(id metadata.TypeID) (*ir.InterfaceDecl, error) {
	t := e.mustType(id)

	guid, err := e.guidOf(t)
	if err != nil {
		return nil, err
	}
	surface, methods, err := e.Surface(id)
	if err != nil {
		return nil, err
	}

	// The primary run fills vtable slots and the projection trait, so every
	// one of its methods must be representable.
	for i := range methods {
		if methods[i].Owner != 0 {
			break
		}
		if methods[i].Dropped {
			return nil, e.leakError("interface "+t.QualifiedName(), methodSigs(&t.Methods[i])...)
		}
	}

	return &ir.InterfaceDecl{
		Name:       strippedName(t.Name),
		Generics:   t.Generics,
		Guid:       guid,
		Interfaces: surface,
		Methods:    methods,
	}, nil
}

func (e *Engine) classDecl(id metadata.TypeID) (*ir.ClassDecl, error) {
	t := e.mustType(id)

	surface, methods, err := e.Surface(id)
	if err != nil {
		return nil, err
	}

	decl := &ir.ClassDecl{
		Name:       t.Name,
		TypeName:   t.QualifiedName(),
		Interfaces: surface,
		Methods:    methods,
	}
	for i := range surface {
		if surface[i].Role != ir.RoleDefaultInstance {
			continue
		}
		guid, err := e.guidOf(e.mustType(surface[i].Def))
		if err != nil {
			return nil, errors.Wrapf(err, "class %s default interface", t.QualifiedName())
		}
		decl.HasDefault = true
		decl.DefaultGuid = guid
		break
	}
	for _, b := range t.Bases {
		bt := e.mustType(b)
		if e.excludedNamespace(bt.Namespace) {
			continue
		}
		decl.Bases = append(decl.Bases, ir.NamedExpr{Namespace: bt.Namespace, Name: bt.Name})
	}
	return decl, nil
}

// guidOf reads a declaration's identifier attribute: one 32-bit argument,
// two 16-bit arguments and eight 8-bit arguments.
func (e *Engine) guidOf(t *metadata.TypeDef) (ir.Guid, error) {
	attr := t.FindAttribute(metadata.FoundationMetadata, metadata.AttrGuid)
	if attr == nil {
		return ir.Guid{}, errors.Wrapf(ErrUnsupportedShape, "%s has no guid attribute", t.QualifiedName())
	}
	if len(attr.Args) != 11 {
		return ir.Guid{}, errors.Wrapf(ErrUnsupportedShape, "%s guid attribute has %d of 11 arguments", t.QualifiedName(), len(attr.Args))
	}
	for i, arg := range attr.Args {
		var want metadata.AttrArgKind
		switch {
		case i == 0:
			want = metadata.ArgU32
		case i <= 2:
			want = metadata.ArgU16
		default:
			want = metadata.ArgU8
		}
		if arg.Kind != want {
			return ir.Guid{}, errors.Wrapf(ErrUnsupportedShape, "%s guid argument %d has the wrong width", t.QualifiedName(), i)
		}
	}

	g := ir.Guid{
		Data1: attr.Args[0].Num,
		Data2: uint16(attr.Args[1].Num),
		Data3: uint16(attr.Args[2].Num),
	}
	for i := 0; i < 8; i++ {
		g.Data4[i] = uint8(attr.Args[3+i].Num)
	}
	return g, nil
}
