package compose

import (
	"sort"

	"github.com/cockroachdb/errors"

	"winrtgen/ir"
	"winrtgen/metadata"
)

// InterfaceSurface flattens an interface's required-interface graph. The
// result starts with the interface's own primary entry, followed by every
// transitively required interface exactly once.
func (e *Engine) InterfaceSurface(def metadata.TypeID) ([]ir.ComposedInterface, error) {
	t := e.mustType(def)

	var result []ir.ComposedInterface
	if err := e.addInterfaces(&result, nil, t.Impls, false); err != nil {
		return nil, err
	}

	ref, err := e.interfaceRef(def, nil)
	if err != nil {
		return nil, err
	}
	primary := ir.ComposedInterface{
		Def:       def,
		Role:      ir.RolePrimary,
		Ref:       ref,
		Exclusive: t.HasAttribute(metadata.FoundationMetadata, metadata.AttrExclusiveTo),
	}

	result = append(result, ir.ComposedInterface{})
	copy(result[1:], result)
	result[0] = primary
	return result, nil
}

// ClassSurface flattens a class's interface graph: its own edges with
// default detection, then each base's edges, then factory entries from the
// static and activation markers in declaration order.
func (e *Engine) ClassSurface(def metadata.TypeID) ([]ir.ComposedInterface, error) {
	t := e.mustType(def)

	var result []ir.ComposedInterface
	if err := e.addInterfaces(&result, nil, t.Impls, true); err != nil {
		return nil, err
	}
	for _, b := range t.Bases {
		if err := e.addInterfaces(&result, nil, e.mustType(b).Impls, false); err != nil {
			return nil, err
		}
	}

	defaults := 0
	for i := range result {
		if result[i].Role == ir.RoleDefaultInstance {
			defaults++
		}
	}
	if defaults > 1 {
		return nil, errors.Wrapf(ErrUnsupportedShape, "class %s declares %d default interfaces", t.QualifiedName(), defaults)
	}

	for i := range t.Attrs {
		attr := &t.Attrs[i]
		if attr.Namespace != metadata.FoundationMetadata {
			continue
		}
		switch attr.Name {
		case metadata.AttrStatic:
			factory, ok := attr.FactoryType()
			if !ok {
				return nil, errors.Wrapf(ErrUnsupportedShape, "class %s static marker names no factory", t.QualifiedName())
			}
			entry, err := e.factoryEntry(factory, ir.RoleStatic)
			if err != nil {
				return nil, err
			}
			result = append(result, entry)
		case metadata.AttrActivatable:
			factory, ok := attr.FactoryType()
			if !ok {
				result = append(result, ir.ComposedInterface{
					Def:       metadata.None,
					Role:      ir.RoleDefaultActivation,
					Exclusive: true,
				})
				continue
			}
			entry, err := e.factoryEntry(factory, ir.RoleActivation)
			if err != nil {
				return nil, err
			}
			result = append(result, entry)
		}
	}

	return result, nil
}

// addInterfaces walks implementation edges depth first, keeping result
// sorted by definition identity. The first insertion of a definition wins;
// later edges to the same interface are dropped, which collapses diamonds.
func (e *Engine) addInterfaces(result *[]ir.ComposedInterface, parentFrames []ir.Frame, impls []metadata.InterfaceImpl, findDefault bool) error {
	for i := range impls {
		if err := e.addEdge(result, parentFrames, &impls[i], findDefault); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) addEdge(result *[]ir.ComposedInterface, parentFrames []ir.Frame, edge *metadata.InterfaceImpl, findDefault bool) error {
	role := ir.RoleInstance
	if findDefault && edge.HasAttribute(metadata.FoundationMetadata, metadata.AttrDefault) {
		role = ir.RoleDefaultInstance
	}
	overridable := edge.HasAttribute(metadata.FoundationMetadata, metadata.AttrOverridable)

	frames := parentFrames
	switch edge.Target.Kind {
	case metadata.SigType:
	case metadata.SigGeneric:
		// Arguments resolve against the frame that brought us here, then
		// the new frame scopes everything below this edge.
		frame := make(ir.Frame, len(edge.Target.Args))
		for i, arg := range edge.Target.Args {
			frame[i] = e.typeExpr(arg)
		}
		defer e.stack.Push(frame).Release()

		frames = make([]ir.Frame, len(parentFrames), len(parentFrames)+1)
		copy(frames, parentFrames)
		frames = append(frames, frame)
	default:
		return errors.Wrap(ErrUnsupportedShape, "required interface is not a type reference")
	}

	def := edge.Target.Def
	t := e.mustType(def)

	idx := sort.Search(len(*result), func(i int) bool { return (*result)[i].Def >= def })
	if idx < len(*result) && (*result)[idx].Def == def {
		return nil
	}

	ref, err := e.interfaceRef(def, frames)
	if err != nil {
		return err
	}
	entry := ir.ComposedInterface{
		Def:         def,
		Role:        role,
		Ref:         ref,
		Frames:      frames,
		Overridable: overridable,
		Exclusive:   t.HasAttribute(metadata.FoundationMetadata, metadata.AttrExclusiveTo),
		Excluded:    e.excludedNamespace(t.Namespace),
	}
	*result = append(*result, ir.ComposedInterface{})
	copy((*result)[idx+1:], (*result)[idx:])
	(*result)[idx] = entry

	return e.addInterfaces(result, frames, t.Impls, false)
}

// interfaceRef names an interface as seen from the surface under
// construction. For generic interfaces the innermost frame supplies the
// arguments; inside a generic declaration with no frames of its own, the
// live stack holds the formal parameters.
func (e *Engine) interfaceRef(def metadata.TypeID, frames []ir.Frame) (ir.TypeExpr, error) {
	t := e.mustType(def)
	name := strippedName(t.Name)
	if len(t.Generics) == 0 {
		return ir.NamedExpr{Namespace: t.Namespace, Name: name}, nil
	}

	var args ir.Frame
	if len(frames) > 0 {
		args = frames[len(frames)-1]
	} else if top, ok := e.stack.Top(); ok {
		args = top
	} else {
		return nil, errors.Wrapf(ErrUnsupportedShape, "generic interface %s used without instantiation arguments", t.QualifiedName())
	}
	if len(args) != len(t.Generics) {
		return nil, errors.Wrapf(ErrUnsupportedShape, "generic interface %s instantiated with %d of %d arguments", t.QualifiedName(), len(args), len(t.Generics))
	}
	return ir.InstanceExpr{Namespace: t.Namespace, Name: name, Args: args}, nil
}

func (e *Engine) factoryEntry(def metadata.TypeID, role ir.Role) (ir.ComposedInterface, error) {
	t := e.mustType(def)
	ref, err := e.interfaceRef(def, nil)
	if err != nil {
		return ir.ComposedInterface{}, err
	}
	return ir.ComposedInterface{
		Def:       def,
		Role:      role,
		Ref:       ref,
		Exclusive: true,
		Excluded:  e.excludedNamespace(t.Namespace),
	}, nil
}
