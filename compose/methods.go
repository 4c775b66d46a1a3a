package compose

import (
	"strings"

	"github.com/cockroachdb/errors"

	"winrtgen/internal/casing"
	"winrtgen/ir"
	"winrtgen/metadata"
)

// ProjectMethods projects every method of a composed surface into one flat
// list, in surface order. Excluded interfaces contribute nothing. Names are
// folded, accessor prefixes rewritten, and collisions settled against
// everything projected before:
//
// On the primary interface a colliding method is renamed with a "2" suffix,
// on the method side when a plain method meets an accessor, so that names
// stay stable as interfaces version. Elsewhere the later method is dropped
// from the surface; callers can still reach it through the required
// interface itself.
func (e *Engine) ProjectMethods(surface []ir.ComposedInterface) ([]ir.ProjectedMethod, error) {
	var methods []ir.ProjectedMethod

	for idx := range surface {
		iface := &surface[idx]
		if iface.Excluded {
			continue
		}
		if iface.Role == ir.RoleDefaultActivation {
			methods = append(methods, ir.ProjectedMethod{
				Name:     "new",
				Owner:    idx,
				Category: metadata.MethodNormal,
			})
			continue
		}

		t := e.mustType(iface.Def)
		for mi := range t.Methods {
			m := &t.Methods[mi]
			name, err := e.projectName(m)
			if err != nil {
				return nil, errors.Wrapf(err, "interface %s", t.QualifiedName())
			}
			dropped := e.limitedMethod(m)

			if pos := findName(methods, name); pos >= 0 {
				if iface.Role == ir.RolePrimary {
					switch {
					case m.Category == metadata.MethodNormal:
						name += "2"
					case methods[pos].Category == metadata.MethodNormal:
						methods[pos].Name += "2"
					default:
						return nil, errors.Wrapf(ErrUnsupportedShape,
							"interface %s: accessor %s collides with an earlier accessor on %q",
							t.QualifiedName(), m.Name, name)
					}
				} else {
					dropped = true
				}
			}

			var sig *ir.Signature
			if !dropped {
				guard := e.stack.Push(iface.Frames...)
				s := e.deriveSignature(m)
				guard.Release()
				sig = &s
			}

			methods = append(methods, ir.ProjectedMethod{
				Name:     name,
				Owner:    idx,
				Category: m.Category,
				Sig:      sig,
				Dropped:  dropped,
			})
		}
	}

	return methods, nil
}

func findName(methods []ir.ProjectedMethod, name string) int {
	for i := range methods {
		if methods[i].Name == name {
			return i
		}
	}
	return -1
}

// projectName folds a method's projected name: the overload spelling when
// present, the accessor prefix rewritten, and the remainder snake cased.
func (e *Engine) projectName(m *metadata.Method) (string, error) {
	name := m.Name
	if attr := m.FindAttribute(metadata.FoundationMetadata, metadata.AttrOverload); attr != nil {
		for _, arg := range attr.Args {
			if arg.Kind == metadata.ArgString {
				name = arg.Str
				break
			}
		}
	}

	var b strings.Builder
	prefix := 0
	switch m.Category {
	case metadata.MethodGet, metadata.MethodAdd:
		prefix = 4
	case metadata.MethodSet:
		prefix = 4
		b.WriteString("set")
	case metadata.MethodRemove:
		prefix = 7
		b.WriteString("remove")
	}
	if len(name) < prefix {
		return "", errors.Wrapf(ErrUnsupportedShape, "%s accessor %q is shorter than its prefix", m.Category, name)
	}
	casing.AppendSnake(&b, name[prefix:])
	return b.String(), nil
}
