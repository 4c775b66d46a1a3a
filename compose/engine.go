// Package compose flattens interface graphs into ordered surfaces and
// projects their methods: it resolves generic instantiations through a frame
// stack, assigns every reachable interface a role, derives consumer and ABI
// signatures, and settles name collisions deterministically. Its output is
// the ir model the Rust backend renders.
package compose

import (
	"strings"

	"go.uber.org/zap"

	"winrtgen/ir"
	"winrtgen/metadata"
)

// Engine composes declarations for one generation run. An Engine carries the
// live generic frame stack, so it must not be shared between goroutines;
// workers create their own.
type Engine struct {
	store   *metadata.Store
	include map[string]struct{}
	log     *zap.Logger
	stack   Stack
}

// New returns an Engine over store that generates exactly the given
// namespaces. Types in any other namespace are excluded: they keep their
// structural places but are never projected, and declarations that depend on
// them fail with ErrExcludedLeak.
func New(store *metadata.Store, namespaces []string, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	include := make(map[string]struct{}, len(namespaces))
	for _, ns := range namespaces {
		include[ns] = struct{}{}
	}
	return &Engine{store: store, include: include, log: log}
}

// Surface composes def the way its own declaration sees itself and projects
// its methods. An interface composes inside its own generic context, where
// formal parameters stand for themselves; a class composes its instance and
// factory edges. Other categories have no surface and return nils.
func (e *Engine) Surface(def metadata.TypeID) ([]ir.ComposedInterface, []ir.ProjectedMethod, error) {
	t := e.mustType(def)

	var (
		surface []ir.ComposedInterface
		err     error
	)
	switch t.Category {
	case metadata.CategoryInterface:
		defer e.pushFormals(t).Release()
		surface, err = e.InterfaceSurface(def)
	case metadata.CategoryClass:
		surface, err = e.ClassSurface(def)
	default:
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	methods, err := e.ProjectMethods(surface)
	if err != nil {
		return nil, nil, err
	}
	return surface, methods, nil
}

// excludedNamespace reports whether ns is outside the generation set. Shared
// system types are never excluded.
func (e *Engine) excludedNamespace(ns string) bool {
	if ns == metadata.SystemNamespace {
		return false
	}
	_, ok := e.include[ns]
	return !ok
}

// strippedName removes the arity suffix from a generic type name.
func strippedName(name string) string {
	base, _, _ := strings.Cut(name, "`")
	return base
}

// pushFormals enters a declaration's own generic context, where formal
// parameters resolve to themselves.
func (e *Engine) pushFormals(t *metadata.TypeDef) Guard {
	if len(t.Generics) == 0 {
		return e.stack.Push()
	}
	frame := make(ir.Frame, len(t.Generics))
	for i, g := range t.Generics {
		frame[i] = ir.ParamExpr{Name: g}
	}
	return e.stack.Push(frame)
}
