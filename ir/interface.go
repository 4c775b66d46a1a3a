package ir

import "winrtgen/metadata"

// Role describes how one interface entered a composed surface.
type Role int

const (
	// RolePrimary is the surface owner itself. Its methods fill the
	// leading vtable slots and form the projection trait.
	RolePrimary Role = iota
	// RoleDefaultInstance is the class edge marked default. Instances are
	// represented by a pointer to this interface.
	RoleDefaultInstance
	// RoleInstance is any other reachable instance interface.
	RoleInstance
	// RoleStatic is a factory interface named by a static marker.
	RoleStatic
	// RoleActivation is a factory interface named by an activation marker.
	RoleActivation
	// RoleDefaultActivation is the synthesized parameterless activation
	// entry. It has no backing definition.
	RoleDefaultActivation
)

// String returns the role's display name.
func (r Role) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleDefaultInstance:
		return "default-instance"
	case RoleInstance:
		return "instance"
	case RoleStatic:
		return "static"
	case RoleActivation:
		return "activation"
	case RoleDefaultActivation:
		return "default-activation"
	default:
		return "unknown"
	}
}

// Factory reports whether methods of this role dispatch through an
// activation factory rather than an instance pointer.
func (r Role) Factory() bool {
	return r == RoleStatic || r == RoleActivation || r == RoleDefaultActivation
}

// ComposedInterface is one entry of a flattened interface surface.
type ComposedInterface struct {
	// Def is the backing definition, or metadata.None for the
	// default-activation entry.
	Def metadata.TypeID

	Role Role

	// Ref names the interface as seen from the surface owner: a NamedExpr,
	// or an InstanceExpr whose arguments were resolved through the
	// instantiation chain that reached it. Nil for the default-activation
	// entry.
	Ref TypeExpr

	// Frames is the chain of instantiation frames that reached this
	// interface, outermost first. The innermost frame holds the
	// interface's own arguments; non-generic interfaces reached without
	// crossing an instantiation have none.
	Frames []Frame

	// Overridable is taken from the marker on the implementation edge.
	Overridable bool

	// Exclusive is taken from the exclusive-to marker on the definition.
	Exclusive bool

	// Excluded marks an interface whose namespace is outside the
	// generation set. Excluded entries keep their place in the surface but
	// contribute no methods and no conversions.
	Excluded bool
}
