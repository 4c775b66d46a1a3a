package metadata

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// Store is the arena of type records. A Store is built once, by a loader or
// by test fixtures, and read concurrently afterwards; it is not safe for
// concurrent mutation.
type Store struct {
	types []TypeDef

	// byName maps "Namespace.Name" to the record's id.
	byName map[string]TypeID

	// nsOrder keeps namespaces in first-registration order so that
	// NamespaceTypes can return members in declaration order.
	nsTypes map[string][]TypeID
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		byName:  make(map[string]TypeID),
		nsTypes: make(map[string][]TypeID),
	}
}

// Add registers a type record and returns its id. Registering the same
// qualified name twice is an error.
func (s *Store) Add(t TypeDef) (TypeID, error) {
	qn := t.QualifiedName()
	if _, dup := s.byName[qn]; dup {
		return None, errors.Newf("metadata: duplicate type %s", qn)
	}
	id := TypeID(len(s.types))
	s.types = append(s.types, t)
	s.byName[qn] = id
	s.nsTypes[t.Namespace] = append(s.nsTypes[t.Namespace], id)
	return id, nil
}

// MustAdd is Add for fixtures that are known not to collide.
func (s *Store) MustAdd(t TypeDef) TypeID {
	id, err := s.Add(t)
	if err != nil {
		panic(err)
	}
	return id
}

// Type returns the record for id, or nil when id is None or out of range.
func (s *Store) Type(id TypeID) *TypeDef {
	if !id.Valid() || int(id) >= len(s.types) {
		return nil
	}
	return &s.types[id]
}

// Lookup resolves a qualified "Namespace.Name" to its id.
func (s *Store) Lookup(qualified string) (TypeID, bool) {
	id, ok := s.byName[qualified]
	return id, ok
}

// Len returns the number of registered types.
func (s *Store) Len() int { return len(s.types) }

// NamespaceTypes returns the ids declared under ns, in registration order.
// The returned slice is owned by the Store.
func (s *Store) NamespaceTypes(ns string) []TypeID {
	return s.nsTypes[ns]
}

// Namespaces returns all namespaces holding at least one type, sorted.
func (s *Store) Namespaces() []string {
	out := make([]string, 0, len(s.nsTypes))
	for ns := range s.nsTypes {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}
