package metadata

import (
	"reflect"
	"testing"
)

func TestStoreAddAndLookup(t *testing.T) {
	s := NewStore()
	a := s.MustAdd(TypeDef{Namespace: "A.B", Name: "IThing", Category: CategoryInterface})
	b := s.MustAdd(TypeDef{Namespace: "A.B", Name: "Thing", Category: CategoryClass})

	if got := s.Type(a).Name; got != "IThing" {
		t.Fatalf("Type(a).Name = %q, want IThing", got)
	}
	id, ok := s.Lookup("A.B.Thing")
	if !ok || id != b {
		t.Fatalf("Lookup(A.B.Thing) = %v, %v, want %v, true", id, ok, b)
	}
	if _, ok := s.Lookup("A.B.Missing"); ok {
		t.Fatal("Lookup(A.B.Missing) unexpectedly succeeded")
	}
}

func TestStoreDuplicate(t *testing.T) {
	s := NewStore()
	s.MustAdd(TypeDef{Namespace: "A", Name: "T", Category: CategoryStruct})
	if _, err := s.Add(TypeDef{Namespace: "A", Name: "T", Category: CategoryEnum}); err == nil {
		t.Fatal("duplicate Add did not fail")
	}
}

func TestStoreTypeOutOfRange(t *testing.T) {
	s := NewStore()
	if s.Type(None) != nil {
		t.Fatal("Type(None) should be nil")
	}
	if s.Type(TypeID(7)) != nil {
		t.Fatal("Type out of range should be nil")
	}
}

func TestStoreNamespaceOrder(t *testing.T) {
	s := NewStore()
	s.MustAdd(TypeDef{Namespace: "Z.Later", Name: "One", Category: CategoryStruct})
	first := s.MustAdd(TypeDef{Namespace: "A.Early", Name: "First", Category: CategoryStruct})
	second := s.MustAdd(TypeDef{Namespace: "A.Early", Name: "Second", Category: CategoryStruct})

	if got := s.NamespaceTypes("A.Early"); !reflect.DeepEqual(got, []TypeID{first, second}) {
		t.Fatalf("NamespaceTypes order = %v", got)
	}
	if got := s.Namespaces(); !reflect.DeepEqual(got, []string{"A.Early", "Z.Later"}) {
		t.Fatalf("Namespaces = %v, want sorted", got)
	}
}

func TestFindAttribute(t *testing.T) {
	def := TypeDef{
		Namespace: "A",
		Name:      "T",
		Attrs: []Attribute{
			{Namespace: FoundationMetadata, Name: AttrStatic, Args: []AttrArg{{Kind: ArgType, Type: 3}}},
			{Namespace: FoundationMetadata, Name: AttrStatic, Args: []AttrArg{{Kind: ArgType, Type: 9}}},
		},
	}
	attr := def.FindAttribute(FoundationMetadata, AttrStatic)
	if attr == nil {
		t.Fatal("FindAttribute returned nil")
	}
	// First match wins.
	if id, ok := attr.FactoryType(); !ok || id != 3 {
		t.Fatalf("FactoryType = %v, %v", id, ok)
	}
	if def.HasAttribute(FoundationMetadata, AttrDefault) {
		t.Fatal("HasAttribute(Default) should be false")
	}
}
