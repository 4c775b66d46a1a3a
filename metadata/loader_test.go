package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDoc = `
types:
  - namespace: Windows.Foundation
    name: IClosable
    category: interface
    guid: [0x30d5a829, 0x7fa4, 0x4026, 0x83, 0xbb, 0xd7, 0x5b, 0xae, 0x4e, 0xa9, 0x9e]
    methods:
      - name: Close

  - namespace: Windows.Foundation.Collections
    name: IIterable
    category: interface
    generics: [T]
    methods:
      - name: First
        returns: T

  - namespace: Windows.Test
    name: Brightness
    category: enum
    members:
      - {name: Dim, value: 0}
      - {name: Full, value: 10}

  - namespace: Windows.Test
    name: ILampStatics
    category: interface
    exclusiveto: Windows.Test.Lamp
    methods:
      - name: GetDefault
        returns: Windows.Test.Lamp

  - namespace: Windows.Test
    name: ILamp
    category: interface
    methods:
      - name: get_Brightness
        category: get
        returns: Windows.Test.Brightness
      - name: Measure
        overload: MeasureWithHint
        params:
          - {name: hint, type: i32}
          - {name: readings, type: f64, out: true, byref: true}

  - namespace: Windows.Test
    name: Lamp
    category: class
    statics: [Windows.Test.ILampStatics]
    activatable: [direct]
    impls:
      - {target: Windows.Test.ILamp, default: true}
      - target: {of: Windows.Foundation.Collections.IIterable, args: [Windows.Test.Brightness]}
        overridable: true

  - namespace: Windows.Test
    name: DeskLamp
    category: class
    extends: Windows.Test.Lamp

  - namespace: Windows.Test
    name: SmartDeskLamp
    category: class
    extends: Windows.Test.DeskLamp
`

func TestParseDocument(t *testing.T) {
	store, err := Parse([]byte(sampleDoc))
	require.NoError(t, err)

	lampID, ok := store.Lookup("Windows.Test.Lamp")
	require.True(t, ok)
	lamp := store.Type(lampID)
	require.Equal(t, CategoryClass, lamp.Category)

	t.Run("impl sugar becomes marker attributes", func(t *testing.T) {
		require.Len(t, lamp.Impls, 2)
		require.True(t, lamp.Impls[0].HasAttribute(FoundationMetadata, AttrDefault))
		require.False(t, lamp.Impls[0].HasAttribute(FoundationMetadata, AttrOverridable))
		require.True(t, lamp.Impls[1].HasAttribute(FoundationMetadata, AttrOverridable))
	})

	t.Run("generic instantiation resolves by arity", func(t *testing.T) {
		target := lamp.Impls[1].Target
		require.Equal(t, SigGeneric, target.Kind)
		iterable := store.Type(target.Def)
		require.Equal(t, "IIterable`1", iterable.Name)
		require.Len(t, target.Args, 1)
		require.Equal(t, SigType, target.Args[0].Kind)
	})

	t.Run("statics and activation attributes", func(t *testing.T) {
		static := lamp.FindAttribute(FoundationMetadata, AttrStatic)
		require.NotNil(t, static)
		factory, ok := static.FactoryType()
		require.True(t, ok)
		require.Equal(t, "ILampStatics", store.Type(factory).Name)

		act := lamp.FindAttribute(FoundationMetadata, AttrActivatable)
		require.NotNil(t, act)
		_, ok = act.FactoryType()
		require.False(t, ok, "direct activation has no factory argument")
	})

	t.Run("guid arguments are typed by position", func(t *testing.T) {
		id, _ := store.Lookup("Windows.Foundation.IClosable")
		guid := store.Type(id).FindAttribute(FoundationMetadata, AttrGuid)
		require.NotNil(t, guid)
		require.Len(t, guid.Args, 11)
		require.Equal(t, ArgU32, guid.Args[0].Kind)
		require.Equal(t, ArgU16, guid.Args[1].Kind)
		require.Equal(t, ArgU16, guid.Args[2].Kind)
		for _, a := range guid.Args[3:] {
			require.Equal(t, ArgU8, a.Kind)
		}
		require.Equal(t, uint32(0x30d5a829), guid.Args[0].Num)
	})

	t.Run("enum members carry constants after the repr field", func(t *testing.T) {
		id, _ := store.Lookup("Windows.Test.Brightness")
		enum := store.Type(id)
		require.Len(t, enum.Fields, 3)
		require.Equal(t, "value__", enum.Fields[0].Name)
		require.Nil(t, enum.Fields[0].Constant)
		require.Equal(t, int64(10), *enum.Fields[2].Constant)
	})

	t.Run("method categories and overload names", func(t *testing.T) {
		id, _ := store.Lookup("Windows.Test.ILamp")
		iface := store.Type(id)
		require.Equal(t, MethodGet, iface.Methods[0].Category)

		measure := iface.Methods[1]
		require.Equal(t, MethodNormal, measure.Category)
		over := measure.FindAttribute(FoundationMetadata, AttrOverload)
		require.NotNil(t, over)
		require.Equal(t, "MeasureWithHint", over.Args[0].Str)

		readings := measure.Params[1]
		require.False(t, readings.In)
		require.True(t, readings.ByRef)
		require.True(t, readings.Array, "byref implies array")
	})

	t.Run("generic parameter references resolve by index", func(t *testing.T) {
		id, _ := store.Lookup("Windows.Foundation.Collections.IIterable`1")
		first := store.Type(id).Methods[0]
		require.NotNil(t, first.Return)
		require.Equal(t, SigParam, first.Return.Sig.Kind)
		require.Equal(t, 0, first.Return.Sig.Param)
	})

	t.Run("extends chains resolve nearest first", func(t *testing.T) {
		id, _ := store.Lookup("Windows.Test.SmartDeskLamp")
		bases := store.Type(id).Bases
		require.Len(t, bases, 2)
		require.Equal(t, "DeskLamp", store.Type(bases[0]).Name)
		require.Equal(t, "Lamp", store.Type(bases[1]).Name)
	})

	t.Run("System.Guid is registered implicitly", func(t *testing.T) {
		id, ok := store.Lookup("System.Guid")
		require.True(t, ok)
		require.Equal(t, CategoryStruct, store.Type(id).Category)
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown reference",
			doc: `
types:
  - namespace: A
    name: S
    category: struct
    fields:
      - {name: x, type: A.Missing}
`,
			want: "unknown type",
		},
		{
			name: "unknown category",
			doc: `
types:
  - namespace: A
    name: S
    category: union
`,
			want: "unknown category",
		},
		{
			name: "short guid",
			doc: `
types:
  - namespace: A
    name: I
    category: interface
    guid: [1, 2, 3]
`,
			want: "11 values",
		},
		{
			name: "members on a struct",
			doc: `
types:
  - namespace: A
    name: S
    category: struct
    members:
      - {name: X, value: 1}
`,
			want: "only valid on enums",
		},
		{
			name: "inheritance cycle",
			doc: `
types:
  - {namespace: A, name: C1, category: class, extends: A.C2}
  - {namespace: A, name: C2, category: class, extends: A.C1}
`,
			want: "inherits from itself",
		},
		{
			name: "extends on a struct",
			doc: `
types:
  - {namespace: A, name: C, category: class}
  - {namespace: A, name: S, category: struct, extends: A.C}
`,
			want: "only valid between classes",
		},
		{
			name: "arity mismatch",
			doc: "types:\n  - {namespace: A, name: \"IVector`2\", category: interface, generics: [T]}\n",
			want: "arity suffix",
		},
		{
			name: "unknown generic parameter",
			doc: `
types:
  - namespace: A
    name: I
    category: interface
    methods:
      - name: Get
        returns: T
`,
			want: "unknown type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}
