package rust

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"winrtgen/ir"
	"winrtgen/metadata"
)

func TestTypeName(t *testing.T) {
	var buf bytes.Buffer
	w := newWriter(&buf, "Widgets.Core", 0)

	require.Equal(t, "bool", w.typeName(ir.ElementExpr{Element: metadata.ElementBool}, typePos))
	require.Equal(t, "u16", w.typeName(ir.ElementExpr{Element: metadata.ElementChar}, typePos))
	require.Equal(t, "winrt::HString", w.typeName(ir.ElementExpr{Element: metadata.ElementString}, typePos))
	require.Equal(t, "winrt::Object", w.typeName(ir.ElementExpr{Element: metadata.ElementObject}, typePos))

	// The home namespace needs no path, siblings route through the parent.
	require.Equal(t, "IWidget",
		w.typeName(ir.NamedExpr{Namespace: "Widgets.Core", Name: "IWidget"}, typePos))
	require.Equal(t, "super::data::IStore",
		w.typeName(ir.NamedExpr{Namespace: "Widgets.Data", Name: "IStore"}, typePos))
	require.Equal(t, "winrt::Guid",
		w.typeName(ir.NamedExpr{Namespace: "System", Name: "Guid"}, typePos))

	inst := ir.InstanceExpr{
		Namespace: "Widgets.Core",
		Name:      "IIterator",
		Args:      []ir.TypeExpr{ir.ParamExpr{Name: "T"}},
	}
	require.Equal(t, "IIterator<T>", w.typeName(inst, typePos))
	require.Equal(t, "IIterator::<T>", w.typeName(inst, exprPos))
}

func TestTypeNameFromSubmodule(t *testing.T) {
	var buf bytes.Buffer
	sub := newWriter(&buf, "Widgets.Core", 0).child()

	// Submodule bodies sit one level below the namespace, so every path
	// gains an extra upward step.
	require.Equal(t, "super::IWidget",
		sub.typeName(ir.NamedExpr{Namespace: "Widgets.Core", Name: "IWidget"}, typePos))
	require.Equal(t, "super::super::data::IStore",
		sub.typeName(ir.NamedExpr{Namespace: "Widgets.Data", Name: "IStore"}, typePos))
}

func TestGenerics(t *testing.T) {
	g := declGenerics(nil)
	require.Equal(t, "", g.suffix())
	require.Equal(t, "", g.declSuffix())
	require.Equal(t, "impl", g.impl())
	require.Equal(t, "impl<'a>", g.impl("'a"))

	g = declGenerics([]string{"K", "V"})
	require.Equal(t, "<K, V>", g.suffix())
	require.Equal(t,
		"<K: winrt::RuntimeType + 'static, V: winrt::RuntimeType + 'static>",
		g.declSuffix())
	require.Equal(t,
		"impl<K: winrt::RuntimeType + 'static, V: winrt::RuntimeType + 'static>",
		g.impl())
	require.Equal(t,
		"impl<'a, K: winrt::RuntimeType + 'static, V: winrt::RuntimeType + 'static>",
		g.impl("'a"))
}

func TestGuidValues(t *testing.T) {
	g := ir.Guid{Data1: 1, Data2: 2, Data3: 3, Data4: [8]uint8{4, 5, 6, 7, 8, 9, 10, 11}}
	require.Equal(t, "1, 2, 3, &[4, 5, 6, 7, 8, 9, 10, 11]", guidValues(g))

	g = ir.Guid{
		Data1: 0xaf86e2e0,
		Data2: 0xb12d,
		Data3: 0x4c6a,
		Data4: [8]uint8{0x9c, 0x5a, 0xd7, 0xaa, 0x65, 0x10, 0x1e, 0x90},
	}
	require.Equal(t,
		"2944852704, 45357, 19562, &[156, 90, 215, 170, 101, 16, 30, 144]",
		guidValues(g))
}
