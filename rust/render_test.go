package rust

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"winrtgen/compose"
	"winrtgen/ir"
	"winrtgen/metadata"
)

// TestRenderGoldens drives archives end to end: each testdata archive holds a
// metadata document, the namespaces to generate, and the expected source.
func TestRenderGoldens(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("testdata", "*.txt"))
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	for _, path := range matches {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txt"), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)

			var doc, list, want []byte
			for _, f := range ar.Files {
				switch f.Name {
				case "metadata.yaml":
					doc = f.Data
				case "namespaces.txt":
					list = f.Data
				case "bindings.rs":
					want = f.Data
				}
			}
			require.NotEmpty(t, doc, "archive needs metadata.yaml")
			require.NotEmpty(t, list, "archive needs namespaces.txt")

			store, err := metadata.Parse(doc)
			require.NoError(t, err)

			namespaces := strings.Fields(string(list))
			engine := compose.New(store, namespaces, nil)
			built := make([]*ir.Namespace, 0, len(namespaces))
			for _, ns := range namespaces {
				n, err := engine.Namespace(ns)
				require.NoError(t, err)
				built = append(built, n)
			}

			require.Equal(t, string(want), string(Render(built)))
		})
	}
}

// Namespaces arrive in whatever order workers finish; the rendered file must
// not depend on it.
func TestRenderOrderIndependent(t *testing.T) {
	store, err := metadata.Parse([]byte(`
types:
  - namespace: Alpha.One
    name: Color
    category: enum
    members:
      - name: Red
        value: 0
  - namespace: Beta.Two
    name: Point
    category: struct
    fields:
      - name: X
        type: i32
`))
	require.NoError(t, err)

	engine := compose.New(store, []string{"Alpha.One", "Beta.Two"}, nil)
	a, err := engine.Namespace("Alpha.One")
	require.NoError(t, err)
	b, err := engine.Namespace("Beta.Two")
	require.NoError(t, err)

	forward := Render([]*ir.Namespace{a, b})
	reverse := Render([]*ir.Namespace{b, a})
	require.Equal(t, string(forward), string(reverse))
	require.True(t, strings.HasPrefix(string(forward), "// Generated by winrtgen."))
}
