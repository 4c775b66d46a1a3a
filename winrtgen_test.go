package winrtgen

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"winrtgen/compose"
	"winrtgen/metadata"
	"winrtgen/sink"
)

const testUniverse = `
types:
  - namespace: Widgets.Display
    name: Brightness
    category: enum
    members:
      - name: Dim
        value: 0
      - name: Full
        value: 1
  - namespace: Fleet.Core
    name: Heading
    category: struct
    fields:
      - name: Degrees
        type: f64
`

// Both generated namespaces reach into one that is not generated.
const leakUniverse = `
types:
  - namespace: Hidden
    name: Blocked
    category: struct
    fields:
      - name: Value
        type: i32
  - namespace: Alpha
    name: Payload
    category: struct
    fields:
      - name: Inner
        type: Hidden.Blocked
  - namespace: Beta
    name: Cargo
    category: struct
    fields:
      - name: Inner
        type: Hidden.Blocked
`

func TestGenerate(t *testing.T) {
	store, err := metadata.Parse([]byte(testUniverse))
	require.NoError(t, err)

	out := sink.NewMemorySink()
	result, err := Generate(context.Background(), store, out, Options{
		Namespaces: []string{"Widgets.Display", "Fleet.Core"},
		Report:     "report.json",
	})
	require.NoError(t, err)

	bindings := out.Get("bindings.rs")
	require.NotNil(t, bindings)
	require.Contains(t, string(bindings), "pub mod fleet {")
	require.Contains(t, string(bindings), "pub enum Brightness {")

	require.Equal(t, 2, result.Types)
	require.Equal(t, []NamespaceCount{
		{Name: "Fleet.Core", Types: 1},
		{Name: "Widgets.Display", Types: 1},
	}, result.Namespaces)

	require.Len(t, result.Files, 2)
	require.Equal(t, "bindings.rs", result.Files[0].Path)
	require.Equal(t, int64(len(bindings)), result.Files[0].Size)
	require.Equal(t, "report.json", result.Files[1].Path)

	var report Result
	require.NoError(t, json.Unmarshal(out.Get("report.json"), &report))
	require.Equal(t, result.Namespaces, report.Namespaces)
	require.Equal(t, 2, report.Types)
	// The report lists what was written before it.
	require.Len(t, report.Files, 1)
}

func TestGenerateDeterministic(t *testing.T) {
	store, err := metadata.Parse([]byte(testUniverse))
	require.NoError(t, err)

	first := sink.NewMemorySink()
	_, err = Generate(context.Background(), store, first, Options{
		Namespaces: []string{"Widgets.Display", "Fleet.Core"},
	})
	require.NoError(t, err)

	second := sink.NewMemorySink()
	_, err = Generate(context.Background(), store, second, Options{
		Namespaces: []string{"Fleet.Core", "Widgets.Display"},
	})
	require.NoError(t, err)

	require.Equal(t, first.Get("bindings.rs"), second.Get("bindings.rs"))
}

func TestGenerateCustomFile(t *testing.T) {
	store, err := metadata.Parse([]byte(testUniverse))
	require.NoError(t, err)

	out := sink.NewMemorySink()
	_, err = Generate(context.Background(), store, out, Options{
		Namespaces: []string{"Fleet.Core"},
		File:       "src/windows.rs",
	})
	require.NoError(t, err)
	require.NotNil(t, out.Get("src/windows.rs"))
	require.Nil(t, out.Get("bindings.rs"))
}

func TestGenerateNoNamespaces(t *testing.T) {
	store, err := metadata.Parse([]byte(testUniverse))
	require.NoError(t, err)

	_, err = Generate(context.Background(), store, sink.NewMemorySink(), Options{})
	require.ErrorContains(t, err, "at least one namespace")
}

func TestGenerateFailureWritesNothing(t *testing.T) {
	store, err := metadata.Parse([]byte(leakUniverse))
	require.NoError(t, err)

	out := sink.NewMemorySink()
	_, err = Generate(context.Background(), store, out, Options{
		Namespaces: []string{"Alpha", "Beta"},
	})
	require.Error(t, err)
	require.Empty(t, out.Files())
}

func TestComposeFirstErrorWins(t *testing.T) {
	store, err := metadata.Parse([]byte(leakUniverse))
	require.NoError(t, err)

	// Regardless of the order the caller lists namespaces, the failure
	// reported is the one lowest in sort order.
	for _, order := range [][]string{
		{"Alpha", "Beta"},
		{"Beta", "Alpha"},
	} {
		_, err := Compose(context.Background(), store, Options{Namespaces: order})
		require.Error(t, err)
		require.ErrorIs(t, err, compose.ErrExcludedLeak)
		require.ErrorContains(t, err, "composing Alpha")
	}
}

func TestComposeDedupesNamespaces(t *testing.T) {
	store, err := metadata.Parse([]byte(testUniverse))
	require.NoError(t, err)

	built, err := Compose(context.Background(), store, Options{
		Namespaces: []string{"Fleet.Core", "Fleet.Core", "Fleet.Core"},
	})
	require.NoError(t, err)
	require.Len(t, built, 1)
	require.Equal(t, "Fleet.Core", built[0].Name)
}

func TestComposeCanceledContext(t *testing.T) {
	store, err := metadata.Parse([]byte(testUniverse))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Compose(ctx, store, Options{Namespaces: []string{"Fleet.Core"}})
	require.ErrorIs(t, err, context.Canceled)
}
