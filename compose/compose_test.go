package compose

import (
	"testing"

	"github.com/stretchr/testify/require"

	"winrtgen/metadata"
)

// load builds a store from a YAML fixture.
func load(t *testing.T, doc string) *metadata.Store {
	t.Helper()
	store, err := metadata.Parse([]byte(doc))
	require.NoError(t, err)
	return store
}

func lookup(t *testing.T, store *metadata.Store, qualified string) metadata.TypeID {
	t.Helper()
	id, ok := store.Lookup(qualified)
	require.True(t, ok, "fixture is missing %s", qualified)
	return id
}

// testGuid is a reusable identifier attribute for fixtures.
const testGuid = "guid: [1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11]"
