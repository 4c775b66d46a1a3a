package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "simple file", path: "bindings.rs"},
		{name: "nested path", path: "windows/foundation/bindings.rs"},
		{name: "empty", path: "", wantErr: "empty"},
		{name: "absolute", path: "/tmp/bindings.rs", wantErr: "absolute"},
		{name: "drive letter", path: `C:\out\bindings.rs`, wantErr: "absolute"},
		{name: "traversal inside", path: "out/../bindings.rs", wantErr: "traversal"},
		{name: "traversal prefix", path: "../bindings.rs", wantErr: "traversal"},
		{name: "bare dots", path: "..", wantErr: "traversal"},
		{name: "current dir prefix", path: "./bindings.rs", wantErr: "not clean"},
		{name: "double slash", path: "out//bindings.rs", wantErr: "not clean"},
		{name: "trailing slash", path: "out/", wantErr: "not clean"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestFilesystemSinkWrite(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)

	content := []byte("// Generated by winrtgen. Do not edit.\n")
	require.NoError(t, s.WriteFile(context.Background(), "bindings.rs", content))

	got, err := os.ReadFile(filepath.Join(root, "bindings.rs"))
	require.NoError(t, err)
	require.Equal(t, content, got)

	// No staging files left behind.
	leftovers, err := filepath.Glob(filepath.Join(root, ".winrtgen-*.tmp"))
	require.NoError(t, err)
	require.Empty(t, leftovers)
}

func TestFilesystemSinkCreatesParents(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)

	require.NoError(t, s.WriteFile(context.Background(), "nested/deep/bindings.rs", []byte("pub mod nested {}\n")))

	_, err := os.Stat(filepath.Join(root, "nested", "deep", "bindings.rs"))
	require.NoError(t, err)
}

func TestFilesystemSinkOverwrite(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)

	require.NoError(t, s.WriteFile(context.Background(), "bindings.rs", []byte("first")))
	require.NoError(t, s.WriteFile(context.Background(), "bindings.rs", []byte("second")))

	got, err := os.ReadFile(filepath.Join(root, "bindings.rs"))
	require.NoError(t, err)
	require.Equal(t, "second", string(got))
}

func TestFilesystemSinkRefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)
	s.Overwrite = false

	require.NoError(t, s.WriteFile(context.Background(), "bindings.rs", []byte("first")))

	err := s.WriteFile(context.Background(), "bindings.rs", []byte("second"))
	require.ErrorContains(t, err, "refusing to overwrite")

	got, readErr := os.ReadFile(filepath.Join(root, "bindings.rs"))
	require.NoError(t, readErr)
	require.Equal(t, "first", string(got))
}

func TestFilesystemSinkRejectsEscape(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)

	err := s.WriteFile(context.Background(), "../escape.rs", []byte("x"))
	require.Error(t, err)

	err = s.WriteFile(context.Background(), "/etc/escape.rs", []byte("x"))
	require.Error(t, err)
}

func TestFilesystemSinkMode(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)
	s.Mode = 0o600

	require.NoError(t, s.WriteFile(context.Background(), "bindings.rs", []byte("x")))

	info, err := os.Stat(filepath.Join(root, "bindings.rs"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFilesystemSinkCanceledContext(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.WriteFile(ctx, "bindings.rs", []byte("x"))
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(root, "bindings.rs"))
	require.True(t, os.IsNotExist(statErr))
}

func TestFilesystemSinkConcurrentWrites(t *testing.T) {
	root := t.TempDir()
	s := NewFilesystemSink(root)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := fmt.Sprintf("ns%d/bindings.rs", i)
			errs[i] = s.WriteFile(context.Background(), path, []byte(path))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err)
		got, readErr := os.ReadFile(filepath.Join(root, fmt.Sprintf("ns%d", i), "bindings.rs"))
		require.NoError(t, readErr)
		require.Equal(t, fmt.Sprintf("ns%d/bindings.rs", i), string(got))
	}
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()

	content := []byte("pub mod widgets {}\n")
	require.NoError(t, s.WriteFile(context.Background(), "bindings.rs", content))

	// The sink keeps its own copy.
	content[0] = '!'
	require.Equal(t, "pub mod widgets {}\n", string(s.Get("bindings.rs")))

	// And hands out copies.
	got := s.Get("bindings.rs")
	got[0] = '!'
	require.Equal(t, "pub mod widgets {}\n", string(s.Get("bindings.rs")))

	require.Nil(t, s.Get("missing.rs"))

	files := s.Files()
	require.Len(t, files, 1)

	s.Reset()
	require.Empty(t, s.Files())
	require.Nil(t, s.Get("bindings.rs"))
}

func TestMemorySinkRejectsBadPath(t *testing.T) {
	s := NewMemorySink()
	require.Error(t, s.WriteFile(context.Background(), "../bindings.rs", []byte("x")))
	require.Empty(t, s.Files())
}

func TestMemorySinkConcurrent(t *testing.T) {
	s := NewMemorySink()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := fmt.Sprintf("ns%d.rs", i)
			_ = s.WriteFile(context.Background(), path, []byte(path))
		}(i)
	}
	wg.Wait()

	require.Len(t, s.Files(), 16)
}
