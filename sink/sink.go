// Package sink provides output destinations for generated files.
//
// A generation run stages everything it produces and only flushes through a
// sink once every namespace has composed, so a failed run never leaves
// partial output behind. FilesystemSink commits each file atomically;
// MemorySink captures output for tests and for comparing a fresh run
// against files already on disk.
package sink

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

// OutputSink receives generated files. Implementations must be safe for
// concurrent use; namespace workers may flush in parallel.
type OutputSink interface {
	// WriteFile writes content at a slash-separated path relative to the
	// sink's root.
	WriteFile(ctx context.Context, path string, content []byte) error
}

// FilesystemSink writes files under a root directory. Each write goes
// through a temp file in the destination directory and becomes visible in a
// single rename, so readers never observe a half-written bindings file.
type FilesystemSink struct {
	// Root is the directory all paths are resolved against.
	Root string
	// Mode is the permission mode for created files. Zero means 0644.
	Mode os.FileMode
	// Overwrite allows replacing existing files. When false, writing to a
	// path that already exists fails.
	Overwrite bool
}

// NewFilesystemSink returns a sink rooted at dir that overwrites existing
// files.
func NewFilesystemSink(dir string) *FilesystemSink {
	return &FilesystemSink{Root: dir, Mode: 0o644, Overwrite: true}
}

func (s *FilesystemSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return errors.Wrapf(err, "invalid output path %q", path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	full := filepath.Join(s.Root, filepath.FromSlash(path))
	absRoot, err := filepath.Abs(s.Root)
	if err != nil {
		return errors.Wrap(err, "resolving output root")
	}
	abs, err := filepath.Abs(full)
	if err != nil {
		return errors.Wrapf(err, "resolving %q", path)
	}
	if abs != absRoot && !strings.HasPrefix(abs, absRoot+string(filepath.Separator)) {
		return errors.Newf("path %q escapes the output root", path)
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %q", path)
	}

	mode := s.Mode
	if mode == 0 {
		mode = 0o644
	}

	// Stage in the destination directory so the final rename stays on one
	// filesystem.
	tmp, err := os.CreateTemp(dir, ".winrtgen-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpPath := tmp.Name()
	discard := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		discard()
		return errors.Wrapf(err, "writing %q", path)
	}
	if err := tmp.Close(); err != nil {
		discard()
		return errors.Wrapf(err, "closing temp file for %q", path)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		discard()
		return errors.Wrapf(err, "setting mode on %q", path)
	}
	if err := ctx.Err(); err != nil {
		discard()
		return err
	}

	if s.Overwrite {
		if err := os.Rename(tmpPath, full); err != nil {
			discard()
			return errors.Wrapf(err, "committing %q", path)
		}
		return nil
	}

	// Link instead of stat-then-rename: it fails with EEXIST atomically
	// when the destination appeared between the check and the commit.
	if err := os.Link(tmpPath, full); err != nil {
		discard()
		if errors.Is(err, os.ErrExist) {
			return errors.Newf("refusing to overwrite existing file %q", path)
		}
		return errors.Wrapf(err, "committing %q", path)
	}
	discard()
	return nil
}

// MemorySink collects written files in memory.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemorySink returns an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

func (s *MemorySink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := ValidatePath(path); err != nil {
		return errors.Wrapf(err, "invalid output path %q", path)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	cp := make([]byte, len(content))
	copy(cp, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = cp
	return nil
}

// Files returns a copy of everything written so far, keyed by path.
func (s *MemorySink) Files() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]byte, len(s.files))
	for path, content := range s.files {
		cp := make([]byte, len(content))
		copy(cp, content)
		out[path] = cp
	}
	return out
}

// Get returns the content written at path, or nil if nothing was written
// there.
func (s *MemorySink) Get(path string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.files[path]
	if !ok {
		return nil
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}

// Reset discards everything written so far.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string][]byte)
}

// ValidatePath rejects paths that are empty, absolute, traversing, or not
// in clean slash form. Sinks call it before resolving anything against
// their root.
func ValidatePath(path string) error {
	if path == "" {
		return errors.New("path is empty")
	}
	if filepath.IsAbs(path) {
		return errors.New("absolute paths not allowed")
	}
	if len(path) >= 2 && path[1] == ':' && isDriveLetter(path[0]) {
		return errors.New("absolute paths not allowed")
	}
	if strings.Contains(path, "..") {
		return errors.New("path traversal not allowed")
	}
	if cleaned := filepath.ToSlash(filepath.Clean(path)); cleaned != path {
		return errors.Newf("path not clean, want %q", cleaned)
	}
	return nil
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
