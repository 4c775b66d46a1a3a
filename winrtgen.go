// Package winrtgen generates Rust interop bindings from resolved WinRT
// metadata.
//
// A run is a pure transform: it reads a metadata store, composes every
// namespace in the inclusion set, renders one Rust source file, and writes
// it through an output sink. Namespaces compose independently, so workers
// fan out one per namespace; the rendered module tree is merged in sorted
// order, which keeps the output byte-identical regardless of scheduling.
package winrtgen

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"winrtgen/compose"
	"winrtgen/ir"
	"winrtgen/metadata"
	"winrtgen/rust"
	"winrtgen/sink"
)

// DefaultFile is the bindings path used when Options.File is empty.
const DefaultFile = "bindings.rs"

// Options configures a generation run.
type Options struct {
	// Namespaces is the inclusion set. Exactly these namespaces are
	// generated; types outside the set must not surface in any generated
	// signature.
	Namespaces []string

	// File is the sink path of the generated Rust source. Empty means
	// DefaultFile.
	File string

	// Report is an optional sink path for a JSON run report. Empty writes
	// no report.
	Report string

	// Log receives progress output. Nil disables logging.
	Log *zap.Logger
}

// Result summarizes a completed run.
type Result struct {
	// Files lists everything written through the sink, in write order.
	Files []OutputFile `json:"files"`
	// Namespaces counts composed declarations per namespace, sorted by
	// namespace name.
	Namespaces []NamespaceCount `json:"namespaces"`
	// Types is the total declaration count across all namespaces.
	Types int `json:"types"`
	// ElapsedMS is the wall-clock duration of the run in milliseconds.
	ElapsedMS int64 `json:"elapsed_ms"`
}

// OutputFile describes one file written through the sink.
type OutputFile struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// NamespaceCount is the per-namespace slice of the run report.
type NamespaceCount struct {
	Name  string `json:"name"`
	Types int    `json:"types"`
}

// Compose runs the composition phase for every namespace in opts and
// returns the built declarations, sorted by namespace name. It writes
// nothing; Generate and the check command both build on it.
//
// Each namespace composes on its own goroutine with its own engine, since
// an engine's generic frame stack is live state. When several namespaces
// fail, the one lowest in sort order wins, so a failing run always reports
// the same error.
func Compose(ctx context.Context, store *metadata.Store, opts Options) ([]*ir.Namespace, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	names := dedupe(opts.Namespaces)
	if len(names) == 0 {
		return nil, errors.New("at least one namespace is required")
	}

	built := make([]*ir.Namespace, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	for i, ns := range names {
		wg.Add(1)
		go func(i int, ns string) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return
			}
			eng := compose.New(store, names, log)
			n, err := eng.Namespace(ns)
			if err != nil {
				errs[i] = errors.Wrapf(err, "composing %s", ns)
				return
			}
			built[i] = n
		}(i, ns)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return built, nil
}

// Generate composes every namespace in opts, renders the merged module
// tree, and writes it through out, plus the JSON report when configured.
// Nothing is written unless every namespace composed, so a failed run never
// leaves partial output.
func Generate(ctx context.Context, store *metadata.Store, out sink.OutputSink, opts Options) (*Result, error) {
	start := time.Now()
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	built, err := Compose(ctx, store, opts)
	if err != nil {
		return nil, err
	}

	rendered := rust.Render(built)

	file := opts.File
	if file == "" {
		file = DefaultFile
	}

	result := &Result{}
	for _, ns := range built {
		result.Namespaces = append(result.Namespaces, NamespaceCount{Name: ns.Name, Types: len(ns.Decls)})
		result.Types += len(ns.Decls)
	}

	if err := out.WriteFile(ctx, file, rendered); err != nil {
		return nil, errors.Wrapf(err, "writing %s", file)
	}
	result.Files = append(result.Files, OutputFile{Path: file, Size: int64(len(rendered))})
	result.ElapsedMS = time.Since(start).Milliseconds()

	if opts.Report != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "encoding report")
		}
		data = append(data, '\n')
		if err := out.WriteFile(ctx, opts.Report, data); err != nil {
			return nil, errors.Wrapf(err, "writing %s", opts.Report)
		}
		result.Files = append(result.Files, OutputFile{Path: opts.Report, Size: int64(len(data))})
	}

	log.Info("generated bindings",
		zap.Int("namespaces", len(result.Namespaces)),
		zap.Int("types", result.Types),
		zap.String("file", file),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

// dedupe sorts namespaces and drops repeats.
func dedupe(namespaces []string) []string {
	names := make([]string, len(namespaces))
	copy(names, namespaces)
	sort.Strings(names)

	uniq := names[:0]
	for _, ns := range names {
		if len(uniq) == 0 || uniq[len(uniq)-1] != ns {
			uniq = append(uniq, ns)
		}
	}
	return uniq
}
