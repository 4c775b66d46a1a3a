// Package rust renders composed declarations to Rust source text. Each
// namespace becomes one module body holding the consumer types in declaration
// order followed by the abi and traits submodules; Render nests the bodies
// into a module tree sorted by namespace.
package rust

import (
	"bytes"
	"fmt"

	"winrtgen/nspath"
)

const indent = "    "

// writer emits indented lines into a shared buffer. ns is the namespace being
// rendered; subMod marks bodies nested one module below it (abi, traits),
// which need one extra upward step on every cross-namespace path.
type writer struct {
	buf    *bytes.Buffer
	ns     string
	depth  int
	subMod bool
}

func newWriter(buf *bytes.Buffer, ns string, depth int) *writer {
	return &writer{buf: buf, ns: ns, depth: depth}
}

// child returns a writer for a submodule body, buffering separately so the
// namespace body can be assembled out of order.
func (w *writer) child() *writer {
	return &writer{buf: &bytes.Buffer{}, ns: w.ns, depth: w.depth + 1, subMod: true}
}

func (w *writer) line(format string, args ...any) {
	for i := 0; i < w.depth; i++ {
		w.buf.WriteString(indent)
	}
	fmt.Fprintf(w.buf, format, args...)
	w.buf.WriteByte('\n')
}

// open writes a line and indents until the matching close.
func (w *writer) open(format string, args ...any) {
	w.line(format, args...)
	w.depth++
}

func (w *writer) close(text string) {
	w.depth--
	w.line("%s", text)
}

func (w *writer) blank() {
	w.buf.WriteByte('\n')
}

// sep separates consecutive items within a buffered submodule body.
func (w *writer) sep() {
	if w.buf.Len() > 0 {
		w.blank()
	}
}

// prefix renders the module path from the current position to namespace ns.
func (w *writer) prefix(ns string) string {
	p := nspath.Relative(w.ns, ns)
	if w.subMod {
		p.Ups++
	}
	return p.Prefix()
}
