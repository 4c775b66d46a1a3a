package rust

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"winrtgen/internal/casing"
	"winrtgen/ir"
)

// Render assembles namespaces into one Rust source file. Namespaces are
// sorted by name and nested into a shared module tree, so any generation
// order produces identical output.
func Render(namespaces []*ir.Namespace) []byte {
	sorted := make([]*ir.Namespace, len(namespaces))
	copy(sorted, namespaces)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var buf bytes.Buffer
	buf.WriteString("// Generated by winrtgen. Do not edit.\n")

	var open []string
	pad := func(depth int) {
		for i := 0; i < depth; i++ {
			buf.WriteString(indent)
		}
	}
	closeTo := func(depth int) {
		for len(open) > depth {
			open = open[:len(open)-1]
			pad(len(open))
			buf.WriteString("}\n")
		}
	}

	for _, ns := range sorted {
		segments := strings.Split(ns.Name, ".")
		shared := 0
		for shared < len(open) && shared < len(segments) && open[shared] == segments[shared] {
			shared++
		}
		closeTo(shared)
		for _, s := range segments[shared:] {
			pad(len(open))
			fmt.Fprintf(&buf, "pub mod %s {\n", escape(casing.Snake(s)))
			open = append(open, s)
		}
		newWriter(&buf, ns.Name, len(open)).namespace(ns)
	}
	closeTo(0)
	return buf.Bytes()
}
