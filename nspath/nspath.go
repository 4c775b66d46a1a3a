// Package nspath computes minimal relative module paths between
// dot-separated namespaces. Generated code refers to types in other
// namespaces through the module tree rather than by absolute path, so a
// reference from "Windows.Media.Playback" to "Windows.Foundation" climbs two
// levels and descends into "foundation".
package nspath

import (
	"strings"

	"winrtgen/internal/casing"
)

// Path is a relative module path: Ups levels upward followed by Segments
// downward. Segments are already folded to the module naming convention.
type Path struct {
	Ups      int
	Segments []string
}

// Relative resolves the path leading from namespace from to namespace to.
// The longest shared leading run of segments is eliminated; one upward step
// remains for every extra source segment, and one downward segment for every
// extra destination segment. Identical namespaces yield the empty path.
func Relative(from, to string) Path {
	src := split(from)
	dst := split(to)

	shared := 0
	for shared < len(src) && shared < len(dst) && src[shared] == dst[shared] {
		shared++
	}

	var p Path
	p.Ups = len(src) - shared
	for _, seg := range dst[shared:] {
		p.Segments = append(p.Segments, casing.Snake(seg))
	}
	return p
}

// IsEmpty reports whether the path resolves to the current module.
func (p Path) IsEmpty() bool {
	return p.Ups == 0 && len(p.Segments) == 0
}

// Prefix renders the path as a Rust module prefix ending in "::", or the
// empty string for the empty path.
func (p Path) Prefix() string {
	if p.IsEmpty() {
		return ""
	}
	var b strings.Builder
	for i := 0; i < p.Ups; i++ {
		b.WriteString("super::")
	}
	for _, seg := range p.Segments {
		b.WriteString(seg)
		b.WriteString("::")
	}
	return b.String()
}

func split(ns string) []string {
	if ns == "" {
		return nil
	}
	return strings.Split(ns, ".")
}
