package rust

// Rust strict and reserved keywords. Metadata names that land on one are
// escaped as raw identifiers.
var keywords = map[string]bool{
	"abstract": true,
	"as":       true,
	"async":    true,
	"await":    true,
	"become":   true,
	"box":      true,
	"break":    true,
	"const":    true,
	"continue": true,
	"crate":    true,
	"do":       true,
	"dyn":      true,
	"else":     true,
	"enum":     true,
	"extern":   true,
	"false":    true,
	"final":    true,
	"fn":       true,
	"for":      true,
	"if":       true,
	"impl":     true,
	"in":       true,
	"let":      true,
	"loop":     true,
	"macro":    true,
	"match":    true,
	"mod":      true,
	"move":     true,
	"mut":      true,
	"override": true,
	"priv":     true,
	"pub":      true,
	"ref":      true,
	"return":   true,
	"self":     true,
	"Self":     true,
	"static":   true,
	"struct":   true,
	"super":    true,
	"trait":    true,
	"true":     true,
	"try":      true,
	"type":     true,
	"typeof":   true,
	"unsafe":   true,
	"unsized":  true,
	"use":      true,
	"virtual":  true,
	"where":    true,
	"while":    true,
	"yield":    true,
}

// cannotRaw holds the keywords the raw identifier syntax rejects.
var cannotRaw = map[string]bool{
	"crate": true,
	"self":  true,
	"Self":  true,
	"super": true,
}

// escape makes a metadata name usable as a Rust identifier. Keywords become
// raw identifiers; the few names raw identifiers cannot express get a
// trailing underscore instead.
func escape(name string) string {
	if !keywords[name] {
		return name
	}
	if cannotRaw[name] {
		return name + "_"
	}
	return "r#" + name
}
