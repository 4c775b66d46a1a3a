// Package casing converts WinRT metadata names (PascalCase, with acronym
// runs) to the snake_case convention used throughout the generated source.
package casing

import (
	"strings"
	"unicode"
)

// Snake converts a PascalCase or camelCase metadata name to snake_case.
// Acronym runs stay together: "UIElement" becomes "ui_element".
func Snake(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 2)
	AppendSnake(&b, name)
	return b.String()
}

// AppendSnake appends the snake_case form of name to b. If b already holds a
// projected prefix (such as "set" or "remove"), a separator is inserted
// before the first appended word.
func AppendSnake(b *strings.Builder, name string) {
	runes := []rune(name)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if boundaryBefore(b, runes, i) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
}

// boundaryBefore reports whether a word boundary precedes runes[i], which is
// known to be uppercase.
func boundaryBefore(b *strings.Builder, runes []rune, i int) bool {
	if b.Len() == 0 {
		return false
	}
	if strings.HasSuffix(b.String(), "_") {
		return false
	}
	if i == 0 {
		// First appended rune after an existing prefix.
		return true
	}
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	// Inside an acronym run: split only when the run ends, i.e. the next
	// rune starts a lowercase word ("UIElement" -> "ui_element").
	if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
		return true
	}
	return false
}
