// Package render expands {{NAME}} tokens in text.
//
// The token grammar is deliberately narrow so that rendered files can carry
// other templating syntax untouched: nginx $variables, shell $VAR and ${VAR},
// Jinja-style {{ lower }} blocks. Only {{NAME}} with NAME matching
// [A-Z_][A-Z0-9_]* is a token.
package render

import (
	"regexp"

	"github.com/ai-infra-matrix/matrix-tpl/internal/env"
)

var tokenPattern = regexp.MustCompile(`\{\{([A-Z_][A-Z0-9_]*)\}\}`)

// Substitute replaces every token whose name is present in vars with its
// value. Tokens for absent names are kept verbatim. Substituted values are
// not scanned again, so a value containing {{OTHER}} is emitted literally.
func Substitute(text string, vars env.Map) string {
	return tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := token[2 : len(token)-2]
		if value, ok := vars[name]; ok {
			return value
		}
		return token
	})
}

// Tokens returns the distinct token names in text in order of first appearance.
func Tokens(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range tokenPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Unresolved returns the token names in text that vars does not define.
func Unresolved(text string, vars env.Map) []string {
	var missing []string
	for _, name := range Tokens(text) {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Resolved returns the token names in text that vars defines.
func Resolved(text string, vars env.Map) []string {
	var found []string
	for _, name := range Tokens(text) {
		if _, ok := vars[name]; ok {
			found = append(found, name)
		}
	}
	return found
}
