// Package dockertpl turns hand-written Dockerfiles into Dockerfile.tpl
// templates.
//
// Rewriting is textual and line oriented: a closed catalogue of ARG names
// and a closed table of FROM image literals. Supporting another variable or
// base image means adding an entry, not parsing more Dockerfile syntax.
package dockertpl

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ai-infra-matrix/matrix-tpl/internal/env"
)

// Transformer rewrites Dockerfile text. It is safe for reuse and holds no
// per-file state.
type Transformer struct {
	catalogue []string
	overrides []Override
	args      []argRule
}

type argRule struct {
	name    string
	pattern *regexp.Regexp
	repl    string
}

// NewTransformer compiles the rules for catalogue and overrides.
//
// Overrides are rejected when a replacement would itself contain the FROM
// literal of some override, since the transform would then no longer be
// idempotent.
func NewTransformer(catalogue []string, overrides []Override) (*Transformer, error) {
	t := &Transformer{
		catalogue: append([]string(nil), catalogue...),
		overrides: append([]Override(nil), overrides...),
	}

	for _, name := range catalogue {
		if !env.ValidName(name) {
			return nil, fmt.Errorf("catalogue entry %q is not a valid variable name", name)
		}
		// "ARG NAME=anything" or a bare "ARG NAME" with optional trailing
		// blanks. Leading indentation and a CR before the newline survive.
		pattern := regexp.MustCompile(`(?m)^([ \t]*)ARG[ \t]+` + regexp.QuoteMeta(name) + `(?:=[^\r\n]*|[ \t]*)(\r?)$`)
		t.args = append(t.args, argRule{
			name:    name,
			pattern: pattern,
			repl:    "${1}ARG " + name + "={{" + name + "}}${2}",
		})
	}

	for i, o := range overrides {
		if o.Old == "" || o.New == "" {
			return nil, fmt.Errorf("override %d: old and new must both be set", i)
		}
		for _, other := range overrides {
			if strings.Contains("FROM "+o.New, "FROM "+other.Old) {
				return nil, fmt.Errorf("override %q -> %q would match %q again", o.Old, o.New, other.Old)
			}
		}
	}

	return t, nil
}

// NewDefaultTransformer returns a Transformer over the built-in catalogue and
// override table.
func NewDefaultTransformer() *Transformer {
	t, err := NewTransformer(DefaultCatalogue, DefaultOverrides)
	if err != nil {
		panic(err)
	}
	return t
}

// Catalogue returns the ARG names this transformer rewrites.
func (t *Transformer) Catalogue() []string {
	return append([]string(nil), t.catalogue...)
}

// Overrides returns the FROM override table this transformer applies.
func (t *Transformer) Overrides() []Override {
	return append([]Override(nil), t.overrides...)
}

// Transform applies the ARG rules, then the FROM overrides, to content.
//
// The FROM match is a plain substring, so "FROM ubuntu:22.04 AS build" and a
// commented "# FROM ubuntu:22.04" are rewritten too, and so is the prefix of
// "FROM ubuntu:22.04.1".
func (t *Transformer) Transform(content string) string {
	for _, rule := range t.args {
		content = rule.pattern.ReplaceAllString(content, rule.repl)
	}
	for _, o := range t.overrides {
		content = strings.ReplaceAll(content, "FROM "+o.Old, "FROM "+o.New)
	}
	return content
}

// Changes reports which catalogue ARGs and overrides would alter content.
func (t *Transformer) Changes(content string) (args []string, froms []Override) {
	for _, rule := range t.args {
		for _, m := range rule.pattern.FindAllString(content, -1) {
			if strings.TrimSpace(m) != "ARG "+rule.name+"={{"+rule.name+"}}" {
				args = append(args, rule.name)
				break
			}
		}
	}
	for _, o := range t.overrides {
		if strings.Contains(content, "FROM "+o.Old) {
			froms = append(froms, o)
		}
	}
	return args, froms
}
