// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render fills template placeholders from a context mapping.
//
// Placeholders are {name} or {{name}} (whitespace allowed inside double
// braces). Substitution is flat and single-pass: values are inserted
// verbatim and never re-scanned, and no control flow is interpreted.
package render

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/docgen/pkg/types"
)

// ErrMissingContextKey matches every *MissingContextKeyError.
var ErrMissingContextKey = errors.New("missing context key")

// MissingContextKeyError names the first unresolved placeholder in
// template-text order.
type MissingContextKeyError struct {
	Template string
	Key      string
}

func (e *MissingContextKeyError) Error() string {
	if e.Template == "" {
		return fmt.Sprintf("missing context key %q", e.Key)
	}
	return fmt.Sprintf("template %s: missing context key %q", e.Template, e.Key)
}

// Is reports ErrMissingContextKey as a match.
func (e *MissingContextKeyError) Is(target error) bool {
	return target == ErrMissingContextKey
}

// placeholderPattern matches {{ name }} first, then {name}.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_.-]*)\s*\}\}|\{([A-Za-z_][A-Za-z0-9_.-]*)\}`)

// DateLayout formats the smart-default date key.
const DateLayout = "January 2, 2006"

// Render substitutes every placeholder in tmpl.Body with its context value.
// All placeholders are checked before any output is produced; the first
// missing one, in text order, is reported.
func Render(tmpl types.Template, ctx types.Context) (string, error) {
	body := tmpl.Body
	matches := placeholderPattern.FindAllStringSubmatchIndex(body, -1)
	for _, m := range matches {
		key := matchKey(body, m)
		if _, ok := ctx[key]; !ok {
			return "", &MissingContextKeyError{Template: tmpl.ID, Key: key}
		}
	}

	var b strings.Builder
	b.Grow(len(body))
	last := 0
	for _, m := range matches {
		b.WriteString(body[last:m[0]])
		b.WriteString(ctx[matchKey(body, m)])
		last = m[1]
	}
	b.WriteString(body[last:])
	return b.String(), nil
}

// Placeholders returns the unique placeholder names in text, in order of
// first occurrence.
func Placeholders(text string) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(text, -1) {
		key := matchKey(text, m)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// matchKey returns whichever capture group matched.
func matchKey(text string, m []int) string {
	if m[2] >= 0 {
		return text[m[2]:m[3]]
	}
	return text[m[4]:m[5]]
}

// Enrich returns a copy of ctx with smart defaults filled in: "date" from
// now, then every entry of defaults. Keys already present in ctx win.
func Enrich(ctx types.Context, defaults map[string]string, now time.Time) types.Context {
	out := ctx.Clone()
	if _, ok := out["date"]; !ok {
		out["date"] = now.Format(DateLayout)
	}
	for k, v := range defaults {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}
