// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compliance checks rendered documents against a court profile's
// rules. Every rule yields a finding; a failing rule is a finding, never an
// error. Validate returns an error only when its inputs are unusable.
package compliance

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/docgen/pkg/types"
)

// ErrValidationInput is returned when the document or profile cannot be
// evaluated at all.
var ErrValidationInput = errors.New("invalid validation input")

// DefaultWordsPerPage is used when a profile sets no words_per_page.
// It approximates a double-spaced 12pt page.
const DefaultWordsPerPage = 250

// exhibitCitation finds exhibit citation parentheticals in prose.
var exhibitCitation = regexp.MustCompile(`\(Ex\.[^()]*\)`)

// Report is the ordered list of findings for one document.
type Report struct {
	ProfileID string          `json:"profile" yaml:"profile"`
	Findings  []types.Finding `json:"findings" yaml:"findings"`
}

// Compliant reports whether every finding passed.
func (r Report) Compliant() bool {
	return types.AllPassed(r.Findings)
}

// Failed returns the findings that did not pass.
func (r Report) Failed() []types.Finding {
	var out []types.Finding
	for _, f := range r.Findings {
		if !f.Passed {
			out = append(out, f)
		}
	}
	return out
}

// Validate evaluates every rule in profile against doc, in rule order.
// The document is not modified.
func Validate(doc types.RenderedDocument, profile types.CourtProfile) (Report, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return Report{}, fmt.Errorf("%w: document %q has no text", ErrValidationInput, doc.TemplateID)
	}
	if profile.ID == "" {
		return Report{}, fmt.Errorf("%w: profile has no id", ErrValidationInput)
	}

	stats := measure(doc.Content, profile.Formatting.WordsPerPage)
	report := Report{ProfileID: profile.ID, Findings: make([]types.Finding, 0, len(profile.Rules))}
	for _, rule := range profile.Rules {
		f, err := check(rule, doc.Content, stats)
		if err != nil {
			return Report{}, fmt.Errorf("%w: profile %s rule %q: %v", ErrValidationInput, profile.ID, rule.Name, err)
		}
		report.Findings = append(report.Findings, f)
	}
	return report, nil
}

// textStats holds the measurements shared by the limit rules.
type textStats struct {
	words int
	pages int
}

func measure(text string, wordsPerPage int) textStats {
	if wordsPerPage <= 0 {
		wordsPerPage = DefaultWordsPerPage
	}
	words := len(strings.Fields(text))
	pages := (words + wordsPerPage - 1) / wordsPerPage
	if pages == 0 {
		pages = 1
	}
	return textStats{words: words, pages: pages}
}

func check(rule types.Rule, text string, stats textStats) (types.Finding, error) {
	f := types.Finding{Kind: rule.Kind, Rule: rule.Name}
	if f.Rule == "" {
		f.Rule = string(rule.Kind)
	}

	switch rule.Kind {
	case types.RulePageLimit:
		if rule.Limit <= 0 {
			return f, fmt.Errorf("limit must be positive, got %d", rule.Limit)
		}
		f.Passed = stats.pages <= rule.Limit
		f.Detail = fmt.Sprintf("estimated %d page(s), limit %d", stats.pages, rule.Limit)

	case types.RuleWordCountLimit:
		if rule.Limit <= 0 {
			return f, fmt.Errorf("limit must be positive, got %d", rule.Limit)
		}
		f.Passed = stats.words <= rule.Limit
		f.Detail = fmt.Sprintf("%d word(s), limit %d", stats.words, rule.Limit)

	case types.RuleRequiredSection:
		if strings.TrimSpace(rule.Pattern) == "" {
			return f, fmt.Errorf("required-section needs a section name")
		}
		f.Passed = hasSection(text, rule.Pattern)
		if f.Passed {
			f.Detail = fmt.Sprintf("section %q present", rule.Pattern)
		} else {
			f.Detail = fmt.Sprintf("section %q missing", rule.Pattern)
		}

	case types.RuleCitationFormat:
		re, err := regexp.Compile(`^(?:` + rule.Pattern + `)$`)
		if err != nil {
			return f, fmt.Errorf("compiling pattern: %w", err)
		}
		f.Passed, f.Detail = checkCitations(text, re)

	default:
		return f, fmt.Errorf("unknown rule kind %q", rule.Kind)
	}
	return f, nil
}

func checkCitations(text string, re *regexp.Regexp) (bool, string) {
	cites := exhibitCitation.FindAllString(text, -1)
	if len(cites) == 0 {
		return true, "no exhibit citations found"
	}
	var bad []string
	for _, c := range cites {
		if !re.MatchString(c) {
			bad = append(bad, c)
		}
	}
	if len(bad) > 0 {
		return false, fmt.Sprintf("%d of %d citation(s) malformed: %s", len(bad), len(cites), strings.Join(bad, " "))
	}
	return true, fmt.Sprintf("%d citation(s) well-formed", len(cites))
}

// hasSection reports whether any heading line contains name,
// case-insensitively. Headings are markdown "#" lines or all-caps lines.
func hasSection(text, name string) bool {
	want := strings.ToUpper(strings.TrimSpace(name))
	for _, line := range strings.Split(text, "\n") {
		heading, ok := headingText(line)
		if ok && strings.Contains(strings.ToUpper(heading), want) {
			return true
		}
	}
	return false
}

func headingText(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	if strings.HasPrefix(line, "#") {
		return strings.TrimSpace(strings.TrimLeft(line, "#")), true
	}
	hasLetter := false
	for _, c := range line {
		if c >= 'a' && c <= 'z' {
			return "", false
		}
		if c >= 'A' && c <= 'Z' {
			hasLetter = true
		}
	}
	return line, hasLetter
}
