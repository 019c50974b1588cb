// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CourtLevel classifies a court within its hierarchy.
type CourtLevel string

const (
	LevelStateFamily     CourtLevel = "state_family"
	LevelFederalDistrict CourtLevel = "federal_district"
	LevelFederalCircuit  CourtLevel = "federal_circuit"
)

// RuleKind names the check a compliance rule performs.
type RuleKind string

const (
	RulePageLimit       RuleKind = "page-limit"
	RuleWordCountLimit  RuleKind = "word-count-limit"
	RuleRequiredSection RuleKind = "required-section"
	RuleCitationFormat  RuleKind = "citation-format"

	// RuleCompleteness is produced by the pipeline, not configured on profiles.
	RuleCompleteness RuleKind = "completeness"
)

// Rule is one compliance rule. Limit applies to the limit kinds; Pattern
// holds the section name for required-section and the regular expression
// for citation-format.
type Rule struct {
	// Name identifies the rule in findings (e.g. "frap-32-word-limit").
	Name string `json:"name" yaml:"name"`

	Kind    RuleKind `json:"kind" yaml:"kind"`
	Limit   int      `json:"limit,omitempty" yaml:"limit,omitempty"`
	Pattern string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// FormattingRules records the court's typographic requirements. The
// validator only reads WordsPerPage; the rest travels as metadata.
type FormattingRules struct {
	FontFamily   string  `json:"font_family" yaml:"font_family"`
	FontSize     int     `json:"font_size" yaml:"font_size"`
	LineSpacing  float64 `json:"line_spacing" yaml:"line_spacing"`
	MarginInches float64 `json:"margin_inches" yaml:"margin_inches"`

	// WordsPerPage drives the page-count estimate (default 250).
	WordsPerPage int `json:"words_per_page,omitempty" yaml:"words_per_page,omitempty"`
}

// CourtProfile is the immutable rule set for one court.
type CourtProfile struct {
	// ID is the profile key (e.g. "hi_family", "cand", "ca9").
	ID string `json:"id" yaml:"id"`

	// Name is the court's display name.
	Name string `json:"name" yaml:"name"`

	Level        CourtLevel      `json:"level" yaml:"level"`
	Jurisdiction string          `json:"jurisdiction" yaml:"jurisdiction"`
	Formatting   FormattingRules `json:"formatting" yaml:"formatting"`
	Rules        []Rule          `json:"rules" yaml:"rules"`
}

// ProfilesFile is the on-disk layout of a court profile configuration.
type ProfilesFile struct {
	Profiles []CourtProfile `json:"profiles" yaml:"profiles"`
}

// Finding is the pass/fail result of checking one rule against a document.
type Finding struct {
	Kind   RuleKind `json:"kind" yaml:"kind"`
	Rule   string   `json:"rule" yaml:"rule"`
	Passed bool     `json:"passed" yaml:"passed"`
	Detail string   `json:"detail" yaml:"detail"`
}

// AllPassed reports whether every finding passed. An empty list passes.
func AllPassed(findings []Finding) bool {
	for _, f := range findings {
		if !f.Passed {
			return false
		}
	}
	return true
}
