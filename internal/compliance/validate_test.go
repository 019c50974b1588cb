// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compliance

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docgen/pkg/types"
)

const citationPattern = `\(Ex\. [A-Za-z0-9-]+(, pp\. \d+(-\d+)?(, \d+(-\d+)?)*)?(; [A-Za-z0-9-]+(, pp\. \d+(-\d+)?(, \d+(-\d+)?)*)?)*\)`

func testProfile() types.CourtProfile {
	return types.CourtProfile{
		ID:         "test",
		Name:       "Test Court",
		Formatting: types.FormattingRules{WordsPerPage: 10},
		Rules: []types.Rule{
			{Name: "pages", Kind: types.RulePageLimit, Limit: 2},
			{Name: "words", Kind: types.RuleWordCountLimit, Limit: 100},
			{Name: "toa", Kind: types.RuleRequiredSection, Pattern: "Table of Authorities"},
			{Name: "cites", Kind: types.RuleCitationFormat, Pattern: citationPattern},
		},
	}
}

func doc(content string) types.RenderedDocument {
	return types.RenderedDocument{TemplateID: "legal/test", Content: content}
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestValidateAllPass(t *testing.T) {
	content := "# TABLE OF AUTHORITIES\n\nThe facts are clear. (Ex. A, pp. 1-3; B, pp. 4)"
	report, err := Validate(doc(content), testProfile())
	require.NoError(t, err)

	want := []types.Finding{
		{Kind: types.RulePageLimit, Rule: "pages", Passed: true, Detail: "estimated 2 page(s), limit 2"},
		{Kind: types.RuleWordCountLimit, Rule: "words", Passed: true, Detail: "15 word(s), limit 100"},
		{Kind: types.RuleRequiredSection, Rule: "toa", Passed: true, Detail: `section "Table of Authorities" present`},
		{Kind: types.RuleCitationFormat, Rule: "cites", Passed: true, Detail: "1 citation(s) well-formed"},
	}
	if diff := cmp.Diff(want, report.Findings); diff != "" {
		t.Errorf("findings mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, report.Compliant())
	assert.Empty(t, report.Failed())
}

func TestValidatePageLimitIsolated(t *testing.T) {
	content := "TABLE OF AUTHORITIES\n" + words(40)
	report, err := Validate(doc(content), testProfile())
	require.NoError(t, err)
	require.Len(t, report.Findings, 4)

	assert.False(t, report.Findings[0].Passed, "page-limit should fail")
	assert.Equal(t, "estimated 5 page(s), limit 2", report.Findings[0].Detail)
	assert.True(t, report.Findings[1].Passed, "word count unaffected")
	assert.True(t, report.Findings[2].Passed, "required section unaffected")
	assert.True(t, report.Findings[3].Passed, "citations unaffected")
	assert.False(t, report.Compliant())
	assert.Len(t, report.Failed(), 1)
}

func TestValidateFailingRules(t *testing.T) {
	tests := []struct {
		name    string
		content string
		rule    types.Rule
		detail  string
	}{
		{
			name:    "word count",
			content: words(6),
			rule:    types.Rule{Name: "w", Kind: types.RuleWordCountLimit, Limit: 5},
			detail:  "6 word(s), limit 5",
		},
		{
			name:    "missing section",
			content: "# Argument\nbody text mentions table of authorities inline",
			rule:    types.Rule{Name: "s", Kind: types.RuleRequiredSection, Pattern: "Table of Authorities"},
			detail:  `section "Table of Authorities" missing`,
		},
		{
			name:    "malformed citation",
			content: "Claim. (Ex. A, p. 1)",
			rule:    types.Rule{Name: "c", Kind: types.RuleCitationFormat, Pattern: citationPattern},
			detail:  "1 of 1 citation(s) malformed: (Ex. A, p. 1)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := types.CourtProfile{ID: "p", Rules: []types.Rule{tt.rule}}
			report, err := Validate(doc(tt.content), profile)
			require.NoError(t, err)
			require.Len(t, report.Findings, 1)
			assert.False(t, report.Findings[0].Passed)
			assert.Equal(t, tt.detail, report.Findings[0].Detail)
		})
	}
}

func TestValidateNoCitationsPasses(t *testing.T) {
	profile := types.CourtProfile{ID: "p", Rules: []types.Rule{
		{Kind: types.RuleCitationFormat, Pattern: citationPattern},
	}}
	report, err := Validate(doc("Plain prose."), profile)
	require.NoError(t, err)
	assert.True(t, report.Compliant())
	assert.Equal(t, "citation-format", report.Findings[0].Rule)
}

func TestValidateInputErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		profile types.CourtProfile
	}{
		{name: "empty text", content: "", profile: testProfile()},
		{name: "blank text", content: "  \n\t", profile: testProfile()},
		{name: "profile without id", content: "text", profile: types.CourtProfile{}},
		{
			name:    "unknown kind",
			content: "text",
			profile: types.CourtProfile{ID: "p", Rules: []types.Rule{{Kind: "font-size"}}},
		},
		{
			name:    "zero limit",
			content: "text",
			profile: types.CourtProfile{ID: "p", Rules: []types.Rule{{Kind: types.RulePageLimit}}},
		},
		{
			name:    "bad pattern",
			content: "text",
			profile: types.CourtProfile{ID: "p", Rules: []types.Rule{{Kind: types.RuleCitationFormat, Pattern: "("}}},
		},
		{
			name:    "empty section",
			content: "text",
			profile: types.CourtProfile{ID: "p", Rules: []types.Rule{{Kind: types.RuleRequiredSection}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(doc(tt.content), tt.profile)
			assert.ErrorIs(t, err, ErrValidationInput)
		})
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	d := doc("TABLE OF AUTHORITIES\n" + words(50))
	before := d
	_, err := Validate(d, testProfile())
	require.NoError(t, err)
	assert.Equal(t, before, d)
}

func TestHeadingText(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{line: "## Table of Contents", want: "Table of Contents", ok: true},
		{line: "  VERIFICATION  ", want: "VERIFICATION", ok: true},
		{line: "I. STATEMENT OF FACTS", want: "I. STATEMENT OF FACTS", ok: true},
		{line: "Ordinary sentence.", ok: false},
		{line: "12345", ok: false},
		{line: "", ok: false},
	}
	for _, tt := range tests {
		got, ok := headingText(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		if tt.ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestMeasureDefaultsWordsPerPage(t *testing.T) {
	stats := measure(words(DefaultWordsPerPage+1), 0)
	assert.Equal(t, 2, stats.pages)
	assert.Equal(t, DefaultWordsPerPage+1, stats.words)
}
