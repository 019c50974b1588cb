// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/docgen/pkg/types"
)

func tmpl(body string) types.Template {
	return types.Template{ID: "legal/test", Category: types.CategoryLegal, Body: body}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		body string
		ctx  types.Context
		want string
	}{
		{
			name: "single braces",
			body: "Case {case}, grounds: {grounds}",
			ctx:  types.Context{"case": "1FDV-23-0001009", "grounds": "Due process"},
			want: "Case 1FDV-23-0001009, grounds: Due process",
		},
		{
			name: "double braces with spaces",
			body: "Plaintiff: {{ plaintiff }} v. {{defendant}}",
			ctx:  types.Context{"plaintiff": "Casey", "defendant": "Teresa"},
			want: "Plaintiff: Casey v. Teresa",
		},
		{
			name: "repeated placeholder",
			body: "{x}-{x}",
			ctx:  types.Context{"x": "1"},
			want: "1-1",
		},
		{
			name: "extra keys ignored",
			body: "Hello {name}",
			ctx:  types.Context{"name": "Court", "unused": "value"},
			want: "Hello Court",
		},
		{
			name: "values are not re-scanned",
			body: "{a}",
			ctx:  types.Context{"a": "{b}"},
			want: "{b}",
		},
		{
			name: "non-identifier braces left alone",
			body: `{"json": 1} { spaced } {1abc}`,
			ctx:  types.Context{},
			want: `{"json": 1} { spaced } {1abc}`,
		},
		{
			name: "no placeholders",
			body: "static text",
			ctx:  nil,
			want: "static text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tmpl(tt.body), tt.ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderMissingKey(t *testing.T) {
	_, err := Render(tmpl("Case {case}, grounds: {grounds}"), types.Context{"case": "1FDV-23-0001009"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingContextKey))

	var missing *MissingContextKeyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "grounds", missing.Key)
	assert.Equal(t, "legal/test", missing.Template)
}

func TestRenderMissingKeyReportsFirstInTextOrder(t *testing.T) {
	body := "{{zeta}} then {alpha} then {middle}"
	for i := 0; i < 20; i++ {
		_, err := Render(tmpl(body), types.Context{"middle": "m"})
		var missing *MissingContextKeyError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "zeta", missing.Key)
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("{{b}} {a} {b} {{ c }}")
	assert.Equal(t, []string{"b", "a", "c"}, got)
	assert.Empty(t, Placeholders("nothing here"))
}

func TestEnrich(t *testing.T) {
	now := time.Date(2025, time.December, 15, 9, 0, 0, 0, time.UTC)
	ctx := types.Context{"author": "Explicit Author"}
	defaults := map[string]string{
		"author":   "Default Author",
		"court":    "Family Court of the First Circuit",
		"attorney": "Pro Se",
	}

	got := Enrich(ctx, defaults, now)
	assert.Equal(t, "December 15, 2025", got["date"])
	assert.Equal(t, "Explicit Author", got["author"])
	assert.Equal(t, "Family Court of the First Circuit", got["court"])
	assert.Equal(t, "Pro Se", got["attorney"])

	_, touched := ctx["date"]
	assert.False(t, touched, "input context must not be modified")
}

func TestEnrichKeepsCallerDate(t *testing.T) {
	got := Enrich(types.Context{"date": "tomorrow"}, nil, time.Now())
	assert.Equal(t, "tomorrow", got["date"])
}

func TestMissingContextKeyErrorMessage(t *testing.T) {
	err := &MissingContextKeyError{Key: "grounds"}
	assert.Equal(t, `missing context key "grounds"`, err.Error())
}
