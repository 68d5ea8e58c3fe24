package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type summary struct {
	Summary string   `json:"summary"`
	Skills  []string `json:"skills"`
}

func TestDecode(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		wantKind Kind
		want     summary
	}{
		{
			name:     "strict object",
			raw:      `{"summary":"x","skills":["a"]}`,
			wantKind: Structured,
			want:     summary{Summary: "x", Skills: []string{"a"}},
		},
		{
			name:     "fenced object",
			raw:      "```json\n{\"summary\":\"x\"}\n```",
			wantKind: Structured,
			want:     summary{Summary: "x"},
		},
		{
			name:     "object inside prose",
			raw:      `Sure! Here's your resume: {"summary":"x"} Hope that helps!`,
			wantKind: Recovered,
			want:     summary{Summary: "x"},
		},
		{
			name:     "braces inside strings",
			raw:      `Result: {"summary":"use {curly} braces \"}\" ok"} done {`,
			wantKind: Recovered,
			want:     summary{Summary: `use {curly} braces "}" ok`},
		},
		{
			name:     "first balanced fragment is not the object",
			raw:      `Note {not json} then {"summary":"y"}`,
			wantKind: Recovered,
			want:     summary{Summary: "y"},
		},
		{
			name:     "refusal",
			raw:      "I cannot help with that.",
			wantKind: RawFallback,
		},
		{
			name:     "null is not an object",
			raw:      "null",
			wantKind: RawFallback,
		},
		{
			name:     "unbalanced",
			raw:      `{"summary":"x"`,
			wantKind: RawFallback,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := Decode[summary](tc.raw)
			assert.Equal(t, tc.wantKind, r.Kind)
			assert.Equal(t, tc.raw, r.Raw)
			if tc.wantKind != RawFallback {
				assert.Equal(t, tc.want, r.Value)
				assert.NotEmpty(t, r.JSON)
			}
		})
	}
}

func TestFold(t *testing.T) {
	describe := func(r Reply[summary]) string {
		return Fold(r,
			func(s summary) string { return "structured:" + s.Summary },
			func(s summary) string { return "recovered:" + s.Summary },
			func(raw string) string { return "raw:" + raw },
		)
	}
	assert.Equal(t, "structured:x", describe(Decode[summary](`{"summary":"x"}`)))
	assert.Equal(t, "recovered:x", describe(Decode[summary](`ok {"summary":"x"}`)))
	assert.Equal(t, "raw:nope", describe(Decode[summary]("nope")))
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripFences(`  {"a":1} `))
}

func TestUpstreamError(t *testing.T) {
	err := fmt.Errorf("generate: %w", &UpstreamError{Status: 429, Err: errors.New("rate limited")})
	assert.ErrorIs(t, err, ErrUpstream)
	var ue *UpstreamError
	assert.ErrorAs(t, err, &ue)
	assert.Equal(t, 429, ue.Status)
	assert.Contains(t, err.Error(), "429")
}

func TestTruncateBasic(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...(truncated)", Truncate("abcdef", 2))
}
