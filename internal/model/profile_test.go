package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinesUnmarshal(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  Lines
	}{
		{name: "string", input: `"Built the billing service"`, want: Lines{"Built the billing service"}},
		{name: "blank string", input: `"   "`, want: Lines{}},
		{name: "array", input: `["a","b"]`, want: Lines{"a", "b"}},
		{name: "array drops blanks", input: `["a",""," "]`, want: Lines{"a"}},
		{name: "null", input: `null`, want: Lines{}},
		{name: "numbers become text", input: `[2021, true]`, want: Lines{"2021", "true"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var l Lines
			require.NoError(t, json.Unmarshal([]byte(tc.input), &l))
			assert.Equal(t, tc.want, l)
		})
	}
}

func TestLinesUnmarshalRejectsObjects(t *testing.T) {
	var l Lines
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &l))
	assert.Error(t, json.Unmarshal([]byte(`[{"a":1}]`), &l))
}

func TestTagsSplitString(t *testing.T) {
	var tags Tags
	require.NoError(t, json.Unmarshal([]byte(`"Go, Postgres ,, Redis"`), &tags))
	assert.Equal(t, Tags{"Go", "Postgres", "Redis"}, tags)
}

func TestDescriptionNormalization(t *testing.T) {
	// a description given as one string and one given as a list end up as
	// the same list shape and re-encode as arrays
	in := `{"experience":[
		{"title":"Engineer","company":"Acme","duration":"2020-2022","description":"Shipped things"},
		{"title":"Lead","company":"Beta","description":["Led team","Hired"]},
		{"title":"Intern"}
	]}`
	var p Profile
	require.NoError(t, json.Unmarshal([]byte(in), &p))
	p.Normalize()

	require.Len(t, p.Experience, 3)
	assert.Equal(t, Lines{"Shipped things"}, p.Experience[0].Description)
	assert.Equal(t, Lines{"Led team", "Hired"}, p.Experience[1].Description)
	assert.Equal(t, Lines{}, p.Experience[2].Description)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	var back map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, []interface{}{}, back["skills"])
	assert.Equal(t, []interface{}{}, back["projects"])
	exp := back["experience"].([]interface{})
	assert.Equal(t, []interface{}{}, exp[2].(map[string]interface{})["description"])
}

func TestProfileIsEmpty(t *testing.T) {
	assert.True(t, Profile{}.IsEmpty())
	assert.True(t, Profile{Name: "  "}.IsEmpty())
	assert.False(t, Profile{Name: "Ada"}.IsEmpty())
	assert.False(t, Profile{Skills: Tags{"Go"}}.IsEmpty())
}

func TestAIResumeApplyTo(t *testing.T) {
	p := Profile{Name: "Ada", Summary: "old", Skills: Tags{"Go"}}
	r := AIResume{Source: SourceStructured, Summary: "new"}
	r.Normalize()

	got := r.ApplyTo(p)
	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, "new", got.Summary)
	assert.Equal(t, Tags{"Go"}, got.Skills)

	fallback := RawFallbackResume("not json")
	assert.Equal(t, p, fallback.ApplyTo(p))
	assert.Equal(t, FallbackWarning, fallback.Warning)
	assert.Equal(t, SchemaVersion, fallback.SchemaVersion)
}

func TestValidateResumeJSON(t *testing.T) {
	msgs, err := ValidateResumeJSON([]byte(`{"summary":"x","skills":["a"],"experience":[]}`))
	require.NoError(t, err)
	assert.Empty(t, msgs)

	msgs, err = ValidateResumeJSON([]byte(`{"summary":"x","skills":"a, b"}`))
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, ClampScore(-4))
	assert.Equal(t, 100, ClampScore(180))
	assert.Equal(t, 83, ClampScore(82.6))
	assert.Equal(t, 70, DefaultATSResult().Score)
}
