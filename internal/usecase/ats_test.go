package usecase

import (
	"context"
	"testing"

	"resumabuilder/internal/model"
	"resumabuilder/pkg/ai"
	aimocks "resumabuilder/pkg/ai/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestATSAnalyze(t *testing.T) {
	testCases := []struct {
		name  string
		reply string
		want  model.ATSResult
	}{
		{
			name:  "canonical fields",
			reply: `{"score":82,"missing_keywords":["Kubernetes"],"suggested_improvements":["Quantify impact"]}`,
			want:  model.ATSResult{Score: 82, MissingKeywords: []string{"Kubernetes"}, SuggestedImprovements: []string{"Quantify impact"}},
		},
		{
			name:  "suggestions alias",
			reply: "```json\n{\"score\":55.6,\"missing_keywords\":[],\"suggestions\":[\"Add a summary\"]}\n```",
			want:  model.ATSResult{Score: 56, MissingKeywords: []string{}, SuggestedImprovements: []string{"Add a summary"}},
		},
		{
			name:  "score clamped",
			reply: `Result: {"score":140}`,
			want:  model.ATSResult{Score: 100, MissingKeywords: []string{}, SuggestedImprovements: []string{}},
		},
		{
			name:  "unparseable reply",
			reply: "The resume looks fine.",
			want:  model.DefaultATSResult(),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			completer := aimocks.NewMockCompleter(ctrl)
			completer.EXPECT().Complete(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, req ai.Request) (string, error) {
					assert.Equal(t, "You are an intelligent ATS evaluator.", req.System)
					assert.Contains(t, req.User, "Go developer")
					assert.Contains(t, req.User, "Needs Go")
					return tc.reply, nil
				}).Times(1)

			got, err := NewATSAnalyzer(completer, nil).Analyze(context.Background(), "Go developer", "Needs Go")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestATSAnalyzeEmptyInput(t *testing.T) {
	testCases := []struct {
		name      string
		resume    string
		jd        string
		wantField string
	}{
		{name: "no resume", resume: " ", jd: "Needs Go", wantField: "resume_text"},
		{name: "no job description", resume: "Go developer", jd: "", wantField: "job_description"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// no EXPECT: any provider call fails the test
			completer := aimocks.NewMockCompleter(gomock.NewController(t))
			_, err := NewATSAnalyzer(completer, nil).Analyze(context.Background(), tc.resume, tc.jd)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.wantField, verr.Field)
		})
	}
}
