package usecase

import (
	"context"
	"testing"

	"resumabuilder/internal/access"
	"resumabuilder/internal/domain"
	"resumabuilder/internal/model"
	"resumabuilder/pkg/ai"
	aimocks "resumabuilder/pkg/ai/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeLetters struct {
	saved []domain.CoverLetter
}

func (f *fakeLetters) SaveCoverLetter(_ context.Context, l *domain.CoverLetter) error {
	f.saved = append(f.saved, *l)
	return nil
}

func TestCoverLetterWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	completer := aimocks.NewMockCompleter(ctrl)
	completer.EXPECT().Complete(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ai.Request) (string, error) {
			assert.Equal(t, 0.7, req.Temperature)
			assert.Equal(t, 600, req.MaxTokens)
			assert.Contains(t, req.User, "Ada applying for Engineer at Acme")
			assert.Contains(t, req.User, "Mention these points: Ships fast.")
			return "\n Dear Hiring Manager,\n\nI am excited...\n", nil
		})
	letters := &fakeLetters{}
	usage := &fakeUsage{}
	ctx, uid := sessionCtx(access.TierPaid)

	got, err := NewCoverLetterWriter(completer, letters, usage).Write(ctx, CoverLetterRequest{
		Profile:  model.Profile{Name: "Ada"},
		Company:  "Acme",
		JobTitle: "Engineer",
		Points:   "Ships fast",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dear Hiring Manager,\n\nI am excited...", got.CoverLetter)
	require.Len(t, letters.saved, 1)
	assert.Equal(t, uid, letters.saved[0].UserID)
	assert.Equal(t, []domain.UsageAction{domain.ActionCoverLetterGenerated}, usage.actions)
}

func TestCoverLetterValidation(t *testing.T) {
	completer := aimocks.NewMockCompleter(gomock.NewController(t))
	_, err := NewCoverLetterWriter(completer, nil, nil).Write(context.Background(), CoverLetterRequest{JobTitle: "Engineer"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "company", verr.Field)
}
