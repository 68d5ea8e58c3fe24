package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("COMPLETION_API_KEY", "sk-test")
	t.Setenv("EMAIL_API_KEY", "email-test")
	t.Setenv("DATA_SERVICE_URL", "postgres://localhost/test")
	t.Setenv("DATA_SERVICE_KEY", "jwt-secret")
}

func TestLoad(t *testing.T) {
	testCases := []struct {
		name    string
		unset   []string
		wantErr bool
		missing []string
	}{
		{name: "all present"},
		{
			name:    "completion key missing",
			unset:   []string{"COMPLETION_API_KEY"},
			wantErr: true,
			missing: []string{"COMPLETION_API_KEY"},
		},
		{
			name:    "every missing key reported",
			unset:   []string{"EMAIL_API_KEY", "DATA_SERVICE_KEY"},
			wantErr: true,
			missing: []string{"EMAIL_API_KEY", "DATA_SERVICE_KEY"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			for _, k := range tc.unset {
				t.Setenv(k, "")
			}
			cfg, err := Load()
			if tc.wantErr {
				require.ErrorIs(t, err, ErrMissingConfig)
				for _, k := range tc.missing {
					assert.Contains(t, err.Error(), k)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "sk-test", cfg.CompletionAPIKey)
			assert.Equal(t, "jwt-secret", cfg.DataServiceKey)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("AI_MODEL", "")
	t.Setenv("TEMPLATE_HOSTS", " cdn.example.com , ,assets.example.org")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "openai", cfg.AIProvider)
	assert.Empty(t, cfg.AIModel)
	assert.Equal(t, []string{"cdn.example.com", "assets.example.org"}, cfg.TemplateHosts)
	assert.False(t, cfg.R2.Enabled())
}

func TestLoadModelPerProvider(t *testing.T) {
	testCases := []struct {
		name     string
		provider string
		model    string
		want     string
	}{
		{name: "gemini without model leaves the client default", provider: "gemini", want: ""},
		{name: "openai without model leaves the client default", provider: "openai", want: ""},
		{name: "explicit model kept", provider: "gemini", model: "gemini-2.0-flash", want: "gemini-2.0-flash"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv("AI_PROVIDER", tc.provider)
			t.Setenv("AI_MODEL", tc.model)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tc.provider, cfg.AIProvider)
			assert.Equal(t, tc.want, cfg.AIModel)
		})
	}
}
