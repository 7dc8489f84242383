package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLanguageRegistry_Defaults(t *testing.T) {
	registry, err := BuildLanguageRegistry(nil)
	require.NoError(t, err)

	require.Contains(t, registry, LangJavaScript)
	require.Contains(t, registry, LangTypeScript)
	require.Contains(t, registry, LangTSX)
	assert.Contains(t, registry[LangJavaScript].Extensions, ".jsx")
	assert.Equal(t, []string{".tsx"}, registry[LangTSX].Extensions)
}

func TestBuildLanguageRegistry_Overrides(t *testing.T) {
	disabled := false
	registry, err := BuildLanguageRegistry(map[string]LanguageOverride{
		"TSX":        {Enabled: &disabled},
		"javascript": {Extensions: []string{".ES6", ".js"}},
	})
	require.NoError(t, err)

	assert.False(t, registry[LangTSX].Enabled)
	assert.Contains(t, registry[LangJavaScript].Extensions, ".es6")

	count := 0
	for _, ext := range registry[LangJavaScript].Extensions {
		if ext == ".js" {
			count++
		}
	}
	assert.Equal(t, 1, count, "duplicate extension should not be appended twice")
}

func TestBuildLanguageRegistry_Errors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]LanguageOverride
		wantErr   string
	}{
		{
			name:      "unknown language",
			overrides: map[string]LanguageOverride{"ruby": {}},
			wantErr:   `unknown language "ruby"`,
		},
		{
			name:      "extension without dot",
			overrides: map[string]LanguageOverride{"typescript": {Extensions: []string{"ts"}}},
			wantErr:   "must start with '.'",
		},
		{
			name:      "extension claimed twice",
			overrides: map[string]LanguageOverride{"typescript": {Extensions: []string{".tsx"}}},
			wantErr:   `extension ".tsx" is claimed by both`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildLanguageRegistry(tt.overrides)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
