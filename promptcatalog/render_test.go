package promptcatalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		args     map[string]string
		want     string
	}{
		{name: "no args", template: "Create {{catalog_name}}", want: "Create {{catalog_name}}"},
		{name: "substitutes", template: "Create {{ catalog_name }}.{{schema_name}}", args: map[string]string{"catalog_name": "main", "schema_name": "raw"}, want: "Create main.raw"},
		{name: "keeps unknown", template: "{{a}} {{b}}", args: map[string]string{"a": "1"}, want: "1 {{b}}"},
		{name: "strips nul", template: "x={{x}}", args: map[string]string{"x": "a\x00b"}, want: "x=ab"},
		{name: "ignores blank keys", template: "{{x}}", args: map[string]string{" ": "y"}, want: "{{x}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Render(tt.template, tt.args)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRender_Bounded(t *testing.T) {
	t.Parallel()

	_, err := Render("{{x}}{{x}}", map[string]string{"x": strings.Repeat("a", maxRenderedPromptBytes/2+1)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "exceeds")
}

func TestMissingRequired(t *testing.T) {
	t.Parallel()

	prompt := Prompt{Arguments: []PromptArgument{{Name: "a", Required: true}, {Name: "b"}, {Name: "c", Required: true}}}
	require.Equal(t, []string{"c"}, MissingRequired(prompt, map[string]string{"a": "1"}))
	require.Equal(t, []string{"c"}, MissingRequired(prompt, map[string]string{"a": "1", "c": "  "}))
	require.Empty(t, MissingRequired(prompt, map[string]string{"a": "1", "c": "x"}))
}

func TestBuiltinPrompts(t *testing.T) {
	t.Parallel()

	prompts := BuiltinPrompts()
	require.Len(t, prompts, 1)
	prompt := prompts[0]
	require.Equal(t, "synthetic-data-setup", prompt.Name)
	require.Equal(t, "Synthetic Data Metadata Setup", prompt.Title)
	require.Equal(t, "builtin:synthetic-data-setup", prompt.SourcePath)
	require.Empty(t, prompt.Arguments)
	for _, table := range []string{"_schema_metadata", "_table_metadata", "_string_categories"} {
		require.Contains(t, prompt.Template, table)
	}
}
