package utility

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReloadPromptCatalogTool_Execute(t *testing.T) {
	t.Parallel()

	t.Run("without reloader reports disabled", func(t *testing.T) {
		t.Parallel()
		out, err := NewReloadPromptCatalogTool(nil).Execute()
		require.NoError(t, err)
		require.JSONEq(t, `{"changed":false,"promptCount":0,"loadErrorCount":0,"status":"disabled"}`, string(out))
	})

	t.Run("returns reloader summary", func(t *testing.T) {
		t.Parallel()
		calls := 0
		tool := NewReloadPromptCatalogTool(func() map[string]any {
			calls++
			return map[string]any{"changed": true, "promptCount": 3, "loadErrorCount": 1, "status": "warning", "warnings": []string{"bad.md"}}
		})
		out, err := tool.Execute()
		require.NoError(t, err)
		require.Equal(t, 1, calls)
		require.JSONEq(t, `{"changed":true,"promptCount":3,"loadErrorCount":1,"status":"warning","warnings":["bad.md"]}`, string(out))
		require.Equal(t, "reload_prompt_catalog", tool.Name())
	})
}
