package arithmetic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b, want int
	}{
		{1, 2, 3},
		{-5, 5, 0},
		{0, 0, 0},
		{math.MaxInt - 1, 1, math.MaxInt},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Add(tt.a, tt.b), "%d+%d", tt.a, tt.b)
	}
}

func TestGetAllTools(t *testing.T) {
	t.Parallel()

	tools := GetAllTools()
	require.Len(t, tools, 1)
	require.Equal(t, "add", tools[0].Name())
	require.Equal(t, "Add two numbers", tools[0].Description())
}
