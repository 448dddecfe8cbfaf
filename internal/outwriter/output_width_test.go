package outwriter

import (
	"testing"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/stretchr/testify/assert"
)

func TestResolveTermWidthOverride(t *testing.T) {
	cfg := &contract.Config{Width: 132}
	assert.Equal(t, 132, resolveTermWidth(cfg))
}

func TestGetMaxTableFuncWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		expected int
	}{
		{
			name:     "narrow terminal clamps to minimum",
			width:    45,
			expected: 20,
		},
		{
			name:     "wide terminal clamps to maximum",
			width:    400,
			expected: 48,
		},
		{
			name:     "mid width takes a third",
			width:    90,
			expected: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width}
			assert.Equal(t, tt.expected, getMaxTableFuncWidth(cfg))
		})
	}
}

func TestGetMaxTablePathWidth(t *testing.T) {
	// Narrow terminals still leave a readable path column
	narrow := &contract.Config{Width: 60}
	assert.Equal(t, 15, getMaxTablePathWidth(narrow))

	// Wide terminals cap the path column
	wide := &contract.Config{Width: 500}
	assert.Equal(t, 70, getMaxTablePathWidth(wide))

	// Middling widths fall between the clamps
	mid := &contract.Config{Width: 140}
	got := getMaxTablePathWidth(mid)
	assert.GreaterOrEqual(t, got, 15)
	assert.LessOrEqual(t, got, 70)
}

func TestGetMaxRollupPathWidth(t *testing.T) {
	// Rollup tables have no function column, so paths get more room than
	// the funcs table at the same width
	cfg := &contract.Config{Width: 120}
	assert.Greater(t, getMaxRollupPathWidth(cfg), getMaxTablePathWidth(cfg))

	narrow := &contract.Config{Width: 40}
	assert.Equal(t, 15, getMaxRollupPathWidth(narrow))

	wide := &contract.Config{Width: 300}
	assert.Equal(t, 70, getMaxRollupPathWidth(wide))
}
