package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, map[string]int{"commits": 7})
	require.NoError(t, err)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 7, decoded["commits"])

	// Output should be indented
	assert.Contains(t, buf.String(), "\n")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"rank", "file"}, func(w *csv.Writer) error {
		return w.Write([]string{"1", "main.go"})
	})
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"rank", "file"}, records[0])
	assert.Equal(t, []string{"1", "main.go"}, records[1])
}

func TestWriteWithFileToPath(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "out.txt")

	err := writeWithFile(outputPath, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	}, "Wrote text")
	require.NoError(t, err)

	content, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestWriteWithFileInvalidPath(t *testing.T) {
	err := writeWithFile("/nonexistent/directory/out.txt", func(w io.Writer) error {
		return nil
	}, "Wrote text")
	require.Error(t, err)
}

func TestHeatCell(t *testing.T) {
	plain := &contract.Config{UseColors: false}
	assert.Equal(t, "Critical", heatCell("Critical", plain))

	// With colors off the label passes through untouched; with colors on
	// the label text is still present inside the escape sequence.
	colored := &contract.Config{UseColors: true}
	assert.Contains(t, heatCell("Critical", colored), "Critical")
}

func TestTruncateName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{
			name:     "short name unchanged",
			input:    "parse",
			maxWidth: 20,
			expected: "parse",
		},
		{
			name:     "long name keeps head",
			input:    "VeryLongScopeChain::inner::deepest",
			maxWidth: 16,
			expected: "VeryLongScope...",
		},
		{
			name:     "tiny width unchanged",
			input:    "abcdef",
			maxWidth: 3,
			expected: "abcdef",
		},
		{
			name:     "exact width unchanged",
			input:    "abcdef",
			maxWidth: 6,
			expected: "abcdef",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, truncateName(tt.input, tt.maxWidth))
		})
	}
}
