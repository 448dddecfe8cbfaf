//go:build !cgo

package lang

import (
	"context"
	"testing"

	"github.com/huangsam/funcspot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAvailable(t *testing.T) {
	assert.False(t, IsAvailable())
}

// Without CGO the extractor still constructs for every language so the
// pipeline runs end to end; it just finds nothing.
func TestStubRegistry(t *testing.T) {
	parsers, err := Registry(schema.AllLanguages)
	require.NoError(t, err)
	require.Len(t, parsers, len(schema.AllLanguages))

	for _, language := range schema.AllLanguages {
		parser, ok := parsers[language]
		require.True(t, ok)
		assert.Equal(t, language, parser.Language())
	}
}

// Every parse degrades: empty span set, degraded true, never an error.
func TestStubExtractDegrades(t *testing.T) {
	extractor, err := NewExtractor(schema.GoLang)
	require.NoError(t, err)

	spans, degraded := extractor.Extract(context.Background(), []byte("func main() {}\n"))
	assert.Empty(t, spans)
	assert.True(t, degraded)
}
