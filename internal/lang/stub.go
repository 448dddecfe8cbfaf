//go:build !cgo

package lang

import (
	"context"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/schema"
)

// Extractor produces function spans for one language. Without CGO no
// grammar is compiled in, so every parse degrades to an empty span set
// and the rest of the pipeline still links and runs.
type Extractor struct {
	language schema.Language
}

var _ contract.FuncParser = &Extractor{}

// NewExtractor returns the span extractor for the given language.
func NewExtractor(language schema.Language) (*Extractor, error) {
	return &Extractor{language: language}, nil
}

// Registry builds one extractor per requested language.
func Registry(languages []schema.Language) (map[schema.Language]contract.FuncParser, error) {
	parsers := make(map[schema.Language]contract.FuncParser, len(languages))
	for _, language := range languages {
		parsers[language] = &Extractor{language: language}
	}
	return parsers, nil
}

// IsAvailable reports whether span extraction was compiled in.
// Returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}

// Language implements the contract.FuncParser interface.
func (e *Extractor) Language() schema.Language {
	return e.language
}

// Extract implements the contract.FuncParser interface. Every parse is
// reported as fully degraded: no spans, degraded true.
func (e *Extractor) Extract(_ context.Context, _ []byte) ([]schema.FunctionSpan, bool) {
	return nil, true
}
