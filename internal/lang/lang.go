// Package lang turns source text into function spans, one grammar per
// supported language.
package lang

import (
	"path/filepath"
	"strings"

	"github.com/huangsam/funcspot/schema"
)

// Detect maps a file path to its language by extension. The second
// return value is false for unsupported files.
func Detect(path string) (schema.Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	language, ok := schema.LanguageExtensions[ext]
	return language, ok
}

// funcNodeTypes lists the grammar node types that define a function body,
// named or anonymous.
var funcNodeTypes = map[schema.Language]map[string]struct{}{
	schema.GoLang: {
		"function_declaration": {},
		"method_declaration":   {},
		"func_literal":         {},
	},
	schema.RustLang: {
		"function_item":      {},
		"closure_expression": {},
	},
	schema.LuaLang: {
		"function_declaration": {},
		"function_definition":  {},
	},
}

// scopeNodeTypes lists non-function node types whose name still prefixes
// the functions declared inside them.
var scopeNodeTypes = map[schema.Language]map[string]struct{}{
	schema.RustLang: {
		"impl_item":  {},
		"trait_item": {},
		"mod_item":   {},
	},
}

// separators joins scope segments into a qualified name per language.
var separators = map[schema.Language]string{
	schema.GoLang:   ".",
	schema.RustLang: "::",
	schema.LuaLang:  ".",
}

func isFuncNode(language schema.Language, nodeType string) bool {
	_, ok := funcNodeTypes[language][nodeType]
	return ok
}

func isScopeNode(language schema.Language, nodeType string) bool {
	_, ok := scopeNodeTypes[language][nodeType]
	return ok
}
