//go:build cgo

package lang

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/lua"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/huangsam/funcspot/internal/contract"
	"github.com/huangsam/funcspot/schema"
)

// Extractor produces function spans for one language via tree-sitter.
// Instances are safe for concurrent use: each Extract call creates its
// own parser.
type Extractor struct {
	language schema.Language
	grammar  *sitter.Language
}

var _ contract.FuncParser = &Extractor{}

// NewExtractor returns the span extractor for the given language.
func NewExtractor(language schema.Language) (*Extractor, error) {
	grammar, err := grammarFor(language)
	if err != nil {
		return nil, err
	}
	return &Extractor{language: language, grammar: grammar}, nil
}

// Registry builds one extractor per requested language.
func Registry(languages []schema.Language) (map[schema.Language]contract.FuncParser, error) {
	parsers := make(map[schema.Language]contract.FuncParser, len(languages))
	for _, language := range languages {
		extractor, err := NewExtractor(language)
		if err != nil {
			return nil, err
		}
		parsers[language] = extractor
	}
	return parsers, nil
}

// IsAvailable reports whether span extraction was compiled in.
func IsAvailable() bool {
	return true
}

func grammarFor(language schema.Language) (*sitter.Language, error) {
	switch language {
	case schema.GoLang:
		return golang.GetLanguage(), nil
	case schema.RustLang:
		return rust.GetLanguage(), nil
	case schema.LuaLang:
		return lua.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", language)
	}
}

// Language implements the contract.FuncParser interface.
func (e *Extractor) Language() schema.Language {
	return e.language
}

// Extract implements the contract.FuncParser interface. Malformed input
// never fails: tree-sitter recovers around syntax errors, so the spans it
// could still recognize are returned with degraded set to true.
func (e *Extractor) Extract(ctx context.Context, source []byte) ([]schema.FunctionSpan, bool) {
	parser := sitter.NewParser()
	parser.SetLanguage(e.grammar)

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, true
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, true
	}

	w := &walker{language: e.language, source: source}
	var anon int
	w.visit(root, nil, 0, &anon)

	spans := w.spans
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].StartLine != spans[j].StartLine {
			return spans[i].StartLine < spans[j].StartLine
		}
		// Outer spans before the inner ones they wrap on the same line
		return spans[i].EndLine > spans[j].EndLine
	})
	return spans, root.HasError()
}

// walker accumulates spans while descending the syntax tree.
type walker struct {
	language schema.Language
	source   []byte
	spans    []schema.FunctionSpan
}

// visit walks the tree carrying the enclosing scope segments. anon counts
// anonymous definitions, restarting inside every function so ordinals stay
// stable under edits elsewhere in the file.
func (w *walker) visit(node *sitter.Node, scope []string, depth int, anon *int) {
	nodeType := node.Type()

	if isFuncNode(w.language, nodeType) {
		segment := w.declaredName(node)
		if segment == "" {
			*anon++
			segment = anonymousSegment(w.language, *anon)
		}

		qualified := segment
		if len(scope) > 0 {
			qualified = strings.Join(scope, separators[w.language]) + separators[w.language] + segment
		}
		w.spans = append(w.spans, schema.FunctionSpan{
			Name:      qualified,
			StartLine: int(node.StartPoint().Row) + 1,
			EndLine:   int(node.EndPoint().Row) + 1,
			Depth:     depth,
		})

		childScope := append(append([]string{}, scope...), segment)
		var childAnon int
		for i := uint32(0); i < node.ChildCount(); i++ {
			w.visit(node.Child(int(i)), childScope, depth+1, &childAnon)
		}
		return
	}

	if isScopeNode(w.language, nodeType) {
		if segment := w.scopeName(node); segment != "" {
			childScope := append(append([]string{}, scope...), segment)
			for i := uint32(0); i < node.ChildCount(); i++ {
				w.visit(node.Child(int(i)), childScope, depth, anon)
			}
			return
		}
	}

	for i := uint32(0); i < node.ChildCount(); i++ {
		w.visit(node.Child(int(i)), scope, depth, anon)
	}
}

// declaredName returns the name segment a function node declares, or ""
// for anonymous definitions.
func (w *walker) declaredName(node *sitter.Node) string {
	switch node.Type() {
	case "method_declaration":
		// Go method: the receiver type disambiguates same-named methods
		name := node.ChildByFieldName("name")
		if name == nil {
			return ""
		}
		if recv := receiverType(node, w.source); recv != "" {
			return "(" + recv + ") " + name.Content(w.source)
		}
		return name.Content(w.source)
	default:
		if name := node.ChildByFieldName("name"); name != nil {
			return name.Content(w.source)
		}
		return ""
	}
}

// scopeName names a non-function scope node (Rust impl, trait, mod).
func (w *walker) scopeName(node *sitter.Node) string {
	if name := node.ChildByFieldName("name"); name != nil {
		return name.Content(w.source)
	}
	// impl blocks carry the implementing type instead of a name
	if typ := node.ChildByFieldName("type"); typ != nil {
		return typ.Content(w.source)
	}
	return ""
}

// receiverType extracts the Go receiver type text, e.g. "x" or "*x".
func receiverType(node *sitter.Node, source []byte) string {
	recv := node.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	for i := uint32(0); i < recv.NamedChildCount(); i++ {
		param := recv.NamedChild(int(i))
		if param.Type() != "parameter_declaration" {
			continue
		}
		if typ := param.ChildByFieldName("type"); typ != nil {
			return typ.Content(source)
		}
	}
	return ""
}

// anonymousSegment names the n-th anonymous definition in a scope. Go
// literals follow the runtime's funcN convention, Rust closures the
// compiler's zero-based closure index.
func anonymousSegment(language schema.Language, n int) string {
	switch language {
	case schema.GoLang:
		return fmt.Sprintf("func%d", n)
	case schema.RustLang:
		return fmt.Sprintf("closure#%d", n-1)
	default:
		return fmt.Sprintf("anonymous#%d", n)
	}
}
