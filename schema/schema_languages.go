package schema

// LanguageInfo describes one supported grammar for display purposes.
type LanguageInfo struct {
	Name        string   `json:"name"`
	Extensions  []string `json:"extensions"`
	Definitions []string `json:"definitions"` // Grammar constructs counted as functions
	Qualifier   string   `json:"qualifier"`   // How scope-qualified names are built
	Anonymous   string   `json:"anonymous"`   // How anonymous definitions are labeled
}

// LanguageRenderModel contains all processed data needed for displaying
// the language reference.
type LanguageRenderModel struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Languages   []LanguageInfo `json:"languages"`
}

// BuildLanguageRenderModel constructs the language reference shared by the
// CLI and MCP surfaces. Entries follow AllLanguages order.
func BuildLanguageRenderModel() *LanguageRenderModel {
	return &LanguageRenderModel{
		Title:       "Supported Languages",
		Description: "Each language is parsed with its tree-sitter grammar; the constructs below define the function spans commits are counted against",
		Languages: []LanguageInfo{
			{
				Name:        string(GoLang),
				Extensions:  []string{".go"},
				Definitions: []string{"functions", "methods", "function literals"},
				Qualifier:   "methods carry the receiver type, e.g. (*Server) Serve; nested literals chain with '.'",
				Anonymous:   "funcN per enclosing scope, matching the runtime convention",
			},
			{
				Name:        string(RustLang),
				Extensions:  []string{".rs"},
				Definitions: []string{"functions", "closures"},
				Qualifier:   "impl, trait and mod scopes chain with '::', e.g. Parser::parse",
				Anonymous:   "closure#N per enclosing scope, zero-based like the compiler's index",
			},
			{
				Name:        string(LuaLang),
				Extensions:  []string{".lua"},
				Definitions: []string{"function declarations", "function expressions"},
				Qualifier:   "declared table paths are kept verbatim, e.g. rollout.apply",
				Anonymous:   "anonymous#N per enclosing scope",
			},
		},
	}
}
