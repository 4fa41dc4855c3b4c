// Package language wires the per-language pieces together: lexers,
// statement finders, scope labelers, indentation engines and comment
// markers.
package language

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zjrosen/codenav/internal/codemodel"
	"github.com/zjrosen/codenav/internal/config"
	"github.com/zjrosen/codenav/internal/cppnav"
	"github.com/zjrosen/codenav/internal/document"
	"github.com/zjrosen/codenav/internal/expand"
	"github.com/zjrosen/codenav/internal/indent"
	"github.com/zjrosen/codenav/internal/lexer"
	"github.com/zjrosen/codenav/internal/rnav"
	"github.com/zjrosen/codenav/internal/scope"
)

// ErrUnknownLanguage is returned for names and file extensions with no
// registered language.
var ErrUnknownLanguage = errors.New("unknown language")

// Lexer engine names accepted by NewLexer.
const (
	EngineSimple = "simple"
	EngineChroma = "chroma"
)

// Language bundles the strategies for one language.
type Language struct {
	Name          string
	Extensions    []string
	CommentPrefix string

	Statements expand.StatementFinder
	Labeler    scope.Labeler

	// nil when every state is code.
	codeStates func(state string) bool
	simple     func() lexer.Lexer
	// Empty when chroma has no lexer for the language.
	chromaName string
	indenter   func(m indent.Model, cfg config.IndentConfig, isCode func(string) bool) indent.Indenter
}

var registry = map[string]Language{
	"cpp": {
		Name:          "cpp",
		Extensions:    []string{".c", ".cc", ".cpp", ".cxx", ".h", ".hh", ".hpp", ".hxx"},
		CommentPrefix: "//",
		Statements:    cppnav.Statements{},
		Labeler:       cppnav.ScopeLabel,
		simple:        func() lexer.Lexer { return lexer.NewCpp() },
		chromaName:    "cpp",
		indenter: func(m indent.Model, cfg config.IndentConfig, _ func(string) bool) indent.Indenter {
			return indent.NewCpp(m, cfg)
		},
	},
	"r": {
		Name:          "r",
		Extensions:    []string{".r"},
		CommentPrefix: "#",
		Statements:    rnav.Statements{},
		Labeler:       rnav.FunctionLabel,
		simple:        func() lexer.Lexer { return lexer.NewR() },
		chromaName:    "r",
		indenter:      newR,
	},
	"rmd": {
		Name:          "rmd",
		Extensions:    []string{".rmd"},
		CommentPrefix: "#",
		Statements:    rnav.Statements{},
		Labeler:       rnav.FunctionLabel,
		codeStates:    func(s string) bool { return strings.HasPrefix(s, lexer.CodeStatePrefix) },
		simple:        func() lexer.Lexer { return lexer.NewRMarkdown() },
		indenter:      newR,
	},
}

func newR(m indent.Model, cfg config.IndentConfig, isCode func(string) bool) indent.Indenter {
	if isCode == nil {
		return indent.NewR(m, cfg)
	}
	return indent.NewR(m, cfg, indent.WithCodeStates(isCode))
}

// Names lists the registered languages.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the language called name.
func Lookup(name string) (Language, error) {
	lang, ok := registry[strings.ToLower(name)]
	if !ok {
		return Language{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}
	return lang, nil
}

// ForFile picks the language from path's extension.
func ForFile(path string) (Language, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, name := range Names() {
		for _, e := range registry[name].Extensions {
			if e == ext {
				return registry[name], nil
			}
		}
	}
	return Language{}, fmt.Errorf("%w: no language for %q", ErrUnknownLanguage, path)
}

// Resolve returns the language called name, or the one for path when
// name is empty.
func Resolve(name, path string) (Language, error) {
	if name != "" {
		return Lookup(name)
	}
	return ForFile(path)
}

// IsCode reports whether state is inside code. Every state is code except
// in languages that embed code in prose.
func (l Language) IsCode(state string) bool {
	return l.codeStates == nil || l.codeStates(state)
}

// NewLexer builds the lexer for engine.
func (l Language) NewLexer(engine string) (lexer.Lexer, error) {
	switch engine {
	case "", EngineSimple:
		return l.simple(), nil
	case EngineChroma:
		if l.chromaName == "" {
			return nil, fmt.Errorf("chroma lexer not available for %s", l.Name)
		}
		return lexer.NewChroma(l.chromaName)
	}
	return nil, fmt.Errorf("unknown lexer engine %q", engine)
}

// NewModel binds a code model to doc.
func (l Language) NewModel(doc *document.Document, engine string) (*codemodel.Model, error) {
	lx, err := l.NewLexer(engine)
	if err != nil {
		return nil, err
	}
	opts := []codemodel.Option{codemodel.WithLabeler(l.Labeler)}
	if l.codeStates != nil {
		opts = append(opts, codemodel.WithCodeStates(l.codeStates))
	}
	return codemodel.New(doc, lx, opts...), nil
}

// NewIndenter returns the indentation engine reading from m.
func (l Language) NewIndenter(m indent.Model, cfg config.IndentConfig) indent.Indenter {
	return l.indenter(m, cfg, l.codeStates)
}

// NewExpander returns a selection expander over m.
func (l Language) NewExpander(m expand.Model, cfg config.ExpandConfig) *expand.Expander {
	return expand.New(m, cfg, expand.WithStatements(l.Statements), expand.WithCommentPrefix(l.CommentPrefix))
}
