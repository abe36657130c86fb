package highlight

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/golang"
)

// TreeSitter highlights fenced code blocks by running a tree-sitter
// query over the block and wrapping captures in classed spans. Parsing
// is synchronous; a whole block parses in one bounded call.
type TreeSitter struct {
	mu      sync.Mutex
	parsers map[string]*sitter.Parser
	queries map[string]*sitter.Query
}

// NewTreeSitter creates a highlighter with the built-in grammar set.
func NewTreeSitter() *TreeSitter {
	t := &TreeSitter{
		parsers: make(map[string]*sitter.Parser),
		queries: make(map[string]*sitter.Query),
	}
	grammars := []struct {
		name  string
		lang  *sitter.Language
		query string
	}{
		{"go", golang.GetLanguage(), goHighlightQuery},
		{"bash", bash.GetLanguage(), bashHighlightQuery},
	}
	for _, g := range grammars {
		query, err := sitter.NewQuery([]byte(g.query), g.lang)
		if err != nil {
			continue
		}
		p := sitter.NewParser()
		p.SetLanguage(g.lang)
		t.parsers[g.name] = p
		t.queries[g.name] = query
	}
	return t
}

var _ Highlighter = (*TreeSitter)(nil)

var langAliases = map[string]string{
	"golang": "go",
	"sh":     "bash",
	"shell":  "bash",
	"zsh":    "bash",
}

type capture struct {
	start int
	end   int
	kind  string
}

// Highlight returns the code as escaped HTML with captures wrapped in
// <span class="hl-..."> elements. Unknown languages return
// ErrUnsupported so the caller can fall back to plain text.
func (t *TreeSitter) Highlight(lang, code string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(lang))
	if alias, ok := langAliases[name]; ok {
		name = alias
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	parser, ok := t.parsers[name]
	if !ok {
		return "", ErrUnsupported
	}
	query := t.queries[name]

	source := []byte(code)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return "", fmt.Errorf("parsing %s block: %w", name, err)
	}
	defer tree.Close()

	caps := collectCaptures(query, tree, source)
	return renderCaptures(source, caps), nil
}

func collectCaptures(query *sitter.Query, tree *sitter.Tree, source []byte) []capture {
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, tree.RootNode())

	var caps []capture
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)
		if match == nil {
			continue
		}
		for _, c := range match.Captures {
			caps = append(caps, capture{
				start: int(c.Node.StartByte()),
				end:   int(c.Node.EndByte()),
				kind:  query.CaptureNameForId(c.Index),
			})
		}
	}

	// Earlier, longer captures win; overlaps are dropped.
	sort.Slice(caps, func(i, j int) bool {
		if caps[i].start != caps[j].start {
			return caps[i].start < caps[j].start
		}
		return caps[i].end > caps[j].end
	})
	return caps
}

func renderCaptures(source []byte, caps []capture) string {
	var b strings.Builder
	pos := 0
	for _, c := range caps {
		if c.start < pos || c.end <= c.start || c.end > len(source) {
			continue
		}
		b.WriteString(html.EscapeString(string(source[pos:c.start])))
		b.WriteString(`<span class="hl-`)
		b.WriteString(c.kind)
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(string(source[c.start:c.end])))
		b.WriteString(`</span>`)
		pos = c.end
	}
	if pos < len(source) {
		b.WriteString(html.EscapeString(string(source[pos:])))
	}
	return b.String()
}

const goHighlightQuery = `
((comment) @comment)
((interpreted_string_literal) @string)
((raw_string_literal) @string)
((rune_literal) @string)
((int_literal) @number)
((float_literal) @number)
[
  "break" "case" "chan" "const" "continue" "default" "defer" "else"
  "fallthrough" "for" "func" "go" "goto" "if" "import" "interface"
  "map" "package" "range" "return" "select" "struct" "switch"
  "type" "var"
] @keyword
((nil) @constant)
((true) @constant)
((false) @constant)
((iota) @constant)
((type_identifier) @type)
((package_identifier) @type)
((function_declaration name: (identifier) @function))
((method_declaration name: (field_identifier) @function))
((call_expression function: (identifier) @function))
((call_expression function: (selector_expression field: (field_identifier) @function)))
`

const bashHighlightQuery = `
((comment) @comment)
((string) @string)
((raw_string) @string)
((heredoc_body) @string)
((number) @number)
((variable_name) @variable)
((command_name) @function)
((function_definition name: (word) @function))
[
  "if" "then" "else" "elif" "fi" "case" "esac" "for" "while" "until"
  "do" "done" "in" "function" "return" "exit" "break" "continue"
  "local" "export" "declare" "unset"
] @keyword
`
