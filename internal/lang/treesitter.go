package lang

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// treeSitterPlugin provides common tree-sitter parsing functionality
// shared by the grammar-backed plugins.
type treeSitterPlugin struct {
	language *sitter.Language
	lang     string
	exts     []string
}

func newTreeSitterPlugin(language *sitter.Language, lang string, exts []string) *treeSitterPlugin {
	return &treeSitterPlugin{
		language: language,
		lang:     lang,
		exts:     exts,
	}
}

// Language returns the plugin's language identifier.
func (p *treeSitterPlugin) Language() string { return p.lang }

// Extensions returns the file extensions this plugin handles.
func (p *treeSitterPlugin) Extensions() []string { return p.exts }

// parse parses source and returns the syntax tree root. A tree whose root
// carries a syntax error is rejected so that one malformed file degrades to
// a single error note instead of half-extracted entities.
func (p *treeSitterPlugin) parse(source []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(p.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s source", p.lang)
	}
	if tree.RootNode().HasError() {
		tree.Close()
		return nil, fmt.Errorf("syntax error in %s source", p.lang)
	}
	return tree, nil
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// nodeLines returns the 1-indexed start and end line of a node.
func nodeLines(node *sitter.Node) (int, int) {
	return int(node.StartPosition().Row) + 1, int(node.EndPosition().Row) + 1
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for
// each node. Returning false from the visitor stops descent into that node.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

// childrenOfKind finds all direct children with the given node kind.
func childrenOfKind(node *sitter.Node, kind string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == kind {
			results = append(results, child)
		}
	}
	return results
}

// firstChildOfKind finds the first direct child with the given node kind.
func firstChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// firstLine returns the first non-empty line of a docstring body with
// surrounding quotes and whitespace removed.
func firstLine(doc string) string {
	doc = strings.Trim(doc, "\"'`")
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
