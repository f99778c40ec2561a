package jsast

import (
	"fmt"
	"go/token"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// Extensions lists the file extensions handled by the JavaScript grammar.
var Extensions = []string{".js", ".mjs", ".cjs", ".jsx"}

// SyntaxError reports the first error node tree-sitter produced.
type SyntaxError struct {
	Pos token.Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Parse parses src as JavaScript and registers the file in fset.
// A tree containing error or missing nodes yields a *SyntaxError.
func Parse(fset *token.FileSet, path string, src []byte) (*File, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(sitter.NewLanguage(tree_sitter_javascript.Language())); err != nil {
		return nil, fmt.Errorf("jsast: loading javascript grammar: %w", err)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("jsast: parsing %s: parser returned no tree", path)
	}
	defer tree.Close()

	tf := fset.AddFile(path, -1, len(src))
	tf.SetLinesForContent(src)

	f := &File{
		Path:      path,
		Source:    src,
		TokenFile: tf,
	}
	root := tree.RootNode()
	f.build(root)

	if root.HasError() {
		return nil, f.syntaxError()
	}
	return f, nil
}

// build copies the tree-sitter tree into the arena in preorder.
func (f *File) build(root *sitter.Node) {
	cursor := root.Walk()
	defer cursor.Close()

	stack := []NodeID{f.add(cursor.Node(), "", NoNode)}
	for {
		if cursor.GotoFirstChild() {
			id := f.add(cursor.Node(), cursor.FieldName(), stack[len(stack)-1])
			stack = append(stack, id)
			continue
		}
		for {
			if cursor.GotoNextSibling() {
				stack = stack[:len(stack)-1]
				id := f.add(cursor.Node(), cursor.FieldName(), stack[len(stack)-1])
				stack = append(stack, id)
				break
			}
			if !cursor.GotoParent() {
				return
			}
			stack = stack[:len(stack)-1]
		}
	}
}

func (f *File) add(n *sitter.Node, field string, parent NodeID) NodeID {
	var flags nodeFlags
	if n.IsNamed() {
		flags |= flagNamed
	}
	if n.IsExtra() {
		flags |= flagExtra
	}
	if n.IsMissing() {
		flags |= flagMissing
	}
	if n.IsError() {
		flags |= flagError
	}

	id := NodeID(len(f.nodes))
	f.nodes = append(f.nodes, node{
		kind:   n.Kind(),
		field:  field,
		flags:  flags,
		start:  int(n.StartByte()),
		end:    int(n.EndByte()),
		parent: parent,
	})
	if parent != NoNode {
		f.nodes[parent].children = append(f.nodes[parent].children, id)
	}
	return id
}

func (f *File) syntaxError() error {
	for i, n := range f.nodes {
		switch {
		case n.flags&flagError != 0:
			return &SyntaxError{
				Pos: f.Position(NodeID(i)),
				Msg: fmt.Sprintf("unexpected %q", truncate(f.Text(NodeID(i)), 32)),
			}
		case n.flags&flagMissing != 0:
			return &SyntaxError{
				Pos: f.Position(NodeID(i)),
				Msg: fmt.Sprintf("missing %s", n.kind),
			}
		}
	}
	return &SyntaxError{Pos: f.Position(f.Root()), Msg: "syntax error"}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
