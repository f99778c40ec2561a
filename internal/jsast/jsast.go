// Package jsast holds a read-only syntax tree for one JavaScript file.
//
// The tree is produced by tree-sitter and copied into a flat arena of nodes
// addressed by NodeID. Each node keeps its kind, the field name it occupies
// in its parent, its byte span and a parent link, so callers can walk both
// down and up the tree without touching the tree-sitter objects, which are
// released as soon as Parse returns.
package jsast

import (
	"go/token"
)

// NodeID addresses a node inside a File. The program node is always 0.
type NodeID int32

// NoNode is returned by lookups that find nothing.
const NoNode NodeID = -1

type nodeFlags uint8

const (
	flagNamed nodeFlags = 1 << iota
	flagExtra
	flagMissing
	flagError
)

type node struct {
	kind     string
	field    string
	flags    nodeFlags
	start    int
	end      int
	parent   NodeID
	children []NodeID
}

// File is one parsed source file.
type File struct {
	// Path is the file name as given to Parse.
	Path string
	// Source is the raw file content.
	Source []byte
	// TokenFile maps byte offsets to token.Pos values in the FileSet passed
	// to Parse.
	TokenFile *token.File

	nodes []node
}

// Root returns the program node.
func (f *File) Root() NodeID { return 0 }

// Len returns the number of nodes in the tree.
func (f *File) Len() int { return len(f.nodes) }

func (f *File) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(f.nodes)
}

// Kind returns the grammar type of the node, for example "call_expression".
func (f *File) Kind(id NodeID) string {
	if !f.valid(id) {
		return ""
	}
	return f.nodes[id].kind
}

// FieldName returns the field the node occupies in its parent, or "".
func (f *File) FieldName(id NodeID) string {
	if !f.valid(id) {
		return ""
	}
	return f.nodes[id].field
}

// IsNamed reports whether the node is a named grammar node (as opposed to
// punctuation or keywords).
func (f *File) IsNamed(id NodeID) bool {
	return f.valid(id) && f.nodes[id].flags&flagNamed != 0
}

// Parent returns the enclosing node, or NoNode for the program node.
func (f *File) Parent(id NodeID) NodeID {
	if !f.valid(id) {
		return NoNode
	}
	return f.nodes[id].parent
}

// Children returns all children of the node, including anonymous tokens.
// The returned slice must not be modified.
func (f *File) Children(id NodeID) []NodeID {
	if !f.valid(id) {
		return nil
	}
	return f.nodes[id].children
}

// NamedChildren returns the named children of the node, skipping comments.
func (f *File) NamedChildren(id NodeID) []NodeID {
	if !f.valid(id) {
		return nil
	}
	var out []NodeID
	for _, c := range f.nodes[id].children {
		n := f.nodes[c]
		if n.flags&flagNamed == 0 || n.flags&flagExtra != 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Field returns the first child stored under the given field name.
func (f *File) Field(id NodeID, name string) NodeID {
	if !f.valid(id) {
		return NoNode
	}
	for _, c := range f.nodes[id].children {
		if f.nodes[c].field == name {
			return c
		}
	}
	return NoNode
}

// Start returns the byte offset where the node begins.
func (f *File) Start(id NodeID) int {
	if !f.valid(id) {
		return 0
	}
	return f.nodes[id].start
}

// End returns the byte offset just past the node.
func (f *File) End(id NodeID) int {
	if !f.valid(id) {
		return 0
	}
	return f.nodes[id].end
}

// Text returns the verbatim source text of the node.
func (f *File) Text(id NodeID) string {
	if !f.valid(id) {
		return ""
	}
	n := f.nodes[id]
	return string(f.Source[n.start:n.end])
}

// Pos returns the token position of the node start.
func (f *File) Pos(id NodeID) token.Pos {
	return f.TokenFile.Pos(f.Start(id))
}

// EndPos returns the token position just past the node.
func (f *File) EndPos(id NodeID) token.Pos {
	return f.TokenFile.Pos(f.End(id))
}

// Position returns the line and column of the node start.
func (f *File) Position(id NodeID) token.Position {
	return f.TokenFile.Position(f.Pos(id))
}

// Statements returns the top-level statements of the program. Comments and
// a leading "#!" line are not statements.
func (f *File) Statements() []NodeID {
	var out []NodeID
	for _, c := range f.NamedChildren(f.Root()) {
		if f.Kind(c) == "hash_bang_line" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Preorder calls fn for every node in source order. Returning false from fn
// skips the node's children.
func (f *File) Preorder(fn func(NodeID) bool) {
	if len(f.nodes) == 0 {
		return
	}
	stack := []NodeID{f.Root()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(id) {
			continue
		}
		children := f.nodes[id].children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}
