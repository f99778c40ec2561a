// Package scope builds the lexical scope tree of a JavaScript file.
//
// The model follows the usual lint-engine shape: every scope owns a set of
// variables keyed by name, links to its enclosing scope and its child
// scopes, and records the references that occur directly inside it.
// References that resolve to no variable are collected in the Through list
// of every scope they escape, so the global scope's Through holds every
// reference to an undeclared name.
package scope

import "github.com/Wladim1r/preferlogger/internal/jsast"

// Kind classifies a scope.
type Kind int

const (
	KindGlobal Kind = iota
	KindModule
	KindFunction
	KindClass
	KindBlock
	KindFor
	KindCatch
	KindSwitch
)

func (k Kind) String() string {
	switch k {
	case KindGlobal:
		return "global"
	case KindModule:
		return "module"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindBlock:
		return "block"
	case KindFor:
		return "for"
	case KindCatch:
		return "catch"
	case KindSwitch:
		return "switch"
	}
	return "unknown"
}

// DefKind classifies a declaration site.
type DefKind int

const (
	DefVariable DefKind = iota
	DefFunctionName
	DefClassName
	DefParameter
	DefCatchClause
	DefImportBinding
)

// Def is one declaration site of a variable.
type Def struct {
	Kind DefKind
	// Name is the declared identifier.
	Name jsast.NodeID
	// Node is the declaring construct (declarator, function, import, ...).
	Node jsast.NodeID
}

// Variable is a name bound in a scope. Variables without Defs are ambient
// globals supplied by the environment.
type Variable struct {
	Name       string
	Scope      *Scope
	Defs       []Def
	References []*Reference
}

// Reference is one identifier occurrence that reads or writes a name.
type Reference struct {
	Identifier jsast.NodeID
	Name       string
	// From is the innermost scope containing the identifier.
	From *Scope
	// Resolved is the variable the name binds to, or nil.
	Resolved *Variable
}

// Scope is one node of the scope tree.
type Scope struct {
	Kind       Kind
	Node       jsast.NodeID
	Upper      *Scope
	Children   []*Scope
	Variables  map[string]*Variable
	References []*Reference
	Through    []*Reference
}

func newScope(kind Kind, node jsast.NodeID, upper *Scope) *Scope {
	s := &Scope{
		Kind:      kind,
		Node:      node,
		Upper:     upper,
		Variables: make(map[string]*Variable),
	}
	if upper != nil {
		upper.Children = append(upper.Children, s)
	}
	return s
}

// Lookup returns the variable bound directly in s, without consulting
// enclosing scopes.
func (s *Scope) Lookup(name string) *Variable {
	return s.Variables[name]
}

// Resolve finds the binding for name, starting at start and moving outward
// through enclosing scopes. It returns nil once the chain is exhausted.
func Resolve(start *Scope, name string) *Variable {
	for s := start; s != nil; s = s.Upper {
		if v := s.Variables[name]; v != nil {
			return v
		}
	}
	return nil
}

func (s *Scope) declare(name string, def *Def) *Variable {
	v := s.Variables[name]
	if v == nil {
		v = &Variable{Name: name, Scope: s}
		s.Variables[name] = v
	}
	if def != nil {
		v.Defs = append(v.Defs, *def)
	}
	return v
}

// varScope is the scope a "var" declaration hoists to.
func (s *Scope) varScope() *Scope {
	for sc := s; sc != nil; sc = sc.Upper {
		switch sc.Kind {
		case KindFunction, KindModule, KindGlobal:
			return sc
		}
	}
	return s
}
