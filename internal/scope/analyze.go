package scope

import "github.com/Wladim1r/preferlogger/internal/jsast"

// Source types understood by Analyze.
const (
	SourceModule = "module"
	SourceScript = "script"
)

// Options controls how a file is scoped.
type Options struct {
	// SourceType is SourceModule (default) or SourceScript. Modules get a
	// module scope below the global scope that holds top-level declarations.
	SourceType string
	// Globals are ambient names declared in the global scope without a
	// declaration site.
	Globals []string
}

type builder struct {
	f    *jsast.File
	refs []*Reference
}

// Analyze builds the scope tree of f and returns its global scope.
func Analyze(f *jsast.File, opts Options) *Scope {
	global := newScope(KindGlobal, f.Root(), nil)
	for _, name := range opts.Globals {
		global.declare(name, nil)
	}

	top := global
	if opts.SourceType != SourceScript {
		top = newScope(KindModule, f.Root(), global)
	}

	b := &builder{f: f}
	b.children(f.Root(), top)
	b.resolve()
	return global
}

func (b *builder) children(id jsast.NodeID, s *Scope) {
	for _, c := range b.f.NamedChildren(id) {
		b.walk(c, s)
	}
}

func (b *builder) walk(id jsast.NodeID, s *Scope) {
	if id == jsast.NoNode {
		return
	}
	f := b.f
	switch f.Kind(id) {
	case "identifier", "shorthand_property_identifier", "shorthand_property_identifier_pattern":
		b.reference(id, s)

	case "variable_declaration":
		b.declarators(id, s, s.varScope())

	case "lexical_declaration":
		b.declarators(id, s, s)

	case "function_declaration", "generator_function_declaration":
		if name := f.Field(id, "name"); name != jsast.NoNode {
			s.declare(f.Text(name), &Def{Kind: DefFunctionName, Name: name, Node: id})
		}
		b.function(id, s, jsast.NoNode)

	case "function_expression", "function", "generator_function":
		b.function(id, s, f.Field(id, "name"))

	case "arrow_function":
		b.function(id, s, jsast.NoNode)

	case "method_definition":
		if name := f.Field(id, "name"); f.Kind(name) == "computed_property_name" {
			b.walk(name, s)
		}
		b.function(id, s, jsast.NoNode)

	case "class_declaration":
		if name := f.Field(id, "name"); name != jsast.NoNode {
			s.declare(f.Text(name), &Def{Kind: DefClassName, Name: name, Node: id})
		}
		b.class(id, s)

	case "class":
		b.class(id, s)

	case "statement_block", "class_static_block":
		b.children(id, newScope(KindBlock, id, s))

	case "for_statement":
		b.children(id, newScope(KindFor, id, s))

	case "for_in_statement":
		b.forIn(id, s)

	case "catch_clause":
		cs := newScope(KindCatch, id, s)
		if param := f.Field(id, "parameter"); param != jsast.NoNode {
			b.pattern(param, cs, cs, DefCatchClause, id)
		}
		b.walk(f.Field(id, "body"), cs)

	case "switch_body":
		b.children(id, newScope(KindSwitch, id, s))

	case "import_statement":
		b.imports(id, s)

	case "export_statement":
		// export { a } from "m" re-exports without touching local names.
		if f.Field(id, "source") != jsast.NoNode {
			return
		}
		b.children(id, s)

	case "export_specifier":
		b.walk(f.Field(id, "name"), s)

	default:
		b.children(id, s)
	}
}

func (b *builder) reference(id jsast.NodeID, s *Scope) {
	ref := &Reference{Identifier: id, Name: b.f.Text(id), From: s}
	s.References = append(s.References, ref)
	b.refs = append(b.refs, ref)
}

func (b *builder) declarators(id jsast.NodeID, s, target *Scope) {
	f := b.f
	for _, c := range f.NamedChildren(id) {
		if f.Kind(c) != "variable_declarator" {
			continue
		}
		b.pattern(f.Field(c, "name"), s, target, DefVariable, c)
		b.walk(f.Field(c, "value"), s)
	}
}

// pattern declares every identifier bound by a binding pattern in target.
// Default values and computed keys are ordinary expressions evaluated in s.
func (b *builder) pattern(id jsast.NodeID, s, target *Scope, kind DefKind, decl jsast.NodeID) {
	if id == jsast.NoNode {
		return
	}
	f := b.f
	switch f.Kind(id) {
	case "identifier", "shorthand_property_identifier_pattern":
		target.declare(f.Text(id), &Def{Kind: kind, Name: id, Node: decl})

	case "object_pattern", "array_pattern", "rest_pattern":
		for _, c := range f.NamedChildren(id) {
			b.pattern(c, s, target, kind, decl)
		}

	case "pair_pattern":
		if key := f.Field(id, "key"); f.Kind(key) == "computed_property_name" {
			b.walk(key, s)
		}
		b.pattern(f.Field(id, "value"), s, target, kind, decl)

	case "assignment_pattern", "object_assignment_pattern":
		b.pattern(f.Field(id, "left"), s, target, kind, decl)
		b.walk(f.Field(id, "right"), s)

	case "comment":

	default:
		b.walk(id, s)
	}
}

// function scopes a function-like node. name, when present, is the name of
// a function expression and is bound inside the function's own scope.
func (b *builder) function(id jsast.NodeID, s *Scope, name jsast.NodeID) {
	f := b.f
	fs := newScope(KindFunction, id, s)
	if name != jsast.NoNode {
		fs.declare(f.Text(name), &Def{Kind: DefFunctionName, Name: name, Node: id})
	}

	if params := f.Field(id, "parameters"); params != jsast.NoNode {
		for _, p := range f.NamedChildren(params) {
			b.pattern(p, fs, fs, DefParameter, id)
		}
	}
	if param := f.Field(id, "parameter"); param != jsast.NoNode {
		b.pattern(param, fs, fs, DefParameter, id)
	}

	body := f.Field(id, "body")
	if f.Kind(body) == "statement_block" {
		b.children(body, fs)
		return
	}
	b.walk(body, fs)
}

func (b *builder) class(id jsast.NodeID, s *Scope) {
	f := b.f
	cs := newScope(KindClass, id, s)
	name := f.Field(id, "name")
	if name != jsast.NoNode {
		cs.declare(f.Text(name), &Def{Kind: DefClassName, Name: name, Node: id})
	}
	for _, c := range f.NamedChildren(id) {
		if c == name {
			continue
		}
		b.walk(c, cs)
	}
}

func (b *builder) forIn(id jsast.NodeID, s *Scope) {
	f := b.f
	fs := newScope(KindFor, id, s)
	left := f.Field(id, "left")

	switch f.Text(f.Field(id, "kind")) {
	case "var":
		b.pattern(left, fs, fs.varScope(), DefVariable, id)
	case "let", "const":
		b.pattern(left, fs, fs, DefVariable, id)
	default:
		b.walk(left, fs)
	}

	for _, c := range f.NamedChildren(id) {
		if c == left || f.FieldName(c) == "kind" {
			continue
		}
		b.walk(c, fs)
	}
}

func (b *builder) imports(id jsast.NodeID, s *Scope) {
	f := b.f
	clause := jsast.NoNode
	for _, c := range f.NamedChildren(id) {
		if f.Kind(c) == "import_clause" {
			clause = c
		}
	}
	if clause == jsast.NoNode {
		return
	}

	bind := func(name jsast.NodeID) {
		if name == jsast.NoNode {
			return
		}
		s.declare(f.Text(name), &Def{Kind: DefImportBinding, Name: name, Node: id})
	}

	for _, c := range f.NamedChildren(clause) {
		switch f.Kind(c) {
		case "identifier":
			bind(c)
		case "namespace_import":
			for _, n := range f.NamedChildren(c) {
				if f.Kind(n) == "identifier" {
					bind(n)
				}
			}
		case "named_imports":
			for _, spec := range f.NamedChildren(c) {
				if f.Kind(spec) != "import_specifier" {
					continue
				}
				if alias := f.Field(spec, "alias"); alias != jsast.NoNode {
					bind(alias)
					continue
				}
				bind(f.Field(spec, "name"))
			}
		}
	}
}

// resolve binds every reference once all declarations are known, so hoisted
// declarations are visible to earlier references.
func (b *builder) resolve() {
	for _, ref := range b.refs {
		v := Resolve(ref.From, ref.Name)
		if v != nil {
			ref.Resolved = v
			v.References = append(v.References, ref)
		}
		for sc := ref.From; sc != nil; sc = sc.Upper {
			if v != nil && sc == v.Scope {
				break
			}
			sc.Through = append(sc.Through, ref)
		}
	}
}
