package rules

import (
	"fmt"
	"strings"

	"golang.org/x/tools/go/analysis"

	"github.com/Wladim1r/preferlogger/internal/jsast"
	"github.com/Wladim1r/preferlogger/internal/scope"
)

// normalizeMethod maps console methods to logger levels.
func normalizeMethod(name string) string {
	if name == "log" {
		return "info"
	}
	return name
}

// report builds the finding for one qualifying reference. Only a plain
// console.method(...) call gets fixes; other accesses are reported bare.
func (p *pass) report(ref *scope.Reference) analysis.Diagnostic {
	f := p.unit.File
	access := f.Parent(unparen(f, ref.Identifier))

	d := analysis.Diagnostic{
		Pos:      f.Pos(access),
		End:      f.EndPos(access),
		Category: Category,
		Message:  MessagePreferLogger,
	}

	call, method, ok := rewritableCall(f, access)
	if !ok {
		return d
	}

	d.Pos, d.End = f.Pos(call), f.EndPos(call)
	d.SuggestedFixes = append(d.SuggestedFixes, p.rewriteFix(call, method))
	if fix, ok := p.importFix(); ok {
		d.SuggestedFixes = append(d.SuggestedFixes, fix)
	}
	return d
}

// rewritableCall returns the call expression whose callee is access, along
// with the accessed method name.
func rewritableCall(f *jsast.File, access jsast.NodeID) (call jsast.NodeID, method string, ok bool) {
	if f.Kind(access) != "member_expression" {
		return jsast.NoNode, "", false
	}
	property := f.Field(access, "property")
	if f.Kind(property) != "property_identifier" {
		return jsast.NoNode, "", false
	}

	callee := unparen(f, access)
	call = f.Parent(callee)
	if f.Kind(call) != "call_expression" || f.Field(call, "function") != callee {
		return jsast.NoNode, "", false
	}
	if f.Kind(f.Field(call, "arguments")) != "arguments" {
		// Tagged template.
		return jsast.NoNode, "", false
	}
	return call, f.Text(property), true
}

// rewriteFix replaces call with the same call on the preferred logger,
// copying argument text verbatim.
func (p *pass) rewriteFix(call jsast.NodeID, method string) analysis.SuggestedFix {
	f := p.unit.File

	args := f.NamedChildren(f.Field(call, "arguments"))
	texts := make([]string, 0, len(args))
	for _, arg := range args {
		texts = append(texts, f.Text(arg))
	}

	text := fmt.Sprintf("%s.%s(%s)", p.rule.loggerName, normalizeMethod(method), strings.Join(texts, ", "))
	return analysis.SuggestedFix{
		Message: MessagePreferLogger,
		TextEdits: []analysis.TextEdit{{
			Pos:     f.Pos(call),
			End:     f.EndPos(call),
			NewText: []byte(text),
		}},
	}
}

// importFix returns the import insertion the first time it is needed in a
// pass.
func (p *pass) importFix() (analysis.SuggestedFix, bool) {
	if p.importSuggested || loggerAvailable(p.unit.Scope, p.rule.loggerName) {
		return analysis.SuggestedFix{}, false
	}

	f := p.unit.File
	anchor, ok := importAnchor(f)
	if !ok {
		return analysis.SuggestedFix{}, false
	}
	p.importSuggested = true

	pos := f.Pos(anchor)
	return analysis.SuggestedFix{
		Message: MessageImportLogger,
		TextEdits: []analysis.TextEdit{{
			Pos:     pos,
			End:     pos,
			NewText: []byte(p.rule.importStatement(p.rule.importSpecifier(f.Path)) + "\n"),
		}},
	}, true
}

// importAnchor returns the statement the import is inserted before: the
// first one after the hashbang line and the directive prologue.
func importAnchor(f *jsast.File) (jsast.NodeID, bool) {
	for _, stmt := range f.Statements() {
		if !isDirective(f, stmt) {
			return stmt, true
		}
	}
	return jsast.NoNode, false
}

// isDirective reports whether stmt is a bare string expression statement
// such as "use strict".
func isDirective(f *jsast.File, stmt jsast.NodeID) bool {
	if f.Kind(stmt) != "expression_statement" {
		return false
	}
	children := f.NamedChildren(stmt)
	return len(children) == 1 && f.Kind(children[0]) == "string"
}

func (r *PreferLogger) importStatement(spec string) string {
	if r.importStyle == ImportCommonJS {
		return fmt.Sprintf(`const %s = require("%s")`, r.loggerName, spec)
	}
	return fmt.Sprintf(`import %s from "%s"`, r.loggerName, spec)
}

// loggerAvailable reports whether name is bound at the top of the file,
// either in the global scope or in one of its direct child scopes.
func loggerAvailable(global *scope.Scope, name string) bool {
	if scope.Resolve(global, name) != nil {
		return true
	}
	for _, child := range global.Children {
		if child.Lookup(name) != nil {
			return true
		}
	}
	return false
}
