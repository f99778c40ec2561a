package rules

import (
	"github.com/Wladim1r/preferlogger/internal/jsast"
	"github.com/Wladim1r/preferlogger/internal/scope"
)

// isShadowed reports whether v was introduced by user code rather than by
// the environment.
func isShadowed(v *scope.Variable) bool {
	return v != nil && len(v.Defs) > 0
}

// candidateReferences returns the references to check. References to an
// undeclared global are not bound to any variable, so without a binding the
// global scope's unresolved references are filtered by name instead.
func candidateReferences(global *scope.Scope, v *scope.Variable) []*scope.Reference {
	if v != nil {
		return v.References
	}

	var refs []*scope.Reference
	for _, ref := range global.Through {
		if ref.Name == trackedName {
			refs = append(refs, ref)
		}
	}
	return refs
}

// isQualifyingAccess reports whether ref is the object of a property access,
// as console is in console.error, console["error"] or (console).error.
func isQualifyingAccess(f *jsast.File, ref *scope.Reference) bool {
	object := unparen(f, ref.Identifier)
	parent := f.Parent(object)
	switch f.Kind(parent) {
	case "member_expression", "subscript_expression":
		return f.Field(parent, "object") == object
	}
	return false
}

// unparen returns the outermost parenthesized_expression wrapping id, or id
// itself when it is not parenthesized.
func unparen(f *jsast.File, id jsast.NodeID) jsast.NodeID {
	for {
		parent := f.Parent(id)
		if f.Kind(parent) != "parenthesized_expression" {
			return id
		}
		id = parent
	}
}
