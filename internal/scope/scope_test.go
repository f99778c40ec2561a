package scope_test

import (
	"go/token"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wladim1r/preferlogger/internal/jsast"
	"github.com/Wladim1r/preferlogger/internal/scope"
)

func analyze(t *testing.T, src string, opts scope.Options) (*jsast.File, *scope.Scope) {
	t.Helper()
	f, err := jsast.Parse(token.NewFileSet(), "test.js", []byte(src))
	require.NoError(t, err)
	return f, scope.Analyze(f, opts)
}

func throughNames(s *scope.Scope) []string {
	var names []string
	for _, ref := range s.Through {
		names = append(names, ref.Name)
	}
	sort.Strings(names)
	return names
}

func variableNames(s *scope.Scope) []string {
	names := make([]string, 0, len(s.Variables))
	for name := range s.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// firstChild descends through the first child scope n times.
func firstChild(t *testing.T, s *scope.Scope, n int) *scope.Scope {
	t.Helper()
	for range n {
		require.NotEmpty(t, s.Children, "scope %s has no children", s.Kind)
		s = s.Children[0]
	}
	return s
}

func TestResolve(t *testing.T) {
	t.Parallel()
	_, global := analyze(t, `const a = 1; function f() { const b = 2; { let c = 3 } }`, scope.Options{})

	module := firstChild(t, global, 1)
	block := firstChild(t, global, 3)
	require.Equal(t, scope.KindModule, module.Kind)
	require.Equal(t, scope.KindBlock, block.Kind)

	assert.Same(t, module.Lookup("a"), scope.Resolve(block, "a"))
	assert.NotNil(t, scope.Resolve(block, "b"))
	assert.NotNil(t, scope.Resolve(block, "c"))
	assert.Nil(t, scope.Resolve(module, "c"))
	assert.Nil(t, scope.Resolve(block, "missing"))
	assert.Nil(t, scope.Resolve(nil, "a"))
}

func TestAnalyze_UndeclaredGoesThrough(t *testing.T) {
	t.Parallel()
	f, global := analyze(t, `console.error("test")`, scope.Options{})

	assert.Nil(t, global.Lookup("console"))
	require.Equal(t, []string{"console"}, throughNames(global))

	ref := global.Through[0]
	assert.Nil(t, ref.Resolved)
	assert.Equal(t, "member_expression", f.Kind(f.Parent(ref.Identifier)))
}

func TestAnalyze_ModuleDeclarationShadowsGlobal(t *testing.T) {
	t.Parallel()
	_, global := analyze(t, `const console = require("my-logger"); console.log("test")`, scope.Options{})

	assert.Equal(t, []string{"require"}, throughNames(global))

	module := firstChild(t, global, 1)
	v := module.Lookup("console")
	require.NotNil(t, v)
	assert.Len(t, v.Defs, 1)
	assert.Equal(t, scope.DefVariable, v.Defs[0].Kind)
	assert.Len(t, v.References, 1)
}

func TestAnalyze_ScriptDeclaresInGlobal(t *testing.T) {
	t.Parallel()
	_, global := analyze(t, `var console = {}; console.log(1)`, scope.Options{SourceType: scope.SourceScript})

	v := global.Lookup("console")
	require.NotNil(t, v)
	assert.Len(t, v.Defs, 1)
	assert.Len(t, v.References, 1)
	assert.Empty(t, global.Through)
}

func TestAnalyze_AmbientGlobals(t *testing.T) {
	t.Parallel()
	_, global := analyze(t, `console.log(1); console.warn(2)`, scope.Options{Globals: []string{"console"}})

	v := global.Lookup("console")
	require.NotNil(t, v)
	assert.Empty(t, v.Defs)
	assert.Len(t, v.References, 2)
	assert.Empty(t, global.Through)
}

func TestAnalyze_VarHoistsToFunction(t *testing.T) {
	t.Parallel()
	_, global := analyze(t, `function f() { a; { var a = 1 } }`, scope.Options{})

	fn := firstChild(t, global, 2)
	require.Equal(t, scope.KindFunction, fn.Kind)
	v := fn.Lookup("a")
	require.NotNil(t, v)
	assert.Len(t, v.References, 1)
	assert.Empty(t, global.Through)
}

func TestAnalyze_FunctionLocalShadowing(t *testing.T) {
	t.Parallel()
	_, global := analyze(t, `function f(console) { console.log(1) } console.log(2)`, scope.Options{})

	assert.Equal(t, []string{"console"}, throughNames(global))

	fn := firstChild(t, global, 2)
	v := fn.Lookup("console")
	require.NotNil(t, v)
	assert.Equal(t, scope.DefParameter, v.Defs[0].Kind)
	assert.Len(t, v.References, 1)
}

func TestAnalyze_Imports(t *testing.T) {
	t.Parallel()
	_, global := analyze(t, `
import logger, * as ns from "x"
import { a, b as c, "d-e" as d } from "y"
`, scope.Options{})

	module := firstChild(t, global, 1)
	assert.Equal(t, []string{"a", "c", "d", "logger", "ns"}, variableNames(module))
	assert.Equal(t, scope.DefImportBinding, module.Lookup("logger").Defs[0].Kind)
}

func TestAnalyze_Patterns(t *testing.T) {
	t.Parallel()
	_, global := analyze(t, `
const { a, b: [c, , e = fallback], ...d } = obj
try {} catch ({ message }) { message }
const g = (x, { y } = {}, ...z) => x + y + z.length
`, scope.Options{})

	module := firstChild(t, global, 1)
	assert.Equal(t, []string{"a", "c", "d", "e", "g"}, variableNames(module))
	assert.Equal(t, []string{"fallback", "obj"}, throughNames(global))

	var catchScope, arrow *scope.Scope
	for _, s := range module.Children {
		switch s.Kind {
		case scope.KindCatch:
			catchScope = s
		case scope.KindFunction:
			arrow = s
		}
	}
	require.NotNil(t, catchScope)
	require.NotNil(t, arrow)
	assert.Equal(t, []string{"message"}, variableNames(catchScope))
	assert.Equal(t, []string{"x", "y", "z"}, variableNames(arrow))
}

func TestAnalyze_NamedExpressionsAndClasses(t *testing.T) {
	t.Parallel()
	_, global := analyze(t, `
const f = function inner() { return inner }
class A extends Base { m(p) { return A } }
const B = class Named {}
`, scope.Options{})

	module := firstChild(t, global, 1)
	assert.Equal(t, []string{"A", "B", "f"}, variableNames(module))
	assert.Nil(t, module.Lookup("inner"))
	assert.Nil(t, module.Lookup("Named"))
	assert.Equal(t, []string{"Base"}, throughNames(global))
}

func TestAnalyze_Exports(t *testing.T) {
	t.Parallel()
	_, global := analyze(t, `
const a = 1
export { a as b }
export { c } from "m"
`, scope.Options{})

	module := firstChild(t, global, 1)
	require.NotNil(t, module.Lookup("a"))
	assert.Len(t, module.Lookup("a").References, 1)
	assert.Empty(t, global.Through)
}

func TestAnalyze_ForOf(t *testing.T) {
	t.Parallel()
	_, global := analyze(t, `for (const item of items) { item }`, scope.Options{})

	forScope := firstChild(t, global, 2)
	require.Equal(t, scope.KindFor, forScope.Kind)
	v := forScope.Lookup("item")
	require.NotNil(t, v)
	assert.Len(t, v.References, 1)
	assert.Equal(t, []string{"items"}, throughNames(global))
}

func TestKindString(t *testing.T) {
	t.Parallel()
	tests := map[scope.Kind]string{
		scope.KindGlobal:   "global",
		scope.KindModule:   "module",
		scope.KindFunction: "function",
		scope.KindSwitch:   "switch",
		scope.Kind(99):     "unknown",
	}
	for kind, want := range tests {
		assert.Equal(t, want, kind.String())
	}
}
