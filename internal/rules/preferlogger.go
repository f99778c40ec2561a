// Package rules implements the prefer-logger rule.
//
// The rule flags property accesses on the ambient console object, such as
// console.error("x"), and suggests rewriting each call to a configured
// logger, for example logger.error("x"). The first rewritable finding in a
// file also suggests inserting the import of that logger when nothing in
// the file binds the logger name yet.
//
// A file that declares its own console at the top of the scope chain is
// skipped entirely.
package rules

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/go/analysis"

	"github.com/Wladim1r/preferlogger/internal/jsast"
	"github.com/Wladim1r/preferlogger/internal/scope"
)

// Diagnostic category and fix messages.
const (
	Category = "prefer-logger"

	MessagePreferLogger = "Prefer to use logger"
	MessageImportLogger = "Should import logger"
)

// Import styles for the inserted import statement.
const (
	ImportESM      = "esm"
	ImportCommonJS = "commonjs"
)

// DefaultLoggerName is the identifier used when Options.LoggerName is empty.
const DefaultLoggerName = "logger"

// trackedName is the ambient logging object the rule looks for.
const trackedName = "console"

var (
	// ErrMissingLogger is returned by New when no logger target is configured.
	ErrMissingLogger = errors.New("logger target is required")
	// ErrImportStyle is returned by New for an unknown import style.
	ErrImportStyle = errors.New("unknown import style")
)

// Options configures the rule.
type Options struct {
	// Logger is the import target of the preferred logger: a bare module
	// name ("logger") or a path relative to Base ("utils/logger.js").
	Logger string
	// LoggerName is the identifier the logger is imported as and called on.
	LoggerName string
	// Base is the directory path-style targets are relative to. Relative
	// values are joined to WorkDir.
	Base string
	// WorkDir is the analysis root. Empty means the process working
	// directory.
	WorkDir string
	// ImportStyle is ImportESM (default) or ImportCommonJS.
	ImportStyle string
}

// PreferLogger is a configured prefer-logger rule. It holds no per-file
// state and may be used from several goroutines at once.
type PreferLogger struct {
	logger      string
	loggerName  string
	base        string
	workDir     string
	importStyle string
	moduleStyle bool
}

// Unit is one file handed to Check.
type Unit struct {
	File *jsast.File
	// Scope is the global scope of File.
	Scope *scope.Scope
}

// New validates opts and builds the rule.
func New(opts Options) (*PreferLogger, error) {
	if opts.Logger == "" {
		return nil, fmt.Errorf("preferlogger: %w", ErrMissingLogger)
	}

	r := &PreferLogger{
		logger:      opts.Logger,
		loggerName:  opts.LoggerName,
		workDir:     opts.WorkDir,
		importStyle: opts.ImportStyle,
		moduleStyle: IsModuleTarget(opts.Logger),
	}
	if r.loggerName == "" {
		r.loggerName = DefaultLoggerName
	}
	switch r.importStyle {
	case "":
		r.importStyle = ImportESM
	case ImportESM, ImportCommonJS:
	default:
		return nil, fmt.Errorf("preferlogger: %w %q", ErrImportStyle, opts.ImportStyle)
	}

	if r.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("preferlogger: resolving working directory: %w", err)
		}
		r.workDir = wd
	}
	r.base = opts.Base
	if !filepath.IsAbs(r.base) {
		r.base = filepath.Join(r.workDir, r.base)
	}

	return r, nil
}

// LoggerName returns the identifier rewritten calls use.
func (r *PreferLogger) LoggerName() string { return r.loggerName }

// pass is the state of one Check call.
type pass struct {
	rule *PreferLogger
	unit Unit
	// importSuggested is set once a finding carries the import fix.
	importSuggested bool
}

// Check runs the rule over one file and returns its findings in source
// order.
func (r *PreferLogger) Check(u Unit) []analysis.Diagnostic {
	binding := scope.Resolve(u.Scope, trackedName)
	if isShadowed(binding) {
		return nil
	}

	p := &pass{rule: r, unit: u}

	var diags []analysis.Diagnostic
	for _, ref := range candidateReferences(u.Scope, binding) {
		if !isQualifyingAccess(u.File, ref) {
			continue
		}
		diags = append(diags, p.report(ref))
	}
	return diags
}

// importSpecifier is the module specifier the import fix uses for path.
func (r *PreferLogger) importSpecifier(path string) string {
	if r.moduleStyle {
		return r.logger
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.workDir, path)
	}
	return ImportSpecifier(r.logger, r.base, path)
}
