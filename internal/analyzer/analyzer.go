// Package analyzer drives the prefer-logger rule over JavaScript files.
//
// It collects files from the given paths, parses each one, builds its scope
// tree and runs the rule with fresh per-file state. Files are analyzed in
// parallel; results come back in path order.
package analyzer

import (
	"context"
	"fmt"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/analysis"

	"github.com/Wladim1r/preferlogger/internal/config"
	"github.com/Wladim1r/preferlogger/internal/jsast"
	"github.com/Wladim1r/preferlogger/internal/rules"
	"github.com/Wladim1r/preferlogger/internal/scope"
)

// Analyzer runs the rule with one configuration.
type Analyzer struct {
	cfg       *config.Config
	rule      *rules.PreferLogger
	scopeOpts scope.Options
	fset      *token.FileSet
	logger    *log.Logger
	jobs      int
	workDir   string
	files     *fileFilter
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for progress and file errors.
func WithLogger(l *log.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithJobs limits the number of files analyzed at once. Values below 1 mean
// GOMAXPROCS.
func WithJobs(n int) Option {
	return func(a *Analyzer) { a.jobs = n }
}

// WithWorkDir sets the analysis root. Relative paths and the configured
// base directory are resolved against it.
func WithWorkDir(dir string) Option {
	return func(a *Analyzer) { a.workDir = dir }
}

// Result holds the outcome for one file.
type Result struct {
	// Path is the file name as reported in diagnostics.
	Path string
	// File is the parsed file, nil when Err is set.
	File        *jsast.File
	Diagnostics []analysis.Diagnostic
	// Err is a read or parse failure. Other files are unaffected by it.
	Err error
}

// New validates cfg and builds an Analyzer. A nil cfg uses DefaultConfig,
// which fails validation because no logger target is set.
func New(cfg *config.Config, opts ...Option) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Analyzer{
		cfg:       cfg,
		scopeOpts: cfg.ScopeOptions(),
		fset:      token.NewFileSet(),
		logger:    log.NewWithOptions(os.Stderr, log.Options{Prefix: "preferlogger"}),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.jobs < 1 {
		a.jobs = runtime.GOMAXPROCS(0)
	}
	if a.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("preferlogger: resolving working directory: %w", err)
		}
		a.workDir = wd
	}

	rule, err := rules.New(cfg.RuleOptions(a.workDir))
	if err != nil {
		return nil, err
	}
	a.rule = rule

	files, err := newFileFilter(cfg.Extensions, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	a.files = files

	return a, nil
}

// FileSet returns the file set positions in results refer to.
func (a *Analyzer) FileSet() *token.FileSet { return a.fset }

// Run analyzes every file found under paths. File-level failures are
// recorded on the results; the returned error is only set when ctx is
// cancelled or a path cannot be walked.
func (a *Analyzer) Run(ctx context.Context, paths []string) ([]Result, error) {
	files, err := a.Files(paths)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("collected files", "count", len(files), "jobs", a.jobs)

	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = a.analyzeFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *Analyzer) analyzeFile(path string) Result {
	src, err := os.ReadFile(a.abs(path))
	if err != nil {
		err = fmt.Errorf("preferlogger: reading %s: %w", path, err)
		a.logger.Error("cannot read file", "file", path, "err", err)
		return Result{Path: path, Err: err}
	}

	res, err := a.AnalyzeSource(path, src)
	if err != nil {
		a.logger.Error("cannot parse file", "file", path, "err", err)
		return res
	}
	a.logger.Debug("analyzed", "file", path, "findings", len(res.Diagnostics))
	return res
}

// AnalyzeSource runs the rule over src as the file at path.
func (a *Analyzer) AnalyzeSource(path string, src []byte) (Result, error) {
	f, err := jsast.Parse(a.fset, path, src)
	if err != nil {
		return Result{Path: path, Err: err}, err
	}

	unit := rules.Unit{File: f, Scope: scope.Analyze(f, a.scopeOpts)}
	return Result{
		Path:        path,
		File:        f,
		Diagnostics: a.rule.Check(unit),
	}, nil
}

func (a *Analyzer) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.workDir, path)
}

// Report prints every finding and returns how many were printed.
//
// Example:
//
//	preferlogger: FIX src/app.js:12:3: Prefer to use logger
func Report(w io.Writer, fset *token.FileSet, results []Result) int {
	n := 0
	for _, res := range results {
		for _, d := range res.Diagnostics {
			reportDiagnostic(w, fset, d)
			n++
		}
	}
	return n
}

// reportDiagnostic prints a concise summary (file, line, column, status).
func reportDiagnostic(w io.Writer, fset *token.FileSet, d analysis.Diagnostic) {
	pos := fset.Position(d.Pos)
	status := "ERROR"
	if len(d.SuggestedFixes) > 0 {
		status = "FIX"
	}

	fmt.Fprintf(
		w,
		"preferlogger: %s %s:%d:%d: %s\n",
		status,
		pos.Filename,
		pos.Line,
		pos.Column,
		d.Message,
	)
}
