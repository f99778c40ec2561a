// Command preferlogger reports console calls in JavaScript files and
// suggests rewriting them to a project logger.
//
// Usage:
//
//	preferlogger [flags] [paths]
//
// Examples:
//
//	# Lint the current directory using .preferlogger.yaml
//	preferlogger
//
//	# Lint src with an explicit logger target
//	preferlogger --logger utils/logger.js --base src src
//
//	# Apply the suggested rewrites and imports
//	preferlogger --fix ./src
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Wladim1r/preferlogger/internal/analyzer"
	"github.com/Wladim1r/preferlogger/internal/config"
)

// Exit codes.
const (
	exitFindings = 1
	exitConfig   = 2
)

// exitError carries the process exit code out of RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

type options struct {
	configPath  string
	logger      string
	loggerName  string
	base        string
	importStyle string
	sourceType  string
	exclude     []string
	jobs        int
	fix         bool
	verbose     bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		code := exitFindings
		var ee *exitError
		if errors.As(err, &ee) {
			code = ee.code
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(code)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "preferlogger [flags] [paths]",
		Short:         "Rewrite console calls to a project logger",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, &opts, stdout, stderr)
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		fmt.Fprintln(c.ErrOrStderr(), err)
		return &exitError{code: exitConfig, err: err}
	})

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", config.DefaultPath, "path to YAML or TOML configuration file")
	flags.StringVar(&opts.logger, "logger", "", "logger import target, a module name or a path relative to --base")
	flags.StringVar(&opts.loggerName, "logger-name", "", "identifier the logger is imported as")
	flags.StringVar(&opts.base, "base", "", "directory path-style logger targets are relative to")
	flags.StringVar(&opts.importStyle, "import-style", "", "inserted import statement: esm or commonjs")
	flags.StringVar(&opts.sourceType, "source-type", "", "scope model of analyzed files: module or script")
	flags.StringSliceVar(&opts.exclude, "exclude", nil, "glob patterns of file and directory names to skip")
	flags.IntVarP(&opts.jobs, "jobs", "j", 0, "files analyzed in parallel (default GOMAXPROCS)")
	flags.BoolVar(&opts.fix, "fix", false, "apply suggested fixes in place")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options, stdout, stderr io.Writer) error {
	logger := log.NewWithOptions(stderr, log.Options{Prefix: "preferlogger"})
	if opts.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		logger.Error("cannot load configuration", "err", err)
		return &exitError{code: exitConfig, err: err}
	}
	cfg.Merge(&config.Config{
		Logger:      opts.logger,
		LoggerName:  opts.loggerName,
		Base:        opts.base,
		ImportStyle: opts.importStyle,
		SourceType:  opts.sourceType,
		Exclude:     opts.exclude,
	})

	a, err := analyzer.New(cfg, analyzer.WithLogger(logger), analyzer.WithJobs(opts.jobs))
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		return &exitError{code: exitConfig, err: err}
	}

	results, err := a.Run(cmd.Context(), args)
	if err != nil {
		logger.Error("analysis failed", "err", err)
		return &exitError{code: exitFindings, err: err}
	}

	findings := analyzer.Report(stdout, a.FileSet(), results)
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	if opts.fix && findings > 0 {
		fixed, changed, err := a.ApplyFixes(results)
		if err != nil {
			logger.Error("cannot apply fixes", "err", err)
			return &exitError{code: exitFindings, err: err}
		}
		findings = remaining(fixed)
		logger.Info("applied fixes", "files", changed, "remaining", findings)
	}

	if findings > 0 || failed > 0 {
		return &exitError{code: exitFindings}
	}
	return nil
}

// remaining counts the findings left in the files after fixing.
func remaining(results []analyzer.Result) int {
	n := 0
	for _, res := range results {
		n += len(res.Diagnostics)
	}
	return n
}
