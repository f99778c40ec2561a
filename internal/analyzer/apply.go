package analyzer

import (
	"bytes"
	"fmt"
	"os"

	"github.com/Wladim1r/preferlogger/internal/fix"
)

// maxFixPasses bounds how often a file is re-analyzed while fixing.
const maxFixPasses = 10

// FixedSource returns the content of res with every suggested fix applied.
// Conflicting edits are dropped and logged.
func (a *Analyzer) FixedSource(res Result) ([]byte, error) {
	if res.File == nil {
		return nil, fmt.Errorf("preferlogger: %s was not analyzed", res.Path)
	}
	out, skipped, err := fix.Apply(res.File.TokenFile, res.File.Source, fix.Edits(res.Diagnostics))
	if err != nil {
		return nil, fmt.Errorf("preferlogger: fixing %s: %w", res.Path, err)
	}
	for _, e := range skipped {
		pos := a.fset.Position(e.Pos)
		a.logger.Debug("deferred overlapping fix", "file", res.Path, "line", pos.Line, "column", pos.Column)
	}
	return out, nil
}

// Fix applies the fixes of res and re-analyzes the output until no fixable
// finding is left or maxFixPasses is reached. Fixes skipped for overlapping
// an earlier one, as with nested console calls, are picked up by the next
// pass. It returns the final source and the result describing it.
func (a *Analyzer) Fix(res Result) ([]byte, Result, error) {
	if res.File == nil {
		return nil, res, fmt.Errorf("preferlogger: %s was not analyzed", res.Path)
	}

	src := res.File.Source
	for pass := 0; pass < maxFixPasses && fixable(res) > 0; pass++ {
		out, err := a.FixedSource(res)
		if err != nil {
			return nil, res, err
		}
		if bytes.Equal(out, src) {
			break
		}
		next, err := a.AnalyzeSource(res.Path, out)
		if err != nil {
			return nil, res, fmt.Errorf("preferlogger: fixes broke %s: %w", res.Path, err)
		}
		src, res = out, next
	}
	if n := fixable(res); n > 0 {
		a.logger.Warn("fixes did not converge", "file", res.Path, "passes", maxFixPasses, "remaining", n)
	}
	return src, res, nil
}

func fixable(res Result) int {
	n := 0
	for _, d := range res.Diagnostics {
		if len(d.SuggestedFixes) > 0 {
			n++
		}
	}
	return n
}

// ApplyFixes rewrites every file that has fixable findings. It returns the
// results describing the files after fixing, whose diagnostics are the
// findings still present, and the number of files changed.
func (a *Analyzer) ApplyFixes(results []Result) ([]Result, int, error) {
	after := make([]Result, len(results))
	copy(after, results)

	changed := 0
	for i, res := range results {
		if res.Err != nil || fixable(res) == 0 {
			continue
		}
		out, fixed, err := a.Fix(res)
		if err != nil {
			return after, changed, err
		}
		after[i] = fixed
		if bytes.Equal(out, res.File.Source) {
			continue
		}

		path := a.abs(res.Path)
		info, err := os.Stat(path)
		if err != nil {
			return after, changed, fmt.Errorf("preferlogger: %w", err)
		}
		if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
			return after, changed, fmt.Errorf("preferlogger: writing %s: %w", res.Path, err)
		}
		a.logger.Info("fixed", "file", res.Path)
		changed++
	}
	return after, changed, nil
}
