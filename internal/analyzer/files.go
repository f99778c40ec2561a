package analyzer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/gobwas/glob"
)

type fileFilter struct {
	extensions []string
	exclude    []glob.Glob
}

func newFileFilter(extensions, exclude []string) (*fileFilter, error) {
	ff := &fileFilter{extensions: extensions}
	for _, p := range exclude {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("preferlogger: invalid exclude pattern %q: %w", p, err)
		}
		ff.exclude = append(ff.exclude, g)
	}
	return ff, nil
}

func (ff *fileFilter) excluded(name string) bool {
	for _, g := range ff.exclude {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (ff *fileFilter) wanted(name string) bool {
	return slices.Contains(ff.extensions, filepath.Ext(name)) && !ff.excluded(name)
}

// Files expands paths into the sorted list of files to analyze. Files named
// explicitly are always kept; directories are walked, skipping excluded
// entries and files with other extensions.
func (a *Analyzer) Files(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(a.abs(root))
		if err != nil {
			return nil, fmt.Errorf("preferlogger: %w", err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(a.abs(root), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := a.display(root, path)
			if err != nil {
				return err
			}
			if d.IsDir() {
				if rel != filepath.Clean(root) && a.files.excluded(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if a.files.wanted(d.Name()) {
				add(rel)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("preferlogger: walking %s: %w", root, err)
		}
	}

	slices.Sort(files)
	return files, nil
}

// display maps a walked absolute path back to the form the user gave root
// in.
func (a *Analyzer) display(root, path string) (string, error) {
	if filepath.IsAbs(root) {
		return path, nil
	}
	rel, err := filepath.Rel(a.workDir, path)
	if err != nil {
		return "", err
	}
	return rel, nil
}
