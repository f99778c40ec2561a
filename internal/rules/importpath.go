package rules

import (
	"path/filepath"
	"strings"
)

// IsModuleTarget reports whether target is a bare module name, i.e. it has
// no path separator.
func IsModuleTarget(target string) bool {
	return !strings.ContainsRune(target, '/') && !strings.ContainsRune(target, filepath.Separator)
}

// ImportSpecifier returns the specifier that imports target from the file at
// path. Bare module names are returned unchanged. Path targets are resolved
// against base and made relative to the directory containing path, using
// forward slashes and a "./" or "../" prefix as import specifiers require.
func ImportSpecifier(target, base, path string) string {
	if IsModuleTarget(target) {
		return target
	}

	rel, err := filepath.Rel(filepath.Dir(path), filepath.Join(base, target))
	if err != nil {
		return filepath.ToSlash(target)
	}

	rel = filepath.ToSlash(rel)
	if rel != ".." && !strings.HasPrefix(rel, "../") {
		rel = "./" + rel
	}
	return rel
}
