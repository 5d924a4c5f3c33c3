package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// FileDiscovery expands a selection of files and directories into the
// ordered list of code files to analyze.
type FileDiscovery struct {
	codePatterns   []compiledPattern
	ignorePatterns []compiledPattern
}

// NewFileDiscovery compiles the configured code and ignore patterns.
func NewFileDiscovery(codePatterns, ignorePatterns []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{}

	for _, pattern := range codePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid code pattern %q: %w", pattern, err)
		}
		fd.codePatterns = append(fd.codePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		fd.ignorePatterns = append(fd.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	return fd, nil
}

// Discover resolves each selection entry. Files are taken as-is when they
// pass the ignore rules; directories are walked recursively and filtered
// through the code patterns. The result is deduplicated and sorted so a
// given selection always yields the same file order.
func (fd *FileDiscovery) Discover(selection []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, entry := range selection {
		info, err := os.Stat(entry)
		if err != nil {
			return nil, fmt.Errorf("cannot read selection entry %s: %w", entry, err)
		}

		if !info.IsDir() {
			if !fd.shouldIgnore(filepath.ToSlash(filepath.Base(entry))) {
				add(entry)
			}
			continue
		}

		root := entry
		err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			relPath, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			relPath = filepath.ToSlash(relPath)

			if info.IsDir() {
				if path != root && fd.shouldIgnore(relPath) {
					return filepath.SkipDir
				}
				return nil
			}

			if fd.shouldIgnore(relPath) {
				return nil
			}

			if fd.matchesAnyPattern(relPath, fd.codePatterns) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// shouldIgnore checks if a path matches any ignore pattern.
func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	// Always ignore .codelens directory
	if strings.HasPrefix(relPath, ".codelens/") || relPath == ".codelens" {
		return true
	}

	if fd.matchesAnyPattern(relPath, fd.ignorePatterns) {
		return true
	}

	// Also check if this is a directory that would match with /** suffix
	// For example, "node_modules" should match pattern "node_modules/**"
	pathWithSuffix := relPath + "/**"
	return fd.matchesAnyPattern(pathWithSuffix, fd.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (fd *FileDiscovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// Special handling: if path is in root (no slash), also try matching
	// against patterns with **/ prefix removed. This makes "**/*.py" match
	// both "app.py" and "src/app.py" as users would expect.
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if simplifiedGlob, err := glob.Compile(simplified, '/'); err == nil {
					if simplifiedGlob.Match(path) {
						return true
					}
				}
			}
		}
	}

	return false
}
