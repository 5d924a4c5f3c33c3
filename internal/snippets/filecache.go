package snippets

import (
	"fmt"
	"os"
	"strings"

	"github.com/maypok86/otter"
)

// fileCache caches file contents, split into lines, so repeated snippet
// retrievals from the same file hit disk once.
type fileCache struct {
	cache otter.Cache[string, []string]
}

func newFileCache(capacity int) (*fileCache, error) {
	if capacity <= 0 {
		capacity = 256
	}

	cache, err := otter.MustBuilder[string, []string](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build file cache: %w", err)
	}
	return &fileCache{cache: cache}, nil
}

func (c *fileCache) close() {
	c.cache.Close()
}

// readRange returns the 1-indexed inclusive line range of a file.
func (c *fileCache) readRange(path string, startLine, endLine int) (string, error) {
	lines, ok := c.cache.Get(path)
	if !ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		lines = strings.Split(string(data), "\n")
		c.cache.Set(path, lines)
	}

	if startLine < 1 {
		startLine = 1
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}
	if startLine > endLine {
		return "", fmt.Errorf("invalid line range %d-%d for %s", startLine, endLine, path)
	}

	return strings.Join(lines[startLine-1:endLine], "\n"), nil
}
