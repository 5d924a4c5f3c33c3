package lang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the Registry:
// - Resolve plugins by extension, case-insensitively
// - Report unsupported extensions
// - List registered languages sorted
// - List extensions per language
// - Later registrations for the same extension win
// - Derive module names from file stems

func TestRegistry_Resolve(t *testing.T) {
	t.Parallel()

	registry := NewDefaultRegistry()

	cases := map[string]string{
		"src/app.py":     "python",
		"src/widget.ts":  "typescript",
		"src/Widget.TSX": "typescript",
		"src/Main.java":  "java",
		"store/store.go": "go",
	}
	for path, language := range cases {
		plugin, ok := registry.Resolve(path)
		require.True(t, ok, "expected plugin for %s", path)
		assert.Equal(t, language, plugin.Language())
	}

	_, ok := registry.Resolve("README.md")
	assert.False(t, ok)
}

func TestRegistry_Languages(t *testing.T) {
	t.Parallel()

	registry := NewDefaultRegistry()
	assert.Equal(t, []string{"go", "java", "python", "typescript"}, registry.Languages())
	assert.Equal(t, []string{".ts", ".tsx"}, registry.Extensions("typescript"))
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(NewPythonPlugin())
	registry.Register(&stubPlugin{language: "custom", exts: []string{".py"}})

	plugin, ok := registry.Resolve("app.py")
	require.True(t, ok)
	assert.Equal(t, "custom", plugin.Language())
}

func TestModuleName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "app", ModuleName("src/app.py"))
	assert.Equal(t, "widget", ModuleName("widget.tsx"))
	assert.Equal(t, "store", ModuleName("deep/nested/store.go"))
}

type stubPlugin struct {
	language string
	exts     []string
}

func (s *stubPlugin) Language() string      { return s.language }
func (s *stubPlugin) Extensions() []string  { return s.exts }
func (s *stubPlugin) ParseFile(ctx context.Context, path string, source []byte) (*FileExtraction, error) {
	return &FileExtraction{Language: s.language, Path: path, Module: ModuleName(path)}, nil
}
