package lang

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
)

// Plugin is the capability set a language must implement. The engine never
// branches on a concrete language identifier outside the Registry.
type Plugin interface {
	// Language returns the plugin's language identifier (e.g. "python").
	Language() string

	// Extensions returns the file extensions this plugin handles, with
	// leading dot (e.g. []string{".py"}).
	Extensions() []string

	// ParseFile parses source into the file's structural extraction.
	// Bases and inferred types are not resolved at this tier.
	ParseFile(ctx context.Context, path string, source []byte) (*FileExtraction, error)
}

// Registry maps file extensions to registered plugins.
type Registry struct {
	byExt map[string]Plugin
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Plugin)}
}

// NewDefaultRegistry creates a registry with all built-in plugins registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewPythonPlugin())
	r.Register(NewTypeScriptPlugin())
	r.Register(NewJavaPlugin())
	r.Register(NewGoPlugin())
	return r
}

// Register registers a plugin for all of its extensions.
// A later registration for the same extension wins.
func (r *Registry) Register(p Plugin) {
	for _, ext := range p.Extensions() {
		r.byExt[strings.ToLower(ext)] = p
	}
}

// Resolve returns the plugin responsible for the given file path.
func (r *Registry) Resolve(path string) (Plugin, bool) {
	p, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return p, ok
}

// Languages returns the sorted set of registered language identifiers.
func (r *Registry) Languages() []string {
	seen := make(map[string]bool)
	var langs []string
	for _, p := range r.byExt {
		if !seen[p.Language()] {
			seen[p.Language()] = true
			langs = append(langs, p.Language())
		}
	}
	sort.Strings(langs)
	return langs
}

// Extensions returns the sorted extensions handled by a registered language.
func (r *Registry) Extensions(language string) []string {
	var exts []string
	for ext, p := range r.byExt {
		if p.Language() == language {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}

// ModuleName derives the module name for a file path (the file stem).
func ModuleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
