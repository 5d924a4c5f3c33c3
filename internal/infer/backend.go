package infer

import (
	"context"

	"github.com/codelens-dev/codelens/internal/lang"
)

// Backend performs best-effort cross-file resolution on top of the basic
// extraction: qualifying base classes, import targets, and annotated types
// against the analyzed file set. Resolution never invents facts; anything
// a backend cannot determine stays as written.
type Backend interface {
	// Name identifies the backend in notes and logs.
	Name() string

	// Available reports whether the backend can run. Checked once per run.
	Available() bool

	// Resolve resolves one file against the project index. Implementations
	// must honor ctx cancellation; a timed-out file keeps its basic output.
	Resolve(ctx context.Context, file *lang.FileExtraction, idx *Index) (*FileResolution, error)
}

// FileResolution carries what the backend could determine for one file.
// Maps are keyed by entity qualified name.
type FileResolution struct {
	Bases   map[string][]string // resolved base class names
	Types   map[string]string   // inferred types for annotated bindings
	Imports []ResolvedImport    // module-level import relation
}

// ResolvedImport is one module-level import edge. Internal is true when the
// target module is part of the analyzed selection.
type ResolvedImport struct {
	From     string
	To       string
	Internal bool
}

// New returns the backend for the configured name, or nil when resolution
// is disabled ("none") or the name is unknown.
func New(name string) Backend {
	if name == "local" {
		return NewLocalBackend()
	}
	return nil
}
