package infer

import (
	"context"
	"path"
	"strings"
	"sync"

	"github.com/codelens-dev/codelens/internal/lang"
)

// localBackend resolves names using only the extracted structure of the
// current selection. It needs no external tooling, so it is always
// available.
type localBackend struct {
	// Resolution walks shared index state; callers run concurrently but
	// backend access stays serialized.
	mu sync.Mutex
}

// NewLocalBackend creates the in-process resolution backend.
func NewLocalBackend() Backend {
	return &localBackend{}
}

func (b *localBackend) Name() string { return "local" }

func (b *localBackend) Available() bool { return true }

// Resolve qualifies base classes through the file's imports, maps imports
// to selection modules, and qualifies annotated types where they name a
// known class.
func (b *localBackend) Resolve(ctx context.Context, file *lang.FileExtraction, idx *Index) (*FileResolution, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &FileResolution{
		Bases: make(map[string][]string),
		Types: make(map[string]string),
	}

	for _, imp := range file.Imports {
		target := moduleTarget(imp.Module)
		internal := idx.HasModule(target)
		if !internal {
			target = imp.Module
		}
		if target == "" || target == file.Module {
			continue
		}
		res.Imports = append(res.Imports, ResolvedImport{
			From:     file.Module,
			To:       target,
			Internal: internal,
		})
	}

	for i := range file.Entities {
		entity := &file.Entities[i]

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if entity.Kind == lang.EntityClass && len(entity.Bases) > 0 {
			resolved := make([]string, len(entity.Bases))
			changed := false
			for j, base := range entity.Bases {
				resolved[j] = b.resolveName(base, file, idx)
				if resolved[j] != base {
					changed = true
				}
			}
			if changed {
				res.Bases[entity.QualifiedName] = resolved
			}
		}

		if entity.ReturnType != "" {
			if qualified := b.resolveName(entity.ReturnType, file, idx); qualified != entity.ReturnType && idx.HasClass(qualified) {
				res.Types[entity.QualifiedName] = qualified
			}
		}
	}

	return res, nil
}

// resolveName maps a name as written to a qualified name when the
// selection contains a matching class. Unresolvable names come back
// unchanged.
func (b *localBackend) resolveName(name string, file *lang.FileExtraction, idx *Index) string {
	if idx.HasClass(name) {
		return name
	}

	// Dotted name: the head may be a module alias.
	if head, rest, ok := strings.Cut(name, "."); ok {
		for _, imp := range file.Imports {
			if imp.Kind != lang.ImportModule {
				continue
			}
			alias := imp.Alias
			if alias == "" {
				alias = moduleTarget(imp.Module)
			}
			if alias != head {
				continue
			}
			target := moduleTarget(imp.Module)
			if candidate := target + "." + rest; idx.HasClass(candidate) {
				return candidate
			}
			return imp.Module + "." + rest
		}
		return name
	}

	// Bare name declared in the same module.
	if candidate := file.Module + "." + name; idx.HasClass(candidate) {
		return candidate
	}

	// Bare name brought in by a symbol import.
	for _, imp := range file.Imports {
		if imp.Kind != lang.ImportSymbol {
			continue
		}
		bound := imp.Symbol
		if imp.Alias != "" {
			bound = imp.Alias
		}
		if bound != name {
			continue
		}
		target := moduleTarget(imp.Module)
		if candidate := target + "." + imp.Symbol; idx.HasClass(candidate) {
			return candidate
		}
		return imp.Module + "." + imp.Symbol
	}

	return name
}

// moduleTarget normalizes an import spec to a bare module name: relative
// path prefixes and directories are dropped, so "./models" and
// ".models" both map to "models".
func moduleTarget(spec string) string {
	spec = strings.TrimLeft(spec, ".")
	spec = strings.TrimPrefix(spec, "/")
	if spec == "" {
		return ""
	}
	if strings.Contains(spec, "/") {
		return path.Base(spec)
	}
	return spec
}
