package infer

import "github.com/codelens-dev/codelens/internal/lang"

// Index is the project-wide symbol table the backends resolve against.
type Index struct {
	modules map[string]bool
	classes map[string]bool
}

// BuildIndex collects module names and class qualified names from the
// basic extraction of the whole selection.
func BuildIndex(files []*lang.FileExtraction) *Index {
	idx := &Index{
		modules: make(map[string]bool),
		classes: make(map[string]bool),
	}
	for _, file := range files {
		idx.modules[file.Module] = true
		for i := range file.Entities {
			if file.Entities[i].Kind == lang.EntityClass {
				idx.classes[file.Entities[i].QualifiedName] = true
			}
		}
	}
	return idx
}

// HasModule reports whether a module of that name is in the selection.
func (i *Index) HasModule(name string) bool { return i.modules[name] }

// HasClass reports whether a class with that qualified name is in the
// selection.
func (i *Index) HasClass(qualified string) bool { return i.classes[qualified] }
