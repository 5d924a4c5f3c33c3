package render

import (
	"encoding/json"

	"github.com/codelens-dev/codelens/internal/analyzer"
	"github.com/codelens-dev/codelens/internal/depgraph"
	"github.com/codelens-dev/codelens/internal/lang"
)

// jsonDocument is the wire contract: top-level keys modules, dependencies,
// and errors, all present even when empty.
type jsonDocument struct {
	Modules      []jsonModule         `json:"modules"`
	Dependencies []depgraph.Edge      `json:"dependencies"`
	Errors       []analyzer.ErrorNote `json:"errors"`
}

type jsonModule struct {
	Name      string           `json:"name"`
	Path      string           `json:"path"`
	Language  string           `json:"language"`
	CharCount int              `json:"char_count"`
	Imports   []lang.ImportRef `json:"imports"`
	Entities  []lang.Entity    `json:"entities"`
}

// JSON renders a result as the canonical JSON document. Output is stable
// for a given result, so rendering twice yields identical bytes.
func JSON(result *analyzer.Result) ([]byte, error) {
	doc := jsonDocument{
		Modules:      []jsonModule{},
		Dependencies: []depgraph.Edge{},
		Errors:       []analyzer.ErrorNote{},
	}

	for _, file := range result.Files {
		module := jsonModule{
			Name:      file.Module,
			Path:      file.Path,
			Language:  file.Language,
			CharCount: file.CharCount,
			Imports:   file.Imports,
			Entities:  file.Entities,
		}
		if module.Imports == nil {
			module.Imports = []lang.ImportRef{}
		}
		if module.Entities == nil {
			module.Entities = []lang.Entity{}
		}
		doc.Modules = append(doc.Modules, module)
	}

	if result.Graph != nil {
		doc.Dependencies = append(doc.Dependencies, result.Graph.Edges()...)
	}
	doc.Errors = append(doc.Errors, result.Errors...)

	return json.Marshal(doc)
}
