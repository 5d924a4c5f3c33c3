package lang

// EntityKind classifies an extracted code entity.
type EntityKind string

const (
	EntityModule   EntityKind = "module"
	EntityClass    EntityKind = "class"
	EntityFunction EntityKind = "function"
	EntityMethod   EntityKind = "method"
)

// Param is one parameter of a function or method signature.
type Param struct {
	Name       string `json:"name"`
	Annotation string `json:"annotation,omitempty"`
}

// Entity is one analyzable unit recognized in a source file.
// Bases and InferredType stay empty until the extended pass fills them in.
type Entity struct {
	Kind          EntityKind `json:"kind"`
	Name          string     `json:"name"`
	QualifiedName string     `json:"qualified_name"` // dotted path, e.g. "models.User.save"
	File          string     `json:"file"`
	StartLine     int        `json:"start_line"` // 1-indexed
	EndLine       int        `json:"end_line"`
	Decorators    []string   `json:"decorators,omitempty"` // source order, outermost first
	Bases         []string   `json:"bases,omitempty"`      // classes only
	Params        []Param    `json:"params,omitempty"`     // functions/methods only
	ReturnType    string     `json:"return_type,omitempty"`
	Docstring     string     `json:"docstring,omitempty"` // first line only
	InferredType  string     `json:"inferred_type,omitempty"`
	Calls         []string   `json:"calls,omitempty"` // raw callee names seen in the body
}

// ImportKind distinguishes whole-module imports from symbol imports.
type ImportKind string

const (
	ImportModule ImportKind = "module-import"
	ImportSymbol ImportKind = "symbol-import"
)

// ImportRef is one raw import statement as written in the source.
// Target qualification happens later, in the extended pass.
type ImportRef struct {
	Kind   ImportKind `json:"kind"`
	Module string     `json:"module"`           // target module as written
	Symbol string     `json:"symbol,omitempty"` // for symbol imports
	Alias  string     `json:"alias,omitempty"`
	Line   int        `json:"line"`
}

// FileExtraction is the per-file output of a plugin's basic parse.
type FileExtraction struct {
	Language  string
	Path      string
	Module    string // module name, derived from the file stem
	Entities  []Entity
	Imports   []ImportRef
	CharCount int
}
