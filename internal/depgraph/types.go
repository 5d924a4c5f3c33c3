package depgraph

// NodeKind mirrors the entity kinds plus the module nodes that anchor
// import edges.
type NodeKind string

const (
	NodeModule   NodeKind = "module"
	NodeClass    NodeKind = "class"
	NodeFunction NodeKind = "function"
	NodeMethod   NodeKind = "method"
)

// Node represents one vertex in the dependency graph. External marks
// placeholder nodes for targets outside the analyzed selection.
type Node struct {
	ID       string   `json:"id"`
	Kind     NodeKind `json:"kind"`
	File     string   `json:"file,omitempty"`
	External bool     `json:"external,omitempty"`
}

// EdgeKind represents the type of relationship between nodes.
type EdgeKind string

const (
	EdgeImports    EdgeKind = "imports"    // module imports module
	EdgeInherits   EdgeKind = "inherits"   // class inherits class
	EdgeReferences EdgeKind = "references" // entity references entity (decorators)
)

// Edge represents a relationship between two nodes.
type Edge struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Kind EdgeKind `json:"kind"`
}

// ImportEdge is a module-level import relation handed to the builder.
// To is a module name, either inside the selection or external.
type ImportEdge struct {
	From string
	To   string
}
