package depgraph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"

	"github.com/codelens-dev/codelens/internal/lang"
)

// Graph is the built dependency graph. Nodes and edges keep insertion order
// so renderers produce stable output.
type Graph struct {
	dag graph.Graph[string, *Node]

	nodes []*Node
	edges []Edge

	// Warnings accumulate non-fatal findings, currently inheritance cycles.
	Warnings []string
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns all edges in insertion order, deduplicated by
// (from, to, kind).
func (g *Graph) Edges() []Edge { return g.edges }

// EdgesOfKind returns the edges of one kind, preserving order.
func (g *Graph) EdgesOfKind(kind EdgeKind) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	v, err := g.dag.Vertex(id)
	if err != nil {
		return nil, false
	}
	return v, true
}

// builder accumulates nodes and edges before cycle analysis.
type builder struct {
	g         *Graph
	seenNodes map[string]bool
	seenEdges map[Edge]bool

	// classByName maps bare class names to their qualified IDs so a raw
	// base name can resolve across modules when it is unambiguous.
	classByName map[string][]string
}

// Build constructs the dependency graph from extracted files and the
// module-level import relation. Inheritance edges come from each class's
// base list; unresolvable targets become external placeholder nodes.
func Build(files []*lang.FileExtraction, imports []ImportEdge) *Graph {
	b := &builder{
		g: &Graph{
			dag: graph.New(func(n *Node) string { return n.ID }, graph.Directed()),
		},
		seenNodes:   make(map[string]bool),
		seenEdges:   make(map[Edge]bool),
		classByName: make(map[string][]string),
	}

	for _, file := range files {
		for i := range file.Entities {
			entity := &file.Entities[i]
			b.addNode(&Node{
				ID:   entity.QualifiedName,
				Kind: nodeKind(entity.Kind),
				File: file.Path,
			})
			if entity.Kind == lang.EntityClass {
				b.classByName[entity.Name] = append(b.classByName[entity.Name], entity.QualifiedName)
			}
		}
	}

	for _, imp := range imports {
		if imp.From == imp.To {
			// Self-imports carry no structure.
			continue
		}
		b.ensureNode(imp.To, NodeModule)
		b.addEdge(Edge{From: imp.From, To: imp.To, Kind: EdgeImports})
	}

	for _, file := range files {
		for i := range file.Entities {
			entity := &file.Entities[i]
			if entity.Kind == lang.EntityClass {
				for _, base := range entity.Bases {
					target := b.resolveTarget(base, file.Module)
					b.ensureNode(target, NodeClass)
					b.addEdge(Edge{From: entity.QualifiedName, To: target, Kind: EdgeInherits})
				}
			}
			// Decorator and call references are recorded only when the
			// target is a node inside the selection.
			for _, dec := range entity.Decorators {
				target := b.resolveTarget(dec, file.Module)
				if b.seenNodes[target] && target != entity.QualifiedName {
					b.addEdge(Edge{From: entity.QualifiedName, To: target, Kind: EdgeReferences})
				}
			}
			for _, call := range entity.Calls {
				target := b.resolveCall(call, entity.QualifiedName, file.Module)
				if target != "" && target != entity.QualifiedName {
					b.addEdge(Edge{From: entity.QualifiedName, To: target, Kind: EdgeReferences})
				}
			}
		}
	}

	b.g.Warnings = append(b.g.Warnings, b.inheritanceCycles()...)

	return b.g
}

func nodeKind(kind lang.EntityKind) NodeKind {
	switch kind {
	case lang.EntityModule:
		return NodeModule
	case lang.EntityClass:
		return NodeClass
	case lang.EntityMethod:
		return NodeMethod
	default:
		return NodeFunction
	}
}

func (b *builder) addNode(node *Node) {
	if b.seenNodes[node.ID] {
		return
	}
	b.seenNodes[node.ID] = true
	b.g.nodes = append(b.g.nodes, node)
	_ = b.g.dag.AddVertex(node)
}

// ensureNode adds an external placeholder when the target is not part of
// the analyzed selection.
func (b *builder) ensureNode(id string, kind NodeKind) {
	if b.seenNodes[id] {
		return
	}
	b.addNode(&Node{ID: id, Kind: kind, External: true})
}

func (b *builder) addEdge(edge Edge) {
	if edge.From == edge.To || b.seenEdges[edge] {
		return
	}
	b.seenEdges[edge] = true
	b.g.edges = append(b.g.edges, edge)
	_ = b.g.dag.AddEdge(edge.From, edge.To)
}

// resolveTarget maps a raw name to a node ID: an exact node match wins,
// then a module-local qualification, then an unambiguous bare class name
// anywhere in the selection. Otherwise the raw name stands as an external
// target.
func (b *builder) resolveTarget(name, module string) string {
	if b.seenNodes[name] {
		return name
	}
	if local := module + "." + name; b.seenNodes[local] {
		return local
	}
	if !strings.Contains(name, ".") {
		if ids := b.classByName[name]; len(ids) == 1 {
			return ids[0]
		}
	}
	return name
}

// resolveCall maps a raw callee name to a node inside the selection, or ""
// when the call is not statically determinable. A "self." prefix resolves
// against the caller's enclosing class; bare names resolve module-locally.
func (b *builder) resolveCall(call, caller, module string) string {
	if method, ok := strings.CutPrefix(call, "self."); ok {
		dot := strings.LastIndex(caller, ".")
		if dot == -1 {
			return ""
		}
		if target := caller[:dot] + "." + method; b.seenNodes[target] {
			return target
		}
		return ""
	}
	if target := module + "." + call; b.seenNodes[target] {
		return target
	}
	// Languages with implicit receivers (Java) bind bare calls to the
	// enclosing class.
	if dot := strings.LastIndex(caller, "."); dot != -1 {
		if target := caller[:dot] + "." + call; b.seenNodes[target] {
			return target
		}
	}
	if b.seenNodes[call] {
		return call
	}
	return ""
}

// inheritanceCycles reports each cycle in the inherits relation once.
func (b *builder) inheritanceCycles() []string {
	adj := make(map[string][]string)
	for _, e := range b.g.edges {
		if e.Kind == EdgeInherits {
			adj[e.From] = append(adj[e.From], e.To)
		}
	}

	var starts []string
	for from := range adj {
		starts = append(starts, from)
	}
	sort.Strings(starts)

	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)
	state := make(map[string]int)
	var warnings []string
	var stack []string

	var visit func(id string)
	visit = func(id string) {
		state[id] = inStack
		stack = append(stack, id)
		for _, next := range adj[id] {
			switch state[next] {
			case unvisited:
				visit(next)
			case inStack:
				// Slice the stack back to the cycle entry point.
				start := 0
				for i, v := range stack {
					if v == next {
						start = i
						break
					}
				}
				cycle := append(append([]string{}, stack[start:]...), next)
				warnings = append(warnings, fmt.Sprintf("inheritance cycle: %s", strings.Join(cycle, " -> ")))
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
	}

	for _, id := range starts {
		if state[id] == unvisited {
			visit(id)
		}
	}
	return warnings
}
