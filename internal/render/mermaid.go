package render

import (
	"fmt"
	"strings"

	"github.com/codelens-dev/codelens/internal/analyzer"
	"github.com/codelens-dev/codelens/internal/depgraph"
	"github.com/codelens-dev/codelens/internal/lang"
)

// maxDiagramMethods caps the methods listed per class so large classes do
// not drown the diagram.
const maxDiagramMethods = 10

// Mermaid renders both diagrams, classes first, separated by a blank line.
func Mermaid(result *analyzer.Result) string {
	classes := MermaidClasses(result)
	deps := MermaidDependencies(result)
	return classes + "\n" + deps
}

// MermaidClasses renders a classDiagram of all class entities with their
// methods and inheritance edges. Node declarations come before edges so the
// diagram parses regardless of edge targets.
func MermaidClasses(result *analyzer.Result) string {
	var b strings.Builder
	b.WriteString("classDiagram\n")

	declared := make(map[string]bool)

	for _, file := range result.Files {
		for i := range file.Entities {
			entity := &file.Entities[i]
			if entity.Kind != lang.EntityClass {
				continue
			}

			id := sanitizeID(entity.QualifiedName)
			declared[id] = true
			fmt.Fprintf(&b, "    class %s {\n", id)

			methods := 0
			for j := range file.Entities {
				method := &file.Entities[j]
				if method.Kind != lang.EntityMethod || !strings.HasPrefix(method.QualifiedName, entity.QualifiedName+".") {
					continue
				}
				if methods == maxDiagramMethods {
					b.WriteString("        +...\n")
					break
				}
				fmt.Fprintf(&b, "        +%s(%s)\n", method.Name, paramNames(method.Params))
				methods++
			}
			b.WriteString("    }\n")
		}
	}

	if result.Graph != nil {
		inherits := result.Graph.EdgesOfKind(depgraph.EdgeInherits)

		// External bases get bare node declarations so every edge target is
		// declared before the first edge.
		for _, edge := range inherits {
			if to := sanitizeID(edge.To); !declared[to] {
				fmt.Fprintf(&b, "    class %s\n", to)
				declared[to] = true
			}
		}
		for _, edge := range inherits {
			fmt.Fprintf(&b, "    %s <|-- %s\n", sanitizeID(edge.To), sanitizeID(edge.From))
		}
	}

	return b.String()
}

// MermaidDependencies renders the module import relation as a flowchart.
func MermaidDependencies(result *analyzer.Result) string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	if result.Graph == nil {
		return b.String()
	}

	edges := result.Graph.EdgesOfKind(depgraph.EdgeImports)

	declared := make(map[string]bool)
	declare := func(id string) {
		node, ok := result.Graph.Node(id)
		label := id
		if ok && node.External {
			label = id + " (external)"
		}
		sanitized := sanitizeID(id)
		if !declared[sanitized] {
			declared[sanitized] = true
			fmt.Fprintf(&b, "    %s[\"%s\"]\n", sanitized, label)
		}
	}

	for _, node := range result.Graph.Nodes() {
		if node.Kind == depgraph.NodeModule && !node.External {
			declare(node.ID)
		}
	}
	for _, edge := range edges {
		declare(edge.From)
		declare(edge.To)
	}
	for _, edge := range edges {
		fmt.Fprintf(&b, "    %s --> %s\n", sanitizeID(edge.From), sanitizeID(edge.To))
	}

	return b.String()
}

// sanitizeID maps a qualified name to a mermaid-safe identifier.
func sanitizeID(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// paramNames joins parameter names for compact method signatures.
func paramNames(params []lang.Param) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
