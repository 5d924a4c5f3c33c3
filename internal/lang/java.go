package lang

import (
	"context"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// javaPlugin extracts structure from Java files. Annotations are recorded
// as decorators so they render alongside Python/TypeScript decorators.
type javaPlugin struct {
	*treeSitterPlugin
}

// NewJavaPlugin creates the Java language plugin.
func NewJavaPlugin() Plugin {
	lang := sitter.NewLanguage(java.Language())
	return &javaPlugin{
		treeSitterPlugin: newTreeSitterPlugin(lang, "java", []string{".java"}),
	}
}

// ParseFile parses a Java source file.
func (p *javaPlugin) ParseFile(ctx context.Context, path string, source []byte) (*FileExtraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, err := p.parse(source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	module := ModuleName(path)

	ext := &FileExtraction{
		Language:  p.lang,
		Path:      path,
		Module:    module,
		Entities:  []Entity{},
		Imports:   []ImportRef{},
		CharCount: len(source),
	}

	_, endLine := nodeLines(root)
	ext.Entities = append(ext.Entities, Entity{
		Kind:          EntityModule,
		Name:          module,
		QualifiedName: module,
		File:          path,
		StartLine:     1,
		EndLine:       endLine,
	})

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(uint(i))
		switch child.Kind() {
		case "import_declaration":
			p.extractImport(child, source, ext)
		case "class_declaration", "interface_declaration", "enum_declaration":
			p.extractType(child, source, ext, module)
		}
	}

	return ext, nil
}

// extractImport splits "import a.b.C;" into module a.b and symbol C.
// A trailing .* import targets the whole package.
func (p *javaPlugin) extractImport(decl *sitter.Node, source []byte, ext *FileExtraction) {
	scoped := firstChildOfKind(decl, "scoped_identifier")
	if scoped == nil {
		if id := firstChildOfKind(decl, "identifier"); id != nil {
			line, _ := nodeLines(decl)
			ext.Imports = append(ext.Imports, ImportRef{
				Kind:   ImportModule,
				Module: nodeText(id, source),
				Line:   line,
			})
		}
		return
	}

	line, _ := nodeLines(decl)
	path := nodeText(scoped, source)

	if firstChildOfKind(decl, "asterisk") != nil {
		ext.Imports = append(ext.Imports, ImportRef{Kind: ImportModule, Module: path, Line: line})
		return
	}

	ref := ImportRef{Kind: ImportSymbol, Module: path, Line: line}
	if idx := strings.LastIndex(path, "."); idx != -1 {
		ref.Module = path[:idx]
		ref.Symbol = path[idx+1:]
	}
	ext.Imports = append(ext.Imports, ref)
}

// extractType emits a class-kind entity for classes, interfaces, and enums,
// plus method entities for their members.
func (p *javaPlugin) extractType(decl *sitter.Node, source []byte, ext *FileExtraction, scope string) {
	name := nodeText(decl.ChildByFieldName("name"), source)
	if name == "" {
		return
	}
	qualified := scope + "." + name
	startLine, endLine := nodeLines(decl)

	ext.Entities = append(ext.Entities, Entity{
		Kind:          EntityClass,
		Name:          name,
		QualifiedName: qualified,
		File:          ext.Path,
		StartLine:     startLine,
		EndLine:       endLine,
		Decorators:    p.annotationNames(decl, source),
		Bases:         p.superTypes(decl, source),
	})

	body := decl.ChildByFieldName("body")
	if body == nil {
		return
	}

	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		switch child.Kind() {
		case "method_declaration", "constructor_declaration":
			p.extractMethod(child, source, ext, qualified)
		case "class_declaration", "interface_declaration", "enum_declaration":
			p.extractType(child, source, ext, qualified)
		}
	}
}

// extractMethod emits one method entity.
func (p *javaPlugin) extractMethod(decl *sitter.Node, source []byte, ext *FileExtraction, scope string) {
	name := nodeText(decl.ChildByFieldName("name"), source)
	if name == "" {
		return
	}
	startLine, endLine := nodeLines(decl)

	entity := Entity{
		Kind:          EntityMethod,
		Name:          name,
		QualifiedName: scope + "." + name,
		File:          ext.Path,
		StartLine:     startLine,
		EndLine:       endLine,
		Decorators:    p.annotationNames(decl, source),
		ReturnType:    nodeText(decl.ChildByFieldName("type"), source),
		Calls:         p.callNames(decl.ChildByFieldName("body"), source),
	}

	if parameters := decl.ChildByFieldName("parameters"); parameters != nil {
		for i := 0; i < int(parameters.ChildCount()); i++ {
			child := parameters.Child(uint(i))
			if child.Kind() != "formal_parameter" && child.Kind() != "spread_parameter" {
				continue
			}
			entity.Params = append(entity.Params, Param{
				Name:       nodeText(child.ChildByFieldName("name"), source),
				Annotation: nodeText(child.ChildByFieldName("type"), source),
			})
		}
	}

	ext.Entities = append(ext.Entities, entity)
}

// callNames collects method invocations in a body: unqualified and
// this-qualified calls, the latter normalized to a "self." prefix. Local
// class declarations keep their own calls.
func (p *javaPlugin) callNames(body *sitter.Node, source []byte) []string {
	if body == nil {
		return nil
	}

	var names []string
	seen := make(map[string]bool)
	walkTree(body, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_declaration", "interface_declaration", "enum_declaration":
			return false
		case "method_invocation":
			name := nodeText(n.ChildByFieldName("name"), source)
			if name == "" {
				return true
			}
			obj := n.ChildByFieldName("object")
			switch {
			case obj == nil:
			case obj.Kind() == "this":
				name = "self." + name
			default:
				return true
			}
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		return true
	})
	return names
}

// annotationNames collects annotations from a declaration's modifiers,
// stripped of "@" and argument lists, in source order.
func (p *javaPlugin) annotationNames(decl *sitter.Node, source []byte) []string {
	modifiers := firstChildOfKind(decl, "modifiers")
	if modifiers == nil {
		return nil
	}

	var names []string
	for i := 0; i < int(modifiers.ChildCount()); i++ {
		child := modifiers.Child(uint(i))
		switch child.Kind() {
		case "marker_annotation", "annotation":
			text := strings.TrimPrefix(nodeText(child, source), "@")
			if idx := strings.Index(text, "("); idx != -1 {
				text = text[:idx]
			}
			names = append(names, strings.TrimSpace(text))
		}
	}
	return names
}

// superTypes collects the extends target and implemented interfaces.
func (p *javaPlugin) superTypes(decl *sitter.Node, source []byte) []string {
	var bases []string

	if superclass := decl.ChildByFieldName("superclass"); superclass != nil {
		for i := 0; i < int(superclass.ChildCount()); i++ {
			child := superclass.Child(uint(i))
			if child.IsNamed() {
				bases = append(bases, stripGenerics(nodeText(child, source)))
			}
		}
	}

	if interfaces := decl.ChildByFieldName("interfaces"); interfaces != nil {
		if list := firstChildOfKind(interfaces, "type_list"); list != nil {
			for i := 0; i < int(list.ChildCount()); i++ {
				child := list.Child(uint(i))
				if child.IsNamed() {
					bases = append(bases, stripGenerics(nodeText(child, source)))
				}
			}
		}
	}

	// Interface inheritance: interface A extends B, C
	if extends := firstChildOfKind(decl, "extends_interfaces"); extends != nil {
		if list := firstChildOfKind(extends, "type_list"); list != nil {
			for i := 0; i < int(list.ChildCount()); i++ {
				child := list.Child(uint(i))
				if child.IsNamed() {
					bases = append(bases, stripGenerics(nodeText(child, source)))
				}
			}
		}
	}

	return bases
}

// stripGenerics drops a trailing type-argument list from a type name.
func stripGenerics(name string) string {
	if idx := strings.Index(name, "<"); idx != -1 {
		return name[:idx]
	}
	return name
}
