package lang

import (
	"context"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// typeScriptPlugin extracts structure from TypeScript files.
type typeScriptPlugin struct {
	*treeSitterPlugin
}

// NewTypeScriptPlugin creates the TypeScript language plugin.
func NewTypeScriptPlugin() Plugin {
	lang := sitter.NewLanguage(typescript.LanguageTypescript())
	return &typeScriptPlugin{
		treeSitterPlugin: newTreeSitterPlugin(lang, "typescript", []string{".ts", ".tsx"}),
	}
}

// ParseFile parses a TypeScript source file.
func (p *typeScriptPlugin) ParseFile(ctx context.Context, path string, source []byte) (*FileExtraction, error) {
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

	p.extractProgram(root, source, ext, module)

	return ext, nil
}

// extractProgram walks top-level statements in declaration order.
func (p *typeScriptPlugin) extractProgram(root *sitter.Node, source []byte, ext *FileExtraction, module string) {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(uint(i))
		switch child.Kind() {
		case "import_statement":
			p.extractImport(child, source, ext)
		case "export_statement":
			if decl := child.ChildByFieldName("declaration"); decl != nil {
				p.extractDeclaration(decl, source, ext, module)
			}
		default:
			p.extractDeclaration(child, source, ext, module)
		}
	}
}

// extractImport handles `import ... from "module"` statements.
func (p *typeScriptPlugin) extractImport(stmt *sitter.Node, source []byte, ext *FileExtraction) {
	sourceNode := stmt.ChildByFieldName("source")
	if sourceNode == nil {
		return
	}
	moduleName := strings.Trim(nodeText(sourceNode, source), "\"'`")
	line, _ := nodeLines(stmt)

	clause := firstChildOfKind(stmt, "import_clause")
	if clause == nil {
		// Side-effect import: import "./polyfill";
		ext.Imports = append(ext.Imports, ImportRef{Kind: ImportModule, Module: moduleName, Line: line})
		return
	}

	recorded := false
	walkTree(clause, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_specifier":
			ref := ImportRef{
				Kind:   ImportSymbol,
				Module: moduleName,
				Symbol: nodeText(n.ChildByFieldName("name"), source),
				Alias:  nodeText(n.ChildByFieldName("alias"), source),
				Line:   line,
			}
			ext.Imports = append(ext.Imports, ref)
			recorded = true
			return false
		case "namespace_import":
			ext.Imports = append(ext.Imports, ImportRef{
				Kind:   ImportModule,
				Module: moduleName,
				Alias:  nodeText(firstChildOfKind(n, "identifier"), source),
				Line:   line,
			})
			recorded = true
			return false
		}
		return true
	})

	if !recorded {
		// Default import: import Thing from "./thing";
		ext.Imports = append(ext.Imports, ImportRef{
			Kind:   ImportModule,
			Module: moduleName,
			Alias:  nodeText(firstChildOfKind(clause, "identifier"), source),
			Line:   line,
		})
	}
}

// extractDeclaration emits entities for classes, interfaces, and functions.
func (p *typeScriptPlugin) extractDeclaration(decl *sitter.Node, source []byte, ext *FileExtraction, module string) {
	switch decl.Kind() {
	case "class_declaration", "abstract_class_declaration":
		p.extractClass(decl, source, ext, module)
	case "interface_declaration":
		p.extractInterface(decl, source, ext, module)
	case "function_declaration":
		name := nodeText(decl.ChildByFieldName("name"), source)
		if name == "" {
			return
		}
		startLine, endLine := nodeLines(decl)
		ext.Entities = append(ext.Entities, Entity{
			Kind:          EntityFunction,
			Name:          name,
			QualifiedName: module + "." + name,
			File:          ext.Path,
			StartLine:     startLine,
			EndLine:       endLine,
			Params:        p.paramList(decl, source),
			ReturnType:    typeAnnotationText(decl.ChildByFieldName("return_type"), source),
			Calls:         p.callNames(decl.ChildByFieldName("body"), source),
		})
	}
}

// extractClass emits the class entity and its methods.
func (p *typeScriptPlugin) extractClass(decl *sitter.Node, source []byte, ext *FileExtraction, module string) {
	name := nodeText(decl.ChildByFieldName("name"), source)
	if name == "" {
		return
	}
	qualified := module + "." + name
	startLine, endLine := nodeLines(decl)

	entity := Entity{
		Kind:          EntityClass,
		Name:          name,
		QualifiedName: qualified,
		File:          ext.Path,
		StartLine:     startLine,
		EndLine:       endLine,
		Decorators:    decoratorTexts(childrenOfKind(decl, "decorator"), source),
		Bases:         p.heritageNames(decl, source),
	}
	ext.Entities = append(ext.Entities, entity)

	body := decl.ChildByFieldName("body")
	if body == nil {
		return
	}

	// Decorators on methods appear as class-body siblings preceding the
	// method definition; collect and attach them in order.
	var pending []*sitter.Node
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		switch child.Kind() {
		case "decorator":
			pending = append(pending, child)
		case "method_definition":
			methodName := nodeText(child.ChildByFieldName("name"), source)
			if methodName == "" {
				pending = nil
				continue
			}
			decorators := decoratorTexts(childrenOfKind(child, "decorator"), source)
			if len(decorators) == 0 {
				decorators = decoratorTexts(pending, source)
			}
			mStart, mEnd := nodeLines(child)
			if len(pending) > 0 {
				mStart, _ = nodeLines(pending[0])
			}
			ext.Entities = append(ext.Entities, Entity{
				Kind:          EntityMethod,
				Name:          methodName,
				QualifiedName: qualified + "." + methodName,
				File:          ext.Path,
				StartLine:     mStart,
				EndLine:       mEnd,
				Decorators:    decorators,
				Params:        p.paramList(child, source),
				ReturnType:    typeAnnotationText(child.ChildByFieldName("return_type"), source),
				Calls:         p.callNames(child.ChildByFieldName("body"), source),
			})
			pending = nil
		default:
			pending = nil
		}
	}
}

// extractInterface maps an interface to a class-kind entity so inheritance
// chains render uniformly.
func (p *typeScriptPlugin) extractInterface(decl *sitter.Node, source []byte, ext *FileExtraction, module string) {
	name := nodeText(decl.ChildByFieldName("name"), source)
	if name == "" {
		return
	}
	startLine, endLine := nodeLines(decl)
	ext.Entities = append(ext.Entities, Entity{
		Kind:          EntityClass,
		Name:          name,
		QualifiedName: module + "." + name,
		File:          ext.Path,
		StartLine:     startLine,
		EndLine:       endLine,
		Bases:         p.heritageNames(decl, source),
	})
}

// callNames collects callee names in a body: bare identifiers and this.method
// calls, the latter normalized to a "self." prefix. Nested class and function
// declarations keep their own calls.
func (p *typeScriptPlugin) callNames(body *sitter.Node, source []byte) []string {
	if body == nil {
		return nil
	}

	var names []string
	seen := make(map[string]bool)
	walkTree(body, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_declaration", "abstract_class_declaration", "function_declaration":
			return false
		case "call_expression":
			fn := n.ChildByFieldName("function")
			if fn == nil {
				return true
			}
			var name string
			switch fn.Kind() {
			case "identifier":
				name = nodeText(fn, source)
			case "member_expression":
				obj := fn.ChildByFieldName("object")
				if obj != nil && obj.Kind() == "this" {
					name = "self." + nodeText(fn.ChildByFieldName("property"), source)
				}
			}
			if name != "" && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		return true
	})
	return names
}

// heritageNames collects extends/implements targets as written.
func (p *typeScriptPlugin) heritageNames(decl *sitter.Node, source []byte) []string {
	var bases []string
	walkTree(decl, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_body", "interface_body":
			return false
		case "extends_clause", "implements_clause", "extends_type_clause":
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(uint(i))
				switch child.Kind() {
				case "identifier", "type_identifier", "member_expression", "nested_type_identifier", "generic_type":
					name := nodeText(child, source)
					if idx := strings.Index(name, "<"); idx != -1 {
						name = name[:idx]
					}
					bases = append(bases, name)
				}
			}
			return false
		}
		return true
	})
	return bases
}

// paramList builds the ordered parameter list from formal_parameters.
func (p *typeScriptPlugin) paramList(decl *sitter.Node, source []byte) []Param {
	parameters := decl.ChildByFieldName("parameters")
	if parameters == nil {
		return nil
	}

	var params []Param
	for i := 0; i < int(parameters.ChildCount()); i++ {
		child := parameters.Child(uint(i))
		switch child.Kind() {
		case "required_parameter", "optional_parameter":
			params = append(params, Param{
				Name:       nodeText(child.ChildByFieldName("pattern"), source),
				Annotation: typeAnnotationText(child.ChildByFieldName("type"), source),
			})
		}
	}
	return params
}

// decoratorTexts strips "@" prefixes and call arguments from decorator nodes.
func decoratorTexts(nodes []*sitter.Node, source []byte) []string {
	var names []string
	for _, n := range nodes {
		text := strings.TrimPrefix(nodeText(n, source), "@")
		if idx := strings.Index(text, "("); idx != -1 {
			text = text[:idx]
		}
		names = append(names, strings.TrimSpace(text))
	}
	return names
}

// typeAnnotationText strips the leading ":" from a type_annotation node.
func typeAnnotationText(node *sitter.Node, source []byte) string {
	text := nodeText(node, source)
	return strings.TrimSpace(strings.TrimPrefix(text, ":"))
}
