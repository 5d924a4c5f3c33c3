package lang

import (
	"context"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// pythonPlugin extracts structure from Python files.
type pythonPlugin struct {
	*treeSitterPlugin
}

// NewPythonPlugin creates the Python language plugin.
func NewPythonPlugin() Plugin {
	lang := sitter.NewLanguage(python.Language())
	return &pythonPlugin{
		treeSitterPlugin: newTreeSitterPlugin(lang, "python", []string{".py"}),
	}
}

// ParseFile parses a Python source file.
func (p *pythonPlugin) ParseFile(ctx context.Context, path string, source []byte) (*FileExtraction, error) {
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
		Docstring:     blockDocstring(root, source),
	})

	p.extractImports(root, source, ext)
	p.extractBody(root, source, ext, module, false)

	return ext, nil
}

// extractImports collects raw import statements. Targets stay unresolved
// strings at this tier.
func (p *pythonPlugin) extractImports(root *sitter.Node, source []byte, ext *FileExtraction) {
	walkTree(root, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_statement":
			line, _ := nodeLines(n)
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(uint(i))
				switch child.Kind() {
				case "dotted_name":
					ext.Imports = append(ext.Imports, ImportRef{
						Kind:   ImportModule,
						Module: nodeText(child, source),
						Line:   line,
					})
				case "aliased_import":
					ext.Imports = append(ext.Imports, ImportRef{
						Kind:   ImportModule,
						Module: nodeText(child.ChildByFieldName("name"), source),
						Alias:  nodeText(child.ChildByFieldName("alias"), source),
						Line:   line,
					})
				}
			}
			return false
		case "import_from_statement":
			line, _ := nodeLines(n)
			moduleNode := n.ChildByFieldName("module_name")
			moduleName := nodeText(moduleNode, source)
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(uint(i))
				// Skip the module_name child itself; remaining dotted_name
				// and aliased_import children are the imported symbols.
				if moduleNode != nil && child.StartByte() == moduleNode.StartByte() {
					continue
				}
				switch child.Kind() {
				case "dotted_name":
					ext.Imports = append(ext.Imports, ImportRef{
						Kind:   ImportSymbol,
						Module: moduleName,
						Symbol: nodeText(child, source),
						Line:   line,
					})
				case "aliased_import":
					ext.Imports = append(ext.Imports, ImportRef{
						Kind:   ImportSymbol,
						Module: moduleName,
						Symbol: nodeText(child.ChildByFieldName("name"), source),
						Alias:  nodeText(child.ChildByFieldName("alias"), source),
						Line:   line,
					})
				case "wildcard_import":
					ext.Imports = append(ext.Imports, ImportRef{
						Kind:   ImportSymbol,
						Module: moduleName,
						Symbol: "*",
						Line:   line,
					})
				}
			}
			return false
		}
		return true
	})
}

// extractBody walks a module or block body in declaration order.
// insideClass flips function entities to methods.
func (p *pythonPlugin) extractBody(body *sitter.Node, source []byte, ext *FileExtraction, scope string, insideClass bool) {
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		switch child.Kind() {
		case "decorated_definition":
			decorators := p.decoratorNames(child, source)
			def := child.ChildByFieldName("definition")
			if def == nil {
				continue
			}
			// Span includes the decorator lines.
			startLine, _ := nodeLines(child)
			p.extractDefinition(def, source, ext, scope, insideClass, decorators, startLine)
		case "class_definition", "function_definition":
			startLine, _ := nodeLines(child)
			p.extractDefinition(child, source, ext, scope, insideClass, nil, startLine)
		}
	}
}

// extractDefinition emits one class/function/method entity and recurses into
// its body for nested definitions.
func (p *pythonPlugin) extractDefinition(def *sitter.Node, source []byte, ext *FileExtraction, scope string, insideClass bool, decorators []string, startLine int) {
	nameNode := def.ChildByFieldName("name")
	if nameNode == nil {
		return
	}

	name := nodeText(nameNode, source)
	qualified := scope + "." + name
	_, endLine := nodeLines(def)
	body := def.ChildByFieldName("body")

	switch def.Kind() {
	case "class_definition":
		entity := Entity{
			Kind:          EntityClass,
			Name:          name,
			QualifiedName: qualified,
			File:          ext.Path,
			StartLine:     startLine,
			EndLine:       endLine,
			Decorators:    decorators,
			Bases:         p.baseNames(def, source),
			Docstring:     blockDocstring(body, source),
		}
		ext.Entities = append(ext.Entities, entity)
		if body != nil {
			p.extractBody(body, source, ext, qualified, true)
		}

	case "function_definition":
		kind := EntityFunction
		if insideClass {
			kind = EntityMethod
		}
		entity := Entity{
			Kind:          kind,
			Name:          name,
			QualifiedName: qualified,
			File:          ext.Path,
			StartLine:     startLine,
			EndLine:       endLine,
			Decorators:    decorators,
			Params:        p.paramList(def, source, insideClass),
			ReturnType:    nodeText(def.ChildByFieldName("return_type"), source),
			Docstring:     blockDocstring(body, source),
			Calls:         p.callNames(body, source),
		}
		ext.Entities = append(ext.Entities, entity)
		// Inner functions are plain functions regardless of class nesting.
		if body != nil {
			p.extractBody(body, source, ext, qualified, false)
		}
	}
}

// decoratorNames returns decorator names in source order (outermost first),
// with the "@" prefix and any call arguments stripped.
func (p *pythonPlugin) decoratorNames(decorated *sitter.Node, source []byte) []string {
	var names []string
	for _, dec := range childrenOfKind(decorated, "decorator") {
		text := strings.TrimPrefix(nodeText(dec, source), "@")
		if idx := strings.Index(text, "("); idx != -1 {
			text = text[:idx]
		}
		names = append(names, strings.TrimSpace(text))
	}
	return names
}

// baseNames returns a class's superclass names as written. Keyword arguments
// in the class argument list (metaclass=...) are not base classes.
func (p *pythonPlugin) baseNames(class *sitter.Node, source []byte) []string {
	superclasses := class.ChildByFieldName("superclasses")
	if superclasses == nil {
		return nil
	}

	var bases []string
	for i := 0; i < int(superclasses.ChildCount()); i++ {
		child := superclasses.Child(uint(i))
		switch child.Kind() {
		case "identifier", "attribute", "subscript":
			bases = append(bases, nodeText(child, source))
		}
	}
	return bases
}

// paramList builds the ordered parameter list. The self/cls receiver of
// methods is dropped, matching how signatures are displayed.
func (p *pythonPlugin) paramList(def *sitter.Node, source []byte, insideClass bool) []Param {
	parameters := def.ChildByFieldName("parameters")
	if parameters == nil {
		return nil
	}

	var params []Param
	for i := 0; i < int(parameters.ChildCount()); i++ {
		child := parameters.Child(uint(i))
		var param Param
		switch child.Kind() {
		case "identifier":
			param = Param{Name: nodeText(child, source)}
		case "typed_parameter", "typed_default_parameter":
			param = Param{
				Name:       nodeText(firstChildOfKind(child, "identifier"), source),
				Annotation: nodeText(child.ChildByFieldName("type"), source),
			}
			if param.Name == "" {
				param.Name = nodeText(child.ChildByFieldName("name"), source)
			}
		case "default_parameter":
			param = Param{Name: nodeText(child.ChildByFieldName("name"), source)}
		case "list_splat_pattern", "dictionary_splat_pattern":
			param = Param{Name: nodeText(child, source)}
		default:
			continue
		}
		if param.Name == "" {
			continue
		}
		if insideClass && len(params) == 0 && (param.Name == "self" || param.Name == "cls") {
			continue
		}
		params = append(params, param)
	}
	return params
}

// callNames collects callee names inside a function body: bare identifiers
// and self.method attributes, in first-appearance order. Calls inside nested
// definitions belong to the nested entity and are not descended into.
func (p *pythonPlugin) callNames(body *sitter.Node, source []byte) []string {
	if body == nil {
		return nil
	}

	var names []string
	seen := make(map[string]bool)
	walkTree(body, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "class_definition", "function_definition":
			return false
		case "call":
			fn := n.ChildByFieldName("function")
			if fn == nil {
				return true
			}
			var name string
			switch fn.Kind() {
			case "identifier":
				name = nodeText(fn, source)
			case "attribute":
				obj := fn.ChildByFieldName("object")
				if obj != nil && obj.Kind() == "identifier" && nodeText(obj, source) == "self" {
					name = "self." + nodeText(fn.ChildByFieldName("attribute"), source)
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

// blockDocstring returns the first line of a block's leading docstring.
func blockDocstring(body *sitter.Node, source []byte) string {
	if body == nil {
		return ""
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		switch child.Kind() {
		case "comment":
			continue
		case "expression_statement":
			if str := firstChildOfKind(child, "string"); str != nil {
				return firstLine(nodeText(str, source))
			}
			return ""
		default:
			if !child.IsNamed() {
				continue
			}
			return ""
		}
	}
	return ""
}
