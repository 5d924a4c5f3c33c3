package lang

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

// goPlugin extracts structure from Go files using go/ast rather than a
// tree-sitter grammar. Struct and interface types map to class entities,
// with embedded types recorded as bases.
type goPlugin struct{}

// NewGoPlugin creates the Go language plugin.
func NewGoPlugin() Plugin {
	return &goPlugin{}
}

// Language returns the plugin's language identifier.
func (p *goPlugin) Language() string { return "go" }

// Extensions returns the file extensions this plugin handles.
func (p *goPlugin) Extensions() []string { return []string{".go"} }

// ParseFile parses a Go source file.
func (p *goPlugin) ParseFile(ctx context.Context, path string, source []byte) (*FileExtraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, source, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	module := ModuleName(path)
	ext := &FileExtraction{
		Language:  "go",
		Path:      path,
		Module:    module,
		Entities:  []Entity{},
		Imports:   []ImportRef{},
		CharCount: len(source),
	}

	ext.Entities = append(ext.Entities, Entity{
		Kind:          EntityModule,
		Name:          module,
		QualifiedName: module,
		File:          path,
		StartLine:     1,
		EndLine:       fset.Position(file.End()).Line,
		Docstring:     docFirstLine(file.Doc),
	})

	for _, spec := range file.Imports {
		importPath := strings.Trim(spec.Path.Value, `"`)
		ref := ImportRef{
			Kind:   ImportModule,
			Module: importPath,
			Line:   fset.Position(spec.Pos()).Line,
		}
		if spec.Name != nil {
			ref.Alias = spec.Name.Name
		}
		ext.Imports = append(ext.Imports, ref)
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			p.extractTypes(d, fset, ext, module)
		case *ast.FuncDecl:
			p.extractFunc(d, fset, ext, module)
		}
	}

	return ext, nil
}

// extractTypes emits class entities for struct and interface declarations.
func (p *goPlugin) extractTypes(decl *ast.GenDecl, fset *token.FileSet, ext *FileExtraction, module string) {
	if decl.Tok != token.TYPE {
		return
	}

	for _, spec := range decl.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}

		var bases []string
		switch t := ts.Type.(type) {
		case *ast.StructType:
			bases = embeddedFieldNames(t.Fields)
		case *ast.InterfaceType:
			bases = embeddedFieldNames(t.Methods)
		default:
			continue
		}

		doc := ts.Doc
		if doc == nil {
			doc = decl.Doc
		}

		ext.Entities = append(ext.Entities, Entity{
			Kind:          EntityClass,
			Name:          ts.Name.Name,
			QualifiedName: module + "." + ts.Name.Name,
			File:          ext.Path,
			StartLine:     fset.Position(decl.Pos()).Line,
			EndLine:       fset.Position(decl.End()).Line,
			Bases:         bases,
			Docstring:     docFirstLine(doc),
		})
	}
}

// extractFunc emits a function entity, or a method entity qualified by the
// receiver's base type.
func (p *goPlugin) extractFunc(decl *ast.FuncDecl, fset *token.FileSet, ext *FileExtraction, module string) {
	entity := Entity{
		Kind:          EntityFunction,
		Name:          decl.Name.Name,
		QualifiedName: module + "." + decl.Name.Name,
		File:          ext.Path,
		StartLine:     fset.Position(decl.Pos()).Line,
		EndLine:       fset.Position(decl.End()).Line,
		Docstring:     docFirstLine(decl.Doc),
	}

	var recvName string
	if decl.Recv != nil && len(decl.Recv.List) > 0 {
		entity.Kind = EntityMethod
		recv := receiverTypeName(decl.Recv.List[0].Type)
		if recv != "" {
			entity.QualifiedName = module + "." + recv + "." + decl.Name.Name
		}
		if len(decl.Recv.List[0].Names) > 0 {
			recvName = decl.Recv.List[0].Names[0].Name
		}
	}
	entity.Calls = callNames(decl.Body, recvName)

	if decl.Type.Params != nil {
		for _, field := range decl.Type.Params.List {
			annotation := exprString(field.Type)
			if len(field.Names) == 0 {
				entity.Params = append(entity.Params, Param{Name: "_", Annotation: annotation})
				continue
			}
			for _, name := range field.Names {
				entity.Params = append(entity.Params, Param{Name: name.Name, Annotation: annotation})
			}
		}
	}

	if decl.Type.Results != nil && len(decl.Type.Results.List) > 0 {
		var results []string
		for _, field := range decl.Type.Results.List {
			results = append(results, exprString(field.Type))
		}
		entity.ReturnType = strings.Join(results, ", ")
		if len(results) > 1 {
			entity.ReturnType = "(" + entity.ReturnType + ")"
		}
	}

	ext.Entities = append(ext.Entities, entity)
}

// callNames collects callee names in a function body: bare identifiers for
// package-level calls, and calls through the receiver variable normalized to
// a "self." prefix so graph resolution is language-neutral.
func callNames(body *ast.BlockStmt, recvName string) []string {
	if body == nil {
		return nil
	}

	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	ast.Inspect(body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		switch fn := call.Fun.(type) {
		case *ast.Ident:
			add(fn.Name)
		case *ast.SelectorExpr:
			if ident, ok := fn.X.(*ast.Ident); ok && recvName != "" && ident.Name == recvName {
				add("self." + fn.Sel.Name)
			}
		}
		return true
	})
	return names
}

// embeddedFieldNames returns the names of embedded (anonymous) fields.
func embeddedFieldNames(fields *ast.FieldList) []string {
	if fields == nil {
		return nil
	}
	var names []string
	for _, field := range fields.List {
		if len(field.Names) != 0 {
			continue
		}
		if name := exprString(field.Type); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// receiverTypeName unwraps pointer and generic receivers to the base name.
func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	}
	return ""
}

// exprString renders a type expression to its source-like form for the
// handful of shapes that appear in signatures and embeddings.
func exprString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.ArrayType:
		return "[]" + exprString(t.Elt)
	case *ast.MapType:
		return "map[" + exprString(t.Key) + "]" + exprString(t.Value)
	case *ast.Ellipsis:
		return "..." + exprString(t.Elt)
	case *ast.FuncType:
		return "func"
	case *ast.ChanType:
		return "chan " + exprString(t.Value)
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.IndexExpr:
		return exprString(t.X)
	}
	return ""
}

// docFirstLine returns the first line of a doc comment group.
func docFirstLine(doc *ast.CommentGroup) string {
	if doc == nil {
		return ""
	}
	text := strings.TrimSpace(doc.Text())
	if idx := strings.Index(text, "\n"); idx != -1 {
		text = text[:idx]
	}
	return text
}
