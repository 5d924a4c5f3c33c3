package render

import (
	"fmt"
	"strings"

	"github.com/codelens-dev/codelens/internal/analyzer"
	"github.com/codelens-dev/codelens/internal/lang"
)

// Text renders the human-readable report: directory tree, per-module
// structure in declaration order, then errors and notes.
func Text(result *analyzer.Result) string {
	var b strings.Builder

	paths := make([]string, 0, len(result.Files))
	for _, file := range result.Files {
		paths = append(paths, file.Path)
	}

	b.WriteString("Project structure:\n")
	b.WriteString(DirectoryTree(paths))

	for _, file := range result.Files {
		b.WriteString("\n")
		writeModule(&b, file)
	}

	if len(result.Errors) > 0 {
		b.WriteString("\nErrors:\n")
		for _, note := range result.Errors {
			fmt.Fprintf(&b, "  %s: %s (%s)\n", note.File, note.Message, note.Stage)
		}
	}

	if len(result.Notes) > 0 {
		b.WriteString("\nNotes:\n")
		for _, note := range result.Notes {
			fmt.Fprintf(&b, "  %s\n", note)
		}
	}

	return b.String()
}

func writeModule(b *strings.Builder, file *lang.FileExtraction) {
	fmt.Fprintf(b, "Module: %s (%s) [%s, %d chars]\n", file.Module, file.Path, file.Language, file.CharCount)

	for i := range file.Entities {
		entity := &file.Entities[i]
		if entity.Kind == lang.EntityModule {
			if entity.Docstring != "" {
				fmt.Fprintf(b, "  %q\n", entity.Docstring)
			}
			continue
		}
		writeEntity(b, entity, file.Module)
	}

	if len(file.Imports) > 0 {
		b.WriteString("  Imports:\n")
		for _, imp := range file.Imports {
			fmt.Fprintf(b, "    %s\n", importLine(imp))
		}
	}
}

func writeEntity(b *strings.Builder, entity *lang.Entity, module string) {
	// Nesting depth follows the qualified name: module.Class is one level,
	// module.Class.method two.
	depth := strings.Count(strings.TrimPrefix(entity.QualifiedName, module+"."), ".") + 1
	indent := strings.Repeat("  ", depth)

	for _, dec := range entity.Decorators {
		fmt.Fprintf(b, "%s@%s\n", indent, dec)
	}

	fmt.Fprintf(b, "%s%s  [lines %d-%d]\n", indent, signature(entity), entity.StartLine, entity.EndLine)

	if entity.Docstring != "" {
		fmt.Fprintf(b, "%s  %q\n", indent, entity.Docstring)
	}
	if entity.InferredType != "" {
		fmt.Fprintf(b, "%s  type: %s\n", indent, entity.InferredType)
	}
}

// signature renders a declaration the way it reads in source.
func signature(entity *lang.Entity) string {
	if entity.Kind == lang.EntityClass {
		if len(entity.Bases) > 0 {
			return fmt.Sprintf("class %s(%s)", entity.Name, strings.Join(entity.Bases, ", "))
		}
		return "class " + entity.Name
	}

	params := make([]string, len(entity.Params))
	for i, p := range entity.Params {
		params[i] = p.Name
		if p.Annotation != "" {
			params[i] += ": " + p.Annotation
		}
	}

	sig := fmt.Sprintf("def %s(%s)", entity.Name, strings.Join(params, ", "))
	if entity.ReturnType != "" {
		sig += " -> " + entity.ReturnType
	}
	return sig
}

func importLine(imp lang.ImportRef) string {
	if imp.Kind == lang.ImportSymbol {
		line := fmt.Sprintf("from %s import %s", imp.Module, imp.Symbol)
		if imp.Alias != "" {
			line += " as " + imp.Alias
		}
		return line
	}

	line := "import " + imp.Module
	if imp.Alias != "" {
		line += " as " + imp.Alias
	}
	return line
}
