package infer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelens-dev/codelens/internal/lang"
)

// Test Plan for the local backend:
// - Qualify bare base names through symbol imports
// - Qualify dotted base names through module aliases
// - Leave unresolvable bases as written
// - Map imports to selection modules, marking internal vs external
// - Normalize relative import specs ("./models" -> "models")
// - Qualify annotated return types that name a known class
// - Honor context cancellation

func fixtureFiles() []*lang.FileExtraction {
	models := &lang.FileExtraction{
		Language: "python",
		Path:     "src/models.py",
		Module:   "models",
		Entities: []lang.Entity{
			{Kind: lang.EntityModule, Name: "models", QualifiedName: "models"},
			{Kind: lang.EntityClass, Name: "Base", QualifiedName: "models.Base"},
		},
	}
	app := &lang.FileExtraction{
		Language: "python",
		Path:     "src/app.py",
		Module:   "app",
		Imports: []lang.ImportRef{
			{Kind: lang.ImportSymbol, Module: "models", Symbol: "Base", Alias: "B"},
			{Kind: lang.ImportModule, Module: "helpers", Alias: "h"},
			{Kind: lang.ImportModule, Module: "os"},
		},
		Entities: []lang.Entity{
			{Kind: lang.EntityModule, Name: "app", QualifiedName: "app"},
			{Kind: lang.EntityClass, Name: "Derived", QualifiedName: "app.Derived", Bases: []string{"B", "Unknown"}},
			{Kind: lang.EntityClass, Name: "Other", QualifiedName: "app.Other", Bases: []string{"h.Helper"}},
			{Kind: lang.EntityFunction, Name: "build", QualifiedName: "app.build", ReturnType: "B"},
		},
	}
	helpers := &lang.FileExtraction{
		Language: "python",
		Path:     "src/helpers.py",
		Module:   "helpers",
		Entities: []lang.Entity{
			{Kind: lang.EntityModule, Name: "helpers", QualifiedName: "helpers"},
			{Kind: lang.EntityClass, Name: "Helper", QualifiedName: "helpers.Helper"},
		},
	}
	return []*lang.FileExtraction{app, helpers, models}
}

func TestLocalBackend_ResolveBases(t *testing.T) {
	t.Parallel()

	files := fixtureFiles()
	idx := BuildIndex(files)
	backend := NewLocalBackend()

	res, err := backend.Resolve(context.Background(), files[0], idx)
	require.NoError(t, err)

	assert.Equal(t, []string{"models.Base", "Unknown"}, res.Bases["app.Derived"])
	assert.Equal(t, []string{"helpers.Helper"}, res.Bases["app.Other"])
}

func TestLocalBackend_ResolveImports(t *testing.T) {
	t.Parallel()

	files := fixtureFiles()
	idx := BuildIndex(files)
	backend := NewLocalBackend()

	res, err := backend.Resolve(context.Background(), files[0], idx)
	require.NoError(t, err)

	require.Len(t, res.Imports, 3)
	assert.Equal(t, ResolvedImport{From: "app", To: "models", Internal: true}, res.Imports[0])
	assert.Equal(t, ResolvedImport{From: "app", To: "helpers", Internal: true}, res.Imports[1])
	assert.Equal(t, ResolvedImport{From: "app", To: "os", Internal: false}, res.Imports[2])
}

func TestLocalBackend_InferTypes(t *testing.T) {
	t.Parallel()

	files := fixtureFiles()
	idx := BuildIndex(files)
	backend := NewLocalBackend()

	res, err := backend.Resolve(context.Background(), files[0], idx)
	require.NoError(t, err)

	assert.Equal(t, "models.Base", res.Types["app.build"])
}

func TestLocalBackend_RelativeImportSpec(t *testing.T) {
	t.Parallel()

	file := &lang.FileExtraction{
		Language: "typescript",
		Path:     "src/widget.ts",
		Module:   "widget",
		Imports: []lang.ImportRef{
			{Kind: lang.ImportSymbol, Module: "./models", Symbol: "Base"},
		},
		Entities: []lang.Entity{
			{Kind: lang.EntityModule, Name: "widget", QualifiedName: "widget"},
			{Kind: lang.EntityClass, Name: "Widget", QualifiedName: "widget.Widget", Bases: []string{"Base"}},
		},
	}
	models := &lang.FileExtraction{
		Language: "typescript",
		Path:     "src/models.ts",
		Module:   "models",
		Entities: []lang.Entity{
			{Kind: lang.EntityModule, Name: "models", QualifiedName: "models"},
			{Kind: lang.EntityClass, Name: "Base", QualifiedName: "models.Base"},
		},
	}

	idx := BuildIndex([]*lang.FileExtraction{file, models})
	backend := NewLocalBackend()

	res, err := backend.Resolve(context.Background(), file, idx)
	require.NoError(t, err)

	assert.Equal(t, []string{"models.Base"}, res.Bases["widget.Widget"])
	require.Len(t, res.Imports, 1)
	assert.True(t, res.Imports[0].Internal)
	assert.Equal(t, "models", res.Imports[0].To)
}

func TestLocalBackend_Cancellation(t *testing.T) {
	t.Parallel()

	files := fixtureFiles()
	idx := BuildIndex(files)
	backend := NewLocalBackend()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := backend.Resolve(ctx, files[0], idx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	t.Parallel()

	backend := New("local")
	require.NotNil(t, backend)
	assert.True(t, backend.Available())
	assert.Equal(t, "local", backend.Name())

	assert.Nil(t, New("none"))
}
