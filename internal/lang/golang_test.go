package lang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the Go plugin:
// - Emit a module entity with the package doc's first line
// - Map structs and interfaces to class-kind entities
// - Record embedded types as bases
// - Qualify methods by their receiver's base type
// - Extract imports with aliases
// - Render parameter and result types, including multi-returns
// - Collect package-level and receiver callee names

const goSample = `// Package store persists widgets.
package store

import (
	"context"
	sq "github.com/Masterminds/squirrel"
)

// Store is the widget store.
type Store struct {
	baseStore
}

type Reader interface {
	ReadCloser
}

// Get fetches one widget.
func (s *Store) Get(ctx context.Context, id string) (*Widget, error) {
	return s.load(ctx, id)
}

func Count(items []string) int {
	_ = sq.Select
	return len(items)
}
`

func TestGoPlugin_Module(t *testing.T) {
	t.Parallel()

	plugin := NewGoPlugin()
	result, err := plugin.ParseFile(context.Background(), "internal/store/store.go", []byte(goSample))
	require.NoError(t, err)

	assert.Equal(t, "go", result.Language)
	assert.Equal(t, "store", result.Module)

	module := result.Entities[0]
	assert.Equal(t, EntityModule, module.Kind)
	assert.Equal(t, "Package store persists widgets.", module.Docstring)
}

func TestGoPlugin_Imports(t *testing.T) {
	t.Parallel()

	plugin := NewGoPlugin()
	result, err := plugin.ParseFile(context.Background(), "internal/store/store.go", []byte(goSample))
	require.NoError(t, err)

	require.Len(t, result.Imports, 2)
	assert.Equal(t, "context", result.Imports[0].Module)
	assert.Empty(t, result.Imports[0].Alias)
	assert.Equal(t, "github.com/Masterminds/squirrel", result.Imports[1].Module)
	assert.Equal(t, "sq", result.Imports[1].Alias)
}

func TestGoPlugin_TypesAsClasses(t *testing.T) {
	t.Parallel()

	plugin := NewGoPlugin()
	result, err := plugin.ParseFile(context.Background(), "internal/store/store.go", []byte(goSample))
	require.NoError(t, err)

	store := findEntity(t, result, "store.Store")
	assert.Equal(t, EntityClass, store.Kind)
	assert.Equal(t, []string{"baseStore"}, store.Bases)
	assert.Equal(t, "Store is the widget store.", store.Docstring)

	reader := findEntity(t, result, "store.Reader")
	assert.Equal(t, EntityClass, reader.Kind)
	assert.Equal(t, []string{"ReadCloser"}, reader.Bases)
}

func TestGoPlugin_Functions(t *testing.T) {
	t.Parallel()

	plugin := NewGoPlugin()
	result, err := plugin.ParseFile(context.Background(), "internal/store/store.go", []byte(goSample))
	require.NoError(t, err)

	get := findEntity(t, result, "store.Store.Get")
	assert.Equal(t, EntityMethod, get.Kind)
	require.Len(t, get.Params, 2)
	assert.Equal(t, Param{Name: "ctx", Annotation: "context.Context"}, get.Params[0])
	assert.Equal(t, Param{Name: "id", Annotation: "string"}, get.Params[1])
	assert.Equal(t, "(*Widget, error)", get.ReturnType)
	assert.Equal(t, "Get fetches one widget.", get.Docstring)
	assert.Equal(t, []string{"self.load"}, get.Calls, "receiver calls are normalized to a self prefix")

	count := findEntity(t, result, "store.Count")
	assert.Equal(t, EntityFunction, count.Kind)
	assert.Equal(t, "int", count.ReturnType)
	require.Len(t, count.Params, 1)
	assert.Equal(t, "[]string", count.Params[0].Annotation)
}
