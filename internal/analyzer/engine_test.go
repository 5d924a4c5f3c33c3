package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelens-dev/codelens/internal/config"
	"github.com/codelens-dev/codelens/internal/depgraph"
	"github.com/codelens-dev/codelens/internal/lang"
	"github.com/codelens-dev/codelens/internal/snippets"
)

// Test Plan for the engine:
// - Analyze a two-file project end to end: modules, classes, inheritance
// - Emit exactly one error note per malformed file without aborting
// - Record a skip note for files no plugin can handle
// - Produce identical structure across repeated runs
// - Populate the snippet database during the basic pass
// - Extended pass qualifies bases through imports
// - A disabled backend leaves basic output unchanged and adds a note
// - Respect context cancellation

const baseSource = `class Base:
    """Root of the hierarchy."""

    def greet(self):
        return "hello"
`

const derivedSource = `from models import Base


class Derived(Base):
    def greet(self):
        return "hi"
`

func writeProject(t *testing.T, withBroken bool) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(root, "models.py"), []byte(baseSource), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.py"), []byte(derivedSource), 0644))
	if withBroken {
		require.NoError(t, os.WriteFile(filepath.Join(root, "broken.py"), []byte("def oops(:\n"), 0644))
	}
	return root
}

func newTestEngine(t *testing.T, extended bool, opts ...Option) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Analysis.Extended = extended
	cfg.Analysis.Workers = 2

	engine, err := New(cfg, opts...)
	require.NoError(t, err)
	return engine
}

func TestEngine_BasicPass(t *testing.T) {
	t.Parallel()

	root := writeProject(t, false)
	engine := newTestEngine(t, false)

	result, err := engine.Analyze(context.Background(), []string{root})
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.Equal(t, "app", result.Files[0].Module)
	assert.Equal(t, "models", result.Files[1].Module)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.RunID)

	// Basic tier keeps bases as written.
	var derived *lang.Entity
	for i := range result.Files[0].Entities {
		if result.Files[0].Entities[i].QualifiedName == "app.Derived" {
			derived = &result.Files[0].Entities[i]
		}
	}
	require.NotNil(t, derived)
	assert.Equal(t, []string{"Base"}, derived.Bases)

	require.NotNil(t, result.Graph)
	imports := result.Graph.EdgesOfKind(depgraph.EdgeImports)
	require.Len(t, imports, 1)
	assert.Equal(t, "app", imports[0].From)
	assert.Equal(t, "models", imports[0].To)

	// The graph still links the bare base to the class in the selection.
	inherits := result.Graph.EdgesOfKind(depgraph.EdgeInherits)
	require.Len(t, inherits, 1)
	assert.Equal(t, depgraph.Edge{From: "app.Derived", To: "models.Base", Kind: depgraph.EdgeInherits}, inherits[0])
}

func TestEngine_UnresolvableFileNote(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	notes := filepath.Join(root, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("not code\n"), 0644))

	engine := newTestEngine(t, false)

	// Explicit file selections bypass the code patterns, so the engine sees
	// the file and must explain why it produced nothing for it.
	result, err := engine.Analyze(context.Background(), []string{notes})
	require.NoError(t, err)

	assert.Empty(t, result.Files)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, notes, result.Errors[0].File)
	assert.Equal(t, StageSkip, result.Errors[0].Stage)
	assert.Contains(t, result.Errors[0].Message, `".txt"`)
}

func TestEngine_ErrorNotePerBadFile(t *testing.T) {
	t.Parallel()

	root := writeProject(t, true)
	engine := newTestEngine(t, false)

	result, err := engine.Analyze(context.Background(), []string{root})
	require.NoError(t, err, "a malformed file must not abort the run")

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].File, "broken.py")
	assert.Equal(t, StageParse, result.Errors[0].Stage)
	assert.Len(t, result.Files, 2, "healthy files still analyzed")
}

func TestEngine_Deterministic(t *testing.T) {
	t.Parallel()

	root := writeProject(t, false)
	engine := newTestEngine(t, false)

	first, err := engine.Analyze(context.Background(), []string{root})
	require.NoError(t, err)
	second, err := engine.Analyze(context.Background(), []string{root})
	require.NoError(t, err)

	require.Equal(t, len(first.Files), len(second.Files))
	for i := range first.Files {
		assert.Equal(t, first.Files[i].Entities, second.Files[i].Entities)
		assert.Equal(t, first.Files[i].Imports, second.Files[i].Imports)
	}
	assert.Equal(t, first.Graph.Edges(), second.Graph.Edges())
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestEngine_SnippetPopulation(t *testing.T) {
	t.Parallel()

	root := writeProject(t, false)
	db, err := snippets.Open(":memory:", 16)
	require.NoError(t, err)
	defer db.Close()

	engine := newTestEngine(t, false, WithSnippetDatabase(db))
	_, err = engine.Analyze(context.Background(), []string{root})
	require.NoError(t, err)

	rec, text, err := db.Get("models.Base.greet")
	require.NoError(t, err)
	assert.Equal(t, "method", rec.Kind)
	assert.Contains(t, text, "def greet(self):")

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ByKind["module"])
	assert.Equal(t, 2, stats.ByKind["class"])
}

func TestEngine_ExtendedResolvesBases(t *testing.T) {
	t.Parallel()

	root := writeProject(t, false)
	engine := newTestEngine(t, true)

	result, err := engine.Analyze(context.Background(), []string{root})
	require.NoError(t, err)
	assert.True(t, result.Extended)

	var derived *lang.Entity
	for i := range result.Files[0].Entities {
		if result.Files[0].Entities[i].QualifiedName == "app.Derived" {
			derived = &result.Files[0].Entities[i]
		}
	}
	require.NotNil(t, derived)
	assert.Equal(t, []string{"models.Base"}, derived.Bases)

	inherits := result.Graph.EdgesOfKind(depgraph.EdgeInherits)
	require.Len(t, inherits, 1)
	assert.Equal(t, "models.Base", inherits[0].To)
}

func TestEngine_BackendUnavailable(t *testing.T) {
	t.Parallel()

	root := writeProject(t, false)

	cfg := config.Default()
	cfg.Analysis.Extended = true
	cfg.Analysis.Backend = "none"

	engine, err := New(cfg)
	require.NoError(t, err)

	result, err := engine.Analyze(context.Background(), []string{root})
	require.NoError(t, err)

	assert.False(t, result.Extended)
	require.NotEmpty(t, result.Notes)
	assert.Contains(t, result.Notes[0], "backend unavailable")

	// Output matches a plain basic run.
	basic, err := newTestEngine(t, false).Analyze(context.Background(), []string{root})
	require.NoError(t, err)
	for i := range basic.Files {
		assert.Equal(t, basic.Files[i].Entities, result.Files[i].Entities)
	}
}

func TestEngine_Cancellation(t *testing.T) {
	t.Parallel()

	root := writeProject(t, false)
	engine := newTestEngine(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Analyze(ctx, []string{root})
	assert.ErrorIs(t, err, context.Canceled)
}
