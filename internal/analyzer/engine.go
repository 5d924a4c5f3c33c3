package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/codelens-dev/codelens/internal/config"
	"github.com/codelens-dev/codelens/internal/depgraph"
	"github.com/codelens-dev/codelens/internal/infer"
	"github.com/codelens-dev/codelens/internal/lang"
	"github.com/codelens-dev/codelens/internal/snippets"
)

// Engine orchestrates an analysis run: discovery, the parallel basic pass,
// the optional extended resolution pass, and graph construction.
type Engine struct {
	registry  *lang.Registry
	discovery *FileDiscovery
	backend   infer.Backend
	db        *snippets.Database
	workers   int
	timeout   time.Duration
	extended  bool
	progress  ProgressReporter

	backendOnce sync.Once
	backendOK   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithProgress configures progress reporting.
func WithProgress(progress ProgressReporter) Option {
	return func(e *Engine) {
		if progress != nil {
			e.progress = progress
		}
	}
}

// WithBackend overrides the resolution backend.
func WithBackend(backend infer.Backend) Option {
	return func(e *Engine) {
		e.backend = backend
	}
}

// WithSnippetDatabase attaches a snippet database to populate during the
// basic pass.
func WithSnippetDatabase(db *snippets.Database) Option {
	return func(e *Engine) {
		e.db = db
	}
}

// WithWorkers overrides the parse worker count.
func WithWorkers(workers int) Option {
	return func(e *Engine) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithExtended toggles the extended resolution pass.
func WithExtended(extended bool) Option {
	return func(e *Engine) {
		e.extended = extended
	}
}

// New creates an analysis engine from configuration.
func New(cfg *config.Config, opts ...Option) (*Engine, error) {
	discovery, err := NewFileDiscovery(cfg.Paths.Code, cfg.Paths.Ignore)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		registry:  lang.NewDefaultRegistry(),
		discovery: discovery,
		backend:   infer.New(cfg.Analysis.Backend),
		workers:   cfg.Analysis.Workers,
		timeout:   time.Duration(cfg.Analysis.TimeoutSeconds) * time.Second,
		extended:  cfg.Analysis.Extended,
		progress:  &NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.workers <= 0 {
		e.workers = runtime.NumCPU()
	}
	if e.timeout <= 0 {
		e.timeout = 5 * time.Second
	}

	return e, nil
}

// parseOutcome is the per-file result of the basic pass. At least one of
// file and note is set; both nil only for slots a cancelled run never
// filled.
type parseOutcome struct {
	file *lang.FileExtraction
	note *ErrorNote
}

// Analyze runs the full pipeline over the selection and returns the merged
// result. Per-file failures become error notes; only cancellation and
// infrastructure failures abort the run.
func (e *Engine) Analyze(ctx context.Context, selection []string) (*Result, error) {
	start := time.Now()

	paths, err := e.discovery.Discover(selection)
	if err != nil {
		return nil, err
	}
	e.progress.OnDiscoveryComplete(len(paths))

	outcomes, err := e.basicPass(ctx, paths)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Files:       []*lang.FileExtraction{},
		Errors:      []ErrorNote{},
	}

	// Merge in selection order so output is deterministic regardless of
	// worker scheduling.
	for _, outcome := range outcomes {
		if outcome.note != nil {
			result.Errors = append(result.Errors, *outcome.note)
		}
		if outcome.file != nil {
			result.Files = append(result.Files, outcome.file)
		}
	}

	result.Notes = append(result.Notes, duplicateNames(result.Files)...)

	imports := e.resolvePass(ctx, result)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Graph = depgraph.Build(result.Files, imports)
	result.Notes = append(result.Notes, result.Graph.Warnings...)

	e.progress.OnComplete(ResultStats(result, time.Since(start)))
	return result, nil
}

// basicPass parses all files through a bounded worker pool. Outcomes are
// written by file index so merge order never depends on scheduling. When
// the context is cancelled the pass returns the context error and any
// in-flight results are dropped.
func (e *Engine) basicPass(ctx context.Context, paths []string) ([]parseOutcome, error) {
	outcomes := make([]parseOutcome, len(paths))

	if e.db != nil {
		if err := e.db.Reset(); err != nil {
			return nil, err
		}
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	var processed atomic.Int64

	workers := e.workers
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					return
				}
				outcomes[idx] = e.parseOne(ctx, paths[idx])
				e.progress.OnFileProcessed(int(processed.Add(1)), len(paths), filepath.Base(paths[idx]))
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range paths {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// parseOne runs one file through its plugin and stores its snippets.
func (e *Engine) parseOne(ctx context.Context, path string) parseOutcome {
	plugin, ok := e.registry.Resolve(path)
	if !ok {
		// The file is skipped, but the skip is reported.
		return parseOutcome{note: &ErrorNote{
			File:    path,
			Stage:   StageSkip,
			Message: fmt.Sprintf("no language plugin registered for extension %q", filepath.Ext(path)),
		}}
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return parseOutcome{note: &ErrorNote{File: path, Stage: StageRead, Message: err.Error()}}
	}

	file, err := plugin.ParseFile(ctx, path, source)
	if err != nil {
		return parseOutcome{note: &ErrorNote{File: path, Stage: StageParse, Message: err.Error()}}
	}

	if e.db != nil {
		for i := range file.Entities {
			entity := &file.Entities[i]
			rec := &snippets.Record{
				QualifiedName: entity.QualifiedName,
				FilePath:      path,
				Kind:          string(entity.Kind),
				StartLine:     entity.StartLine,
				EndLine:       entity.EndLine,
				CharCount:     file.CharCount,
			}
			if err := e.db.Put(rec); err != nil {
				return parseOutcome{
					file: file,
					note: &ErrorNote{File: path, Stage: StageStore, Message: err.Error()},
				}
			}
		}
	}

	return parseOutcome{file: file}
}

// resolvePass runs the extended backend when enabled and returns the
// module-level import relation for the graph. Without a usable backend the
// relation falls back to the raw import targets.
func (e *Engine) resolvePass(ctx context.Context, result *Result) []depgraph.ImportEdge {
	if !e.extended {
		return rawImports(result.Files)
	}

	e.backendOnce.Do(func() {
		e.backendOK = e.backend != nil && e.backend.Available()
	})
	if !e.backendOK {
		result.Notes = append(result.Notes, "extended resolution backend unavailable; keeping basic output")
		return rawImports(result.Files)
	}

	e.progress.OnResolutionStart(len(result.Files))
	idx := infer.BuildIndex(result.Files)

	var imports []depgraph.ImportEdge
	for _, file := range result.Files {
		fileCtx, cancel := context.WithTimeout(ctx, e.timeout)
		res, err := e.backend.Resolve(fileCtx, file, idx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			// This file keeps its basic output.
			result.Errors = append(result.Errors, ErrorNote{
				File:    file.Path,
				Stage:   StageResolve,
				Message: err.Error(),
			})
			imports = append(imports, rawImports([]*lang.FileExtraction{file})...)
			continue
		}

		for i := range file.Entities {
			entity := &file.Entities[i]
			if bases, ok := res.Bases[entity.QualifiedName]; ok {
				entity.Bases = bases
			}
			if inferred, ok := res.Types[entity.QualifiedName]; ok {
				entity.InferredType = inferred
			}
		}
		for _, imp := range res.Imports {
			imports = append(imports, depgraph.ImportEdge{From: imp.From, To: imp.To})
		}
	}

	result.Extended = true
	return imports
}

// rawImports derives module-level import edges straight from the basic
// extraction, with targets as written.
func rawImports(files []*lang.FileExtraction) []depgraph.ImportEdge {
	var imports []depgraph.ImportEdge
	for _, file := range files {
		for _, imp := range file.Imports {
			if imp.Module == "" {
				continue
			}
			imports = append(imports, depgraph.ImportEdge{From: file.Module, To: imp.Module})
		}
	}
	return imports
}

// duplicateNames reports qualified names declared in more than one place.
func duplicateNames(files []*lang.FileExtraction) []string {
	first := make(map[string]string)
	var notes []string
	for _, file := range files {
		for i := range file.Entities {
			name := file.Entities[i].QualifiedName
			if prev, ok := first[name]; ok {
				if prev != file.Path {
					notes = append(notes, fmt.Sprintf("duplicate qualified name %s in %s and %s; snippet lookups return the last stored entry", name, prev, file.Path))
				}
				continue
			}
			first[name] = file.Path
		}
	}
	return notes
}
