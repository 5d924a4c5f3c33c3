package analyzer

import (
	"time"

	"github.com/codelens-dev/codelens/internal/depgraph"
	"github.com/codelens-dev/codelens/internal/lang"
)

// Stage identifies where in the pipeline a per-file failure happened.
type Stage string

const (
	StageSkip    Stage = "skip"
	StageRead    Stage = "read"
	StageParse   Stage = "parse"
	StageStore   Stage = "store"
	StageResolve Stage = "resolve"
)

// ErrorNote records one non-fatal per-file failure. A failing file
// contributes exactly one note and drops out of the remaining pipeline; it
// never aborts the run.
type ErrorNote struct {
	File    string `json:"file"`
	Stage   Stage  `json:"stage"`
	Message string `json:"message"`
}

// Result is the complete output of one analysis run.
type Result struct {
	RunID       string
	GeneratedAt time.Time
	Extended    bool

	// Files holds per-file extractions in deterministic selection order.
	Files []*lang.FileExtraction

	Graph *depgraph.Graph

	Errors []ErrorNote

	// Notes carry informational findings: backend availability, duplicate
	// qualified names, inheritance cycles.
	Notes []string
}

// Stats summarizes a result for progress reporting and logging.
type Stats struct {
	Files    int
	Modules  int
	Entities int
	Errors   int
	Duration time.Duration
}

// ResultStats computes summary counts for a result.
func ResultStats(result *Result, duration time.Duration) *Stats {
	stats := &Stats{
		Files:    len(result.Files),
		Errors:   len(result.Errors),
		Duration: duration,
	}
	for _, file := range result.Files {
		stats.Modules++
		stats.Entities += len(file.Entities)
	}
	return stats
}
