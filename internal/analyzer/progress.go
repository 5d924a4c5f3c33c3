package analyzer

// ProgressReporter provides callbacks for reporting analysis progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnDiscoveryComplete is called when file discovery finishes.
	OnDiscoveryComplete(totalFiles int)

	// OnFileProcessed is called after each file is parsed.
	OnFileProcessed(processed, total int, fileName string)

	// OnResolutionStart is called before the extended resolution pass.
	OnResolutionStart(totalFiles int)

	// OnComplete is called when analysis completes successfully.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryComplete(totalFiles int)                 {}
func (n *NoOpProgressReporter) OnFileProcessed(processed, total int, name string)  {}
func (n *NoOpProgressReporter) OnResolutionStart(totalFiles int)                   {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)                            {}
