package workspace

import "time"

// LoadStats summarizes one workspace load.
type LoadStats struct {
	Views       int           `json:"views"`
	SourceFiles int           `json:"source_files"`
	Controllers int           `json:"controllers"`
	Diagnostics int           `json:"diagnostics"`
	Duration    time.Duration `json:"duration"`
}

// ProgressReporter provides callbacks for reporting load progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called with the number of views and Java files found.
	OnDiscoveryComplete(views, sources int)

	// OnFileProcessingStart is called before parsing files.
	OnFileProcessingStart(totalFiles int)

	// OnFileProcessed is called after each file is parsed.
	OnFileProcessed(fileName string)

	// OnComplete is called when the load completes successfully.
	OnComplete(stats *LoadStats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()                      {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(views, sources int) {}
func (n *NoOpProgressReporter) OnFileProcessingStart(totalFiles int)   {}
func (n *NoOpProgressReporter) OnFileProcessed(fileName string)        {}
func (n *NoOpProgressReporter) OnComplete(stats *LoadStats)            {}
