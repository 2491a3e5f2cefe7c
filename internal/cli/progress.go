package cli

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/javafx-support/internal/workspace"
)

// CLIProgressReporter shows the initial workspace scan as a progress bar.
type CLIProgressReporter struct {
	out     io.Writer
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a reporter writing to out.
func NewCLIProgressReporter(out io.Writer) *CLIProgressReporter {
	return &CLIProgressReporter{out: out}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	log.Println("Discovering files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(views, sources int) {
	log.Printf("Found %d views and %d Java files\n", views, sources)
}

func (c *CLIProgressReporter) OnFileProcessingStart(totalFiles int) {
	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Scanning files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnFileProcessed(fileName string) {
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(stats *workspace.LoadStats) {
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}
	fmt.Fprintf(c.out, "✓ Scan complete: %d views, %d Java files, %d controllers in %.1fs\n",
		stats.Views, stats.SourceFiles, stats.Controllers, stats.Duration.Seconds())
}

var _ workspace.ProgressReporter = (*CLIProgressReporter)(nil)
