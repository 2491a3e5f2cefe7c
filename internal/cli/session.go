package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/mvp-joe/javafx-support/internal/config"
	"github.com/mvp-joe/javafx-support/internal/workspace"
)

// openSession loads the configuration of root and scans the project. Progress
// goes to progressOut unless it is nil.
func openSession(ctx context.Context, root string, progressOut io.Writer) (*workspace.Session, error) {
	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	session, err := workspace.NewSession(root, cfg)
	if err != nil {
		return nil, err
	}

	var progress workspace.ProgressReporter = &workspace.NoOpProgressReporter{}
	if progressOut != nil {
		progress = NewCLIProgressReporter(progressOut)
	}
	if _, err := session.Load(ctx, progress); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	return session, nil
}

// progressWriter is stderr unless --quiet is set.
func progressWriter(stderr io.Writer) io.Writer {
	if quietFlag {
		return nil
	}
	return stderr
}
