package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/javafx-support/internal/discovery"
	"github.com/mvp-joe/javafx-support/internal/watcher"
	"github.com/mvp-joe/javafx-support/internal/workspace"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-check views and controllers as they change",
	Long: `Watch scans the project, then keeps the diagnostics current as FXML and
Java files change, printing the problems of every touched file. Switching
git branches reloads the whole project.

Press Ctrl+C to stop.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	session, err := openSession(cmd.Context(), root, progressWriter(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer session.Close()

	coordinator, err := newCoordinator(session, &reportingHandler{Session: session, out: cmd.OutOrStdout()})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("✓ Watching %s", session.Root())
	if err := coordinator.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watcher failed: %w", err)
	}
	return nil
}

// newCoordinator watches the session root outside the ignored directories, plus .git/HEAD when the project is
// a git work tree and reload_on_switch is enabled.
func newCoordinator(session *workspace.Session, handler watcher.Handler) (*watcher.Coordinator, error) {
	cfg := session.Config()
	ignores, err := discovery.New(session.Root(), nil, cfg.Paths.Ignore)
	if err != nil {
		return nil, fmt.Errorf("invalid ignore patterns: %w", err)
	}
	files, err := watcher.NewFileWatcher([]string{session.Root()}, cfg.WatchExtensions(), cfg.Debounce(), ignores.Ignored)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	var checkout watcher.CheckoutWatcher
	if cfg.Watch.ReloadOnSwitch {
		gitDir := filepath.Join(session.Root(), ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			if checkout, err = watcher.NewCheckoutWatcher(gitDir); err != nil {
				log.Printf("Warning: branch switches will not reload: %v", err)
			}
		}
	}
	return watcher.NewCoordinator(files, checkout, handler), nil
}

// reportingHandler prints the diagnostics of every file a batch touched.
type reportingHandler struct {
	*workspace.Session
	out io.Writer
}

func (h *reportingHandler) HandleEvents(ctx context.Context, events []watcher.Event) {
	h.Session.HandleEvents(ctx, events)

	for _, ev := range events {
		diags := h.Diagnostics(ev.Path)
		sortDiagnostics(diags)
		if len(diags) == 0 {
			fmt.Fprintf(h.out, "✓ %s\n", relPath(h.Root(), ev.Path))
			continue
		}
		for _, d := range diags {
			fmt.Fprintln(h.out, formatDiagnostic(h.Root(), d))
		}
	}
}

func (h *reportingHandler) Reload(ctx context.Context) error {
	if err := h.Session.Reload(ctx); err != nil {
		return err
	}
	fmt.Fprintf(h.out, "✓ Reloaded: %d diagnostics\n", len(h.AllDiagnostics()))
	return nil
}

var _ watcher.Handler = (*reportingHandler)(nil)
