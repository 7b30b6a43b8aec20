// Package ingest provides a file-drop publish path: editor plugins that
// cannot POST over HTTP may write snapshot JSON files into a watched
// directory instead.
package ingest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/ansuz/internal/syncservice"
)

// settleDelay is how long a drop file must be quiet before it is read, so
// a plugin still writing the file is not picked up mid-write.
const settleDelay = 200 * time.Millisecond

// Watch processes snapshot files dropped into dir until ctx is cancelled.
// Files already present at startup are published first. A successfully
// published file is removed; a malformed one is logged and left in place
// so the plugin author can inspect it.
func Watch(ctx context.Context, svc *syncservice.Service, dir string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("ingest: started", slog.String("dir", dir))

	// Publish files that were dropped before the watcher started.
	if entries, readErr := os.ReadDir(dir); readErr == nil {
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
				processFile(ctx, svc, filepath.Join(dir, e.Name()), logger)
			}
		}
	}

	// pending collects touched files; settleTimer batches them so each
	// file is read once after its writes go quiet.
	pending := make(map[string]struct{})
	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	scheduleSettle := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(settleDelay)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(settleDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("ingest: stopped")
			return nil

		case <-settleCh:
			for path := range pending {
				delete(pending, path)
				processFile(ctx, svc, path, logger)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".json") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				pending[ev.Name] = struct{}{}
				scheduleSettle()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("ingest: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

func processFile(ctx context.Context, svc *syncservice.Service, path string, logger *slog.Logger) {
	raw, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("ingest: read failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	ack, err := svc.Publish(ctx, raw)
	if err != nil {
		logger.Warn("ingest: rejected", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	logger.Info("ingest: published",
		slog.String("path", path),
		slog.String("checksum", ack.Checksum),
		slog.Int("node_count", ack.NodeCount))

	if err := os.Remove(path); err != nil {
		logger.Warn("ingest: cleanup failed", slog.String("path", path), slog.String("error", err.Error()))
	}
}
