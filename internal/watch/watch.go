// Package watch rebuilds a local template whenever its source file changes.
package watch

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultInterval is the poll delay between modification checks. The loop
// deliberately polls instead of using a filesystem-event watcher: rebuild
// cost dominates poll overhead and the poll survives editors that replace
// the file on save.
const DefaultInterval = 100 * time.Millisecond

// Watcher polls one file's modification time and triggers a rebuild each
// time it strictly increases. A failed rebuild is logged and the loop keeps
// going; only context cancellation stops it.
type Watcher struct {
	File     string
	Interval time.Duration
	Rebuild  func(ctx context.Context) error
	Log      *logrus.Logger
}

// Run polls until ctx is cancelled and returns ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	log := w.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastModified time.Time
	for {
		// A missing file is not an error: stay idle and retry.
		if info, err := os.Stat(w.File); err == nil && info.ModTime().After(lastModified) {
			lastModified = info.ModTime()

			if err := w.Rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.WithField("file", w.File).WithError(err).Error("rebuild failed")
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
