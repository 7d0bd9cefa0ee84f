// Package watch re-uploads a recipe document every time it is saved.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/paprika/internal/recipefile"
	"github.com/starford/paprika/pkg/paprika"
)

// Debounce is how long the watcher waits after the last change before it
// reads the document. Editors often write a file in several steps.
const Debounce = 200 * time.Millisecond

// Uploader creates or replaces a recipe, stamping its uid and hash.
type Uploader interface {
	Upload(ctx context.Context, r *paprika.Recipe) error
}

// EventCallback is called after every push attempt. r is nil when the
// document could not be read.
type EventCallback func(r *paprika.Recipe, err error)

type pusher struct {
	path     string
	uploader Uploader
	logger   *slog.Logger
	cb       EventCallback

	uid  string
	hash string
}

// File uploads the document at path, then watches it and uploads it again
// after each change until ctx is cancelled.
//
// The uid assigned by the first upload is kept in memory and reused while
// the document itself has no uid, so repeated saves update one recipe
// instead of creating new ones. Saves that do not change the content are
// skipped. Read and upload failures are reported through cb and logged;
// they do not stop the watcher.
func File(ctx context.Context, path string, uploader Uploader, logger *slog.Logger, cb EventCallback) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// The parent directory is watched so editors that replace the file by
	// renaming a temporary one over it keep being followed.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	p := &pusher{path: abs, uploader: uploader, logger: logger, cb: cb}
	p.push(ctx)

	logger.Info("watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(Debounce)
			timerCh = timer.C
		} else {
			timer.Reset(Debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped", slog.String("path", abs))
			return nil

		case <-timerCh:
			p.push(ctx)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func (p *pusher) push(ctx context.Context) {
	r, err := recipefile.ReadFile(p.path)
	if err != nil {
		p.logger.Warn("watcher: read failed", slog.String("path", p.path), slog.String("error", err.Error()))
		p.report(nil, err)
		return
	}
	if r.UID == "" {
		r.UID = p.uid
	}
	if r.UID != "" && r.UID == p.uid && r.ComputeHash() == p.hash {
		p.logger.Debug("watcher: unchanged", slog.String("uid", r.UID))
		return
	}

	if err := p.uploader.Upload(ctx, r); err != nil {
		p.logger.Error("watcher: upload failed", slog.String("path", p.path), slog.String("error", err.Error()))
		p.report(r, err)
		return
	}
	p.uid, p.hash = r.UID, r.Hash
	p.logger.Debug("watcher: uploaded", slog.String("uid", r.UID), slog.String("hash", r.Hash))
	p.report(r, nil)
}

func (p *pusher) report(r *paprika.Recipe, err error) {
	if p.cb != nil {
		p.cb(r, err)
	}
}
