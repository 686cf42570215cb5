package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchFixtures recompiles each fixture on change until interrupted.
func watchFixtures(ctx context.Context, paths []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch parent directories: editors replace files on save, which
	// delivers Create/Rename on the directory rather than Write on the
	// old inode.
	watched := map[string]bool{}
	targets := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if !watched[dir] {
			if err := w.Add(dir); err != nil {
				return err
			}
			watched[dir] = true
		}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	for _, p := range paths {
		if err := runFixture(p); err != nil {
			logger.Error("fixture failed", "path", p, "err", err)
		}
	}
	logger.Info("watching for changes", "fixtures", len(paths))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !targets[abs] {
				continue
			}
			logger.Debug("fixture changed", "path", ev.Name, "op", ev.Op.String())
			if err := runFixture(ev.Name); err != nil {
				logger.Error("fixture failed", "path", ev.Name, "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "err", err)
		}
	}
}
