package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// renderFunc prints the result for a set of re-read sources.
type renderFunc func(out io.Writer, srcs []source) error

// watchFiles renders files once and then again after every write to one of
// them, until ctx is done. Parse errors while watching are reported on errOut
// and do not stop the watch.
//
// The parent directories are watched rather than the files, so editors that
// save by renaming a temp file over the original still trigger a re-render.
func watchFiles(ctx context.Context, opts *options, files []string, render renderFunc, out, errOut io.Writer) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	targets := make(map[string]string, len(files)) // absolute path -> name as given
	for _, name := range files {
		abs, err := filepath.Abs(name)
		if err != nil {
			return err
		}
		targets[abs] = name
	}
	dirs := make(map[string]bool)
	for abs := range targets {
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	rerender := func(names []string) {
		srcs := make([]source, 0, len(names))
		for _, name := range names {
			data, err := os.ReadFile(name)
			if err != nil {
				fmt.Fprintf(errOut, "kaleido: %v\n", err)
				return
			}
			srcs = append(srcs, source{name: name, text: string(data)})
		}
		if err := render(out, srcs); err != nil {
			fmt.Fprintf(errOut, "kaleido: %v\n", err)
		}
	}
	rerender(files)

	debounce := opts.cfg.Watch.Debounce.Duration
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, watched := targets[filepath.Clean(ev.Name)]
			if !watched || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			opts.logger.Debug("file changed", "file", name, "op", ev.Op.String())
			pending[name] = true
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			opts.logger.Warn("watch error", "error", err)
		case <-timer.C:
			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
			}
			slices.Sort(names)
			clear(pending)
			rerender(names)
		}
	}
}
