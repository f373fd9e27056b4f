package server

import (
	"context"
	"crypto/sha256"
	"log"
	"os"
	"sort"
	"time"

	"github.com/livefir/webflow/internal/build"
)

// watcher polls a source tree and reports files whose content changed,
// appeared or disappeared since the previous scan.
type watcher struct {
	dir       string
	recursive bool
	onChange  func(path string)
	hashes    map[string][32]byte
}

func newWatcher(dir string, recursive bool, onChange func(path string)) *watcher {
	return &watcher{
		dir:       dir,
		recursive: recursive,
		onChange:  onChange,
	}
}

func (w *watcher) run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 300 * time.Millisecond
	}
	if _, err := w.scan(); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := w.scan(); err != nil {
				log.Printf("Watch failed: %v", err)
			}
		}
	}
}

// scan hashes every source and returns the paths that changed. The first
// scan only records the baseline.
func (w *watcher) scan() ([]string, error) {
	sources, err := build.Discover(w.dir, w.recursive)
	if err != nil {
		return nil, err
	}

	hashes := make(map[string][32]byte, len(sources))
	for _, source := range sources {
		data, err := os.ReadFile(source)
		if err != nil {
			// Removed between discovery and read; the next scan sees it.
			continue
		}
		hashes[source] = sha256.Sum256(data)
	}

	first := w.hashes == nil
	prev := w.hashes
	w.hashes = hashes
	if first {
		return nil, nil
	}

	var changed []string
	for _, source := range sources {
		h, ok := hashes[source]
		if !ok {
			continue
		}
		if old, seen := prev[source]; !seen || old != h {
			changed = append(changed, source)
		}
	}
	for source := range prev {
		if _, ok := hashes[source]; !ok {
			changed = append(changed, source)
		}
	}

	sort.Strings(changed)
	for _, source := range changed {
		w.onChange(source)
	}
	return changed, nil
}
