package repository

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/christlutheran/kbchat/pkg/model"
	"github.com/christlutheran/kbchat/pkg/utils/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/m-mizutani/goerr/v2"
)

// recognized knowledge base file extensions, matched case-insensitively
var corpusExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// Corpus owns the in-memory document cache. It is constructed once at process
// start and injected into request handlers; the cached slice is replaced
// wholesale on reload and never mutated in place, so concurrent readers see
// either the old or the new generation.
type Corpus struct {
	dir string

	mu     sync.RWMutex
	docs   []model.Document
	loaded bool
}

// NewCorpus creates a corpus store over the given directory. The directory is
// not touched until the first Load.
func NewCorpus(dir string) *Corpus {
	return &Corpus{dir: dir}
}

// Load returns all documents, reading the directory on first call and
// serving the cache afterwards. An unlistable directory yields an empty
// corpus; unreadable files are skipped. Load never fails the request.
func (c *Corpus) Load(ctx context.Context) []model.Document {
	c.mu.RLock()
	if c.loaded {
		docs := c.docs
		c.mu.RUnlock()
		return docs
	}
	c.mu.RUnlock()

	docs := c.read(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.docs = docs
		c.loaded = true
	}
	return c.docs
}

// Invalidate clears the cache so the next Load re-reads the filesystem.
func (c *Corpus) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = nil
	c.loaded = false
}

func (c *Corpus) read(ctx context.Context) []model.Document {
	logger := logging.From(ctx)

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		logger.Warn("cannot list corpus directory, serving empty corpus",
			"dir", c.dir, "error", err)
		return []model.Document{}
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !corpusExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	docs := make([]model.Document, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(c.dir, name))
		if err != nil {
			logger.Warn("skipping unreadable corpus file", "file", name, "error", err)
			continue
		}
		docs = append(docs, model.Document{
			Name: strings.TrimSuffix(name, filepath.Ext(name)),
			Text: string(data),
		})
	}

	logger.Debug("corpus loaded", "dir", c.dir, "documents", len(docs))
	return docs
}

// Watch invalidates the cache whenever the corpus directory changes, so file
// edits show up without the manual reload hook. It blocks until ctx is done.
// Callers treat a watch failure as "no auto reload", not as fatal.
func (c *Corpus) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return goerr.Wrap(err, "failed to create corpus watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(c.dir); err != nil {
		return goerr.Wrap(err, "failed to watch corpus directory", goerr.V("dir", c.dir))
	}

	logger := logging.From(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("corpus change detected, invalidating cache", "event", ev.String())
				c.Invalidate()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("corpus watcher error", "error", err)
		}
	}
}
