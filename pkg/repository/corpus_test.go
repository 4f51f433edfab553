package repository_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/christlutheran/kbchat/pkg/repository"
	"github.com/m-mizutani/gt"
)

func TestLoadFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	gt.NoError(t, os.WriteFile(filepath.Join(dir, "zz-visitors.md"), []byte("# Visiting"), 0644))
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "aa-faq.MD"), []byte("# FAQ"), 0644))
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("plain notes"), 0644))
	gt.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.md"), []byte("secret"), 0644))
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89}, 0644))

	corpus := repository.NewCorpus(dir)
	docs := corpus.Load(ctx)

	gt.Equal(t, len(docs), 3)
	gt.Equal(t, docs[0].Name, "aa-faq")
	gt.Equal(t, docs[1].Name, "notes")
	gt.Equal(t, docs[2].Name, "zz-visitors")
	gt.Equal(t, docs[1].Text, "plain notes")
}

func TestLoadMissingDirectory(t *testing.T) {
	ctx := context.Background()
	corpus := repository.NewCorpus(filepath.Join(t.TempDir(), "no-such-dir"))

	docs := corpus.Load(ctx)
	gt.Equal(t, len(docs), 0)
}

func TestLoadCachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "one.md"), []byte("first"), 0644))

	corpus := repository.NewCorpus(dir)
	gt.Equal(t, len(corpus.Load(ctx)), 1)

	gt.NoError(t, os.WriteFile(filepath.Join(dir, "two.md"), []byte("second"), 0644))

	// Cached result still served
	gt.Equal(t, len(corpus.Load(ctx)), 1)

	corpus.Invalidate()
	gt.Equal(t, len(corpus.Load(ctx)), 2)
}
