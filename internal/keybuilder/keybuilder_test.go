package keybuilder

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/niradar/duplicate-files-in-folders/internal/hashcache"
	"github.com/niradar/duplicate-files-in-folders/internal/ignoreset"
	"github.com/niradar/duplicate-files-in-folders/internal/record"
)

func writeTempFile(t *testing.T, content string) string {
	dir, err := os.MkdirTemp("", "keybuilder-test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newCache(t *testing.T) *hashcache.Cache {
	c, err := hashcache.New(hashcache.Options{
		ReferenceRoot: os.TempDir(),
		Mode:          hashcache.ModeFull,
		Algorithm:     hashcache.SHA256,
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestKeyIncludesFilenameAndMTimeByDefault(t *testing.T) {
	path := writeTempFile(t, "hello")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	r := record.FileRecord{
		Path:  path,
		Name:  filepath.Base(path),
		MTime: float64(info.ModTime().UnixNano()) / 1e9,
	}

	key, err := Key(r, newCache(t), ignoreset.None)
	if err != nil {
		t.Fatal(err)
	}
	if key == "" {
		t.Fatal("expected a non-empty key")
	}
	suffix := separator + r.Name + separator + strconv.FormatFloat(r.MTime, 'f', -1, 64)
	if !strings.HasSuffix(key, suffix) {
		t.Errorf("expected key %q to end with the filename and mtime parts %q", key, suffix)
	}
}

func TestKeyIgnoresFilename(t *testing.T) {
	pathA := writeTempFile(t, "same content")
	pathB := writeTempFile(t, "same content")

	infoA, _ := os.Stat(pathA)
	infoB, _ := os.Stat(pathB)

	cache := newCache(t)
	ignore := ignoreset.Set{Filename: true}

	keyA, err := Key(record.FileRecord{Path: pathA, Name: "a.txt", MTime: float64(infoA.ModTime().UnixNano()) / 1e9}, cache, ignore)
	if err != nil {
		t.Fatal(err)
	}
	keyB, err := Key(record.FileRecord{Path: pathB, Name: "b.txt", MTime: float64(infoB.ModTime().UnixNano()) / 1e9}, cache, ignore)
	if err != nil {
		t.Fatal(err)
	}

	if infoA.ModTime().Equal(infoB.ModTime()) && keyA != keyB {
		t.Errorf("expected identical keys for identical content with filenames ignored, got %q vs %q", keyA, keyB)
	}
}

func TestKeyDiffersOnContent(t *testing.T) {
	pathA := writeTempFile(t, "content-a")
	pathB := writeTempFile(t, "content-b")
	cache := newCache(t)

	recA := record.FileRecord{Path: pathA, Name: "same.txt", MTime: 1}
	recB := record.FileRecord{Path: pathB, Name: "same.txt", MTime: 1}

	keyA, err := Key(recA, cache, ignoreset.Set{MDate: true})
	if err != nil {
		t.Fatal(err)
	}
	keyB, err := Key(recB, cache, ignoreset.Set{MDate: true})
	if err != nil {
		t.Fatal(err)
	}
	if keyA == keyB {
		t.Error("different file contents must not produce the same key")
	}
}
