package hashcache

import (
	"encoding/gob"
	"os"
	"path/filepath"
)

// readStoreFile decodes the gob-encoded entry slice at path. Returns
// os.ErrNotExist (wrapped) if the file does not exist, matching the
// caller's "no on-disk store yet" handling.
func readStoreFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	if err := gob.NewDecoder(f).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// writeStoreFileAtomic writes entries to path by writing a temporary
// sibling file and renaming it into place, so a crash mid-write never
// leaves a half-written store file.
func writeStoreFileAtomic(path string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".hashcache-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(entries); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}
