package hashcache

import (
	"encoding/hex"
	"io"
	"os"

	"github.com/niradar/duplicate-files-in-folders/internal/corerr"
)

// Hashing-mode buffer/window sizes (design defaults from the spec).
const (
	fullHashBufferSize = 8 * 1024 * 1024 // 8 MiB streaming buffer
	partialHashBytes   = 2 * 1024 * 1024 // 2 MiB partial-hash window
)

// Mode selects full-file vs. first-N-bytes hashing.
type Mode int

const (
	// ModeFull hashes the whole file contents.
	ModeFull Mode = iota
	// ModePartial hashes only the first partialHashBytes bytes.
	ModePartial
)

func (m Mode) fileSuffix() string {
	if m == ModeFull {
		return "full"
	}
	return "partial"
}

// hashFile computes the hex-encoded digest of path under the given mode
// and algorithm.
func hashFile(path string, mode Mode, algo Algorithm) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", corerr.New(corerr.KindNotFound, path, "file not found", err)
		}
		return "", corerr.Wrap(corerr.KindHashIOError, path, err)
	}
	defer f.Close()

	h, err := algo.New()
	if err != nil {
		return "", corerr.Wrap(corerr.KindHashIOError, path, err)
	}

	var reader io.Reader = f
	if mode == ModePartial {
		reader = io.LimitReader(f, partialHashBytes)
	}

	buf := make([]byte, fullHashBufferSize)
	if _, err := io.CopyBuffer(h, reader, buf); err != nil {
		return "", corerr.Wrap(corerr.KindHashIOError, path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
