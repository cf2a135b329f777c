package formatter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/desertthunder/jspfx/internal/shared"
)

// unsafeChars are encoded in file names on every platform.
const unsafeChars = `/\:*?"<>|%`

// MaxNameBytes caps the encoded base name, leaving room for " (N)" and the extension under a 255 byte limit.
const MaxNameBytes = 200

// EncodeName percent-encodes path separators, reserved characters, '%' and control characters.
//
// An empty name becomes "playlist". The result is cut to [MaxNameBytes] without splitting an escape or a rune.
func EncodeName(name string) string {
	if name == "" {
		return "playlist"
	}

	var b strings.Builder
	for i := 0; i < len(name); {
		c := name[i]
		w := 1
		var piece string
		switch {
		case c < 0x20 || c == 0x7f || strings.IndexByte(unsafeChars, c) >= 0:
			piece = fmt.Sprintf("%%%02X", c)
		case c < utf8.RuneSelf:
			piece = name[i : i+1]
		default:
			_, w = utf8.DecodeRuneInString(name[i:])
			piece = name[i : i+w]
		}
		if b.Len()+len(piece) > MaxNameBytes {
			break
		}
		b.WriteString(piece)
		i += w
	}
	return b.String()
}

// IsNameError reports whether err was caused by one file name rather than by the directory it lives in.
func IsNameError(err error) bool {
	return errors.Is(err, syscall.ENAMETOOLONG) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EILSEQ)
}

// AllocatePath returns the first free path among "<name>.ext", "<name> (1).ext", "<name> (2).ext" and so on.
//
// Allocation is sequential and not atomic: a concurrent writer can still take the returned path.
func AllocatePath(dir, name, ext string) (string, error) {
	base := EncodeName(name)
	ext = strings.TrimPrefix(ext, ".")

	for n := 0; ; n++ {
		file := base + "." + ext
		if n > 0 {
			file = fmt.Sprintf("%s (%d).%s", base, n, ext)
		}

		path := filepath.Join(dir, file)
		_, err := os.Lstat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", shared.ErrWriteOutput, err)
		}
	}
}

// EnsureDir creates dir and its parents. Errors wrap [shared.ErrOutputDir].
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrOutputDir, err)
	}
	return nil
}
