// Package artifact writes the screenshots the verifiers produce.
package artifact

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultPath is where both verifiers leave their screenshot. It is relative to
// the working directory and overwritten on every run.
const DefaultPath = "jules-scratch/verification/verification.png"

var (
	ErrEmpty  = errors.New("screenshot is empty")
	ErrNotPNG = errors.New("screenshot is not a PNG")
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// Save writes png to path on fs, creating parent directories and replacing any
// previous file. It returns the number of bytes written.
func Save(fs afero.Fs, path string, png []byte) (int, error) {
	if len(png) == 0 {
		return 0, ErrEmpty
	}
	if !bytes.HasPrefix(png, pngSignature) {
		return 0, ErrNotPNG
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := fs.MkdirAll(dir, 0o775); err != nil {
			return 0, fmt.Errorf("creating screenshot dir %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(fs, path, png, 0o664); err != nil {
		return 0, fmt.Errorf("writing screenshot %s: %w", path, err)
	}
	return len(png), nil
}
