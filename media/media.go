// path: media/media.go

// Package media turns user-selected photos into storable representations:
// an inline data URI for small files, or an object-storage URL for
// originals too large to embed.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// MaxInlineBytes caps the raw size of an image embedded directly inside a
// report document.
const MaxInlineBytes = 1 << 20 // 1 MiB

var (
	ErrFileTooLarge    = errors.New("image exceeds the 1 MiB inline limit")
	ErrUnsupportedType = errors.New("only image files are supported")
)

// EncodeImage produces a self-describing inline representation (a data
// URI) of an image, suitable for direct storage in a report document and
// later direct rendering. The size cap applies to the raw bytes, before
// base64 expansion.
func EncodeImage(mimeType string, data []byte) (string, error) {
	if !strings.HasPrefix(mimeType, "image/") {
		return "", fmt.Errorf("%w (got %q)", ErrUnsupportedType, mimeType)
	}
	if len(data) > MaxInlineBytes {
		return "", fmt.Errorf("%w (%d bytes)", ErrFileTooLarge, len(data))
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
