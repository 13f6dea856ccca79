package extract

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gerenciadoc/gerenciadoc/constants"
)

// ErrUnsupportedFormat is returned by IdentifyKind for extensions outside
// the supported set. The orchestrator converts it into the empty-result
// fallback; it never fails an upload.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// IdentifyKind maps a file path to the extraction strategy kind based on
// its extension, case-insensitively.
func IdentifyKind(path string) (constants.FileKind, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	kind := constants.MapExtToKind(ext)
	if kind == "" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return kind, nil
}
