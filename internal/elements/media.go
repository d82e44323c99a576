// =============================================================================
// t4bulk - Media Encoder
// =============================================================================
//
// Resolves media cells. Numeric values are existing media ids; file names
// are read from the media directory and uploaded. A missing file or a
// failed upload drops the column, never the row.
//
// =============================================================================

package elements

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cmsbulk/t4bulk/internal/t4"
	"github.com/cmsbulk/t4bulk/pkg/utils"
)

// MediaUpload references a freshly uploaded file in a media element.
type MediaUpload struct {
	ExistingFile      bool   `json:"existingFile"`
	PreferredFilename string `json:"preferredFilename"`
	Code              string `json:"code"`
}

// Uploader sends local files to the media library.
type Uploader interface {
	Upload(ctx context.Context, req t4.UploadRequest) (*t4.UploadResult, error)
}

// MediaEncoder resolves media cells. Numeric values are existing media ids;
// anything else names a file under Dir that is uploaded.
type MediaEncoder struct {
	Dir      string
	Uploader Uploader
}

// Encode never fails: every problem yields a Skipped result.
func (m *MediaEncoder) Encode(ctx context.Context, raw string, el t4.ElementDefinition) Result {
	if digitsOnly.MatchString(raw) {
		return encoded(raw)
	}

	if raw == "" || raw == "exists" || !strings.Contains(raw, ".") {
		return skipped(fmt.Sprintf("%q is not a media file name", raw))
	}
	if !filepath.IsLocal(raw) {
		return skipped(fmt.Sprintf("%q is outside the media directory", raw))
	}

	path := filepath.Join(m.Dir, raw)
	if !utils.FileExists(path) {
		return skipped(fmt.Sprintf("image file not found at %s", path))
	}

	res, err := m.Uploader.Upload(ctx, t4.UploadRequest{
		File:      path,
		Filename:  raw,
		ElementID: el.ID,
	})
	if err != nil {
		return skipped(fmt.Sprintf("uploading %s: %v", raw, err))
	}
	if res == nil || res.Code == "" {
		return skipped(fmt.Sprintf("upload failed for %s", raw))
	}

	name := res.Name
	if name == "" {
		name = raw
	}
	return encoded(MediaUpload{
		ExistingFile:      false,
		PreferredFilename: name,
		Code:              res.Code,
	})
}
