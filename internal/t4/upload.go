// =============================================================================
// t4bulk - Media Upload
// =============================================================================
//
// Multipart upload of a local file to the media library.
//
// =============================================================================

package t4

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// Upload sends a local file to the media upload endpoint. The returned code
// is what a media element references until the content is saved.
func (c *Client) Upload(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	f, err := os.Open(req.File)
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	filename := req.Filename
	if filename == "" {
		filename = filepath.Base(req.File)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copying %s: %w", req.File, err)
	}
	if err := mw.WriteField("filename", filename); err != nil {
		return nil, err
	}
	if err := mw.WriteField("elementID", strconv.Itoa(req.ElementID)); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("upload"), &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	var res UploadResult
	if err := c.send(httpReq, "upload", &res); err != nil {
		return nil, err
	}
	return &res, nil
}
