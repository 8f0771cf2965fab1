package blob

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"veritas/pkg/platform/sentinel"
)

// HTTPUploader PUTs file content to a bucket-style endpoint keyed by file
// name. The object URL is derived from the name, so repeated uploads of the
// same capture overwrite in place rather than duplicating.
type HTTPUploader struct {
	baseURL string
	client  *http.Client
}

func NewHTTPUploader(baseURL string, timeout time.Duration) *HTTPUploader {
	return &HTTPUploader{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (u *HTTPUploader) Upload(ctx context.Context, localRef, fileName string) (string, error) {
	f, err := os.Open(localRef)
	if err != nil {
		return "", fmt.Errorf("open %s: %w: %w", localRef, sentinel.ErrContentUnavailable, err)
	}
	defer f.Close()

	objectURL := u.baseURL + "/evidence/" + url.PathEscape(fileName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, objectURL, f)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if info, err := f.Stat(); err == nil {
		req.ContentLength = info.Size()
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w: %w", fileName, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("upload %s: status %d: %w", fileName, resp.StatusCode, sentinel.ErrUnavailable)
	}
	return objectURL, nil
}
