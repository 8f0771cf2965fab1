package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"veritas/pkg/platform/sentinel"
)

// DirUploader copies media into a local directory and returns a file URL.
// It keeps the full pipeline runnable on a disconnected device; a later
// sync against real storage re-runs the upload step idempotently.
type DirUploader struct {
	mu  sync.Mutex
	dir string
}

func NewDirUploader(dir string) (*DirUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob directory: %w: %w", sentinel.ErrStorage, err)
	}
	return &DirUploader{dir: dir}, nil
}

func (u *DirUploader) Upload(_ context.Context, localRef, fileName string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	src, err := os.Open(localRef)
	if err != nil {
		return "", fmt.Errorf("open %s: %w: %w", localRef, sentinel.ErrContentUnavailable, err)
	}
	defer src.Close()

	dstPath := filepath.Join(u.dir, filepath.Base(fileName))
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create blob %s: %w: %w", fileName, sentinel.ErrStorage, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copy blob %s: %w: %w", fileName, sentinel.ErrStorage, err)
	}
	abs, err := filepath.Abs(dstPath)
	if err != nil {
		abs = dstPath
	}
	return "file://" + abs, nil
}
