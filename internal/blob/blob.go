// Package blob moves captured media bytes to durable content storage.
package blob

import "context"

// Uploader pushes a local file to content storage and returns its remote
// URL. Uploads are idempotent by fileName: re-uploading the same name
// yields the same URL, which lets an interrupted sync repeat the step
// safely.
type Uploader interface {
	Upload(ctx context.Context, localRef, fileName string) (string, error)
}
