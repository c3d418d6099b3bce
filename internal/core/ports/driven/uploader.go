package driven

import "context"

// Uploader hands raw attachment blobs to external storage and returns a
// stable reference string. The core never talks to storage directly; it
// only records the returned reference.
type Uploader interface {
	// Upload stores a named blob and returns its reference.
	Upload(ctx context.Context, name string, data []byte) (string, error)

	// UploadFile reads a local file and stores it.
	UploadFile(ctx context.Context, path string) (string, error)
}
