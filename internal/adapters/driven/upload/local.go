// Package upload provides implementations of the driven.Uploader port.
// The local adapter copies attachment blobs into a content-addressed
// directory under the proctor data dir and returns a file reference,
// which stands in for remote object storage in a single-machine setup.
package upload

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/canopy-labs/proctor-cli/internal/core/ports/driven"
	"github.com/canopy-labs/proctor-cli/internal/logger"
)

// Ensure LocalUploader implements the interface.
var _ driven.Uploader = (*LocalUploader)(nil)

// refScheme prefixes every reference returned by the local uploader.
const refScheme = "file://"

// LocalUploader stores blobs under a local attachments directory.
// References are content-addressed, so uploading the same bytes twice
// yields the same reference and a single stored copy.
type LocalUploader struct {
	dir string
}

// NewLocalUploader creates an uploader rooted at dir. If dir is empty,
// defaults to ~/.proctor/data/attachments.
func NewLocalUploader(dir string) (*LocalUploader, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".proctor", "data", "attachments")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating attachments directory: %w", err)
	}

	return &LocalUploader{dir: dir}, nil
}

// Upload stores a named blob and returns its reference.
func (u *LocalUploader) Upload(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	sum := sha256.Sum256(data)
	stored := hex.EncodeToString(sum[:8]) + "-" + sanitiseName(name)
	path := filepath.Join(u.dir, stored)

	// Same content, same reference. Skip the rewrite.
	if _, err := os.Stat(path); err == nil {
		return refScheme + path, nil
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("writing attachment: %w", err)
	}

	logger.Debug("stored attachment %s (%d bytes)", stored, len(data))
	return refScheme + path, nil
}

// UploadFile reads a local file and stores it.
func (u *LocalUploader) UploadFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return u.Upload(ctx, filepath.Base(path), data)
}

// Dir returns the attachments directory.
func (u *LocalUploader) Dir() string {
	return u.dir
}

// sanitiseName strips path separators and blanks from an attachment
// name so it is safe as a filename component.
func sanitiseName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "attachment"
	}
	return name
}
