// Package vault writes completed archives as markdown files on local
// disk, one file per post.
package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"post-archiver/domain/model"
	"post-archiver/domain/repository"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// FileVaultWriter stores markdown under a configured directory,
// organized by platform.
type FileVaultWriter struct {
	dir string
}

func NewFileVaultWriter(dir string) *FileVaultWriter {
	return &FileVaultWriter{dir: dir}
}

var _ repository.IVaultWriter = &FileVaultWriter{}

func (w *FileVaultWriter) Write(_ context.Context, post *model.PostData, markdown string) (string, error) {
	subdir := filepath.Join(w.dir, string(post.Platform))
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		return "", fmt.Errorf("creating vault directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.md",
		time.Now().UTC().Format("2006-01-02"),
		unsafeChars.ReplaceAllString(post.ID, "_"),
	)
	path := filepath.Join(subdir, name)
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("writing vault file: %w", err)
	}
	return path, nil
}
