package vault_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"post-archiver/domain/model"
	"post-archiver/infrastructure/vault"
)

func TestWriteCreatesPlatformFile(t *testing.T) {
	dir := t.TempDir()
	w := vault.NewFileVaultWriter(dir)

	post := &model.PostData{Platform: model.PlatformX, ID: "123456"}
	path, err := w.Write(context.Background(), post, "# hello\n")

	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "x"), filepath.Dir(path))
	assert.Equal(t, time.Now().UTC().Format("2006-01-02")+"-123456.md", filepath.Base(path))

	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "# hello\n", string(content))
}

func TestWriteSanitizesID(t *testing.T) {
	dir := t.TempDir()
	w := vault.NewFileVaultWriter(dir)

	post := &model.PostData{Platform: model.PlatformThreads, ID: "abc/../etc passwd"}
	path, err := w.Write(context.Background(), post, "body")

	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "threads"), filepath.Dir(path))
	assert.NotContains(t, filepath.Base(path), "/")
	assert.NotContains(t, filepath.Base(path), " ")
}
