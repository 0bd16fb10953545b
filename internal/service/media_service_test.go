package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/medprep/medprep-backend/internal/config"
)

func newTestMediaService(t *testing.T) *MediaService {
	t.Helper()
	return NewMediaService(&config.Config{
		UploadDir:      t.TempDir(),
		MaxUploadBytes: 1 << 20,
	})
}

func TestStatReturnsBlobMetadata(t *testing.T) {
	svc := newTestMediaService(t)

	blobID := "deadbeef.png"
	payload := []byte("not really a png")
	if err := os.WriteFile(filepath.Join(svc.cfg.UploadDir, blobID), payload, 0o644); err != nil {
		t.Fatalf("write blob: %v", err)
	}

	meta, err := svc.Stat(blobID)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if meta.BlobID != blobID {
		t.Errorf("BlobID = %q, want %q", meta.BlobID, blobID)
	}
	if meta.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png", meta.ContentType)
	}
	if meta.SizeBytes != int64(len(payload)) {
		t.Errorf("SizeBytes = %d, want %d", meta.SizeBytes, len(payload))
	}
	if meta.URL != "/uploads/"+blobID {
		t.Errorf("URL = %q, want /uploads/%s", meta.URL, blobID)
	}
}

func TestStatMissingBlob(t *testing.T) {
	svc := newTestMediaService(t)

	if _, err := svc.Stat("missing.png"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("err = %v, want ErrBlobNotFound", err)
	}
}

func TestStatRejectsPathTraversal(t *testing.T) {
	svc := newTestMediaService(t)

	for _, blobID := range []string{"", "../secret.png", "a/b.png"} {
		if _, err := svc.Stat(blobID); !errors.Is(err, ErrBlobNotFound) {
			t.Errorf("Stat(%q) err = %v, want ErrBlobNotFound", blobID, err)
		}
	}
}

func TestDeleteRejectsPathTraversal(t *testing.T) {
	svc := newTestMediaService(t)

	if err := svc.Delete("../escape.png"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("err = %v, want ErrBlobNotFound", err)
	}
}
