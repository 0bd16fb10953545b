package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medprep/medprep-backend/internal/config"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrBlobNotFound        = errors.New("blob not found")
)

// Allowed MIME types for question and category media.
var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"audio/mpeg": ".mp3",
	"audio/ogg":  ".ogg",
	"audio/wav":  ".wav",
	"video/mp4":  ".mp4",
	"video/webm": ".webm",
}

// MediaService is the blob store gateway. Uploads are stored on local disk
// keyed by an opaque blob id; records reference blobs by id only and this
// layer never inspects blob content.
type MediaService struct {
	cfg *config.Config
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{cfg: cfg}
}

// SaveUpload stores an uploaded file under a fresh blob id.
// Returns the blob id and its public URL path.
func (s *MediaService) SaveUpload(file multipart.File, header *multipart.FileHeader) (blobID, url string, err error) {
	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return "", "", fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, contentType, strings.Join(allowedTypes(), ", "))
	}

	if header.Size > s.cfg.MaxUploadBytes {
		return "", "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}

	blobID = uuid.New().String() + ext
	destPath := filepath.Join(s.cfg.UploadDir, blobID)

	dst, err := os.Create(destPath)
	if err != nil {
		return "", "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", "", fmt.Errorf("write file: %w", err)
	}

	return blobID, s.URL(blobID), nil
}

// URL returns the public URL path for a blob id.
func (s *MediaService) URL(blobID string) string {
	return "/uploads/" + blobID
}

// BlobMetadata describes a stored blob without exposing its content.
type BlobMetadata struct {
	BlobID      string    `json:"blob_id"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Stat returns metadata for a stored blob. The content type is derived from
// the extension baked into the blob id at upload time.
func (s *MediaService) Stat(blobID string) (*BlobMetadata, error) {
	if blobID == "" || blobID != filepath.Base(blobID) {
		return nil, ErrBlobNotFound
	}

	info, err := os.Stat(filepath.Join(s.cfg.UploadDir, blobID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("stat blob: %w", err)
	}

	contentType := ""
	ext := filepath.Ext(blobID)
	for mimeType, mimeExt := range allowedMIMETypes {
		if mimeExt == ext {
			contentType = mimeType
			break
		}
	}

	return &BlobMetadata{
		BlobID:      blobID,
		URL:         s.URL(blobID),
		ContentType: contentType,
		SizeBytes:   info.Size(),
		UploadedAt:  info.ModTime(),
	}, nil
}

// Delete removes a stored blob. Blob ids are opaque but must not escape the
// upload directory.
func (s *MediaService) Delete(blobID string) error {
	if blobID == "" || blobID != filepath.Base(blobID) {
		return ErrBlobNotFound
	}

	path := filepath.Join(s.cfg.UploadDir, blobID)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrBlobNotFound
		}
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	return types
}
