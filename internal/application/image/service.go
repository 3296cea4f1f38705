package image

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/dogli-api/internal/domain"
	"github.com/dogli-api/internal/pkg/id"
)

// Kind is the entity an image belongs to; it is the first segment of the key.
type Kind string

const (
	KindUser Kind = "users"
	KindDog  Kind = "dogs"
	KindPark Kind = "parks"
)

// DefaultsPrefix holds the shared default images. Objects under it are never removed.
const DefaultsPrefix = "defaults/"

type UploadInput struct {
	Kind        Kind
	OwnerID     string
	Filename    string
	ContentType string
	Reader      io.Reader
}

type Service interface {
	// Upload stores a profile image and returns its public URL.
	Upload(ctx context.Context, in UploadInput) (string, error)
	// Remove deletes an image previously returned by Upload. URLs that do not
	// belong to the store are ignored.
	Remove(ctx context.Context, url string) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

type service struct {
	store objectStore
}

func NewService(store objectStore) Service {
	return &service{store: store}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (string, error) {
	if in.OwnerID == "" {
		return "", fmt.Errorf("image owner is required: %w", domain.ErrBadRequest)
	}
	safeName := sanitizeFilename(in.Filename)
	contentType := in.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeFromName(safeName)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("unsupported content type %q: %w", contentType, domain.ErrBadRequest)
	}
	key := fmt.Sprintf("%s/%s/%s-%s", in.Kind, in.OwnerID, id.New(), safeName)
	return s.store.Upload(ctx, key, in.Reader, contentType)
}

func (s *service) Remove(ctx context.Context, url string) error {
	key, ok := s.store.KeyFromURL(url)
	if !ok || strings.HasPrefix(key, DefaultsPrefix) {
		return nil
	}
	return s.store.Delete(ctx, key)
}

func contentTypeFromName(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	default:
		return "application/octet-stream"
	}
}

// sanitizeFilename strips directory components and keeps only safe characters
// (alphanumeric, dot, dash, underscore) to prevent path traversal in S3 keys.
func sanitizeFilename(name string) string {
	name = path.Base(name)
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if result := b.String(); result != "" && result != "." {
		return result
	}
	return "_"
}
