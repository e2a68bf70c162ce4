package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"paradise-vista/configs"

	"github.com/google/uuid"
)

var ErrInvalidPath = errors.New("invalid object path")

// Storage keeps uploaded site images, addressed by bucket-relative paths.
type Storage interface {
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	GetURL(ctx context.Context, path string) (string, error)
}

type Config struct {
	Type      string // local, s3
	BasePath  string // local root directory
	BaseURL   string // public URL prefix
	Bucket    string
	Region    string
	Endpoint  string // custom S3-compatible endpoint
	AccessKey string
	SecretKey string
}

func ConfigFrom(cfg *configs.Config) Config {
	return Config{
		Type:      cfg.StorageType,
		BasePath:  cfg.StorageBasePath,
		BaseURL:   cfg.StorageBaseURL,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	}
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// ObjectPath builds <bucket>/<yyyy>/<mm>/<uuid><ext> for a new upload.
func ObjectPath(bucket, ext string, now time.Time) string {
	return fmt.Sprintf("%s/%04d/%02d/%s%s", bucket, now.Year(), int(now.Month()), uuid.NewString(), strings.ToLower(ext))
}

// CleanPath rejects absolute paths and any attempt to leave the storage root.
func CleanPath(p string) (string, error) {
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(p)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}
