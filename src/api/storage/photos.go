// Package storage keeps complaint photos on local disk and hands back
// public URLs. Objects are namespaced by owner id and timestamp so uploads
// never collide and per-citizen cleanup stays a directory removal.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type PhotoStore struct {
	baseDir string
	baseURL string
}

func NewPhotoStore(baseDir, publicBaseURL string) (*PhotoStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("photo store: %w", err)
	}
	return &PhotoStore{baseDir: baseDir, baseURL: publicBaseURL}, nil
}

// Save writes the photo and returns its public URL.
func (s *PhotoStore) Save(ownerID uint64, data []byte, mime string) (string, error) {
	dir := filepath.Join(s.baseDir, fmt.Sprintf("%d", ownerID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d-%s%s", time.Now().Unix(), uuid.NewString(), extFor(mime))
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/uploads/%d/%s", s.baseURL, ownerID, name), nil
}

func extFor(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
