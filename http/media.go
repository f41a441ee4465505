package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/lithammer/shortuuid/v3"
)

// MediaStore writes uploaded images under a local media directory and
// returns the stored path for the record.
type MediaStore struct {
	dir string
}

func NewMediaStore(dir string) (*MediaStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating media dir: %w", err)
	}
	return &MediaStore{dir: dir}, nil
}

func (s *MediaStore) Save(resource string, id int64, fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%s-%d-%s%s", resource, id, shortuuid.New(), filepath.Ext(fileHeader.Filename))
	path := filepath.Join(s.dir, resource, name)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating media subdir: %w", err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating media file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("writing media file: %w", err)
	}

	return path, nil
}
