package event

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// ErrNotImage is returned when a photo file does not contain image data
var ErrNotImage = errors.New("Photo must be an image")

// Photo is an image attached to a draft
type Photo struct {
	Name string
	Data []byte
}

// NewPhoto creates a Photo with validation
func NewPhoto(name string, data []byte) (*Photo, error) {
	if name == "" {
		return nil, fmt.Errorf("photo name cannot be empty")
	}
	return &Photo{Name: name, Data: data}, nil
}

// LoadPhoto reads an image file from disk. Files that are not images are
// rejected with ErrNotImage.
func LoadPhoto(path string) (*Photo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}

	photo := &Photo{Name: filepath.Base(path), Data: data}
	if !photo.IsImage() {
		return nil, ErrNotImage
	}

	return photo, nil
}

// Size returns the photo size in bytes
func (p *Photo) Size() int64 {
	if p == nil {
		return 0
	}
	return int64(len(p.Data))
}

// ContentType sniffs the MIME type of the photo data
func (p *Photo) ContentType() string {
	return mimetype.Detect(p.Data).String()
}

// IsImage reports whether the photo data looks like an image
func (p *Photo) IsImage() bool {
	for m := mimetype.Detect(p.Data); m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}
