package models

import (
	"errors"
	"io"
	"strings"
)

// MaxFileSize is the largest file accepted for processing (100 MiB).
const MaxFileSize = 100 << 20

const (
	MediaTypeJPEG = "image/jpeg"
	MediaTypePNG  = "image/png"
	MediaTypePDF  = "application/pdf"
)

// Opener yields a fresh reader over a file's content.
type Opener func() (io.ReadCloser, error)

// Candidate is a file offered for selection, before validation.
type Candidate struct {
	Name      string
	MediaType string
	Size      int64
	Open      Opener
}

// SelectedFile is a validated candidate. It is replaced, never mutated.
type SelectedFile struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Size      int64  `json:"size"`
	open      Opener
}

// NormalizeMediaType lowercases the type, drops parameters and folds the jpg alias.
func NormalizeMediaType(mediaType string) string {
	mt, _, _ := strings.Cut(mediaType, ";")
	mt = strings.ToLower(strings.TrimSpace(mt))
	if mt == "image/jpg" {
		return MediaTypeJPEG
	}
	return mt
}

// IsSupportedMediaType reports whether the type is one of JPEG, PNG or PDF.
func IsSupportedMediaType(mediaType string) bool {
	switch NormalizeMediaType(mediaType) {
	case MediaTypeJPEG, MediaTypePNG, MediaTypePDF:
		return true
	default:
		return false
	}
}

// Validate checks the size and type invariants and returns the selected file.
func (c Candidate) Validate() (*SelectedFile, error) {
	if c.Size > MaxFileSize {
		return nil, &ValidationError{Kind: ErrTooLarge, Name: c.Name, Size: c.Size, MediaType: c.MediaType}
	}
	if !IsSupportedMediaType(c.MediaType) {
		return nil, &ValidationError{Kind: ErrUnsupportedType, Name: c.Name, Size: c.Size, MediaType: c.MediaType}
	}
	return &SelectedFile{
		Name:      c.Name,
		MediaType: NormalizeMediaType(c.MediaType),
		Size:      c.Size,
		open:      c.Open,
	}, nil
}

// Open returns a reader over the file content.
func (f *SelectedFile) Open() (io.ReadCloser, error) {
	if f == nil || f.open == nil {
		return nil, errors.New("file content unavailable")
	}
	return f.open()
}

func (f *SelectedFile) IsPDF() bool {
	return f != nil && f.MediaType == MediaTypePDF
}
