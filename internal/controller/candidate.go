package controller

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"ocrdesk/internal/models"
)

// CandidateFromPath offers a file on disk. The media type is detected from content.
func CandidateFromPath(path string) (models.Candidate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return models.Candidate{}, fmt.Errorf("%s is a directory", path)
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("detect type of %s: %w", path, err)
	}
	return models.Candidate{
		Name:      filepath.Base(path),
		MediaType: mt.String(),
		Size:      info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// CandidateFromUpload offers an uploaded part. The declared Content-Type wins;
// detection is the fallback. Oversized parts are never read.
func CandidateFromUpload(fh *multipart.FileHeader) (models.Candidate, error) {
	candidate := models.Candidate{
		Name:      filepath.Base(fh.Filename),
		MediaType: fh.Header.Get("Content-Type"),
		Size:      fh.Size,
	}
	if fh.Size > models.MaxFileSize {
		return candidate, nil
	}

	f, err := fh.Open()
	if err != nil {
		return candidate, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return candidate, fmt.Errorf("read upload: %w", err)
	}
	if candidate.MediaType == "" || candidate.MediaType == "application/octet-stream" {
		candidate.MediaType = mimetype.Detect(data).String()
	}
	candidate.Open = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return candidate, nil
}
