// Package download saves generated files: into a directory for the CLI, or into a
// one-shot blob store served by the desk.
package download

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Filename builds extracted_[translated_]<unix millis>.<ext>.
func Filename(translated bool, ext string, now time.Time) string {
	marker := ""
	if translated {
		marker = "translated_"
	}
	return fmt.Sprintf("extracted_%s%d.%s", marker, now.UnixMilli(), ext)
}

// DirDownloader writes downloads into Dir.
type DirDownloader struct {
	Dir string

	mu    sync.Mutex
	saved []string
}

func NewDirDownloader(dir string) *DirDownloader {
	return &DirDownloader{Dir: dir}
}

// TriggerDownload writes through a temp file renamed into place. The temp file
// never outlives the call.
func (d *DirDownloader) TriggerDownload(ctx context.Context, data []byte, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create download dir: %w", err)
	}
	tmp, err := os.CreateTemp(d.Dir, ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filename, err)
	}
	dest := filepath.Join(d.Dir, filepath.Base(filename))
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}

	d.mu.Lock()
	d.saved = append(d.saved, dest)
	d.mu.Unlock()
	log.Printf("saved %s (%s)", dest, humanize.Bytes(uint64(len(data))))
	return nil
}

// Saved lists the paths written so far.
func (d *DirDownloader) Saved() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.saved...)
}
