package controller

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"ocrdesk/internal/models"
	"ocrdesk/internal/ocrapi"
	"ocrdesk/internal/ocrapi/ocrapitest"
)

var fixedNow = time.UnixMilli(1700000000000)

type memDownloader struct {
	mu    sync.Mutex
	names []string
	files map[string][]byte
	err   error
}

func (d *memDownloader) TriggerDownload(ctx context.Context, data []byte, filename string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	if d.files == nil {
		d.files = make(map[string][]byte)
	}
	d.names = append(d.names, filename)
	d.files[filename] = data
	return nil
}

func (d *memDownloader) Names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.names...)
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *recordingNotifier) Notify(message string) {
	n.mu.Lock()
	n.msgs = append(n.msgs, message)
	n.mu.Unlock()
}

func (n *recordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

func (n *recordingNotifier) Last() string {
	msgs := n.Messages()
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

type fixture struct {
	srv       *ocrapitest.Server
	ctrl      *Controller
	downloads *memDownloader
	notices   *recordingNotifier
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	srv := ocrapitest.NewServer()
	t.Cleanup(srv.Close)
	f := &fixture{
		srv:       srv,
		downloads: &memDownloader{},
		notices:   &recordingNotifier{},
	}
	opts = append([]Option{WithNotifier(f.notices), WithClock(func() time.Time { return fixedNow })}, opts...)
	f.ctrl = New(ocrapi.NewClient(srv.URL), f.downloads, opts...)
	t.Cleanup(f.ctrl.Wait)
	return f
}

func memCandidate(name, mediaType string, data []byte) models.Candidate {
	return models.Candidate{
		Name:      name,
		MediaType: mediaType,
		Size:      int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func (f *fixture) selectPNG(t *testing.T) *models.SelectedFile {
	t.Helper()
	file, err := f.ctrl.SelectFile(memCandidate("scan.png", "image/png", []byte("\x89PNG-data")))
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	return file
}

func (f *fixture) process(t *testing.T, opts models.ProcessingOptions) *models.OcrResult {
	t.Helper()
	result, err := f.ctrl.Process(context.Background(), opts)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if result == nil {
		t.Fatalf("process returned no result")
	}
	return result
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func intPtr(v int) *int { return &v }
