// Package controller drives one OCR desk session: file selection, processing,
// and the follow-on export, audio and summary actions, rendered into a View.
package controller

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"ocrdesk/internal/models"
	"ocrdesk/internal/ocrapi"
)

// Service is the remote OCR API.
type Service interface {
	Process(ctx context.Context, file *models.SelectedFile, opts models.ProcessingOptions) (models.ProcessingOutcome, error)
	Export(ctx context.Context, format models.ExportFormat, body ocrapi.ExportRequest) ([]byte, error)
	Speech(ctx context.Context, body ocrapi.SpeechRequest) ([]byte, error)
	Summarize(ctx context.Context, body ocrapi.SummaryRequest) (*ocrapi.SummaryResponse, error)
}

// Downloader saves a generated file under the given name.
type Downloader interface {
	TriggerDownload(ctx context.Context, data []byte, filename string) error
}

// Notifier shows a blocking message to the user.
type Notifier interface {
	Notify(message string)
}

// ErrNoText is returned when an action needs extracted text and there is none.
var ErrNoText = errors.New("no text available")

// ErrSuperseded is returned when a response arrives after a newer selection.
var ErrSuperseded = errors.New("selection changed while request was in flight")

// Session is the state shared by the action handlers.
type Session struct {
	File       *models.SelectedFile
	Result     *models.OcrResult
	Options    models.ProcessingOptions // options that produced Result
	Summary    *models.SummaryResult
	Generation uint64 // bumped by every accepted selection
}

// Translated reports whether the current result was machine-translated.
func (s *Session) Translated() bool {
	return s.Result != nil && s.Result.Translated
}

// TranslateLang is the language the current result was translated to, if any.
func (s *Session) TranslateLang() string {
	if !s.Translated() {
		return ""
	}
	if s.Result.TranslateLang != "" {
		return s.Result.TranslateLang
	}
	return s.Options.TranslateTo
}

type Option func(*Controller)

// WithSession starts the controller from existing state.
func WithSession(s *Session) Option {
	return func(c *Controller) {
		if s != nil {
			c.session = s
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// Controller owns a Session and its View. The mutex guards both and is never
// held across a request.
type Controller struct {
	service    Service
	downloader Downloader
	notifier   Notifier
	now        func() time.Time

	mu      sync.Mutex
	session *Session
	view    View

	previews sync.WaitGroup
}

func New(service Service, downloader Downloader, opts ...Option) *Controller {
	c := &Controller{
		service:    service,
		downloader: downloader,
		now:        time.Now,
		session:    &Session{},
		view:       initialView(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.renderSessionLocked()
	return c
}

// View returns a copy of the current view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.clone()
}

// DrainNotices returns the pending notices and clears them.
func (c *Controller) DrainNotices() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	notices := c.view.Notices
	c.view.Notices = make([]string, 0)
	return notices
}

// Snapshot returns a copy of the session state.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.session
}

// Wait blocks until background preview rendering has finished.
func (c *Controller) Wait() {
	c.previews.Wait()
}

// notify must be called without c.mu held.
func (c *Controller) notify(message string) {
	log.Printf("notice: %s", message)
	c.mu.Lock()
	c.view.Notices = append(c.view.Notices, message)
	c.mu.Unlock()
	if c.notifier != nil {
		c.notifier.Notify(message)
	}
}

// beginLocked claims a trigger for one request. It reports false when the trigger is
// disabled or already busy, in which case the caller does nothing.
func (c *Controller) beginLocked(t *Trigger, busyLabel string) bool {
	if !t.Enabled || t.Busy {
		return false
	}
	t.Enabled = false
	t.Busy = true
	if busyLabel != "" {
		t.Label = busyLabel
	}
	return true
}

// finish releases a trigger claimed by beginLocked and restores its label. The
// process trigger is always re-enabled; an action trigger only while a result is
// shown.
func (c *Controller) finish(pick func(*View) *Trigger, label string) {
	c.mu.Lock()
	t := pick(&c.view)
	t.Busy = false
	t.Label = label
	if t == &c.view.Process {
		t.Enabled = true
	} else {
		t.Enabled = c.session.Result != nil && c.view.ActionsVisible
	}
	c.mu.Unlock()
}

func (c *Controller) renderSessionLocked() {
	s := c.session
	if s.File == nil {
		return
	}
	c.showSelectionLocked(s.File)
	if s.Result != nil {
		c.showResultLocked(s.Result)
		if s.Summary != nil {
			c.view.SummaryVisible = true
			c.view.SummaryText = s.Summary.Text
		}
	}
}

func (c *Controller) showResultLocked(r *models.OcrResult) {
	text := r.Text
	if text == "" {
		text = noTextShown
	}
	c.view.Panel = PanelResult
	c.view.ResultTitle = Heading(r)
	c.view.ResultText = text
	c.view.Badge = Badge(r)
	c.view.ActionsVisible = true
	c.view.setActionsEnabled(true)
	c.view.SummaryVisible = false
	c.view.SummaryText = ""
}
