package controller

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ocrdesk/internal/download"
	"ocrdesk/internal/models"
	"ocrdesk/internal/ocrapi"
)

const (
	noticeDownloadFailed = "Download failed"
	noticeNoSummaryText  = "No text available to summarize"
	noticeSummaryFailed  = "Failed to generate summary"
	defaultSourceName    = "document"
	audioExtension       = "mp3"
)

func exportTrigger(format models.ExportFormat) func(*View) *Trigger {
	if format == models.FormatDocument {
		return func(v *View) *Trigger { return &v.ExportDocument }
	}
	return func(v *View) *Trigger { return &v.ExportText }
}

func exportLabel(format models.ExportFormat) string {
	if format == models.FormatDocument {
		return LabelExportDocument
	}
	return LabelExportText
}

// Export downloads the current result as a text or document file. Without a
// result it does nothing.
func (c *Controller) Export(ctx context.Context, format models.ExportFormat) error {
	if _, err := models.ParseExportFormat(string(format)); err != nil {
		return err
	}
	pick := exportTrigger(format)

	c.mu.Lock()
	if c.session.Result == nil || !c.beginLocked(pick(&c.view), "") {
		c.mu.Unlock()
		return nil
	}
	body := c.exportRequestLocked()
	c.mu.Unlock()
	defer c.finish(pick, exportLabel(format))

	action := "export " + string(format)
	data, err := c.service.Export(ctx, format, body)
	if err != nil {
		return c.downloadFailed(action, err)
	}
	return c.save(ctx, action, data, download.Filename(body.Translated, string(format), c.now()))
}

// GenerateAudio downloads the current text as speech. Without text it does nothing.
func (c *Controller) GenerateAudio(ctx context.Context, gender, tone string) error {
	pick := func(v *View) *Trigger { return &v.Audio }

	c.mu.Lock()
	if c.session.Result == nil || c.session.Result.Text == "" || !c.beginLocked(pick(&c.view), LabelAudioBusy) {
		c.mu.Unlock()
		return nil
	}
	body := ocrapi.SpeechRequest{
		ExportRequest: c.exportRequestLocked(),
		Gender:        gender,
		Tone:          tone,
	}
	c.mu.Unlock()
	defer c.finish(pick, LabelAudio)

	data, err := c.service.Speech(ctx, body)
	if err != nil {
		return c.downloadFailed("audio", err)
	}
	return c.save(ctx, "audio", data, download.Filename(body.Translated, audioExtension, c.now()))
}

// GenerateSummary summarizes the current text and shows it in the summary panel.
func (c *Controller) GenerateSummary(ctx context.Context, mode string) error {
	pick := func(v *View) *Trigger { return &v.Summary }

	c.mu.Lock()
	if t := pick(&c.view); t.Busy {
		c.mu.Unlock()
		return nil
	}
	result := c.session.Result
	if result == nil || result.Text == "" {
		c.mu.Unlock()
		c.notify(noticeNoSummaryText)
		return ErrNoText
	}
	if !c.beginLocked(pick(&c.view), LabelSummaryBusy) {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()
	defer c.finish(pick, LabelSummary)

	resp, err := c.service.Summarize(ctx, ocrapi.SummaryRequest{Text: result.Text, Mode: mode})
	if err != nil {
		log.Printf("summary failed: %v", err)
		var status *ocrapi.StatusError
		if errors.As(err, &status) {
			c.notify(noticeSummaryFailed)
			return &models.ActionError{Action: "summary", Status: status.Status, Cause: err}
		}
		c.notify("Error: " + err.Error())
		return &models.ActionError{Action: "summary", Cause: err}
	}
	if resp.Summary == "" {
		c.notify(noticeSummaryFailed)
		return &models.ActionError{Action: "summary", Cause: errors.New("response has no summary")}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Result != result {
		debugLog("discard summary: result replaced")
		return ErrSuperseded
	}
	c.session.Summary = &models.SummaryResult{Text: resp.Summary, Mode: mode}
	c.view.SummaryVisible = true
	c.view.SummaryText = resp.Summary
	return nil
}

func (c *Controller) exportRequestLocked() ocrapi.ExportRequest {
	s := c.session
	body := ocrapi.ExportRequest{
		Text:       s.Result.Text,
		Filename:   defaultSourceName,
		Translated: s.Translated(),
	}
	if s.File != nil {
		body.Filename = s.File.Name
	}
	if lang := s.TranslateLang(); lang != "" {
		body.TranslateLang = &lang
	}
	return body
}

func (c *Controller) downloadFailed(action string, err error) error {
	log.Printf("%s failed: %v", action, err)
	var status *ocrapi.StatusError
	if errors.As(err, &status) {
		c.notify(noticeDownloadFailed)
		return &models.ActionError{Action: action, Status: status.Status, Cause: err}
	}
	c.notify("Error: " + err.Error())
	return &models.ActionError{Action: action, Cause: err}
}

func (c *Controller) save(ctx context.Context, action string, data []byte, filename string) error {
	if err := c.downloader.TriggerDownload(ctx, data, filename); err != nil {
		log.Printf("%s save failed: %v", action, err)
		c.notify("Error: " + err.Error())
		return &models.ActionError{Action: action, Cause: fmt.Errorf("save %s: %w", filename, err)}
	}
	return nil
}
