package controller

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/dustin/go-humanize"

	"ocrdesk/internal/models"
)

const (
	noticeTooLarge    = "File too large! Max 100MB"
	noticeInvalidType = "Invalid file type!"
)

// SelectFile validates the candidate and makes it the current selection. A
// rejected candidate leaves every piece of state untouched.
func (c *Controller) SelectFile(candidate models.Candidate) (*models.SelectedFile, error) {
	file, err := candidate.Validate()
	if err != nil {
		if errors.Is(err, models.ErrTooLarge) {
			c.notify(noticeTooLarge)
		} else {
			c.notify(noticeInvalidType)
		}
		return nil, err
	}

	c.mu.Lock()
	c.session.Generation++
	gen := c.session.Generation
	c.session.File = file
	c.session.Result = nil
	c.session.Summary = nil
	c.session.Options = models.ProcessingOptions{}
	c.showSelectionLocked(file)
	c.mu.Unlock()

	debugLog("selected %s (%s, %s) generation %d", file.Name, file.MediaType, humanize.IBytes(uint64(file.Size)), gen)
	if !file.IsPDF() {
		c.previews.Add(1)
		go c.renderPreview(gen, file)
	}
	return file, nil
}

func (c *Controller) showSelectionLocked(file *models.SelectedFile) {
	v := &c.view
	v.Panel = PanelPreview
	if file.IsPDF() {
		v.Preview = &Preview{Kind: "pdf", Name: file.Name}
		v.LoadingMessage = loadingPDF
	} else {
		v.Preview = &Preview{Kind: "image", Name: file.Name}
		v.LoadingMessage = loadingImage
	}
	if !v.Process.Busy {
		v.Process.Enabled = true
	}
	v.ResultTitle = ""
	v.ResultText = ""
	v.Badge = ""
	v.ActionsVisible = false
	v.setActionsEnabled(false)
	v.SummaryVisible = false
	v.SummaryText = ""
}

// renderPreview reads the image into a data URI. The result is dropped if a newer
// selection was made in the meantime.
func (c *Controller) renderPreview(gen uint64, file *models.SelectedFile) {
	defer c.previews.Done()

	uri, err := dataURI(file)
	if err != nil {
		log.Printf("preview %s failed: %v", file.Name, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Generation != gen || c.view.Preview == nil {
		debugLog("drop stale preview for %s", file.Name)
		return
	}
	c.view.Preview.DataURI = uri
}

func dataURI(file *models.SelectedFile) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file.Name, err)
	}
	return "data:" + file.MediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
