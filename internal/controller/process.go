package controller

import (
	"context"
	"errors"
	"log"

	"ocrdesk/internal/models"
)

const genericProcessingFailure = "Processing failed"

// Process submits the current selection. Without a selection, or while a previous
// submission is in flight, it does nothing and returns nil, nil.
func (c *Controller) Process(ctx context.Context, opts models.ProcessingOptions) (*models.OcrResult, error) {
	c.mu.Lock()
	file := c.session.File
	if file == nil || !c.beginLocked(&c.view.Process, "") {
		c.mu.Unlock()
		return nil, nil
	}
	gen := c.session.Generation
	c.view.Panel = PanelLoading
	c.view.ActionsVisible = false
	c.view.setActionsEnabled(false)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.view.Panel == PanelLoading {
			c.view.Panel = PanelPreview
		}
		c.mu.Unlock()
		c.finish(func(v *View) *Trigger { return &v.Process }, LabelProcess)
	}()

	outcome, err := c.service.Process(ctx, file, opts)
	if err != nil {
		log.Printf("process %s failed: %v", file.Name, err)
		var transport *models.TransportError
		if errors.As(err, &transport) {
			c.notify("Network error: " + transport.Cause.Error())
		} else {
			c.notify("Error: " + err.Error())
		}
		return nil, err
	}
	if !outcome.OK() {
		log.Printf("process %s rejected: %v", file.Name, outcome.Failure)
		msg := outcome.Failure.Message
		if msg == "" || outcome.Failure.Malformed {
			msg = genericProcessingFailure
		}
		c.notify("Error: " + msg)
		return nil, outcome.Failure
	}

	result := outcome.Result
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Generation != gen {
		debugLog("discard result for %s: selection changed", file.Name)
		return nil, ErrSuperseded
	}
	c.session.Result = result
	c.session.Options = opts
	c.session.Summary = nil
	c.showResultLocked(result)
	return result, nil
}
