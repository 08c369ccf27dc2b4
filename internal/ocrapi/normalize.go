package ocrapi

import (
	"encoding/json"

	"ocrdesk/internal/models"
)

// ocrResponse mirrors the /api/ocr body. Every field is optional on the wire.
type ocrResponse struct {
	Success       *bool           `json:"success"`
	Text          json.RawMessage `json:"text"` // present even when null
	Confidence    *float64        `json:"confidence"`
	WordCount     *int            `json:"word_count"`
	CharCount     *int            `json:"char_count"`
	Pages         *int            `json:"pages"`
	Translated    *bool           `json:"translated"`
	TranslateLang *string         `json:"translate_lang"`
	Error         string          `json:"error"`
}

// Decode reads a processing response body into an outcome.
func Decode(body []byte) models.ProcessingOutcome {
	var raw ocrResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.ProcessingOutcome{Failure: &models.ProcessingError{Malformed: true, Cause: err}}
	}
	return normalize(raw)
}

// normalize applies the success rule: an explicit success flag or a present text
// field. A success without a confidence value is malformed.
func normalize(raw ocrResponse) models.ProcessingOutcome {
	succeeded := (raw.Success != nil && *raw.Success) || raw.Text != nil
	if !succeeded {
		return models.ProcessingOutcome{Failure: &models.ProcessingError{Message: raw.Error}}
	}
	if raw.Confidence == nil {
		return models.ProcessingOutcome{Failure: &models.ProcessingError{Message: "response missing confidence", Malformed: true}}
	}

	result := &models.OcrResult{
		Confidence: *raw.Confidence,
		WordCount:  raw.WordCount,
		CharCount:  raw.CharCount,
	}
	if raw.Text != nil {
		var text *string
		if err := json.Unmarshal(raw.Text, &text); err != nil {
			return models.ProcessingOutcome{Failure: &models.ProcessingError{Malformed: true, Cause: err}}
		}
		if text != nil {
			result.Text = *text
		}
	}
	if raw.Pages != nil {
		result.Pages = *raw.Pages
	}
	if raw.Translated != nil {
		result.Translated = *raw.Translated
	}
	if result.Translated && raw.TranslateLang != nil {
		result.TranslateLang = *raw.TranslateLang
	}
	return models.ProcessingOutcome{Result: result}
}
