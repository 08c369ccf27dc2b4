// Package ocrapi talks to the external OCR service: recognition, export, speech
// and summarization endpoints.
package ocrapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"ocrdesk/internal/models"
)

const (
	EndpointOCR       = "/api/ocr"
	EndpointTTS       = "/api/tts"
	EndpointSummarize = "/api/summarize"
	exportPrefix      = "/api/export/"
)

// ExportEndpoint returns the export path for a format.
func ExportEndpoint(format models.ExportFormat) string {
	return exportPrefix + string(format)
}

// Client calls the OCR service. It sets no timeout of its own; requests run until
// the server answers or the transport fails.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
	}
}

// ExportRequest is the JSON body shared by the export and speech endpoints.
type ExportRequest struct {
	Text          string  `json:"text"`
	Filename      string  `json:"filename"`
	Translated    bool    `json:"translated"`
	TranslateLang *string `json:"translate_lang"`
}

type SpeechRequest struct {
	ExportRequest
	Gender string `json:"gender"`
	Tone   string `json:"tone"`
}

type SummaryRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

type SummaryResponse struct {
	Summary string `json:"summary"`
	Mode    string `json:"mode"`
	Error   string `json:"error,omitempty"`
}

// StatusError is a non-2xx answer from an endpoint returning binary content.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Body)
}

// Process uploads the file with its options and normalizes the answer. The error
// is non-nil only when no response was obtained.
func (c *Client) Process(ctx context.Context, file *models.SelectedFile, opts models.ProcessingOptions) (models.ProcessingOutcome, error) {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	content, err := file.Open()
	if err != nil {
		return models.ProcessingOutcome{}, fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer content.Close()

	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return models.ProcessingOutcome{}, fmt.Errorf("create file field: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return models.ProcessingOutcome{}, fmt.Errorf("copy file: %w", err)
	}
	if err := writer.WriteField("ocr_lang", opts.OCRLang); err != nil {
		return models.ProcessingOutcome{}, fmt.Errorf("write ocr_lang: %w", err)
	}
	if err := writer.WriteField("translate_to", opts.TranslateTo); err != nil {
		return models.ProcessingOutcome{}, fmt.Errorf("write translate_to: %w", err)
	}
	if err := writer.Close(); err != nil {
		return models.ProcessingOutcome{}, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, EndpointOCR, &buffer)
	if err != nil {
		return models.ProcessingOutcome{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return models.ProcessingOutcome{}, &models.TransportError{Endpoint: EndpointOCR, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.ProcessingOutcome{}, &models.TransportError{Endpoint: EndpointOCR, Cause: err}
	}
	return Decode(body), nil
}

// Export fetches the generated document for the format.
func (c *Client) Export(ctx context.Context, format models.ExportFormat, body ExportRequest) ([]byte, error) {
	return c.postForBytes(ctx, ExportEndpoint(format), body)
}

// Speech fetches synthesized mp3 audio.
func (c *Client) Speech(ctx context.Context, body SpeechRequest) ([]byte, error) {
	return c.postForBytes(ctx, EndpointTTS, body)
}

// Summarize asks for a summary of the text in the given mode.
func (c *Client) Summarize(ctx context.Context, body SummaryRequest) (*SummaryResponse, error) {
	resp, err := c.postJSON(ctx, EndpointSummarize, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.TransportError{Endpoint: EndpointSummarize, Cause: err}
	}
	var out SummaryResponse
	if err := json.Unmarshal(data, &out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &StatusError{Status: resp.StatusCode, Body: truncate(string(data), 200)}
		}
		return nil, fmt.Errorf("decode summary response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &out, &StatusError{Status: resp.StatusCode, Body: out.Error}
	}
	return &out, nil
}

func (c *Client) postForBytes(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	resp, err := c.postJSON(ctx, endpoint, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.TransportError{Endpoint: endpoint, Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Status: resp.StatusCode, Body: truncate(string(data), 200)}
	}
	return data, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", endpoint, err)
	}
	req, err := c.newRequest(ctx, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &models.TransportError{Endpoint: endpoint, Cause: err}
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", endpoint, err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func truncate(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
