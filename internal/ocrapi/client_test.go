package ocrapi_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"ocrdesk/internal/models"
	"ocrdesk/internal/ocrapi"
	"ocrdesk/internal/ocrapi/ocrapitest"
)

func selected(t *testing.T, name, mediaType string, content []byte) *models.SelectedFile {
	t.Helper()
	file, err := models.Candidate{
		Name:      name,
		MediaType: mediaType,
		Size:      int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}.Validate()
	if err != nil {
		t.Fatalf("validate candidate: %v", err)
	}
	return file
}

func TestProcessSendsMultipartAndDecodes(t *testing.T) {
	srv := ocrapitest.NewServer()
	defer srv.Close()
	client := ocrapi.NewClient(srv.URL + "/")

	file := selected(t, "scan.png", "image/png", []byte("png-bytes"))
	outcome, err := client.Process(context.Background(), file, models.ProcessingOptions{OCRLang: "fra", TranslateTo: "en"})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !outcome.OK() {
		t.Fatalf("expected success, got failure %v", outcome.Failure)
	}
	if outcome.Result.Text != "Hello" || outcome.Result.Confidence != 97.3 {
		t.Fatalf("unexpected result %+v", outcome.Result)
	}

	uploads := srv.Uploads()
	if len(uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(uploads))
	}
	up := uploads[0]
	if up.FileName != "scan.png" || string(up.Content) != "png-bytes" {
		t.Fatalf("file field mismatch: %+v", up)
	}
	if up.OCRLang != "fra" || up.TranslateTo != "en" {
		t.Fatalf("option fields mismatch: %+v", up)
	}
	if up.RequestID == "" {
		t.Fatalf("expected X-Request-ID header")
	}
}

func TestProcessServerErrorIsOutcomeNotTransportError(t *testing.T) {
	srv := ocrapitest.NewServer()
	defer srv.Close()
	srv.SetOCRResponse(http.StatusBadRequest, `{"success":false,"error":"Invalid file type"}`)

	outcome, err := ocrapi.NewClient(srv.URL).Process(context.Background(), selected(t, "a.pdf", "application/pdf", []byte("%PDF")), models.ProcessingOptions{OCRLang: "eng"})
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if outcome.OK() || outcome.Failure.Message != "Invalid file type" {
		t.Fatalf("expected server message failure, got %+v", outcome)
	}
}

func TestProcessTransportError(t *testing.T) {
	srv := ocrapitest.NewServer()
	url := srv.URL
	srv.Close()

	_, err := ocrapi.NewClient(url).Process(context.Background(), selected(t, "a.png", "image/png", []byte("x")), models.ProcessingOptions{OCRLang: "eng"})
	var transport *models.TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transport.Endpoint != ocrapi.EndpointOCR {
		t.Fatalf("unexpected endpoint %q", transport.Endpoint)
	}
}

func TestExportAndSpeech(t *testing.T) {
	srv := ocrapitest.NewServer()
	defer srv.Close()
	client := ocrapi.NewClient(srv.URL)
	lang := "fr"

	data, err := client.Export(context.Background(), models.FormatDocument, ocrapi.ExportRequest{
		Text: "Bonjour", Filename: "scan.png", Translated: true, TranslateLang: &lang,
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if string(data) != "/api/export/docx:Bonjour" {
		t.Fatalf("unexpected export payload %q", data)
	}
	body := srv.LastBody("/api/export/docx")
	if body["translate_lang"] != "fr" || body["translated"] != true || body["filename"] != "scan.png" {
		t.Fatalf("unexpected export body %#v", body)
	}

	if _, err := client.Speech(context.Background(), ocrapi.SpeechRequest{
		ExportRequest: ocrapi.ExportRequest{Text: "hi", Filename: "scan.png"},
		Gender:        "female",
		Tone:          "happy",
	}); err != nil {
		t.Fatalf("speech: %v", err)
	}
	body = srv.LastBody("/api/tts")
	if body["gender"] != "female" || body["tone"] != "happy" || body["text"] != "hi" {
		t.Fatalf("unexpected tts body %#v", body)
	}
	if v, ok := body["translate_lang"]; !ok || v != nil {
		t.Fatalf("translate_lang should be an explicit null, got %#v", body)
	}
}

func TestExportStatusError(t *testing.T) {
	srv := ocrapitest.NewServer()
	defer srv.Close()
	srv.SetBinaryStatus(http.StatusInternalServerError)

	_, err := ocrapi.NewClient(srv.URL).Export(context.Background(), models.FormatText, ocrapi.ExportRequest{Text: "x"})
	var status *ocrapi.StatusError
	if !errors.As(err, &status) || status.Status != http.StatusInternalServerError {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	srv := ocrapitest.NewServer()
	defer srv.Close()
	client := ocrapi.NewClient(srv.URL)

	resp, err := client.Summarize(context.Background(), ocrapi.SummaryRequest{Text: "One. Two.", Mode: "bullet"})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if resp.Summary != "Short summary." {
		t.Fatalf("unexpected summary %q", resp.Summary)
	}
	if body := srv.LastBody("/api/summarize"); body["mode"] != "bullet" {
		t.Fatalf("mode not sent: %#v", body)
	}

	srv.SetSummaryResponse(http.StatusBadRequest, gin.H{"error": "No text to summarize"})
	_, err = client.Summarize(context.Background(), ocrapi.SummaryRequest{Text: " ", Mode: "brief"})
	var status *ocrapi.StatusError
	if !errors.As(err, &status) || status.Body != "No text to summarize" {
		t.Fatalf("expected status error with server message, got %v", err)
	}
}
