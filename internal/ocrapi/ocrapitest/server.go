// Package ocrapitest provides an in-process fake of the OCR service for tests.
package ocrapitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
)

// Upload is what the fake saw on /api/ocr.
type Upload struct {
	FileName    string
	Content     []byte
	OCRLang     string
	TranslateTo string
	RequestID   string
}

// Server is a gin-backed fake of the OCR service. Response fields may be changed
// between requests.
type Server struct {
	*httptest.Server

	mu              sync.Mutex
	hits            map[string]int
	uploads         []Upload
	bodies          map[string][]map[string]interface{}
	ocrStatus       int
	ocrBody         string
	binaryStatus    int
	summaryStatus   int
	summaryResponse gin.H
	release         chan struct{}
}

// NewServer starts a fake that answers every endpoint successfully.
func NewServer() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		hits:            make(map[string]int),
		bodies:          make(map[string][]map[string]interface{}),
		ocrStatus:       http.StatusOK,
		ocrBody:         `{"success":true,"text":"Hello","confidence":97.3,"word_count":1,"char_count":5,"translated":false}`,
		binaryStatus:    http.StatusOK,
		summaryStatus:   http.StatusOK,
		summaryResponse: gin.H{"summary": "Short summary.", "mode": "brief"},
	}
	router := gin.New()
	router.POST("/api/ocr", s.handleOCR)
	router.POST("/api/export/:format", s.handleBinary)
	router.POST("/api/tts", s.handleBinary)
	router.POST("/api/summarize", s.handleSummarize)
	s.Server = httptest.NewServer(router)
	return s
}

// SetOCRResponse replaces the raw body and status returned by /api/ocr.
func (s *Server) SetOCRResponse(status int, body string) {
	s.mu.Lock()
	s.ocrStatus, s.ocrBody = status, body
	s.mu.Unlock()
}

// SetBinaryStatus sets the status of the export and tts endpoints. Non-2xx
// statuses answer with a JSON error body.
func (s *Server) SetBinaryStatus(status int) {
	s.mu.Lock()
	s.binaryStatus = status
	s.mu.Unlock()
}

func (s *Server) SetSummaryResponse(status int, body gin.H) {
	s.mu.Lock()
	s.summaryStatus, s.summaryResponse = status, body
	s.mu.Unlock()
}

// Hold makes /api/ocr block until Release is called.
func (s *Server) Hold() {
	s.mu.Lock()
	s.release = make(chan struct{})
	s.mu.Unlock()
}

func (s *Server) Release() {
	s.mu.Lock()
	if s.release != nil {
		close(s.release)
		s.release = nil
	}
	s.mu.Unlock()
}

// Hits returns how many requests reached the path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

// LastBody returns the last JSON body posted to the path.
func (s *Server) LastBody(path string) map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.bodies[path]
	if len(list) == 0 {
		return nil
	}
	return list[len(list)-1]
}

func (s *Server) handleOCR(c *gin.Context) {
	up := Upload{
		OCRLang:     c.PostForm("ocr_lang"),
		TranslateTo: c.PostForm("translate_to"),
		RequestID:   c.GetHeader("X-Request-ID"),
	}
	if fh, err := c.FormFile("file"); err == nil {
		up.FileName = fh.Filename
		if f, err := fh.Open(); err == nil {
			up.Content, _ = io.ReadAll(f)
			f.Close()
		}
	}

	s.mu.Lock()
	s.hits[c.Request.URL.Path]++
	s.uploads = append(s.uploads, up)
	status, body, release := s.ocrStatus, s.ocrBody, s.release
	s.mu.Unlock()

	if release != nil {
		<-release
	}
	c.Data(status, "application/json", []byte(body))
}

func (s *Server) handleBinary(c *gin.Context) {
	body := s.record(c)
	s.mu.Lock()
	status := s.binaryStatus
	s.mu.Unlock()

	if status < 200 || status >= 300 {
		c.JSON(status, gin.H{"error": "export failed"})
		return
	}
	contentType := "application/octet-stream"
	switch c.Request.URL.Path {
	case "/api/tts":
		contentType = "audio/mpeg"
	case "/api/export/txt":
		contentType = "text/plain"
	}
	text, _ := body["text"].(string)
	c.Data(http.StatusOK, contentType, []byte(c.Request.URL.Path+":"+text))
}

func (s *Server) handleSummarize(c *gin.Context) {
	s.record(c)
	s.mu.Lock()
	status, resp := s.summaryStatus, s.summaryResponse
	s.mu.Unlock()
	c.JSON(status, resp)
}

func (s *Server) record(c *gin.Context) map[string]interface{} {
	var body map[string]interface{}
	data, _ := io.ReadAll(c.Request.Body)
	_ = json.Unmarshal(data, &body)

	s.mu.Lock()
	s.hits[c.Request.URL.Path]++
	s.bodies[c.Request.URL.Path] = append(s.bodies[c.Request.URL.Path], body)
	s.mu.Unlock()
	return body
}
