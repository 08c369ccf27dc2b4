package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"ocrdesk/internal/controller"
	"ocrdesk/internal/download"
	"ocrdesk/internal/models"
)

// DownloadsPath is where stored downloads are served from.
const DownloadsPath = "/desk/downloads"

// Handler wires the desk routes to the per-session controllers.
type Handler struct {
	sessions *Sessions
	store    download.Store
}

// NewHandler constructs a Handler instance.
func NewHandler(sessions *Sessions, store download.Store) *Handler {
	return &Handler{sessions: sessions, store: store}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.health)
	desk := router.Group("/desk")
	desk.Use(h.sessions.Middleware())
	desk.POST("/select", h.selectFile)
	desk.POST("/process", h.process)
	desk.POST("/export/:format", h.export)
	desk.POST("/tts", h.generateAudio)
	desk.POST("/summarize", h.summarize)
	desk.GET("/view", h.view)
	desk.GET("/downloads/:id", h.serveDownload)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *Handler) currentSession(c *gin.Context) (*deskSession, bool) {
	sess := sessionFrom(c)
	if sess == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
		return nil, false
	}
	return sess, true
}

// actionContext keeps the request values but survives the client going away.
func actionContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// bindOptional binds a JSON body and treats an empty body as zero values.
func bindOptional(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

func (h *Handler) selectFile(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	candidate, err := controller.CandidateFromUpload(fh)
	if err != nil {
		log.Printf("read upload %s: %v", fh.Filename, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "open file failed"})
		return
	}
	file, err := sess.controller.SelectFile(candidate)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "view": sess.drainView()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": file, "view": sess.drainView()})
}

func (h *Handler) process(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	var opts models.ProcessingOptions
	if !bindOptional(c, &opts) {
		return
	}
	if err := opts.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := sess.controller.Process(actionContext(c), opts)
	view := sess.drainView()
	switch {
	case err == nil && result == nil:
		c.JSON(http.StatusConflict, gin.H{"error": "no file selected or processing already running", "view": view})
	case err != nil:
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "view": view})
	default:
		c.JSON(http.StatusOK, gin.H{"result": result, "view": view})
	}
}

func (h *Handler) export(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	format, err := models.ParseExportFormat(c.Param("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err = sess.controller.Export(actionContext(c), format)
	h.respondAction(c, sess, err)
}

func (h *Handler) generateAudio(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	var voice models.VoiceOptions
	if !bindOptional(c, &voice) {
		return
	}
	if err := voice.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := sess.controller.GenerateAudio(actionContext(c), voice.Gender, voice.Tone)
	h.respondAction(c, sess, err)
}

type summarizeRequest struct {
	Mode string `json:"mode"`
}

func (h *Handler) summarize(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	var req summarizeRequest
	if !bindOptional(c, &req) {
		return
	}
	mode, err := models.ValidateSummaryMode(req.Mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err = sess.controller.GenerateSummary(actionContext(c), mode)
	h.respondAction(c, sess, err)
}

func (h *Handler) respondAction(c *gin.Context, sess *deskSession, err error) {
	view := sess.drainView()
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "view": view})
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": view})
}

// view returns the page state and hands over pending download links.
func (h *Handler) view(c *gin.Context) {
	sess, ok := h.currentSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"view":      sess.drainView(),
		"downloads": sess.downloads.DrainLinks(),
	})
}

func (h *Handler) serveDownload(c *gin.Context) {
	blob, err := h.store.Take(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, download.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "download not found"})
			return
		}
		log.Printf("take download %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load download failed"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", blob.Filename))
	c.Data(http.StatusOK, mimetype.Detect(blob.Data).String(), blob.Data)
}

func statusFor(err error) int {
	var (
		verr *models.ValidationError
		perr *models.ProcessingError
		terr *models.TransportError
		aerr *models.ActionError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, controller.ErrNoText):
		return http.StatusUnprocessableEntity
	case errors.Is(err, controller.ErrSuperseded):
		return http.StatusConflict
	case errors.As(err, &perr), errors.As(err, &terr):
		return http.StatusBadGateway
	case errors.As(err, &aerr):
		if aerr.Status != 0 {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
