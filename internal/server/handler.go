package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jobfinder-backend/internal/extract"
	"jobfinder-backend/internal/pipeline"
	"jobfinder-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// PipelineRunner is the pipeline's public contract as consumed by transport.
type PipelineRunner interface {
	Run(ctx context.Context, doc pipeline.Document, location string, maxResults int) (*pipeline.Result, error)
}

// Handler wires HTTP handlers to the pipeline.
type Handler struct {
	Runner PipelineRunner
}

// NewHandler constructs a Handler.
func NewHandler(runner PipelineRunner) *Handler {
	return &Handler{Runner: runner}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/complete-analysis", h.completeAnalysis)
}

func (h *Handler) completeAnalysis(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Only PDF files are allowed", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if strings.TrimSpace(mimeType) == "" {
		mimeType = extract.MimePDF
	}

	location := c.Query("location")
	maxResults := 0
	if raw := c.Query("max_results"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "max_results must be an integer", nil)
			return
		}
		maxResults = parsed
	}

	result, err := h.Runner.Run(c.Request.Context(), pipeline.Document{Data: data, MimeType: mimeType}, location, maxResults)
	if err != nil {
		h.respondPipelineError(c, err)
		return
	}

	respond.OK(c, result)
}

func (h *Handler) respondPipelineError(c *gin.Context, err error) {
	var stageErr *pipeline.StageError
	if !errors.As(err, &stageErr) {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error in complete analysis", nil)
		return
	}

	switch stageErr.Stage {
	case pipeline.StageExtract:
		switch {
		case errors.Is(err, extract.ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "validation_error", "Only PDF files are allowed", nil)
		case errors.Is(err, extract.ErrNoText):
			respond.Error(c, http.StatusBadRequest, "extraction_failed", "Could not extract text from PDF. The PDF might be empty or image-based.", nil)
		default:
			respond.Error(c, http.StatusBadRequest, "extraction_failed", "Could not parse the uploaded PDF", nil)
		}
	case pipeline.StageAnalysis:
		respond.Error(c, http.StatusBadGateway, "analysis_failed", "Resume analysis failed", gin.H{"stage": stageErr.Stage})
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Error in complete analysis", gin.H{"stage": stageErr.Stage})
	}
}
