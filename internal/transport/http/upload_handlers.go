package http

import (
	"errors"
	"io"
	"mime"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatrelay/chatrelay-server/internal/upload"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UploadHandlers provides the HTTP intake for the upload gateway.
type UploadHandlers struct {
	uploads *upload.Service
	log     *zerolog.Logger
}

// NewUploadHandlers creates a new upload handlers instance.
func NewUploadHandlers(uploads *upload.Service, logger *zerolog.Logger) *UploadHandlers {
	return &UploadHandlers{uploads: uploads, log: logger}
}

// Upload handles POST /api/upload: one file per request under the "file"
// field. Rejections use the gateway's enumerable messages; any other
// failure is masked as a generic bad request so internals never leak.
func (h *UploadHandlers) Upload(c *gin.Context) {
	// Slack on top of the cap covers multipart framing overhead; the
	// gateway enforces the exact payload limit.
	c.Request.Body = stdhttp.MaxBytesReader(c.Writer, c.Request.Body, h.uploads.MaxBytes()+64<<10)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *stdhttp.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(stdhttp.StatusRequestEntityTooLarge, ErrorResponse{Error: upload.ErrTooLarge.Error()})
			return
		}
		c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: upload.ErrNoFile.Error()})
		return
	}
	defer file.Close()

	if header.Size > h.uploads.MaxBytes() {
		c.JSON(stdhttp.StatusRequestEntityTooLarge, ErrorResponse{Error: upload.ErrTooLarge.Error()})
		return
	}

	declared := header.Header.Get("Content-Type")
	if mt, _, parseErr := mime.ParseMediaType(declared); parseErr == nil {
		declared = mt
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.Error().Err(err).Msg("read upload body")
		c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: "upload failed"})
		return
	}

	result, err := h.uploads.Store(data, declared)
	switch {
	case err == nil:
		c.JSON(stdhttp.StatusCreated, result)
	case errors.Is(err, upload.ErrNoFile):
		c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, upload.ErrTypeNotAllowed):
		c.JSON(stdhttp.StatusUnsupportedMediaType, ErrorResponse{Error: err.Error()})
	case errors.Is(err, upload.ErrTooLarge):
		c.JSON(stdhttp.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})
	default:
		h.log.Error().Err(err).Msg("store upload")
		c.JSON(stdhttp.StatusBadRequest, ErrorResponse{Error: "upload failed"})
	}
}
