package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopsight/backend/internal/infrastructure/logger"
	"github.com/shopsight/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// OK sends the bare `{"ok":true}` acknowledgement
func (h *BaseHandler) OK(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewOKResponse())
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, c.GetString(logger.GinRequestIDKey)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, dto.MsgNotFound)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, dto.MsgUnauthorized)
}

// HandleError converts an error to its fixed HTTP response. The error text
// itself never reaches the body.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	code, message := dto.Classify(err)
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// readBody reads the whole request body. ok is false when a response has
// already been written.
func (h *BaseHandler) readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err == nil {
		return body, true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeTooLarge, dto.MsgTooLarge)
		return nil, false
	}
	logger.L(c.Request.Context()).Warn("Failed to read request body")
	h.BadRequest(c, "Failed to read request body")
	return nil, false
}
