package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qingping857/Blind-date-platform/internal/domain"
	"github.com/qingping857/Blind-date-platform/internal/logger"
)

// Response is the envelope shared by every endpoint: either
// {success:true, data:...} or {success:false, error:"..."}.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: message})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Response{Success: false, Error: message})
}

// statusFor maps domain sentinel errors onto the HTTP error taxonomy:
// 401 unauthenticated, 403 forbidden, 404 not found, 400 invalid input,
// 409 conflict, 500 everything else.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotRequestTarget),
		errors.Is(err, domain.ErrNotRequestParty):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRequestNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrEmptyResponse),
		errors.Is(err, domain.ErrInvalidDecision),
		errors.Is(err, domain.ErrSelfRequest),
		errors.Is(err, domain.ErrPhotoCount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrRequestAlreadyPending),
		errors.Is(err, domain.ErrRequestAlreadyDecided):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Fail converts an error into the envelope. Unknown errors are logged and
// reported as a generic internal error so storage details never leak.
func Fail(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		message = "internal server error"
	}
	c.JSON(status, Response{Success: false, Error: message})
}
