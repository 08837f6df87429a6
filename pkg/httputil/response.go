package httputil

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medvault/consent-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Kind     string `json:"kind"`
	Resource string `json:"resource,omitempty"`
	ID       int64  `json:"id,omitempty"`
	Message  string `json:"message"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response, mapping the error kind to
// an HTTP status.
func RespondWithError(c *gin.Context, err error) {
	kind := errors.KindOf(err)

	apiErr := &Error{
		Kind:    kind.String(),
		Message: "internal server error",
	}
	var appErr *errors.Error
	if stderrors.As(err, &appErr) && kind != errors.KindInternal {
		apiErr.Resource = appErr.Resource
		apiErr.ID = appErr.ID
		apiErr.Message = appErr.Message
	}

	c.JSON(statusFor(kind), Response{
		Success: false,
		Error:   apiErr,
	})
}

// RespondWithStatus sends an error response with an explicit status.
func RespondWithStatus(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Error: &Error{
			Kind:    http.StatusText(status),
			Message: message,
		},
	})
}

func statusFor(kind errors.Kind) int {
	switch kind {
	case errors.KindInvalidArgument:
		return http.StatusBadRequest
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindForbidden:
		return http.StatusForbidden
	case errors.KindInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
