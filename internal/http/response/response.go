package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edusmart-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError renders an error returned by a service. Caller-facing
// failures keep their status and code; anything else becomes an opaque 500
// and is attached to the gin context for the request logger.
func RespondServiceError(c *gin.Context, err error) {
	if ae, ok := apierr.As(err); ok && ae.Status > 0 && ae.Status < http.StatusInternalServerError {
		msg := ae.Code
		if ae.Err != nil {
			msg = ae.Err.Error()
		}
		RespondError(c, ae.Status, ae.Code, errors.New(msg))
		return
	}
	_ = c.Error(err)
	RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal server error"))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
