package httperr

import (
	"net/http"

	"room-booking/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// Response is the single error body shape of both services:
// {"error": "<status text>", "message": "<detail>"}.
type Response struct {
	Status  int    `json:"-"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

const internalMessage = "Internal server error"

var kindStatus = map[error]int{
	errs.ErrValidation:    http.StatusBadRequest,
	errs.ErrAuth:          http.StatusUnauthorized,
	errs.ErrAuthz:         http.StatusForbidden,
	errs.ErrNotFound:      http.StatusNotFound,
	errs.ErrConflict:      http.StatusConflict,
	errs.ErrUnprocessable: http.StatusUnprocessableEntity,
}

func NewResponse(status int, msg string) Response {
	return Response{
		Status:  status,
		Error:   http.StatusText(status),
		Message: msg,
	}
}

// StatusOf maps the category of err to an HTTP status; uncategorized errors are 500.
func StatusOf(err error) int {
	if status, ok := kindStatus[errs.KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := NewResponse(status, msg)

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Abort derives status and message from the error category. Internal errors never expose their text.
func Abort(c *gin.Context, err error) {
	status := StatusOf(err)
	msg := internalMessage
	if status != http.StatusInternalServerError {
		msg = errs.MessageOf(err)
	}
	AbortWithError(c, status, err, msg)
}
