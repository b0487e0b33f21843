package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// FromError maps a use case error onto the HTTP response.
func FromError(c *gin.Context, err error) {
	switch code := CodeOf(err); code {
	case CodeNotFound:
		NotFound(c, code, "Booking not found.")
	case CodeForbidden:
		Forbidden(c, code, "Action not permitted for this role or booking state.")
	case CodeInvalidState:
		Conflict(c, code, "Booking is not in a state that allows this action.")
	case CodeDepositPaid:
		Conflict(c, code, "Deposit already paid; booking can no longer be cancelled.")
	case CodeInvalidAmount, CodeInvalidRequest, CodeUnknownServiceType:
		BadRequest(c, code, "Invalid request.")
	case "":
		Internal(c, "internal_error", "Unexpected error.")
	default:
		BadRequest(c, code, "Invalid request.")
	}
}
