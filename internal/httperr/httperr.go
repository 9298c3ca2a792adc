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

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// FromBusiness maps a business error onto an HTTP response; any other error
// becomes a generic 500.
func FromBusiness(c *gin.Context, err error) {
	code, ok := BusinessCode(err)
	if !ok {
		Internal(c, "internal_error", "Algo salió mal, intenta de nuevo.")
		return
	}

	switch code {
	case "client_not_found", "reward_not_found", "redemption_not_found",
		"appointment_not_found", "service_not_found", "employee_not_found",
		"establishment_not_found":
		NotFound(c, code, err.Error())
	case "time_conflict", "invalid_state", "redemption_confirmed",
		"redemption_cancelled", "redemption_expired":
		Conflict(c, code, err.Error())
	default:
		BadRequest(c, code, err.Error())
	}
}
