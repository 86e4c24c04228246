package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Ref     string `json:"ref,omitempty"`
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

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// From maps a domain error to its HTTP response. Every core operation fails
// with exactly one BusinessError; anything else is an internal error.
func From(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		Internal(c, "internal_error", "unexpected error")
		return
	}

	status := http.StatusInternalServerError
	switch be.Code {
	case CodeValidation:
		status = http.StatusBadRequest
	case CodeNotFound, CodeCouponNotFound:
		status = http.StatusNotFound
	case CodeSlotUnavailable, CodeDuplicateCode, CodeCouponExpired,
		CodeCouponUsed, CodeInsufficientStock, CodeConflict:
		status = http.StatusConflict
	case CodeStoreUnavailable:
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, HTTPError{
		Code:    be.Code,
		Message: be.Message,
		Ref:     be.Ref,
	})
}
