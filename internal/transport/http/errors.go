package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"survey-quiz-service/internal/domain"
)

const (
	codeInvalidRequest = "error_invalid_request"
	codeInternal       = "error_internal"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// respondError maps domain errors to their HTTP status: missing resources are
// 404, other domain errors 400 and anything else 500.
func respondError(c *gin.Context, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Code: codeInternal, Error: "internal server error"})
		return
	}
	status := http.StatusBadRequest
	if derr.NotFound() {
		status = http.StatusNotFound
	}
	_ = c.Error(err).SetType(gin.ErrorTypePublic)
	c.JSON(status, ErrorResponse{Code: string(derr.Kind), Error: err.Error()})
}

// respondValidationError reports every domain error as 400; used where the
// referenced IDs come from the request body rather than the path.
func respondValidationError(c *gin.Context, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		respondError(c, err)
		return
	}
	_ = c.Error(err).SetType(gin.ErrorTypePublic)
	c.JSON(http.StatusBadRequest, ErrorResponse{Code: string(derr.Kind), Error: err.Error()})
}

func respondBadRequest(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	c.JSON(http.StatusBadRequest, ErrorResponse{Code: codeInvalidRequest, Error: err.Error()})
}
