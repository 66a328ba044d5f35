package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/assettrack/internal/common"
	"github.com/dmitrijs2005/assettrack/internal/server/services"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func respond(c *gin.Context, status int, code, message string, details any) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message, Details: details}})
}

// respondUnauthorized is the only 401 body ever sent; it never says why.
func respondUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", common.BearerScheme)
	respond(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized", nil)
}

func respondValidation(c *gin.Context, details any) {
	respond(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request", details)
}

// respondError maps a service error onto a status code and envelope.
func (s *handlers) respondError(c *gin.Context, err error) {
	var verr *services.ValidationError

	switch {
	case errors.As(err, &verr):
		respondValidation(c, verr.Fields)
	case errors.Is(err, common.ErrorValidation):
		respondValidation(c, nil)
	case errors.Is(err, common.ErrDuplicateUsername):
		respond(c, http.StatusBadRequest, "DUPLICATE_USERNAME", "username already registered", nil)
	case errors.Is(err, common.ErrInvalidCredentials):
		respond(c, http.StatusForbidden, "INVALID_CREDENTIALS", "incorrect username or password", nil)
	case errors.Is(err, common.ErrorUnauthorized):
		respondUnauthorized(c)
	case errors.Is(err, common.ErrorNotFound):
		respond(c, http.StatusNotFound, "NOT_FOUND", "not found", nil)
	default:
		s.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err.Error())
		respond(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", nil)
	}
}
