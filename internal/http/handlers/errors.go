package handlers

import (
	"errors"
	"net/http"

	"bank_transactions/internal/domain"
	"bank_transactions/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every 4xx/5xx answer
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func abortWithMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Status: status, Message: msg})
}

// respondError maps domain errors to 400/404; anything else is logged and hidden behind a 500
func respondError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var notFoundErr *domain.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		abortWithMessage(c, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &notFoundErr):
		abortWithMessage(c, http.StatusNotFound, notFoundErr.Error())
	default:
		logger.WithContext(c.Request.Context()).Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		abortWithMessage(c, http.StatusInternalServerError, "Internal server error")
	}
}
