package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"paradise-vista/internal/logger"
	"paradise-vista/internal/services"

	"github.com/gin-gonic/gin"
)

type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
}

type ListResponse struct {
	Data  interface{} `json:"data"`
	Total int64       `json:"total"`
	Page  int         `json:"page,omitempty"`
	Limit int         `json:"limit,omitempty"`
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, ErrorResponse{Error: msg})
}

// respondError maps service errors onto status codes. Anything unclassified is
// logged and reported as a generic failure.
func respondError(c *gin.Context, err error) {
	var (
		validationErr  *services.ValidationError
		duplicateErr   *services.DuplicateError
		transitionErr  *services.TransitionError
		persistenceErr *services.PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationErr.Message, Field: validationErr.Field})
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusConflict, ErrorResponse{Error: duplicateErr.Error(), Field: "cpf"})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, ErrorResponse{Error: transitionErr.Error(), Field: "status"})
	case errors.Is(err, services.ErrNotFound):
		fail(c, http.StatusNotFound, "Not found")
	case errors.As(err, &persistenceErr):
		logger.FromContext(c.Request.Context()).Error("store rejected write", "error", err)
		fail(c, http.StatusInternalServerError, persistenceErr.Error())
	default:
		logger.FromContext(c.Request.Context()).Error("unexpected error", "path", c.FullPath(), "error", err)
		fail(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
