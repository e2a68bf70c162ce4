package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"paradise-vista/internal/database"
	"paradise-vista/internal/logger"
	"paradise-vista/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Columns the client may never set.
var protectedFields = []string{"id", "created_at", "updated_at"}

// ContentHandler is the CRUD surface shared by every CMS manager backed by a table.
type ContentHandler[T any] struct {
	repo   *database.Repository[T]
	name   string
	order  string
	filter []string

	// onDelete runs after a successful delete with the removed row.
	onDelete func(ctx context.Context, item *T)
}

func NewContentHandler[T any](repo *database.Repository[T], name string, filterable ...string) *ContentHandler[T] {
	return &ContentHandler[T]{
		repo:   repo,
		name:   name,
		order:  "display_order ASC, created_at ASC",
		filter: filterable,
	}
}

func (h *ContentHandler[T]) OnDelete(fn func(ctx context.Context, item *T)) *ContentHandler[T] {
	h.onDelete = fn
	return h
}

// ListPublic returns the active rows only.
func (h *ContentHandler[T]) ListPublic(c *gin.Context) {
	h.list(c, map[string]interface{}{"is_active": true})
}

func (h *ContentHandler[T]) List(c *gin.Context) {
	h.list(c, map[string]interface{}{})
}

func (h *ContentHandler[T]) list(c *gin.Context, filters map[string]interface{}) {
	for _, column := range h.filter {
		if v := c.Query(column); v != "" {
			filters[column] = v
		}
	}

	items, total, err := h.repo.List(c.Request.Context(), database.ListOptions{
		Filters: filters,
		Order:   h.order,
		Limit:   queryInt(c, "limit", 0),
		Offset:  queryInt(c, "offset", 0),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: items, Total: total})
}

func (h *ContentHandler[T]) Get(c *gin.Context) {
	item, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ContentHandler[T]) Create(c *gin.Context) {
	body, err := readObject(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	item := new(T)
	if d, ok := any(item).(models.Defaulter); ok {
		d.ApplyDefaults()
	}
	if err := json.Unmarshal(body, item); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := binding.Validator.ValidateStruct(item); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Create(c.Request.Context(), item); err != nil {
		respondError(c, err)
		return
	}

	logger.FromContext(c.Request.Context()).Info("content created", "table", h.name)
	c.JSON(http.StatusCreated, item)
}

// Update merges the provided fields into the stored row.
func (h *ContentHandler[T]) Update(c *gin.Context) {
	body, err := readObject(c)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := json.Unmarshal(body, item); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := binding.Validator.ValidateStruct(item); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Replace(c.Request.Context(), c.Param("id"), item); err != nil {
		respondError(c, err)
		return
	}

	logger.FromContext(c.Request.Context()).Info("content updated", "table", h.name, "id", c.Param("id"))
	c.JSON(http.StatusOK, item)
}

func (h *ContentHandler[T]) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	item, err := h.repo.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.repo.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	logger.FromContext(ctx).Info("content deleted", "table", h.name, "id", id)
	if h.onDelete != nil {
		h.onDelete(ctx, item)
	}
	c.Status(http.StatusNoContent)
}

// readObject reads a JSON object body with the protected fields removed.
func readObject(c *gin.Context) ([]byte, error) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for _, key := range protectedFields {
		delete(fields, key)
	}
	return json.Marshal(fields)
}
