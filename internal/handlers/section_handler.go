package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"paradise-vista/internal/cache"
	"paradise-vista/internal/database"
	"paradise-vista/internal/logger"
	"paradise-vista/internal/models"
	"paradise-vista/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// SectionHandler edits the JSON content blobs of the site sections.
type SectionHandler struct {
	sections *database.SectionRepository
	settings *services.SettingsService
	cache    *cache.CacheManager
}

func NewSectionHandler(sections *database.SectionRepository, settings *services.SettingsService, cm *cache.CacheManager) *SectionHandler {
	return &SectionHandler{sections: sections, settings: settings, cache: cm}
}

// GetPublicSection returns the content of a section
// @Summary Get section content
// @Tags content
// @Produce json
// @Param key path string true "Section key"
// @Success 200 {object} object
// @Failure 404 {object} ErrorResponse
// @Router /api/sections/{key} [get]
func (h *SectionHandler) GetPublicSection(c *gin.Context) {
	section, err := h.sections.GetByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", section.Content)
}

// ListSections lists every section
// @Summary List sections
// @Tags admin
// @Produce json
// @Success 200 {object} ListResponse
// @Router /api/admin/sections [get]
func (h *SectionHandler) ListSections(c *gin.Context) {
	sections, err := h.sections.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse{Data: sections, Total: int64(len(sections))})
}

// GetSection returns one section row
// @Summary Get a section
// @Tags admin
// @Produce json
// @Param key path string true "Section key"
// @Success 200 {object} models.SiteSection
// @Failure 404 {object} ErrorResponse
// @Router /api/admin/sections/{key} [get]
func (h *SectionHandler) GetSection(c *gin.Context) {
	section, err := h.sections.GetByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

// PutSection replaces the content of a section, creating it when missing
// @Summary Upsert a section
// @Description The body is the new JSON content. birthday_settings is validated.
// @Tags admin
// @Accept json
// @Produce json
// @Param key path string true "Section key"
// @Success 200 {object} models.SiteSection
// @Failure 400 {object} ErrorResponse
// @Router /api/admin/sections/{key} [put]
func (h *SectionHandler) PutSection(c *gin.Context) {
	ctx := c.Request.Context()
	key := c.Param("key")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil || !json.Valid(body) {
		fail(c, http.StatusBadRequest, "Content must be valid JSON")
		return
	}

	if key == models.BirthdaySettingsKey {
		var settings models.BirthdaySettings
		if err := json.Unmarshal(body, &settings); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid birthday settings", Field: "content"})
			return
		}
		if _, err := h.settings.UpdateBirthday(ctx, settings); err != nil {
			respondError(c, err)
			return
		}
	} else {
		if _, err := h.sections.Upsert(ctx, key, datatypes.JSON(body)); err != nil {
			respondError(c, &services.PersistenceError{Err: err})
			return
		}
		if h.cache != nil {
			h.cache.PublishUpdate(cache.EventSectionUpdated, map[string]string{"section_key": key})
		}
	}

	section, err := h.sections.GetByKey(ctx, key)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.FromContext(ctx).Info("section updated", "section_key", key)
	c.JSON(http.StatusOK, section)
}

// DeleteSection removes a section
// @Summary Delete a section
// @Tags admin
// @Param key path string true "Section key"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/admin/sections/{key} [delete]
func (h *SectionHandler) DeleteSection(c *gin.Context) {
	key := c.Param("key")
	if err := h.sections.Delete(c.Request.Context(), key); err != nil {
		respondError(c, err)
		return
	}
	if key == models.BirthdaySettingsKey {
		h.settings.Invalidate()
	}
	c.Status(http.StatusNoContent)
}
