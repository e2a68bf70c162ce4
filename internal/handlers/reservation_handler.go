package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"paradise-vista/internal/logger"
	"paradise-vista/internal/models"
	"paradise-vista/internal/services"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	reservations *services.ReservationService
	settings     *services.SettingsService
}

func NewReservationHandler(reservations *services.ReservationService, settings *services.SettingsService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations, settings: settings}
}

type BirthdaySettingsResponse struct {
	models.BirthdaySettings
	SelectableDates []string `json:"selectableDates"`
}

type StatusUpdateRequest struct {
	Status models.ReservationStatus `json:"status" binding:"required"`
	Notes  *string                  `json:"notes"`
}

// GetBirthdaySettings returns the promotion window
// @Summary Birthday promotion settings
// @Description Available month/year, companion limit, benefits and the dates still selectable
// @Tags reservations
// @Produce json
// @Success 200 {object} BirthdaySettingsResponse
// @Router /api/birthday/settings [get]
func (h *ReservationHandler) GetBirthdaySettings(c *gin.Context) {
	settings := h.settings.Birthday(c.Request.Context())

	c.JSON(http.StatusOK, BirthdaySettingsResponse{
		BirthdaySettings: settings,
		SelectableDates:  settings.SelectableDates(h.reservations.Today()),
	})
}

// SubmitReservation stores a birthday reservation request
// @Summary Submit a birthday reservation
// @Description Validate, normalize and store a reservation as pending; the confirmation email is sent in the background
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body services.ReservationRequest true "Reservation form"
// @Success 201 {object} models.BirthdayReservation
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/reservations [post]
func (h *ReservationHandler) SubmitReservation(c *gin.Context) {
	var req services.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	settings := h.settings.Birthday(c.Request.Context())

	reservation, err := h.reservations.Submit(c.Request.Context(), req, settings)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// ListReservations lists reservations, newest first
// @Summary List reservations
// @Tags admin
// @Produce json
// @Param status query string false "pending, approved, rejected or completed"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} ListResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/admin/reservations [get]
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	rows, total, err := h.reservations.List(c.Request.Context(), models.ReservationStatus(c.Query("status")), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: rows, Total: total, Page: page, Limit: limit})
}

// GetReservation returns one reservation
// @Summary Get a reservation
// @Tags admin
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} models.BirthdayReservation
// @Failure 404 {object} ErrorResponse
// @Router /api/admin/reservations/{id} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	reservation, err := h.reservations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// UpdateReservationStatus moves a reservation forward in its lifecycle
// @Summary Change reservation status
// @Description pending→approved|rejected, approved→completed
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body StatusUpdateRequest true "New status"
// @Success 200 {object} models.BirthdayReservation
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/admin/reservations/{id}/status [patch]
func (h *ReservationHandler) UpdateReservationStatus(c *gin.Context) {
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Status is required", Field: "status"})
		return
	}

	reservation, err := h.reservations.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// DeleteReservation removes a reservation in any state
// @Summary Delete a reservation
// @Tags admin
// @Param id path string true "Reservation ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/admin/reservations/{id} [delete]
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	if err := h.reservations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var exportHeader = []string{
	"id", "status", "full_name", "email", "cpf", "whatsapp", "birth_date",
	"visit_date", "companions", "companion_names", "notes", "created_at",
}

// ExportReservations writes every reservation as CSV
// @Summary Export reservations
// @Tags admin
// @Produce text/csv
// @Success 200 {string} string "CSV file"
// @Router /api/admin/reservations/export [get]
func (h *ReservationHandler) ExportReservations(c *gin.Context) {
	rows, err := h.reservations.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("reservas-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	log := logger.FromContext(c.Request.Context())
	w := csv.NewWriter(c.Writer)
	if err := w.Write(exportHeader); err != nil {
		log.Error("failed to write reservations export", "error", err)
		return
	}
	for _, r := range rows {
		notes := ""
		if r.Notes != nil {
			notes = *r.Notes
		}
		record := []string{
			r.ID,
			string(r.Status),
			r.FullName,
			r.Email,
			r.CPF,
			r.WhatsApp,
			services.DisplayDate(r.BirthDate),
			services.DisplayDate(r.VisitDate),
			strconv.Itoa(r.Companions),
			strings.Join(r.CompanionNames, "; "),
			notes,
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		for i := range record {
			record[i] = csvCell(record[i])
		}
		if err := w.Write(record); err != nil {
			log.Error("failed to write reservations export", "reservation_id", r.ID, "error", err)
			return
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Error("failed to flush reservations export", "error", err)
	}
}

// csvCell keeps spreadsheets from evaluating guest-typed text as a formula.
func csvCell(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}
