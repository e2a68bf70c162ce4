package handlers

import (
	"errors"
	"net/http"

	"paradise-vista/internal/logger"
	"paradise-vista/internal/services"

	"github.com/gin-gonic/gin"
)

// FunctionsHandler serves the endpoints the public pages invoke by name.
type FunctionsHandler struct {
	tracker *services.VisitorTracker
	email   *services.EmailService
}

func NewFunctionsHandler(tracker *services.VisitorTracker, email *services.EmailService) *FunctionsHandler {
	return &FunctionsHandler{tracker: tracker, email: email}
}

type TrackVisitorRequest struct {
	PagePath string `json:"pagePath"`
}

type TrackVisitorResponse struct {
	Success        bool    `json:"success"`
	Message        string  `json:"message,omitempty"`
	AlreadyTracked bool    `json:"alreadyTracked,omitempty"`
	State          *string `json:"state"`
	City           *string `json:"city"`
	Country        string  `json:"country,omitempty"`
}

// TrackVisitor records the page view once per address per day
// @Summary Track a visitor
// @Description Record at most one visit per address per UTC day, enriched with geolocation
// @Tags functions
// @Accept json
// @Produce json
// @Param request body TrackVisitorRequest false "Visited page"
// @Success 200 {object} TrackVisitorResponse
// @Failure 500 {object} ErrorResponse
// @Router /functions/v1/track-visitor [post]
func (h *FunctionsHandler) TrackVisitor(c *gin.Context) {
	var req TrackVisitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// An empty or malformed body only loses the page path.
		req = TrackVisitorRequest{}
	}

	result, err := h.tracker.Track(c.Request.Context(), services.VisitInput{
		IPAddress: ClientAddress(c.Request),
		UserAgent: c.GetHeader("User-Agent"),
		PagePath:  req.PagePath,
	})
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("failed to track visit", "error", err)
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	if result.AlreadyTracked {
		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"message":        "Already tracked today",
			"alreadyTracked": true,
		})
		return
	}

	c.JSON(http.StatusOK, TrackVisitorResponse{
		Success: true,
		State:   result.Visit.State,
		City:    result.Visit.City,
		Country: result.Visit.Country,
	})
}

// SendBirthdayConfirmation emails the reservation details to the guest
// @Summary Send birthday confirmation
// @Description Send the HTML confirmation email for a birthday reservation
// @Tags functions
// @Accept json
// @Produce json
// @Param request body services.BirthdayConfirmation true "Reservation details"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /functions/v1/send-birthday-confirmation [post]
func (h *FunctionsHandler) SendBirthdayConfirmation(c *gin.Context) {
	var req services.BirthdayConfirmation
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := h.email.SendBirthdayConfirmation(c.Request.Context(), req)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationErr.Message, Field: validationErr.Field})
			return
		}
		logger.FromContext(c.Request.Context()).Error("failed to send birthday confirmation", "error", err)
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Email sent successfully",
		Data:    receipt,
	})
}
