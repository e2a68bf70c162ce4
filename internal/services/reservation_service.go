package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"paradise-vista/internal/cache"
	"paradise-vista/internal/database"
	"paradise-vista/internal/logger"
	"paradise-vista/internal/metrics"
	"paradise-vista/internal/models"
	"paradise-vista/internal/validator"

	"gorm.io/datatypes"
)

// Companions accepts a JSON number or a numeric string, as sent by a form select.
type Companions int

func (c *Companions) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*c = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
		if raw == "" {
			*c = 0
			return nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("companions must be a whole number")
	}
	*c = Companions(n)
	return nil
}

// MarshalJSON renders the companion count as a plain number.
func (c Companions) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(c))
}

type ReservationRequest struct {
	FullName       string     `json:"fullName" validate:"required"`
	Email          string     `json:"email" validate:"required,email"`
	CPF            string     `json:"cpf" validate:"required"`
	BirthDate      string     `json:"birthDate" validate:"required"`
	WhatsApp       string     `json:"whatsapp" validate:"required"`
	VisitDate      string     `json:"visitDate" validate:"required"`
	Companions     Companions `json:"companions"`
	CompanionNames []string   `json:"companionNames"`
}

type ReservationStore interface {
	ExistsByCPF(ctx context.Context, cpf string) (bool, error)
	Create(ctx context.Context, r *models.BirthdayReservation) error
	Get(ctx context.Context, id string) (*models.BirthdayReservation, error)
	ListByStatus(ctx context.Context, status models.ReservationStatus, limit, offset int) ([]models.BirthdayReservation, int64, error)
	UpdateStatus(ctx context.Context, id string, status models.ReservationStatus, notes *string) (*models.BirthdayReservation, error)
	Delete(ctx context.Context, id string) error
}

// ReservationNotifier is told about every stored reservation. Failures are never fatal.
type ReservationNotifier interface {
	NotifyReservation(ctx context.Context, r *models.BirthdayReservation) error
}

type ReservationService struct {
	store    ReservationStore
	notifier ReservationNotifier
	cache    *cache.CacheManager
	validate *validator.Validator
	location *time.Location
	now      func() time.Time
	pending  sync.WaitGroup
}

func NewReservationService(store ReservationStore, notifier ReservationNotifier, cm *cache.CacheManager, loc *time.Location) *ReservationService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReservationService{
		store:    store,
		notifier: notifier,
		cache:    cm,
		validate: validator.New(),
		location: loc,
		now:      time.Now,
	}
}

// Submit validates, normalizes and stores a birthday reservation as pending, then
// notifies the guest in the background.
// The duplicate check and the insert are not atomic: two concurrent submissions with
// the same CPF may both be stored.
func (s *ReservationService) Submit(ctx context.Context, req ReservationRequest, settings models.BirthdaySettings) (*models.BirthdayReservation, error) {
	reservation, err := s.prepare(req, settings)
	if err != nil {
		metrics.Reservations.WithLabelValues("invalid").Inc()
		return nil, err
	}

	exists, err := s.store.ExistsByCPF(ctx, reservation.CPF)
	if err != nil {
		metrics.Reservations.WithLabelValues("failed").Inc()
		return nil, &PersistenceError{Err: err}
	}
	if exists {
		metrics.Reservations.WithLabelValues("duplicate").Inc()
		return nil, &DuplicateError{CPF: reservation.CPF}
	}

	if err := s.store.Create(ctx, reservation); err != nil {
		metrics.Reservations.WithLabelValues("failed").Inc()
		return nil, &PersistenceError{Err: err}
	}

	metrics.Reservations.WithLabelValues("created").Inc()
	logger.FromContext(ctx).Info("birthday reservation created", "reservation_id", reservation.ID, "visit_date", reservation.VisitDate)

	s.notify(ctx, reservation)
	if s.cache != nil {
		s.cache.PublishUpdate(cache.EventReservationCreated, reservation)
	}

	return reservation, nil
}

func (s *ReservationService) prepare(req ReservationRequest, settings models.BirthdaySettings) (*models.BirthdayReservation, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.CPF = strings.TrimSpace(req.CPF)
	req.BirthDate = strings.TrimSpace(req.BirthDate)
	req.WhatsApp = strings.TrimSpace(req.WhatsApp)
	req.VisitDate = strings.TrimSpace(req.VisitDate)

	if err := s.validate.Validate(req); err != nil {
		var errs validator.Errors
		if errors.As(err, &errs) && len(errs) > 0 {
			return nil, &ValidationError{Field: errs[0].Field, Message: errs[0].Message}
		}
		return nil, err
	}

	companions := int(req.Companions)
	if companions < 0 || companions > settings.MaxCompanions {
		return nil, &ValidationError{
			Field:   "companions",
			Message: fmt.Sprintf("Must be between 0 and %d", settings.MaxCompanions),
		}
	}

	names := make([]string, 0, companions)
	for i := 0; i < companions; i++ {
		if i >= len(req.CompanionNames) || strings.TrimSpace(req.CompanionNames[i]) == "" {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("companionNames[%d]", i),
				Message: "Companion name is required",
			}
		}
		names = append(names, strings.TrimSpace(req.CompanionNames[i]))
	}

	birthDate, ok := ConvertDisplayDate(req.BirthDate)
	if !ok {
		return nil, &ValidationError{Field: "birthDate", Message: "Must be a valid date in DD/MM/YYYY format"}
	}

	visitDay, ok := ParseVisitDate(req.VisitDate)
	if !ok {
		return nil, &ValidationError{Field: "visitDate", Message: "Must be a valid date"}
	}
	if !settings.IsSelectable(visitDay, s.Today()) {
		return nil, &ValidationError{Field: "visitDate", Message: "Date is not available for booking"}
	}

	return &models.BirthdayReservation{
		FullName:       req.FullName,
		Email:          req.Email,
		CPF:            FormatCPF(req.CPF),
		BirthDate:      birthDate,
		WhatsApp:       FormatPhone(req.WhatsApp),
		VisitDate:      visitDay.Format("2006-01-02"),
		Companions:     companions,
		CompanionNames: datatypes.NewJSONSlice(names),
		Status:         models.ReservationPending,
	}, nil
}

func (s *ReservationService) notify(ctx context.Context, r *models.BirthdayReservation) {
	if s.notifier == nil {
		return
	}

	detached := context.WithoutCancel(ctx)
	snapshot := *r

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.notifier.NotifyReservation(detached, &snapshot); err != nil {
			logger.FromContext(detached).Warn("reservation notification failed",
				"reservation_id", snapshot.ID, "email", snapshot.Email, "error", err)
		}
	}()
}

// Today is the current moment in the business timezone.
func (s *ReservationService) Today() time.Time {
	return s.now().In(s.location)
}

// Wait blocks until every background notification has finished.
func (s *ReservationService) Wait() {
	s.pending.Wait()
}

func (s *ReservationService) List(ctx context.Context, status models.ReservationStatus, page, limit int) ([]models.BirthdayReservation, int64, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, &ValidationError{Field: "status", Message: "Unknown status"}
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	return s.store.ListByStatus(ctx, status, limit, (page-1)*limit)
}

// All returns every reservation, newest first.
func (s *ReservationService) All(ctx context.Context) ([]models.BirthdayReservation, error) {
	rows, _, err := s.store.ListByStatus(ctx, "", 0, 0)
	return rows, err
}

func (s *ReservationService) Get(ctx context.Context, id string) (*models.BirthdayReservation, error) {
	return s.store.Get(ctx, id)
}

// UpdateStatus moves a reservation forward through its lifecycle.
func (s *ReservationService) UpdateStatus(ctx context.Context, id string, next models.ReservationStatus, notes *string) (*models.BirthdayReservation, error) {
	if !next.IsValid() {
		return nil, &ValidationError{Field: "status", Message: "Unknown status"}
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, &TransitionError{From: current.Status, To: next}
	}

	updated, err := s.store.UpdateStatus(ctx, id, next, notes)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
		return nil, &PersistenceError{Err: err}
	}

	logger.FromContext(ctx).Info("reservation status changed", "reservation_id", id, "from", current.Status, "to", next)
	if s.cache != nil {
		s.cache.PublishUpdate(cache.EventReservationStatusChanged, statusChange{ID: id, From: current.Status, To: next})
	}
	return updated, nil
}

func (s *ReservationService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.PublishUpdate(cache.EventReservationDeleted, map[string]string{"id": id})
	}
	return nil
}

type statusChange struct {
	ID   string                   `json:"id"`
	From models.ReservationStatus `json:"from"`
	To   models.ReservationStatus `json:"to"`
}
