package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"paradise-vista/configs"
	"paradise-vista/internal/logger"
	"paradise-vista/internal/metrics"
	"paradise-vista/internal/models"
	"paradise-vista/internal/validator"

	"gopkg.in/gomail.v2"
)

const birthdaySubject = "Sua reserva de aniversário no Paradise Vista do Atlântico"

// Mailer is satisfied by *gomail.Dialer.
type Mailer interface {
	DialAndSend(m ...*gomail.Message) error
}

// BirthdayConfirmation is the payload of the confirmation email function.
type BirthdayConfirmation struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	WhatsApp      string `json:"whatsapp" validate:"required"`
	BirthDate     string `json:"birthDate" validate:"required"`
	Guests        *int   `json:"guests" validate:"required,min=0"`
	PreferredDate string `json:"preferredDate" validate:"required"`
}

type EmailReceipt struct {
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	SentAt  time.Time `json:"sent_at"`
}

type EmailService struct {
	mailer      Mailer
	from        string
	fromName    string
	whatsappURL string
	validate    *validator.Validator
	tpl         *template.Template
}

func NewEmailService(mailer Mailer, from, fromName, whatsappURL string) *EmailService {
	return &EmailService{
		mailer:      mailer,
		from:        from,
		fromName:    fromName,
		whatsappURL: whatsappURL,
		validate:    validator.New(),
		tpl:         template.Must(template.New("birthday").Parse(birthdayTemplate)),
	}
}

// NewSMTPEmailService wires the service to the configured SMTP server.
func NewSMTPEmailService(cfg *configs.Config) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	return NewEmailService(dialer, cfg.EmailFrom, cfg.EmailFromName, cfg.WhatsAppContactURL)
}

func (s *EmailService) SendBirthdayConfirmation(ctx context.Context, c BirthdayConfirmation) (*EmailReceipt, error) {
	if err := s.validate.Validate(c); err != nil {
		if errs, ok := err.(validator.Errors); ok && len(errs) > 0 {
			return nil, &ValidationError{Field: errs[0].Field, Message: errs[0].Message}
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	err := s.tpl.Execute(&body, map[string]interface{}{
		"Name":          c.Name,
		"Email":         c.Email,
		"WhatsApp":      c.WhatsApp,
		"BirthDate":     DisplayDate(c.BirthDate),
		"Guests":        *c.Guests,
		"PreferredDate": DisplayDate(c.PreferredDate),
		"WhatsAppURL":   s.whatsappURL,
	})
	if err != nil {
		return nil, fmt.Errorf("render email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", c.Email)
	m.SetHeader("Subject", birthdaySubject)
	m.SetBody("text/html", body.String())

	if err := s.mailer.DialAndSend(m); err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("send email: %w", err)
	}

	metrics.Notifications.WithLabelValues("sent").Inc()
	logger.FromContext(ctx).Info("birthday confirmation sent", "to", c.Email)

	return &EmailReceipt{To: c.Email, Subject: birthdaySubject, SentAt: time.Now().UTC()}, nil
}

// NotifyReservation sends the confirmation for a stored reservation.
func (s *EmailService) NotifyReservation(ctx context.Context, r *models.BirthdayReservation) error {
	guests := r.Companions
	_, err := s.SendBirthdayConfirmation(ctx, BirthdayConfirmation{
		Name:          r.FullName,
		Email:         r.Email,
		WhatsApp:      r.WhatsApp,
		BirthDate:     r.BirthDate,
		Guests:        &guests,
		PreferredDate: r.VisitDate,
	})
	return err
}

const birthdayTemplate = `<!DOCTYPE html>
<html lang="pt-BR">
<head><meta charset="UTF-8"><title>Reserva de Aniversário</title></head>
<body style="font-family: Arial, sans-serif; color: #1f2937; background: #f8fafc; padding: 24px;">
  <div style="max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 12px; padding: 32px;">
    <h1 style="color: #0e7490;">Olá, {{.Name}}!</h1>
    <p>Recebemos sua solicitação de reserva de aniversário no <strong>Paradise Vista do Atlântico</strong>.
       Ela está em análise e entraremos em contato para confirmar.</p>
    <table style="width: 100%; border-collapse: collapse; margin: 24px 0;">
      <tr><td style="padding: 8px 0;"><strong>Nome</strong></td><td>{{.Name}}</td></tr>
      <tr><td style="padding: 8px 0;"><strong>E-mail</strong></td><td>{{.Email}}</td></tr>
      <tr><td style="padding: 8px 0;"><strong>WhatsApp</strong></td><td>{{.WhatsApp}}</td></tr>
      <tr><td style="padding: 8px 0;"><strong>Data de nascimento</strong></td><td>{{.BirthDate}}</td></tr>
      <tr><td style="padding: 8px 0;"><strong>Acompanhantes</strong></td><td>{{.Guests}}</td></tr>
      <tr><td style="padding: 8px 0;"><strong>Data da visita</strong></td><td>{{.PreferredDate}}</td></tr>
    </table>
    <p>Dúvidas? Fale com a nossa equipe pelo WhatsApp:</p>
    <p><a href="{{.WhatsAppURL}}" style="background: #22c55e; color: #ffffff; padding: 12px 20px; border-radius: 8px; text-decoration: none;">Falar no WhatsApp</a></p>
    <p style="font-size: 12px; color: #6b7280; margin-top: 32px;">Paradise Vista do Atlântico</p>
  </div>
</body>
</html>`
