package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/internship-portal/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithActionURL(url string) Option { return func(d *EmailData) { d.ActionURL = url } }

func WithSender(name, email, phone string) Option {
	return func(d *EmailData) {
		d.SenderName = strings.TrimSpace(name)
		d.SenderEmail = email
		d.SenderPhone = phone
	}
}

// NewBaseEmailData fills the common fields from config, then applies the options.
func NewBaseEmailData(cfg *config.Config, typ string, name, email, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: recipient,
		Type:           typ,

		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		AppName:        cfg.AppName,

		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
		PrivacyURL:     cfg.PrivacyURL,
		UnsubscribeURL: cfg.UnsubscribeURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, Welcome, name, email, email, opts...))
}

func NewPasswordChangedData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, PasswordChanged, name, email, email, opts...))
}

func NewApplicationReviewedData(cfg *config.Config, name, email, internshipTitle, status string, opts ...Option) map[string]any {
	opts = append([]Option{WithActionURL(cfg.MyApplicationsURL)}, opts...)
	d := NewBaseEmailData(cfg, ApplicationReviewed, name, email, email, opts...)
	d.InternshipTitle = internshipTitle
	d.Status = status
	return ToMap(d)
}

// NewContactReceivedData addresses the inbox owner; the sender goes into Sender* fields.
func NewContactReceivedData(cfg *config.Config, recipient, message string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, ContactReceived, cfg.CompanyName, recipient, recipient, opts...)
	d.Message = message
	return ToMap(d)
}
