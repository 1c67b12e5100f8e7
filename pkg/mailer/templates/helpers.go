package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/go-ddd-blog/config"
)

type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = strings.TrimSpace(ip) } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04") }
}

// NewBaseEmailData fills the common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,
		AppURL:      cfg.AppURL,
		SupportURL:  cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
