package contact

import (
	"github.com/arcup/arcup-web/internal/config"
	"github.com/arcup/arcup-web/internal/content"
	"github.com/arcup/arcup-web/internal/mailer"
	"github.com/arcup/arcup-web/logging"
)

// NewHandlerFromConfig wires a Handler to the mailer cfg selects: Resend when
// an API key is configured, otherwise a LogMailer.
func NewHandlerFromConfig(cfg config.Config, store *content.Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	var m mailer.Mailer = mailer.LogMailer{Logger: logger}
	if cfg.Mail.APIKey != "" {
		m = mailer.NewResendClient(nil, cfg.Mail.APIKey, cfg.Mail.Endpoint)
	} else {
		logger.Warn("contact", "no mail API key configured; messages will be logged only", nil)
	}
	return NewHandler(Options{
		Mailer:     m,
		Catalog:    store,
		From:       cfg.Mail.From,
		To:         cfg.Mail.To,
		Production: cfg.Production(),
		Logger:     logger,
	})
}
