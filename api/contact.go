// Package handler exposes the contact relay as a serverless function for
// hosts that map api/*.go files to endpoints.
package handler

import (
	"net/http"
	"sync"

	"github.com/arcup/arcup-web/internal/config"
	"github.com/arcup/arcup-web/internal/contact"
	"github.com/arcup/arcup-web/internal/content"
	"github.com/arcup/arcup-web/logging"
)

var (
	contactOnce    sync.Once
	contactHandler http.Handler
)

// Handler serves POST /api/contact. Configuration is read from the
// environment on the first request.
func Handler(w http.ResponseWriter, r *http.Request) {
	contactOnce.Do(func() {
		cfg, err := config.FromEnv()
		logger := logging.New("contact-function", logging.ParseLevel(cfg.LogLevel))
		if err != nil {
			logger.Error("config", "load config", err, nil)
			cfg = config.Defaults()
		}
		contactHandler = contact.NewHandlerFromConfig(cfg, content.NewStore(nil), logger)
	})
	contactHandler.ServeHTTP(w, r)
}
