package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/arcup/arcup-web/internal/contact/contactapi"
	"github.com/arcup/arcup-web/internal/content"
	"github.com/arcup/arcup-web/internal/mailer"
	"github.com/arcup/arcup-web/logging"
)

// MaxBodyBytes caps the size of a submission.
const MaxBodyBytes = 64 << 10

// Response texts.
const (
	MsgSent             = "Message sent successfully!"
	MsgMethodNotAllowed = "Method not allowed"
	MsgInvalidBody      = "Invalid request body"
	MsgSendFailed       = "Failed to send message. Please try again or contact us directly."
)

// Options configures a Handler.
type Options struct {
	Mailer  mailer.Mailer
	Catalog *content.Store
	From    string
	To      []string
	// Production hides failure details from responses.
	Production bool
	Logger     *logging.Logger
	// SendTimeout bounds the mail provider call. Zero means 10s.
	SendTimeout time.Duration
	Now         func() time.Time
}

// Handler serves POST /api/contact.
type Handler struct {
	opts Options
}

// NewHandler fills defaults and returns a Handler.
func NewHandler(opts Options) *Handler {
	if opts.Catalog == nil {
		opts.Catalog = content.NewStore(nil)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Mailer == nil {
		opts.Mailer = mailer.LogMailer{Logger: opts.Logger}
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 10 * time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handler{opts: opts}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		respondJSON(w, http.StatusMethodNotAllowed, contactapi.Response{Error: MsgMethodNotAllowed})
		return
	}
	log := h.opts.Logger.WithRequestID(logging.RequestID(r.Context())).WithCategory("contact")

	var req contactapi.Request
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithField("error", err.Error()).Warn("rejected undecodable submission")
		respondJSON(w, http.StatusBadRequest, contactapi.Response{Error: MsgInvalidBody})
		return
	}

	if err := Validate(req); err != nil {
		if errors.Is(err, ErrValidation) {
			log.WithField("persona", req.Persona).WithField("reason", err.Error()).Info("rejected invalid submission")
			respondJSON(w, http.StatusBadRequest, contactapi.Response{Error: err.Error()})
			return
		}
		h.fail(w, log, err)
		return
	}

	msg, err := Compose(req, h.opts.Catalog.Catalog(), h.opts.Now())
	if err != nil {
		h.fail(w, log, err)
		return
	}
	msg.From = h.opts.From
	msg.To = h.opts.To

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.SendTimeout)
	defer cancel()
	id, err := h.opts.Mailer.Send(ctx, msg)
	if err != nil {
		h.fail(w, log, err)
		return
	}

	log.WithField("id", id).
		WithField("persona", req.Persona).
		WithField("anonymous", req.Anonymous).
		Info("contact message sent")
	respondJSON(w, http.StatusOK, contactapi.Response{Success: true, Message: MsgSent, ID: id})
}

func (h *Handler) fail(w http.ResponseWriter, log *logging.LogContext, err error) {
	log.Error("contact form error", err)
	resp := contactapi.Response{Error: MsgSendFailed}
	if !h.opts.Production {
		resp.Details = err.Error()
	}
	respondJSON(w, http.StatusInternalServerError, resp)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
