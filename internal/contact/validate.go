// Package contact relays contact form submissions to the team inbox.
package contact

import (
	"errors"
	"strings"

	"github.com/arcup/arcup-web/internal/contact/contactapi"
)

// ErrValidation matches every error returned by Validate.
var ErrValidation = errors.New("contact: invalid submission")

// Validation messages shown to the submitter.
const (
	MsgPersonaMessageRequired = "Persona and message are required"
	MsgIdentityRequired       = `Name and email are required (or check "Send anonymously")`
)

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }

// Validate checks the required fields. Name and email may be omitted only by
// anonymous submissions.
func Validate(req contactapi.Request) error {
	if blank(req.Persona) || blank(req.Message) {
		return &validationError{msg: MsgPersonaMessageRequired}
	}
	if !req.Anonymous && (blank(req.Name) || blank(req.Email)) {
		return &validationError{msg: MsgIdentityRequired}
	}
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
