package controller

import (
	"context"
	"time"

	"github.com/arcup/arcup-web/internal/ui/dom"
	"github.com/arcup/arcup-web/internal/ui/forms"
)

// Contact modal timings. FocusDelay waits out the open transition and
// ResetDelay the fade-out; AutoCloseDelay follows a successful send.
const (
	FocusDelay     = 100 * time.Millisecond
	ResetDelay     = 300 * time.Millisecond
	AutoCloseDelay = 2 * time.Second
)

// Status banner texts.
const (
	SendingLabel   = "Sending..."
	SuccessMessage = "Message sent successfully! We'll be in touch soon."
	NetworkError   = "Network error. Please check your connection and try again."
)

const (
	statusBase    = "p-4 rounded-lg "
	statusError   = "bg-red-500/10 border border-red-500/30 text-red-400"
	statusSuccess = "bg-green-500/10 border border-green-500/30 text-green-400"
)

// OpenContact shows the contact modal, preselecting persona when it is not
// empty. A close reset still pending from an earlier close runs first.
func (c *Controller) OpenContact(persona string) {
	modal, content := c.doc.ByID("contact-modal"), c.doc.ByID("contact-modal-content")
	if modal == nil || content == nil {
		return
	}
	c.resetTask.flush()
	c.autoCloseTask.cancel()
	c.contact.session++

	c.contact.persona = persona
	if persona != "" {
		if sel := c.doc.ByID("persona"); sel != nil {
			sel.SetValue(persona)
		}
	}

	modal.RemoveClass("opacity-0", "invisible")
	modal.SetAttr("aria-hidden", "false")
	content.RemoveClass("scale-95")
	content.AddClass("scale-100")
	c.lockScroll()

	c.focusTask.schedule(c.sched, FocusDelay, func() {
		if first := c.doc.ByID("name"); first != nil {
			first.Focus()
		}
	})
}

// CloseContact hides the modal and resets the form once the fade-out is over.
func (c *Controller) CloseContact() {
	modal, content := c.doc.ByID("contact-modal"), c.doc.ByID("contact-modal-content")
	if modal == nil || content == nil {
		return
	}
	modal.AddClass("opacity-0", "invisible")
	modal.SetAttr("aria-hidden", "true")
	content.AddClass("scale-95")
	content.RemoveClass("scale-100")
	c.unlockScroll()

	c.contact.session++
	c.focusTask.cancel()
	c.autoCloseTask.cancel()
	c.resetTask.schedule(c.sched, ResetDelay, c.resetContactForm)
}

func (c *Controller) resetContactForm() {
	if form := c.doc.ByID("contact-form"); form != nil {
		form.Reset()
	}
	c.hideStatus()
	c.contact.persona = ""
	c.ToggleAnonymous()
}

// ToggleAnonymous shows or hides the identity fields to match the anonymous
// checkbox. Name and email are required only when they are shown.
func (c *Controller) ToggleAnonymous() {
	box, fields := c.doc.ByID("anonymous"), c.doc.ByID("identity-fields")
	if box == nil || fields == nil {
		return
	}
	inputs := []dom.Element{c.doc.ByID("name"), c.doc.ByID("email")}
	if box.Checked() {
		fields.SetStyle("display", "none")
		for _, in := range inputs {
			if in != nil {
				in.RemoveAttr("required")
			}
		}
		return
	}
	fields.SetStyle("display", "block")
	for _, in := range inputs {
		if in != nil {
			in.SetAttr("required", "required")
		}
	}
}

// SubmitContact sends the contact form once. While a submission is in flight
// further submits are dropped, whatever state the button is in.
func (c *Controller) SubmitContact(ev *dom.Event, form dom.Element) {
	ev.PreventDefault()
	if c.contact.submitting {
		c.log.Warn("contact", "submission already in flight, ignoring submit", nil)
		return
	}
	c.contact.submitting = true

	button := c.doc.ByID("contact-submit")
	var label string
	if button != nil {
		label = button.Text()
		button.SetDisabled(true)
		button.SetText(SendingLabel)
	}

	req := forms.Collect(form.FormValues())
	c.log.Debug("contact", "submitting contact form", map[string]any{
		"persona":   req.Persona,
		"anonymous": req.Anonymous,
		"skills":    len(req.Skills),
	})

	session := c.contact.session
	c.goFn(func() {
		res, err := c.submitter.Submit(context.Background(), req)
		c.sched.After(0, func() { c.finishSubmit(session, button, label, res, err) })
	})
}

// finishSubmit always restores the button. The outcome is only shown when
// the modal is still in the session the submission started in.
func (c *Controller) finishSubmit(session uint64, button dom.Element, label string, res forms.Result, err error) {
	defer func() {
		if button != nil {
			button.SetDisabled(false)
			button.SetText(label)
		}
		c.contact.submitting = false
	}()

	if session != c.contact.session {
		c.log.Debug("contact", "modal closed before the response arrived, dropping outcome", map[string]any{
			"ok":     err == nil && res.OK,
			"failed": err != nil,
		})
		return
	}

	switch {
	case err != nil:
		c.log.Warn("contact", "form submission failed", map[string]any{"error": err.Error()})
		c.showStatus(NetworkError, true)
	case res.OK:
		c.showStatus(SuccessMessage, false)
		c.autoCloseTask.schedule(c.sched, AutoCloseDelay, c.CloseContact)
	default:
		c.showStatus(res.Message, true)
	}
}

func (c *Controller) showStatus(message string, isError bool) {
	status := c.doc.ByID("form-status")
	if status == nil {
		return
	}
	palette := statusSuccess
	if isError {
		palette = statusError
	}
	status.SetAttr("class", statusBase+palette)
	status.SetText(message)
	status.RemoveClass("hidden")
}

func (c *Controller) hideStatus() {
	if status := c.doc.ByID("form-status"); status != nil {
		status.AddClass("hidden")
	}
}
