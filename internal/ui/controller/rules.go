package controller

import (
	"github.com/arcup/arcup-web/internal/ui/dom"
)

// rule maps a matcher to a handler. match returns the element the handler
// acts on, or nil when the rule does not apply.
type rule struct {
	name  string
	match func(c *Controller, ev *dom.Event) dom.Element
	run   func(c *Controller, ev *dom.Event, el dom.Element)
}

// Dispatch runs the first rule of ev's table that matches and returns its
// name, or "" when nothing matched. Scroll events update the back-to-top
// control.
func (c *Controller) Dispatch(ev *dom.Event) string {
	if ev == nil {
		return ""
	}
	if ev.Type == dom.EventScroll {
		c.UpdateBackToTop()
		return "back-to-top-visibility"
	}
	for _, r := range c.rules[ev.Type] {
		if el := r.match(c, ev); el != nil {
			r.run(c, ev, el)
			return r.name
		}
	}
	return ""
}

func closest(selector string) func(*Controller, *dom.Event) dom.Element {
	return func(_ *Controller, ev *dom.Event) dom.Element {
		if ev.Target == nil {
			return nil
		}
		return ev.Target.Closest(selector)
	}
}

// targetIs matches a click that landed on the element itself, not a child.
// Modal backdrops use it.
func targetIs(id string) func(*Controller, *dom.Event) dom.Element {
	return func(c *Controller, ev *dom.Event) dom.Element {
		el := c.doc.ByID(id)
		if el == nil || ev.Target == nil || !ev.Target.Same(el) {
			return nil
		}
		return el
	}
}

var clickRules = []rule{
	{name: "tour-open", match: closest("#tour-button"), run: func(c *Controller, _ *dom.Event, _ dom.Element) { c.OpenTour() }},
	{name: "tour-close", match: closest("#tour-close"), run: func(c *Controller, _ *dom.Event, _ dom.Element) { c.CloseTour() }},
	{name: "tour-backdrop", match: targetIs("tour-modal"), run: func(c *Controller, _ *dom.Event, _ dom.Element) { c.CloseTour() }},
	{name: "tour-prev", match: closest("#tour-prev"), run: func(c *Controller, _ *dom.Event, _ dom.Element) { c.PrevStep() }},
	{name: "tour-next", match: closest("#tour-next"), run: func(c *Controller, _ *dom.Event, _ dom.Element) { c.NextStep() }},
	{name: "contact-open", match: closest(".contact-modal-btn"), run: func(c *Controller, _ *dom.Event, el dom.Element) {
		persona, _ := el.Attr("data-modal-persona")
		c.OpenContact(persona)
	}},
	{name: "contact-close", match: closest("#contact-modal-close"), run: func(c *Controller, _ *dom.Event, _ dom.Element) { c.CloseContact() }},
	{name: "contact-cancel", match: closest("#contact-cancel"), run: func(c *Controller, _ *dom.Event, _ dom.Element) { c.CloseContact() }},
	{name: "contact-backdrop", match: targetIs("contact-modal"), run: func(c *Controller, _ *dom.Event, _ dom.Element) { c.CloseContact() }},
	{name: "tab", match: closest(".tab-button"), run: func(c *Controller, _ *dom.Event, el dom.Element) { c.SelectTab(el) }},
	{name: "filter", match: closest(".filter-btn"), run: func(c *Controller, _ *dom.Event, el dom.Element) { c.SelectFilter(el) }},
	{name: "persona", match: closest(".persona-btn"), run: func(c *Controller, _ *dom.Event, el dom.Element) {
		persona, _ := el.Attr("data-persona")
		c.SelectPersona(persona)
	}},
	{name: "back-to-top", match: closest("#back-to-top"), run: func(c *Controller, _ *dom.Event, _ dom.Element) { c.win.ScrollToTop() }},
	{name: "anchor", match: closest(`a[href^="#"]`), run: func(c *Controller, ev *dom.Event, el dom.Element) { c.scrollToAnchor(ev, el) }},
}

var changeRules = []rule{
	{name: "interest", match: func(_ *Controller, ev *dom.Event) dom.Element {
		if ev.Target != nil && ev.Target.HasClass("interest-checkbox") {
			return ev.Target
		}
		return nil
	}, run: func(c *Controller, _ *dom.Event, _ dom.Element) { c.RecomputeMatches() }},
	{name: "anonymous", match: func(_ *Controller, ev *dom.Event) dom.Element {
		if ev.Target != nil && ev.Target.ID() == "anonymous" {
			return ev.Target
		}
		return nil
	}, run: func(c *Controller, _ *dom.Event, _ dom.Element) { c.ToggleAnonymous() }},
}

var submitRules = []rule{
	{name: "contact-submit", match: func(_ *Controller, ev *dom.Event) dom.Element {
		if ev.Target != nil && ev.Target.ID() == "contact-form" {
			return ev.Target
		}
		return nil
	}, run: func(c *Controller, ev *dom.Event, form dom.Element) { c.SubmitContact(ev, form) }},
}

var keydownRules = []rule{
	{name: "contact-escape", match: func(c *Controller, ev *dom.Event) dom.Element {
		modal := c.doc.ByID("contact-modal")
		if ev.Key != "Escape" || !dom.Visible(modal) {
			return nil
		}
		return modal
	}, run: func(c *Controller, _ *dom.Event, _ dom.Element) { c.CloseContact() }},
	{name: "tour-keys", match: func(c *Controller, ev *dom.Event) dom.Element {
		modal := c.doc.ByID("tour-modal")
		if !dom.Visible(modal) {
			return nil
		}
		switch {
		case ev.Key == "Escape",
			ev.Key == "ArrowRight" && c.tour.Step < TourSteps,
			ev.Key == "ArrowLeft" && c.tour.Step > 1:
			return modal
		}
		return nil
	}, run: func(c *Controller, ev *dom.Event, _ dom.Element) { c.tourKey(ev.Key) }},
	{name: "tab-keys", match: focusedWithin("tab-button"), run: func(c *Controller, ev *dom.Event, el dom.Element) { c.tabKey(ev, el) }},
	{name: "persona-keys", match: focusedWithin("persona-btn"), run: func(c *Controller, ev *dom.Event, el dom.Element) { c.personaKey(ev, el) }},
	{name: "grid-escape", match: func(c *Controller, ev *dom.Event) dom.Element {
		if ev.Key != "Escape" {
			return nil
		}
		return c.doc.ByID("streams-grid")
	}, run: func(c *Controller, _ *dom.Event, _ dom.Element) { c.ResetInterests() }},
}

// focusedWithin matches when the focused element carries class. Keyboard
// handling follows focus, not the event target.
func focusedWithin(class string) func(*Controller, *dom.Event) dom.Element {
	return func(c *Controller, _ *dom.Event) dom.Element {
		active := c.doc.ActiveElement()
		if active == nil || !active.HasClass(class) {
			return nil
		}
		return active
	}
}

func indexOf(list []dom.Element, el dom.Element) int {
	for i, candidate := range list {
		if candidate.Same(el) {
			return i
		}
	}
	return -1
}

// cycle moves idx by delta around a ring of n items.
func cycle(idx, delta, n int) int {
	if n == 0 {
		return -1
	}
	return ((idx+delta)%n + n) % n
}
