package controller

import (
	"github.com/arcup/arcup-web/internal/ui/dom"
)

var personaRing = []string{"ring-2", "ring-offset-2", "ring-offset-primary-900"}

// SelectPersona shows the "#content-<id>" panel and moves the active ring to
// the persona's button. Each other button falls back to its own inactive
// accent.
func (c *Controller) SelectPersona(id string) {
	for _, panel := range c.doc.QueryAll(".persona-content") {
		panel.AddClass("hidden")
	}

	var active dom.Element
	for _, b := range c.doc.QueryAll(".persona-btn") {
		b.RemoveClass(personaRing...)
		pid, _ := b.Attr("data-persona")
		if p, ok := c.catalog.Persona(pid); ok {
			b.RemoveClass(p.Active...)
			b.AddClass(p.Inactive...)
		}
		if pid == id && active == nil {
			active = b
		}
	}

	panel := c.doc.ByID("content-" + id)
	if panel != nil {
		panel.RemoveClass("hidden")
	}
	if active != nil {
		active.AddClass(personaRing...)
		if p, ok := c.catalog.Persona(id); ok {
			active.RemoveClass(p.Inactive...)
			active.AddClass(p.Active...)
		}
	}
	c.persona = id

	if panel != nil {
		panel.ScrollIntoView("nearest")
	}
}

// personaKey handles keys while a persona button has focus. Arrows only move
// focus; Enter and Space activate.
func (c *Controller) personaKey(ev *dom.Event, focused dom.Element) {
	var delta int
	switch ev.Key {
	case "ArrowRight", "ArrowDown":
		delta = 1
	case "ArrowLeft", "ArrowUp":
		delta = -1
	case "Enter", " ":
		ev.PreventDefault()
		id, _ := focused.Attr("data-persona")
		c.SelectPersona(id)
		return
	default:
		return
	}
	ev.PreventDefault()
	buttons := c.doc.QueryAll(".persona-btn")
	if next := cycle(indexOf(buttons, focused), delta, len(buttons)); next >= 0 {
		buttons[next].Focus()
	}
}
