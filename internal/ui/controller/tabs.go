package controller

import (
	"github.com/arcup/arcup-web/internal/ui/dom"
)

var (
	tabActive   = []string{"text-arc-electric", "border-b-2", "border-arc-electric", "bg-arc-electric/5"}
	tabInactive = []string{"text-gray-400"}
)

// SelectTab makes button the only active tab and shows its panel,
// "#tab-<data-tab>".
func (c *Controller) SelectTab(button dom.Element) {
	if button == nil {
		return
	}
	id, _ := button.Attr("data-tab")

	for _, panel := range c.doc.QueryAll(".tab-content") {
		panel.AddClass("hidden")
		panel.SetAttr("aria-hidden", "true")
	}
	panel := c.doc.ByID("tab-" + id)
	if panel != nil {
		panel.RemoveClass("hidden")
		panel.SetAttr("aria-hidden", "false")
	}

	for _, b := range c.doc.QueryAll(".tab-button") {
		b.RemoveClass(tabActive...)
		b.AddClass(tabInactive...)
		b.SetAttr("aria-selected", "false")
	}
	button.RemoveClass(tabInactive...)
	button.AddClass(tabActive...)
	button.SetAttr("aria-selected", "true")
	c.tab = id

	if panel != nil {
		panel.ScrollIntoView("nearest")
	}
}

// tabKey handles keys while a tab button has focus. Arrow keys move focus
// around the ring and select the new tab; other keys are swallowed.
func (c *Controller) tabKey(ev *dom.Event, focused dom.Element) {
	var delta int
	switch ev.Key {
	case "ArrowRight":
		delta = 1
	case "ArrowLeft":
		delta = -1
	default:
		return
	}
	ev.PreventDefault()
	buttons := c.doc.QueryAll(".tab-button")
	next := cycle(indexOf(buttons, focused), delta, len(buttons))
	if next < 0 {
		return
	}
	buttons[next].Focus()
	c.SelectTab(buttons[next])
}
