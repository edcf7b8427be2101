package controller

import (
	"strings"

	"github.com/arcup/arcup-web/internal/ui/dom"
)

// MobileBreakpoint is the viewport width below which the mobile scroll
// threshold applies.
const MobileBreakpoint = 768

// BackToTopThreshold returns how far the page must scroll before the
// back-to-top control shows.
func BackToTopThreshold(width int) float64 {
	if width < MobileBreakpoint {
		return 300
	}
	return 500
}

// UpdateBackToTop shows the control strictly above the threshold.
func (c *Controller) UpdateBackToTop() {
	button := c.doc.ByID("back-to-top")
	if button == nil {
		return
	}
	if c.win.ScrollY() > BackToTopThreshold(c.win.InnerWidth()) {
		button.RemoveClass("opacity-0", "invisible")
		button.AddClass("opacity-100", "visible")
		return
	}
	button.AddClass("opacity-0", "invisible")
	button.RemoveClass("opacity-100", "visible")
}

func (c *Controller) scrollToAnchor(ev *dom.Event, anchor dom.Element) {
	href, _ := anchor.Attr("href")
	if href == "#" {
		return
	}
	ev.PreventDefault()
	if target := c.doc.ByID(strings.TrimPrefix(href, "#")); target != nil {
		target.ScrollIntoView("start")
	}
}
