package controller

import (
	"fmt"
	"strconv"
)

// TourSteps is the number of steps in the onboarding tour.
const TourSteps = 3

// GetStartedPath is where the tour sends visitors after its last step.
const GetStartedPath = "/get-started"

// OpenTour shows the tour modal at the current step and locks page scroll.
func (c *Controller) OpenTour() {
	modal, content := c.doc.ByID("tour-modal"), c.doc.ByID("tour-content")
	if modal == nil || content == nil {
		return
	}
	modal.RemoveClass("opacity-0", "invisible")
	content.RemoveClass("scale-95")
	content.AddClass("scale-100")
	c.lockScroll()
	c.renderStep(c.tour.Step)
}

// CloseTour hides the tour, restores scroll and rewinds to step 1.
func (c *Controller) CloseTour() {
	modal, content := c.doc.ByID("tour-modal"), c.doc.ByID("tour-content")
	if modal == nil || content == nil {
		return
	}
	modal.AddClass("opacity-0", "invisible")
	content.AddClass("scale-95")
	content.RemoveClass("scale-100")
	c.unlockScroll()
	c.tour.Step = 1
	c.renderStep(1)
}

// NextStep advances the tour, or leaves for the get-started page from the
// last step.
func (c *Controller) NextStep() {
	if c.tour.Step >= TourSteps {
		c.win.Navigate(GetStartedPath)
		return
	}
	c.tour.Step++
	c.renderStep(c.tour.Step)
}

// PrevStep goes back one step. It does nothing on step 1.
func (c *Controller) PrevStep() {
	if c.tour.Step <= 1 {
		return
	}
	c.tour.Step--
	c.renderStep(c.tour.Step)
}

func (c *Controller) tourKey(key string) {
	switch key {
	case "Escape":
		c.CloseTour()
	case "ArrowRight":
		c.NextStep()
	case "ArrowLeft":
		c.PrevStep()
	}
}

func (c *Controller) renderStep(n int) {
	for _, step := range c.doc.QueryAll(".tour-step") {
		step.AddClass("hidden")
	}
	if step := c.doc.Query(`.tour-step[data-step="` + strconv.Itoa(n) + `"]`); step != nil {
		step.RemoveClass("hidden")
	}
	if indicator := c.doc.ByID("tour-step-indicator"); indicator != nil {
		indicator.SetText(fmt.Sprintf("Step %d of %d", n, TourSteps))
	}
	if prev := c.doc.ByID("tour-prev"); prev != nil {
		prev.SetDisabled(n == 1)
	}
	if next := c.doc.ByID("tour-next"); next != nil {
		if n == TourSteps {
			next.SetText("Get Started →")
		} else {
			next.SetText("Next →")
		}
	}
}
