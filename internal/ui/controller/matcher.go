package controller

import (
	"encoding/json"
	"fmt"

	"github.com/arcup/arcup-web/internal/ui/dom"
)

// MatchPrompt is shown while no interest is selected.
const MatchPrompt = "Select interests to see matching streams highlighted below"

// MatchStatus renders the match count line.
func MatchStatus(n int) string {
	streams, verb := "streams", "match"
	if n == 1 {
		streams, verb = "stream", "matches"
	}
	return fmt.Sprintf("%d %s %s your interests — highlighted below ↓", n, streams, verb)
}

// RecomputeMatches rebuilds the matched stream set from the checked interest
// boxes and restyles every stream card. Running it twice with the same boxes
// checked leaves the page unchanged.
func (c *Controller) RecomputeMatches() {
	var selected []string
	var matched []string
	seen := make(map[string]bool)
	for _, box := range c.doc.QueryAll(".interest-checkbox") {
		if !box.Checked() {
			continue
		}
		selected = append(selected, interestID(box))
		for _, id := range c.declaredMatches(box) {
			if !seen[id] {
				seen[id] = true
				matched = append(matched, id)
			}
		}
	}
	c.selected = selected

	status := c.doc.ByID("match-status")
	if len(selected) == 0 {
		c.ClearHighlights()
		if status != nil {
			status.SetText(MatchPrompt)
		}
		return
	}
	if status != nil {
		status.SetText(MatchStatus(len(matched)))
	}
	c.highlight(matched)
}

// ClearHighlights returns every stream card to its neutral look.
func (c *Controller) ClearHighlights() {
	c.matched = nil
	for _, card := range c.doc.QueryAll(".stream-card") {
		card.SetStyle("opacity", "1")
		card.SetStyle("transform", "scale(1)")
		card.SetStyle("filter", "none")
	}
}

// ResetInterests unchecks every interest box and clears highlighting.
func (c *Controller) ResetInterests() {
	for _, box := range c.doc.QueryAll(".interest-checkbox") {
		box.SetChecked(false)
	}
	c.selected = nil
	c.ClearHighlights()
	if status := c.doc.ByID("match-status"); status != nil {
		status.SetText(MatchPrompt)
	}
}

func (c *Controller) highlight(matched []string) {
	if len(matched) == 0 {
		c.ClearHighlights()
		return
	}
	c.matched = matched
	in := make(map[string]bool, len(matched))
	for _, id := range matched {
		in[id] = true
	}
	for _, card := range c.doc.QueryAll(".stream-card") {
		stream, _ := card.Attr("data-stream")
		if in[stream] {
			card.SetStyle("opacity", "1")
			card.SetStyle("transform", "scale(1.02)")
			card.SetStyle("filter", "brightness(1.15)")
		} else {
			card.SetStyle("opacity", "0.3")
			card.SetStyle("transform", "scale(0.98)")
			card.SetStyle("filter", "grayscale(0.7)")
		}
		card.SetStyle("transition", "all 0.3s ease")
	}
	if grid := c.doc.ByID("streams-grid"); grid != nil {
		grid.ScrollIntoView("nearest")
	}
}

func (c *Controller) declaredMatches(box dom.Element) []string {
	raw, ok := box.Attr("data-matches")
	if !ok || raw == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		c.log.Warn("matcher", "ignoring malformed data-matches", map[string]any{
			"interest": interestID(box),
			"error":    err.Error(),
		})
		return nil
	}
	return ids
}

func interestID(box dom.Element) string {
	if v, ok := box.Attr("value"); ok && v != "" {
		return v
	}
	return box.ID()
}
