package controller

import (
	"github.com/arcup/arcup-web/internal/content"
	"github.com/arcup/arcup-web/internal/ui/dom"
)

// SelectFilter activates the pillar filter button and shows only the stream
// cards of its pillar. Interest highlighting is cleared; checked interest
// boxes stay checked.
func (c *Controller) SelectFilter(button dom.Element) {
	if button == nil {
		return
	}
	value, _ := button.Attr("data-filter")

	for _, b := range c.doc.QueryAll(".filter-btn") {
		id, _ := b.Attr("data-filter")
		if p, ok := c.catalog.Pillar(id); ok {
			b.RemoveClass(p.Active...)
			b.AddClass(p.Inactive...)
		}
	}
	if p, ok := c.catalog.Pillar(value); ok {
		button.RemoveClass(p.Inactive...)
		button.AddClass(p.Active...)
	}
	c.filter = value

	for _, card := range c.doc.QueryAll(".stream-card") {
		pillar, _ := card.Attr("data-pillar")
		if value == content.FilterAll || pillar == value {
			card.SetStyle("display", "block")
		} else {
			card.SetStyle("display", "none")
		}
	}

	c.ClearHighlights()
}

// filterButton returns the filter button for value, if the page has one.
func (c *Controller) filterButton(value string) dom.Element {
	for _, b := range c.doc.QueryAll(".filter-btn") {
		if v, _ := b.Attr("data-filter"); v == value {
			return b
		}
	}
	return nil
}
