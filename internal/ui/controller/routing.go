package controller

import (
	"strings"
	"time"
)

const (
	ProjectsInitDelay   = 50 * time.Millisecond
	ProjectsScrollDelay = 300 * time.Millisecond
)

// OnPageLoad runs after the first load and after every client-side
// navigation. It drops the previous page's state and applies the defaults
// of at most one page kind, chosen by path.
func (c *Controller) OnPageLoad() {
	c.resetPageState()

	path := "/"
	if loc := c.win.Location(); loc != nil {
		path = loc.Path
	}
	c.log.Debug("routing", "page init", map[string]any{"path": path})

	switch {
	case strings.Contains(path, "/projects"):
		c.projectsTask.schedule(c.sched, ProjectsInitDelay, c.initProjects)
	case strings.Contains(path, GetStartedPath):
		if len(c.doc.QueryAll(".persona-btn")) > 0 {
			c.SelectPersona(c.catalog.DefaultPersona)
		}
	case strings.Contains(path, "/research"):
		if first := c.doc.Query(".tab-button"); first != nil {
			c.SelectTab(first)
		}
	}
}

// initProjects applies the "pillar" query parameter to the filter and
// brings the stream grid into view.
func (c *Controller) initProjects() {
	loc := c.win.Location()
	if loc == nil {
		return
	}
	pillar := loc.Query().Get("pillar")
	grid := c.doc.ByID("streams-grid")
	if pillar == "" || grid == nil {
		return
	}
	if button := c.filterButton(pillar); button != nil {
		c.SelectFilter(button)
	}
	c.gridScrollTask.schedule(c.sched, ProjectsScrollDelay, func() {
		if grid := c.doc.ByID("streams-grid"); grid != nil {
			grid.ScrollIntoView("center")
		}
	})
}
