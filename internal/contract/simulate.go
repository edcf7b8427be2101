package contract

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/arcup/arcup-web/internal/ui/controller"
	"github.com/arcup/arcup-web/internal/ui/dom/htmldom"
)

// settle is long enough for every deferred page-entry task to run.
const settle = 2 * time.Second

// collector records controller warnings as issues.
type collector struct {
	mu     sync.Mutex
	page   string
	issues []Issue
}

func (l *collector) Debug(string, string, map[string]any) {}

func (l *collector) Warn(category, message string, fields map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := message
	if len(fields) > 0 {
		msg = fmt.Sprintf("%s %v", message, fields)
	}
	l.issues = append(l.issues, Issue{Page: l.page, Severity: SeverityWarning, Element: category, Message: msg})
}

// Simulate loads src as if the browser navigated to route, runs page-entry
// initialization headlessly, toggles each interest checkbox once and reports
// what the controller could not apply.
func (c *Checker) Simulate(page, route string, src []byte) ([]Issue, error) {
	doc, err := htmldom.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", page, err)
	}
	win := htmldom.NewWindow("https://arcup.local"+route, 1280)
	sched := htmldom.NewManualScheduler()
	log := &collector{page: page}
	ctl := controller.New(doc, win, controller.Options{
		Catalog:   c.catalog,
		Scheduler: sched,
		Logger:    log,
	})
	ctl.OnPageLoad()
	sched.Advance(settle)

	// Try each interest on its own so a malformed list surfaces as a
	// matcher warning.
	for _, box := range doc.QueryAll(".interest-checkbox") {
		box.SetChecked(true)
		ctl.RecomputeMatches()
		box.SetChecked(false)
	}
	ctl.ResetInterests()
	sched.Advance(settle)

	issues := log.issues
	add := func(format string, args ...any) {
		issues = append(issues, Issue{Page: page, Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
	}
	state := ctl.State()
	path := win.Location().Path
	switch {
	case strings.Contains(path, "/projects"):
		pillar := win.Location().Query().Get("pillar")
		if pillar != "" && doc.ByID("streams-grid") != nil && state.Filter != pillar {
			add("pillar %q from the query was not applied (filter is %q)", pillar, state.Filter)
		}
	case strings.Contains(path, controller.GetStartedPath):
		if len(doc.QueryAll(".persona-btn")) > 0 && state.Persona != c.catalog.DefaultPersona {
			add("default persona %q was not selected", c.catalog.DefaultPersona)
		}
	case strings.Contains(path, "/research"):
		if doc.Query(".tab-button") != nil && state.Tab == "" {
			add("no research tab was activated")
		}
	}
	return issues, nil
}

// RouteFor maps a built page path such as "projects/index.html" to the URL
// path it is served at.
func RouteFor(rel string) string {
	rel = strings.TrimPrefix(strings.ReplaceAll(rel, "\\", "/"), "/")
	switch {
	case rel == "index.html":
		return "/"
	case strings.HasSuffix(rel, "/index.html"):
		return "/" + strings.TrimSuffix(rel, "index.html")
	default:
		return "/" + strings.TrimSuffix(rel, ".html")
	}
}

var _ controller.Logger = (*collector)(nil)
