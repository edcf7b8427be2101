// Package contract checks built pages against the markup the interaction
// controller relies on: known stream, pillar and persona identifiers,
// well-formed data-matches lists and the ids each widget looks up.
package contract

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/arcup/arcup-web/internal/content"
	"github.com/arcup/arcup-web/internal/ui/controller"
)

// Severity grades an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one contract violation on a page.
type Issue struct {
	Page     string
	Severity Severity
	// Element describes the offending node, e.g. `input#name` or `.stream-card[data-stream="x"]`.
	Element string
	Message string
}

func (i Issue) String() string {
	if i.Element == "" {
		return fmt.Sprintf("%s: %s: %s", i.Page, i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s: %s", i.Page, i.Severity, i.Element, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// widgetIDs lists, per widget root, the ids its handlers look up.
var widgetIDs = []struct {
	root string
	ids  []string
}{
	{"tour-modal", []string{"tour-content", "tour-step-indicator", "tour-prev", "tour-next"}},
	{"contact-modal", []string{"contact-modal-content", "contact-form", "persona", "name", "email",
		"anonymous", "identity-fields", "contact-submit", "form-status"}},
}

// Checker validates pages against a catalog.
type Checker struct {
	catalog *content.Catalog
}

// NewChecker returns a Checker for c, or the built-in catalog when c is nil.
func NewChecker(c *content.Catalog) *Checker {
	if c == nil {
		c = content.Default()
	}
	return &Checker{catalog: c}
}

// Check parses one page and returns its static contract issues.
func (c *Checker) Check(page string, r io.Reader) ([]Issue, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", page, err)
	}
	p := &pageCheck{page: page, doc: doc, catalog: c.catalog}
	p.duplicateIDs()
	p.streams()
	p.pillars()
	p.interests()
	p.personas()
	p.tabs()
	p.tourSteps()
	p.widgets()
	return p.issues, nil
}

type pageCheck struct {
	page    string
	doc     *goquery.Document
	catalog *content.Catalog
	issues  []Issue
}

func (p *pageCheck) add(sev Severity, element, format string, args ...any) {
	p.issues = append(p.issues, Issue{
		Page:     p.page,
		Severity: sev,
		Element:  element,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (p *pageCheck) duplicateIDs() {
	seen := map[string]int{}
	p.doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		seen[id]++
	})
	ids := make([]string, 0, len(seen))
	for id, n := range seen {
		if n > 1 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		p.add(SeverityError, "#"+id, "id used %d times", seen[id])
	}
}

func (p *pageCheck) streams() {
	p.doc.Find(".stream-card").Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("data-stream")
		if !ok || strings.TrimSpace(id) == "" {
			p.add(SeverityError, ".stream-card", "missing data-stream")
			return
		}
		if !p.catalog.HasStream(id) {
			p.add(SeverityError, describe(".stream-card", "data-stream", id), "unknown stream %q", id)
		}
		if pillar, ok := s.Attr("data-pillar"); !ok {
			p.add(SeverityError, describe(".stream-card", "data-stream", id), "missing data-pillar")
		} else if _, known := p.catalog.Pillar(pillar); !known || pillar == content.FilterAll {
			p.add(SeverityError, describe(".stream-card", "data-pillar", pillar), "unknown pillar %q", pillar)
		}
	})
}

func (p *pageCheck) pillars() {
	p.doc.Find(".filter-btn").Each(func(_ int, s *goquery.Selection) {
		value, _ := s.Attr("data-filter")
		if _, ok := p.catalog.Pillar(value); !ok {
			p.add(SeverityError, describe(".filter-btn", "data-filter", value), "unknown pillar %q", value)
		}
	})
}

func (p *pageCheck) interests() {
	p.doc.Find(".interest-checkbox").Each(func(_ int, s *goquery.Selection) {
		raw, ok := s.Attr("data-matches")
		value, _ := s.Attr("value")
		el := describe(".interest-checkbox", "value", value)
		if !ok {
			p.add(SeverityWarning, el, "missing data-matches; selecting it matches nothing")
			return
		}
		var matches []string
		if err := json.Unmarshal([]byte(raw), &matches); err != nil {
			p.add(SeverityError, el, "data-matches is not a JSON array of strings: %v", err)
			return
		}
		for _, id := range matches {
			if !p.catalog.HasStream(id) {
				p.add(SeverityWarning, el, "data-matches names unknown stream %q", id)
			}
		}
	})
}

func (p *pageCheck) personas() {
	p.doc.Find(".persona-btn").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("data-persona")
		if _, ok := p.catalog.Persona(id); !ok {
			p.add(SeverityError, describe(".persona-btn", "data-persona", id), "unknown persona %q", id)
			return
		}
		if p.doc.Find("#content-"+id).Length() == 0 {
			p.add(SeverityWarning, describe(".persona-btn", "data-persona", id), "no #content-%s panel", id)
		}
	})
	p.doc.Find("[data-modal-persona]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("data-modal-persona")
		if id == "" {
			return
		}
		if _, ok := p.catalog.Persona(id); !ok {
			p.add(SeverityError, describe(".contact-modal-btn", "data-modal-persona", id), "unknown persona %q", id)
		}
	})
	p.doc.Find("select#persona option").Each(func(_ int, s *goquery.Selection) {
		value, ok := s.Attr("value")
		if !ok || value == "" {
			return
		}
		if _, known := p.catalog.Persona(value); !known {
			p.add(SeverityError, describe("#persona option", "value", value), "unknown persona %q", value)
		}
	})
}

func (p *pageCheck) tabs() {
	p.doc.Find(".tab-button").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("data-tab")
		if id == "" {
			p.add(SeverityError, ".tab-button", "missing data-tab")
			return
		}
		if p.doc.Find("#tab-"+id).Length() == 0 {
			p.add(SeverityError, describe(".tab-button", "data-tab", id), "no #tab-%s panel", id)
		}
	})
}

func (p *pageCheck) tourSteps() {
	if p.doc.Find("#tour-modal").Length() == 0 {
		return
	}
	for step := 1; step <= controller.TourSteps; step++ {
		if p.doc.Find(fmt.Sprintf(`.tour-step[data-step="%d"]`, step)).Length() == 0 {
			p.add(SeverityError, "#tour-modal", "missing .tour-step for step %d", step)
		}
	}
}

func (p *pageCheck) widgets() {
	for _, w := range widgetIDs {
		if p.doc.Find("#"+w.root).Length() == 0 {
			continue
		}
		for _, id := range w.ids {
			if p.doc.Find("#"+id).Length() == 0 {
				p.add(SeverityWarning, "#"+w.root, "missing #%s", id)
			}
		}
	}
}

func describe(selector, attr, value string) string {
	return fmt.Sprintf("%s[%s=%q]", selector, attr, value)
}
