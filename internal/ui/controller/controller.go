// Package controller is the site's UI interaction controller. It owns the
// transient view state of the tour, the contact modal, tabs, the interest
// matcher, the pillar filter, persona panels and the back-to-top control,
// and turns delegated DOM events into state changes and class toggles.
package controller

import (
	"time"

	"github.com/arcup/arcup-web/internal/contact/contactapi"
	"github.com/arcup/arcup-web/internal/content"
	"github.com/arcup/arcup-web/internal/ui/dom"
	"github.com/arcup/arcup-web/internal/ui/forms"
	"github.com/arcup/arcup-web/logging"
)

// InitMark is the window-level flag that keeps listeners from being
// registered twice in one page lifetime.
const InitMark = "__arcupGlobalInteractionsInitialized"

// Logger is the subset of logging.Logger the controller uses.
type Logger interface {
	Debug(category, message string, fields map[string]any)
	Warn(category, message string, fields map[string]any)
}

// Options configures a Controller. Zero fields get defaults.
type Options struct {
	Catalog   *content.Catalog
	Scheduler dom.Scheduler
	Submitter forms.Submitter
	// Go runs the submission continuation off the event handler.
	Go     func(func())
	Logger Logger
}

// TourState tracks the onboarding tour. Step is always in [1, TourSteps].
type TourState struct {
	Step int
}

type contactState struct {
	persona    string
	submitting bool
	// session changes on every open and close; a submission only reports
	// into the session it started in.
	session uint64
}

// State is a snapshot of the controller's view state.
type State struct {
	TourStep          int
	ContactPersona    string
	Submitting        bool
	Filter            string
	SelectedInterests []string
	MatchedStreams    []string
	Persona           string
	Tab               string
}

// Controller owns all transient view state for one page session.
type Controller struct {
	doc       dom.Document
	win       dom.Window
	catalog   *content.Catalog
	sched     dom.Scheduler
	submitter forms.Submitter
	goFn      func(func())
	log       Logger

	tour     TourState
	contact  contactState
	filter   string
	selected []string
	matched  []string
	persona  string
	tab      string

	focusTask      task
	resetTask      task
	autoCloseTask  task
	projectsTask   task
	gridScrollTask task

	rules map[string][]rule
}

// New builds a Controller for doc and win.
func New(doc dom.Document, win dom.Window, opts Options) *Controller {
	if opts.Catalog == nil {
		opts.Catalog = content.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = dom.TimeScheduler{}
	}
	if opts.Submitter == nil {
		opts.Submitter = forms.NewHTTPSubmitter(contactapi.Path)
	}
	if opts.Go == nil {
		opts.Go = func(fn func()) { go fn() }
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	c := &Controller{
		doc:       doc,
		win:       win,
		catalog:   opts.Catalog,
		sched:     opts.Scheduler,
		submitter: opts.Submitter,
		goFn:      opts.Go,
		log:       opts.Logger,
		tour:      TourState{Step: 1},
		filter:    content.FilterAll,
	}
	c.rules = map[string][]rule{
		"click":   clickRules,
		"change":  changeRules,
		"submit":  submitRules,
		"keydown": keydownRules,
	}
	return c
}

// Install registers the controller's listeners on b unless another
// controller already did so in this page lifetime. It reports whether
// listeners were registered. Listeners are never removed.
func Install(b dom.Binder, c *Controller) bool {
	if b.Marked(InitMark) {
		c.log.Debug("init", "global interactions already initialized, skipping", nil)
		return false
	}
	b.Mark(InitMark)
	c.log.Debug("init", "initializing global interactions", nil)

	dispatch := func(ev *dom.Event) { c.Dispatch(ev) }
	for _, typ := range []string{"click", "change", "submit", "keydown", dom.EventScroll} {
		b.Listen(typ, dispatch)
	}
	pageLoad := func(*dom.Event) { c.OnPageLoad() }
	b.Listen(dom.EventPageLoad, pageLoad)
	b.Listen(dom.EventReady, pageLoad)
	return true
}

// State returns a snapshot of the current view state.
func (c *Controller) State() State {
	return State{
		TourStep:          c.tour.Step,
		ContactPersona:    c.contact.persona,
		Submitting:        c.contact.submitting,
		Filter:            c.filter,
		SelectedInterests: append([]string(nil), c.selected...),
		MatchedStreams:    append([]string(nil), c.matched...),
		Persona:           c.persona,
		Tab:               c.tab,
	}
}

// resetPageState drops state tied to the previous page's DOM. The in-flight
// submission flag survives; it belongs to the request, not the page.
func (c *Controller) resetPageState() {
	c.focusTask.cancel()
	c.resetTask.cancel()
	c.autoCloseTask.cancel()
	c.projectsTask.cancel()
	c.contact.session++
	c.gridScrollTask.cancel()

	c.tour = TourState{Step: 1}
	c.contact.persona = ""
	c.filter = content.FilterAll
	c.selected = nil
	c.matched = nil
	c.persona = ""
	c.tab = ""
}

func (c *Controller) lockScroll() {
	if body := c.doc.Body(); body != nil {
		body.SetStyle("overflow", "hidden")
	}
}

func (c *Controller) unlockScroll() {
	if body := c.doc.Body(); body != nil {
		body.SetStyle("overflow", "")
	}
}

// task is a cancellable scheduled callback owned by one widget. Scheduling
// replaces whatever the task had pending.
type task struct {
	timer dom.Timer
	fn    func()
}

func (t *task) schedule(s dom.Scheduler, d time.Duration, fn func()) {
	t.cancel()
	t.fn = fn
	var timer dom.Timer
	timer = s.After(d, func() {
		if t.timer != timer {
			return
		}
		t.timer, t.fn = nil, nil
		fn()
	})
	t.timer = timer
}

func (t *task) cancel() {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer, t.fn = nil, nil
}

// flush runs a pending callback now instead of later.
func (t *task) flush() {
	if t.timer == nil {
		return
	}
	fn := t.fn
	t.cancel()
	if fn != nil {
		fn()
	}
}

func (t *task) pending() bool {
	return t.timer != nil
}
