package contract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectsPage = `<html><body>
<button class="filter-btn" data-filter="all">All</button>
<button class="filter-btn" data-filter="lab">Lab</button>
<button class="filter-btn" data-filter="framework">Framework</button>
<input type="checkbox" class="interest-checkbox" value="sensing" data-matches='["ecosystem","water"]'>
<p id="match-status"></p>
<div id="streams-grid">
  <div class="stream-card" data-stream="physical" data-pillar="lab"></div>
  <div class="stream-card" data-stream="water" data-pillar="lab"></div>
  <div class="stream-card" data-stream="governance" data-pillar="framework"></div>
</div>
</body></html>`

func messages(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.String()
	}
	return out
}

func TestCleanPageHasNoIssues(t *testing.T) {
	issues, err := NewChecker(nil).Check("projects/index.html", strings.NewReader(projectsPage))
	require.NoError(t, err)
	assert.Empty(t, messages(issues))
}

func TestCheckReportsContractViolations(t *testing.T) {
	page := `<html><body>
<div id="dup"></div><div id="dup"></div>
<button class="filter-btn" data-filter="garden">Garden</button>
<div class="stream-card" data-stream="unicorns" data-pillar="lab"></div>
<div class="stream-card" data-stream="water" data-pillar="all"></div>
<div class="stream-card"></div>
<input type="checkbox" class="interest-checkbox" value="broken" data-matches="[not json">
<input type="checkbox" class="interest-checkbox" value="stale" data-matches='["water","tides"]'>
<input type="checkbox" class="interest-checkbox" value="bare">
<button class="persona-btn" data-persona="student"></button>
<button class="persona-btn" data-persona="wizard"></button>
<button class="contact-modal-btn" data-modal-persona="pirate"></button>
<button class="tab-button" data-tab="overview"></button>
<div id="tour-modal"><div class="tour-step" data-step="1"></div></div>
<div id="contact-modal"><form id="contact-form"><select id="persona"><option value="">Pick</option><option value="alien">?</option></select></form></div>
</body></html>`
	issues, err := NewChecker(nil).Check("p.html", strings.NewReader(page))
	require.NoError(t, err)
	require.True(t, HasErrors(issues))

	all := strings.Join(messages(issues), "\n")
	for _, want := range []string{
		`#dup: id used 2 times`,
		`unknown pillar "garden"`,
		`unknown stream "unicorns"`,
		`.stream-card[data-pillar="all"]: unknown pillar "all"`,
		`.stream-card: missing data-stream`,
		`data-matches is not a JSON array of strings`,
		`data-matches names unknown stream "tides"`,
		`missing data-matches`,
		`no #content-student panel`,
		`unknown persona "wizard"`,
		`unknown persona "pirate"`,
		`unknown persona "alien"`,
		`no #tab-overview panel`,
		`missing .tour-step for step 2`,
		`missing .tour-step for step 3`,
		`#contact-modal: missing #contact-submit`,
	} {
		assert.Contains(t, all, want)
	}
	assert.NotContains(t, all, `missing #contact-form`)
}

func TestWarningsAloneAreNotErrors(t *testing.T) {
	page := `<input type="checkbox" class="interest-checkbox" value="x">`
	issues, err := NewChecker(nil).Check("p.html", strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.False(t, HasErrors(issues))
}

func TestSimulateProjectsAppliesPillar(t *testing.T) {
	checker := NewChecker(nil)
	issues, err := checker.Simulate("projects/index.html", "/projects/?pillar=lab", []byte(projectsPage))
	require.NoError(t, err)
	assert.Empty(t, messages(issues))

	issues, err = checker.Simulate("projects/index.html", "/projects/?pillar=commons", []byte(projectsPage))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, `pillar "commons" from the query was not applied`)
}

func TestSimulateGetStartedAndResearch(t *testing.T) {
	checker := NewChecker(nil)

	personas := `<button class="persona-btn" data-persona="student"></button>
<button class="persona-btn" data-persona="researcher"></button>
<div id="content-student" class="persona-content hidden"></div>
<div id="content-researcher" class="persona-content hidden"></div>`
	issues, err := checker.Simulate("get-started/index.html", "/get-started/", []byte(personas))
	require.NoError(t, err)
	assert.Empty(t, messages(issues))

	tabs := `<button class="tab-button" data-tab="overview"></button>
<div id="tab-overview" class="tab-content hidden"></div>`
	issues, err = checker.Simulate("research/index.html", "/research/", []byte(tabs))
	require.NoError(t, err)
	assert.Empty(t, messages(issues))
}

func TestSimulateReportsMalformedMatches(t *testing.T) {
	page := `<input type="checkbox" class="interest-checkbox" value="ok" data-matches='["water"]'>
<input type="checkbox" class="interest-checkbox" value="x" data-matches="oops">
<div class="stream-card" data-stream="water" data-pillar="lab"></div>`
	issues, err := NewChecker(nil).Simulate("p.html", "/", []byte(page))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, "matcher", issues[0].Element)
	assert.Contains(t, issues[0].Message, "ignoring malformed data-matches")
}

func TestRouteFor(t *testing.T) {
	tests := map[string]string{
		"index.html":             "/",
		"projects/index.html":    "/projects/",
		"get-started/index.html": "/get-started/",
		"about.html":             "/about",
		`research\index.html`:    "/research/",
	}
	for in, want := range tests {
		assert.Equal(t, want, RouteFor(in), in)
	}
}
