package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePages(t *testing.T, pages map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range pages {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(body), 0o644))
	}
	return root
}

const projects = `<button class="filter-btn" data-filter="all"></button>
<button class="filter-btn" data-filter="lab"></button>
<button class="filter-btn" data-filter="framework"></button>
<button class="filter-btn" data-filter="commons"></button>
<div id="streams-grid"><div class="stream-card" data-stream="water" data-pillar="lab"></div></div>`

func TestRunCleanSite(t *testing.T) {
	root := writePages(t, map[string]string{
		"index.html":          "<h1>ArcUp</h1>",
		"projects/index.html": projects,
		"logo.svg":            "<svg/>",
	})
	var out bytes.Buffer
	require.NoError(t, run([]string{"--dir", root}, &out))
	assert.Contains(t, out.String(), "2 pages, 0 issues")
}

func TestRunFailsOnErrors(t *testing.T) {
	root := writePages(t, map[string]string{
		"projects/index.html": `<button class="filter-btn" data-filter="all"></button>
<div id="streams-grid"><div class="stream-card" data-stream="dragons" data-pillar="lab"></div></div>`,
	})
	var out bytes.Buffer
	err := run([]string{"--dir", root}, &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), `unknown stream "dragons"`)
	assert.Contains(t, out.String(), `pillar "lab" from the query was not applied`)
}

func TestRunStrictWarnings(t *testing.T) {
	root := writePages(t, map[string]string{
		"index.html": `<input type="checkbox" class="interest-checkbox" value="x">`,
	})
	require.NoError(t, run([]string{"--dir", root}, &bytes.Buffer{}))
	assert.Error(t, run([]string{"--dir", root, "--strict"}, &bytes.Buffer{}))
}

func TestRunRequiresPages(t *testing.T) {
	err := run([]string{"--dir", t.TempDir()}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "no .html files")
}
