package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.DefaultPersona != "student" {
		t.Fatalf("expected student default persona, got %q", c.DefaultPersona)
	}
	if got := c.PersonaLabel("practitioner"); got != "Community Practitioner" {
		t.Fatalf("unexpected practitioner label %q", got)
	}
	if got := c.PersonaLabel("unknown"); got != "unknown" {
		t.Fatalf("expected unknown persona to fall back to its code, got %q", got)
	}
	for _, id := range []string{"all", "lab", "framework", "commons"} {
		p, ok := c.Pillar(id)
		if !ok {
			t.Fatalf("missing pillar %q", id)
		}
		if len(p.Active) == 0 || len(p.Inactive) == 0 {
			t.Fatalf("pillar %q has no palette: %+v", id, p)
		}
	}
	if !c.HasStream("water") || c.HasStream("fire") {
		t.Fatalf("stream lookup mismatch")
	}
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	cases := map[string]string{
		"duplicate persona": `
default_persona: a
personas: [{id: a}, {id: a}]
pillars: [{id: all}]
`,
		"missing default": `
default_persona: b
personas: [{id: a}]
pillars: [{id: all}]
`,
		"missing all pillar": `
default_persona: a
personas: [{id: a}]
pillars: [{id: lab}]
`,
		"unknown field": `
default_persona: a
personas: [{id: a, colour: red}]
pillars: [{id: all}]
`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadAndStoreReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := strings.Join([]string{
		"default_persona: guest",
		"personas:",
		"  - id: guest",
		"    label: Guest",
		"pillars:",
		"  - id: all",
	}, "\n")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	store := NewStore(nil)
	if store.Catalog() != Default() {
		t.Fatalf("expected store to start with the default catalog")
	}
	store.Replace(nil)
	if store.Catalog() != Default() {
		t.Fatalf("nil replace should be ignored")
	}
	store.Replace(loaded)
	if got := store.Catalog().PersonaLabel("guest"); got != "Guest" {
		t.Fatalf("expected replaced catalog, got label %q", got)
	}
}
