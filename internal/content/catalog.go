// Package content holds the site vocabulary shared by the browser controller
// and the contact relay: personas, pillars and streams.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// FilterAll is the pillar filter value that shows every stream card.
const FilterAll = "all"

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Persona is a user-role tag with its display label and button accents.
type Persona struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Active   []string `yaml:"active"`
	Inactive []string `yaml:"inactive"`
}

// Pillar is a top-level stream category with its filter button palette.
type Pillar struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Active   []string `yaml:"active"`
	Inactive []string `yaml:"inactive"`
}

// Stream is a content collection item identifier.
type Stream struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
}

// Catalog is the parsed vocabulary.
type Catalog struct {
	DefaultPersona string    `yaml:"default_persona"`
	Personas       []Persona `yaml:"personas"`
	Pillars        []Pillar  `yaml:"pillars"`
	Streams        []Stream  `yaml:"streams"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("content: embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var c Catalog
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads a catalog file from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Validate checks identifiers are present and unique and that the default
// persona and the "all" pillar exist.
func (c *Catalog) Validate() error {
	if c == nil {
		return errors.New("catalog: nil")
	}
	if len(c.Personas) == 0 {
		return errors.New("catalog: at least one persona is required")
	}
	if err := uniqueIDs("persona", len(c.Personas), func(i int) string { return c.Personas[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("pillar", len(c.Pillars), func(i int) string { return c.Pillars[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("stream", len(c.Streams), func(i int) string { return c.Streams[i].ID }); err != nil {
		return err
	}
	if _, ok := c.Persona(c.DefaultPersona); !ok {
		return fmt.Errorf("catalog: default persona %q is not defined", c.DefaultPersona)
	}
	if _, ok := c.Pillar(FilterAll); !ok {
		return fmt.Errorf("catalog: pillar %q is required", FilterAll)
	}
	return nil
}

func uniqueIDs(kind string, n int, id func(int) string) error {
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		v := strings.TrimSpace(id(i))
		if v == "" {
			return fmt.Errorf("catalog: %s %d has an empty id", kind, i)
		}
		if seen[v] {
			return fmt.Errorf("catalog: duplicate %s id %q", kind, v)
		}
		seen[v] = true
	}
	return nil
}

// Persona looks up a persona by id.
func (c *Catalog) Persona(id string) (Persona, bool) {
	for _, p := range c.Personas {
		if p.ID == id {
			return p, true
		}
	}
	return Persona{}, false
}

// PersonaLabel translates a persona code into its display label, falling back
// to the code itself for unknown values.
func (c *Catalog) PersonaLabel(id string) string {
	if p, ok := c.Persona(id); ok && p.Label != "" {
		return p.Label
	}
	return id
}

// Pillar looks up a pillar by id.
func (c *Catalog) Pillar(id string) (Pillar, bool) {
	for _, p := range c.Pillars {
		if p.ID == id {
			return p, true
		}
	}
	return Pillar{}, false
}

// HasStream reports whether id names a known stream.
func (c *Catalog) HasStream(id string) bool {
	for _, s := range c.Streams {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Store holds the current catalog and allows it to be swapped on reload.
type Store struct {
	current atomic.Pointer[Catalog]
}

// NewStore returns a Store seeded with c, or the default catalog when c is nil.
func NewStore(c *Catalog) *Store {
	if c == nil {
		c = Default()
	}
	s := &Store{}
	s.current.Store(c)
	return s
}

// Catalog returns the current catalog.
func (s *Store) Catalog() *Catalog {
	return s.current.Load()
}

// Replace swaps in a new catalog. Nil is ignored.
func (s *Store) Replace(c *Catalog) {
	if c == nil {
		return
	}
	s.current.Store(c)
}
