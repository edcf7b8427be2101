package htmldom

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/arcup/arcup-web/internal/ui/dom"
)

type element struct {
	d *Document
	n *html.Node
}

var _ dom.Element = (*element)(nil)

func (e *element) sel() *goquery.Selection {
	return goquery.NewDocumentFromNode(e.n).Selection
}

func (e *element) tag() string {
	return strings.ToLower(e.n.Data)
}

func (e *element) ID() string {
	v, _ := e.Attr("id")
	return v
}

func (e *element) Same(other dom.Element) bool {
	o, ok := other.(*element)
	return ok && o != nil && o.n == e.n
}

func (e *element) HasClass(name string) bool {
	return e.sel().HasClass(name)
}

func (e *element) AddClass(names ...string) {
	e.sel().AddClass(names...)
}

func (e *element) RemoveClass(names ...string) {
	if len(names) == 0 {
		return
	}
	e.sel().RemoveClass(names...)
}

func (e *element) Attr(name string) (string, bool) {
	return e.sel().Attr(name)
}

func (e *element) SetAttr(name, value string) {
	e.sel().SetAttr(name, value)
}

func (e *element) RemoveAttr(name string) {
	e.sel().RemoveAttr(name)
}

func (e *element) Closest(selector string) dom.Element {
	return e.d.first(e.sel().Closest(selector))
}

func (e *element) Matches(selector string) bool {
	return e.sel().Is(selector)
}

func (e *element) Text() string {
	return e.sel().Text()
}

func (e *element) SetText(text string) {
	for c := e.n.FirstChild; c != nil; {
		next := c.NextSibling
		e.n.RemoveChild(c)
		c = next
	}
	e.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func (e *element) Style(property string) string {
	for _, decl := range parseStyle(e.attrOrEmpty("style")) {
		if decl[0] == property {
			return decl[1]
		}
	}
	return ""
}

func (e *element) SetStyle(property, value string) {
	decls := parseStyle(e.attrOrEmpty("style"))
	replaced := false
	out := decls[:0]
	for _, decl := range decls {
		if decl[0] == property {
			if replaced || value == "" {
				continue
			}
			decl[1] = value
			replaced = true
		}
		out = append(out, decl)
	}
	if !replaced && value != "" {
		out = append(out, [2]string{property, value})
	}
	if len(out) == 0 {
		e.RemoveAttr("style")
		return
	}
	parts := make([]string, 0, len(out))
	for _, decl := range out {
		parts = append(parts, decl[0]+": "+decl[1])
	}
	e.SetAttr("style", strings.Join(parts, "; ")+";")
}

func parseStyle(raw string) [][2]string {
	var out [][2]string
	for _, chunk := range strings.Split(raw, ";") {
		prop, value, ok := strings.Cut(chunk, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		if prop == "" {
			continue
		}
		out = append(out, [2]string{prop, strings.TrimSpace(value)})
	}
	return out
}

func (e *element) attrOrEmpty(name string) string {
	v, _ := e.Attr(name)
	return v
}

func (e *element) Value() string {
	switch e.tag() {
	case "textarea":
		return e.Text()
	case "select":
		values := selectedOptions(e.n)
		if len(values) == 0 {
			return ""
		}
		return values[0]
	default:
		return e.attrOrEmpty("value")
	}
}

func (e *element) SetValue(value string) {
	switch e.tag() {
	case "textarea":
		e.SetText(value)
	case "select":
		goquery.NewDocumentFromNode(e.n).Find("option").Each(func(_ int, s *goquery.Selection) {
			if optionValue(s) == value {
				s.SetAttr("selected", "selected")
			} else {
				s.RemoveAttr("selected")
			}
		})
	default:
		e.SetAttr("value", value)
	}
}

func (e *element) Checked() bool {
	_, ok := e.Attr("checked")
	return ok
}

func (e *element) SetChecked(checked bool) {
	if checked {
		e.SetAttr("checked", "checked")
	} else {
		e.RemoveAttr("checked")
	}
}

func (e *element) Disabled() bool {
	_, ok := e.Attr("disabled")
	return ok
}

func (e *element) SetDisabled(disabled bool) {
	if disabled {
		e.SetAttr("disabled", "disabled")
	} else {
		e.RemoveAttr("disabled")
	}
}

func (e *element) Focus() {
	e.d.active = e.n
}

func (e *element) ScrollIntoView(block string) {
	e.d.Scrolls = append(e.d.Scrolls, Scroll{ID: e.ID(), Block: block})
}

func (e *element) FormValues() url.Values {
	values := url.Values{}
	e.sel().Find("input[name], select[name], textarea[name]").Each(func(_ int, s *goquery.Selection) {
		if _, disabled := s.Attr("disabled"); disabled {
			return
		}
		name, _ := s.Attr("name")
		node := s.Nodes[0]
		switch strings.ToLower(node.Data) {
		case "textarea":
			values.Add(name, s.Text())
		case "select":
			for _, v := range selectedOptions(node) {
				values.Add(name, v)
			}
		default:
			typ, _ := s.Attr("type")
			switch strings.ToLower(typ) {
			case "checkbox", "radio":
				if _, checked := s.Attr("checked"); !checked {
					return
				}
				v, ok := s.Attr("value")
				if !ok {
					v = "on"
				}
				values.Add(name, v)
			case "submit", "button", "reset", "image", "file":
			default:
				v, _ := s.Attr("value")
				values.Add(name, v)
			}
		}
	})
	return values
}

func (e *element) Reset() {
	e.sel().Find("input, textarea, option").Each(func(_ int, s *goquery.Selection) {
		def, ok := e.d.defaults[s.Nodes[0]]
		if !ok {
			def = controlDefault{}
		}
		switch strings.ToLower(s.Nodes[0].Data) {
		case "textarea":
			(&element{d: e.d, n: s.Nodes[0]}).SetText(def.text)
		case "option":
			if def.selected {
				s.SetAttr("selected", "selected")
			} else {
				s.RemoveAttr("selected")
			}
		default:
			if def.hasValue {
				s.SetAttr("value", def.value)
			} else {
				s.RemoveAttr("value")
			}
			if def.checked {
				s.SetAttr("checked", "checked")
			} else {
				s.RemoveAttr("checked")
			}
		}
	})
}

func optionValue(s *goquery.Selection) string {
	if v, ok := s.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(s.Text())
}

// selectedOptions mirrors the browser: explicitly selected options, or the
// first option of a single-select when none is marked.
func selectedOptions(sel *html.Node) []string {
	options := goquery.NewDocumentFromNode(sel).Find("option")
	var out []string
	options.Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr("selected"); ok {
			out = append(out, optionValue(s))
		}
	})
	if len(out) == 0 && options.Length() > 0 {
		if _, multiple := goquery.NewDocumentFromNode(sel).Attr("multiple"); !multiple {
			out = append(out, optionValue(options.First()))
		}
	}
	return out
}
