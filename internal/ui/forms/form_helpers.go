package forms

import (
	"net/url"
	"strings"

	"github.com/arcup/arcup-web/internal/contact/contactapi"
)

// Collect assembles a contact submission from the form's values. The
// anonymous checkbox counts as set only when it submits "on"; skills keep
// first-seen order with blanks and duplicates dropped.
func Collect(values url.Values) contactapi.Request {
	return contactapi.Request{
		Name:         strings.TrimSpace(values.Get("name")),
		Email:        strings.TrimSpace(values.Get("email")),
		Anonymous:    values.Get("anonymous") == "on",
		Persona:      strings.TrimSpace(values.Get("persona")),
		Message:      values.Get("message"),
		Skills:       uniqueStrings(values["skills"]),
		Contribution: strings.TrimSpace(values.Get("contribution")),
	}
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
