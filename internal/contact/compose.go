package contact

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/arcup/arcup-web/internal/contact/contactapi"
	"github.com/arcup/arcup-web/internal/content"
	"github.com/arcup/arcup-web/internal/mailer"
)

const notProvided = "Not provided"

// markdown renders submitter text. Raw HTML in the input is dropped.
var (
	markdownOnce     sync.Once
	markdownRenderer goldmark.Markdown
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownRenderer = goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		)
	})
	return markdownRenderer
}

var emailTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; border-radius: 10px 10px 0 0; }
.header h1 { margin: 0; font-size: 24px; }
.content { background: #f9fafb; padding: 30px; border-radius: 0 0 10px 10px; }
.field { margin-bottom: 20px; }
.label { font-weight: bold; color: #4b5563; margin-bottom: 5px; }
.value { color: #1f2937; padding: 10px; background: white; border-radius: 5px; border-left: 3px solid #667eea; }
.message-box { background: white; padding: 15px; border-radius: 5px; border: 1px solid #e5e7eb; }
.footer { text-align: center; color: #9ca3af; font-size: 12px; margin-top: 20px; }
</style>
</head>
<body>
<div class="container">
<div class="header"><h1>New Contact from Get Started Page</h1></div>
<div class="content">
<div class="field"><div class="label">Persona:</div><div class="value">{{.Persona}}</div></div>
<div class="field"><div class="label">Name:</div><div class="value">{{.Name}}</div></div>
<div class="field"><div class="label">Email:</div><div class="value">{{.Email}}</div></div>
<div class="field"><div class="label">Message:</div><div class="message-box">{{.MessageHTML}}</div></div>
{{- if .Skills}}
<div class="field"><div class="label">Experience / Skills:</div><div class="value">{{.Skills}}</div></div>
{{- end}}
{{- if .Contribution}}
<div class="field"><div class="label">Contribution Level:</div><div class="value">{{.Contribution}}</div></div>
{{- end}}
</div>
<div class="footer">Sent via ArcUp Get Started form • {{.SentAt}}</div>
</div>
</body>
</html>
`))

type emailView struct {
	Persona      string
	Name         string
	Email        string
	MessageHTML  template.HTML
	Skills       string
	Contribution string
	SentAt       string
}

// Compose builds the notification email for a validated submission. From and
// To are left for the caller.
func Compose(req contactapi.Request, catalog *content.Catalog, now time.Time) (mailer.Message, error) {
	if catalog == nil {
		catalog = content.Default()
	}
	persona := catalog.PersonaLabel(req.Persona)

	view := emailView{
		Persona:      persona,
		Name:         displayName(req),
		Email:        displayEmail(req),
		Skills:       strings.Join(nonBlank(req.Skills), ", "),
		Contribution: strings.TrimSpace(req.Contribution),
		SentAt:       now.UTC().Format("2006-01-02 15:04 MST"),
	}

	var md bytes.Buffer
	if err := getMarkdown().Convert([]byte(req.Message), &md); err != nil {
		return mailer.Message{}, fmt.Errorf("render message: %w", err)
	}
	view.MessageHTML = template.HTML(md.String())

	var body bytes.Buffer
	if err := emailTemplate.Execute(&body, view); err != nil {
		return mailer.Message{}, fmt.Errorf("render email: %w", err)
	}

	msg := mailer.Message{
		Subject: fmt.Sprintf("[ArcUp] New %s Contact", persona),
		HTML:    body.String(),
		Text:    plainText(view, req.Message),
	}
	if !req.Anonymous && strings.TrimSpace(req.Email) != "" {
		msg.ReplyTo = strings.TrimSpace(req.Email)
	}
	return msg, nil
}

func plainText(view emailView, message string) string {
	skills, contribution := view.Skills, view.Contribution
	if skills == "" {
		skills = "Not specified"
	}
	if contribution == "" {
		contribution = "Not specified"
	}
	var b strings.Builder
	b.WriteString("New Contact from Get Started Page\n")
	b.WriteString("===================================\n\n")
	fmt.Fprintf(&b, "Persona: %s\nName: %s\nEmail: %s\n\n", view.Persona, view.Name, view.Email)
	fmt.Fprintf(&b, "Message:\n%s\n\n", message)
	fmt.Fprintf(&b, "Experience / Skills: %s\nContribution Level: %s\n\n", skills, contribution)
	fmt.Fprintf(&b, "---\nSent via ArcUp Get Started form\n%s\n", view.SentAt)
	return b.String()
}

func displayName(req contactapi.Request) string {
	if req.Anonymous {
		return "Anonymous"
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		return name
	}
	return notProvided
}

func displayEmail(req contactapi.Request) string {
	if req.Anonymous {
		return notProvided
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		return email
	}
	return notProvided
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
