//go:build js && wasm

package wasm

import (
	"context"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/arcup/arcup-web/internal/contact/contactapi"
	"github.com/arcup/arcup-web/internal/content"
	"github.com/arcup/arcup-web/internal/ui/controller"
	"github.com/arcup/arcup-web/internal/ui/forms"
	"github.com/arcup/arcup-web/internal/ui/jsdom"
)

const catalogTimeout = 3 * time.Second

// RunApp binds the interaction controller to the live page and blocks forever.
// Loading the module twice in one page lifetime registers nothing the second
// time.
func RunApp() {
	done := make(chan struct{})

	console := jsdom.Console{Verbose: debugEnabled()}
	c := controller.New(jsdom.NewDocument(), jsdom.NewWindow(), controller.Options{
		Catalog:   loadCatalog(console),
		Scheduler: jsdom.Scheduler{},
		Submitter: forms.NewHTTPSubmitter(contactapi.Path),
		Logger:    console,
	})
	controller.Install(jsdom.NewBinder(), c)
	<-done
}

// loadCatalog fetches the server's current catalog, falling back to the
// embedded one when the page is served without a site server.
func loadCatalog(console jsdom.Console) *content.Catalog {
	ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
	defer cancel()
	url := jsdom.NewWindow().Location().ResolveReference(&neturl.URL{Path: content.Path})
	c, err := content.Fetch(ctx, &http.Client{Timeout: catalogTimeout}, url.String())
	if err != nil {
		console.Warn("catalog", "using embedded catalog", map[string]any{"error": err.Error()})
		return content.Default()
	}
	console.Debug("catalog", "loaded", map[string]any{"personas": len(c.Personas), "streams": len(c.Streams)})
	return c
}
