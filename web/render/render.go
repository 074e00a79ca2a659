// Package render executes the embedded HTML templates and owns the two
// user-feedback surfaces: the flash banner cookie and the error page.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	pkgerrors "github.com/viannadoces/doceria-web/pkg/errors"
	"github.com/viannadoces/doceria-web/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutName = "layout.html"

// Page is the envelope every template receives.
type Page struct {
	Title    string
	LoggedIn bool
	Flash    *Flash
	Data     any
}

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
	log   *logger.Logger
}

var funcs = template.FuncMap{
	// js marks precomputed JSON safe for inline script blocks.
	"js": func(s string) template.JS { return template.JS(s) },
}

// New parses every embedded page against the shared layout.
func New(log *logger.Logger) (*Renderer, error) {
	entries, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("globbing templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, entry := range entries {
		name := path.Base(entry)
		if name == layoutName {
			continue
		}
		tmpl, err := template.New(layoutName).Funcs(funcs).ParseFS(templateFS, "templates/"+layoutName, entry)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}
	return &Renderer{pages: pages, log: log}, nil
}

// HTML renders one page. Template failures never leak partial output; the
// page is buffered before the first byte is written.
func (rn *Renderer) HTML(ctx context.Context, w http.ResponseWriter, status int, name string, page Page) {
	tmpl, ok := rn.pages[name]
	if !ok {
		rn.fail(ctx, w, fmt.Errorf("unknown template %s", name))
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutName, page); err != nil {
		rn.fail(ctx, w, fmt.Errorf("executing template %s: %w", name, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Error renders the error page for err with the status its code maps to. The
// message shown is resolved by the error code's exposure policy.
func (rn *Renderer) Error(ctx context.Context, w http.ResponseWriter, err error, loggedIn bool) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	if rn.log != nil {
		logCtx := rn.log.WithFields(ctx, map[string]any{
			"error_code":  string(typed.Code()),
			"error_chain": pkgerrors.Chain(err),
		})
		rn.log.Error(logCtx, "request failed", err)
	}

	rn.HTML(ctx, w, meta.HTTPStatus, "erro.html", Page{
		Title:    "Erro",
		LoggedIn: loggedIn,
		Data:     map[string]string{"Message": pkgerrors.UserMessage(err)},
	})
}

func (rn *Renderer) fail(ctx context.Context, w http.ResponseWriter, err error) {
	if rn.log != nil {
		rn.log.Error(ctx, "template render failed", err)
	}
	http.Error(w, "Erro interno. Tente novamente mais tarde.", http.StatusInternalServerError)
}
