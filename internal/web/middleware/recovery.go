package middleware

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/pixelcanvas/internal/middleware"
	"github.com/mcoot/pixelcanvas/internal/web/templates/layout"
)

// Recovery turns handler panics into the site's error page
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, errorPage)
}

var errorBody = templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, `<section class="error-page">
<h1>Something went wrong</h1>
<p>The canvas hit an unexpected error. Your last pixel may not have been placed.</p>
<p><a href="/">Back to the canvas</a></p>
</section>
`)
	return err
})

func errorPage(w http.ResponseWriter, r *http.Request, _ any) {
	// Actor is left out so a panic inside session lookup cannot recur here
	var buf bytes.Buffer
	page := layout.Base(layout.PageData{Title: "Error"}, errorBody)
	if err := page.Render(r.Context(), &buf); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(buf.Bytes())
}
