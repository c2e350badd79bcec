package handler

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/pixelcanvas/internal/api/apierr"
	"github.com/mcoot/pixelcanvas/internal/web/middleware"
)

func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// redirectWithError flashes the client-facing message for err
func redirectWithError(w http.ResponseWriter, r *http.Request, to string, err error) {
	middleware.SetFlash(w, "error", apierr.Describe(err).Message)
	http.Redirect(w, r, to, http.StatusSeeOther)
}
