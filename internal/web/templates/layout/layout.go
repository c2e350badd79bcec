// Package layout holds the page shell shared by every web page.
//
// Components are written against the templ runtime directly rather than
// generated from .templ sources. Every dynamic value passes through
// templ.EscapeString.
package layout

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/pixelcanvas/internal/model"
)

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // "success", "error" or "info"
	Message string
}

// PageData is common to every page
type PageData struct {
	Title string
	Actor *model.Actor
	Flash *FlashMessage
}

// Base renders the document shell around body
func Base(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s - Pixel Canvas</title>
<link rel="stylesheet" href="/static/canvas.css">
</head>
<body>
`, templ.EscapeString(data.Title)); err != nil {
			return err
		}
		if err := nav(data.Actor).Render(ctx, w); err != nil {
			return err
		}
		if err := flash(data.Flash).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main>`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}

func nav(actor *model.Actor) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if actor == nil {
			_, err := io.WriteString(w, `<nav class="nav"><a href="/">Pixel Canvas</a></nav>`)
			return err
		}
		admin := ""
		if actor.IsPrivileged() {
			admin = ` <a class="nav-admin" href="/admin">Dashboard</a>`
		}
		_, err := fmt.Fprintf(w, `<nav class="nav"><a href="/">Pixel Canvas</a>%s`+
			`<span class="nav-actor" data-actor-id="%s">%s</span>`+
			`<form method="post" action="/auth/logout" class="nav-logout"><button type="submit">Log out</button></form></nav>`,
			admin, templ.EscapeString(string(actor.ID)), templ.EscapeString(actor.Name))
		return err
	})
}

func flash(f *FlashMessage) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if f == nil {
			return nil
		}
		_, err := fmt.Fprintf(w, `<div class="flash flash-%s" role="alert">%s</div>`,
			templ.EscapeString(f.Type), templ.EscapeString(f.Message))
		return err
	})
}
