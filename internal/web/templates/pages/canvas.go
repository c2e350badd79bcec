package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/pixelcanvas/internal/web/templates/layout"
)

// Palette is the default set of swatches offered next to the colour picker
var Palette = []string{
	"#FFFFFF", "#000000", "#FF0000", "#00FF00", "#0000FF", "#FFFF00",
	"#FF00FF", "#00FFFF", "#FF8800", "#8800FF", "#888888", "#884400",
}

// CanvasData is the data for the canvas page
type CanvasData struct {
	layout.PageData
	Width  int
	Height int
	// PollIntervalMS is how often the page script refreshes the canvas
	PollIntervalMS int
}

// Canvas renders the main drawing page. Anonymous visitors see the canvas
// read-only with login and register forms.
func Canvas(data CanvasData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if data.Actor == nil {
			if err := authForms().Render(ctx, w); err != nil {
				return err
			}
		} else if err := toolbar().Render(ctx, w); err != nil {
			return err
		}

		_, err := fmt.Fprintf(w, `<section class="canvas-wrap">
<canvas id="pixel-canvas" data-width="%d" data-height="%d" data-poll-ms="%d" data-editable="%t"></canvas>
<div id="status"><span id="status-text">Connecting</span> <span id="coord-display"></span></div>
</section>
<script src="/static/canvas.js"></script>
`, data.Width, data.Height, data.PollIntervalMS, data.Actor != nil)
		return err
	}))
}

func toolbar() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section class="toolbar"><input type="color" id="color-picker" value="#000000"><ul class="palette">`); err != nil {
			return err
		}
		for _, c := range Palette {
			if _, err := fmt.Fprintf(w, `<li><button type="button" class="swatch" data-color="%[1]s" style="background:%[1]s" title="%[1]s"></button></li>`, c); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></section>`)
		return err
	})
}

func authForms() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section class="auth">
<form method="post" action="/auth/login" id="login-form">
<h2>Log in</h2>
<input type="text" name="name" placeholder="Name" required maxlength="32">
<input type="password" name="password" placeholder="Password" required>
<button type="submit">Log in</button>
</form>
<form method="post" action="/auth/register" id="register-form">
<h2>Register</h2>
<input type="text" name="name" placeholder="Name" required maxlength="32">
<input type="password" name="password" placeholder="Password" required minlength="4">
<button type="submit">Register</button>
</form>
</section>
`)
		return err
	})
}
