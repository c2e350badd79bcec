package pages

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/mcoot/pixelcanvas/internal/services/canvas"
	"github.com/mcoot/pixelcanvas/internal/web/templates/layout"
)

// AdminData is the data for the dashboard page
type AdminData struct {
	layout.PageData
	Dashboard canvas.Dashboard
	// CanGrantModerator is true for admins only
	CanGrantModerator bool
}

// Admin renders the moderation dashboard
func Admin(data AdminData) templ.Component {
	return layout.Base(data.PageData, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		d := data.Dashboard
		if _, err := fmt.Fprintf(w, `<section class="stats">
<div class="stat" id="stat-actors"><span class="value">%d</span> actors</div>
<div class="stat" id="stat-pixels"><span class="value">%d</span> pixels</div>
<div class="stat" id="stat-active"><span class="value">%d</span> active</div>
<p class="generated">Generated %s</p>
</section>
`, d.TotalActors, d.TotalPixels, d.ActiveActors, formatTime(d.GeneratedAt)); err != nil {
			return err
		}

		if err := leaderboard(d.TopActors).Render(ctx, w); err != nil {
			return err
		}
		if err := recentHistory(d, nameLookup(d.Actors)).Render(ctx, w); err != nil {
			return err
		}
		return actorTable(d.Actors, data.CanGrantModerator, d.GeneratedAt).Render(ctx, w)
	}))
}

func leaderboard(top []canvas.ActorSummary) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section><h2>Top actors</h2><ol id="top-actors">`); err != nil {
			return err
		}
		for _, a := range top {
			if _, err := fmt.Fprintf(w, `<li><span class="name">%s</span> <span class="count">%d</span></li>`,
				templ.EscapeString(a.Name), a.PixelsPlaced); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ol></section>`)
		return err
	})
}

func recentHistory(d canvas.Dashboard, names map[string]string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section><h2>Recent placements</h2><table id="recent-history"><thead><tr><th>#</th><th>Position</th><th>Colour</th><th>Actor</th><th>Time</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, r := range d.RecentHistory {
			name := names[string(r.ActorID)]
			if name == "" {
				name = string(r.ActorID)
			}
			if _, err := fmt.Fprintf(w, `<tr data-seq="%d"><td>%d</td><td>(%d, %d)</td><td><span class="swatch" style="background:%[5]s"></span>%[5]s</td><td>%s</td><td>%s</td></tr>`,
				r.Seq, r.Seq, r.Coord.X, r.Coord.Y, r.Color.Hex(), templ.EscapeString(name), formatTime(r.Timestamp)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table></section>`)
		return err
	})
}

func actorTable(actors []canvas.ActorSummary, canGrant bool, now time.Time) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section><h2>Actors</h2><table id="actors"><thead><tr><th>Name</th><th>Role</th><th>Pixels</th><th>Status</th><th>Last active</th><th>Actions</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, a := range actors {
			if _, err := fmt.Fprintf(w, `<tr data-actor-id="%s"><td class="name">%s</td><td class="role">%s</td><td class="count">%d</td><td class="status">%s</td><td>%s</td><td class="actions">`,
				templ.EscapeString(string(a.ID)), templ.EscapeString(a.Name), role(a), a.PixelsPlaced,
				templ.EscapeString(status(a, now)), formatTime(a.LastActivity)); err != nil {
				return err
			}
			if err := actorActions(a, canGrant, now).Render(ctx, w); err != nil {
				return err
			}
			if _, err := io.WriteString(w, `</td></tr>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table></section>`)
		return err
	})
}

// actorActions renders one form per applicable moderation action.
// Admins get no ban or timeout controls.
func actorActions(a canvas.ActorSummary, canGrant bool, now time.Time) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		id := templ.EscapeString(string(a.ID))
		form := func(action, extra, label string) error {
			_, err := fmt.Fprintf(w, `<form method="post" action="/admin/moderate" class="action-%s"><input type="hidden" name="user_id" value="%s"><input type="hidden" name="action" value="%s">%s<button type="submit">%s</button></form>`,
				action, id, action, extra, label)
			return err
		}

		if !a.IsAdmin {
			if a.Banned {
				if err := form("unban", "", "Unban"); err != nil {
					return err
				}
			} else if err := form("ban", "", "Ban"); err != nil {
				return err
			}
			if a.TimeoutUntil != nil && a.TimeoutUntil.After(now) {
				if err := form("clear_timeout", "", "Remove timeout"); err != nil {
					return err
				}
			} else if err := form("timeout", `<input type="number" name="minutes" value="5" min="1">`, "Time out"); err != nil {
				return err
			}
		}
		if canGrant {
			if a.IsModerator {
				return form("set_moderator", `<input type="hidden" name="is_moderator" value="false">`, "Revoke moderator")
			}
			return form("set_moderator", `<input type="hidden" name="is_moderator" value="true">`, "Make moderator")
		}
		return nil
	})
}

func role(a canvas.ActorSummary) string {
	switch {
	case a.IsAdmin:
		return "admin"
	case a.IsModerator:
		return "moderator"
	default:
		return "actor"
	}
}

func status(a canvas.ActorSummary, now time.Time) string {
	switch {
	case a.Banned:
		return "banned"
	case a.TimeoutUntil != nil && a.TimeoutUntil.After(now):
		return "timed out until " + formatTime(*a.TimeoutUntil)
	default:
		return "ok"
	}
}

func nameLookup(actors []canvas.ActorSummary) map[string]string {
	names := make(map[string]string, len(actors))
	for _, a := range actors {
		names[string(a.ID)] = a.Name
	}
	return names
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
