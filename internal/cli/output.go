package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mcoot/pixelcanvas/internal/api/response"
)

// blank is the default canvas colour; unpainted cells render as dots
const blank = "#FFFFFF"

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	// ansi renders canvas cells as 24-bit colour blocks
	ansi bool
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Actor:
		o.printActor(v)
	case response.AuthResponse:
		o.printAuth(v)
	case response.Canvas:
		o.printCanvas(v)
	case response.Pixel:
		o.printPixel(v)
	case response.History:
		o.printHistory(v)
	case response.Moderation:
		o.printModeration(v)
	case response.Dashboard:
		o.printDashboard(v)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printActor(a response.Actor) {
	fmt.Fprintf(o.w, "Actor: %s (%s)\n", a.Name, a.ID)
	fmt.Fprintf(o.w, "Role: %s\n", role(a.IsAdmin, a.IsModerator))
	fmt.Fprintf(o.w, "Pixels: %d\n", a.PixelsPlaced)
	if s := status(a.Banned, a.TimeoutUntil); s != "" {
		fmt.Fprintf(o.w, "Status: %s\n", s)
	}
}

func (o *Output) printAuth(a response.AuthResponse) {
	o.printActor(a.Actor)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
}

func (o *Output) printCanvas(c response.Canvas) {
	painted := 0
	var sb strings.Builder
	for _, row := range c.Pixels {
		for _, px := range row {
			if px != blank {
				painted++
			}
			sb.WriteString(o.cell(px))
		}
		if o.ansi {
			sb.WriteString("\x1b[0m")
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(o.w, "Canvas: %dx%d, %d painted\n", c.Width, c.Height, painted)
	fmt.Fprint(o.w, sb.String())
}

func (o *Output) cell(hex string) string {
	if !o.ansi {
		if hex == blank {
			return "."
		}
		return "#"
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return "?"
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  ", r, g, b)
}

func (o *Output) printPixel(p response.Pixel) {
	fmt.Fprintf(o.w, "Placed %s at (%d, %d) [seq %d]\n", p.Color, p.X, p.Y, p.Seq)
}

func (o *Output) printHistory(h response.History) {
	if len(h.Records) == 0 {
		fmt.Fprintln(o.w, "No records")
	}
	for _, r := range h.Records {
		fmt.Fprintf(o.w, "%6d  %s  (%d, %d)  %s  %s\n", r.Seq, r.Timestamp.UTC().Format(time.RFC3339), r.X, r.Y, r.Color, r.ActorID)
	}
	fmt.Fprintf(o.w, "Next: --since %d\n", h.NextSince)
}

func (o *Output) printModeration(m response.Moderation) {
	fmt.Fprintln(o.w, m.Message)
}

func (o *Output) printDashboard(d response.Dashboard) {
	fmt.Fprintf(o.w, "Actors: %d (%d active)\n", d.TotalActors, d.ActiveActors)
	fmt.Fprintf(o.w, "Pixels: %d\n", d.TotalPixels)

	fmt.Fprintln(o.w, "Top actors:")
	for i, a := range d.TopActors {
		fmt.Fprintf(o.w, "  %d. %s - %d\n", i+1, a.Name, a.PixelsPlaced)
	}

	fmt.Fprintln(o.w, "All actors:")
	for _, a := range d.Actors {
		line := fmt.Sprintf("  - %s (%s) %s, %d pixels", a.Name, a.ID, role(a.IsAdmin, a.IsModerator), a.PixelsPlaced)
		if s := status(a.Banned, a.TimeoutUntil); s != "" {
			line += " [" + s + "]"
		}
		fmt.Fprintln(o.w, line)
	}
}

func role(isAdmin, isModerator bool) string {
	switch {
	case isAdmin:
		return "admin"
	case isModerator:
		return "moderator"
	default:
		return "actor"
	}
}

func status(banned bool, timeoutUntil *time.Time) string {
	switch {
	case banned:
		return "banned"
	case timeoutUntil != nil && timeoutUntil.After(time.Now()):
		return "timed out until " + timeoutUntil.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}
