package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/Digital-Shane/trailer-tidy/internal/notify"
	"github.com/Digital-Shane/trailer-tidy/internal/provider"
	"github.com/mattn/go-runewidth"
)

// DefaultWidth is the column budget for a rendered title.
const DefaultWidth = 72

func init() {
	runewidth.DefaultCondition.EastAsianWidth = false
	runewidth.DefaultCondition.StrictEmojiNeutral = true
}

// Renderer writes trailer results to a terminal.
type Renderer struct {
	theme Theme
	width int
}

// NewRenderer creates a renderer that truncates titles to width columns.
func NewRenderer(theme Theme, width int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Renderer{theme: theme, width: width}
}

// Trailers writes one numbered entry per record, in the order given.
func (r *Renderer) Trailers(w io.Writer, searchText string, records []provider.TrailerRecord) error {
	header := fmt.Sprintf("%d trailer(s) for %q", len(records), searchText)
	if _, err := fmt.Fprintln(w, r.theme.HeaderStyle().Render(header)); err != nil {
		return err
	}

	for i, record := range records {
		icon := r.theme.Icon(string(record.Source))
		if icon == "" {
			icon = r.theme.Icon("unknown")
		}
		prefix := fmt.Sprintf("%2d. %s ", i+1, icon)
		title := Truncate(record.Title, r.width-runewidth.StringWidth(prefix))

		line := prefix + r.theme.TitleStyle().Render(title)
		link := strings.Repeat(" ", 4) + r.theme.Icon("link") + " " + r.theme.LinkStyle().Render(record.URL)
		if _, err := fmt.Fprintf(w, "%s\n%s\n", line, link); err != nil {
			return err
		}
	}
	return nil
}

// Outcome writes a notification result as a badge followed by its message.
func (r *Renderer) Outcome(w io.Writer, outcome notify.Outcome) error {
	kind, label := BadgeSuccess, "SENT"
	if !outcome.Success {
		kind, label = BadgeError, "FAILED"
	}
	_, err := fmt.Fprintf(w, "%s %s\n", r.theme.BadgeStyle(kind).Render(label), outcome.Message)
	return err
}

// Truncate shortens s to at most width terminal columns, marking the cut
// with an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
