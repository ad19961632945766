// Package listing lays out collection records as a grid of cards.
package listing

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/mgen/internal/tui/theme"
)

// DefaultEmptyMessage is shown for an empty collection.
const DefaultEmptyMessage = "Nothing found."

// Card is one rendered record.
type Card struct {
	Title    string
	Subtitle string
	Body     string
}

// Grid renders cards, PerRow to a row.
type Grid struct {
	Theme    *theme.Theme
	PerRow   int
	Width    int
	EmptyMsg string
}

// Render lays the cards out row by row. Cards share the row width evenly.
func (g Grid) Render(cards []Card) string {
	t := g.Theme
	if t == nil {
		t = theme.Default
	}
	s := t.S()

	if len(cards) == 0 {
		msg := g.EmptyMsg
		if msg == "" {
			msg = DefaultEmptyMessage
		}
		return s.Placeholder.Render(msg)
	}

	perRow := g.PerRow
	if perRow < 1 {
		perRow = 1
	}
	width := g.Width
	if width <= 0 {
		width = 120
	}
	cardWidth := width/perRow - 1
	if cardWidth < 16 {
		cardWidth = 16
	}

	var rows []string
	for start := 0; start < len(cards); start += perRow {
		end := start + perRow
		if end > len(cards) {
			end = len(cards)
		}
		var cells []string
		for _, c := range cards[start:end] {
			cells = append(cells, renderCard(s, c, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func renderCard(s *theme.Styles, c Card, width int) string {
	lines := []string{s.CardTitle.Render(truncate(c.Title, width-4))}
	if c.Subtitle != "" {
		lines = append(lines, s.CardSubtitle.Render(truncate(c.Subtitle, width-4)))
	}
	if c.Body != "" {
		lines = append(lines, "", c.Body)
	}
	return s.Card.Width(width).Render(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	if n <= 1 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
