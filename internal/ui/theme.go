// Package ui holds the terminal look of the checklist: themes, panels and
// one-line status messages.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette, symbols and panel border.
// All renderers pull from the current theme.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done                                lipgloss.Style

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	Border                   lipgloss.Border
}

var current = themeFor("classic")

// SetTheme switches the current theme. Unknown names fall back to classic.
func SetTheme(name string) {
	current = themeFor(name)
}

// Current returns the active theme.
func Current() Theme { return current }

// Themes lists the known theme names.
func Themes() []string { return []string{"classic", "neon", "mono"} }

func themeFor(name string) Theme {
	plain := lipgloss.NewStyle()
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		return Theme{
			Name:         "neon",
			Title:        plain.Bold(true).Foreground(lipgloss.Color("13")),
			Muted:        plain.Faint(true),
			Accent:       plain.Foreground(lipgloss.Color("14")),
			Success:      plain.Foreground(lipgloss.Color("10")),
			Error:        plain.Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      plain.Foreground(lipgloss.Color("11")),
			Selected:     plain.Bold(true).Foreground(lipgloss.Color("13")),
			Done:         plain.Faint(true).Strikethrough(true),
			BoxUnchecked: "◻", BoxChecked: "◼",
			SymDone: "✔", SymPending: "•",
			Border: lipgloss.RoundedBorder(),
		}
	case "mono":
		return Theme{
			Name:         "mono",
			Title:        plain,
			Muted:        plain,
			Accent:       plain,
			Success:      plain,
			Error:        plain,
			Pending:      plain,
			Selected:     plain,
			Done:         plain,
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymPending: "-",
			Border: lipgloss.ASCIIBorder(),
		}
	default:
		return Theme{
			Name:         "classic",
			Title:        plain.Bold(true),
			Muted:        plain.Faint(true),
			Accent:       plain.Foreground(lipgloss.Color("12")),
			Success:      plain.Foreground(lipgloss.Color("42")),
			Error:        plain.Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      plain.Foreground(lipgloss.Color("214")),
			Selected:     plain.Bold(true).Reverse(true),
			Done:         plain.Faint(true).Strikethrough(true),
			BoxUnchecked: "☐", BoxChecked: "☑",
			SymDone: "✔", SymPending: "•",
			Border: lipgloss.NormalBorder(),
		}
	}
}
