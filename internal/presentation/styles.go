package presentation

import "github.com/charmbracelet/lipgloss"

// Colors for text output. Light and Dark pick by terminal background.
var (
	MutedColor     = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#696969"}
	HeaderColor    = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#3498DB"}
	SuccessColor   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	WarningColor   = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"}
	ErrorColor     = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"}
	SelectionColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#2D3436"}
)

type styles struct {
	header    lipgloss.Style
	rule      lipgloss.Style
	muted     lipgloss.Style
	selection lipgloss.Style
	ok        lipgloss.Style
	warn      lipgloss.Style
	added     lipgloss.Style
	removed   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	// Tabs are part of what the indentation commands report.
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return styles{
		header:    base.Bold(true).Foreground(HeaderColor),
		rule:      base.Foreground(WarningColor),
		muted:     base.Foreground(MutedColor),
		selection: base.Background(SelectionColor).Underline(true),
		ok:        base.Bold(true).Foreground(SuccessColor),
		warn:      base.Bold(true).Foreground(ErrorColor),
		added:     base.Foreground(SuccessColor),
		removed:   base.Foreground(ErrorColor),
	}
}
