package init_ui

import (
	"sync"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// color picks the Latte variant on light terminals and Mocha on dark ones.
func color(pick func(catppuccin.Flavor) catppuccin.Color) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{
		Light: pick(catppuccin.Latte).Hex,
		Dark:  pick(catppuccin.Mocha).Hex,
	}
}

var (
	colorText    = color(catppuccin.Flavor.Text)
	colorSubtext = color(catppuccin.Flavor.Subtext1)
	colorMuted   = color(catppuccin.Flavor.Subtext0)
	colorAccent  = color(catppuccin.Flavor.Mauve)
	colorInput   = color(catppuccin.Flavor.Blue)
	colorBase    = color(catppuccin.Flavor.Base)
	colorGreen   = color(catppuccin.Flavor.Green)
	colorRed     = color(catppuccin.Flavor.Red)
)

type uiStyles struct {
	title     lipgloss.Style
	errorText lipgloss.Style
	label     lipgloss.Style

	blockFocused   lipgloss.Style
	blockUnfocused lipgloss.Style
	submit         lipgloss.Style
	submitFocused  lipgloss.Style

	listTitle         lipgloss.Style
	listSelectedTitle lipgloss.Style
	listSelectedDesc  lipgloss.Style
	listNormalTitle   lipgloss.Style
	listNormalDesc    lipgloss.Style
}

var initStyles = sync.OnceValue(func() uiStyles {
	bar := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(colorAccent).
		PaddingLeft(1)
	button := lipgloss.NewStyle().Bold(true).MarginLeft(2).Padding(0, 1)
	indent := lipgloss.NewStyle().PaddingLeft(2)

	return uiStyles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(colorAccent).MarginLeft(2),
		errorText: lipgloss.NewStyle().Foreground(colorRed).MarginLeft(2),
		label:     lipgloss.NewStyle().Bold(true).Foreground(colorText),

		blockFocused:   bar,
		blockUnfocused: indent,
		submit:         button.Foreground(colorBase).Background(colorGreen),
		submitFocused:  button.Foreground(colorGreen).Background(colorBase).Underline(true),

		listTitle:         lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		listSelectedTitle: bar.Bold(true).Foreground(colorText),
		listSelectedDesc:  bar.Foreground(colorSubtext),
		listNormalTitle:   indent.Foreground(colorText),
		listNormalDesc:    indent.Foreground(colorMuted),
	}
})

func applyTextInputStyles(input *textinput.Model) {
	input.TextStyle = lipgloss.NewStyle().Foreground(colorInput)
	input.PlaceholderStyle = lipgloss.NewStyle().Foreground(colorMuted)
	input.PromptStyle = lipgloss.NewStyle().Foreground(colorSubtext)
	input.Cursor.Style = lipgloss.NewStyle().Foreground(colorInput)
}
