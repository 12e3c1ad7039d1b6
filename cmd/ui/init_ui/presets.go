package init_ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
)

type presetItem struct {
	preset *Preset
}

func (p presetItem) Title() string       { return p.preset.Name }
func (p presetItem) Description() string { return p.preset.Description }
func (p presetItem) FilterValue() string { return p.preset.Name }

func buildPresetList(presets []*Preset) list.Model {
	items := make([]list.Item, 0, len(presets))
	for _, preset := range presets {
		items = append(items, presetItem{preset: preset})
	}

	delegate := list.NewDefaultDelegate()
	styles := initStyles()
	delegate.Styles.SelectedTitle = styles.listSelectedTitle
	delegate.Styles.SelectedDesc = styles.listSelectedDesc
	delegate.Styles.NormalTitle = styles.listNormalTitle
	delegate.Styles.NormalDesc = styles.listNormalDesc

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select a site layout:"
	l.Styles.Title = styles.listTitle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return l
}

func resolvePreset(presets []*Preset, selected string) (*Preset, error) {
	for _, preset := range presets {
		if strings.EqualFold(preset.Name, selected) {
			return preset, nil
		}
	}

	return nil, fmt.Errorf("preset %s not found", selected)
}
