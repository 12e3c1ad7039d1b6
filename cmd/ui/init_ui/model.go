package init_ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Field is a single text input of a preset.
type Field struct {
	Key         string
	Label       string
	Placeholder string
	Value       string
	Required    bool
}

// Preset is a starting point for a new site, with the fields it asks for.
type Preset struct {
	Name        string
	Description string
	Fields      []Field
}

type Params struct {
	Presets  []*Preset
	Selected string
	Target   string
	Force    bool
}

type Result struct {
	Preset    *Preset
	Target    string
	Force     bool
	Values    map[string]string
	Cancelled bool
}

type step int

const (
	stepSelectPreset step = iota
	stepFields
)

type Model struct {
	step step

	preset  *Preset
	presets []*Preset

	presetList  list.Model
	inputs      []textinput.Model
	targetInput textinput.Model
	focusIdx    int
	done        bool
	missing     string

	result Result
	err    error
}

func Run(ctx context.Context, params Params) (*Result, error) {
	model, err := NewModel(params)
	if err != nil {
		return nil, err
	}

	program := tea.NewProgram(model, tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return nil, err
	}

	m, ok := final.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}

	return &m.result, m.err
}

func NewModel(params Params) (*Model, error) {
	if len(params.Presets) == 0 {
		return nil, fmt.Errorf("no presets available")
	}

	m := &Model{
		presets: params.Presets,
		result: Result{
			Target: params.Target,
			Force:  params.Force,
		},
	}

	m.targetInput = textinput.New()
	m.targetInput.Placeholder = "path/to/site"
	m.targetInput.Prompt = ""
	m.targetInput.SetValue(params.Target)
	applyTextInputStyles(&m.targetInput)

	if params.Selected != "" {
		preset, err := resolvePreset(m.presets, params.Selected)
		if err != nil {
			return nil, err
		}
		m.preset = preset
	} else if len(m.presets) == 1 {
		m.preset = m.presets[0]
	}

	if m.preset == nil {
		m.step = stepSelectPreset
		m.presetList = buildPresetList(m.presets)
	} else {
		m.step = stepFields
		m.setPreset(m.preset)
	}

	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.step == stepSelectPreset {
			m.presetList.SetSize(msg.Width, msg.Height-6)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.done = true
			m.result.Cancelled = true
			return m, tea.Quit
		}
	}

	switch m.step {
	case stepSelectPreset:
		return m.updateSelectPreset(msg)
	case stepFields:
		return m.updateFields(msg)
	default:
		return m, nil
	}
}

func (m *Model) View() string {
	if m.done {
		return ""
	}
	switch m.step {
	case stepSelectPreset:
		return m.presetList.View()
	case stepFields:
		return m.viewFields()
	default:
		return ""
	}
}

func (m *Model) updateSelectPreset(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.presetList, cmd = m.presetList.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		item, ok := m.presetList.SelectedItem().(presetItem)
		if !ok || item.preset == nil {
			return m, nil
		}
		m.setPreset(item.preset)
		m.step = stepFields
		return m, nil
	}

	return m, cmd
}

func (m *Model) updateFields(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			m.focusNext()
			return m, nil
		case "shift+tab", "up":
			m.focusPrev()
			return m, nil
		case "enter":
			switch {
			case m.focusIdx <= len(m.inputs):
				m.focusNext()
				return m, nil
			case m.focusIdx == len(m.inputs)+1:
				if idx := m.firstMissing(); idx >= 0 {
					m.missing = m.preset.Fields[idx].Label
					m.focusIdx = idx + 1
					m.syncFocus()
					return m, nil
				}
				m.captureResult()
				m.done = true
				return m, tea.Quit
			}
		}
	}

	if input := m.focusedInput(); input != nil {
		var cmd tea.Cmd
		*input, cmd = input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) viewFields() string {
	styles := initStyles()
	var b strings.Builder
	b.WriteString(styles.title.Render(m.preset.Name+":") + "\n\n")

	block := func(idx int, label, view string) {
		content := styles.label.Render(label) + "\n" + view
		if m.focusIdx == idx {
			b.WriteString(styles.blockFocused.Render(content))
		} else {
			b.WriteString(styles.blockUnfocused.Render(content))
		}
		b.WriteString("\n\n")
	}

	block(0, "Site directory", m.targetInput.View())
	for i, field := range m.preset.Fields {
		block(i+1, field.Label, m.inputs[i].View())
	}

	submitLine := "Write config"
	if m.focusIdx == len(m.inputs)+1 {
		submitLine = styles.submitFocused.Render(submitLine)
	} else {
		submitLine = styles.submit.Render(submitLine)
	}
	b.WriteString(submitLine)
	b.WriteString("\n")

	if m.missing != "" {
		b.WriteString("\n" + styles.errorText.Render(m.missing+" is required") + "\n")
	}

	return b.String()
}

func (m *Model) setPreset(preset *Preset) {
	m.preset = preset
	m.inputs = make([]textinput.Model, len(preset.Fields))
	for i, field := range preset.Fields {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = field.Placeholder
		input.SetValue(field.Value)
		applyTextInputStyles(&input)
		m.inputs[i] = input
	}

	m.focusIdx = 0
	m.targetInput.Focus()
	m.result.Preset = preset
}

func (m *Model) captureResult() {
	m.result.Preset = m.preset
	m.result.Target = strings.TrimSpace(m.targetInput.Value())
	if m.result.Target == "" {
		m.result.Target = "."
	}

	values := make(map[string]string, len(m.inputs))
	for i, field := range m.preset.Fields {
		values[field.Key] = strings.TrimSpace(m.inputs[i].Value())
	}
	m.result.Values = values
}

// firstMissing returns the index of the first required field left empty, or -1.
func (m *Model) firstMissing() int {
	for i, field := range m.preset.Fields {
		if field.Required && strings.TrimSpace(m.inputs[i].Value()) == "" {
			return i
		}
	}
	return -1
}

func (m *Model) focusedInput() *textinput.Model {
	if m.focusIdx == 0 {
		return &m.targetInput
	}
	if m.focusIdx >= 1 && m.focusIdx <= len(m.inputs) {
		return &m.inputs[m.focusIdx-1]
	}
	return nil
}

func (m *Model) focusNext() {
	m.focusIdx++
	if m.focusIdx > len(m.inputs)+1 {
		m.focusIdx = 0
	}
	m.syncFocus()
}

func (m *Model) focusPrev() {
	m.focusIdx--
	if m.focusIdx < 0 {
		m.focusIdx = len(m.inputs) + 1
	}
	m.syncFocus()
}

func (m *Model) syncFocus() {
	if m.focusIdx == 0 {
		m.targetInput.Focus()
	} else {
		m.targetInput.Blur()
	}

	for i := range m.inputs {
		if m.focusIdx == i+1 {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}
