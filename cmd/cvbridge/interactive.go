package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/cvbridge/bridge"
	"github.com/wippyai/cvbridge/dispatch"
	"github.com/wippyai/cvbridge/resource"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const pageSize = 20

type interactiveModel struct {
	err      error
	bridge   *bridge.Bridge
	result   string
	funcs    []funcInfo
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type funcInfo struct {
	ov     *dispatch.Overload
	params []paramInfo
}

type paramInfo struct {
	name    string
	witType wit.Type
	typeStr string
}

type modelState int

const (
	stateSelectFunc modelState = iota
	stateInputArgs
	stateShowResult
)

type callResultMsg struct {
	err    error
	result string
}

func newInteractiveModel(b *bridge.Bridge) *interactiveModel {
	m := &interactiveModel{bridge: b, state: stateSelectFunc}
	reg := b.Registry()
	for _, sym := range reg.Symbols() {
		for _, ov := range reg.Overloads(sym) {
			fi := funcInfo{ov: ov}
			if ov.Method() {
				fi.params = append(fi.params, paramInfo{name: "this", witType: wit.U32{}, typeStr: "handle"})
			}
			for _, p := range ov.Params {
				fi.params = append(fi.params, paramInfo{
					name:    p.Name,
					witType: p.Type,
					typeStr: dispatch.TypeString(p.Type),
				})
			}
			m.funcs = append(m.funcs, fi)
		}
	}
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectFunc && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectFunc && m.selected < len(m.funcs)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectFunc:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callFunction
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callFunction

			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectFunc
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.err = nil
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	f := m.funcs[m.selected]
	m.inputs = make([]textinput.Model, len(f.params))
	for i, p := range f.params {
		ti := textinput.New()
		ti.Placeholder = p.typeStr
		ti.Prompt = p.name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) callFunction() tea.Msg {
	f := m.funcs[m.selected]
	args := make([]any, len(m.inputs))
	for i, input := range m.inputs {
		v, err := convertArg(input.Value(), f.params[i].witType)
		if err != nil {
			return callResultMsg{err: fmt.Errorf("%s: %w", f.params[i].name, err)}
		}
		args[i] = v
	}

	var (
		result any
		err    error
	)
	if f.ov.Method() {
		class, name, _ := strings.Cut(f.ov.Symbol, ".")
		result, err = m.bridge.CallMethod(class, name, args[0], args[1:]...)
	} else {
		result, err = m.bridge.Call(f.ov.Symbol, args...)
	}
	if err != nil {
		return callResultMsg{err: err}
	}
	return callResultMsg{result: describe(m.bridge, result)}
}

// convertArg parses one text field. Records, tuples and lists are JSON;
// Mat parameters take a handle number.
func convertArg(value string, t wit.Type) (any, error) {
	value = strings.TrimSpace(value)
	switch v := t.(type) {
	case wit.String:
		return value, nil
	case wit.U8, wit.U16, wit.U32, wit.U64:
		n, err := strconv.ParseUint(value, 10, 64)
		return int(n), err
	case wit.S8, wit.S16, wit.S32, wit.S64:
		n, err := strconv.ParseInt(value, 10, 64)
		return int(n), err
	case wit.F32, wit.F64:
		return strconv.ParseFloat(value, 64)
	case wit.Bool:
		return value == "true" || value == "1", nil
	case *wit.TypeDef:
		if _, ok := v.Kind.(*wit.Resource); ok {
			if value == "" || value == "null" {
				return nil, nil
			}
			n, err := strconv.ParseUint(value, 10, 32)
			return resource.Handle(n), err
		}
		if l, ok := v.Kind.(*wit.List); ok {
			if _, isByte := l.Type.(wit.U8); isByte {
				var raw []int
				if err := json.Unmarshal([]byte(value), &raw); err != nil {
					return nil, err
				}
				out := make([]byte, len(raw))
				for i, n := range raw {
					out[i] = byte(n)
				}
				return out, nil
			}
		}
		var out any
		err := json.Unmarshal([]byte(value), &out)
		return out, err
	default:
		return value, nil
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("cvbridge"))
	b.WriteString(fmt.Sprintf(" %d overloads, %d live handles", len(m.funcs), len(m.bridge.Handles())))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectFunc:
		b.WriteString("Select a symbol to call:\n\n")
		start := max(0, m.selected-pageSize/2)
		end := min(len(m.funcs), start+pageSize)
		for i := start; i < end; i++ {
			f := m.funcs[i]
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.formatFunc(f)))
			} else {
				b.WriteString("  " + m.formatFunc(f))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		f := m.funcs[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(f.ov.Symbol)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(f.params[i].typeStr))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		f := m.funcs[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(f.ov.Symbol)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatFunc(f funcInfo) string {
	var params []string
	for _, p := range f.params {
		params = append(params, p.name+": "+typeStyle.Render(p.typeStr))
	}
	result := ""
	switch len(f.ov.Results) {
	case 0:
	case 1:
		result = " -> " + typeStyle.Render(dispatch.TypeString(f.ov.Results[0]))
	default:
		result = " -> " + typeStyle.Render(fmt.Sprintf("tuple(%d)", len(f.ov.Results)))
	}
	return funcStyle.Render(f.ov.Symbol) + "(" + strings.Join(params, ", ") + ")" + result
}

func runInteractive(b *bridge.Bridge) error {
	p := tea.NewProgram(newInteractiveModel(b), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
