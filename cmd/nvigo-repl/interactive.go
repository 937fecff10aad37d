package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/nvigo/nvigo/api"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2E7D32")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2E7D32"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type opInfo struct {
	name       string
	resultType string
	params     []string
	call       func(args []string) (string, error)
}

type modelState int

const (
	stateSelectOp modelState = iota
	stateInputArgs
	stateShowResult
)

type replModel struct {
	err      error
	ops      []opInfo
	inputs   []textinput.Model
	result   string
	selected int
	focusIdx int
	state    modelState
}

type callResultMsg struct {
	err    error
	result string
}

func newReplModel() *replModel {
	return &replModel{
		ops:   buildOps(),
		state: stateSelectOp,
	}
}

func buildOps() []opInfo {
	return []opInfo{
		{
			name:   "command",
			params: []string{"cmd"},
			call: func(args []string) (string, error) {
				if err := api.Command(args[0]); err != nil {
					return "", err
				}
				return "OK", nil
			},
		},
		{
			name:       "eval",
			resultType: "any",
			params:     []string{"expr"},
			call: func(args []string) (string, error) {
				v, err := api.Eval[any](args[0])
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%v", v), nil
			},
		},
		{
			name:       "exec",
			resultType: "string",
			params:     []string{"src"},
			call: func(args []string) (string, error) {
				return api.Exec(args[0], true)
			},
		},
		{
			name:       "call-function",
			resultType: "any",
			params:     []string{"name", "args"},
			call: func(args []string) (string, error) {
				var fnArgs []any
				if args[1] != "" {
					for _, raw := range strings.Split(args[1], ",") {
						fnArgs = append(fnArgs, parseArg(raw))
					}
				}
				v, err := api.CallFunction[any](args[0], fnArgs...)
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%v", v), nil
			},
		},
		{
			name:       "get-mode",
			resultType: "mode",
			call: func([]string) (string, error) {
				got, err := api.GetMode()
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("mode=%v blocking=%v", got.Mode, got.Blocking), nil
			},
		},
		{
			name:       "tab-get-var",
			resultType: "any",
			params:     []string{"name"},
			call: func(args []string) (string, error) {
				var v any
				if err := api.CurrentTabPage().GetVar(args[0], &v); err != nil {
					return "", err
				}
				return fmt.Sprintf("%v", v), nil
			},
		},
		{
			name:   "tab-set-var",
			params: []string{"name", "value"},
			call: func(args []string) (string, error) {
				if err := api.CurrentTabPage().SetVar(args[0], parseArg(args[1])); err != nil {
					return "", err
				}
				return "OK", nil
			},
		},
		{
			name:   "tab-del-var",
			params: []string{"name"},
			call: func(args []string) (string, error) {
				if err := api.CurrentTabPage().DelVar(args[0]); err != nil {
					return "", err
				}
				return "OK", nil
			},
		},
		{
			name:       "tab-list-wins",
			resultType: "[]window",
			call: func([]string) (string, error) {
				wins, err := api.CurrentTabPage().ListWins()
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("%v", wins), nil
			},
		},
	}
}

func (m *replModel) Init() tea.Cmd {
	return nil
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateInputArgs || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectOp && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectOp && m.selected < len(m.ops)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectOp:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callOp
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callOp

			case stateShowResult:
				m.state = stateSelectOp
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
				m.state = stateSelectOp
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectOp
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

func (m *replModel) prepareInputs() {
	op := m.ops[m.selected]
	m.inputs = make([]textinput.Model, len(op.params))
	for i, p := range op.params {
		ti := textinput.New()
		ti.Prompt = p + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *replModel) callOp() tea.Msg {
	op := m.ops[m.selected]
	args := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		args[i] = input.Value()
	}
	result, err := op.call(args)
	return callResultMsg{result: result, err: err}
}

func (m *replModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("nvigo REPL"))
	b.WriteString(" stub editor\n\n")

	switch m.state {
	case stateSelectOp:
		b.WriteString("Select an operation:\n\n")
		for i, op := range m.ops {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + formatOp(op)))
			} else {
				b.WriteString(cursor + formatOp(op))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		op := m.ops[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", opStyle.Render(op.name)))
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		op := m.ops[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", opStyle.Render(op.name)))
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

func formatOp(op opInfo) string {
	var params []string
	for _, p := range op.params {
		params = append(params, typeStyle.Render(p))
	}
	result := ""
	if op.resultType != "" {
		result = " -> " + typeStyle.Render(op.resultType)
	}
	return opStyle.Render(op.name) + "(" + strings.Join(params, ", ") + ")" + result
}

func runInteractive() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal")
	}
	p := tea.NewProgram(newReplModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
