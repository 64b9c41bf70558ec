package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jtransform/deinflect"
)

var (
	exploreTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	exploreHintStyle  = lipgloss.NewStyle().Faint(true)
	exploreCandStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	exploreTraceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func newExploreCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Interactively type a surface form and watch candidates appear",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := loadDescriptorBytes(root.Descriptor)
			if err != nil {
				return err
			}
			engine := deinflect.New()
			if err := engine.AddDescriptor(raw); err != nil {
				return err
			}

			p := tea.NewProgram(newExploreModel(engine))
			_, err = p.Run()
			return err
		},
	}
	return cmd
}

type exploreModel struct {
	engine     *deinflect.Engine
	input      string
	candidates []candidateJSON
}

func newExploreModel(engine *deinflect.Engine) exploreModel {
	return exploreModel{engine: engine}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
	case tea.KeyEnter:
		// Recompute is already live on every keystroke; enter is a no-op.
	case tea.KeyRunes:
		m.input += string(keyMsg.Runes)
	default:
		return m, nil
	}

	m.candidates = m.candidates[:0]
	if m.input != "" {
		for s := range m.engine.Transform(m.input) {
			names := make([]string, len(s.Trace))
			for i, step := range s.Trace {
				names[i] = step.Rule
			}
			m.candidates = append(m.candidates, candidateJSON{Text: s.Text, Trace: names})
		}
	}
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder
	b.WriteString(exploreTitleStyle.Render("deinflect explorer"))
	b.WriteString("\n")
	b.WriteString(exploreHintStyle.Render("type a surface form; esc or ctrl+c to quit"))
	b.WriteString("\n\n> ")
	b.WriteString(m.input)
	b.WriteString("\n\n")

	for _, c := range m.candidates {
		b.WriteString(exploreCandStyle.Render(c.Text))
		if len(c.Trace) > 0 {
			b.WriteString("  ")
			b.WriteString(exploreTraceStyle.Render(fmt.Sprintf("%v", c.Trace)))
		}
		b.WriteString("\n")
	}
	return b.String()
}
