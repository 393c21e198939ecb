// Package ui is the full-screen dashboard behind --tui: a live readout of
// elapsed time, iterations, and frequency while the engine repeats. It is
// the console counterpart of the old desktop front end.
package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"intention/internal/counter"
	"intention/internal/display"
	"intention/internal/intent"
	"intention/internal/repeater"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// statsMsg carries one second of formatted readouts.
type statsMsg struct {
	elapsed    string
	iterations string
	frequency  string
}

// doneMsg signals the engine finished on its own (duration reached).
type doneMsg struct {
	err error
}

type model struct {
	intention string
	spin      spinner.Model

	elapsed    string
	iterations string
	frequency  string

	err  error
	done bool
}

func newModel(intention string) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	return model{
		intention:  intention,
		spin:       sp,
		elapsed:    counter.FormatTime(0),
		iterations: "0",
		frequency:  "0",
	}
}

func (m model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case statsMsg:
		m.elapsed = msg.elapsed
		m.iterations = msg.iterations
		m.frequency = msg.frequency
		return m, nil
	case doneMsg:
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	rows := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Intention Repeater"),
		"",
		labelStyle.Render("Intention")+valueStyle.Render(m.intention),
		labelStyle.Render("Elapsed")+valueStyle.Render(m.elapsed),
		labelStyle.Render("Iterations")+valueStyle.Render(m.iterations),
		labelStyle.Render("Frequency")+valueStyle.Render(m.frequency+"Hz"),
		"",
		m.spin.View()+" repeating",
	)
	return boxStyle.Render(rows) + "\n" + helpStyle.Render("q to quit")
}

// Run drives the engine under the dashboard until the duration elapses or
// the user quits.
func Run(ctx context.Context, asm *intent.Assembly, opts repeater.Options, renderer *display.Renderer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newModel(asm.Display), tea.WithAltScreen())

	engineDone := make(chan error, 1)
	engine := repeater.New(asm, opts, func(s repeater.Stats) {
		iter, hz := renderer.Values(s.Iterations, s.Frequency)
		p.Send(statsMsg{
			elapsed:    counter.FormatTime(s.Seconds),
			iterations: iter,
			frequency:  hz,
		})
	})
	go func() {
		err := engine.Run(ctx)
		engineDone <- err
		p.Send(doneMsg{err: err})
	}()

	final, err := p.Run()
	cancel()
	engineErr := <-engineDone
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	if m, ok := final.(model); ok && m.err != nil {
		return m.err
	}
	return engineErr
}
