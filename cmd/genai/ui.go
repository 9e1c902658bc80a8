package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var batchHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF88")).Background(lipgloss.Color("#444444"))

type (
	taskDoneMsg      struct{ message string }
	batchFinishedMsg struct{}
)

type batchUI struct {
	bar          progress.Model
	loader       spinner.Model
	messageStyle lipgloss.Style
	total        int
	done         int
	messages     []string
	finished     bool
}

func newBatchUI(total int) *batchUI {
	return &batchUI{
		bar: progress.New(progress.WithDefaultGradient()),
		loader: spinner.New(
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("205"))),
			spinner.WithSpinner(spinner.Dot),
		),
		messageStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		total:        total,
	}
}

func (m *batchUI) Init() tea.Cmd {
	return m.loader.Tick
}

func (m *batchUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		}
	case taskDoneMsg:
		m.done++
		m.messages = append(m.messages, msg.message)
		if len(m.messages) > 10 {
			m.messages = m.messages[1:]
		}
	case batchFinishedMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *batchUI) View() string {
	header := batchHeaderStyle.Render(fmt.Sprintf(" batch: %d/%d ", m.done, m.total))
	fraction := 0.0
	if m.total > 0 {
		fraction = float64(m.done) / float64(m.total)
	}

	lines := make([]string, 0, len(m.messages))
	for _, message := range m.messages {
		lines = append(lines, m.messageStyle.Render(message))
	}

	footer := m.loader.View() + " working..."
	if m.finished {
		footer = "done"
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s\n\n%s\n", header, m.bar.ViewAs(fraction), strings.Join(lines, "\n"), footer)
}
