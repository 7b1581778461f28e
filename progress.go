package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"commonswall/log"
	"commonswall/updater"
)

type progressMsg struct {
	step updater.Step
	pct  int
}

type finishedMsg struct{ err error }

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	stepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

type progressModel struct {
	tr   translator
	bar  progress.Model
	step updater.Step
	pct  int
	done bool
	err  error
	quit bool
}

func newProgressModel(tr translator) progressModel {
	return progressModel{
		tr:   tr,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		step: updater.StepFetching,
	}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.quit = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		w := msg.Width - 4
		if w > 60 {
			w = 60
		}
		if w > 10 {
			m.bar.Width = w
		}
	case progressMsg:
		m.step = msg.step
		m.pct = msg.pct
	case finishedMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	s := titleStyle.Render(m.tr.T("dialog_title")) + "\n\n"
	s += m.bar.ViewAs(float64(m.pct)/100) + "\n"
	label := m.tr.T("progress_" + string(m.step))
	switch {
	case m.err != nil:
		s += errStyle.Render(label+": "+m.err.Error()) + "\n"
	case m.done:
		s += doneStyle.Render(label) + "\n"
	default:
		s += stepStyle.Render(label) + "\n"
	}
	return s
}

// runWithProgress runs fn, showing its progress as a bar on a terminal and
// as plain lines otherwise.
func runWithProgress(ctx context.Context, tr translator, fn func(context.Context, updater.ProgressFunc) error) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fn(ctx, plainProgress(os.Stdout, tr))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newProgressModel(tr), tea.WithContext(ctx))
	result := make(chan error, 1)
	go func() {
		err := fn(ctx, func(step updater.Step, pct int) {
			p.Send(progressMsg{step: step, pct: pct})
		})
		result <- err
		p.Send(finishedMsg{err: err})
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		log.Warnf("progress ui: %v", err)
	}
	// an early quit abandons the cycle
	cancel()
	return <-result
}

// plainProgress prints one line per state change.
func plainProgress(w io.Writer, tr translator) updater.ProgressFunc {
	var last updater.Step
	return func(step updater.Step, pct int) {
		if step == last {
			return
		}
		last = step
		fmt.Fprintf(w, "[%3d%%] %s\n", pct, tr.T("progress_"+string(step)))
	}
}
