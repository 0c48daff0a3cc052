// Package tui is a terminal progress view for headless training.
package tui

import (
	"fmt"
	"strings"
	"time"

	"snake-ai/training"

	tea "github.com/charmbracelet/bubbletea"
)

const recentLines = 10

// ReportMsg carries one finished episode.
type ReportMsg training.EpisodeReport

// DoneMsg is sent when training has stopped.
type DoneMsg struct{}

// TickMsg refreshes the elapsed time.
type TickMsg time.Time

// Model is the bubbletea model for the progress view.
type Model struct {
	attempts    int
	total       int
	best        int
	scoreSum    int
	epsilon     float64
	finished    bool
	startTime   time.Time
	recentGames []string

	reports <-chan training.EpisodeReport
	done    <-chan struct{}
}

// New creates a progress view for a run of total attempts.
func New(total int, reports <-chan training.EpisodeReport, done <-chan struct{}) Model {
	return Model{
		total:     total,
		startTime: time.Now(),
		reports:   reports,
		done:      done,
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func waitForReport(reports <-chan training.EpisodeReport, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case r := <-reports:
			return ReportMsg(r)
		case <-done:
			// Drain what the trainer sent before stopping.
			select {
			case r := <-reports:
				return ReportMsg(r)
			default:
				return DoneMsg{}
			}
		}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForReport(m.reports, m.done), tickCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case TickMsg:
		if m.finished {
			return m, nil
		}
		return m, tickCmd()
	case ReportMsg:
		m.attempts++
		m.scoreSum += msg.Score
		m.best = max(m.best, msg.Score)
		m.epsilon = msg.Epsilon
		line := fmt.Sprintf("Attempt %d: score %d, steps %d, epsilon %.5f", msg.Attempt, msg.Score, msg.Steps, msg.Epsilon)
		m.recentGames = append([]string{line}, m.recentGames...)
		if len(m.recentGames) > recentLines {
			m.recentGames = m.recentGames[:recentLines]
		}
		return m, waitForReport(m.reports, m.done)
	case DoneMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder
	duration := time.Since(m.startTime).Round(time.Second)
	avg := 0.0
	if m.attempts > 0 {
		avg = float64(m.scoreSum) / float64(m.attempts)
	}
	fmt.Fprintf(&sb, "Attempts:   %d/%d\n", m.attempts, m.total)
	fmt.Fprintf(&sb, "Best score: %d\n", m.best)
	fmt.Fprintf(&sb, "Avg score:  %.2f\n", avg)
	fmt.Fprintf(&sb, "Epsilon:    %.5f\n", m.epsilon)
	fmt.Fprintf(&sb, "Duration:   %s\n\n", duration)

	sb.WriteString("Recent attempts:\n")
	for _, g := range m.recentGames {
		sb.WriteString(g + "\n")
	}
	if m.finished {
		sb.WriteString("\nTraining complete.\n")
	} else {
		sb.WriteString("\nPress q to stop.\n")
	}
	return sb.String()
}
