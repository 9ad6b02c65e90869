package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/brensch/snekduel/game"
	"github.com/brensch/snekduel/match"
	"github.com/brensch/snekduel/render"
)

const recentEvents = 8

var (
	snakeStyles = [2]lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF")),
	}
	foodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF3B3B")).Bold(true)
	deadStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#333333"))
	titleStyle = lipgloss.NewStyle().Bold(true)
	boardStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type frameMsg match.Frame

type feedClosedMsg struct{}

type restartErrMsg struct{ err error }

type model struct {
	frames  <-chan match.Frame
	restart func() error
	frame   match.Frame
	seen    bool
	closed  bool
	err     error
	recent  []string
}

// newModel follows frames. restart may be nil, which disables the r key.
func newModel(frames <-chan match.Frame, restart func() error) model {
	return model{frames: frames, restart: restart}
}

func (m model) restartCmd() tea.Cmd {
	restart := m.restart
	return func() tea.Msg {
		if err := restart(); err != nil {
			return restartErrMsg{err}
		}
		return nil
	}
}

func waitForFrame(frames <-chan match.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return feedClosedMsg{}
		}
		return frameMsg(f)
	}
}

func (m model) Init() tea.Cmd {
	return waitForFrame(m.frames)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.restart != nil {
				return m, m.restartCmd()
			}
		}
	case frameMsg:
		if m.seen && msg.MatchID != m.frame.MatchID {
			m.recent = nil
			m.err = nil
		}
		m.frame = match.Frame(msg)
		m.seen = true
		for _, ev := range msg.Events {
			line := fmt.Sprintf("tick %d: %s", msg.Snapshot.Tick, ev)
			m.recent = append([]string{line}, m.recent...)
		}
		if len(m.recent) > recentEvents {
			m.recent = m.recent[:recentEvents]
		}
		return m, waitForFrame(m.frames)
	case feedClosedMsg:
		m.closed = true
	case restartErrMsg:
		m.err = msg.err
	}
	return m, nil
}

func (m model) View() string {
	if !m.seen {
		return "Waiting for the first tick...\n"
	}
	snap := m.frame.Snapshot

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("snekduel "+m.frame.MatchID) + "\n")
	sb.WriteString(boardStyle.Render(drawBoard(snap)) + "\n")
	for i, sn := range snap.Snakes {
		line := fmt.Sprintf("%s  %-10s score %-4d len %-3d", sn.ID, sn.Policy, sn.Score, len(sn.Body))
		if !sn.Alive {
			line += "  dead (" + sn.Death.String() + ")"
		}
		sb.WriteString(snakeStyles[i].Render(line) + "\n")
	}
	sb.WriteString(fmt.Sprintf("tick %d\n", snap.Tick))
	if snap.Result != nil {
		sb.WriteString(titleStyle.Render("Game over: "+snap.Result.String()) + "\n")
	} else if m.closed {
		sb.WriteString("Match stopped.\n")
	}
	if m.err != nil {
		sb.WriteString(fmt.Sprintf("Restart failed: %v\n", m.err))
	}

	if len(m.recent) > 0 {
		sb.WriteString("\nRecent events:\n")
		for _, line := range m.recent {
			sb.WriteString(line + "\n")
		}
	}
	if m.restart != nil {
		sb.WriteString("\nPress r to restart, q to quit.\n")
	} else {
		sb.WriteString("\nPress q to quit.\n")
	}
	return sb.String()
}

func drawBoard(snap game.Snapshot) string {
	rows := render.Cells(snap)
	lines := make([]string, len(rows))
	for y, row := range rows {
		var sb strings.Builder
		for x, c := range row {
			if x > 0 {
				sb.WriteByte(' ')
			}
			glyph := string(c.Glyph())
			switch c.Kind {
			case render.Head, render.Body:
				sb.WriteString(snakeStyles[c.Owner].Render(glyph))
			case render.Food:
				sb.WriteString(foodStyle.Render(glyph))
			case render.Dead:
				sb.WriteString(deadStyle.Render(glyph))
			default:
				sb.WriteString(emptyStyle.Render(glyph))
			}
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}
