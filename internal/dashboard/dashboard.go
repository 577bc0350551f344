// Package dashboard implements the bubbletea terminal dashboard: a status
// bar, an agents table, and a live-traffic panel with nested trace
// events, polling the control plane on a fixed tick.
package dashboard

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const pollInterval = time.Second

var (
	styleChaosOn  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleChaosOff = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleHeader   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	stylePanel    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	styleEventDim = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleControls = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

type tickMsg time.Time

type dataMsg struct {
	traces []traceRow
	agents []agentRow
}

// Model is the dashboard's bubbletea state. It holds no handle to the
// ledger, chaos engine, or trace recorder — only their JSON snapshots
// fetched over HTTP.
type Model struct {
	client  *controlClient
	network string

	chaos      chaosStatus
	agentTable table.Model
	traces     []traceRow
	seenAgents map[string]struct{}

	width, height int
	err           error
	quitting      bool
}

// New constructs a dashboard Model polling the control plane at base
// (e.g. "http://127.0.0.1:4002").
func New(base, network string) Model {
	cols := []table.Column{
		{Title: "ID", Width: 16},
		{Title: "Balance", Width: 12},
		{Title: "Spend", Width: 12},
		{Title: "Status", Width: 10},
	}
	t := table.New(table.WithColumns(cols), table.WithFocused(false), table.WithHeight(8))

	return Model{
		client:     newControlClient(base),
		network:    network,
		agentTable: t,
		seenAgents: make(map[string]struct{}),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(pollCmd(m.client), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func pollCmd(c *controlClient) tea.Cmd {
	return func() tea.Msg {
		traces, err := c.traces()
		if err != nil {
			return dataMsg{}
		}

		seen := map[string]struct{}{}
		var agents []agentRow
		for _, t := range traces {
			if t.AgentID == "" || t.AgentID == "unknown" {
				continue
			}
			if _, ok := seen[t.AgentID]; ok {
				continue
			}
			seen[t.AgentID] = struct{}{}
			if a, err := c.status(t.AgentID); err == nil && a != nil {
				agents = append(agents, *a)
			}
		}
		return dataMsg{traces: traces, agents: agents}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "c":
			cur := m.chaos
			go func() { _ = m.client.toggleChaos(cur) }()
			m.chaos.Enabled = !m.chaos.Enabled
			if m.chaos.Enabled && m.chaos.GlobalFailureRate == 0 {
				m.chaos.GlobalFailureRate = 0.2
				m.chaos.MinLatencyMs = 200
				m.chaos.MaxLatencyMs = 200
			}
			return m, nil
		}

	case tickMsg:
		return m, tea.Batch(pollCmd(m.client), tickCmd())

	case dataMsg:
		m.traces = msg.traces
		rows := make([]table.Row, 0, len(msg.agents))
		for _, a := range msg.agents {
			status := "active"
			if !a.Active {
				status = "inactive"
			}
			rows = append(rows, table.Row{a.ID, "$" + a.Balance, "$" + a.TotalSpend, status})
		}
		m.agentTable.SetRows(rows)
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTopBar(),
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderAgents(), m.renderTraffic()),
		m.renderBottomBar(),
	)
}

func (m Model) renderTopBar() string {
	chaosLabel := styleChaosOff.Render("CHAOS: OFF")
	if m.chaos.Enabled {
		chaosLabel = styleChaosOn.Render(fmt.Sprintf("CHAOS: ON (%.0f%%)", m.chaos.GlobalFailureRate*100))
	}
	header := styleHeader.Render("XDR Control Plane")
	netLabel := fmt.Sprintf("network: %s", m.network)
	clock := time.Now().Format("15:04:05")
	return stylePanel.Render(fmt.Sprintf("%s   %s   %s   %s", header, chaosLabel, netLabel, clock))
}

func (m Model) renderAgents() string {
	return stylePanel.Render("Agents\n" + m.agentTable.View())
}

func (m Model) renderTraffic() string {
	n := len(m.traces)
	start := 0
	if n > 15 {
		start = n - 15
	}
	var out string
	for i := n - 1; i >= start; i-- {
		t := m.traces[i]
		status := 0
		if t.StatusCode != nil {
			status = *t.StatusCode
		}
		var dur int64
		if t.DurationMs != nil {
			dur = *t.DurationMs
		}
		out += fmt.Sprintf("[%d] %s %s (%dms)\n", status, t.Method, t.URL, dur)
		evStart := 0
		if len(t.Events) > 3 {
			evStart = len(t.Events) - 3
		}
		for _, ev := range t.Events[evStart:] {
			out += styleEventDim.Render(fmt.Sprintf("    [%s] %s", ev.Category, ev.Message)) + "\n"
		}
	}
	return stylePanel.Render("Live Traffic\n" + out)
}

func (m Model) renderBottomBar() string {
	return stylePanel.Render(styleControls.Render("[q] quit   [c] toggle chaos"))
}
