package main

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-reach/pkg/graph"
	"github.com/dd0wney/cluso-reach/pkg/traverse"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#FF00FF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	setupView view = iota
	resultsView
	workersView
)

const viewCount = 3

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run sweep"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter},
		{k.Up, k.Down},
		{k.Quit},
	}
}

// setup form fields, cycled with up/down
const (
	fieldVertices = iota
	fieldSeed
	fieldWorkers
	fieldCount
)

type model struct {
	currentView view

	inputs     []textinput.Model
	focusIdx   int
	resultTbl  table.Model
	workerTbl  table.Model
	spin       spinner.Model
	help       help.Model
	keys       keyMap

	graph   *graph.Graph
	result  *traverse.SweepResult
	running bool

	width      int
	height     int
	message    string
	messageErr bool
}

type sweepDoneMsg struct {
	graph   *graph.Graph
	result  *traverse.SweepResult
	elapsed time.Duration
	err     error
}

func runSweepCmd(vertices int, seed int64, workers int) tea.Cmd {
	return func() tea.Msg {
		var (
			g   *graph.Graph
			err error
		)
		if seed != 0 {
			g, err = graph.RandomSeeded(vertices, seed)
		} else {
			g, err = graph.Random(vertices)
		}
		if err != nil {
			return sweepDoneMsg{err: err}
		}

		start := time.Now()
		result, err := traverse.FromAllVertices(g, workers)
		if err != nil {
			return sweepDoneMsg{err: err}
		}

		return sweepDoneMsg{
			graph:   g,
			result:  result,
			elapsed: time.Since(start),
		}
	}
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.CharLimit = 10
	ti.Width = 12
	return ti
}

func initialModel() model {
	inputs := make([]textinput.Model, fieldCount)
	inputs[fieldVertices] = newInput("1000", "1000")
	inputs[fieldSeed] = newInput("0", "0")
	inputs[fieldWorkers] = newInput("4", "4")
	inputs[fieldVertices].Focus()

	resultCols := []table.Column{
		{Title: "Start", Width: 8},
		{Title: "Visited", Width: 10},
		{Title: "Elapsed", Width: 16},
		{Title: "Worker", Width: 8},
	}
	workerCols := []table.Column{
		{Title: "Worker", Width: 8},
		{Title: "Tasks", Width: 10},
		{Title: "Busy", Width: 16},
		{Title: "Busy%", Width: 8},
	}

	tableStyles := table.DefaultStyles()
	tableStyles.Header = tableStyles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	tableStyles.Selected = tableStyles.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)

	resultTbl := table.New(
		table.WithColumns(resultCols),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	resultTbl.SetStyles(tableStyles)

	workerTbl := table.New(
		table.WithColumns(workerCols),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	workerTbl.SetStyles(tableStyles)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF00FF"))

	return model{
		currentView: setupView,
		inputs:      inputs,
		resultTbl:   resultTbl,
		workerTbl:   workerTbl,
		spin:        sp,
		help:        help.New(),
		keys:        keys,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case spinner.TickMsg:
		if m.running {
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}

	case sweepDoneMsg:
		m.running = false
		if msg.err != nil {
			m.message = fmt.Sprintf("Sweep failed: %v", msg.err)
			m.messageErr = true
			return m, nil
		}

		m.graph = msg.graph
		m.result = msg.result
		m.message = fmt.Sprintf("Swept %d vertices in %s with %d workers",
			msg.result.VertexCount(), msg.elapsed.Round(time.Microsecond), msg.result.Workers)
		m.messageErr = false
		m.populateTables()
		m.currentView = resultsView

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.currentView = (m.currentView + 1) % viewCount
			m.syncFocus()

		case key.Matches(msg, m.keys.ShiftTab):
			if m.currentView == 0 {
				m.currentView = viewCount - 1
			} else {
				m.currentView--
			}
			m.syncFocus()

		case key.Matches(msg, m.keys.Enter):
			if m.currentView == setupView && !m.running {
				return m.startSweep()
			}

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			if m.currentView == setupView {
				m.cycleFocus(key.Matches(msg, m.keys.Down))
				return m, nil
			}
		}
	}

	switch m.currentView {
	case setupView:
		for i := range m.inputs {
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
	case resultsView:
		m.resultTbl, cmd = m.resultTbl.Update(msg)
		cmds = append(cmds, cmd)
	case workersView:
		m.workerTbl, cmd = m.workerTbl.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) syncFocus() {
	if m.currentView == setupView {
		m.inputs[m.focusIdx].Focus()
	} else {
		for i := range m.inputs {
			m.inputs[i].Blur()
		}
	}
}

func (m *model) cycleFocus(down bool) {
	m.inputs[m.focusIdx].Blur()
	if down {
		m.focusIdx = (m.focusIdx + 1) % fieldCount
	} else {
		m.focusIdx = (m.focusIdx + fieldCount - 1) % fieldCount
	}
	m.inputs[m.focusIdx].Focus()
}

func (m model) startSweep() (tea.Model, tea.Cmd) {
	vertices, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldVertices].Value()))
	if err != nil || vertices < 0 {
		m.message = "Vertices must be a non-negative integer"
		m.messageErr = true
		return m, nil
	}

	seed, err := strconv.ParseInt(strings.TrimSpace(m.inputs[fieldSeed].Value()), 10, 64)
	if err != nil {
		m.message = "Seed must be an integer"
		m.messageErr = true
		return m, nil
	}

	workers, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldWorkers].Value()))
	if err != nil || workers < 1 {
		m.message = "Workers must be a positive integer"
		m.messageErr = true
		return m, nil
	}

	m.running = true
	m.message = ""
	return m, tea.Batch(m.spin.Tick, runSweepCmd(vertices, seed, workers))
}

func (m *model) populateTables() {
	resultRows := make([]table.Row, len(m.result.Results))
	for i, r := range m.result.Results {
		resultRows[i] = table.Row{
			strconv.Itoa(r.Start),
			strconv.Itoa(len(r.Order)),
			r.Elapsed.String(),
			strconv.Itoa(r.Worker),
		}
	}
	m.resultTbl.SetRows(resultRows)

	wall := m.result.TotalElapsed
	stats := m.result.WorkerStats()
	workerRows := make([]table.Row, len(stats))
	for i, ws := range stats {
		busyPct := 0.0
		if wall > 0 {
			busyPct = ws.Busy.Seconds() / wall.Seconds() * 100
		}
		workerRows[i] = table.Row{
			strconv.Itoa(ws.Worker),
			strconv.Itoa(ws.Tasks),
			ws.Busy.String(),
			fmt.Sprintf("%.1f%%", busyPct),
		}
	}
	m.workerTbl.SetRows(workerRows)
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("🔥 Cluso Reach - Sweep Console"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case setupView:
		s.WriteString(m.renderSetup())
	case resultsView:
		s.WriteString(m.renderResults())
	case workersView:
		s.WriteString(m.renderWorkers())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("✗ " + m.message))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Setup", "Results", "Workers"}
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderSetup() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Sweep Setup"))
	s.WriteString("\n\n")

	labels := []string{"Vertices:", "Seed:    ", "Workers: "}
	for i, input := range m.inputs {
		s.WriteString(fmt.Sprintf("  %s %s\n", labels[i], input.View()))
	}

	s.WriteString("\n")
	if m.running {
		s.WriteString(fmt.Sprintf("  %s Sweeping...\n", m.spin.View()))
	} else {
		s.WriteString(helpStyle.Render("Navigate fields with ↑/↓ • Press enter to generate and sweep"))
	}

	return contentStyle.Render(s.String())
}

func (m model) renderResults() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Traversal Results"))
	s.WriteString("\n\n")

	if m.result == nil {
		s.WriteString(helpStyle.Render("No sweep yet\n\nRun one from the Setup view!"))
		return contentStyle.Render(s.String())
	}

	s.WriteString(m.renderSummaryBox())
	s.WriteString("\n\n")
	s.WriteString(m.resultTbl.View())

	return contentStyle.Render(s.String())
}

func (m model) renderWorkers() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Worker Utilization"))
	s.WriteString("\n\n")

	if m.result == nil {
		s.WriteString(helpStyle.Render("No sweep yet\n\nRun one from the Setup view!"))
		return contentStyle.Render(s.String())
	}

	s.WriteString(m.workerTbl.View())

	return contentStyle.Render(s.String())
}

func (m model) renderSummaryBox() string {
	wall := m.result.TotalElapsed
	traversal := m.result.TotalTraversalTime()

	parallelism := 0.0
	if wall > 0 {
		parallelism = traversal.Seconds() / wall.Seconds()
	}

	content := fmt.Sprintf(`📊 Sweep %s
Vertices:     %d
Edges:        %d
Workers:      %d
Wall time:    %s
Sum time:     %s
Parallelism:  %.2fx`,
		m.result.RunID,
		m.graph.VertexCount(),
		m.graph.EdgeCount(),
		m.result.Workers,
		wall.Round(time.Microsecond),
		traversal.Round(time.Microsecond),
		parallelism,
	)

	return statsBoxStyle.Render(content)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
