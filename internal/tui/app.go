package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mood-swing/internal/domain"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PipelineQuerier is the slice of the pipeline service the dashboard reads.
type PipelineQuerier interface {
	Mood(ctx context.Context, symbol string) (*domain.MoodSummary, error)
	FusedSeries(ctx context.Context, symbol string) ([]domain.FusedRow, error)
	Predict(ctx context.Context, symbol string) (*domain.PredictionRun, error)
	RecentRuns(ctx context.Context, symbol string, limit int) ([]domain.PredictionRun, error)
}

// AnalystQuerier writes a short analyst note for a symbol.
type AnalystQuerier interface {
	Note(ctx context.Context, symbol string) (string, error)
}

type Services struct {
	Pipeline PipelineQuerier
	Analyst  AnalystQuerier
	Username string
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	upStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	downStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
	tabStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Padding(0, 1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type symbolData struct {
	mood  *domain.MoodSummary
	rows  []domain.FusedRow
	run   *domain.PredictionRun
	runs  []domain.PredictionRun
	note  string
	err   error
	stale bool
}

type dataMsg struct {
	symbol string
	data   symbolData
}

type noteMsg struct {
	symbol string
	note   string
	err    error
}

// AppModel is the ssh dashboard: one tab per tracked symbol, each showing
// the fused sentiment series, current mood, and the model's call.
type AppModel struct {
	svc     Services
	symbols []string
	idx     int
	data    map[string]symbolData
	loading bool
	spin    spinner.Model
	runsTbl table.Model
	width   int
	height  int
}

func NewAppModel(svc Services) *AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

	cols := []table.Column{
		{Title: "Run at", Width: 17},
		{Title: "P(up)", Width: 7},
		{Title: "P(down)", Width: 8},
		{Title: "CV mean", Width: 8},
	}
	tbl := table.New(table.WithColumns(cols), table.WithHeight(6))

	return &AppModel{
		svc:     svc,
		symbols: domain.SupportedSymbols,
		data:    make(map[string]symbolData),
		loading: true,
		spin:    sp,
		runsTbl: tbl,
	}
}

func (m *AppModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.fetch(m.symbols[m.idx]))
}

func (m *AppModel) symbol() string {
	return m.symbols[m.idx]
}

func (m *AppModel) fetch(symbol string) tea.Cmd {
	pipeline := m.svc.Pipeline
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		var d symbolData
		d.mood, d.err = pipeline.Mood(ctx, symbol)
		if d.err == nil {
			d.rows, d.err = pipeline.FusedSeries(ctx, symbol)
		}
		if d.err == nil {
			d.run, d.err = pipeline.Predict(ctx, symbol)
		}
		if d.err == nil {
			d.runs, _ = pipeline.RecentRuns(ctx, symbol, 6)
		}
		return dataMsg{symbol: symbol, data: d}
	}
}

func (m *AppModel) fetchNote(symbol string) tea.Cmd {
	analyst := m.svc.Analyst
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		note, err := analyst.Note(ctx, symbol)
		return noteMsg{symbol: symbol, note: note, err: err}
	}
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.idx = (m.idx + 1) % len(m.symbols)
			return m.loadCurrent()
		case "shift+tab", "left", "h":
			m.idx = (m.idx - 1 + len(m.symbols)) % len(m.symbols)
			return m.loadCurrent()
		case "r":
			m.loading = true
			return m, tea.Batch(m.spin.Tick, m.fetch(m.symbol()))
		case "a":
			if m.svc.Analyst != nil {
				return m, m.fetchNote(m.symbol())
			}
			return m, nil
		}

	case dataMsg:
		d := m.data[msg.symbol]
		note := d.note
		msg.data.note = note
		m.data[msg.symbol] = msg.data
		if msg.symbol == m.symbol() {
			m.loading = false
			m.runsTbl.SetRows(runRows(msg.data.runs))
		}
		return m, nil

	case noteMsg:
		d := m.data[msg.symbol]
		if msg.err != nil {
			d.note = "analyst error: " + msg.err.Error()
		} else {
			d.note = msg.note
		}
		m.data[msg.symbol] = d
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.loading {
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.runsTbl, cmd = m.runsTbl.Update(msg)
	return m, cmd
}

func (m *AppModel) loadCurrent() (tea.Model, tea.Cmd) {
	d, ok := m.data[m.symbol()]
	if ok && d.err == nil && !d.stale {
		m.loading = false
		m.runsTbl.SetRows(runRows(d.runs))
		return m, nil
	}
	m.loading = true
	return m, tea.Batch(m.spin.Tick, m.fetch(m.symbol()))
}

func runRows(runs []domain.PredictionRun) []table.Row {
	rows := make([]table.Row, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, table.Row{
			r.RunAt.UTC().Format("01-02 15:04"),
			fmt.Sprintf("%.3f", r.ProbUp),
			fmt.Sprintf("%.3f", r.ProbDown),
			fmt.Sprintf("%.3f", r.CVMean),
		})
	}
	return rows
}

func (m *AppModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mood-swing"))
	if m.svc.Username != "" {
		b.WriteString(labelStyle.Render("  ~" + m.svc.Username))
	}
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spin.View() + " fetching " + m.symbol() + "...\n")
		return b.String()
	}

	d := m.data[m.symbol()]
	if d.err != nil {
		b.WriteString(errStyle.Render("error: "+d.err.Error()) + "\n")
		b.WriteString(labelStyle.Render("press r to retry") + "\n")
		return b.String()
	}

	b.WriteString(m.renderMood(d))
	b.WriteString("\n")
	b.WriteString(m.renderForecast(d))
	b.WriteString("\n")
	if len(d.runs) > 0 {
		b.WriteString(panelStyle.Render(m.runsTbl.View()))
		b.WriteString("\n")
	}
	if d.note != "" {
		b.WriteString(panelStyle.Render("Analyst note\n" + d.note))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("tab: next symbol • r: refresh • a: analyst note • q: quit"))
	return b.String()
}

func (m *AppModel) renderTabs() string {
	tabs := make([]string, len(m.symbols))
	for i, s := range m.symbols {
		if i == m.idx {
			tabs[i] = activeStyle.Render(s)
		} else {
			tabs[i] = tabStyle.Render(s)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *AppModel) renderMood(d symbolData) string {
	if d.mood == nil {
		return ""
	}
	meanStyle := labelStyle
	if d.mood.Mean >= 0.05 {
		meanStyle = upStyle
	} else if d.mood.Mean <= -0.05 {
		meanStyle = downStyle
	}

	width := m.width - 6
	if width < 20 {
		width = 20
	}
	sentiments := make([]float64, len(d.rows))
	closes := make([]float64, len(d.rows))
	for i, row := range d.rows {
		sentiments[i] = row.Sentiment
		closes[i] = row.Close
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Mood  %s  (%d posts: +%d/-%d/=%d)\n",
		meanStyle.Render(fmt.Sprintf("%+.3f", d.mood.Mean)),
		d.mood.Posts, d.mood.Positive, d.mood.Negative, d.mood.Neutral))
	sb.WriteString(labelStyle.Render("sentiment ") + Sparkline(sentiments, width) + "\n")
	sb.WriteString(labelStyle.Render("close     ") + Sparkline(closes, width))
	return panelStyle.Render(sb.String())
}

func (m *AppModel) renderForecast(d symbolData) string {
	if d.run == nil {
		return ""
	}
	direction := upStyle.Render("UP")
	confidence := d.run.ProbUp
	if d.run.ProbDown > d.run.ProbUp {
		direction = downStyle.Render("DOWN")
		confidence = d.run.ProbDown
	}
	return panelStyle.Render(fmt.Sprintf(
		"Next day  %s %.0f%%\nP(up)=%.3f  P(down)=%.3f",
		direction, confidence*100, d.run.ProbUp, d.run.ProbDown))
}
