package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mood-swing/internal/domain"

	tea "github.com/charmbracelet/bubbletea"
)

type stubPipeline struct {
	mood *domain.MoodSummary
	rows []domain.FusedRow
	run  *domain.PredictionRun
	runs []domain.PredictionRun
	err  error
}

func (s *stubPipeline) Mood(ctx context.Context, symbol string) (*domain.MoodSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.mood, nil
}

func (s *stubPipeline) FusedSeries(ctx context.Context, symbol string) ([]domain.FusedRow, error) {
	return s.rows, s.err
}

func (s *stubPipeline) Predict(ctx context.Context, symbol string) (*domain.PredictionRun, error) {
	return s.run, s.err
}

func (s *stubPipeline) RecentRuns(ctx context.Context, symbol string, limit int) ([]domain.PredictionRun, error) {
	return s.runs, s.err
}

func testData() symbolData {
	return symbolData{
		mood: &domain.MoodSummary{Symbol: "TSLA", Mean: 0.2, Posts: 10, Positive: 6, Negative: 2, Neutral: 2},
		rows: []domain.FusedRow{
			{Close: 100, Sentiment: 0.1},
			{Close: 101, Sentiment: 0.3},
		},
		run: &domain.PredictionRun{Symbol: "TSLA", RunAt: time.Now(), ProbUp: 0.62, ProbDown: 0.38},
	}
}

func TestAppModelShowsLoadingThenData(t *testing.T) {
	m := NewAppModel(Services{Pipeline: &stubPipeline{}})
	m.SetSize(80, 24)

	if !strings.Contains(m.View(), "fetching TSLA") {
		t.Fatalf("expected loading view, got %q", m.View())
	}

	updated, _ := m.Update(dataMsg{symbol: "TSLA", data: testData()})
	view := updated.View()
	if !strings.Contains(view, "Mood") {
		t.Fatalf("expected mood panel, got %q", view)
	}
	if !strings.Contains(view, "P(up)=0.620") {
		t.Fatalf("expected forecast, got %q", view)
	}
}

func TestAppModelErrorView(t *testing.T) {
	m := NewAppModel(Services{Pipeline: &stubPipeline{}})
	m.SetSize(80, 24)

	updated, _ := m.Update(dataMsg{symbol: "TSLA", data: symbolData{err: errors.New("reddit down")}})
	view := updated.View()
	if !strings.Contains(view, "reddit down") || !strings.Contains(view, "press r to retry") {
		t.Fatalf("expected error view, got %q", view)
	}
}

func TestAppModelTabSwitchesSymbol(t *testing.T) {
	m := NewAppModel(Services{Pipeline: &stubPipeline{}})

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	app := updated.(*AppModel)
	if app.symbol() != domain.SupportedSymbols[1] {
		t.Fatalf("expected second symbol, got %s", app.symbol())
	}
	if cmd == nil {
		t.Fatal("expected a fetch command for the unloaded symbol")
	}
}

func TestAppModelQuit(t *testing.T) {
	m := NewAppModel(Services{Pipeline: &stubPipeline{}})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Fatalf("expected quit msg, got %T", msg)
	}
}

func TestAppModelNoteMsg(t *testing.T) {
	m := NewAppModel(Services{Pipeline: &stubPipeline{}})
	m.Update(dataMsg{symbol: "TSLA", data: testData()})
	updated, _ := m.Update(noteMsg{symbol: "TSLA", note: "chatter leans positive"})
	if !strings.Contains(updated.View(), "chatter leans positive") {
		t.Fatal("expected analyst note in view")
	}
}
