package domain

import "testing"

func TestSubredditsFor(t *testing.T) {
	subs := SubredditsFor("TSLA")
	if len(subs) != 4 {
		t.Fatalf("expected 2 specific + 2 default subreddits, got %d: %v", len(subs), subs)
	}
	if subs[0] != "teslamotors" {
		t.Errorf("expected symbol-specific subreddits first, got %v", subs)
	}
	if subs[len(subs)-1] != "wallstreetbets" {
		t.Errorf("expected defaults appended last, got %v", subs)
	}
}

func TestSubredditsForUnknownSymbol(t *testing.T) {
	subs := SubredditsFor("ZZZZ")
	if len(subs) != len(DefaultSubreddits) {
		t.Fatalf("expected only default subreddits for unknown symbol, got %v", subs)
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("AAPL") {
		t.Error("expected AAPL to be supported")
	}
	if IsSupported("DOGE") {
		t.Error("did not expect DOGE to be supported")
	}
}
