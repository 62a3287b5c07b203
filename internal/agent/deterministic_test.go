package agent

import (
	"strings"
	"testing"
)

func TestDetermineResponse_PageNavigation(t *testing.T) {
	tests := []struct {
		query   string
		wantNav string
	}{
		{"Turn to Page 3", "3"},
		{"Turn to Page 8", "8"},
		{"go to slide 5", "5"},
		{"Navigate to page 10", "10"},
		{"show page 12", "12"},
		{"page 3", "3"},
		{"slide 13", "13"},
		{"turn to page twelve", "12"},
		{"slide eight", "8"},
	}
	for _, tt := range tests {
		resp := DetermineResponse(tt.query, "")
		if resp.NavigationTarget != tt.wantNav {
			t.Errorf("DetermineResponse(%q) nav = %q, want %q", tt.query, resp.NavigationTarget, tt.wantNav)
		}
		if !strings.Contains(resp.Text, "Turning to Page") {
			t.Errorf("DetermineResponse(%q) text = %q", tt.query, resp.Text)
		}
	}
}

func TestDetermineResponse_PageZeroOutOfRange(t *testing.T) {
	resp := DetermineResponse("go to page 0", "")
	if resp.NavigationTarget != "" {
		t.Errorf("page 0 should not navigate, got %q", resp.NavigationTarget)
	}
	if !strings.Contains(resp.Text, "out of range") {
		t.Errorf("text = %q", resp.Text)
	}
}

func TestDetermineResponse_NoFalsePositiveNavigation(t *testing.T) {
	// "on page 13" has no navigation verb; falls through to the slide
	// fallback instead of navigating.
	resp := DetermineResponse("what's the figure on page 13 about", "Evidence Locker")
	if resp.NavigationTarget != "" && resp.NavigationTarget == "13" {
		t.Errorf("bare page mention should not navigate, got %+v", resp)
	}
}

func TestDetermineResponse_KeywordNavigation(t *testing.T) {
	tests := []struct {
		query   string
		wantNav string
	}{
		{"show me the map", "AcquisitionMap"},
		{"explain the map", "AcquisitionMap"},
		{"open the map please", "AcquisitionMap"},
		{"where are we operating", "AcquisitionMap"},
		{"what's the roi on this", "12"},
		{"walk me through the financials", "8"},
		{"talk about revenue", "8"},
		{"show the timeline", "Through the Tunnels"},
		{"how has the company grown over the years", "Through the Tunnels"},
		{"what's our crew capacity", "Masters of the Main"},
		{"open the evidence locker", "Evidence Locker"},
		{"can you verify that source", "Evidence Locker"},
		{"what does the future hold", "The Evolution of Intelligence"},
		{"close the presentation", "The Road Ahead"},
		{"final slide please", "The Road Ahead"},
	}
	for _, tt := range tests {
		resp := DetermineResponse(tt.query, "")
		if resp.NavigationTarget != tt.wantNav {
			t.Errorf("DetermineResponse(%q) nav = %q, want %q", tt.query, resp.NavigationTarget, tt.wantNav)
		}
	}
}

func TestDetermineResponse_DataQueries(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"how much is the company worth", "$70M"},
		{"tell me about the sheridan deal", "Sheridan Plumbing"},
		{"what did the cloud migration save", "75% cloud cost savings"},
		{"is the work safe", "Covenant"},
	}
	for _, tt := range tests {
		resp := DetermineResponse(tt.query, "")
		if resp.NavigationTarget != "" {
			t.Errorf("data query %q should not navigate, got %q", tt.query, resp.NavigationTarget)
		}
		if !strings.Contains(resp.Text, tt.want) {
			t.Errorf("DetermineResponse(%q) = %q, want substring %q", tt.query, resp.Text, tt.want)
		}
	}
}

func TestDetermineResponse_SlideFallback(t *testing.T) {
	resp := DetermineResponse("interesting, please elaborate", "Clean Starts")
	if !strings.Contains(resp.Text, `Regarding the current slide "Clean Starts"`) {
		t.Errorf("slide fallback = %q", resp.Text)
	}
	if !IsDeterministicSpecific(resp) {
		t.Error("slide fallback should count as specific")
	}
}

func TestDetermineResponse_GenericFallback(t *testing.T) {
	resp := DetermineResponse("interesting, please elaborate", "")
	if resp.Text != GenericHelpText {
		t.Errorf("generic fallback = %q", resp.Text)
	}
	if IsDeterministicSpecific(resp) {
		t.Error("generic fallback should not count as specific")
	}
}

func TestIsDeterministicSpecific_NavigationAlwaysSpecific(t *testing.T) {
	if !IsDeterministicSpecific(Response{Text: GenericHelpText, NavigationTarget: "5"}) {
		t.Error("any navigation target should be specific")
	}
}
