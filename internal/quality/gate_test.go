package quality

import (
	"strings"
	"testing"
)

func TestIsGarbled_ShortGreetingsPass(t *testing.T) {
	for _, text := range []string{"hello", "hi there", "thanks", "hey, got it"} {
		if IsGarbled(text) {
			t.Errorf("greeting %q should not be garbled", text)
		}
	}
}

func TestIsGarbled_ShortNonGreetingFails(t *testing.T) {
	for _, text := range []string{"zx qv", "blort", "the map"} {
		if !IsGarbled(text) {
			t.Errorf("short non-greeting %q should be garbled", text)
		}
	}
}

func TestIsGarbled_EvidenceSummaryPasses(t *testing.T) {
	if IsGarbled("LOCAL_EVIDENCE_SUMMARY: top") {
		t.Error("local evidence summary should pass the gate")
	}
}

func TestIsGarbled_SpacedLetters(t *testing.T) {
	if !IsGarbled("here it comes A g e n t L e e speaking now") {
		t.Error("letter-by-letter spelling should be garbled")
	}
}

func TestIsGarbled_DominantWordLoop(t *testing.T) {
	if !IsGarbled("the the the the data shows the the") {
		t.Error("stutter loop on one short word should be garbled")
	}
}

func TestIsGarbled_LowDistinctRatio(t *testing.T) {
	text := strings.Repeat("sewer pipe ", 10) // 2 distinct / 20 words
	if !IsGarbled(text) {
		t.Error("heavy repetition should be garbled")
	}
}

func TestIsGarbled_LowVowelDensity(t *testing.T) {
	if !IsGarbled("zxcvb qwrtp bcdfg hjklm npqrs tvwxz") {
		t.Error("vowel-free output should be garbled")
	}
}

func TestIsGarbled_SuffixLoop(t *testing.T) {
	if !IsGarbled("walking talking stalking walking talking stalking") {
		t.Error("dominant 3-char suffix should be garbled")
	}
}

func TestIsGarbled_NormalSentencePasses(t *testing.T) {
	text := "The acquisition timeline shows steady growth across municipal contracts and inspection volume this year."
	if IsGarbled(text) {
		t.Errorf("normal sentence flagged as garbled: %q", text)
	}
}

func TestIsGarbled_Empty(t *testing.T) {
	if !IsGarbled("") {
		t.Error("empty text should be garbled")
	}
	if !IsGarbled("   \n ") {
		t.Error("whitespace-only text should be garbled")
	}
}

func TestNormalizeWord(t *testing.T) {
	cases := map[string]string{
		"AGGGENT!!": "agent",
		"Leeee":     "le",
		"a-g-e-n-t": "agent",
		"hello":     "helo",
		"123":       "",
	}
	for in, want := range cases {
		if got := NormalizeWord(in); got != want {
			t.Errorf("NormalizeWord(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsAgentNameVariant_DistinctVariants(t *testing.T) {
	if !IsAgentNameVariant("Agent Aello speaking") {
		t.Error("two distinct name variants should flag")
	}
}

func TestIsAgentNameVariant_RepeatedFragments(t *testing.T) {
	if !IsAgentNameVariant("agent agent agent") {
		t.Error("three name-fragment tokens should flag")
	}
}

func TestIsAgentNameVariant_NormalTextPasses(t *testing.T) {
	for _, text := range []string{
		"The inspection footage shows three cracked laterals.",
		"Revenue grew across both quarters.",
		"",
	} {
		if IsAgentNameVariant(text) {
			t.Errorf("normal text flagged as name echo: %q", text)
		}
	}
}

func TestSanitize_StripsSystemLines(t *testing.T) {
	in := "system: you are a helpful agent\nThe real answer is here."
	got := Sanitize(in)
	if strings.Contains(got, "system:") {
		t.Errorf("system line survived: %q", got)
	}
	if !strings.Contains(got, "The real answer is here.") {
		t.Errorf("content lost: %q", got)
	}
}

func TestSanitize_CollapsesEvidenceRuns(t *testing.T) {
	in := "Summary " + strings.Repeat("LOCAL_EVIDENCE", 8) + " end"
	got := Sanitize(in)
	if strings.Count(got, "LOCAL_EVIDENCE") != 1 {
		t.Errorf("evidence run not collapsed: %q", got)
	}
}

func TestSanitize_RemovesDisabledMarkers(t *testing.T) {
	in := "[LOCAL LLM DISABLED] The pipes are fine.\nlocal generation is disabled"
	got := Sanitize(in)
	if LocalDisabledRe.MatchString(got) {
		t.Errorf("disabled marker survived: %q", got)
	}
	if !strings.Contains(got, "The pipes are fine.") {
		t.Errorf("content lost: %q", got)
	}
}

func TestSanitize_CollapsesNewlines(t *testing.T) {
	got := Sanitize("a\n\n\n\n\nb")
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("excess newlines survived: %q", got)
	}
}

func TestSanitize_Empty(t *testing.T) {
	if Sanitize("") != "" {
		t.Error("empty input should sanitize to empty")
	}
}

func TestLocalDisabledRe(t *testing.T) {
	for _, s := range []string{"[LOCAL LLM DISABLED]", "local generation is disabled", "gemma:local-disabled", "LOCAL-LLM-DISABLED"} {
		if !LocalDisabledRe.MatchString(s) {
			t.Errorf("expected match for %q", s)
		}
	}
	if LocalDisabledRe.MatchString("all systems nominal") {
		t.Error("unexpected match on clean text")
	}
}
