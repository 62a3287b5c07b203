// Package quality classifies generated text before it reaches the user or
// speech synthesis. Small local models degenerate in recognizable ways:
// letter-by-letter spelling, stutter loops on one word or suffix, and
// echoing the persona name instead of answering. Everything here is a pure
// function over the candidate text.
package quality

import (
	"regexp"
	"strings"
)

// =============================================================================
// PATTERNS
// =============================================================================

var (
	shortGreetingRe  = regexp.MustCompile(`(?i)^(hi|hello|hey|thanks?|thanks\s+for)`)
	spacedLettersRe  = regexp.MustCompile(`\b(?:[A-Za-z]\s+){5,}[A-Za-z]\b`)
	letterWordRe     = regexp.MustCompile(`^[A-Za-z]+$`)
	vowelRe          = regexp.MustCompile(`(?i)[aeiou]`)
	alphaRe          = regexp.MustCompile(`(?i)[a-z]`)
	nonAlphaRe = regexp.MustCompile(`[^a-z]`)

	systemLineRe    = regexp.MustCompile(`(?im)^system:.*$`)
	evidenceRunRe   = regexp.MustCompile(`(L?OCAL?_EVIDENCE[_A-Z]*){5,}`)
	disabledMarkRe  = regexp.MustCompile(`(?i)\[?LOCAL LLM DISABLED\]?`)
	disabledPhrase1 = regexp.MustCompile(`(?i)local generation is disabled`)
	disabledPhrase2 = regexp.MustCompile(`(?i)gemma:local-disabled`)
	excessNewlineRe = regexp.MustCompile(`\n{3,}`)
)

// LocalDisabledRe matches leaked disabled-state markers from the local hub.
// Callers treat a match like a gate rejection so the markers never reach
// narration.
var LocalDisabledRe = regexp.MustCompile(`(?i)\[?LOCAL LLM DISABLED\]?|local generation is disabled|gemma:local-disabled|LOCAL-LLM-DISABLED`)

// agentVariants are normalized tokens that read as a mangled persona name.
var agentVariants = map[string]bool{
	"agent": true, "agt": true, "agnt": true, "agentle": true,
	"ale": true, "aelo": true, "agelo": true, "agento": true, "agentl": true,
}

// =============================================================================
// GARBLED-TEXT DETECTION
// =============================================================================

// IsGarbled reports whether generated text looks like degenerate model
// output rather than an answer. Short greetings pass; evidence summaries
// from the local fallback pass; everything else runs the full battery of
// repetition and density checks.
func IsGarbled(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}

	words := strings.Fields(text)

	// Allow short greetings or confirmations ('hello', 'hi', 'thanks')
	if len(words) <= 3 && shortGreetingRe.MatchString(strings.TrimSpace(text)) {
		return false
	}
	if strings.HasPrefix(strings.TrimSpace(text), "LOCAL_EVIDENCE_SUMMARY:") {
		return false
	}
	if len(words) < 5 {
		return true
	}

	// Letter-by-letter spacing ("A g e n t")
	if spacedLettersRe.MatchString(text) {
		return true
	}

	var letterWords []string
	for _, w := range words {
		if letterWordRe.MatchString(w) {
			letterWords = append(letterWords, w)
		}
	}
	if len(letterWords) > 0 {
		singles := 0
		shortNoVowel := 0
		for _, w := range letterWords {
			if len(w) == 1 {
				singles++
			}
			if len(w) <= 2 && !vowelRe.MatchString(w) {
				shortNoVowel++
			}
		}
		if float64(singles)/float64(len(letterWords)) >= 0.6 {
			return true
		}
		if shortNoVowel >= 4 && float64(shortNoVowel)/float64(len(letterWords)) >= 0.5 {
			return true
		}
	}

	vowelCount := len(vowelRe.FindAllString(text, -1))
	alphaCount := len(alphaRe.FindAllString(text, -1))
	if alphaCount >= 12 && float64(vowelCount)/float64(alphaCount) < 0.2 {
		return true
	}

	unique := make(map[string]bool, len(words))
	for _, w := range words {
		unique[strings.ToLower(w)] = true
	}
	if float64(len(unique))/float64(len(words)) < 0.3 {
		return true
	}

	var normalized []string
	for _, w := range words {
		n := nonAlphaRe.ReplaceAllString(strings.ToLower(w), "")
		if n != "" {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) > 0 {
		freq := make(map[string]int)
		for _, w := range normalized {
			freq[w]++
		}
		mostWord, count := "", 0
		for w, c := range freq {
			if c > count {
				mostWord, count = w, c
			}
		}
		if count >= 3 && float64(count)/float64(len(normalized)) >= 0.4 && len(mostWord) <= 5 {
			return true
		}

		suffixCounts := make(map[string]int)
		for _, w := range normalized {
			suffix := w
			if len(w) > 3 {
				suffix = w[len(w)-3:]
			}
			suffixCounts[suffix]++
		}
		maxSuffix := 0
		for _, c := range suffixCounts {
			if c > maxSuffix {
				maxSuffix = c
			}
		}
		if maxSuffix >= 3 && float64(maxSuffix)/float64(len(normalized)) >= 0.5 {
			return true
		}
	}

	return false
}

// =============================================================================
// NAME-ECHO DETECTION
// =============================================================================

// NormalizeWord lowercases a word, strips non-letters, and compresses
// repeated letters, so "AGGGENT!!" and "agent" compare equal.
func NormalizeWord(word string) string {
	w := strings.ToLower(word)
	w = nonAlphaRe.ReplaceAllString(w, "")
	return compressRuns(w)
}

// compressRuns collapses runs of the same character to a single occurrence.
// This stands in for the backreference pattern `(.)\1+`, which Go's RE2
// regexp engine cannot compile.
func compressRuns(s string) string {
	var b strings.Builder
	var prev rune
	for i, r := range s {
		if i == 0 || r != prev {
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

// IsAgentNameVariant reports whether the text is mostly mangled variants of
// the persona name. Two or more distinct variants, or three or more tokens
// containing a name fragment, count as an echo.
func IsAgentNameVariant(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	var tokens []string
	for _, t := range strings.Fields(text) {
		if n := NormalizeWord(t); n != "" {
			tokens = append(tokens, n)
		}
	}
	if len(tokens) == 0 {
		return false
	}

	keyset := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		keyset[t] = true
	}

	matches := 0
	for tok := range keyset {
		if agentVariants[tok] || strings.Contains(tok, "agent") || strings.Contains(tok, "lee") || strings.Contains(tok, "aelo") {
			matches++
		}
	}
	if matches >= 2 {
		return true
	}

	agentTokenCount := 0
	for _, t := range tokens {
		if strings.Contains(t, "agent") || strings.Contains(t, "aelo") || strings.Contains(t, "agelo") || strings.Contains(t, "age") {
			agentTokenCount++
		}
	}
	return agentTokenCount >= 3
}

// =============================================================================
// SANITIZATION
// =============================================================================

// Sanitize strips echoed system-prompt lines, collapses pathological
// repeated evidence-token runs, removes leaked disabled-state markers, and
// collapses excess blank lines.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	t := text
	t = systemLineRe.ReplaceAllString(t, "")
	t = evidenceRunRe.ReplaceAllString(t, "LOCAL_EVIDENCE")
	t = disabledMarkRe.ReplaceAllString(t, "")
	t = disabledPhrase1.ReplaceAllString(t, "")
	t = disabledPhrase2.ReplaceAllString(t, "")
	t = excessNewlineRe.ReplaceAllString(t, "\n\n")

	return strings.TrimSpace(t)
}
