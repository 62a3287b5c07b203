package agent

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// =============================================================================
// DETERMINISTIC ENGINE - FAST, STABLE, NAVIGATION-AWARE FRONT LAYER
// =============================================================================

// GenericHelpText is the non-specific fallback. A deterministic result
// equal to this (with no navigation target) hands off to the ensemble.
const GenericHelpText = "I’m Agent Lee. Let’s walk the story at your pace. We can stay on this slide or move when you’re ready."

var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19, "twenty": 20,
}

// Navigation needs explicit verbs to avoid false positives like
// "explain the page" or "on page 13". Standalone "page 8" still counts.
var (
	pageDigitRe      = regexp.MustCompile(`(?i)\b(?:turn\s+to|go\s+to|navigate\s+to|show|open|display)\s+(?:page|slide)\s+(\d+)`)
	pageDigitBareRe  = regexp.MustCompile(`(?i)^(?:page|slide)\s+(\d+)$`)
	pageWordRe       = regexp.MustCompile(`(?i)\b(?:turn\s+to|go\s+to|navigate\s+to|show|open|display)\s+(?:page|slide)\s+(one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|thirteen)`)
	pageWordBareRe   = regexp.MustCompile(`(?i)^(?:page|slide)\s+(one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve|thirteen)$`)
	showAcquisitionRe = regexp.MustCompile(`(?i)\b(show|display|open)\s+(the\s+)?acquisition`)
	whereAreWeRe      = regexp.MustCompile(`(?i)\bwhere\s+(are|is)\s+(we|the|your)\b`)
	evidenceLockerRe  = regexp.MustCompile(`(?i)\bevidence\s+locker\b`)
	showSourcesRe     = regexp.MustCompile(`(?i)\b(show|open|display)\s+(the\s+)?sources?\b`)
	closeDeckRe       = regexp.MustCompile(`(?i)\b(close|end|finish|wrap up)\s+(the\s+)?(presentation|deck|slides?)\b`)
	closingSlideRe    = regexp.MustCompile(`(?i)\b(closing|final)\s+slide\b`)
)

// DetermineResponse analyzes the input and returns the best matching
// scripted response. slideContext is typically the current slide's title.
func DetermineResponse(query, slideContext string) Response {
	q := strings.ToLower(query)

	// --- 0. Direct page navigation (highest priority) ---
	if m := firstMatch(q, pageDigitRe, pageDigitBareRe); m != "" {
		pageNum, _ := strconv.Atoi(m)
		if pageNum >= 1 {
			return Response{
				Text:             fmt.Sprintf("Certainly. Turning to Page %d.", pageNum),
				NavigationTarget: strconv.Itoa(pageNum),
			}
		}
		return Response{Text: fmt.Sprintf("I cannot turn to page %d as that page is out of range for this presentation.", pageNum)}
	}
	if m := firstMatch(q, pageWordRe, pageWordBareRe); m != "" {
		if n := wordNumbers[m]; n >= 1 {
			return Response{
				Text:             fmt.Sprintf("Certainly. Turning to Page %d.", n),
				NavigationTarget: strconv.Itoa(n),
			}
		}
	}

	// --- 1. Keyword navigation commands ---
	if (strings.Contains(q, "map") && (strings.Contains(q, "show") || strings.Contains(q, "explain") || strings.Contains(q, "open") || strings.Contains(q, "acquisition"))) ||
		showAcquisitionRe.MatchString(q) ||
		whereAreWeRe.MatchString(q) {
		return Response{
			Text:             "Navigating to the National Platform Map. As you can see, we have expanded well beyond the Midwest into the Mid-Atlantic region with strategic hubs in Pennsylvania and New Jersey.",
			NavigationTarget: "AcquisitionMap",
		}
	}
	if strings.Contains(q, "roi") || strings.Contains(q, "return on investment") {
		return Response{
			Text:             "Navigating to the Evidence Locker to review ROI charts and case studies.",
			NavigationTarget: "12",
		}
	}
	if strings.Contains(q, "money") || strings.Contains(q, "financial") || strings.Contains(q, "revenue") || strings.Contains(q, "ebitda") {
		return Response{
			Text:             "Moving to the Financial Bridge. We are tracking from a $37M base towards a $70M target, driven by organic growth, tech uplift, and M&A.",
			NavigationTarget: "8",
		}
	}
	if strings.Contains(q, "timeline") || strings.Contains(q, "history") || strings.Contains(q, "growth") || strings.Contains(q, "years") {
		return Response{
			Text:             "Visualizing our 50-year trajectory. Notice the exponential curve starting in 2020 as we integrated AI and strategic capital.",
			NavigationTarget: "Through the Tunnels",
		}
	}
	if strings.Contains(q, "velocity") || strings.Contains(q, "crew") || strings.Contains(q, "capacity") {
		return Response{
			Text:             "Displaying our Operational Velocity. This chart projects our crew capacity growing through 2050 to meet national demand.",
			NavigationTarget: "Masters of the Main",
		}
	}
	if evidenceLockerRe.MatchString(q) ||
		(strings.Contains(q, "show") && strings.Contains(q, "evidence")) ||
		(strings.Contains(q, "open") && strings.Contains(q, "evidence")) ||
		(strings.Contains(q, "verify") && strings.Contains(q, "source")) ||
		showSourcesRe.MatchString(q) {
		return Response{
			Text:             "Opening the Evidence Locker. Here you can verify every claim, download case studies, and review our acquisition announcements.",
			NavigationTarget: "Evidence Locker",
		}
	}
	if strings.Contains(q, "future") || strings.Contains(q, "evolution") ||
		(strings.Contains(q, "ai") && strings.Contains(q, "intelligence")) {
		return Response{
			Text:             "Revealing the Evolution of Intelligence. We are transitioning from a service provider to a predictive platform.",
			NavigationTarget: "The Evolution of Intelligence",
		}
	}
	if closeDeckRe.MatchString(q) || closingSlideRe.MatchString(q) ||
		(strings.Contains(q, "thank") && (strings.Contains(q, "closing") || strings.Contains(q, "final"))) {
		return Response{
			Text:             "Initiating closing sequence. Thank you for your partnership. We are ready to execute.",
			NavigationTarget: "The Road Ahead",
		}
	}

	// --- 2. Data queries (context aware) ---
	if strings.Contains(q, "how much") || strings.Contains(q, "target") || strings.Contains(q, "worth") {
		return Response{Text: "Our financial roadmap targets $70M in near-term revenue, building on our current $37M base operations with an additional $25M from strategic M&A."}
	}
	if strings.Contains(q, "mor") || strings.Contains(q, "sheridan") || strings.Contains(q, "buy") {
		return Response{Text: "We successfully acquired MOR Construction to anchor our Mid-Atlantic operations and Sheridan Plumbing to deepen our Chicago footprint. Both are fully integrated."}
	}
	if strings.Contains(q, "cloud") || strings.Contains(q, "save") || strings.Contains(q, "cost") {
		return Response{Text: "According to our verified case studies, AI-enabled workflows have delivered 75% cloud cost savings and reduced inspection review times by over 70%."}
	}
	if strings.Contains(q, "safe") || strings.Contains(q, "risk") || strings.Contains(q, "covenant") {
		return Response{Text: "Safety is paramount. Our 'Covenant' ensures we treat every line as if it were under our own home. We use cross-bore safety audits and predictive modeling to minimize risk."}
	}

	// --- 3. General fallback ---
	if slideContext != "" {
		return Response{Text: fmt.Sprintf("Regarding the current slide %q: We are focused on maximizing asset value through trenchless innovation and verifiable data. I can provide specific figures if you ask about costs, capacity, or growth.", slideContext)}
	}
	return Response{Text: GenericHelpText}
}

// IsDeterministicSpecific reports whether the scripted response is
// specific enough to use without involving the ensemble.
func IsDeterministicSpecific(resp Response) bool {
	if resp.NavigationTarget != "" {
		return true
	}
	return strings.TrimSpace(resp.Text) != GenericHelpText
}

func firstMatch(q string, res ...*regexp.Regexp) string {
	for _, re := range res {
		if m := re.FindStringSubmatch(q); m != nil {
			return m[1]
		}
	}
	return ""
}
