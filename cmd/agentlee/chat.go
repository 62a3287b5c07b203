package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"agentlee/internal/deck"
	"agentlee/internal/hub"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive chat loop with Agent Lee",
	Long: `Starts a line-based chat session. Navigation targets returned by the
agent move the session's current slide, so "turn to page 8" changes
which slide subsequent questions are grounded on.

Session commands:
  /slide [n|id]   jump to a slide without asking a question
  /status         show slot and store status
  /quit           exit`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	s, err := buildStack(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	if err := ensureIndexed(ctx, s); err != nil {
		return err
	}

	// Warm the generation slots in the background so the first question
	// does not pay the full model spin-up cost.
	go s.hub.WarmUp(ctx, hub.GenerationSlots...)

	current := s.story.SlideByNumber(1)
	fmt.Printf("Agent Lee ready. Deck: %d slides. Current: %q. Type /quit to exit.\n\n",
		len(s.story.Slides), current.Title)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			done, next := handleChatCommand(s, line, current)
			if done {
				break
			}
			if next != nil {
				current = next
				fmt.Printf("Now on %q.\n\n", current.Title)
			}
			continue
		}

		resp := s.agent.SendMessage(ctx, line, current)
		fmt.Printf("\n%s\n\n", resp.Text)

		if resp.NavigationTarget != "" {
			if next := resolveNavigation(s.story, resp.NavigationTarget); next != nil {
				current = next
				fmt.Printf("[moved to %q]\n\n", current.Title)
			}
		}

		if ctx.Err() != nil {
			break
		}
	}
	return scanner.Err()
}

// handleChatCommand processes a /command line. Returns done=true to end
// the session, and a slide when the current slide should change.
func handleChatCommand(s *stack, line string, current *deck.Slide) (done bool, next *deck.Slide) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil
	case "/slide":
		if len(fields) < 2 {
			fmt.Printf("Current: %q (slide %d).\n\n", current.Title, s.story.SlideNumber(current))
			return false, nil
		}
		slide, err := resolveSlide(s.story, fields[1])
		if err != nil {
			fmt.Printf("%v\n\n", err)
			return false, nil
		}
		return false, slide
	case "/status":
		printStatus(s)
		return false, nil
	default:
		fmt.Printf("Unknown command %q. Try /slide, /status, or /quit.\n\n", fields[0])
		return false, nil
	}
}

// resolveNavigation maps a navigation target from the agent (number,
// title, or chart alias) to a slide. Unresolvable targets, like the
// acquisition map overlay, are surfaced but do not move the deck.
func resolveNavigation(story *deck.Story, target string) *deck.Slide {
	if slide, err := resolveSlide(story, target); err == nil && slide != nil {
		return slide
	}
	fmt.Printf("[navigate -> %s]\n\n", target)
	return nil
}
