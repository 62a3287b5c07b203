package main

import (
	"fmt"
	"time"

	"agentlee/internal/agent"
	"agentlee/internal/deck"

	"github.com/spf13/cobra"
)

var (
	autopilotFrom  int
	autopilotDelay time.Duration
)

var autopilotCmd = &cobra.Command{
	Use:   "autopilot",
	Short: "Narrate the deck slide by slide",
	Long: `Walks the deck from the given slide to the end, printing a narration
for each slide and pausing between them. Narration is built from the
deck's own scripted blocks and styled through the voice slot when a
model backend is reachable, so the walk works fully offline.`,
	RunE: runAutopilot,
}

func init() {
	autopilotCmd.Flags().IntVar(&autopilotFrom, "from", 1, "Slide number to start from (1-based)")
	autopilotCmd.Flags().DurationVar(&autopilotDelay, "delay", 0, "Pause between slides (default from config)")
}

func runAutopilot(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	s, err := buildStack(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	ap := agent.NewAutopilot(s.agent, autopilotDelay)
	return ap.Run(ctx, autopilotFrom, func(slide *deck.Slide, narration string) bool {
		fmt.Printf("--- Slide %d: %s ---\n%s\n\n", s.story.SlideNumber(slide), slide.Title, narration)
		return true
	})
}
