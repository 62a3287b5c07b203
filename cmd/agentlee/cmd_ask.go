package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var askSlide string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask Agent Lee a single question",
	Long: `Runs one question through the full pipeline: deterministic engine,
evidence retrieval, then the local model ensemble. The store is
bootstrapped from the deck and core CSVs on first use.

Examples:
  agentlee ask "turn to page 8"
  agentlee ask --slide 6 "explain the chart"
  agentlee ask "how much is the company worth"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askSlide, "slide", "", "Current slide (number, ID, or title)")
}

func runAsk(cmd *cobra.Command, args []string) error {
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

	slide, err := resolveSlide(s.story, askSlide)
	if err != nil {
		return err
	}

	question := strings.Join(args, " ")
	logger.Info("Processing question", zap.String("question", question))

	resp := s.agent.SendMessage(ctx, question, slide)

	fmt.Println(resp.Text)
	if resp.NavigationTarget != "" {
		fmt.Printf("\n[navigate -> %s]\n", resp.NavigationTarget)
	}
	return nil
}

// ensureIndexed bootstraps the store from the deck and core CSVs when it
// is empty, so a fresh checkout answers evidence questions immediately.
func ensureIndexed(ctx context.Context, s *stack) error {
	count, err := s.store.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	logger.Info("Empty store; bootstrapping deck and core CSVs",
		zap.String("corpus", s.cfg.Store.CorpusDir))
	return s.store.Bootstrap(ctx, s.story, s.cfg.Store.CorpusDir)
}
