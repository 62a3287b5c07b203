package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show agent, hub, and store status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		s, err := buildStack(ctx)
		if err != nil {
			return err
		}
		defer s.close()

		printStatus(s)
		return nil
	},
}

func printStatus(s *stack) {
	status := s.agent.Status()
	fmt.Printf("Agent Lee %s\n", s.cfg.Version)
	fmt.Printf("  mode:        %s\n", s.cfg.Agent.Mode)
	fmt.Printf("  initialized: %t\n", status.Initialized)
	fmt.Printf("  online:      %t\n", status.Online)
	if status.LastError != "" {
		fmt.Printf("  last error:  %s\n", status.LastError)
	}

	ctx := context.Background()
	docs, err := s.store.DocumentCount(ctx)
	chunks, cerr := s.store.Count(ctx)
	if err == nil && cerr == nil {
		fmt.Printf("\nStore (%s)\n", s.cfg.Store.DatabasePath)
		fmt.Printf("  documents: %d\n", docs)
		fmt.Printf("  chunks:    %d\n", chunks)
	}

	fmt.Println("\nModel slots")
	for _, slot := range s.hub.StatusSnapshot() {
		state := "idle"
		switch {
		case slot.Loading:
			state = fmt.Sprintf("loading (%.0f%%)", slot.Progress*100)
		case slot.Ready:
			state = "ready (" + slot.ModelID + ")"
		case slot.Error != "":
			state = "error: " + slot.Error
		}
		fmt.Printf("  %-14s %s\n", slot.Label, state)
	}

	if diag := s.agent.LastDiagnostic(); diag != nil {
		fmt.Println("\nLast call")
		fmt.Printf("  success:  %t\n", diag.Success)
		fmt.Printf("  duration: %dms\n", diag.DurationMs)
		if diag.Error != "" {
			fmt.Printf("  error:    %s\n", diag.Error)
		}
	}
	fmt.Println()
}
