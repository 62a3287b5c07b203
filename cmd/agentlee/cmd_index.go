package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var indexCmd = &cobra.Command{
	Use:   "index [paths...]",
	Short: "Index files or directories into the document store",
	Long: `Chunks and embeds the given files into the retrieval store. CSV files
are rendered row by row, source files are chunked by line window, and
everything else is chunked by word count.

With no arguments, re-bootstraps the deck narration and the core CSVs
from the configured corpus directory.`,
	RunE: runIndex,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every chunk from the document store",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		s, err := buildStack(ctx)
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.store.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("Document store cleared.")
		return nil
	},
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	s, err := buildStack(ctx)
	if err != nil {
		return err
	}
	defer s.close()

	if len(args) == 0 {
		if err := s.store.Bootstrap(ctx, s.story, s.cfg.Store.CorpusDir); err != nil {
			return err
		}
	} else {
		for _, path := range args {
			if err := indexPath(ctx, s, path); err != nil {
				return err
			}
		}
	}

	docs, err := s.store.DocumentCount(ctx)
	if err != nil {
		return err
	}
	chunks, err := s.store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Store now holds %d documents (%d chunks).\n", docs, chunks)
	return nil
}

// indexPath ingests a single file, or walks a directory ingesting every
// regular file inside it.
func indexPath(ctx context.Context, s *stack, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		logger.Debug("Indexing file", zap.String("path", path))
		return s.store.IngestFile(ctx, path)
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Debug("Indexing file", zap.String("path", p))
		return s.store.IngestFile(ctx, p)
	})
}
