// Copyright 2025 Scribeworks
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scribeworks/paperdex"
	"github.com/scribeworks/paperdex/config"
	"github.com/scribeworks/paperdex/ingestion"
	"github.com/scribeworks/paperdex/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "paperdex",
		Usage: "Index documents and search them by relevance",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "paperdex.yaml",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides config)",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Chunk and index one or more document files",
				ArgsUsage: "<file> [<file>...]",
				Action:    ingestCommand,
			},
			{
				Name:      "search",
				Usage:     "Search indexed documents",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results to return",
						Value:   10,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show index statistics",
				Action: statsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openEngine(c *cli.Context) (*paperdex.Engine, *config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if dbPath := c.String("db"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	opts := []paperdex.EngineOption{
		paperdex.WithChunking(cfg.Chunking.Size, cfg.Chunking.Overlap),
		paperdex.WithOperationTimeout(time.Duration(cfg.Ingest.TimeoutSecs) * time.Second),
		paperdex.WithSearchOptions(
			search.WithMaxLimit(cfg.Search.MaxLimit),
			search.WithBoosts(cfg.Search.PhraseBoost, cfg.Search.ContentBoost, cfg.Search.FilenameBoost),
			search.WithHighlighting(cfg.Search.FragmentSize, cfg.Search.MaxFragments),
		),
	}
	if cfg.Ingest.PoolSize > 0 {
		opts = append(opts, paperdex.WithPoolSize(cfg.Ingest.PoolSize))
	}

	engine, err := paperdex.NewEngine(cfg.DBPath, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return engine, cfg, nil
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	engine, cfg, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	files := make([]ingestion.File, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, ingestion.File{
			Name: filepath.Base(path),
			Data: data,
		})
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.DBPath)
	fmt.Fprintf(os.Stderr, "Files: %d\n\n", len(files))

	results := engine.IngestAll(context.Background(), files)

	failures := 0
	for _, fr := range results {
		switch {
		case fr.Err != nil:
			failures++
			fmt.Printf("FAILED     %s: %v\n", fr.Filename, fr.Err)
		case fr.Result.Outcome == ingestion.Duplicate:
			fmt.Printf("DUPLICATE  %s\n", fr.Filename)
		default:
			fmt.Printf("INDEXED    %s (%d chunks)\n", fr.Filename, fr.Result.Document.ChunkCount)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(files))
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a query is required")
	}
	query := strings.Join(c.Args().Slice(), " ")

	engine, _, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	results, err := engine.Search(context.Background(), query, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, res := range results {
		fmt.Printf("%d. %s (chunk %d, score %.4f)\n", i+1, res.Record.Filename, res.Record.Seq, res.Score)
		for _, frag := range res.Fragments {
			fmt.Printf("   ... %s ...\n", frag)
		}
		fmt.Println()
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	engine, cfg, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	stats, err := engine.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read statistics: %w", err)
	}

	fmt.Printf("Database:   %s\n", cfg.DBPath)
	fmt.Printf("Documents:  %d\n", stats.TotalDocuments)
	fmt.Printf("Chunks:     %d\n", stats.TotalChunks)
	fmt.Printf("Index size: %d bytes\n", stats.IndexSizeBytes)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
