// Copyright 2025 Corvid Labs
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
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/corvid-labs/magpie"
	"github.com/corvid-labs/magpie/ai"
	"github.com/corvid-labs/magpie/ingestion"
	"github.com/corvid-labs/magpie/vectorstore"
	"github.com/corvid-labs/magpie/vectorstore/pgvector"
)

func main() {
	app := &cli.App{
		Name:   "magpie",
		Usage:  "Ingest text from external sources into a vector index and search it",
		Before: setup,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "embedding-host",
				Usage:   "Embedding service host URL",
				Value:   "http://localhost:11434/v1",
				EnvVars: []string{"MAGPIE_EMBEDDING_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				Value:   "embeddinggemma",
				EnvVars: []string{"MAGPIE_EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Embedding service API key",
				EnvVars: []string{"MAGPIE_API_KEY"},
			},
			&cli.IntFlag{
				Name:    "dimension",
				Usage:   "Embedding dimension, must match the index",
				Value:   768,
				EnvVars: []string{"MAGPIE_DIMENSION"},
			},
			&cli.StringFlag{
				Name:    "pg-dsn",
				Usage:   "Postgres DSN for the pgvector index (in-memory index when unset)",
				EnvVars: []string{"MAGPIE_PG_DSN"},
			},
			&cli.StringFlag{
				Name:    "dedup-path",
				Usage:   "Directory for the persistent content-hash index (disabled when unset)",
				EnvVars: []string{"MAGPIE_DEDUP_PATH"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "integrate",
				Usage:  "Ingest content items into the vector index",
				Action: integrateCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "items",
						Usage: "JSON file with an array of {title, source, type, content} items",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Directory of .md/.txt files to ingest",
					},
					&cli.StringFlag{
						Name:  "integration",
						Usage: "Integration tag stored with the records",
						Value: "file",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Embedding worker pool size (0 = number of CPUs / 2)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the vector index",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
					&cli.StringFlag{
						Name:  "integration",
						Usage: "Restrict results to one integration tag",
					},
				},
			},
			{
				Name:   "health",
				Usage:  "Probe the vector index and report whether it answers",
				Action: healthCommand,
			},
			{
				Name:   "stats",
				Usage:  "Print vector index statistics",
				Action: statsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup loads .env and configures the logger. A missing .env file is fine.
func setup(c *cli.Context) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return setupLogger(c)
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

// buildStack assembles the pipeline stack from the global flags.
func buildStack(ctx context.Context, c *cli.Context) (*magpie.Stack, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
		ai.WithAPIKey(c.String("api-key")),
		ai.WithDimension(c.Int("dimension")),
	)

	opts := []magpie.StackOption{magpie.WithAIConfig(aiConfig)}

	if dsn := c.String("pg-dsn"); dsn != "" {
		store, err := pgvector.Open(dsn, c.Int("dimension"))
		if err != nil {
			return nil, fmt.Errorf("opening pgvector store: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("preparing pgvector schema: %w", err)
		}
		opts = append(opts, magpie.WithIndex(store))
	} else {
		slog.Warn("no pg-dsn configured, using an in-memory index that is discarded on exit")
	}

	if path := c.String("dedup-path"); path != "" {
		opts = append(opts, magpie.WithDedupPath(path))
	}

	return magpie.NewStack(opts...)
}

func integrateCommand(c *cli.Context) error {
	itemsPath := c.String("items")
	dir := c.String("dir")
	if itemsPath == "" && dir == "" {
		return fmt.Errorf("either --items or --dir is required")
	}
	if itemsPath != "" && dir != "" {
		return fmt.Errorf("--items and --dir are mutually exclusive")
	}

	ctx := context.Background()
	stack, err := buildStack(ctx, c)
	if err != nil {
		return err
	}
	defer stack.Close()

	integrator, err := stack.NewIntegrator(poolOptions(c)...)
	if err != nil {
		return err
	}
	defer integrator.Release()

	conn := &fileConnector{
		name:      c.String("integration"),
		itemsPath: itemsPath,
		dir:       dir,
	}

	result := integrator.IntegrateSource(ctx, conn)
	if err := printJSON(result); err != nil {
		return err
	}
	if result.Err != nil {
		return fmt.Errorf("integration failed: %w", result.Err)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a query argument is required")
	}

	ctx := context.Background()
	stack, err := buildStack(ctx, c)
	if err != nil {
		return err
	}
	defer stack.Close()

	searcher, err := stack.NewSearcher()
	if err != nil {
		return err
	}

	var filter vectorstore.Filter
	if integration := c.String("integration"); integration != "" {
		filter = vectorstore.Filter{"integration": integration}
	}

	matches, err := searcher.FindSimilar(ctx, query, c.Int("top-k"), filter)
	if err != nil {
		return err
	}
	return printJSON(matches)
}

func healthCommand(c *cli.Context) error {
	ctx := context.Background()
	stack, err := buildStack(ctx, c)
	if err != nil {
		return err
	}
	defer stack.Close()

	healthy := stack.Gateway().CheckHealth(ctx)
	if err := printJSON(map[string]bool{"healthy": healthy}); err != nil {
		return err
	}
	if !healthy {
		return fmt.Errorf("vector index is unhealthy")
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()
	stack, err := buildStack(ctx, c)
	if err != nil {
		return err
	}
	defer stack.Close()

	stats := stack.Gateway().GetStats(ctx)
	if stats == nil {
		return fmt.Errorf("index statistics are unavailable")
	}
	return printJSON(stats)
}

func poolOptions(c *cli.Context) []ingestion.Option {
	if size := c.Int("pool-size"); size > 0 {
		return []ingestion.Option{ingestion.WithPoolSize(size)}
	}
	return nil
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
