package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Caia-Tech/caia-chat-corpus/internal/subtitles"
	"github.com/Caia-Tech/caia-chat-corpus/pkg/logging"
	"github.com/Caia-Tech/caia-chat-corpus/pkg/pipeline"
)

func main() {
	config, err := pipeline.ResolvePipelineConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid config: %v\n", err)
		os.Exit(1)
	}
	if err := logging.SetupLogger(config.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to setup logging: %v\n", err)
		os.Exit(1)
	}
	logger := logging.GetLogger("inspect-archive")

	inspector, err := subtitles.OpenInspector(config.Subtitles.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open archive store")
	}
	defer inspector.Close()

	ctx := context.Background()
	tables, err := inspector.Tables(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to list tables")
	}

	fmt.Printf("🗄️  %s\n", config.Subtitles.DBPath)
	for _, table := range tables {
		fmt.Printf("\n📋 Columns in '%s':\n", table)
		columns, err := inspector.Columns(ctx, table)
		if err != nil {
			logger.Error().Err(err).Str("table", table).Msg("Failed to read columns")
			continue
		}
		for _, c := range columns {
			fmt.Printf(" - %s (%s)\n", c.Name, c.Type)
		}

		sample, err := inspector.SampleRow(ctx, table)
		if err != nil {
			logger.Error().Err(err).Str("table", table).Msg("Failed to sample row")
			continue
		}
		if sample.Values == nil {
			fmt.Println("⚠️ No rows found")
			continue
		}
		fmt.Printf("🔍 Sample row (%d columns):\n", len(sample.Values))
		for i, v := range sample.Values {
			fmt.Printf("[%d] %s = %s\n", i, sample.Columns[i], v)
		}
	}
}
