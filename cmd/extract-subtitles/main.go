package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/viant/afs"

	"github.com/Caia-Tech/caia-chat-corpus/internal/subtitles"
	"github.com/Caia-Tech/caia-chat-corpus/pkg/logging"
	"github.com/Caia-Tech/caia-chat-corpus/pkg/pipeline"
)

func main() {
	fmt.Println("🎬 OPENSUBTITLES EXTRACTOR")
	fmt.Println("==========================")

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

	logger := logging.GetPipelineLogger(uuid.New().String(), "extract")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sub := config.Subtitles
	extractor := subtitles.NewExtractor(afs.New(), subtitles.ExtractorConfig{
		Table:               sub.Table,
		UtterancesPerRecord: sub.UtterancesPerRecord,
	}, logger)

	stats, err := extractor.Extract(ctx, sub.DBPath, sub.OutputPath)
	if err != nil {
		logger.Fatal().Err(err).Str("db", sub.DBPath).Msg("Extraction failed")
	}

	fmt.Printf("🗂️  Archives: %d (%d failed)\n", stats.Archives, stats.Failed)
	fmt.Printf("📝 Lines: %d in %d subtitle files\n", stats.Lines, stats.Members)
	fmt.Printf("✅ Wrote %d records to %s\n", stats.Records, sub.OutputPath)
}
