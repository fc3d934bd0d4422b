package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"

	"github.com/Caia-Tech/caia-chat-corpus/internal/corpus"
	"github.com/Caia-Tech/caia-chat-corpus/internal/source"
	"github.com/Caia-Tech/caia-chat-corpus/internal/storage"
	"github.com/Caia-Tech/caia-chat-corpus/pkg/logging"
	"github.com/Caia-Tech/caia-chat-corpus/pkg/pipeline"
)

func main() {
	fmt.Println("💬 HUMAN CHAT CORPUS BUILDER")
	fmt.Println("============================")

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

	runID := uuid.New().String()
	logger := logging.GetPipelineLogger(runID, "build")
	logger.Info().Int("sources", len(config.Sources)).Msg("Starting corpus build")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	seed := config.Dialogue.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	prompts, err := config.Dialogue.PromptSet()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid prompt set")
	}

	fs := afs.New()
	aggregator, err := corpus.NewAggregator(source.NewAdapterWithFS(fs), corpus.AggregatorConfig{
		Prompts:   prompts,
		Pickers:   corpus.SeededPickers(seed),
		MinLength: config.Dialogue.MinLength,
		Dedup:     config.Corpus.Dedup,
		Workers:   config.Corpus.Workers,
	}, logging.GetPipelineLogger(runID, "merge"))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create aggregator")
	}

	merged, report, err := aggregator.Merge(ctx, config.Sources)
	if err != nil {
		logger.Fatal().Err(err).Msg("Merge failed")
	}
	report.RunID = runID

	// The shuffle stream is derived from the same seed as the prompt pickers.
	shuffler := rand.New(rand.NewPCG(seed, uint64(len(config.Sources))))
	finalizer, err := corpus.NewFinalizer(fs, shuffler, config.Output.Separator, logging.GetPipelineLogger(runID, "finalize"))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create finalizer")
	}

	out, err := finalizer.Finalize(ctx, merged, config.Output.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to write corpus")
	}
	report.OutputPath = out.Path
	report.OutputBytes = out.Bytes

	if config.Publish != nil && config.Publish.Enabled {
		publish(ctx, config.Publish, runID, out)
	}

	fmt.Println()
	fmt.Print(report.Summary())
}

func publish(ctx context.Context, config *pipeline.PublishConfig, runID string, out *corpus.Output) {
	logger := logging.GetStorageLogger("publish", "git")

	publisher, err := storage.NewGitPublisher(storage.GitConfig{
		RepoPath:    config.RepoPath,
		FileName:    config.FileName,
		AuthorName:  config.AuthorName,
		AuthorEmail: config.AuthorEmail,
	}, storage.NewSimpleMetricsCollector(logger), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open dataset repository")
	}

	hash, err := publisher.Publish(ctx, storage.PublishRequest{
		CorpusPath:    out.Path,
		Conversations: out.Conversations,
		RunID:         runID,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to publish corpus")
	}
	fmt.Printf("📦 Published to %s (commit %s)\n", config.RepoPath, hash[:min(len(hash), 12)])
}
