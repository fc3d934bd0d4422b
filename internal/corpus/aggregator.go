package corpus

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Caia-Tech/caia-chat-corpus/internal/dialogue"
	"github.com/Caia-Tech/caia-chat-corpus/internal/source"
)

// cancelCheckEvery is how many records pass between context checks.
const cancelCheckEvery = 10000

// Opener resolves a source descriptor into records
type Opener interface {
	Open(ctx context.Context, desc source.Descriptor) (source.RecordReader, error)
}

// PickerFactory returns the prompt picker used for the source at index i
type PickerFactory func(i int) dialogue.Picker

// SeededPickers derives one independent generator per source from seed, so a
// run is reproducible whether sources are converted sequentially or in parallel.
func SeededPickers(seed uint64) PickerFactory {
	return func(i int) dialogue.Picker {
		return rand.New(rand.NewPCG(seed, uint64(i)))
	}
}

// AggregatorConfig configures a merge
type AggregatorConfig struct {
	Prompts   dialogue.PromptSet
	Pickers   PickerFactory
	MinLength int
	Dedup     DedupMode
	// Workers > 1 converts sources concurrently. Merging still happens in
	// source order on one goroutine, so first-seen-wins is unchanged.
	Workers int
}

// Aggregator merges sources into a corpus
type Aggregator struct {
	opener Opener
	config AggregatorConfig
	logger zerolog.Logger
}

// NewAggregator creates an aggregator
func NewAggregator(opener Opener, config AggregatorConfig, logger zerolog.Logger) (*Aggregator, error) {
	if opener == nil {
		return nil, errors.New("aggregator requires a source opener")
	}
	if config.Prompts.Len() == 0 {
		return nil, dialogue.ErrEmptyPromptSet
	}
	if config.Pickers == nil {
		config.Pickers = SeededPickers(uint64(time.Now().UnixNano()))
	}
	if config.MinLength <= 0 {
		config.MinLength = dialogue.DefaultMinLength
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if _, err := NewSeenSet(config.Dedup); err != nil {
		return nil, err
	}
	return &Aggregator{opener: opener, config: config, logger: logger}, nil
}

// Merge reads every source in order and returns the deduplicated corpus.
// Missing sources and unsupported shapes are skipped and reported; any other
// read failure aborts the merge.
func (a *Aggregator) Merge(ctx context.Context, sources []source.Descriptor) (*Corpus, *Report, error) {
	seen, err := NewSeenSet(a.config.Dedup)
	if err != nil {
		return nil, nil, err
	}
	corpus := New(seen)
	report := &Report{Sources: make([]SourceStats, 0, len(sources))}

	if a.config.Workers > 1 && len(sources) > 1 {
		err = a.mergeParallel(ctx, sources, corpus, report)
	} else {
		err = a.mergeSequential(ctx, sources, corpus, report)
	}
	if err != nil {
		return nil, nil, err
	}

	report.Conversations = corpus.Len()
	return corpus, report, nil
}

func (a *Aggregator) mergeSequential(ctx context.Context, sources []source.Descriptor, corpus *Corpus, report *Report) error {
	for i, desc := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}

		a.logger.Info().Str("source", desc.Name).Str("path", desc.Path).Msg("Loading source")

		stats := SourceStats{Name: desc.Name, Path: desc.Path}
		err := a.scan(ctx, i, desc, &stats, func(text string) {
			if corpus.Add(text) {
				stats.Accepted++
			} else {
				stats.Duplicates++
			}
		})
		if err != nil {
			return err
		}
		a.finishSource(report, stats)
	}
	return nil
}

type sourceBatch struct {
	stats      SourceStats
	candidates []string
}

func (a *Aggregator) mergeParallel(ctx context.Context, sources []source.Descriptor, corpus *Corpus, report *Report) error {
	batches := make([]sourceBatch, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Workers)
	for i, desc := range sources {
		g.Go(func() error {
			batch := &batches[i]
			batch.stats = SourceStats{Name: desc.Name, Path: desc.Path}
			return a.scan(gctx, i, desc, &batch.stats, func(text string) {
				batch.candidates = append(batch.candidates, text)
			})
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Single writer, source order then record order.
	for _, batch := range batches {
		stats := batch.stats
		for _, text := range batch.candidates {
			if corpus.Add(text) {
				stats.Accepted++
			} else {
				stats.Duplicates++
			}
		}
		a.finishSource(report, stats)
	}
	return nil
}

// scan converts every record of one source and hands accepted conversation
// texts to emit in record order. Skippable source conditions are recorded in
// stats and return nil.
func (a *Aggregator) scan(ctx context.Context, i int, desc source.Descriptor, stats *SourceStats, emit func(string)) error {
	reader, err := a.opener.Open(ctx, desc)
	if err != nil {
		if errors.Is(err, source.ErrSourceMissing) || errors.Is(err, source.ErrUnsupportedShape) {
			stats.Skipped = true
			stats.SkipReason = err.Error()
			return nil
		}
		return fmt.Errorf("source %s: %w", desc.Name, err)
	}
	defer reader.Close()

	converter, err := dialogue.NewConverter(a.config.Prompts, a.config.Pickers(i), dialogue.WithMinLength(a.config.MinLength))
	if err != nil {
		return err
	}

	for reader.Next() {
		stats.Records++
		if stats.Records%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		text, ok := converter.ConvertText(reader.Record())
		if !ok {
			stats.Rejected++
			continue
		}
		emit(text)
	}
	if err := reader.Err(); err != nil {
		return fmt.Errorf("source %s: %w", desc.Name, err)
	}
	return nil
}

func (a *Aggregator) finishSource(report *Report, stats SourceStats) {
	report.Sources = append(report.Sources, stats)

	if stats.Skipped {
		a.logger.Warn().
			Str("source", stats.Name).
			Str("path", stats.Path).
			Str("reason", stats.SkipReason).
			Msg("Source skipped")
		return
	}

	a.logger.Info().
		Str("source", stats.Name).
		Int("records", stats.Records).
		Int("accepted", stats.Accepted).
		Int("rejected", stats.Rejected).
		Int("duplicates", stats.Duplicates).
		Msg("Source merged")
}
