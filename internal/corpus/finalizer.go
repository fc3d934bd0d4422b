package corpus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/Caia-Tech/caia-chat-corpus/internal/source"
)

// DefaultSeparator puts a blank line between conversations.
const DefaultSeparator = "\n\n"

// Shuffler permutes n elements. *rand.Rand from math/rand/v2 satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Output describes a written corpus file
type Output struct {
	Path          string
	Conversations int
	Bytes         int64
}

// Finalizer shuffles a merged corpus and writes it as one text blob
type Finalizer struct {
	fs        afs.Service
	shuffler  Shuffler
	separator string
	logger    zerolog.Logger
}

// NewFinalizer creates a finalizer writing through fs
func NewFinalizer(fs afs.Service, shuffler Shuffler, separator string, logger zerolog.Logger) (*Finalizer, error) {
	if fs == nil {
		fs = afs.New()
	}
	if shuffler == nil {
		return nil, errors.New("finalizer requires a shuffler")
	}
	if separator == "" {
		separator = DefaultSeparator
	}
	return &Finalizer{fs: fs, shuffler: shuffler, separator: separator, logger: logger}, nil
}

// Render shuffles a snapshot of the corpus and joins it with the separator.
// The corpus itself is left in merge order.
func (f *Finalizer) Render(corpus *Corpus) []byte {
	conversations := corpus.Conversations()
	f.shuffler.Shuffle(len(conversations), func(i, j int) {
		conversations[i], conversations[j] = conversations[j], conversations[i]
	})
	return []byte(strings.Join(conversations, f.separator))
}

// Finalize renders the corpus and writes it to outputPath
func (f *Finalizer) Finalize(ctx context.Context, corpus *Corpus, outputPath string) (*Output, error) {
	f.logger.Info().Int("conversations", corpus.Len()).Msg("Shuffling dialogues")

	blob := f.Render(corpus)
	location := source.Location(outputPath)
	if err := f.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(blob)); err != nil {
		return nil, fmt.Errorf("write corpus %s: %w", outputPath, err)
	}

	out := &Output{
		Path:          outputPath,
		Conversations: corpus.Len(),
		Bytes:         int64(len(blob)),
	}
	f.logger.Info().
		Str("output", out.Path).
		Int("conversations", out.Conversations).
		Int64("bytes", out.Bytes).
		Msg("Corpus written")
	return out, nil
}
