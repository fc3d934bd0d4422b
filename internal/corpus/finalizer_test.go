package corpus

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"

	"github.com/Caia-Tech/caia-chat-corpus/internal/source"
)

// reverser is a deterministic Shuffler.
type reverser struct{}

func (reverser) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func corpusOf(texts ...string) *Corpus {
	c := New(nil)
	for _, text := range texts {
		c.Add(text)
	}
	return c
}

func TestFinalizer_Render(t *testing.T) {
	f, err := NewFinalizer(afs.New(), reverser{}, "", zerolog.Nop())
	require.NoError(t, err)

	c := corpusOf("User1: a\nUser2: b\nP\nBot:", "User1: c\nUser2: d\nP\nBot:")
	blob := f.Render(c)

	assert.Equal(t, "User1: c\nUser2: d\nP\nBot:\n\nUser1: a\nUser2: b\nP\nBot:", string(blob))
	assert.Equal(t, []string{"User1: a\nUser2: b\nP\nBot:", "User1: c\nUser2: d\nP\nBot:"}, c.Conversations(),
		"render must not reorder the corpus")
}

func TestFinalizer_FinalizeWritesPermutation(t *testing.T) {
	var texts []string
	for i := 0; i < 50; i++ {
		texts = append(texts, "User1: hello "+strings.Repeat("x", i)+"\nUser2: hi\nSay more\nBot:")
	}
	c := corpusOf(texts...)

	f, err := NewFinalizer(afs.New(), rand.New(rand.NewPCG(7, 7)), DefaultSeparator, zerolog.Nop())
	require.NoError(t, err)

	outputPath := filepath.Join(t.TempDir(), "out", "corpus.txt")
	out, err := f.Finalize(context.Background(), c, outputPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), out.Bytes)
	assert.Equal(t, 50, out.Conversations)
	assert.Equal(t, outputPath, out.Path)

	blocks := strings.Split(string(data), DefaultSeparator)
	assert.ElementsMatch(t, texts, blocks)
	assert.False(t, strings.HasSuffix(string(data), "\n"), "no trailing separator")
}

func TestFinalizer_EmptyCorpus(t *testing.T) {
	f, err := NewFinalizer(nil, reverser{}, "", zerolog.Nop())
	require.NoError(t, err)

	outputPath := filepath.Join(t.TempDir(), "empty.txt")
	out, err := f.Finalize(context.Background(), New(nil), outputPath)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Bytes)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestNewFinalizer_RequiresShuffler(t *testing.T) {
	_, err := NewFinalizer(afs.New(), nil, "", zerolog.Nop())
	assert.Error(t, err)
}

func TestMergeThenFinalize_TwoUniqueBlocks(t *testing.T) {
	dir := t.TempDir()
	fs := afs.New()
	first := writeSource(t, dir, "first.txt", "a __eou__ b __eou__\n")
	second := writeSource(t, dir, "second.txt", "a __eou__ b __eou__\nc __eou__ d __eou__\n")

	agg := newTestAggregator(t, source.NewAdapterWithFS(fs), AggregatorConfig{})
	merged, _, err := agg.Merge(context.Background(), []source.Descriptor{
		{Name: "first", Path: first, Shape: source.ShapeLines},
		{Name: "second", Path: second, Shape: source.ShapeLines},
	})
	require.NoError(t, err)

	f, err := NewFinalizer(fs, rand.New(rand.NewPCG(3, 4)), DefaultSeparator, zerolog.Nop())
	require.NoError(t, err)
	outputPath := filepath.Join(dir, "human_chat.txt")
	out, err := f.Finalize(context.Background(), merged, outputPath)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Conversations)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	blocks := strings.Split(string(data), DefaultSeparator)
	assert.ElementsMatch(t, []string{
		"User1: a\nUser2: b\nWhat could I say next?\nBot:",
		"User1: c\nUser2: d\nWhat could I say next?\nBot:",
	}, blocks)
}
