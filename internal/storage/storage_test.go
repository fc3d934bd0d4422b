package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	repoPath := t.TempDir()
	_, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)
	return repoPath
}

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGitPublisher_Publish(t *testing.T) {
	repoPath := initRepo(t)
	metrics := NewSimpleMetricsCollector(zerolog.Nop())

	publisher, err := NewGitPublisher(GitConfig{RepoPath: repoPath, FileName: "data/human_chat.txt"}, metrics, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, publisher.Health(context.Background()))

	corpusPath := writeCorpus(t, "User1: a\nUser2: b\nP\nBot:")
	hash, err := publisher.Publish(context.Background(), PublishRequest{
		CorpusPath:    corpusPath,
		Conversations: 1,
		RunID:         "run-1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	data, err := os.ReadFile(filepath.Join(repoPath, "data", "human_chat.txt"))
	require.NoError(t, err)
	assert.Equal(t, "User1: a\nUser2: b\nP\nBot:", string(data))

	repo, err := git.PlainOpen(repoPath)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, hash, head.Hash().String())

	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "Update corpus: 1 conversations (run run-1)", commit.Message)
	assert.Equal(t, "Caia Chat Corpus", commit.Author.Name)

	summary := metrics.Summary()
	require.Contains(t, summary, "git")
	assert.Equal(t, 1, summary["git"]["publish"].SuccessCount)
	assert.Equal(t, 1, summary["git"]["health"].Count)
}

func TestGitPublisher_SecondRunUpdatesFile(t *testing.T) {
	repoPath := initRepo(t)
	publisher, err := NewGitPublisher(GitConfig{RepoPath: repoPath, FileName: "corpus.txt"}, nil, zerolog.Nop())
	require.NoError(t, err)

	first, err := publisher.Publish(context.Background(), PublishRequest{CorpusPath: writeCorpus(t, "one"), Conversations: 1})
	require.NoError(t, err)
	second, err := publisher.Publish(context.Background(), PublishRequest{CorpusPath: writeCorpus(t, "one\n\ntwo"), Conversations: 2})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	repo, err := git.PlainOpen(repoPath)
	require.NoError(t, err)
	commit, err := repo.CommitObject(mustHead(t, repo))
	require.NoError(t, err)
	assert.Contains(t, commit.Message, "Update corpus: 2 conversations (run ")
}

func mustHead(t *testing.T, repo *git.Repository) plumbing.Hash {
	t.Helper()
	ref, err := repo.Head()
	require.NoError(t, err)
	return ref.Hash()
}

func TestNewGitPublisher_Errors(t *testing.T) {
	_, err := NewGitPublisher(GitConfig{RepoPath: t.TempDir(), FileName: "corpus.txt"}, nil, zerolog.Nop())
	assert.Error(t, err, "not a repository")

	_, err = NewGitPublisher(GitConfig{RepoPath: initRepo(t)}, nil, zerolog.Nop())
	assert.Error(t, err)

	_, err = NewGitPublisher(GitConfig{RepoPath: initRepo(t), FileName: "/abs/corpus.txt"}, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestSimpleMetricsCollector(t *testing.T) {
	collector := NewSimpleMetricsCollector(zerolog.Nop())
	collector.RecordMetric(StorageMetrics{OperationType: "publish", Backend: "git", Duration: 2_000_000, Success: true})
	collector.RecordMetric(StorageMetrics{OperationType: "publish", Backend: "git", Duration: 4_000_000, Error: errors.New("boom")})

	assert.Len(t, collector.GetMetrics(), 2)

	stats := collector.Summary()["git"]["publish"]
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 1, stats.FailureCount)
	assert.Equal(t, int64(2_000_000), stats.MinDuration)
	assert.Equal(t, int64(4_000_000), stats.MaxDuration)
	assert.InDelta(t, 50.0, stats.SuccessRate(), 0.001)
	assert.InDelta(t, 3.0, stats.AvgDurationMs(), 0.001)
}
