package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/viant/afs"

	"github.com/Caia-Tech/caia-chat-corpus/internal/source"
)

// GitConfig configures a GitPublisher
type GitConfig struct {
	RepoPath    string
	FileName    string // path of the corpus inside the repository
	AuthorName  string
	AuthorEmail string
}

var _ Publisher = (*GitPublisher)(nil)

// GitPublisher commits finalized corpora into an existing git repository
type GitPublisher struct {
	repo             *git.Repository
	config           GitConfig
	fs               afs.Service
	metricsCollector MetricsCollector
	logger           zerolog.Logger
}

// NewGitPublisher opens the repository at config.RepoPath
func NewGitPublisher(config GitConfig, metrics MetricsCollector, logger zerolog.Logger) (*GitPublisher, error) {
	if config.FileName == "" {
		return nil, errors.New("publish file name is required")
	}
	if filepath.IsAbs(config.FileName) {
		return nil, fmt.Errorf("publish file name %s must be relative to the repository", config.FileName)
	}
	if config.AuthorName == "" {
		config.AuthorName = "Caia Chat Corpus"
	}
	if config.AuthorEmail == "" {
		config.AuthorEmail = "corpus@caiatech.com"
	}

	repo, err := git.PlainOpen(config.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	return &GitPublisher{
		repo:             repo,
		config:           config,
		fs:               afs.New(),
		metricsCollector: metrics,
		logger:           logger,
	}, nil
}

// Publish copies the corpus into the repository and commits it
func (g *GitPublisher) Publish(ctx context.Context, req PublishRequest) (string, error) {
	start := time.Now()
	hash, err := g.publish(ctx, req)

	g.recordMetric("publish", start, err == nil, err)
	return hash, err
}

// Health checks that the repository has a worktree
func (g *GitPublisher) Health(ctx context.Context) error {
	start := time.Now()
	_, err := g.repo.Worktree()

	g.recordMetric("health", start, err == nil, err)
	return err
}

func (g *GitPublisher) publish(ctx context.Context, req PublishRequest) (string, error) {
	if req.RunID == "" {
		req.RunID = uuid.New().String()
	}

	w, err := g.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	dest := filepath.Join(g.config.RepoPath, g.config.FileName)
	if err := g.fs.Copy(ctx, source.Location(req.CorpusPath), source.Location(dest)); err != nil {
		return "", fmt.Errorf("failed to copy corpus into repository: %w", err)
	}

	if _, err := w.Add(filepath.ToSlash(g.config.FileName)); err != nil {
		return "", fmt.Errorf("failed to add corpus: %w", err)
	}

	message := fmt.Sprintf("Update corpus: %d conversations (run %s)", req.Conversations, req.RunID)
	commit, err := w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  g.config.AuthorName,
			Email: g.config.AuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}

	g.logger.Info().
		Str("commit", commit.String()).
		Str("file", g.config.FileName).
		Int("conversations", req.Conversations).
		Msg("Corpus published")
	return commit.String(), nil
}

func (g *GitPublisher) recordMetric(operation string, start time.Time, success bool, err error) {
	if g.metricsCollector != nil {
		g.metricsCollector.RecordMetric(StorageMetrics{
			OperationType: operation,
			Duration:      time.Since(start).Nanoseconds(),
			Success:       success,
			Backend:       "git",
			Error:         err,
		})
	}
}
