package pipeline

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Caia-Tech/caia-chat-corpus/internal/corpus"
	"github.com/Caia-Tech/caia-chat-corpus/internal/dialogue"
	"github.com/Caia-Tech/caia-chat-corpus/internal/source"
	"github.com/Caia-Tech/caia-chat-corpus/pkg/logging"
)

// ConfigEnvVar names the environment variable pointing at a YAML overlay.
// It is the only environment input; when unset the compiled-in defaults apply.
const ConfigEnvVar = "CORPUS_CONFIG"

// PipelineConfig holds complete pipeline configuration
type PipelineConfig struct {
	// Logging configuration
	Logging *logging.LogConfig `json:"logging" yaml:"logging"`

	// Sources are merged in this order; earlier sources win duplicates.
	Sources []source.Descriptor `json:"sources" yaml:"sources"`

	Dialogue  *DialogueConfig  `json:"dialogue" yaml:"dialogue"`
	Corpus    *CorpusConfig    `json:"corpus" yaml:"corpus"`
	Output    *OutputConfig    `json:"output" yaml:"output"`
	Subtitles *SubtitlesConfig `json:"subtitles" yaml:"subtitles"`
	Publish   *PublishConfig   `json:"publish" yaml:"publish"`
}

// DialogueConfig holds conversion settings
type DialogueConfig struct {
	MinLength int    `json:"min_length" yaml:"min_length"` // bytes of rendered text
	Seed      uint64 `json:"seed" yaml:"seed"`             // 0 seeds from the clock
	// Prompts replaces the built-in continuation prompts when non-empty.
	Prompts []string `json:"prompts,omitempty" yaml:"prompts,omitempty"`
}

// CorpusConfig holds merge settings
type CorpusConfig struct {
	Dedup   corpus.DedupMode `json:"dedup" yaml:"dedup"`
	Workers int              `json:"workers" yaml:"workers"`
}

// OutputConfig holds the finalized corpus destination
type OutputConfig struct {
	Path      string `json:"path" yaml:"path"`
	Separator string `json:"separator" yaml:"separator"`
}

// SubtitlesConfig holds archive store extraction settings
type SubtitlesConfig struct {
	DBPath              string `json:"db_path" yaml:"db_path"`
	Table               string `json:"table" yaml:"table"`
	OutputPath          string `json:"output_path" yaml:"output_path"`
	UtterancesPerRecord int    `json:"utterances_per_record" yaml:"utterances_per_record"`
}

// PublishConfig holds dataset repository settings
type PublishConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	RepoPath    string `json:"repo_path" yaml:"repo_path"`
	FileName    string `json:"file_name" yaml:"file_name"`
	AuthorName  string `json:"author_name" yaml:"author_name"`
	AuthorEmail string `json:"author_email" yaml:"author_email"`
}

// DefaultPipelineConfig returns the compiled-in configuration
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		Logging: logging.DefaultLogConfig(),

		Sources: []source.Descriptor{
			{Name: "DailyDialog", Path: "data/dailydialog-parquet/train/dialogues_train.txt", Shape: source.ShapeLines},
			{Name: "EmpatheticDialogues", Path: "data/empathetic_dialogues/train.csv", Shape: source.ShapeDelimited},
			{Name: "PersonaChat", Path: "data/PersonaChat/personality.csv", Shape: source.ShapeDelimited},
			{Name: "OpenSubtitles", Path: "data/OpenSubtitles/opensubtitles_en.txt", Shape: source.ShapeLines},
		},

		Dialogue: &DialogueConfig{
			MinLength: dialogue.DefaultMinLength,
		},

		Corpus: &CorpusConfig{
			Dedup:   corpus.DedupExact,
			Workers: 1,
		},

		Output: &OutputConfig{
			Path:      "data/human_chat_1gb_readable.txt",
			Separator: corpus.DefaultSeparator,
		},

		Subtitles: &SubtitlesConfig{
			DBPath:              "data/OpenSubtitles/eng_subtitles_database.db",
			Table:               "zipfiles",
			OutputPath:          "data/OpenSubtitles/opensubtitles_en.txt",
			UtterancesPerRecord: 1,
		},

		Publish: &PublishConfig{
			RepoPath:    "./data/corpus-repo",
			FileName:    "human_chat_1gb_readable.txt",
			AuthorName:  "Caia Chat Corpus",
			AuthorEmail: "corpus@caiatech.com",
		},
	}
}

// ProductionPipelineConfig returns configuration for long unattended runs
func ProductionPipelineConfig() *PipelineConfig {
	config := DefaultPipelineConfig()

	config.Logging.Console = false
	config.Logging.OutputFile = "logs/caia-chat-corpus.log"

	config.Corpus.Workers = 4

	return config
}

// DevelopmentPipelineConfig returns development configuration
func DevelopmentPipelineConfig() *PipelineConfig {
	config := DefaultPipelineConfig()

	// Development logging
	config.Logging.Level = "debug"
	config.Logging.Format = "pretty"
	config.Logging.Console = true

	return config
}

// LoadPipelineConfig overlays the YAML file at path on the defaults
func LoadPipelineConfig(path string) (*PipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	config := DefaultPipelineConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

// ResolvePipelineConfig loads the overlay named by CORPUS_CONFIG, or the
// defaults when it is unset.
func ResolvePipelineConfig() (*PipelineConfig, error) {
	if path := os.Getenv(ConfigEnvVar); path != "" {
		return LoadPipelineConfig(path)
	}
	return DefaultPipelineConfig(), nil
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *PipelineConfig) Validate() error {
	if c.Logging == nil || c.Dialogue == nil || c.Corpus == nil || c.Output == nil || c.Subtitles == nil {
		return errors.New("logging, dialogue, corpus, output and subtitles sections are required")
	}
	if len(c.Sources) == 0 {
		return errors.New("at least one source is required")
	}
	names := make(map[string]bool, len(c.Sources))
	for _, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("source with path %q has no name", src.Path)
		}
		if names[src.Name] {
			return fmt.Errorf("duplicate source name %q", src.Name)
		}
		names[src.Name] = true
	}
	if c.Output.Path == "" {
		return errors.New("output path is required")
	}
	if _, err := corpus.NewSeenSet(c.Corpus.Dedup); err != nil {
		return err
	}
	if c.Corpus.Workers < 1 {
		return fmt.Errorf("corpus workers must be at least 1, got %d", c.Corpus.Workers)
	}
	if c.Dialogue.MinLength < 1 {
		return fmt.Errorf("dialogue min_length must be at least 1, got %d", c.Dialogue.MinLength)
	}
	if c.Publish != nil && c.Publish.Enabled && (c.Publish.RepoPath == "" || c.Publish.FileName == "") {
		return errors.New("publish requires repo_path and file_name")
	}
	return nil
}

// PromptSet returns the configured continuation prompts
func (c *DialogueConfig) PromptSet() (dialogue.PromptSet, error) {
	if len(c.Prompts) == 0 {
		return dialogue.DefaultPrompts(), nil
	}
	return dialogue.NewPromptSet(c.Prompts...)
}
