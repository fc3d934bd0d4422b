// Package dialogue converts sentinel-delimited raw records into
// speaker-labelled conversations.
package dialogue

import (
	"fmt"
	"strings"

	"github.com/Caia-Tech/caia-chat-corpus/internal/processing"
)

const (
	// Sentinel separates utterances inside a raw record.
	Sentinel = "__eou__"
	// BotMarker is the open response turn that closes every conversation.
	BotMarker = "Bot:"
	// DefaultMinLength rejects degenerate conversations shorter than this many bytes.
	DefaultMinLength = 20
)

// Picker chooses an index in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Picker interface {
	IntN(n int) int
}

// Turn is one labelled utterance
type Turn struct {
	Speaker string
	Text    string
}

// Conversation is an accepted record: alternating turns, one prompt and the open bot turn
type Conversation struct {
	Turns  []Turn
	Prompt string
}

// Text renders the conversation in its serialized, newline-separated form.
// This string is the conversation's identity for deduplication.
func (c Conversation) Text() string {
	var sb strings.Builder
	for _, turn := range c.Turns {
		sb.WriteString(turn.Speaker)
		sb.WriteString(": ")
		sb.WriteString(turn.Text)
		sb.WriteByte('\n')
	}
	sb.WriteString(c.Prompt)
	sb.WriteByte('\n')
	sb.WriteString(BotMarker)
	return sb.String()
}

// SpeakerLabel returns User1 for even turn indexes and User2 for odd ones
func SpeakerLabel(i int) string {
	if i%2 == 0 {
		return "User1"
	}
	return "User2"
}

// Converter turns raw records into conversations
type Converter struct {
	prompts   PromptSet
	picker    Picker
	minLength int
}

// Option configures a Converter
type Option func(*Converter)

// WithMinLength overrides the minimum serialized length
func WithMinLength(n int) Option {
	return func(c *Converter) {
		c.minLength = n
	}
}

// NewConverter creates a converter that samples prompts with picker.
// The picker is not safe for concurrent use, so neither is the converter.
func NewConverter(prompts PromptSet, picker Picker, opts ...Option) (*Converter, error) {
	if prompts.Len() == 0 {
		return nil, ErrEmptyPromptSet
	}
	if picker == nil {
		return nil, fmt.Errorf("converter requires a random picker")
	}
	c := &Converter{
		prompts:   prompts,
		picker:    picker,
		minLength: DefaultMinLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SplitUtterances splits a raw record on the sentinel, trims each piece and drops empty ones
func SplitUtterances(raw string) []string {
	pieces := strings.Split(raw, Sentinel)
	utterances := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if trimmed := strings.TrimSpace(piece); trimmed != "" {
			utterances = append(utterances, trimmed)
		}
	}
	return utterances
}

// Convert builds a conversation from one raw record. It returns false when
// the record has no sentinel, fewer than two utterances, or renders shorter
// than the minimum length.
func (c *Converter) Convert(raw string) (Conversation, bool) {
	if !strings.Contains(raw, Sentinel) {
		return Conversation{}, false
	}

	// An utterance made only of non-ASCII characters normalizes to nothing
	// and is dropped before labelling, so alternation never skips a speaker.
	var turns []Turn
	for _, utterance := range SplitUtterances(raw) {
		text := processing.Normalize(utterance)
		if text == "" {
			continue
		}
		turns = append(turns, Turn{Speaker: SpeakerLabel(len(turns)), Text: text})
	}
	if len(turns) < 2 {
		return Conversation{}, false
	}

	conv := Conversation{
		Turns:  turns,
		Prompt: c.prompts.At(c.picker.IntN(c.prompts.Len())),
	}
	if len(conv.Text()) < c.minLength {
		return Conversation{}, false
	}
	return conv, true
}

// ConvertText is Convert followed by Text
func (c *Converter) ConvertText(raw string) (string, bool) {
	conv, ok := c.Convert(raw)
	if !ok {
		return "", false
	}
	return conv.Text(), true
}
