// Package corpus merges converted conversations from every configured source
// into one deduplicated corpus and writes the shuffled result.
package corpus

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// DedupMode selects how conversation identity is tracked
type DedupMode string

const (
	// DedupExact keeps every accepted conversation string in the seen-set.
	DedupExact DedupMode = "exact"
	// DedupHashed keeps a 64-bit xxhash per conversation. Memory stays bounded
	// per entry, but a hash collision drops a distinct conversation as a
	// duplicate, so exact-text identity is no longer guaranteed.
	DedupHashed DedupMode = "hashed"
)

// SeenSet records conversation identities
type SeenSet interface {
	// Add records text and reports whether it was not seen before.
	Add(text string) bool
	Len() int
}

// NewSeenSet returns the seen-set for mode
func NewSeenSet(mode DedupMode) (SeenSet, error) {
	switch mode {
	case DedupExact, "":
		return exactSet{}, nil
	case DedupHashed:
		return hashedSet{}, nil
	default:
		return nil, fmt.Errorf("unknown dedup mode %q", mode)
	}
}

type exactSet map[string]struct{}

func (s exactSet) Add(text string) bool {
	if _, ok := s[text]; ok {
		return false
	}
	s[text] = struct{}{}
	return true
}

func (s exactSet) Len() int { return len(s) }

type hashedSet map[uint64]struct{}

func (s hashedSet) Add(text string) bool {
	h := xxhash.Sum64String(text)
	if _, ok := s[h]; ok {
		return false
	}
	s[h] = struct{}{}
	return true
}

func (s hashedSet) Len() int { return len(s) }

// Corpus is the ordered collection of accepted conversation texts.
// It grows monotonically and is owned by a single writer.
type Corpus struct {
	conversations []string
	seen          SeenSet
}

// New creates an empty corpus using seen for deduplication
func New(seen SeenSet) *Corpus {
	if seen == nil {
		seen = exactSet{}
	}
	return &Corpus{seen: seen}
}

// Add appends text unless an identical conversation was added before.
// First seen wins.
func (c *Corpus) Add(text string) bool {
	if !c.seen.Add(text) {
		return false
	}
	c.conversations = append(c.conversations, text)
	return true
}

// Len returns the number of accepted conversations
func (c *Corpus) Len() int {
	return len(c.conversations)
}

// Conversations returns a copy of the accepted conversations in merge order
func (c *Corpus) Conversations() []string {
	out := make([]string, len(c.conversations))
	copy(out, c.conversations)
	return out
}
