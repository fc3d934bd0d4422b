package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpus_FirstSeenWins(t *testing.T) {
	for _, mode := range []DedupMode{DedupExact, DedupHashed} {
		t.Run(string(mode), func(t *testing.T) {
			seen, err := NewSeenSet(mode)
			require.NoError(t, err)
			c := New(seen)

			assert.True(t, c.Add("one"))
			assert.True(t, c.Add("two"))
			assert.False(t, c.Add("one"))
			assert.True(t, c.Add("three"))

			assert.Equal(t, []string{"one", "two", "three"}, c.Conversations())
			assert.Equal(t, 3, c.Len())
			assert.Equal(t, 3, seen.Len())
		})
	}
}

func TestCorpus_ConversationsIsCopy(t *testing.T) {
	c := New(nil)
	c.Add("one")

	snapshot := c.Conversations()
	snapshot[0] = "changed"
	assert.Equal(t, []string{"one"}, c.Conversations())
}

func TestNewSeenSet_UnknownMode(t *testing.T) {
	_, err := NewSeenSet("bloom")
	assert.Error(t, err)

	seen, err := NewSeenSet("")
	require.NoError(t, err)
	assert.True(t, seen.Add("x"))
}

func TestReport_Summary(t *testing.T) {
	r := &Report{
		Sources: []SourceStats{
			{Name: "DailyDialog", Records: 10, Accepted: 7, Rejected: 2, Duplicates: 1},
			{Name: "PersonaChat", Skipped: true, SkipReason: "source file does not exist: p.csv"},
		},
		Conversations: 7,
		OutputPath:    "data/out.txt",
		OutputBytes:   2 * 1024 * 1024,
	}

	summary := r.Summary()
	assert.Contains(t, summary, "DailyDialog: 7 added (10 records, 2 rejected, 1 duplicates)")
	assert.Contains(t, summary, "PersonaChat: skipped (source file does not exist: p.csv)")
	assert.Contains(t, summary, "Total dialogues: 7")
	assert.Contains(t, summary, "File saved: data/out.txt (2.00 MB)")
	assert.Equal(t, 7, r.Accepted())
	assert.Equal(t, []string{"PersonaChat"}, r.Skipped())
}
