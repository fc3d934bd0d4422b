package subtitles

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

const sampleSRT = "1\r\n00:00:01,000 --> 00:00:02,000\r\nHello there.\r\n\r\n2\r\n00:00:03,000 --> 00:00:04,000\r\n  General Kenobi!  \r\n\r\n"

func zipBlob(t *testing.T, members map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

type archiveRow struct {
	name    string
	content []byte
}

func createStore(t *testing.T, rows ...archiveRow) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "subtitles.db")
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("CREATE TABLE zipfiles (num INTEGER, name TEXT, content BLOB)")
	require.NoError(t, err)
	for i, row := range rows {
		_, err = db.Exec("INSERT INTO zipfiles (num, name, content) VALUES (?, ?, ?)", i+1, row.name, row.content)
		require.NoError(t, err)
	}
	return dbPath
}

func TestSubtitleLines(t *testing.T) {
	assert.Equal(t, []string{"Hello there.", "General Kenobi!"}, SubtitleLines(sampleSRT))
	assert.Equal(t, []string{"ok"}, SubtitleLines("12\n\xff\xfeok\n"))
	assert.Empty(t, SubtitleLines("  \n\n42\n"))
}

func TestGroupRecords(t *testing.T) {
	lines := []string{"a", "b", "c"}

	assert.Equal(t, []string{"a __eou__", "b __eou__", "c __eou__"}, GroupRecords(lines, 1))
	assert.Equal(t, []string{"a __eou__ b __eou__", "c __eou__"}, GroupRecords(lines, 2))
	assert.Equal(t, []string{"a __eou__"}, GroupRecords([]string{"a"}, 0))
	assert.Empty(t, GroupRecords(nil, 3))
}

func TestExtractor_Extract(t *testing.T) {
	dbPath := createStore(t,
		archiveRow{name: "movie-1", content: zipBlob(t, map[string]string{
			"movie.srt":  sampleSRT,
			"readme.nfo": "not a subtitle",
		})},
		archiveRow{name: "broken", content: []byte("definitely not a zip")},
		archiveRow{name: "movie-2", content: zipBlob(t, map[string]string{
			"dir/ep.txt": "Bye.\n",
		})},
	)
	outputPath := filepath.Join(t.TempDir(), "opensubtitles_en.txt")

	extractor := NewExtractor(afs.New(), ExtractorConfig{}, zerolog.Nop())
	stats, err := extractor.Extract(context.Background(), dbPath, outputPath)
	require.NoError(t, err)

	assert.Equal(t, &ExtractStats{Archives: 3, Failed: 1, Members: 2, Lines: 3, Records: 3}, stats)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "Hello there. __eou__\nGeneral Kenobi! __eou__\nBye. __eou__\n", string(data))
}

func TestExtractor_GroupsUtterances(t *testing.T) {
	dbPath := createStore(t, archiveRow{name: "movie", content: zipBlob(t, map[string]string{"movie.srt": sampleSRT})})
	outputPath := filepath.Join(t.TempDir(), "grouped.txt")

	extractor := NewExtractor(nil, ExtractorConfig{Table: DefaultTable, UtterancesPerRecord: 4}, zerolog.Nop())
	stats, err := extractor.Extract(context.Background(), dbPath, outputPath)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Records)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "Hello there. __eou__ General Kenobi! __eou__\n", string(data))
}

func TestExtractor_Errors(t *testing.T) {
	extractor := NewExtractor(nil, ExtractorConfig{Table: "archives"}, zerolog.Nop())
	out := filepath.Join(t.TempDir(), "out.txt")

	_, err := extractor.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.db"), out)
	assert.Error(t, err)

	_, err = extractor.Extract(context.Background(), createStore(t), out)
	assert.ErrorIs(t, err, ErrNoArchiveTable)
}

func TestInspector(t *testing.T) {
	blob := zipBlob(t, map[string]string{"a.srt": "hi\n"})
	dbPath := createStore(t, archiveRow{name: "first", content: blob})

	inspector, err := OpenInspector(dbPath)
	require.NoError(t, err)
	defer inspector.Close()
	ctx := context.Background()

	tables, err := inspector.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"zipfiles"}, tables)

	columns, err := inspector.Columns(ctx, "zipfiles")
	require.NoError(t, err)
	assert.Equal(t, []Column{
		{Name: "num", Type: "INTEGER"},
		{Name: "name", Type: "TEXT"},
		{Name: "content", Type: "BLOB"},
	}, columns)

	sample, err := inspector.SampleRow(ctx, "zipfiles")
	require.NoError(t, err)
	assert.Equal(t, []string{"num", "name", "content"}, sample.Columns)
	require.Len(t, sample.Values, 3)
	assert.Equal(t, "1", sample.Values[0])
	assert.Equal(t, "first", sample.Values[1])
	assert.True(t, strings.HasPrefix(sample.Values[2], "<blob "))

	_, err = inspector.Columns(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoArchiveTable)
	_, err = inspector.SampleRow(ctx, "missing")
	assert.ErrorIs(t, err, ErrNoArchiveTable)
}

func TestInspector_EmptyTable(t *testing.T) {
	inspector, err := OpenInspector(createStore(t))
	require.NoError(t, err)
	defer inspector.Close()

	sample, err := inspector.SampleRow(context.Background(), "zipfiles")
	require.NoError(t, err)
	assert.Nil(t, sample.Values)
	assert.Len(t, sample.Columns, 3)
}
