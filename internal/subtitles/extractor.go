package subtitles

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"golang.org/x/sync/errgroup"

	"github.com/Caia-Tech/caia-chat-corpus/internal/dialogue"
	"github.com/Caia-Tech/caia-chat-corpus/internal/source"
)

const progressEvery = 1000

// ExtractorConfig configures subtitle extraction
type ExtractorConfig struct {
	Table string
	// UtterancesPerRecord groups consecutive subtitle lines of one file into a
	// single record. 1 writes every line as its own record.
	UtterancesPerRecord int
}

// ExtractStats counts one extraction run
type ExtractStats struct {
	Archives int `json:"archives"`
	Failed   int `json:"failed"`
	Members  int `json:"members"`
	Lines    int `json:"lines"`
	Records  int `json:"records"`
}

// Extractor streams subtitle lines out of the archive store
type Extractor struct {
	fs     afs.Service
	config ExtractorConfig
	logger zerolog.Logger
}

// NewExtractor creates an extractor writing through fs
func NewExtractor(fs afs.Service, config ExtractorConfig, logger zerolog.Logger) *Extractor {
	if fs == nil {
		fs = afs.New()
	}
	if config.Table == "" {
		config.Table = DefaultTable
	}
	if config.UtterancesPerRecord < 1 {
		config.UtterancesPerRecord = 1
	}
	return &Extractor{fs: fs, config: config, logger: logger}
}

// Extract reads every archive in the store at dbPath and writes the subtitle
// records to outputPath. Broken archives are logged and skipped; database
// and write errors abort.
func (e *Extractor) Extract(ctx context.Context, dbPath, outputPath string) (*ExtractStats, error) {
	db, err := openStore(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := requireTable(ctx, db, e.config.Table); err != nil {
		return nil, err
	}

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(e.config.Table)).Scan(&total); err != nil {
		return nil, fmt.Errorf("count archives: %w", err)
	}
	e.logger.Info().Int("archives", total).Str("table", e.config.Table).Msg("Found archives in store")

	stats := &ExtractStats{}
	pr, pw := io.Pipe()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := e.extract(gctx, db, pw, stats)
		pw.CloseWithError(err)
		return err
	})
	g.Go(func() error {
		err := e.fs.Upload(gctx, source.Location(outputPath), file.DefaultFileOsMode, pr)
		if err != nil {
			pr.CloseWithError(err)
			return fmt.Errorf("write %s: %w", outputPath, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.logger.Info().
		Int("archives", stats.Archives).
		Int("failed", stats.Failed).
		Int("lines", stats.Lines).
		Int("records", stats.Records).
		Str("output", outputPath).
		Msg("Subtitles extracted")
	return stats, nil
}

func (e *Extractor) extract(ctx context.Context, db *sql.DB, w io.Writer, stats *ExtractStats) error {
	rows, err := db.QueryContext(ctx, "SELECT name, content FROM "+quoteIdent(e.config.Table))
	if err != nil {
		return fmt.Errorf("query archives: %w", err)
	}
	defer rows.Close()

	out := bufio.NewWriter(w)
	for rows.Next() {
		var (
			name    sql.NullString
			content []byte
		)
		if err := rows.Scan(&name, &content); err != nil {
			return fmt.Errorf("scan archive: %w", err)
		}
		stats.Archives++

		records, members, lines, err := e.archiveRecords(content)
		if err != nil {
			stats.Failed++
			e.logger.Warn().Err(err).Str("archive", name.String).Msg("Skipping broken archive")
		} else {
			stats.Members += members
			stats.Lines += lines
			for _, record := range records {
				if _, err := out.WriteString(record + "\n"); err != nil {
					return err
				}
			}
			stats.Records += len(records)
		}

		if stats.Archives%progressEvery == 0 {
			e.logger.Debug().Int("archives", stats.Archives).Int("records", stats.Records).Msg("Extraction progress")
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read archives: %w", err)
	}
	return out.Flush()
}

// archiveRecords unpacks one zip blob. Records are buffered per archive so a
// failure partway through contributes nothing.
func (e *Extractor) archiveRecords(blob []byte) (records []string, members, lines int, err error) {
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return nil, 0, 0, err
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isSubtitleMember(f.Name) {
			continue
		}
		text, err := readMember(f)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("member %s: %w", f.Name, err)
		}
		members++

		memberLines := SubtitleLines(text)
		lines += len(memberLines)
		records = append(records, GroupRecords(memberLines, e.config.UtterancesPerRecord)...)
	}
	return records, members, lines, nil
}

func isSubtitleMember(name string) bool {
	return strings.HasSuffix(name, ".srt") || strings.HasSuffix(name, ".txt")
}

func readMember(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SubtitleLines extracts the spoken lines of a subtitle file. Invalid UTF-8
// is dropped, and blank lines, cue numbers and timing lines are skipped.
func SubtitleLines(text string) []string {
	text = strings.ToValidUTF8(text, "")
	text = strings.ReplaceAll(text, "\r", "")

	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "-->") || isCueNumber(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func isCueNumber(line string) bool {
	for _, r := range line {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// GroupRecords terminates every line with the utterance sentinel and packs n
// consecutive lines per record. The last record may hold fewer.
func GroupRecords(lines []string, n int) []string {
	if n < 1 {
		n = 1
	}
	records := make([]string, 0, (len(lines)+n-1)/n)
	for start := 0; start < len(lines); start += n {
		end := min(start+n, len(lines))
		parts := make([]string, 0, end-start)
		for _, line := range lines[start:end] {
			parts = append(parts, line+" "+dialogue.Sentinel)
		}
		records = append(records, strings.Join(parts, " "))
	}
	return records
}
