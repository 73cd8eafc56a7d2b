// package formatter reads the media server's catalog export and writes the
// flattened similarity report CSV
package formatter

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/stepmuse/internal/models"
	"github.com/desertthunder/stepmuse/internal/shared"
)

// masterColumns are the columns the catalog export must provide.
var masterColumns = []string{"id", "path", "title", "artist", "album"}

// SuggestionHeader is the output report header: source track fields, rank,
// then the suggested track fields.
var SuggestionHeader = []string{
	"source_id", "source_title", "source_artist", "source_album",
	"rank", "id", "title", "artist", "album", "distance",
}

// ReadMasterCSV parses a catalog export with header id,path,title,artist,album.
//
// Column order is free and extra columns are ignored; a missing required
// column fails the whole read since no row could be processed.
func ReadMasterCSV(path string) ([]models.TrackRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open master CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read master CSV header: %v", shared.ErrInvalidInput, err)
	}

	index := map[string]int{}
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range masterColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingColumn, col)
		}
	}

	var records []models.TrackRecord
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: master CSV line %d: %v", shared.ErrInvalidInput, line+1, err)
		}
		line++

		records = append(records, models.TrackRecord{
			ID:     row[index["id"]],
			Path:   row[index["path"]],
			Title:  row[index["title"]],
			Artist: row[index["artist"]],
			Album:  row[index["album"]],
		})
	}

	return records, nil
}

// SuggestionsToCSV serializes report rows, header included.
func SuggestionsToCSV(rows []models.SuggestionRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(SuggestionHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Source.ID,
			row.Source.Title,
			row.Source.Artist,
			row.Source.Album,
			strconv.Itoa(row.Rank),
			row.ID,
			row.Title,
			row.Artist,
			row.Album,
			strconv.FormatFloat(row.Distance, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteSuggestionsCSV writes the report to path in one shot.
func WriteSuggestionsCSV(rows []models.SuggestionRow, path string) error {
	data, err := SuggestionsToCSV(rows)
	if err != nil {
		return fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}

	return nil
}
