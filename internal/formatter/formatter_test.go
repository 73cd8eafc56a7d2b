package formatter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/stepmuse/internal/models"
	"github.com/desertthunder/stepmuse/internal/shared"
	th "github.com/desertthunder/stepmuse/internal/testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "master.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write CSV fixture: %v", err)
	}
	return path
}

func TestReadMasterCSV(t *testing.T) {
	t.Run("Valid File", func(t *testing.T) {
		path := writeCSV(t, "id,path,title,artist,album\nnd-1,/music/a.ogg,MAX 300,Omega,DDRMAX2\nnd-2,/music/b.mp3,Era,TaQ,4th Mix\n")

		records, err := ReadMasterCSV(path)
		if err != nil {
			t.Fatalf("ReadMasterCSV failed: %v", err)
		}

		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[0].ID != "nd-1" || records[0].Title != "MAX 300" || records[0].Artist != "Omega" {
			t.Errorf("unexpected first record %+v", records[0])
		}
		if records[1].Album != "4th Mix" {
			t.Errorf("unexpected second record %+v", records[1])
		}
	})

	t.Run("Column Order Is Free", func(t *testing.T) {
		path := writeCSV(t, "album,artist,title,path,id\nA,B,C,/p,x1\n")

		records, err := ReadMasterCSV(path)
		if err != nil {
			t.Fatalf("ReadMasterCSV failed: %v", err)
		}
		if records[0].ID != "x1" || records[0].Album != "A" || records[0].Title != "C" {
			t.Errorf("columns not mapped by name: %+v", records[0])
		}
	})

	t.Run("Extra Columns Ignored", func(t *testing.T) {
		path := writeCSV(t, "id,path,title,artist,album,duration\n1,/p,T,A,Al,240\n")

		records, err := ReadMasterCSV(path)
		if err != nil {
			t.Fatalf("ReadMasterCSV failed: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("expected 1 record, got %d", len(records))
		}
	})

	t.Run("Missing Required Column", func(t *testing.T) {
		path := writeCSV(t, "id,path,title,artist\n1,/p,T,A\n")

		_, err := ReadMasterCSV(path)
		if !errors.Is(err, shared.ErrMissingColumn) {
			t.Errorf("expected ErrMissingColumn, got %v", err)
		}
		if !strings.Contains(err.Error(), "album") {
			t.Errorf("expected the missing column named, got %v", err)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		if _, err := ReadMasterCSV(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("Empty File", func(t *testing.T) {
		path := writeCSV(t, "")
		if _, err := ReadMasterCSV(path); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for empty file, got %v", err)
		}
	})
}

func TestSuggestionsCSV(t *testing.T) {
	source := models.TrackRecord{ID: "nd-1", Path: "/music/a.ogg", Title: "MAX 300", Artist: "Omega", Album: "DDRMAX2"}
	rows := []models.SuggestionRow{
		{Source: source, Rank: 1, ID: "am-7", Title: "Near", Artist: "A", Album: "X", Distance: 0.12},
		{Source: source, Rank: 2, ID: "am-9", Title: "Far", Artist: "B", Album: "Y", Distance: 0.34},
		{Source: source, Rank: models.DissimilarRank, ID: "am-99", Title: "Opposite", Artist: "Z", Album: "Elsewhere", Distance: 9.87},
	}

	t.Run("SuggestionsToCSV", func(t *testing.T) {
		data, err := SuggestionsToCSV(rows)
		if err != nil {
			t.Fatalf("SuggestionsToCSV failed: %v", err)
		}

		output := string(data)
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
		}

		if lines[0] != strings.Join(SuggestionHeader, ",") {
			t.Errorf("unexpected header line %q", lines[0])
		}
		if !strings.HasPrefix(lines[1], "nd-1,MAX 300,Omega,DDRMAX2,1,am-7") {
			t.Errorf("unexpected first row %q", lines[1])
		}
		if !strings.Contains(lines[3], ",-1,am-99,") {
			t.Errorf("expected dissimilar sentinel rank in last row, got %q", lines[3])
		}
		if !strings.Contains(lines[1], "0.12") {
			t.Errorf("expected distance preserved, got %q", lines[1])
		}
	})

	t.Run("WriteSuggestionsCSV", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.csv")

		if err := WriteSuggestionsCSV(rows, path); err != nil {
			t.Fatalf("WriteSuggestionsCSV failed: %v", err)
		}

		th.AssertFileExists(t, path)
		content := th.MustReadFile(t, path)
		if !strings.Contains(content, "source_id,source_title") {
			t.Errorf("expected header in written file")
		}
	})

	t.Run("Deterministic Output", func(t *testing.T) {
		first, err := SuggestionsToCSV(rows)
		if err != nil {
			t.Fatalf("first serialization failed: %v", err)
		}
		second, err := SuggestionsToCSV(rows)
		if err != nil {
			t.Fatalf("second serialization failed: %v", err)
		}
		if string(first) != string(second) {
			t.Error("expected byte-equivalent output for identical input")
		}
	})

	t.Run("Empty Rows Still Writes Header", func(t *testing.T) {
		data, err := SuggestionsToCSV(nil)
		if err != nil {
			t.Fatalf("SuggestionsToCSV failed: %v", err)
		}
		if strings.TrimSpace(string(data)) != strings.Join(SuggestionHeader, ",") {
			t.Errorf("expected header only, got %q", string(data))
		}
	})
}
