package tags

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"

	"github.com/desertthunder/stepmuse/internal/shared"
)

func TestApply(t *testing.T) {
	t.Run("Unsupported Extension", func(t *testing.T) {
		err := Apply(filepath.Join(t.TempDir(), "song.wav"), TagSet{Album: "Pack"})
		if !errors.Is(err, shared.ErrUnsupported) {
			t.Errorf("expected ErrUnsupported, got %v", err)
		}
	})

	t.Run("MP3", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "song.mp3")
		// A bare MPEG frame header with no ID3 tag.
		if err := os.WriteFile(path, append([]byte{0xFF, 0xFB, 0x90, 0x00}, make([]byte, 128)...), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		tagSet := TagSet{Title: "MAX 300 (Super-Max-Me Mix)", Artist: "Omega", Album: "DDR Extreme"}
		if err := Apply(path, tagSet); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}

		tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
		if err != nil {
			t.Fatalf("failed to reopen MP3: %v", err)
		}
		defer tag.Close()

		if tag.Title() != tagSet.Title {
			t.Errorf("expected title %q, got %q", tagSet.Title, tag.Title())
		}
		if tag.Artist() != tagSet.Artist {
			t.Errorf("expected artist %q, got %q", tagSet.Artist, tag.Artist())
		}
		if tag.Album() != tagSet.Album {
			t.Errorf("expected album %q, got %q", tagSet.Album, tag.Album())
		}
	})

	t.Run("MP3 Overwrites Existing Tags", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "song.mp3")
		if err := os.WriteFile(path, append([]byte{0xFF, 0xFB, 0x90, 0x00}, make([]byte, 128)...), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		if err := Apply(path, TagSet{Title: "Old Title", Artist: "Old Artist", Album: "Old Album"}); err != nil {
			t.Fatalf("first Apply failed: %v", err)
		}
		if err := Apply(path, TagSet{Title: "灼熱Beach Side Bunny", Artist: "DJ Mass MAD Izm*", Album: "Pack"}); err != nil {
			t.Fatalf("second Apply failed: %v", err)
		}

		tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
		if err != nil {
			t.Fatalf("failed to reopen MP3: %v", err)
		}
		defer tag.Close()

		if tag.Title() != "灼熱Beach Side Bunny" {
			t.Errorf("expected unicode title to survive exactly, got %q", tag.Title())
		}
		if tag.Artist() != "DJ Mass MAD Izm*" {
			t.Errorf("expected artist replaced, got %q", tag.Artist())
		}
	})

	t.Run("FLAC", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "song.flac")
		if err := os.WriteFile(path, minimalFLAC(), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		tagSet := TagSet{Title: "Era (nostalmix)", Artist: "TaQ", Album: "Pack"}
		if err := Apply(path, tagSet); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}

		f, err := flac.ParseFile(path)
		if err != nil {
			t.Fatalf("failed to reparse FLAC: %v", err)
		}

		var found bool
		for _, meta := range f.Meta {
			if meta.Type != flac.VorbisComment {
				continue
			}
			found = true
			cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
			if err != nil {
				t.Fatalf("failed to parse vorbis comments: %v", err)
			}

			assertField(t, cmts, flacvorbis.FIELD_TITLE, tagSet.Title)
			assertField(t, cmts, flacvorbis.FIELD_ARTIST, tagSet.Artist)
			assertField(t, cmts, flacvorbis.FIELD_ALBUM, tagSet.Album)
		}
		if !found {
			t.Error("expected a vorbis comment block after tagging")
		}
	})

	t.Run("Ogg", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "song.ogg")
		if err := os.WriteFile(path, buildTestOgg(t, "libVorbis", []string{"TITLE=Stale"}, 64), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		if err := Apply(path, TagSet{Title: "PARANOiA", Artist: "180", Album: "DDR 1st"}); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read tagged file: %v", err)
		}

		vendor, comments := readComments(t, data)
		if vendor != "libVorbis" {
			t.Errorf("expected vendor preserved, got %q", vendor)
		}
		want := []string{"TITLE=PARANOiA", "ARTIST=180", "ALBUM=DDR 1st"}
		if len(comments) != len(want) {
			t.Fatalf("expected %d comments, got %v", len(want), comments)
		}
		for i := range want {
			if comments[i] != want[i] {
				t.Errorf("comment %d: expected %q, got %q", i, want[i], comments[i])
			}
		}
	})

	t.Run("Ogg Album Written Even Without Title", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "song.ogg")
		if err := os.WriteFile(path, buildTestOgg(t, "v", nil, 64), 0644); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		if err := Apply(path, TagSet{Album: "Pack Only"}); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read tagged file: %v", err)
		}
		_, comments := readComments(t, data)
		if len(comments) != 1 || comments[0] != "ALBUM=Pack Only" {
			t.Errorf("expected only the album comment, got %v", comments)
		}
	})

	t.Run("Unreadable File", func(t *testing.T) {
		if err := Apply(filepath.Join(t.TempDir(), "missing.ogg"), TagSet{Album: "x"}); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

// minimalFLAC returns the smallest stream go-flac will parse: the marker and
// a zeroed STREAMINFO block flagged as the last metadata block.
func minimalFLAC() []byte {
	data := []byte("fLaC")
	data = append(data, 0x80, 0x00, 0x00, 0x22) // last block, type 0, length 34
	data = append(data, make([]byte, 34)...)
	data = append(data, 0xFF, 0xF8) // frame sync code required by readFLACStream
	return data
}

func assertField(t *testing.T, cmts *flacvorbis.MetaDataBlockVorbisComment, field, want string) {
	t.Helper()
	values, err := cmts.Get(field)
	if err != nil {
		t.Fatalf("failed to get %s: %v", field, err)
	}
	if len(values) != 1 || values[0] != want {
		t.Errorf("expected %s = %q, got %v", field, want, values)
	}
}
