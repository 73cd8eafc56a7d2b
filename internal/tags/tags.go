package tags

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"

	"github.com/desertthunder/stepmuse/internal/shared"
)

// TagSet is the metadata block written onto an audio file.
type TagSet struct {
	Title  string
	Artist string
	Album  string
}

// Apply overwrites the tags of the audio file at path with the given TagSet,
// dispatching on the file extension. Existing values are wiped first so stale
// metadata never survives a retag.
func Apply(path string, tags TagSet) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		return applyMP3(path, tags)
	case ".flac":
		return applyFLAC(path, tags)
	case ".ogg":
		return applyOgg(path, tags)
	default:
		return fmt.Errorf("%w: %s", shared.ErrUnsupported, ext)
	}
}

// applyMP3 replaces the ID3v2 tag of an MP3 file.
func applyMP3(path string, tags TagSet) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open MP3 file: %w", err)
	}
	defer tag.Close()

	tag.DeleteAllFrames()
	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if tags.Title != "" {
		tag.SetTitle(tags.Title)
	}
	if tags.Artist != "" {
		tag.SetArtist(tags.Artist)
	}
	tag.SetAlbum(tags.Album)

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save MP3 tags: %w", err)
	}

	return nil
}

// applyFLAC replaces the Vorbis comment block of a FLAC file, preserving the
// vendor string of an existing block.
func applyFLAC(path string, tags TagSet) error {
	f, err := flac.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to parse FLAC file: %w", err)
	}

	cmts := flacvorbis.New()
	cmtIdx := -1

	for idx, meta := range f.Meta {
		if meta.Type == flac.VorbisComment {
			existing, err := flacvorbis.ParseFromMetaDataBlock(*meta)
			if err != nil {
				return fmt.Errorf("failed to parse vorbis comment: %w", err)
			}
			cmts.Vendor = existing.Vendor
			cmtIdx = idx
			break
		}
	}

	if tags.Title != "" {
		if err := cmts.Add(flacvorbis.FIELD_TITLE, tags.Title); err != nil {
			return fmt.Errorf("failed to set title: %w", err)
		}
	}
	if tags.Artist != "" {
		if err := cmts.Add(flacvorbis.FIELD_ARTIST, tags.Artist); err != nil {
			return fmt.Errorf("failed to set artist: %w", err)
		}
	}
	if err := cmts.Add(flacvorbis.FIELD_ALBUM, tags.Album); err != nil {
		return fmt.Errorf("failed to set album: %w", err)
	}

	cmtsMeta := cmts.Marshal()
	if cmtIdx >= 0 {
		f.Meta[cmtIdx] = &cmtsMeta
	} else {
		f.Meta = append(f.Meta, &cmtsMeta)
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("failed to save FLAC file: %w", err)
	}

	return nil
}
