package library

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/desertthunder/stepmuse/internal/shared"
)

// ChartMetadata holds the fields extracted from a .sm or .ssc simfile.
//
// Simfiles store values as `#TAG:value;` pairs. Only the tags relevant for
// audio tagging are extracted.
type ChartMetadata struct {
	Title    string
	Subtitle string
	Artist   string
}

var (
	titlePattern    = regexp.MustCompile(`(?i)#TITLE:([^;]*);`)
	subtitlePattern = regexp.MustCompile(`(?i)#SUBTITLE:([^;]*);`)
	artistPattern   = regexp.MustCompile(`(?i)#ARTIST:([^;]*);`)
)

// DisplayTitle returns the title with the subtitle appended when present
// (e.g. "Song Name [Remix]"), matching how StepMania displays songs.
func (c ChartMetadata) DisplayTitle() string {
	if c.Subtitle == "" {
		return c.Title
	}
	return strings.TrimSpace(c.Title + " " + c.Subtitle)
}

// ParseSimfile extracts title, subtitle and artist from a simfile.
//
// Simfiles in the wild have mixed encodings; invalid UTF-8 sequences are
// dropped rather than failing the parse. A file with no #TITLE tag at all is
// treated as malformed.
func ParseSimfile(path string) (*ChartMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart file: %w", err)
	}

	content := strings.ToValidUTF8(string(data), "")

	titleMatch := titlePattern.FindStringSubmatch(content)
	if titleMatch == nil {
		return nil, fmt.Errorf("%w: no #TITLE tag in %s", shared.ErrMalformedChart, path)
	}

	meta := &ChartMetadata{Title: strings.TrimSpace(titleMatch[1])}

	if m := subtitlePattern.FindStringSubmatch(content); m != nil {
		meta.Subtitle = strings.TrimSpace(m[1])
	}
	if m := artistPattern.FindStringSubmatch(content); m != nil {
		meta.Artist = strings.TrimSpace(m[1])
	}

	return meta, nil
}
