// Package tags writes title/artist/album metadata into audio files.
//
// MP3 files get a fresh ID3v2 tag, FLAC files get their Vorbis comment block
// replaced, and Ogg Vorbis files get the comment header packet rewritten in
// place. Existing tag values are overwritten; the vendor string of Vorbis
// streams is preserved.
package tags
