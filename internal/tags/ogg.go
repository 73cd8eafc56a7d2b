package tags

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Ogg Vorbis comment rewriting.
//
// An Ogg Vorbis stream starts with three header packets (identification,
// comment, setup) laid out across one or more pages. Replacing the comment
// packet changes the page layout, so the header pages are rebuilt from
// scratch and every following audio page is renumbered and re-checksummed.

const (
	oggCapture     = "OggS"
	oggHeaderSize  = 27
	maxSegments    = 255
	flagContinued  = 0x01
	flagBOS        = 0x02
	identPrefix    = "\x01vorbis"
	commentPrefix  = "\x03vorbis"
	setupPrefix    = "\x05vorbis"
	vorbisFramebit = 0x01
)

type oggPage struct {
	headerType byte
	granule    uint64
	serial     uint32
	sequence   uint32
	segments   []byte
	payload    []byte
}

// applyOgg rewrites the Vorbis comment header of an Ogg file in place.
func applyOgg(path string, tags TagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read ogg file: %w", err)
	}

	comments := []string{}
	if tags.Title != "" {
		comments = append(comments, "TITLE="+tags.Title)
	}
	if tags.Artist != "" {
		comments = append(comments, "ARTIST="+tags.Artist)
	}
	comments = append(comments, "ALBUM="+tags.Album)

	rewritten, err := rewriteVorbisComments(data, comments)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, rewritten, 0644); err != nil {
		return fmt.Errorf("failed to write ogg file: %w", err)
	}

	return nil
}

// rewriteVorbisComments replaces the comment header packet of an Ogg Vorbis
// stream with a packet holding exactly the given comments. The vendor string
// of the existing comment packet is preserved.
func rewriteVorbisComments(data []byte, comments []string) ([]byte, error) {
	pages, err := parseOggPages(data)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no ogg pages found")
	}

	packets, headerPages, err := headerPackets(pages)
	if err != nil {
		return nil, err
	}

	ident, comment, setup := packets[0], packets[1], packets[2]
	if string(ident[:min(len(ident), 7)]) != identPrefix {
		return nil, fmt.Errorf("not a vorbis identification header")
	}
	if string(comment[:min(len(comment), 7)]) != commentPrefix {
		return nil, fmt.Errorf("not a vorbis comment header")
	}
	if string(setup[:min(len(setup), 7)]) != setupPrefix {
		return nil, fmt.Errorf("not a vorbis setup header")
	}

	vendor, err := vorbisVendor(comment)
	if err != nil {
		return nil, err
	}

	newComment := buildCommentPacket(vendor, comments)
	serial := pages[0].serial

	out := make([]oggPage, 0, len(pages))
	out = append(out, oggPage{
		headerType: flagBOS,
		serial:     serial,
		segments:   lacing(len(ident)),
		payload:    ident,
	})
	out = append(out, packPackets(serial, [][]byte{newComment, setup})...)
	out = append(out, pages[headerPages:]...)

	for i := range out {
		out[i].sequence = uint32(i)
	}

	var buf []byte
	for i := range out {
		buf = append(buf, marshalOggPage(out[i])...)
	}
	return buf, nil
}

// parseOggPages splits raw data into its Ogg pages, verifying structure but
// not checksums (files in the wild sometimes carry stale CRCs).
func parseOggPages(data []byte) ([]oggPage, error) {
	var pages []oggPage
	off := 0

	for off < len(data) {
		if off+oggHeaderSize > len(data) {
			return nil, fmt.Errorf("truncated ogg page header at offset %d", off)
		}
		if string(data[off:off+4]) != oggCapture {
			return nil, fmt.Errorf("bad ogg capture pattern at offset %d", off)
		}
		if data[off+4] != 0 {
			return nil, fmt.Errorf("unsupported ogg version %d", data[off+4])
		}

		nsegs := int(data[off+26])
		if off+oggHeaderSize+nsegs > len(data) {
			return nil, fmt.Errorf("truncated segment table at offset %d", off)
		}

		segments := data[off+oggHeaderSize : off+oggHeaderSize+nsegs]
		payloadLen := 0
		for _, s := range segments {
			payloadLen += int(s)
		}

		start := off + oggHeaderSize + nsegs
		if start+payloadLen > len(data) {
			return nil, fmt.Errorf("truncated page payload at offset %d", off)
		}

		pages = append(pages, oggPage{
			headerType: data[off+5],
			granule:    binary.LittleEndian.Uint64(data[off+6 : off+14]),
			serial:     binary.LittleEndian.Uint32(data[off+14 : off+18]),
			sequence:   binary.LittleEndian.Uint32(data[off+18 : off+22]),
			segments:   append([]byte(nil), segments...),
			payload:    append([]byte(nil), data[start:start+payloadLen]...),
		})

		off = start + payloadLen
	}

	return pages, nil
}

// headerPackets assembles the first three logical packets from the page
// stream and reports how many pages they occupied. Vorbis requires the setup
// header to end on a page boundary, so the audio pages that follow can be
// carried over untouched.
func headerPackets(pages []oggPage) ([3][]byte, int, error) {
	var packets [3][]byte
	var current []byte
	count := 0

	for pageIdx, page := range pages {
		offset := 0
		for _, seg := range page.segments {
			current = append(current, page.payload[offset:offset+int(seg)]...)
			offset += int(seg)
			if seg < maxSegments {
				packets[count] = current
				current = nil
				count++
				if count == 3 {
					if offset != len(page.payload) {
						return packets, 0, fmt.Errorf("setup header does not end on a page boundary")
					}
					return packets, pageIdx + 1, nil
				}
			}
		}
	}

	return packets, 0, fmt.Errorf("incomplete vorbis headers: found %d of 3 packets", count)
}

// vorbisVendor extracts the vendor string from a comment header packet.
func vorbisVendor(packet []byte) (string, error) {
	if len(packet) < 11 {
		return "", fmt.Errorf("comment header too short")
	}
	vendorLen := int(binary.LittleEndian.Uint32(packet[7:11]))
	if 11+vendorLen > len(packet) {
		return "", fmt.Errorf("comment header vendor length out of range")
	}
	return string(packet[11 : 11+vendorLen]), nil
}

// buildCommentPacket serializes a vorbis comment header packet.
func buildCommentPacket(vendor string, comments []string) []byte {
	size := 7 + 4 + len(vendor) + 4 + 1
	for _, c := range comments {
		size += 4 + len(c)
	}

	packet := make([]byte, 0, size)
	packet = append(packet, commentPrefix...)

	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(len(vendor)))
	packet = append(packet, u32[:]...)
	packet = append(packet, vendor...)

	binary.LittleEndian.PutUint32(u32[:], uint32(len(comments)))
	packet = append(packet, u32[:]...)

	for _, c := range comments {
		binary.LittleEndian.PutUint32(u32[:], uint32(len(c)))
		packet = append(packet, u32[:]...)
		packet = append(packet, c...)
	}

	packet = append(packet, vorbisFramebit)
	return packet
}

// lacing returns the segment table for a single packet of length n.
func lacing(n int) []byte {
	segs := make([]byte, 0, n/maxSegments+1)
	for n >= maxSegments {
		segs = append(segs, maxSegments)
		n -= maxSegments
	}
	segs = append(segs, byte(n))
	return segs
}

// packPackets lays consecutive packets out into pages of at most 255
// segments, setting the continued flag on pages that begin mid-packet.
// Sequence numbers are assigned by the caller.
func packPackets(serial uint32, packets [][]byte) []oggPage {
	var segs []byte
	var payload []byte
	for _, p := range packets {
		segs = append(segs, lacing(len(p))...)
		payload = append(payload, p...)
	}

	var pages []oggPage
	continued := false
	payloadOff := 0

	for len(segs) > 0 {
		n := len(segs)
		if n > maxSegments {
			n = maxSegments
		}

		pageSegs := segs[:n]
		pageLen := 0
		for _, s := range pageSegs {
			pageLen += int(s)
		}

		var headerType byte
		if continued {
			headerType = flagContinued
		}

		pages = append(pages, oggPage{
			headerType: headerType,
			serial:     serial,
			segments:   append([]byte(nil), pageSegs...),
			payload:    append([]byte(nil), payload[payloadOff:payloadOff+pageLen]...),
		})

		continued = pageSegs[len(pageSegs)-1] == maxSegments
		payloadOff += pageLen
		segs = segs[n:]
	}

	return pages
}

// marshalOggPage serializes a page and stamps its checksum.
func marshalOggPage(page oggPage) []byte {
	buf := make([]byte, 0, oggHeaderSize+len(page.segments)+len(page.payload))
	buf = append(buf, oggCapture...)
	buf = append(buf, 0, page.headerType)

	var u64 [8]byte
	binary.LittleEndian.PutUint64(u64[:], page.granule)
	buf = append(buf, u64[:]...)

	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], page.serial)
	buf = append(buf, u32[:]...)
	binary.LittleEndian.PutUint32(u32[:], page.sequence)
	buf = append(buf, u32[:]...)

	buf = append(buf, 0, 0, 0, 0) // CRC placeholder
	buf = append(buf, byte(len(page.segments)))
	buf = append(buf, page.segments...)
	buf = append(buf, page.payload...)

	binary.LittleEndian.PutUint32(buf[22:26], oggCRC(buf))
	return buf
}

var oggCRCTable = makeOggCRCTable()

// makeOggCRCTable builds the lookup table for the Ogg page checksum
// (CRC-32, polynomial 0x04c11db7, no bit reflection, zero initial value).
func makeOggCRCTable() [256]uint32 {
	var table [256]uint32
	for i := 0; i < 256; i++ {
		crc := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ 0x04c11db7
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return table
}

func oggCRC(data []byte) uint32 {
	var crc uint32
	for _, b := range data {
		crc = (crc << 8) ^ oggCRCTable[byte(crc>>24)^b]
	}
	return crc
}
