// Package decode recovers a text string from raw upload bytes under
// encoding uncertainty. Decoding never fails: the worst case is a
// best-effort string with some wrong glyphs, which the normalizer
// downstream further repairs.
package decode

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Byte-order marks recognized as authoritative.
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// diacriticRewrite holds one byte-level rewrite applied before any decode
// attempt. Upstream exports mix encodings for exactly these codepoints even
// when the rest of the file is valid UTF-8, so they are folded to ASCII at
// the byte level where every later decode path sees the same letter.
type diacriticRewrite struct {
	from []byte
	to   byte
}

// Two-byte UTF-8 forms must be rewritten before the single-byte CP1250
// forms so continuation bytes are not clobbered mid-sequence.
var utf8Rewrites = []diacriticRewrite{
	{from: []byte{0xC4, 0x8D}, to: 'c'}, // č
	{from: []byte{0xC4, 0x8C}, to: 'C'}, // Č
	{from: []byte{0xC5, 0xBE}, to: 'z'}, // ž
	{from: []byte{0xC5, 0xBD}, to: 'Z'}, // Ž
	{from: []byte{0xC5, 0xA1}, to: 's'}, // š
	{from: []byte{0xC5, 0xA0}, to: 'S'}, // Š
}

var singleByteRewrites = []diacriticRewrite{
	{from: []byte{0xE8}, to: 'c'}, // č in CP1250
	{from: []byte{0xC8}, to: 'C'}, // Č
	{from: []byte{0x9E}, to: 'z'}, // ž
	{from: []byte{0x8E}, to: 'Z'}, // Ž
	{from: []byte{0x9A}, to: 's'}, // š
	{from: []byte{0x8A}, to: 'S'}, // Š
}

// Text decodes raw bytes into a string. The second return reports whether
// the decode was clean; false means the unconditional Windows-1252
// fallback was taken.
func Text(raw []byte) (string, bool) {
	raw = foldDiacritics(raw)

	// A byte-order mark is authoritative regardless of what the rest of
	// the payload looks like.
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return string(raw[len(bomUTF8):]), true
	case bytes.HasPrefix(raw, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder(), raw[len(bomUTF16LE):]), true
	case bytes.HasPrefix(raw, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder(), raw[len(bomUTF16BE):]), true
	}

	if utf8.Valid(raw) {
		return string(raw), true
	}

	// Central-European code page first: the upstream exports come from
	// that locale, and CP1250 has undefined positions that surface as
	// replacement runes when the guess is wrong.
	if out := decodeWith(charmap.Windows1250.NewDecoder(), raw); !strings.ContainsRune(out, utf8.RuneError) {
		return out, true
	}

	return decodeWith(charmap.Windows1252.NewDecoder(), raw), false
}

// foldDiacritics rewrites the known mixed-encoding diacritics to their
// unaccented ASCII letters.
func foldDiacritics(raw []byte) []byte {
	for _, r := range utf8Rewrites {
		raw = bytes.ReplaceAll(raw, r.from, []byte{r.to})
	}
	for _, r := range singleByteRewrites {
		raw = bytes.ReplaceAll(raw, r.from, []byte{r.to})
	}
	return raw
}

func decodeWith(dec *encoding.Decoder, raw []byte) string {
	out, err := dec.Bytes(raw)
	if err != nil {
		// Charmap decoders do not error; UTF-16 can on odd lengths.
		// Keep whatever decoded.
		return string(out)
	}
	return string(out)
}
