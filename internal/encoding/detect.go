// Package encoding turns imported statement files into UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names as reported by NewUTF8Reader.
const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1251 = "windows-1251"
	Windows1252 = "windows-1252"
	KOI8R       = "KOI8-R"
	ISO88599    = "ISO-8859-9"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

var charsets = map[string]xencoding.Encoding{
	UTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	UTF16BE:     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	Windows1251: charmap.Windows1251,
	Windows1252: charmap.Windows1252,
	KOI8R:       charmap.KOI8R,
	ISO88599:    charmap.ISO8859_9,
}

// NewUTF8Reader returns a reader yielding r as UTF-8, together with the
// charset it was read as.
//
// Detection order:
//  1. BOM (a UTF-8 BOM is stripped, UTF-16 is decoded)
//  2. valid UTF-8 passes through
//  3. single-byte text whose words are made of high bytes is Cyrillic:
//     windows-1251 unless chardet is confident it is KOI8-R
//  4. chardet for Latin charsets, falling back to windows-1252
func NewUTF8Reader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, UTF8, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return decode(br, UTF16LE)
	case bytes.HasPrefix(buf, bomUTF16BE):
		return decode(br, UTF16BE)
	case validUTF8(buf, err == nil):
		return br, UTF8, nil
	}

	guess, confidence := "", 0
	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		guess, confidence = result.Charset, result.Confidence
	}

	if cyrillic(buf) {
		if guess == KOI8R && confidence >= 90 {
			return decode(br, KOI8R)
		}

		return decode(br, Windows1251)
	}

	switch guess {
	case UTF8:
		return br, UTF8, nil
	case ISO88599:
		return decode(br, ISO88599)
	}

	return decode(br, Windows1252)
}

// validUTF8 validates buf, ignoring a multi-byte sequence cut off at the end
// of a partial window.
func validUTF8(buf []byte, partial bool) bool {
	if partial {
		for i := len(buf) - 1; i >= 0 && i >= len(buf)-utf8.UTFMax; i-- {
			if utf8.RuneStart(buf[i]) {
				if !utf8.FullRune(buf[i:]) {
					buf = buf[:i]
				}

				break
			}
		}
	}

	return utf8.Valid(buf)
}

func decode(r io.Reader, charset string) (io.Reader, string, error) {
	return transform.NewReader(r, charsets[charset].NewDecoder()), charset, nil
}

// cyrillic reports whether most high bytes in buf sit in runs of three or
// more. Cyrillic words in single-byte charsets are made only of high bytes,
// while Latin text uses them for the odd accented letter.
func cyrillic(buf []byte) bool {
	var high, inRuns, run int

	flush := func() {
		if run >= 3 {
			inRuns += run
		}

		run = 0
	}

	for _, b := range buf {
		if b < 0x80 {
			flush()
			continue
		}

		high++
		run++
	}

	flush()

	return high > 0 && inRuns*2 > high
}
