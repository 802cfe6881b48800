package ingest

import (
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Detection results below this confidence are treated as unreliable and the
// UTF-8 fallback is used instead.
const minDetectConfidence = 40

// DecodeText converts a raw byte payload to UTF-8 text. The source charset
// is detected heuristically; detection failure, low confidence, or an
// unknown charset name all fall back to UTF-8. Byte sequences that cannot
// be decoded are dropped, not fatal.
func DecodeText(raw []byte) string {
	dec := detectEncoding(raw).NewDecoder()
	decoded, err := dec.Bytes(raw)
	if err != nil {
		decoded = raw
	}
	return dropInvalidRunes(string(decoded))
}

func detectEncoding(raw []byte) encoding.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil || result == nil || result.Confidence < minDetectConfidence {
		return unicode.UTF8
	}
	enc, err := htmlindex.Get(strings.ToLower(result.Charset))
	if err != nil {
		return unicode.UTF8
	}
	return enc
}

// dropInvalidRunes removes replacement characters produced by lossy
// decoding, mirroring a decode with undecodable input ignored.
func dropInvalidRunes(s string) string {
	if utf8.ValidString(s) && !strings.ContainsRune(s, utf8.RuneError) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r == utf8.RuneError {
			return -1
		}
		return r
	}, s)
}
