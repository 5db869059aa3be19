package core

// encoding.go recovers text from uploaded bytes.
//
// Spreadsheet exports arrive as UTF-8 (with or without BOM) or in the legacy
// Windows code page. The chain below never fails: the last step maps every
// byte to a rune, so downstream validation always gets something to judge.

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Encoding names reported in ImportSummary.Encoding.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
	EncodingLatin1      = "iso-8859-1"
	EncodingWorkbook    = "xlsx"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// legacyDecoders are tried in order when the UTF-8 decode is lossy.
var legacyDecoders = []struct {
	name string
	enc  encoding.Encoding
}{
	{EncodingWindows1252, charmap.Windows1252},
}

// DecodeText converts raw file bytes to text and reports the encoding used.
//
// The bytes are first decoded as UTF-8. If that produces the replacement
// character, they are re-decoded with each legacy decoder and finally with a
// direct Latin-1 mapping.
func DecodeText(data []byte) (string, string) {
	data = bytes.TrimPrefix(data, utf8BOM)

	text := strings.ToValidUTF8(string(data), string(utf8.RuneError))
	if !strings.ContainsRune(text, utf8.RuneError) {
		return text, EncodingUTF8
	}

	for _, d := range legacyDecoders {
		out, err := d.enc.NewDecoder().Bytes(data)
		if err == nil && utf8.Valid(out) {
			return string(out), d.name
		}
	}

	return decodeLatin1(data), EncodingLatin1
}

// decodeLatin1 maps each byte to the rune with the same value.
func decodeLatin1(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		b.WriteRune(rune(c))
	}
	return b.String()
}
