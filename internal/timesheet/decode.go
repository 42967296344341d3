package timesheet

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeInput returns a reader producing UTF-8 text. A byte order mark selects
// UTF-8 or UTF-16 and is stripped. Without one the data is taken as UTF-8 when
// valid, otherwise as Windows-1252, which is what spreadsheet tools save by default.
func decodeInput(data []byte) io.Reader {
	fallback := unicode.UTF8.NewDecoder()
	if !utf8.Valid(data) {
		fallback = charmap.Windows1252.NewDecoder()
	}
	return transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(fallback.Transformer))
}
