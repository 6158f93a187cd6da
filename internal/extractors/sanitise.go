package extractors

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const byteOrderMark = "\uFEFF"

// Sanitise strips a leading byte order mark, replaces invalid UTF-8
// sequences and normalises the result to NFC.
func Sanitise(s string) string {
	s = strings.TrimPrefix(s, byteOrderMark)
	s = strings.ToValidUTF8(s, "")
	return norm.NFC.String(s)
}
