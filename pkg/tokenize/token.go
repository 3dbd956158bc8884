// SPDX-License-Identifier: AGPL-3.0-only

package tokenize

import (
	"strings"
	"unicode/utf8"

	"github.com/grafana/asciidoc-scanner/pkg/scanner"
)

// Names of the tokens the host produces itself when the scanner declines.
const (
	TextToken    = "TEXT"
	NewlineToken = "NEWLINE"
)

// Token is one entry of a document's token stream. External tokens come from
// the scanner; the others are the host's fallback tokenization.
type Token struct {
	Name     string       `json:"kind" yaml:"kind"`
	Kind     scanner.Kind `json:"-" yaml:"-"`
	External bool         `json:"external" yaml:"external"`
	Start    int          `json:"start" yaml:"start"`
	End      int          `json:"end" yaml:"end"`
	// Line is the zero-based line the token starts on.
	Line int `json:"line" yaml:"line"`
}

func (t Token) Text(src []byte) string {
	return string(src[t.Start:t.End])
}

// interestingBytes are the characters the scanner may claim in the middle of
// a line. Fallback text stops in front of them.
const interestingBytes = "*_^'\"<>-.:"

// fallback returns the host token starting at offset: a line break, or a run
// of text up to the next line break or character the scanner might claim.
func fallback(src []byte, offset int) (string, int) {
	switch src[offset] {
	case '\n':
		return NewlineToken, offset + 1
	case '\r':
		if offset+1 < len(src) && src[offset+1] == '\n' {
			return NewlineToken, offset + 2
		}
		return NewlineToken, offset + 1
	}

	_, size := utf8.DecodeRune(src[offset:])
	end := offset + size
	for end < len(src) && !stopsText(src, end) {
		_, size = utf8.DecodeRune(src[end:])
		end += size
	}
	return TextToken, end
}

func stopsText(src []byte, i int) bool {
	switch b := src[i]; {
	case b == '\n' || b == '\r':
		return true
	case strings.IndexByte(interestingBytes, b) >= 0:
		return true
	}
	for _, scheme := range scanner.AutolinkSchemes {
		if len(src)-i >= len(scheme) && string(src[i:i+len(scheme)]) == scheme {
			return true
		}
	}
	return false
}

// LineOf returns the zero-based line of src containing offset. CR, LF and
// CRLF each end a line.
func LineOf(src []byte, offset int) int {
	n := 0
	for i := 0; i < offset && i < len(src); i++ {
		switch src[i] {
		case '\n':
			n++
		case '\r':
			if i+1 >= len(src) || src[i+1] != '\n' {
				n++
			}
		}
	}
	return n
}

// countLines returns the number of line breaks in b.
func countLines(b []byte) int {
	return LineOf(b, len(b))
}

func isLineBreak(b byte) bool {
	return b == '\n' || b == '\r'
}
