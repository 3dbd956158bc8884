// SPDX-License-Identifier: AGPL-3.0-only

package scanner

// Cursor is the host-provided character cursor a scan runs against.
//
// Consumed characters are part of the token being built unless they are
// consumed with AdvanceSkip, which moves the token start past them. MarkEnd
// fixes the end of the token so a recognizer can keep looking ahead without
// charging the lookahead to the token.
type Cursor interface {
	// Peek returns the lookahead character, or 0 at end of input.
	Peek() rune
	AdvanceKeep()
	AdvanceSkip()
	// AtLineStart reports whether nothing has been consumed on the current
	// line. Hosts that cannot tell must return true.
	AtLineStart() bool
	AtEnd() bool
	MarkEnd()

	Checkpoint() Checkpoint
	Restore(Checkpoint)
}

// Checkpoint is a snapshot of a cursor. Restoring it undoes every advance
// and mark made since it was taken.
type Checkpoint struct {
	// Offset is the byte offset of the lookahead character.
	Offset int
	// Start is the byte offset where the current token begins.
	Start int
	// End is the committed token end. Only meaningful when Marked is set.
	End    int
	Marked bool

	Row    int
	Column int
}

// TokenEnd returns the end of the token as of the checkpoint: the committed
// end if one was marked, the lookahead offset otherwise.
func (cp Checkpoint) TokenEnd() int {
	if cp.Marked {
		return cp.End
	}
	return cp.Offset
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

func isLineBreak(r rune) bool {
	return r == '\n' || r == '\r'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isWordChar(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || isDigit(r) || r == '_'
}

// atLineEnd reports whether the lookahead is a line break or the end of input.
func atLineEnd(c Cursor) bool {
	return c.AtEnd() || isLineBreak(c.Peek())
}

// consumeLineBreak consumes CR, LF or CRLF, or succeeds without consuming at
// end of input. It fails without consuming anything otherwise.
func consumeLineBreak(c Cursor) bool {
	if c.AtEnd() {
		return true
	}
	switch c.Peek() {
	case '\r':
		c.AdvanceKeep()
		if !c.AtEnd() && c.Peek() == '\n' {
			c.AdvanceKeep()
		}
		return true
	case '\n':
		c.AdvanceKeep()
		return true
	}
	return false
}

// keepBlanks consumes up to limit spaces and tabs into the token.
func keepBlanks(c Cursor, limit int) int {
	n := 0
	for n < limit && !c.AtEnd() && isBlank(c.Peek()) {
		c.AdvanceKeep()
		n++
	}
	return n
}

// skipBlanks consumes up to limit spaces and tabs without adding them to the token.
func skipBlanks(c Cursor, limit int) int {
	n := 0
	for n < limit && !c.AtEnd() && isBlank(c.Peek()) {
		c.AdvanceSkip()
		n++
	}
	return n
}

// countRun consumes up to limit consecutive copies of marker.
func countRun(c Cursor, marker rune, limit int) int {
	n := 0
	for n < limit && !c.AtEnd() && c.Peek() == marker {
		c.AdvanceKeep()
		n++
	}
	return n
}

// finishLine accepts trailing blanks followed by a line break, consuming both.
func finishLine(c Cursor, limit int) bool {
	keepBlanks(c, limit)
	return consumeLineBreak(c)
}

// matchLiteral consumes s if the input continues with it. On mismatch a prefix
// of s may have been consumed; recognizers always run under a checkpoint.
func matchLiteral(c Cursor, s string) bool {
	for _, r := range s {
		if c.AtEnd() || c.Peek() != r {
			return false
		}
		c.AdvanceKeep()
	}
	return true
}
