// SPDX-License-Identifier: AGPL-3.0-only

package scanner

import "unicode/utf8"

// BufferCursor is a Cursor over an in-memory document. It behaves like the
// lexer an incremental parser hands to its external scanner: the token starts
// where the cursor was created, AdvanceSkip moves the start forward, and the
// token ends at the last MarkEnd (or at the lookahead if MarkEnd was never
// called).
type BufferCursor struct {
	src []byte

	pos    int
	start  int
	end    int
	marked bool

	row int
	col int

	noColumn bool
}

// NewBufferCursor returns a cursor positioned at offset pos of src. The row
// and column are derived from the preceding bytes.
func NewBufferCursor(src []byte, pos int) *BufferCursor {
	if pos > len(src) {
		pos = len(src)
	}
	c := &BufferCursor{src: src}
	for c.pos < pos {
		c.advance()
	}
	c.Reset()
	return c
}

// WithoutColumn makes the cursor behave like a host that cannot report
// columns: AtLineStart always returns true.
func (c *BufferCursor) WithoutColumn() *BufferCursor {
	c.noColumn = true
	return c
}

// Reset starts a new token at the current lookahead.
func (c *BufferCursor) Reset() {
	c.start = c.pos
	c.end = c.pos
	c.marked = false
}

// Seek moves the cursor to pos and starts a new token there.
func (c *BufferCursor) Seek(pos int) {
	if pos < c.pos {
		c.pos, c.row, c.col = 0, 0, 0
	}
	if pos > len(c.src) {
		pos = len(c.src)
	}
	for c.pos < pos {
		c.advance()
	}
	c.Reset()
}

func (c *BufferCursor) Peek() rune {
	if c.pos >= len(c.src) {
		return 0
	}
	r, _ := utf8.DecodeRune(c.src[c.pos:])
	return r
}

func (c *BufferCursor) advance() {
	if c.pos >= len(c.src) {
		return
	}
	r, size := utf8.DecodeRune(c.src[c.pos:])
	c.pos += size
	if r == '\n' {
		c.row++
		c.col = 0
	} else if r == '\r' && (c.pos >= len(c.src) || c.src[c.pos] != '\n') {
		c.row++
		c.col = 0
	} else if r != '\r' {
		c.col++
	}
}

func (c *BufferCursor) AdvanceKeep() {
	c.advance()
}

func (c *BufferCursor) AdvanceSkip() {
	c.advance()
	c.start = c.pos
	c.end = c.pos
	c.marked = false
}

func (c *BufferCursor) AtLineStart() bool {
	return c.noColumn || c.col == 0
}

func (c *BufferCursor) AtEnd() bool {
	return c.pos >= len(c.src)
}

func (c *BufferCursor) MarkEnd() {
	c.end = c.pos
	c.marked = true
}

func (c *BufferCursor) Checkpoint() Checkpoint {
	return Checkpoint{
		Offset: c.pos,
		Start:  c.start,
		End:    c.end,
		Marked: c.marked,
		Row:    c.row,
		Column: c.col,
	}
}

func (c *BufferCursor) Restore(cp Checkpoint) {
	c.pos = cp.Offset
	c.start = cp.Start
	c.end = cp.End
	c.marked = cp.Marked
	c.row = cp.Row
	c.col = cp.Column
}

// Offset returns the byte offset of the lookahead character.
func (c *BufferCursor) Offset() int {
	return c.pos
}

// Row returns the zero-based line of the lookahead character.
func (c *BufferCursor) Row() int {
	return c.row
}

// Column returns the zero-based column, in characters, of the lookahead.
func (c *BufferCursor) Column() int {
	return c.col
}

// Token returns the byte span of the token built since the last Reset.
func (c *BufferCursor) Token() (start, end int) {
	end = c.pos
	if c.marked {
		end = c.end
	}
	if end < c.start {
		end = c.start
	}
	return c.start, end
}
