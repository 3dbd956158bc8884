// SPDX-License-Identifier: AGPL-3.0-only

package scanner

const (
	minBreakMarkers = 3
	// maxBreakIndent is the deepest indentation still allowed in front of a thematic break.
	maxBreakIndent = 3
)

// scanBreakLine matches a run of at least three markers, optionally separated
// by blanks, alone on its line.
func (s *Scanner) scanBreakLine(c Cursor, markers string) bool {
	if c.AtEnd() {
		return false
	}
	marker := c.Peek()
	found := false
	for _, m := range markers {
		if m == marker {
			found = true
			break
		}
	}
	if !found {
		return false
	}

	count := 0
	for n := 0; n < s.cfg.MaxLineLength && !atLineEnd(c); n++ {
		switch r := c.Peek(); {
		case r == marker:
			count++
		case isBlank(r):
		default:
			return false
		}
		c.AdvanceKeep()
	}
	if count < minBreakMarkers || !consumeLineBreak(c) {
		return false
	}
	c.MarkEnd()
	return true
}

func (s *Scanner) scanThematicBreak(c Cursor, _ KindSet, st State) (Kind, State, bool) {
	if !c.AtLineStart() {
		return 0, st, false
	}
	skipBlanks(c, maxBreakIndent)
	if !s.scanBreakLine(c, "'_*") {
		return 0, st, false
	}
	return ThematicBreak, st, true
}

func (s *Scanner) scanPageBreak(c Cursor, _ KindSet, st State) (Kind, State, bool) {
	if !c.AtLineStart() || !s.scanBreakLine(c, "<") {
		return 0, st, false
	}
	return PageBreak, st, true
}

// scanContentLine consumes a whole non-blank line inside a delimited block.
// Lines longer than MaxLineLength are split at the limit; the remainder is
// picked up by the next scan.
func (s *Scanner) scanContentLine(c Cursor, _ KindSet, st State) (Kind, State, bool) {
	if !st.Inside() || atLineEnd(c) || s.isClosingFence(c, st) {
		return 0, st, false
	}

	nonBlank := false
	n := 0
	for ; n < s.cfg.MaxLineLength && !atLineEnd(c); n++ {
		if !isBlank(c.Peek()) {
			nonBlank = true
		}
		c.AdvanceKeep()
	}
	if !nonBlank {
		return 0, st, false
	}
	if n < s.cfg.MaxLineLength {
		consumeLineBreak(c)
	}
	c.MarkEnd()
	return DelimitedBlockContentLine, st, true
}

// scanBlockAnchor matches a "[[id]]" or "[[id,reftext]]" line.
func (s *Scanner) scanBlockAnchor(c Cursor, _ KindSet, st State) (Kind, State, bool) {
	if !c.AtLineStart() || !matchLiteral(c, "[[") {
		return 0, st, false
	}
	if c.AtEnd() || !isIDStart(c.Peek()) {
		return 0, st, false
	}
	n := 0
	for ; n < s.cfg.MaxBracketContent && !c.AtEnd() && isIDChar(c.Peek()); n++ {
		c.AdvanceKeep()
	}
	if !c.AtEnd() && c.Peek() == ',' {
		for ; n < s.cfg.MaxBracketContent && !atLineEnd(c) && c.Peek() != ']'; n++ {
			c.AdvanceKeep()
		}
	}
	if !matchLiteral(c, "]]") || !finishLine(c, s.cfg.MaxLineLength) {
		return 0, st, false
	}
	c.MarkEnd()
	return BlockAnchor, st, true
}

func isIDStart(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || r == '_' || r == ':'
}

func isIDChar(r rune) bool {
	return isWordChar(r) || r == '-' || r == '.' || r == ':'
}

// scanAttributeListStart matches the "[" of a block attribute line such as
// "[source,go]". Only the bracket is part of the token.
func (s *Scanner) scanAttributeListStart(c Cursor, _ KindSet, st State) (Kind, State, bool) {
	if !c.AtLineStart() || c.AtEnd() || c.Peek() != '[' {
		return 0, st, false
	}
	c.AdvanceKeep()
	c.MarkEnd()
	if c.AtEnd() || c.Peek() == '[' {
		return 0, st, false
	}

	var last rune
	for n := 0; n < s.cfg.MaxLineLength && !atLineEnd(c); n++ {
		if r := c.Peek(); !isBlank(r) {
			last = r
		}
		c.AdvanceKeep()
	}
	if last != ']' || !atLineEnd(c) {
		return 0, st, false
	}
	return AttributeListStart, st, true
}

// scanBlockTitle matches the "." of a ".Title" line.
func (s *Scanner) scanBlockTitle(c Cursor, _ KindSet, st State) (Kind, State, bool) {
	if !c.AtLineStart() || c.AtEnd() || c.Peek() != '.' {
		return 0, st, false
	}
	c.AdvanceKeep()
	c.MarkEnd()
	if atLineEnd(c) {
		return 0, st, false
	}
	if r := c.Peek(); isBlank(r) || r == '.' {
		return 0, st, false
	}
	return BlockTitle, st, true
}

// scanDescriptionListSep matches "::" followed by a blank or the line end.
// At the start of a line the grammar's plain colon takes precedence.
func (s *Scanner) scanDescriptionListSep(c Cursor, valid KindSet, st State) (Kind, State, bool) {
	if c.AtLineStart() && valid.Has(PlainColon) {
		return 0, st, false
	}
	if !matchLiteral(c, "::") {
		return 0, st, false
	}
	c.MarkEnd()
	if !atLineEnd(c) && !isBlank(c.Peek()) {
		return 0, st, false
	}
	return DescriptionListSep, st, true
}

// scanDescriptionListItem matches a whole "term:: description" line. The
// separator may be two to four colons or a double semicolon.
func (s *Scanner) scanDescriptionListItem(c Cursor, _ KindSet, st State) (Kind, State, bool) {
	if !c.AtLineStart() {
		return 0, st, false
	}

	term := false
	found := false
	for n := 0; n < s.cfg.MaxLineLength && !atLineEnd(c); n++ {
		r := c.Peek()
		if (r == ':' || r == ';') && term && s.scanItemSeparator(c, r) {
			found = true
			break
		}
		if !isBlank(r) {
			term = true
		}
		c.AdvanceKeep()
	}
	if !found {
		return 0, st, false
	}

	for n := 0; n < s.cfg.MaxLineLength && !atLineEnd(c); n++ {
		c.AdvanceKeep()
	}
	consumeLineBreak(c)
	c.MarkEnd()
	return DescriptionListItem, st, true
}

// scanItemSeparator consumes a description separator when one starts at c.
// On failure the cursor is left where it was.
func (s *Scanner) scanItemSeparator(c Cursor, sep rune) bool {
	cp := c.Checkpoint()
	limit := 4
	if sep == ';' {
		limit = 2
	}
	if n := countRun(c, sep, limit); n >= 2 && (atLineEnd(c) || isBlank(c.Peek())) {
		return true
	}
	c.Restore(cp)
	return false
}
