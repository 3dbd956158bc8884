// SPDX-License-Identifier: AGPL-3.0-only

package scanner

// maxUnorderedDepth is the longest run of asterisks accepted as a nested unordered marker.
const maxUnorderedDepth = 5

// listIndent skips the indentation in front of a list marker. List markers
// are only recognized on a line whose prefix is pure indentation.
func (s *Scanner) listIndent(c Cursor) (int, bool) {
	if !c.AtLineStart() {
		return 0, false
	}
	return skipBlanks(c, s.cfg.MaxIndent), true
}

// pickListKind selects the indented kind for indented markers when the grammar
// asks for it, falling back to the top-level kind.
func pickListKind(indent int, top, nested Kind, valid KindSet) (Kind, bool) {
	switch {
	case indent > 0 && valid.Has(nested):
		return nested, true
	case valid.Has(top):
		return top, true
	}
	return 0, false
}

// finishMarker requires and keeps the blanks that follow a marker.
func (s *Scanner) finishMarker(c Cursor) bool {
	if c.AtEnd() || !isBlank(c.Peek()) {
		return false
	}
	keepBlanks(c, s.cfg.MaxLineLength)
	c.MarkEnd()
	return true
}

func (s *Scanner) scanUnorderedMarker(c Cursor, valid KindSet, st State) (Kind, State, bool) {
	indent, ok := s.listIndent(c)
	if !ok || c.AtEnd() {
		return 0, st, false
	}

	switch c.Peek() {
	case '*':
		countRun(c, '*', maxUnorderedDepth)
		if !c.AtEnd() && c.Peek() == '*' {
			return 0, st, false
		}
	case '-':
		c.AdvanceKeep()
	default:
		return 0, st, false
	}

	if !s.finishMarker(c) {
		return 0, st, false
	}
	k, ok := pickListKind(indent, ListUnorderedMarker, ListUnorderedMarkerIndented, valid)
	return k, st, ok
}

func (s *Scanner) scanOrderedMarker(c Cursor, valid KindSet, st State) (Kind, State, bool) {
	indent, ok := s.listIndent(c)
	if !ok {
		return 0, st, false
	}

	digits := 0
	for digits < s.cfg.MaxDigits && !c.AtEnd() && isDigit(c.Peek()) {
		c.AdvanceKeep()
		digits++
	}
	if digits == 0 || c.AtEnd() || c.Peek() != '.' {
		return 0, st, false
	}
	c.AdvanceKeep()

	if !s.finishMarker(c) {
		return 0, st, false
	}
	k, ok := pickListKind(indent, ListOrderedMarker, ListOrderedMarkerIndented, valid)
	return k, st, ok
}

// scanListContinuation matches a line holding a single "+".
func (s *Scanner) scanListContinuation(c Cursor, _ KindSet, st State) (Kind, State, bool) {
	if _, ok := s.listIndent(c); !ok {
		return 0, st, false
	}
	if c.AtEnd() || c.Peek() != '+' {
		return 0, st, false
	}
	c.AdvanceKeep()
	if !finishLine(c, s.cfg.MaxLineLength) {
		return 0, st, false
	}
	c.MarkEnd()
	return ListContinuation, st, true
}

// scanCalloutMarker matches "<1> " or "<.> " at the start of a line.
func (s *Scanner) scanCalloutMarker(c Cursor, _ KindSet, st State) (Kind, State, bool) {
	if !c.AtLineStart() || c.AtEnd() || c.Peek() != '<' {
		return 0, st, false
	}
	c.AdvanceKeep()

	if !c.AtEnd() && c.Peek() == '.' {
		c.AdvanceKeep()
	} else {
		digits := 0
		for digits < s.cfg.MaxDigits && !c.AtEnd() && isDigit(c.Peek()) {
			c.AdvanceKeep()
			digits++
		}
		if digits == 0 {
			return 0, st, false
		}
	}
	if c.AtEnd() || c.Peek() != '>' {
		return 0, st, false
	}
	c.AdvanceKeep()

	if !s.finishMarker(c) {
		return 0, st, false
	}
	return CalloutMarker, st, true
}
