// SPDX-License-Identifier: AGPL-3.0-only

package scanner

// Conditional directives are line anchored and only the "name::" prefix is
// part of the token. The rest of the line is validated by lookahead after the
// token end has been marked, so a malformed directive falls back to plain text.

func (s *Scanner) scanIfdef(c Cursor, _ KindSet, st State) (Kind, State, bool) {
	if !s.scanConditional(c, "ifdef::") {
		return 0, st, false
	}
	return IfdefOpen, st, true
}

func (s *Scanner) scanIfndef(c Cursor, _ KindSet, st State) (Kind, State, bool) {
	if !s.scanConditional(c, "ifndef::") {
		return 0, st, false
	}
	return IfndefOpen, st, true
}

// scanConditional matches "ifdef::a,b[]" style lines. Names are required and
// the brackets may hold single-line content.
func (s *Scanner) scanConditional(c Cursor, prefix string) bool {
	if !s.scanDirectivePrefix(c, prefix) {
		return false
	}
	if !s.scanAttributeNames(c, true) || !matchLiteral(c, "[") {
		return false
	}
	if _, ok := s.scanBracketContent(c); !ok {
		return false
	}
	return finishLine(c, s.cfg.MaxLineLength)
}

// scanIfeval matches "ifeval::[expression]" with a non-blank expression.
func (s *Scanner) scanIfeval(c Cursor, _ KindSet, st State) (Kind, State, bool) {
	if !s.scanDirectivePrefix(c, "ifeval::") || !matchLiteral(c, "[") {
		return 0, st, false
	}
	if nonBlank, ok := s.scanBracketContent(c); !ok || !nonBlank {
		return 0, st, false
	}
	if !finishLine(c, s.cfg.MaxLineLength) {
		return 0, st, false
	}
	return IfevalOpen, st, true
}

// scanEndif matches "endif::[]" or "endif::name[]".
func (s *Scanner) scanEndif(c Cursor, _ KindSet, st State) (Kind, State, bool) {
	if !s.scanDirectivePrefix(c, "endif::") {
		return 0, st, false
	}
	if !s.scanAttributeNames(c, false) || !matchLiteral(c, "[]") {
		return 0, st, false
	}
	if !finishLine(c, s.cfg.MaxLineLength) {
		return 0, st, false
	}
	return EndifDirective, st, true
}

func (s *Scanner) scanDirectivePrefix(c Cursor, prefix string) bool {
	if !c.AtLineStart() || !matchLiteral(c, prefix) {
		return false
	}
	c.MarkEnd()
	return true
}

// scanAttributeNames consumes attribute names joined by "," (any) or "+" (all).
// Empty names are rejected.
func (s *Scanner) scanAttributeNames(c Cursor, required bool) bool {
	names := 0
	n := 0
	for n < s.cfg.MaxBracketContent {
		length := 0
		for ; n < s.cfg.MaxBracketContent && !c.AtEnd() && isAttributeNameChar(c.Peek()); n++ {
			c.AdvanceKeep()
			length++
		}
		if length == 0 {
			return names == 0 && !required
		}
		names++
		if c.AtEnd() || (c.Peek() != ',' && c.Peek() != '+') {
			return true
		}
		c.AdvanceKeep()
		n++
	}
	return false
}

func isAttributeNameChar(r rune) bool {
	return isWordChar(r) || r == '-'
}

// scanBracketContent consumes everything up to and including the closing
// bracket on the current line.
func (s *Scanner) scanBracketContent(c Cursor) (nonBlank bool, ok bool) {
	for n := 0; n < s.cfg.MaxBracketContent && !atLineEnd(c); n++ {
		r := c.Peek()
		c.AdvanceKeep()
		if r == ']' {
			return nonBlank, true
		}
		if !isBlank(r) {
			nonBlank = true
		}
	}
	return nonBlank, false
}
