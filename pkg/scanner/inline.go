// SPDX-License-Identifier: AGPL-3.0-only

package scanner

type plainPunct struct {
	kind Kind
	// closer is the delimiter that would pair with this character, or 0 if
	// the character never opens markup.
	closer rune
}

var plainPuncts = map[rune]plainPunct{
	'*':  {kind: PlainStar, closer: '*'},
	'_':  {kind: PlainUnderscore, closer: '_'},
	'^':  {kind: PlainCaret, closer: '^'},
	'\'': {kind: PlainApostrophe, closer: '\''},
	'"':  {kind: PlainQuote, closer: '"'},
	'<':  {kind: PlainLessThan, closer: '>'},
	'-':  {kind: PlainDash},
	'>':  {kind: PlainGreaterThan},
	'.':  {kind: PlainDot},
	':':  {kind: PlainColon},
}

// PlainKinds is the set of plain punctuation kinds.
var PlainKinds = func() KindSet {
	var s KindSet
	for _, p := range plainPuncts {
		s = s.With(p.kind)
	}
	return s
}()

// scanPlainPunct emits a punctuation character as plain text, but only when
// it cannot open a delimited span: a character followed by a blank never
// opens one, otherwise the rest of the line is searched for a closer that
// follows a non-blank. When a closer exists the markup interpretation is
// left to the grammar.
func (s *Scanner) scanPlainPunct(c Cursor, valid KindSet, st State) (Kind, State, bool) {
	if c.AtEnd() {
		return 0, st, false
	}
	opener := c.Peek()
	p, ok := plainPuncts[opener]
	if !ok || !valid.Has(p.kind) {
		return 0, st, false
	}
	c.AdvanceKeep()
	c.MarkEnd()

	if p.closer == 0 || atLineEnd(c) || isBlank(c.Peek()) {
		return p.kind, st, true
	}

	prev := opener
	for n := 0; n < s.cfg.MaxLineLength && !atLineEnd(c); n++ {
		r := c.Peek()
		if r == p.closer && !isBlank(prev) {
			return 0, st, false
		}
		prev = r
		c.AdvanceKeep()
	}
	return p.kind, st, true
}

// AutolinkSchemes are the URL prefixes an autolink boundary is emitted in front of.
var AutolinkSchemes = []string{"https://", "http://", "ftp://", "irc://", "mailto:"}

// scanAutolinkBoundary emits an empty token in front of a URL scheme.
func (s *Scanner) scanAutolinkBoundary(c Cursor, _ KindSet, st State) (Kind, State, bool) {
	c.MarkEnd()
	for _, scheme := range AutolinkSchemes {
		cp := c.Checkpoint()
		if matchLiteral(c, scheme) && !atLineEnd(c) && !isBlank(c.Peek()) {
			return AutolinkBoundary, st, true
		}
		c.Restore(cp)
	}
	return 0, st, false
}
