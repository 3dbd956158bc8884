// SPDX-License-Identifier: AGPL-3.0-only

package scanner

// fenceRule describes how a run of one marker character resolves to a block kind.
type fenceRule struct {
	marker byte
	min    int
	kind   BlockKind
}

var fenceRules = []fenceRule{
	{marker: '|', min: 3, kind: BlockTable},
	{marker: '=', min: 4, kind: BlockExample},
	{marker: '-', min: 2, kind: BlockListing},
	{marker: '.', min: 4, kind: BlockLiteral},
	{marker: '_', min: 4, kind: BlockQuote},
	{marker: '*', min: 4, kind: BlockSidebar},
	{marker: '+', min: 4, kind: BlockPassthrough},
	{marker: '`', min: 3, kind: BlockFencedCode},
	{marker: '~', min: 3, kind: BlockFencedCode},
}

func fenceRuleFor(marker byte) (fenceRule, bool) {
	for _, rule := range fenceRules {
		if rule.marker == marker {
			return rule, true
		}
	}
	return fenceRule{}, false
}

// resolve returns the block kind a run of count markers opens. Dashes are
// overloaded: two open a generic block, three are reserved, four or more
// open a listing block.
func (f fenceRule) resolve(count int) (BlockKind, bool) {
	if f.marker == '-' {
		switch {
		case count == 2:
			return BlockOpen, true
		case count >= 4:
			return BlockListing, true
		}
		return BlockNone, false
	}
	if count < f.min {
		return BlockNone, false
	}
	return f.kind, true
}

// fenceLine is a fully validated fence line.
type fenceLine struct {
	fence Fence
	// info is set when text followed the marker run (a fenced code language).
	info bool
}

// scanFenceLine consumes a fence line through its line break. The marker run
// is always counted to completion before the kind is resolved, so "--" and
// "----" never shadow one another.
func (s *Scanner) scanFenceLine(c Cursor) (fenceLine, bool) {
	if !c.AtLineStart() || c.AtEnd() {
		return fenceLine{}, false
	}
	first := c.Peek()
	if first > 0x7f {
		return fenceLine{}, false
	}
	rule, ok := fenceRuleFor(byte(first))
	if !ok {
		return fenceLine{}, false
	}

	var count int
	if rule.marker == '|' {
		c.AdvanceKeep()
		count = countRun(c, '=', s.cfg.MaxMarkerRun)
	} else {
		count = countRun(c, first, s.cfg.MaxMarkerRun)
	}

	kind, ok := rule.resolve(count)
	if !ok {
		return fenceLine{}, false
	}

	line := fenceLine{fence: Fence{Marker: rule.marker, Count: uint8(count), Kind: kind}}
	if kind == BlockFencedCode {
		line.info = s.skipInfoString(c) > 0
	}
	if !finishLine(c, s.cfg.MaxLineLength) {
		return fenceLine{}, false
	}
	c.MarkEnd()
	return line, true
}

// skipInfoString consumes a fenced code language such as "go" or "c++".
func (s *Scanner) skipInfoString(c Cursor) int {
	keepBlanks(c, s.cfg.MaxLineLength)
	n := 0
	for n < s.cfg.MaxBracketContent && !c.AtEnd() {
		r := c.Peek()
		if !isWordChar(r) && r != '-' && r != '+' && r != '#' && r != '.' {
			break
		}
		c.AdvanceKeep()
		n++
	}
	return n
}

// closes reports whether line terminates the block opened by open.
func (l fenceLine) closes(open Fence) bool {
	return !l.info &&
		l.fence.Marker == open.Marker &&
		l.fence.Kind == open.Kind &&
		l.fence.Count >= open.Count
}

func (s *Scanner) scanFenceEnd(c Cursor, valid KindSet, st State) (Kind, State, bool) {
	if !st.Inside() {
		return 0, st, false
	}
	line, ok := s.scanFenceLine(c)
	if !ok {
		return 0, st, false
	}
	end, _ := line.fence.Kind.EndKind()
	if !valid.Has(end) {
		return 0, st, false
	}

	open, hasFence := st.OpenFence()
	if hasFence && !line.closes(open) {
		return 0, st, false
	}
	// A restored depth-only state has no fence to compare against; any fence
	// line the grammar asks to close with is accepted.
	if !hasFence && line.info {
		return 0, st, false
	}
	return end, st.close(), true
}

func (s *Scanner) scanFenceStart(c Cursor, valid KindSet, st State) (Kind, State, bool) {
	if _, open := st.OpenFence(); open {
		return 0, st, false
	}
	line, ok := s.scanFenceLine(c)
	if !ok {
		return 0, st, false
	}
	start, _ := line.fence.Kind.StartKind()
	if !valid.Has(start) {
		return 0, st, false
	}
	return start, st.open(line.fence), true
}

// isClosingFence reports, without consuming, whether the line at c closes the open fence.
func (s *Scanner) isClosingFence(c Cursor, st State) bool {
	open, ok := st.OpenFence()
	if !ok || !c.AtLineStart() {
		return false
	}
	cp := c.Checkpoint()
	defer c.Restore(cp)
	line, ok := s.scanFenceLine(c)
	return ok && line.closes(open)
}
