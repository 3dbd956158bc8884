// SPDX-License-Identifier: AGPL-3.0-only

// Package scanner implements the external scanner of an AsciiDoc grammar:
// the context sensitive tokens (delimited block fences, list markers,
// directives, plain punctuation) the declarative grammar cannot express.
//
// A scan is driven by the host parser. It passes the scanner state, a cursor
// and the set of token kinds it would accept, and receives at most one token
// together with the next state. A scan that finds nothing leaves the cursor
// untouched and the host falls back to its own tokenization.
package scanner

import (
	"github.com/pkg/errors"
)

// Token is the result of a successful scan. Start and End are the byte
// offsets reported by the cursor.
type Token struct {
	Kind  Kind
	Start int
	End   int
}

type scanFunc func(s *Scanner, c Cursor, valid KindSet, st State) (Kind, State, bool)

// recognizer is one lexical category. It is skipped unless the grammar
// accepts at least one of the kinds it can produce.
type recognizer struct {
	name  string
	kinds KindSet
	scan  scanFunc
}

// run tries the recognizer and restores the cursor if it does not match or
// matched a kind the grammar did not ask for.
func (r recognizer) run(s *Scanner, c Cursor, valid KindSet, st State) (Kind, State, bool) {
	if valid.Intersect(r.kinds).Empty() {
		return 0, st, false
	}
	cp := c.Checkpoint()
	k, next, ok := r.scan(s, c, valid, st)
	if !ok || !valid.Has(k) {
		c.Restore(cp)
		return 0, st, false
	}
	return k, next, true
}

var (
	fenceEnd    = recognizer{"fence_end", FenceEndKinds, (*Scanner).scanFenceEnd}
	contentLine = recognizer{"content_line", NewKindSet(DelimitedBlockContentLine), (*Scanner).scanContentLine}

	// insideRecognizers run first while a delimited block is open. Fence end
	// always wins over the content line.
	insideRecognizers = []recognizer{fenceEnd, contentLine}

	// blockRecognizers are tried in priority order. Earlier entries shadow
	// later ones that share a prefix.
	blockRecognizers = []recognizer{
		{"fence_start", FenceStartKinds, (*Scanner).scanFenceStart},
		{"thematic_break", NewKindSet(ThematicBreak), (*Scanner).scanThematicBreak},
		{"page_break", NewKindSet(PageBreak), (*Scanner).scanPageBreak},
		{"list_continuation", NewKindSet(ListContinuation), (*Scanner).scanListContinuation},
		{"unordered_marker", NewKindSet(ListUnorderedMarker, ListUnorderedMarkerIndented), (*Scanner).scanUnorderedMarker},
		{"ordered_marker", NewKindSet(ListOrderedMarker, ListOrderedMarkerIndented), (*Scanner).scanOrderedMarker},
		{"ifndef", NewKindSet(IfndefOpen), (*Scanner).scanIfndef},
		{"ifdef", NewKindSet(IfdefOpen), (*Scanner).scanIfdef},
		{"ifeval", NewKindSet(IfevalOpen), (*Scanner).scanIfeval},
		{"endif", NewKindSet(EndifDirective), (*Scanner).scanEndif},
		{"block_anchor", NewKindSet(BlockAnchor), (*Scanner).scanBlockAnchor},
		{"attribute_list_start", NewKindSet(AttributeListStart), (*Scanner).scanAttributeListStart},
		{"callout_marker", NewKindSet(CalloutMarker), (*Scanner).scanCalloutMarker},
		{"description_list_item", NewKindSet(DescriptionListItem), (*Scanner).scanDescriptionListItem},
		{"description_list_sep", NewKindSet(DescriptionListSep), (*Scanner).scanDescriptionListSep},
		{"block_title", NewKindSet(BlockTitle), (*Scanner).scanBlockTitle},
		{"autolink_boundary", NewKindSet(AutolinkBoundary), (*Scanner).scanAutolinkBoundary},
		{"plain_punctuation", PlainKinds, (*Scanner).scanPlainPunct},
	}
)

// Scanner holds the immutable configuration of the external scanner. It is
// safe for concurrent use; all per-session data lives in State.
type Scanner struct {
	cfg       Config
	supported KindSet
}

func New(cfg Config) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid scanner config")
	}
	supported, err := cfg.supported()
	if err != nil {
		return nil, err
	}
	return &Scanner{cfg: cfg, supported: supported}, nil
}

// Supported returns the kinds this scanner may emit.
func (s *Scanner) Supported() KindSet {
	return s.supported
}

// Scan recognizes at most one token at the cursor. On success it returns the
// token and the state to use for the next scan. On failure the cursor is left
// where it was and st is returned unchanged.
func (s *Scanner) Scan(st State, c Cursor, valid KindSet) (Token, State, bool) {
	valid = valid.Intersect(s.supported)
	if valid.Empty() || c.AtEnd() {
		return Token{}, st, false
	}

	if st.Inside() {
		if tok, next, ok := s.try(insideRecognizers, st, c, valid); ok {
			return tok, next, true
		}
	}
	return s.try(blockRecognizers, st, c, valid)
}

func (s *Scanner) try(recognizers []recognizer, st State, c Cursor, valid KindSet) (Token, State, bool) {
	for _, r := range recognizers {
		k, next, ok := r.run(s, c, valid, st)
		if !ok {
			continue
		}
		cp := c.Checkpoint()
		return Token{Kind: k, Start: cp.Start, End: cp.TokenEnd()}, next, true
	}
	return Token{}, st, false
}

// Instance keeps a State behind the create/scan/serialize/deserialize
// lifecycle used by hosts that store an opaque scanner payload.
type Instance struct {
	scanner *Scanner
	state   State
}

// NewInstance returns an instance with a zero state.
func (s *Scanner) NewInstance() *Instance {
	return &Instance{scanner: s}
}

// Scan runs one scan with the host's valid-symbols array.
func (i *Instance) Scan(c Cursor, validSymbols []bool) (Kind, bool) {
	tok, next, ok := i.scanner.Scan(i.state, c, KindSetFromBools(validSymbols))
	if !ok {
		return 0, false
	}
	i.state = next
	return tok.Kind, true
}

func (i *Instance) State() State { return i.state }

func (i *Instance) Serialize(buf []byte) int {
	return i.state.Serialize(buf)
}

func (i *Instance) Deserialize(buf []byte) {
	i.state = Deserialize(buf)
}
