// SPDX-License-Identifier: AGPL-3.0-only

package scanner

import (
	"fmt"
	"math/bits"
	"strings"
)

// Kind identifies a token the scanner can emit. The ordinal values are shared
// with the grammar's externals list and must never be reordered: new kinds are
// appended at the end.
type Kind uint8

const (
	TableFenceStart Kind = iota
	TableFenceEnd
	ExampleFenceStart
	ExampleFenceEnd
	ListingFenceStart
	ListingFenceEnd
	LiteralFenceStart
	LiteralFenceEnd
	QuoteFenceStart
	QuoteFenceEnd
	SidebarFenceStart
	SidebarFenceEnd
	PassthroughFenceStart
	PassthroughFenceEnd
	OpenBlockFenceStart
	OpenBlockFenceEnd
	ListContinuation
	AutolinkBoundary
	AttributeListStart
	DelimitedBlockContentLine
	BlockAnchor
	ListUnorderedMarker
	ListOrderedMarker
	DescriptionListSep
	DescriptionListItem
	CalloutMarker
	IfdefOpen
	IfndefOpen
	IfevalOpen
	EndifDirective

	ListUnorderedMarkerIndented
	ListOrderedMarkerIndented
	ThematicBreak
	PageBreak
	FencedCodeStart
	FencedCodeEnd
	BlockTitle
	PlainDot
	PlainColon
	PlainStar
	PlainUnderscore
	PlainDash
	PlainApostrophe
	PlainQuote
	PlainCaret
	PlainLessThan
	PlainGreaterThan

	// NumKinds is the size of the vocabulary.
	NumKinds int = iota
)

var kindNames = [NumKinds]string{
	TableFenceStart:             "TABLE_FENCE_START",
	TableFenceEnd:               "TABLE_FENCE_END",
	ExampleFenceStart:           "EXAMPLE_FENCE_START",
	ExampleFenceEnd:             "EXAMPLE_FENCE_END",
	ListingFenceStart:           "LISTING_FENCE_START",
	ListingFenceEnd:             "LISTING_FENCE_END",
	LiteralFenceStart:           "LITERAL_FENCE_START",
	LiteralFenceEnd:             "LITERAL_FENCE_END",
	QuoteFenceStart:             "QUOTE_FENCE_START",
	QuoteFenceEnd:               "QUOTE_FENCE_END",
	SidebarFenceStart:           "SIDEBAR_FENCE_START",
	SidebarFenceEnd:             "SIDEBAR_FENCE_END",
	PassthroughFenceStart:       "PASSTHROUGH_FENCE_START",
	PassthroughFenceEnd:         "PASSTHROUGH_FENCE_END",
	OpenBlockFenceStart:         "OPENBLOCK_FENCE_START",
	OpenBlockFenceEnd:           "OPENBLOCK_FENCE_END",
	ListContinuation:            "LIST_CONTINUATION",
	AutolinkBoundary:            "AUTOLINK_BOUNDARY",
	AttributeListStart:          "ATTRIBUTE_LIST_START",
	DelimitedBlockContentLine:   "DELIMITED_BLOCK_CONTENT_LINE",
	BlockAnchor:                 "BLOCK_ANCHOR",
	ListUnorderedMarker:         "LIST_UNORDERED_MARKER",
	ListOrderedMarker:           "LIST_ORDERED_MARKER",
	DescriptionListSep:          "DESCRIPTION_LIST_SEP",
	DescriptionListItem:         "DESCRIPTION_LIST_ITEM",
	CalloutMarker:               "CALLOUT_MARKER",
	IfdefOpen:                   "IFDEF_OPEN",
	IfndefOpen:                  "IFNDEF_OPEN",
	IfevalOpen:                  "IFEVAL_OPEN",
	EndifDirective:              "ENDIF_DIRECTIVE",
	ListUnorderedMarkerIndented: "LIST_UNORDERED_MARKER_INDENTED",
	ListOrderedMarkerIndented:   "LIST_ORDERED_MARKER_INDENTED",
	ThematicBreak:               "THEMATIC_BREAK",
	PageBreak:                   "PAGE_BREAK",
	FencedCodeStart:             "FENCED_CODE_START",
	FencedCodeEnd:               "FENCED_CODE_END",
	BlockTitle:                  "BLOCK_TITLE",
	PlainDot:                    "PLAIN_DOT",
	PlainColon:                  "PLAIN_COLON",
	PlainStar:                   "PLAIN_STAR",
	PlainUnderscore:             "PLAIN_UNDERSCORE",
	PlainDash:                   "PLAIN_DASH",
	PlainApostrophe:             "PLAIN_APOSTROPHE",
	PlainQuote:                  "PLAIN_QUOTE",
	PlainCaret:                  "PLAIN_CARET",
	PlainLessThan:               "PLAIN_LESS_THAN",
	PlainGreaterThan:            "PLAIN_GREATER_THAN",
}

func (k Kind) String() string {
	if int(k) < NumKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind returns the kind with the given grammar name. Matching is case-insensitive.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown token kind %q", name)
}

// KindSet is the set of token kinds the grammar accepts at the current position.
type KindSet uint64

// AllKinds contains every kind in the vocabulary.
const AllKinds = KindSet(1<<NumKinds - 1)

func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// KindSetFromBools adapts a host's valid-symbols array, indexed by Kind.
// Entries beyond the vocabulary are ignored.
func KindSetFromBools(valid []bool) KindSet {
	var s KindSet
	for i, ok := range valid {
		if i >= NumKinds {
			break
		}
		if ok {
			s |= 1 << uint(i)
		}
	}
	return s
}

func (s KindSet) Has(k Kind) bool {
	return int(k) < NumKinds && s&(1<<uint(k)) != 0
}

// HasAny reports whether any of the given kinds is in the set.
func (s KindSet) HasAny(kinds ...Kind) bool {
	for _, k := range kinds {
		if s.Has(k) {
			return true
		}
	}
	return false
}

func (s KindSet) With(k Kind) KindSet {
	if int(k) >= NumKinds {
		return s
	}
	return s | 1<<uint(k)
}

func (s KindSet) Without(k Kind) KindSet {
	if int(k) >= NumKinds {
		return s
	}
	return s &^ (1 << uint(k))
}

func (s KindSet) Union(o KindSet) KindSet     { return s | o }
func (s KindSet) Intersect(o KindSet) KindSet { return s & o }
func (s KindSet) Empty() bool                 { return s == 0 }
func (s KindSet) Len() int                    { return bits.OnesCount64(uint64(s)) }

// Kinds returns the members of the set in ordinal order.
func (s KindSet) Kinds() []Kind {
	out := make([]Kind, 0, s.Len())
	for k := 0; k < NumKinds; k++ {
		if s.Has(Kind(k)) {
			out = append(out, Kind(k))
		}
	}
	return out
}

func (s KindSet) String() string {
	names := make([]string, 0, s.Len())
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// BlockKind is the resolved type of a delimited block.
type BlockKind uint8

const (
	BlockNone BlockKind = iota
	BlockTable
	BlockExample
	BlockListing
	BlockLiteral
	BlockQuote
	BlockSidebar
	BlockPassthrough
	BlockOpen
	BlockFencedCode

	numBlockKinds
)

var blockKindNames = [numBlockKinds]string{
	BlockNone:        "none",
	BlockTable:       "table",
	BlockExample:     "example",
	BlockListing:     "listing",
	BlockLiteral:     "literal",
	BlockQuote:       "quote",
	BlockSidebar:     "sidebar",
	BlockPassthrough: "passthrough",
	BlockOpen:        "open",
	BlockFencedCode:  "fenced_code",
}

func (b BlockKind) String() string {
	if b < numBlockKinds {
		return blockKindNames[b]
	}
	return fmt.Sprintf("BlockKind(%d)", uint8(b))
}

// ParseBlockKind returns the block kind with the given name, as printed by String.
func ParseBlockKind(name string) (BlockKind, error) {
	for b, n := range blockKindNames {
		if strings.EqualFold(n, name) {
			return BlockKind(b), nil
		}
	}
	return BlockNone, fmt.Errorf("unknown block kind %q", name)
}

// fenceKinds maps a block kind to its start and end tokens.
var fenceKinds = [numBlockKinds][2]Kind{
	BlockTable:       {TableFenceStart, TableFenceEnd},
	BlockExample:     {ExampleFenceStart, ExampleFenceEnd},
	BlockListing:     {ListingFenceStart, ListingFenceEnd},
	BlockLiteral:     {LiteralFenceStart, LiteralFenceEnd},
	BlockQuote:       {QuoteFenceStart, QuoteFenceEnd},
	BlockSidebar:     {SidebarFenceStart, SidebarFenceEnd},
	BlockPassthrough: {PassthroughFenceStart, PassthroughFenceEnd},
	BlockOpen:        {OpenBlockFenceStart, OpenBlockFenceEnd},
	BlockFencedCode:  {FencedCodeStart, FencedCodeEnd},
}

// StartKind returns the fence-start token for b. It returns false for BlockNone.
func (b BlockKind) StartKind() (Kind, bool) {
	if b == BlockNone || b >= numBlockKinds {
		return 0, false
	}
	return fenceKinds[b][0], true
}

// EndKind returns the fence-end token for b. It returns false for BlockNone.
func (b BlockKind) EndKind() (Kind, bool) {
	if b == BlockNone || b >= numBlockKinds {
		return 0, false
	}
	return fenceKinds[b][1], true
}

// FenceStartKinds and FenceEndKinds are the sets of all fence start and end tokens.
var FenceStartKinds, FenceEndKinds = fenceKindSets()

func fenceKindSets() (start, end KindSet) {
	for b := BlockTable; b < numBlockKinds; b++ {
		start = start.With(fenceKinds[b][0])
		end = end.With(fenceKinds[b][1])
	}
	return start, end
}
