// SPDX-License-Identifier: AGPL-3.0-only

package scanner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var blockKinds = FenceStartKinds.
	Union(NewKindSet(ThematicBreak, PageBreak, ListContinuation)).
	Union(NewKindSet(ListUnorderedMarker, ListUnorderedMarkerIndented, ListOrderedMarker, ListOrderedMarkerIndented)).
	Union(NewKindSet(IfdefOpen, IfndefOpen, IfevalOpen, EndifDirective)).
	Union(NewKindSet(BlockAnchor, AttributeListStart, CalloutMarker, BlockTitle))

func newTestScanner(t testing.TB) *Scanner {
	s, err := New(DefaultConfig())
	require.NoError(t, err)
	return s
}

// insideKinds is what a grammar asks for within a block of kind b.
func insideKinds(b BlockKind) KindSet {
	end, _ := b.EndKind()
	return NewKindSet(end, DelimitedBlockContentLine)
}

type scanResult struct {
	ok    bool
	kind  Kind
	text  string
	state State
}

func scanAt(t testing.TB, s *Scanner, src string, pos int, st State, valid KindSet) scanResult {
	c := NewBufferCursor([]byte(src), pos)
	before := c.Checkpoint()
	tok, next, ok := s.Scan(st, c, valid)
	if !ok {
		require.Equal(t, before, c.Checkpoint(), "failed scan must not move the cursor")
		require.Equal(t, st, next)
		return scanResult{state: next}
	}
	return scanResult{ok: true, kind: tok.Kind, text: src[tok.Start:tok.End], state: next}
}

func scan(t testing.TB, s *Scanner, src string, st State, valid KindSet) scanResult {
	return scanAt(t, s, src, 0, st, valid)
}

func TestScanner_EndToEndExampleBlock(t *testing.T) {
	s := newTestScanner(t)
	src := "====\ncontent line one\n====\n"

	c := NewBufferCursor([]byte(src), 0)
	st := State{}

	tok, st, ok := s.Scan(st, c, blockKinds)
	require.True(t, ok)
	assert.Equal(t, ExampleFenceStart, tok.Kind)
	assert.Equal(t, "====\n", src[tok.Start:tok.End])
	fence, open := st.OpenFence()
	require.True(t, open)
	assert.Equal(t, Fence{Marker: '=', Count: 4, Kind: BlockExample}, fence)

	c.Seek(tok.End)
	tok, st, ok = s.Scan(st, c, insideKinds(BlockExample))
	require.True(t, ok)
	assert.Equal(t, DelimitedBlockContentLine, tok.Kind)
	assert.Equal(t, "content line one\n", src[tok.Start:tok.End])
	_, open = st.OpenFence()
	assert.True(t, open)

	c.Seek(tok.End)
	tok, st, ok = s.Scan(st, c, insideKinds(BlockExample))
	require.True(t, ok)
	assert.Equal(t, ExampleFenceEnd, tok.Kind)
	assert.Equal(t, len(src), tok.End)
	_, open = st.OpenFence()
	assert.False(t, open)
	assert.Equal(t, uint8(0), st.Depth())
}

func TestScanner_DashDisambiguation(t *testing.T) {
	s := newTestScanner(t)

	tests := map[string]struct {
		input    string
		expected scanResult
	}{
		"two dashes open a block": {
			input:    "--\n",
			expected: scanResult{ok: true, kind: OpenBlockFenceStart, text: "--\n"},
		},
		"three dashes are reserved": {
			input: "---\n",
		},
		"four dashes open a listing": {
			input:    "----\n",
			expected: scanResult{ok: true, kind: ListingFenceStart, text: "----\n"},
		},
		"long dash run opens a listing": {
			input:    "--------  \n",
			expected: scanResult{ok: true, kind: ListingFenceStart, text: "--------  \n"},
		},
		"dashes followed by text": {
			input: "---- x\n",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			res := scan(t, s, tc.input, State{}, blockKinds)
			require.Equal(t, tc.expected.ok, res.ok)
			if tc.expected.ok {
				assert.Equal(t, tc.expected.kind, res.kind)
				assert.Equal(t, tc.expected.text, res.text)
			}
		})
	}
}

func TestScanner_FenceKinds(t *testing.T) {
	s := newTestScanner(t)

	tests := map[string]struct {
		input string
		block BlockKind
	}{
		"table":          {input: "|===\n", block: BlockTable},
		"example":        {input: "====\n", block: BlockExample},
		"listing":        {input: "----\n", block: BlockListing},
		"literal":        {input: "....\n", block: BlockLiteral},
		"quote":          {input: "____\n", block: BlockQuote},
		"sidebar":        {input: "****\n", block: BlockSidebar},
		"passthrough":    {input: "++++\n", block: BlockPassthrough},
		"open":           {input: "--\n", block: BlockOpen},
		"backtick code":  {input: "```\n", block: BlockFencedCode},
		"tilde code":     {input: "~~~\n", block: BlockFencedCode},
		"code with lang": {input: "```go\n", block: BlockFencedCode},
		"crlf":           {input: "====\r\n", block: BlockExample},
		"at eof":         {input: "====", block: BlockExample},
		"trailing blank": {input: "====\t \n", block: BlockExample},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			res := scan(t, s, tc.input, State{}, blockKinds)
			require.True(t, res.ok)
			start, _ := tc.block.StartKind()
			assert.Equal(t, start, res.kind)
			assert.Equal(t, tc.input, res.text)

			fence, open := res.state.OpenFence()
			require.True(t, open)
			assert.Equal(t, tc.block, fence.Kind)
			assert.Equal(t, uint8(1), res.state.Depth())
		})
	}
}

func TestScanner_RejectedFenceLines(t *testing.T) {
	s := newTestScanner(t)

	for _, input := range []string{
		"===\n", "...\n", "___x\n", "** **\n", "+++\n", "|==\n", "==== title\n", " ====\n", "``\n",
	} {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			res := scan(t, s, input, State{}, FenceStartKinds)
			assert.False(t, res.ok)
		})
	}
}

func TestScanner_MarkerRunLimit(t *testing.T) {
	s := newTestScanner(t)

	res := scan(t, s, strings.Repeat("=", 255)+"\n", State{}, FenceStartKinds)
	require.True(t, res.ok)
	assert.Equal(t, ExampleFenceStart, res.kind)
	fence, ok := res.state.OpenFence()
	require.True(t, ok)
	assert.Equal(t, uint8(255), fence.Count)

	// A run longer than the limit is never a fence.
	res = scan(t, s, strings.Repeat("=", 300)+"\n", State{}, FenceStartKinds)
	assert.False(t, res.ok)
}

func TestScanner_FenceSymmetry(t *testing.T) {
	s := newTestScanner(t)

	type fenceCase struct {
		marker string
		counts []int
	}
	cases := []fenceCase{
		{marker: "=", counts: []int{4, 5, 6}},
		{marker: "-", counts: []int{4, 5, 6}},
		{marker: ".", counts: []int{4, 5, 6}},
		{marker: "_", counts: []int{4, 5, 6}},
		{marker: "*", counts: []int{4, 5, 6}},
		{marker: "+", counts: []int{4, 5, 6}},
	}

	for _, fc := range cases {
		for _, open := range fc.counts {
			opener := strings.Repeat(fc.marker, open) + "\n"
			opened := scan(t, s, opener, State{}, FenceStartKinds)
			require.True(t, opened.ok, opener)
			fence, _ := opened.state.OpenFence()
			valid := insideKinds(fence.Kind)
			end, _ := fence.Kind.EndKind()

			for closing := open; closing <= open+2; closing++ {
				line := strings.Repeat(fc.marker, closing) + "\n"
				res := scan(t, s, line, opened.state, valid)
				require.True(t, res.ok, "%q closing %q", opener, line)
				assert.Equal(t, end, res.kind, "%q closing %q", opener, line)
				_, stillOpen := res.state.OpenFence()
				assert.False(t, stillOpen)
			}

			for shorter := 4; shorter < open; shorter++ {
				line := strings.Repeat(fc.marker, shorter) + "\n"
				res := scan(t, s, line, opened.state, valid)
				require.True(t, res.ok, "%q inside %q", line, opener)
				assert.Equal(t, DelimitedBlockContentLine, res.kind, "%q inside %q", line, opener)
				assert.Equal(t, opened.state, res.state)
			}
		}
	}
}

func TestScanner_OpenBlockOnlyClosesWithTwoDashes(t *testing.T) {
	s := newTestScanner(t)
	opened := scan(t, s, "--\n", State{}, FenceStartKinds)
	require.True(t, opened.ok)

	valid := insideKinds(BlockOpen)
	res := scan(t, s, "----\n", opened.state, valid)
	require.True(t, res.ok)
	assert.Equal(t, DelimitedBlockContentLine, res.kind)

	res = scan(t, s, "--\n", opened.state, valid)
	require.True(t, res.ok)
	assert.Equal(t, OpenBlockFenceEnd, res.kind)
}

func TestScanner_NoNestedFenceStart(t *testing.T) {
	s := newTestScanner(t)
	opened := scan(t, s, "====\n", State{}, FenceStartKinds)
	require.True(t, opened.ok)

	// A different fence inside an open block is not a new block.
	res := scan(t, s, "----\n", opened.state, FenceStartKinds.Union(insideKinds(BlockExample)))
	require.True(t, res.ok)
	assert.Equal(t, DelimitedBlockContentLine, res.kind)

	res = scan(t, s, "----\n", opened.state, FenceStartKinds)
	assert.False(t, res.ok)
}

func TestScanner_FenceEndBeatsContentLine(t *testing.T) {
	s := newTestScanner(t)
	opened := scan(t, s, "....\n", State{}, FenceStartKinds)
	require.True(t, opened.ok)

	// Even when the grammar only asks for content, a closing fence is not content.
	res := scan(t, s, "....\n", opened.state, NewKindSet(DelimitedBlockContentLine))
	assert.False(t, res.ok)

	res = scan(t, s, "....\n", opened.state, insideKinds(BlockLiteral))
	require.True(t, res.ok)
	assert.Equal(t, LiteralFenceEnd, res.kind)
}

func TestScanner_FencedCodeInfoString(t *testing.T) {
	s := newTestScanner(t)
	opened := scan(t, s, "```go\n", State{}, FenceStartKinds)
	require.True(t, opened.ok)

	valid := insideKinds(BlockFencedCode)
	res := scan(t, s, "```python\n", opened.state, valid)
	require.True(t, res.ok)
	assert.Equal(t, DelimitedBlockContentLine, res.kind)

	res = scan(t, s, "````\n", opened.state, valid)
	require.True(t, res.ok)
	assert.Equal(t, FencedCodeEnd, res.kind)

	// Tildes never close a backtick fence.
	res = scan(t, s, "~~~\n", opened.state, valid)
	require.True(t, res.ok)
	assert.Equal(t, DelimitedBlockContentLine, res.kind)
}

func TestScanner_FencedCodeDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FencedCode = false
	s, err := New(cfg)
	require.NoError(t, err)

	res := scan(t, s, "```\n", State{}, AllKinds)
	if res.ok {
		assert.NotEqual(t, FencedCodeStart, res.kind)
	}
}

func TestScanner_ContentLine(t *testing.T) {
	s := newTestScanner(t)
	opened := scan(t, s, "----\n", State{}, FenceStartKinds)
	require.True(t, opened.ok)
	valid := insideKinds(BlockListing)

	tests := map[string]struct {
		input    string
		expected string
		ok       bool
	}{
		"plain":            {input: "fmt.Println()\n", expected: "fmt.Println()\n", ok: true},
		"markup is opaque": {input: "* not a list\n", expected: "* not a list\n", ok: true},
		"indented":         {input: "    return\n", expected: "    return\n", ok: true},
		"crlf":             {input: "x\r\n", expected: "x\r\n", ok: true},
		"last line":        {input: "x", expected: "x", ok: true},
		"blank":            {input: "   \n"},
		"empty":            {input: "\n"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			res := scan(t, s, tc.input, opened.state, valid)
			require.Equal(t, tc.ok, res.ok)
			if tc.ok {
				assert.Equal(t, DelimitedBlockContentLine, res.kind)
				assert.Equal(t, tc.expected, res.text)
			}
		})
	}

	t.Run("not requested outside a block", func(t *testing.T) {
		res := scan(t, s, "text\n", State{}, NewKindSet(DelimitedBlockContentLine))
		assert.False(t, res.ok)
	})
}

func TestScanner_ContentLineIsCappedAtMaxLineLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxLineLength = 8
	s, err := New(cfg)
	require.NoError(t, err)

	opened := scan(t, s, "----\n", State{}, FenceStartKinds)
	require.True(t, opened.ok)

	src := strings.Repeat("x", 20) + "\n"
	res := scan(t, s, src, opened.state, insideKinds(BlockListing))
	require.True(t, res.ok)
	assert.Equal(t, strings.Repeat("x", 8), res.text)

	res = scanAt(t, s, src, 8, opened.state, insideKinds(BlockListing))
	require.True(t, res.ok)
	assert.Equal(t, strings.Repeat("x", 8), res.text)
}

func TestScanner_ListMarkers(t *testing.T) {
	s := newTestScanner(t)

	tests := map[string]struct {
		input    string
		valid    KindSet
		expected scanResult
	}{
		"star": {
			input:    "* text",
			expected: scanResult{ok: true, kind: ListUnorderedMarker, text: "* "},
		},
		"dash": {
			input:    "- text",
			expected: scanResult{ok: true, kind: ListUnorderedMarker, text: "- "},
		},
		"nested stars": {
			input:    "*** text",
			expected: scanResult{ok: true, kind: ListUnorderedMarker, text: "*** "},
		},
		"tab keeps blanks": {
			input:    "*\t text",
			expected: scanResult{ok: true, kind: ListUnorderedMarker, text: "*\t "},
		},
		"star without space": {
			input: "*text",
		},
		"dash without space": {
			input: "-text",
		},
		"too many stars": {
			input: "****** text",
		},
		"ordered": {
			input:    "1. text",
			expected: scanResult{ok: true, kind: ListOrderedMarker, text: "1. "},
		},
		"ordered multi digit": {
			input:    "42. text",
			expected: scanResult{ok: true, kind: ListOrderedMarker, text: "42. "},
		},
		"ordered without digits": {
			input: ". text",
		},
		"ordered without space": {
			input: "1.text",
		},
		"ordered too many digits": {
			input: "1234567890. text",
		},
		"indented star": {
			input:    "  * text",
			expected: scanResult{ok: true, kind: ListUnorderedMarkerIndented, text: "* "},
		},
		"indented ordered": {
			input:    "\t1. text",
			expected: scanResult{ok: true, kind: ListOrderedMarkerIndented, text: "1. "},
		},
		"indented falls back to top-level kind": {
			input:    "  - text",
			valid:    NewKindSet(ListUnorderedMarker),
			expected: scanResult{ok: true, kind: ListUnorderedMarker, text: "- "},
		},
		"top level only asks for indented": {
			input: "- text",
			valid: NewKindSet(ListUnorderedMarkerIndented),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			valid := tc.valid
			if valid.Empty() {
				valid = blockKinds
			}
			res := scan(t, s, tc.input, State{}, valid)
			require.Equal(t, tc.expected.ok, res.ok, "kind %s", res.kind)
			if tc.expected.ok {
				assert.Equal(t, tc.expected.kind, res.kind)
				assert.Equal(t, tc.expected.text, res.text)
			}
		})
	}
}

func TestScanner_ListMarkerOnlyAtLineStart(t *testing.T) {
	s := newTestScanner(t)
	src := "a * b"
	res := scanAt(t, s, src, 2, State{}, NewKindSet(ListUnorderedMarker))
	assert.False(t, res.ok)
}

func TestScanner_ListContinuation(t *testing.T) {
	s := newTestScanner(t)

	tests := map[string]struct {
		input string
		ok    bool
	}{
		"alone":             {input: "+\n", ok: true},
		"trailing blanks":   {input: "+  \n", ok: true},
		"at eof":            {input: "+", ok: true},
		"indented":          {input: "  +\n", ok: true},
		"two pluses":        {input: "++\n"},
		"followed by text":  {input: "+ more\n"},
		"passthrough fence": {input: "++++\n"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			res := scan(t, s, tc.input, State{}, NewKindSet(ListContinuation))
			require.Equal(t, tc.ok, res.ok)
			if tc.ok {
				assert.Equal(t, ListContinuation, res.kind)
			}
		})
	}

	t.Run("wins over markers and punctuation", func(t *testing.T) {
		res := scan(t, s, "+\n", State{}, AllKinds.Without(DelimitedBlockContentLine))
		require.True(t, res.ok)
		assert.Equal(t, ListContinuation, res.kind)
		assert.Equal(t, "+\n", res.text)
	})
}

func TestScanner_Breaks(t *testing.T) {
	s := newTestScanner(t)

	tests := map[string]struct {
		input string
		kind  Kind
		ok    bool
	}{
		"apostrophes":        {input: "'''\n", kind: ThematicBreak, ok: true},
		"spaced stars":       {input: "* * *\n", kind: ThematicBreak, ok: true},
		"underscores":        {input: "___\n", kind: ThematicBreak, ok: true},
		"indented 3":         {input: "   '''\n", kind: ThematicBreak, ok: true},
		"indented 4":         {input: "    '''\n"},
		"two markers":        {input: "''\n"},
		"mixed markers":      {input: "'*'\n"},
		"page break":         {input: "<<<\n", kind: PageBreak, ok: true},
		"long page break":    {input: "<<<<<\n", kind: PageBreak, ok: true},
		"page break w/ text": {input: "<<< x\n"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			res := scan(t, s, tc.input, State{}, NewKindSet(ThematicBreak, PageBreak))
			require.Equal(t, tc.ok, res.ok)
			if tc.ok {
				assert.Equal(t, tc.kind, res.kind)
			}
		})
	}

	t.Run("sidebar fence wins over break", func(t *testing.T) {
		res := scan(t, s, "****\n", State{}, blockKinds)
		require.True(t, res.ok)
		assert.Equal(t, SidebarFenceStart, res.kind)
	})
}

func TestScanner_Directives(t *testing.T) {
	s := newTestScanner(t)
	valid := NewKindSet(IfdefOpen, IfndefOpen, IfevalOpen, EndifDirective)

	tests := map[string]struct {
		input    string
		expected scanResult
	}{
		"ifdef": {
			input:    "ifdef::flag[]\n",
			expected: scanResult{ok: true, kind: IfdefOpen, text: "ifdef::"},
		},
		"ifdef without brackets": {
			input: "ifdef::flag\n",
		},
		"ifdef several names": {
			input:    "ifdef::a,b+c[]\n",
			expected: scanResult{ok: true, kind: IfdefOpen, text: "ifdef::"},
		},
		"ifdef inline content": {
			input:    "ifdef::flag[Some text]\n",
			expected: scanResult{ok: true, kind: IfdefOpen, text: "ifdef::"},
		},
		"ifdef empty name": {
			input: "ifdef::[]\n",
		},
		"ifdef trailing comma": {
			input: "ifdef::a,[]\n",
		},
		"ifdef empty name between separators": {
			input: "ifdef::a,,b[]\n",
		},
		"ifdef trailing text": {
			input: "ifdef::flag[] text\n",
		},
		"ifdef unterminated bracket": {
			input: "ifdef::flag[\n",
		},
		"ifdef at eof": {
			input:    "ifdef::flag[]",
			expected: scanResult{ok: true, kind: IfdefOpen, text: "ifdef::"},
		},
		"ifndef": {
			input:    "ifndef::flag[]\n",
			expected: scanResult{ok: true, kind: IfndefOpen, text: "ifndef::"},
		},
		"ifndef without brackets": {
			input: "ifndef::flag\n",
		},
		"ifeval": {
			input:    "ifeval::[{sectnum} > 2]\n",
			expected: scanResult{ok: true, kind: IfevalOpen, text: "ifeval::"},
		},
		"ifeval empty": {
			input: "ifeval::[ ]\n",
		},
		"ifeval with name": {
			input: "ifeval::x[1 == 1]\n",
		},
		"endif": {
			input:    "endif::[]\n",
			expected: scanResult{ok: true, kind: EndifDirective, text: "endif::"},
		},
		"endif with name": {
			input:    "endif::flag[]\r\n",
			expected: scanResult{ok: true, kind: EndifDirective, text: "endif::"},
		},
		"endif with content": {
			input: "endif::[x]\n",
		},
		"case sensitive": {
			input: "IFDEF::flag[]\n",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			res := scan(t, s, tc.input, State{}, valid)
			require.Equal(t, tc.expected.ok, res.ok)
			if tc.expected.ok {
				assert.Equal(t, tc.expected.kind, res.kind)
				assert.Equal(t, tc.expected.text, res.text)
			}
		})
	}

	t.Run("not at line start", func(t *testing.T) {
		res := scanAt(t, s, " ifdef::flag[]\n", 1, State{}, valid)
		assert.False(t, res.ok)
	})
}

func TestScanner_DescriptionList(t *testing.T) {
	s := newTestScanner(t)

	t.Run("separator", func(t *testing.T) {
		src := "Term:: description"
		res := scanAt(t, s, src, 4, State{}, NewKindSet(DescriptionListSep))
		require.True(t, res.ok)
		assert.Equal(t, DescriptionListSep, res.kind)
		assert.Equal(t, "::", res.text)
	})

	t.Run("separator at line end", func(t *testing.T) {
		src := "Term::\n"
		res := scanAt(t, s, src, 4, State{}, NewKindSet(DescriptionListSep))
		require.True(t, res.ok)
		assert.Equal(t, "::", res.text)
	})

	t.Run("separator requires whitespace", func(t *testing.T) {
		res := scanAt(t, s, "a::b", 1, State{}, NewKindSet(DescriptionListSep))
		assert.False(t, res.ok)
	})

	t.Run("plain colon wins at line start", func(t *testing.T) {
		res := scan(t, s, ":: x", State{}, NewKindSet(DescriptionListSep, PlainColon))
		require.True(t, res.ok)
		assert.Equal(t, PlainColon, res.kind)

		res = scan(t, s, ":: x", State{}, NewKindSet(DescriptionListSep))
		require.True(t, res.ok)
		assert.Equal(t, DescriptionListSep, res.kind)
	})

	items := map[string]struct {
		input string
		ok    bool
	}{
		"item":            {input: "CPU:: The brain\n", ok: true},
		"empty body":      {input: "CPU::\n", ok: true},
		"nested":          {input: "CPU::: nested\n", ok: true},
		"semicolons":      {input: "CPU;; other\n", ok: true},
		"url is not item": {input: "see http://x::y\n"},
		"no term":         {input: ":: body\n"},
		"plain line":      {input: "nothing here\n"},
	}
	for name, tc := range items {
		t.Run(name, func(t *testing.T) {
			res := scan(t, s, tc.input, State{}, NewKindSet(DescriptionListItem))
			require.Equal(t, tc.ok, res.ok)
			if tc.ok {
				assert.Equal(t, tc.input, res.text)
			}
		})
	}
}

func TestScanner_LineAnchoredMarkup(t *testing.T) {
	s := newTestScanner(t)

	tests := map[string]struct {
		input    string
		expected scanResult
	}{
		"callout": {
			input:    "<1> The first",
			expected: scanResult{ok: true, kind: CalloutMarker, text: "<1> "},
		},
		"auto callout": {
			input:    "<.> Auto",
			expected: scanResult{ok: true, kind: CalloutMarker, text: "<.> "},
		},
		"callout without space": {
			input: "<1>x",
		},
		"block anchor": {
			input:    "[[install]]\n",
			expected: scanResult{ok: true, kind: BlockAnchor, text: "[[install]]\n"},
		},
		"block anchor with reftext": {
			input:    "[[install,Installation]]\n",
			expected: scanResult{ok: true, kind: BlockAnchor, text: "[[install,Installation]]\n"},
		},
		"block anchor with trailing text": {
			input: "[[install]] text\n",
		},
		"attribute list": {
			input:    "[source,go]\n",
			expected: scanResult{ok: true, kind: AttributeListStart, text: "["},
		},
		"attribute list unterminated": {
			input: "[source,go\n",
		},
		"link text is not an attribute list": {
			input: "[x] and more\n",
		},
		"block title": {
			input:    ".Title\n",
			expected: scanResult{ok: true, kind: BlockTitle, text: "."},
		},
		"dot space is not a title": {
			input: ". x\n",
		},
	}

	valid := NewKindSet(CalloutMarker, BlockAnchor, AttributeListStart, BlockTitle)
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			res := scan(t, s, tc.input, State{}, valid)
			require.Equal(t, tc.expected.ok, res.ok)
			if tc.expected.ok {
				assert.Equal(t, tc.expected.kind, res.kind)
				assert.Equal(t, tc.expected.text, res.text)
			}
		})
	}
}

func TestScanner_PlainPunctuation(t *testing.T) {
	s := newTestScanner(t)

	tests := map[string]struct {
		input string
		pos   int
		kind  Kind
		ok    bool
	}{
		"unpaired star":            {input: "a *b", pos: 2, kind: PlainStar, ok: true},
		"paired star":              {input: "a *b* c", pos: 2},
		"star before blank":        {input: "a * b *c*", pos: 2, kind: PlainStar, ok: true},
		"closer after blank":       {input: "a *b *", pos: 2, kind: PlainStar, ok: true},
		"closer on next line":      {input: "a _b\nc_", pos: 2, kind: PlainUnderscore, ok: true},
		"paired underscore":        {input: "_b_", pos: 0},
		"caret":                    {input: "2^10", pos: 1, kind: PlainCaret, ok: true},
		"superscript":              {input: "x^2^", pos: 1},
		"less than":                {input: "a < b", pos: 2, kind: PlainLessThan, ok: true},
		"angle pair":               {input: "<b>", pos: 0},
		"greater than never pairs": {input: "a>b>", pos: 1, kind: PlainGreaterThan, ok: true},
		"dash":                     {input: "a-b-c", pos: 1, kind: PlainDash, ok: true},
		"apostrophe":               {input: "don't", pos: 3, kind: PlainApostrophe, ok: true},
		"quote pair":               {input: `"x"`, pos: 0},
		"quote unpaired":           {input: `"x`, pos: 0, kind: PlainQuote, ok: true},
		"dot":                      {input: "a.", pos: 1, kind: PlainDot, ok: true},
		"colon":                    {input: "a:b", pos: 1, kind: PlainColon, ok: true},
		"not punctuation":          {input: "abc", pos: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			res := scanAt(t, s, tc.input, tc.pos, State{}, PlainKinds)
			require.Equal(t, tc.ok, res.ok)
			if tc.ok {
				assert.Equal(t, tc.kind, res.kind)
				assert.Len(t, res.text, 1)
			}
		})
	}

	t.Run("only requested kinds", func(t *testing.T) {
		res := scanAt(t, s, "a *b", 2, State{}, NewKindSet(PlainUnderscore))
		assert.False(t, res.ok)
	})
}

func TestScanner_AutolinkBoundary(t *testing.T) {
	s := newTestScanner(t)
	valid := NewKindSet(AutolinkBoundary)

	res := scanAt(t, s, "see https://example.com", 4, State{}, valid)
	require.True(t, res.ok)
	assert.Equal(t, AutolinkBoundary, res.kind)
	assert.Equal(t, "", res.text)

	res = scan(t, s, "mailto:me@example.com", State{}, valid)
	require.True(t, res.ok)

	res = scan(t, s, "https:// x", State{}, valid)
	assert.False(t, res.ok)

	res = scan(t, s, "httpx://x", State{}, valid)
	assert.False(t, res.ok)
}

func TestScanner_NeverEmitsUnrequestedKinds(t *testing.T) {
	s := newTestScanner(t)
	inputs := []string{
		"====\n", "--\n", "* a", "1. a", "+\n", "ifdef::a[]\n", "'''\n", "<1> x", "a:: b\n", "*x",
	}

	for _, input := range inputs {
		for k := 0; k < NumKinds; k++ {
			valid := AllKinds.Without(Kind(k))
			res := scan(t, s, input, State{}, valid)
			if res.ok {
				assert.NotEqual(t, Kind(k), res.kind, "input %q", input)
			}
		}
	}
}

func TestScanner_DisabledKinds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DisabledKinds = []string{"list_continuation"}
	s, err := New(cfg)
	require.NoError(t, err)

	assert.False(t, s.Supported().Has(ListContinuation))
	res := scan(t, s, "+\n", State{}, NewKindSet(ListContinuation))
	assert.False(t, res.ok)
}

func TestScanner_NoProgressOnFailure(t *testing.T) {
	s := newTestScanner(t)

	inputs := []string{
		"", "\n", "\r\n", "x", "---\n", "--- x\n", "==== x\n", "***x\n", "*text", "-text", ". x",
		"12345678901. x", "++\n", "+ x\n", "ifdef::flag\n", "ifdef::a,[]\n", "ifndef::\n", "ifeval::[\n",
		"endif::[x]\n", "::x", "[[a b]]\n", "[x", "<1>x", "'' '\n", "<<<x\n", "*b*", "https:/",
		"~~~~ x y\n", "|== \n", ".\n", "a::b\n", "::",
	}
	states := map[string]State{
		"outside":      {},
		"inside":       State{}.open(Fence{Marker: '=', Count: 4, Kind: BlockExample}),
		"legacy depth": Deserialize([]byte{2}),
	}

	all := append(append([]recognizer{}, insideRecognizers...), blockRecognizers...)
	for stateName, st := range states {
		for _, r := range all {
			for _, input := range inputs {
				for pos := 0; pos <= len(input); pos++ {
					c := NewBufferCursor([]byte(input), pos)
					before := c.Checkpoint()
					_, next, ok := r.run(s, c, AllKinds, st)
					if ok {
						continue
					}
					require.Equal(t, before, c.Checkpoint(), "recognizer %s moved the cursor on %q at %d (%s)", r.name, input, pos, stateName)
					require.Equal(t, st, next)
				}
			}
		}
	}
}

func TestScanner_WithoutColumnInformation(t *testing.T) {
	s := newTestScanner(t)

	c := NewBufferCursor([]byte("x ====\n"), 2).WithoutColumn()
	tok, _, ok := s.Scan(State{}, c, FenceStartKinds)
	require.True(t, ok, "hosts without column info treat every position as a line start")
	assert.Equal(t, ExampleFenceStart, tok.Kind)
}

func TestScanner_BoundedOnLongInput(t *testing.T) {
	s := newTestScanner(t)
	long := strings.Repeat("=", 10000) + "\n"

	res := scan(t, s, long, State{}, FenceStartKinds)
	assert.False(t, res.ok, "runs longer than the marker cap do not resolve to a fence")

	long = strings.Repeat("a", 100000)
	res = scanAt(t, s, "x *"+long, 2, State{}, PlainKinds)
	assert.True(t, res.ok)
}

func TestInstance_Lifecycle(t *testing.T) {
	s := newTestScanner(t)
	inst := s.NewInstance()

	valid := make([]bool, NumKinds)
	for _, k := range FenceStartKinds.Kinds() {
		valid[k] = true
	}

	src := []byte("____\nquoted\n____\n")
	k, ok := inst.Scan(NewBufferCursor(src, 0), valid)
	require.True(t, ok)
	assert.Equal(t, QuoteFenceStart, k)

	buf := make([]byte, MaxSerializedSize)
	n := inst.Serialize(buf)

	restored := s.NewInstance()
	restored.Deserialize(buf[:n])
	assert.Equal(t, inst.State(), restored.State())

	valid = make([]bool, NumKinds)
	valid[QuoteFenceEnd] = true
	valid[DelimitedBlockContentLine] = true
	k, ok = restored.Scan(NewBufferCursor(src, 5), valid)
	require.True(t, ok)
	assert.Equal(t, DelimitedBlockContentLine, k)
	k, ok = restored.Scan(NewBufferCursor(src, 12), valid)
	require.True(t, ok)
	assert.Equal(t, QuoteFenceEnd, k)
	assert.False(t, restored.State().Inside())
}
