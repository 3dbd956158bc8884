// SPDX-License-Identifier: AGPL-3.0-only

package tokenize

import "github.com/grafana/asciidoc-scanner/pkg/scanner"

// The grammar modes below decide which external tokens the host asks for at a
// given position, the way a parse table would.
var (
	blockStartKinds = scanner.FenceStartKinds.Union(scanner.NewKindSet(
		scanner.ThematicBreak,
		scanner.PageBreak,
		scanner.ListContinuation,
		scanner.ListUnorderedMarker,
		scanner.ListUnorderedMarkerIndented,
		scanner.ListOrderedMarker,
		scanner.ListOrderedMarkerIndented,
		scanner.IfndefOpen,
		scanner.IfdefOpen,
		scanner.IfevalOpen,
		scanner.EndifDirective,
		scanner.BlockAnchor,
		scanner.AttributeListStart,
		scanner.CalloutMarker,
		scanner.DescriptionListItem,
		scanner.BlockTitle,
	))

	inlineKinds = scanner.PlainKinds.Union(scanner.NewKindSet(
		scanner.DescriptionListSep,
		scanner.AutolinkBoundary,
	))

	// A paragraph line may start with inline punctuation.
	lineStartKinds = blockStartKinds.Union(inlineKinds.Without(scanner.DescriptionListSep))

	contentKinds = scanner.NewKindSet(scanner.DelimitedBlockContentLine)

	// zeroWidthKinds may produce an empty token and are never requested twice
	// at the same offset.
	zeroWidthKinds = []scanner.Kind{scanner.AutolinkBoundary}
)

func validKinds(st scanner.State, lineStart bool) scanner.KindSet {
	if !st.Inside() {
		if lineStart {
			return lineStartKinds
		}
		return inlineKinds
	}

	if !lineStart {
		return contentKinds
	}
	if fence, ok := st.OpenFence(); ok {
		end, _ := fence.Kind.EndKind()
		return contentKinds.With(end)
	}
	return contentKinds.Union(scanner.FenceEndKinds)
}

func withoutZeroWidth(valid scanner.KindSet) scanner.KindSet {
	for _, k := range zeroWidthKinds {
		valid = valid.Without(k)
	}
	return valid
}
