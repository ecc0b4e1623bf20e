package pdfreader

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bugzmanov/bookokrat/search"
)

func TestPageSearchCommitPopulatesMatches(t *testing.T) {
	engine := search.NewEngine(nil)
	lines := []search.Line{
		{Kind: search.LinePdf, Text: "the quick fox", PageIndex: 3, LineIndex: 0},
		{Kind: search.LinePdf, Text: "jumps over the fox again", PageIndex: 3, LineIndex: 1},
	}

	var p PageSearchState
	p.Commit(engine, lines, "fox", 3)

	require.False(t, p.Active)
	require.Equal(t, 3, p.MatchesPage)
	require.True(t, p.HasMatches())
	require.Len(t, p.Matches, 2)
}

func TestPageSearchNextPrevWraps(t *testing.T) {
	p := PageSearchState{Matches: []PageSearchMatch{{}, {}, {}}}
	p.NextMatch()
	p.NextMatch()
	p.NextMatch()
	require.Equal(t, 0, p.CurrentIdx)

	p.PrevMatch()
	require.Equal(t, 2, p.CurrentIdx)
}

func TestPageSearchClearResets(t *testing.T) {
	p := PageSearchState{Query: "fox", Matches: []PageSearchMatch{{}}}
	p.Clear()
	require.Empty(t, p.Query)
	require.False(t, p.HasMatches())
}
