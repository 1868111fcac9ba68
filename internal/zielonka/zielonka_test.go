package zielonka_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gonocq/nocq/internal/game"
	"github.com/gonocq/nocq/internal/zielonka"
)

func TestSolveTwoCycleEvenWins(t *testing.T) {
	// S1: V={0,1}, owners={EVEN,ODD}, priorities={3,2}, edges 0->1,1->0,
	// reward MIN. Best priority of the only cycle is 2 (even) => EVEN wins.
	g, err := game.New(
		[]game.Player{game.EVEN, game.ODD},
		[]int{3, 2},
		[]int{0, 1},
		[]int{1, 0},
		[]int64{0, 0},
		0,
		game.MIN,
	)
	require.NoError(t, err)

	regions := zielonka.Solve(g)
	require.True(t, regions.Wins(0, game.EVEN))
	require.True(t, regions.Wins(1, game.EVEN))
	require.False(t, regions.Wins(0, game.ODD))
}

// Zielonka assumes a total graph (every vertex has at least one
// outgoing edge), same as the classical algorithm it is grounded on:
// it has no special case for a vertex with zero outgoing edges, so a
// deadlocked vertex is simply assigned to the region matching its own
// priority's parity. The CP/NOC encoding is the component that gives
// deadlocks their game-theoretic meaning (a player-owned deadlock
// loses); see internal/noc's exactly-one encoding and the S2 scenario.
func TestSolveSingleVertexNoEdgesFollowsOwnPriorityParity(t *testing.T) {
	g, err := game.New(
		[]game.Player{game.EVEN},
		[]int{0},
		nil, nil, nil,
		0,
		game.MAX,
	)
	require.NoError(t, err)

	regions := zielonka.Solve(g)
	require.True(t, regions.Wins(0, game.EVEN))
}

func TestSolvePartitionsJurdzinskiLadder(t *testing.T) {
	g, err := game.Jurdzinski(nil, 3, 2, 0, 0)
	require.NoError(t, err)

	regions := zielonka.Solve(g)
	// every vertex belongs to exactly one of the two regions.
	seen := map[int]bool{}
	for _, v := range regions.Even {
		require.False(t, seen[v])
		seen[v] = true
	}
	for _, v := range regions.Odd {
		require.False(t, seen[v])
		seen[v] = true
	}
	require.Len(t, seen, g.NVertices())
}
