package wincond_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gonocq/nocq/internal/game"
	"github.com/gonocq/nocq/internal/wincond"
)

func twoCycle(t *testing.T) *game.Game {
	t.Helper()
	g, err := game.New(
		[]game.Player{game.EVEN, game.ODD},
		[]int{3, 2},
		[]int{0, 1},
		[]int{1, 0},
		[]int64{-1, -1},
		0,
		game.MIN,
	)
	require.NoError(t, err)
	return g
}

func TestParitySatisfiesComplementaryPlayers(t *testing.T) {
	g := twoCycle(t)
	pathV := []int{0, 1}
	pathE := []int{0, 1}

	even := wincond.Parity{G: g, PlayerSAT: game.EVEN}
	odd := wincond.Parity{G: g, PlayerSAT: game.ODD}

	require.Equal(t, even.Satisfy(pathV, pathE, 0), !odd.Satisfy(pathV, pathE, 0))
}

func TestParityPicksBestUnderReward(t *testing.T) {
	g := twoCycle(t) // priorities 3 and 2, MIN reward => best is 2 (even)
	pathV := []int{0, 1}
	pathE := []int{0, 1}

	even := wincond.Parity{G: g, PlayerSAT: game.EVEN}
	require.True(t, even.Satisfy(pathV, pathE, 0))
}

func TestEnergySumsLoopWeights(t *testing.T) {
	g := twoCycle(t) // both edges weight -1, loop sum -2
	pathV := []int{0, 1}
	pathE := []int{0, 1}

	even := wincond.Energy{G: g, PlayerSAT: game.EVEN}
	odd := wincond.Energy{G: g, PlayerSAT: game.ODD}

	require.False(t, even.Satisfy(pathV, pathE, 0))
	require.True(t, odd.Satisfy(pathV, pathE, 0))
}

func TestMeanPayoffThresholdBoundary(t *testing.T) {
	g, err := game.New(
		[]game.Player{game.EVEN},
		[]int{0},
		[]int{0},
		[]int{0},
		[]int64{5},
		0,
		game.MAX,
	)
	require.NoError(t, err)
	pathV := []int{0}
	pathE := []int{0}

	atThreshold := wincond.MeanPayoff{G: g, PlayerSAT: game.EVEN, Threshold: 5}
	require.True(t, atThreshold.Satisfy(pathV, pathE, 0))

	aboveWeight := wincond.MeanPayoff{G: g, PlayerSAT: game.EVEN, Threshold: 6}
	require.False(t, aboveWeight.Satisfy(pathV, pathE, 0))
}

func TestSetGoodForIsConjunctionForEvenDisjunctionForOdd(t *testing.T) {
	g := twoCycle(t)
	pathV := []int{0, 1}
	pathE := []int{0, 1}

	// Parity(EVEN) is true (best=2 even), Energy(EVEN) is false (sum=-2<0).
	evenSet := wincond.Set{
		PlayerSAT: game.EVEN,
		Conditions: []wincond.Condition{
			wincond.Parity{G: g, PlayerSAT: game.EVEN},
			wincond.Energy{G: g, PlayerSAT: game.EVEN},
		},
	}
	require.False(t, evenSet.GoodFor(pathV, pathE, 0)) // conjunction fails

	oddSet := wincond.Set{
		PlayerSAT: game.ODD,
		Conditions: []wincond.Condition{
			wincond.Parity{G: g, PlayerSAT: game.ODD},
			wincond.Energy{G: g, PlayerSAT: game.ODD},
		},
	}
	require.True(t, oddSet.GoodFor(pathV, pathE, 0)) // disjunction succeeds (energy true for ODD)
}

func TestSetFlippedNegatesEachCondition(t *testing.T) {
	g := twoCycle(t)
	pathV := []int{0, 1}
	pathE := []int{0, 1}

	s := wincond.Set{
		PlayerSAT:  game.EVEN,
		Conditions: []wincond.Condition{wincond.Parity{G: g, PlayerSAT: game.EVEN}},
	}
	f := s.Flipped()
	require.Equal(t, game.ODD, f.PlayerSAT)
	require.Equal(t, s.GoodFor(pathV, pathE, 0), !f.GoodFor(pathV, pathE, 0))
}
