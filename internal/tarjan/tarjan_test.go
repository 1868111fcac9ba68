package tarjan_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gonocq/nocq/internal/game"
	"github.com/gonocq/nocq/internal/tarjan"
)

// two triangles joined by a one-way bridge: {0,1,2} -> {3,4,5}
func bridgedTriangles(t *testing.T) *game.Game {
	t.Helper()
	owners := make([]game.Player, 6)
	priors := make([]int, 6)
	sources := []int{0, 1, 2, 3, 4, 5, 2}
	targets := []int{1, 2, 0, 4, 5, 3, 3}
	weights := make([]int64, len(sources))
	g, err := game.New(owners, priors, sources, targets, weights, 0, game.MAX)
	require.NoError(t, err)
	return g
}

func TestSolvePartitionsIntoTwoTriangles(t *testing.T) {
	g := bridgedTriangles(t)
	sccs := tarjan.Solve(g)
	require.Len(t, sccs, 2)

	seen := map[int]bool{}
	for _, scc := range sccs {
		require.Len(t, scc, 3)
		for _, v := range scc {
			require.False(t, seen[v], "vertex %d appears in more than one SCC", v)
			seen[v] = true
		}
	}
	require.Len(t, seen, 6)
}

func TestSolveOrderIsReverseTopological(t *testing.T) {
	g := bridgedTriangles(t)
	sccs := tarjan.Solve(g)

	index := map[int]int{}
	for i, scc := range sccs {
		for _, v := range scc {
			index[v] = i
		}
	}
	// DFS post-order finishes a successor's component before its own, so
	// for every cross-component edge s->t, t's component must appear
	// earlier in the result than s's: the list is in reverse topological
	// order of the SCC condensation.
	for e := 0; e < g.NEdges(); e++ {
		s, tgt := g.Sources[e], g.Targets[e]
		if index[s] == index[tgt] {
			continue
		}
		require.Less(t, index[tgt], index[s], "edge %d->%d violates reverse topological order", s, tgt)
	}
}

func TestSolveViewRestrictsToActiveSubgraph(t *testing.T) {
	g := bridgedTriangles(t)
	v := game.NewView(g)
	v.DeactivateAll()
	for _, id := range []int{0, 1, 2} {
		v.SetVertex(id, true)
	}
	for _, id := range []int{0, 1, 2} { // edges within the first triangle
		v.SetEdge(id, true)
	}

	sccs := tarjan.SolveView(g, v)
	require.Len(t, sccs, 1)
	require.ElementsMatch(t, []int{0, 1, 2}, sccs[0])
}
