package noc

import (
	"context"

	"github.com/gonocq/nocq/internal/game"
	"github.com/gonocq/nocq/internal/wincond"
)

// Result is the outcome of one Solve call.
type Result struct {
	Sat      bool
	Vertices []int // witness subgame vertices, set only when Sat
	Edges    []int // witness subgame edges, set only when Sat
}

// Solve decides whether playerSAT has a winning strategy from g.Init
// under conds (built for playerSAT), returning a witness subgame when
// satisfiable. limit bounds the number of search-tree nodes explored;
// 0 means unlimited.
func Solve(ctx context.Context, g *game.Game, playerSAT game.Player, conds wincond.Set, limit int) (Result, error) {
	enc := Build(g, playerSAT, conds)
	ok, err := enc.Store.Solve(ctx, enc.DecisionVars(), limit)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		return Result{Sat: false}, nil
	}
	return Result{Sat: true, Vertices: enc.ActiveVertices(), Edges: enc.ActiveEdges()}, nil
}
