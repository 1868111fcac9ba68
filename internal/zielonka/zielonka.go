// Package zielonka implements the classical recursive algorithm
// computing the EVEN/ODD winning-region partition of a parity game. It
// is used purely as a cross-check oracle against the NOC constraint
// solver: the two must agree on every vertex of every parity-only
// game in which every vertex has an outgoing edge. A vertex with no
// outgoing edge gets no special treatment here and lands in the region
// of its own priority's parity.
package zielonka

import "github.com/gonocq/nocq/internal/game"

// Regions is the partition of vertices into the two winning sets.
type Regions struct {
	Even []int
	Odd  []int
}

func (r *Regions) forPlayer(p game.Player) []int {
	if p == game.EVEN {
		return r.Even
	}
	return r.Odd
}

func (r *Regions) appendForPlayer(p game.Player, vs []int) {
	if p == game.EVEN {
		r.Even = append(r.Even, vs...)
	} else {
		r.Odd = append(r.Odd, vs...)
	}
}

// Wins reports whether vertex v belongs to player's winning region.
func (r *Regions) Wins(v int, p game.Player) bool {
	for _, w := range r.forPlayer(p) {
		if w == v {
			return true
		}
	}
	return false
}

// Solver computes the winning partition of a game by recursive
// attractor peeling.
type Solver struct {
	g *game.Game
}

// New prepares a Zielonka solver over g.
func New(g *game.Game) *Solver { return &Solver{g: g} }

// Solve returns the winning-region partition for the whole game.
func (s *Solver) Solve() *Regions {
	removed := make([]bool, s.g.NVertices())
	return s.search(removed)
}

// bestVertices returns the unremoved vertices whose priority is best
// under the game's reward convention, and the player who owns that
// priority's parity.
func (s *Solver) bestVertices(removed []bool) ([]int, game.Player) {
	var best []int
	bestColor := 0
	found := false
	for v := 0; v < s.g.NVertices(); v++ {
		if removed[v] {
			continue
		}
		if !found {
			bestColor = s.g.Priorities[v]
			best = []int{v}
			found = true
			continue
		}
		switch {
		case s.g.Priorities[v] == bestColor:
			best = append(best, v)
		case s.g.ComparePriorities(s.g.Priorities[v], bestColor, game.Better):
			bestColor = s.g.Priorities[v]
			best = []int{v}
		}
	}
	if !found {
		return nil, game.EVEN
	}
	player := game.EVEN
	if bestColor%2 != 0 {
		player = game.ODD
	}
	return best, player
}

// attractor computes the player-attractor of U inside the unremoved
// subgraph, in place, and marks every attracted vertex removed. For
// allies (owner==player) one successful edge into the set suffices;
// for the opponent every still-available outgoing edge must lead into
// the set.
func (s *Solver) attractor(player game.Player, u []int, removed []bool) []int {
	n := s.g.NVertices()
	d := make([]int, n)
	inU := make([]bool, n)
	for _, w := range u {
		d[w] = 1
		inU[w] = true
	}
	for i := 0; i < len(u); i++ {
		w := u[i]
		for _, e := range s.g.Ins[w] {
			v := s.g.Sources[e]
			if removed[v] || inU[v] {
				continue
			}
			ally := s.g.Owners[v] == player
			if d[v] == 0 {
				if ally {
					d[v] = 1
					inU[v] = true
					u = append(u, v)
				} else {
					outbound := 0
					for _, eOut := range s.g.Outs[v] {
						if !removed[s.g.Targets[eOut]] {
							outbound++
						}
					}
					d[v] = outbound
					if outbound == 1 {
						inU[v] = true
						u = append(u, v)
					}
				}
			} else if !ally && d[v] > 1 {
				d[v]--
				if d[v] == 1 {
					inU[v] = true
					u = append(u, v)
				}
			}
		}
	}
	for _, w := range u {
		removed[w] = true
	}
	return u
}

// search is the recursive core: peel the best-priority vertices' owner
// attractor, recurse on the remainder, and either claim the whole
// slice for the owner (if the opponent wins nothing below) or peel the
// opponent's attractor of what it does win and recurse again.
func (s *Solver) search(removed []bool) *Regions {
	a, player := s.bestVertices(removed)
	if len(a) == 0 {
		return &Regions{}
	}

	removed1 := append([]bool(nil), removed...)
	a = s.attractor(player, a, removed1)
	win1 := s.search(removed1)

	opponent := player.Opponent()
	if len(win1.forPlayer(opponent)) == 0 {
		win1.appendForPlayer(player, a)
		return win1
	}

	removed2 := append([]bool(nil), removed...)
	b := append([]int(nil), win1.forPlayer(opponent)...)
	b = s.attractor(opponent, b, removed2)
	win2 := s.search(removed2)
	win2.appendForPlayer(opponent, b)
	return win2
}

// Solve is a convenience wrapper computing the winning partition of g.
func Solve(g *game.Game) *Regions {
	return New(g).Solve()
}
