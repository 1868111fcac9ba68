package game

// View is a mutable activity mask over a Game's vertices and edges. It
// filters the graph without copying it, so SCC and attractor routines
// can shrink and grow the "live" subgraph across a sequence of calls.
// A View is owned by its caller; its lifetime is strictly inside one
// call sequence over an immutable Game.
type View struct {
	g  *Game
	vs []bool
	es []bool
}

// NewView creates a view over g with every vertex and edge active.
func NewView(g *Game) *View {
	v := &View{
		g:  g,
		vs: make([]bool, g.NVertices()),
		es: make([]bool, g.NEdges()),
	}
	v.ActivateAll()
	return v
}

// ActivateAll marks every vertex and edge active.
func (v *View) ActivateAll() {
	for i := range v.vs {
		v.vs[i] = true
	}
	for i := range v.es {
		v.es[i] = true
	}
}

// DeactivateAll marks every vertex and edge inactive.
func (v *View) DeactivateAll() {
	for i := range v.vs {
		v.vs[i] = false
	}
	for i := range v.es {
		v.es[i] = false
	}
}

// SetVertex sets the activity of vertex id.
func (v *View) SetVertex(id int, active bool) { v.vs[id] = active }

// SetEdge sets the activity of edge id.
func (v *View) SetEdge(id int, active bool) { v.es[id] = active }

// IsVertexActive reports whether vertex id is currently active.
func (v *View) IsVertexActive(id int) bool { return v.vs[id] }

// IsEdgeActive reports whether edge id is currently active.
func (v *View) IsEdgeActive(id int) bool { return v.es[id] }

// Vertices returns the currently active vertex ids.
func (v *View) Vertices() []int {
	out := make([]int, 0, len(v.vs))
	for id, active := range v.vs {
		if active {
			out = append(out, id)
		}
	}
	return out
}

// Edges returns the currently active edge ids.
func (v *View) Edges() []int {
	out := make([]int, 0, len(v.es))
	for id, active := range v.es {
		if active {
			out = append(out, id)
		}
	}
	return out
}

// Outs returns the active outgoing edges of vertex id.
func (v *View) Outs(id int) []int {
	out := make([]int, 0, len(v.g.Outs[id]))
	for _, e := range v.g.Outs[id] {
		if v.es[e] {
			out = append(out, e)
		}
	}
	return out
}

// Ins returns the active incoming edges of vertex id.
func (v *View) Ins(id int) []int {
	out := make([]int, 0, len(v.g.Ins[id]))
	for _, e := range v.g.Ins[id] {
		if v.es[e] {
			out = append(out, e)
		}
	}
	return out
}
