package game

import "math/rand"

// Jurdzinski builds the layered Jurdzinski/Calude-style ladder used by
// the test suite to cross-check the NOC solver against Zielonka: a
// chain of "levels", each holding "blocks" many 3-vertex gadgets whose
// priorities strictly decrease with the level.
func Jurdzinski(rng *rand.Rand, levels, blocks int, weightLo, weightHi int64) (*Game, error) {
	if levels < 2 || blocks < 1 {
		return nil, errInvalidGeneratorArgs("jurdzinski", "levels>=2 and blocks>=1 required")
	}

	nv := ((blocks*3)+1)*(levels-1) + (blocks*2 + 1)
	var owners []Player
	var priors []int
	var sources, targets []int
	var weights []int64

	addEdge := func(s, t int) {
		sources = append(sources, s)
		targets = append(targets, t)
		weights = append(weights, RandomWeights(rng, 1, weightLo, weightHi)[0])
	}

	es := 1
	for l := 1; l < levels; l++ {
		os := ((blocks*3)+1)*(levels-1) + 1
		for b := 0; b < blocks; b++ {
			owners = append(owners, ODD, EVEN, EVEN)
			priors = append(priors, (levels-l)*2, (levels-l)*2+1, (levels-l)*2)

			addEdge(es, es+1)
			addEdge(es, es+2)
			addEdge(es+1, es+2)
			addEdge(es+2, es)

			addEdge(es+2, es+3)
			addEdge(es+3, es+2)

			addEdge(es+2, os+1)
			addEdge(os+1, es+2)

			es += 3
			os += 2
		}
		owners = append(owners, ODD)
		priors = append(priors, (levels-l)*2)
		es++
	}
	for b := 0; b < blocks; b++ {
		owners = append(owners, EVEN, ODD)
		priors = append(priors, 0, 1)

		addEdge(es, es+1)
		addEdge(es+1, es)
		addEdge(es+1, es+2)
		addEdge(es+2, es+1)
		es += 2
	}
	owners = append(owners, EVEN)
	priors = append(priors, 0)

	for i := range sources {
		sources[i]--
		targets[i]--
	}

	if len(owners) != nv {
		return nil, errInvalidGeneratorArgs("jurdzinski", "internal vertex-count mismatch")
	}
	return New(owners, priors, sources, targets, weights, 0, MAX)
}

// Random builds an Erdos-Renyi-style game: half EVEN-owned, half
// ODD-owned vertices shuffled, random priorities in [0,maxColor], and
// between minOut and maxOut outgoing edges per vertex to distinct
// random targets.
func Random(rng *rand.Rand, nvertices, maxColor, minOut, maxOut int, weightLo, weightHi int64) (*Game, error) {
	if nvertices < 1 || maxOut < minOut || maxOut > nvertices {
		return nil, errInvalidGeneratorArgs("random", "invalid vertex/edge-count bounds")
	}

	owners := make([]Player, nvertices)
	for v := nvertices / 2; v < nvertices; v++ {
		owners[v] = ODD
	}
	rng.Shuffle(nvertices, func(i, j int) { owners[i], owners[j] = owners[j], owners[i] })

	priors := make([]int, nvertices)
	for v := range priors {
		priors[v] = rng.Intn(maxColor + 1)
	}

	var sources, targets []int
	var weights []int64
	for v := 0; v < nvertices; v++ {
		perm := rng.Perm(nvertices)
		span := maxOut - minOut + 1
		nedges := minOut
		if span > 1 {
			nedges = minOut + rng.Intn(span)
		}
		for i := 0; i < nedges; i++ {
			sources = append(sources, v)
			targets = append(targets, perm[i])
			weights = append(weights, RandomWeights(rng, 1, weightLo, weightHi)[0])
		}
	}
	return New(owners, priors, sources, targets, weights, 0, MAX)
}

// ModelLadder builds the "model-checker ladder": a chain of bl
// 4-vertex diamonds closed by a feedback edge back to vertex 0, used to
// stress long single-cycle reasoning in the NOC propagator.
func ModelLadder(rng *rand.Rand, bl int, weightLo, weightHi int64) (*Game, error) {
	if bl < 1 {
		return nil, errInvalidGeneratorArgs("mladder", "bl>=1 required")
	}
	nv := bl*3 + 1
	owners := make([]Player, nv)
	for v := nv / 2; v < nv; v++ {
		owners[v] = ODD
	}
	rng.Shuffle(nv, func(i, j int) { owners[i], owners[j] = owners[j], owners[i] })

	priors := make([]int, nv)
	consecutive := bl * 2
	priors[0] = consecutive
	consecutive--
	for i := 0; i < bl; i++ {
		priors[i*3+1] = 0
		priors[i*3+2] = consecutive
		consecutive--
		priors[i*3+3] = consecutive
		consecutive--
	}

	var sources, targets []int
	for i := 0; i < bl; i++ {
		sources = append(sources, i*3+0, i*3+1, i*3+1, i*3+2)
		targets = append(targets, i*3+1, i*3+2, i*3+3, i*3+3)
	}
	sources = append(sources, bl*3)
	targets = append(targets, 0)

	weights := RandomWeights(rng, len(sources), weightLo, weightHi)
	return New(owners, priors, sources, targets, weights, 0, MAX)
}

type generatorArgError struct {
	generator string
	reason    string
}

func (e *generatorArgError) Error() string {
	return "game: " + e.generator + " generator: " + e.reason
}

func errInvalidGeneratorArgs(generator, reason string) error {
	return &generatorArgError{generator: generator, reason: reason}
}
