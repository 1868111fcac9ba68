// Command nocq is a thin front end over the NOC solver: it builds a
// game from a generator flag, wires up the requested winning
// conditions, and reports whether the chosen player wins from the
// initial vertex. The semantic options the core actually consumes are
// exactly playerSAT, the condition mask, the mean-payoff threshold and
// the reward direction; everything else here (generators, printing) is
// convenience around that core.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/gonocq/nocq/internal/game"
	"github.com/gonocq/nocq/internal/noc"
	"github.com/gonocq/nocq/internal/parallel"
	"github.com/gonocq/nocq/internal/satbackend"
	"github.com/gonocq/nocq/internal/wincond"
	"github.com/gonocq/nocq/internal/zielonka"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "nocq:", err)
		os.Exit(1)
	}
}

// run dispatches to the "solve" (default) or "batch" subcommand.
func run(args []string) error {
	if len(args) > 0 && args[0] == "batch" {
		return runBatch(args[1:])
	}
	if len(args) > 0 && args[0] == "solve" {
		args = args[1:]
	}
	return runSolve(args)
}

func runSolve(args []string) error {
	fs := flag.NewFlagSet("nocq solve", flag.ContinueOnError)
	var (
		jurd         jurdFlag
		randGame     randFlag
		mladder      = fs.Int("mladder", 0, "generate a model-ladder game with this many blocks")
		weightLo     = fs.Int64("weight-lo", 0, "lower bound for randomly generated edge weights")
		weightHi     = fs.Int64("weight-hi", 0, "upper bound for randomly generated edge weights")
		init         = fs.Int("init", 0, "initial vertex")
		seed         = fs.Int64("seed", 1, "random seed for generators")
		minReward    = fs.Bool("min", false, "treat lower priorities as better (default: max)")
		playerFlag   = fs.String("player", "even", "player to solve for: even or odd")
		parityOn     = fs.Bool("parity", false, "enable the parity condition")
		energyOn     = fs.Bool("energy", false, "enable the energy condition")
		meanOn       = fs.Bool("mean-payoff", false, "enable the mean-payoff condition")
		threshold    = fs.Int64("threshold", 0, "mean-payoff threshold")
		flip         = fs.Bool("flip", false, "solve the dual (flipped) game instead")
		crossCheck   = fs.String("cross-check", "", "comma-separated oracles to cross-check against: zielonka,sat")
		nodeLimit    = fs.Int("node-limit", 0, "bound search-tree nodes explored (0 = unlimited)")
		printGame    = fs.Bool("print-game", false, "print the constructed game before solving")
		exportDimacs = fs.String("export-dimacs", "", "write the CP encoding's base clauses to this file in DIMACS CNF format before solving")
	)
	fs.Var(&jurd, "jurd", "generate a Jurdzinski ladder: --jurd levels,blocks")
	fs.Var(&randGame, "rand", "generate a random game: --rand vertices,maxColor,minOut,maxOut")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(*seed))
	reward := game.MAX
	if *minReward {
		reward = game.MIN
	}

	g, err := buildGame(rng, jurd, randGame, *mladder, *weightLo, *weightHi, reward)
	if err != nil {
		return err
	}
	g.SetInit(*init)

	if *printGame {
		printGameSummary(g)
	}

	playerSAT := game.EVEN
	if *playerFlag == "odd" {
		playerSAT = game.ODD
	}
	target := g
	if *flip {
		target = g.Flip()
	}

	conds := buildConditions(target, playerSAT, *parityOn, *energyOn, *meanOn, *threshold)

	if *exportDimacs != "" {
		if err := exportEncodingDIMACS(*exportDimacs, target, playerSAT, conds); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := noc.Solve(ctx, target, playerSAT, conds, *nodeLimit)
	if err != nil {
		return err
	}
	report(target, playerSAT, result)

	return runCrossChecks(*crossCheck, target, playerSAT, conds, result)
}

// exportEncodingDIMACS builds the CP encoding for g/playerSAT/conds and
// writes its base clauses (the NOC propagator's learned no-goods are not
// part of this, since they only exist once search runs) to path in DIMACS
// CNF format, the same format internal/satbackend feeds to gophersat.
func exportEncodingDIMACS(path string, g *game.Game, playerSAT game.Player, conds wincond.Set) error {
	enc := noc.Build(g, playerSAT, conds)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export-dimacs: %w", err)
	}
	defer f.Close()
	if err := satbackend.WriteDIMACS(f, enc.Store.NVars(), enc.Store.Clauses()); err != nil {
		return fmt.Errorf("export-dimacs: %w", err)
	}
	return nil
}

// runBatch generates --count games from the same generator flags,
// varying the seed per game, and solves each concurrently through a
// bounded worker pool, printing aggregate execution statistics
// afterwards.
func runBatch(args []string) error {
	fs := flag.NewFlagSet("nocq batch", flag.ContinueOnError)
	var (
		jurd       jurdFlag
		randGame   randFlag
		mladder    = fs.Int("mladder", 0, "generate a model-ladder game with this many blocks")
		weightLo   = fs.Int64("weight-lo", 0, "lower bound for randomly generated edge weights")
		weightHi   = fs.Int64("weight-hi", 0, "upper bound for randomly generated edge weights")
		minReward  = fs.Bool("min", false, "treat lower priorities as better (default: max)")
		playerFlag = fs.String("player", "even", "player to solve for: even or odd")
		parityOn   = fs.Bool("parity", false, "enable the parity condition")
		energyOn   = fs.Bool("energy", false, "enable the energy condition")
		meanOn     = fs.Bool("mean-payoff", false, "enable the mean-payoff condition")
		threshold  = fs.Int64("threshold", 0, "mean-payoff threshold")
		seed       = fs.Int64("seed", 1, "base random seed; game i uses seed+i")
		count      = fs.Int("count", 10, "number of games to generate and solve")
		workers    = fs.Int("workers", 0, "worker pool size (0 = number of CPUs)")
	)
	fs.Var(&jurd, "jurd", "generate a Jurdzinski ladder: --jurd levels,blocks")
	fs.Var(&randGame, "rand", "generate a random game: --rand vertices,maxColor,minOut,maxOut")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reward := game.MAX
	if *minReward {
		reward = game.MIN
	}
	playerSAT := game.EVEN
	if *playerFlag == "odd" {
		playerSAT = game.ODD
	}

	pool := parallel.NewWorkerPool(*workers)
	ctx := context.Background()

	var (
		mu       sync.Mutex
		satCount int
		errs     []error
	)
	for i := 0; i < *count; i++ {
		i := i
		task := func() {
			rng := rand.New(rand.NewSource(*seed + int64(i)))
			g, err := buildGame(rng, jurd, randGame, *mladder, *weightLo, *weightHi, reward)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			conds := buildConditions(g, playerSAT, *parityOn, *energyOn, *meanOn, *threshold)
			result, err := noc.Solve(context.Background(), g, playerSAT, conds, 0)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			mu.Lock()
			if result.Sat {
				satCount++
			}
			mu.Unlock()
		}
		if err := pool.Submit(ctx, task); err != nil {
			pool.Shutdown()
			return err
		}
	}
	pool.Shutdown()

	fmt.Printf("batch: %d/%d games SAT for %s\n", satCount, *count, playerSAT)
	fmt.Println(pool.Stats())
	if len(errs) > 0 {
		return fmt.Errorf("batch: %d game(s) failed, first error: %w", len(errs), errs[0])
	}
	return nil
}

func buildGame(rng *rand.Rand, jurd jurdFlag, randGame randFlag, mladder int, weightLo, weightHi int64, reward game.Reward) (*game.Game, error) {
	switch {
	case jurd.set:
		g, err := game.Jurdzinski(rng, jurd.levels, jurd.blocks, weightLo, weightHi)
		if err != nil {
			return nil, err
		}
		g.SetReward(reward)
		return g, nil
	case randGame.set:
		g, err := game.Random(rng, randGame.nvertices, randGame.maxColor, randGame.minOut, randGame.maxOut, weightLo, weightHi)
		if err != nil {
			return nil, err
		}
		g.SetReward(reward)
		return g, nil
	case mladder > 0:
		g, err := game.ModelLadder(rng, mladder, weightLo, weightHi)
		if err != nil {
			return nil, err
		}
		g.SetReward(reward)
		return g, nil
	default:
		return nil, fmt.Errorf("no game source given: pass --jurd, --rand or --mladder")
	}
}

func buildConditions(g *game.Game, playerSAT game.Player, parityOn, energyOn, meanOn bool, threshold int64) wincond.Set {
	var conds []wincond.Condition
	if parityOn {
		conds = append(conds, wincond.Parity{G: g, PlayerSAT: playerSAT})
	}
	if energyOn {
		conds = append(conds, wincond.Energy{G: g, PlayerSAT: playerSAT})
	}
	if meanOn {
		conds = append(conds, wincond.MeanPayoff{G: g, PlayerSAT: playerSAT, Threshold: threshold})
	}
	if len(conds) == 0 {
		conds = append(conds, wincond.Parity{G: g, PlayerSAT: playerSAT})
	}
	return wincond.Set{Conditions: conds, PlayerSAT: playerSAT}
}

func report(g *game.Game, playerSAT game.Player, result noc.Result) {
	if !result.Sat {
		fmt.Printf("UNSAT: %s does not win from vertex %d\n", playerSAT, g.Init)
		return
	}
	fmt.Printf("SAT: %s wins from vertex %d\n", playerSAT, g.Init)
	fmt.Printf("  subgame vertices: %v\n", result.Vertices)
	fmt.Printf("  strategy edges:   %v\n", result.Edges)
}

func runCrossChecks(spec string, g *game.Game, playerSAT game.Player, conds wincond.Set, result noc.Result) error {
	checks := splitCrossChecks(spec)
	for _, c := range checks {
		switch c {
		case "zielonka":
			regions := zielonka.Solve(g)
			got := result.Sat
			want := regions.Wins(g.Init, playerSAT)
			if got != want {
				return fmt.Errorf("zielonka cross-check disagreement at vertex %d: noc=%v zielonka=%v", g.Init, got, want)
			}
			fmt.Println("zielonka cross-check: agree")
		case "sat":
			satResult, err := satbackend.Solve(g, playerSAT, conds)
			if err != nil {
				return fmt.Errorf("sat cross-check: %w", err)
			}
			if satResult.Sat != result.Sat {
				return fmt.Errorf("sat cross-check disagreement: noc=%v sat=%v", result.Sat, satResult.Sat)
			}
			fmt.Println("sat cross-check: agree")
		case "":
		default:
			return fmt.Errorf("unknown cross-check %q", c)
		}
	}
	return nil
}

func splitCrossChecks(spec string) []string {
	if spec == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(spec); i++ {
		if i == len(spec) || spec[i] == ',' {
			out = append(out, spec[start:i])
			start = i + 1
		}
	}
	return out
}

func printGameSummary(g *game.Game) {
	fmt.Printf("game: %d vertices, %d edges, reward=%v, init=%d\n", g.NVertices(), g.NEdges(), g.Reward, g.Init)
	for v := 0; v < g.NVertices(); v++ {
		fmt.Printf("  v%d owner=%s priority=%d outs=%v\n", v, g.Owners[v], g.Priorities[v], g.Outs[v])
	}
}

// jurdFlag and randFlag parse the comma-separated generator arguments
// the way the reference CLI's --jurd/--rand options do, but as a
// single Go flag.Value rather than repeated validateArg calls.
type jurdFlag struct {
	set            bool
	levels, blocks int
}

func (f *jurdFlag) String() string { return "" }
func (f *jurdFlag) Set(s string) error {
	n, err := fmt.Sscanf(s, "%d,%d", &f.levels, &f.blocks)
	if err != nil || n != 2 {
		return fmt.Errorf("--jurd wants levels,blocks, got %q", s)
	}
	f.set = true
	return nil
}

type randFlag struct {
	set       bool
	nvertices int
	maxColor  int
	minOut    int
	maxOut    int
}

func (f *randFlag) String() string { return "" }
func (f *randFlag) Set(s string) error {
	n, err := fmt.Sscanf(s, "%d,%d,%d,%d", &f.nvertices, &f.maxColor, &f.minOut, &f.maxOut)
	if err != nil || n != 4 {
		return fmt.Errorf("--rand wants vertices,maxColor,minOut,maxOut, got %q", s)
	}
	f.set = true
	return nil
}
