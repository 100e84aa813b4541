package negamax

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/diceflip/game"
	"github.com/domino14/diceflip/perfecthash"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

var players = []game.Player{game.Plus, game.Minus}

func newSolver(t *testing.T) *Solver {
	t.Helper()
	s, err := NewSolver()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// Faces 1 and 6 leave the side to move unable to subtract 6, and with two
// dice totals that is always a loss.
func expectedPlusEval(face uint8) int {
	if face == 1 || face == 6 {
		return -1
	}
	return 1
}

func TestEvaluateEveryStart(t *testing.T) {
	is := is.New(t)
	s := newSolver(t)
	for _, total := range game.StartTotals() {
		for face := uint8(game.MinFace); face <= game.MaxFace; face++ {
			v, err := s.Evaluate(total, face, game.Plus)
			is.NoErr(err)
			is.Equal(v, expectedPlusEval(face))
		}
	}
}

func TestScenarioEleven(t *testing.T) {
	is := is.New(t)
	s := newSolver(t)
	v, err := s.Evaluate(11, 6, game.Minus)
	is.NoErr(err)
	is.Equal(v, 1)

	// Same answer from a cold solver.
	v2, err := newSolver(t).Evaluate(11, 6, game.Minus)
	is.NoErr(err)
	is.Equal(v2, v)

	p, err := game.NewPosition(11, 6, game.Minus)
	is.NoErr(err)
	line, err := s.Line(p)
	is.NoErr(err)
	is.Equal(len(line), 2)
	// Every reply loses, so the tie goes to the last one: a 5.
	is.Equal(line[0], game.Position{LastMove: 5, Total: 6, ToMove: game.Plus})
	is.Equal(line[1], game.Position{LastMove: 6, Total: 0, ToMove: game.Minus, Winner: game.Plus})
}

func TestScenarioSixtySix(t *testing.T) {
	is := is.New(t)
	s := newSolver(t)
	v, err := s.Evaluate(66, 1, game.Plus)
	is.NoErr(err)
	is.Equal(v, -1)

	p, err := game.NewPosition(66, 1, game.Plus)
	is.NoErr(err)
	line, err := s.Line(p)
	is.NoErr(err)
	is.Equal(len(line), 12)
	for i, pos := range line {
		if i%2 == 0 {
			is.Equal(pos.LastMove, uint8(5))
		} else {
			is.Equal(pos.LastMove, uint8(6))
		}
	}
	last := line[len(line)-1]
	is.True(last.Terminal())
	is.Equal(int(last.Winner), v)
}

func TestTranspositionConsistency(t *testing.T) {
	is := is.New(t)
	withTable := newSolver(t)
	withoutTable := newSolver(t)
	withoutTable.SetTranspositionTableOptim(false)

	for _, total := range game.StartTotals() {
		// Without the table the tree grows exponentially with the total.
		if total > 26 {
			continue
		}
		for face := uint8(game.MinFace); face <= game.MaxFace; face++ {
			for _, pl := range players {
				a, err := withTable.Evaluate(total, face, pl)
				is.NoErr(err)
				b, err := withoutTable.Evaluate(total, face, pl)
				is.NoErr(err)
				is.Equal(a, b)
			}
		}
	}
	is.Equal(withoutTable.TranspositionTable().Stats().Occupied, 0)
	is.True(withTable.TranspositionTable().Stats().Hits > 0)
	is.True(withoutTable.Nodes() > withTable.Nodes())
}

func TestNegamaxSymmetry(t *testing.T) {
	is := is.New(t)
	s := newSolver(t)
	for _, total := range game.StartTotals() {
		for face := uint8(game.MinFace); face <= game.MaxFace; face++ {
			plus, err := s.Evaluate(total, face, game.Plus)
			is.NoErr(err)
			minus, err := s.Evaluate(total, face, game.Minus)
			is.NoErr(err)
			is.Equal(plus, -minus)
		}
	}

	// Swapping the side to move never changes the value for the mover.
	seen := map[game.Position]bool{}
	var walk func(p game.Position)
	walk = func(p game.Position) {
		if seen[p] {
			return
		}
		seen[p] = true
		a, err := s.Solve(p)
		is.NoErr(err)
		b, err := s.Solve(p.Flip())
		is.NoErr(err)
		is.Equal(a, b)
		if p.Terminal() {
			is.Equal(a, int8(-1))
			return
		}
		for _, c := range game.Children(p) {
			walk(c)
		}
	}
	for face := uint8(game.MinFace); face <= game.MaxFace; face++ {
		p, err := game.NewPosition(36, face, game.Plus)
		is.NoErr(err)
		walk(p)
	}
}

func longestLine(p game.Position, memo map[game.Position]int) int {
	if p.Terminal() {
		return 0
	}
	if n, ok := memo[p]; ok {
		return n
	}
	n := 0
	for _, c := range game.Children(p) {
		n = max(n, 1+longestLine(c, memo))
	}
	memo[p] = n
	return n
}

func TestTerminationBound(t *testing.T) {
	is := is.New(t)
	memo := map[game.Position]int{}
	reference := newSolver(t)
	for _, total := range game.StartTotals() {
		for face := uint8(game.MinFace); face <= game.MaxFace; face++ {
			p, err := game.NewPosition(total, face, game.Plus)
			is.NoErr(err)
			is.True(longestLine(p, memo) <= total)

			// A search exactly total plies deep already reaches every end.
			shallow := newSolver(t)
			is.NoErr(shallow.SetMaxDepth(total))
			a, err := shallow.Solve(p)
			is.NoErr(err)
			b, err := reference.Solve(p)
			is.NoErr(err)
			is.Equal(a, b)
		}
	}
}

func TestDepthLimited(t *testing.T) {
	is := is.New(t)
	s := newSolver(t)
	is.NoErr(s.SetMaxDepth(1))
	p, err := game.NewPosition(66, 1, game.Plus)
	is.NoErr(err)
	v, err := s.Solve(p)
	is.NoErr(err)
	is.Equal(v, int8(0))

	// One ply is enough to see an immediate win.
	p, err = game.NewPosition(4, 1, game.Plus)
	is.NoErr(err)
	v, err = s.Solve(p)
	is.NoErr(err)
	is.Equal(v, int8(1))

	is.True(errors.Is(s.SetMaxDepth(0), ErrBadDepth))
	is.True(errors.Is(s.SetMaxDepth(MaxDepth+1), ErrBadDepth))
	is.Equal(s.MaxDepth(), 1)
}

func TestIdempotence(t *testing.T) {
	is := is.New(t)
	warm := newSolver(t)
	for _, total := range game.StartTotals() {
		for face := uint8(game.MinFace); face <= game.MaxFace; face++ {
			for _, pl := range players {
				cold, err := newSolver(t).Evaluate(total, face, pl)
				is.NoErr(err)
				first, err := warm.Evaluate(total, face, pl)
				is.NoErr(err)
				second, err := warm.Evaluate(total, face, pl)
				is.NoErr(err)
				is.Equal(first, cold)
				is.Equal(second, cold)
			}
		}
	}
}

func TestBestMove(t *testing.T) {
	is := is.New(t)
	s := newSolver(t)

	// Only the 6 wins on the spot; 1, 3 and 4 all hand over a win.
	p := game.Position{LastMove: 5, Total: 6, ToMove: game.Plus}
	best, err := s.BestMove(p)
	is.NoErr(err)
	is.Equal(best.LastMove, uint8(6))
	is.Equal(best.Winner, game.Plus)

	_, err = s.BestMove(best)
	is.True(errors.Is(err, game.ErrGameOver))

	_, err = s.Solve(game.Position{LastMove: 1, Total: 200, ToMove: game.Plus})
	is.True(errors.Is(err, ErrPositionOutOfRange))
}

func TestResetSolver(t *testing.T) {
	is := is.New(t)
	s := newSolver(t)
	_, err := s.Evaluate(66, 3, game.Plus)
	is.NoErr(err)
	is.True(s.Nodes() > 0)
	is.True(s.TranspositionTable().Stats().Occupied > 0)
	is.NoErr(s.Reset())
	is.Equal(s.Nodes(), uint64(0))
	is.Equal(s.TranspositionTable().Stats().Occupied, 0)
}

func TestLogStream(t *testing.T) {
	is := is.New(t)
	s := newSolver(t)
	var buf bytes.Buffer
	s.SetLogStream(&buf)
	p, err := game.NewPosition(5, 6, game.Plus)
	is.NoErr(err)
	_, err = s.Solve(p)
	is.NoErr(err)
	out := buf.String()
	is.True(strings.HasPrefix(out, "  plays:\n"))
	is.True(strings.Contains(out, "- play: 5"))
	is.True(strings.Contains(out, "value: 1"))
}

func seedEntry(s *Solver, p game.Position, depth int, flag uint8, score int8) {
	s.ttable.store(perfecthash.Hash(p), newTableEntry(depth, flag, score))
}

func entryFor(s *Solver, p game.Position) TableEntry {
	return s.ttable.lookup(perfecthash.Hash(p))
}

func TestTableBoundsCutoff(t *testing.T) {
	is := is.New(t)
	s := newSolver(t)
	p, err := game.NewPosition(20, 1, game.Plus)
	is.NoErr(err)
	children := game.Children(p)
	is.Equal(children[0].LastMove, uint8(2))
	is.Equal(children[1].LastMove, uint8(3))

	seedEntry(s, children[0], 200, TTLower, 5)
	seedEntry(s, children[1], 200, TTUpper, 3)

	// The lower bound raises α to 5 and the upper bound drops β to 3, which
	// closes the window on the second child.
	is.Equal(s.negamax(p, 100, MinScore, MaxScore), int8(3))

	// The first child was searched inside (5, 31) and failed low.
	e := entryFor(s, children[0])
	is.Equal(e.flag(), uint8(TTUpper))
	is.Equal(e.depth(), uint8(99))
	is.True(e.score() <= 5)

	// Nothing past the cut-off was touched.
	e = entryFor(s, children[1])
	is.Equal(e.flag(), uint8(TTUpper))
	is.Equal(e.score(), int8(3))
	is.Equal(e.depth(), uint8(200))
	is.True(!entryFor(s, children[2]).valid())
	is.True(!entryFor(s, children[3]).valid())
}

func TestTableLowerBoundClosesWindow(t *testing.T) {
	is := is.New(t)
	s := newSolver(t)
	p, err := game.NewPosition(20, 1, game.Plus)
	is.NoErr(err)
	seedEntry(s, game.Children(p)[0], 200, TTLower, MaxScore)

	is.Equal(s.negamax(p, 100, MinScore, MaxScore), MaxScore)
	// cut off before any child was searched
	is.Equal(s.Nodes(), uint64(1))
}

func TestTableShallowBoundIgnored(t *testing.T) {
	is := is.New(t)
	s := newSolver(t)
	p, err := game.NewPosition(3, 1, game.Plus)
	is.NoErr(err)
	first := game.Children(p)[0]
	seedEntry(s, first, 0, TTLower, MaxScore)

	is.Equal(s.negamax(p, 10, MinScore, MaxScore), int8(1))
	e := entryFor(s, first)
	is.Equal(e.flag(), uint8(TTExact))
	is.Equal(e.score(), int8(-1))
	is.Equal(e.depth(), uint8(9))
}

func TestTableStoreFlags(t *testing.T) {
	// From total 3 after a 1, playing 2 leaves -1 a sure win, and 3, 4 or
	// 5 win outright.
	p, err := game.NewPosition(3, 1, game.Plus)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name     string
		α, β     int8
		expFlags [game.NumLegalMoves]uint8
	}{
		{"full window", MinScore, MaxScore, [4]uint8{TTExact, TTExact, TTExact, TTExact}},
		{"fail low and high", 0, 1, [4]uint8{TTUpper, TTLower, TTLower, TTLower}},
		{"all fail low", 1, MaxScore, [4]uint8{TTUpper, TTUpper, TTUpper, TTUpper}},
		{"all fail high", MinScore, -1, [4]uint8{TTLower, TTLower, TTLower, TTLower}},
	}
	expValues := [4]int8{-1, 1, 1, 1}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			s := newSolver(t)
			is.Equal(s.negamax(p, 10, tc.α, tc.β), int8(1))
			for i, child := range game.Children(p) {
				e := entryFor(s, child)
				is.Equal(e.flag(), tc.expFlags[i])
				is.Equal(e.score(), expValues[i])
				is.Equal(e.depth(), uint8(9))
			}
		})
	}

	// The losing child's own children were stored from -1's side.
	is := is.New(t)
	s := newSolver(t)
	s.negamax(p, 10, 0, 1)
	for _, grandchild := range game.Children(game.Children(p)[0]) {
		e := entryFor(s, grandchild)
		is.Equal(e.flag(), uint8(TTLower))
		is.Equal(e.score(), int8(1))
		is.Equal(e.depth(), uint8(8))
	}
}
