// Package negamax solves the dice game exactly. The search is a
// depth-limited negamax that memoizes child values in a transposition table
// indexed by the perfect hash, so the table keeps paying off across every
// starting configuration evaluated by the same Solver.
package negamax

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/diceflip/game"
	"github.com/domino14/diceflip/perfecthash"
)

const (
	// MaxScore and MinScore are the window sentinels. They fit in a table
	// entry even though only -1, 0 and 1 are ever stored.
	MaxScore = int8(31)
	MinScore = -MaxScore
	// MaxDepth is deep enough to reach the end of any game; every move
	// subtracts at least 1 from a total of at most game.MaxStartTotal.
	MaxDepth = MaxStoredDepth
)

var (
	ErrPositionOutOfRange = errors.New("position does not fit the hash lanes")
	ErrBadDepth           = errors.New("depth out of range")
)

// Solver owns one transposition table for its whole lifetime. It is not
// safe for concurrent use.
type Solver struct {
	ttable *TranspositionTable

	transpositionTableOptim bool
	maxDepth                int
	rootDepth               int
	nodes                   atomic.Uint64

	logStream io.Writer
}

// NewSolver allocates a solver and its table.
func NewSolver() (*Solver, error) {
	s := &Solver{
		ttable:                  &TranspositionTable{},
		transpositionTableOptim: true,
		maxDepth:                MaxDepth,
	}
	if err := s.ttable.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetTranspositionTableOptim turns the table on or off. With the table off
// every probe misses and nothing is stored.
func (s *Solver) SetTranspositionTableOptim(on bool) {
	s.transpositionTableOptim = on
}

// SetMaxDepth sets the depth every search starts from.
func (s *Solver) SetMaxDepth(depth int) error {
	if depth < 1 || depth > MaxDepth {
		return fmt.Errorf("%w: %d (must be 1-%d)", ErrBadDepth, depth, MaxDepth)
	}
	s.maxDepth = depth
	return nil
}

func (s *Solver) MaxDepth() int {
	return s.maxDepth
}

// SetLogStream makes the search write a trace of every node to w. Pass nil
// to turn it off.
func (s *Solver) SetLogStream(w io.Writer) {
	s.logStream = w
}

// Nodes is the number of interior nodes searched so far.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

func (s *Solver) TranspositionTable() *TranspositionTable {
	return s.ttable
}

// Reset empties the table and the node counter.
func (s *Solver) Reset() error {
	s.nodes.Store(0)
	return s.ttable.Reset()
}

// Solve returns the value of p for the side to move: 1 for a win, -1 for a
// loss, 0 if the depth ran out first.
func (s *Solver) Solve(p game.Position) (int8, error) {
	if !perfecthash.Fits(p) {
		return 0, fmt.Errorf("%w: %v", ErrPositionOutOfRange, p)
	}
	tstart := time.Now()
	nodesBefore := s.nodes.Load()
	s.rootDepth = s.maxDepth
	val := s.negamax(p, s.maxDepth, MinScore, MaxScore)
	log.Debug().
		Str("position", p.String()).
		Int8("value", val).
		Uint64("nodes", s.nodes.Load()-nodesBefore).
		Dur("elapsed", time.Since(tstart)).
		Msg("solved")
	return val, nil
}

// Evaluate solves a fresh starting position and returns the result from
// the fixed point of view of game.Plus: positive means +1 wins, negative
// means -1 wins.
func (s *Solver) Evaluate(startTotal int, startMove uint8, startPlayer game.Player) (int, error) {
	p, err := game.NewPosition(startTotal, startMove, startPlayer)
	if err != nil {
		return 0, err
	}
	val, err := s.Solve(p)
	if err != nil {
		return 0, err
	}
	return int(startPlayer) * int(val), nil
}

// BestMove returns the child of p with the highest value for the side to
// move. Ties go to the later child in move generation order.
func (s *Solver) BestMove(p game.Position) (game.Position, error) {
	if p.Terminal() {
		return p, game.ErrGameOver
	}
	if !perfecthash.Fits(p) {
		return p, fmt.Errorf("%w: %v", ErrPositionOutOfRange, p)
	}
	children := game.Children(p)
	s.rootDepth = s.maxDepth
	// Anything beats the sentinel, so the fallback to the first child only
	// matters if that stops being true.
	best := children[0]
	bestValue := MinScore - 1
	for _, child := range children {
		value := -s.negamax(child, s.maxDepth, MinScore, MaxScore)
		if value >= bestValue {
			bestValue = value
			best = child
		}
	}
	log.Debug().Str("position", p.String()).Uint8("move", best.LastMove).
		Int8("value", bestValue).Msg("best-move")
	return best, nil
}

// Line plays BestMove for both sides until the game ends and returns every
// position after p.
func (s *Solver) Line(p game.Position) ([]game.Position, error) {
	var line []game.Position
	for !p.Terminal() {
		next, err := s.BestMove(p)
		if err != nil {
			return line, err
		}
		line = append(line, next)
		p = next
	}
	return line, nil
}
