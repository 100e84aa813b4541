// Package automatic drives the solver without a human in the loop: it
// evaluates starting configurations, plays them out with perfect play for
// both sides, and hands the results to a ResultWriter.
package automatic

import (
	"github.com/rs/zerolog/log"

	"github.com/domino14/diceflip/game"
	"github.com/domino14/diceflip/negamax"
)

// Result is one evaluated starting configuration. Eval is from the point
// of view of game.Plus. The play-out fields are only filled in when the
// game was auto-played.
type Result struct {
	Dice           uint8       `yaml:"dice"`
	StartingPlayer game.Player `yaml:"startingplayer"`
	Total          int         `yaml:"total"`
	Eval           int         `yaml:"eval"`

	Played   bool        `yaml:"played,omitempty"`
	Winner   game.Player `yaml:"winner,omitempty"`
	Line     []int       `yaml:"line,flow,omitempty"`
	Mismatch bool        `yaml:"mismatch,omitempty"`
}

// Plies is the length of the played-out game.
func (r Result) Plies() int {
	return len(r.Line)
}

// GameRunner evaluates and plays games with one solver, so every game it
// runs shares the same transposition table.
type GameRunner struct {
	solver *negamax.Solver
}

// NewGameRunner just instantiates a game runner around a solver.
func NewGameRunner(solver *negamax.Solver) *GameRunner {
	return &GameRunner{solver: solver}
}

func (r *GameRunner) Solver() *negamax.Solver {
	return r.solver
}

// Evaluate evaluates a starting configuration without playing it.
func (r *GameRunner) Evaluate(total int, dice uint8, startingPlayer game.Player) (Result, error) {
	eval, err := r.solver.Evaluate(total, dice, startingPlayer)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Dice:           dice,
		StartingPlayer: startingPlayer,
		Total:          total,
		Eval:           eval,
	}, nil
}

// PlayGame evaluates a starting configuration and then plays it to the end
// with the best move for both sides. If the evaluation called a winner and
// somebody else won, the result is flagged and a warning is logged.
func (r *GameRunner) PlayGame(total int, dice uint8, startingPlayer game.Player) (Result, error) {
	res, err := r.Evaluate(total, dice, startingPlayer)
	if err != nil {
		return res, err
	}
	start, err := game.NewPosition(total, dice, startingPlayer)
	if err != nil {
		return res, err
	}
	line, err := r.solver.Line(start)
	if err != nil {
		return res, err
	}
	res.Played = true
	res.Line = make([]int, len(line))
	for i, p := range line {
		res.Line[i] = int(p.LastMove)
	}
	if len(line) > 0 {
		res.Winner = line[len(line)-1].Winner
	}
	if res.Eval != 0 && sign(res.Eval) != int(res.Winner) {
		res.Mismatch = true
		log.Warn().
			Int("total", total).
			Uint8("dice", dice).
			Str("starting-player", startingPlayer.String()).
			Int("eval", res.Eval).
			Str("winner", res.Winner.String()).
			Msg("eval-winner-mismatch")
	}
	return res, nil
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
