package automatic

import (
	"errors"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/diceflip/game"
	"github.com/domino14/diceflip/negamax"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func newRunner(t testing.TB) *GameRunner {
	s, err := negamax.NewSolver()
	if err != nil {
		t.Fatal(err)
	}
	return NewGameRunner(s)
}

func TestPlayGameEleven(t *testing.T) {
	is := is.New(t)
	r := newRunner(t)
	res, err := r.PlayGame(11, 6, game.Minus)
	is.NoErr(err)
	is.Equal(res.Eval, 1)
	is.True(res.Played)
	is.Equal(res.Line, []int{5, 6})
	is.Equal(res.Plies(), 2)
	is.Equal(res.Winner, game.Plus)
	is.True(!res.Mismatch)
}

func TestPlayGameSixtySix(t *testing.T) {
	is := is.New(t)
	r := newRunner(t)
	res, err := r.PlayGame(66, 1, game.Plus)
	is.NoErr(err)
	is.Equal(res.Eval, -1)
	is.Equal(res.Plies(), 12)
	is.Equal(res.Winner, game.Minus)
	is.True(!res.Mismatch)

	// Sixty-six from the other side is the mirror image.
	res, err = r.PlayGame(66, 1, game.Minus)
	is.NoErr(err)
	is.Equal(res.Eval, 1)
	is.Equal(res.Winner, game.Plus)
}

func TestEvaluateOnly(t *testing.T) {
	is := is.New(t)
	r := newRunner(t)
	res, err := r.Evaluate(23, 4, game.Plus)
	is.NoErr(err)
	is.Equal(res, Result{Dice: 4, StartingPlayer: game.Plus, Total: 23, Eval: 1})
	is.True(!res.Played)
	is.Equal(res.Plies(), 0)

	_, err = r.Evaluate(23, 9, game.Plus)
	is.True(errors.Is(err, game.ErrInvalidFace))
	_, err = r.PlayGame(0, 3, game.Plus)
	is.True(errors.Is(err, game.ErrInvalidTotal))
}
