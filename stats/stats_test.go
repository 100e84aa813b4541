package stats

import (
	"context"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/diceflip/automatic"
	"github.com/domino14/diceflip/game"
	"github.com/domino14/diceflip/negamax"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := &RunningStat{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.Equal(s.Iterations(), len(c.scores))
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
	}
}

func TestZScore(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(zScore(95), 1.959963984540054))
	is.True(FuzzyEqual(zScore(99), 2.5758293035489))
	is.True(FuzzyEqual(zScore(68.26894921370859), 1))
}

func TestConfidenceInterval(t *testing.T) {
	is := is.New(t)
	s := &RunningStat{}
	for _, v := range []float64{1, 0, 1, 1, 0, 1} {
		s.Push(v)
	}
	lo, hi := s.ConfidenceInterval(95)
	is.True(lo < s.Mean() && s.Mean() < hi)
	is.True(FuzzyEqual(hi-s.Mean(), zScore(95)*s.StandardError()))
}

func enumerateAll(t *testing.T) []automatic.Result {
	s, err := negamax.NewSolver()
	if err != nil {
		t.Fatal(err)
	}
	report, err := automatic.NewGameRunner(s).Enumerate(context.Background(),
		automatic.DefaultEnumerateOptions(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return report.Results
}

func TestSummarize(t *testing.T) {
	is := is.New(t)
	sum := Summarize(enumerateAll(t))
	is.Equal(sum.Configurations, 432)
	is.Equal(sum.PlusWins, 216)
	is.Equal(sum.MinusWins, 216)
	is.Equal(sum.Undecided, 0)
	// The side to move wins unless the face shown is a 1 or a 6.
	is.Equal(sum.StarterWins, 288)
	is.Equal(sum.Mismatches, 0)
	is.Equal(sum.Played, 432)
	is.Equal(sum.LongestGame, 13)
	is.True(FuzzyEqual(sum.MeanPlies, 2*1708.0/432))
	is.Equal(sum.Plies.Count, 432)

	out := sum.String()
	is.True(strings.Contains(out, "Configurations: 432"))
	is.True(strings.Contains(out, "Starting player wins: 288 (66.67%)"))
	is.True(strings.Contains(out, "longest 13"))
}

func TestSummarizeUnplayed(t *testing.T) {
	is := is.New(t)
	sum := Summarize([]automatic.Result{
		{Dice: 2, StartingPlayer: game.Plus, Total: 11, Eval: 1},
		{Dice: 6, StartingPlayer: game.Plus, Total: 11, Eval: -1},
	})
	is.Equal(sum.Played, 0)
	is.Equal(sum.StarterWins, 1)
	is.True(!strings.Contains(sum.String(), "histogram"))
}

func TestStarterWinRate(t *testing.T) {
	is := is.New(t)
	mean, lo, hi := StarterWinRate(enumerateAll(t), 95)
	is.True(FuzzyEqual(mean, 2.0/3))
	is.True(lo < mean && mean < hi)
}
