package stats

import (
	"fmt"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/domino14/diceflip/automatic"
)

const histogramBins = 8

// Summary aggregates a set of results.
type Summary struct {
	Configurations int
	PlusWins       int
	MinusWins      int
	Undecided      int
	StarterWins    int
	Mismatches     int

	// Only played-out games count towards the length figures.
	Played      int
	MeanPlies   float64
	StdevPlies  float64
	LongestGame int
	Plies       histogram.Histogram
}

// Summarize computes a Summary.
func Summarize(results []automatic.Result) *Summary {
	s := &Summary{
		Configurations: len(results),
		PlusWins:       lo.CountBy(results, func(r automatic.Result) bool { return r.Eval > 0 }),
		MinusWins:      lo.CountBy(results, func(r automatic.Result) bool { return r.Eval < 0 }),
		Undecided:      lo.CountBy(results, func(r automatic.Result) bool { return r.Eval == 0 }),
		StarterWins: lo.CountBy(results, func(r automatic.Result) bool {
			return r.Eval*int(r.StartingPlayer) > 0
		}),
		Mismatches: lo.CountBy(results, func(r automatic.Result) bool { return r.Mismatch }),
	}
	played := lo.Filter(results, func(r automatic.Result, _ int) bool { return r.Played })
	s.Played = len(played)
	if s.Played == 0 {
		return s
	}
	plies := lo.Map(played, func(r automatic.Result, _ int) float64 { return float64(r.Plies()) })
	s.MeanPlies, s.StdevPlies = stat.MeanStdDev(plies, nil)
	s.LongestGame = lo.MaxBy(played, func(a, b automatic.Result) bool {
		return a.Plies() > b.Plies()
	}).Plies()
	s.Plies = histogram.Hist(histogramBins, plies)
	return s
}

// StarterWinRate treats every result as a draw from the starting
// distribution and estimates how often the side to move first wins, with
// a confidence interval in percent.
func StarterWinRate(results []automatic.Result, confidence float64) (mean, low, high float64) {
	rs := &RunningStat{}
	for _, r := range results {
		won := 0.0
		if r.Eval*int(r.StartingPlayer) > 0 {
			won = 1.0
		}
		rs.Push(won)
	}
	low, high = rs.ConfidenceInterval(confidence)
	return rs.Mean(), low, high
}

func (s *Summary) String() string {
	var ss strings.Builder
	fmt.Fprintf(&ss, "Configurations: %d\n", s.Configurations)
	fmt.Fprintf(&ss, "+1 wins: %d  -1 wins: %d  undecided: %d\n", s.PlusWins, s.MinusWins, s.Undecided)
	if s.Configurations > 0 {
		fmt.Fprintf(&ss, "Starting player wins: %d (%.2f%%)\n", s.StarterWins,
			100*float64(s.StarterWins)/float64(s.Configurations))
	}
	if s.Played > 0 {
		fmt.Fprintf(&ss, "Played out: %d  mismatches: %d\n", s.Played, s.Mismatches)
		fmt.Fprintf(&ss, "Game length: mean %.2f  stdev %.2f  longest %d\n",
			s.MeanPlies, s.StdevPlies, s.LongestGame)
		ss.WriteString("Game length histogram:\n")
		if err := histogram.Fprint(&ss, s.Plies, histogram.Linear(40)); err != nil {
			fmt.Fprintf(&ss, "(cannot draw histogram: %v)\n", err)
		}
	}
	return ss.String()
}
