package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/diceflip/automatic"
	"github.com/domino14/diceflip/config"
	"github.com/domino14/diceflip/game"
	"github.com/domino14/diceflip/stats"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) StringDefault(key, defaultS string) string {
	if s := c.String(key); s != "" {
		return s
	}
	return defaultS
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

func parseFace(s string) (uint8, error) {
	f, err := strconv.Atoi(s)
	if err != nil || f < game.MinFace || f > game.MaxFace {
		return 0, fmt.Errorf("%w: %q", game.ErrInvalidFace, s)
	}
	return uint8(f), nil
}

func valueText(v int8) string {
	switch {
	case v > 0:
		return "+1 (win)"
	case v < 0:
		return "-1 (loss)"
	}
	return "0 (unknown at this depth)"
}

func (sc *ShellController) startGame(p game.Position) *Response {
	sc.history = []game.Position{p}
	return msg(sc.gameDisplay())
}

func (sc *ShellController) gameDisplay() string {
	var b strings.Builder
	start := sc.history[0]
	fmt.Fprintf(&b, "start: total %d, face %d, %v to move\n", start.Total, start.LastMove, start.ToMove)
	if len(sc.history) > 1 {
		moves := make([]string, 0, len(sc.history)-1)
		for _, p := range sc.history[1:] {
			moves = append(moves, strconv.Itoa(int(p.LastMove)))
		}
		fmt.Fprintf(&b, "moves: %s\n", strings.Join(moves, " "))
	}
	cur := sc.history[len(sc.history)-1]
	if cur.Terminal() {
		fmt.Fprintf(&b, "game over: total %d, %v wins", cur.Total, cur.Winner)
	} else {
		fmt.Fprintf(&b, "total %d, last face %d, %v to move", cur.Total, cur.LastMove, cur.ToMove)
	}
	return b.String()
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 3 {
		return nil, errors.New("usage: new <total> <face> <player>")
	}
	total, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", game.ErrInvalidTotal, cmd.args[0])
	}
	face, err := parseFace(cmd.args[1])
	if err != nil {
		return nil, err
	}
	player, err := game.ParsePlayer(cmd.args[2])
	if err != nil {
		return nil, err
	}
	p, err := game.NewPosition(total, face, player)
	if err != nil {
		return nil, err
	}
	return sc.startGame(p), nil
}

func (sc *ShellController) randomGame(cmd *shellcmd) (*Response, error) {
	total, face := game.RollStart()
	player := game.Plus
	if frand.Intn(2) == 1 {
		player = game.Minus
	}
	p, err := game.NewPosition(total, face, player)
	if err != nil {
		return nil, err
	}
	return sc.startGame(p), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if len(sc.history) == 0 {
		return nil, errNoGame
	}
	return msg(sc.gameDisplay()), nil
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	p, err := sc.curPosition()
	if err != nil {
		return nil, err
	}
	if p.Terminal() {
		return nil, game.ErrGameOver
	}
	var b strings.Builder
	b.WriteString("face  total  value\n")
	for _, child := range game.Children(p) {
		v, err := sc.solver.Solve(child)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&b, "%4d  %5d  %s\n", child.LastMove, child.Total, valueText(-v))
	}
	return msg(strings.TrimRight(b.String(), "\n")), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: play <face>")
	}
	p, err := sc.curPosition()
	if err != nil {
		return nil, err
	}
	face, err := parseFace(cmd.args[0])
	if err != nil {
		return nil, err
	}
	next, err := p.Move(face)
	if err != nil {
		return nil, err
	}
	sc.history = append(sc.history, next)
	return msg(sc.gameDisplay()), nil
}

func (sc *ShellController) best(cmd *shellcmd) (*Response, error) {
	p, err := sc.curPosition()
	if err != nil {
		return nil, err
	}
	next, err := sc.solver.BestMove(p)
	if err != nil {
		return nil, err
	}
	sc.history = append(sc.history, next)
	return msg(fmt.Sprintf("%v plays %d\n%s", p.ToMove, next.LastMove, sc.gameDisplay())), nil
}

func (sc *ShellController) eval(cmd *shellcmd) (*Response, error) {
	p, err := sc.curPosition()
	if err != nil {
		return nil, err
	}
	v, err := sc.solver.Solve(p)
	if err != nil {
		return nil, err
	}
	if p.Terminal() {
		return msg(fmt.Sprintf("game over, %v won", p.Winner)), nil
	}
	return msg(fmt.Sprintf("value for %v: %s\nvalue for +1: %d",
		p.ToMove, valueText(v), int(p.ToMove)*int(v))), nil
}

func (sc *ShellController) line(cmd *shellcmd) (*Response, error) {
	p, err := sc.curPosition()
	if err != nil {
		return nil, err
	}
	line, err := sc.solver.Line(p)
	if err != nil {
		return nil, err
	}
	if len(line) == 0 {
		return nil, game.ErrGameOver
	}
	return msg(formatLine(p, line)), nil
}

func formatLine(from game.Position, line []game.Position) string {
	var b strings.Builder
	mover := from.ToMove
	for _, p := range line {
		fmt.Fprintf(&b, "%v plays %d, total %d\n", mover, p.LastMove, p.Total)
		mover = mover.Opponent()
	}
	fmt.Fprintf(&b, "%v wins", line[len(line)-1].Winner)
	return b.String()
}

// autoplay finishes the current game with the best move for both sides.
func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	p, err := sc.curPosition()
	if err != nil {
		return nil, err
	}
	line, err := sc.solver.Line(p)
	if err != nil {
		return nil, err
	}
	if len(line) == 0 {
		return nil, game.ErrGameOver
	}
	sc.history = append(sc.history, line...)
	return msg(formatLine(p, line) + "\n" + sc.gameDisplay()), nil
}

func (sc *ShellController) enumerate(cmd *shellcmd) (*Response, error) {
	path := cmd.options.StringDefault("out", sc.config.GetString(config.ConfigResultsPath))
	format := cmd.options.StringDefault("format", sc.config.GetString(config.ConfigResultsFormat))
	opts := automatic.DefaultEnumerateOptions()
	opts.Autoplay = sc.config.GetBool(config.ConfigAutoplay) && !cmd.options.Bool("noautoplay")

	w, err := automatic.OpenResultWriter(format, path)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Str("format", format).Bool("autoplay", opts.Autoplay).
		Msg("starting-enumeration")
	report, err := sc.runner.Enumerate(sc.ctx, opts, w)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}
	sc.results = report.Results
	return msg(fmt.Sprintf("evaluated %d configurations in %v (%d nodes, %d mismatches); results in %s",
		len(report.Results), report.Elapsed, report.Nodes, report.Mismatches, path)), nil
}

func (sc *ShellController) summary(cmd *shellcmd) (*Response, error) {
	results := sc.results
	if in := cmd.options.String("in"); in != "" {
		format := cmd.options.StringDefault("format", sc.config.GetString(config.ConfigResultsFormat))
		var err error
		results, err = automatic.LoadResults(sc.ctx, format, in)
		if err != nil {
			return nil, err
		}
	}
	if len(results) == 0 {
		return nil, errors.New("no results; run `enumerate` or pass -in <path>")
	}
	return msg(stats.Summarize(results).String()), nil
}

func (sc *ShellController) ttstats(cmd *shellcmd) (*Response, error) {
	return msg(fmt.Sprintf("%v\nnodes searched: %d",
		sc.solver.TranspositionTable().Stats(), sc.solver.Nodes())), nil
}

func (sc *ShellController) reset(cmd *shellcmd) (*Response, error) {
	if err := sc.solver.Reset(); err != nil {
		return nil, err
	}
	return msg("transposition table cleared"), nil
}

var settableKeys = []string{
	config.ConfigDebug,
	config.ConfigMaxDepth,
	config.ConfigResultsPath,
	config.ConfigResultsFormat,
	config.ConfigAutoplay,
	config.ConfigTranspositionTable,
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		var b strings.Builder
		for _, k := range settableKeys {
			fmt.Fprintf(&b, "%s: %v\n", k, sc.config.Get(k))
		}
		return msg(strings.TrimRight(b.String(), "\n")), nil
	}
	key := cmd.args[0]
	known := false
	for _, k := range settableKeys {
		known = known || k == key
	}
	if !known {
		return nil, fmt.Errorf("%w: cannot set %q", config.ErrBadConfig, key)
	}
	if len(cmd.args) == 1 {
		return msg(fmt.Sprintf("%s: %v", key, sc.config.Get(key))), nil
	}
	old := sc.config.Get(key)
	sc.config.Set(key, cmd.args[1])
	if err := sc.config.Validate(); err != nil {
		sc.config.Set(key, old)
		return nil, err
	}
	if err := sc.applySolverConfig(); err != nil {
		sc.config.Set(key, old)
		return nil, err
	}
	if key == config.ConfigDebug {
		if sc.config.GetBool(config.ConfigDebug) {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	}
	return msg(fmt.Sprintf("set %s to %v", key, sc.config.Get(key))), nil
}
