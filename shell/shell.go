package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/diceflip/automatic"
	"github.com/domino14/diceflip/config"
	"github.com/domino14/diceflip/game"
	"github.com/domino14/diceflip/negamax"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format for option")
	errNoGame            = errors.New("please start a game first with `new` or `random`")
	errQuit              = errors.New("sending quit signal")
)

// Options that are switches and take no value.
var switchOptions = map[string]bool{
	"noautoplay": true,
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type ShellController struct {
	l   *readline.Instance
	out io.Writer

	config     *config.Config
	gitVersion string

	ctx    context.Context
	cancel context.CancelFunc

	solver *negamax.Solver
	runner *automatic.GameRunner

	// history holds every position of the current game, starting position
	// first.
	history []game.Position
	results []automatic.Result
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func NewShellController(cfg *config.Config, gitVersion string) (*ShellController, error) {
	solver, err := negamax.NewSolver()
	if err != nil {
		return nil, err
	}
	sc := &ShellController{
		out:        os.Stdout,
		config:     cfg,
		gitVersion: gitVersion,
		solver:     solver,
		runner:     automatic.NewGameRunner(solver),
	}
	sc.ctx, sc.cancel = context.WithCancel(context.Background())
	if err := sc.applySolverConfig(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (sc *ShellController) applySolverConfig() error {
	sc.solver.SetTranspositionTableOptim(sc.config.GetBool(config.ConfigTranspositionTable))
	return sc.solver.SetMaxDepth(sc.config.GetInt(config.ConfigMaxDepth))
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// curPosition is the last position of the current game.
func (sc *ShellController) curPosition() (game.Position, error) {
	if len(sc.history) == 0 {
		return game.Position{}, errNoGame
	}
	return sc.history[len(sc.history)-1], nil
}

func isOption(field string) bool {
	if len(field) < 2 || field[0] != '-' {
		return false
	}
	// -1 is a player, not an option.
	_, err := strconv.Atoi(field)
	return err != nil
}

func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if !isOption(fields[i]) {
			args = append(args, fields[i])
			continue
		}
		opt := strings.TrimPrefix(fields[i], "-")
		if switchOptions[opt] {
			options[opt] = append(options[opt], "true")
			continue
		}
		if i+1 >= len(fields) {
			return nil, errWrongOptionSyntax
		}
		options[opt] = append(options[opt], fields[i+1])
		i++
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "exit", "bye":
		sig <- syscall.SIGINT
		return nil, errQuit
	case "help":
		return sc.help(cmd)
	case "new":
		return sc.newGame(cmd)
	case "random":
		return sc.randomGame(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "moves":
		return sc.moves(cmd)
	case "play":
		return sc.play(cmd)
	case "best":
		return sc.best(cmd)
	case "eval":
		return sc.eval(cmd)
	case "line":
		return sc.line(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "enumerate":
		return sc.enumerate(cmd)
	case "summary":
		return sc.summary(cmd)
	case "ttstats":
		return sc.ttstats(cmd)
	case "reset":
		return sc.reset(cmd)
	case "set":
		return sc.set(cmd)
	default:
		log.Debug().Msgf("you said: %v", strconv.Quote(line))
		return nil, fmt.Errorf("command %q not found; try `help`", cmd.cmd)
	}
}

// Execute runs a single command line and prints its response.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	resp, err := sc.standardModeSwitch(line, sig)
	if err != nil {
		if !errors.Is(err, errQuit) {
			sc.showError(err)
		}
		return
	}
	if resp != nil && resp.message != "" {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mdiceflip>\033[0m ",
		HistoryFile:     "/tmp/diceflip_readline.tmp",
		AutoComplete:    NewShellCompleter(sc),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		log.Error().Err(err).Msg("could not start readline")
		sig <- syscall.SIGINT
		return
	}
	sc.l = l
	sc.out = l.Stderr()
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.standardModeSwitch(line, sig)
		if errors.Is(err, errQuit) {
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops any running enumeration. It is safe to call more than once.
func (sc *ShellController) Cleanup() {
	log.Debug().Msg("cleaning up shell")
	sc.cancel()
}
