package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/diceflip/automatic"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"enumerate": {
		Options: []string{"-out", "-format", "-noautoplay"},
	},
	"summary": {
		Options: []string{"-in", "-format"},
	},
	"set": {
		Args: settableKeys,
	},
	"help": {
		Args: []string{"new", "play", "enumerate", "summary", "set"},
	},
	"play": {
		Args: []string{"1", "2", "3", "4", "5", "6"},
	},
	"new": {
		Args: []string{"11", "22", "33", "44", "55", "66"},
	},
}

var commandNames = []string{
	"help", "new", "random", "show", "moves", "play", "best", "eval", "line",
	"autoplay", "enumerate", "summary", "ttstats", "reset", "set", "exit",
}

var boolValues = []string{"true", "false"}

var formatValues = []string{automatic.FormatText, automatic.FormatYAML, automatic.FormatSQLite}

// Do implements the readline.AutoCompleter interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		switch {
		case lastCompleteField == "-format":
			completions = formatValues
		case cmdName == "set" && len(fields) >= 2 && lastCompleteField != "set":
			switch lastCompleteField {
			case "debug", "autoplay", "transposition-table":
				completions = boolValues
			case "results-format":
				completions = formatValues
			}
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			matches = append(matches, []rune(completion[len(prefix):]))
		}
	}
	return matches, len(prefix)
}
