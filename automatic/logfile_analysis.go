package automatic

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/domino14/diceflip/game"
)

// ReadTextResults parses the lines a TextWriter wrote. Blank lines are
// skipped.
func ReadTextResults(r io.Reader) ([]Result, error) {
	var results []Result
	scanner := bufio.NewScanner(r)
	linenum := 0
	for scanner.Scan() {
		linenum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var (
			dice           uint8
			startingPlayer int
			res            Result
		)
		_, err := fmt.Sscanf(line, "{dice:%d,startingplayer:%d,total:%d,eval:%d}",
			&dice, &startingPlayer, &res.Total, &res.Eval)
		if err != nil {
			return nil, fmt.Errorf("line %d: %q: %w", linenum, line, err)
		}
		res.Dice = dice
		res.StartingPlayer = game.Player(startingPlayer)
		results = append(results, res)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// LoadResults reads back a results file in any of the supported formats.
func LoadResults(ctx context.Context, format, path string) ([]Result, error) {
	if format == FormatSQLite {
		store, err := OpenSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		return store.Results(ctx)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch format {
	case FormatText:
		return ReadTextResults(f)
	case FormatYAML:
		return ReadYAMLResults(f)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
