package automatic

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/domino14/diceflip/game"
)

const createResultsTable = `
CREATE TABLE IF NOT EXISTS results (
	total           INTEGER NOT NULL,
	dice            INTEGER NOT NULL,
	starting_player INTEGER NOT NULL,
	eval            INTEGER NOT NULL,
	played          INTEGER NOT NULL DEFAULT 0,
	winner          INTEGER NOT NULL DEFAULT 0,
	line            TEXT NOT NULL DEFAULT '',
	mismatch        INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (total, dice, starting_player)
)`

// SQLiteStore keeps one row per starting configuration. Writing the same
// configuration again replaces the row.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLiteStore opens (or creates) the database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(createResultsTable); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create results table: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *SQLiteStore) Write(ctx context.Context, r Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT OR REPLACE INTO results (
	total,
	dice,
	starting_player,
	eval,
	played,
	winner,
	line,
	mismatch
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`,
		r.Total,
		r.Dice,
		int(r.StartingPlayer),
		r.Eval,
		r.Played,
		int(r.Winner),
		encodeLine(r.Line),
		r.Mismatch,
	)
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// Results lists every stored result ordered by total, dice and starting
// player.
func (s *SQLiteStore) Results(ctx context.Context) ([]Result, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT total, dice, starting_player, eval, played, winner, line, mismatch
FROM results
ORDER BY total, dice, starting_player DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r              Result
			startingPlayer int
			winner         int
			line           string
		)
		if err := rows.Scan(&r.Total, &r.Dice, &startingPlayer, &r.Eval,
			&r.Played, &winner, &line, &r.Mismatch); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.StartingPlayer = game.Player(startingPlayer)
		r.Winner = game.Player(winner)
		r.Line, err = decodeLine(line)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

// The line is stored as its faces, e.g. "565656".
func encodeLine(line []int) string {
	var sb strings.Builder
	for _, f := range line {
		sb.WriteByte(byte('0' + f))
	}
	return sb.String()
}

func decodeLine(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	line := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		f := int(s[i]) - '0'
		if f < game.MinFace || f > game.MaxFace {
			return nil, fmt.Errorf("bad face %q in stored line %q", s[i], s)
		}
		line[i] = f
	}
	return line, nil
}
