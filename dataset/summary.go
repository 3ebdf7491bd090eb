package dataset

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Summary aggregates the game rows of a dataset directory.
type Summary struct {
	Games      int64
	TotalSteps int64
	MeanSteps  float64
	Deaths     map[string]int64 // by cause
	Strategies []StrategyStats
}

type StrategyStats struct {
	Strategy   string
	Seats      int64
	Survived   int64
	MeanLength float64
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// openGames opens an in-memory duckdb with a games view over the batches
// in dir.
func openGames(dir string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, err
	}
	// Basic pragmas; ignore errors for compatibility across versions.
	_, _ = db.Exec("PRAGMA threads=4")

	glob := filepath.Join(dir, gamesDir, "*.parquet")
	sqlText := `CREATE OR REPLACE VIEW games AS
		SELECT * FROM read_parquet('` + escapeSQLString(glob) + `', union_by_name=true)`
	if _, err := db.Exec(sqlText); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Summarize reports game counts, step totals, deaths by cause and
// per-strategy survival. A directory without batches yields a zero Summary.
func Summarize(ctx context.Context, dir string) (Summary, error) {
	sum := Summary{Deaths: map[string]int64{}}
	files, err := batchFiles(dir, gamesDir)
	if err != nil || len(files) == 0 {
		return sum, err
	}

	db, err := openGames(dir)
	if err != nil {
		return sum, err
	}
	defer db.Close()

	if err := db.QueryRowContext(ctx, `SELECT
			COUNT(*),
			COALESCE(SUM(steps), 0)::BIGINT,
			COALESCE(AVG(steps), 0)::DOUBLE
		FROM games`).Scan(&sum.Games, &sum.TotalSteps, &sum.MeanSteps); err != nil {
		return sum, err
	}

	rows, err := db.QueryContext(ctx, `SELECT p.cause, COUNT(*)::BIGINT
		FROM (SELECT unnest(players) AS p FROM games)
		WHERE NOT p.alive
		GROUP BY p.cause
		ORDER BY p.cause`)
	if err != nil {
		return sum, err
	}
	for rows.Next() {
		var cause string
		var n int64
		if err := rows.Scan(&cause, &n); err != nil {
			rows.Close()
			return sum, err
		}
		sum.Deaths[cause] = n
	}
	if err := rows.Close(); err != nil {
		return sum, err
	}

	rows, err = db.QueryContext(ctx, `SELECT
			p.role,
			COUNT(*)::BIGINT,
			SUM(CASE WHEN p.alive THEN 1 ELSE 0 END)::BIGINT,
			AVG(p.length)::DOUBLE
		FROM (SELECT unnest(players) AS p FROM games)
		GROUP BY p.role
		ORDER BY p.role`)
	if err != nil {
		return sum, err
	}
	defer rows.Close()
	for rows.Next() {
		var s StrategyStats
		if err := rows.Scan(&s.Strategy, &s.Seats, &s.Survived, &s.MeanLength); err != nil {
			return sum, err
		}
		sum.Strategies = append(sum.Strategies, s)
	}
	return sum, rows.Err()
}
