// Package sqlite mirrors a loaded chain store into a SQLite file so the
// dataset can be queried with ad-hoc SQL alongside the in-memory store.
package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"addition-chain-db/internal/chain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS imports (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		source_dir TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chain_index (
		n INTEGER PRIMARY KEY,
		size INTEGER NOT NULL,
		act INTEGER NOT NULL,
		bct INTEGER NOT NULL,
		cct INTEGER NOT NULL,
		import_id TEXT NOT NULL,
		FOREIGN KEY (import_id) REFERENCES imports(id)
	);

	CREATE TABLE IF NOT EXISTS chains (
		n INTEGER NOT NULL,
		ord INTEGER NOT NULL,
		elements TEXT NOT NULL,
		kind TEXT NOT NULL,
		PRIMARY KEY (n, ord),
		FOREIGN KEY (n) REFERENCES chain_index(n)
	);
`

// InitDB opens (or creates) the SQLite database and ensures the schema.
func InitDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Import replaces the database contents with the given store in a single
// transaction and returns the new import batch ID.
func Import(db *sql.DB, st *chain.Store, sourceDir string) (string, error) {
	importID := uuid.New().String()

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Previous import is dropped wholesale; the dataset is authoritative.
	for _, stmt := range []string{`DELETE FROM chains`, `DELETE FROM chain_index`, `DELETE FROM imports`} {
		if _, err := tx.Exec(stmt); err != nil {
			return "", fmt.Errorf("failed to clear previous import: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO imports (id, source_dir) VALUES (?, ?)`, importID, sourceDir); err != nil {
		return "", fmt.Errorf("failed to insert import row: %w", err)
	}

	insertIndex, err := tx.Prepare(`INSERT INTO chain_index (n, size, act, bct, cct, import_id) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare index insert: %w", err)
	}
	defer insertIndex.Close()

	insertChain, err := tx.Prepare(`INSERT INTO chains (n, ord, elements, kind) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare chain insert: %w", err)
	}
	defer insertChain.Close()

	var importErr error
	st.AscendRange(1, chain.MaxTarget, func(rec chain.IndexRecord) bool {
		if _, err := insertIndex.Exec(rec.N, rec.Size, rec.NonBrauerCount, rec.BrauerCount, rec.TotalCount, importID); err != nil {
			importErr = fmt.Errorf("failed to insert index row for n=%d: %w", rec.N, err)
			return false
		}

		_, chains, err := st.Query(rec.N)
		if err != nil {
			importErr = err
			return false
		}
		for ord, c := range chains {
			if _, err := insertChain.Exec(c.N, ord, joinElements(c.Elements), string(c.Kind)); err != nil {
				importErr = fmt.Errorf("failed to insert chain %d for n=%d: %w", ord, c.N, err)
				return false
			}
		}
		return true
	})
	if importErr != nil {
		return "", importErr
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return importID, nil
}

// GetIndexRecord fetches the summary row for n, or nil if absent.
func GetIndexRecord(db *sql.DB, n int) (*chain.IndexRecord, error) {
	query := `SELECT n, size, act, bct, cct FROM chain_index WHERE n = ?`

	var rec chain.IndexRecord
	err := db.QueryRow(query, n).Scan(&rec.N, &rec.Size, &rec.NonBrauerCount, &rec.BrauerCount, &rec.TotalCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query index record: %w", err)
	}

	return &rec, nil
}

// GetChains fetches every chain for n in stored (lexicographic) order.
func GetChains(db *sql.DB, n int) ([]chain.ChainRecord, error) {
	query := `SELECT n, elements, kind FROM chains WHERE n = ? ORDER BY ord`

	rows, err := db.Query(query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query chains: %w", err)
	}
	defer rows.Close()

	var chains []chain.ChainRecord
	for rows.Next() {
		var c chain.ChainRecord
		var elements, kind string

		if err := rows.Scan(&c.N, &elements, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan chain: %w", err)
		}

		c.Elements, err = splitElements(elements)
		if err != nil {
			return nil, fmt.Errorf("corrupt elements column for n=%d: %w", n, err)
		}
		c.Kind = chain.Kind(kind)

		chains = append(chains, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chains: %w", err)
	}

	return chains, nil
}

// CountByKind tallies stored chains per kind tag across the whole dataset.
func CountByKind(db *sql.DB) (map[chain.Kind]int, error) {
	rows, err := db.Query(`SELECT kind, COUNT(*) FROM chains GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("failed to count chains: %w", err)
	}
	defer rows.Close()

	counts := make(map[chain.Kind]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[chain.Kind(kind)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating counts: %w", err)
	}

	return counts, nil
}

func joinElements(elements []int) string {
	parts := make([]string, len(elements))
	for i, e := range elements {
		parts[i] = strconv.Itoa(e)
	}
	return strings.Join(parts, " ")
}

func splitElements(s string) ([]int, error) {
	parts := strings.Fields(s)
	elements := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		elements[i] = v
	}
	return elements, nil
}
