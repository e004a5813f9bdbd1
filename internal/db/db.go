// Package db locates and opens the workspace database. A workspace keeps its
// state under .droneops/: the pilot_roster, drone_fleet and missions tables
// plus the events audit log, all in one sqlite file.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const (
	stateDir = ".droneops"
	dbFile   = "droneops.db"
)

// pragmas apply to every connection: writers wait for a busy roster instead of
// failing, and readers never block the audit log.
var pragmas = []string{"busy_timeout(5000)", "journal_mode(WAL)"}

type Config struct {
	Workspace string
}

func workspaceRoot(workspace string) string {
	if workspace == "" {
		return "."
	}
	return workspace
}

// EnsureWorkspace creates <workspace>/.droneops if missing and returns it.
func EnsureWorkspace(workspace string) (string, error) {
	dir := filepath.Join(workspaceRoot(workspace), stateDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create workspace state dir: %w", err)
	}
	return dir, nil
}

// Open opens the roster database of a workspace, creating the state
// directory first. The schema is applied separately by migrate.Migrate.
func Open(cfg Config) (*sql.DB, error) {
	if _, err := EnsureWorkspace(cfg.Workspace); err != nil {
		return nil, err
	}
	conn, err := sql.Open("sqlite", dsn(Path(cfg.Workspace)))
	if err != nil {
		return nil, fmt.Errorf("open roster db: %w", err)
	}
	return conn, nil
}

func dsn(path string) string {
	q := ""
	for i, p := range pragmas {
		if i > 0 {
			q += "&"
		}
		q += "_pragma=" + p
	}
	return "file:" + path + "?" + q
}

// Path returns the roster database file of a workspace.
func Path(workspace string) string {
	return filepath.Join(workspaceRoot(workspace), stateDir, dbFile)
}
