package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenCreatesStateDir(t *testing.T) {
	ws := t.TempDir()
	conn, err := Open(Config{Workspace: ws})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()
	if err := conn.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if _, err := os.Stat(Path(ws)); err != nil {
		t.Fatalf("expected db file at %s: %v", Path(ws), err)
	}
	if got, want := Path(ws), filepath.Join(ws, ".droneops", "droneops.db"); got != want {
		t.Fatalf("path = %s, want %s", got, want)
	}
}

func TestDSNCarriesPragmas(t *testing.T) {
	got := dsn("/tmp/x.db")
	if !strings.HasPrefix(got, "file:/tmp/x.db?") {
		t.Fatalf("unexpected dsn %s", got)
	}
	for _, p := range pragmas {
		if !strings.Contains(got, "_pragma="+p) {
			t.Fatalf("dsn %s missing %s", got, p)
		}
	}
}

func TestEmptyWorkspaceIsCurrentDir(t *testing.T) {
	if got := Path(""); got != filepath.Join(".", ".droneops", "droneops.db") {
		t.Fatalf("path = %s", got)
	}
}
