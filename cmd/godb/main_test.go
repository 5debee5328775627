package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"minidb/internal/engine"
	"minidb/internal/sql"
)

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, &engine.Result{Kind: engine.ResultRowsAffected, RowsAffected: 3})
	printResult(&buf, &engine.Result{
		Kind:    engine.ResultRowSet,
		Columns: []string{"id", "name"},
		Rows:    []sql.Row{{sql.IntValue(1), sql.TextValue("alice")}},
	})

	want := "3 row(s) affected\nid  name\n1   alice\n(1 row(s))\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestExecCmdPersists(t *testing.T) {
	dir := t.TempDir()
	g := &Globals{DataDir: dir, LogLevel: "error", LogFormat: "text"}

	script := filepath.Join(t.TempDir(), "init.sql")
	if err := os.WriteFile(script, []byte("CREATE TABLE t (id INT, v FLOAT);\nINSERT INTO t VALUES (1, 2)"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	cmd := &ExecCmd{File: script, SQL: []string{"INSERT INTO t VALUES (2, 3.5)"}}
	if err := cmd.Run(g); err != nil {
		t.Fatalf("exec: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "t.tbl"))
	if err != nil {
		t.Fatalf("read table file: %v", err)
	}
	if got := string(data); got != "id:INT,v:FLOAT\n1|2.0\n2|3.5\n" {
		t.Fatalf("table file = %q", got)
	}

	if err := (&ExecCmd{}).Run(g); err == nil || !strings.Contains(err.Error(), "nothing to execute") {
		t.Fatalf("empty exec err = %v", err)
	}
}
