// Command godb runs SQL statements against a data directory.
//
// Usage:
//
//	godb exec "CREATE TABLE t (id INT, name TEXT)" "INSERT INTO t VALUES (1, 'a')"
//	godb exec -f schema.sql
//	godb explain "SELECT * FROM t WHERE id = 1"
//	godb tables
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"minidb/internal/engine"
	"minidb/internal/logging"
	"minidb/internal/sql"
)

// Globals are the flags shared by every command.
type Globals struct {
	DataDir   string `name:"data-dir" short:"d" env:"GODB_DATA_DIR" default:"data" type:"path" help:"Directory holding table files"`
	LogLevel  string `name:"log-level" env:"GODB_LOG_LEVEL" default:"warn" enum:"debug,info,warn,error" help:"Log verbosity"`
	LogFormat string `name:"log-format" env:"GODB_LOG_FORMAT" default:"text" enum:"text,json" help:"Log output format"`
}

var CLI struct {
	Globals

	Exec    ExecCmd    `cmd:"" help:"Execute SQL statements"`
	Explain ExplainCmd `cmd:"" help:"Show the access path chosen for a statement"`
	Tables  TablesCmd  `cmd:"" help:"List tables and their columns"`
}

func (g *Globals) open() (*engine.DBEngine, error) {
	log := logging.New(logging.Config{
		Level:  logging.Level(g.LogLevel),
		Format: logging.Format(g.LogFormat),
	})
	eng, err := engine.Open(engine.Config{DataDir: g.DataDir, Logger: log})
	if err != nil {
		return nil, err
	}
	for name, err := range eng.LoadErrors() {
		fmt.Fprintf(os.Stderr, "warning: table %s not loaded: %v\n", name, err)
	}
	return eng, nil
}

// ExecCmd runs statements given as arguments and/or read from a file.
type ExecCmd struct {
	SQL  []string `arg:"" optional:"" help:"SQL statements (';' separated)"`
	File string   `short:"f" type:"existingfile" help:"Read statements from file"`
}

func (c *ExecCmd) Run(g *Globals) error {
	script := strings.Join(c.SQL, ";\n")
	if c.File != "" {
		data, err := os.ReadFile(c.File)
		if err != nil {
			return err
		}
		script = string(data) + ";\n" + script
	}
	if strings.TrimSpace(script) == "" {
		return fmt.Errorf("nothing to execute: pass SQL arguments or -f FILE")
	}

	eng, err := g.open()
	if err != nil {
		return err
	}
	results, err := eng.ExecuteScript(script)
	for _, res := range results {
		printResult(os.Stdout, res)
	}
	return err
}

// ExplainCmd prints the plan for a DML statement.
type ExplainCmd struct {
	SQL string `arg:"" help:"A SELECT, INSERT, UPDATE or DELETE statement"`
}

func (c *ExplainCmd) Run(g *Globals) error {
	eng, err := g.open()
	if err != nil {
		return err
	}
	plan, err := eng.Explain(c.SQL)
	if err != nil {
		return err
	}
	fmt.Println(plan)
	return nil
}

// TablesCmd lists the loaded tables.
type TablesCmd struct{}

func (c *TablesCmd) Run(g *Globals) error {
	eng, err := g.open()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, name := range eng.ListTables() {
		schema, err := eng.TableSchema(name)
		if err != nil {
			return err
		}
		cols := make([]string, len(schema))
		for i, col := range schema {
			cols[i] = col.Name + " " + col.Type.String()
		}
		fmt.Fprintf(tw, "%s\t%s\n", name, strings.Join(cols, ", "))
	}
	return tw.Flush()
}

func printResult(w io.Writer, res *engine.Result) {
	if res.Kind != engine.ResultRowSet {
		fmt.Fprintf(w, "%d row(s) affected\n", res.RowsAffected)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(res.Columns, "\t"))
	for _, row := range res.Rows {
		parts := make([]string, len(row))
		for i, v := range row {
			parts[i] = formatValue(v)
		}
		fmt.Fprintln(tw, strings.Join(parts, "\t"))
	}
	tw.Flush()
	fmt.Fprintf(w, "(%d row(s))\n", len(res.Rows))
}

// formatValue converts a sql.Value to a human-readable string.
func formatValue(v sql.Value) string {
	switch v.Type {
	case sql.TypeText:
		return v.S
	case sql.TypeInt, sql.TypeFloat:
		return v.String()
	default:
		return "NULL"
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("godb"),
		kong.Description("A small relational SQL engine backed by plain-text table files"),
		kong.UsageOnError(),
	)
	err := ctx.Run(&CLI.Globals)
	ctx.FatalIfErrorf(err)
}
