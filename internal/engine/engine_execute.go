package engine

import (
	"minidb/internal/dberr"
	"minidb/internal/planner"
	"minidb/internal/sql"
)

// Execute parses, plans and runs exactly one statement.
func (e *DBEngine) Execute(query string) (*Result, error) {
	stmt, err := sql.Parse(query)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.log.Debug("execute", "sql", query)
	return e.execute(stmt)
}

// ExecuteScript runs a ';'-separated script statement by statement and
// stops at the first error. Results of the statements that ran are
// returned alongside the error.
func (e *DBEngine) ExecuteScript(script string) ([]*Result, error) {
	stmts, err := sql.ParseScript(script)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	results := make([]*Result, 0, len(stmts))
	for _, stmt := range stmts {
		res, err := e.execute(stmt)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// ExecuteStatement runs an already parsed statement.
func (e *DBEngine) ExecuteStatement(stmt sql.Statement) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.execute(stmt)
}

func (e *DBEngine) execute(stmt sql.Statement) (*Result, error) {
	if !e.started {
		return nil, dberr.New(dberr.KindExec, "", "engine not started")
	}

	switch s := stmt.(type) {
	case *sql.CreateTableStmt:
		return e.executeCreateTable(s)
	case *sql.CreateIndexStmt:
		return e.executeCreateIndex(s)
	}

	plan, err := e.planner.Plan(stmt)
	if err != nil {
		return nil, err
	}
	e.log.Debug("plan", "plan", plan.String())

	switch p := plan.(type) {
	case *planner.SelectPlan:
		return e.executeSelect(p)
	case *planner.InsertPlan:
		return e.executeInsert(p)
	case *planner.UpdatePlan:
		return e.executeUpdate(p)
	case *planner.DeletePlan:
		return e.executeDelete(p)
	default:
		return nil, dberr.New(dberr.KindExec, "", "unsupported plan %T", plan)
	}
}

// Explain returns the plan chosen for a DML statement without running it.
func (e *DBEngine) Explain(query string) (string, error) {
	stmt, err := sql.Parse(query)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	plan, err := e.planner.Plan(stmt)
	if err != nil {
		return "", err
	}
	return plan.String(), nil
}
