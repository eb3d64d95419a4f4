// Package dbtest provides an in-process db.PgDB for repository tests.
package dbtest

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Call struct {
	SQL  string
	Args []any
}

// DB answers every query with the configured canned result and records what it was asked.
type DB struct {
	ExecErr  error
	QueryErr error
	Row      *Row
	Rows     *Rows

	mu    sync.Mutex
	calls []Call
}

func (d *DB) record(sql string, args []any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{SQL: sql, Args: args})
}

func (d *DB) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Call(nil), d.calls...)
}

// NamedArgs returns the pgx.NamedArgs of the last recorded call, or nil.
func (d *DB) NamedArgs() pgx.NamedArgs {
	calls := d.Calls()
	if len(calls) == 0 {
		return nil
	}
	for _, a := range calls[len(calls)-1].Args {
		if named, ok := a.(pgx.NamedArgs); ok {
			return named
		}
	}
	return nil
}

func (d *DB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.record(sql, args)
	if d.ExecErr != nil {
		return pgconn.CommandTag{}, d.ExecErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (d *DB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	d.record(sql, args)
	if d.QueryErr != nil {
		return nil, d.QueryErr
	}
	if d.Rows == nil {
		return &Rows{}, nil
	}
	return d.Rows, nil
}

func (d *DB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	d.record(sql, args)
	if d.Row == nil {
		return &Row{Err: pgx.ErrNoRows}
	}
	return d.Row
}

type Row struct {
	Values []any
	Err    error
}

func (r *Row) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	return assign(r.Values, dest)
}

type Rows struct {
	Data    [][]any
	ScanErr error
	IterErr error

	pos    int
	closed bool
}

func (r *Rows) Close()                                       { r.closed = true }
func (r *Rows) Err() error                                   { return r.IterErr }
func (r *Rows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *Rows) RawValues() [][]byte                          { return nil }
func (r *Rows) Conn() *pgx.Conn                              { return nil }
func (r *Rows) Closed() bool                                 { return r.closed }

func (r *Rows) Next() bool {
	if r.closed || r.pos >= len(r.Data) {
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.ScanErr != nil {
		return r.ScanErr
	}
	return assign(r.Data[r.pos-1], dest)
}

func (r *Rows) Values() ([]any, error) {
	return r.Data[r.pos-1], nil
}

func assign(values, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("dbtest: %d values for %d destinations", len(values), len(dest))
	}
	for i, v := range values {
		target := reflect.ValueOf(dest[i])
		if target.Kind() != reflect.Pointer || target.IsNil() {
			return fmt.Errorf("dbtest: destination %d is not a pointer", i)
		}
		src := reflect.ValueOf(v)
		if !src.Type().AssignableTo(target.Elem().Type()) {
			return fmt.Errorf("dbtest: cannot assign %T to %s", v, target.Elem().Type())
		}
		target.Elem().Set(src)
	}
	return nil
}
