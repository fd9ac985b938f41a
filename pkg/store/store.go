// Package store is a small filtered-select client over the listing tables.
// It speaks in the tables' own column labels and returns untyped rows; mapping
// labels onto domain structs is left to internal/records.
package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Row is one result row keyed by column label.
type Row map[string]any

// Client issues read queries against the shared connection.
type Client struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Client {
	return &Client{db: db}
}

// From starts a query on the named table.
func (c *Client) From(table string) Query {
	return Query{db: c.db, table: table}
}

// Predicate is a single comparison usable inside Or.
type Predicate struct {
	field string
	op    op
	value any
}

type op int

const (
	opEq op = iota
	opILike
)

// Eq builds an equality predicate.
func Eq(field string, value any) Predicate {
	return Predicate{field: field, op: opEq, value: value}
}

// ILike builds a case-insensitive substring predicate. The term is wrapped in %...%.
func ILike(field, term string) Predicate {
	return Predicate{field: field, op: opILike, value: term}
}

// Query is an immutable query description; every builder call returns a new copy.
type Query struct {
	db      *gorm.DB
	table   string
	columns []string
	where   []clause.Expression
	orders  []clause.OrderByColumn
	limit   int
}

func (q Query) Select(columns ...string) Query {
	q.columns = append(append([]string(nil), q.columns...), columns...)
	return q
}

func (q Query) Eq(field string, value any) Query {
	return q.with(q.expr(Eq(field, value)))
}

func (q Query) ILike(field, term string) Query {
	return q.with(q.expr(ILike(field, term)))
}

// Or adds a group of predicates of which at least one must hold.
func (q Query) Or(preds ...Predicate) Query {
	if len(preds) == 0 {
		return q
	}
	exprs := make([]clause.Expression, 0, len(preds))
	for _, p := range preds {
		exprs = append(exprs, q.expr(p))
	}
	return q.with(clause.Or(exprs...))
}

func (q Query) Order(field string, ascending bool) Query {
	q.orders = append(append([]clause.OrderByColumn(nil), q.orders...), clause.OrderByColumn{
		Column: clause.Column{Name: field},
		Desc:   !ascending,
	})
	return q
}

func (q Query) Limit(n int) Query {
	q.limit = n
	return q
}

// Rows runs the select and returns every matching row.
func (q Query) Rows(ctx context.Context) ([]Row, error) {
	tx, err := q.base(ctx)
	if err != nil {
		return nil, err
	}
	if len(q.columns) > 0 {
		cols := make([]clause.Column, 0, len(q.columns))
		for _, c := range q.columns {
			cols = append(cols, clause.Column{Name: c})
		}
		tx = tx.Clauses(clause.Select{Columns: cols})
	}
	if len(q.orders) > 0 {
		tx = tx.Clauses(clause.OrderBy{Columns: q.orders})
	}
	if q.limit > 0 {
		tx = tx.Limit(q.limit)
	}

	var raw []map[string]any
	if err := tx.Find(&raw).Error; err != nil {
		return nil, fmt.Errorf("select from %q: %w", q.table, err)
	}
	rows := make([]Row, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, Row(r))
	}
	return rows, nil
}

// Count runs a head query returning only the number of matching rows.
func (q Query) Count(ctx context.Context) (int64, error) {
	tx, err := q.base(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := tx.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count from %q: %w", q.table, err)
	}
	return n, nil
}

func (q Query) base(ctx context.Context) (*gorm.DB, error) {
	if q.db == nil {
		return nil, fmt.Errorf("store client not initialized")
	}
	if strings.TrimSpace(q.table) == "" {
		return nil, fmt.Errorf("table is required")
	}
	tx := q.db.WithContext(ctx).Table("?", clause.Table{Name: q.table})
	if len(q.where) > 0 {
		tx = tx.Clauses(clause.Where{Exprs: q.where})
	}
	return tx, nil
}

func (q Query) with(expr clause.Expression) Query {
	q.where = append(append([]clause.Expression(nil), q.where...), expr)
	return q
}

func (q Query) expr(p Predicate) clause.Expression {
	col := clause.Column{Name: p.field}
	switch p.op {
	case opILike:
		pattern := "%" + fmt.Sprint(p.value) + "%"
		if q.db != nil && q.db.Dialector.Name() == "postgres" {
			return clause.Expr{SQL: "? ILIKE ?", Vars: []any{col, pattern}}
		}
		return clause.Expr{SQL: "LOWER(?) LIKE LOWER(?)", Vars: []any{col, pattern}}
	default:
		return clause.Eq{Column: col, Value: p.value}
	}
}
