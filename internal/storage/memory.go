package storage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// MemoryAdapter interprets the statement shapes the repositories issue
// against in-memory tables. It exists for tests and for running the
// service without a database; it is not a SQL engine.
type MemoryAdapter struct {
	mutex  sync.RWMutex
	tables map[string][]memRow
}

var _ Adapter = (*MemoryAdapter)(nil)

// uniqueColumns lists columns enforced as unique per table, mirroring
// the migration constraints. Violations surface as pg error 23505 so
// callers detect them the same way for both adapters.
var uniqueColumns = map[string][]string{
	"users":            {"id", "email"},
	"training_menus":   {"id"},
	"training_records": {"id"},
	"training_sets":    {"id"},
}

type memRow map[string]any

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{tables: make(map[string][]memRow)}
}

func (a *MemoryAdapter) Query(_ context.Context, stmt Statement) (Rows, error) {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	results, err := selectRows(a.tables, stmt)
	if err != nil {
		return nil, err
	}
	return &memRows{results: results}, nil
}

func (a *MemoryAdapter) First(_ context.Context, stmt Statement) Row {
	a.mutex.RLock()
	defer a.mutex.RUnlock()

	results, err := selectRows(a.tables, stmt)
	if err != nil {
		return memFirstRow{err: err}
	}
	if len(results) == 0 {
		return memFirstRow{err: ErrNoRows}
	}
	return memFirstRow{values: results[0]}
}

func (a *MemoryAdapter) Run(_ context.Context, stmt Statement) (Result, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return applyWrite(a.tables, stmt)
}

// Batch applies all statements to a snapshot and swaps it in only when
// every statement succeeds.
func (a *MemoryAdapter) Batch(_ context.Context, stmts []Statement) error {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	snapshot := cloneTables(a.tables)
	for _, stmt := range stmts {
		if _, err := applyWrite(snapshot, stmt); err != nil {
			return err
		}
	}
	a.tables = snapshot
	return nil
}

func cloneTables(tables map[string][]memRow) map[string][]memRow {
	clone := make(map[string][]memRow, len(tables))
	for name, rows := range tables {
		clonedRows := make([]memRow, len(rows))
		for i, row := range rows {
			clonedRow := make(memRow, len(row))
			for col, val := range row {
				clonedRow[col] = val
			}
			clonedRows[i] = clonedRow
		}
		clone[name] = clonedRows
	}
	return clone
}

func applyWrite(tables map[string][]memRow, stmt Statement) (Result, error) {
	sql := normalizeSQL(stmt.SQL)
	switch {
	case strings.HasPrefix(sql, "INSERT INTO "):
		return insertRow(tables, sql, stmt.Params)
	case strings.HasPrefix(sql, "UPDATE "):
		return updateRows(tables, sql, stmt.Params)
	case strings.HasPrefix(sql, "DELETE FROM "):
		return deleteRows(tables, sql, stmt.Params)
	default:
		return Result{}, fmt.Errorf("memory: unsupported write statement: %s", sql)
	}
}

func normalizeSQL(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}

func insertRow(tables map[string][]memRow, sql string, params []any) (Result, error) {
	// INSERT INTO <table> (<cols>) VALUES ($1, ...)
	rest := strings.TrimPrefix(sql, "INSERT INTO ")
	open := strings.Index(rest, "(")
	if open < 0 {
		return Result{}, fmt.Errorf("memory: malformed insert: %s", sql)
	}
	table := strings.TrimSpace(rest[:open])
	closeIdx := strings.Index(rest, ")")
	if closeIdx < open {
		return Result{}, fmt.Errorf("memory: malformed insert: %s", sql)
	}
	columns := splitColumns(rest[open+1 : closeIdx])
	if len(columns) != len(params) {
		return Result{}, fmt.Errorf("memory: insert params mismatch: %s", sql)
	}

	row := make(memRow, len(columns))
	for i, col := range columns {
		row[col] = normalizeValue(params[i])
	}

	for _, uniqueCol := range uniqueColumns[table] {
		for _, existing := range tables[table] {
			if valuesEqual(existing[uniqueCol], row[uniqueCol]) {
				return Result{}, &pgconn.PgError{
					Code:    "23505",
					Message: fmt.Sprintf("duplicate key value violates unique constraint on %s.%s", table, uniqueCol),
				}
			}
		}
	}

	tables[table] = append(tables[table], row)
	return Result{RowsAffected: 1}, nil
}

func updateRows(tables map[string][]memRow, sql string, params []any) (Result, error) {
	// UPDATE <table> SET col = $n, ... WHERE <conds>
	rest := strings.TrimPrefix(sql, "UPDATE ")
	setIdx := strings.Index(rest, " SET ")
	whereIdx := strings.Index(rest, " WHERE ")
	if setIdx < 0 || whereIdx < setIdx {
		return Result{}, fmt.Errorf("memory: malformed update: %s", sql)
	}
	table := strings.TrimSpace(rest[:setIdx])
	assignments, err := parseConditions(rest[setIdx+len(" SET "):whereIdx], ", ")
	if err != nil {
		return Result{}, err
	}
	conditions, err := parseConditions(rest[whereIdx+len(" WHERE "):], " AND ")
	if err != nil {
		return Result{}, err
	}

	var affected int64
	for _, row := range tables[table] {
		if !rowMatches(row, conditions, params) {
			continue
		}
		for _, assignment := range assignments {
			row[assignment.column] = normalizeValue(params[assignment.paramIdx])
		}
		affected++
	}
	return Result{RowsAffected: affected}, nil
}

func deleteRows(tables map[string][]memRow, sql string, params []any) (Result, error) {
	rest := strings.TrimPrefix(sql, "DELETE FROM ")
	whereIdx := strings.Index(rest, " WHERE ")
	if whereIdx < 0 {
		return Result{}, fmt.Errorf("memory: malformed delete: %s", sql)
	}
	table := strings.TrimSpace(rest[:whereIdx])
	whereClause := rest[whereIdx+len(" WHERE "):]

	// DELETE FROM <t> WHERE <col> IN (SELECT <icol> FROM <itable> WHERE <conds>)
	if inIdx := strings.Index(whereClause, " IN (SELECT "); inIdx >= 0 {
		return deleteWithSubquery(tables, table, whereClause, inIdx, params)
	}

	conditions, err := parseConditions(whereClause, " AND ")
	if err != nil {
		return Result{}, err
	}

	kept := tables[table][:0]
	var affected int64
	for _, row := range tables[table] {
		if rowMatches(row, conditions, params) {
			affected++
			continue
		}
		kept = append(kept, row)
	}
	tables[table] = kept
	return Result{RowsAffected: affected}, nil
}

func deleteWithSubquery(
	tables map[string][]memRow, table, whereClause string, inIdx int, params []any,
) (Result, error) {
	column := strings.TrimSpace(whereClause[:inIdx])
	inner := strings.TrimSuffix(whereClause[inIdx+len(" IN ("):], ")")
	innerRest := strings.TrimPrefix(inner, "SELECT ")
	fromIdx := strings.Index(innerRest, " FROM ")
	innerWhereIdx := strings.Index(innerRest, " WHERE ")
	if fromIdx < 0 || innerWhereIdx < fromIdx {
		return Result{}, fmt.Errorf("memory: malformed delete subquery: %s", whereClause)
	}
	innerColumn := strings.TrimSpace(innerRest[:fromIdx])
	innerTable := strings.TrimSpace(innerRest[fromIdx+len(" FROM ") : innerWhereIdx])
	innerConditions, err := parseConditions(innerRest[innerWhereIdx+len(" WHERE "):], " AND ")
	if err != nil {
		return Result{}, err
	}

	matching := make(map[any]struct{})
	for _, row := range tables[innerTable] {
		if rowMatches(row, innerConditions, params) {
			matching[row[innerColumn]] = struct{}{}
		}
	}

	kept := tables[table][:0]
	var affected int64
	for _, row := range tables[table] {
		if _, ok := matching[row[column]]; ok {
			affected++
			continue
		}
		kept = append(kept, row)
	}
	tables[table] = kept
	return Result{RowsAffected: affected}, nil
}

func selectRows(tables map[string][]memRow, stmt Statement) ([][]any, error) {
	sql := normalizeSQL(stmt.SQL)
	// SELECT <cols> FROM <table> [WHERE <conds>] [ORDER BY <keys>]
	if !strings.HasPrefix(sql, "SELECT ") {
		return nil, fmt.Errorf("memory: unsupported query statement: %s", sql)
	}
	rest := strings.TrimPrefix(sql, "SELECT ")
	fromIdx := strings.Index(rest, " FROM ")
	if fromIdx < 0 {
		return nil, fmt.Errorf("memory: malformed select: %s", sql)
	}
	columns := splitColumns(rest[:fromIdx])
	rest = rest[fromIdx+len(" FROM "):]

	orderClause := ""
	if orderIdx := strings.Index(rest, " ORDER BY "); orderIdx >= 0 {
		orderClause = rest[orderIdx+len(" ORDER BY "):]
		rest = rest[:orderIdx]
	}

	var conditions []condition
	table := strings.TrimSpace(rest)
	if whereIdx := strings.Index(rest, " WHERE "); whereIdx >= 0 {
		table = strings.TrimSpace(rest[:whereIdx])
		var err error
		conditions, err = parseConditions(rest[whereIdx+len(" WHERE "):], " AND ")
		if err != nil {
			return nil, err
		}
	}

	var matched []memRow
	for _, row := range tables[table] {
		if rowMatches(row, conditions, stmt.Params) {
			matched = append(matched, row)
		}
	}

	if orderClause != "" {
		if err := sortMatched(matched, orderClause); err != nil {
			return nil, err
		}
	}

	results := make([][]any, len(matched))
	for i, row := range matched {
		values := make([]any, len(columns))
		for j, col := range columns {
			values[j] = row[col]
		}
		results[i] = values
	}
	return results, nil
}

type orderKey struct {
	column     string
	descending bool
}

func sortMatched(matched []memRow, orderClause string) error {
	var keys []orderKey
	for _, part := range strings.Split(orderClause, ", ") {
		fields := strings.Fields(part)
		key := orderKey{column: fields[0]}
		if len(fields) > 1 {
			switch strings.ToUpper(fields[1]) {
			case "DESC":
				key.descending = true
			case "ASC":
			default:
				return fmt.Errorf("memory: malformed order clause: %s", orderClause)
			}
		}
		keys = append(keys, key)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		for _, key := range keys {
			cmp := compareValues(matched[i][key.column], matched[j][key.column])
			if cmp == 0 {
				continue
			}
			if key.descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return nil
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		bv, _ := b.(string)
		return strings.Compare(av, bv)
	case int:
		bv, _ := b.(int)
		return av - bv
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Compare(bv)
	default:
		return 0
	}
}

type condition struct {
	column   string
	paramIdx int
}

// parseConditions parses "col = $n" fragments joined by sep.
func parseConditions(clause string, sep string) ([]condition, error) {
	parts := strings.Split(strings.TrimSpace(clause), sep)
	conditions := make([]condition, 0, len(parts))
	for _, part := range parts {
		fields := strings.Fields(part)
		if len(fields) != 3 || fields[1] != "=" || !strings.HasPrefix(fields[2], "$") {
			return nil, fmt.Errorf("memory: malformed condition: %s", part)
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(fields[2], "$"))
		if err != nil || idx < 1 {
			return nil, fmt.Errorf("memory: malformed placeholder: %s", part)
		}
		conditions = append(conditions, condition{column: fields[0], paramIdx: idx - 1})
	}
	return conditions, nil
}

func rowMatches(row memRow, conditions []condition, params []any) bool {
	for _, cond := range conditions {
		if cond.paramIdx >= len(params) {
			return false
		}
		if !valuesEqual(row[cond.column], normalizeValue(params[cond.paramIdx])) {
			return false
		}
	}
	return true
}

func splitColumns(list string) []string {
	parts := strings.Split(list, ",")
	columns := make([]string, len(parts))
	for i, part := range parts {
		columns[i] = strings.TrimSpace(part)
	}
	return columns
}

// normalizeValue flattens pointer params so nullable values compare
// and store uniformly: nil pointer becomes nil, non-nil dereferences.
func normalizeValue(v any) any {
	switch tv := v.(type) {
	case *int:
		if tv == nil {
			return nil
		}
		return *tv
	case *string:
		if tv == nil {
			return nil
		}
		return *tv
	default:
		return v
	}
}

func valuesEqual(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return a == b
}

type memRows struct {
	results [][]any
	cursor  int
}

func (r *memRows) Next() bool {
	if r.cursor >= len(r.results) {
		return false
	}
	r.cursor++
	return true
}

func (r *memRows) Scan(dest ...any) error {
	if r.cursor == 0 || r.cursor > len(r.results) {
		return fmt.Errorf("memory: scan called without next")
	}
	return scanValues(r.results[r.cursor-1], dest)
}

func (r *memRows) Err() error { return nil }
func (r *memRows) Close()     {}

type memFirstRow struct {
	values []any
	err    error
}

func (r memFirstRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanValues(r.values, dest)
}

func scanValues(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("memory: scan expects %d destinations, got %d", len(values), len(dest))
	}
	for i, value := range values {
		if err := assignValue(dest[i], value); err != nil {
			return fmt.Errorf("memory: scan column %d: %w", i, err)
		}
	}
	return nil
}

func assignValue(dest, value any) error {
	switch d := dest.(type) {
	case *string:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("cannot assign %T to *string", value)
		}
		*d = v
	case *int:
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("cannot assign %T to *int", value)
		}
		*d = v
	case *float64:
		v, ok := value.(float64)
		if !ok {
			return fmt.Errorf("cannot assign %T to *float64", value)
		}
		*d = v
	case **int:
		if value == nil {
			*d = nil
			return nil
		}
		v, ok := value.(int)
		if !ok {
			return fmt.Errorf("cannot assign %T to **int", value)
		}
		*d = &v
	case *time.Time:
		v, ok := value.(time.Time)
		if !ok {
			return fmt.Errorf("cannot assign %T to *time.Time", value)
		}
		*d = v
	case *[]byte:
		if value == nil {
			*d = nil
			return nil
		}
		v, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("cannot assign %T to *[]byte", value)
		}
		*d = v
	default:
		return fmt.Errorf("unsupported scan destination %T", dest)
	}
	return nil
}
