package repository

import (
	"strconv"

	"github.com/google/uuid"
)

// updateBuilder assembles partial UPDATE statements for patch-style writes.
// Only columns whose values were supplied end up in the SET clause;
// updated_at is always refreshed.
type updateBuilder struct {
	table   string
	id      uuid.UUID
	clauses []string
	args    []interface{}
}

func newUpdateBuilder(table string, id uuid.UUID) *updateBuilder {
	return &updateBuilder{table: table, id: id}
}

// Set adds a column assignment when value is a non-nil pointer.
// Non-pointer values are always assigned.
func (b *updateBuilder) Set(column string, value interface{}) {
	switch v := value.(type) {
	case *string:
		if v == nil {
			return
		}
	case *int:
		if v == nil {
			return
		}
	case *bool:
		if v == nil {
			return
		}
	case nil:
		return
	}
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, column+" = $"+strconv.Itoa(len(b.args)))
}

// Build returns the statement and arguments. ok is false when no column
// was set, in which case the write should be skipped.
func (b *updateBuilder) Build() (query string, args []interface{}, ok bool) {
	if len(b.clauses) == 0 {
		return "", nil, false
	}

	query = "UPDATE " + b.table + " SET "
	for i, clause := range b.clauses {
		if i > 0 {
			query += ", "
		}
		query += clause
	}
	b.args = append(b.args, b.id)
	query += ", updated_at = NOW() WHERE id = $" + strconv.Itoa(len(b.args))
	return query, b.args, true
}
