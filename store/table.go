// Copyright 2026 The Sitios Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"slices"

	"go.mongodb.org/mongo-driver/bson"
)

// idColumn is the driver-generated unique identifier field. When present it
// is pinned as the first column.
const idColumn = "_id"

// AbsentValue marks a cell whose document did not carry the column's field.
// It serializes to JSON null.
type AbsentValue struct{}

func (AbsentValue) String() string {
	return "<absent>"
}

func (AbsentValue) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Absent is the marker stored in ResultTable cells for missing fields.
var Absent AbsentValue

// ResultTable is a column-uniform tabular view of heterogeneous documents.
// Columns are the union of field names across all documents, _id first and
// the rest in lexicographic order; row order follows the order the engine
// returned the documents in.
type ResultTable struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Tabulate normalizes raw documents into a ResultTable. The result is
// deterministic: tabulating the same documents twice yields identical tables.
// An empty input produces a well-formed zero-row, zero-column table.
func Tabulate(docs []bson.M) *ResultTable {
	columnSet := make(map[string]struct{})
	for _, doc := range docs {
		for field := range doc {
			columnSet[field] = struct{}{}
		}
	}

	columns := make([]string, 0, len(columnSet))

	for field := range columnSet {
		if field != idColumn {
			columns = append(columns, field)
		}
	}

	slices.Sort(columns)

	if _, ok := columnSet[idColumn]; ok {
		columns = append([]string{idColumn}, columns...)
	}

	rows := make([][]any, 0, len(docs))

	for _, doc := range docs {
		row := make([]any, len(columns))

		for i, column := range columns {
			if value, ok := doc[column]; ok {
				row[i] = value
			} else {
				row[i] = Absent
			}
		}

		rows = append(rows, row)
	}

	return &ResultTable{Columns: columns, Rows: rows}
}

// Len returns the number of rows.
func (t *ResultTable) Len() int {
	return len(t.Rows)
}

// columnIndex returns the position of the named column, or -1.
func (t *ResultTable) columnIndex(name string) int {
	return slices.Index(t.Columns, name)
}

// Get returns the cell at the given row and column. The second return is
// false if the row or column does not exist; an AbsentValue cell is a valid
// value, not a miss.
func (t *ResultTable) Get(row int, column string) (any, bool) {
	if row < 0 || row >= len(t.Rows) {
		return nil, false
	}

	i := t.columnIndex(column)
	if i < 0 {
		return nil, false
	}

	return t.Rows[row][i], true
}

// Column returns every cell of the named column in row order.
func (t *ResultTable) Column(name string) ([]any, bool) {
	i := t.columnIndex(name)
	if i < 0 {
		return nil, false
	}

	values := make([]any, len(t.Rows))
	for j, row := range t.Rows {
		values[j] = row[i]
	}

	return values, true
}
