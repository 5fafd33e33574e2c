// Package projections provides the read-only view groupings of a database
// schema. Projections never mutate; cell edits go back through the entity
// operations.
package projections

import (
	"workspace-backend/domain/core/entities"
	pkgerrors "workspace-backend/pkg/errors"
)

// BoardColumn is one group of rows under a single option value
type BoardColumn struct {
	Option string         `json:"option"`
	Rows   []entities.Row `json:"rows"`
}

// BoardView groups rows by the value of the group-by field. The field is
// schema.BoardGroupBy when set, otherwise the first status-or-select field.
// Rows whose value is not among the field's options appear under no column;
// they are not bucketed into a catch-all.
func BoardView(schema entities.DatabaseSchema) ([]BoardColumn, error) {
	field, err := boardGroupField(schema)
	if err != nil {
		return nil, err
	}

	columns := make([]BoardColumn, len(field.Options))
	byOption := make(map[string]int, len(field.Options))
	for i, opt := range field.Options {
		columns[i] = BoardColumn{Option: opt, Rows: []entities.Row{}}
		byOption[opt] = i
	}

	for _, row := range schema.Rows {
		if i, ok := byOption[row.StringValue(field.ID)]; ok {
			columns[i].Rows = append(columns[i].Rows, row)
		}
	}
	return columns, nil
}

func boardGroupField(schema entities.DatabaseSchema) (entities.Field, error) {
	if schema.BoardGroupBy != "" {
		return entities.FindField(schema, schema.BoardGroupBy)
	}
	for _, f := range schema.Fields {
		if f.Type == entities.FieldStatus || f.Type == entities.FieldSelect {
			return f, nil
		}
	}
	return entities.Field{}, pkgerrors.NewValidationError("no status or select field to group by")
}
