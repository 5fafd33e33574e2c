package entities

import (
	"time"

	"workspace-backend/domain/core/valueobjects"
	pkgerrors "workspace-backend/pkg/errors"
	"workspace-backend/pkg/utils"
)

// FieldType enumerates the column types a database can declare
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldNumber      FieldType = "number"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multiselect"
	FieldStatus      FieldType = "status"
	FieldDate        FieldType = "date"
	FieldPerson      FieldType = "person"
	FieldCheckbox    FieldType = "checkbox"
	FieldURL         FieldType = "url"
	FieldEmail       FieldType = "email"
	FieldPhone       FieldType = "phone"
	FieldFiles       FieldType = "files"
)

// HasOptions reports whether the type carries an option list
func (t FieldType) HasOptions() bool {
	return t == FieldSelect || t == FieldMultiSelect || t == FieldStatus
}

// ViewKind enumerates the read-only projections of a database
type ViewKind string

const (
	ViewTable    ViewKind = "table"
	ViewBoard    ViewKind = "board"
	ViewCalendar ViewKind = "calendar"
	ViewGallery  ViewKind = "gallery"
	ViewList     ViewKind = "list"
)

// Field is a typed column definition
type Field struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Type    FieldType `json:"type"`
	Options []string  `json:"options,omitempty"`
}

// Row holds one record's values as a sparse field-id keyed mapping.
// A field with no entry reads as the empty/default value for its type.
type Row struct {
	ID     string                 `json:"id"`
	Values map[string]interface{} `json:"values"`
}

// StringValue reads a cell as a string, empty when absent or mistyped
func (r Row) StringValue(fieldID string) string {
	if s, ok := r.Values[fieldID].(string); ok {
		return s
	}
	return ""
}

// BoolValue reads a cell as a bool, false when absent or mistyped
func (r Row) BoolValue(fieldID string) bool {
	if b, ok := r.Values[fieldID].(bool); ok {
		return b
	}
	return false
}

// StringsValue reads a cell as a string sequence, nil when absent.
// JSON-decoded values arrive as []interface{} and are coerced element-wise.
func (r Row) StringsValue(fieldID string) []string {
	switch v := r.Values[fieldID].(type) {
	case []string:
		return v
	case []interface{}:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}

// TimeValue parses a cell as a calendar date, accepting both date-only and
// RFC3339 encodings
func (r Row) TimeValue(fieldID string) (time.Time, bool) {
	s := r.StringValue(fieldID)
	if s == "" {
		return time.Time{}, false
	}
	t, err := utils.ParseDate(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DatabaseSchema is a spreadsheet-like database: typed field definitions
// plus rows of dynamic values
type DatabaseSchema struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Fields       []Field  `json:"fields"`
	Rows         []Row    `json:"rows"`
	CurrentView  ViewKind `json:"currentView"`
	BoardGroupBy string   `json:"boardGroupBy,omitempty"`
}

// NewDatabaseSchema creates a database with a leading text field and no rows
func NewDatabaseSchema(name string) DatabaseSchema {
	return DatabaseSchema{
		ID:          valueobjects.NewID("db"),
		Name:        name,
		Fields:      []Field{{ID: valueobjects.NewID("field"), Name: "Name", Type: FieldText}},
		Rows:        []Row{},
		CurrentView: ViewTable,
	}
}

// AddField appends a field with a fresh id. Option-bearing types start with
// an empty option sequence.
func AddField(schema DatabaseSchema, name string, fieldType FieldType) (DatabaseSchema, error) {
	if name == "" {
		return DatabaseSchema{}, pkgerrors.NewValidationError("field name is required")
	}
	field := Field{
		ID:   valueobjects.NewID("field"),
		Name: name,
		Type: fieldType,
	}
	if fieldType.HasOptions() {
		field.Options = []string{}
	}
	schema = CloneSchema(schema)
	schema.Fields = append(schema.Fields, field)
	return schema, nil
}

// DeleteField removes the field and strips its key from every row, so no
// dangling values are retained
func DeleteField(schema DatabaseSchema, fieldID string) (DatabaseSchema, error) {
	if fieldIndex(schema.Fields, fieldID) < 0 {
		return DatabaseSchema{}, pkgerrors.NewNotFoundError("field")
	}
	schema = CloneSchema(schema)
	fields := make([]Field, 0, len(schema.Fields)-1)
	for _, f := range schema.Fields {
		if f.ID != fieldID {
			fields = append(fields, f)
		}
	}
	schema.Fields = fields
	for i := range schema.Rows {
		delete(schema.Rows[i].Values, fieldID)
	}
	if schema.BoardGroupBy == fieldID {
		schema.BoardGroupBy = ""
	}
	return schema, nil
}

// AddRow appends a row initialized with a type-appropriate default for every
// current field: false for checkbox, an empty sequence for multiselect, an
// empty string otherwise
func AddRow(schema DatabaseSchema) DatabaseSchema {
	schema = CloneSchema(schema)
	row := Row{
		ID:     valueobjects.NewID("row"),
		Values: make(map[string]interface{}, len(schema.Fields)),
	}
	for _, f := range schema.Fields {
		row.Values[f.ID] = defaultCellValue(f.Type)
	}
	schema.Rows = append(schema.Rows, row)
	return schema
}

// DeleteRow removes the row matching rowID
func DeleteRow(schema DatabaseSchema, rowID string) (DatabaseSchema, error) {
	if rowIndex(schema.Rows, rowID) < 0 {
		return DatabaseSchema{}, pkgerrors.NewNotFoundError("row")
	}
	schema = CloneSchema(schema)
	rows := make([]Row, 0, len(schema.Rows)-1)
	for _, r := range schema.Rows {
		if r.ID != rowID {
			rows = append(rows, r)
		}
	}
	schema.Rows = rows
	return schema, nil
}

// SetCellValue writes a cell. The value is not validated against the field's
// declared type; typing is advisory and enforced only by the editing UI.
// That looseness is deliberate, observed behavior, not a gap to tighten.
func SetCellValue(schema DatabaseSchema, rowID, fieldID string, value interface{}) (DatabaseSchema, error) {
	if fieldIndex(schema.Fields, fieldID) < 0 {
		return DatabaseSchema{}, pkgerrors.NewNotFoundError("field")
	}
	idx := rowIndex(schema.Rows, rowID)
	if idx < 0 {
		return DatabaseSchema{}, pkgerrors.NewNotFoundError("row")
	}
	schema = CloneSchema(schema)
	schema.Rows[idx].Values[fieldID] = value
	return schema, nil
}

// AddSelectOption appends newOption to the field's options unless an exact
// case-sensitive match is already present
func AddSelectOption(field Field, newOption string) Field {
	for _, opt := range field.Options {
		if opt == newOption {
			return field
		}
	}
	field.Options = append(append([]string(nil), field.Options...), newOption)
	return field
}

// AddFieldOption applies AddSelectOption to the field matching fieldID
func AddFieldOption(schema DatabaseSchema, fieldID, newOption string) (DatabaseSchema, error) {
	idx := fieldIndex(schema.Fields, fieldID)
	if idx < 0 {
		return DatabaseSchema{}, pkgerrors.NewNotFoundError("field")
	}
	if !schema.Fields[idx].Type.HasOptions() {
		return DatabaseSchema{}, pkgerrors.NewValidationError("field type does not carry options")
	}
	schema = CloneSchema(schema)
	schema.Fields[idx] = AddSelectOption(schema.Fields[idx], newOption)
	return schema, nil
}

// FindField returns the field matching fieldID
func FindField(schema DatabaseSchema, fieldID string) (Field, error) {
	idx := fieldIndex(schema.Fields, fieldID)
	if idx < 0 {
		return Field{}, pkgerrors.NewNotFoundError("field")
	}
	return schema.Fields[idx], nil
}

// CloneSchema deep-copies a database schema
func CloneSchema(schema DatabaseSchema) DatabaseSchema {
	fields := make([]Field, len(schema.Fields))
	for i, f := range schema.Fields {
		fields[i] = f
		fields[i].Options = append([]string(nil), f.Options...)
	}
	rows := make([]Row, len(schema.Rows))
	for i, r := range schema.Rows {
		rows[i] = Row{ID: r.ID, Values: make(map[string]interface{}, len(r.Values))}
		for k, v := range r.Values {
			rows[i].Values[k] = v
		}
	}
	schema.Fields = fields
	schema.Rows = rows
	return schema
}

func defaultCellValue(fieldType FieldType) interface{} {
	switch fieldType {
	case FieldCheckbox:
		return false
	case FieldMultiSelect:
		return []string{}
	default:
		return ""
	}
}

func fieldIndex(fields []Field, id string) int {
	for i := range fields {
		if fields[i].ID == id {
			return i
		}
	}
	return -1
}

func rowIndex(rows []Row, id string) int {
	for i := range rows {
		if rows[i].ID == id {
			return i
		}
	}
	return -1
}
