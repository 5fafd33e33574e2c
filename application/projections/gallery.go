package projections

import (
	"fmt"
	"strings"

	"workspace-backend/domain/core/entities"
)

// previewFieldCount is the fixed preview size for gallery and list cards
const previewFieldCount = 3

// PreviewField is one cell of a card preview
type PreviewField struct {
	FieldID string `json:"fieldId"`
	Name    string `json:"name"`
	Value   string `json:"value"`
}

// Card is one row rendered as a gallery or list entry
type Card struct {
	RowID  string         `json:"rowId"`
	Fields []PreviewField `json:"fields"`
}

// GalleryView lists rows in order with a preview of the leading fields.
// The board group-by field is excluded from previews when one is set.
func GalleryView(schema entities.DatabaseSchema) []Card {
	return listCards(schema, schema.BoardGroupBy)
}

// ListView is the same ordered listing as GalleryView; the first date field
// is additionally excluded since list rendering shows it separately.
func ListView(schema entities.DatabaseSchema) []Card {
	exclude := schema.BoardGroupBy
	for _, f := range schema.Fields {
		if f.Type == entities.FieldDate {
			exclude = f.ID
			break
		}
	}
	return listCards(schema, exclude)
}

func listCards(schema entities.DatabaseSchema, excludeFieldID string) []Card {
	fields := previewFields(schema.Fields, excludeFieldID)
	cards := make([]Card, 0, len(schema.Rows))
	for _, row := range schema.Rows {
		card := Card{RowID: row.ID, Fields: make([]PreviewField, 0, len(fields))}
		for _, f := range fields {
			card.Fields = append(card.Fields, PreviewField{
				FieldID: f.ID,
				Name:    f.Name,
				Value:   formatCellValue(row.Values[f.ID]),
			})
		}
		cards = append(cards, card)
	}
	return cards
}

func previewFields(fields []entities.Field, excludeFieldID string) []entities.Field {
	preview := make([]entities.Field, 0, previewFieldCount)
	for _, f := range fields {
		if f.ID == excludeFieldID {
			continue
		}
		preview = append(preview, f)
		if len(preview) == previewFieldCount {
			break
		}
	}
	return preview
}

func formatCellValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case []string:
		return strings.Join(v, ", ")
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, formatCellValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
