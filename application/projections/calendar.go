package projections

import (
	"sort"

	"workspace-backend/domain/core/entities"
	pkgerrors "workspace-backend/pkg/errors"
)

// CalendarDay is the set of rows falling on one calendar day
type CalendarDay struct {
	Date string         `json:"date"` // YYYY-MM-DD
	Rows []entities.Row `json:"rows"`
}

// CalendarView groups rows by calendar-day equality against the first field
// of type date. Rows without a parseable date value are excluded from the
// listing; they do not error.
func CalendarView(schema entities.DatabaseSchema) ([]CalendarDay, error) {
	var dateField *entities.Field
	for i := range schema.Fields {
		if schema.Fields[i].Type == entities.FieldDate {
			dateField = &schema.Fields[i]
			break
		}
	}
	if dateField == nil {
		return nil, pkgerrors.NewValidationError("no date field to group by")
	}

	byDay := map[string][]entities.Row{}
	for _, row := range schema.Rows {
		t, ok := row.TimeValue(dateField.ID)
		if !ok {
			continue
		}
		day := t.Format("2006-01-02")
		byDay[day] = append(byDay[day], row)
	}

	days := make([]CalendarDay, 0, len(byDay))
	for day, rows := range byDay {
		days = append(days, CalendarDay{Date: day, Rows: rows})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, nil
}
