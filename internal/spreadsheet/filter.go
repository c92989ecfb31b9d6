package spreadsheet

import "modelreports/internal/domain/models"

// FilterByIdentifier keeps, in order, the rows whose unique_identifier column
// holds id as an integer or as an equal float. Text values never match.
// The result is never nil.
func FilterByIdentifier(rows []models.Row, id int64) []models.Row {
	out := make([]models.Row, 0)
	for _, row := range rows {
		switch v := row[models.UniqueIdentifierColumn].(type) {
		case int64:
			if v == id {
				out = append(out, row)
			}
		case float64:
			if v == float64(id) {
				out = append(out, row)
			}
		}
	}
	return out
}
