// Package models содержит типы записей, которые возвращает сервис.
package models

// Row - строка таблицы, ключи - имена столбцов.
//
// Значения - скаляры, допустимые в JSON: string, int64, float64, bool или nil.
type Row map[string]any

// UniqueIdentifierColumn - столбец, по которому фильтрует эндпоинт score.
const UniqueIdentifierColumn = "unique_identifier"
