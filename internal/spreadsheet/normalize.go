package spreadsheet

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"

	"modelreports/internal/domain/models"
)

// ErrUnsupportedValue indicates a value that has no JSON representation.
var ErrUnsupportedValue = errors.New("unsupported value")

// Normalize returns a copy of rows where every value is a JSON-safe scalar:
// times become RFC 3339 strings, integer and float widths are widened to
// int64 and float64, and nested maps or sequences become nil.
// NaN and infinite floats are rejected. Normalizing twice yields the same rows.
func Normalize(rows []models.Row) ([]models.Row, error) {
	out := make([]models.Row, len(rows))
	for i, row := range rows {
		normalized := make(models.Row, len(row))
		for key, value := range row {
			v, err := normalizeValue(value)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i, key, err)
			}
			normalized[key] = v
		}
		out[i] = normalized
	}
	return out, nil
}

func normalizeValue(v any) (any, error) {
	switch val := v.(type) {
	case nil, string, bool, int64:
		return val, nil
	case float64:
		return finite(val)
	case float32:
		return finite(float64(val))
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case uint:
		return unsigned(uint64(val))
	case uint64:
		return unsigned(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano), nil
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
}

func finite(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedValue, f)
	}
	return f, nil
}

func unsigned(u uint64) (any, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedValue, u)
	}
	return int64(u), nil
}
