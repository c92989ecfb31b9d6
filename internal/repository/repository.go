// Package repository описывает, где в хранилище лежат файлы моделей.
//
// Имя блоба: "<prefix><model>/<version>/<file>".
package repository

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/9ssi7/nanoid"
)

// ErrInvalidSegment - ошибка, когда имя или версию модели нельзя использовать как сегмент пути.
var ErrInvalidSegment = errors.New("invalid path segment")

// BlobPath возвращает prefix + modelName + "/" + modelVersion + "/" + fileName.
// Слэши не нормализуются.
func BlobPath(prefix, modelName, modelVersion, fileName string) string {
	return prefix + modelName + "/" + modelVersion + "/" + fileName
}

// ValidateSegment отклоняет значения, которые после склейки в имя блоба
// выходят за пределы схемы "<model>/<version>".
func ValidateSegment(s string) error {
	if s == "" || s == "." || s == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidSegment, s)
	}
	if strings.ContainsAny(s, `/\?#%`) {
		return fmt.Errorf("%w: %q", ErrInvalidSegment, s)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q", ErrInvalidSegment, s)
		}
	}
	return nil
}

// ModelBlobPath проверяет modelName и modelVersion и строит путь к файлу fileName.
func ModelBlobPath(prefix, modelName, modelVersion, fileName string) (string, error) {
	if err := ValidateSegment(modelName); err != nil {
		return "", err
	}
	if err := ValidateSegment(modelVersion); err != nil {
		return "", err
	}
	return BlobPath(prefix, modelName, modelVersion, fileName), nil
}

// GenerateRequestID генерирует уникальный идентификатор для связи записей лога одного запроса.
func GenerateRequestID() string {
	id, err := nanoid.New()
	if err != nil {
		return "-"
	}
	return id
}
