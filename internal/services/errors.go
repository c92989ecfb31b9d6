package services

import "fmt"

// IssuanceError - a signed URL could not be generated for BlobPath.
type IssuanceError struct {
	BlobPath string
	Err      error
}

func (e *IssuanceError) Error() string {
	return fmt.Sprintf("generate blob URL %s: %v", e.BlobPath, e.Err)
}

func (e *IssuanceError) Unwrap() error {
	return e.Err
}

// NotFoundError - the file of Model could not be fetched or parsed.
type NotFoundError struct {
	Model    string
	BlobPath string
	Err      error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found for model %s (%s): %v", e.Model, e.BlobPath, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// ConversionError - the parsed file of Model could not be converted to the response format.
type ConversionError struct {
	Model string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert file for model %s: %v", e.Model, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
