package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
)

// ErrBlobNotFound - the requested blob does not exist.
var ErrBlobNotFound = errors.New("blob not found")

// SignedURL is a time-limited read URL. It is a bearer credential:
// String redacts the query so formatting it with %v or %s does not leak the token.
type SignedURL string

// String returns the URL without its query string.
func (u SignedURL) String() string {
	s := string(u)
	if i := strings.IndexByte(s, '?'); i >= 0 {
		return s[:i] + "?REDACTED"
	}
	return s
}

//go:generate mockgen -destination=../mocks/mock_store.go -package=mocks modelreports/internal/storage Store

// Store issues signed URLs for blobs and fetches their content.
type Store interface {
	// SignedURL returns a read-only URL for blobPath that expires after the configured lifetime.
	SignedURL(ctx context.Context, blobPath string) (SignedURL, error)
	// Download fetches the content behind u. The caller closes the returned reader.
	Download(ctx context.Context, u SignedURL) (io.ReadCloser, error)
	// Ping checks that the storage account answers.
	Ping(ctx context.Context) error
}

// escapeBlobPath escapes every segment of a blob name for use in a URL path.
func escapeBlobPath(blobPath string) string {
	segments := strings.Split(blobPath, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// redactedError hides the token of a signed URL echoed by transport errors.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, u SignedURL) error {
	s := string(u)
	i := strings.IndexByte(s, '?')
	if err == nil || i < 0 || i == len(s)-1 {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), s[i+1:], "REDACTED"), err: err}
}
