package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"
)

const memoryScheme = "memory://"

// MemoryStore keeps blobs in memory. Its signed URLs only resolve against the same store.
type MemoryStore struct {
	blobs     map[string][]byte
	container string
	expiry    time.Duration
	now       func() time.Time
	mu        sync.Mutex
}

// NewMemoryStore creates an empty MemoryStore for container.
func NewMemoryStore(container string, expiry time.Duration) *MemoryStore {
	return &MemoryStore{
		blobs:     make(map[string][]byte),
		container: container,
		expiry:    expiry,
		now:       time.Now,
	}
}

// Put stores data under blobPath.
func (s *MemoryStore) Put(blobPath string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[blobPath] = bytes.Clone(data)
}

// SignedURL returns "memory://<container>/<blob>?se=<unix expiry>".
func (s *MemoryStore) SignedURL(_ context.Context, blobPath string) (SignedURL, error) {
	se := s.now().Add(s.expiry).Unix()
	return SignedURL(memoryScheme + s.container + "/" + blobPath + "?se=" + strconv.FormatInt(se, 10)), nil
}

// Download returns the blob named by u unless u has expired.
func (s *MemoryStore) Download(_ context.Context, u SignedURL) (io.ReadCloser, error) {
	raw := string(u)
	rest, ok := strings.CutPrefix(raw, memoryScheme+s.container+"/")
	if !ok {
		return nil, fmt.Errorf("url %s does not belong to container %s", u, s.container)
	}

	blobPath, query, _ := strings.Cut(rest, "?")
	se, err := strconv.ParseInt(strings.TrimPrefix(query, "se="), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("url %s has no expiry", u)
	}
	if s.now().Unix() > se {
		return nil, fmt.Errorf("url %s expired", u)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, exists := s.blobs[blobPath]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, blobPath)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Ping always succeeds.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}
