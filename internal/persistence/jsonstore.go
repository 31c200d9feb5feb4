package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	apperrors "github.com/ticketflow/ticketflow/pkg/util/errorutil"
)

// JSONStore persists one container value as a pretty-printed JSON file.
//
// Load never fails because the file is missing or holds garbage: both cases
// yield the empty container. Failures to read, create or replace the file
// are reported. JSONStore does no locking; callers that read-modify-write must
// serialize themselves.
type JSONStore[T any] struct {
	path   string
	empty  func() T
	logger *zap.Logger
}

// NewJSONStore binds a store to path. empty builds the value used when the
// file is absent or unreadable.
func NewJSONStore[T any](path string, empty func() T, logger *zap.Logger) *JSONStore[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONStore[T]{path: path, empty: empty, logger: logger}
}

// NewSliceStore is a store for an ordered sequence, encoded as [].
func NewSliceStore[E any](path string, logger *zap.Logger) *JSONStore[[]E] {
	return NewJSONStore(path, func() []E { return []E{} }, logger)
}

// NewMapStore is a store for a keyed mapping, encoded as {}.
func NewMapStore[V any](path string, logger *zap.Logger) *JSONStore[map[string]V] {
	return NewJSONStore(path, func() map[string]V { return map[string]V{} }, logger)
}

// Path returns the backing file path.
func (s *JSONStore[T]) Path() string {
	return s.path
}

// Load decodes the file, creating it with the empty container when absent.
func (s *JSONStore[T]) Load() (T, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		empty := s.empty()
		if err := s.Save(empty); err != nil {
			return empty, err
		}
		return empty, nil
	}
	if err != nil {
		// Unreadable is not the same as corrupt: saving over it would lose records.
		return s.empty(), apperrors.NewStorageError(s.path, fmt.Errorf("read: %w", err))
	}

	value := s.empty()
	if len(bytes.TrimSpace(data)) == 0 {
		return value, nil
	}
	if err := json.Unmarshal(data, &value); err != nil {
		s.logger.Warn("corrupt store file; treating as empty", zap.String("path", s.path), zap.Error(err))
		return s.empty(), nil
	}
	if isNil(value) {
		// A literal null decodes to a nil slice or map.
		return s.empty(), nil
	}
	return value, nil
}

// Save replaces the file contents with value.
func (s *JSONStore[T]) Save(value T) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return apperrors.NewStorageError(s.path, fmt.Errorf("encode: %w", err))
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperrors.NewStorageError(s.path, fmt.Errorf("create directory: %w", err))
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return apperrors.NewStorageError(s.path, fmt.Errorf("write: %w", err))
	}
	return nil
}

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Invalid:
		return true
	case reflect.Slice, reflect.Map, reflect.Pointer:
		return rv.IsNil()
	}
	return false
}
