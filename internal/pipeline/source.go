package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
)

// FileSource reads a snapshot from a JSON file on every call.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Snapshot(_ context.Context) (domain.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read snapshot file: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	return snap, nil
}
