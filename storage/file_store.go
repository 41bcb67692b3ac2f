package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/uyouii/littlesprout/model"
	"github.com/uyouii/littlesprout/utils"
	"go.uber.org/zap"
)

// FileStore keeps the state in <dir>/<StorageKey>.json on the local device.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Path() string {
	return filepath.Join(s.dir, StorageKey+".json")
}

func (s *FileStore) Load(ctx context.Context) (*model.AppState, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewAppState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	return decodeState(ctx, data), nil
}

// Save writes to a temp file and renames it over the old state.
func (s *FileStore) Save(ctx context.Context, state *model.AppState) error {
	logger := utils.GetLogger(ctx)

	data, err := encodeState(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, StorageKey+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	logger.Debug("state saved", zap.String("path", s.Path()), zap.Int("bytes", len(data)))
	return nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(s.Path())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}
