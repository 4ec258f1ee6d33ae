package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mcncl/flatptr/internal/errors"
)

// Store persists planner state as a JSON payload on disk, standing in
// for the browser localStorage slot the payload format was designed
// for.
type Store struct {
	path string
	log  *zap.Logger
}

// storedDocument wraps the payload with the localStorage key so a
// payload file is self-describing.
type storedDocument struct {
	Key   string    `json:"key"`
	State *AppState `json:"state"`
}

// NewStore creates a store writing to path. A nil logger disables
// logging.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, log: logger}
}

// Load reads the persisted state. A missing file is not an error and
// returns (nil, nil), mirroring an empty localStorage slot. Photo
// fields are normalized on the way in.
func (s *Store) Load() (*AppState, error) {
	s.log.Info("loading app state", zap.String("path", s.path), zap.String("key", StorageKey))

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Info("no app state found", zap.String("path", s.path))
			return nil, nil
		}
		return nil, errors.NewInputError(fmt.Sprintf("failed to read state file '%s'", s.path), err)
	}

	var doc storedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("state file '%s' is not valid JSON", s.path), err)
	}
	if doc.State == nil {
		return nil, errors.NewParsingError(fmt.Sprintf("state file '%s' holds no state", s.path), errors.ErrEmptyInput)
	}

	doc.State.NormalizePhotos()
	s.log.Info("loaded app state",
		zap.Int("companionships", len(doc.State.Companionships)),
		zap.Int("bytes", len(data)))
	return doc.State, nil
}

// Save persists the state's storage payload, writing through a temp
// file in the same directory so a crash mid-write cannot leave a
// truncated payload behind.
func (s *Store) Save(appState *AppState) error {
	payload, err := appState.StoragePayload()
	if err != nil {
		return err
	}

	data, err := json.Marshal(storedDocument{Key: StorageKey, State: payload})
	if err != nil {
		return errors.NewEncodeError("failed to serialize app state payload", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".flatptr-state-*")
	if err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to create temp file in '%s'", dir), err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.NewOutputError("failed to write state payload", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.NewOutputError("failed to close state payload", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return errors.NewOutputError(fmt.Sprintf("failed to move state payload to '%s'", s.path), err)
	}

	s.log.Info("saved app state", zap.String("path", s.path), zap.Int("bytes", len(data)))
	return nil
}
