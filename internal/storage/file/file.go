package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rgehrsitz/deductgo/internal/storage"
	"gopkg.in/yaml.v3"
)

// state is the on-disk document.
type state struct {
	Key       string    `yaml:"key"`
	Submitted bool      `yaml:"submitted"`
	UpdatedAt time.Time `yaml:"updated_at,omitempty"`
}

// Store keeps the submission flag in a small YAML file. Writes are atomic
// and durable (file sync + rename + dir sync).
type Store struct {
	path string
	now  func() time.Time
}

// NewStore creates a file store at path. The file is created on first write.
func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("state file path is required")
	}
	return &Store{path: path, now: time.Now}, nil
}

// Path returns the state file location
func (s *Store) Path() string {
	return s.path
}

// Submitted returns false when the state file does not exist yet.
func (s *Store) Submitted(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read state file %s: %w", s.path, err)
	}

	var st state
	if err := yaml.Unmarshal(data, &st); err != nil {
		return false, fmt.Errorf("parse state file %s: %w", s.path, err)
	}
	if st.Key != "" && st.Key != storage.SubmittedKey {
		return false, fmt.Errorf("state file %s holds unexpected key %q", s.path, st.Key)
	}
	return st.Submitted, nil
}

func (s *Store) SetSubmitted(ctx context.Context, submitted bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := yaml.Marshal(state{
		Key:       storage.SubmittedKey,
		Submitted: submitted,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := writeFileAtomicDurable(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write state file %s: %w", s.path, err)
	}
	return nil
}

func writeFileAtomicDurable(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return fsyncDir(dir)
}

func fsyncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
