package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by a Store when no record exists for a key.
var ErrNotFound = errors.New("credential not found")

// Store persists credential records keyed by (service, account).
//
// Save overwrites the previous record for the key; no history is retained.
// Implementations must guarantee that a concurrent Load never observes a
// partially written record.
type Store interface {
	Load(service, account string) (*Credential, error)
	Save(cred *Credential) error
	Delete(service, account string) error
}

// FileStore persists one JSON file per (service, account) under a directory.
// The directory is the durability boundary; in container deployments it is
// backed by a volume. An empty directory on first run is not an error.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store rooted
// there. Credential files are only readable by the owning user.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("credentials directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create credentials directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *FileStore) Dir() string {
	return s.dir
}

// Load reads the record for the key, or ErrNotFound.
func (s *FileStore) Load(service, account string) (*Credential, error) {
	path, err := s.path(service, account)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s/%s: %w", service, account, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to decode credential file %s: %w", filepath.Base(path), err)
	}
	return &cred, nil
}

// Save writes the record atomically: the JSON is written to a temporary file
// in the same directory and renamed over the destination, so a concurrent
// Load sees either the old record or the new one, never a torn write.
func (s *FileStore) Save(cred *Credential) error {
	if cred == nil {
		return fmt.Errorf("credential must not be nil")
	}
	path, err := s.path(cred.Service, cred.Account)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".credential-*")
	if err != nil {
		return fmt.Errorf("failed to create temp credential file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set credential file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close credential file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace credential file: %w", err)
	}
	return nil
}

// Delete removes the record for the key, or returns ErrNotFound.
func (s *FileStore) Delete(service, account string) error {
	path, err := s.path(service, account)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s/%s: %w", service, account, ErrNotFound)
		}
		return fmt.Errorf("failed to delete credential file: %w", err)
	}
	return nil
}

// path maps a key to its file, validating both components so a crafted
// service or account name cannot escape the store directory.
func (s *FileStore) path(service, account string) (string, error) {
	if err := validateName(service); err != nil {
		return "", fmt.Errorf("invalid service name %q: %w", service, err)
	}
	if err := validateName(account); err != nil {
		return "", fmt.Errorf("invalid account name %q: %w", account, err)
	}
	return filepath.Join(s.dir, service+"-"+account+".json"), nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("must not be empty")
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.' || r == '@':
		default:
			return fmt.Errorf("contains disallowed character %q", r)
		}
	}
	return nil
}
