package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/notewire/notewire/internal/models"
)

// ErrNoSavedSession is returned by Load when no credentials file exists.
var ErrNoSavedSession = errors.New("no saved session")

const stateFileName = "session.json"

// Storage persists credentials between runs so the client can resume an
// authenticated session without prompting for a password again.
type Storage struct {
	dir string
}

func NewStorage(dir string) *Storage {
	return &Storage{dir: dir}
}

type stateFile struct {
	Token string         `json:"token"`
	User  models.UserRef `json:"user"`
}

func (s *Storage) path() string {
	return filepath.Join(s.dir, stateFileName)
}

// Save writes the credentials file, creating the state directory if needed.
// The file holds a bearer token, so it is not group or world readable.
func (s *Storage) Save(token string, user models.UserRef) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("session: creating state dir: %w", err)
	}
	data, err := json.MarshalIndent(stateFile{Token: token, User: user}, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encoding state: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0o600); err != nil {
		return fmt.Errorf("session: writing state: %w", err)
	}
	return nil
}

// Load reads previously saved credentials.
func (s *Storage) Load() (string, models.UserRef, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", models.UserRef{}, ErrNoSavedSession
		}
		return "", models.UserRef{}, fmt.Errorf("session: reading state: %w", err)
	}
	var st stateFile
	if err := json.Unmarshal(data, &st); err != nil {
		return "", models.UserRef{}, fmt.Errorf("session: parsing state: %w", err)
	}
	return st.Token, st.User.Normalized(), nil
}

// Clear removes the credentials file. Clearing an absent file is fine.
func (s *Storage) Clear() error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: removing state: %w", err)
	}
	return nil
}
