package cookies

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name for keyring storage
	KeyringService = "pricewatch"
	// KeyringUser is the keyring entry holding the jar
	KeyringUser = "cookie-jar"
	// DefaultDir is the per-user directory for file storage
	DefaultDir = ".pricewatch"
	// DefaultFile is the jar file name inside DefaultDir
	DefaultFile = "cookies.json"
)

// Store kinds
const (
	KindAuto    = "auto"
	KindFile    = "file"
	KindKeyring = "keyring"
)

// Store loads and saves the cookie jar. A jar that does not exist yet loads as empty.
type Store interface {
	Load() ([]Cookie, error)
	Save(cookies []Cookie) error
	Clear() error
	Location() string
}

// Open returns the store of the given kind. "auto" prefers the OS keyring and falls
// back to a file where the keyring is unavailable (CI, containers).
func Open(kind, path string) (Store, error) {
	switch kind {
	case KindFile:
		return fileStore(path)
	case KindKeyring:
		return keyringStore(path), nil
	case KindAuto, "":
		if useFileBasedStorage() {
			return fileStore(path)
		}
		return keyringStore(path), nil
	default:
		return nil, fmt.Errorf("unknown cookie store %q (use: auto, file, keyring)", kind)
	}
}

// keyringStore overflows to the file store when the keyring rejects a jar as too
// large (Windows credentials cap out around 2.5KB)
func keyringStore(path string) *KeyringStore {
	ks := &KeyringStore{Service: KeyringService, User: KeyringUser}
	if fs, err := fileStore(path); err == nil {
		ks.Overflow = fs
	}
	return ks
}

func fileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &FileStore{Path: path}, nil
}

// DefaultPath returns ~/.pricewatch/cookies.json
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, DefaultDir, DefaultFile), nil
}

var fileBasedStorageCache *bool

// useFileBasedStorage probes the keyring once and caches the answer
func useFileBasedStorage() bool {
	if fileBasedStorageCache != nil {
		return *fileBasedStorageCache
	}

	if os.Getenv("CODESPACES") != "" || os.Getenv("CI") != "" {
		result := true
		fileBasedStorageCache = &result
		return true
	}

	testKey := "_test_keyring_access_"
	err := keyring.Set(KeyringService, testKey, "test")
	result := err != nil
	fileBasedStorageCache = &result

	if !result {
		keyring.Delete(KeyringService, testKey)
	} else {
		log.Debug().Err(err).Msg("Keyring unavailable, using file cookie store")
	}

	return result
}

// FileStore keeps the jar as a JSON file
type FileStore struct {
	Path string
}

// Load reads the jar; a missing file is an empty jar
func (s *FileStore) Load() ([]Cookie, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cookie jar: %w", err)
	}

	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("failed to deserialize cookie jar: %w", err)
	}
	return cookies, nil
}

// Save writes the jar, creating its directory if needed
func (s *FileStore) Save(cookies []Cookie) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return fmt.Errorf("failed to create cookie directory: %w", err)
	}

	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize cookie jar: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to save cookie jar: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("failed to save cookie jar: %w", err)
	}
	return nil
}

// Clear removes the jar file
func (s *FileStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete cookie jar: %w", err)
	}
	return nil
}

// Location returns the file path
func (s *FileStore) Location() string {
	return s.Path
}

// KeyringStore keeps the jar in the OS keyring, encrypted by the OS.
// A jar too large for the keyring goes to Overflow instead, when set.
type KeyringStore struct {
	Service  string
	User     string
	Overflow *FileStore
}

// Load reads the jar; a missing entry is an empty jar
func (s *KeyringStore) Load() ([]Cookie, error) {
	data, err := keyring.Get(s.Service, s.User)
	if err != nil {
		if s.Overflow != nil {
			return s.Overflow.Load()
		}
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load from keyring: %w", err)
	}

	var cookies []Cookie
	if err := json.Unmarshal([]byte(data), &cookies); err != nil {
		return nil, fmt.Errorf("failed to deserialize cookie jar: %w", err)
	}
	return cookies, nil
}

// Save stores the jar
func (s *KeyringStore) Save(cookies []Cookie) error {
	data, err := json.Marshal(cookies)
	if err != nil {
		return fmt.Errorf("failed to serialize cookie jar: %w", err)
	}
	err = keyring.Set(s.Service, s.User, string(data))
	switch {
	case err == nil:
		if s.Overflow != nil {
			return s.Overflow.Clear()
		}
		return nil
	case errors.Is(err, keyring.ErrSetDataTooBig) && s.Overflow != nil:
		log.Debug().
			Int("bytes", len(data)).
			Str("path", s.Overflow.Location()).
			Msg("Cookie jar too large for keyring, saving to file")
		// A stale keyring entry would shadow the file on the next Load
		if derr := keyring.Delete(s.Service, s.User); derr != nil && !errors.Is(derr, keyring.ErrNotFound) {
			log.Debug().Err(derr).Msg("Could not remove old keyring entry")
		}
		return s.Overflow.Save(cookies)
	default:
		return fmt.Errorf("failed to save to keyring: %w", err)
	}
}

// Clear deletes the jar entry and any overflow file
func (s *KeyringStore) Clear() error {
	if err := keyring.Delete(s.Service, s.User); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	if s.Overflow != nil {
		return s.Overflow.Clear()
	}
	return nil
}

// Location describes the keyring entry
func (s *KeyringStore) Location() string {
	return "keyring:" + s.Service + "/" + s.User
}
