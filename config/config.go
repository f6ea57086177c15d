// File: config/config.go
// Summary: JSON configuration sections and the editor lookup used by
// stack-trace links.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	configDirName  = "clicky"
	configFileName = "config.json"

	// SectionName holds the plugin's own settings.
	SectionName = "clicky"
	editorKey   = "editor"
)

var ErrNotFound = errors.New("config: not found")

// Config stores configuration sections as JSON-compatible data.
type Config map[string]interface{}

// Section stores key/value pairs for a configuration section.
type Section map[string]interface{}

// Store is a loaded configuration. The zero value is an empty config.
type Store struct {
	mu  sync.RWMutex
	cfg Config
}

// Parse decodes a JSON config document.
func Parse(data []byte) (*Store, error) {
	cfg := make(Config)
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse: %w", err)
		}
	}
	return &Store{cfg: cfg}, nil
}

// Load reads the config file at path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: %s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// DefaultPath returns $XDG_CONFIG_HOME/clicky/config.json, or the
// platform's user config dir equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve config dir: %w", err)
	}
	return filepath.Join(dir, configDirName, configFileName), nil
}

// Section returns the named section. Missing sections are reported as
// ErrNotFound.
func (s *Store) Section(name string) (Section, error) {
	if s == nil {
		return nil, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch v := s.cfg[name].(type) {
	case map[string]interface{}:
		return Section(v), nil
	case Section:
		return v, nil
	case nil:
		return nil, fmt.Errorf("config: section %q: %w", name, ErrNotFound)
	default:
		return nil, fmt.Errorf("config: section %q is %T, not an object", name, v)
	}
}

// Set stores value under section/key, creating the section if needed.
func (s *Store) Set(section, key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		s.cfg = make(Config)
	}
	sec, ok := s.cfg[section].(map[string]interface{})
	if !ok {
		sec = make(map[string]interface{})
		s.cfg[section] = sec
	}
	sec[key] = value
}

// Editor returns clicky.editor.
func (s *Store) Editor() (string, error) {
	sec, err := s.Section(SectionName)
	if err != nil {
		return "", err
	}
	switch v := sec[editorKey].(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return "", fmt.Errorf("config: %s.%s is empty", SectionName, editorKey)
		}
		return v, nil
	case nil:
		return "", fmt.Errorf("config: %s.%s: %w", SectionName, editorKey, ErrNotFound)
	default:
		return "", fmt.Errorf("config: %s.%s is %T, not a string", SectionName, editorKey, v)
	}
}
