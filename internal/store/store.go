// Package store persists the user-owned state: push preferences, category
// configuration and the UI theme. Everything is JSON on disk, last write
// wins, and corrupt or missing entries silently degrade to defaults.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/brieflyai/brieflyai/internal/models"
)

const (
	prefsFile      = "preferences.json"
	categoriesFile = "categories.json"
	themeFile      = "theme.json"
)

type Store struct {
	mu       sync.RWMutex
	dir      string
	defaults Defaults
}

// Defaults are served whenever a persisted entry is absent or unreadable.
type Defaults struct {
	Preferences models.UserPreferences
	Categories  []models.CategoryConfig
	Theme       string
}

func New(dir string, defaults Defaults) *Store {
	if defaults.Theme == "" {
		defaults.Theme = "dark"
	}
	return &Store{dir: dir, defaults: defaults}
}

func (s *Store) Preferences() models.UserPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefs := s.defaults.Preferences
	s.read(prefsFile, &prefs)
	return prefs
}

func (s *Store) SavePreferences(prefs models.UserPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(prefsFile, prefs)
}

func (s *Store) Categories() []models.CategoryConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var configs []models.CategoryConfig
	if !s.read(categoriesFile, &configs) || len(configs) == 0 {
		return s.defaults.Categories
	}
	return configs
}

func (s *Store) SaveCategories(configs []models.CategoryConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(categoriesFile, configs)
}

func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var theme string
	if !s.read(themeFile, &theme) || theme == "" {
		return s.defaults.Theme
	}
	return theme
}

func (s *Store) SaveTheme(theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(themeFile, theme)
}

func (s *Store) read(name string, v any) bool {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (s *Store) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name), data, 0o644)
}
