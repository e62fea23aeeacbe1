package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/brieflyai/brieflyai/internal/models"
)

func defaults() Defaults {
	return Defaults{
		Preferences: models.UserPreferences{PushTime: "09:00", IsAutoPushEnabled: true},
		Categories:  []models.CategoryConfig{{ID: "ai_trends", Label: "AI趋势"}},
	}
}

func TestPreferencesDefaultsWhenAbsent(t *testing.T) {
	s := New(t.TempDir(), defaults())

	prefs := s.Preferences()
	if prefs.PushTime != "09:00" || !prefs.IsAutoPushEnabled {
		t.Errorf("prefs = %+v, want seeded defaults", prefs)
	}
	if s.Theme() != "dark" {
		t.Errorf("theme = %q, want dark default", s.Theme())
	}
}

func TestPreferencesLastWriteWins(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, defaults())

	first := s.Preferences()
	first.BarkKey = "key-1"
	if err := s.SavePreferences(first); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}
	second := s.Preferences()
	second.BarkKey = "key-2"
	if err := s.SavePreferences(second); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}

	// Fresh store over the same dir sees the final write.
	reloaded := New(dir, defaults())
	if got := reloaded.Preferences().BarkKey; got != "key-2" {
		t.Errorf("BarkKey = %q, want key-2", got)
	}
}

func TestCorruptEntryDegradesToDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "preferences.json"), []byte("#!corrupt"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(dir, defaults())
	if got := s.Preferences(); got.PushTime != "09:00" {
		t.Errorf("corrupt prefs did not degrade to defaults: %+v", got)
	}
}

func TestCategoriesRoundTrip(t *testing.T) {
	s := New(t.TempDir(), defaults())

	if got := s.Categories(); len(got) != 1 || got[0].Label != "AI趋势" {
		t.Fatalf("default categories = %+v", got)
	}

	edited := []models.CategoryConfig{
		{ID: "ai_trends", Label: "AI趋势", URLs: []string{"openai.com"}},
		{ID: "sentiment", Label: "舆情分析"},
	}
	if err := s.SaveCategories(edited); err != nil {
		t.Fatalf("SaveCategories failed: %v", err)
	}
	if got := s.Categories(); len(got) != 2 || len(got[0].URLs) != 1 {
		t.Errorf("categories after save = %+v", got)
	}
}

func TestThemeRoundTrip(t *testing.T) {
	s := New(t.TempDir(), defaults())
	if err := s.SaveTheme("light"); err != nil {
		t.Fatalf("SaveTheme failed: %v", err)
	}
	if got := s.Theme(); got != "light" {
		t.Errorf("theme = %q, want light", got)
	}
}
