package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brieflyai/brieflyai/internal/models"
)

func testReport(ts int64) *models.BriefingReport {
	return &models.BriefingReport{
		Date:             "2025/1/15",
		ExecutiveSummary: "summary",
		MobileSummary:    "mobile",
		CacheTimestamp:   ts,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	c := New(t.TempDir(), DefaultTTL)
	now := time.Now()
	c.now = func() time.Time { return now }

	if err := c.Save(testReport(now.UnixMilli())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, ok := c.Load()
	if !ok {
		t.Fatal("Load returned absent for a fresh report")
	}
	if got.ExecutiveSummary != "summary" || got.Date != "2025/1/15" {
		t.Errorf("Load returned wrong report: %+v", got)
	}
}

func TestLoadTTLBoundary(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		age    time.Duration
		wantOK bool
	}{
		{"just expired", 6*time.Hour + time.Millisecond, false},
		{"exactly at ttl", 6 * time.Hour, false},
		{"still fresh", 5*time.Hour + 59*time.Minute, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(t.TempDir(), DefaultTTL)
			c.now = func() time.Time { return now }

			ts := now.Add(-tt.age).UnixMilli()
			if err := c.Save(testReport(ts)); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if _, ok := c.Load(); ok != tt.wantOK {
				t.Errorf("Load ok = %v, want %v for age %s", ok, tt.wantOK, tt.age)
			}
		})
	}
}

func TestLoadMissingEntry(t *testing.T) {
	c := New(t.TempDir(), DefaultTTL)
	if _, ok := c.Load(); ok {
		t.Error("Load returned a report from an empty cache dir")
	}
}

func TestLoadCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "report.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(dir, DefaultTTL)
	if _, ok := c.Load(); ok {
		t.Error("Load returned a report from a corrupt entry")
	}
}

func TestStaleEntryNotDeleted(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	c := New(dir, DefaultTTL)
	c.now = func() time.Time { return now }

	if err := c.Save(testReport(now.Add(-7 * time.Hour).UnixMilli())); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, ok := c.Load(); ok {
		t.Fatal("stale report should be absent")
	}
	if _, err := os.Stat(filepath.Join(dir, "report.json")); err != nil {
		t.Errorf("stale entry was removed: %v", err)
	}
}
