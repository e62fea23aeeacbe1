package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/brieflyai/brieflyai/internal/models"
)

// DefaultTTL is how long a cached report stays servable.
const DefaultTTL = 6 * time.Hour

// ReportCache persists the last successful briefing report to a single JSON
// file and gates reads by report age. A stale entry is reported as absent but
// never deleted; the next successful generation overwrites it.
type ReportCache struct {
	mu   sync.RWMutex
	path string
	ttl  time.Duration
	now  func() time.Time
}

func New(dir string, ttl time.Duration) *ReportCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ReportCache{
		path: filepath.Join(dir, "report.json"),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Save writes the report atomically. The report's CacheTimestamp is expected
// to already be stamped at generation time; Save never touches it.
func (c *ReportCache) Save(report *models.BriefingReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}

// Load returns the cached report, or ok=false when the entry is missing,
// unreadable, corrupt, or at least TTL old. Corruption is never surfaced as
// an error.
func (c *ReportCache) Load() (*models.BriefingReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, false
	}

	var report models.BriefingReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, false
	}

	if c.now().UnixMilli()-report.CacheTimestamp >= c.ttl.Milliseconds() {
		return nil, false
	}

	return &report, true
}
