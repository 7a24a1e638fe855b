package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailynews/internal/schedule"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")

	cfg := Load()

	assert.Equal(t, "feeds.xml", cfg.Feeds.OPMLFile)
	assert.Equal(t, "daily_news", cfg.Storage.Dir)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, 4, cfg.Fetch.Workers)
	assert.False(t, cfg.Scheduler.Daemon)

	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).In(cfg.Schedule.Location()).Zone()
	assert.Equal(t, 8*3600, offset)

	assert.Equal(t, schedule.DefaultPolicy(), cfg.Schedule.Policy())
}

func TestLoadFromYAMLWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dailynews.yaml")
	raw := `
feeds:
  opmlFile: /etc/dailynews/feeds.xml
fetch:
  workers: 8
  timeout: 5s
storage:
  dir: /var/lib/dailynews
schedule:
  timezone: Asia/Tokyo
  fallback: 12h
  slots:
    - name: noon
      boundary: "12:00"
      lead: 30m
      lag: 30m
      span: 12h
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	t.Setenv(configPathEnv, path)
	t.Setenv(saveDirEnv, "/tmp/override")
	t.Setenv(timezoneEnv, "+05:30")
	t.Setenv(s3BucketEnv, "news-bucket")
	t.Setenv(databaseDSNEnv, "postgres://localhost/news")
	t.Setenv(daemonEnv, "true")

	cfg := Load()

	assert.Equal(t, "/etc/dailynews/feeds.xml", cfg.Feeds.OPMLFile)
	assert.Equal(t, 8, cfg.Fetch.Workers)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "/tmp/override", cfg.Storage.Dir)
	assert.Equal(t, BackendS3, cfg.Storage.Backend)
	assert.Equal(t, "news-bucket", cfg.Storage.S3.Bucket)
	assert.Equal(t, "postgres://localhost/news", cfg.Archive.DSN)
	assert.True(t, cfg.Scheduler.Daemon)
	assert.Equal(t, "debug", cfg.Logging.Level)

	_, offset := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).In(cfg.Schedule.Location()).Zone()
	assert.Equal(t, 5*3600+30*60, offset)

	policy := cfg.Schedule.Policy()
	require.Len(t, policy.Slots, 1)
	assert.Equal(t, schedule.Slot{Name: "noon", Boundary: 12 * time.Hour, Lead: 30 * time.Minute, Lag: 30 * time.Minute, Span: 12 * time.Hour}, policy.Slots[0])
	assert.Equal(t, 12*time.Hour, policy.Fallback)
}

func TestLoadUnreadableFileFallsBack(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()
	assert.Equal(t, "feeds.xml", cfg.Feeds.OPMLFile)
}

func TestLoadInvalidYAMLFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feeds: [unterminated"), 0o644))
	t.Setenv(configPathEnv, path)

	cfg := Load()
	assert.Equal(t, "feeds.xml", cfg.Feeds.OPMLFile)
}

func TestUnknownTimezoneRevertsToDefault(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(timezoneEnv, "Mars/Olympus")

	cfg := Load()
	assert.Equal(t, schedule.DefaultZone, cfg.Schedule.Location())
}

func TestInvalidSlotsFallBackToDefaultPolicy(t *testing.T) {
	s := ScheduleConfig{Slots: []SlotConfig{{Name: "broken", Boundary: "08:00"}}}
	assert.Equal(t, schedule.DefaultPolicy(), s.Policy())
}

func TestUnparsableSlotsFallBackToDefaultPolicy(t *testing.T) {
	s := ScheduleConfig{
		Fallback: 6 * time.Hour,
		Slots: []SlotConfig{
			{Name: "night", Boundary: "8am", Span: 8 * time.Hour},
			{Name: "morning", Boundary: "25:00", Span: 8 * time.Hour},
		},
	}

	policy := s.Policy()
	assert.Equal(t, schedule.DefaultPolicy(), policy)
	assert.NotEmpty(t, policy.Slots)
}

func TestUnparsableSlotIsSkipped(t *testing.T) {
	s := ScheduleConfig{
		Slots: []SlotConfig{
			{Name: "broken", Boundary: "noon", Span: 8 * time.Hour},
			{Name: "kept", Boundary: "12:00", Lead: time.Hour, Lag: time.Hour, Span: 8 * time.Hour},
		},
	}

	policy := s.Policy()
	require.Len(t, policy.Slots, 1)
	assert.Equal(t, "kept", policy.Slots[0].Name)
	assert.Equal(t, 12*time.Hour, policy.Slots[0].Boundary)
}
