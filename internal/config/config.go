package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"dailynews/internal/schedule"
)

const (
	defaultTimezone = "UTC+8"
	configPathEnv   = "DAILYNEWS_CONFIG"
	opmlFileEnv     = "DAILYNEWS_OPML_FILE"
	saveDirEnv      = "DAILYNEWS_SAVE_DIR"
	timezoneEnv     = "DAILYNEWS_TIMEZONE"
	logLevelEnv     = "DAILYNEWS_LOG_LEVEL"
	daemonEnv       = "DAILYNEWS_DAEMON"
	databaseDSNEnv  = "DATABASE_DSN"
	s3BucketEnv     = "S3_BUCKET"
	s3RegionEnv     = "S3_REGION"
	s3PrefixEnv     = "S3_PREFIX"
	s3ProfileEnv    = "S3_PROFILE"
	s3EndpointEnv   = "S3_ENDPOINT"
	s3PathStyleEnv  = "S3_USE_PATH_STYLE"

	BackendFile = "file"
	BackendS3   = "s3"
)

// Config holds high-level settings required across the application.
type Config struct {
	Feeds     FeedsConfig     `yaml:"feeds"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Storage   StorageConfig   `yaml:"storage"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// FeedsConfig points at the OPML feed list.
type FeedsConfig struct {
	OPMLFile string `yaml:"opmlFile"`
}

// FetchConfig bounds the per-feed fetch step.
type FetchConfig struct {
	Workers   int           `yaml:"workers"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
}

// StorageConfig selects where daily buckets live.
type StorageConfig struct {
	Backend string   `yaml:"backend"`
	Dir     string   `yaml:"dir"`
	S3      S3Config `yaml:"s3"`
}

// S3Config describes the bucket used by the s3 backend.
type S3Config struct {
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	Region       string `yaml:"region"`
	Profile      string `yaml:"profile"`
	Endpoint     string `yaml:"endpoint"`
	UsePathStyle bool   `yaml:"usePathStyle"`
}

// ArchiveConfig enables the Postgres history mirror when DSN is set.
type ArchiveConfig struct {
	DSN string `yaml:"dsn"`
}

// ScheduleConfig describes the run slots and the target zone.
type ScheduleConfig struct {
	Timezone string         `yaml:"timezone"`
	Fallback time.Duration  `yaml:"fallback"`
	Slots    []SlotConfig   `yaml:"slots"`
	location *time.Location `yaml:"-"`
}

// SlotConfig is one scheduled run; Boundary is "HH:MM" in the target zone.
type SlotConfig struct {
	Name     string        `yaml:"name"`
	Boundary string        `yaml:"boundary"`
	Lead     time.Duration `yaml:"lead"`
	Lag      time.Duration `yaml:"lag"`
	Span     time.Duration `yaml:"span"`
}

// SchedulerConfig switches between a single run and a resident process.
type SchedulerConfig struct {
	Daemon bool `yaml:"daemon"`
}

// LoggingConfig sets the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Location resolves the schedule timezone string to a time.Location.
func (s ScheduleConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	return schedule.DefaultZone
}

// Policy converts the slot list into a schedule policy. Slots with an
// unparsable boundary are skipped with a log line; if none survive, the
// default policy is used.
func (s ScheduleConfig) Policy() schedule.Policy {
	policy := schedule.Policy{Fallback: s.Fallback}
	for _, slot := range s.Slots {
		boundary, err := schedule.ParseClock(slot.Boundary)
		if err != nil {
			log.Printf("config: slot %q: %v (skipped)", slot.Name, err)
			continue
		}
		policy.Slots = append(policy.Slots, schedule.Slot{
			Name:     slot.Name,
			Boundary: boundary,
			Lead:     slot.Lead,
			Lag:      slot.Lag,
			Span:     slot.Span,
		})
	}
	if len(s.Slots) > 0 && len(policy.Slots) == 0 {
		log.Printf("config: no usable schedule slots (falling back to defaults)")
		return schedule.DefaultPolicy()
	}
	if err := policy.Validate(); err != nil {
		log.Printf("config: invalid schedule: %v (falling back to defaults)", err)
		return schedule.DefaultPolicy()
	}
	return policy
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(opmlFileEnv); v != "" {
		c.Feeds.OPMLFile = v
	}

	if v := os.Getenv(saveDirEnv); v != "" {
		c.Storage.Dir = v
	}

	if v := os.Getenv(timezoneEnv); v != "" {
		c.Schedule.Timezone = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(daemonEnv); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Scheduler.Daemon = b
		}
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Archive.DSN = v
	}

	if v := strings.TrimSpace(os.Getenv(s3BucketEnv)); v != "" {
		c.Storage.Backend = BackendS3
		c.Storage.S3.Bucket = v
	}
	if v := strings.TrimSpace(os.Getenv(s3RegionEnv)); v != "" {
		c.Storage.S3.Region = v
	}
	if v := strings.TrimSpace(os.Getenv(s3PrefixEnv)); v != "" {
		c.Storage.S3.Prefix = v
	}
	if v := strings.TrimSpace(os.Getenv(s3ProfileEnv)); v != "" {
		c.Storage.S3.Profile = v
	}
	if v := strings.TrimSpace(os.Getenv(s3EndpointEnv)); v != "" {
		c.Storage.S3.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv(s3PathStyleEnv)); v != "" {
		c.Storage.S3.UsePathStyle = strings.EqualFold(v, "true")
	}
}

func (c *Config) bindTimezone() {
	tz := c.Schedule.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := schedule.ParseZone(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc = schedule.DefaultZone
	}
	c.Schedule.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Feeds.OPMLFile != "" {
		base.Feeds.OPMLFile = override.Feeds.OPMLFile
	}

	if override.Fetch.Workers > 0 {
		base.Fetch.Workers = override.Fetch.Workers
	}
	if override.Fetch.Timeout > 0 {
		base.Fetch.Timeout = override.Fetch.Timeout
	}
	if override.Fetch.UserAgent != "" {
		base.Fetch.UserAgent = override.Fetch.UserAgent
	}

	if override.Storage.Backend != "" {
		base.Storage.Backend = override.Storage.Backend
	}
	if override.Storage.Dir != "" {
		base.Storage.Dir = override.Storage.Dir
	}
	if override.Storage.S3.Bucket != "" {
		base.Storage.S3 = override.Storage.S3
	}

	if override.Archive.DSN != "" {
		base.Archive = override.Archive
	}

	if override.Schedule.Timezone != "" {
		base.Schedule.Timezone = override.Schedule.Timezone
	}
	if override.Schedule.Fallback > 0 {
		base.Schedule.Fallback = override.Schedule.Fallback
	}
	if len(override.Schedule.Slots) > 0 {
		base.Schedule.Slots = override.Schedule.Slots
	}

	if override.Scheduler.Daemon {
		base.Scheduler.Daemon = true
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Feeds: FeedsConfig{OPMLFile: "feeds.xml"},
		Fetch: FetchConfig{Workers: 4, Timeout: 20 * time.Second, UserAgent: "dailynews/1.0"},
		Storage: StorageConfig{
			Backend: BackendFile,
			Dir:     "daily_news",
		},
		Schedule: ScheduleConfig{
			Timezone: defaultTimezone,
			Fallback: 24 * time.Hour,
			Slots: []SlotConfig{
				{Name: "night", Boundary: "08:00", Lead: time.Hour, Lag: time.Hour, Span: 8 * time.Hour},
				{Name: "morning", Boundary: "16:00", Lead: time.Hour, Lag: time.Hour, Span: 8 * time.Hour},
				{Name: "evening", Boundary: "00:00", Lead: time.Hour, Lag: time.Hour, Span: 8 * time.Hour},
			},
			location: schedule.DefaultZone,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
