package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Calendar.Granularity != 30 {
		t.Errorf("expected granularity 30, got %d", cfg.Calendar.Granularity)
	}
	if cfg.Calendar.DayStart != "07:00" {
		t.Errorf("expected day_start 07:00, got %s", cfg.Calendar.DayStart)
	}
	if cfg.Calendar.DayEnd != "22:00" {
		t.Errorf("expected day_end 22:00, got %s", cfg.Calendar.DayEnd)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("expected driver sqlite, got %s", cfg.Storage.Driver)
	}
	if cfg.Events.Queue != "courses.changed" {
		t.Errorf("expected queue courses.changed, got %s", cfg.Events.Queue)
	}
	if cfg.Cache.Enabled || cfg.Events.Enabled || cfg.Archive.Enabled {
		t.Error("optional backends should be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Calendar.DayStart != "07:00" {
		t.Errorf("expected default day_start, got %s", cfg.Calendar.DayStart)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[calendar]
granularity = 60
day_start = "08:00"
day_end = "18:00"
default_days = "TTH"

[storage]
driver = "mongo"
mongo_uri = "mongodb://db:27017"
mongo_database = "courses"

[server]
addr = ":8080"
cors_origins = ["https://example.edu"]

[cache]
enabled = true
addr = "redis:6379"
ttl = 60
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Calendar.Granularity != 60 {
		t.Errorf("expected granularity 60, got %d", cfg.Calendar.Granularity)
	}
	if start, end := cfg.Calendar.Window(); start != 480 || end != 1080 {
		t.Errorf("expected window 480-1080, got %d-%d", start, end)
	}
	if cfg.Calendar.Defaults().MeetingDays != "TTH" {
		t.Errorf("expected default days TTH, got %s", cfg.Calendar.DefaultDays)
	}
	// keys missing from the file keep their defaults
	if cfg.Calendar.DefaultStart != "8:00 AM" {
		t.Errorf("expected default_start to keep its default, got %s", cfg.Calendar.DefaultStart)
	}
	if cfg.Storage.Driver != "mongo" || cfg.Storage.MongoDatabase != "courses" {
		t.Errorf("unexpected storage config %+v", cfg.Storage)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://example.edu" {
		t.Errorf("unexpected cors origins %v", cfg.Server.CORSOrigins)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTLDuration() != time.Minute {
		t.Errorf("unexpected cache config %+v", cfg.Cache)
	}
}

func TestLoadFrom_InvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[calendar\ngranularity = "), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected a parse error")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("COURSEGRID_DAY_START", "08:00")
	t.Setenv("COURSEGRID_GRANULARITY", "15")
	t.Setenv("COURSEGRID_DB_PATH", "/tmp/override.db")
	t.Setenv("COURSEGRID_CACHE_ENABLED", "true")
	t.Setenv("COURSEGRID_CORS_ORIGINS", "https://a.edu,https://b.edu")
	t.Setenv("COURSEGRID_LOG_LEVEL", "debug")

	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Calendar.DayStart != "08:00" {
		t.Errorf("expected day_start 08:00, got %s", cfg.Calendar.DayStart)
	}
	if cfg.Calendar.Granularity != 15 {
		t.Errorf("expected granularity 15, got %d", cfg.Calendar.Granularity)
	}
	if cfg.Storage.DBPath != "/tmp/override.db" {
		t.Errorf("expected db path override, got %s", cfg.Storage.DBPath)
	}
	if !cfg.Cache.Enabled {
		t.Error("expected cache to be enabled")
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("expected two cors origins, got %v", cfg.Server.CORSOrigins)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
}

func TestLoadFrom_BadEnvValue(t *testing.T) {
	t.Setenv("COURSEGRID_GRANULARITY", "half-hour")
	if _, err := LoadFrom("/nonexistent/path/config.toml"); err == nil {
		t.Error("expected an error for a non-numeric granularity")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "granularity 45", mutate: func(c *Config) { c.Calendar.Granularity = 45 }},
		{name: "bad day start", mutate: func(c *Config) { c.Calendar.DayStart = "7am" }},
		{name: "day start after end", mutate: func(c *Config) { c.Calendar.DayStart, c.Calendar.DayEnd = "18:00", "08:00" }},
		{name: "unaligned window", mutate: func(c *Config) { c.Calendar.DayStart = "07:15" }},
		{name: "bad default range", mutate: func(c *Config) { c.Calendar.DefaultStart, c.Calendar.DefaultEnd = "9:00 AM", "8:00 AM" }},
		{name: "bad default days", mutate: func(c *Config) { c.Calendar.DefaultDays = "SU" }},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "postgres" }},
		{name: "empty db path", mutate: func(c *Config) { c.Storage.DBPath = "" }},
		{name: "mongo without uri", mutate: func(c *Config) { c.Storage.Driver, c.Storage.MongoURI = "mongo", "" }},
		{name: "negative rate limit", mutate: func(c *Config) { c.Server.RateLimit = -1 }},
		{name: "zero upload size", mutate: func(c *Config) { c.Server.MaxUploadMB = 0 }},
		{name: "cache without addr", mutate: func(c *Config) { c.Cache.Enabled, c.Cache.Addr = true, "" }},
		{name: "events without queue", mutate: func(c *Config) { c.Events.Enabled, c.Events.Queue = true, "" }},
		{name: "archive without bucket", mutate: func(c *Config) { c.Archive.Enabled, c.Archive.Bucket = true, "" }},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "verbose" }},
		{name: "bad log encoding", mutate: func(c *Config) { c.Log.Encoding = "xml" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_TwelveHourWindow(t *testing.T) {
	cfg := Default()
	cfg.Calendar.DayStart = "7:00 AM"
	cfg.Calendar.DayEnd = "9:00 PM"
	if err := cfg.Validate(); err != nil {
		t.Errorf("12-hour window should be accepted: %v", err)
	}
	if start, end := cfg.Calendar.Window(); start != 420 || end != 1260 {
		t.Errorf("Window() = %d-%d, want 420-1260", start, end)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.Calendar.DayStart = "07:30"
	cfg.Calendar.DayEnd = "20:30"
	cfg.Server.Addr = ":9000"
	cfg.UI.Theme = "latte"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Calendar.DayStart != "07:30" {
		t.Errorf("expected day_start 07:30, got %s", loaded.Calendar.DayStart)
	}
	if loaded.Calendar.DayEnd != "20:30" {
		t.Errorf("expected day_end 20:30, got %s", loaded.Calendar.DayEnd)
	}
	if loaded.Server.Addr != ":9000" {
		t.Errorf("expected addr :9000, got %s", loaded.Server.Addr)
	}
	if loaded.UI.Theme != "latte" {
		t.Errorf("expected theme latte, got %s", loaded.UI.Theme)
	}
}
