package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "tutord.db"
)

// Config is the root application configuration.
type Config struct {
	Timezone  string          `toml:"timezone"  env:"TUTORD_TIMEZONE" env-default:"UTC"`
	DBPath    string          `toml:"db_path"   env:"TUTORD_DB_PATH"  env-default:"tutord.db"`
	Locale    string          `toml:"locale"    env:"TUTORD_LOCALE"   env-default:"en"`
	SkipSeed  bool            `toml:"skip_seed" env:"TUTORD_SKIP_SEED"`
	Log       LogConfig       `toml:"log"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	UI        UIConfig        `toml:"ui"`
}

// LogConfig holds logging settings. An empty File logs to stderr.
type LogConfig struct {
	Level  string `toml:"level"  env:"TUTORD_LOG_LEVEL"  env-default:"info"`
	Format string `toml:"format" env:"TUTORD_LOG_FORMAT" env-default:"text"`
	File   string `toml:"file"   env:"TUTORD_LOG_FILE"`
}

type SchedulerConfig struct {
	Buffer            int `toml:"buffer"              env:"TUTORD_SCHEDULER_BUFFER"     env-default:"64"`
	LessonLeadMinutes int `toml:"lesson_lead_minutes" env:"TUTORD_LESSON_LEAD_MINUTES" env-default:"10"`
}

type UIConfig struct {
	MarkdownStyle        string `toml:"markdown_style"        env:"TUTORD_MARKDOWN_STYLE"        env-default:"dark"`
	DefaultView          string `toml:"default_view"          env:"TUTORD_DEFAULT_VIEW"          env-default:"today"`
	DesktopNotifications bool   `toml:"desktop_notifications" env:"TUTORD_DESKTOP_NOTIFICATIONS"`
}

func Default() Config {
	return Config{
		Timezone: "UTC",
		DBPath:   DefaultDBName,
		Locale:   "en",
		Log:      LogConfig{Level: "info", Format: "text"},
		Scheduler: SchedulerConfig{
			Buffer:            64,
			LessonLeadMinutes: 10,
		},
		UI: UIConfig{MarkdownStyle: "dark", DefaultView: "today"},
	}
}

// Location resolves Timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c Config) LessonLead() time.Duration {
	return time.Duration(c.Scheduler.LessonLeadMinutes) * time.Minute
}

// ResolveDBPath anchors a relative DBPath next to the config file.
func (c Config) ResolveDBPath(configPath string) string {
	if c.DBPath == ":memory:" || filepath.IsAbs(c.DBPath) || configPath == "" {
		return c.DBPath
	}
	return filepath.Join(filepath.Dir(configPath), c.DBPath)
}

// DefaultPath is $TUTORD_CONFIG, or config.toml under the user config dir.
func DefaultPath() string {
	if p := os.Getenv("TUTORD_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "tutord", DefaultConfigFileName)
}
