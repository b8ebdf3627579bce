package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const appName = "gatecharter"

// Config holds application configuration.
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Database DatabaseConfig `mapstructure:"database"`
	Layout   LayoutConfig   `mapstructure:"layout"`
	Session  SessionConfig  `mapstructure:"session"`
	Prefs    PrefsConfig    `mapstructure:"prefs"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
}

// CatalogConfig points at the gate definitions file.
type CatalogConfig struct {
	Path           string `mapstructure:"path" validate:"required"`
	GroupThreshold int    `mapstructure:"group_threshold" validate:"gte=0"`
}

// DatabaseConfig holds sqlite settings for the session store.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LayoutConfig holds node placement distances.
type LayoutConfig struct {
	UnitDistance float64 `mapstructure:"unit_distance" validate:"gt=0"`
	ArcDegrees   float64 `mapstructure:"arc_degrees" validate:"gt=0,lte=360"`
	GroupScale   float64 `mapstructure:"group_scale" validate:"gt=0"`
}

// SessionConfig holds new-session defaults.
type SessionConfig struct {
	Preset string `mapstructure:"preset" validate:"required"`
}

// PrefsConfig locates the settings presets file.
type PrefsConfig struct {
	PresetsPath string `mapstructure:"presets_path"`
}

// LogConfig configures the log file. An empty path disables logging.
type LogConfig struct {
	Path        string `mapstructure:"path"`
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DragStep float64 `mapstructure:"drag_step" validate:"gt=0"`
}

// Dir returns the per-user configuration directory.
func Dir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(os.Getenv("HOME"), ".config", appName)
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", appName)
}

// Path returns the config file path, honoring GATECHARTER_CONFIG.
func Path() string {
	if p := os.Getenv("GATECHARTER_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("catalog.path", filepath.Join(dataDir(), "gates.csv"))
	v.SetDefault("catalog.group_threshold", 2)
	v.SetDefault("database.path", filepath.Join(dataDir(), "sessions.db"))
	v.SetDefault("layout.unit_distance", 3.0)
	v.SetDefault("layout.arc_degrees", 90.0)
	v.SetDefault("layout.group_scale", 2.0)
	v.SetDefault("session.preset", "all")
	v.SetDefault("prefs.presets_path", filepath.Join(Dir(), "presets.toml"))
	v.SetDefault("log.path", filepath.Join(dataDir(), "gatecharter.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("ui.drag_step", 1.0)
}

// Load reads configuration from file and env. Env var overrides use prefix
// GATECHARTER_, e.g. GATECHARTER_LAYOUT_UNIT_DISTANCE. A missing file is not
// an error.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("GATECHARTER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("catalog.path", cfg.Catalog.Path)
	v.Set("catalog.group_threshold", cfg.Catalog.GroupThreshold)
	v.Set("database.path", cfg.Database.Path)
	v.Set("layout.unit_distance", cfg.Layout.UnitDistance)
	v.Set("layout.arc_degrees", cfg.Layout.ArcDegrees)
	v.Set("layout.group_scale", cfg.Layout.GroupScale)
	v.Set("session.preset", cfg.Session.Preset)
	v.Set("prefs.presets_path", cfg.Prefs.PresetsPath)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.development", cfg.Log.Development)
	v.Set("ui.drag_step", cfg.UI.DragStep)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
