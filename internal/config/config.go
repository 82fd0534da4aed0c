package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const appName = "watchlist"

// Config is the complete application configuration
type Config struct {
	API      APIConfig      `mapstructure:"api" yaml:"api"`
	Assets   AssetsConfig   `mapstructure:"assets" yaml:"assets"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	TUI      TUIConfig      `mapstructure:"tui" yaml:"tui"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Advanced AdvancedConfig `mapstructure:"advanced" yaml:"advanced"`
}

// APIConfig describes the upstream anime-list endpoint
type APIConfig struct {
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// Timeout of zero leaves the request unbounded.
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
	UserAgent  string        `mapstructure:"user_agent" yaml:"user_agent"`
}

// URL returns the full anime-list URL
func (c APIConfig) URL() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(c.Endpoint, "/")
}

// AssetsConfig holds static asset settings
type AssetsConfig struct {
	FallbackImage string `mapstructure:"fallback_image" yaml:"fallback_image"`
}

// ServerConfig configures the HTML renderer
type ServerConfig struct {
	Addr           string        `mapstructure:"addr" yaml:"addr"`
	RefreshSeconds int           `mapstructure:"refresh_seconds" yaml:"refresh_seconds"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	CORSOrigins    []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// TUIConfig configures the terminal renderer
type TUIConfig struct {
	ProbeImages  bool          `mapstructure:"probe_images" yaml:"probe_images"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" yaml:"probe_timeout"`
	CardWidth    int           `mapstructure:"card_width" yaml:"card_width"`
}

// LoggingConfig configures the application logger
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
	Color      bool   `mapstructure:"color" yaml:"color"`
}

// AdvancedConfig holds rarely changed switches
type AdvancedConfig struct {
	Debug     bool            `mapstructure:"debug" yaml:"debug"`
	Clipboard ClipboardConfig `mapstructure:"clipboard" yaml:"clipboard"`
}

// ClipboardConfig overrides the clipboard tool used when the native one fails
type ClipboardConfig struct {
	Command string `mapstructure:"command" yaml:"command"`
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   "http://localhost:3001",
			Endpoint:  "/api/anime",
			UserAgent: "watchlist/1.0",
		},
		Assets: AssetsConfig{
			FallbackImage: "/fallback.png",
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RefreshSeconds: 2,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			CORSOrigins:    []string{"*"},
		},
		TUI: TUIConfig{
			ProbeImages:  true,
			ProbeTimeout: 5 * time.Second,
			CardWidth:    28,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Color:      true,
		},
	}
}

// Load reads configuration from cfgFile, or from the default location when empty.
// A missing file in the default location is not an error.
func Load(cfgFile string) (*Config, *viper.Viper, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix("WATCHLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(GetConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, v, nil
}

// Validate checks values that would otherwise fail later in confusing ways
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url must not be empty")
	}
	if c.API.Timeout < 0 {
		return errors.New("api.timeout must not be negative")
	}
	if c.API.MaxRetries < 0 {
		return errors.New("api.max_retries must not be negative")
	}
	if !strings.HasPrefix(c.Assets.FallbackImage, "/") {
		return fmt.Errorf("assets.fallback_image must be an absolute path, got %q", c.Assets.FallbackImage)
	}
	if c.TUI.CardWidth < 12 {
		return fmt.Errorf("tui.card_width must be at least 12, got %d", c.TUI.CardWidth)
	}
	return nil
}

// setDefaults registers every key so env overrides and Unmarshal see them
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.endpoint", d.API.Endpoint)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("api.max_retries", d.API.MaxRetries)
	v.SetDefault("api.user_agent", d.API.UserAgent)

	v.SetDefault("assets.fallback_image", d.Assets.FallbackImage)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.refresh_seconds", d.Server.RefreshSeconds)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)

	v.SetDefault("tui.probe_images", d.TUI.ProbeImages)
	v.SetDefault("tui.probe_timeout", d.TUI.ProbeTimeout)
	v.SetDefault("tui.card_width", d.TUI.CardWidth)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.max_size", d.Logging.MaxSize)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age", d.Logging.MaxAge)
	v.SetDefault("logging.compress", d.Logging.Compress)
	v.SetDefault("logging.color", d.Logging.Color)

	v.SetDefault("advanced.debug", d.Advanced.Debug)
	v.SetDefault("advanced.clipboard.command", d.Advanced.Clipboard.Command)
}

// WriteDefault writes the default configuration as YAML to path.
// It refuses to overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
	}

	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// InitializeDirs creates the config and state directories
func InitializeDirs() error {
	for _, dir := range []string{GetConfigDir(), GetStateDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// GetConfigDir returns $XDG_CONFIG_HOME/watchlist
func GetConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(".", "."+appName)
}

// GetStateDir returns $XDG_STATE_HOME/watchlist
func GetStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", appName)
	}
	return filepath.Join(os.TempDir(), appName)
}
