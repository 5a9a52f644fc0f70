package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"tubefetch/internal/dirs"
	"tubefetch/internal/model"
)

// Config is the effective configuration after flags, env and file are merged.
type Config struct {
	OutDir      string        `mapstructure:"out_dir"`
	Verbose     bool          `mapstructure:"verbose"`
	NoColor     bool          `mapstructure:"no_color"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	History     HistoryConfig `mapstructure:"history"`
	Log         LogConfig     `mapstructure:"log"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// RegisterFlags declares the persistent flags that map onto config keys.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("out-dir", "o", "downloads", "Output directory")
	fs.BoolP("verbose", "v", false, "Log at debug level")
	fs.Bool("no-color", false, "Disable colored output")
	fs.Duration("http-timeout", 0, "HTTP timeout for metadata and downloads (0 = none)")
	fs.Bool("no-history", false, "Do not record downloads in the history database")
	fs.String("config", "", "Config file (default is <config dir>/config.yaml)")
}

// Init wires Viper with config paths, env, defaults, and flag bindings.
// A missing config file is not an error; a malformed one is.
func Init(root *cobra.Command) error {
	_ = dirs.EnsureAll()
	setDefaults()

	flags := root.PersistentFlags()
	if cfgFile, _ := flags.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if cfgDir, err := dirs.ConfigDir(); err == nil {
			viper.AddConfigPath(cfgDir)
		}
		viper.SetConfigName("config") // supports config.{yaml|yml|json|toml}
	}

	// Environment variables: TUBEFETCH_*
	viper.SetEnvPrefix("TUBEFETCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	_ = viper.BindPFlag("out_dir", flags.Lookup("out-dir"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("no_color", flags.Lookup("no-color"))
	_ = viper.BindPFlag("http_timeout", flags.Lookup("http-timeout"))

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// Only an explicit --no-history overrides history.enabled.
	if f := flags.Lookup("no-history"); f != nil && f.Changed {
		viper.Set("history.enabled", false)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("out_dir", "downloads")
	viper.SetDefault("verbose", false)
	viper.SetDefault("no_color", false)
	viper.SetDefault("http_timeout", "0s")
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	if p, err := dirs.HistoryPath(); err == nil {
		viper.SetDefault("history.path", p)
	}
	if p, err := dirs.LogPath(); err == nil {
		viper.SetDefault("log.path", p)
	}
}

// Load unmarshals and validates the effective configuration.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.OutDir = expandPath(cfg.OutDir)
	cfg.History.Path = expandPath(cfg.History.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)
	if cfg.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.OutDir) == "" {
		return errors.New("out_dir must not be empty")
	}
	if cfg.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative, got %s", cfg.HTTPTimeout)
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", cfg.Log.Format)
	}
	if cfg.History.Enabled && cfg.History.Path == "" {
		return errors.New("history.path must be set when history is enabled")
	}
	return nil
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Options converts the configuration into runtime options.
func (c *Config) Options() model.Options {
	return model.Options{
		OutDir:         c.OutDir,
		NoColor:        c.NoColor,
		HTTPTimeout:    c.HTTPTimeout,
		HistoryEnabled: c.History.Enabled,
		HistoryPath:    c.History.Path,
		LogLevel:       c.Log.Level,
		LogFormat:      c.Log.Format,
		LogPath:        c.Log.Path,
	}
}

// FilePath returns the config file in use, or where one would be read from.
func FilePath() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	d, err := dirs.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}

// EffectiveYAML renders all merged settings as YAML.
func EffectiveYAML() ([]byte, error) {
	return yaml.Marshal(viper.AllSettings())
}
