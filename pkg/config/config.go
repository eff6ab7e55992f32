package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/firebird-suite/heron/pkg/logger"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = "heron.yaml"

	// EnvPrefix prefixes environment overrides, e.g. HERON_TRACE_ROUTER.
	EnvPrefix = "HERON"
)

// ErrInvalidConfig is returned when a loaded config fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents heron.yaml configuration
type Config struct {
	Project ProjectConfig `yaml:"project" mapstructure:"project"`
	Trace   TraceConfig   `yaml:"trace" mapstructure:"trace"`
	Audit   AuditConfig   `yaml:"audit" mapstructure:"audit"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// ProjectConfig locates the analyzed project
type ProjectConfig struct {
	Root     string `yaml:"root" mapstructure:"root" validate:"required"`
	Frontend string `yaml:"frontend" mapstructure:"frontend" validate:"required"` // Relative to Root
}

// TraceConfig holds URL trace defaults
type TraceConfig struct {
	Router        string `yaml:"router,omitempty" mapstructure:"router"`       // Empty probes the usual locations
	MenuGlob      string `yaml:"menu_glob,omitempty" mapstructure:"menu_glob"` // Empty uses menu discovery
	FollowImports bool   `yaml:"follow_imports" mapstructure:"follow_imports"`
	MaxDepth      int    `yaml:"max_depth" mapstructure:"max_depth" validate:"gte=1,lte=10"`
}

// AuditConfig selects what the auth audit covers
type AuditConfig struct {
	IncludeServer   bool `yaml:"include_server" mapstructure:"include_server"`
	IncludeFrontend bool `yaml:"include_frontend" mapstructure:"include_frontend"`
}

// LogConfig controls diagnostics
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn warning error silent off"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Root:     ".",
			Frontend: "front-end",
		},
		Trace: TraceConfig{
			FollowImports: true,
			MaxDepth:      3,
		},
		Audit: AuditConfig{
			IncludeServer:   true,
			IncludeFrontend: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration. A .env file in the working directory is loaded
// into the environment first. When path is empty, heron.yaml in the working
// directory is used if present and defaults apply otherwise; an explicit
// path must exist. HERON_* environment variables override file values.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("heron")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("project.root", cfg.Project.Root)
	v.SetDefault("project.frontend", cfg.Project.Frontend)
	v.SetDefault("trace.router", cfg.Trace.Router)
	v.SetDefault("trace.menu_glob", cfg.Trace.MenuGlob)
	v.SetDefault("trace.follow_imports", cfg.Trace.FollowImports)
	v.SetDefault("trace.max_depth", cfg.Trace.MaxDepth)
	v.SetDefault("audit.include_server", cfg.Audit.IncludeServer)
	v.SetDefault("audit.include_frontend", cfg.Audit.IncludeFrontend)
	v.SetDefault("log.level", cfg.Log.Level)
}

// Validate checks field constraints. The error wraps ErrInvalidConfig and
// names every failing key.
func Validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}

// SaveConfig writes configuration to a YAML file
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// LogLevel returns the configured level, falling back to info.
func (c *Config) LogLevel() logger.Level {
	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return logger.LevelInfo
	}
	return level
}
