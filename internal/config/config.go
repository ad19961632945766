// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for the mgen console.
type Config struct {
	APIURL         string `mapstructure:"api_url" yaml:"api_url"`
	APIToken       string `mapstructure:"api_token" yaml:"api_token,omitempty"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	RetryMax       int    `mapstructure:"retry_max" yaml:"retry_max"`
	DataDir        string `mapstructure:"data_dir" yaml:"data_dir"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
	LogFile        string `mapstructure:"log_file" yaml:"log_file"`
	Animate        bool   `mapstructure:"animate" yaml:"animate"`
	ItemsPerRow    int    `mapstructure:"items_per_row" yaml:"items_per_row"`
	Journal        bool   `mapstructure:"journal" yaml:"journal"`
	Labels         Labels `mapstructure:"labels" yaml:"labels"`
}

// Labels holds the wizard button captions.
type Labels struct {
	Next   string `mapstructure:"next" yaml:"next"`
	Finish string `mapstructure:"finish" yaml:"finish"`
	Back   string `mapstructure:"back" yaml:"back"`
	Cancel string `mapstructure:"cancel" yaml:"cancel"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		APIURL:         "http://localhost:8080",
		TimeoutSeconds: 15,
		RetryMax:       3,
		DataDir:        ".mgen",
		LogLevel:       "info",
		Animate:        true,
		ItemsPerRow:    3,
		Journal:        true,
		Labels: Labels{
			Next:   "Next",
			Finish: "Finish",
			Back:   "Back",
			Cancel: "Cancel",
		},
	}
}

var envKeys = []string{
	"api_url",
	"api_token",
	"timeout_seconds",
	"retry_max",
	"data_dir",
	"log_level",
	"log_file",
	"animate",
	"items_per_row",
	"journal",
	"labels.next",
	"labels.finish",
	"labels.back",
	"labels.cancel",
}

// Load loads configuration with precedence:
// ENV vars > project config > XDG global config > defaults.
// Command flags such as --no-animate are applied by the caller on top.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("mgen")

	d := Default()
	v.SetDefault("api_url", d.APIURL)
	v.SetDefault("api_token", "")
	v.SetDefault("timeout_seconds", d.TimeoutSeconds)
	v.SetDefault("retry_max", d.RetryMax)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("animate", d.Animate)
	v.SetDefault("items_per_row", d.ItemsPerRow)
	v.SetDefault("journal", d.Journal)
	v.SetDefault("labels.next", d.Labels.Next)
	v.SetDefault("labels.finish", d.Labels.Finish)
	v.SetDefault("labels.back", d.Labels.Back)
	v.SetDefault("labels.cancel", d.Labels.Cancel)

	// MGEN_API_URL, MGEN_LABELS_NEXT, ...
	v.SetEnvPrefix("MGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		env := "MGEN_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api_url %q: must be an absolute URL", c.APIURL)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be > 0, got %d", c.TimeoutSeconds)
	}
	if c.RetryMax < 0 {
		return fmt.Errorf("retry_max must be >= 0, got %d", c.RetryMax)
	}
	if c.ItemsPerRow <= 0 {
		return fmt.Errorf("items_per_row must be > 0, got %d", c.ItemsPerRow)
	}
	if c.Labels.Next == "" || c.Labels.Finish == "" || c.Labels.Back == "" || c.Labels.Cancel == "" {
		return fmt.Errorf("labels.next, labels.finish, labels.back and labels.cancel must not be empty")
	}
	return nil
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/mgen/mgen.yml or $XDG_CONFIG_HOME/mgen/mgen.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mgen", "mgen.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mgen", "mgen.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "mgen.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// 0600: the file may carry an API token
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
