package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"reviewmsg/pkg/clipboard"
	"reviewmsg/pkg/errors"
	"reviewmsg/pkg/placeholder"
	"reviewmsg/pkg/proposal"
	"reviewmsg/pkg/shops"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultServerURL  = "http://localhost:5002"
	DefaultListenAddr = "0.0.0.0:5002"
)

// Profile is a named server and message template, typically one per
// brand or locale.
type Profile struct {
	Name     string         `yaml:"name"`
	Server   ServerConfig   `yaml:"server"`
	Template TemplateConfig `yaml:"template"`
	Default  bool           `yaml:"default,omitempty"`
}

// Config holds the complete configuration including profiles
type Config struct {
	Server        ServerConfig    `yaml:"server"`
	Template      TemplateConfig  `yaml:"template"`
	Clipboard     ClipboardConfig `yaml:"clipboard"`
	Dify          DifyConfig      `yaml:"dify"`
	Shops         []shops.Shop    `yaml:"shops,omitempty"`
	Profiles      []Profile       `yaml:"profiles,omitempty"`
	ActiveProfile string          `yaml:"active_profile,omitempty"`
}

type ServerConfig struct {
	URL        string `yaml:"url"`
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`
}

// TemplateConfig holds the literal text around the review URL.
type TemplateConfig struct {
	Lead     string `yaml:"lead"`
	Trailing string `yaml:"trailing"`
}

type ClipboardConfig struct {
	NotifyDuration time.Duration `yaml:"notify_duration"`
	SelectionLimit int           `yaml:"selection_limit"`
	SuccessMessage string        `yaml:"success_message,omitempty"`
	FailureMessage string        `yaml:"failure_message,omitempty"`
}

type DifyConfig struct {
	APIKey string `yaml:"api_key"`
	APIURL string `yaml:"api_url"`
}

// Load loads the configuration, optionally with a specific profile
func Load(profileName ...string) (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, errors.NewWithError(errors.ExitCodeConfig, "failed to get config path", err)
	}
	return LoadFrom(configPath, profileName...)
}

// LoadFrom loads configuration from an explicit path. A .env file in the
// working directory is read first; it never overrides the real environment.
func LoadFrom(configPath string, profileName ...string) (*Config, error) {
	_ = godotenv.Load()
	return loadFromPath(configPath, profileName...)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "reviewmsg", "config.yaml"), nil
}

func defaultDBPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	return filepath.Join(configDir, "reviewmsg", "shops.db")
}

// Save saves the configuration to path
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to create config directory", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to write config file", err)
	}
	return nil
}

// Default returns a config with every default applied and the stock shops.
func Default() *Config {
	cfg := &Config{Shops: append([]shops.Shop(nil), shops.DefaultShops...)}
	applyDefaults(cfg)
	return cfg
}

// GetProfile returns a profile by name
func (c *Config) GetProfile(name string) (*Profile, error) {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}
	return nil, fmt.Errorf("profile '%s' not found", name)
}

func (c *Config) ListProfiles() []string {
	names := make([]string, 0, len(c.Profiles))
	for _, p := range c.Profiles {
		names = append(names, p.Name)
	}
	return names
}

// Pattern compiles the configured placeholder pattern.
func (c *Config) Pattern() (*placeholder.Pattern, error) {
	return placeholder.New(c.Template.Lead, c.Template.Trailing)
}

// SeedShops returns the configured shops, or the stock ones when none are set.
func (c *Config) SeedShops() []shops.Shop {
	if len(c.Shops) > 0 {
		return c.Shops
	}
	return shops.DefaultShops
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func loadFromPath(configPath string, profileName ...string) (*Config, error) {
	cfg := &Config{}

	if err := loadConfigFile(configPath, cfg); err != nil {
		return nil, err
	}

	applyEnvironmentOverrides(cfg)

	targetProfile := ""
	if len(profileName) > 0 && profileName[0] != "" {
		targetProfile = profileName[0]
	} else if cfg.ActiveProfile != "" {
		targetProfile = cfg.ActiveProfile
	}

	if targetProfile != "" {
		profile, err := cfg.GetProfile(targetProfile)
		if err != nil {
			return nil, errors.ConfigError(err.Error())
		}
		applyProfileConfig(cfg, profile)
		cfg.ActiveProfile = targetProfile
	}

	applyDefaults(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyProfileConfig(cfg *Config, profile *Profile) {
	if profile.Server.URL != "" {
		cfg.Server.URL = profile.Server.URL
	}
	if profile.Server.ListenAddr != "" {
		cfg.Server.ListenAddr = profile.Server.ListenAddr
	}
	if profile.Server.DBPath != "" {
		cfg.Server.DBPath = profile.Server.DBPath
	}
	if profile.Template.Lead != "" {
		cfg.Template.Lead = profile.Template.Lead
	}
	if profile.Template.Trailing != "" {
		cfg.Template.Trailing = profile.Template.Trailing
	}
}

// loadConfigFile reads and parses the config file from the given path
func loadConfigFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		// File doesn't exist, that's okay - we'll use env vars and defaults
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeFileOperation, "failed to read config file", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to parse config file", err)
	}

	return nil
}

// applyEnvironmentOverrides fills unset values from the environment
func applyEnvironmentOverrides(cfg *Config) {
	if cfg.Server.URL == "" {
		cfg.Server.URL = getEnv("REVIEWMSG_SERVER_URL", "")
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = getEnv("REVIEWMSG_LISTEN_ADDR", "")
		if cfg.Server.ListenAddr == "" {
			if port := getEnvInt("PORT", 0); port > 0 {
				cfg.Server.ListenAddr = fmt.Sprintf("0.0.0.0:%d", port)
			}
		}
	}
	if cfg.Server.DBPath == "" {
		cfg.Server.DBPath = getEnv("REVIEWMSG_DB_PATH", "")
	}
	if cfg.Template.Lead == "" {
		cfg.Template.Lead = getEnv("REVIEWMSG_TEMPLATE_LEAD", "")
	}
	if cfg.Template.Trailing == "" {
		cfg.Template.Trailing = getEnv("REVIEWMSG_TEMPLATE_TRAILING", "")
	}
	if cfg.Dify.APIKey == "" {
		cfg.Dify.APIKey = getEnv("DIFY_API_KEY", "")
	}
	if cfg.Dify.APIURL == "" {
		cfg.Dify.APIURL = getEnv("DIFY_API_URL", "")
	}
	if cfg.Clipboard.SelectionLimit == 0 {
		cfg.Clipboard.SelectionLimit = getEnvInt("REVIEWMSG_SELECTION_LIMIT", 0)
	}

	// Profile can be overridden via environment
	if profileEnv := os.Getenv("REVIEWMSG_PROFILE"); profileEnv != "" {
		cfg.ActiveProfile = profileEnv
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.URL == "" {
		cfg.Server.URL = DefaultServerURL
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.DBPath == "" {
		cfg.Server.DBPath = defaultDBPath()
	}
	if cfg.Template.Lead == "" {
		cfg.Template.Lead = placeholder.DefaultLead
	}
	if cfg.Template.Trailing == "" {
		cfg.Template.Trailing = placeholder.DefaultTrailing
	}
	if cfg.Clipboard.NotifyDuration <= 0 {
		cfg.Clipboard.NotifyDuration = clipboard.DefaultNotifyDuration
	}
	if cfg.Clipboard.SelectionLimit <= 0 {
		cfg.Clipboard.SelectionLimit = clipboard.DefaultSelectionLimit
	}
	if cfg.Dify.APIKey == "" {
		cfg.Dify.APIKey = proposal.PlaceholderAPIKey
	}
	if cfg.Dify.APIURL == "" {
		cfg.Dify.APIURL = proposal.DefaultAPIURL
	}
}

// validateConfig ensures the configuration can be used
func validateConfig(cfg *Config) error {
	u, err := url.Parse(cfg.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.ConfigError(fmt.Sprintf("server url %q is not a valid http(s) URL. Set it in config file, use --profile, or set REVIEWMSG_SERVER_URL environment variable", cfg.Server.URL))
	}
	if _, err := cfg.Pattern(); err != nil {
		return errors.ConfigError("template lead and trailing text must not be empty")
	}
	for _, s := range cfg.Shops {
		if s.ID == "" || s.URL == "" {
			return errors.ConfigError(fmt.Sprintf("shop entry %q needs both id and url", s.ID))
		}
	}
	return nil
}
