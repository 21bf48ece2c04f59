package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/tablegrant"
	ConfigFileName    = "tablegrant.yml"
)

// Sources of a configuration attribute
const (
	SourceDefault     = "default"
	SourceFile        = "file"
	SourceEnvironment = "environment"
)

// TablegrantConfig holds all tablegrant server settings
type TablegrantConfig struct {
	// TokenTTL is the lifetime of login tokens in seconds
	TokenTTL int `yaml:"token_ttl" json:"token_ttl"`

	// DefaultPageSize is the page size used when a list request has none
	DefaultPageSize int `yaml:"default_page_size" json:"default_page_size"`

	// MaxPageSize caps the page size of list requests
	MaxPageSize int `yaml:"max_page_size" json:"max_page_size"`

	// InitialPasswordLength is the length of generated account passwords
	InitialPasswordLength int `yaml:"initial_password_length" json:"initial_password_length"`

	// CORSAllowedOrigins lists origins allowed to call the API from a browser
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" json:"cors_allowed_origins"`

	// AuditEnabled persists audit events to the audit database
	AuditEnabled *bool `yaml:"audit_enabled" json:"audit_enabled"`

	// MetricsEnabled exposes /metrics
	MetricsEnabled *bool `yaml:"metrics_enabled" json:"metrics_enabled"`

	sources        map[string]string
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

var (
	globalConfig *TablegrantConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *TablegrantConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

func boolPtr(b bool) *bool {
	return &b
}

func newDefault() *TablegrantConfig {
	return &TablegrantConfig{
		TokenTTL:              8 * 60 * 60,
		DefaultPageSize:       10,
		MaxPageSize:           100,
		InitialPasswordLength: 16,
		CORSAllowedOrigins:    []string{},
		AuditEnabled:          boolPtr(false),
		MetricsEnabled:        boolPtr(true),
		sources:               make(map[string]string),
	}
}

// Path returns the config file location from TABLEGRANT_CONFIG_PATH
func Path() string {
	configPath := os.Getenv("TABLEGRANT_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	return filepath.Join(configPath, ConfigFileName)
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*TablegrantConfig, error) {
	return LoadFile(Path())
}

// LoadFile loads configuration from the given file and the environment.
// A missing file is not an error.
func LoadFile(path string) (*TablegrantConfig, error) {
	config := newDefault()
	for _, name := range attributeNames() {
		config.sources[name] = SourceDefault
	}
	config.configFilePath = path

	if data, err := os.ReadFile(path); err == nil {
		var fileConfig TablegrantConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		config.applyFileConfig(&fileConfig)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config.applyEnvConfig()
	return config, nil
}

func attributeNames() []string {
	return []string{
		"token_ttl", "default_page_size", "max_page_size",
		"initial_password_length", "cors_allowed_origins",
		"audit_enabled", "metrics_enabled",
	}
}

func (c *TablegrantConfig) applyFileConfig(file *TablegrantConfig) {
	if file.TokenTTL != 0 {
		c.TokenTTL = file.TokenTTL
		c.sources["token_ttl"] = SourceFile
	}
	if file.DefaultPageSize != 0 {
		c.DefaultPageSize = file.DefaultPageSize
		c.sources["default_page_size"] = SourceFile
	}
	if file.MaxPageSize != 0 {
		c.MaxPageSize = file.MaxPageSize
		c.sources["max_page_size"] = SourceFile
	}
	if file.InitialPasswordLength != 0 {
		c.InitialPasswordLength = file.InitialPasswordLength
		c.sources["initial_password_length"] = SourceFile
	}
	if len(file.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = file.CORSAllowedOrigins
		c.sources["cors_allowed_origins"] = SourceFile
	}
	if file.AuditEnabled != nil {
		c.AuditEnabled = file.AuditEnabled
		c.sources["audit_enabled"] = SourceFile
	}
	if file.MetricsEnabled != nil {
		c.MetricsEnabled = file.MetricsEnabled
		c.sources["metrics_enabled"] = SourceFile
	}
}

func (c *TablegrantConfig) applyEnvConfig() {
	envInt := func(key, name string, dst *int) {
		if val := os.Getenv(key); val != "" {
			if i, err := strconv.Atoi(val); err == nil {
				*dst = i
				c.sources[name] = SourceEnvironment
			}
		}
	}
	envBool := func(key, name string, dst **bool) {
		if val := os.Getenv(key); val != "" {
			*dst = boolPtr(val == "true" || val == "1")
			c.sources[name] = SourceEnvironment
		}
	}

	envInt("TABLEGRANT_TOKEN_TTL", "token_ttl", &c.TokenTTL)
	envInt("TABLEGRANT_DEFAULT_PAGE_SIZE", "default_page_size", &c.DefaultPageSize)
	envInt("TABLEGRANT_MAX_PAGE_SIZE", "max_page_size", &c.MaxPageSize)
	envInt("TABLEGRANT_INITIAL_PASSWORD_LENGTH", "initial_password_length", &c.InitialPasswordLength)
	if val := os.Getenv("TABLEGRANT_CORS_ALLOWED_ORIGINS"); val != "" {
		c.CORSAllowedOrigins = splitAndTrim(val)
		c.sources["cors_allowed_origins"] = SourceEnvironment
	}
	envBool("TABLEGRANT_AUDIT_ENABLED", "audit_enabled", &c.AuditEnabled)
	envBool("TABLEGRANT_METRICS_ENABLED", "metrics_enabled", &c.MetricsEnabled)
}

// ConfigFilePath returns the path to the config file
func (c *TablegrantConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *TablegrantConfig) Source(name string) string {
	if c.sources == nil {
		return SourceDefault
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return SourceDefault
}

// TokenLifetime returns the token TTL as a duration
func (c *TablegrantConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// IsAuditEnabled reports whether audit events are persisted
func (c *TablegrantConfig) IsAuditEnabled() bool {
	return c.AuditEnabled != nil && *c.AuditEnabled
}

// IsMetricsEnabled reports whether /metrics is served
func (c *TablegrantConfig) IsMetricsEnabled() bool {
	return c.MetricsEnabled != nil && *c.MetricsEnabled
}

// ClampPageSize maps a requested page size into [1, MaxPageSize],
// using DefaultPageSize when none was requested
func (c *TablegrantConfig) ClampPageSize(size int) int {
	if size <= 0 {
		size = c.DefaultPageSize
	}
	if size > c.MaxPageSize {
		size = c.MaxPageSize
	}
	if size < 1 {
		size = 1
	}
	return size
}

// Validate validates the configuration
func (c *TablegrantConfig) Validate() error {
	if c.TokenTTL < 60 {
		return fmt.Errorf("invalid token_ttl %d: must be at least 60 seconds", c.TokenTTL)
	}
	if c.MaxPageSize < 1 {
		return fmt.Errorf("invalid max_page_size %d: must be positive", c.MaxPageSize)
	}
	if c.DefaultPageSize < 1 || c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("invalid default_page_size %d: must be between 1 and max_page_size (%d)", c.DefaultPageSize, c.MaxPageSize)
	}
	if c.InitialPasswordLength < 12 {
		return fmt.Errorf("invalid initial_password_length %d: must be at least 12", c.InitialPasswordLength)
	}
	for _, origin := range c.CORSAllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("invalid cors_allowed_origins value: %s", origin)
		}
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *TablegrantConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "token_ttl", Value: strconv.Itoa(c.TokenTTL), Source: c.Source("token_ttl")},
		{Name: "default_page_size", Value: strconv.Itoa(c.DefaultPageSize), Source: c.Source("default_page_size")},
		{Name: "max_page_size", Value: strconv.Itoa(c.MaxPageSize), Source: c.Source("max_page_size")},
		{Name: "initial_password_length", Value: strconv.Itoa(c.InitialPasswordLength), Source: c.Source("initial_password_length")},
		{Name: "cors_allowed_origins", Value: strings.Join(c.CORSAllowedOrigins, ","), Source: c.Source("cors_allowed_origins")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.IsAuditEnabled()), Source: c.Source("audit_enabled")},
		{Name: "metrics_enabled", Value: strconv.FormatBool(c.IsMetricsEnabled()), Source: c.Source("metrics_enabled")},
	}
}

// FormatText returns a text representation of the configuration
func (c *TablegrantConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-28s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-28s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-28s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *TablegrantConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
