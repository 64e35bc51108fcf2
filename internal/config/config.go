// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for medichat.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jeranaias/medichat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete medichat configuration.
type Config struct {
	Gemini  GeminiConfig  `toml:"gemini" json:"gemini"`
	Speech  SpeechConfig  `toml:"speech" json:"speech"`
	Storage StorageConfig `toml:"storage" json:"storage"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
}

// GeminiConfig contains inference endpoint configuration.
type GeminiConfig struct {
	// BaseURL is the API root, e.g. https://generativelanguage.googleapis.com/v1beta
	BaseURL string `toml:"base_url" json:"base_url"`
	// Model is the model name used in the generateContent path
	Model string `toml:"model" json:"model"`
	// Transport selects the client: "rest" (default) or "sdk"
	Transport string `toml:"transport" json:"transport"`
	// RequestTimeout is a Go duration string; empty or "0" means no timeout
	RequestTimeout string `toml:"request_timeout" json:"request_timeout"`
}

// Timeout parses RequestTimeout.
func (g GeminiConfig) Timeout() (time.Duration, error) {
	s := strings.TrimSpace(g.RequestTimeout)
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.New("must not be negative")
	}
	return d, nil
}

// SpeechConfig contains speech input configuration.
type SpeechConfig struct {
	// Command is the argv of a program that records one utterance and
	// prints the transcript. "{locale}" is substituted. Empty disables voice input.
	Command []string `toml:"command" json:"command"`
	// Locale is the recognition language
	Locale string `toml:"locale" json:"locale"`
}

// StorageConfig contains local store configuration.
type StorageConfig struct {
	// Path is the SQLite file (empty = <data dir>/local.db)
	Path string `toml:"path" json:"path"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is "dark", "light" or "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowTimestamps shows HH:MM under each message
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
	// Markdown renders assistant replies with glamour
	Markdown bool `toml:"markdown" json:"markdown"`
}

// LoggingConfig contains diagnostic logging configuration.
type LoggingConfig struct {
	// File receives log output. Empty discards logs unless Verbose is set.
	File string `toml:"file" json:"file"`
	// Verbose logs to stderr in line-mode commands even without File
	Verbose bool `toml:"verbose" json:"verbose"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Defaults.
const (
	DefaultBaseURL   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel     = "gemini-1.5-flash-latest"
	DefaultTransport = "rest"
	DefaultLocale    = "en-US"
	DefaultTheme     = "auto"
)

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Gemini: GeminiConfig{
			BaseURL:   DefaultBaseURL,
			Model:     DefaultModel,
			Transport: DefaultTransport,
		},
		Speech: SpeechConfig{
			Locale: DefaultLocale,
		},
		UI: UIConfig{
			Theme:          DefaultTheme,
			ShowTimestamps: true,
			Markdown:       true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the medichat data directory. MEDICHAT_DATA_DIR
// overrides the default ~/.medichat.
func ConfigDir() (string, error) {
	if dir := os.Getenv("MEDICHAT_DATA_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".medichat"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// StoragePath returns the SQLite path, defaulting to <data dir>/local.db.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return expandHome(c.Storage.Path)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "local.db"
	}
	return filepath.Join(dir, "local.db")
}

// LogPath returns the expanded log file path, or empty.
func (c *Config) LogPath() string {
	return expandHome(c.Logging.File)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// ensureSecurePermissions checks and fixes permissions on config files.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv loads variables from .env files into the environment.
// Variables already set are kept. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load loads configuration from the default data directory.
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, err
	}
	return LoadFrom(dir)
}

// LoadFrom loads configuration from config.toml or config.json in dir.
func LoadFrom(dir string) (*Config, error) {
	cfg := Default()

	tomlPath := filepath.Join(dir, "config.toml")
	jsonPath := filepath.Join(dir, "config.json")

	switch {
	case fileExists(tomlPath):
		if err := LoadTOML(cfg, tomlPath); err != nil {
			return nil, fmt.Errorf("failed to load TOML config: %w", err)
		}
	case fileExists(jsonPath):
		if err := LoadJSON(cfg, jsonPath); err != nil {
			return nil, fmt.Errorf("failed to load JSON config: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		fmt.Fprintf(os.Stderr, "Warning: unknown config keys in %s: %s\n", path, strings.Join(keys, ", "))
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML writes the configuration to path with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# medichat configuration file")
	fmt.Fprintln(&buf, "# The API key is stored separately; run `medichat setup` to change it.")
	fmt.Fprintln(&buf, "")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Gemini.BaseURL != "" {
		u, err := url.Parse(c.Gemini.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "gemini.base_url",
				Message: "must be an http or https URL",
			})
		}
	}

	if strings.ContainsAny(c.Gemini.Model, "/?# ") {
		errs = append(errs, ValidationError{
			Field:   "gemini.model",
			Message: fmt.Sprintf("invalid model name %q", c.Gemini.Model),
		})
	}

	switch strings.ToLower(c.Gemini.Transport) {
	case "", "rest", "sdk":
	default:
		errs = append(errs, ValidationError{
			Field:   "gemini.transport",
			Message: fmt.Sprintf("must be \"rest\" or \"sdk\", got %q", c.Gemini.Transport),
		})
	}

	if _, err := c.Gemini.Timeout(); err != nil {
		errs = append(errs, ValidationError{
			Field:   "gemini.request_timeout",
			Message: err.Error(),
		})
	}

	if c.Speech.Locale != "" && !validLocale(c.Speech.Locale) {
		errs = append(errs, ValidationError{
			Field:   "speech.locale",
			Message: fmt.Sprintf("invalid locale %q (expected e.g. en-US)", c.Speech.Locale),
		})
	}

	switch c.UI.Theme {
	case "", "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("must be auto, dark or light, got %q", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validLocale accepts BCP 47 style tags like "en", "en-US" or "zh-Hant-TW".
func validLocale(s string) bool {
	parts := strings.Split(s, "-")
	for _, p := range parts {
		if len(p) < 2 || len(p) > 8 {
			return false
		}
		for _, r := range p {
			if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
				return false
			}
		}
	}
	return true
}

// SetDefaults fills zero-value fields with defaults.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = d.Gemini.BaseURL
	}
	c.Gemini.BaseURL = strings.TrimSuffix(c.Gemini.BaseURL, "/")
	if c.Gemini.Model == "" {
		c.Gemini.Model = d.Gemini.Model
	}
	if c.Gemini.Transport == "" {
		c.Gemini.Transport = d.Gemini.Transport
	}
	c.Gemini.Transport = strings.ToLower(c.Gemini.Transport)
	if c.Speech.Locale == "" {
		c.Speech.Locale = d.Speech.Locale
	}
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - MEDICHAT_GEMINI_MODEL: overrides gemini.model
//   - MEDICHAT_GEMINI_BASE_URL: overrides gemini.base_url
//   - MEDICHAT_GEMINI_TRANSPORT: overrides gemini.transport
//   - MEDICHAT_SPEECH_COMMAND: overrides speech.command (split on whitespace)
//   - MEDICHAT_LOCALE: overrides speech.locale
//   - MEDICHAT_LOG_FILE: overrides logging.file
//
// MEDICHAT_DATA_DIR is read by ConfigDir.
func (c *Config) ApplyEnvOverrides() {
	if model := os.Getenv("MEDICHAT_GEMINI_MODEL"); model != "" {
		c.Gemini.Model = model
	}
	if base := os.Getenv("MEDICHAT_GEMINI_BASE_URL"); base != "" {
		c.Gemini.BaseURL = base
	}
	if transport := os.Getenv("MEDICHAT_GEMINI_TRANSPORT"); transport != "" {
		c.Gemini.Transport = transport
	}
	if cmd := os.Getenv("MEDICHAT_SPEECH_COMMAND"); cmd != "" {
		c.Speech.Command = strings.Fields(cmd)
	}
	if locale := os.Getenv("MEDICHAT_LOCALE"); locale != "" {
		c.Speech.Locale = locale
	}
	if file := os.Getenv("MEDICHAT_LOG_FILE"); file != "" {
		c.Logging.File = file
	}
}

// =============================================================================
// GET HELPER (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "gemini.model").
func (c *Config) Get(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	if key == "" || len(parts) == 0 {
		return nil, errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field.Interface(), nil
		}
		if field.Kind() != reflect.Struct {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return nil, fmt.Errorf("invalid key: %s", key)
}

// fieldByTag finds the struct field whose toml tag is name.
func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("toml"), ",")[0]
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// String returns the configuration encoded as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}
