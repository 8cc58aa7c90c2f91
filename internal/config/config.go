package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable cpwind settings.
type Config struct {
	TemplateDir string `json:"template_dir"` // default ~/.config/cpwind/templates
	Clipboard   string `json:"clipboard"`    // "auto" | "system" | "osc52" | "off"
	LogLevel    string `json:"log_level"`    // "error" | "warn" | "info" | "debug"
	LogFormat   string `json:"log_format"`   // "text" | "json"
	EchoOutput  string `json:"echo_output"`  // "on" | "off": stream program output while running
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		Clipboard:  "auto",
		LogLevel:   "info",
		LogFormat:  "text",
		EchoOutput: "on",
	}
}

// Dir returns ~/.config/cpwind.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cpwind"), nil
}

// LoadGlobal reads ~/.config/cpwind/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return loadFile(filepath.Join(dir, "config.json"), true)
}

// LoadProject reads .cpwindconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".cpwindconfig", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()
	for _, layer := range []*Config{global, project} {
		if layer == nil {
			continue
		}
		overlay(&result.TemplateDir, layer.TemplateDir)
		overlay(&result.Clipboard, layer.Clipboard)
		overlay(&result.LogLevel, layer.LogLevel)
		overlay(&result.LogFormat, layer.LogFormat)
		overlay(&result.EchoOutput, layer.EchoOutput)
	}
	return result
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Echo reports whether program output should be streamed while it runs.
func (c Config) Echo() bool {
	return c.EchoOutput != "off"
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
