package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".cherpy"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .cherpy configuration file.
// It carries the question list and completion settings; crawl behavior is
// controlled by CLI flags. The API key is intentionally absent: it is read
// from the environment only.
type File struct {
	// Questions is the ordered list of questions asked after the crawl.
	Questions []string `yaml:"questions"`

	// LLM holds chat-completion settings.
	LLM LLMConfig `yaml:"llm,omitempty"`
}

// LLMConfig holds chat-completion settings from the configuration file.
type LLMConfig struct {
	// BaseURL overrides the completion endpoint.
	BaseURL string `yaml:"baseURL,omitempty"`

	// Model overrides the completion model name.
	Model string `yaml:"model,omitempty"`

	// MaxTokens overrides the per-answer token bound.
	MaxTokens int `yaml:"maxTokens,omitempty"`

	// Temperature overrides the sampling temperature.
	Temperature float64 `yaml:"temperature,omitempty"`
}

// LoadConfigFile loads questions and completion settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound. Callers should
// handle this based on whether the path was explicitly specified.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply copies file settings onto the Config, leaving flag-supplied values
// in place where the file is silent.
func (cf *File) Apply(c *Config) {
	if len(cf.Questions) > 0 {
		c.Questions = cf.Questions
	}
	if cf.LLM.BaseURL != "" {
		c.BaseURL = cf.LLM.BaseURL
	}
	if cf.LLM.Model != "" {
		c.Model = cf.LLM.Model
	}
	if cf.LLM.MaxTokens > 0 {
		c.MaxAnswerTokens = cf.LLM.MaxTokens
	}
	if cf.LLM.Temperature > 0 {
		c.Temperature = cf.LLM.Temperature
	}
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. Look for .cherpy in the current directory
//  3. Look for .cherpy in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
