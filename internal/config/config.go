// Package config provides configuration loading and validation for the CLI.
//
// The Config object is constructed exactly once at process start and passed
// into every component constructor; no component reads ambient environment
// state outside FromEnv.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied when neither the config file nor a CLI flag sets a value.
const (
	DefaultOutputDir    = "generated_applications"
	DefaultUsersDir     = "users"
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultTopK         = 5
)

// Embedding providers supported by the similarity index.
const (
	EmbedProviderOpenAI = "openai"
	EmbedProviderOllama = "ollama"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// User identifies whose fact store and templates to use.
	User string `json:"user,omitempty"`

	// Paths
	UsersDir  string `json:"users_dir,omitempty"`  // Root directory of per-user data
	OutputDir string `json:"output_dir,omitempty"` // Root directory for generated application bundles

	// RAG settings
	ChunkSize    int `json:"chunk_size,omitempty"`
	ChunkOverlap int `json:"chunk_overlap,omitempty"`
	TopK         int `json:"top_k,omitempty"`

	// Embedding backend for the similarity index
	EmbedProvider string `json:"embed_provider,omitempty"` // "openai" or "ollama"
	EmbedModel    string `json:"embed_model,omitempty"`
	OpenAIAPIKey  string `json:"-"`
	OllamaHost    string `json:"ollama_host,omitempty"`

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Headless browser fallback for SPA job pages
	UseLLM      *bool  `json:"use_llm,omitempty"`      // LLM extraction vs selector-only mode; nil means unset
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL for artifact persistence
	LogFile     string `json:"log_file,omitempty"`     // Optional JSON log destination
}

// LLMEnabled reports whether LLM mode is on. An unset use_llm means the
// default, which is on; a config file disables it only by saying so.
func (c *Config) LLMEnabled() bool {
	return c.UseLLM == nil || *c.UseLLM
}

// SetUseLLM sets the LLM mode explicitly, marking it as no longer unset.
func (c *Config) SetUseLLM(v bool) {
	c.UseLLM = &v
}

// UserPaths is the on-disk layout of a single user's fact store.
type UserPaths struct {
	UserDir      string
	PersonalInfo string
	CareerData   string
	CodeSamples  string
	CVTemplate   string
	IndexFile    string
	ConfigFile   string
}

// FromEnv fills environment-derived fields. This is the single boundary where
// ambient environment state is read.
func (c *Config) FromEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.OpenAIAPIKey == "" {
		c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.OllamaHost == "" {
		c.OllamaHost = os.Getenv("OLLAMA_HOST")
	}
}

// Paths returns the per-user directory layout for the configured user.
func (c *Config) Paths(user string) UserPaths {
	root := c.UsersDir
	if root == "" {
		root = DefaultUsersDir
	}
	userDir := filepath.Join(root, user)
	return UserPaths{
		UserDir:      userDir,
		PersonalInfo: filepath.Join(userDir, "personal_info.json"),
		CareerData:   filepath.Join(userDir, "career_data"),
		CodeSamples:  filepath.Join(userDir, "code_samples"),
		CVTemplate:   filepath.Join(userDir, "cv_template.yaml"),
		IndexFile:    filepath.Join(userDir, "rag_index.json"),
		ConfigFile:   filepath.Join(userDir, "config.json"),
	}
}

// Load loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration as indented JSON, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.ChunkSize < 0 {
		return fmt.Errorf("config error: 'chunk_size' must be non-negative")
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("config error: 'chunk_overlap' must be non-negative")
	}
	if c.ChunkOverlap > 0 && c.ChunkSize > 0 && c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("config error: 'chunk_overlap' must be smaller than 'chunk_size'")
	}
	if c.TopK < 0 {
		return fmt.Errorf("config error: 'top_k' must be non-negative")
	}
	switch c.EmbedProvider {
	case "", EmbedProviderOpenAI, EmbedProviderOllama:
	default:
		return fmt.Errorf("config error: unsupported embed_provider %q", c.EmbedProvider)
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.UsersDir == "" {
		result.UsersDir = defaults.UsersDir
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.ChunkSize == 0 {
		result.ChunkSize = defaults.ChunkSize
	}
	if result.ChunkOverlap == 0 {
		result.ChunkOverlap = defaults.ChunkOverlap
	}
	if result.TopK == 0 {
		result.TopK = defaults.TopK
	}
	if result.EmbedProvider == "" {
		result.EmbedProvider = defaults.EmbedProvider
	}
	if result.EmbedModel == "" {
		result.EmbedModel = defaults.EmbedModel
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LogFile == "" {
		result.LogFile = defaults.LogFile
	}
	if result.UseLLM == nil {
		result.UseLLM = defaults.UseLLM
	}
	return result
}

// Default returns the baseline configuration used when no file is provided.
func Default() Config {
	useLLM := true
	return Config{
		UsersDir:      DefaultUsersDir,
		OutputDir:     DefaultOutputDir,
		ChunkSize:     DefaultChunkSize,
		ChunkOverlap:  DefaultChunkOverlap,
		TopK:          DefaultTopK,
		EmbedProvider: EmbedProviderOpenAI,
		EmbedModel:    "text-embedding-3-small",
		UseLLM:        &useLLM,
	}
}
