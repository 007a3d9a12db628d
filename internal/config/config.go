// Package config provides configuration management for tracelens.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (TRACELENS_*)
// 3. Project config (.tracelens/config.yaml in cwd)
// 4. Home config (~/.tracelens/config.yaml)
// 5. Defaults
//
// The logging-service API key is separate: it comes from BRAINTRUST_API_KEY
// in the environment or from .env discovery (~/.claude/.env, then the
// working directory and its parents).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/agentica-ai/tracelens/internal/judge"
)

// APIKeyVar is the environment variable carrying the logging-service key.
const APIKeyVar = "BRAINTRUST_API_KEY"

// Config holds all tracelens configuration.
type Config struct {
	// Project is the logging-service project name to analyze.
	Project string `yaml:"project" json:"project"`

	// Output controls the default output format (markdown, json).
	Output string `yaml:"output" json:"output"`

	// Verbose enables diagnostic logging.
	Verbose bool `yaml:"verbose" json:"verbose"`

	// API settings for the remote services.
	API APIConfig `yaml:"api" json:"api"`

	// Judge settings for LLM-as-judge calls.
	Judge JudgeConfig `yaml:"judge" json:"judge"`

	// Budget is the trace character-budget policy.
	Budget judge.Budget `yaml:"budget" json:"budget"`

	// Graph settings for the context-graph integration.
	Graph GraphConfig `yaml:"graph" json:"graph"`

	// Paths for persisted artifacts (configurable, not hardcoded).
	Paths PathsConfig `yaml:"paths" json:"paths"`
}

// APIConfig holds remote endpoints.
type APIConfig struct {
	// BaseURL is the logging/query service endpoint. Empty selects the
	// hosted service.
	BaseURL string `yaml:"base_url" json:"base_url"`

	// ProxyURL is the chat-completion proxy endpoint. Empty selects the
	// hosted proxy.
	ProxyURL string `yaml:"proxy_url" json:"proxy_url"`
}

// JudgeConfig holds judge sampling settings.
type JudgeConfig struct {
	// Model is the judge model name.
	Model string `yaml:"model" json:"model"`

	// MaxTokens is the fixed output-size limit per judge call.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`
}

// GraphConfig holds context-graph settings.
type GraphConfig struct {
	// Command is the context-graph executable queried for hierarchical
	// context. Default: "context-graph".
	Command string `yaml:"command" json:"command"`

	// DBPath is the context-graph SQLite database, relative to the project
	// dir when not absolute.
	DBPath string `yaml:"db_path" json:"db_path"`
}

// PathsConfig holds artifact locations, relative to the project dir when not
// absolute.
type PathsConfig struct {
	// LearningsDir is where extracted learnings are saved.
	LearningsDir string `yaml:"learnings_dir" json:"learnings_dir"`

	// ReviewsDir is where judge reviews are saved.
	ReviewsDir string `yaml:"reviews_dir" json:"reviews_dir"`

	// PlansDir is where plan documents live (scored by default by `score`).
	PlansDir string `yaml:"plans_dir" json:"plans_dir"`
}

// Default config values.
const (
	defaultProject = "agentica"
	defaultOutput  = "markdown"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Project: defaultProject,
		Output:  defaultOutput,
		Judge: JudgeConfig{
			Model:     judge.DefaultModel,
			MaxTokens: judge.DefaultMaxTokens,
		},
		Budget: judge.DefaultBudget(),
		Graph: GraphConfig{
			Command: "context-graph",
			DBPath:  filepath.Join(".claude", "cache", "context-graph", "context.db"),
		},
		Paths: PathsConfig{
			LearningsDir: filepath.Join(".claude", "cache", "learnings"),
			ReviewsDir:   filepath.Join(".claude", "cache", "reviews"),
			PlansDir:     filepath.Join("thoughts", "shared", "plans"),
		},
	}
}

// Load loads configuration with proper precedence.
// Priority: flags > env > project > home > defaults
func Load(flagOverrides *Config) (*Config, error) {
	cfg := Default()

	homeConfig, _ := loadFromPath(homeConfigPath())
	if homeConfig != nil {
		cfg = merge(cfg, homeConfig)
	}

	projectConfig, _ := loadFromPath(projectConfigPath())
	if projectConfig != nil {
		cfg = merge(cfg, projectConfig)
	}

	cfg = applyEnv(cfg)

	if flagOverrides != nil {
		cfg = merge(cfg, flagOverrides)
	}

	return cfg, nil
}

// ProjectDir returns the directory holding plans, caches, and the context
// graph: CLAUDE_PROJECT_DIR when set, else the working directory.
func ProjectDir() string {
	if dir := os.Getenv("CLAUDE_PROJECT_DIR"); dir != "" {
		return dir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// InProjectDir resolves a configured path against the project dir unless it
// is already absolute.
func InProjectDir(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(ProjectDir(), path)
}

// APIKey returns the logging-service API key from the environment or from
// .env discovery: ~/.claude/.env first, then .env in the working directory
// and each parent. A found key is exported to the environment for the rest
// of the process.
func APIKey() (string, error) {
	if key := os.Getenv(APIKeyVar); key != "" {
		return key, nil
	}

	for _, dir := range envSearchDirs() {
		values, err := godotenv.Read(filepath.Join(dir, ".env"))
		if err != nil {
			continue
		}
		if key := strings.TrimSpace(values[APIKeyVar]); key != "" {
			os.Setenv(APIKeyVar, key)
			return key, nil
		}
	}

	return "", fmt.Errorf("%s not found: set it in the environment, ~/.claude/.env, or a project .env", APIKeyVar)
}

func envSearchDirs() []string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".claude"))
	}
	cwd, err := os.Getwd()
	if err != nil {
		return dirs
	}
	for {
		dirs = append(dirs, cwd)
		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}
	return dirs
}

// homeConfigPath returns the home config path.
func homeConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tracelens", "config.yaml")
}

// projectConfigPath returns the project config path.
func projectConfigPath() string {
	if override := strings.TrimSpace(os.Getenv("TRACELENS_CONFIG")); override != "" {
		return override
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ".tracelens", "config.yaml")
}

// loadFromPath loads config from a YAML file.
func loadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv applies environment variable overrides.
func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("TRACELENS_PROJECT"); v != "" {
		cfg.Project = v
	}
	if v := os.Getenv("TRACELENS_OUTPUT"); v != "" {
		cfg.Output = v
	}
	if v := os.Getenv("TRACELENS_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("TRACELENS_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("TRACELENS_PROXY_URL"); v != "" {
		cfg.API.ProxyURL = v
	}
	if v := os.Getenv("TRACELENS_MODEL"); v != "" {
		cfg.Judge.Model = v
	}
	if v := os.Getenv("TRACELENS_GRAPH_COMMAND"); v != "" {
		cfg.Graph.Command = v
	}
	return cfg
}

// mergeStr overwrites dst with src when src is non-empty.
func mergeStr(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// mergeInt overwrites dst with src when src is non-zero.
func mergeInt(dst *int, src int) {
	if src != 0 {
		*dst = src
	}
}

// merge merges src into dst, with src values taking precedence.
func merge(dst, src *Config) *Config {
	mergeStr(&dst.Project, src.Project)
	mergeStr(&dst.Output, src.Output)
	if src.Verbose {
		dst.Verbose = true
	}

	mergeStr(&dst.API.BaseURL, src.API.BaseURL)
	mergeStr(&dst.API.ProxyURL, src.API.ProxyURL)

	mergeStr(&dst.Judge.Model, src.Judge.Model)
	mergeInt(&dst.Judge.MaxTokens, src.Judge.MaxTokens)

	mergeInt(&dst.Budget.TotalChars, src.Budget.TotalChars)
	mergeInt(&dst.Budget.ReserveChars, src.Budget.ReserveChars)
	mergeInt(&dst.Budget.MinPerField, src.Budget.MinPerField)
	mergeInt(&dst.Budget.MaxPerField, src.Budget.MaxPerField)

	mergeStr(&dst.Graph.Command, src.Graph.Command)
	mergeStr(&dst.Graph.DBPath, src.Graph.DBPath)

	mergeStr(&dst.Paths.LearningsDir, src.Paths.LearningsDir)
	mergeStr(&dst.Paths.ReviewsDir, src.Paths.ReviewsDir)
	mergeStr(&dst.Paths.PlansDir, src.Paths.PlansDir)

	return dst
}
