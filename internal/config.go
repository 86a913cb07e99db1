package internal

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

type EngineKind string

const (
	EngineGenerative EngineKind = "generative"
	EngineZeroShot   EngineKind = "zeroshot"
)

type ReferenceSource string

const (
	ReferenceAll    ReferenceSource = "all"
	ReferenceFilter ReferenceSource = "filter"
	ReferenceManual ReferenceSource = "manual"
)

type OutputKind string

const (
	OutputTag         OutputKind = "tag"
	OutputWikilink    OutputKind = "wikilink"
	OutputFrontMatter OutputKind = "frontmatter"
	OutputTitle       OutputKind = "title"
)

type OutputLocation string

const (
	LocationCursor     OutputLocation = "cursor"
	LocationContentTop OutputLocation = "content-top"
)

const (
	DefaultBaseURL         = "https://api.openai.com/v1"
	DefaultModel           = "gpt-4.1-mini"
	DefaultZeroShotBaseURL = "https://api.jina.ai/v1"
	DefaultZeroShotModel   = "jina-embeddings-v3"
	DefaultMaxTokens       = 150
	DefaultMaxSuggestions  = 3
	DefaultFrontMatterKey  = "tags"

	MinSuggestions = 1
	MaxSuggestions = 10
)

const (
	EnvEngine          = "AUTOCLASS_ENGINE"
	EnvAPIKey          = "AUTOCLASS_API_KEY"
	EnvBaseURL         = "AUTOCLASS_BASE_URL"
	EnvModel           = "AUTOCLASS_MODEL"
	EnvZeroShotAPIKey  = "AUTOCLASS_ZEROSHOT_API_KEY"
	EnvZeroShotBaseURL = "AUTOCLASS_ZEROSHOT_BASE_URL"
	EnvZeroShotModel   = "AUTOCLASS_ZEROSHOT_MODEL"
	EnvLogLevel        = "AUTOCLASS_LOG_LEVEL"
)

type GenerativeConfig struct {
	APIKey           string   `yaml:"api_key,omitempty"`
	BaseURL          string   `yaml:"base_url"`
	Model            string   `yaml:"model"`
	MaxTokens        int      `yaml:"max_tokens"`
	Temperature      *float32 `yaml:"temperature,omitempty"`
	TopP             *float32 `yaml:"top_p,omitempty"`
	FrequencyPenalty *float32 `yaml:"frequency_penalty,omitempty"`
	PresencePenalty  *float32 `yaml:"presence_penalty,omitempty"`
	UseCustomPrompt  bool     `yaml:"use_custom_prompt"`
	SystemRole       string   `yaml:"system_role,omitempty"`
	PromptTemplate   string   `yaml:"prompt_template,omitempty"`
}

type ZeroShotConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type ReferencesConfig struct {
	Use    bool            `yaml:"use"`
	Source ReferenceSource `yaml:"source"`
	Filter string          `yaml:"filter,omitempty"`
	Manual []string        `yaml:"manual,omitempty"`
	Labels []string        `yaml:"labels,omitempty"`
}

type OutputConfig struct {
	Kind      OutputKind     `yaml:"kind"`
	Location  OutputLocation `yaml:"location"`
	Key       string         `yaml:"key"`
	Overwrite bool           `yaml:"overwrite"`
	Prefix    string         `yaml:"prefix,omitempty"`
	Suffix    string         `yaml:"suffix,omitempty"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type Config struct {
	Engine         EngineKind       `yaml:"engine"`
	Generative     GenerativeConfig `yaml:"generative"`
	ZeroShot       ZeroShotConfig   `yaml:"zeroshot"`
	References     ReferencesConfig `yaml:"references"`
	Output         OutputConfig     `yaml:"output"`
	MaxSuggestions int              `yaml:"max_suggestions"`
	Log            LogConfig        `yaml:"log"`
}

func DefaultConfig() *Config {
	return &Config{
		Engine: EngineGenerative,
		Generative: GenerativeConfig{
			BaseURL:   DefaultBaseURL,
			Model:     DefaultModel,
			MaxTokens: DefaultMaxTokens,
		},
		ZeroShot: ZeroShotConfig{
			BaseURL: DefaultZeroShotBaseURL,
			Model:   DefaultZeroShotModel,
		},
		References: ReferencesConfig{
			Use:    true,
			Source: ReferenceAll,
		},
		Output: OutputConfig{
			Kind:     OutputTag,
			Location: LocationCursor,
			Key:      DefaultFrontMatterKey,
		},
		MaxSuggestions: DefaultMaxSuggestions,
		Log:            LogConfig{Level: "info"},
	}
}

// Placement returns the placement directive described by the output section.
func (c Config) Placement() PlacementDirective {
	return PlacementDirective{
		Kind:           c.Output.Kind,
		Location:       c.Output.Location,
		FrontMatterKey: c.Output.Key,
		Overwrite:      c.Output.Overwrite,
		Prefix:         c.Output.Prefix,
		Suffix:         c.Output.Suffix,
	}
}

func (c Config) Validate() error {
	switch c.Engine {
	case EngineGenerative, EngineZeroShot:
	default:
		return fmt.Errorf("unknown engine: %q", c.Engine)
	}

	switch c.Output.Kind {
	case OutputTag, OutputWikilink, OutputFrontMatter, OutputTitle:
	default:
		return fmt.Errorf("unknown output kind: %q", c.Output.Kind)
	}

	switch c.Output.Location {
	case LocationCursor, LocationContentTop:
	default:
		return fmt.Errorf("unknown output location: %q", c.Output.Location)
	}

	switch c.References.Source {
	case ReferenceAll, ReferenceManual:
	case ReferenceFilter:
		if _, err := regexp.Compile(c.References.Filter); err != nil {
			return fmt.Errorf("invalid reference filter: %w", err)
		}
	default:
		return fmt.Errorf("unknown reference source: %q", c.References.Source)
	}

	if c.MaxSuggestions < MinSuggestions || c.MaxSuggestions > MaxSuggestions {
		return fmt.Errorf("max_suggestions must be between %d and %d, got %d", MinSuggestions, MaxSuggestions, c.MaxSuggestions)
	}
	if c.Generative.MaxTokens < 1 {
		return fmt.Errorf("generative max_tokens must be positive, got %d", c.Generative.MaxTokens)
	}
	if c.Output.Kind == OutputFrontMatter && strings.TrimSpace(c.Output.Key) == "" {
		return fmt.Errorf("frontmatter output requires a key")
	}

	return nil
}

// LoadConfig reads the scope config and applies environment overrides.
func LoadConfig(scope Scope) (*Config, error) {
	cfg, err := LoadConfigFile(scope)
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

// LoadConfigFile reads the scope config without environment overrides.
// A missing file yields the defaults.
func LoadConfigFile(scope Scope) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(scope.ConfigPath())
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func SaveConfig(scope Scope, cfg *Config) error {
	path := scope.ConfigPath()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

func applyEnv(cfg *Config) {
	set := func(envVar string, target *string) {
		if v := os.Getenv(envVar); v != "" {
			*target = v
		}
	}

	if v := os.Getenv(EnvEngine); v != "" {
		cfg.Engine = EngineKind(v)
	}
	set(EnvAPIKey, &cfg.Generative.APIKey)
	set(EnvBaseURL, &cfg.Generative.BaseURL)
	set(EnvModel, &cfg.Generative.Model)
	set(EnvZeroShotAPIKey, &cfg.ZeroShot.APIKey)
	set(EnvZeroShotBaseURL, &cfg.ZeroShot.BaseURL)
	set(EnvZeroShotModel, &cfg.ZeroShot.Model)
	set(EnvLogLevel, &cfg.Log.Level)
}
