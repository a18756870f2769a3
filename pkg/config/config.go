/*
Package config manages the TOML configuration for the prediction engine
and its IPC front end.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/kbc-developers/yosoku/pkg/request"
)

// Config holds the entire config structure.
type Config struct {
	Prediction PredictionConfig `toml:"prediction"`
	Server     ServerConfig     `toml:"server"`
	Dict       DictConfig       `toml:"dict"`
}

// PredictionConfig mirrors the user-facing prediction switches.
type PredictionConfig struct {
	UseDictionarySuggest                 bool `toml:"use_dictionary_suggest"`
	UseRealtimeConversion                bool `toml:"use_realtime_conversion"`
	UseTypingCorrection                  bool `toml:"use_typing_correction"`
	UseKanaModifierInsensitiveConversion bool `toml:"use_kana_modifier_insensitive_conversion"`
	MixedConversion                      bool `toml:"mixed_conversion"`
	ZeroQuerySuggestion                  bool `toml:"zero_query_suggestion"`
}

// ServerConfig has IPC server related options.
type ServerConfig struct {
	MaxCandidates int `toml:"max_candidates"`
	MaxKeyBytes   int `toml:"max_key_bytes"`
}

// DictConfig points at the dictionary data files.
type DictConfig struct {
	SystemPath           string `toml:"system_path"`
	SuffixPath           string `toml:"suffix_path"`
	SuggestionFilterPath string `toml:"suggestion_filter_path"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Prediction: PredictionConfig{
			UseDictionarySuggest:  true,
			UseRealtimeConversion: false,
			UseTypingCorrection:   false,
		},
		Server: ServerConfig{
			MaxCandidates: 10,
			MaxKeyBytes:   300,
		},
		Dict: DictConfig{
			SystemPath: "data/system.tsv",
			SuffixPath: "data/suffix.tsv",
		},
	}
}

// Load reads a TOML file over the defaults. A missing or unparsable file
// falls back to defaults with a warning; configuration is never a fatal
// concern.
func Load(path string) *Config {
	cfg := Default()
	if path == "" {
		return cfg
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			log.Debugf("No config file at %s, using defaults", path)
		} else {
			log.Warnf("Failed to parse config %s: %v. Using defaults.", path, err)
		}
		return Default()
	}
	log.Debugf("Loaded config from %s", path)
	return cfg
}

// Init loads the config at path, creating it with defaults first when it
// does not exist yet.
func Init(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(Default(), path); err != nil {
			log.Warnf("Failed to create default config at %s: %v", path, err)
			return Default(), nil
		}
		log.Debugf("Created default config file at %s", path)
	}
	return Load(path), nil
}

// Save writes the config as TOML, creating parent directories as needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// RequestConfig converts the prediction section into the per-request
// config consumed by the predictor.
func (c *Config) RequestConfig() request.Config {
	return request.Config{
		UseDictionarySuggest:                 c.Prediction.UseDictionarySuggest,
		UseRealtimeConversion:                c.Prediction.UseRealtimeConversion,
		UseTypingCorrection:                  c.Prediction.UseTypingCorrection,
		UseKanaModifierInsensitiveConversion: c.Prediction.UseKanaModifierInsensitiveConversion,
	}
}

// ClientRequest converts the prediction section into the client feature
// block.
func (c *Config) ClientRequest() request.ClientRequest {
	return request.ClientRequest{
		MixedConversion:       c.Prediction.MixedConversion,
		ZeroQuerySuggestion:   c.Prediction.ZeroQuerySuggestion,
		AvailableEmojiCarrier: request.EmojiCarrierUnicode,
	}
}
