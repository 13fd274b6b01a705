package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"crosswarped.com/wordsolve/pkg/dictionary"
)

// EnvPrefix prefixes every environment override, e.g. WORDSOLVE_BOARD_COLS.
const EnvPrefix = "WORDSOLVE"

// Config holds the settings shared by the command line tool and the HTTP
// function.
type Config struct {
	Dictionary DictionaryConfig `mapstructure:"dictionary"`
	Board      BoardConfig      `mapstructure:"board"`
	Server     ServerConfig     `mapstructure:"server"`
	BigQuery   BigQueryConfig   `mapstructure:"bigquery"`
	Log        LogConfig        `mapstructure:"log"`
}

// DictionaryConfig describes the word list file and which words to keep.
type DictionaryConfig struct {
	Path           string `mapstructure:"path"`
	MinLength      int    `mapstructure:"min_length"`
	MaxLength      int    `mapstructure:"max_length"`
	SkipDuplicates bool   `mapstructure:"skip_duplicates"`
}

type BoardConfig struct {
	Rows int `mapstructure:"rows"`
	Cols int `mapstructure:"cols"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// BigQueryConfig selects the word list from a table instead of a file when
// Table is set.
type BigQueryConfig struct {
	Project string `mapstructure:"project"`
	Table   string `mapstructure:"table"`
	Scope   string `mapstructure:"scope"`
	Column  string `mapstructure:"column"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig loads configuration from an optional file and the environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dictionary.path", "")
	v.SetDefault("dictionary.min_length", 5)
	v.SetDefault("dictionary.max_length", 5)
	v.SetDefault("dictionary.skip_duplicates", false)

	v.SetDefault("board.rows", 6)
	v.SetDefault("board.cols", 5)

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)

	v.SetDefault("bigquery.project", "")
	v.SetDefault("bigquery.table", "")
	v.SetDefault("bigquery.scope", "")
	v.SetDefault("bigquery.column", "word")

	v.SetDefault("log.level", "info")
}

// Validate checks the configuration for values nothing could use.
func (c *Config) Validate() error {
	if c.Board.Rows <= 0 || c.Board.Cols <= 0 {
		return fmt.Errorf("invalid board size: %dx%d", c.Board.Rows, c.Board.Cols)
	}
	if c.Dictionary.MinLength < 0 || c.Dictionary.MaxLength < 0 {
		return errors.New("word lengths cannot be negative")
	}
	if c.Dictionary.MaxLength > 0 && c.Dictionary.MinLength > c.Dictionary.MaxLength {
		return fmt.Errorf("min word length %d is above max %d", c.Dictionary.MinLength, c.Dictionary.MaxLength)
	}
	if !c.WordSize().Admits(c.Board.Cols) {
		return fmt.Errorf("board is %d columns wide but words are limited to %d-%d letters", c.Board.Cols, c.Dictionary.MinLength, c.Dictionary.MaxLength)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.BigQuery.Table != "" {
		if c.BigQuery.Project == "" {
			return errors.New("bigquery project is required with a table")
		}
		if c.BigQuery.Column == "" {
			return errors.New("bigquery column cannot be empty")
		}
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	return nil
}

// WordSize is the length range of words to load.
func (c *Config) WordSize() dictionary.WordSizeConstraint {
	return dictionary.WordSizeConstraint{Min: c.Dictionary.MinLength, Max: c.Dictionary.MaxLength}
}

// DuplicatePolicy is the loader policy for repeated words.
func (c *Config) DuplicatePolicy() dictionary.DuplicatePolicy {
	if c.Dictionary.SkipDuplicates {
		return dictionary.DuplicatesSkip
	}
	return dictionary.DuplicatesFail
}

// LogLevel returns the configured level, or info when it does not parse.
func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
