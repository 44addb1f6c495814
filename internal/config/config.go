// Package config provides Viper-based configuration loading for the
// skirmish simulation binaries.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ContentConfig holds paths to the YAML/Lua content the simulation loads.
type ContentConfig struct {
	// TerrainFile is the terrain definition YAML file.
	TerrainFile string `mapstructure:"terrain_file"`
	// MapFile is the battle map YAML file.
	MapFile string `mapstructure:"map_file"`
	// ArchetypesDir is the directory of unit archetype YAML files.
	ArchetypesDir string `mapstructure:"archetypes_dir"`
	// ScriptsDir is the directory of Lua battle scripts; empty disables
	// scripting.
	ScriptsDir string `mapstructure:"scripts_dir"`
}

// GameConfig holds battle driver settings.
type GameConfig struct {
	// EnemyThinkDelay is how long the driver waits before the enemy side
	// acts. Purely a driver scheduling choice; the core accepts the turn
	// ending at any later time.
	EnemyThinkDelay time.Duration `mapstructure:"enemy_think_delay"`
	// MaxTurns stops a headless match that neither side can finish.
	MaxTurns int `mapstructure:"max_turns"`
	// ScriptInstructionLimit caps Lua opcodes per script execution;
	// 0 uses the scripting default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Content ContentConfig `mapstructure:"content"`
	Game    GameConfig    `mapstructure:"game"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.TerrainFile == "" {
		errs = append(errs, "content.terrain_file must not be empty")
	}
	if c.MapFile == "" {
		errs = append(errs, "content.map_file must not be empty")
	}
	if c.ArchetypesDir == "" {
		errs = append(errs, "content.archetypes_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.EnemyThinkDelay < 0 {
		errs = append(errs, "game.enemy_think_delay must not be negative")
	}
	if g.MaxTurns < 1 {
		errs = append(errs, fmt.Sprintf("game.max_turns must be >= 1, got %d", g.MaxTurns))
	}
	if g.ScriptInstructionLimit < 0 {
		errs = append(errs, "game.script_instruction_limit must be >= 0")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the file at path, applying defaults and
// SKIRMISH_-prefixed environment overrides.
//
// Precondition: path must point to a readable config file.
// Postcondition: Returns a validated Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}

	return LoadFromViper(v)
}

// LoadFromViper unmarshals and validates a Config from a prepared Viper.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("content.terrain_file", "content/terrain.yaml")
	v.SetDefault("content.map_file", "content/maps/crossing.yaml")
	v.SetDefault("content.archetypes_dir", "content/archetypes")
	v.SetDefault("content.scripts_dir", "")

	v.SetDefault("game.enemy_think_delay", "500ms")
	v.SetDefault("game.max_turns", 100)
	v.SetDefault("game.script_instruction_limit", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
