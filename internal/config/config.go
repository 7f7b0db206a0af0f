package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// SolverConfig holds the genetic algorithm parameters
type SolverConfig struct {
	PopulationSize       int     `yaml:"populationSize" env:"POPULATION_SIZE" validate:"min=1"`
	EliteRatio           float64 `yaml:"eliteRatio" env:"ELITE_RATIO" validate:"min=0,max=1"`
	RandomRetentionRatio float64 `yaml:"randomRetentionRatio" env:"RANDOM_RETENTION_RATIO" validate:"min=0,max=1"`
	CrossoverBudgetRatio float64 `yaml:"crossoverBudgetRatio" env:"CROSSOVER_BUDGET_RATIO" validate:"min=0,max=1"`
	// Seed for the random source; 0 picks one from the clock
	Seed uint64 `yaml:"seed,omitempty" env:"SEED"`
}

// StopConfig holds optional limits for a solve. Zero means unlimited.
type StopConfig struct {
	MaxGenerations int    `yaml:"maxGenerations,omitempty" env:"MAX_GENERATIONS" validate:"min=0"`
	TargetFitness  int    `yaml:"targetFitness,omitempty" env:"TARGET_FITNESS" validate:"min=0"`
	TimeBudget     string `yaml:"timeBudget,omitempty" env:"TIME_BUDGET"`
}

// DatabaseConfig selects the run history store. With neither field set runs
// are kept in memory for the lifetime of the process only.
type DatabaseConfig struct {
	// URL is a Postgres connection string
	URL string `yaml:"url,omitempty" env:"URL" validate:"omitempty,url"`
	// SQLitePath is a local database file, used when URL is empty
	SQLitePath string `yaml:"sqlitePath,omitempty" env:"SQLITE_PATH" validate:"excluded_with=URL"`
}

// SheetsConfig points at the Google Sheets used for input and publishing
type SheetsConfig struct {
	InstanceSheetID string `yaml:"instanceSheetID,omitempty" env:"INSTANCE_SHEET_ID"`
	InstanceTab     string `yaml:"instanceTab,omitempty" env:"INSTANCE_TAB" validate:"required_with=InstanceSheetID"`
	ResultSheetID   string `yaml:"resultSheetID,omitempty" env:"RESULT_SHEET_ID"`
}

// GeneratorConfig sets the preference range for synthetic instances
type GeneratorConfig struct {
	MinPreference int `yaml:"minPreference" env:"MIN_PREFERENCE" validate:"min=0"`
	MaxPreference int `yaml:"maxPreference" env:"MAX_PREFERENCE" validate:"gtefield=MinPreference"`
}

// Config represents the application configuration
type Config struct {
	Solver    SolverConfig    `yaml:"solver" envPrefix:"SOLVER_"`
	Stop      StopConfig      `yaml:"stop,omitempty" envPrefix:"STOP_"`
	Database  DatabaseConfig  `yaml:"database,omitempty" envPrefix:"DATABASE_"`
	Sheets    SheetsConfig    `yaml:"sheets,omitempty" envPrefix:"SHEETS_"`
	Generator GeneratorConfig `yaml:"generator" envPrefix:"GENERATOR_"`
}

const configBaseName = "group_allocation_config"

// EnvPrefix prefixes the environment variables that override file values,
// e.g. GROUP_ALLOCATION_DATABASE_URL or GROUP_ALLOCATION_SOLVER_SEED.
const EnvPrefix = "GROUP_ALLOCATION_"

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	return &Config{
		Solver: SolverConfig{
			PopulationSize:       1000,
			EliteRatio:           0.3,
			RandomRetentionRatio: 0.2,
			CrossoverBudgetRatio: 0.2,
		},
		Generator: GeneratorConfig{
			MinPreference: 1,
			MaxPreference: 100000,
		},
	}
}

// LoadWithEnv loads group_allocation_config.<envName>.yaml (or
// group_allocation_config.yaml when envName is empty) from the current
// directory or the home directory. A missing file is not an error: defaults
// are used. GROUP_ALLOCATION_* environment variables override either.
func LoadWithEnv(envName string) (*Config, error) {
	configPath, err := findConfigFile(envName)
	if errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		if err := applyEnvironment(cfg); err != nil {
			return nil, err
		}
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Fields missing from the file keep their default values.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := applyEnvironment(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvironment overwrites the fields whose variables are set. Unset
// variables leave the file or default value alone.
func applyEnvironment(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			return fmt.Errorf("failed to read environment overrides: %w", aggErr.Errors[0])
		}
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}
	return nil
}

// Validate validates the configuration struct and the cross-field rules
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if sum := cfg.Solver.EliteRatio + cfg.Solver.RandomRetentionRatio; sum > 1 {
		return fmt.Errorf("solver.eliteRatio + solver.randomRetentionRatio must not exceed 1, got %.3f", sum)
	}

	if _, err := cfg.Stop.Budget(); err != nil {
		return err
	}

	return nil
}

// Budget parses TimeBudget; an empty value means no budget
func (s StopConfig) Budget() (time.Duration, error) {
	if s.TimeBudget == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.TimeBudget)
	if err != nil {
		return 0, fmt.Errorf("invalid stop.timeBudget %q: %w", s.TimeBudget, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("stop.timeBudget must not be negative, got %s", d)
	}
	return d, nil
}

// findConfigFile resolves the config file name for envName
func findConfigFile(envName string) (string, error) {
	configFileName := configBaseName + ".yaml"
	if envName != "" {
		configFileName = configBaseName + "." + envName + ".yaml"
	}
	return locate(configFileName)
}

// locate searches for fileName in the current directory, then the home
// directory. The error wraps os.ErrNotExist when neither has it.
func locate(fileName string) (string, error) {
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory: %w", fileName, os.ErrNotExist)
}
