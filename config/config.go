// Package config loads the pipeline configuration from a YAML file, a .env
// file and environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/housereg/dataset"
	"github.com/YuminosukeSato/housereg/pkg/errors"
	"github.com/YuminosukeSato/housereg/pkg/log"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "housereg.yaml"

// Environment variables that override the file.
const (
	EnvDataPath      = "DATA_PATH"
	EnvProcessedPath = "PROCESSED_PATH"
	EnvModelPath     = "MODEL_PATH"
	EnvLoggingLevel  = "LOGGING_LEVEL"
)

// Config holds all pipeline settings.
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Logging LoggingConfig `yaml:"logging"`
	Dataset DatasetConfig `yaml:"dataset"`
	Model   ModelConfig   `yaml:"model"`
}

// PathsConfig locates the raw file and the output directories.
type PathsConfig struct {
	DataPath      string `yaml:"data_path"`      // raw CSV file
	ProcessedPath string `yaml:"processed_path"` // train/test directory
	ModelPath     string `yaml:"model_path"`     // model artifact directory
}

// LoggingConfig configures pkg/log.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// DatasetConfig configures the preparation step.
type DatasetConfig struct {
	DropColumn   string  `yaml:"drop_column"`
	TargetColumn string  `yaml:"target_column"`
	TestFraction float64 `yaml:"test_fraction"`
	Seed         int64   `yaml:"seed"`
}

// ModelConfig names the training outputs.
type ModelConfig struct {
	FileName string `yaml:"file_name"`
	PlotFile string `yaml:"plot_file"` // empty disables the plot
}

// DefaultConfig returns the settings of the housing pipeline.
func DefaultConfig() *Config {
	ds := dataset.DefaultConfig()
	return &Config{
		Paths: PathsConfig{
			DataPath:      filepath.Join("data", "raw", "housing.csv"),
			ProcessedPath: filepath.Join("data", "processed"),
			ModelPath:     "models",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: log.FormatJSON,
		},
		Dataset: DatasetConfig{
			DropColumn:   ds.DropColumn,
			TargetColumn: ds.TargetColumn,
			TestFraction: ds.TestFraction,
			Seed:         ds.Seed,
		},
		Model: ModelConfig{
			FileName: "LinearRegression.gob",
			PlotFile: "predictions.png",
		},
	}
}

// Load reads path on top of the defaults, then loads a .env file next to it
// and applies environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config %s", path)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// loadDotEnv sets variables from a .env file without replacing ones that
// are already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "failed to load %s", path)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvDataPath); v != "" {
		c.Paths.DataPath = v
	}
	if v := os.Getenv(EnvProcessedPath); v != "" {
		c.Paths.ProcessedPath = v
	}
	if v := os.Getenv(EnvModelPath); v != "" {
		c.Paths.ModelPath = v
	}
	if v := os.Getenv(EnvLoggingLevel); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	for _, p := range []struct{ name, value string }{
		{"paths.data_path", c.Paths.DataPath},
		{"paths.processed_path", c.Paths.ProcessedPath},
		{"paths.model_path", c.Paths.ModelPath},
		{"model.file_name", c.Model.FileName},
	} {
		if strings.TrimSpace(p.value) == "" {
			return errors.NewValidationError(p.name, "must not be empty", p.value)
		}
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	if c.Logging.Format != log.FormatJSON && c.Logging.Format != log.FormatConsole {
		return errors.NewValidationError("logging.format", "must be json or console", c.Logging.Format)
	}
	return c.DatasetConfig().Validate()
}

// DatasetConfig converts the dataset section for dataset.Preparer.
func (c *Config) DatasetConfig() dataset.Config {
	return dataset.Config{
		DropColumn:   c.Dataset.DropColumn,
		TargetColumn: c.Dataset.TargetColumn,
		TestFraction: c.Dataset.TestFraction,
		Seed:         c.Dataset.Seed,
	}
}

// ModelFile returns the artifact path.
func (c *Config) ModelFile() string {
	return filepath.Join(c.Paths.ModelPath, c.Model.FileName)
}

// PlotFile returns the plot path, or "" when plotting is disabled.
func (c *Config) PlotFile() string {
	if c.Model.PlotFile == "" {
		return ""
	}
	return filepath.Join(c.Paths.ModelPath, c.Model.PlotFile)
}
