package ingest

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBatchSize bounds one ingestion transaction, matching the source
// feed's chunking.
const DefaultBatchSize = 200

// Config defines ingestion configuration.
type Config struct {
	DataDir      string `yaml:"data_dir"`
	BatchSize    int    `yaml:"batch_size"`
	PollInterval string `yaml:"poll_interval"`
	Enabled      bool   `yaml:"enabled"`

	ObservationsFile  string `yaml:"observations_file"`
	BusinessHoursFile string `yaml:"business_hours_file"`
	TimezonesFile     string `yaml:"timezones_file"`
}

// LoadConfig loads config from yaml or env.
func LoadConfig() (Config, error) {
	cfg := Config{
		DataDir:           getenvDefault("INGEST_DATA_DIR", "data"),
		BatchSize:         getenvIntDefault("INGEST_BATCH_SIZE", DefaultBatchSize),
		PollInterval:      getenvDefault("INGEST_POLL_INTERVAL", "1h"),
		Enabled:           os.Getenv("INGEST_ENABLED") == "true",
		ObservationsFile:  "store_status.csv",
		BusinessHoursFile: "business_hours.csv",
		TimezonesFile:     "timezones.csv",
	}

	if path := os.Getenv("INGEST_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.DataDir == "" {
		return cfg, errors.New("ingest: data dir required")
	}
	if _, err := cfg.Interval(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Interval parses the poll interval.
func (c Config) Interval() (time.Duration, error) {
	if c.PollInterval == "" {
		return time.Hour, nil
	}
	return time.ParseDuration(c.PollInterval)
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
