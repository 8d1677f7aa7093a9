// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// weightTolerance is the allowed drift when checking weight tables sum to 1.0.
const weightTolerance = 1e-9

// Config is the top-level application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Similarity SimilarityConfig `yaml:"similarity"`
	Mining     MiningConfig     `yaml:"mining"`
	Sentiment  SentimentConfig  `yaml:"sentiment"`
	Fuzzy      FuzzyConfig      `yaml:"fuzzy"`
	Forecast   ForecastConfig   `yaml:"forecast"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Triggers   TriggersConfig   `yaml:"triggers"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// FeatureWeights weight the feature vector components. Must sum to 1.0.
type FeatureWeights struct {
	Category float64 `yaml:"category"`
	Tag      float64 `yaml:"tag"`
	Price    float64 `yaml:"price"`
	Keyword  float64 `yaml:"keyword"`
}

// Sum returns the total of all feature weights.
func (w FeatureWeights) Sum() float64 {
	return w.Category + w.Tag + w.Price + w.Keyword
}

// SimilarityConfig defines feature weighting and per-strategy score
// thresholds. Pairs scoring below a strategy's threshold are not persisted.
type SimilarityConfig struct {
	Weights          FeatureWeights `yaml:"weights"`
	ContentThreshold float64        `yaml:"content_threshold"`
	CollabThreshold  float64        `yaml:"collab_threshold"`
	DefaultStrategy  string         `yaml:"default_strategy"`
}

// MiningConfig defines the Apriori rule mining thresholds.
type MiningConfig struct {
	MinSupport    float64 `yaml:"min_support"`
	MinConfidence float64 `yaml:"min_confidence"`
	MinLift       float64 `yaml:"min_lift"`
}

// SentimentWeights weight the five text sources. Must sum to 1.0.
type SentimentWeights struct {
	Opinions    float64 `yaml:"opinions"`
	Description float64 `yaml:"description"`
	Name        float64 `yaml:"name"`
	Specs       float64 `yaml:"specs"`
	Categories  float64 `yaml:"categories"`
}

// Sum returns the total of all sentiment source weights.
func (w SentimentWeights) Sum() float64 {
	return w.Opinions + w.Description + w.Name + w.Specs + w.Categories
}

// SentimentConfig defines sentiment aggregation weights.
type SentimentConfig struct {
	Weights SentimentWeights `yaml:"weights"`
}

// FuzzyConfig defines fuzzy recommender bounds used to normalize crisp
// inputs before fuzzification.
type FuzzyConfig struct {
	MaxPrice      float64 `yaml:"max_price"`
	MaxPopularity float64 `yaml:"max_popularity"`
}

// ForecastConfig defines forecasting horizons and minimum history sizes.
type ForecastConfig struct {
	HorizonDays     int `yaml:"horizon_days"`
	WindowDays      int `yaml:"window_days"`
	MinObservations int `yaml:"min_observations"`
}

// ScheduleConfig defines cron intervals for the recompute jobs.
type ScheduleConfig struct {
	SimilarityInterval time.Duration `yaml:"similarity_interval"`
	MiningInterval     time.Duration `yaml:"mining_interval"`
	SentimentInterval  time.Duration `yaml:"sentiment_interval"`
	ForecastInterval   time.Duration `yaml:"forecast_interval"`
}

// TriggersConfig rate-limits manual recompute triggers from admin tooling.
type TriggersConfig struct {
	PerMinute float64 `yaml:"per_minute"`
	Burst     int     `yaml:"burst"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation. Invalid weight tables and out-of-range
// thresholds are rejected here, before any recompute can run.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a fully defaulted configuration, useful in tests.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applySimilarityDefaults(&cfg.Similarity)
	applyMiningDefaults(&cfg.Mining)
	applySentimentDefaults(&cfg.Sentiment)
	applyFuzzyDefaults(&cfg.Fuzzy)
	applyForecastDefaults(&cfg.Forecast)
	applyScheduleDefaults(&cfg.Schedule)
	applyTriggersDefaults(&cfg.Triggers)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applySimilarityDefaults(s *SimilarityConfig) {
	if s.Weights == (FeatureWeights{}) {
		s.Weights = FeatureWeights{
			Category: 0.40,
			Tag:      0.30,
			Price:    0.15,
			Keyword:  0.15,
		}
	}
	if s.ContentThreshold == 0 {
		s.ContentThreshold = 0.1
	}
	if s.CollabThreshold == 0 {
		s.CollabThreshold = 0.05
	}
	if s.DefaultStrategy == "" {
		s.DefaultStrategy = "collaborative"
	}
}

func applyMiningDefaults(m *MiningConfig) {
	if m.MinSupport == 0 {
		m.MinSupport = 0.01
	}
	if m.MinConfidence == 0 {
		m.MinConfidence = 0.2
	}
	if m.MinLift == 0 {
		m.MinLift = 1.0
	}
}

func applySentimentDefaults(s *SentimentConfig) {
	if s.Weights == (SentimentWeights{}) {
		s.Weights = SentimentWeights{
			Opinions:    0.40,
			Description: 0.25,
			Name:        0.15,
			Specs:       0.12,
			Categories:  0.08,
		}
	}
}

func applyFuzzyDefaults(f *FuzzyConfig) {
	if f.MaxPrice == 0 {
		f.MaxPrice = 1000
	}
	if f.MaxPopularity == 0 {
		f.MaxPopularity = 100
	}
}

func applyForecastDefaults(f *ForecastConfig) {
	if f.HorizonDays == 0 {
		f.HorizonDays = 30
	}
	if f.WindowDays == 0 {
		f.WindowDays = 90
	}
	if f.MinObservations == 0 {
		f.MinObservations = 3
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.SimilarityInterval == 0 {
		s.SimilarityInterval = 6 * time.Hour
	}
	if s.MiningInterval == 0 {
		s.MiningInterval = 6 * time.Hour
	}
	if s.SentimentInterval == 0 {
		s.SentimentInterval = 12 * time.Hour
	}
	if s.ForecastInterval == 0 {
		s.ForecastInterval = 24 * time.Hour
	}
}

func applyTriggersDefaults(t *TriggersConfig) {
	if t.PerMinute == 0 {
		t.PerMinute = 2
	}
	if t.Burst == 0 {
		t.Burst = 2
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

// Validate checks the configuration for errors that must stop startup.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database.host is required"))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database.name is required"))
	}
	if cfg.Database.User == "" {
		errs = append(errs, fmt.Errorf("database.user is required"))
	}

	if sum := cfg.Similarity.Weights.Sum(); math.Abs(sum-1.0) > weightTolerance {
		errs = append(errs, fmt.Errorf(
			"similarity.weights must sum to 1.0 (got %v)", sum,
		))
	}
	if err := checkUnit("similarity.content_threshold", cfg.Similarity.ContentThreshold); err != nil {
		errs = append(errs, err)
	}
	if err := checkUnit("similarity.collab_threshold", cfg.Similarity.CollabThreshold); err != nil {
		errs = append(errs, err)
	}
	switch cfg.Similarity.DefaultStrategy {
	case "content_based", "collaborative":
	default:
		errs = append(errs, fmt.Errorf(
			"similarity.default_strategy must be content_based or collaborative (got %q)",
			cfg.Similarity.DefaultStrategy,
		))
	}

	if err := checkUnit("mining.min_support", cfg.Mining.MinSupport); err != nil {
		errs = append(errs, err)
	}
	if err := checkUnit("mining.min_confidence", cfg.Mining.MinConfidence); err != nil {
		errs = append(errs, err)
	}
	if cfg.Mining.MinLift < 0 {
		errs = append(errs, fmt.Errorf(
			"mining.min_lift must be non-negative (got %v)", cfg.Mining.MinLift,
		))
	}

	if sum := cfg.Sentiment.Weights.Sum(); math.Abs(sum-1.0) > weightTolerance {
		errs = append(errs, fmt.Errorf(
			"sentiment.weights must sum to 1.0 (got %v)", sum,
		))
	}

	if cfg.Forecast.HorizonDays < 1 {
		errs = append(errs, fmt.Errorf(
			"forecast.horizon_days must be at least 1 (got %d)", cfg.Forecast.HorizonDays,
		))
	}
	if cfg.Forecast.MinObservations < 1 {
		errs = append(errs, fmt.Errorf(
			"forecast.min_observations must be at least 1 (got %d)",
			cfg.Forecast.MinObservations,
		))
	}

	return errors.Join(errs...)
}

func checkUnit(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s must be in [0,1] (got %v)", name, v)
	}
	return nil
}
