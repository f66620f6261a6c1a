package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/noah-isme/sma-gradebook/internal/models"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	CORS    CORSConfig
	Log     LogConfig
	Grading GradingConfig
	Metrics MetricsConfig
	Exports ExportsConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// GradingConfig carries the default weights and the per-type max scores used to clamp input.
type GradingConfig struct {
	Weights   models.WeightConfiguration
	MaxScores models.MaxScores
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// ExportsConfig controls the class result export endpoint.
type ExportsConfig struct {
	Enabled      bool
	Title        string
	CSVDelimiter rune
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *fs.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Grading = GradingConfig{
		Weights:   models.WeightConfiguration{},
		MaxScores: models.MaxScores{},
	}
	for _, kind := range models.AssessmentTypes {
		suffix := strings.ToUpper(string(kind))
		weight := v.GetFloat64("GRADE_WEIGHT_" + suffix)
		if weight < 0 || weight > 1 {
			return nil, fmt.Errorf("GRADE_WEIGHT_%s must be within [0,1], got %v", suffix, weight)
		}
		cfg.Grading.Weights[kind] = weight
		max := v.GetFloat64("GRADE_MAX_" + suffix)
		if max <= 0 {
			return nil, fmt.Errorf("GRADE_MAX_%s must be positive, got %v", suffix, max)
		}
		cfg.Grading.MaxScores[kind] = max
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	cfg.Exports = ExportsConfig{
		Enabled:      v.GetBool("ENABLE_EXPORTS"),
		Title:        v.GetString("EXPORT_TITLE"),
		CSVDelimiter: firstRune(v.GetString("EXPORT_CSV_DELIMITER"), ','),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	for kind, weight := range models.DefaultWeights() {
		v.SetDefault("GRADE_WEIGHT_"+strings.ToUpper(string(kind)), weight)
	}
	for kind, max := range models.DefaultMaxScores() {
		v.SetDefault("GRADE_MAX_"+strings.ToUpper(string(kind)), max)
	}

	v.SetDefault("ENABLE_METRICS", true)
	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORT_TITLE", "Class Results")
	v.SetDefault("EXPORT_CSV_DELIMITER", ",")
}

func firstRune(raw string, fallback rune) rune {
	for _, r := range raw {
		return r
	}
	return fallback
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
