// Package config loads server and planner settings from the environment.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Port            string   `mapstructure:"PORT"`
	DBPath          string   `mapstructure:"DB_PATH" validate:"required"`
	LogLevel        string   `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat       string   `mapstructure:"LOG_FORMAT" validate:"oneof=json console"`
	CORSOrigins     []string `mapstructure:"CORS_ORIGINS"`
	MCTSIterations  int      `mapstructure:"MCTS_ITERATIONS" validate:"gt=0"`
	MCTSDiscount    float64  `mapstructure:"MCTS_DISCOUNT" validate:"gte=0,lte=1"`
	MCTSParallelism int      `mapstructure:"MCTS_PARALLELISM" validate:"gt=0"`
	Suggestions     int      `mapstructure:"SUGGESTIONS" validate:"gt=0"`
	Seed            uint64   `mapstructure:"SEED"`
	DemoHospital    bool     `mapstructure:"DEMO_HOSPITAL"`
}

var keys = []string{
	"PORT", "DB_PATH", "LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGINS",
	"MCTS_ITERATIONS", "MCTS_DISCOUNT", "MCTS_PARALLELISM",
	"SUGGESTIONS", "SEED", "DEMO_HOSPITAL",
}

// Load reads the configuration from environment variables and an optional
// .env file in the working directory.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_PATH", "beds.db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("MCTS_ITERATIONS", 100)
	v.SetDefault("MCTS_DISCOUNT", 0.9)
	v.SetDefault("MCTS_PARALLELISM", 1)
	v.SetDefault("SUGGESTIONS", 5)
	v.SetDefault("SEED", 0)
	v.SetDefault("DEMO_HOSPITAL", false)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if origins := v.GetString("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	return cfg, nil
}

var validate = validator.New()

// Validate checks that the planner settings are usable.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: %q fails %s=%s", envKey(c, fe.StructField()), fmt.Sprint(fe.Value()), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// envKey maps a struct field back to its environment variable name.
func envKey(c *Config, field string) string {
	if f, ok := reflect.TypeOf(*c).FieldByName(field); ok {
		if key := f.Tag.Get("mapstructure"); key != "" {
			return key
		}
	}
	return field
}

// RandSeed returns Seed, or a time-derived seed when Seed is 0.
func (c *Config) RandSeed() uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(time.Now().UnixNano())
}
