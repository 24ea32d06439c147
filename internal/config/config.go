package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Export    ExportConfig    `mapstructure:"export"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
	// Transactions need a replica set. Turn off for a standalone mongod.
	Transactions bool `mapstructure:"transactions"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"` // duration string, e.g. "1h"
}

// PlannerConfig tunes plan generation.
type PlannerConfig struct {
	DefaultScoringAverage float64 `mapstructure:"default_scoring_average"`
	DefaultClubSpeed      string  `mapstructure:"default_club_speed"`
	HistoryDays           int     `mapstructure:"history_days"`
}

type ExportConfig struct {
	URLExpiry time.Duration `mapstructure:"url_expiry"`
}

// SchedulerConfig controls background jobs. PlanRolloverSpec is a cron spec
// with a leading seconds field.
type SchedulerConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	PlanRolloverSpec string `mapstructure:"plan_rollover_spec"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Nested keys map to env vars: planner.history_days -> PLANNER_HISTORY_DAYS
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "golf_coach")
	viper.SetDefault("database.transactions", true)
	viper.SetDefault("s3.endpoint", "")
	viper.SetDefault("s3.region", "us-east-1")
	viper.SetDefault("s3.access_key_id", "")
	viper.SetDefault("s3.secret_access_key", "")
	viper.SetDefault("s3.bucket_name", "golf-coach-exports")
	viper.SetDefault("s3.use_ssl", true)
	viper.SetDefault("jwt.secret", "")
	viper.SetDefault("jwt.expiration", "1h")
	viper.SetDefault("planner.default_scoring_average", 78.0)
	viper.SetDefault("planner.default_club_speed", "CS90")
	viper.SetDefault("planner.history_days", 7)
	viper.SetDefault("export.url_expiry", "15m")
	viper.SetDefault("scheduler.enabled", true)
	viper.SetDefault("scheduler.plan_rollover_spec", "0 30 2 * * *") // 02:30 every night

	err = viper.ReadInConfig()
	// A missing file is fine; defaults and env vars still apply.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
