// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Synth    SynthConfig    `yaml:"synth" mapstructure:"synth"`
	LandMask LandMaskConfig `yaml:"landmask" mapstructure:"landmask"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SynthConfig configures the coordinate synthesis engine.
type SynthConfig struct {
	MinSamples       int     `yaml:"min_samples" mapstructure:"min_samples"`
	MDSMaxIterations int     `yaml:"mds_max_iterations" mapstructure:"mds_max_iterations"`
	MDSRestarts      int     `yaml:"mds_restarts" mapstructure:"mds_restarts"`
	DistanceFallback float64 `yaml:"distance_fallback" mapstructure:"distance_fallback"`
	UnitGridMargin   float64 `yaml:"unit_grid_margin" mapstructure:"unit_grid_margin"`
	UnitGridNoise    float64 `yaml:"unit_grid_noise" mapstructure:"unit_grid_noise"`
	GeographicNoise  float64 `yaml:"geographic_noise" mapstructure:"geographic_noise"`
	MercatorNoise    float64 `yaml:"mercator_noise" mapstructure:"mercator_noise"`
	LandAttempts     int     `yaml:"land_attempts" mapstructure:"land_attempts"`
	RegionCatalog    string  `yaml:"region_catalog" mapstructure:"region_catalog"`
}

// LandMaskConfig configures the land mask dataset.
type LandMaskConfig struct {
	DataDir     string  `yaml:"data_dir" mapstructure:"data_dir"`
	DownloadURL string  `yaml:"download_url" mapstructure:"download_url"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// StoreConfig configures the run persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ARGPLACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("synth.min_samples", 2)
	v.SetDefault("synth.mds_max_iterations", 1000)
	v.SetDefault("synth.mds_restarts", 4)
	v.SetDefault("synth.distance_fallback", 1000.0)
	v.SetDefault("synth.unit_grid_margin", 0.05)
	v.SetDefault("synth.unit_grid_noise", 0.02)
	v.SetDefault("synth.geographic_noise", 2.0)
	v.SetDefault("synth.mercator_noise", 100000.0)
	v.SetDefault("synth.land_attempts", 40)
	v.SetDefault("landmask.data_dir", "data")
	v.SetDefault("landmask.download_url", "https://naciscdn.org/naturalearth/110m/physical/ne_110m_land.zip")
	v.SetDefault("landmask.rate_per_sec", 2.0)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "argplace.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
