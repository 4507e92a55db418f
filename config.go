package main

import (
	"strings"
	"sync"

	"vivah/pkg/match"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config carries everything read at startup. Values come from config.yaml
// (optional) overridden by environment variables (VIVAH_ADDR, VIVAH_DB_DSN,
// ...); a local .env is loaded first without clobbering the real environment.
type Config struct {
	Addr      string `mapstructure:"addr"`
	DBDSN     string `mapstructure:"db_dsn"`
	JWTSecret string `mapstructure:"jwt_secret"`
	RedisAddr string `mapstructure:"redis_addr"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Search struct {
		DefaultLimit  int `mapstructure:"default_limit"`
		MaxLimit      int `mapstructure:"max_limit"`
		MaxCandidates int `mapstructure:"max_candidates"`
		ScoreCacheTTL int `mapstructure:"score_cache_ttl_seconds"`
	} `mapstructure:"search"`

	RateLimit struct {
		RPS   float64 `mapstructure:"rps"`
		Burst int     `mapstructure:"burst"`
	} `mapstructure:"rate_limit"`

	Weights match.Weights `mapstructure:"weights"`
}

// defaultWeights is the live copy of the configured scoring weights; the
// config watcher swaps it when config.yaml changes so weight tuning does not
// need a restart.
var (
	weightsMu      sync.RWMutex
	defaultWeights = match.UniformWeights()
)

func currentWeights() match.Weights {
	weightsMu.RLock()
	defer weightsMu.RUnlock()
	return defaultWeights
}

func setDefaultWeights(w match.Weights) {
	if w.Age+w.Religion+w.Caste+w.Location+w.Education+w.Profession+w.Height <= 0 {
		w = match.UniformWeights()
	}
	weightsMu.Lock()
	defaultWeights = w
	weightsMu.Unlock()
}

func loadConfig(log *zap.Logger) (*Config, error) {
	// .env never overrides variables already set.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("vivah")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":8081")
	v.SetDefault("db_dsn", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("search.default_limit", 20)
	v.SetDefault("search.max_limit", 100)
	v.SetDefault("search.max_candidates", 500)
	v.SetDefault("search.score_cache_ttl_seconds", 300)
	v.SetDefault("rate_limit.rps", 5)
	v.SetDefault("rate_limit.burst", 10)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	setDefaultWeights(cfg.Weights)

	// Hot-reload the scoring weights when the config file changes.
	v.OnConfigChange(func(e fsnotify.Event) {
		var next Config
		if err := v.Unmarshal(&next); err != nil {
			log.Warn("config reload failed", zap.String("file", e.Name), zap.Error(err))
			return
		}
		setDefaultWeights(next.Weights)
		log.Info("scoring weights reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return &cfg, nil
}
