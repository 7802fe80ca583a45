package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Build   BuildConfig   `yaml:"build"`
	Store   StoreConfig   `yaml:"store"`
	Resolve ResolveConfig `yaml:"resolve"`
	Log     LogConfig     `yaml:"log"`
}

// BuildConfig holds pipeline settings for a full dictionary rebuild.
type BuildConfig struct {
	TriePath string `yaml:"trie_path" env:"BUILD_TRIE_PATH"`
	TxtPath  string `yaml:"txt_path"  env:"BUILD_TXT_PATH"`
	// Strict aborts a key on its first invalid morphology value instead of
	// keeping the value and recording a warning.
	Strict bool `yaml:"strict"  env:"BUILD_STRICT"`
	DryRun bool `yaml:"dry_run" env:"BUILD_DRY_RUN"`
}

// StoreConfig holds storage engine settings.
type StoreConfig struct {
	// Path is the live database file; rebuilds write next to it and swap
	// atomically.
	Path string `yaml:"path" env:"STORE_PATH" env-default:"stress.db"`
	// SampleSize is how many entries the exporter serializes to estimate
	// the mean record size when pre-computing the map size.
	SampleSize int `yaml:"sample_size" env:"STORE_SAMPLE_SIZE" env-default:"1000"`
	// OverheadFactor covers the store's internal page/B-tree overhead.
	OverheadFactor float64 `yaml:"overhead_factor" env:"STORE_OVERHEAD_FACTOR" env-default:"1.3"`
	// SafetyFactor guards against sample estimation error.
	SafetyFactor float64 `yaml:"safety_factor" env:"STORE_SAFETY_FACTOR" env-default:"1.2"`
}

// ResolveConfig holds resolution engine settings.
type ResolveConfig struct {
	// PredictTimeout bounds the external stress-prediction call on a
	// dictionary miss; past it the resolver reports "no stress known"
	// rather than hang.
	PredictTimeout time.Duration `yaml:"predict_timeout" env:"RESOLVE_PREDICT_TIMEOUT" env-default:"2s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
