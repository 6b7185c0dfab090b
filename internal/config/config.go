// Package config is the validated key/value settings store consumed by
// the Aggregator, RipEngine, Sinks and the filename formatter. Struct
// defaults are loaded first, then a TOML file overlaid on top, decoded
// through mapstructure.
package config

import "time"

// Config is the root of every setting a rip session reads, plus the
// ambient output/cache sections every complete rip pipeline needs.
type Config struct {
	General   GeneralConfig   `koanf:"general"`
	Rems      RemsConfig      `koanf:"rems"`
	Output    OutputConfig    `koanf:"output"`
	Cache     CacheConfig     `koanf:"cache"`
	Providers ProvidersConfig `koanf:"providers"`
}

// GeneralConfig holds the session-wide "General.*" settings.
type GeneralConfig struct {
	FileFormat      string   `koanf:"file_format"` // only "lossless-packed" is currently valid
	SkipTrackOnePreGap bool  `koanf:"skip_track_one_pregap"`
	DatabasePreferenceList []string `koanf:"database_preference_list"`
	CoverArt               bool     `koanf:"cover_art"`
	CoverArtPreferredSize  int      `koanf:"cover_art_preferred_size"` // pixels; <=0 means "largest available"
	ShowNotification       bool     `koanf:"show_notification"`
	SkipUnknownDisc        bool     `koanf:"skip_unknown_disc"`
	// ContinueOnProviderError controls whether the Aggregator keeps
	// walking the remaining providers after one fails, or stops the
	// session on the first provider error.
	ContinueOnProviderError bool `koanf:"continue_on_provider_error"`
}

// RemsConfig holds one toggle per optional REM field the caller may
// want materialised into the merged cue sheet.
type RemsConfig struct {
	DBINFO  bool `koanf:"dbinfo"`
	DATE    bool `koanf:"date"`
	LABEL   bool `koanf:"label"`
	COUNTRY bool `koanf:"country"`
	UPC     bool `koanf:"upc"`
	ASIN    bool `koanf:"asin"`
}

// OutputConfig is ambient: where ripped files land and how they're named.
type OutputConfig struct {
	Dir      string `koanf:"dir"`
	Template string `koanf:"template"`
}

// CacheConfig is ambient: the bbolt-backed provider response cache.
type CacheConfig struct {
	Dir string        `koanf:"dir"`
	TTL time.Duration `koanf:"ttl"`
}

// ProvidersConfig carries the per-session network timeout (zero means
// reuse the previous timeout), plus the last.fm
// credentials the hub provider needs since lastfm_go.Api takes them at
// construction rather than per-call.
type ProvidersConfig struct {
	TimeoutSeconds  int    `koanf:"timeout_seconds"`
	LastFMAPIKey    string `koanf:"lastfm_api_key"`
	LastFMAPISecret string `koanf:"lastfm_api_secret"`
}
