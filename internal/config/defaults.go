package config

// Default provider ids, in priority order.
const (
	ProviderPrimary   = "primary"
	ProviderHub       = "hub"
	ProviderFreedb    = "freedb-like"
	ProviderImages    = "images"
)

// NewDefault returns the lowest-priority layer of configuration: every
// field at its documented default, before any TOML file is overlaid.
func NewDefault() *Config {
	return &Config{
		General: GeneralConfig{
			FileFormat:              "lossless-packed",
			SkipTrackOnePreGap:      true,
			DatabasePreferenceList:  []string{ProviderPrimary, ProviderHub, ProviderFreedb, ProviderImages},
			CoverArt:                true,
			CoverArtPreferredSize:   300,
			ShowNotification:        true,
			SkipUnknownDisc:         true,
			ContinueOnProviderError: true,
		},
		Rems: RemsConfig{
			DBINFO:  true,
			DATE:    true,
			LABEL:   true,
			COUNTRY: true,
			UPC:     true,
			ASIN:    true,
		},
		Output: OutputConfig{
			Dir:      ".",
			Template: "[%album artist% - ]%album%['['%disc%']']",
		},
		Cache: CacheConfig{
			Dir: "",
		},
		Providers: ProvidersConfig{
			TimeoutSeconds: 15,
		},
	}
}
