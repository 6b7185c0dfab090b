package config

import "fmt"

// Validate rejects a Config that could not have come from a well-formed
// TOML file: an unknown FileFormat, an empty preference list, or a
// negative timeout. CoverArtPreferredSize has no lower bound check
// because <=0 is the documented "largest available" sentinel.
func (c *Config) Validate() error {
	switch c.General.FileFormat {
	case "lossless-packed":
	default:
		return fmt.Errorf("config: general.file_format %q is not a supported sink variant", c.General.FileFormat)
	}

	if len(c.General.DatabasePreferenceList) == 0 {
		return fmt.Errorf("config: general.database_preference_list must not be empty")
	}
	seen := make(map[string]bool, len(c.General.DatabasePreferenceList))
	for _, id := range c.General.DatabasePreferenceList {
		if id == "" {
			return fmt.Errorf("config: general.database_preference_list contains an empty provider id")
		}
		if seen[id] {
			return fmt.Errorf("config: general.database_preference_list duplicates provider id %q", id)
		}
		seen[id] = true
	}

	if c.Providers.TimeoutSeconds < 0 {
		return fmt.Errorf("config: providers.timeout_seconds must be >= 0 (0 reuses the previous timeout)")
	}

	return nil
}
