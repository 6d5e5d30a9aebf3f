package commandbridge

import (
	"strings"

	"github.com/fieldside/sideline/internal/config"
)

// SettingsFromConfig builds Settings from the .sideline config plus
// SIDELINE_BRIDGE_* environment overrides.
func SettingsFromConfig(cfg *config.Config) Settings {
	settings := DefaultSettings()
	if cfg != nil {
		raw := cfg.Project.Bridge
		if raw.Enabled != nil {
			settings.Enabled = *raw.Enabled
		}
		if host := strings.TrimSpace(raw.Host); host != "" {
			settings.Host = host
		}
		if isValidPort(raw.Port) {
			settings.Port = raw.Port
		}
	}
	settings.ApplyEnvOverrides()
	return settings
}
