package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"orcaScanner/internal/alerts"
)

// LoadCadenceProfile reads the operator cadence profile. A missing file yields
// the default profile; fields absent from the file keep their defaults.
func LoadCadenceProfile(path string) (alerts.Profile, bool, error) {
	profile := alerts.DefaultProfile()
	if path == "" {
		return profile, false, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return profile, false, nil
		}
		return alerts.Profile{}, false, fmt.Errorf("read cadence profile: %w", err)
	}
	if err := yaml.Unmarshal(raw, &profile); err != nil {
		return alerts.Profile{}, false, fmt.Errorf("parse cadence profile: %w", err)
	}
	if profile.WarnEdgePct <= 0 || profile.ActEdgePct <= 0 {
		return alerts.Profile{}, false, fmt.Errorf("cadence profile %q: edge thresholds must be positive", profile.Name)
	}
	if profile.ActEdgePct > profile.WarnEdgePct {
		return alerts.Profile{}, false, fmt.Errorf("cadence profile %q: actEdgePct above warnEdgePct", profile.Name)
	}
	return profile, true, nil
}
