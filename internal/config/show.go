package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Report sections understood by the show command.
var ShowSections = []string{"regime", "ranked", "shortlist", "plans", "allocation", "alerts", "summary"}

// ShowConfig holds configuration for the show and assert-outputs commands.
type ShowConfig struct {
	OutDir   string
	Sections []string
	Top      int
	LogLevel string
}

// LoadShow merges .env, config file, environment variables, and flags into ShowConfig.
func LoadShow(cfgFile string, flags *pflag.FlagSet) (ShowConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("out-dir", defaultOutDir)
		v.SetDefault("top", 10)
		v.SetDefault("log-level", "info")
	})
	if err != nil {
		return ShowConfig{}, err
	}

	cfg := ShowConfig{
		OutDir:   v.GetString("out-dir"),
		Sections: getStringSlice(v, "sections"),
		Top:      v.GetInt("top"),
		LogLevel: v.GetString("log-level"),
	}
	if len(cfg.Sections) == 0 {
		cfg.Sections = append([]string(nil), ShowSections...)
	}
	for i, s := range cfg.Sections {
		s = strings.ToLower(s)
		if !knownSection(s) {
			return ShowConfig{}, fmt.Errorf("unknown section %q", s)
		}
		cfg.Sections[i] = s
	}
	return cfg, nil
}

func knownSection(s string) bool {
	for _, k := range ShowSections {
		if k == s {
			return true
		}
	}
	return false
}
