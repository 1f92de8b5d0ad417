package cmd

import (
	"bytes"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/clinicsim/clinicsim/sim"
)

// Profile describes one named clinic preset in a defaults YAML file.
// Zero-valued fields leave the corresponding flag/config value untouched.
type Profile struct {
	Slots             int      `yaml:"slots"`
	Days              int      `yaml:"days"`
	Iterations        int      `yaml:"iterations"`
	FlexRate          float64  `yaml:"flex_rate"`
	PreferenceBreadth int      `yaml:"preference_breadth"`
	DefaultCancelRate float64  `yaml:"default_cancel_rate"`
	DefaultNoShowRate float64  `yaml:"default_no_show_rate"`
	SlotLabels        []string `yaml:"slot_labels"`
}

// DefaultsConfig represents the full defaults file structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type DefaultsConfig struct {
	Version  string             `yaml:"version"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// loadDefaultsConfig parses a clinic profiles YAML file.
// Uses strict field checking: typos must cause errors, not silent defaults.
func loadDefaultsConfig(path string) DefaultsConfig {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Fatalf("Failed to read defaults file: %v", err)
	}
	var cfg DefaultsConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		logrus.Fatalf("Failed to parse defaults YAML: %v", err)
	}
	return cfg
}

// applyProfile overlays the named profile from the defaults file onto cfg.
func applyProfile(cfg *sim.SimConfig, path, name string) {
	defaults := loadDefaultsConfig(path)
	profile, ok := defaults.Profiles[name]
	if !ok {
		logrus.Fatalf("Profile %q not found in %s", name, path)
	}
	overlayProfile(cfg, profile)
	logrus.Infof("Applied profile %q from %s", name, path)
}

// overlayProfile copies the profile's non-zero fields into cfg.
func overlayProfile(cfg *sim.SimConfig, p Profile) {
	if p.Slots > 0 {
		cfg.NumSlots = p.Slots
	}
	if p.Days > 0 {
		cfg.NumDays = p.Days
	}
	if p.Iterations > 0 {
		cfg.NumIters = p.Iterations
	}
	if p.FlexRate > 0 {
		cfg.FlexRate = p.FlexRate
	}
	if p.PreferenceBreadth > 0 {
		cfg.PreferenceBreadth = p.PreferenceBreadth
	}
	if p.DefaultCancelRate > 0 {
		cfg.DefaultCancelRate = p.DefaultCancelRate
	}
	if p.DefaultNoShowRate > 0 {
		cfg.DefaultNoShowRate = p.DefaultNoShowRate
	}
	if len(p.SlotLabels) > 0 {
		cfg.SlotLabels = p.SlotLabels
	}
}
