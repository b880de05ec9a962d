package config

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// BakeSettings are the process-wide bake parameters. They are set once
// at startup (flags, optionally a yaml file) and read by the library
// and the web handlers.
type BakeSettings struct {
	AtlasSize    int  `yaml:"atlas_size"`
	BakeTangents bool `yaml:"bake_tangents"`
	Workers      int  `yaml:"workers"`
}

var bakeSettings = DefaultBakeSettings()

func DefaultBakeSettings() BakeSettings {
	return BakeSettings{
		AtlasSize:    16,
		BakeTangents: false,
		Workers:      runtime.NumCPU(),
	}
}

func GetBakeSettings() BakeSettings {
	return bakeSettings
}

func SetBakeSettings(s BakeSettings) error {
	if s.AtlasSize <= 0 {
		return errors.Errorf("Invalid atlas size %d", s.AtlasSize)
	}
	if s.Workers <= 0 {
		s.Workers = runtime.NumCPU()
	}
	bakeSettings = s
	return nil
}

// LoadBakeSettings merges a yaml settings file over the current
// settings. Missing fields keep their values.
func LoadBakeSettings(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to read settings %q", path)
	}
	s := bakeSettings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return errors.Wrapf(err, "Failed to parse settings %q", path)
	}
	return SetBakeSettings(s)
}
