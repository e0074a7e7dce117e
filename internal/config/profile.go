package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const SupportedSchema = "v1"

// Profile describes one steady-view deployment: where the stabilization
// service lives (gRPC target for the binding), which driver delivers its
// broadcast samples, and which consumer drivers to attach.
type Profile struct {
	SchemaVersion string `yaml:"schema_version"`

	Service struct {
		Target    string `yaml:"target"`
		TimeoutMS int    `yaml:"timeout_ms"`
	} `yaml:"service"`

	Source struct {
		Kind   string `yaml:"kind"`   // "kafka" | "memory"
		Driver string `yaml:"driver"` // e.g. "sarama"
		Config string `yaml:"config"` // path to the driver config, may be relative
	} `yaml:"source"`

	Consumers []string `yaml:"consumers"`

	Debug struct {
		PrintRaw  bool `yaml:"print_raw"`
		PrintMeta bool `yaml:"print_meta"`
	} `yaml:"debug"`
}

// LoadProfile parses a profile YAML, validates schema_version, and
// returns the parsed profile and an absolute path to the source config
// (if set).
func LoadProfile(path string) (Profile, string, error) {
	var prof Profile
	raw, err := os.ReadFile(path)
	if err != nil {
		return prof, "", err
	}
	if err := yaml.Unmarshal(raw, &prof); err != nil {
		return prof, "", err
	}
	if prof.SchemaVersion == "" {
		prof.SchemaVersion = SupportedSchema
	}
	if prof.SchemaVersion != SupportedSchema {
		return prof, "", fmt.Errorf("profile schema_version %q not supported (want %q)", prof.SchemaVersion, SupportedSchema)
	}
	confPath := prof.Source.Config
	if confPath != "" && !filepath.IsAbs(confPath) {
		confPath = filepath.Join(filepath.Dir(path), confPath)
	}
	return prof, confPath, nil
}
