package ignore

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// defaultsYAML embeds the always-applied pattern set.
//
//go:embed defaults.yaml
var defaultsYAML []byte

// Defaults is the parsed form of defaults.yaml.
type Defaults struct {
	Patterns    []string `yaml:"patterns"`
	IgnoreFiles []string `yaml:"ignore_files"`
}

var (
	defaultsOnce sync.Once
	defaults     Defaults
	defaultsErr  error
)

// LoadDefaults returns the embedded default patterns.
func LoadDefaults() (Defaults, error) {
	defaultsOnce.Do(func() {
		if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
			defaultsErr = fmt.Errorf("parsing embedded ignore defaults: %w", err)
		}
	})
	return defaults, defaultsErr
}
