package taxonomy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a taxonomy definition from a YAML file and constructs a
// registry from it.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse constructs a registry from YAML definition bytes.
func Parse(data []byte) (*Registry, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing taxonomy definition: %w", err)
	}
	return New(def)
}
