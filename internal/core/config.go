package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NodeOverride is a node-local override file, letting a node supply env
// values and languages outside of the Lua rule DSL. Grounded in the
// teacher's engine/core loader style of small YAML-backed override
// structs layered on top of a richer config object.
type NodeOverride struct {
	Env       map[string]string `yaml:"env"`
	Languages []string          `yaml:"languages"`
}

// LoadConfig reads and decodes a YAML file at path into out. A missing
// file is not an error: out is left untouched and the caller treats
// absence as "no override".
func LoadConfig(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}
