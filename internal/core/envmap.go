package core

import (
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
)

// EnvMap is a string-to-string environment value mapping, used both for
// the platform's own env snapshot and a node's layered env defaults.
type EnvMap map[string]string

// NewEnvFromFile reads a ".env" file rooted at dir; a missing file yields
// an empty, non-nil map rather than an error.
func NewEnvFromFile(dir string) (EnvMap, error) {
	envPath := filepath.Join(dir, ".env")
	values, err := godotenv.Read(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(EnvMap), nil
		}
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	return EnvMap(values), nil
}

// Merge returns a new map combining e with other, with other's values
// taking precedence.
func (e EnvMap) Merge(other EnvMap) (EnvMap, error) {
	result := make(EnvMap, len(e))
	for k, v := range e {
		result[k] = v
	}
	if err := mergo.Merge(&result, other, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge env: %w", err)
	}
	return result, nil
}

func (e EnvMap) Get(key string) string {
	if e == nil {
		return ""
	}
	return e[key]
}

// MergeEnvs layers any number of environment maps left to right, later maps
// winning. Nil maps are treated as empty.
func MergeEnvs(envs ...EnvMap) (EnvMap, error) {
	result := make(EnvMap)
	for _, env := range envs {
		merged, err := result.Merge(env)
		if err != nil {
			return nil, fmt.Errorf("failed to merge environments: %w", err)
		}
		result = merged
	}
	return result, nil
}
