package platform

import (
	"path/filepath"

	"github.com/zxqfox/enb/internal/core"
	"github.com/zxqfox/enb/internal/enberr"
)

// configDirCandidates, in preference order.
var configDirCandidates = []string{".enb", ".bem"}

// makeFilePrefixes, tried in order for each kind.
var makeFilePrefixes = []string{"enb-", ""}

func getConfigDir(projectDir string) (string, error) {
	for _, candidate := range configDirCandidates {
		dir := filepath.Join(projectDir, candidate)
		if core.Exists(dir) {
			return dir, nil
		}
	}
	return "", enberr.Newf(enberr.ConfigDirNotFound, map[string]any{"projectDir": projectDir},
		"neither .enb nor .bem found under %s", projectDir)
}

// getMakeFile returns the first existing rule file for kind ("make" or
// "make.personal"), or "" if none exists.
func getMakeFile(configDir, kind string) (string, error) {
	for _, prefix := range makeFilePrefixes {
		candidate := filepath.Join(configDir, prefix+kind+".js")
		if core.Exists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}
