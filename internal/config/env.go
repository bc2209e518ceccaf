package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// ProjectEnvFile is the per-directory env file name.
const ProjectEnvFile = ".lifeline.env"

// LoadEnvFiles loads env files into the process environment.
// Load order (later wins): global (~/.config/lifeline/env), then project (.lifeline.env).
// Variables already present in the environment are never overwritten.
func LoadEnvFiles() {
	loadEnvFiles(GlobalEnvPath(), ProjectEnvFile)
}

func loadEnvFiles(paths ...string) {
	origKeys := make(map[string]bool)
	for _, entry := range os.Environ() {
		if k, _, ok := strings.Cut(entry, "="); ok {
			origKeys[k] = true
		}
	}

	merged := make(map[string]string)
	for _, p := range paths {
		mergeEnvFile(merged, p)
	}

	for k, v := range merged {
		if !origKeys[k] {
			_ = os.Setenv(k, v)
		}
	}
}

// mergeEnvFile reads a dotenv file into dst. Missing or malformed files are skipped.
func mergeEnvFile(dst map[string]string, path string) {
	envs, err := godotenv.Read(path)
	if err != nil {
		return
	}
	for k, v := range envs {
		dst[k] = v
	}
}

// ParseEnvFile parses dotenv-formatted data.
func ParseEnvFile(data []byte) (map[string]string, error) {
	return godotenv.UnmarshalBytes(data)
}

// GlobalEnvPath returns the path to the global lifeline env file.
func GlobalEnvPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "lifeline", "env")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "lifeline", "env")
}
