// Package detect locates the purgeall configuration file: explicit flag,
// environment variable, then well-known names in the working directory
// and a few parents.
package detect

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"purgeall/internal/safety"
)

// Candidate config file names, checked in order per directory.
var candidates = []string{
	"purgeall.yaml",
	".purgeall.yaml",
	filepath.Join("config", "purgeall.yaml"),
}

// maxParentHops bounds the upward directory walk.
const maxParentHops = 3

// Config resolves the configuration path. Resolution order: explicit
// flag → PURGEALL_CONFIG → candidate names in the working directory and
// up to three parents. Empty string when nothing is found.
func Config(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(safety.EnvConfig); p != "" {
		return p
	}
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return SearchUp(dir)
}

// SearchUp looks for a candidate config file in dir and up to
// maxParentHops parents.
func SearchUp(dir string) string {
	for hop := 0; hop <= maxParentHops; hop++ {
		for _, name := range candidates {
			p := filepath.Join(dir, name)
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				return p
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// LoadDotenv loads a .env file next to the detected config file, if one
// exists. Values already present in the environment win.
func LoadDotenv(configPath string) {
	if configPath == "" {
		return
	}
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if _, err := os.Stat(envPath); err != nil {
		return
	}
	_ = godotenv.Load(envPath)
}
