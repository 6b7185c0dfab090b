package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

const appLocalDataDir = "cuesmith"

type pathManager struct {
	configDir string
	dataDir   string
	stateDir  string
	cacheDir  string
}

var (
	paths     pathManager
	pathsOnce sync.Once
)

func initPaths() {
	pathsOnce.Do(func() {
		paths.dataDir = filepath.Join(xdg.DataHome, appLocalDataDir)
		paths.stateDir = filepath.Join(xdg.StateHome, appLocalDataDir)
		paths.cacheDir = filepath.Join(xdg.CacheHome, appLocalDataDir)
		cfgDir, err := xdg.ConfigFile(appLocalDataDir)
		if err != nil {
			panic(fmt.Sprintf("config: cannot resolve config dir: %v", err))
		}
		paths.configDir = cfgDir

		mustCreateDirectory(paths.configDir, paths.dataDir, paths.stateDir)
	})
}

func mustCreateDirectory(dirs ...string) {
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			_ = os.MkdirAll(dir, 0755)
		}
	}
}

// DefaultConfigFile returns the XDG config path for cuesmith.toml.
func DefaultConfigFile() string {
	initPaths()
	return filepath.Join(paths.configDir, "cuesmith.toml")
}

// DefaultLogDir returns the XDG state directory cuesmith logs into.
func DefaultLogDir() string {
	initPaths()
	return filepath.Join(paths.stateDir, "log")
}

// DefaultCacheDir returns the configured cache dir, or the XDG cache
// directory if the caller left Cache.Dir empty.
func (c *Config) DefaultCacheDir() string {
	if c.Cache.Dir != "" {
		abs, err := filepath.Abs(c.Cache.Dir)
		if err == nil {
			return abs
		}
	}
	initPaths()
	return paths.cacheDir
}
