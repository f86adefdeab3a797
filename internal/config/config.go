package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// FilePermissions is the default permission mode for regular files (read/write for owner, read for others)
	FilePermissions = 0644
	// DirPermissions is the default permission mode for directories (rwxr-xr-x)
	DirPermissions = 0755

	// StorageDirName is the per-project storage directory
	StorageDirName = ".perseus"
	// ConfigFileName is the settings file name, both global and per project
	ConfigFileName = "config.toml"
)

// ProjectMarkers are the entries that identify a project root
var ProjectMarkers = []string{".git", "go.mod", "Cargo.toml", "package.json", StorageDirName}

// ErrNoProjectRoot is returned when no project marker is found above the working directory
var ErrNoProjectRoot = errors.New("could not find project root: run from a directory with .git, go.mod, Cargo.toml, package.json, or create a .perseus folder")

var (
	// ConfigDir is the global configuration directory (~/.perseus)
	ConfigDir string

	// DatabasePath is the SQLite database file for send history
	DatabasePath string

	// SessionFile holds per-project session state
	SessionFile string

	// KeybindsFile holds user key binding overrides
	KeybindsFile string

	// LogPath is the rotating log file
	LogPath string

	// GlobalConfigFile is the global settings file
	GlobalConfigFile string
)

// Initialize sets up the global paths and creates ~/.perseus/ if needed
func Initialize() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	return InitializeAt(filepath.Join(homeDir, StorageDirName))
}

// InitializeAt sets up the global paths under dir
func InitializeAt(dir string) error {
	ConfigDir = dir
	DatabasePath = filepath.Join(ConfigDir, "perseus.db")
	SessionFile = filepath.Join(ConfigDir, "sessions.json")
	KeybindsFile = filepath.Join(ConfigDir, "keybinds.json")
	LogPath = filepath.Join(ConfigDir, "perseus.log")
	GlobalConfigFile = filepath.Join(ConfigDir, ConfigFileName)

	if err := os.MkdirAll(ConfigDir, DirPermissions); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", ConfigDir, err)
	}
	return nil
}

// FindProjectRoot walks up from dir until a directory containing one of the
// ProjectMarkers is found
func FindProjectRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	for {
		for _, marker := range ProjectMarkers {
			if _, err := os.Stat(filepath.Join(abs, marker)); err == nil {
				return abs, nil
			}
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNoProjectRoot
		}
		abs = parent
	}
}

// ProjectKey returns the canonical form of a project root, used to key
// per-project session state
func ProjectKey(root string) string {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		return resolved
	}
	return root
}

// StorageDir returns the project storage directory under root
func StorageDir(root string) string {
	return filepath.Join(root, StorageDirName)
}

// EnsureStorageDir creates the project storage directory
func EnsureStorageDir(root string) (string, error) {
	dir := StorageDir(root)
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}
	return dir, nil
}

// ExpandHome expands a leading ~/ to the user's home directory
func ExpandHome(path string) string {
	if path == "~" || (len(path) > 1 && path[0] == '~' && path[1] == '/') {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
