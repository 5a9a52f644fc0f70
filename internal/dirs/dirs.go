package dirs

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "tubefetch"

// AppName returns the canonical application name for directory paths.
func AppName() string {
	return appName
}

// xdgDir resolves an XDG base directory on Linux: $env/tubefetch, else
// ~/<fallback...>/tubefetch.
func xdgDir(env string, fallback ...string) (string, error) {
	if xdg := os.Getenv(env); xdg != "" {
		return filepath.Join(xdg, AppName()), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, fallback...)
	return filepath.Join(append(parts, AppName())...), nil
}

// ConfigDir returns the app's configuration directory.
// - Linux: $XDG_CONFIG_HOME/tubefetch or ~/.config/tubefetch
// - macOS: ~/Library/Application Support/tubefetch
// - Windows: %AppData%/tubefetch
func ConfigDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		return macSupportDir()
	case "linux":
		return xdgDir("XDG_CONFIG_HOME", ".config")
	default:
		cfg, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cfg, AppName()), nil
	}
}

// DataDir returns the app's data directory (history database).
// - Linux: $XDG_DATA_HOME/tubefetch or ~/.local/share/tubefetch
// - macOS and Windows: same as ConfigDir
func DataDir() (string, error) {
	if runtime.GOOS == "linux" {
		return xdgDir("XDG_DATA_HOME", ".local", "share")
	}
	return ConfigDir()
}

// StateDir returns the app's state directory (logs).
// - Linux: $XDG_STATE_HOME/tubefetch or ~/.local/state/tubefetch
// - macOS: ~/Library/Application Support/tubefetch/state
// - Windows: %LocalAppData%/tubefetch/state (fallback to ConfigDir/state)
func StateDir() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		d, err := macSupportDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(d, "state"), nil
	case "linux":
		return xdgDir("XDG_STATE_HOME", ".local", "state")
	default:
		if la := os.Getenv("LOCALAPPDATA"); la != "" {
			return filepath.Join(la, AppName(), "state"), nil
		}
		cfg, err := ConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(cfg, "state"), nil
	}
}

func macSupportDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "Application Support", AppName()), nil
}

// HistoryPath returns the default download history database path.
func HistoryPath() (string, error) {
	d, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "history.db"), nil
}

// LogPath returns the default log file path.
func LogPath() (string, error) {
	d, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, AppName()+".log"), nil
}

// Ensure creates the directory if it doesn't exist.
func Ensure(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}

// EnsureAll ensures config, data, and state dirs exist.
func EnsureAll() error {
	for _, fn := range []func() (string, error){ConfigDir, DataDir, StateDir} {
		p, err := fn()
		if err != nil {
			continue
		}
		if err := Ensure(p); err != nil {
			return err
		}
	}
	return nil
}
