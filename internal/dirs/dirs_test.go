package dirs

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestXDGDirsOnLinux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout only applies on linux")
	}
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))

	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{name: "config", fn: ConfigDir, want: filepath.Join(base, "config", "tubefetch")},
		{name: "data", fn: DataDir, want: filepath.Join(base, "data", "tubefetch")},
		{name: "state", fn: StateDir, want: filepath.Join(base, "state", "tubefetch")},
		{name: "history", fn: HistoryPath, want: filepath.Join(base, "data", "tubefetch", "history.db")},
		{name: "log", fn: LogPath, want: filepath.Join(base, "state", "tubefetch", "tubefetch.log")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			if err != nil {
				t.Fatalf("%s() unexpected error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("%s() = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestXDGFallbackToHome(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout only applies on linux")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() unexpected error: %v", err)
	}
	if want := filepath.Join(home, ".config", "tubefetch"); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestEnsureAll(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout only applies on linux")
	}
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "c"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "d"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "s"))

	if err := EnsureAll(); err != nil {
		t.Fatalf("EnsureAll() unexpected error: %v", err)
	}
	if err := Ensure(""); err == nil {
		t.Error("Ensure(\"\") expected error, got nil")
	}
}
