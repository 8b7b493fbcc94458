package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

// testOptions mirrors the shape of the CLI options struct.
type testOptions struct {
	Config string `help:"Config file path"`

	Backend      string        `toml:"soundnode.backend" env:"BACKEND"`
	Watch        bool          `toml:"soundnode.watch" env:"WATCH"`
	MaxDevices   int           `toml:"soundnode.max_devices" env:"MAX_DEVICES"`
	PollInterval time.Duration `toml:"miniaudio.poll_interval" env:"MINIAUDIO_POLL_INTERVAL"`
	Exclude      []string      `toml:"alsa.exclude" env:"ALSA_EXCLUDE"`

	LoggingLevel string `toml:"logging.level" env:"LOGGING_LEVEL"`
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "soundnode.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

const sampleTOML = `
[soundnode]
backend = "Alsa"
watch = true
max_devices = 16

[miniaudio]
poll_interval = "750ms"

[alsa]
exclude = ["hw:CARD=HDMI,DEV=3", "hw:CARD=Loopback,DEV=0"]

[logging]
level = "debug"
`

func TestLoadConfigFromTOML(t *testing.T) {
	opts := &testOptions{Config: writeTempConfig(t, sampleTOML)}

	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.Backend != "Alsa" {
		t.Errorf("Expected Backend to be 'Alsa', got '%s'", opts.Backend)
	}
	if !opts.Watch {
		t.Errorf("Expected Watch to be true")
	}
	if opts.MaxDevices != 16 {
		t.Errorf("Expected MaxDevices to be 16, got %d", opts.MaxDevices)
	}
	if opts.PollInterval != 750*time.Millisecond {
		t.Errorf("Expected PollInterval to be 750ms, got %s", opts.PollInterval)
	}
	expected := []string{"hw:CARD=HDMI,DEV=3", "hw:CARD=Loopback,DEV=0"}
	if !reflect.DeepEqual(opts.Exclude, expected) {
		t.Errorf("Expected Exclude to be %v, got %v", expected, opts.Exclude)
	}
	if opts.LoggingLevel != "debug" {
		t.Errorf("Expected LoggingLevel to be 'debug', got '%s'", opts.LoggingLevel)
	}
}

func TestLoadConfigFromEnvVars(t *testing.T) {
	t.Setenv("SOUNDNODE_BACKEND", "PulseAudio")
	t.Setenv("SOUNDNODE_WATCH", "true")
	t.Setenv("SOUNDNODE_MAX_DEVICES", "4")
	t.Setenv("SOUNDNODE_MINIAUDIO_POLL_INTERVAL", "5s")
	t.Setenv("SOUNDNODE_ALSA_EXCLUDE", " a , b ")

	opts := &testOptions{}
	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if opts.Backend != "PulseAudio" {
		t.Errorf("Expected Backend to be 'PulseAudio', got '%s'", opts.Backend)
	}
	if !opts.Watch {
		t.Errorf("Expected Watch to be true")
	}
	if opts.MaxDevices != 4 {
		t.Errorf("Expected MaxDevices to be 4, got %d", opts.MaxDevices)
	}
	if opts.PollInterval != 5*time.Second {
		t.Errorf("Expected PollInterval to be 5s, got %s", opts.PollInterval)
	}
	if !reflect.DeepEqual(opts.Exclude, []string{"a", "b"}) {
		t.Errorf("Expected Exclude to be [a b], got %v", opts.Exclude)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	t.Setenv("SOUNDNODE_BACKEND", "Jack")
	t.Setenv("SOUNDNODE_LOGGING_LEVEL", "warn")

	cmd := &cobra.Command{Use: "soundnode"}
	cmd.Flags().String("logging-level", "info", "")
	cmd.Flags().String("backend", "", "")
	if err := cmd.Flags().Set("logging-level", "error"); err != nil {
		t.Fatal(err)
	}

	opts := &testOptions{
		Config:       writeTempConfig(t, sampleTOML),
		LoggingLevel: "error",
	}
	if err := LoadConfig(opts, cmd); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	// env beats TOML
	if opts.Backend != "Jack" {
		t.Errorf("Expected env Backend 'Jack', got '%s'", opts.Backend)
	}
	// CLI beats env and TOML
	if opts.LoggingLevel != "error" {
		t.Errorf("Expected CLI LoggingLevel 'error', got '%s'", opts.LoggingLevel)
	}
	// TOML fills what nothing else set
	if opts.MaxDevices != 16 {
		t.Errorf("Expected TOML MaxDevices 16, got %d", opts.MaxDevices)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		env  string
	}{
		{"invalid TOML", "[soundnode\ninvalid toml syntax\n", ""},
		{"bad duration in TOML", "[miniaudio]\npoll_interval = \"soon\"\n", ""},
		{"bad int in env", "", "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env != "" {
				t.Setenv("SOUNDNODE_MAX_DEVICES", tt.env)
			}
			opts := &testOptions{Config: writeTempConfig(t, tt.toml)}
			if err := LoadConfig(opts, nil); err == nil {
				t.Fatal("Expected LoadConfig to fail")
			}
		})
	}

	if err := LoadConfig(testOptions{}, nil); err == nil {
		t.Error("Expected error for non-pointer options")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	opts := &testOptions{
		Config:  filepath.Join(t.TempDir(), "nonexistent.toml"),
		Backend: "Dummy",
	}

	if err := LoadConfig(opts, nil); err != nil {
		t.Fatalf("LoadConfig should not fail for missing file: %v", err)
	}
	if opts.Backend != "Dummy" {
		t.Errorf("Expected default to survive, got '%s'", opts.Backend)
	}
}

func TestGetNestedValue(t *testing.T) {
	data := map[string]any{
		"soundnode": map[string]any{"backend": "Alsa"},
		"flat":      "value",
	}

	tests := []struct {
		path string
		want any
	}{
		{"soundnode.backend", "Alsa"},
		{"flat", "value"},
		{"soundnode.missing", nil},
		{"flat.deeper", nil},
		{"missing.key", nil},
	}

	for _, tt := range tests {
		if got := getNestedValue(data, tt.path); got != tt.want {
			t.Errorf("getNestedValue(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFieldNameToFlag(t *testing.T) {
	tests := map[string]string{
		"Backend":      "backend",
		"MetricsAddr":  "metrics-addr",
		"LoggingLevel": "logging-level",
	}
	for in, want := range tests {
		if got := fieldNameToFlag(in); got != want {
			t.Errorf("fieldNameToFlag(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadLoggingConfig(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantLevel   string
		wantFormat  string
		wantModules map[string]string
		wantErr     bool
	}{
		{
			name:        "flat module levels",
			content:     "[logging]\nlevel = \"warn\"\nformat = \"json\"\nalsa = \"debug\"\n",
			wantLevel:   "warn",
			wantFormat:  "json",
			wantModules: map[string]string{"alsa": "debug"},
		},
		{
			name:        "modules table",
			content:     "[logging]\nlevel = \"debug\"\n\n[logging.modules]\nmonitor = \"error\"\nmetrics = \"warn\"\n",
			wantLevel:   "debug",
			wantFormat:  "text",
			wantModules: map[string]string{"monitor": "error", "metrics": "warn"},
		},
		{
			name:        "no logging table",
			content:     "[soundnode]\nbackend = \"Alsa\"\n",
			wantLevel:   "info",
			wantFormat:  "text",
			wantModules: map[string]string{},
		},
		{
			name:    "invalid level",
			content: "[logging]\nlevel = \"loud\"\n",
			wantErr: true,
		},
		{
			name:    "invalid TOML",
			content: "[logging\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ReadLoggingConfig(writeTempConfig(t, tt.content))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadLoggingConfig failed: %v", err)
			}
			if cfg.Level != tt.wantLevel || cfg.Format != tt.wantFormat {
				t.Errorf("Expected %s/%s, got %s/%s", tt.wantLevel, tt.wantFormat, cfg.Level, cfg.Format)
			}
			if !reflect.DeepEqual(cfg.Modules, tt.wantModules) {
				t.Errorf("Expected modules %v, got %v", tt.wantModules, cfg.Modules)
			}
		})
	}

	cfg, err := ReadLoggingConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil || cfg.Level != "info" {
		t.Errorf("Expected defaults for missing file, got %+v, %v", cfg, err)
	}
}
