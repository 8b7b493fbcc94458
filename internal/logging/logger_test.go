package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// resetState clears package state and captures console output in buf.
func resetState(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}

	mutex.Lock()
	prevOutput := output
	output = buf
	moduleLoggers = make(map[string]*slog.Logger)
	moduleLevelVars = make(map[string]*slog.LevelVar)
	isInitialized = false
	globalConfig = Config{}
	mutex.Unlock()

	t.Cleanup(func() {
		mutex.Lock()
		output = prevOutput
		mutex.Unlock()
	})
	return buf
}

func TestModuleLevelOverride(t *testing.T) {
	resetState(t)

	Initialize(Config{
		Level:  "info",
		Format: "text",
		Modules: map[string]string{
			"monitor": "debug",
			"alsa":    "warn",
		},
	})

	tests := []struct {
		module    string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"monitor", true, true, true},
		{"alsa", false, false, true},
		{"other", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			handler := GetLogger(tt.module).Handler()

			gotDebug := handler.Enabled(context.Background(), slog.LevelDebug)
			gotInfo := handler.Enabled(context.Background(), slog.LevelInfo)
			gotWarn := handler.Enabled(context.Background(), slog.LevelWarn)

			if gotDebug != tt.wantDebug {
				t.Errorf("module %q: Debug enabled = %v, want %v", tt.module, gotDebug, tt.wantDebug)
			}
			if gotInfo != tt.wantInfo {
				t.Errorf("module %q: Info enabled = %v, want %v", tt.module, gotInfo, tt.wantInfo)
			}
			if gotWarn != tt.wantWarn {
				t.Errorf("module %q: Warn enabled = %v, want %v", tt.module, gotWarn, tt.wantWarn)
			}
		})
	}
}

func TestModuleLoggerOutput(t *testing.T) {
	buf := resetState(t)

	Initialize(Config{Level: "debug", Format: "text"})
	GetLogger("monitor").Debug("devices changed", "inputs", 2)

	out := buf.String()
	if !strings.Contains(out, "devices changed") {
		t.Errorf("Debug message not written. Output: %s", out)
	}
	if !strings.Contains(out, "module=monitor") {
		t.Errorf("Module attribute missing. Output: %s", out)
	}
	if !strings.Contains(out, "inputs=2") {
		t.Errorf("Record attribute missing. Output: %s", out)
	}
}

func TestJSONFormat(t *testing.T) {
	buf := resetState(t)

	Initialize(Config{Level: "info", Format: "json"})
	GetLogger("render").Info("listing written")

	if out := buf.String(); !strings.Contains(out, `"module":"render"`) {
		t.Errorf("Expected JSON output, got %s", out)
	}
}

func TestMultiHandlerDebugOutput(t *testing.T) {
	var buf bytes.Buffer

	debugHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	infoHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	logger := slog.New(NewMultiHandler(debugHandler, infoHandler)).With("module", "test")

	// Only debugHandler accepts it
	logger.Debug("debug only message")

	output := buf.String()
	if count := strings.Count(output, "debug only message"); count != 1 {
		t.Errorf("Expected 1 debug message, got %d. Output: %s", count, output)
	}
	if count := strings.Count(output, "module=test"); count != 1 {
		t.Errorf("Expected attrs propagated once, got %d. Output: %s", count, output)
	}

	logger.Info("info message")
	if count := strings.Count(buf.String(), "info message"); count != 2 {
		t.Errorf("Expected 2 info messages, got %d", count)
	}
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	resetState(t)

	loggerBefore := GetLogger("alsa")
	handlerBefore := loggerBefore.Handler()

	if handlerBefore.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Logger created before Initialize should NOT have debug enabled")
	}

	Initialize(Config{
		Level:   "info",
		Format:  "text",
		Modules: map[string]string{"alsa": "debug"},
	})

	loggerAfter := GetLogger("alsa")
	if !loggerAfter.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Logger after Initialize should have debug enabled")
	}

	// The old handler shares the LevelVar
	if !handlerBefore.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Cached logger should have debug enabled after Initialize updates LevelVar")
	}
}

func TestSetLevels(t *testing.T) {
	resetState(t)

	Initialize(Config{Level: "info", Format: "text"})
	logger := GetLogger("monitor")
	ctx := context.Background()

	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Fatal("Expected debug disabled at info level")
	}

	SetLevels("warn", map[string]string{"monitor": "debug"})
	if !logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("Expected module override to enable debug")
	}
	if other := GetLogger("config"); other.Enabled(ctx, slog.LevelInfo) {
		t.Error("Expected new modules to use the global warn level")
	}
	if !slog.Default().Enabled(ctx, slog.LevelWarn) || slog.Default().Enabled(ctx, slog.LevelInfo) {
		t.Error("Expected default logger at warn")
	}

	SetLevels("error", nil)
	if logger.Enabled(ctx, slog.LevelWarn) {
		t.Error("Expected dropped override to fall back to error")
	}
}

func TestParseLevelValues(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		isNil bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"invalid", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLevel(tt.input)
			if tt.isNil {
				if got != nil {
					t.Errorf("parseLevel(%q) = %v, want nil", tt.input, *got)
				}
				if ValidLevel(tt.input) {
					t.Errorf("ValidLevel(%q) = true, want false", tt.input)
				}
				return
			}
			if got == nil {
				t.Errorf("parseLevel(%q) = nil, want %v", tt.input, tt.want)
			} else if *got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, *got, tt.want)
			}
		})
	}
}

func TestJournalFields(t *testing.T) {
	fields := map[string]string{}
	addAttrToFields(fields, slog.String("backend", "Alsa"), nil)
	addAttrToFields(fields, slog.Int("device-count", 3), nil)
	addAttrToFields(fields, slog.Group("snapshot", slog.Int("inputs", 1)), []string{"_watch"})

	want := map[string]string{
		"BACKEND":               "Alsa",
		"DEVICE_COUNT":          "3",
		"WATCH_SNAPSHOT_INPUTS": "1",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("Expected %s=%q, got %q (fields %v)", k, v, fields[k], fields)
		}
	}

	var level slog.LevelVar
	level.Set(slog.LevelWarn)
	h := NewJournalHandler(&level)
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Expected info disabled at warn")
	}
	level.Set(slog.LevelDebug)
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Expected journal handler to follow LevelVar")
	}
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("journal socket gone")
}

func TestMultiHandlerKeepsGoingOnError(t *testing.T) {
	var buf bytes.Buffer
	console := slog.NewTextHandler(&buf, nil)
	h := NewMultiHandler(failingHandler{console}, nil, console)

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "device added", 0))
	if err == nil || !strings.Contains(err.Error(), "journal socket gone") {
		t.Errorf("Expected joined handler error, got %v", err)
	}
	if !strings.Contains(buf.String(), "device added") {
		t.Errorf("Expected console to receive the record, got %q", buf.String())
	}
}
