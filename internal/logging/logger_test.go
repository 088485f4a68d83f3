package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// The logger holds package-level state, so the scenarios run in one test in a
// fixed order.
func TestLogging(t *testing.T) {
	t.Run("no config means no-op", func(t *testing.T) {
		ws := t.TempDir()
		if err := Initialize(ws); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		defer CloseAll()

		Get(CategorySession).Info("should go nowhere")

		if _, err := os.Stat(filepath.Join(ws, ".snooper", "logs")); !os.IsNotExist(err) {
			t.Error("logs directory should not exist without debug mode")
		}
		if IsDebugMode() {
			t.Error("debug mode should be off")
		}
	})

	t.Run("debug mode writes category files", func(t *testing.T) {
		ws := t.TempDir()
		cfgDir := filepath.Join(ws, ".snooper")
		if err := os.MkdirAll(cfgDir, 0755); err != nil {
			t.Fatal(err)
		}
		cfg := `{"logging":{"debug_mode":true,"level":"debug"}}`
		if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte(cfg), 0644); err != nil {
			t.Fatal(err)
		}

		if err := Initialize(ws); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		defer CloseAll()

		Session("hello from the session")
		SandboxDebug("sandbox detail")
		CloseAll()

		date := time.Now().Format("2006-01-02")
		data, err := os.ReadFile(filepath.Join(ws, ".snooper", "logs", date+"_session.log"))
		if err != nil {
			t.Fatalf("session log missing: %v", err)
		}
		if !strings.Contains(string(data), "hello from the session") {
			t.Errorf("log content missing, got: %s", data)
		}
	})

	t.Run("disabled category is a no-op", func(t *testing.T) {
		ws := t.TempDir()
		cfgDir := filepath.Join(ws, ".snooper")
		if err := os.MkdirAll(cfgDir, 0755); err != nil {
			t.Fatal(err)
		}
		cfg := `{"logging":{"debug_mode":true,"categories":{"api":false}}}`
		if err := os.WriteFile(filepath.Join(cfgDir, "config.json"), []byte(cfg), 0644); err != nil {
			t.Fatal(err)
		}

		if err := Initialize(ws); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		defer CloseAll()

		if IsCategoryEnabled(CategoryAPI) {
			t.Error("api category should be disabled")
		}
		if !IsCategoryEnabled(CategorySession) {
			t.Error("unlisted categories default to enabled")
		}

		API("dropped")
		date := time.Now().Format("2006-01-02")
		if _, err := os.Stat(filepath.Join(ws, ".snooper", "logs", date+"_api.log")); !os.IsNotExist(err) {
			t.Error("disabled category must not create a log file")
		}
	})
}
