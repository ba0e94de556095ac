package logger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"jenkinsrun/internal/logger"
)

func TestLogger_Init(t *testing.T) {
	levels := []string{"debug", "info", "warn", "error", "invalid"}

	for _, level := range levels {
		t.Run("Level_"+level, func(t *testing.T) {
			logger.Init(level, "json")
			if logger.Get() == nil {
				t.Error("Logger not initialized")
			}
		})
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, "info", "json")

	logger.Info("Build launched", "job", "deploy")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected a JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "Build launched" || entry["job"] != "deploy" {
		t.Errorf("Unexpected log entry %v", entry)
	}
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, "info", "text")

	logger.With("job", "deploy").Info("Build discovered", "build_id", "42")

	line := buf.String()
	if !strings.Contains(line, "job=deploy") || !strings.Contains(line, "build_id=42") {
		t.Errorf("Unexpected text log line %q", line)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, "warn", "json")

	logger.Debug("test debug message")
	logger.Info("test info message")
	if buf.Len() != 0 {
		t.Errorf("Expected debug and info to be filtered, got %q", buf.String())
	}

	logger.Warn("test warn message")
	logger.Error("test error message")
	if got := strings.Count(buf.String(), "\n"); got != 2 {
		t.Errorf("Expected 2 log lines, got %d", got)
	}
}

func TestLogger_InvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, "invalid-level", "json")

	logger.Debug("filtered")
	logger.Info("test message after invalid level init")

	if strings.Contains(buf.String(), "filtered") {
		t.Error("Invalid level should default to info")
	}
	if !strings.Contains(buf.String(), "test message after invalid level init") {
		t.Error("Info message should be logged")
	}
}
