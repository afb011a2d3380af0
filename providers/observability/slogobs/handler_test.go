package slogobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestHandler_Compact(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&HandlerOptions{Format: FormatCompact, Level: slog.LevelDebug, Output: &buf}))

	logger.Info("pipeline finished", slog.String("pipeline.strategy", "marker"))

	output := buf.String()
	if !strings.Contains(output, " INFO pipeline finished → ") {
		t.Errorf("compact output missing level/message: %q", output)
	}
	if !strings.Contains(output, `{"pipeline.strategy":"marker"}`) {
		t.Errorf("compact output missing attributes: %q", output)
	}
	if !strings.HasSuffix(output, "\n") {
		t.Errorf("compact output should end with newline: %q", output)
	}
}

func TestHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&HandlerOptions{Format: FormatJSON, Output: &buf}))

	logger.Warn("degraded recovery", slog.Bool("pipeline.degraded", true), slog.Any("error", errors.New("boom")))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if record["level"] != "WARN" || record["msg"] != "degraded recovery" {
		t.Errorf("record = %v", record)
	}
	if record["pipeline.degraded"] != true {
		t.Errorf("pipeline.degraded = %v, want true", record["pipeline.degraded"])
	}
	if record["error"] != "boom" {
		t.Errorf("error = %v, want boom", record["error"])
	}
}

func TestHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&HandlerOptions{Level: slog.LevelWarn, Output: &buf}))

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Error("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("records below level were written: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("error record missing: %q", buf.String())
	}
}

func TestHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&HandlerOptions{Format: FormatJSON, Output: &buf}))

	logger.With(slog.String("component", "cli")).WithGroup("run").Info("done", slog.Int("chunks", 3))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["component"] != "cli" {
		t.Errorf("component = %v, want cli", record["component"])
	}
	if record["run.chunks"] != float64(3) {
		t.Errorf("run.chunks = %v, want 3", record["run.chunks"])
	}
}

func TestHandler_Enabled(t *testing.T) {
	handler := NewHandler(&HandlerOptions{Level: slog.LevelInfo})
	if handler.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled(DEBUG) = true with INFO level")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Error("Enabled(ERROR) = false with INFO level")
	}
}
