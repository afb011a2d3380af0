package slogobs

import (
	"log/slog"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{" JSON ", FormatJSON},
		{"compact", FormatCompact},
		{"pretty", FormatCompact},
		{"", FormatCompact},
	}
	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestGetFormatFromEnv(t *testing.T) {
	t.Setenv("WFEXTRACT_LOG_FORMAT", "")
	t.Setenv("LOG_FORMAT", "json")
	if got := GetFormatFromEnv(); got != FormatJSON {
		t.Errorf("GetFormatFromEnv() with LOG_FORMAT = %v, want json", got)
	}

	t.Setenv("WFEXTRACT_LOG_FORMAT", "compact")
	if got := GetFormatFromEnv(); got != FormatCompact {
		t.Errorf("GetFormatFromEnv() = %v, want compact (WFEXTRACT_LOG_FORMAT wins)", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"Error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestGetLogLevelFromEnv(t *testing.T) {
	t.Setenv("WFEXTRACT_LOG_LEVEL", "")
	t.Setenv("LOG_LEVEL", "")
	if got := GetLogLevelFromEnv(); got != slog.LevelInfo {
		t.Errorf("GetLogLevelFromEnv() default = %v, want INFO", got)
	}

	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("WFEXTRACT_LOG_LEVEL", "debug")
	if got := GetLogLevelFromEnv(); got != slog.LevelDebug {
		t.Errorf("GetLogLevelFromEnv() = %v, want DEBUG", got)
	}
}
