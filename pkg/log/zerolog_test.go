package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/olsgo/pkg/errors"
)

func TestZerologProviderEmitsJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewZerologProvider(&buf)

	logger := p.GetLogger()
	logger.Info("training started",
		ModelNameKey, "Regression",
		SamplesKey, 4,
		FeaturesKey, 1,
	)

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("Expected a log line, got empty output")
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("Log line is not valid JSON: %v", err)
	}

	if entry["message"] != "training started" {
		t.Errorf("message = %v, want %q", entry["message"], "training started")
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want %q", entry["level"], "info")
	}
	if entry[ModelNameKey] != "Regression" {
		t.Errorf("%s = %v, want %q", ModelNameKey, entry[ModelNameKey], "Regression")
	}
	if entry[SamplesKey] != float64(4) {
		t.Errorf("%s = %v, want 4", SamplesKey, entry[SamplesKey])
	}
}

func TestZerologLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	p := NewZerologProvider(&buf)

	logger := p.GetLogger().With(ComponentKey, "linear")
	logger.Warn("rank deficiency detected")

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("Log line is not valid JSON: %v", err)
	}
	if entry[ComponentKey] != "linear" {
		t.Errorf("%s = %v, want %q", ComponentKey, entry[ComponentKey], "linear")
	}
}

func TestZerologLoggerStructuredError(t *testing.T) {
	var buf bytes.Buffer
	p := NewZerologProvider(&buf)

	err := errors.NewSingularMatrixError("qr_solve", 3, 5, 0)
	p.GetLogger().Error("fit failed", "error", err)

	out := buf.String()
	if !strings.Contains(out, "rank deficient") {
		t.Errorf("Expected error message in output, got %q", out)
	}
	// cockroachdb/errorsのスタックトレースが付与されていること
	if !strings.Contains(out, StacktraceAttrKey) {
		t.Errorf("Expected %q attribute in output, got %q", StacktraceAttrKey, out)
	}
}

func TestZerologProviderLevel(t *testing.T) {
	var buf bytes.Buffer
	p := NewZerologProvider(&buf)
	p.SetLevel(LevelError)

	logger := p.GetLogger()
	logger.Info("should be suppressed")
	if buf.Len() != 0 {
		t.Errorf("Expected info log to be suppressed, got %q", buf.String())
	}

	logger.Error("should be emitted")
	if buf.Len() == 0 {
		t.Error("Expected error log to be emitted")
	}

	if logger.Enabled(context.Background(), LevelInfo) {
		t.Error("Expected LevelInfo to be disabled")
	}
	if !logger.Enabled(context.Background(), LevelError) {
		t.Error("Expected LevelError to be enabled")
	}
}

func TestToZerologLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  zerolog.Level
	}{
		{LevelDebug, zerolog.DebugLevel},
		{LevelInfo, zerolog.InfoLevel},
		{LevelWarn, zerolog.WarnLevel},
		{LevelError, zerolog.ErrorLevel},
	}
	for _, tt := range tests {
		if got := toZerologLevel(tt.level); got != tt.want {
			t.Errorf("toZerologLevel(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestCaptureWarnings(t *testing.T) {
	tp, _ := NewTestLoggerProvider(LevelDebug)
	prev := SetProvider(tp)
	defer SetProvider(prev)

	CaptureWarnings()
	defer StopWarningCapture()

	errors.Warn(errors.NewUndefinedMetricWarning("mape", "zero-valued y_true samples were dropped", 0))

	testLogger, ok := tp.GetLogger().(*TestLogger)
	if !ok {
		t.Fatal("Expected TestLogger from TestLoggerProvider")
	}
	if !testLogger.ContainsMessage("warning raised") {
		t.Error("Expected captured warning event")
	}
	if !testLogger.ContainsMessage("ill-defined") {
		t.Error("Expected warning text to be carried in the event")
	}
}
