package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevelFloor(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
		ok    bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{"normal", zapcore.InfoLevel, true},
		{"none", zapcore.InvalidLevel, false},
		{"", zapcore.InvalidLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			got, ok := levelFloor(tt.level)
			if got != tt.want || ok != tt.ok {
				t.Errorf("levelFloor(%q) = %v, %v; want %v, %v", tt.level, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func readLog(t *testing.T, log *zap.Logger, name string) string {
	t.Helper()
	_ = log.Sync()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestLoggingPrepare(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "inkwell.log")
	conf := LoggingConfig{
		FileLogger:    LoggerConfig{Level: "normal", Destination: dest, Mode: "overwrite"},
		ConsoleLogger: LoggerConfig{Level: "none"},
	}

	log, err := conf.Prepare(nil)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	log.Debug("cascade details")
	log.Info("chapter saved")
	got := readLog(t, log, dest)
	if !strings.Contains(got, "chapter saved") || strings.Contains(got, "cascade details") {
		t.Errorf("normal level log = %q", got)
	}

	// report forces debug level and overwrite
	rpt := &Report{items: make(map[string]item)}
	log, err = conf.Prepare(rpt)
	if err != nil {
		t.Fatalf("Prepare(report) error = %v", err)
	}
	log.Debug("cascade details")
	got = readLog(t, log, dest)
	if !strings.Contains(got, "cascade details") || strings.Contains(got, "chapter saved") {
		t.Errorf("report level log = %q", got)
	}
	if rpt.items["final.log"].path != dest {
		t.Errorf("final.log = %q, want %q", rpt.items["final.log"].path, dest)
	}
	if _, ok := rpt.items["panic.log"]; !ok {
		t.Error("panic.log not registered in report")
	}
	if conf.FileLogger.Level != "normal" {
		t.Error("Prepare must not change configuration")
	}
}

func TestShortErrors(t *testing.T) {
	enc := shortErrors{zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())}
	err := multierr.Combine(errors.New("no chapter"), errors.New("bad date"))

	buf, encErr := enc.EncodeEntry(zapcore.Entry{Level: zapcore.ErrorLevel, Message: "failed"}, []zapcore.Field{zap.Error(err)})
	if encErr != nil {
		t.Fatalf("EncodeEntry() error = %v", encErr)
	}
	out := buf.String()
	if !strings.Contains(out, "no chapter; bad date") {
		t.Errorf("error message missing: %q", out)
	}
	if strings.Contains(out, "errorVerbose") {
		t.Errorf("verbose error printed: %q", out)
	}
}
