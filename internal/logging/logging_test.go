package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{"info text", "info", "text", false},
		{"upper case", "DEBUG", "JSON", false},
		{"logfmt", "warn", "logfmt", false},
		{"bad level", "loud", "text", true},
		{"bad format", "info", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&bytes.Buffer{}, tt.level, tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNew_Filters(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn", "logfmt")
	if err != nil {
		t.Fatal(err)
	}

	l.Info("hidden")
	l.Warn("overflow encountered", "body", "3")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message not filtered: %s", out)
	}
	if !strings.Contains(out, "overflow encountered") || !strings.Contains(out, "body=3") {
		t.Errorf("warn message missing: %s", out)
	}
	if !strings.Contains(out, Prefix) {
		t.Errorf("prefix missing: %s", out)
	}
}
