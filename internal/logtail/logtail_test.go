package logtail

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeLog(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blockext.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}
	return path
}

func TestRead(t *testing.T) {
	var all []string
	for i := 1; i <= 10; i++ {
		all = append(all, fmt.Sprintf("time=x level=INFO msg=\"line %d\"", i))
	}
	path := writeLog(t, all)

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"read all (0)", 0, all},
		{"read all (negative)", -1, all},
		{"read partial (5)", 5, all[5:]},
		{"read exactly all (10)", 10, all},
		{"read more than exists (20)", 20, all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(path, tt.maxLines, slog.LevelDebug)
			if err != nil {
				t.Fatalf("Read returned error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("Read = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_FiltersByLevel(t *testing.T) {
	path := writeLog(t, []string{
		`time=1 level=DEBUG msg="committing batch"`,
		`time=2 level=INFO msg="batch committed"`,
		`time=3 level=WARN msg="push connection lost" error="dial: refused"`,
		`plain continuation line`,
		`time=4 level=ERROR msg="fetch snapshot failed"`,
		`time=5 level=INFO msg="session ended"`,
	})

	got, err := Read(path, 2, slog.LevelWarn)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	want := []string{
		`plain continuation line`,
		`time=4 level=ERROR msg="fetch snapshot failed"`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Read = %q, want %q", got, want)
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10, slog.LevelInfo)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("Read = %v, want nil", got)
	}
}

func TestLevelOf(t *testing.T) {
	tests := []struct {
		line   string
		want   slog.Level
		wantOK bool
	}{
		{`time=1 level=WARN msg=x`, slog.LevelWarn, true},
		{`time=1 level=DEBUG+2 msg=x`, slog.LevelDebug + 2, true},
		{`time=1 level=ERROR`, slog.LevelError, true},
		{`no level here`, 0, false},
		{`level=LOUD msg=x`, 0, false},
	}
	for _, tt := range tests {
		got, ok := LevelOf(tt.line)
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("LevelOf(%q) = %v, %v; want %v, %v", tt.line, got, ok, tt.want, tt.wantOK)
		}
	}
}
