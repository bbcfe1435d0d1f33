package commands

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "catalog" {
		t.Errorf("expected Use to be 'catalog', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	expectedCommands := []string{
		"version",
		"serve",
		"migrate",
		"components",
		"functions",
		"types",
	}

	for _, expected := range expectedCommands {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected command %s to be registered", expected)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	BuildDate = "2026-01-01"
	GoVersion = "go1.23"

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	for _, want := range []string{"1.0.0-test", "abc123", "2026-01-01", "go1.23"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected version output to contain %q, got:\n%s", want, out.String())
		}
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseID("function", tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseID(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseID(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestExecuteSkipsReportedErrors(t *testing.T) {
	cause := errors.New("boom")

	for _, tc := range []struct {
		name      string
		err       error
		wantPrint bool
	}{
		{"plain", cause, true},
		{"reported", reported(cause), false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cmd := NewVersionCommand()
			cmd.Run = nil
			cmd.RunE = func(*cobra.Command, []string) error { return tc.err }
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			var errOut bytes.Buffer
			cmd.SetErr(&errOut)
			cmd.SetArgs([]string{})

			err := execute(context.Background(), cmd)
			if !errors.Is(err, cause) {
				t.Fatalf("expected %v, got %v", cause, err)
			}
			if printed := strings.Contains(errOut.String(), "Error: boom"); printed != tc.wantPrint {
				t.Errorf("printed = %v, want %v (stderr %q)", printed, tc.wantPrint, errOut.String())
			}
		})
	}
}

func TestReportedNil(t *testing.T) {
	if reported(nil) != nil {
		t.Error("reported(nil) should be nil")
	}
}

func TestCategorizeDatabaseError(t *testing.T) {
	tests := []struct {
		err  string
		want string
	}{
		{"pq: syntax error at or near \"TABLE\"", "SQL syntax error"},
		{"duplicate key value violates unique constraint", "constraint violation"},
		{"relation \"components\" already exists", "object already exists"},
		{"permission denied for schema public", "permission denied"},
		{"dial tcp: connection refused", "cannot reach the database"},
		{"something else", "migration failed"},
	}

	for _, tt := range tests {
		got := categorizeDatabaseError(errors.New(tt.err), false)
		if !strings.HasPrefix(got, tt.want) {
			t.Errorf("categorizeDatabaseError(%q) = %q, want prefix %q", tt.err, got, tt.want)
		}
	}

	if got := categorizeDatabaseError(errors.New("raw detail"), true); got != "raw detail" {
		t.Errorf("expected full message with details, got %q", got)
	}
}
