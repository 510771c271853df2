package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/hyperkey/pkg/errors"
)

// executeLogged runs the CLI with args and returns its log output.
func executeLogged(ctx context.Context, args ...string) (string, error) {
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetOutput(io.Discard)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(ctx)
	return logs.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hyperkey.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		verbose    bool
		configured string
		want       log.Level
		wantErr    bool
	}{
		{false, "info", log.InfoLevel, false},
		{false, "warn", log.WarnLevel, false},
		{false, "error", log.ErrorLevel, false},
		{true, "error", log.DebugLevel, false},
		{true, "loud", log.DebugLevel, false},
		{false, "loud", log.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := logLevel(tt.verbose, tt.configured)
		if tt.wantErr {
			if !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("logLevel(%v, %q) error = %v, want INVALID_CONFIG", tt.verbose, tt.configured, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("logLevel(%v, %q) = %v, %v; want %v", tt.verbose, tt.configured, got, err, tt.want)
		}
	}
}

func TestCommandLogger(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	root := c.RootCommand()

	if commandLogger(c.Logger, root) != c.Logger {
		t.Error("root command should use the CLI logger unchanged")
	}

	clearCmd, _, err := root.Find([]string{"cache", "clear"})
	if err != nil {
		t.Fatal(err)
	}
	commandLogger(c.Logger, clearCmd).Info("cleared", "count", 3)
	if out := buf.String(); !strings.Contains(out, "cache clear") || !strings.Contains(out, "count=3") {
		t.Errorf("log line = %q, want the command path and count", out)
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("rendered", "format", "dot", "edges", 3)

	out := buf.String()
	for _, want := range []string{"rendered", "format=dot", "edges=3", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("progress line %q missing %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("a bare context should fall back to log.Default()")
	}
	l := newLogger(io.Discard, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestVerboseLogsConfig(t *testing.T) {
	isolate(t)
	args := []string{"keygen", "-n", "5", "-k", "2", "--secret", "ab"}

	logs, err := executeLogged(context.Background(), args...)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(logs, "config loaded") {
		t.Errorf("debug line logged at info level:\n%s", logs)
	}
	if !strings.Contains(logs, "key generated") || !strings.Contains(logs, "keygen") {
		t.Errorf("missing keygen progress line:\n%s", logs)
	}

	logs, err = executeLogged(context.Background(), append([]string{"--verbose"}, args...)...)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs, "config loaded") {
		t.Errorf("--verbose did not enable debug logging:\n%s", logs)
	}
}

func TestConfigLogLevel(t *testing.T) {
	isolate(t)
	quiet := writeConfig(t, "[log]\nlevel = \"error\"\n")

	logs, err := executeLogged(context.Background(), "--config", quiet, "keygen", "-n", "5", "-k", "2", "--secret", "ab")
	if err != nil {
		t.Fatal(err)
	}
	if logs != "" {
		t.Errorf("log.level = error still logged:\n%s", logs)
	}

	bad := writeConfig(t, "[log]\nlevel = \"loud\"\n")
	if _, err := executeLogged(context.Background(), "--config", bad, "keygen", "-n", "5", "-k", "2", "--secret", "ab"); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("bad level error = %v, want INVALID_CONFIG", err)
	}
}

func TestServeLogsWithCommandPrefix(t *testing.T) {
	isolate(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logs, err := executeLogged(ctx, "serve", "--addr", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs, "serve") || !strings.Contains(logs, "shutting down") {
		t.Errorf("server logs lack the serve prefix:\n%s", logs)
	}
}

func TestRenderLogsProgress(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	key := filepath.Join(dir, "key.json")
	if _, err := run("keygen", "-n", "5", "-k", "2", "--secret", "ab", "-o", key); err != nil {
		t.Fatal(err)
	}

	logs, err := executeLogged(context.Background(), "render", key, "-o", filepath.Join(dir, "key.dot"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"render", "rendered", "format=dot", "vertices=5"} {
		if !strings.Contains(logs, want) {
			t.Errorf("render log missing %q:\n%s", want, logs)
		}
	}
}
