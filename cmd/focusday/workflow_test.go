package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildCLI compiles the binary once per test run.
func buildCLI(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping end-to-end workflow in short mode")
	}
	if bin := os.Getenv("FOCUSDAY_BIN"); bin != "" {
		return bin
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not found")
	}
	bin := filepath.Join(t.TempDir(), "focusday")
	build := exec.Command(goBin, "build", "-o", bin, ".")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("go build failed: %v\n%s", err, out)
	}
	return bin
}

func isolatedEnv(home string) []string {
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "XDG_CONFIG_HOME=") || strings.HasPrefix(e, "FOCUSDAY_") {
			continue
		}
		env = append(env, e)
	}
	return append(env, "HOME="+home, "XDG_CONFIG_HOME="+filepath.Join(home, ".config"))
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestEndToEndWorkflow(t *testing.T) {
	bin := buildCLI(t)
	home := t.TempDir()
	env := isolatedEnv(home)
	configPath := filepath.Join(home, "focusday", "config.yaml")
	dbPath := filepath.Join(home, "focusday", "focusday.db")

	run := func(args ...string) string {
		t.Helper()
		full := append([]string{"--config", configPath, "--db", dbPath}, args...)
		cmd := exec.Command(bin, full...)
		cmd.Env = env
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("focusday %v failed: %v\nOutput: %s", args, err, out)
		}
		return string(out)
	}

	run("init")
	if _, err := os.Stat(configPath); err != nil {
		t.Fatalf("init did not write the config: %v", err)
	}

	run("habit", "add", "Read", "--description", "20 pages")
	run("habit", "mark", "Read")
	if out := run("habit", "stats", "Read"); !strings.Contains(squash(out), "Total days: 1") {
		t.Errorf("habit stats output:\n%s", out)
	}

	run("task", "add", "Write report", "--priority", "high", "--tags", "work")
	if out := run("task", "list"); !strings.Contains(out, "Write report") {
		t.Errorf("task list output:\n%s", out)
	}

	run("timer", "settings", "--focus", "50m", "--metronome", "on")
	if out := run("timer", "settings"); !strings.Contains(out, "50m0s") {
		t.Errorf("timer settings output:\n%s", out)
	}
	run("timer", "stats")

	run("quotes", "enable")
	if out := run("quotes", "status"); !strings.Contains(squash(out), "Quote reminders: on") {
		t.Errorf("quotes status output:\n%s", out)
	}

	run("backup", "create")
	if out := run("backup", "list"); !strings.Contains(out, "focusday-") {
		t.Errorf("backup list output:\n%s", out)
	}

	run("migrate")
	run("doctor")

	// No tray app is running, so the notification falls back to the log.
	if out := run("--debug", "notify", "hello from the workflow"); !strings.Contains(out, "hello from the workflow") {
		t.Errorf("notify output:\n%s", out)
	}
}
