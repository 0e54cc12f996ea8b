package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestEndToEndWorkflow(t *testing.T) {
	// 1. Setup Environment
	// Allow overriding bin dir via env var, default to ../../bin (relative to tests/e2e)
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}

	binDir := os.Getenv("LEARNLIT_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	t.Logf("Using bin dir: %s", binDir)

	cliPath := filepath.Join(binDir, "learnlit")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Fatalf("CLI binary not found at %s. Please build it first.", cliPath)
	}

	// Create temp home for isolation
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "learnlit", "learnlit.db")

	var cleanEnv []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "HOME=") && !strings.HasPrefix(e, "LEARNLIT_") {
			cleanEnv = append(cleanEnv, e)
		}
	}
	cleanEnv = append(cleanEnv,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("LEARNLIT_DB_CONNECTION=%s", dbPath),
	)

	// 2. Initialize
	out := runCmd(t, cliPath, cleanEnv, "init")
	assertContains(t, out, "Initialized learnlit storage")
	runCmd(t, cliPath, cleanEnv, "settings", "--notifications-enabled=false")

	// 3. Start a goal and log today
	out = runCmd(t, cliPath, cleanEnv, "start", "Spanish", "--period", "week")
	assertContains(t, out, "Spanish (Week)")

	out = runCmd(t, cliPath, cleanEnv, "learned")
	assertContains(t, out, "Learned logged (1/7)")

	out = runCmd(t, cliPath, cleanEnv, "frozen")
	assertContains(t, out, "already logged")

	out = runCmd(t, cliPath, cleanEnv, "status")
	assertContains(t, out, "1/7")
	assertContains(t, out, "Today:    logged")

	// 4. Switching away from a goal with progress needs confirmation
	switchCmd := exec.Command(cliPath, "start", "Go", "--period", "month")
	switchCmd.Env = cleanEnv
	switchCmd.Stdin = strings.NewReader("n\n")
	b, err := switchCmd.CombinedOutput()
	if err != nil {
		t.Fatalf("declined switch failed: %v\nOutput: %s", err, b)
	}
	assertContains(t, string(b), "Keeping the current goal.")

	out = runCmd(t, cliPath, cleanEnv, "goals")
	assertContains(t, out, "* Spanish")
	if strings.Contains(out, "Go ") {
		t.Errorf("declined goal was registered:\n%s", out)
	}

	out = runCmd(t, cliPath, cleanEnv, "log", "--days", "3")
	assertContains(t, out, "x")

	// 5. Backups
	out = runCmd(t, cliPath, cleanEnv, "backup", "create")
	assertContains(t, out, "Backup created")
	out = runCmd(t, cliPath, cleanEnv, "backup", "list")
	assertContains(t, out, "learnlit-")
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}

func assertContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Errorf("expected output to contain %q, got:\n%s", want, out)
	}
}
