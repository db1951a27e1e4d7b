//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	AccountSID string
	AuthToken  string
	BinaryPath string
	Verbose    bool
}

// LoadTestConfig loads configuration from environment variables. Use Twilio
// test credentials: they accept the magic numbers below and never bill.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		AccountSID: os.Getenv("TWILIO_TEST_ACCOUNT_SID"),
		AuthToken:  os.Getenv("TWILIO_TEST_AUTH_TOKEN"),
		BinaryPath: getBinaryPath(),
		Verbose:    os.Getenv("TWILIO_VERBOSE") == "true",
	}
}

// Magic numbers honoured by test credentials.
const (
	MagicFromValid = "+15005550006"
	MagicToValid   = "+15005550006"
)

// getBinaryPath determines the path to the twilio binary
func getBinaryPath() string {
	if path := os.Getenv("TWILIO_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../twilio",
		"./twilio",
		"../twilio",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "twilio"
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.AccountSID == "" || config.AuthToken == "" {
		t.Skip("TWILIO_TEST_ACCOUNT_SID or TWILIO_TEST_AUTH_TOKEN not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("twilio binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// CommandRunner runs the twilio binary with the test credentials.
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// Run executes a twilio command with JSON output and returns its output.
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--output", "json", "--config", runner.t.TempDir() + "/config.yml"}, args...)

	cmd := exec.Command(runner.config.BinaryPath, args...) // #nosec G204
	cmd.Env = append(os.Environ(),
		"TWILIO_ACCOUNT_SID="+runner.config.AccountSID,
		"TWILIO_AUTH_TOKEN="+runner.config.AuthToken,
	)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.BinaryPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// DecodeObject parses a JSON object printed by a command.
func DecodeObject(t *testing.T, output string) map[string]any {
	t.Helper()

	var object map[string]any
	if err := json.Unmarshal([]byte(output), &object); err != nil {
		t.Fatalf("Output is not a JSON object: %v\n%s", err, output)
	}

	return object
}

// DecodeList parses a JSON array printed by a list command.
func DecodeList(t *testing.T, output string) []map[string]any {
	t.Helper()

	var list []map[string]any
	if err := json.Unmarshal([]byte(output), &list); err != nil {
		t.Fatalf("Output is not a JSON array: %v\n%s", err, output)
	}

	return list
}
