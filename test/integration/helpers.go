//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	StripeKey   string
	GitHubToken string
	BinaryPath  string
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		StripeKey:   os.Getenv("STRIPE_TEST_KEY"),
		GitHubToken: os.Getenv("GITHUB_TOKEN"),
		BinaryPath:  getBinaryPath(),
		Verbose:     os.Getenv("VENDORAPI_TEST_VERBOSE") == "true",
	}
}

// getBinaryPath determines the path to the vendorapi binary.
func getBinaryPath() string {
	if path := os.Getenv("VENDORAPI_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../vendorapi",
		"./vendorapi",
		"../vendorapi",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "vendorapi"
}

// SkipIfNoBinary skips the test when the CLI has not been built.
func (config *TestConfig) SkipIfNoBinary(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath(config.BinaryPath); err != nil {
		t.Skipf("vendorapi binary not found at %s, skipping integration test", config.BinaryPath)
	}
}

// SkipIfNoStripe skips the test without a Stripe test-mode key.
func (config *TestConfig) SkipIfNoStripe(t *testing.T) {
	t.Helper()
	config.SkipIfNoBinary(t)

	if !strings.HasPrefix(config.StripeKey, "sk_test_") {
		t.Skip("STRIPE_TEST_KEY not set to a test-mode key, skipping integration test")
	}
}

// CommandRunner runs the CLI with an isolated config file.
type CommandRunner struct {
	config     *TestConfig
	configFile string
	env        []string
	t          *testing.T
}

// NewCommandRunner creates a new command runner. Credentials are passed
// through the environment so the config file starts empty.
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	env := append(os.Environ(), "VENDORAPI_OUTPUT=json")

	if config.StripeKey != "" {
		env = append(env, "VENDORAPI_STRIPE_TOKEN="+config.StripeKey)
	}

	if config.GitHubToken != "" {
		env = append(env, "VENDORAPI_GITHUB_TOKEN="+config.GitHubToken)
	}

	return &CommandRunner{
		config:     config,
		configFile: filepath.Join(t.TempDir(), "config.yml"),
		env:        env,
		t:          t,
	}
}

// Run executes a vendorapi command and returns its output.
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	args = append([]string{"--config", runner.configFile}, args...)

	cmd := exec.Command(runner.config.BinaryPath, args...)
	cmd.Env = runner.env

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

// RunJSON executes a command and decodes its JSON output into out.
func (runner *CommandRunner) RunJSON(out any, args ...string) error {
	stdout, stderr, err := runner.Run(args...)
	if err != nil {
		return fmt.Errorf("%w: %s", err, stderr)
	}

	err = json.Unmarshal([]byte(stdout), out)
	if err != nil {
		return fmt.Errorf("decoding output %q: %w", stdout, err)
	}

	return nil
}

// GenerateTestName creates a unique test resource name.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// AssertJSONOutput verifies command output looks like JSON.
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	output = strings.TrimSpace(output)
	if !json.Valid([]byte(output)) {
		t.Errorf("Output is not valid JSON: %s", output)
	}
}
