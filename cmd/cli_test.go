package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusShowsCurrentAccount(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	stdout, _, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Alice")
	assert.Contains(t, stdout, "cloud.example.com")
	assert.Contains(t, stdout, "configured: 2")
}

func TestStatusJSONOutput(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	stdout, _, err := executeCLI(t, home, "status", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"display_name\": \"Alice\"")
	assert.Contains(t, stdout, "\"sessions\": 2")
}

func TestStatusWithoutAccounts(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No users")
	assert.Contains(t, stdout, "configured: 0")
}

func TestAccountsListShowsConfiguredAccounts(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	stdout, _, err := executeCLI(t, home, "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Alice")
	assert.Contains(t, stdout, "bob")
	assert.Contains(t, stdout, "cloud.example.com")
}

func TestAccountsAddRequiresServerFlag(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	_, _, err := executeCLI(t, home,
		"accounts", "add",
		"--id", "acc-3",
		"--login", "carol",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"server\" not set")
}

func TestAccountsAddPersistsRecord(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	stdout, _, err := executeCLI(t, home,
		"accounts", "add",
		"--id", "acc-3",
		"--login", "carol",
		"--display-name", "Carol",
		"--server", "https://third.example.com",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "added Carol (acc-3)")

	stored, err := os.ReadFile(accountsPath(home))
	require.NoError(t, err)
	assert.Contains(t, string(stored), "acc-3")
	assert.Contains(t, string(stored), "third.example.com")

	listed, _, err := executeCLI(t, home, "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, listed, "Carol")
}

func TestAccountsAddCurrentSelectsByIdentity(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	// Same server as acc-1: selection must land on the new identity, not
	// the first session sharing the URL.
	stdout, _, err := executeCLI(t, home,
		"accounts", "add",
		"--id", "acc-3",
		"--login", "carol",
		"--display-name", "Carol",
		"--server", "https://cloud.example.com",
		"--current",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "added Carol (acc-3)")
	assert.Contains(t, stdout, "current account: Carol")
}

func TestAccountsSwitchChangesCurrent(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	stdout, _, err := executeCLI(t, home, "accounts", "switch", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "current account: bob")
}

func TestAccountsSwitchRejectsOutOfRangeIndex(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	_, _, err := executeCLI(t, home, "accounts", "switch", "5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestAccountsSwitchRejectsNonNumericIndex(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	_, _, err := executeCLI(t, home, "accounts", "switch", "first")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid session index")
}

func TestAccountsRemoveWithYesDeletesRecord(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	stdout, _, err := executeCLI(t, home, "accounts", "remove", "0", "--yes")
	require.NoError(t, err)
	assert.Contains(t, stdout, "removed Alice")

	stored, err := os.ReadFile(accountsPath(home))
	require.NoError(t, err)
	assert.NotContains(t, string(stored), "acc-1")
	assert.Contains(t, string(stored), "acc-2")
}

func TestAccountsRemoveAbortsWithoutConfirmation(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	stdout, _, err := executeCLIWithInput(t, home, "n\n", "accounts", "remove", "0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Remove the connection to account")
	assert.NotContains(t, stdout, "removed Alice")

	stored, err := os.ReadFile(accountsPath(home))
	require.NoError(t, err)
	assert.Contains(t, string(stored), "acc-1")
}

func TestAccountsRemoveConfirmedDeletesRecord(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	stdout, _, err := executeCLIWithInput(t, home, "y\n", "accounts", "remove", "0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "removed Alice")
}

func TestAccountsRemoveRejectsOutOfRangeIndex(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	_, _, err := executeCLI(t, home, "accounts", "remove", "9", "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestActivityShowsEmptyFeed(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	stdout, _, err := executeCLI(t, home, "activity")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No activity yet.")
}

func TestActivityWithoutAccounts(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "activity")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No users")
}

func TestActivityRejectsOutOfRangeIndex(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	_, _, err := executeCLI(t, home, "activity", "--index", "7")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestActivityFetchWhileDisconnectedIsANoOp(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	stdout, _, err := executeCLI(t, home, "activity", "--fetch")
	require.NoError(t, err)
	assert.Contains(t, stdout, "fetched 0 activity entries")
	assert.Contains(t, stdout, "No activity yet.")
}

func TestUnknownCommandIsRejected(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	_, _, err := executeCLI(t, home, "export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command \"export\"")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	return executeCLIWithInput(t, home, "", args...)
}

func executeCLIWithInput(t *testing.T, home, input string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetIn(strings.NewReader(input))
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func accountsPath(home string) string {
	return filepath.Join(home, ".synctray", "accounts.toml")
}

func writeAccountsFixture(home string) error {
	configDir := filepath.Join(home, ".synctray")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	accounts := `version = 1

[[accounts]]
id = "acc-1"
login_name = "alice"
display_name = "Alice"
server_url = "https://cloud.example.com"

[[accounts]]
id = "acc-2"
login_name = "bob"
display_name = ""
server_url = "https://files.example.org"
`

	return os.WriteFile(filepath.Join(configDir, "accounts.toml"), []byte(accounts), 0o644)
}
