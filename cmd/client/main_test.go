package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI against the storage file at path.
func run(t *testing.T, path, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	base := []string{"--path", path, "--config", filepath.Join(filepath.Dir(path), "none.json")}
	root.SetArgs(append(append([]string{}, args...), base...))
	err := root.Execute()
	return out.String(), err
}

func TestCLI_Lifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	out, err := run(t, path, "", "add")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	_, err = run(t, path, "", "validate", id)
	assert.ErrorContains(t, err, "is invalid")

	out, err = run(t, path, "", "update", id, "--label", "a; b", "--type", "ldap", "--login", "bob", "--no-password")
	require.NoError(t, err)
	assert.Contains(t, out, "Account updated")

	out, err = run(t, path, "", "validate", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Account is valid")

	out, err = run(t, path, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Login: bob")
	assert.Contains(t, out, "Labels: a, b")
	assert.Contains(t, out, "Password: <none>")

	out, err = run(t, path, "", "remove", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Account removed")

	_, err = run(t, path, "", "remove", id)
	assert.ErrorContains(t, err, "account not found")
}

func TestCLI_UpdateBadType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	out, err := run(t, path, "", "add")
	require.NoError(t, err)

	_, err = run(t, path, "", "update", strings.TrimSpace(out), "--type", "oauth")
	assert.ErrorContains(t, err, "unknown account type")
}

func TestCLI_Labels(t *testing.T) {
	out, err := run(t, filepath.Join(t.TempDir(), "storage.json"), "", "labels", "x; y ;;z")
	require.NoError(t, err)
	assert.Equal(t, "x\ny\nz\n", out)
}

func TestCLI_Shell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	out, err := run(t, path, "add\nlist\nexit\n", "shell")
	require.NoError(t, err)
	assert.Contains(t, out, "Account added:")
	assert.Contains(t, out, "Type: local")
	assert.Contains(t, out, "Bye")

	out, err = run(t, path, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Type: local")
}
