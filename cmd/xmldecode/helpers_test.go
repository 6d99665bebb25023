package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// sampleDocument holds one Base64 payload wrapping a webformData element
// and one plain-text match.
const sampleDocument = `<root><contenido>PHdlYmZvcm1EYXRhPjxhPjE8L2E+PC93ZWJmb3JtRGF0YT4=</contenido><contenido>plain</contenido></root>`

// runCLI executes the root command with args and stdin, isolated from any
// configuration file of the user.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("{}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeFile writes content to name inside dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
