package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := run(context.Background(), strings.NewReader(stdin), &out, &errOut, args)
	return out.String(), errOut.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var exitErr *exitError
	require.True(t, errors.As(err, &exitErr), "expected an exit error, got %v", err)
	return exitErr.code
}

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stdin    string
		args     []string
		wantCode int
		wantErr  string
		wantOut  string
	}{
		{
			name:    "valid login from stdin",
			stdin:   `{"username":"alice","password":"secret"}`,
			args:    []string{"check", "--model", "login"},
			wantOut: "\"username\": \"alice\"",
		},
		{
			name:     "missing password",
			stdin:    `{"username":"alice"}`,
			args:     []string{"check", "-m", "login", "-"},
			wantCode: exitMissingField,
			wantErr:  "LoginRequest: The mandatory field 'password' is not present in JSON",
		},
		{
			name:     "inherited field",
			stdin:    `{"text":"hi"}`,
			args:     []string{"check", "-m", "send-keys"},
			wantCode: exitMissingField,
			wantErr:  "ElementRef: The mandatory field 'element-6066-11e4-a52e-4f735466cecf' is not present in JSON",
		},
		{
			name:     "value rule",
			stdin:    `{"actions":[{"type":"joystick","id":"j"}]}`,
			args:     []string{"check", "-m", "actions"},
			wantCode: exitMissingField,
		},
		{
			name:     "unknown model",
			stdin:    `{}`,
			args:     []string{"check", "-m", "nope"},
			wantCode: exitInput,
			wantErr:  `unknown model "nope"`,
		},
		{
			name:     "malformed json",
			stdin:    `{"username":`,
			args:     []string{"check", "-m", "login"},
			wantCode: exitInput,
		},
		{
			name:     "missing file",
			args:     []string{"check", "-m", "login", filepath.Join(os.TempDir(), "modelguard-does-not-exist.json")},
			wantCode: exitInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, _, err := runCLI(t, tt.stdin, tt.args...)
			if tt.wantCode == 0 {
				require.NoError(t, err)
				assert.Contains(t, out, tt.wantOut)
				return
			}

			assert.Equal(t, tt.wantCode, exitCode(t, err))
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, out)
		})
	}
}

func TestCheckFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"user":{"id":"u1"}}`), 0o600))

	out, errOut, err := runCLI(t, "", "check", "--model", "session", path)

	require.NoError(t, err)
	assert.Contains(t, out, "\"id\": \"u1\"")
	assert.Equal(t, "Session: ok\n", errOut)
}

func TestCheckRequiresModelFlag(t *testing.T) {
	t.Parallel()

	_, _, err := runCLI(t, `{}`, "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model")
}

func TestModels(t *testing.T) {
	t.Parallel()

	out, _, err := runCLI(t, "", "models")
	require.NoError(t, err)
	assert.Contains(t, strings.Split(strings.TrimSpace(out), "\n"), "send-keys")

	out, _, err = runCLI(t, "", "models", "send-keys")
	require.NoError(t, err)
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "ElementRef")

	out, _, err = runCLI(t, "", "models", "login", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"wireName": "password"`)

	_, _, err = runCLI(t, "", "models", "nope")
	assert.Equal(t, exitInput, exitCode(t, err))
	assert.ErrorContains(t, err, `unknown model "nope"`)
}
