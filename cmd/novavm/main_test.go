package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunEvaluatesScriptAndPrintsResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.js")
	require.NoError(t, os.WriteFile(path, []byte("let arr = []; arr.push(1); arr.push(2); let result = arr.join();"), 0o644))

	var stdOut, stdErr bytes.Buffer
	code := doMain([]string{"run", path}, &stdOut, &stdErr)
	require.Equal(t, 0, code)
	require.Empty(t, stdErr.String())
}

func TestRunReportsMissingFile(t *testing.T) {
	var stdOut, stdErr bytes.Buffer
	code := doMain([]string{"run", "/no/such/file.js"}, &stdOut, &stdErr)
	require.Equal(t, 1, code)
	require.NotEmpty(t, stdErr.String())
}

func TestRunWithNoArgumentsPrintsUsage(t *testing.T) {
	var stdOut, stdErr bytes.Buffer
	code := doMain([]string{"run"}, &stdOut, &stdErr)
	require.Equal(t, 1, code)
	require.Contains(t, stdErr.String(), "novavm run")
}

func TestUnknownCommandIsAnError(t *testing.T) {
	var stdOut, stdErr bytes.Buffer
	code := doMain([]string{"bogus"}, &stdOut, &stdErr)
	require.Equal(t, 1, code)
	require.Contains(t, stdErr.String(), "unknown command")
}

func TestVersionCommand(t *testing.T) {
	var stdOut, stdErr bytes.Buffer
	code := doMain([]string{"version"}, &stdOut, &stdErr)
	require.Equal(t, 0, code)
	require.Contains(t, stdOut.String(), "novavm")
}
