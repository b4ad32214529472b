package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const samplePipeline = `
step "print" "hello" {
  message = "hello"
}

step "print" "world" {
  message    = "world"
  depends_on = ["hello"]
}
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.hcl")
	require.NoError(t, os.WriteFile(path, []byte(samplePipeline), 0o644))
	return path
}

func TestRun_NoArgsPrintsUsage(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(out, nil)
	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(out, []string{"--this-is-not-a-valid-flag"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined")
}

func TestRun_InvalidLogLevel(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(out, []string{"-log-level=verbose", writeSample(t)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid log-level")
}

func TestRun_ExecutesPipelineSequentially(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(out, []string{"-parallel=false", writeSample(t)})
	require.NoError(t, err)
	require.Contains(t, out.String(), "hello: SUCCESS")
	require.Contains(t, out.String(), "world: SUCCESS")
	require.Contains(t, out.String(), "pipeline finished successfully")
}

func TestRun_UnknownPipelinePath(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(out, []string{filepath.Join(t.TempDir(), "missing.hcl")})
	require.Error(t, err)
}
