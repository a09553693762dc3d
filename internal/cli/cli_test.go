package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "lockworks", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"compile", "asm", "run", "validate", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormatRejected(t *testing.T) {
	_, err := execute(t, "--format", "xml", "compile", "testdata/bell.slang")
	require.Error(t, err)
}

func TestCompileText(t *testing.T) {
	out, err := execute(t, "compile", "testdata/bell.slang")
	require.NoError(t, err)

	assert.Contains(t, out, "Compiled bell (4 slots, 2 bits)")
	assert.Contains(t, out, "OPEN")
	assert.Contains(t, out, "CNOT q1 q3")
	assert.Contains(t, out, "MEASURE q1 -> c0")
}

func TestCompileJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "compile", "testdata/bell.slang")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "bell", data["name"])
	assert.Equal(t, float64(4), data["slots"])
}

func TestCompileMissingFile(t *testing.T) {
	_, err := execute(t, "compile", "testdata/nope.slang")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestAsmCommand(t *testing.T) {
	out, err := execute(t, "asm", "testdata/bell.gisa")
	require.NoError(t, err)

	// program named after the file
	assert.Contains(t, out, "Compiled bell")
	assert.Contains(t, out, "CNOT q1 q3")
}

func TestAsmBadOpcode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.gisa")
	require.NoError(t, os.WriteFile(path, []byte("S_BOGUS a\n"), 0o644))

	_, err := execute(t, "asm", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, "run", "testdata/bell.slang", "--shots", "1024")
	require.NoError(t, err)

	assert.Contains(t, out, "decoded:    10")
	assert.Contains(t, out, "confidence: 1.0000")
	assert.Contains(t, out, "SIGNIFICANT")
}

func TestRunPersistsToStore(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	_, err := execute(t, "run", "testdata/bell.slang", "--db", db)
	require.NoError(t, err)

	_, err = os.Stat(db)
	require.NoError(t, err)
}

func TestValidateClean(t *testing.T) {
	out, err := execute(t, "validate", "testdata/bell.slang")
	require.NoError(t, err)
	assert.Contains(t, out, "within topology limits")
}

func TestTestCommandDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.yaml"), []byte(`
name: ok
description: single unit decodes to one
source: |
  program ok:
      soliton a = 1;
      measure(a);
expect:
  values: [1]
`), 0o644))

	out, err := execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1/1 scenario(s) passed")
}

func TestTestCommandFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fail.yaml"), []byte(`
name: fail
description: impossible expectation
source: |
  program fail:
      soliton a = 1;
      measure(a);
expect:
  values: [0]
`), 0o644))

	_, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestTestCommandMissingPath(t *testing.T) {
	_, err := execute(t, "test", "testdata/does-not-exist")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "topo.cue")
	require.NoError(t, os.WriteFile(cfg, []byte("shots: 512\n"), 0o644))

	out, err := execute(t, "--format", "json", "--config", cfg, "run", "testdata/bell.slang")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(512), data["shots"])
}

func TestBadConfigRejected(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "topo.cue")
	require.NoError(t, os.WriteFile(cfg, []byte("complexity: 1\n"), 0o644))

	_, err := execute(t, "--config", cfg, "compile", "testdata/bell.slang")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
