package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "create-admin", "reset-password", "import"} {
		assert.True(t, names[want], "missing command %s", want)
	}
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}

func TestPreviewImport(t *testing.T) {
	text := "Q1: Capital of Afghanistan?\n- Kabul\n- Herat\nA1: Kabul\n\nQ2: Broken\n- only one\nA2: only one\n"

	imported, skipped, err := previewImport("questions", text)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)
	assert.Equal(t, 1, skipped)

	_, _, err = previewImport("slides", text)
	assert.Error(t, err)
}

func TestImportCommand_DryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objectives.txt")
	require.NoError(t, os.WriteFile(path, []byte("- Identify risks\n- Report incidents\n"), 0o600))

	importKind, importDryRun = "objectives", true
	t.Cleanup(func() { importKind, importDryRun = "lessons", false })

	var out bytes.Buffer
	importCmd.SetOut(&out)
	require.NoError(t, runImport(importCmd, []string{path}))
	assert.Equal(t, "objectives: 2 parsed, 0 skipped\n", out.String())
}

func TestImportCommand_RequiresTrainingWithoutDryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lessons.txt")
	require.NoError(t, os.WriteFile(path, []byte("LESSON: One\n"), 0o600))

	importTrainingID, importDryRun = 0, false
	err := runImport(importCmd, []string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--training")
}

func TestPasswordFromFlagOrEnv(t *testing.T) {
	t.Setenv("INARA_ADMIN_PASSWORD", "")
	_, err := passwordFromFlagOrEnv("")
	assert.Error(t, err)

	p, err := passwordFromFlagOrEnv("Flag1234")
	require.NoError(t, err)
	assert.Equal(t, "Flag1234", p)

	t.Setenv("INARA_ADMIN_PASSWORD", "Env12345")
	p, err = passwordFromFlagOrEnv("")
	require.NoError(t, err)
	assert.Equal(t, "Env12345", p)
}
