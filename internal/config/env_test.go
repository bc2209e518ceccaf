package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvFile_Basic(t *testing.T) {
	data := []byte("KEY=value\nOTHER=stuff\n")
	m, err := ParseEnvFile(data)
	require.NoError(t, err)
	assert.Equal(t, "value", m["KEY"])
	assert.Equal(t, "stuff", m["OTHER"])
}

func TestParseEnvFile_CommentsAndBlanks(t *testing.T) {
	data := []byte("# comment\n\nKEY=value\n\nOTHER=stuff\n")
	m, err := ParseEnvFile(data)
	require.NoError(t, err)
	assert.Len(t, m, 2)
	assert.Equal(t, "value", m["KEY"])
	assert.Equal(t, "stuff", m["OTHER"])
}

func TestParseEnvFile_ValueWithEquals(t *testing.T) {
	data := []byte("URL=https://hooks.example.com?foo=bar&baz=qux\n")
	m, err := ParseEnvFile(data)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com?foo=bar&baz=qux", m["URL"])
}

func TestParseEnvFile_QuotedAndExported(t *testing.T) {
	data := []byte("export LIFELINE_PORT=9090\nLIFELINE_NOTIFIER_CHANNEL=\"#ops room\"\n")
	m, err := ParseEnvFile(data)
	require.NoError(t, err)
	assert.Equal(t, "9090", m["LIFELINE_PORT"])
	assert.Equal(t, "#ops room", m["LIFELINE_NOTIFIER_CHANNEL"])
}

func TestParseEnvFile_EmptyValue(t *testing.T) {
	data := []byte("KEY=\n")
	m, err := ParseEnvFile(data)
	require.NoError(t, err)
	assert.Equal(t, "", m["KEY"])
}

func unsetForTest(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadEnvFiles_ProjectOverridesGlobal(t *testing.T) {
	globalDir := filepath.Join(t.TempDir(), "lifeline")
	require.NoError(t, os.MkdirAll(globalDir, 0o755))
	globalFile := filepath.Join(globalDir, "env")
	require.NoError(t, os.WriteFile(globalFile, []byte("LL_GLOBAL_ONLY=from_global\nLL_SHARED=from_global\n"), 0o644))

	projectFile := filepath.Join(t.TempDir(), ProjectEnvFile)
	require.NoError(t, os.WriteFile(projectFile, []byte("LL_PROJECT_ONLY=from_project\nLL_SHARED=from_project\n"), 0o644))

	unsetForTest(t, "LL_GLOBAL_ONLY", "LL_PROJECT_ONLY", "LL_SHARED")

	loadEnvFiles(globalFile, projectFile)

	assert.Equal(t, "from_global", os.Getenv("LL_GLOBAL_ONLY"))
	assert.Equal(t, "from_project", os.Getenv("LL_PROJECT_ONLY"))
	assert.Equal(t, "from_project", os.Getenv("LL_SHARED"), "project should override global")
}

func TestLoadEnvFiles_ActualEnvWins(t *testing.T) {
	projectFile := filepath.Join(t.TempDir(), ProjectEnvFile)
	require.NoError(t, os.WriteFile(projectFile, []byte("LL_MY_VAR=from_file\n"), 0o644))

	t.Setenv("LL_MY_VAR", "from_actual_env")

	loadEnvFiles(projectFile)

	assert.Equal(t, "from_actual_env", os.Getenv("LL_MY_VAR"), "actual env should win over file")
}

func TestMergeEnvFile_MissingFile(t *testing.T) {
	merged := make(map[string]string)
	mergeEnvFile(merged, "/nonexistent/path/.lifeline.env")
	assert.Empty(t, merged)
}

func TestGlobalEnvPath_ReturnsPath(t *testing.T) {
	p := GlobalEnvPath()
	assert.Contains(t, p, "lifeline")
	assert.Equal(t, "env", filepath.Base(p))
}
