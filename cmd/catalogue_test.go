package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := execute(t, "catalogue")
	require.NoError(t, err)

	assert.Contains(t, stdout, "KIND")
	assert.Contains(t, stdout, "ARG GOLANG_VERSION={{GOLANG_VERSION}}")
	assert.Contains(t, stdout, "ALPINE_VERSION")
	assert.Contains(t, stdout, "ubuntu:22.04")
	assert.Contains(t, stdout, "FROM jupyter/base-notebook:{{JUPYTER_BASE_NOTEBOOK_VERSION}}")
}

func TestCatalogueCommandIncludesConfigEntries(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	conf := "dockerfile:\n  catalogue: [REDIS_VERSION]\n"
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(conf), 0o644))

	stdout, _, err := execute(t, "catalogue", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "ARG REDIS_VERSION={{REDIS_VERSION}}")
}

func TestCatalogueRejectsArguments(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := execute(t, "catalogue", "extra")
	assert.Error(t, err)
}
