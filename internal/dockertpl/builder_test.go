package dockertpl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tplerrors "github.com/ai-infra-matrix/matrix-tpl/internal/errors"
	"github.com/ai-infra-matrix/matrix-tpl/internal/pathutil"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestBuilderRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "backend", "Dockerfile"), backendDockerfile)
	writeFile(t, filepath.Join(root, "src", "jupyterhub", "Dockerfile"), "FROM jupyter/base-notebook:latest\n")
	writeFile(t, filepath.Join(root, "src", "frontend", "dockerfile"), "FROM ubuntu:22.04\n")
	writeFile(t, filepath.Join(root, "src", "frontend", "Dockerfile.dev"), "FROM ubuntu:22.04\n")

	report, err := NewBuilder(NewDefaultTransformer()).Run(root)
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	assert.Equal(t, 2, report.Count(StatusWritten))

	assert.Equal(t, backendTemplate, readFile(t, filepath.Join(root, "src", "backend", "Dockerfile.tpl")))
	assert.Equal(t,
		"FROM jupyter/base-notebook:{{JUPYTER_BASE_NOTEBOOK_VERSION}}\n",
		readFile(t, filepath.Join(root, "src", "jupyterhub", "Dockerfile.tpl")))

	_, err = os.Stat(filepath.Join(root, "src", "frontend", "dockerfile.tpl"))
	assert.True(t, os.IsNotExist(err), "basename match is case-sensitive")
	_, err = os.Stat(filepath.Join(root, "src", "frontend", "Dockerfile.dev.tpl"))
	assert.True(t, os.IsNotExist(err))

	// The source Dockerfiles are left alone.
	assert.Equal(t, backendDockerfile, readFile(t, filepath.Join(root, "src", "backend", "Dockerfile")))
}

func TestBuilderRunTwiceIsUnchanged(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Dockerfile"), backendDockerfile)
	b := NewBuilder(NewDefaultTransformer())

	_, err := b.Run(root)
	require.NoError(t, err)
	first := readFile(t, filepath.Join(root, "Dockerfile.tpl"))

	report, err := b.Run(root)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusUnchanged, report.Results[0].Status)
	assert.Equal(t, first, readFile(t, filepath.Join(root, "Dockerfile.tpl")))
}

func TestBuilderRunDryRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "svc", "Dockerfile"), "ARG GITEA_VERSION=1.21\n")

	report, err := NewBuilder(NewDefaultTransformer()).WithDryRun(true).Run(root)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusPlanned, report.Results[0].Status)
	assert.Equal(t, []string{"GITEA_VERSION"}, report.Results[0].Args)

	_, err = os.Stat(filepath.Join(root, "svc", "Dockerfile.tpl"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuilderRunNoDockerfiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "README.md"), "# nothing here\n")

	report, err := NewBuilder(NewDefaultTransformer()).Run(root)
	require.NoError(t, err)
	assert.Empty(t, report.Results)
}

func TestBuilderRunMissingRoot(t *testing.T) {
	_, err := NewBuilder(NewDefaultTransformer()).Run(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)

	var inputErr *tplerrors.InputError
	assert.True(t, errors.As(err, &inputErr))
	assert.Contains(t, err.Error(), "root directory not found")
}

func TestBuilderRunRootIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Dockerfile")
	writeFile(t, path, "FROM ubuntu:22.04\n")

	_, err := NewBuilder(NewDefaultTransformer()).Run(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestBuilderSkipsInvalidUTF8AndContinues(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "Dockerfile"), string([]byte{0xff, 0xfe, 0x00}))
	writeFile(t, filepath.Join(root, "b", "Dockerfile"), "FROM ubuntu:22.04\n")

	report, err := NewBuilder(NewDefaultTransformer()).Run(root)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)

	assert.Equal(t, StatusSkipped, report.Results[0].Status)
	assert.Error(t, report.Results[0].Err)
	assert.Equal(t, StatusWritten, report.Results[1].Status)
	assert.Equal(t, "FROM ubuntu:{{UBUNTU_VERSION}}\n", readFile(t, filepath.Join(root, "b", "Dockerfile.tpl")))
}

func TestBuilderSkipsUnwritableTemplate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "Dockerfile"), "FROM ubuntu:22.04\n")
	// A directory squatting on the template path makes the rename fail.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "Dockerfile.tpl", "occupied"), 0o755))
	writeFile(t, filepath.Join(root, "b", "Dockerfile"), "FROM ubuntu:22.04\n")

	report, err := NewBuilder(NewDefaultTransformer()).Run(root)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.Equal(t, StatusSkipped, report.Results[0].Status)
	assert.Equal(t, StatusWritten, report.Results[1].Status)
}

func TestBuilderSkipsSymlinkEscapingRoot(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(t.TempDir(), "Dockerfile")
	writeFile(t, outside, "FROM ubuntu:22.04\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "linked"), 0o755))
	if err := os.Symlink(outside, filepath.Join(root, "linked", "Dockerfile")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	report, err := NewBuilder(NewDefaultTransformer()).Run(root)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusSkipped, report.Results[0].Status)
	assert.True(t, errors.Is(report.Results[0].Err, pathutil.ErrOutsideRoot))

	_, err = os.Stat(outside + TemplateSuffix)
	assert.True(t, os.IsNotExist(err))
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "written", StatusWritten.String())
	assert.Equal(t, "unchanged", StatusUnchanged.String())
	assert.Equal(t, "planned", StatusPlanned.String())
	assert.Equal(t, "skipped", StatusSkipped.String())
	assert.Equal(t, "Status(42)", Status(42).String())
}
