package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"EXTERNAL_HOST", true},
		{"_PRIVATE", true},
		{"A1", true},
		{"GOLANG_VERSION", true},
		{"external_host", false},
		{"1ABC", false},
		{"WITH-DASH", false},
		{"", false},
		{"Mixed", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidName(tt.name))
		})
	}
}

func TestFromEnviron(t *testing.T) {
	m := FromEnviron([]string{
		"EXTERNAL_HOST=192.168.1.100",
		"EMPTY=",
		"http_proxy=http://proxy",
		"NOEQUALS",
		"WITH_EQUALS=a=b=c",
		"EXTERNAL_HOST=10.0.0.1",
	})

	assert.Equal(t, Map{
		"EXTERNAL_HOST": "10.0.0.1",
		"EMPTY":         "",
		"WITH_EQUALS":   "a=b=c",
	}, m)
}

func TestMerge(t *testing.T) {
	base := Map{"A": "1", "B": "2"}
	merged := base.Merge(Map{"B": "3"}, Map{"C": "4"})

	assert.Equal(t, Map{"A": "1", "B": "3", "C": "4"}, merged)
	assert.Equal(t, "2", base["B"], "merge must not mutate the receiver")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, Map{"C": "", "A": "", "B": ""}.Names())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prod.env")
	content := "# deployment overrides\nEXTERNAL_HOST=192.168.1.100\nNGINX_VERSION=\"1.25.3\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.100", m["EXTERNAL_HOST"])
	assert.Equal(t, "1.25.3", m["NGINX_VERSION"])
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
