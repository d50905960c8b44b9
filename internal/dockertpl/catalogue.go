package dockertpl

// DefaultCatalogue lists the ARG names rewritten to {{NAME}} form.
var DefaultCatalogue = []string{
	"GOLANG_ALPINE_VERSION",
	"GOLANG_VERSION",
	"NODE_ALPINE_VERSION",
	"NGINX_VERSION",
	"NGINX_ALPINE_VERSION",
	"UBUNTU_VERSION",
	"SLURM_VERSION",
	"ALPINE_MIRROR",
	"GO_PROXY",
	"NPM_REGISTRY",
	"APT_MIRROR",
	"YUM_MIRROR",
	"PIP_VERSION",
	"PYPI_INDEX_URL",
	"HAPROXY_VERSION",
	"SALTSTACK_VERSION",
	"CATEGRAF_VERSION",
	"SINGULARITY_VERSION",
	"PYTHON_ALPINE_VERSION",
	"GITEA_VERSION",
	"JUPYTER_BASE_NOTEBOOK_VERSION",
	"ROCKYLINUX_VERSION",
	"ALPINE_VERSION",
}

// Override maps a hard-coded base image reference to its templated form.
// The match is a literal substring "FROM " + Old; comments and AS aliases on
// the same line are not considered.
type Override struct {
	Old string
	New string
}

// DefaultOverrides is the built-in FROM override table.
var DefaultOverrides = []Override{
	{Old: "ubuntu:22.04", New: "ubuntu:{{UBUNTU_VERSION}}"},
	{Old: "jupyter/base-notebook:latest", New: "jupyter/base-notebook:{{JUPYTER_BASE_NOTEBOOK_VERSION}}"},
}

// MergeCatalogue appends extra names to base, dropping duplicates while
// keeping first-seen order.
func MergeCatalogue(base []string, extra ...string) []string {
	merged := make([]string, 0, len(base)+len(extra))
	seen := make(map[string]bool, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, name := range list {
			if seen[name] {
				continue
			}
			seen[name] = true
			merged = append(merged, name)
		}
	}
	return merged
}

// MergeOverrides appends extra overrides to base. An extra entry with the
// same Old as an earlier one replaces it in place.
func MergeOverrides(base []Override, extra ...Override) []Override {
	merged := append([]Override(nil), base...)
	for _, o := range extra {
		replaced := false
		for i := range merged {
			if merged[i].Old == o.Old {
				merged[i] = o
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, o)
		}
	}
	return merged
}
