package dockertpl

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	tplerrors "github.com/ai-infra-matrix/matrix-tpl/internal/errors"
	"github.com/ai-infra-matrix/matrix-tpl/internal/pathutil"
)

const (
	// DockerfileName is the exact, case-sensitive basename that is processed.
	DockerfileName = "Dockerfile"
	// TemplateSuffix is appended to a Dockerfile path to form its template path.
	TemplateSuffix = ".tpl"
)

// Status is the outcome for one discovered Dockerfile.
type Status int

const (
	// StatusWritten means the template was (re)written.
	StatusWritten Status = iota
	// StatusUnchanged means an identical template already existed.
	StatusUnchanged
	// StatusPlanned means the template would be written (dry run).
	StatusPlanned
	// StatusSkipped means the Dockerfile could not be processed; see Err.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusUnchanged:
		return "unchanged"
	case StatusPlanned:
		return "planned"
	case StatusSkipped:
		return "skipped"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result records what happened to one Dockerfile.
type Result struct {
	Path     string
	Template string
	Status   Status
	Args     []string
	Froms    []Override
	Err      error
}

// Report collects the results of one Run, in walk order.
type Report struct {
	Root    string
	Results []Result
}

// Count returns the number of results with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Builder walks a directory tree and emits Dockerfile.tpl siblings.
type Builder struct {
	transformer *Transformer
	dryRun      bool
}

// NewBuilder creates a Builder that rewrites with t.
func NewBuilder(t *Transformer) *Builder {
	return &Builder{transformer: t}
}

// WithDryRun makes Run compute results without writing any file.
func (b *Builder) WithDryRun(dryRun bool) *Builder {
	b.dryRun = dryRun
	return b
}

// Run walks root. Only a missing or unreadable root is returned as an error;
// problems with individual files become StatusSkipped results and the walk
// continues. Finding no Dockerfile at all is not an error.
func (b *Builder) Run(root string) (*Report, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, tplerrors.NewInputError(root, "root directory not found", nil)
		}
		return nil, tplerrors.NewInputError(root, "cannot access root directory", err)
	}
	if !info.IsDir() {
		return nil, tplerrors.NewInputError(root, "root is not a directory", nil)
	}

	report := &Report{Root: root}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			report.Results = append(report.Results, Result{Path: path, Status: StatusSkipped, Err: walkErr})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || d.Name() != DockerfileName {
			return nil
		}
		report.Results = append(report.Results, b.process(root, path))
		return nil
	})
	if err != nil {
		return nil, tplerrors.NewInputError(root, "cannot walk root directory", err)
	}
	return report, nil
}

func (b *Builder) process(root, path string) Result {
	res := Result{Path: path, Template: path + TemplateSuffix}

	if err := pathutil.ValidatePath(path, root); err != nil {
		res.Status, res.Err = StatusSkipped, err
		return res
	}
	info, err := os.Stat(path)
	if err != nil {
		res.Status, res.Err = StatusSkipped, fmt.Errorf("stat: %w", err)
		return res
	}
	if !info.Mode().IsRegular() {
		res.Status, res.Err = StatusSkipped, fmt.Errorf("not a regular file")
		return res
	}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Status, res.Err = StatusSkipped, fmt.Errorf("read: %w", err)
		return res
	}
	if !utf8.Valid(data) {
		res.Status, res.Err = StatusSkipped, fmt.Errorf("not valid UTF-8")
		return res
	}

	content := string(data)
	res.Args, res.Froms = b.transformer.Changes(content)
	out := []byte(b.transformer.Transform(content))

	if existing, err := os.ReadFile(res.Template); err == nil && bytes.Equal(existing, out) {
		res.Status = StatusUnchanged
		return res
	}
	if b.dryRun {
		res.Status = StatusPlanned
		return res
	}

	if err := pathutil.WriteFileAtomic(res.Template, out, info.Mode().Perm()); err != nil {
		res.Status, res.Err = StatusSkipped, fmt.Errorf("write %s: %w", res.Template, err)
		return res
	}
	res.Status = StatusWritten
	return res
}
