package compose

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"gopkg.in/yaml.v3"
)

// validationProject is the project name handed to compose-go; the loader
// requires one but it never reaches the output.
const validationProject = "matrix-tpl-validate"

// Validate loads content through compose-go to confirm it is still a valid
// compose project. Relative paths are resolved against workingDir; nothing
// is read from disk beyond what compose-go itself needs.
func Validate(ctx context.Context, content []byte, workingDir string) error {
	var dict map[string]interface{}
	if err := yaml.Unmarshal(content, &dict); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if dict == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidProject)
	}

	if workingDir == "" {
		workingDir = "."
	}
	abs, err := filepath.Abs(workingDir)
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	_, err = loader.LoadWithContext(ctx, types.ConfigDetails{
		WorkingDir: abs,
		ConfigFiles: []types.ConfigFile{
			{
				Filename: filepath.Join(abs, "compose.yaml"),
				Content:  content,
				Config:   dict,
			},
		},
		Environment: types.Mapping{},
	}, func(opts *loader.Options) {
		opts.SetProjectName(validationProject, false)
		opts.SkipNormalization = true
		opts.SkipExtends = true
		opts.SkipResolveEnvironment = true
	})
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidProject, strings.TrimSpace(err.Error()))
	}
	return nil
}
