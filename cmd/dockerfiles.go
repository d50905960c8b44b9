package cmd

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ai-infra-matrix/matrix-tpl/internal/config"
	"github.com/ai-infra-matrix/matrix-tpl/internal/dockertpl"
	"github.com/ai-infra-matrix/matrix-tpl/internal/errors"
	"github.com/ai-infra-matrix/matrix-tpl/internal/ui"
)

var dockerfilesDryRun bool

var dockerfilesCmd = &cobra.Command{
	Use:   "dockerfiles-to-tpl ROOT_DIR",
	Short: "Generate Dockerfile.tpl templates for every Dockerfile under a directory",
	Long: `Walk ROOT_DIR and write a Dockerfile.tpl next to every file named exactly
"Dockerfile".

In the template, ARG lines for catalogue variables become ARG NAME={{NAME}}
and known hard-coded base images are replaced by their templated form. Run
"matrix-tpl catalogue" to see both tables. Files that cannot be read or
written are reported and skipped; the walk continues.`,
	Example: `  # Template every Dockerfile in the repository
  matrix-tpl dockerfiles-to-tpl .

  # Show what would change without writing
  matrix-tpl dockerfiles-to-tpl --dry-run src/`,
	Args: exactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDockerfiles(cmd.OutOrStdout(), args[0])
	},
}

func runDockerfiles(w io.Writer, root string) error {
	transformer, err := newTransformer(activeConfig())
	if err != nil {
		return errors.NewRuntimeError("invalid dockerfile configuration", err)
	}

	report, err := dockertpl.NewBuilder(transformer).WithDryRun(dockerfilesDryRun).Run(root)
	if err != nil {
		return err
	}

	if len(report.Results) == 0 {
		ui.Info("no Dockerfile found under %s", root)
		return nil
	}

	var rows [][]string
	for _, res := range report.Results {
		switch res.Status {
		case dockertpl.StatusSkipped:
			ui.Warn("skipping %s: %v", res.Path, res.Err)
		case dockertpl.StatusWritten:
			ui.Debug("wrote %s", res.Template)
		case dockertpl.StatusPlanned:
			ui.Debug("would write %s", res.Template)
		case dockertpl.StatusUnchanged:
			ui.Debug("%s is up to date", res.Template)
		}
		rows = append(rows, []string{relPath(root, res.Path), res.Status.String(), strings.Join(res.Args, ","), overrideNames(res.Froms)})
	}

	if ui.CurrentLevel() <= ui.LevelInfo {
		if err := ui.PrintTable(w, []string{"DOCKERFILE", "STATUS", "ARGS", "FROM"}, rows); err != nil {
			return errors.NewRuntimeError("failed to print summary", err)
		}
	}

	ui.Success("%d written, %d unchanged, %d planned, %d skipped",
		report.Count(dockertpl.StatusWritten),
		report.Count(dockertpl.StatusUnchanged),
		report.Count(dockertpl.StatusPlanned),
		report.Count(dockertpl.StatusSkipped))
	return nil
}

// newTransformer combines the built-in tables with the configured extras.
func newTransformer(c *config.Config) (*dockertpl.Transformer, error) {
	overrides := make([]dockertpl.Override, 0, len(c.Dockerfile.FromOverrides))
	for _, o := range c.Dockerfile.FromOverrides {
		overrides = append(overrides, dockertpl.Override{Old: o.Old, New: o.New})
	}
	return dockertpl.NewTransformer(
		dockertpl.MergeCatalogue(dockertpl.DefaultCatalogue, c.Dockerfile.Catalogue...),
		dockertpl.MergeOverrides(dockertpl.DefaultOverrides, overrides...),
	)
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

func overrideNames(froms []dockertpl.Override) string {
	names := make([]string, 0, len(froms))
	for _, o := range froms {
		names = append(names, o.Old)
	}
	return strings.Join(names, ",")
}

func init() {
	dockerfilesCmd.Flags().BoolVar(&dockerfilesDryRun, "dry-run", false, "Report what would be written without writing")
}
