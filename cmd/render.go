package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ai-infra-matrix/matrix-tpl/internal/env"
	"github.com/ai-infra-matrix/matrix-tpl/internal/errors"
	"github.com/ai-infra-matrix/matrix-tpl/internal/render"
	"github.com/ai-infra-matrix/matrix-tpl/internal/ui"
)

var (
	renderStrict   bool
	renderEnvFiles []string
)

var renderCmd = &cobra.Command{
	Use:   "render-template TEMPLATE_FILE OUTPUT_FILE",
	Short: "Render {{NAME}} tokens from the environment",
	Long: `Render a template by replacing every {{NAME}} token with the value of
the environment variable NAME.

Tokens whose variable is not set are left in the output verbatim unless
--strict is given. Values from --env-file files are applied first and the
process environment overrides them. The output directory is created when
missing.`,
	Example: `  # Render the nginx config for a host
  EXTERNAL_HOST=192.168.1.100 matrix-tpl render-template nginx.conf.tpl build/nginx.conf

  # Take values from an env file and fail on anything left unresolved
  matrix-tpl render-template --env-file .env.prod --strict nginx.conf.tpl build/nginx.conf`,
	Args: exactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(args[0], args[1])
	},
}

func runRender(templatePath, outputPath string) error {
	vars, err := renderVars()
	if err != nil {
		return err
	}

	strict := renderStrict || activeConfig().Render.Strict
	result, err := render.RenderFile(templatePath, outputPath, vars, render.Options{Strict: strict})
	if err != nil {
		return err
	}

	for _, name := range result.Resolved {
		ui.Debug("%s=%s", name, env.Mask(name, vars[name]))
	}
	for _, name := range result.Unresolved {
		ui.Debug("{{%s}} left unresolved", name)
	}
	ui.Success("rendered %s -> %s (%d substituted, %d unresolved)",
		templatePath, outputPath, len(result.Resolved), len(result.Unresolved))
	return nil
}

// renderVars merges the --env-file files in order, then the process
// environment on top.
func renderVars() (env.Map, error) {
	vars := env.Map{}
	for _, path := range renderEnvFiles {
		fileVars, err := env.LoadFile(path)
		if err != nil {
			return nil, errors.NewInputError(path, "failed to load env file", err)
		}
		vars = vars.Merge(fileVars)
	}
	return vars.Merge(env.FromEnviron(os.Environ())), nil
}

func init() {
	renderCmd.Flags().BoolVar(&renderStrict, "strict", false, "Fail instead of leaving unresolved {{NAME}} tokens")
	renderCmd.Flags().StringArrayVar(&renderEnvFiles, "env-file", nil, "Read variables from a dotenv file (repeatable)")
}
