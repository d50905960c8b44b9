package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ai-infra-matrix/matrix-tpl/internal/compose"
	"github.com/ai-infra-matrix/matrix-tpl/internal/config"
	"github.com/ai-infra-matrix/matrix-tpl/internal/errors"
	"github.com/ai-infra-matrix/matrix-tpl/internal/ui"
)

var (
	patchRestart   bool
	patchEnvVolume bool
	patchEnvVar    bool
	patchValidate  bool
)

var composePatchCmd = &cobra.Command{
	Use:   "compose-patch --restart | --env-volume | --env-var INPUT OUTPUT SERVICE_NAME",
	Short: "Idempotently patch one service of a compose file",
	Long: `Load the compose file INPUT, edit the service SERVICE_NAME and write the
result to OUTPUT. Key order and unicode text are preserved; comments are not.

Patches (at least one is required, several may be combined):
  --restart     set restart to "no"
  --env-volume  ensure ./.env.prod:/app/.env:ro is mounted
  --env-var     ensure ENV_FILE=/app/.env in environment

Every patch is idempotent: running the command on its own output changes
nothing.`,
	Example: `  # Stop the init container from restarting
  matrix-tpl compose-patch --restart docker-compose.yml docker-compose.yml backend-init

  # Mount the production env file and point ENV_FILE at it
  matrix-tpl compose-patch --env-volume --env-var docker-compose.yml build/docker-compose.yml backend-init`,
	Args: exactArgs(3),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if !patchRestart && !patchEnvVolume && !patchEnvVar {
			return errors.NewUsageError("one of --restart, --env-volume or --env-var is required", cmd.UseLine())
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runComposePatch(cmd.Context(), args[0], args[1], args[2])
	},
}

func runComposePatch(ctx context.Context, input, output, service string) error {
	f, err := compose.Load(input)
	if err != nil {
		return err
	}

	changed, err := f.Apply(service, selectedPatches(activeConfig())...)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	if patchValidate {
		data, err := f.Encode()
		if err != nil {
			return errors.NewRuntimeError("failed to encode compose file", err)
		}
		if err := compose.Validate(ctx, data, filepath.Dir(input)); err != nil {
			return errors.NewRuntimeError("patched compose file is invalid", err)
		}
		ui.Debug("compose-go accepted the patched document")
	}

	if err := f.Write(output); err != nil {
		return err
	}

	if len(changed) == 0 {
		ui.Success("service %s already patched; wrote %s", service, output)
	} else {
		ui.Success("patched service %s (%s); wrote %s", service, strings.Join(changed, ", "), output)
	}
	return nil
}

// selectedPatches returns the requested patches in their fixed order.
func selectedPatches(c *config.Config) []compose.Patch {
	var patches []compose.Patch
	if patchRestart {
		patches = append(patches, compose.RestartPatch{})
	}
	if patchEnvVolume {
		patches = append(patches, compose.EnvVolumePatch{Volume: c.Compose.EnvVolume})
	}
	if patchEnvVar {
		patches = append(patches, compose.EnvVarPatch{Key: compose.DefaultEnvFileKey, Value: c.Compose.EnvFileValue})
	}
	return patches
}

func init() {
	composePatchCmd.Flags().BoolVar(&patchRestart, "restart", false, `Set restart to "no"`)
	composePatchCmd.Flags().BoolVar(&patchEnvVolume, "env-volume", false, "Mount the production env file into the service")
	composePatchCmd.Flags().BoolVar(&patchEnvVar, "env-var", false, "Point ENV_FILE at the mounted env file")
	composePatchCmd.Flags().BoolVar(&patchValidate, "validate", false, "Check the patched document with compose-go before writing")
}
