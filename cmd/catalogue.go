package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/ai-infra-matrix/matrix-tpl/internal/errors"
	"github.com/ai-infra-matrix/matrix-tpl/internal/ui"
)

var catalogueCmd = &cobra.Command{
	Use:   "catalogue",
	Short: "List the ARG catalogue and FROM overrides used by dockerfiles-to-tpl",
	Long: `List the effective substitution catalogue and FROM override table:
the built-in entries followed by any added in the config file under
dockerfile.catalogue and dockerfile.from_overrides.`,
	Args: exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCatalogue(cmd.OutOrStdout())
	},
}

func runCatalogue(w io.Writer) error {
	transformer, err := newTransformer(activeConfig())
	if err != nil {
		return errors.NewRuntimeError("invalid dockerfile configuration", err)
	}

	var rows [][]string
	for _, name := range transformer.Catalogue() {
		rows = append(rows, []string{"ARG", name, "ARG " + name + "={{" + name + "}}"})
	}
	for _, o := range transformer.Overrides() {
		rows = append(rows, []string{"FROM", o.Old, "FROM " + o.New})
	}
	return ui.PrintTable(w, []string{"KIND", "MATCH", "REWRITTEN TO"}, rows)
}
