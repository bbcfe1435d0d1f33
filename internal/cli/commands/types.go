package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/catalog/internal/cli/ui"
)

func newTypesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List and register parameter types",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the registered parameter types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			types, err := api.ListParameterTypes(cmd.Context())
			if err != nil {
				return err
			}
			ui.RenderTypes(cmd.OutOrStdout(), types, a.noColor)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add TYPE",
		Short: "Register a parameter type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			types, err := api.AddParameterType(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Registered type %q (%d types)", args[0], len(types)), a.noColor)
			return nil
		},
	})

	return cmd
}
