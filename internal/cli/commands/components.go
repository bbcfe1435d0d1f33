package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/catalog/internal/catalog"
	"github.com/conduit-lang/catalog/internal/cli/ui"
)

func newComponentsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "components",
		Aliases: []string{"component", "comp"},
		Short:   "List and manage components",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every component",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			components, err := api.ListComponents(cmd.Context())
			if err != nil {
				return err
			}
			ui.RenderComponents(cmd.OutOrStdout(), components, a.noColor)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show COMPONENT_ID",
		Short: "Show a component and its functions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("component", args[0])
			if err != nil {
				return err
			}
			api, err := a.api()
			if err != nil {
				return err
			}
			detail, err := api.GetComponent(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			kv := ui.NewKeyValueTable(out, a.noColor)
			kv.AddRow("ID", strconv.FormatInt(detail.ID, 10))
			kv.AddRow("Name", detail.Name)
			kv.AddRow("Description", detail.Description)
			kv.AddRow("Functions", strconv.Itoa(len(detail.Functions)))
			kv.Render()
			if len(detail.Functions) > 0 {
				fmt.Fprintln(out)
				ui.RenderFunctions(out, detail.Functions, a.noColor)
			}
			return nil
		},
	})

	cmd.AddCommand(newComponentCreateCommand(a))
	cmd.AddCommand(newComponentUpdateCommand(a))
	cmd.AddCommand(newComponentDeleteCommand(a))
	return cmd
}

func newComponentCreateCommand(a *app) *cobra.Command {
	var in catalog.ComponentInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a component",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireString(&in.Name, "Component name:", "name"); err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}
			api, err := a.api()
			if err != nil {
				return err
			}
			c, err := api.CreateComponent(cmd.Context(), in)
			if err != nil {
				return err
			}
			ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Created component %d (%s)", c.ID, c.Name), a.noColor)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "component name")
	cmd.Flags().StringVar(&in.Description, "description", "", "component description")
	return cmd
}

func newComponentUpdateCommand(a *app) *cobra.Command {
	var in catalog.ComponentInput
	cmd := &cobra.Command{
		Use:   "update COMPONENT_ID",
		Short: "Change a component's name or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("component", args[0])
			if err != nil {
				return err
			}
			api, err := a.api()
			if err != nil {
				return err
			}

			current, err := api.GetComponent(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") {
				in.Name = current.Name
			}
			if !cmd.Flags().Changed("description") {
				in.Description = current.Description
			}
			if err := in.Validate(); err != nil {
				return err
			}

			c, err := api.UpdateComponent(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Updated component %d (%s)", c.ID, c.Name), a.noColor)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "new component name")
	cmd.Flags().StringVar(&in.Description, "description", "", "new component description")
	return cmd
}

func newComponentDeleteCommand(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete COMPONENT_ID",
		Short: "Delete a component with all its functions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("component", args[0])
			if err != nil {
				return err
			}
			ok, err := a.confirm(fmt.Sprintf("Delete component %d and all of its functions?", id), yes)
			if err != nil || !ok {
				return err
			}
			api, err := a.api()
			if err != nil {
				return err
			}
			if err := api.DeleteComponent(cmd.Context(), id); err != nil {
				return err
			}
			ui.WriteSuccess(cmd.OutOrStdout(), fmt.Sprintf("Deleted component %d", id), a.noColor)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
