package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/catalog/internal/catalog"
	"github.com/conduit-lang/catalog/internal/cli/ui"
)

func newFunctionsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "functions",
		Aliases: []string{"function", "fn"},
		Short:   "List, add, edit and delete functions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list COMPONENT_ID",
		Short: "List the functions of a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			componentID, err := parseID("component", args[0])
			if err != nil {
				return err
			}
			api, err := a.api()
			if err != nil {
				return err
			}
			functions, err := api.ListFunctions(cmd.Context(), componentID)
			if err != nil {
				return err
			}
			ui.RenderFunctions(cmd.OutOrStdout(), functions, a.noColor)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show FUNCTION_ID",
		Short: "Show a function's signature and parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			functionID, err := parseID("function", args[0])
			if err != nil {
				return err
			}
			api, err := a.api()
			if err != nil {
				return err
			}
			fn, err := api.GetFunction(cmd.Context(), functionID)
			if err != nil {
				return err
			}
			ui.RenderFunction(cmd.OutOrStdout(), fn.Name, *fn, fn.Parameters, nil, a.noColor)
			return nil
		},
	})

	cmd.AddCommand(newFunctionAddCommand(a))
	cmd.AddCommand(newFunctionDeleteCommand(a))
	cmd.AddCommand(newFunctionEditCommand(a))
	return cmd
}

func newFunctionAddCommand(a *app) *cobra.Command {
	var (
		name   string
		params []string
	)
	cmd := &cobra.Command{
		Use:   "add COMPONENT_ID",
		Short: "Add a function with its full parameter list",
		Example: `  catalog functions add 3 --name send_message \
    --param "name=channel,type=string,desc=target channel,pos=0" \
    --param "name=text,type=string,desc=message body,pos=1" \
    --param "name=ok,type=boolean,desc=delivered,return=true"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			componentID, err := parseID("component", args[0])
			if err != nil {
				return err
			}
			if err := a.requireString(&name, "Function name:", "name"); err != nil {
				return err
			}

			fn := catalog.NewFunction{Name: name, Parameters: make([]catalog.Parameter, 0, len(params))}
			for _, spec := range params {
				p, err := parseParameter(spec)
				if err != nil {
					return err
				}
				fn.Parameters = append(fn.Parameters, p)
			}

			ed, err := a.editor(cmd)
			if err != nil {
				return err
			}
			functions, err := ed.Creator.Add(cmd.Context(), componentID, fn)
			if err != nil {
				return reported(err)
			}
			ui.RenderFunctions(cmd.OutOrStdout(), functions, a.noColor)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "function name")
	cmd.Flags().StringArrayVar(&params, "param", nil, "parameter as key=value pairs (repeatable); keys: "+assignmentKeys)
	return cmd
}

func newFunctionDeleteCommand(a *app) *cobra.Command {
	var (
		componentID int64
		yes         bool
	)
	cmd := &cobra.Command{
		Use:   "delete FUNCTION_ID",
		Short: "Delete a function and all its parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			functionID, err := parseID("function", args[0])
			if err != nil {
				return err
			}
			ed, err := a.editor(cmd)
			if err != nil {
				return err
			}
			if componentID <= 0 {
				fn, err := ed.Store.GetFunction(cmd.Context(), functionID)
				if err != nil {
					return err
				}
				componentID = fn.ComponentID
			}

			ok, err := a.confirm(fmt.Sprintf("Delete function %d?", functionID), yes)
			if err != nil || !ok {
				return err
			}
			functions, err := ed.Deletion.RemoveFunction(cmd.Context(), componentID, functionID)
			if err != nil {
				return reported(err)
			}
			ui.RenderFunctions(cmd.OutOrStdout(), functions, a.noColor)
			return nil
		},
	}
	cmd.Flags().Int64Var(&componentID, "component", 0, "component owning the function (looked up when omitted)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// assignment is one field=value pair from the command line
type assignment struct {
	field catalog.Field
	raw   string
}

const assignmentKeys = "name, type, desc, multi, return, default, path, pos"

var fieldAliases = map[string]string{
	"desc":     "description",
	"multi":    "is_multiple_values",
	"multiple": "is_multiple_values",
	"return":   "is_return_value",
	"ret":      "is_return_value",
	"pos":      "position_in_signature",
	"position": "position_in_signature",
}

func parseFieldName(name string) (catalog.Field, error) {
	name = strings.TrimSpace(strings.ToLower(name))
	if full, ok := fieldAliases[name]; ok {
		name = full
	}
	return catalog.ParseField(name)
}

// parseAssignments splits "key=value,key=value". Values may not contain
// commas.
func parseAssignments(spec string) ([]assignment, error) {
	var out []assignment
	for _, part := range strings.Split(spec, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		key, raw, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("invalid parameter field %q: expected key=value", part)
		}
		field, err := parseFieldName(key)
		if err != nil {
			return nil, err
		}
		out = append(out, assignment{field: field, raw: strings.TrimSpace(raw)})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty parameter %q", spec)
	}
	return out, nil
}

func parseParameter(spec string) (catalog.Parameter, error) {
	var p catalog.Parameter
	assignments, err := parseAssignments(spec)
	if err != nil {
		return p, err
	}
	for _, as := range assignments {
		if err := p.SetFromString(as.field, as.raw); err != nil {
			return p, err
		}
	}
	return p, nil
}

// parseSetSpec parses "INDEX.field=value" where INDEX is the row number
// shown by "functions show".
func parseSetSpec(spec string) (int, assignment, error) {
	target, raw, ok := strings.Cut(spec, "=")
	if !ok {
		return 0, assignment{}, fmt.Errorf("invalid --set %q: expected INDEX.field=value", spec)
	}
	idx, key, ok := strings.Cut(target, ".")
	if !ok {
		return 0, assignment{}, fmt.Errorf("invalid --set %q: expected INDEX.field=value", spec)
	}
	index, err := strconv.Atoi(strings.TrimSpace(idx))
	if err != nil || index < 0 {
		return 0, assignment{}, fmt.Errorf("invalid row index %q", idx)
	}
	field, err := parseFieldName(key)
	if err != nil {
		return 0, assignment{}, err
	}
	return index, assignment{field: field, raw: raw}, nil
}
