package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/catalog/internal/catalog"
	"github.com/conduit-lang/catalog/internal/cli/ui"
	"github.com/conduit-lang/catalog/internal/editor"
)

type editOptions struct {
	name    string
	sets    []string
	adds    []string
	removes []int
}

func (o editOptions) empty(cmd *cobra.Command) bool {
	return !cmd.Flags().Changed("name") && len(o.sets) == 0 && len(o.adds) == 0 && len(o.removes) == 0
}

func newFunctionEditCommand(a *app) *cobra.Command {
	var opts editOptions
	cmd := &cobra.Command{
		Use:   "edit FUNCTION_ID",
		Short: "Edit a function's name and parameters",
		Long: `Edit a function's name and parameters.

Row indices are the "#" column of "catalog functions show". Changes are
applied in order: rename, field edits, removals, additions. Only rows that
changed are sent on save. Removing a saved parameter deletes it right
away.

Without flags on a terminal, an interactive editor is started.`,
		Example: `  catalog functions edit 10 --set 0.default=42 --set 1.type=string
  catalog functions edit 10 --remove 2 --add "name=limit,type=integer,desc=maximum rows,pos=3"
  catalog functions edit 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			functionID, err := parseID("function", args[0])
			if err != nil {
				return err
			}
			if opts.empty(cmd) && !a.interactive() {
				return fmt.Errorf("nothing to change: pass --name, --set, --add or --remove")
			}

			ed, err := a.editor(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			sess, err := ed.Open(ctx, functionID)
			if err != nil {
				return reported(err)
			}
			stop := sess.CancelOnDone(ctx)
			defer stop()

			sess.BeginEdit()
			if opts.empty(cmd) {
				return a.editInteractive(ctx, cmd.OutOrStdout(), ed, sess)
			}
			if err := applyEdits(ctx, ed, sess, opts, cmd.Flags().Changed("name")); err != nil {
				return err
			}

			fn, err := ed.Reconciler.SaveAndClose(ctx, sess)
			if err != nil {
				return editorError(err)
			}
			ui.RenderFunction(cmd.OutOrStdout(), fn.Name, *fn, fn.Parameters, nil, a.noColor)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.name, "name", "", "new function name")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "set a field as INDEX.field=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.adds, "add", nil, "add a parameter as key=value pairs (repeatable); keys: "+assignmentKeys)
	cmd.Flags().IntSliceVar(&opts.removes, "remove", nil, "remove the parameter at INDEX (repeatable)")
	return cmd
}

// applyEdits runs the flag edits against an editing session. Removals go in
// descending index order so earlier indices stay valid.
func applyEdits(ctx context.Context, ed *editor.Editor, sess *editor.Session, opts editOptions, rename bool) error {
	if rename {
		if err := sess.EditName(opts.name); err != nil {
			return err
		}
	}

	for _, spec := range opts.sets {
		index, as, err := parseSetSpec(spec)
		if err != nil {
			return err
		}
		if err := sess.EditFieldString(index, as.field, as.raw); err != nil {
			return err
		}
	}

	removes := append([]int(nil), opts.removes...)
	sort.Sort(sort.Reverse(sort.IntSlice(removes)))
	for i, index := range removes {
		if i > 0 && index == removes[i-1] {
			continue
		}
		if err := ed.Deletion.RemoveParameter(ctx, sess, index); err != nil {
			return editorError(err)
		}
	}

	for _, spec := range opts.adds {
		assignments, err := parseAssignments(spec)
		if err != nil {
			return err
		}
		index, err := sess.AddParameter()
		if err != nil {
			return err
		}
		for _, as := range assignments {
			if err := sess.EditFieldString(index, as.field, as.raw); err != nil {
				return err
			}
		}
	}
	return nil
}

const (
	actionEdit   = "Edit a field"
	actionAdd    = "Add a parameter"
	actionRemove = "Remove a parameter"
	actionRename = "Rename function"
	actionSave   = "Save"
	actionCancel = "Cancel"
)

// editInteractive drives the session from survey prompts until the draft is
// saved or the edit is cancelled. A failed save keeps the draft for another
// try.
func (a *app) editInteractive(ctx context.Context, out io.Writer, ed *editor.Editor, sess *editor.Session) error {
	for {
		if ctx.Err() != nil || sess.State() != editor.StateEditing {
			fmt.Fprintln(out, "Edit cancelled")
			return ctx.Err()
		}
		ui.RenderFunction(out, sess.DraftName(), sess.Function(), sess.Parameters(), sess.DirtyIndices(), a.noColor)
		fmt.Fprintln(out)

		var action string
		err := survey.AskOne(&survey.Select{
			Message: "What next?",
			Options: []string{actionEdit, actionAdd, actionRemove, actionRename, actionSave, actionCancel},
		}, &action)
		if err != nil && !errors.Is(err, terminal.InterruptErr) {
			return err
		}
		if err == nil {
			err = a.runEditAction(ctx, out, ed, sess, action)
		}

		switch {
		case errors.Is(err, terminal.InterruptErr):
			sess.CancelEdit()
			fmt.Fprintln(out, "Edit cancelled")
			return nil
		case errors.Is(err, errEditDone):
			return nil
		case err != nil:
			// The notifier already printed editor failures.
			var r *reportedError
			if !errors.As(err, &r) {
				ui.WriteError(out, ui.ErrorOptions{Context: action, Problem: err.Error(), NoColor: a.noColor})
			}
		}
	}
}

var errEditDone = errors.New("edit done")

// editorError marks err as reported unless it is a session state error,
// which the editor returns without notifying.
func editorError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, editor.ErrNotEditing),
		errors.Is(err, editor.ErrIndexOutOfRange),
		errors.Is(err, editor.ErrSaveInProgress):
		return err
	}
	return reported(err)
}

func (a *app) runEditAction(ctx context.Context, out io.Writer, ed *editor.Editor, sess *editor.Session, action string) error {
	switch action {
	case actionEdit:
		index, err := askRow(sess, "Which parameter?")
		if err != nil {
			return err
		}
		names := make([]string, 0, len(catalog.Fields()))
		for _, f := range catalog.Fields() {
			names = append(names, f.String())
		}
		var name string
		if err := survey.AskOne(&survey.Select{Message: "Which field?", Options: names}, &name); err != nil {
			return err
		}
		field, err := catalog.ParseField(name)
		if err != nil {
			return err
		}
		p := sess.Parameters()[index]
		raw, err := askFieldValue(sess, field, fieldString(&p, field))
		if err != nil {
			return err
		}
		return sess.EditFieldString(index, field, raw)

	case actionAdd:
		index, err := sess.AddParameter()
		if err != nil {
			return err
		}
		var name string
		if err := survey.AskOne(&survey.Input{Message: "Parameter name:"}, &name); err != nil {
			return err
		}
		if err := sess.EditFieldString(index, catalog.FieldName, name); err != nil {
			return err
		}
		tag, err := askFieldValue(sess, catalog.FieldParamType, "")
		if err != nil {
			return err
		}
		return sess.EditFieldString(index, catalog.FieldParamType, tag)

	case actionRemove:
		index, err := askRow(sess, "Remove which parameter?")
		if err != nil {
			return err
		}
		ok, err := a.confirm(fmt.Sprintf("Remove parameter #%d?", index), false)
		if err != nil || !ok {
			return err
		}
		return editorError(ed.Deletion.RemoveParameter(ctx, sess, index))

	case actionRename:
		name := sess.DraftName()
		if err := survey.AskOne(&survey.Input{Message: "Function name:", Default: name}, &name); err != nil {
			return err
		}
		return sess.EditName(name)

	case actionSave:
		fn, err := ed.Reconciler.SaveAndClose(ctx, sess)
		if err != nil {
			return editorError(err)
		}
		ui.RenderFunction(out, fn.Name, *fn, fn.Parameters, nil, a.noColor)
		return errEditDone

	case actionCancel:
		sess.CancelEdit()
		fmt.Fprintln(out, "Edit cancelled")
		return errEditDone
	}
	return fmt.Errorf("unknown action %q", action)
}

func askRow(sess *editor.Session, message string) (int, error) {
	params := sess.Parameters()
	if len(params) == 0 {
		return 0, fmt.Errorf("function has no parameters")
	}
	options := make([]string, len(params))
	for i, p := range params {
		options[i] = fmt.Sprintf("#%d %s", i, p.Name)
	}
	var index int
	err := survey.AskOne(&survey.Select{Message: message, Options: options}, &index)
	return index, err
}

// askFieldValue prompts for a field value. Types are chosen from the
// session's registry when one was loaded.
func askFieldValue(sess *editor.Session, field catalog.Field, current string) (string, error) {
	value := current
	switch {
	case field == catalog.FieldParamType && sess.Types() != nil && sess.Types().Len() > 0:
		prompt := &survey.Select{Message: "Type:", Options: sess.Types().Sorted()}
		if current != "" && sess.Types().Contains(current) {
			prompt.Default = current
		}
		err := survey.AskOne(prompt, &value)
		return value, err
	case field == catalog.FieldIsMultipleValues || field == catalog.FieldIsReturnValue:
		b, _ := strconv.ParseBool(current)
		err := survey.AskOne(&survey.Confirm{Message: field.String() + "?", Default: b}, &b)
		return strconv.FormatBool(b), err
	default:
		err := survey.AskOne(&survey.Input{Message: field.String() + ":", Default: current}, &value)
		return value, err
	}
}

func fieldString(p *catalog.Parameter, field catalog.Field) string {
	v, err := p.Get(field)
	if err != nil {
		return ""
	}
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case *string:
		if v != nil {
			return *v
		}
	case *int:
		if v != nil {
			return strconv.Itoa(*v)
		}
	}
	return ""
}
