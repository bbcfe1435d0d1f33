package commands

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
)

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// requireString prompts for a missing required value on a terminal and
// fails naming the flag otherwise.
func (a *app) requireString(value *string, message, flag string) error {
	if *value != "" {
		return nil
	}
	if !a.interactive() {
		return fmt.Errorf("--%s is required", flag)
	}
	return survey.AskOne(&survey.Input{Message: message}, value, survey.WithValidator(survey.Required))
}

// confirm asks a yes/no question. yes short-circuits to true; without a
// terminal the answer is no.
func (a *app) confirm(message string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !a.interactive() {
		return false, fmt.Errorf("refusing to continue without confirmation (use --yes)")
	}
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: message}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}
