// Package cli is the interactive surface of the tutor manager: the prompts
// asking for field values, the fill callbacks bound to each repository and
// the menus routing the user's choices.
package cli

import (
	"errors"
	"io"

	"github.com/manifoldco/promptui"
)

// ErrCancelled is returned when the user interrupts a prompt (Ctrl+C or
// end of input).
var ErrCancelled = errors.New("operation cancelled")

// Prompter asks the user for values.
//
// Text shows label with def pre-filled and keeps asking until check accepts
// the answer. Select returns the index of the chosen item.
type Prompter interface {
	Text(label, def string, check func(string) error) (string, error)
	Select(label string, items []string) (int, error)
}

// PromptUI is the terminal Prompter.
type PromptUI struct {
	// Size is the number of items visible at once in a selection.
	Size int

	// Stdin and Stdout default to the process streams when nil.
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

var _ Prompter = (*PromptUI)(nil)

// NewPromptUI returns a PromptUI on the process streams.
func NewPromptUI() *PromptUI {
	return &PromptUI{Size: 10}
}

func (p *PromptUI) Text(label, def string, check func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		AllowEdit: true,
		Validate:  promptui.ValidateFunc(check),
		Stdin:     p.Stdin,
		Stdout:    p.Stdout,
	}

	value, err := prompt.Run()
	if err != nil {
		return "", cancelled(err)
	}
	return value, nil
}

func (p *PromptUI) Select(label string, items []string) (int, error) {
	sel := promptui.Select{
		Label:  label,
		Items:  items,
		Size:   p.Size,
		Stdin:  p.Stdin,
		Stdout: p.Stdout,
	}

	idx, _, err := sel.Run()
	if err != nil {
		return -1, cancelled(err)
	}
	return idx, nil
}

func cancelled(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return ErrCancelled
	}
	return err
}

// rule turns a yes/no field validator into a prompt check that rejects with
// msg.
func rule(ok func(string) bool, msg string) func(string) error {
	return func(raw string) error {
		if !ok(raw) {
			return errors.New(msg)
		}
		return nil
	}
}
