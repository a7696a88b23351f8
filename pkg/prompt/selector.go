// Package prompt provides the interactive list selection used to pick a
// pull request and a workflow.
package prompt

import (
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
)

// ErrCancelled is returned when the user aborts a selection (Ctrl-C, Ctrl-D)
var ErrCancelled = errors.New("selection cancelled by user")

// ErrNoItems is returned when there is nothing to choose from
var ErrNoItems = errors.New("nothing to select")

// DefaultSize is the number of items visible at once
const DefaultSize = 10

// Selector blocks until the user picks one of items and returns its index.
type Selector interface {
	Select(label string, items []string) (int, error)
}

// TerminalSelector is a Selector backed by promptui.
// Nil Stdin/Stdout fall back to the process terminal.
type TerminalSelector struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
	Size   int
}

// NewTerminalSelector returns a selector on the process terminal
func NewTerminalSelector() *TerminalSelector {
	return &TerminalSelector{Size: DefaultSize}
}

var selectTemplates = &promptui.SelectTemplates{
	Label:    "{{ . | bold }}",
	Active:   "▸ {{ . | cyan }}",
	Inactive: "  {{ . }}",
	Selected: "✔ {{ . | green }}",
}

// Select shows items and returns the chosen index.
func (s *TerminalSelector) Select(label string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, ErrNoItems
	}

	size := s.Size
	if size <= 0 {
		size = DefaultSize
	}

	sel := promptui.Select{
		Label:     label,
		Items:     items,
		Size:      size,
		Templates: selectTemplates,
		Stdin:     s.Stdin,
		Stdout:    s.Stdout,
	}

	idx, _, err := sel.Run()
	if err != nil {
		return -1, translateError(err)
	}
	return idx, nil
}

// translateError maps promptui's abort errors to ErrCancelled
func translateError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) || errors.Is(err, promptui.ErrAbort) {
		return ErrCancelled
	}
	return fmt.Errorf("selection failed: %w", err)
}
