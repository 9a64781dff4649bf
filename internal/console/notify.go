// Package console implements the interaction patterns the admin console
// repeats across every entity page: paginated list state, optimistic
// mutations with rollback, and the cross-reference guard run before
// destructive deletes.
package console

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Notifier surfaces operation results to the operator. It is the terminal
// analog of a toast: transient, never fatal.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// TerminalNotifier writes notifications to a stream and mirrors errors to the
// structured log for diagnostics.
type TerminalNotifier struct {
	Out io.Writer
}

// Success prints a success line.
func (n *TerminalNotifier) Success(msg string) {
	fmt.Fprintf(n.Out, "ok: %s\n", msg)
}

// Error prints an error line and logs it.
func (n *TerminalNotifier) Error(msg string) {
	fmt.Fprintf(n.Out, "error: %s\n", msg)
	slog.Error("console operation failed", "message", msg)
}

// Confirmer asks the operator to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// TerminalConfirmer prompts on Out and reads a y/N answer from In.
type TerminalConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// Confirm prints the prompt and returns true only on an explicit yes.
func (c *TerminalConfirmer) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(c.Out, "%s [y/N]: ", prompt)

	reader := bufio.NewReader(c.In)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
