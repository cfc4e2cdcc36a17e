package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/langfuse-k8s/langfusectl/internal/runner"
	"github.com/langfuse-k8s/langfusectl/internal/steps"
)

const menuPrompt = "langfusectl> "

// Menu is the interactive selection loop. It renders the step catalog, reads
// one selection at a time and blocks on each outcome before accepting input
// again; no operation is ever in flight concurrently with another.
type Menu struct {
	rl     *readline.Instance
	out    io.Writer
	logger *slog.Logger
}

// newMenu constructs a Menu reading selections from the terminal.
func newMenu(out io.Writer, logger *slog.Logger) (*Menu, error) {
	rl, err := readline.New(menuPrompt)
	if err != nil {
		return nil, fmt.Errorf("initialize terminal reader: %w", err)
	}
	return &Menu{rl: rl, out: out, logger: logger}, nil
}

// Close releases the terminal reader.
func (m *Menu) Close() {
	_ = m.rl.Close()
}

// Confirm asks the operator a yes/no question; only an explicit yes confirms.
func (m *Menu) Confirm(prompt string) (bool, error) {
	m.rl.SetPrompt(prompt + " [y/N]: ")
	defer m.rl.SetPrompt(menuPrompt)

	line, err := m.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// Loop renders the catalog and dispatches selections until quit.
// Step failures are reported and the loop continues, so the operator can
// retry the same or an earlier step.
func (m *Menu) Loop(ctx context.Context, ctrl *runner.Controller) error {
	for {
		m.printCatalog(ctrl.Steps())

		line, err := m.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		selection := strings.ToLower(strings.TrimSpace(line))
		m.logger.Debug("menu selection", "selection", selection)
		switch selection {
		case "":
			continue
		case "q", "quit":
			return nil
		case "a", "all":
			if _, err := ctrl.Run(ctx, runner.FullBatch()); err != nil {
				return err
			}
		default:
			step, ok := stepBySelection(ctrl.Steps(), selection)
			if !ok {
				fmt.Fprintf(m.out, "unknown selection %q\n", selection)
				continue
			}
			if _, err := ctrl.Run(ctx, runner.SingleStep(step.ID)); err != nil {
				return err
			}
		}
	}
}

// printCatalog renders the selectable step list plus the aggregate actions.
func (m *Menu) printCatalog(catalog []steps.Step) {
	fmt.Fprintln(m.out)
	for _, step := range catalog {
		fmt.Fprintf(m.out, " %d) %-18s %s\n", step.Ordinal, step.ID, step.Description)
	}
	fmt.Fprintln(m.out, " A) run all steps in order")
	fmt.Fprintln(m.out, " Q) quit")
}

// stepBySelection resolves a menu selection, by ordinal or step ID, to its catalog step.
func stepBySelection(catalog []steps.Step, selection string) (steps.Step, bool) {
	if ordinal, err := strconv.Atoi(selection); err == nil {
		for _, step := range catalog {
			if step.Ordinal == ordinal {
				return step, true
			}
		}
		return steps.Step{}, false
	}
	for _, step := range catalog {
		if step.ID == selection {
			return step, true
		}
	}
	return steps.Step{}, false
}
