package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kinemetric/pommel/internal/wizard"
)

func newNewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <routine-name>",
		Short: "Create a routine file scaffold",
		Long: `Create a routine YAML file with placeholder timing data.

When running in a terminal (TTY), launches an interactive wizard to collect
element ids and phase markers. In non-interactive environments (CI, pipes),
writes a minimal single-element scaffold.`,
		Args: cobra.ExactArgs(1),
		RunE: runNew,
	}
	return cmd
}

func runNew(cmd *cobra.Command, args []string) error {
	routineName := args[0]
	if err := validateRoutineName(routineName); err != nil {
		return err
	}

	// Check TTY from the command's input stream, not os.Stdin directly.
	inReader := cmd.InOrStdin()
	isTTY := false
	if f, ok := inReader.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}

	var content string
	if isTTY {
		spec, err := wizard.RunRoutineWizard(cmd.InOrStdin(), cmd.OutOrStdout(), routineName)
		if err != nil {
			return err
		}
		content, err = wizard.GenerateRoutineYAML(spec)
		if err != nil {
			return fmt.Errorf("failed to generate routine file: %w", err)
		}
	} else {
		var err error
		content, err = wizard.GenerateRoutineYAML(&wizard.RoutineSpec{
			Name:     routineName,
			Elements: []string{"element-1"},
		})
		if err != nil {
			return fmt.Errorf("failed to generate routine file: %w", err)
		}
	}

	path := routineName + ".yaml"
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "create %s\n", path) //nolint:errcheck
	return nil
}

// validateRoutineName rejects names with path-traversal characters or empty names.
func validateRoutineName(name string) error {
	if name == "" {
		return fmt.Errorf("routine name must not be empty")
	}
	cleaned := filepath.Clean(name)
	if cleaned == ".." || strings.Contains(cleaned, "/") || strings.Contains(cleaned, "\\") {
		return fmt.Errorf("routine name %q contains invalid path characters", name)
	}
	return nil
}
